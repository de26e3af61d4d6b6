package insights

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/americano/backend/internal/models"
	"github.com/gorilla/mux"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(protected *mux.Router) {
	protected.HandleFunc("/insights", h.GetInsights).Methods("GET")
}

func (h *Handler) GetInsights(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("user_id").(int64)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	resp, err := h.service.GenerateForUser(r.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrNotEnoughData) {
			writeJSON(w, http.StatusUnprocessableEntity, models.ErrorResponse{Error: "Complete an assessment before requesting insights"})
			return
		}
		log.Printf("[handler] GetInsights error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to generate insights"})
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
