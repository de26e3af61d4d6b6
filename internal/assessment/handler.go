package assessment

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"net/url"
	"strconv"

	"github.com/americano/backend/internal/calibration"
	"github.com/americano/backend/internal/models"
	"github.com/gorilla/mux"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers assessment, calibration and item-bank endpoints
// on the protected subrouter.
func (h *Handler) RegisterRoutes(protected *mux.Router) {
	protected.HandleFunc("/assessments", h.StartAssessment).Methods("POST")
	protected.HandleFunc("/assessments/{token}", h.GetSession).Methods("GET")
	protected.HandleFunc("/assessments/{token}/next", h.GetNextItem).Methods("GET")
	protected.HandleFunc("/assessments/{token}/responses", h.SubmitResponse).Methods("POST")

	protected.HandleFunc("/calibration/trend", h.GetCalibrationTrend).Methods("GET")

	protected.HandleFunc("/items", h.CreateItem).Methods("POST")
	protected.HandleFunc("/items", h.ListItems).Methods("GET")
	protected.HandleFunc("/items/{id}/analysis", h.GetItemAnalysis).Methods("GET")
}

// getUserID extracts the authenticated user ID from the request context.
func getUserID(r *http.Request) (int64, bool) {
	uid, ok := r.Context().Value("user_id").(int64)
	return uid, ok
}

func (h *Handler) StartAssessment(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	var req models.StartAssessmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if req.Topic == "" {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "topic is required"})
		return
	}

	resp, err := h.service.StartSession(userID, req.Topic)
	if err != nil {
		log.Printf("[handler] StartAssessment error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to start assessment"})
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}

func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	token := mux.Vars(r)["token"]
	resp, err := h.service.SessionState(userID, token)
	if err != nil {
		if errors.Is(err, ErrSessionNotOwned) {
			writeJSON(w, http.StatusForbidden, models.ErrorResponse{Error: "Session belongs to another user"})
			return
		}
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Session not found"})
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) GetNextItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	token := mux.Vars(r)["token"]
	item, err := h.service.NextItem(userID, token)
	if err != nil {
		switch {
		case errors.Is(err, ErrSessionNotOwned):
			writeJSON(w, http.StatusForbidden, models.ErrorResponse{Error: "Session belongs to another user"})
		case errors.Is(err, ErrSessionFinished):
			writeJSON(w, http.StatusConflict, models.ErrorResponse{Error: "Session is no longer active"})
		default:
			writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Session not found"})
		}
		return
	}

	if item == nil {
		writeJSON(w, http.StatusOK, map[string]interface{}{"item": nil, "exhausted": true})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"item": item, "exhausted": false})
}

func (h *Handler) SubmitResponse(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	token := mux.Vars(r)["token"]

	var req models.SubmitResponseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if req.ItemID <= 0 {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "item_id is required"})
		return
	}
	if req.SelectedOption < 0 {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "selected_option must be non-negative"})
		return
	}
	// Confidence ranges are checked before the service runs: a response row
	// is permanent once inserted, so a bad rating must not get that far.
	if req.Confidence != nil && !calibration.ValidConfidence(*req.Confidence, req.ConfidenceLikert) {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "confidence is out of range for its scale"})
		return
	}
	if req.PostConfidence != nil && !calibration.ValidConfidence(*req.PostConfidence, req.ConfidenceLikert) {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "post_confidence is out of range for its scale"})
		return
	}

	resp, err := h.service.SubmitResponse(userID, token, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrSessionNotOwned):
			writeJSON(w, http.StatusForbidden, models.ErrorResponse{Error: "Session belongs to another user"})
		case errors.Is(err, ErrSessionFinished):
			writeJSON(w, http.StatusConflict, models.ErrorResponse{Error: "Session is no longer active"})
		case errors.Is(err, ErrItemNotFound):
			writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Item not found"})
		default:
			log.Printf("[handler] SubmitResponse error: %v", err)
			writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Failed to submit response: " + err.Error()})
		}
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) GetCalibrationTrend(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	resp, err := h.service.CalibrationTrend(userID)
	if err != nil {
		log.Printf("[handler] GetCalibrationTrend error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to get calibration trend"})
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// ── Item Bank Handlers ──────────────────────────────────

func (h *Handler) CreateItem(w http.ResponseWriter, r *http.Request) {
	var req models.CreateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if req.Topic == "" || req.Stem == "" {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "topic and stem are required"})
		return
	}
	if len(req.Options) < 2 {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "at least two options are required"})
		return
	}
	if req.CorrectOption < 0 || req.CorrectOption >= len(req.Options) {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "correct_option must index into options"})
		return
	}
	if req.DifficultyScore < 0 || req.DifficultyScore > 100 {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "difficulty_score must be between 0 and 100"})
		return
	}

	item, err := h.service.CreateItem(req)
	if err != nil {
		log.Printf("[handler] CreateItem error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to create item"})
		return
	}

	writeJSON(w, http.StatusCreated, item)
}

func (h *Handler) ListItems(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	var topic *string
	if t := query.Get("topic"); t != "" {
		topic = &t
	}

	limit := intQueryParam(query, "limit", 20)
	offset := intQueryParam(query, "offset", 0)

	items, total, err := h.service.ListItems(topic, limit, offset)
	if err != nil {
		log.Printf("[handler] ListItems error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to list items"})
		return
	}

	if items == nil {
		items = []models.Item{}
	}
	writeJSON(w, http.StatusOK, models.ItemListResponse{Items: items, Total: total})
}

func (h *Handler) GetItemAnalysis(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid item ID"})
		return
	}

	resp, err := h.service.ItemAnalysis(id)
	if err != nil {
		switch {
		case errors.Is(err, ErrItemNotFound):
			writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Item not found"})
		case errors.Is(err, ErrNotEnoughRaters):
			writeJSON(w, http.StatusUnprocessableEntity, models.ErrorResponse{Error: "Not enough respondents to analyze this item"})
		default:
			log.Printf("[handler] GetItemAnalysis error: %v", err)
			writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to analyze item"})
		}
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func intQueryParam(query url.Values, key string, defaultVal int) int {
	s := query.Get(key)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		return defaultVal
	}
	return v
}
