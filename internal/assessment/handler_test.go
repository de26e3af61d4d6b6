package assessment

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
)

// submitRequest drives the submit-response route with an authenticated
// request body. The handler under test has no database behind it, so only
// requests rejected before the service runs may be exercised here.
func submitRequest(t *testing.T, body string) *httptest.ResponseRecorder {
	t.Helper()

	handler := NewHandler(NewService(NewStore(nil)))
	router := mux.NewRouter()
	handler.RegisterRoutes(router)

	req := httptest.NewRequest("POST", "/assessments/some-token/responses", strings.NewReader(body))
	req = req.WithContext(context.WithValue(req.Context(), "user_id", int64(1)))

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestSubmitResponseRejectsOutOfRangeConfidence(t *testing.T) {
	// A response row is permanent once inserted, so a bad confidence value
	// must be rejected before anything touches the store.
	tests := []struct {
		name string
		body string
	}{
		{
			name: "percent confidence above 100",
			body: `{"item_id": 1, "selected_option": 0, "confidence": 150}`,
		},
		{
			name: "negative percent confidence",
			body: `{"item_id": 1, "selected_option": 0, "confidence": -5}`,
		},
		{
			name: "likert rating above 5",
			body: `{"item_id": 1, "selected_option": 0, "confidence": 6, "confidence_likert": true}`,
		},
		{
			name: "likert rating below 1",
			body: `{"item_id": 1, "selected_option": 0, "confidence": 0, "confidence_likert": true}`,
		},
		{
			name: "post confidence out of range",
			body: `{"item_id": 1, "selected_option": 0, "confidence": 80, "post_confidence": 150}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := submitRequest(t, tt.body)
			if rr.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want %d", rr.Code, http.StatusBadRequest)
			}
		})
	}
}

func TestSubmitResponseRejectsMissingItemID(t *testing.T) {
	rr := submitRequest(t, `{"selected_option": 0}`)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusBadRequest)
	}
}
