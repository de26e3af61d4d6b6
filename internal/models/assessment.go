package models

import (
	"time"

	"github.com/americano/backend/internal/analytics"
	"github.com/americano/backend/internal/calibration"
	"github.com/americano/backend/internal/irt"
)

type SessionStatus string

const (
	SessionActive    SessionStatus = "active"
	SessionCompleted SessionStatus = "completed"
	SessionAbandoned SessionStatus = "abandoned"
)

// AssessmentSession is one adaptive testing run. Token is the public
// identifier handed to clients; the row ID stays internal.
type AssessmentSession struct {
	ID          int64         `json:"-"`
	Token       string        `json:"token"`
	UserID      int64         `json:"user_id"`
	Topic       string        `json:"topic"`
	Status      SessionStatus `json:"status"`
	StartedAt   time.Time     `json:"started_at"`
	CompletedAt *time.Time    `json:"completed_at,omitempty"`
}

// AssessmentResponse is one answered item within a session. Rows are
// append-only; the estimator reads them back in answer order.
type AssessmentResponse struct {
	ID               int64     `json:"id"`
	SessionID        int64     `json:"session_id"`
	ItemID           int64     `json:"item_id"`
	SelectedOption   int       `json:"selected_option"`
	Correct          bool      `json:"correct"`
	DifficultyScore  float64   `json:"difficulty_score"`
	Confidence       *float64  `json:"confidence,omitempty"`
	TimeSpentSeconds *float64  `json:"time_spent_seconds,omitempty"`
	AnsweredAt       time.Time `json:"answered_at"`
}

// AbilitySnapshot is the persisted estimate after each response.
type AbilitySnapshot struct {
	ID                 int64     `json:"id"`
	SessionID          int64     `json:"session_id"`
	Theta              float64   `json:"theta"`
	StandardError      float64   `json:"standard_error"`
	ConfidenceInterval float64   `json:"confidence_interval"`
	Iterations         int       `json:"iterations"`
	Converged          bool      `json:"converged"`
	ResponsesSeen      int       `json:"responses_seen"`
	CreatedAt          time.Time `json:"created_at"`
}

// ── API Request/Response Types ────────────────────────────

type StartAssessmentRequest struct {
	Topic string `json:"topic"`
}

type StartAssessmentResponse struct {
	Session   AssessmentSession `json:"session"`
	FirstItem *Item             `json:"first_item,omitempty"`
}

// SubmitResponseRequest records an answer. Confidence is optional; when
// ConfidenceLikert is true it is read as a 1-5 rating, otherwise 0-100.
type SubmitResponseRequest struct {
	ItemID           int64    `json:"item_id"`
	SelectedOption   int      `json:"selected_option"`
	Confidence       *float64 `json:"confidence,omitempty"`
	PostConfidence   *float64 `json:"post_confidence,omitempty"`
	ConfidenceLikert bool     `json:"confidence_likert,omitempty"`
	TimeSpentSeconds *float64 `json:"time_spent_seconds,omitempty"`
}

type SubmitResponseResponse struct {
	Correct        bool                    `json:"correct"`
	CorrectOption  int                     `json:"correct_option"`
	Estimate       irt.AbilityEstimate     `json:"estimate"`
	DisplayAbility float64                 `json:"display_ability"`
	DisplayCI      float64                 `json:"display_ci"`
	Level          irt.KnowledgeLevel      `json:"level"`
	Stopping       irt.StoppingDecision    `json:"stopping"`
	Calibration    *calibration.Assessment `json:"calibration,omitempty"`
	Struggle       *analytics.Report       `json:"struggle,omitempty"`
	NextItem       *Item                   `json:"next_item,omitempty"`
}

type SessionStateResponse struct {
	Session        AssessmentSession    `json:"session"`
	ResponsesSeen  int                  `json:"responses_seen"`
	Estimate       *irt.AbilityEstimate `json:"estimate,omitempty"`
	DisplayAbility *float64             `json:"display_ability,omitempty"`
	Level          *irt.KnowledgeLevel  `json:"level,omitempty"`
}
