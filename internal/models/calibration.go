package models

import (
	"time"

	"github.com/americano/backend/internal/calibration"
)

// CalibrationRecord is one persisted confidence-vs-performance comparison.
// The 7-day window read back for trend classification comes from these rows.
type CalibrationRecord struct {
	ID         int64                `json:"id"`
	UserID     int64                `json:"user_id"`
	SessionID  int64                `json:"session_id"`
	Confidence float64              `json:"confidence"`
	Score      float64              `json:"score"`
	Delta      float64              `json:"delta"`
	Category   calibration.Category `json:"category"`
	CreatedAt  time.Time            `json:"created_at"`
}

type TrendResponse struct {
	Trend        *calibration.Trend `json:"trend,omitempty"`
	TrendMessage string             `json:"trend_message,omitempty"`
	WindowDays   int                `json:"window_days"`
	DataPoints   int                `json:"data_points"`
}
