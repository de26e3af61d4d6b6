package models

import "time"

// UserProgress tracks behavioral engagement: streaks, the daily goal and
// accumulated momentum points.
type UserProgress struct {
	UserID            int64      `json:"user_id"`
	Momentum          int64      `json:"momentum"`
	CurrentStreak     int        `json:"current_streak"`
	LongestStreak     int        `json:"longest_streak"`
	LastActiveDate    *time.Time `json:"last_active_date,omitempty"`
	DailyGoalTarget   int        `json:"daily_goal_target"`
	DailyGoalProgress int        `json:"daily_goal_progress"`
	DailyGoalDate     time.Time  `json:"daily_goal_date"`
	ResponsesTotal    int        `json:"responses_total"`
	CorrectTotal      int        `json:"correct_total"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

type DailyGoalRequest struct {
	Target int `json:"target"`
}
