package progress

import (
	"database/sql"
	"fmt"

	"github.com/americano/backend/internal/models"
)

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// GetOrCreate loads the user's progress row, creating the default row on
// first contact.
func (s *Store) GetOrCreate(userID int64) (*models.UserProgress, error) {
	if _, err := s.db.Exec(
		`INSERT INTO user_progress (user_id) VALUES ($1) ON CONFLICT (user_id) DO NOTHING`,
		userID,
	); err != nil {
		return nil, fmt.Errorf("ensure progress row: %w", err)
	}

	var p models.UserProgress
	err := s.db.QueryRow(
		`SELECT user_id, momentum, current_streak, longest_streak, last_active_date,
		        daily_goal_target, daily_goal_progress, daily_goal_date,
		        responses_total, correct_total, updated_at
		 FROM user_progress WHERE user_id = $1`,
		userID,
	).Scan(&p.UserID, &p.Momentum, &p.CurrentStreak, &p.LongestStreak,
		&p.LastActiveDate, &p.DailyGoalTarget, &p.DailyGoalProgress,
		&p.DailyGoalDate, &p.ResponsesTotal, &p.CorrectTotal, &p.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("get progress: %w", err)
	}
	return &p, nil
}

func (s *Store) Save(p *models.UserProgress) error {
	_, err := s.db.Exec(
		`UPDATE user_progress
		 SET momentum = $1, current_streak = $2, longest_streak = $3,
		     last_active_date = $4, daily_goal_target = $5, daily_goal_progress = $6,
		     daily_goal_date = $7, responses_total = $8, correct_total = $9,
		     updated_at = NOW()
		 WHERE user_id = $10`,
		p.Momentum, p.CurrentStreak, p.LongestStreak, p.LastActiveDate,
		p.DailyGoalTarget, p.DailyGoalProgress, p.DailyGoalDate,
		p.ResponsesTotal, p.CorrectTotal, p.UserID,
	)
	if err != nil {
		return fmt.Errorf("save progress: %w", err)
	}
	return nil
}
