package progress

import (
	"fmt"
	"time"

	"github.com/americano/backend/internal/models"
)

type Service struct {
	store *Store
}

func NewService(store *Store) *Service {
	return &Service{store: store}
}

// RecordResponse updates streak, daily goal and momentum after one graded
// response. abilityDisplay is the respondent's latest ability on the 0-100
// scale, used for the challenge bonus.
func (s *Service) RecordResponse(userID int64, correct bool, difficultyScore, abilityDisplay float64) error {
	p, err := s.store.GetOrCreate(userID)
	if err != nil {
		return err
	}

	now := time.Now()
	today := dateOnly(now)

	updateStreak(p, today)

	// Daily goal resets when the calendar day changes
	if !sameDay(p.DailyGoalDate, today) {
		p.DailyGoalDate = today
		p.DailyGoalProgress = 0
	}
	p.DailyGoalProgress++

	p.ResponsesTotal++
	if correct {
		p.CorrectTotal++
		points := BaseMomentum(difficultyScore) + ChallengeBonus(abilityDisplay, difficultyScore)
		p.Momentum += int64(ApplyMultiplier(points, StreakMultiplier(p.CurrentStreak)))
	}

	return s.store.Save(p)
}

func (s *Service) GetProgress(userID int64) (*models.UserProgress, error) {
	return s.store.GetOrCreate(userID)
}

func (s *Service) SetDailyGoal(userID int64, target int) (*models.UserProgress, error) {
	if target < 1 || target > 100 {
		return nil, fmt.Errorf("daily goal target must be between 1 and 100")
	}
	p, err := s.store.GetOrCreate(userID)
	if err != nil {
		return nil, err
	}
	p.DailyGoalTarget = target
	if err := s.store.Save(p); err != nil {
		return nil, err
	}
	return p, nil
}

// updateStreak continues the streak on consecutive active days and resets
// it after a gap.
func updateStreak(p *models.UserProgress, today time.Time) {
	switch {
	case p.LastActiveDate == nil:
		p.CurrentStreak = 1
	case sameDay(*p.LastActiveDate, today):
		// Already counted today
	case sameDay(*p.LastActiveDate, today.AddDate(0, 0, -1)):
		p.CurrentStreak++
	default:
		p.CurrentStreak = 1
	}

	if p.CurrentStreak > p.LongestStreak {
		p.LongestStreak = p.CurrentStreak
	}
	p.LastActiveDate = &today
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
