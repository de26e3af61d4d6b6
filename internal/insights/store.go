package insights

import (
	"database/sql"
	"fmt"
	"time"
)

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// UserSummary aggregates the respondent's assessment history for the
// insight prompt.
type UserSummary struct {
	Theta              float64
	ConfidenceInterval float64
	ResponsesSeen      int
	SessionsComplete   int
	ResponsesTotal     int
	CorrectTotal       int
}

type TopicStat struct {
	Topic     string
	Responses int
	Correct   int
}

// LatestAbility returns the most recent ability snapshot across all of the
// user's sessions.
func (s *Store) LatestAbility(userID int64) (*UserSummary, error) {
	summary := &UserSummary{}

	err := s.db.QueryRow(`
		SELECT snap.theta, snap.confidence_interval, snap.responses_seen
		FROM ability_snapshots snap
		JOIN assessment_sessions sess ON sess.id = snap.session_id
		WHERE sess.user_id = $1
		ORDER BY snap.created_at DESC, snap.id DESC
		LIMIT 1`,
		userID,
	).Scan(&summary.Theta, &summary.ConfidenceInterval, &summary.ResponsesSeen)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query latest ability: %w", err)
	}

	err = s.db.QueryRow(`
		SELECT
			COUNT(DISTINCT sess.id) FILTER (WHERE sess.status = 'completed'),
			COUNT(r.id),
			COUNT(r.id) FILTER (WHERE r.correct)
		FROM assessment_sessions sess
		LEFT JOIN assessment_responses r ON r.session_id = sess.id
		WHERE sess.user_id = $1`,
		userID,
	).Scan(&summary.SessionsComplete, &summary.ResponsesTotal, &summary.CorrectTotal)
	if err != nil {
		return nil, fmt.Errorf("query user totals: %w", err)
	}

	return summary, nil
}

// MeanAbsDelta returns the mean absolute confidence gap over the window,
// and the number of records it covers.
func (s *Store) MeanAbsDelta(userID int64, since time.Time) (float64, int, error) {
	var mean sql.NullFloat64
	var count int
	err := s.db.QueryRow(`
		SELECT AVG(ABS(delta)), COUNT(*)
		FROM calibration_records
		WHERE user_id = $1 AND created_at >= $2`,
		userID, since,
	).Scan(&mean, &count)
	if err != nil {
		return 0, 0, fmt.Errorf("query mean delta: %w", err)
	}
	return mean.Float64, count, nil
}

// TopicAccuracy returns per-topic response counts for the user, most
// answered topics first.
func (s *Store) TopicAccuracy(userID int64) ([]TopicStat, error) {
	rows, err := s.db.Query(`
		SELECT i.topic, COUNT(r.id), COUNT(r.id) FILTER (WHERE r.correct)
		FROM assessment_responses r
		JOIN assessment_sessions sess ON sess.id = r.session_id
		JOIN items i ON i.id = r.item_id
		WHERE sess.user_id = $1
		GROUP BY i.topic
		ORDER BY COUNT(r.id) DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("query topic accuracy: %w", err)
	}
	defer rows.Close()

	var statsOut []TopicStat
	for rows.Next() {
		var ts TopicStat
		if err := rows.Scan(&ts.Topic, &ts.Responses, &ts.Correct); err != nil {
			return nil, fmt.Errorf("scan topic stat: %w", err)
		}
		statsOut = append(statsOut, ts)
	}
	return statsOut, rows.Err()
}
