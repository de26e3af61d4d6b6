package assessment

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/americano/backend/internal/models"
)

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// ── Item Bank ───────────────────────────────────────────

func (s *Store) CreateItem(req models.CreateItemRequest) (*models.Item, error) {
	optionsJSON, err := json.Marshal(req.Options)
	if err != nil {
		return nil, fmt.Errorf("marshal options: %w", err)
	}

	var item models.Item
	var rawOptions []byte
	err = s.db.QueryRow(
		`INSERT INTO items (topic, stem, options, correct_option, difficulty_score)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, topic, stem, options, correct_option, difficulty_score,
		           active, flagged_for_review, times_served, times_correct, created_at`,
		req.Topic, req.Stem, optionsJSON, req.CorrectOption, req.DifficultyScore,
	).Scan(&item.ID, &item.Topic, &item.Stem, &rawOptions, &item.CorrectOption,
		&item.DifficultyScore, &item.Active, &item.FlaggedForReview,
		&item.TimesServed, &item.TimesCorrect, &item.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create item: %w", err)
	}
	if err := json.Unmarshal(rawOptions, &item.Options); err != nil {
		return nil, fmt.Errorf("unmarshal options: %w", err)
	}
	return &item, nil
}

func (s *Store) GetItem(itemID int64) (*models.Item, error) {
	var item models.Item
	var rawOptions []byte
	err := s.db.QueryRow(
		`SELECT id, topic, stem, options, correct_option, difficulty_score,
		        active, flagged_for_review, times_served, times_correct, created_at
		 FROM items WHERE id = $1`,
		itemID,
	).Scan(&item.ID, &item.Topic, &item.Stem, &rawOptions, &item.CorrectOption,
		&item.DifficultyScore, &item.Active, &item.FlaggedForReview,
		&item.TimesServed, &item.TimesCorrect, &item.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	if err := json.Unmarshal(rawOptions, &item.Options); err != nil {
		return nil, fmt.Errorf("unmarshal options: %w", err)
	}
	return &item, nil
}

func (s *Store) ListItems(topic *string, limit, offset int) ([]models.Item, int, error) {
	var rows *sql.Rows
	var err error

	selectCols := `id, topic, stem, options, correct_option, difficulty_score,
	        active, flagged_for_review, times_served, times_correct, created_at`

	if topic != nil {
		rows, err = s.db.Query(
			fmt.Sprintf(`SELECT %s FROM items WHERE topic = $1
			 ORDER BY created_at DESC LIMIT $2 OFFSET $3`, selectCols),
			*topic, limit, offset,
		)
	} else {
		rows, err = s.db.Query(
			fmt.Sprintf(`SELECT %s FROM items
			 ORDER BY created_at DESC LIMIT $1 OFFSET $2`, selectCols),
			limit, offset,
		)
	}
	if err != nil {
		return nil, 0, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	var items []models.Item
	for rows.Next() {
		var item models.Item
		var rawOptions []byte
		if err := rows.Scan(&item.ID, &item.Topic, &item.Stem, &rawOptions,
			&item.CorrectOption, &item.DifficultyScore, &item.Active,
			&item.FlaggedForReview, &item.TimesServed, &item.TimesCorrect,
			&item.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan item: %w", err)
		}
		if err := json.Unmarshal(rawOptions, &item.Options); err != nil {
			return nil, 0, fmt.Errorf("unmarshal options: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int
	if topic != nil {
		err = s.db.QueryRow(`SELECT COUNT(*) FROM items WHERE topic = $1`, *topic).Scan(&total)
	} else {
		err = s.db.QueryRow(`SELECT COUNT(*) FROM items`).Scan(&total)
	}
	if err != nil {
		return nil, 0, fmt.Errorf("count items: %w", err)
	}

	return items, total, nil
}

func (s *Store) IncrementItemStats(itemID int64, correct bool) error {
	correctInc := 0
	if correct {
		correctInc = 1
	}
	_, err := s.db.Exec(
		`UPDATE items SET times_served = times_served + 1, times_correct = times_correct + $1 WHERE id = $2`,
		correctInc, itemID,
	)
	return err
}

func (s *Store) FlagItemForReview(itemID int64, flagged bool) error {
	_, err := s.db.Exec(
		`UPDATE items SET flagged_for_review = $1 WHERE id = $2`,
		flagged, itemID,
	)
	return err
}

// NextUnseenItem returns the active item in the session's topic closest to
// the target difficulty that the session has not answered yet.
func (s *Store) NextUnseenItem(sessionID int64, topic string, targetDifficulty float64) (*models.Item, error) {
	var item models.Item
	var rawOptions []byte
	err := s.db.QueryRow(
		`SELECT id, topic, stem, options, correct_option, difficulty_score,
		        active, flagged_for_review, times_served, times_correct, created_at
		 FROM items
		 WHERE topic = $1 AND active = TRUE
		   AND id NOT IN (SELECT item_id FROM assessment_responses WHERE session_id = $2)
		 ORDER BY ABS(difficulty_score - $3), times_served
		 LIMIT 1`,
		topic, sessionID, targetDifficulty,
	).Scan(&item.ID, &item.Topic, &item.Stem, &rawOptions, &item.CorrectOption,
		&item.DifficultyScore, &item.Active, &item.FlaggedForReview,
		&item.TimesServed, &item.TimesCorrect, &item.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("next unseen item: %w", err)
	}
	if err := json.Unmarshal(rawOptions, &item.Options); err != nil {
		return nil, fmt.Errorf("unmarshal options: %w", err)
	}
	return &item, nil
}

// ── Sessions ────────────────────────────────────────────

func (s *Store) CreateSession(userID int64, token, topic string) (*models.AssessmentSession, error) {
	var session models.AssessmentSession
	err := s.db.QueryRow(
		`INSERT INTO assessment_sessions (token, user_id, topic, status)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, token, user_id, topic, status, started_at`,
		token, userID, topic, models.SessionActive,
	).Scan(&session.ID, &session.Token, &session.UserID, &session.Topic,
		&session.Status, &session.StartedAt)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return &session, nil
}

func (s *Store) GetSessionByToken(token string) (*models.AssessmentSession, error) {
	var session models.AssessmentSession
	err := s.db.QueryRow(
		`SELECT id, token, user_id, topic, status, started_at, completed_at
		 FROM assessment_sessions WHERE token = $1`,
		token,
	).Scan(&session.ID, &session.Token, &session.UserID, &session.Topic,
		&session.Status, &session.StartedAt, &session.CompletedAt)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	return &session, nil
}

func (s *Store) CompleteSession(sessionID int64) error {
	_, err := s.db.Exec(
		`UPDATE assessment_sessions SET status = $1, completed_at = NOW() WHERE id = $2`,
		models.SessionCompleted, sessionID,
	)
	return err
}

// ── Responses ───────────────────────────────────────────

func (s *Store) InsertResponse(resp *models.AssessmentResponse) error {
	return s.db.QueryRow(
		`INSERT INTO assessment_responses
		 (session_id, item_id, selected_option, correct, difficulty_score, confidence, time_spent_seconds)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, answered_at`,
		resp.SessionID, resp.ItemID, resp.SelectedOption, resp.Correct,
		resp.DifficultyScore, resp.Confidence, resp.TimeSpentSeconds,
	).Scan(&resp.ID, &resp.AnsweredAt)
}

// GetSessionResponses returns the session's full response history in answer
// order, the input the estimator recomputes over on every call.
func (s *Store) GetSessionResponses(sessionID int64) ([]models.AssessmentResponse, error) {
	rows, err := s.db.Query(
		`SELECT id, session_id, item_id, selected_option, correct,
		        difficulty_score, confidence, time_spent_seconds, answered_at
		 FROM assessment_responses
		 WHERE session_id = $1
		 ORDER BY answered_at, id`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("get session responses: %w", err)
	}
	defer rows.Close()

	var responses []models.AssessmentResponse
	for rows.Next() {
		var r models.AssessmentResponse
		if err := rows.Scan(&r.ID, &r.SessionID, &r.ItemID, &r.SelectedOption,
			&r.Correct, &r.DifficultyScore, &r.Confidence, &r.TimeSpentSeconds,
			&r.AnsweredAt); err != nil {
			return nil, fmt.Errorf("scan response: %w", err)
		}
		responses = append(responses, r)
	}
	return responses, rows.Err()
}

// ── Ability Snapshots ───────────────────────────────────

func (s *Store) SaveSnapshot(snapshot *models.AbilitySnapshot) error {
	return s.db.QueryRow(
		`INSERT INTO ability_snapshots
		 (session_id, theta, standard_error, confidence_interval, iterations, converged, responses_seen)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, created_at`,
		snapshot.SessionID, snapshot.Theta, snapshot.StandardError,
		snapshot.ConfidenceInterval, snapshot.Iterations, snapshot.Converged,
		snapshot.ResponsesSeen,
	).Scan(&snapshot.ID, &snapshot.CreatedAt)
}

func (s *Store) LatestSnapshot(sessionID int64) (*models.AbilitySnapshot, error) {
	var snap models.AbilitySnapshot
	err := s.db.QueryRow(
		`SELECT id, session_id, theta, standard_error, confidence_interval,
		        iterations, converged, responses_seen, created_at
		 FROM ability_snapshots
		 WHERE session_id = $1
		 ORDER BY created_at DESC, id DESC
		 LIMIT 1`,
		sessionID,
	).Scan(&snap.ID, &snap.SessionID, &snap.Theta, &snap.StandardError,
		&snap.ConfidenceInterval, &snap.Iterations, &snap.Converged,
		&snap.ResponsesSeen, &snap.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("latest snapshot: %w", err)
	}
	return &snap, nil
}

// ── Calibration Records ─────────────────────────────────

func (s *Store) InsertCalibrationRecord(rec *models.CalibrationRecord) error {
	return s.db.QueryRow(
		`INSERT INTO calibration_records (user_id, session_id, confidence, score, delta, category)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at`,
		rec.UserID, rec.SessionID, rec.Confidence, rec.Score, rec.Delta, rec.Category,
	).Scan(&rec.ID, &rec.CreatedAt)
}

// GetCalibrationDeltas returns the user's deltas since the cutoff, oldest
// first, the rolling window the trend classifier consumes.
func (s *Store) GetCalibrationDeltas(userID int64, since time.Time) ([]float64, error) {
	rows, err := s.db.Query(
		`SELECT delta FROM calibration_records
		 WHERE user_id = $1 AND created_at >= $2
		 ORDER BY created_at, id`,
		userID, since,
	)
	if err != nil {
		return nil, fmt.Errorf("get calibration deltas: %w", err)
	}
	defer rows.Close()

	var deltas []float64
	for rows.Next() {
		var d float64
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("scan delta: %w", err)
		}
		deltas = append(deltas, d)
	}
	return deltas, rows.Err()
}

// ── Item Analysis ───────────────────────────────────────

// RespondentItemStat pairs a respondent's overall proportion-correct with
// how they did on one specific item.
type RespondentItemStat struct {
	UserID       int64
	OverallScore float64
	ItemCorrect  bool
}

// GetItemRespondentStats returns, for every user who answered the item,
// their overall proportion-correct across all responses and whether they
// answered this item correctly.
func (s *Store) GetItemRespondentStats(itemID int64) ([]RespondentItemStat, error) {
	rows, err := s.db.Query(
		`SELECT sess.user_id,
		        AVG(CASE WHEN ar.correct THEN 1.0 ELSE 0.0 END) AS overall_score,
		        BOOL_OR(ar.item_id = $1 AND ar.correct) AS item_correct
		 FROM assessment_responses ar
		 JOIN assessment_sessions sess ON sess.id = ar.session_id
		 WHERE sess.user_id IN (
		     SELECT s2.user_id
		     FROM assessment_responses ar2
		     JOIN assessment_sessions s2 ON s2.id = ar2.session_id
		     WHERE ar2.item_id = $1
		 )
		 GROUP BY sess.user_id`,
		itemID,
	)
	if err != nil {
		return nil, fmt.Errorf("item respondent stats: %w", err)
	}
	defer rows.Close()

	var stats []RespondentItemStat
	for rows.Next() {
		var st RespondentItemStat
		if err := rows.Scan(&st.UserID, &st.OverallScore, &st.ItemCorrect); err != nil {
			return nil, fmt.Errorf("scan respondent stat: %w", err)
		}
		stats = append(stats, st)
	}
	return stats, rows.Err()
}

// BaselineResponseTime is the user's long-run mean time per response, used
// as the reference for the slowdown struggle rule. Returns 0 when the user
// has no timed responses.
func (s *Store) BaselineResponseTime(userID int64) (float64, error) {
	var baseline sql.NullFloat64
	err := s.db.QueryRow(
		`SELECT AVG(ar.time_spent_seconds)
		 FROM assessment_responses ar
		 JOIN assessment_sessions sess ON sess.id = ar.session_id
		 WHERE sess.user_id = $1 AND ar.time_spent_seconds IS NOT NULL`,
		userID,
	).Scan(&baseline)
	if err != nil {
		return 0, fmt.Errorf("baseline response time: %w", err)
	}
	if !baseline.Valid {
		return 0, nil
	}
	return baseline.Float64, nil
}
