package assessment

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/americano/backend/internal/analytics"
	"github.com/americano/backend/internal/calibration"
	"github.com/americano/backend/internal/irt"
	"github.com/americano/backend/internal/models"
	"github.com/americano/backend/internal/progress"
	"github.com/google/uuid"
	"github.com/montanaflynn/stats"
)

// CalibrationWindowDays is the rolling window for calibration trends.
const CalibrationWindowDays = 7

// struggleWindow is how many recent responses the struggle rules inspect.
const struggleWindow = 5

var (
	ErrSessionNotOwned = errors.New("session does not belong to this user")
	ErrSessionFinished = errors.New("session is no longer active")
	ErrItemNotFound    = errors.New("item not found")
	ErrNotEnoughRaters = errors.New("not enough respondents to analyze this item")
)

type Service struct {
	store    *Store
	progress *progress.Service
}

func NewService(store *Store) *Service {
	return &Service{store: store}
}

// SetProgressService injects the progress service for streak/goal tracking.
func (s *Service) SetProgressService(ps *progress.Service) {
	s.progress = ps
}

// ── Sessions ────────────────────────────────────────────

func (s *Service) StartSession(userID int64, topic string) (*models.StartAssessmentResponse, error) {
	token := uuid.NewString()
	session, err := s.store.CreateSession(userID, token, topic)
	if err != nil {
		return nil, fmt.Errorf("start session: %w", err)
	}

	// First item: medium difficulty, nothing known about the respondent yet
	first, err := s.store.NextUnseenItem(session.ID, topic, irt.DisplayMidpoint)
	if err != nil {
		return nil, fmt.Errorf("first item: %w", err)
	}
	if first != nil {
		first.CorrectOption = 0 // not revealed before answering
	}

	return &models.StartAssessmentResponse{Session: *session, FirstItem: first}, nil
}

func (s *Service) SessionState(userID int64, token string) (*models.SessionStateResponse, error) {
	session, err := s.store.GetSessionByToken(token)
	if err != nil {
		return nil, fmt.Errorf("session state: %w", err)
	}
	if session.UserID != userID {
		return nil, ErrSessionNotOwned
	}

	responses, err := s.store.GetSessionResponses(session.ID)
	if err != nil {
		return nil, err
	}

	resp := &models.SessionStateResponse{
		Session:       *session,
		ResponsesSeen: len(responses),
	}

	snap, err := s.store.LatestSnapshot(session.ID)
	if err != nil {
		return nil, err
	}
	if snap != nil {
		estimate := irt.AbilityEstimate{
			Theta:              snap.Theta,
			StandardError:      snap.StandardError,
			ConfidenceInterval: snap.ConfidenceInterval,
			Iterations:         snap.Iterations,
			Converged:          snap.Converged,
		}
		display := irt.ThetaToDisplay(snap.Theta)
		level := irt.DescribeKnowledgeLevel(snap.Theta)
		resp.Estimate = &estimate
		resp.DisplayAbility = &display
		resp.Level = &level
	}

	return resp, nil
}

// NextItem returns the adaptive pick for an active session without grading
// anything: the unseen item closest to the current ability estimate.
func (s *Service) NextItem(userID int64, token string) (*models.Item, error) {
	session, err := s.store.GetSessionByToken(token)
	if err != nil {
		return nil, err
	}
	if session.UserID != userID {
		return nil, ErrSessionNotOwned
	}
	if session.Status != models.SessionActive {
		return nil, ErrSessionFinished
	}

	target := irt.DisplayMidpoint
	if snap, err := s.store.LatestSnapshot(session.ID); err == nil && snap != nil {
		target = irt.ThetaToDisplay(snap.Theta)
	}

	item, err := s.store.NextUnseenItem(session.ID, session.Topic, target)
	if err != nil {
		return nil, err
	}
	if item != nil {
		item.CorrectOption = 0
	}
	return item, nil
}

// ── Response Submission ─────────────────────────────────

// SubmitResponse grades one answer, appends it to the session history,
// refits the ability estimate over the full history, applies the stopping
// rule, and runs the calibration and struggle analyses when their inputs
// are present.
func (s *Service) SubmitResponse(userID int64, token string, req models.SubmitResponseRequest) (*models.SubmitResponseResponse, error) {
	session, err := s.store.GetSessionByToken(token)
	if err != nil {
		return nil, err
	}
	if session.UserID != userID {
		return nil, ErrSessionNotOwned
	}
	if session.Status != models.SessionActive {
		return nil, ErrSessionFinished
	}

	item, err := s.store.GetItem(req.ItemID)
	if err != nil {
		return nil, ErrItemNotFound
	}

	correct := req.SelectedOption == item.CorrectOption

	response := &models.AssessmentResponse{
		SessionID:        session.ID,
		ItemID:           item.ID,
		SelectedOption:   req.SelectedOption,
		Correct:          correct,
		DifficultyScore:  item.DifficultyScore,
		Confidence:       req.Confidence,
		TimeSpentSeconds: req.TimeSpentSeconds,
	}
	if err := s.store.InsertResponse(response); err != nil {
		return nil, fmt.Errorf("insert response: %w", err)
	}

	if err := s.store.IncrementItemStats(item.ID, correct); err != nil {
		log.Printf("WARN: failed to update item stats for %d: %v", item.ID, err)
	}

	history, err := s.store.GetSessionResponses(session.ID)
	if err != nil {
		return nil, err
	}

	estimate, err := irt.EstimateTheta(toIRTResponses(history))
	if err != nil {
		return nil, fmt.Errorf("estimate ability: %w", err)
	}

	displayCI := irt.DisplayCI(estimate.ConfidenceInterval)
	stopping := irt.ShouldStop(displayCI, len(history))

	snapshot := &models.AbilitySnapshot{
		SessionID:          session.ID,
		Theta:              estimate.Theta,
		StandardError:      estimate.StandardError,
		ConfidenceInterval: estimate.ConfidenceInterval,
		Iterations:         estimate.Iterations,
		Converged:          estimate.Converged,
		ResponsesSeen:      len(history),
	}
	if err := s.store.SaveSnapshot(snapshot); err != nil {
		log.Printf("WARN: failed to save ability snapshot: %v", err)
	}

	result := &models.SubmitResponseResponse{
		Correct:        correct,
		CorrectOption:  item.CorrectOption,
		Estimate:       estimate,
		DisplayAbility: irt.ThetaToDisplay(estimate.Theta),
		DisplayCI:      displayCI,
		Level:          irt.DescribeKnowledgeLevel(estimate.Theta),
		Stopping:       stopping,
	}

	if req.Confidence != nil {
		assessment, err := s.scoreCalibration(userID, session.ID, req, history)
		if err != nil {
			return nil, err
		}
		result.Calibration = assessment
	}

	result.Struggle = s.detectStruggle(userID, estimate.Theta, history)

	if stopping.ShouldStop {
		if err := s.store.CompleteSession(session.ID); err != nil {
			log.Printf("WARN: failed to complete session %d: %v", session.ID, err)
		}
	} else {
		next, err := s.store.NextUnseenItem(session.ID, session.Topic, irt.ThetaToDisplay(estimate.Theta))
		if err != nil {
			log.Printf("WARN: failed to pick next item: %v", err)
		} else if next != nil {
			next.CorrectOption = 0
			result.NextItem = next
		}
	}

	if s.progress != nil {
		if err := s.progress.RecordResponse(userID, correct, item.DifficultyScore, result.DisplayAbility); err != nil {
			log.Printf("WARN: failed to record progress for user %d: %v", userID, err)
		}
	}

	return result, nil
}

func (s *Service) scoreCalibration(userID, sessionID int64, req models.SubmitResponseRequest, history []models.AssessmentResponse) (*calibration.Assessment, error) {
	// Demonstrated performance is the running session score
	correct := 0
	for _, r := range history {
		if r.Correct {
			correct++
		}
	}
	score := float64(correct) / float64(len(history)) * 100.0

	assessment, err := calibration.Score(calibration.ScoreInput{
		PreConfidence:  *req.Confidence,
		PostConfidence: req.PostConfidence,
		Likert:         req.ConfidenceLikert,
		Score:          score,
	})
	if err != nil {
		return nil, fmt.Errorf("score calibration: %w", err)
	}

	record := &models.CalibrationRecord{
		UserID:     userID,
		SessionID:  sessionID,
		Confidence: assessment.Confidence,
		Score:      assessment.Score,
		Delta:      assessment.Delta,
		Category:   assessment.Category,
	}
	if err := s.store.InsertCalibrationRecord(record); err != nil {
		log.Printf("WARN: failed to save calibration record: %v", err)
	}

	return &assessment, nil
}

func (s *Service) detectStruggle(userID int64, theta float64, history []models.AssessmentResponse) *analytics.Report {
	start := len(history) - struggleWindow
	if start < 0 {
		start = 0
	}
	recent := make([]analytics.Observation, 0, len(history)-start)
	for _, r := range history[start:] {
		obs := analytics.Observation{
			Expected: irt.ProbabilityCorrect(theta, irt.DifficultyToLogit(r.DifficultyScore)),
			Correct:  r.Correct,
		}
		if r.TimeSpentSeconds != nil {
			obs.TimeSeconds = *r.TimeSpentSeconds
		}
		recent = append(recent, obs)
	}

	baseline, err := s.store.BaselineResponseTime(userID)
	if err != nil {
		log.Printf("WARN: failed to load baseline response time: %v", err)
		baseline = 0
	}

	since := time.Now().AddDate(0, 0, -CalibrationWindowDays)
	deltas, err := s.store.GetCalibrationDeltas(userID, since)
	if err != nil {
		log.Printf("WARN: failed to load calibration deltas: %v", err)
		deltas = nil
	}

	report := analytics.Detect(recent, baseline, deltas)
	return &report
}

// ── Calibration Trend ───────────────────────────────────

func (s *Service) CalibrationTrend(userID int64) (*models.TrendResponse, error) {
	since := time.Now().AddDate(0, 0, -CalibrationWindowDays)
	deltas, err := s.store.GetCalibrationDeltas(userID, since)
	if err != nil {
		return nil, err
	}

	resp := &models.TrendResponse{
		WindowDays: CalibrationWindowDays,
		DataPoints: len(deltas),
	}

	trend, ok := calibration.ClassifyTrend(deltas)
	if ok {
		resp.Trend = &trend
		resp.TrendMessage = calibration.TrendMessage(trend)
	}

	return resp, nil
}

// ── Item Bank ───────────────────────────────────────────

func (s *Service) CreateItem(req models.CreateItemRequest) (*models.Item, error) {
	return s.store.CreateItem(req)
}

func (s *Service) ListItems(topic *string, limit, offset int) ([]models.Item, int, error) {
	return s.store.ListItems(topic, limit, offset)
}

// ItemAnalysis computes the discrimination index for one item: respondents
// are split into top and bottom groups at the 27th/73rd percentiles of
// overall score, and the index compares the groups' success on this item.
// Items with a statistically valid "poor" index get flagged for review.
func (s *Service) ItemAnalysis(itemID int64) (*models.ItemAnalysisResponse, error) {
	item, err := s.store.GetItem(itemID)
	if err != nil {
		return nil, ErrItemNotFound
	}

	respondents, err := s.store.GetItemRespondentStats(itemID)
	if err != nil {
		return nil, err
	}
	if len(respondents) < 2 {
		return nil, ErrNotEnoughRaters
	}

	overall := make([]float64, len(respondents))
	for i, r := range respondents {
		overall[i] = r.OverallScore
	}

	bottomCutoff, err := stats.Percentile(overall, 27)
	if err != nil {
		return nil, fmt.Errorf("bottom cutoff: %w", err)
	}
	topCutoff, err := stats.Percentile(overall, 73)
	if err != nil {
		return nil, fmt.Errorf("top cutoff: %w", err)
	}

	var topGroup, bottomGroup []float64
	for _, r := range respondents {
		itemScore := 0.0
		if r.ItemCorrect {
			itemScore = 1.0
		}
		switch {
		case r.OverallScore >= topCutoff:
			topGroup = append(topGroup, itemScore)
		case r.OverallScore <= bottomCutoff:
			bottomGroup = append(bottomGroup, itemScore)
		}
	}

	disc, err := irt.DiscriminationIndex(topGroup, bottomGroup)
	if err != nil {
		return nil, fmt.Errorf("discrimination index: %w", err)
	}

	flagged := item.FlaggedForReview
	if disc.StatisticallyValid && disc.Band == irt.BandPoor && !flagged {
		if err := s.store.FlagItemForReview(itemID, true); err != nil {
			log.Printf("WARN: failed to flag item %d for review: %v", itemID, err)
		} else {
			flagged = true
		}
	}

	return &models.ItemAnalysisResponse{
		ItemID:             itemID,
		Discrimination:     disc.Value,
		Band:               string(disc.Band),
		StatisticallyValid: disc.StatisticallyValid,
		SampleSize:         disc.SampleSize,
		TopGroupSize:       len(topGroup),
		BottomGroupSize:    len(bottomGroup),
		FlaggedForReview:   flagged,
	}, nil
}

func toIRTResponses(history []models.AssessmentResponse) []irt.Response {
	responses := make([]irt.Response, len(history))
	for i, r := range history {
		responses[i] = irt.Response{
			Difficulty: irt.DifficultyToLogit(r.DifficultyScore),
			Correct:    r.Correct,
		}
	}
	return responses
}
