package insights

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/americano/backend/internal/analytics"
	"github.com/americano/backend/internal/assessment"
	"github.com/americano/backend/internal/irt"
)

// ErrNotEnoughData means the user has no completed responses to summarize.
var ErrNotEnoughData = errors.New("not enough assessment data for insights")

// Topics need this many responses before they count as a strength or
// weakness.
const minTopicSample = 5

type Service struct {
	store       *Store
	assessments *assessment.Service
	generator   *Generator
}

func NewService(store *Store, assessments *assessment.Service, generator *Generator) *Service {
	return &Service{store: store, assessments: assessments, generator: generator}
}

// InsightsResponse is the API payload for generated study guidance.
type InsightsResponse struct {
	Insights       *StudyInsights `json:"insights"`
	Model          string         `json:"model"`
	DisplayAbility float64        `json:"display_ability"`
	Level          string         `json:"level"`
	GeneratedAt    time.Time      `json:"generated_at"`
}

func (s *Service) GenerateForUser(ctx context.Context, userID int64) (*InsightsResponse, error) {
	input, err := s.buildContext(userID)
	if err != nil {
		return nil, err
	}

	insights, llmResp, err := s.generator.GenerateInsights(ctx, *input)
	if err != nil {
		return nil, err
	}
	if llmResp != nil {
		log.Printf("Insights generated for user %d: %d prompt tokens, %d output tokens",
			userID, llmResp.PromptTokens, llmResp.OutputTokens)
	}

	return &InsightsResponse{
		Insights:       insights,
		Model:          s.generator.ModelName(),
		DisplayAbility: input.DisplayAbility,
		Level:          input.Level,
		GeneratedAt:    time.Now(),
	}, nil
}

func (s *Service) buildContext(userID int64) (*InsightContext, error) {
	summary, err := s.store.LatestAbility(userID)
	if err != nil {
		return nil, fmt.Errorf("load ability summary: %w", err)
	}
	if summary == nil || summary.ResponsesTotal == 0 {
		return nil, ErrNotEnoughData
	}

	input := &InsightContext{
		DisplayAbility:   irt.ThetaToDisplay(summary.Theta),
		DisplayCI:        irt.DisplayCI(summary.ConfidenceInterval),
		Level:            string(irt.DescribeKnowledgeLevel(summary.Theta)),
		SessionsComplete: summary.SessionsComplete,
		ResponsesTotal:   summary.ResponsesTotal,
		AccuracyPercent:  100 * float64(summary.CorrectTotal) / float64(summary.ResponsesTotal),
	}

	trend, err := s.assessments.CalibrationTrend(userID)
	if err != nil {
		log.Printf("WARN: failed to load calibration trend for insights: %v", err)
	} else if trend.Trend != nil {
		input.CalibrationTrend = string(*trend.Trend)
	}

	since := time.Now().AddDate(0, 0, -assessment.CalibrationWindowDays)
	meanDelta, deltaCount, err := s.store.MeanAbsDelta(userID, since)
	if err != nil {
		log.Printf("WARN: failed to load calibration deltas for insights: %v", err)
	} else {
		input.MeanDelta = meanDelta
		if deltaCount >= analytics.MinCalibrationPoints && meanDelta > analytics.MiscalibrationThreshold {
			input.Struggling = true
			input.StruggleSignals = append(input.StruggleSignals, string(analytics.SignalMiscalibration))
		}
	}

	topics, err := s.store.TopicAccuracy(userID)
	if err != nil {
		log.Printf("WARN: failed to load topic accuracy for insights: %v", err)
		topics = nil
	}
	for _, ts := range topics {
		if ts.Responses < minTopicSample {
			continue
		}
		rate := float64(ts.Correct) / float64(ts.Responses)
		switch {
		case rate < 0.5 && len(input.WeakTopics) < 3:
			input.WeakTopics = append(input.WeakTopics, ts.Topic)
		case rate >= 0.75 && len(input.StrongTopics) < 3:
			input.StrongTopics = append(input.StrongTopics, ts.Topic)
		}
	}

	return input, nil
}
