package calibration

import (
	"errors"
	"fmt"
)

var (
	// ErrConfidenceOutOfRange is returned for confidence values outside
	// their declared scale.
	ErrConfidenceOutOfRange = errors.New("confidence out of range")
	// ErrScoreOutOfRange is returned for scores outside [0, 100].
	ErrScoreOutOfRange = errors.New("score must be between 0 and 100")
)

// Deadband is the symmetric tolerance (display points) around zero delta
// treated as calibrated. A delta exactly at the edge counts as calibrated.
const Deadband = 10.0

type Category string

const (
	Overconfident  Category = "overconfident"
	Underconfident Category = "underconfident"
	Calibrated     Category = "calibrated"
)

type ShiftDirection string

const (
	ShiftUp   ShiftDirection = "up"
	ShiftDown ShiftDirection = "down"
	ShiftNone ShiftDirection = "none"
)

// ScoreInput carries one scored assessment turn. PreConfidence is either a
// 1-5 Likert rating (Likert=true) or an already-normalized 0-100 value.
// PostConfidence, when present, is on the same scale as PreConfidence.
type ScoreInput struct {
	PreConfidence  float64
	PostConfidence *float64
	Likert         bool
	Score          float64
}

type Assessment struct {
	Confidence      float64         `json:"confidence"`
	Score           float64         `json:"score"`
	Delta           float64         `json:"delta"`
	Category        Category        `json:"category"`
	Feedback        string          `json:"feedback"`
	ConfidenceShift *float64        `json:"confidence_shift,omitempty"`
	ShiftDirection  *ShiftDirection `json:"shift_direction,omitempty"`
}

// NormalizeLikert maps a 1-5 Likert rating onto the 0-100 scale: (c-1)*25.
func NormalizeLikert(rating float64) float64 {
	return (rating - 1.0) * 25.0
}

// ValidConfidence reports whether value is inside its declared scale:
// 1-5 for Likert ratings, 0-100 otherwise. Transport layers use it to
// reject a submission before anything is persisted.
func ValidConfidence(value float64, likert bool) bool {
	if likert {
		return value >= 1 && value <= 5
	}
	return value >= 0 && value <= 100
}

// Score compares stated confidence against demonstrated performance.
// Delta = confidence - score: positive means overconfident, negative
// underconfident, within ±Deadband calibrated.
func Score(input ScoreInput) (Assessment, error) {
	confidence, err := normalizeConfidence(input.PreConfidence, input.Likert)
	if err != nil {
		return Assessment{}, fmt.Errorf("pre-confidence: %w", err)
	}
	if input.Score < 0 || input.Score > 100 {
		return Assessment{}, fmt.Errorf("%w: got %v", ErrScoreOutOfRange, input.Score)
	}

	delta := confidence - input.Score
	category := classify(delta)

	assessment := Assessment{
		Confidence: confidence,
		Score:      input.Score,
		Delta:      delta,
		Category:   category,
		Feedback:   feedbackFor(category, confidence, input.Score),
	}

	if input.PostConfidence != nil {
		post, err := normalizeConfidence(*input.PostConfidence, input.Likert)
		if err != nil {
			return Assessment{}, fmt.Errorf("post-confidence: %w", err)
		}
		shift := post - confidence
		direction := ShiftNone
		if shift > 0 {
			direction = ShiftUp
		} else if shift < 0 {
			direction = ShiftDown
		}
		assessment.ConfidenceShift = &shift
		assessment.ShiftDirection = &direction
	}

	return assessment, nil
}

func normalizeConfidence(value float64, likert bool) (float64, error) {
	if !ValidConfidence(value, likert) {
		if likert {
			return 0, fmt.Errorf("%w: likert rating %v outside 1-5", ErrConfidenceOutOfRange, value)
		}
		return 0, fmt.Errorf("%w: %v outside 0-100", ErrConfidenceOutOfRange, value)
	}
	if likert {
		return NormalizeLikert(value), nil
	}
	return value, nil
}

func classify(delta float64) Category {
	if delta > Deadband {
		return Overconfident
	}
	if delta < -Deadband {
		return Underconfident
	}
	return Calibrated
}

func feedbackFor(category Category, confidence, score float64) string {
	switch category {
	case Overconfident:
		return fmt.Sprintf(
			"You rated your confidence at %.0f but scored %.0f. Slow down and double-check answers you feel sure about.",
			confidence, score)
	case Underconfident:
		return fmt.Sprintf(
			"You rated your confidence at %.0f but scored %.0f. You know more than you give yourself credit for.",
			confidence, score)
	default:
		return fmt.Sprintf(
			"Your confidence of %.0f closely matched your score of %.0f. Well calibrated, keep it up.",
			confidence, score)
	}
}
