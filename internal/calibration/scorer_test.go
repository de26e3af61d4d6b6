package calibration

import (
	"errors"
	"math"
	"strings"
	"testing"
)

func TestScoreOverconfident(t *testing.T) {
	// Confidence 75, score 60 → delta 15 → overconfident
	got, err := Score(ScoreInput{PreConfidence: 75, Score: 60})
	if err != nil {
		t.Fatalf("Score returned error: %v", err)
	}
	if math.Abs(got.Delta-15) > 0.001 {
		t.Errorf("delta = %f, want 15", got.Delta)
	}
	if got.Category != Overconfident {
		t.Errorf("category = %s, want %s", got.Category, Overconfident)
	}
	if !strings.Contains(got.Feedback, "75") || !strings.Contains(got.Feedback, "60") {
		t.Errorf("feedback %q should mention both 75 and 60", got.Feedback)
	}
}

func TestScoreCalibrated(t *testing.T) {
	// Confidence 50, score 55 → delta -5 → within the deadband
	got, err := Score(ScoreInput{PreConfidence: 50, Score: 55})
	if err != nil {
		t.Fatalf("Score returned error: %v", err)
	}
	if math.Abs(got.Delta+5) > 0.001 {
		t.Errorf("delta = %f, want -5", got.Delta)
	}
	if got.Category != Calibrated {
		t.Errorf("category = %s, want %s", got.Category, Calibrated)
	}
}

func TestScoreUnderconfident(t *testing.T) {
	got, err := Score(ScoreInput{PreConfidence: 30, Score: 80})
	if err != nil {
		t.Fatalf("Score returned error: %v", err)
	}
	if got.Category != Underconfident {
		t.Errorf("category = %s, want %s", got.Category, Underconfident)
	}
}

func TestScoreDeadbandBoundary(t *testing.T) {
	// Delta exactly at the deadband edge counts as calibrated on both sides.
	tests := []struct {
		confidence float64
		score      float64
		want       Category
	}{
		{70, 60, Calibrated},      // delta = +10
		{60, 70, Calibrated},      // delta = -10
		{70.1, 60, Overconfident}, // just past the edge
		{60, 70.1, Underconfident},
	}

	for _, tt := range tests {
		got, err := Score(ScoreInput{PreConfidence: tt.confidence, Score: tt.score})
		if err != nil {
			t.Fatalf("Score(%f, %f) returned error: %v", tt.confidence, tt.score, err)
		}
		if got.Category != tt.want {
			t.Errorf("Score(%f, %f) category = %s, want %s",
				tt.confidence, tt.score, got.Category, tt.want)
		}
	}
}

func TestScoreLikertNormalization(t *testing.T) {
	tests := []struct {
		rating float64
		want   float64
	}{
		{1, 0},
		{2, 25},
		{3, 50},
		{4, 75},
		{5, 100},
	}

	for _, tt := range tests {
		got, err := Score(ScoreInput{PreConfidence: tt.rating, Likert: true, Score: 50})
		if err != nil {
			t.Fatalf("Score with likert %f returned error: %v", tt.rating, err)
		}
		if math.Abs(got.Confidence-tt.want) > 0.001 {
			t.Errorf("likert %f normalized to %f, want %f", tt.rating, got.Confidence, tt.want)
		}
	}
}

func TestScoreOutOfRange(t *testing.T) {
	if _, err := Score(ScoreInput{PreConfidence: 120, Score: 50}); !errors.Is(err, ErrConfidenceOutOfRange) {
		t.Errorf("confidence 120 error = %v, want ErrConfidenceOutOfRange", err)
	}
	if _, err := Score(ScoreInput{PreConfidence: -1, Score: 50}); !errors.Is(err, ErrConfidenceOutOfRange) {
		t.Errorf("confidence -1 error = %v, want ErrConfidenceOutOfRange", err)
	}
	if _, err := Score(ScoreInput{PreConfidence: 6, Likert: true, Score: 50}); !errors.Is(err, ErrConfidenceOutOfRange) {
		t.Errorf("likert 6 error = %v, want ErrConfidenceOutOfRange", err)
	}
	if _, err := Score(ScoreInput{PreConfidence: 50, Score: 101}); !errors.Is(err, ErrScoreOutOfRange) {
		t.Errorf("score 101 error = %v, want ErrScoreOutOfRange", err)
	}
	if _, err := Score(ScoreInput{PreConfidence: 50, Score: -3}); !errors.Is(err, ErrScoreOutOfRange) {
		t.Errorf("score -3 error = %v, want ErrScoreOutOfRange", err)
	}
}

func TestValidConfidence(t *testing.T) {
	tests := []struct {
		value  float64
		likert bool
		want   bool
	}{
		{0, false, true},
		{100, false, true},
		{150, false, false},
		{-5, false, false},
		{1, true, true},
		{5, true, true},
		{0, true, false},
		{6, true, false},
	}

	for _, tt := range tests {
		if got := ValidConfidence(tt.value, tt.likert); got != tt.want {
			t.Errorf("ValidConfidence(%v, likert=%v) = %v, want %v", tt.value, tt.likert, got, tt.want)
		}
	}
}

func TestScoreConfidenceShift(t *testing.T) {
	post := 40.0
	got, err := Score(ScoreInput{PreConfidence: 70, PostConfidence: &post, Score: 50})
	if err != nil {
		t.Fatalf("Score returned error: %v", err)
	}
	if got.ConfidenceShift == nil || got.ShiftDirection == nil {
		t.Fatal("expected a confidence shift when post-confidence is supplied")
	}
	if math.Abs(*got.ConfidenceShift+30) > 0.001 {
		t.Errorf("shift = %f, want -30", *got.ConfidenceShift)
	}
	if *got.ShiftDirection != ShiftDown {
		t.Errorf("direction = %s, want %s", *got.ShiftDirection, ShiftDown)
	}

	// No post rating → the shift is omitted entirely
	got, err = Score(ScoreInput{PreConfidence: 70, Score: 50})
	if err != nil {
		t.Fatalf("Score returned error: %v", err)
	}
	if got.ConfidenceShift != nil || got.ShiftDirection != nil {
		t.Error("confidence shift should be absent without a post rating")
	}
}
