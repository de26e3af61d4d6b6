package calibration

import (
	"math"

	"github.com/montanaflynn/stats"
)

// TrendSensitivity is how much the mean |delta| must move between the
// earlier and recent halves of the window before the trend leaves "stable".
// Tunable; 2 display points by default.
const TrendSensitivity = 2.0

// MinTrendPoints is the smallest history that supports a trend. Below it no
// trend is reported, an expected outcome for new users, not an error.
const MinTrendPoints = 2

type Trend string

const (
	TrendImproving Trend = "improving"
	TrendStable    Trend = "stable"
	TrendDeclining Trend = "declining"
)

// ClassifyTrend compares calibration quality across a rolling window of past
// deltas, oldest first. The window is split in half and the mean |delta| of
// the recent half is compared to the earlier half: shrinking miscalibration
// is improving, growing is declining. The second return is false when the
// history is too short to say anything.
func ClassifyTrend(deltas []float64) (Trend, bool) {
	if len(deltas) < MinTrendPoints {
		return "", false
	}

	mid := len(deltas) / 2
	earlier := absolute(deltas[:mid])
	recent := absolute(deltas[mid:])

	earlierMean, err := stats.Mean(earlier)
	if err != nil {
		return "", false
	}
	recentMean, err := stats.Mean(recent)
	if err != nil {
		return "", false
	}

	switch {
	case recentMean < earlierMean-TrendSensitivity:
		return TrendImproving, true
	case recentMean > earlierMean+TrendSensitivity:
		return TrendDeclining, true
	default:
		return TrendStable, true
	}
}

// TrendMessage renders the short user-facing summary for a trend.
func TrendMessage(trend Trend) string {
	switch trend {
	case TrendImproving:
		return "Your confidence judgments are getting more accurate this week."
	case TrendDeclining:
		return "Your confidence judgments have drifted from your results lately. Pay attention to how sure you feel before answering."
	default:
		return "Your calibration has held steady this week."
	}
}

func absolute(values []float64) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = math.Abs(v)
	}
	return out
}
