package irt

import (
	"errors"
	"fmt"
	"math"

	"github.com/montanaflynn/stats"
)

// ErrInvalidScore is returned when a group score falls outside [0, 1].
var ErrInvalidScore = errors.New("group scores must be proportions in [0, 1]")

// MinDiscriminationSample is the combined group size below which a
// discrimination index is flagged statistically invalid.
const MinDiscriminationSample = 20

type DiscriminationBand string

const (
	BandExcellent DiscriminationBand = "excellent"
	BandGood      DiscriminationBand = "good"
	BandFair      DiscriminationBand = "fair"
	BandPoor      DiscriminationBand = "poor"
)

type Discrimination struct {
	Value              float64            `json:"value"`
	StatisticallyValid bool               `json:"statistically_valid"`
	Band               DiscriminationBand `json:"band"`
	SampleSize         int                `json:"sample_size"`
}

// DiscriminationIndex measures how well an item separates strong and weak
// respondents: the mean proportion-correct of the top ~27% group minus that
// of the bottom ~27% group. Results from combined samples under
// MinDiscriminationSample are returned but flagged invalid; callers must
// not retire items on them.
func DiscriminationIndex(topGroup, bottomGroup []float64) (Discrimination, error) {
	if len(topGroup) == 0 || len(bottomGroup) == 0 {
		return Discrimination{}, ErrInsufficientData
	}
	if err := validateProportions(topGroup); err != nil {
		return Discrimination{}, fmt.Errorf("top group: %w", err)
	}
	if err := validateProportions(bottomGroup); err != nil {
		return Discrimination{}, fmt.Errorf("bottom group: %w", err)
	}

	topMean, err := stats.Mean(topGroup)
	if err != nil {
		return Discrimination{}, fmt.Errorf("top group mean: %w", err)
	}
	bottomMean, err := stats.Mean(bottomGroup)
	if err != nil {
		return Discrimination{}, fmt.Errorf("bottom group mean: %w", err)
	}

	d := topMean - bottomMean
	n := len(topGroup) + len(bottomGroup)

	return Discrimination{
		Value:              d,
		StatisticallyValid: n >= MinDiscriminationSample,
		Band:               classifyDiscrimination(d),
		SampleSize:         n,
	}, nil
}

func classifyDiscrimination(d float64) DiscriminationBand {
	switch {
	case d >= 0.4:
		return BandExcellent
	case d >= 0.3:
		return BandGood
	case d >= 0.2:
		return BandFair
	default:
		return BandPoor
	}
}

func validateProportions(scores []float64) error {
	for i, s := range scores {
		if math.IsNaN(s) || s < 0 || s > 1 {
			return fmt.Errorf("score %d (%v): %w", i, s, ErrInvalidScore)
		}
	}
	return nil
}
