package irt

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

var (
	// ErrInsufficientData is returned when the estimator is called with no responses.
	ErrInsufficientData = errors.New("at least one response is required")
	// ErrInvalidDifficulty is returned when a response carries a NaN, infinite,
	// or out-of-bound difficulty.
	ErrInvalidDifficulty = errors.New("difficulty must be a finite logit within ±DifficultyLimit")
)

const (
	// ThetaMin and ThetaMax bound the ability estimate. The raw MLE diverges
	// for all-correct or all-incorrect response sets, so theta is clamped to
	// this range on every iteration.
	ThetaMin = -6.0
	ThetaMax = 6.0

	// ConvergenceTolerance is the |Δθ| below which iteration stops.
	ConvergenceTolerance = 0.01

	// MaxIterations caps Newton-Raphson. Hitting the cap is reported via
	// Converged=false, not an error.
	MaxIterations = 10

	// DifficultyLimit bounds item difficulties on the logit scale. The 0-100
	// display scale maps to [-3, +3]; beyond roughly ±38 the response
	// probability rounds to exactly 0 or 1 in float64 against any clamped
	// theta, which would zero the hessian and the Fisher information and
	// leak NaN/Inf into the fit. ±10 leaves headroom while keeping every
	// probability strictly inside (0, 1).
	DifficultyLimit = 10.0
)

// ciZ is the two-sided 95% normal quantile used for the confidence interval
// half-width (≈1.96).
var ciZ = distuv.Normal{Mu: 0, Sigma: 1}.Quantile(0.975)

// Response is a single answered item: its difficulty on the logit scale and
// whether the respondent got it right.
type Response struct {
	Difficulty float64
	Correct    bool
}

// AbilityEstimate is the result of a maximum-likelihood ability fit.
type AbilityEstimate struct {
	Theta              float64 `json:"theta"`
	StandardError      float64 `json:"standard_error"`
	ConfidenceInterval float64 `json:"confidence_interval"`
	Iterations         int     `json:"iterations"`
	Converged          bool    `json:"converged"`
}

// ProbabilityCorrect returns the Rasch (1PL) probability that a respondent
// with the given ability answers an item of the given difficulty correctly.
func ProbabilityCorrect(theta, difficulty float64) float64 {
	return 1.0 / (1.0 + math.Exp(-(theta - difficulty)))
}

// EstimateTheta fits the respondent's latent ability to the full response
// history by Newton-Raphson on the Rasch log-likelihood, starting at theta=0.
//
// The update is theta - gradient/hessian where gradient = Σ(correct_i - P_i)
// and hessian = -ΣP_i(1-P_i). Theta is clamped to [ThetaMin, ThetaMax] after
// every step. The standard error is sqrt(1/ΣP_i(1-P_i)) at the final theta.
func EstimateTheta(responses []Response) (AbilityEstimate, error) {
	if len(responses) == 0 {
		return AbilityEstimate{}, ErrInsufficientData
	}
	for i, r := range responses {
		if math.IsNaN(r.Difficulty) || math.Abs(r.Difficulty) > DifficultyLimit {
			return AbilityEstimate{}, fmt.Errorf("response %d: %w", i, ErrInvalidDifficulty)
		}
	}

	theta := 0.0
	iterations := 0
	converged := false

	for iterations < MaxIterations {
		iterations++

		gradient := 0.0
		hessian := 0.0
		for _, r := range responses {
			p := ProbabilityCorrect(theta, r.Difficulty)
			score := 0.0
			if r.Correct {
				score = 1.0
			}
			gradient += score - p
			hessian -= p * (1.0 - p)
		}

		next := clampTheta(theta - gradient/hessian)
		delta := math.Abs(next - theta)
		theta = next

		if delta < ConvergenceTolerance {
			converged = true
			break
		}
	}

	information := 0.0
	for _, r := range responses {
		p := ProbabilityCorrect(theta, r.Difficulty)
		information += p * (1.0 - p)
	}
	se := math.Sqrt(1.0 / information)

	return AbilityEstimate{
		Theta:              theta,
		StandardError:      se,
		ConfidenceInterval: ciZ * se,
		Iterations:         iterations,
		Converged:          converged,
	}, nil
}

func clampTheta(theta float64) float64 {
	if theta < ThetaMin {
		return ThetaMin
	}
	if theta > ThetaMax {
		return ThetaMax
	}
	return theta
}
