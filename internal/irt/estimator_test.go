package irt

import (
	"errors"
	"math"
	"testing"
)

func TestProbabilityCorrect(t *testing.T) {
	// Ability equal to difficulty → 50%
	got := ProbabilityCorrect(0, 0)
	if math.Abs(got-0.5) > 0.001 {
		t.Errorf("ProbabilityCorrect(0, 0) = %f, want 0.5", got)
	}

	// One logit above → ~73%
	got = ProbabilityCorrect(1, 0)
	if math.Abs(got-0.731) > 0.005 {
		t.Errorf("ProbabilityCorrect(1, 0) = %f, want ~0.731", got)
	}

	// Far above → near certainty
	got = ProbabilityCorrect(3, -3)
	if got < 0.99 {
		t.Errorf("ProbabilityCorrect(3, -3) = %f, want >0.99", got)
	}

	// Far below → near zero
	got = ProbabilityCorrect(-3, 3)
	if got > 0.01 {
		t.Errorf("ProbabilityCorrect(-3, 3) = %f, want <0.01", got)
	}
}

func TestEstimateThetaEmptyInput(t *testing.T) {
	_, err := EstimateTheta(nil)
	if !errors.Is(err, ErrInsufficientData) {
		t.Errorf("EstimateTheta(nil) error = %v, want ErrInsufficientData", err)
	}
}

func TestEstimateThetaBadDifficulty(t *testing.T) {
	bad := []Response{
		{Difficulty: math.NaN(), Correct: true},
	}
	_, err := EstimateTheta(bad)
	if !errors.Is(err, ErrInvalidDifficulty) {
		t.Errorf("EstimateTheta with NaN difficulty error = %v, want ErrInvalidDifficulty", err)
	}

	bad[0].Difficulty = math.Inf(1)
	_, err = EstimateTheta(bad)
	if !errors.Is(err, ErrInvalidDifficulty) {
		t.Errorf("EstimateTheta with Inf difficulty error = %v, want ErrInvalidDifficulty", err)
	}
}

func TestEstimateThetaDifficultyBound(t *testing.T) {
	// A finite but extreme difficulty drives every response probability to
	// exactly 0 or 1, which would zero the hessian and produce NaN. Such
	// difficulties must be rejected up front.
	for _, d := range []float64{800, -800, DifficultyLimit + 1} {
		_, err := EstimateTheta([]Response{{Difficulty: d, Correct: false}})
		if !errors.Is(err, ErrInvalidDifficulty) {
			t.Errorf("EstimateTheta with difficulty %v error = %v, want ErrInvalidDifficulty", d, err)
		}
	}

	// The documented bound itself is still valid input and fits finitely.
	est, err := EstimateTheta([]Response{
		{Difficulty: DifficultyLimit, Correct: false},
		{Difficulty: -DifficultyLimit, Correct: true},
	})
	if err != nil {
		t.Fatalf("EstimateTheta at the bound returned error: %v", err)
	}
	if math.IsNaN(est.Theta) || math.IsInf(est.Theta, 0) {
		t.Errorf("theta = %v, want finite", est.Theta)
	}
	if math.IsNaN(est.StandardError) || math.IsInf(est.StandardError, 0) {
		t.Errorf("standard error = %v, want finite", est.StandardError)
	}
}

func TestEstimateThetaMixedResponses(t *testing.T) {
	// Two correct, one wrong, all at logit 0. The MLE solves P = 2/3,
	// i.e. theta = ln(2) ≈ 0.693.
	responses := []Response{
		{Difficulty: 0, Correct: true},
		{Difficulty: 0, Correct: true},
		{Difficulty: 0, Correct: false},
	}

	est, err := EstimateTheta(responses)
	if err != nil {
		t.Fatalf("EstimateTheta returned error: %v", err)
	}
	if !est.Converged {
		t.Error("estimate did not converge within the iteration cap")
	}
	if est.Iterations > MaxIterations {
		t.Errorf("iterations = %d, want <= %d", est.Iterations, MaxIterations)
	}
	if math.Abs(est.Theta-math.Log(2)) > 0.02 {
		t.Errorf("theta = %f, want ~%f", est.Theta, math.Log(2))
	}
	if est.StandardError <= 0 {
		t.Errorf("standard error = %f, want > 0", est.StandardError)
	}
	if math.Abs(est.ConfidenceInterval-1.96*est.StandardError) > 0.01 {
		t.Errorf("confidence interval = %f, want ~1.96*SE = %f",
			est.ConfidenceInterval, 1.96*est.StandardError)
	}
}

func TestEstimateThetaAllCorrect(t *testing.T) {
	// The unconstrained MLE diverges; the estimate must stay finite and
	// inside the clamp range.
	responses := []Response{
		{Difficulty: 0, Correct: true},
		{Difficulty: 0, Correct: true},
		{Difficulty: 0, Correct: true},
	}

	est, err := EstimateTheta(responses)
	if err != nil {
		t.Fatalf("EstimateTheta returned error: %v", err)
	}
	if math.IsNaN(est.Theta) || math.IsInf(est.Theta, 0) {
		t.Fatalf("theta = %v, want finite", est.Theta)
	}
	if est.Theta < ThetaMin || est.Theta > ThetaMax {
		t.Errorf("theta = %f, want within [%f, %f]", est.Theta, ThetaMin, ThetaMax)
	}
	if est.Theta < 1.0 {
		t.Errorf("theta = %f, want high for a perfect record", est.Theta)
	}
	if math.IsNaN(est.ConfidenceInterval) || est.ConfidenceInterval < 0 {
		t.Errorf("confidence interval = %v, want finite and >= 0", est.ConfidenceInterval)
	}
}

func TestEstimateThetaAllIncorrect(t *testing.T) {
	responses := []Response{
		{Difficulty: 0, Correct: false},
		{Difficulty: 0, Correct: false},
		{Difficulty: 0, Correct: false},
	}

	est, err := EstimateTheta(responses)
	if err != nil {
		t.Fatalf("EstimateTheta returned error: %v", err)
	}
	if est.Theta < ThetaMin || est.Theta > ThetaMax {
		t.Errorf("theta = %f, want within [%f, %f]", est.Theta, ThetaMin, ThetaMax)
	}
	if est.Theta > -1.0 {
		t.Errorf("theta = %f, want low for an all-wrong record", est.Theta)
	}
}

func TestEstimateThetaOrderIndependence(t *testing.T) {
	a := []Response{
		{Difficulty: -1.2, Correct: true},
		{Difficulty: 0.4, Correct: false},
		{Difficulty: 0.8, Correct: true},
		{Difficulty: -0.3, Correct: false},
		{Difficulty: 1.5, Correct: true},
	}
	b := []Response{a[4], a[2], a[0], a[3], a[1]}

	estA, err := EstimateTheta(a)
	if err != nil {
		t.Fatalf("EstimateTheta(a) returned error: %v", err)
	}
	estB, err := EstimateTheta(b)
	if err != nil {
		t.Fatalf("EstimateTheta(b) returned error: %v", err)
	}

	if math.Abs(estA.Theta-estB.Theta) > 1e-9 {
		t.Errorf("theta depends on response order: %f vs %f", estA.Theta, estB.Theta)
	}
}

func TestEstimateThetaMonotonicity(t *testing.T) {
	// Holding difficulty fixed, more correct answers never lowers theta.
	n := 6
	prev := math.Inf(-1)
	for correct := 1; correct < n; correct++ {
		responses := make([]Response, n)
		for i := range responses {
			responses[i] = Response{Difficulty: 0, Correct: i < correct}
		}
		est, err := EstimateTheta(responses)
		if err != nil {
			t.Fatalf("EstimateTheta with %d correct returned error: %v", correct, err)
		}
		if est.Theta < prev {
			t.Errorf("theta dropped from %f to %f when correct count rose to %d",
				prev, est.Theta, correct)
		}
		prev = est.Theta
	}
}

func TestConfidenceIntervalShrinksWithEvidence(t *testing.T) {
	short := []Response{
		{Difficulty: 0, Correct: true},
		{Difficulty: 0, Correct: false},
	}
	long := []Response{
		{Difficulty: 0, Correct: true},
		{Difficulty: 0, Correct: false},
		{Difficulty: 0, Correct: true},
		{Difficulty: 0, Correct: false},
		{Difficulty: 0, Correct: true},
		{Difficulty: 0, Correct: false},
	}

	estShort, err := EstimateTheta(short)
	if err != nil {
		t.Fatalf("EstimateTheta(short) returned error: %v", err)
	}
	estLong, err := EstimateTheta(long)
	if err != nil {
		t.Fatalf("EstimateTheta(long) returned error: %v", err)
	}

	if estLong.ConfidenceInterval >= estShort.ConfidenceInterval {
		t.Errorf("confidence interval did not shrink: %f (n=2) vs %f (n=6)",
			estShort.ConfidenceInterval, estLong.ConfidenceInterval)
	}
}
