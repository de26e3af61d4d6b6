package analytics

import "github.com/montanaflynn/stats"

// Rule thresholds for struggle detection over a recent response window.
const (
	// MinAccuracyWindow is the smallest window the accuracy rule fires on.
	MinAccuracyWindow = 4
	// AccuracyShortfall is how far observed accuracy must fall below the
	// model-expected accuracy before it counts as a signal.
	AccuracyShortfall = 0.25
	// SlowdownFactor flags response times this many times the baseline.
	SlowdownFactor = 1.5
	// MiscalibrationThreshold is the mean |delta| (display points) above
	// which calibration counts as a struggle signal.
	MiscalibrationThreshold = 20.0
	// MinCalibrationPoints is the smallest delta history the calibration
	// rule fires on.
	MinCalibrationPoints = 3
)

type Signal string

const (
	SignalLowAccuracy    Signal = "accuracy_below_expected"
	SignalSlowdown       Signal = "response_time_elevated"
	SignalMiscalibration Signal = "calibration_drift"
)

// Observation is one recent graded response with the model's expectation
// attached: the Rasch probability of a correct answer given the respondent's
// ability and the item's difficulty at the time it was answered.
type Observation struct {
	Expected    float64
	Correct     bool
	TimeSeconds float64
}

type Report struct {
	Struggling bool     `json:"struggling"`
	Signals    []Signal `json:"signals"`
}

// Detect runs the rule set over a recent window. baselineSeconds is the
// respondent's long-run mean response time (0 disables the slowdown rule);
// deltas are recent calibration deltas. Two or more signals mark the
// respondent as struggling.
func Detect(recent []Observation, baselineSeconds float64, deltas []float64) Report {
	var signals []Signal

	if sig, ok := accuracySignal(recent); ok {
		signals = append(signals, sig)
	}
	if sig, ok := slowdownSignal(recent, baselineSeconds); ok {
		signals = append(signals, sig)
	}
	if sig, ok := calibrationSignal(deltas); ok {
		signals = append(signals, sig)
	}

	return Report{
		Struggling: len(signals) >= 2,
		Signals:    signals,
	}
}

func accuracySignal(recent []Observation) (Signal, bool) {
	if len(recent) < MinAccuracyWindow {
		return "", false
	}
	correct := 0.0
	expected := 0.0
	for _, o := range recent {
		if o.Correct {
			correct++
		}
		expected += o.Expected
	}
	n := float64(len(recent))
	if correct/n < expected/n-AccuracyShortfall {
		return SignalLowAccuracy, true
	}
	return "", false
}

func slowdownSignal(recent []Observation, baselineSeconds float64) (Signal, bool) {
	if baselineSeconds <= 0 || len(recent) == 0 {
		return "", false
	}
	times := make([]float64, 0, len(recent))
	for _, o := range recent {
		if o.TimeSeconds > 0 {
			times = append(times, o.TimeSeconds)
		}
	}
	if len(times) == 0 {
		return "", false
	}
	mean, err := stats.Mean(times)
	if err != nil {
		return "", false
	}
	if mean > baselineSeconds*SlowdownFactor {
		return SignalSlowdown, true
	}
	return "", false
}

func calibrationSignal(deltas []float64) (Signal, bool) {
	if len(deltas) < MinCalibrationPoints {
		return "", false
	}
	abs := make([]float64, len(deltas))
	for i, d := range deltas {
		if d < 0 {
			abs[i] = -d
		} else {
			abs[i] = d
		}
	}
	mean, err := stats.Mean(abs)
	if err != nil {
		return "", false
	}
	if mean > MiscalibrationThreshold {
		return SignalMiscalibration, true
	}
	return "", false
}
