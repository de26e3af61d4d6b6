package irt

// Early-stopping rule for adaptive sessions: below a minimum sample the
// estimate is too noisy to act on no matter how small the interval looks.
const (
	// StopCIThreshold is the display-scale confidence interval below which
	// testing may stop.
	StopCIThreshold = 10.0

	// MinResponsesToStop is the minimum number of answered items before the
	// stopping rule can fire.
	MinResponsesToStop = 3
)

type StopReason string

const (
	ReasonPrecisionReached  StopReason = "precision_reached"
	ReasonTooFewResponses   StopReason = "too_few_responses"
	ReasonEstimateImprecise StopReason = "estimate_imprecise"
)

type StoppingDecision struct {
	ShouldStop bool       `json:"should_stop"`
	Reason     StopReason `json:"reason"`
}

// ShouldStop decides whether an adaptive session can end. displayCI is the
// confidence-interval half-width on the 0-100 display scale.
func ShouldStop(displayCI float64, responsesSeen int) StoppingDecision {
	if responsesSeen < MinResponsesToStop {
		return StoppingDecision{ShouldStop: false, Reason: ReasonTooFewResponses}
	}
	if displayCI >= StopCIThreshold {
		return StoppingDecision{ShouldStop: false, Reason: ReasonEstimateImprecise}
	}
	return StoppingDecision{ShouldStop: true, Reason: ReasonPrecisionReached}
}
