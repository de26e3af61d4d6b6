package irt

// The app stores item difficulty and ability on a 0-100 display scale; the
// estimator works in logits. One logit is worth LogitUnit display points, so
// the 0-100 range maps onto [-3, +3]. Both directions of the transform live
// here so the convention cannot drift between components.
const (
	DisplayMidpoint = 50.0
	LogitUnit       = 50.0 / 3.0
)

// DifficultyToLogit converts a 0-100 difficulty score to the logit scale.
func DifficultyToLogit(display float64) float64 {
	return (display - DisplayMidpoint) / LogitUnit
}

// ThetaToDisplay converts a logit ability to the 0-100 display scale,
// clamped to the displayable range.
func ThetaToDisplay(theta float64) float64 {
	display := DisplayMidpoint + theta*LogitUnit
	if display < 0 {
		return 0
	}
	if display > 100 {
		return 100
	}
	return display
}

// DisplayCI converts a confidence-interval half-width from logits to
// display points. The transform is linear, so only the scale factor applies.
func DisplayCI(logitCI float64) float64 {
	return logitCI * LogitUnit
}

type KnowledgeLevel string

const (
	LevelNovice       KnowledgeLevel = "novice"
	LevelBeginner     KnowledgeLevel = "beginner"
	LevelIntermediate KnowledgeLevel = "intermediate"
	LevelAdvanced     KnowledgeLevel = "advanced"
	LevelExpert       KnowledgeLevel = "expert"
)

// DescribeKnowledgeLevel maps any theta to exactly one qualitative label.
// The breakpoints are a presentation convention; the mapping is monotonic.
func DescribeKnowledgeLevel(theta float64) KnowledgeLevel {
	switch {
	case theta < -1.5:
		return LevelNovice
	case theta < -0.5:
		return LevelBeginner
	case theta < 0.5:
		return LevelIntermediate
	case theta < 1.5:
		return LevelAdvanced
	default:
		return LevelExpert
	}
}
