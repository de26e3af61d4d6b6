package insights

import (
	"fmt"
	"strings"
)

// InsightContext summarizes a respondent's recent assessment activity for
// the prompt builder.
type InsightContext struct {
	DisplayAbility   float64
	DisplayCI        float64
	Level            string
	SessionsComplete int
	ResponsesTotal   int
	AccuracyPercent  float64
	CalibrationTrend string
	MeanDelta        float64
	Struggling       bool
	StruggleSignals  []string
	WeakTopics       []string
	StrongTopics     []string
}

func SystemPrompt() string {
	return `You are a study coach for an adaptive assessment platform. You receive a summary of a learner's ability estimate, confidence calibration, and recent performance, and you produce short, concrete study guidance.

Rules:
- Be specific and actionable. Never pad with generic encouragement.
- Ground every claim in the numbers provided. Do not invent statistics.
- Ability is reported on a 0-100 scale with 50 as the population midpoint, alongside a confidence interval width. A wide interval means the estimate is still uncertain — say so rather than over-interpreting it.
- Calibration compares the learner's stated confidence to their actual results. Overconfidence and underconfidence each get different advice.
- Keep the summary under 3 sentences. Keep each recommendation to one action and one reason.

You must respond with valid JSON only. No markdown, no explanation outside the JSON.`
}

func BuildUserPrompt(input InsightContext) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Learner summary:\n")
	fmt.Fprintf(&b, "- Ability estimate: %.1f/100 (level: %s), interval width %.1f\n", input.DisplayAbility, input.Level, input.DisplayCI)
	fmt.Fprintf(&b, "- Completed assessments: %d, total responses: %d, accuracy: %.0f%%\n", input.SessionsComplete, input.ResponsesTotal, input.AccuracyPercent)

	if input.CalibrationTrend != "" {
		fmt.Fprintf(&b, "- Calibration trend: %s (mean confidence gap %.1f points)\n", input.CalibrationTrend, input.MeanDelta)
	} else {
		fmt.Fprintf(&b, "- Calibration trend: not enough data yet\n")
	}

	if input.Struggling {
		fmt.Fprintf(&b, "- Struggle signals detected: %s\n", strings.Join(input.StruggleSignals, ", "))
	}
	if len(input.WeakTopics) > 0 {
		fmt.Fprintf(&b, "- Weakest topics: %s\n", strings.Join(input.WeakTopics, ", "))
	}
	if len(input.StrongTopics) > 0 {
		fmt.Fprintf(&b, "- Strongest topics: %s\n", strings.Join(input.StrongTopics, ", "))
	}

	b.WriteString(`
Respond with this exact JSON structure:
{
  "summary": "...",
  "strengths": ["..."],
  "focus_areas": ["..."],
  "recommendations": [
    {"action": "...", "reason": "..."}
  ]
}

Requirements:
- 1-3 strengths and 1-3 focus areas
- 1-3 recommendations, each with a concrete next action
- If struggle signals are present, the first recommendation must address them
- If the interval width is 10 or more, recommend completing more assessments before drawing conclusions`)

	return b.String()
}
