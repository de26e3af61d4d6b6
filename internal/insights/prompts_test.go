package insights

import (
	"strings"
	"testing"
)

func TestBuildUserPrompt_IncludesAbilityAndTotals(t *testing.T) {
	input := InsightContext{
		DisplayAbility:   62.5,
		DisplayCI:        8.3,
		Level:            "intermediate",
		SessionsComplete: 4,
		ResponsesTotal:   37,
		AccuracyPercent:  68,
	}

	prompt := BuildUserPrompt(input)

	for _, want := range []string{"62.5", "8.3", "intermediate", "37", "68%"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, prompt)
		}
	}
}

func TestBuildUserPrompt_NoTrendData(t *testing.T) {
	prompt := BuildUserPrompt(InsightContext{ResponsesTotal: 2})

	if !strings.Contains(prompt, "not enough data") {
		t.Errorf("expected missing-trend note, got:\n%s", prompt)
	}
}

func TestBuildUserPrompt_StruggleSignals(t *testing.T) {
	input := InsightContext{
		Struggling:      true,
		StruggleSignals: []string{"calibration_drift", "accuracy_drop"},
	}

	prompt := BuildUserPrompt(input)

	if !strings.Contains(prompt, "calibration_drift, accuracy_drop") {
		t.Errorf("expected struggle signals in prompt, got:\n%s", prompt)
	}
}

func TestBuildUserPrompt_Topics(t *testing.T) {
	input := InsightContext{
		WeakTopics:   []string{"fractions"},
		StrongTopics: []string{"geometry", "algebra"},
	}

	prompt := BuildUserPrompt(input)

	if !strings.Contains(prompt, "Weakest topics: fractions") {
		t.Errorf("expected weak topics line, got:\n%s", prompt)
	}
	if !strings.Contains(prompt, "Strongest topics: geometry, algebra") {
		t.Errorf("expected strong topics line, got:\n%s", prompt)
	}
}

func TestSystemPrompt_RequiresJSON(t *testing.T) {
	if !strings.Contains(SystemPrompt(), "valid JSON only") {
		t.Error("system prompt must demand a JSON-only response")
	}
}
