package insights

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"
)

type StudyInsights struct {
	Summary         string           `json:"summary"`
	Strengths       []string         `json:"strengths"`
	FocusAreas      []string         `json:"focus_areas"`
	Recommendations []Recommendation `json:"recommendations"`
}

type Recommendation struct {
	Action string `json:"action"`
	Reason string `json:"reason"`
}

type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s", strings.Join(e.Errors, "; "))
}

func ParseInsights(responseBody string) (*StudyInsights, error) {
	cleaned := stripCodeFences(responseBody)

	var insights StudyInsights
	if err := json.Unmarshal([]byte(cleaned), &insights); err != nil {
		return nil, fmt.Errorf("failed to parse JSON response: %w", err)
	}

	if err := validateInsights(&insights); err != nil {
		return nil, err
	}

	return &insights, nil
}

func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```json") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimSpace(s)
	} else if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSpace(s)
	}
	if strings.HasSuffix(s, "```") {
		s = strings.TrimSuffix(s, "```")
		s = strings.TrimSpace(s)
	}
	return s
}

func validateInsights(insights *StudyInsights) error {
	var errs []string

	if insights.Summary == "" {
		errs = append(errs, "empty summary")
	}
	if len(insights.Recommendations) == 0 {
		errs = append(errs, "no recommendations")
	}

	for i, r := range insights.Recommendations {
		if r.Action == "" {
			errs = append(errs, fmt.Sprintf("recommendation %d: empty action", i+1))
		}
		if r.Reason == "" {
			log.Printf("WARNING: recommendation %d missing reason", i+1)
		}
	}

	if len(insights.Recommendations) > 3 {
		log.Printf("WARNING: %d recommendations returned, expected at most 3", len(insights.Recommendations))
	}

	if len(errs) > 0 {
		return &ValidationError{Errors: errs}
	}

	return nil
}
