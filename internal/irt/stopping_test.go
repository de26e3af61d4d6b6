package irt

import "testing"

func TestShouldStop(t *testing.T) {
	tests := []struct {
		ci         float64
		responses  int
		wantStop   bool
		wantReason StopReason
	}{
		{5.0, 3, true, ReasonPrecisionReached},
		{9.99, 3, true, ReasonPrecisionReached},
		{9.99, 10, true, ReasonPrecisionReached},
		// Boundary: CI exactly at the threshold does not stop
		{10.0, 3, false, ReasonEstimateImprecise},
		{15.0, 3, false, ReasonEstimateImprecise},
		{50.0, 100, false, ReasonEstimateImprecise},
		// Precise but too few responses
		{5.0, 2, false, ReasonTooFewResponses},
		{0.1, 0, false, ReasonTooFewResponses},
		{0.1, 1, false, ReasonTooFewResponses},
	}

	for _, tt := range tests {
		got := ShouldStop(tt.ci, tt.responses)
		if got.ShouldStop != tt.wantStop {
			t.Errorf("ShouldStop(%f, %d).ShouldStop = %v, want %v",
				tt.ci, tt.responses, got.ShouldStop, tt.wantStop)
		}
		if got.Reason != tt.wantReason {
			t.Errorf("ShouldStop(%f, %d).Reason = %s, want %s",
				tt.ci, tt.responses, got.Reason, tt.wantReason)
		}
	}
}
