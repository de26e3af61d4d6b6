package calibration

import "testing"

func TestClassifyTrend(t *testing.T) {
	tests := []struct {
		name   string
		deltas []float64
		want   Trend
		wantOK bool
	}{
		{
			name:   "improving",
			deltas: []float64{20, 18, 15, 5, 3, 2},
			want:   TrendImproving,
			wantOK: true,
		},
		{
			name:   "declining",
			deltas: []float64{2, 3, 4, 15, 18, 20},
			want:   TrendDeclining,
			wantOK: true,
		},
		{
			name:   "stable",
			deltas: []float64{8, 7, 9, 8, 7, 9},
			want:   TrendStable,
			wantOK: true,
		},
		{
			name:   "negative deltas count by magnitude",
			deltas: []float64{-20, -18, -15, -5, -3, -2},
			want:   TrendImproving,
			wantOK: true,
		},
		{
			name:   "within sensitivity stays stable",
			deltas: []float64{10, 10, 9, 9},
			want:   TrendStable,
			wantOK: true,
		},
		{
			name:   "single point has no trend",
			deltas: []float64{12},
			wantOK: false,
		},
		{
			name:   "empty history has no trend",
			deltas: nil,
			wantOK: false,
		},
		{
			name:   "two points is enough",
			deltas: []float64{20, 2},
			want:   TrendImproving,
			wantOK: true,
		},
	}

	for _, tt := range tests {
		got, ok := ClassifyTrend(tt.deltas)
		if ok != tt.wantOK {
			t.Errorf("%s: ok = %v, want %v", tt.name, ok, tt.wantOK)
			continue
		}
		if ok && got != tt.want {
			t.Errorf("%s: trend = %s, want %s", tt.name, got, tt.want)
		}
	}
}

func TestTrendMessage(t *testing.T) {
	for _, trend := range []Trend{TrendImproving, TrendStable, TrendDeclining} {
		if TrendMessage(trend) == "" {
			t.Errorf("TrendMessage(%s) is empty", trend)
		}
	}
}
