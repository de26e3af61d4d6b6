package irt

import (
	"errors"
	"math"
	"testing"
)

func group(size int, value float64) []float64 {
	g := make([]float64, size)
	for i := range g {
		g[i] = value
	}
	return g
}

func TestDiscriminationIndex(t *testing.T) {
	// Top group averages 0.8, bottom 0.3 → D = 0.5
	d, err := DiscriminationIndex(group(10, 0.8), group(10, 0.3))
	if err != nil {
		t.Fatalf("DiscriminationIndex returned error: %v", err)
	}
	if math.Abs(d.Value-0.5) > 0.001 {
		t.Errorf("D = %f, want 0.5", d.Value)
	}
	if !d.StatisticallyValid {
		t.Error("combined sample of 20 should be statistically valid")
	}
	if d.Band != BandExcellent {
		t.Errorf("band = %s, want %s", d.Band, BandExcellent)
	}
}

func TestDiscriminationValidityBoundary(t *testing.T) {
	// 19 combined → invalid, 20 combined → valid
	d, err := DiscriminationIndex(group(10, 0.9), group(9, 0.2))
	if err != nil {
		t.Fatalf("DiscriminationIndex returned error: %v", err)
	}
	if d.StatisticallyValid {
		t.Error("combined sample of 19 should not be statistically valid")
	}

	d, err = DiscriminationIndex(group(10, 0.9), group(10, 0.2))
	if err != nil {
		t.Fatalf("DiscriminationIndex returned error: %v", err)
	}
	if !d.StatisticallyValid {
		t.Error("combined sample of 20 should be statistically valid")
	}
}

func TestDiscriminationBands(t *testing.T) {
	tests := []struct {
		top    float64
		bottom float64
		want   DiscriminationBand
	}{
		{0.9, 0.5, BandExcellent}, // 0.40
		{0.8, 0.45, BandGood},     // 0.35
		{0.7, 0.45, BandFair},     // 0.25
		{0.6, 0.5, BandPoor},      // 0.10
		{0.4, 0.6, BandPoor},      // negative
	}

	for _, tt := range tests {
		d, err := DiscriminationIndex(group(12, tt.top), group(12, tt.bottom))
		if err != nil {
			t.Fatalf("DiscriminationIndex returned error: %v", err)
		}
		if d.Band != tt.want {
			t.Errorf("D = %f: band = %s, want %s", d.Value, d.Band, tt.want)
		}
	}
}

func TestDiscriminationInvalidInput(t *testing.T) {
	if _, err := DiscriminationIndex(nil, group(10, 0.5)); !errors.Is(err, ErrInsufficientData) {
		t.Errorf("empty top group error = %v, want ErrInsufficientData", err)
	}

	if _, err := DiscriminationIndex(group(10, 1.2), group(10, 0.5)); !errors.Is(err, ErrInvalidScore) {
		t.Errorf("out-of-range score error = %v, want ErrInvalidScore", err)
	}

	if _, err := DiscriminationIndex(group(10, 0.5), []float64{math.NaN()}); !errors.Is(err, ErrInvalidScore) {
		t.Errorf("NaN score error = %v, want ErrInvalidScore", err)
	}
}
