package progress

import "testing"

func TestBaseMomentum(t *testing.T) {
	tests := []struct {
		difficulty float64
		want       int
	}{
		{0, 5},
		{20, 5},
		{21, 8},
		{40, 8},
		{50, 10},
		{61, 13},
		{80, 13},
		{81, 16},
		{100, 16},
	}

	for _, tt := range tests {
		got := BaseMomentum(tt.difficulty)
		if got != tt.want {
			t.Errorf("BaseMomentum(%f) = %d, want %d", tt.difficulty, got, tt.want)
		}
	}
}

func TestChallengeBonus(t *testing.T) {
	tests := []struct {
		ability    float64
		difficulty float64
		want       int
	}{
		{50, 50, 0},
		{50, 40, 0},
		{50, 55, 2},
		{50, 60, 2},
		{50, 65, 5},
		{50, 70, 5},
		{50, 75, 8},
		{20, 90, 8},
	}

	for _, tt := range tests {
		got := ChallengeBonus(tt.ability, tt.difficulty)
		if got != tt.want {
			t.Errorf("ChallengeBonus(%f, %f) = %d, want %d", tt.ability, tt.difficulty, got, tt.want)
		}
	}
}

func TestStreakMultiplier(t *testing.T) {
	tests := []struct {
		streak int
		want   float64
	}{
		{0, 1.0},
		{2, 1.0},
		{3, 1.15},
		{6, 1.15},
		{7, 1.25},
		{13, 1.25},
		{14, 1.5},
		{29, 1.5},
		{30, 2.0},
		{365, 2.0},
	}

	for _, tt := range tests {
		got := StreakMultiplier(tt.streak)
		if got != tt.want {
			t.Errorf("StreakMultiplier(%d) = %f, want %f", tt.streak, got, tt.want)
		}
	}
}

func TestApplyMultiplier(t *testing.T) {
	if got := ApplyMultiplier(10, 1.15); got != 12 {
		t.Errorf("ApplyMultiplier(10, 1.15) = %d, want 12", got)
	}
	if got := ApplyMultiplier(13, 1.5); got != 20 {
		t.Errorf("ApplyMultiplier(13, 1.5) = %d, want 20", got)
	}
	if got := ApplyMultiplier(0, 2.0); got != 0 {
		t.Errorf("ApplyMultiplier(0, 2.0) = %d, want 0", got)
	}
}
