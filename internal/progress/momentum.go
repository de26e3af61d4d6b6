package progress

import "math"

// BaseMomentum returns momentum points for a correct answer based on the
// item's difficulty score (0-100).
func BaseMomentum(difficultyScore float64) int {
	if difficultyScore <= 20 {
		return 5
	}
	if difficultyScore <= 40 {
		return 8
	}
	if difficultyScore <= 60 {
		return 10
	}
	if difficultyScore <= 80 {
		return 13
	}
	return 16
}

// ChallengeBonus adds points when the item sits above the respondent's
// current ability on the display scale.
func ChallengeBonus(abilityDisplay, difficultyScore float64) int {
	gap := difficultyScore - abilityDisplay
	if gap <= 0 {
		return 0
	}
	if gap <= 10 {
		return 2
	}
	if gap <= 20 {
		return 5
	}
	return 8
}

// StreakMultiplier returns the momentum multiplier for a daily streak.
func StreakMultiplier(currentStreak int) float64 {
	if currentStreak < 3 {
		return 1.0
	}
	if currentStreak < 7 {
		return 1.15
	}
	if currentStreak < 14 {
		return 1.25
	}
	if currentStreak < 30 {
		return 1.5
	}
	return 2.0
}

// ApplyMultiplier rounds the multiplied points to the nearest integer.
func ApplyMultiplier(points int, multiplier float64) int {
	return int(math.Round(float64(points) * multiplier))
}
