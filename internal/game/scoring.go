package game

const (
	basePoints    = 1000
	maxSpeedBonus = 500
)

// Score computes the points awarded for an answer. Incorrect answers score 0.
// Correct answers earn a fixed base plus a speed bonus that falls linearly
// with elapsed time. Elapsed time is clamped to [0, limit] so late delivery or
// client clock skew can neither go negative nor invert the speed ordering.
func Score(correct bool, elapsedMs, timeLimitSeconds int) int {
	if !correct {
		return 0
	}
	limitMs := timeLimitSeconds * 1000
	if limitMs <= 0 {
		return basePoints
	}
	if elapsedMs < 0 {
		elapsedMs = 0
	}
	if elapsedMs > limitMs {
		elapsedMs = limitMs
	}
	bonus := maxSpeedBonus * (limitMs - elapsedMs) / limitMs
	return basePoints + bonus
}
