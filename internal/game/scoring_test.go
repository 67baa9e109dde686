package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScoreIncorrectIsZero(t *testing.T) {
	assert.Equal(t, 0, Score(false, 0, 20))
	assert.Equal(t, 0, Score(false, 5000, 20))
	assert.Equal(t, 0, Score(false, -100, 20))
}

func TestScoreCorrectBaseAndBonus(t *testing.T) {
	// Instant answer earns the full bonus.
	assert.Equal(t, basePoints+maxSpeedBonus, Score(true, 0, 20))
	// An answer at the deadline still earns the base.
	assert.Equal(t, basePoints, Score(true, 20000, 20))
	// 4s into a 20s window: 500 * 16000/20000 = 400 bonus.
	assert.Equal(t, 1400, Score(true, 4000, 20))
}

func TestScoreMonotoneInElapsedTime(t *testing.T) {
	prev := Score(true, 0, 20)
	for elapsed := 0; elapsed <= 25000; elapsed += 250 {
		got := Score(true, elapsed, 20)
		assert.LessOrEqual(t, got, prev, "score increased at elapsed=%d", elapsed)
		assert.GreaterOrEqual(t, got, 0)
		prev = got
	}
}

func TestScoreClampsElapsedTime(t *testing.T) {
	// Late delivery past the limit scores like an answer at the deadline,
	// never negative.
	assert.Equal(t, Score(true, 20000, 20), Score(true, 999999, 20))
	// Negative elapsed (client clock skew) scores like an instant answer.
	assert.Equal(t, Score(true, 0, 20), Score(true, -5000, 20))
}

func TestScoreDegenerateTimeLimit(t *testing.T) {
	assert.Equal(t, basePoints, Score(true, 0, 0))
}
