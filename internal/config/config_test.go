package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"quiz-live/internal/game"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, game.AdvanceAuto, cfg.AdvanceMode)
	assert.Equal(t, 8, cfg.ResultsDelaySeconds)
	assert.Equal(t, 20, cfg.DefaultTimeLimit)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("SERVER_PORT", "9999")
	t.Setenv("GAME_ADVANCE_MODE", "host")
	t.Setenv("GAME_RESULTS_DELAY", "3")

	cfg := Load()
	assert.Equal(t, "9999", cfg.ServerPort)
	assert.Equal(t, game.AdvanceHost, cfg.AdvanceMode)
	assert.Equal(t, 3, cfg.ResultsDelaySeconds)
}

func TestInvalidIntFallsBack(t *testing.T) {
	t.Setenv("GAME_RESULTS_DELAY", "not-a-number")
	t.Setenv("GAME_RETENTION", "-5")

	cfg := Load()
	assert.Equal(t, 8, cfg.ResultsDelaySeconds)
	assert.Equal(t, 60, cfg.RetentionSeconds)
}

func TestGameSettingsMapping(t *testing.T) {
	cfg := &Config{
		AdvanceMode:         "host",
		ResultsDelaySeconds: 5,
		RetentionSeconds:    120,
		DefaultTimeLimit:    30,
	}

	settings := cfg.GameSettings()
	assert.Equal(t, game.AdvanceHost, settings.AdvanceMode)
	assert.Equal(t, 5*time.Second, settings.ResultsDelay)
	assert.Equal(t, 2*time.Minute, settings.Retention)
	assert.Equal(t, 30, settings.DefaultTimeLimit)

	// Unknown mode strings keep the auto default.
	cfg.AdvanceMode = "something-else"
	assert.Equal(t, game.AdvanceAuto, cfg.GameSettings().AdvanceMode)
}
