package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"quiz-live/internal/game"
)

type Config struct {
	ServerPort string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	RedisAddr  string
	JWTSecret  string

	// Game tuning. AdvanceMode is "auto" (results auto-advance after
	// ResultsDelaySeconds) or "host" (NEXT_QUESTION drives progression).
	AdvanceMode         string
	ResultsDelaySeconds int
	RetentionSeconds    int
	DefaultTimeLimit    int
}

func Load() *Config {
	return &Config{
		ServerPort: getEnv("SERVER_PORT", "8080"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", "postgres"),
		DBName:     getEnv("DB_NAME", "quizlive"),
		RedisAddr:  getEnv("REDIS_ADDR", "localhost:6379"),
		JWTSecret:  getEnv("JWT_SECRET", "super-secret-key-change-me"),

		AdvanceMode:         getEnv("GAME_ADVANCE_MODE", game.AdvanceAuto),
		ResultsDelaySeconds: getEnvInt("GAME_RESULTS_DELAY", 8),
		RetentionSeconds:    getEnvInt("GAME_RETENTION", 60),
		DefaultTimeLimit:    getEnvInt("GAME_DEFAULT_TIME_LIMIT", 20),
	}
}

// GameSettings maps the deployment config onto session tuning.
func (c *Config) GameSettings() game.Settings {
	settings := game.DefaultSettings()
	if c.AdvanceMode == game.AdvanceHost {
		settings.AdvanceMode = game.AdvanceHost
	}
	settings.ResultsDelay = time.Duration(c.ResultsDelaySeconds) * time.Second
	settings.Retention = time.Duration(c.RetentionSeconds) * time.Second
	settings.DefaultTimeLimit = c.DefaultTimeLimit
	return settings
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	n, err := strconv.Atoi(val)
	if err != nil || n <= 0 {
		log.Printf("config: ignoring invalid %s=%q", key, val)
		return fallback
	}
	return n
}
