package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

var ErrInvalidSettings = errors.New("invalid settings")

// Settings is the process configuration read from the environment
type Settings struct {
	Host string `env:"QUICKPLAY_HOST" envDefault:"localhost"`
	Port int    `env:"QUICKPLAY_PORT" envDefault:"8080"`

	// Store selects the persistence backend: memory, file, sqlite or postgres
	Store       string `env:"QUICKPLAY_STORE" envDefault:"file"`
	StorePath   string `env:"QUICKPLAY_STORE_PATH" envDefault:"data"`
	PostgresURL string `env:"QUICKPLAY_POSTGRES_URL"`

	QuizDir string `env:"QUICKPLAY_QUIZ_DIR" envDefault:"configs/quizzes"`

	MatchDelay    time.Duration `env:"QUICKPLAY_MATCH_DELAY" envDefault:"500ms"`
	MismatchDelay time.Duration `env:"QUICKPLAY_MISMATCH_DELAY" envDefault:"1s"`

	SessionTTL      time.Duration `env:"QUICKPLAY_SESSION_TTL" envDefault:"24h"`
	CleanupInterval time.Duration `env:"QUICKPLAY_CLEANUP_INTERVAL" envDefault:"1h"`

	LogLevel string `env:"QUICKPLAY_LOG_LEVEL" envDefault:"info"`
	Debug    bool   `env:"QUICKPLAY_DEBUG"`

	NgrokAuthToken string `env:"NGROK_AUTHTOKEN"`
	NgrokDomain    string `env:"NGROK_DOMAIN"`
}

// LoadSettings parses Settings from the environment
func LoadSettings() (Settings, error) {
	var s Settings
	if err := env.Parse(&s); err != nil {
		return Settings{}, fmt.Errorf("parse env: %w", err)
	}
	if s.Port <= 0 || s.Port > 65535 {
		return Settings{}, fmt.Errorf("%w: port %d out of range", ErrInvalidSettings, s.Port)
	}
	return s, nil
}
