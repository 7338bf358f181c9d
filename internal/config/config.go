package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/kiliankoe/punchline/internal/game"
)

type Config struct {
	Port     string `env:"PORT" envDefault:"8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// CardsFile points at a JSON card pack; empty uses the built-in one.
	CardsFile string `env:"CARDS_FILE"`

	ExportEnabled bool   `env:"EXPORT_ENABLED" envDefault:"true"`
	ExportFile    string `env:"EXPORT_FILE" envDefault:"./punchline-results.txt"`

	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`

	DefaultWinningScore int           `env:"DEFAULT_WINNING_SCORE" envDefault:"5"`
	DefaultTurnDuration time.Duration `env:"DEFAULT_TURN_DURATION" envDefault:"0s"`
	FinishDelay         time.Duration `env:"FINISH_DELAY" envDefault:"5s"`
	StartTurnDelay      time.Duration `env:"START_TURN_DELAY" envDefault:"5s"`
}

// FromEnv loads an optional .env file and parses the environment.
func FromEnv() (Config, error) {
	_ = godotenv.Load()
	return Parse()
}

// Parse reads the process environment only.
func Parse() (Config, error) {
	var c Config
	if err := env.Parse(&c); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return c, nil
}

// DefaultSettings are used for any game setting a client leaves out.
func (c Config) DefaultSettings() game.Settings {
	return game.Settings{
		TurnDuration:   c.DefaultTurnDuration,
		WinningScore:   c.DefaultWinningScore,
		FinishDelay:    c.FinishDelay,
		StartTurnDelay: c.StartTurnDelay,
	}
}
