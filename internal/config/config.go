package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Addr            string        `env:"YAHTZEE_ADDR"             envDefault:":8080"`
	DatabaseURL     string        `env:"YAHTZEE_DATABASE_URL"`
	LogLevel        string        `env:"YAHTZEE_LOG_LEVEL"        envDefault:"info"`
	LogDev          bool          `env:"YAHTZEE_LOG_DEV"          envDefault:"false"`
	ShutdownTimeout time.Duration `env:"YAHTZEE_SHUTDOWN_TIMEOUT" envDefault:"10s"`
	// Snapshots buffered per websocket client before it is dropped as slow.
	ClientBuffer int `env:"YAHTZEE_CLIENT_BUFFER" envDefault:"8"`
}

// Load reads the optional dotenv files, then the environment. Variables
// already set in the environment win over dotenv values.
func Load(dotenvFiles ...string) (Config, error) {
	if len(dotenvFiles) == 0 {
		dotenvFiles = []string{".env"}
	}
	for _, file := range dotenvFiles {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", file, err)
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.ClientBuffer < 1 {
		return Config{}, fmt.Errorf("YAHTZEE_CLIENT_BUFFER must be positive, got %d", cfg.ClientBuffer)
	}
	return cfg, nil
}
