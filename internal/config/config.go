// Package config loads runtime settings from the environment and an optional
// .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds all runtime settings.
type Config struct {
	LogLevel string `validate:"oneof=debug info warn error"`

	// SeedFile is a JSON file of accounts; empty means the built-in seed set.
	SeedFile string `validate:"omitempty,file"`

	// HashedPINs marks seed PINs as bcrypt hashes.
	HashedPINs bool

	// JournalPath is the SQLite audit journal; empty disables it.
	JournalPath string

	// MetricsAddr is the listen address for /metrics; empty disables it.
	MetricsAddr string `validate:"omitempty,hostname_port"`

	KafkaBrokers []string `validate:"dive,hostname_port"`
	KafkaTopic   string   `validate:"required"`
}

var validate = validator.New()

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// Load reads envFile (if it exists) into the environment, then builds and
// validates the config. Variables already set in the environment win over the
// file.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	hashed, err := strconv.ParseBool(getEnv("ATM_PIN_HASHED", "false"))
	if err != nil {
		return nil, fmt.Errorf("invalid ATM_PIN_HASHED: %w", err)
	}

	cfg := &Config{
		LogLevel:     strings.ToLower(getEnv("ATM_LOG_LEVEL", "info")),
		SeedFile:     getEnv("ATM_SEED_FILE", ""),
		HashedPINs:   hashed,
		JournalPath:  getEnv("ATM_JOURNAL_PATH", ""),
		MetricsAddr:  getEnv("ATM_METRICS_ADDR", ""),
		KafkaBrokers: splitList(getEnv("ATM_KAFKA_BROKERS", "")),
		KafkaTopic:   getEnv("ATM_KAFKA_TOPIC", "atm.events"),
	}

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
