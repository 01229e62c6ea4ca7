package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/shopspring/decimal"

	"github.com/mmynk/consoleatm/internal/models"
)

var (
	ErrDuplicateSeed = errors.New("duplicate account id in seed")
	ErrNegativeSeed  = errors.New("seed balance must not be negative")
	ErrEmptySeed     = errors.New("seed contains no accounts")
)

// SeedAccount is one entry of a JSON seed file.
type SeedAccount struct {
	ID      string          `json:"id" validate:"required,numeric"`
	PIN     string          `json:"pin" validate:"required"`
	Balance decimal.Decimal `json:"balance"`
}

// DefaultSeed is the built-in pair of demo cards.
func DefaultSeed() []models.Account {
	return []models.Account{
		models.NewAccount("12345678", "1234", decimal.NewFromInt(1000)),
		models.NewAccount("87654321", "4321", decimal.NewFromInt(2000)),
	}
}

// LoadSeed returns the accounts from the configured seed file, or the default
// seed when none is configured.
func (c *Config) LoadSeed() ([]models.Account, error) {
	if c.SeedFile == "" {
		return DefaultSeed(), nil
	}

	f, err := os.Open(c.SeedFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open seed file: %w", err)
	}
	defer f.Close()

	return ParseSeed(f)
}

// ParseSeed decodes and validates a JSON array of seed accounts.
func ParseSeed(r io.Reader) ([]models.Account, error) {
	var entries []SeedAccount
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&entries); err != nil {
		return nil, fmt.Errorf("failed to decode seed: %w", err)
	}
	if len(entries) == 0 {
		return nil, ErrEmptySeed
	}

	seen := make(map[string]bool, len(entries))
	accounts := make([]models.Account, 0, len(entries))
	for i, e := range entries {
		if err := validate.Struct(e); err != nil {
			return nil, fmt.Errorf("seed entry %d: %w", i, err)
		}
		if e.Balance.IsNegative() {
			return nil, fmt.Errorf("seed entry %d: %w", i, ErrNegativeSeed)
		}
		if seen[e.ID] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateSeed, e.ID)
		}
		seen[e.ID] = true
		accounts = append(accounts, models.NewAccount(e.ID, e.PIN, e.Balance))
	}
	return accounts, nil
}
