package models

import (
	"log/slog"

	"github.com/shopspring/decimal"
)

// Account represents a card account held by the ledger.
type Account struct {
	// ID is the card number. It is assigned at seed time and never changes.
	ID string `json:"id"`

	// Credential is the PIN (or its bcrypt hash when seeds are hashed).
	// It is never logged or serialized.
	Credential string `json:"-"`

	// Balance is the current amount on the account. Always >= 0.
	Balance decimal.Decimal `json:"balance"`
}

// NewAccount creates an account record from seed values.
func NewAccount(id, credential string, balance decimal.Decimal) Account {
	return Account{
		ID:         id,
		Credential: credential,
		Balance:    balance,
	}
}

// LogValue keeps the credential out of structured logs.
func (a Account) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("id", a.ID),
		slog.String("balance", a.Balance.String()),
	)
}
