package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EventKind names one of the notification hooks a session raises.
type EventKind string

const (
	EventAuthenticationResult EventKind = "authentication_result"
	EventBalanceChecked       EventKind = "balance_checked"
	EventWithdrawalResult     EventKind = "withdrawal_result"
	EventTransferResult       EventKind = "transfer_result"
)

// Event is a notification delivered to listeners after a session operation.
// Listeners observe events; they never influence the operation that raised them.
type Event struct {
	// ID is the unique identifier for the event (UUID format).
	ID string `json:"id"`

	Kind EventKind `json:"kind"`

	// SessionID identifies the ATM run that raised the event.
	SessionID string `json:"session_id"`

	// AccountID is the account the session is bound to (or attempted to bind
	// to, for authentication results).
	AccountID string `json:"account_id"`

	Success bool `json:"success"`

	// Status is a human-readable description of the result.
	Status string `json:"status"`

	// Amount is set for withdrawals and transfers.
	Amount decimal.NullDecimal `json:"amount"`

	// Counterparty is the destination account of a transfer.
	Counterparty string `json:"counterparty,omitempty"`

	OccurredAt time.Time `json:"occurred_at"`
}

// NewEvent creates an event stamped with a fresh ID and the current time.
func NewEvent(kind EventKind, sessionID, accountID string, success bool, status string) Event {
	return Event{
		ID:         uuid.New().String(),
		Kind:       kind,
		SessionID:  sessionID,
		AccountID:  accountID,
		Success:    success,
		Status:     status,
		OccurredAt: time.Now().UTC(),
	}
}

// WithAmount returns a copy of the event carrying the operation amount.
func (e Event) WithAmount(amount decimal.Decimal) Event {
	e.Amount = decimal.NewNullDecimal(amount)
	return e
}

// WithCounterparty returns a copy of the event carrying a transfer destination.
func (e Event) WithCounterparty(accountID string) Event {
	e.Counterparty = accountID
	return e
}
