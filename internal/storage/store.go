// Package storage provides abstractions for the ATM audit journal.
package storage

import (
	"context"

	"github.com/mmynk/consoleatm/internal/models"
)

// EventFilter narrows a journal query. Empty fields match everything.
type EventFilter struct {
	SessionID string
	AccountID string
	Kind      models.EventKind

	// Limit caps the number of events returned; 0 means no limit.
	Limit int
}

// Journal defines the interface for event journal operations.
// Account balances are never stored here; the journal is an audit trail of
// what sessions did, not a source of ledger state.
type Journal interface {
	// RecordEvent appends an event. The event ID must be unique.
	RecordEvent(ctx context.Context, event models.Event) error

	// ListEvents returns matching events, oldest first.
	ListEvents(ctx context.Context, filter EventFilter) ([]models.Event, error)

	// Close releases any resources held by the journal.
	Close() error
}
