// Package sqlite provides a SQLite-backed implementation of the storage.Journal interface.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/mmynk/consoleatm/internal/models"
	"github.com/mmynk/consoleatm/internal/storage"
)

// Ensure JournalStore implements storage.Journal
var _ storage.Journal = (*JournalStore)(nil)

// JournalStore implements storage.Journal using SQLite.
type JournalStore struct {
	db *sql.DB
}

// New creates a new JournalStore with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string) (*JournalStore, error) {
	// Create parent directory if it doesn't exist
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// The ATM is single-threaded; one connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &JournalStore{db: db}, nil
}

// Close closes the database connection.
func (s *JournalStore) Close() error {
	return s.db.Close()
}

// RecordEvent persists an event to the journal.
func (s *JournalStore) RecordEvent(ctx context.Context, event models.Event) error {
	// Generate ID if not set
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	var counterparty interface{} = nil
	if event.Counterparty != "" {
		counterparty = event.Counterparty
	}
	success := 0
	if event.Success {
		success = 1
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO events (id, kind, session_id, account_id, success, status, amount, counterparty, occurred_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		event.ID, string(event.Kind), event.SessionID, event.AccountID, success,
		event.Status, event.Amount, counterparty, event.OccurredAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert event: %w", err)
	}

	return nil
}

// Notify makes the journal usable as an events.Listener.
func (s *JournalStore) Notify(ctx context.Context, event models.Event) error {
	return s.RecordEvent(ctx, event)
}

// ListEvents returns the events matching filter, oldest first.
func (s *JournalStore) ListEvents(ctx context.Context, filter storage.EventFilter) ([]models.Event, error) {
	query, args := buildListQuery(filter)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	var events []models.Event
	for rows.Next() {
		var (
			e            models.Event
			kind         string
			amount       decimal.NullDecimal
			counterparty sql.NullString
			occurredAt   int64
		)
		if err := rows.Scan(&e.ID, &kind, &e.SessionID, &e.AccountID, &e.Success,
			&e.Status, &amount, &counterparty, &occurredAt); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		e.Kind = models.EventKind(kind)
		e.Amount = amount
		if counterparty.Valid {
			e.Counterparty = counterparty.String
		}
		e.OccurredAt = time.Unix(0, occurredAt).UTC()
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate events: %w", err)
	}

	return events, nil
}

func buildListQuery(filter storage.EventFilter) (string, []interface{}) {
	var (
		where []string
		args  []interface{}
	)
	if filter.SessionID != "" {
		where = append(where, "session_id = ?")
		args = append(args, filter.SessionID)
	}
	if filter.AccountID != "" {
		where = append(where, "(account_id = ? OR counterparty = ?)")
		args = append(args, filter.AccountID, filter.AccountID)
	}
	if filter.Kind != "" {
		where = append(where, "kind = ?")
		args = append(args, string(filter.Kind))
	}

	query := `SELECT id, kind, session_id, account_id, success, status, amount, counterparty, occurred_at
		FROM events`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY occurred_at, rowid"
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}
	return query, args
}
