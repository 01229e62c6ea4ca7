package sqlite

import "database/sql"

// schema sets up the journal tables. It runs on startup and is idempotent.
// Amounts are stored as decimal TEXT so they round-trip exactly.
const schema = `
CREATE TABLE IF NOT EXISTS events (
    id TEXT PRIMARY KEY,
    kind TEXT NOT NULL,
    session_id TEXT NOT NULL,
    account_id TEXT NOT NULL,
    success INTEGER NOT NULL,
    status TEXT NOT NULL,
    amount TEXT,
    counterparty TEXT,
    occurred_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_events_session_id ON events(session_id);
CREATE INDEX IF NOT EXISTS idx_events_account_id ON events(account_id);
CREATE INDEX IF NOT EXISTS idx_events_occurred_at ON events(occurred_at);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
