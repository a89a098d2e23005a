// Package audit persists processing-run history in SQLite. The engine
// only ever writes here; ledger state itself is never persisted or read
// back, so every run still starts from an empty ledger.
package audit

// Schema defines the SQL statements to create database tables.
const Schema = `
-- Run history table
-- One row per completed processing run
CREATE TABLE IF NOT EXISTS run_history (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    source TEXT NOT NULL,              -- input file name
    policy TEXT NOT NULL,              -- withdrawal dispute mode
    records INTEGER NOT NULL,          -- records read
    applied INTEGER NOT NULL,          -- records applied
    rejected INTEGER NOT NULL,         -- records skipped
    clients INTEGER NOT NULL,          -- accounts in the snapshot
    started_at TIMESTAMP NOT NULL,
    finished_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_run_history_source
    ON run_history(source);

CREATE INDEX IF NOT EXISTS idx_run_history_finished
    ON run_history(finished_at);

-- Rejection history table
-- One row per record skipped during a run
CREATE TABLE IF NOT EXISTS rejection_history (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id INTEGER NOT NULL REFERENCES run_history(id),
    seq INTEGER NOT NULL,              -- record position in the input
    kind TEXT NOT NULL,                -- record type
    client INTEGER NOT NULL,
    tx INTEGER NOT NULL,
    reason TEXT NOT NULL,
    UNIQUE(run_id, seq)
);

CREATE INDEX IF NOT EXISTS idx_rejection_history_run
    ON rejection_history(run_id);

CREATE INDEX IF NOT EXISTS idx_rejection_history_reason
    ON rejection_history(reason);
`

// InitializeSchema initializes the database schema.
// It creates all tables if they don't exist.
func InitializeSchema(conn *Connection) error {
	if _, err := conn.Exec(Schema); err != nil {
		return err
	}
	return nil
}
