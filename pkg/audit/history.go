package audit

import (
	"database/sql"
	"fmt"
	"time"
)

// RunRecord represents one processing run.
type RunRecord struct {
	ID         int64
	Source     string
	Policy     string
	Records    int
	Applied    int
	Rejected   int
	Clients    int
	StartedAt  time.Time
	FinishedAt time.Time
}

// RejectionRecord represents one record skipped during a run.
type RejectionRecord struct {
	ID     int64
	RunID  int64
	Seq    int
	Kind   string
	Client int64
	Tx     int64
	Reason string
}

// RunHistory manages audit history operations.
type RunHistory struct {
	conn *Connection
}

// NewRunHistory creates a new RunHistory instance.
func NewRunHistory(conn *Connection) *RunHistory {
	return &RunHistory{conn: conn}
}

// RecordRun inserts the run row and all of its rejections in a single
// transaction and returns the new run id.
func (h *RunHistory) RecordRun(run RunRecord, rejections []RejectionRecord) (int64, error) {
	var runID int64

	err := h.conn.Transaction(func(tx *sql.Tx) error {
		result, err := tx.Exec(`
			INSERT INTO run_history (source, policy, records, applied, rejected, clients, started_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`,
			run.Source,
			run.Policy,
			run.Records,
			run.Applied,
			run.Rejected,
			run.Clients,
			run.StartedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to record run: %w", err)
		}

		runID, err = result.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get run id: %w", err)
		}

		for _, rejection := range rejections {
			_, err := tx.Exec(`
				INSERT INTO rejection_history (run_id, seq, kind, client, tx, reason)
				VALUES (?, ?, ?, ?, ?, ?)
			`,
				runID,
				rejection.Seq,
				rejection.Kind,
				rejection.Client,
				rejection.Tx,
				rejection.Reason,
			)
			if err != nil {
				return fmt.Errorf("failed to record rejection: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		return 0, err
	}

	return runID, nil
}

// GetRecentRuns retrieves the most recent runs, newest first.
func (h *RunHistory) GetRecentRuns(limit int) ([]RunRecord, error) {
	query := `
		SELECT id, source, policy, records, applied, rejected, clients, started_at, finished_at
		FROM run_history
		ORDER BY finished_at DESC, id DESC
		LIMIT ?
	`

	rows, err := h.conn.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent runs: %w", err)
	}
	defer rows.Close()

	var runs []RunRecord
	for rows.Next() {
		var run RunRecord

		if err := rows.Scan(
			&run.ID,
			&run.Source,
			&run.Policy,
			&run.Records,
			&run.Applied,
			&run.Rejected,
			&run.Clients,
			&run.StartedAt,
			&run.FinishedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan run record: %w", err)
		}

		runs = append(runs, run)
	}

	return runs, nil
}

// GetRejections retrieves the rejections of one run in input order.
func (h *RunHistory) GetRejections(runID int64) ([]RejectionRecord, error) {
	query := `
		SELECT id, run_id, seq, kind, client, tx, reason
		FROM rejection_history
		WHERE run_id = ?
		ORDER BY seq
	`

	rows, err := h.conn.Query(query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get rejections: %w", err)
	}
	defer rows.Close()

	var rejections []RejectionRecord
	for rows.Next() {
		var rejection RejectionRecord

		if err := rows.Scan(
			&rejection.ID,
			&rejection.RunID,
			&rejection.Seq,
			&rejection.Kind,
			&rejection.Client,
			&rejection.Tx,
			&rejection.Reason,
		); err != nil {
			return nil, fmt.Errorf("failed to scan rejection record: %w", err)
		}

		rejections = append(rejections, rejection)
	}

	return rejections, nil
}

// Stats represents audit statistics.
type Stats struct {
	TotalRuns     int
	TotalRecords  int
	TotalApplied  int
	TotalRejected int
	TopReason     sql.NullString
	LastRun       sql.NullString
}

// GetStats retrieves aggregate statistics over all recorded runs.
func (h *RunHistory) GetStats() (*Stats, error) {
	var stats Stats

	// Get run and record totals
	err := h.conn.QueryRow(`
		SELECT COUNT(*),
		       COALESCE(SUM(records), 0),
		       COALESCE(SUM(applied), 0),
		       COALESCE(SUM(rejected), 0)
		FROM run_history
	`).Scan(&stats.TotalRuns, &stats.TotalRecords, &stats.TotalApplied, &stats.TotalRejected)
	if err != nil {
		return nil, fmt.Errorf("failed to get run totals: %w", err)
	}

	// Get most common rejection reason
	err = h.conn.QueryRow(`
		SELECT reason FROM rejection_history
		GROUP BY reason
		ORDER BY COUNT(*) DESC
		LIMIT 1
	`).Scan(&stats.TopReason)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to get top rejection reason: %w", err)
	}

	// Get last run time
	err = h.conn.QueryRow(`SELECT MAX(finished_at) FROM run_history`).Scan(&stats.LastRun)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to get last run time: %w", err)
	}

	return &stats, nil
}
