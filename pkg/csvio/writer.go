package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/rustworthy/payment-engine/pkg/ledger"
)

// Writer renders an account snapshot as CSV. It implements
// engine.SnapshotSink.
type Writer struct {
	csv *csv.Writer
}

// NewWriter returns a Writer emitting to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{csv: csv.NewWriter(w)}
}

// WriteAccounts writes the snapshot header followed by one row per
// account, in the order given. Amounts keep their fixed four fractional
// digits; locked is rendered as true/false.
func (w *Writer) WriteAccounts(accounts []ledger.Account) error {
	if err := w.csv.Write([]string{"client", "available", "held", "total", "locked"}); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, account := range accounts {
		row := []string{
			strconv.FormatUint(uint64(account.Client), 10),
			account.Available.String(),
			account.Held.String(),
			account.Total().String(),
			strconv.FormatBool(account.Locked),
		}
		if err := w.csv.Write(row); err != nil {
			return fmt.Errorf("failed to write account row: %w", err)
		}
	}

	w.csv.Flush()
	if err := w.csv.Error(); err != nil {
		return fmt.Errorf("failed to flush snapshot: %w", err)
	}

	return nil
}
