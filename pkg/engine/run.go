package engine

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/rustworthy/payment-engine/pkg/ledger"
)

// RecordSource streams parsed records in input order. Next returns
// io.EOF after the final record; any other error aborts the run.
type RecordSource interface {
	Next() (Record, error)
}

// SnapshotSink receives the final account snapshot.
type SnapshotSink interface {
	WriteAccounts(accounts []ledger.Account) error
}

// Options configures a processing run.
type Options struct {
	// Policy defaults to DefaultPolicy when left zero.
	Policy Policy

	// Logger receives rejections at Warn, per-record progress at Debug
	// and the run summary at Info. Defaults to slog.Default.
	Logger *slog.Logger
}

// Rejection describes one skipped record.
type Rejection struct {
	Seq    int // 1-based record position in the input
	Kind   string
	Client ledger.ClientID
	Tx     TxID
	Reason string
}

// Summary reports what one run did.
type Summary struct {
	Records    int
	Applied    int
	Rejected   int
	Clients    int
	Rejections []Rejection
}

// ReasonCounts aggregates the rejections by reason.
func (s Summary) ReasonCounts() map[string]int {
	counts := make(map[string]int)
	for _, rejection := range s.Rejections {
		counts[rejection.Reason]++
	}
	return counts
}

// Run streams records from src, applies them strictly in arrival order
// and writes the resulting snapshot to sink. A nil sink skips the
// snapshot, which is what the check command wants.
//
// Read errors from src are fatal and abort the run. Rejected records are
// logged, counted and skipped; they never abort.
func Run(src RecordSource, sink SnapshotSink, opts Options) (Summary, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	policy := opts.Policy
	if policy == (Policy{}) {
		policy = DefaultPolicy()
	}
	if err := policy.Validate(); err != nil {
		return Summary{}, err
	}

	processor := NewProcessor(policy)
	summary := Summary{}

	for {
		rec, err := src.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return summary, fmt.Errorf("failed to read record: %w", err)
		}

		summary.Records++

		if err := processor.Process(rec); err != nil {
			var rejection *RejectionError
			if !errors.As(err, &rejection) {
				return summary, err
			}

			summary.Rejected++
			summary.Rejections = append(summary.Rejections, Rejection{
				Seq:    summary.Records,
				Kind:   rejection.Kind,
				Client: rejection.Client,
				Tx:     rejection.Tx,
				Reason: rejection.Err.Error(),
			})

			logger.Warn("Record rejected",
				"seq", summary.Records,
				"kind", rejection.Kind,
				"client", rejection.Client,
				"tx", rejection.Tx,
				"reason", rejection.Err,
			)
			continue
		}

		summary.Applied++

		kind, client, tx := describe(rec)
		logger.Debug("Record applied", "seq", summary.Records, "kind", kind, "client", client, "tx", tx)
	}

	summary.Clients = processor.Clients()

	if sink != nil {
		if err := sink.WriteAccounts(processor.Accounts()); err != nil {
			return summary, fmt.Errorf("failed to write snapshot: %w", err)
		}
	}

	logger.Info("Processing finished",
		"records", summary.Records,
		"applied", summary.Applied,
		"rejected", summary.Rejected,
		"clients", summary.Clients,
	)

	return summary, nil
}
