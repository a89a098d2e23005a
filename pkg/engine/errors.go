package engine

import (
	"errors"
	"fmt"

	"github.com/rustworthy/payment-engine/pkg/ledger"
)

// Sentinel errors for records the processor refuses. Together with the
// ledger sentinels they form the closed set of recoverable reasons: a
// record failing with one of these is skipped, never the whole run.
var (
	// ErrDuplicateTxn is returned when a deposit or withdrawal reuses a
	// transaction id that is already in the log.
	ErrDuplicateTxn = errors.New("transaction id already processed")

	// ErrUnknownTxn is returned when a dispute, resolve or chargeback
	// references a transaction id the log has never seen.
	ErrUnknownTxn = errors.New("unknown transaction id")

	// ErrClientMismatch is returned when a dispute-family record names a
	// client other than the owner of the referenced transaction.
	ErrClientMismatch = errors.New("transaction belongs to a different client")

	// ErrNotDisputable is returned when a dispute targets a transaction
	// that is under dispute or already settled.
	ErrNotDisputable = errors.New("transaction is not open to dispute")

	// ErrNotDisputed is returned when a resolve or chargeback targets a
	// transaction that is not currently under dispute.
	ErrNotDisputed = errors.New("transaction is not under dispute")

	// ErrWithdrawalDisputesDisabled is returned when a dispute targets a
	// withdrawal and the policy rejects withdrawal disputes.
	ErrWithdrawalDisputesDisabled = errors.New("withdrawal disputes are disabled by policy")
)

// RejectionError reports a record that was skipped. It wraps one of the
// engine or ledger sentinels and carries enough of the offending record
// to log and audit the rejection. errors.Is sees through it.
type RejectionError struct {
	Kind   string
	Client ledger.ClientID
	Tx     TxID
	Err    error
}

func (e *RejectionError) Error() string {
	return fmt.Sprintf("%s client=%d tx=%d rejected: %v", e.Kind, e.Client, e.Tx, e.Err)
}

func (e *RejectionError) Unwrap() error {
	return e.Err
}
