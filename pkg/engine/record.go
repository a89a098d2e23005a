// Package engine folds transaction records into per-client account state.
// It owns the transaction log and the dispute lifecycle; balances live in
// the ledger package.
package engine

import (
	"github.com/rustworthy/payment-engine/pkg/ledger"
	"github.com/rustworthy/payment-engine/pkg/money"
)

// TxID identifies a transaction. Transaction ids are globally unique
// across all clients, not unique per client.
type TxID uint32

// TxnKind distinguishes the two record kinds that move new money.
type TxnKind string

const (
	TxnKindDeposit    TxnKind = "deposit"
	TxnKindWithdrawal TxnKind = "withdrawal"
)

// DisputeKind distinguishes the three record kinds that act on a
// previously accepted transaction.
type DisputeKind string

const (
	DisputeKindDispute    DisputeKind = "dispute"
	DisputeKindResolve    DisputeKind = "resolve"
	DisputeKindChargeback DisputeKind = "chargeback"
)

// Record is one well-typed input row: either a TxnRecord or a
// DisputeRecord, nothing else. Only deposits and withdrawals carry
// their own amount; the dispute family always acts on the amount of
// the transaction it references.
type Record interface {
	isRecord()
}

// TxnRecord is a deposit or withdrawal.
type TxnRecord struct {
	Kind   TxnKind
	Client ledger.ClientID
	Tx     TxID
	Amount money.Amount
}

// DisputeRecord is a dispute, resolve or chargeback. It references a
// prior transaction by id and has no amount of its own.
type DisputeRecord struct {
	Kind   DisputeKind
	Client ledger.ClientID
	Tx     TxID
}

func (TxnRecord) isRecord()     {}
func (DisputeRecord) isRecord() {}

// describe returns the log fields shared by both record shapes.
func describe(rec Record) (kind string, client ledger.ClientID, tx TxID) {
	switch r := rec.(type) {
	case TxnRecord:
		return string(r.Kind), r.Client, r.Tx
	case DisputeRecord:
		return string(r.Kind), r.Client, r.Tx
	}
	return "unknown", 0, 0
}
