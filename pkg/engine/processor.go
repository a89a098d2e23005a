package engine

import (
	"fmt"

	"github.com/rustworthy/payment-engine/pkg/ledger"
	"github.com/rustworthy/payment-engine/pkg/money"
)

// DisputeState tracks where a logged transaction sits in the dispute
// lifecycle.
type DisputeState int

const (
	// StateNormal: not under dispute; a dispute may open.
	StateNormal DisputeState = iota

	// StateDisputed: under dispute; a resolve or chargeback may close it.
	StateDisputed

	// StateResolved: a past dispute was settled in the transaction's
	// favor. Terminal; the transaction cannot be disputed again.
	StateResolved

	// StateChargedBack: the transaction was reversed. Terminal.
	StateChargedBack
)

// txnEntry is the transaction log's row for one accepted deposit or
// withdrawal. Entries are never deleted; terminal states keep their ids
// reserved against reuse.
type txnEntry struct {
	client ledger.ClientID
	kind   TxnKind
	amount money.Amount
	state  DisputeState
}

// Processor folds records into account state. It owns the ledger store
// and the transaction log outright; no state lives at package level, so
// independent processors never interfere.
type Processor struct {
	store  *ledger.Store
	log    map[TxID]*txnEntry
	policy Policy
}

// NewProcessor returns an empty Processor applying the given policy.
func NewProcessor(policy Policy) *Processor {
	return &Processor{
		store:  ledger.NewStore(),
		log:    make(map[TxID]*txnEntry),
		policy: policy,
	}
}

// Process applies one record. A nil return means the record took full
// effect. A *RejectionError means the record was skipped and processing
// may continue; a rejected record leaves the ledger and the transaction
// log exactly as they were. Any other error is a programming fault.
func (p *Processor) Process(rec Record) error {
	switch r := rec.(type) {
	case TxnRecord:
		return p.processTxn(r)
	case DisputeRecord:
		return p.processDispute(r)
	default:
		return fmt.Errorf("unsupported record type %T", rec)
	}
}

// Accounts returns the current snapshot, sorted by client id.
func (p *Processor) Accounts() []ledger.Account {
	return p.store.Accounts()
}

// Clients returns the number of accounts materialized so far.
func (p *Processor) Clients() int {
	return p.store.Len()
}

func (p *Processor) processTxn(r TxnRecord) error {
	if _, exists := p.log[r.Tx]; exists {
		return p.reject(string(r.Kind), r.Client, r.Tx, ErrDuplicateTxn)
	}

	// The account materializes even when the transition below fails: a
	// client that ever appeared on a deposit or withdrawal shows up in
	// the snapshot.
	p.store.GetOrCreate(r.Client)

	var err error
	switch r.Kind {
	case TxnKindDeposit:
		err = p.store.Credit(r.Client, r.Amount)
	case TxnKindWithdrawal:
		err = p.store.Debit(r.Client, r.Amount)
	default:
		return fmt.Errorf("unsupported transaction kind %q", r.Kind)
	}
	if err != nil {
		return p.reject(string(r.Kind), r.Client, r.Tx, err)
	}

	// Only accepted transactions enter the log; a failed withdrawal can
	// never be disputed.
	p.log[r.Tx] = &txnEntry{
		client: r.Client,
		kind:   r.Kind,
		amount: r.Amount,
		state:  StateNormal,
	}

	return nil
}

func (p *Processor) processDispute(r DisputeRecord) error {
	entry, ok := p.log[r.Tx]
	if !ok {
		return p.reject(string(r.Kind), r.Client, r.Tx, ErrUnknownTxn)
	}
	if entry.client != r.Client {
		return p.reject(string(r.Kind), r.Client, r.Tx, ErrClientMismatch)
	}

	switch r.Kind {
	case DisputeKindDispute:
		return p.openDispute(r, entry)
	case DisputeKindResolve:
		return p.settleDispute(r, entry, StateResolved)
	case DisputeKindChargeback:
		return p.settleDispute(r, entry, StateChargedBack)
	default:
		return fmt.Errorf("unsupported dispute kind %q", r.Kind)
	}
}

func (p *Processor) openDispute(r DisputeRecord, entry *txnEntry) error {
	if entry.state != StateNormal {
		return p.reject(string(r.Kind), r.Client, r.Tx, ErrNotDisputable)
	}
	if entry.kind == TxnKindWithdrawal && p.policy.WithdrawalDisputes == WithdrawalDisputeReject {
		return p.reject(string(r.Kind), r.Client, r.Tx, ErrWithdrawalDisputesDisabled)
	}

	if err := p.store.Hold(entry.client, entry.amount); err != nil {
		return p.reject(string(r.Kind), r.Client, r.Tx, err)
	}

	// The log state advances only after the ledger accepted the move, so
	// a rejection above leaves both structures untouched.
	entry.state = StateDisputed
	return nil
}

func (p *Processor) settleDispute(r DisputeRecord, entry *txnEntry, next DisputeState) error {
	if entry.state != StateDisputed {
		return p.reject(string(r.Kind), r.Client, r.Tx, ErrNotDisputed)
	}

	var err error
	if next == StateChargedBack {
		err = p.store.Chargeback(entry.client, entry.amount)
	} else {
		err = p.store.Release(entry.client, entry.amount)
	}
	if err != nil {
		return p.reject(string(r.Kind), r.Client, r.Tx, err)
	}

	entry.state = next
	return nil
}

func (p *Processor) reject(kind string, client ledger.ClientID, tx TxID, err error) error {
	return &RejectionError{Kind: kind, Client: client, Tx: tx, Err: err}
}
