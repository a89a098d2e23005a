package ledger

import (
	"sort"

	"github.com/rustworthy/payment-engine/pkg/money"
)

// Store owns the full set of client accounts for one processing run.
// Accounts are created implicitly on first reference and never deleted.
// A Store is not safe for concurrent use; the engine applies records
// strictly in arrival order.
type Store struct {
	accounts map[ClientID]Account
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{accounts: make(map[ClientID]Account)}
}

// GetOrCreate returns the account for client, creating a zero-balance
// unlocked account on first reference. The created account is retained
// even if a later transition on it fails.
func (s *Store) GetOrCreate(client ClientID) Account {
	account, ok := s.accounts[client]
	if !ok {
		account = Account{Client: client}
		s.accounts[client] = account
	}
	return account
}

// Credit applies a deposit to the client's available balance.
func (s *Store) Credit(client ClientID, amount money.Amount) error {
	return s.apply(client, func(a Account) (Account, error) {
		return a.Credit(amount)
	})
}

// Debit applies a withdrawal against the client's available balance.
func (s *Store) Debit(client ClientID, amount money.Amount) error {
	return s.apply(client, func(a Account) (Account, error) {
		return a.Debit(amount)
	})
}

// Hold moves amount from available to held for a disputed transaction.
func (s *Store) Hold(client ClientID, amount money.Amount) error {
	return s.apply(client, func(a Account) (Account, error) {
		return a.Hold(amount)
	})
}

// Release returns amount from held to available for a resolved dispute.
func (s *Store) Release(client ClientID, amount money.Amount) error {
	return s.apply(client, func(a Account) (Account, error) {
		return a.Release(amount)
	})
}

// Chargeback removes amount from held and locks the account.
func (s *Store) Chargeback(client ClientID, amount money.Amount) error {
	return s.apply(client, func(a Account) (Account, error) {
		return a.Chargeback(amount)
	})
}

// apply runs a transition and stores the next account state only when
// the transition succeeded, so a rejected record leaves the account in
// its prior state.
func (s *Store) apply(client ClientID, transition func(Account) (Account, error)) error {
	account := s.GetOrCreate(client)

	next, err := transition(account)
	if err != nil {
		return err
	}

	s.accounts[client] = next
	return nil
}

// Len returns the number of known accounts.
func (s *Store) Len() int {
	return len(s.accounts)
}

// Accounts returns a snapshot of all accounts sorted by client id.
// The returned slice holds copies; mutating it does not touch the Store.
func (s *Store) Accounts() []Account {
	accounts := make([]Account, 0, len(s.accounts))
	for _, account := range s.accounts {
		accounts = append(accounts, account)
	}

	sort.Slice(accounts, func(i, j int) bool {
		return accounts[i].Client < accounts[j].Client
	})

	return accounts
}
