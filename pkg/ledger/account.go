// Package ledger maintains per-client account balances and the rules for
// moving funds between the available and held portions of each balance.
package ledger

import (
	"errors"

	"github.com/rustworthy/payment-engine/pkg/money"
)

// Sentinel errors reported by account transitions. Callers classify them
// with errors.Is; none of them aborts a processing run.
var (
	// ErrAccountLocked is returned when a transition other than a
	// chargeback targets a locked account.
	ErrAccountLocked = errors.New("account is locked")

	// ErrInsufficientFunds is returned when a debit exceeds the
	// available balance.
	ErrInsufficientFunds = errors.New("insufficient available funds")
)

// ClientID identifies a client account.
type ClientID uint16

// Account is one client's balance state. Total is always derived from
// Available + Held, never stored, so the total invariant holds by
// construction.
type Account struct {
	Client    ClientID
	Available money.Amount
	Held      money.Amount
	Locked    bool
}

// Total returns Available + Held.
func (a Account) Total() money.Amount {
	return a.Available.Add(a.Held)
}

// Each transition below takes the account by value and returns the next
// state, so a rejected transition leaves the caller's account untouched.

// Credit adds amount to the available balance.
func (a Account) Credit(amount money.Amount) (Account, error) {
	if a.Locked {
		return a, ErrAccountLocked
	}

	a.Available = a.Available.Add(amount)
	return a, nil
}

// Debit removes amount from the available balance. It fails when the
// account is locked or when the available balance does not cover amount.
func (a Account) Debit(amount money.Amount) (Account, error) {
	if a.Locked {
		return a, ErrAccountLocked
	}
	if a.Available.LessThan(amount) {
		return a, ErrInsufficientFunds
	}

	a.Available = a.Available.Sub(amount)
	return a, nil
}

// Hold moves amount from available to held while a transaction is under
// dispute. The available balance may go negative here: the disputed funds
// can already have been spent, and the debt is carried until the dispute
// settles.
func (a Account) Hold(amount money.Amount) (Account, error) {
	if a.Locked {
		return a, ErrAccountLocked
	}

	a.Available = a.Available.Sub(amount)
	a.Held = a.Held.Add(amount)
	return a, nil
}

// Release moves amount from held back to available when a dispute is
// resolved in the client's favor.
func (a Account) Release(amount money.Amount) (Account, error) {
	if a.Locked {
		return a, ErrAccountLocked
	}

	a.Held = a.Held.Sub(amount)
	a.Available = a.Available.Add(amount)
	return a, nil
}

// Chargeback withdraws amount from the held balance and locks the
// account in a single step. The lock is the chargeback's own side
// effect, so an already locked account does not reject it.
func (a Account) Chargeback(amount money.Amount) (Account, error) {
	a.Held = a.Held.Sub(amount)
	a.Locked = true
	return a, nil
}
