// Package ledger holds the in-memory account book and is the only place where
// balances change.
package ledger

import (
	"fmt"
	"sort"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/mmynk/consoleatm/internal/models"
)

// CredentialMatcher reports whether a supplied credential matches the stored one.
type CredentialMatcher func(stored, supplied string) bool

// ExactMatch compares credentials byte for byte, case-sensitive.
func ExactMatch(stored, supplied string) bool {
	return stored == supplied
}

// entry pairs an account with the lock that serializes its mutations.
type entry struct {
	mu      sync.Mutex
	account models.Account
}

// Ledger is the store of accounts. The set of accounts is fixed at
// construction, so the map itself is never written after New returns and only
// per-account locks are needed.
type Ledger struct {
	accounts map[string]*entry
	match    CredentialMatcher
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithCredentialMatcher replaces the default exact credential comparison.
func WithCredentialMatcher(m CredentialMatcher) Option {
	return func(l *Ledger) {
		l.match = m
	}
}

// New builds a ledger from seed accounts.
func New(seed []models.Account, opts ...Option) (*Ledger, error) {
	l := &Ledger{
		accounts: make(map[string]*entry, len(seed)),
		match:    ExactMatch,
	}
	for _, opt := range opts {
		opt(l)
	}

	for _, a := range seed {
		if _, exists := l.accounts[a.ID]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateAccount, a.ID)
		}
		if a.Balance.IsNegative() {
			return nil, fmt.Errorf("%w: %s", ErrNegativeBalance, a.ID)
		}
		l.accounts[a.ID] = &entry{account: a}
	}

	return l, nil
}

func (l *Ledger) get(id string) (*entry, error) {
	e, ok := l.accounts[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrAccountNotFound, id)
	}
	return e, nil
}

// Lookup returns a copy of the account with the given id.
func (l *Ledger) Lookup(id string) (models.Account, error) {
	e, err := l.get(id)
	if err != nil {
		return models.Account{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.account, nil
}

// IDs returns all account ids in ascending order.
func (l *Ledger) IDs() []string {
	ids := make([]string, 0, len(l.accounts))
	for id := range l.accounts {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// VerifyCredential reports whether credential matches the one stored for id.
// Unknown ids never verify.
func (l *Ledger) VerifyCredential(id, credential string) bool {
	e, err := l.get(id)
	if err != nil {
		return false
	}
	// Credentials are immutable, no lock needed.
	return l.match(e.account.Credential, credential)
}

// Balance returns the current balance of id.
func (l *Ledger) Balance(id string) (decimal.Decimal, error) {
	a, err := l.Lookup(id)
	if err != nil {
		return decimal.Zero, err
	}
	return a.Balance, nil
}

// Withdraw debits amount from id and returns the new balance.
// The balance is left unchanged when it does not cover amount.
func (l *Ledger) Withdraw(id string, amount decimal.Decimal) (decimal.Decimal, error) {
	if !amount.IsPositive() {
		return decimal.Zero, ErrInvalidAmount
	}
	e, err := l.get(id)
	if err != nil {
		return decimal.Zero, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.account.Balance.LessThan(amount) {
		return e.account.Balance, ErrInsufficientFunds
	}
	e.account.Balance = e.account.Balance.Sub(amount)
	return e.account.Balance, nil
}

// Deposit credits amount to id and returns the new balance.
func (l *Ledger) Deposit(id string, amount decimal.Decimal) (decimal.Decimal, error) {
	if !amount.IsPositive() {
		return decimal.Zero, ErrInvalidAmount
	}
	e, err := l.get(id)
	if err != nil {
		return decimal.Zero, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.account.Balance = e.account.Balance.Add(amount)
	return e.account.Balance, nil
}

// Transfer moves amount from fromID to toID and returns the new balance of
// fromID. Either both sides change or neither does. Transferring to the same
// account is allowed; it still requires sufficient funds and leaves the
// balance as it was.
func (l *Ledger) Transfer(fromID, toID string, amount decimal.Decimal) (decimal.Decimal, error) {
	if !amount.IsPositive() {
		return decimal.Zero, ErrInvalidAmount
	}
	from, err := l.get(fromID)
	if err != nil {
		return decimal.Zero, err
	}
	to, err := l.get(toID)
	if err != nil {
		return decimal.Zero, err
	}

	if from == to {
		from.mu.Lock()
		defer from.mu.Unlock()
		if from.account.Balance.LessThan(amount) {
			return from.account.Balance, ErrInsufficientFunds
		}
		return from.account.Balance, nil
	}

	// Lock in id order to avoid deadlocks between opposite transfers.
	first, second := from, to
	if toID < fromID {
		first, second = to, from
	}
	first.mu.Lock()
	defer first.mu.Unlock()
	second.mu.Lock()
	defer second.mu.Unlock()

	if from.account.Balance.LessThan(amount) {
		return from.account.Balance, ErrInsufficientFunds
	}
	from.account.Balance = from.account.Balance.Sub(amount)
	to.account.Balance = to.account.Balance.Add(amount)
	return from.account.Balance, nil
}
