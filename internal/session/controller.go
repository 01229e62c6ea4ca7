// Package session drives a single ATM run: one authentication attempt, then
// a loop of menu operations against the ledger until exit.
package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mmynk/consoleatm/internal/auth"
	"github.com/mmynk/consoleatm/internal/events"
	"github.com/mmynk/consoleatm/internal/models"
)

// State is the controller's position in its lifecycle.
type State int

const (
	StateUnauthenticated State = iota
	StateAuthenticated
	StateTerminated
)

func (s State) String() string {
	switch s {
	case StateUnauthenticated:
		return "unauthenticated"
	case StateAuthenticated:
		return "authenticated"
	case StateTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// Ledger defines the balance operations a session performs.
type Ledger interface {
	Balance(id string) (decimal.Decimal, error)
	Withdraw(id string, amount decimal.Decimal) (decimal.Decimal, error)
	Deposit(id string, amount decimal.Decimal) (decimal.Decimal, error)
	Transfer(fromID, toID string, amount decimal.Decimal) (decimal.Decimal, error)
}

// Controller is the session state machine. It holds only the id of the
// authenticated account; balances always come from the ledger.
type Controller struct {
	id            string
	ledger        Ledger
	authenticator auth.Authenticator
	events        *events.Dispatcher
	logger        *slog.Logger

	mu        sync.Mutex
	state     State
	accountID string
}

// New creates a controller in the Unauthenticated state. dispatcher may be nil.
func New(ledger Ledger, authenticator auth.Authenticator, dispatcher *events.Dispatcher, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	id := uuid.New().String()
	return &Controller{
		id:            id,
		ledger:        ledger,
		authenticator: authenticator,
		events:        dispatcher,
		logger:        logger.With("session_id", id),
	}
}

// ID returns the session identifier.
func (c *Controller) ID() string {
	return c.id
}

// State returns the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// AccountID returns the bound account, or "" before authentication.
func (c *Controller) AccountID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.accountID
}

// Authenticate makes the single authentication attempt of the session.
// Failure terminates the session.
func (c *Controller) Authenticate(ctx context.Context, accountID, credential string) Outcome {
	c.mu.Lock()
	switch c.state {
	case StateAuthenticated:
		c.mu.Unlock()
		return failed(KindAlreadyAuthenticated, ErrAlreadyAuthenticated)
	case StateTerminated:
		c.mu.Unlock()
		return failed(KindTerminated, ErrSessionTerminated)
	}

	c.logger.Info("Authentication attempt", "account_id", accountID)

	account, err := c.authenticator.Authenticate(ctx, accountID, credential)
	if err != nil {
		c.state = StateTerminated
		c.mu.Unlock()

		c.logger.Warn("Authentication failed", "account_id", accountID, "error", err)
		c.emit(ctx, models.NewEvent(models.EventAuthenticationResult, c.id, accountID, false, "Authentication failed."))
		return failed(kindFor(err), err)
	}

	c.state = StateAuthenticated
	c.accountID = account.ID
	c.mu.Unlock()

	c.logger.Info("Authentication successful", "account", account)
	c.emit(ctx, models.NewEvent(models.EventAuthenticationResult, c.id, account.ID, true, "Authentication successful."))
	return Outcome{Success: true, Kind: KindAuthenticated}
}

// Handle executes one menu operation for the authenticated account.
func (c *Controller) Handle(ctx context.Context, req Request) Outcome {
	c.mu.Lock()
	switch c.state {
	case StateUnauthenticated:
		c.mu.Unlock()
		return failed(KindNotAuthenticated, ErrNotAuthenticated)
	case StateTerminated:
		c.mu.Unlock()
		return failed(KindTerminated, ErrSessionTerminated)
	}
	if !req.Selector.Valid() {
		c.mu.Unlock()
		return failed(KindInvalidSelector, ErrInvalidSelector)
	}

	var (
		out   Outcome
		event *models.Event
	)
	switch req.Selector {
	case SelectorCheckBalance:
		out, event = c.checkBalance()
	case SelectorWithdraw:
		out, event = c.withdraw(req.Amount)
	case SelectorDeposit:
		out = c.deposit(req.Amount)
	case SelectorTransfer:
		out, event = c.transfer(req.Destination, req.Amount)
	case SelectorExit:
		c.state = StateTerminated
		c.logger.Info("Session closed", "account_id", c.accountID)
		out = Outcome{Success: true, Kind: KindGoodbye}
	}
	c.mu.Unlock()

	if event != nil {
		c.emit(ctx, *event)
	}
	return out
}

// The operation helpers run with c.mu held.

func (c *Controller) checkBalance() (Outcome, *models.Event) {
	balance, err := c.ledger.Balance(c.accountID)
	if err != nil {
		return failed(kindFor(err), err), nil
	}
	e := models.NewEvent(models.EventBalanceChecked, c.id, c.accountID, true, "Balance check completed.")
	return succeeded(KindBalance, balance), &e
}

func (c *Controller) withdraw(amount decimal.Decimal) (Outcome, *models.Event) {
	balance, err := c.ledger.Withdraw(c.accountID, amount)
	if err != nil {
		e := models.NewEvent(models.EventWithdrawalResult, c.id, c.accountID, false, declined("Withdrawal", err)).
			WithAmount(amount)
		return withAmount(failed(kindFor(err), err), amount), &e
	}
	e := models.NewEvent(models.EventWithdrawalResult, c.id, c.accountID, true, "Withdrawal successful.").
		WithAmount(amount)
	return withAmount(succeeded(KindWithdrawn, balance), amount), &e
}

func (c *Controller) deposit(amount decimal.Decimal) Outcome {
	balance, err := c.ledger.Deposit(c.accountID, amount)
	if err != nil {
		return withAmount(failed(kindFor(err), err), amount)
	}
	return withAmount(succeeded(KindDeposited, balance), amount)
}

func (c *Controller) transfer(destination string, amount decimal.Decimal) (Outcome, *models.Event) {
	balance, err := c.ledger.Transfer(c.accountID, destination, amount)
	if err != nil {
		e := models.NewEvent(models.EventTransferResult, c.id, c.accountID, false, declined("Funds transfer", err)).
			WithAmount(amount).
			WithCounterparty(destination)
		return withAmount(failed(kindFor(err), err), amount), &e
	}
	e := models.NewEvent(models.EventTransferResult, c.id, c.accountID, true, "Funds transfer successful.").
		WithAmount(amount).
		WithCounterparty(destination)
	return withAmount(succeeded(KindTransferred, balance), amount), &e
}

func (c *Controller) emit(ctx context.Context, e models.Event) {
	c.events.Dispatch(ctx, e)
}

func withAmount(o Outcome, amount decimal.Decimal) Outcome {
	o.Amount = decimal.NewNullDecimal(amount)
	return o
}

func declined(operation string, err error) string {
	switch {
	case errors.Is(err, ErrInsufficientFunds):
		return operation + " declined: insufficient funds."
	case errors.Is(err, ErrInvalidAmount):
		return operation + " declined: invalid amount."
	case errors.Is(err, ErrAccountNotFound):
		return operation + " declined: card not found."
	default:
		return operation + " declined."
	}
}

// kindFor maps an error to the message kind shown to the user.
func kindFor(err error) MessageKind {
	switch {
	case errors.Is(err, ErrInvalidCredential):
		return KindInvalidCredential
	case errors.Is(err, auth.ErrAccountNotFound), errors.Is(err, ErrAccountNotFound):
		return KindAccountNotFound
	case errors.Is(err, ErrInvalidAmount):
		return KindInvalidAmount
	case errors.Is(err, ErrInsufficientFunds):
		return KindInsufficientFunds
	case errors.Is(err, ErrInvalidSelector):
		return KindInvalidSelector
	case errors.Is(err, ErrAlreadyAuthenticated):
		return KindAlreadyAuthenticated
	case errors.Is(err, ErrNotAuthenticated):
		return KindNotAuthenticated
	default:
		return KindTerminated
	}
}
