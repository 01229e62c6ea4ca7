package session

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/mmynk/consoleatm/internal/auth"
	"github.com/mmynk/consoleatm/internal/events"
	"github.com/mmynk/consoleatm/internal/ledger"
	"github.com/mmynk/consoleatm/internal/models"
)

type recorder struct {
	events []models.Event
}

func (r *recorder) Notify(ctx context.Context, e models.Event) error {
	r.events = append(r.events, e)
	return nil
}

func (r *recorder) kinds() []models.EventKind {
	out := make([]models.EventKind, len(r.events))
	for i, e := range r.events {
		out[i] = e.Kind
	}
	return out
}

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// setupController seeds A=1000/PIN 1111 and B=2000/PIN 2222.
func setupController(t *testing.T, listeners ...events.Listener) (*Controller, *ledger.Ledger, *recorder) {
	t.Helper()

	l, err := ledger.New([]models.Account{
		models.NewAccount("A", "1111", d("1000")),
		models.NewAccount("B", "2222", d("2000")),
	})
	if err != nil {
		t.Fatalf("ledger.New failed: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	rec := &recorder{}
	dispatcher := events.NewDispatcher(logger, append(listeners, rec)...)
	return New(l, auth.NewPINAuthenticator(l), dispatcher, logger), l, rec
}

func login(t *testing.T, c *Controller) {
	t.Helper()
	if out := c.Authenticate(context.Background(), "A", "1111"); !out.Success {
		t.Fatalf("Authenticate failed: %+v", out)
	}
}

func wantBalance(t *testing.T, l *ledger.Ledger, id, want string) {
	t.Helper()
	got, err := l.Balance(id)
	if err != nil {
		t.Fatalf("Balance(%s) failed: %v", id, err)
	}
	if !got.Equal(d(want)) {
		t.Fatalf("balance(%s) = %s, want %s", id, got, want)
	}
}

func TestAuthenticateSuccess(t *testing.T) {
	c, _, rec := setupController(t)

	out := c.Authenticate(context.Background(), "A", "1111")
	if !out.Success || out.Kind != KindAuthenticated {
		t.Fatalf("outcome = %+v, want authenticated", out)
	}
	if c.State() != StateAuthenticated || c.AccountID() != "A" {
		t.Errorf("state = %s account = %q", c.State(), c.AccountID())
	}
	if c.ID() == "" {
		t.Error("expected session id")
	}

	if len(rec.events) != 1 {
		t.Fatalf("got %d events, want 1", len(rec.events))
	}
	e := rec.events[0]
	if e.Kind != models.EventAuthenticationResult || !e.Success || e.SessionID != c.ID() || e.Status == "" {
		t.Errorf("event = %+v", e)
	}
}

func TestAuthenticateFailureTerminates(t *testing.T) {
	tests := []struct {
		name, id, pin string
		wantKind      MessageKind
		wantErr       error
	}{
		{"wrong PIN", "A", "2222", KindInvalidCredential, ErrInvalidCredential},
		{"unknown card", "Z", "1111", KindAccountNotFound, ErrAccountNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, l, rec := setupController(t)
			ctx := context.Background()

			out := c.Authenticate(ctx, tt.id, tt.pin)
			if out.Success || out.Kind != tt.wantKind || !errors.Is(out.Err, tt.wantErr) {
				t.Fatalf("outcome = %+v, want %s", out, tt.wantKind)
			}
			if c.State() != StateTerminated {
				t.Errorf("state = %s, want terminated", c.State())
			}
			if c.AccountID() != "" {
				t.Errorf("account bound after failure: %q", c.AccountID())
			}

			// The menu is never reachable and no second attempt is allowed.
			if out := c.Handle(ctx, Request{Selector: SelectorWithdraw, Amount: d("1")}); out.Kind != KindTerminated {
				t.Errorf("Handle after failed auth = %+v, want terminated", out)
			}
			if out := c.Authenticate(ctx, "A", "1111"); out.Kind != KindTerminated {
				t.Errorf("retry = %+v, want terminated", out)
			}
			wantBalance(t, l, "A", "1000")

			if len(rec.events) != 1 || rec.events[0].Success {
				t.Errorf("events = %+v, want one failed authentication_result", rec.events)
			}
		})
	}
}

func TestAuthenticateTwice(t *testing.T) {
	c, _, _ := setupController(t)
	login(t, c)

	out := c.Authenticate(context.Background(), "B", "2222")
	if out.Kind != KindAlreadyAuthenticated || !errors.Is(out.Err, ErrAlreadyAuthenticated) {
		t.Errorf("outcome = %+v", out)
	}
	if c.AccountID() != "A" {
		t.Errorf("bound account changed to %q", c.AccountID())
	}
}

func TestHandleBeforeAuthenticate(t *testing.T) {
	c, _, _ := setupController(t)
	out := c.Handle(context.Background(), Request{Selector: SelectorCheckBalance})
	if out.Kind != KindNotAuthenticated {
		t.Errorf("outcome = %+v, want not authenticated", out)
	}
	if c.State() != StateUnauthenticated {
		t.Errorf("state = %s", c.State())
	}
}

func TestCheckBalance(t *testing.T) {
	c, _, rec := setupController(t)
	login(t, c)

	out := c.Handle(context.Background(), Request{Selector: SelectorCheckBalance})
	if !out.Success || out.Kind != KindBalance {
		t.Fatalf("outcome = %+v", out)
	}
	if !out.Balance.Valid || !out.Balance.Decimal.Equal(d("1000")) {
		t.Errorf("balance = %+v, want 1000", out.Balance)
	}
	if kinds := rec.kinds(); len(kinds) != 2 || kinds[1] != models.EventBalanceChecked {
		t.Errorf("events = %v", kinds)
	}
}

func TestScenarioWithdrawAndTransfer(t *testing.T) {
	c, l, rec := setupController(t)
	ctx := context.Background()
	login(t, c)

	out := c.Handle(ctx, Request{Selector: SelectorWithdraw, Amount: d("300")})
	if !out.Success || out.Kind != KindWithdrawn || !out.Balance.Decimal.Equal(d("700")) {
		t.Fatalf("withdraw 300 = %+v", out)
	}
	wantBalance(t, l, "A", "700")

	out = c.Handle(ctx, Request{Selector: SelectorTransfer, Amount: d("1000"), Destination: "B"})
	if out.Success || out.Kind != KindInsufficientFunds || !errors.Is(out.Err, ErrInsufficientFunds) {
		t.Fatalf("transfer 1000 = %+v", out)
	}
	wantBalance(t, l, "A", "700")
	wantBalance(t, l, "B", "2000")

	out = c.Handle(ctx, Request{Selector: SelectorTransfer, Amount: d("700"), Destination: "B"})
	if !out.Success || out.Kind != KindTransferred || !out.Balance.Decimal.IsZero() {
		t.Fatalf("transfer 700 = %+v", out)
	}
	wantBalance(t, l, "A", "0")
	wantBalance(t, l, "B", "2700")

	want := []models.EventKind{
		models.EventAuthenticationResult,
		models.EventWithdrawalResult,
		models.EventTransferResult,
		models.EventTransferResult,
	}
	got := rec.kinds()
	if len(got) != len(want) {
		t.Fatalf("events = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event %d = %s, want %s", i, got[i], want[i])
		}
	}
	if rec.events[2].Success || !rec.events[3].Success || rec.events[3].Counterparty != "B" {
		t.Errorf("transfer events = %+v, %+v", rec.events[2], rec.events[3])
	}

	// Deposit onto the emptied account stays exact.
	out = c.Handle(ctx, Request{Selector: SelectorDeposit, Amount: d("50.5")})
	if !out.Success || out.Kind != KindDeposited || out.Balance.Decimal.String() != "50.5" {
		t.Fatalf("deposit 50.5 = %+v", out)
	}
	wantBalance(t, l, "A", "50.5")
}

func TestNonPositiveAmounts(t *testing.T) {
	c, l, _ := setupController(t)
	ctx := context.Background()
	login(t, c)

	for _, sel := range []Selector{SelectorWithdraw, SelectorDeposit, SelectorTransfer} {
		for _, amt := range []string{"0", "-5"} {
			out := c.Handle(ctx, Request{Selector: sel, Amount: d(amt), Destination: "B"})
			if out.Success || out.Kind != KindInvalidAmount {
				t.Errorf("%s %s = %+v, want invalid amount", sel, amt, out)
			}
		}
	}
	wantBalance(t, l, "A", "1000")
	wantBalance(t, l, "B", "2000")
	if c.State() != StateAuthenticated {
		t.Errorf("state = %s, want authenticated", c.State())
	}
}

func TestTransferUnknownDestination(t *testing.T) {
	c, l, rec := setupController(t)
	login(t, c)

	out := c.Handle(context.Background(), Request{Selector: SelectorTransfer, Amount: d("10"), Destination: "Z"})
	if out.Success || out.Kind != KindAccountNotFound {
		t.Fatalf("outcome = %+v", out)
	}
	if c.State() != StateAuthenticated {
		t.Errorf("state = %s, want authenticated", c.State())
	}
	wantBalance(t, l, "A", "1000")
	if last := rec.events[len(rec.events)-1]; last.Kind != models.EventTransferResult || last.Success {
		t.Errorf("last event = %+v", last)
	}
}

func TestSelfTransferIsNoOp(t *testing.T) {
	c, l, _ := setupController(t)
	login(t, c)

	out := c.Handle(context.Background(), Request{Selector: SelectorTransfer, Amount: d("500"), Destination: "A"})
	if !out.Success {
		t.Fatalf("self transfer = %+v", out)
	}
	wantBalance(t, l, "A", "1000")
}

func TestInvalidSelectorKeepsSession(t *testing.T) {
	c, _, rec := setupController(t)
	login(t, c)

	for _, sel := range []Selector{SelectorInvalid, Selector(9), Selector(-1)} {
		out := c.Handle(context.Background(), Request{Selector: sel})
		if out.Success || out.Kind != KindInvalidSelector || !errors.Is(out.Err, ErrInvalidSelector) {
			t.Errorf("selector %d = %+v", sel, out)
		}
	}
	if c.State() != StateAuthenticated {
		t.Errorf("state = %s, want authenticated", c.State())
	}
	if len(rec.events) != 1 {
		t.Errorf("invalid selectors raised events: %v", rec.kinds())
	}
}

func TestExitIsAbsorbing(t *testing.T) {
	c, _, _ := setupController(t)
	ctx := context.Background()
	login(t, c)

	if out := c.Handle(ctx, Request{Selector: SelectorExit}); !out.Success || out.Kind != KindGoodbye {
		t.Fatalf("exit = %+v", out)
	}
	if c.State() != StateTerminated {
		t.Fatalf("state = %s", c.State())
	}
	for _, sel := range []Selector{SelectorCheckBalance, SelectorDeposit, SelectorExit} {
		out := c.Handle(ctx, Request{Selector: sel, Amount: d("1")})
		if out.Kind != KindTerminated || !errors.Is(out.Err, ErrSessionTerminated) {
			t.Errorf("%s after exit = %+v", sel, out)
		}
	}
}

func TestListenersDoNotAffectOutcome(t *testing.T) {
	panicky := events.ListenerFunc(func(ctx context.Context, e models.Event) error {
		panic("listener bug")
	})
	failing := events.ListenerFunc(func(ctx context.Context, e models.Event) error {
		return errors.New("unavailable")
	})
	c, l, rec := setupController(t, panicky, failing)
	login(t, c)

	out := c.Handle(context.Background(), Request{Selector: SelectorWithdraw, Amount: d("100")})
	if !out.Success || !out.Balance.Decimal.Equal(d("900")) {
		t.Fatalf("outcome = %+v", out)
	}
	wantBalance(t, l, "A", "900")
	if len(rec.events) != 2 {
		t.Errorf("recorder got %d events, want 2", len(rec.events))
	}
}

func TestNilDispatcher(t *testing.T) {
	l, err := ledger.New([]models.Account{models.NewAccount("A", "1", d("5"))})
	if err != nil {
		t.Fatal(err)
	}
	c := New(l, auth.NewPINAuthenticator(l), nil, nil)
	if out := c.Authenticate(context.Background(), "A", "1"); !out.Success {
		t.Fatalf("Authenticate = %+v", out)
	}
	if out := c.Handle(context.Background(), Request{Selector: SelectorCheckBalance}); !out.Success {
		t.Errorf("CheckBalance = %+v", out)
	}
}
