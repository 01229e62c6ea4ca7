package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/mmynk/consoleatm/internal/ledger"
	"github.com/mmynk/consoleatm/internal/models"
)

func TestPINAuthenticator(t *testing.T) {
	l, err := ledger.New([]models.Account{
		models.NewAccount("12345678", "1234", decimal.NewFromInt(1000)),
	})
	if err != nil {
		t.Fatalf("ledger.New failed: %v", err)
	}
	a := NewPINAuthenticator(l)
	ctx := context.Background()

	t.Run("valid PIN", func(t *testing.T) {
		acct, err := a.Authenticate(ctx, "12345678", "1234")
		if err != nil {
			t.Fatalf("Authenticate failed: %v", err)
		}
		if acct.ID != "12345678" {
			t.Errorf("account id = %s, want 12345678", acct.ID)
		}
	})

	t.Run("wrong PIN", func(t *testing.T) {
		if _, err := a.Authenticate(ctx, "12345678", "4321"); !errors.Is(err, ErrInvalidCredential) {
			t.Errorf("got %v, want ErrInvalidCredential", err)
		}
	})

	t.Run("unknown card", func(t *testing.T) {
		_, err := a.Authenticate(ctx, "00000000", "1234")
		if !errors.Is(err, ErrAccountNotFound) {
			t.Errorf("got %v, want ErrAccountNotFound", err)
		}
	})
}

func TestBcryptMatch(t *testing.T) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("4321"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}

	if !BcryptMatch(string(hashed), "4321") {
		t.Error("expected hash to match")
	}
	if BcryptMatch(string(hashed), "1234") {
		t.Error("expected wrong PIN to fail")
	}
	if BcryptMatch("not-a-hash", "4321") {
		t.Error("expected malformed hash to fail")
	}
}

func TestHashedPINsThroughLedger(t *testing.T) {
	hashed, err := HashPIN("1234")
	if err != nil {
		t.Fatalf("HashPIN failed: %v", err)
	}
	l, err := ledger.New(
		[]models.Account{models.NewAccount("12345678", hashed, decimal.Zero)},
		ledger.WithCredentialMatcher(BcryptMatch),
	)
	if err != nil {
		t.Fatal(err)
	}

	a := NewPINAuthenticator(l)
	if _, err := a.Authenticate(context.Background(), "12345678", "1234"); err != nil {
		t.Errorf("Authenticate failed: %v", err)
	}
	if _, err := a.Authenticate(context.Background(), "12345678", hashed); !errors.Is(err, ErrInvalidCredential) {
		t.Errorf("supplying the hash itself: got %v, want ErrInvalidCredential", err)
	}
}

func TestHashPINEmpty(t *testing.T) {
	if _, err := HashPIN(""); !errors.Is(err, ErrEmptyPIN) {
		t.Errorf("got %v, want ErrEmptyPIN", err)
	}
}

func TestUnknownCardMatchesLedgerError(t *testing.T) {
	l, err := ledger.New(nil)
	if err != nil {
		t.Fatal(err)
	}
	_, err = NewPINAuthenticator(l).Authenticate(context.Background(), "1", "1")
	if !errors.Is(err, ledger.ErrAccountNotFound) {
		t.Errorf("got %v, want wrapped ledger.ErrAccountNotFound", err)
	}
}
