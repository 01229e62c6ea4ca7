package auth

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/mmynk/consoleatm/internal/models"
)

var (
	ErrAccountNotFound   = errors.New("card not found")
	ErrInvalidCredential = errors.New("invalid PIN")
	ErrEmptyPIN          = errors.New("PIN must not be empty")
)

// AccountVerifier defines the ledger operations the authenticator needs.
// This allows the authenticator to be independent of the ledger implementation.
type AccountVerifier interface {
	Lookup(id string) (models.Account, error)
	VerifyCredential(id, credential string) bool
}

// PINAuthenticator implements card number + PIN authentication against the ledger.
type PINAuthenticator struct {
	accounts AccountVerifier
}

// NewPINAuthenticator creates a new PIN-based authenticator.
func NewPINAuthenticator(accounts AccountVerifier) *PINAuthenticator {
	return &PINAuthenticator{
		accounts: accounts,
	}
}

// Authenticate looks the card up, then checks the PIN.
func (a *PINAuthenticator) Authenticate(ctx context.Context, accountID, credential string) (models.Account, error) {
	account, err := a.accounts.Lookup(accountID)
	if err != nil {
		return models.Account{}, fmt.Errorf("%w: %w", ErrAccountNotFound, err)
	}

	if !a.accounts.VerifyCredential(accountID, credential) {
		return models.Account{}, ErrInvalidCredential
	}

	return account, nil
}

// BcryptMatch compares a supplied PIN against a stored bcrypt hash.
// It has the ledger.CredentialMatcher signature.
func BcryptMatch(storedHash, supplied string) bool {
	return bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(supplied)) == nil
}

// HashPIN returns a bcrypt hash suitable for a hashed seed file.
func HashPIN(pin string) (string, error) {
	if pin == "" {
		return "", ErrEmptyPIN
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash PIN: %w", err)
	}
	return string(hashed), nil
}
