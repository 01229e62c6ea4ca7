package auth

import (
	"context"

	"github.com/mmynk/consoleatm/internal/models"
)

// Authenticator verifies a card number and credential pair.
// This abstraction lets the session controller stay unaware of how
// credentials are stored (plain PINs, bcrypt hashes, etc.).
type Authenticator interface {
	// Authenticate returns the account when the credential is valid.
	// Returns ErrAccountNotFound for an unknown card and ErrInvalidCredential
	// for a known card with the wrong credential.
	Authenticate(ctx context.Context, accountID, credential string) (models.Account, error)
}
