package session

import (
	"errors"

	"github.com/mmynk/consoleatm/internal/auth"
	"github.com/mmynk/consoleatm/internal/ledger"
)

var (
	ErrInvalidSelector      = errors.New("invalid choice")
	ErrSessionTerminated    = errors.New("session terminated")
	ErrAlreadyAuthenticated = errors.New("session already authenticated")
	ErrNotAuthenticated     = errors.New("session not authenticated")
)

// Errors raised by the ledger and authenticator, re-exported so callers only
// need this package.
var (
	ErrAccountNotFound   = ledger.ErrAccountNotFound
	ErrInvalidCredential = auth.ErrInvalidCredential
	ErrInvalidAmount     = ledger.ErrInvalidAmount
	ErrInsufficientFunds = ledger.ErrInsufficientFunds
)
