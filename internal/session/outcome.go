package session

import (
	"github.com/shopspring/decimal"
)

// MessageKind classifies an outcome for rendering.
type MessageKind int

const (
	KindAuthenticated MessageKind = iota + 1
	KindBalance
	KindWithdrawn
	KindDeposited
	KindTransferred
	KindGoodbye
	KindAccountNotFound
	KindInvalidCredential
	KindInvalidAmount
	KindInsufficientFunds
	KindInvalidSelector
	KindAlreadyAuthenticated
	KindNotAuthenticated
	KindTerminated
)

var kindNames = map[MessageKind]string{
	KindAuthenticated:        "authenticated",
	KindBalance:              "balance",
	KindWithdrawn:            "withdrawn",
	KindDeposited:            "deposited",
	KindTransferred:          "transferred",
	KindGoodbye:              "goodbye",
	KindAccountNotFound:      "account_not_found",
	KindInvalidCredential:    "invalid_credential",
	KindInvalidAmount:        "invalid_amount",
	KindInsufficientFunds:    "insufficient_funds",
	KindInvalidSelector:      "invalid_selector",
	KindAlreadyAuthenticated: "already_authenticated",
	KindNotAuthenticated:     "not_authenticated",
	KindTerminated:           "terminated",
}

func (k MessageKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Outcome is the structured result of one controller call.
type Outcome struct {
	Success bool
	Kind    MessageKind

	// Balance is the account balance after the operation, when one applies.
	Balance decimal.NullDecimal

	// Amount echoes the amount that was moved.
	Amount decimal.NullDecimal

	// Err is the underlying error for failed outcomes.
	Err error
}

func succeeded(kind MessageKind, balance decimal.Decimal) Outcome {
	return Outcome{
		Success: true,
		Kind:    kind,
		Balance: decimal.NewNullDecimal(balance),
	}
}

func failed(kind MessageKind, err error) Outcome {
	return Outcome{Kind: kind, Err: err}
}

// Rejected builds the outcome for input the shell refused before reaching
// the controller, such as an unparseable amount.
func Rejected(err error) Outcome {
	return failed(kindFor(err), err)
}
