package session

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Selector is a menu choice.
type Selector int

const (
	SelectorInvalid Selector = iota
	SelectorCheckBalance
	SelectorWithdraw
	SelectorDeposit
	SelectorTransfer
	SelectorExit
)

var selectorNames = map[Selector]string{
	SelectorCheckBalance: "check_balance",
	SelectorWithdraw:     "withdraw",
	SelectorDeposit:      "deposit",
	SelectorTransfer:     "transfer",
	SelectorExit:         "exit",
}

func (s Selector) String() string {
	if name, ok := selectorNames[s]; ok {
		return name
	}
	return fmt.Sprintf("selector(%d)", int(s))
}

// Valid reports whether s is one of the five menu operations.
func (s Selector) Valid() bool {
	_, ok := selectorNames[s]
	return ok
}

// ParseSelector maps menu input "1".."5" to a selector. Anything else yields
// SelectorInvalid.
func ParseSelector(input string) Selector {
	switch strings.TrimSpace(input) {
	case "1":
		return SelectorCheckBalance
	case "2":
		return SelectorWithdraw
	case "3":
		return SelectorDeposit
	case "4":
		return SelectorTransfer
	case "5":
		return SelectorExit
	default:
		return SelectorInvalid
	}
}

// Amounts are entered in hryvnias with at most kopeck precision.
const (
	maxAmountScale  = 2
	maxAmountDigits = 12
)

// ParseAmount parses a user-entered amount in plain decimal notation.
// Unparseable, zero, negative, over-precise and over-long amounts fail with
// ErrInvalidAmount.
func ParseAmount(input string) (decimal.Decimal, error) {
	input = strings.TrimSpace(input)
	if strings.ContainsAny(input, "eE") {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, input)
	}
	whole, _, _ := strings.Cut(strings.TrimLeft(input, "+-"), ".")
	if len(strings.TrimLeft(whole, "0")) > maxAmountDigits {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, input)
	}

	amount, err := decimal.NewFromString(input)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, input)
	}
	if !amount.IsPositive() {
		return decimal.Zero, ErrInvalidAmount
	}
	if amount.Exponent() < -maxAmountScale {
		return decimal.Zero, fmt.Errorf("%w: at most %d decimal places", ErrInvalidAmount, maxAmountScale)
	}
	return amount, nil
}

// Request is one turn of input from the shell.
type Request struct {
	Selector Selector

	// Amount is required for withdraw, deposit and transfer.
	Amount decimal.Decimal

	// Destination is the target account of a transfer.
	Destination string
}
