package console

import (
	"fmt"

	"github.com/mmynk/consoleatm/internal/session"
)

const currency = "UAH"

const menu = `
Choose an operation:
1. Check balance
2. Withdraw
3. Deposit
4. Transfer
5. Exit
`

// Render turns an outcome into the text shown to the cardholder.
func Render(o session.Outcome) string {
	switch o.Kind {
	case session.KindAuthenticated:
		return "Authentication successful."
	case session.KindBalance:
		return fmt.Sprintf("Your balance: %s %s.", o.Balance.Decimal, currency)
	case session.KindWithdrawn:
		return fmt.Sprintf("You withdrew %s %s. Remaining balance: %s %s.",
			o.Amount.Decimal, currency, o.Balance.Decimal, currency)
	case session.KindDeposited:
		return fmt.Sprintf("You deposited %s %s. New balance: %s %s.",
			o.Amount.Decimal, currency, o.Balance.Decimal, currency)
	case session.KindTransferred:
		return fmt.Sprintf("Transfer of %s %s completed. Remaining balance: %s %s.",
			o.Amount.Decimal, currency, o.Balance.Decimal, currency)
	case session.KindGoodbye:
		return "Thank you for using the ATM!"
	case session.KindAccountNotFound:
		return "Card not found."
	case session.KindInvalidCredential:
		return "Invalid PIN."
	case session.KindInvalidAmount:
		return "Invalid amount."
	case session.KindInsufficientFunds:
		return "Insufficient funds."
	case session.KindInvalidSelector:
		return "Invalid choice, please try again."
	case session.KindAlreadyAuthenticated:
		return "Already signed in."
	case session.KindNotAuthenticated:
		return "Please sign in first."
	default:
		return "Session has ended."
	}
}
