// Package console is the text front end of the ATM. It only prompts, reads
// and renders; every decision is made by the session controller.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/shopspring/decimal"

	"github.com/mmynk/consoleatm/internal/session"
)

// Controller is the part of session.Controller the shell drives.
type Controller interface {
	Authenticate(ctx context.Context, accountID, credential string) session.Outcome
	Handle(ctx context.Context, req session.Request) session.Outcome
}

// Shell reads cardholder input line by line and prints outcomes.
type Shell struct {
	in  *bufio.Scanner
	out io.Writer
	ctl Controller
}

// New creates a shell reading from in and writing to out.
func New(in io.Reader, out io.Writer, ctl Controller) *Shell {
	return &Shell{
		in:  bufio.NewScanner(in),
		out: out,
		ctl: ctl,
	}
}

// Run authenticates once and then serves the menu until exit, end of input or
// a cancelled context. A failed authentication ends Run without error.
func (s *Shell) Run(ctx context.Context) error {
	s.println("Welcome to the ATM!")

	cardNumber, ok := s.prompt("Enter card number: ")
	if !ok {
		return s.in.Err()
	}
	pin, ok := s.prompt("Enter PIN: ")
	if !ok {
		return s.in.Err()
	}

	out := s.ctl.Authenticate(ctx, cardNumber, pin)
	s.println(Render(out))
	if !out.Success {
		return nil
	}

	for {
		if err := ctx.Err(); err != nil {
			s.ctl.Handle(context.WithoutCancel(ctx), session.Request{Selector: session.SelectorExit})
			return err
		}

		fmt.Fprint(s.out, menu)
		choice, ok := s.prompt("")
		if !ok {
			// End of input behaves like choosing Exit.
			s.println(Render(s.ctl.Handle(ctx, session.Request{Selector: session.SelectorExit})))
			return s.in.Err()
		}

		out, done := s.turn(ctx, session.ParseSelector(choice))
		s.println(Render(out))
		if done {
			return nil
		}
	}
}

// turn collects the inputs a selector needs and runs it. done is true once
// the session has ended.
func (s *Shell) turn(ctx context.Context, sel session.Selector) (session.Outcome, bool) {
	req := session.Request{Selector: sel}

	switch sel {
	case session.SelectorWithdraw, session.SelectorDeposit:
		label := "withdraw"
		if sel == session.SelectorDeposit {
			label = "deposit"
		}
		amount, err := s.readAmount(fmt.Sprintf("Enter amount to %s: ", label))
		if err != nil {
			return session.Rejected(err), false
		}
		req.Amount = amount
	case session.SelectorTransfer:
		destination, ok := s.prompt("Enter destination card number: ")
		if !ok {
			return s.ctl.Handle(ctx, session.Request{Selector: session.SelectorExit}), true
		}
		amount, err := s.readAmount("Enter amount to transfer: ")
		if err != nil {
			return session.Rejected(err), false
		}
		req.Destination = destination
		req.Amount = amount
	}

	out := s.ctl.Handle(ctx, req)
	done := out.Kind == session.KindGoodbye || out.Kind == session.KindTerminated
	return out, done
}

func (s *Shell) readAmount(label string) (decimal.Decimal, error) {
	input, _ := s.prompt(label)
	return session.ParseAmount(input)
}

func (s *Shell) prompt(label string) (string, bool) {
	if label != "" {
		fmt.Fprint(s.out, label)
	}
	if !s.in.Scan() {
		return "", false
	}
	return s.in.Text(), true
}

func (s *Shell) println(line string) {
	fmt.Fprintln(s.out, line)
}
