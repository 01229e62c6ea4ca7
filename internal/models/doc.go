// Package models defines the core domain records for the ATM.
//
// # Records
//
//   - Account: a card-numbered account holding a credential and a balance
//   - Event: a notification raised by a session (authentication, balance
//     checks, withdrawals, transfers)
//
// Relationships between records use ID strings rather than pointers. A session
// refers to its account by ID and never holds a copy of the balance.
//
// # Money
//
// All amounts are shopspring/decimal values. Binary floating point is never
// used for balances so deposits like 50.5 stay exact.
package models
