// Package services orchestrates multi-step money movements on top of the
// state store: advisory limit checks before recording, and the lockup spend
// that touches two collections at once.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"moneytrack/internal/core"
	"moneytrack/internal/limits"
	"moneytrack/internal/log"
	"moneytrack/internal/state"
)

// ErrLimitExceeded marks an expense held back until it is confirmed.
var ErrLimitExceeded = errors.New("spending limit exceeded")

// LimitError carries the evaluation that held an expense back.
type LimitError struct {
	Result limits.Result
}

func (e *LimitError) Error() string {
	return fmt.Sprintf("%s: %s", ErrLimitExceeded, e.Result.Category)
}

func (e *LimitError) Unwrap() error { return ErrLimitExceeded }

// Dispatcher is the part of *state.Store the service needs.
type Dispatcher interface {
	Snapshot() core.AppState
	Dispatch(ctx context.Context, cmd state.Command) (core.AppState, error)
}

// TransactionService records and removes transactions.
type TransactionService struct {
	store  Dispatcher
	now    func() time.Time
	newID  func() string
	logger *log.Logger
}

func NewTransactionService(store Dispatcher, now func() time.Time, logger *log.Logger) *TransactionService {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = log.Discard()
	}
	return &TransactionService{
		store:  store,
		now:    now,
		newID:  state.NewID,
		logger: logger.WithComponent(log.ComponentServices),
	}
}

// Record stores tx, assigning an ID when it has none. An unconfirmed expense
// that would breach its category limit is not stored; Record returns a
// *LimitError instead.
func (s *TransactionService) Record(ctx context.Context, tx core.Transaction, confirm bool) (core.Transaction, error) {
	if tx.ID == "" {
		tx.ID = s.newID()
	}
	if tx.Kind == core.Expense && !confirm {
		snap := s.store.Snapshot()
		res := limits.Evaluate(tx.Category, tx.Amount, snap.CategoryLimits, snap.Transactions, s.now())
		if res.Exceeded() {
			s.logger.InfoContext(ctx, "Expense held for limit confirmation",
				log.NewFields().WithMovement(tx.Kind.String(), tx.Category, tx.Amount).ToSlice()...)
			return tx, &LimitError{Result: res}
		}
	}

	next, err := s.store.Dispatch(ctx, state.AddTransaction{Transaction: tx})
	if err != nil {
		return tx, err
	}
	// AddTransaction prepends, so the stored (trimmed) copy is first.
	return next.Transactions[0], nil
}

// Delete removes the transaction with id.
func (s *TransactionService) Delete(ctx context.Context, id string) error {
	_, err := s.store.Dispatch(ctx, state.DeleteTransaction{ID: id})
	return err
}

// SpendFromLockup draws amount from the lockup and records the matching
// expense now. It returns the updated lockup and the new transaction.
func (s *TransactionService) SpendFromLockup(ctx context.Context, id string, amount decimal.Decimal, emergency bool) (core.Lockup, core.Transaction, error) {
	next, err := s.store.Dispatch(ctx, state.SpendFromLockup{
		ID:            id,
		Amount:        amount,
		Emergency:     emergency,
		TransactionID: s.newID(),
		At:            s.now(),
	})
	if err != nil {
		return core.Lockup{}, core.Transaction{}, err
	}
	for _, l := range next.Lockups {
		if l.ID == id {
			s.logger.DebugContext(ctx, "Lockup spent",
				log.FieldEntityID, id,
				log.FieldAmount, amount.String(),
				"emergency", emergency)
			return l, next.Transactions[0], nil
		}
	}
	return core.Lockup{}, core.Transaction{}, fmt.Errorf("%w: lockup %q", core.ErrNotFound, id)
}
