// Package state owns the single live snapshot. Changes are expressed as typed
// commands applied by a pure transition function; Store wraps it with a
// mutex and best-effort persistence.
package state

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"moneytrack/internal/core"
)

// Command is a request to change the snapshot. The set is closed.
type Command interface {
	Name() string
	command()
}

type (
	SetUser struct {
		User *core.User // nil logs out
	}

	AddTransaction struct {
		Transaction core.Transaction
	}

	DeleteTransaction struct {
		ID string
	}

	AddEvent struct {
		Event core.Event
	}

	DeleteEvent struct {
		ID string
	}

	// AddLockup locks Lockup.Amount; the balance starts full.
	AddLockup struct {
		Lockup core.Lockup
	}

	DeleteLockup struct {
		ID string
	}

	// SpendFromLockup draws from a lockup and records the matching expense
	// under TransactionID at At.
	SpendFromLockup struct {
		ID            string
		Amount        decimal.Decimal
		Emergency     bool
		TransactionID string
		At            time.Time
	}

	// AddSaving starts a goal at zero.
	AddSaving struct {
		Saving core.Saving
	}

	DeleteSaving struct {
		ID string
	}

	ContributeToSaving struct {
		ID     string
		Amount decimal.Decimal
	}

	WithdrawFromSaving struct {
		ID     string
		Amount decimal.Decimal
	}

	AddCategory struct {
		Kind core.Kind
		Name string
	}

	DeleteCategory struct {
		Kind core.Kind
		Name string
	}

	// SetCategoryLimit upserts by category; a limit with no caps removes it.
	SetCategoryLimit struct {
		Limit core.CategoryLimit
	}

	DeleteCategoryLimit struct {
		Category string
	}

	SetTheme struct {
		Theme core.Theme
	}

	// LoadState replaces the whole snapshot.
	LoadState struct {
		State core.AppState
	}
)

func (SetUser) Name() string             { return "set_user" }
func (AddTransaction) Name() string      { return "add_transaction" }
func (DeleteTransaction) Name() string   { return "delete_transaction" }
func (AddEvent) Name() string            { return "add_event" }
func (DeleteEvent) Name() string         { return "delete_event" }
func (AddLockup) Name() string           { return "add_lockup" }
func (DeleteLockup) Name() string        { return "delete_lockup" }
func (SpendFromLockup) Name() string     { return "spend_from_lockup" }
func (AddSaving) Name() string           { return "add_saving" }
func (DeleteSaving) Name() string        { return "delete_saving" }
func (ContributeToSaving) Name() string  { return "contribute_to_saving" }
func (WithdrawFromSaving) Name() string  { return "withdraw_from_saving" }
func (AddCategory) Name() string         { return "add_category" }
func (DeleteCategory) Name() string      { return "delete_category" }
func (SetCategoryLimit) Name() string    { return "set_category_limit" }
func (DeleteCategoryLimit) Name() string { return "delete_category_limit" }
func (SetTheme) Name() string            { return "set_theme" }
func (LoadState) Name() string           { return "load_state" }

func (SetUser) command()             {}
func (AddTransaction) command()      {}
func (DeleteTransaction) command()   {}
func (AddEvent) command()            {}
func (DeleteEvent) command()         {}
func (AddLockup) command()           {}
func (DeleteLockup) command()        {}
func (SpendFromLockup) command()     {}
func (AddSaving) command()           {}
func (DeleteSaving) command()        {}
func (ContributeToSaving) command()  {}
func (WithdrawFromSaving) command()  {}
func (AddCategory) command()         {}
func (DeleteCategory) command()      {}
func (SetCategoryLimit) command()    {}
func (DeleteCategoryLimit) command() {}
func (SetTheme) command()            {}
func (LoadState) command()           {}

// NewID returns a fresh opaque identifier for transactions, events, lockups
// and savings.
func NewID() string {
	return uuid.NewString()
}
