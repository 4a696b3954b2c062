package state

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"moneytrack/internal/allocation"
	"moneytrack/internal/core"
)

// LockupSpendCategory is the expense category recorded for lockup spending.
const LockupSpendCategory = "Other"

// ErrIncompleteCommand marks a command missing caller-supplied identity or time.
var ErrIncompleteCommand = errors.New("incomplete command")

// Apply returns the snapshot that results from cmd. It never mutates s. On a
// validation failure it returns s unchanged together with the error.
func Apply(s core.AppState, cmd Command) (core.AppState, error) {
	next, err := apply(s, cmd)
	if err != nil {
		return s, fmt.Errorf("%s: %w", cmd.Name(), err)
	}
	return next, nil
}

func apply(s core.AppState, cmd Command) (core.AppState, error) {
	switch c := cmd.(type) {
	case SetUser:
		if c.User != nil {
			u := *c.User
			s.User = &u
		} else {
			s.User = nil
		}
		return s, nil

	case AddTransaction:
		tx := c.Transaction
		tx.Category = strings.TrimSpace(tx.Category)
		tx.Notes = strings.TrimSpace(tx.Notes)
		if err := tx.Validate(); err != nil {
			return s, err
		}
		s.Transactions = prepend(s.Transactions, tx)
		return s, nil

	case DeleteTransaction:
		out, ok := without(s.Transactions, func(t core.Transaction) bool { return t.ID == c.ID })
		if !ok {
			return s, notFound("transaction", c.ID)
		}
		s.Transactions = out
		return s, nil

	case AddEvent:
		ev := c.Event
		ev.Title = strings.TrimSpace(ev.Title)
		ev.Notes = strings.TrimSpace(ev.Notes)
		ev.Categories = append([]string{}, ev.Categories...)
		if err := ev.Validate(); err != nil {
			return s, err
		}
		s.Events = prepend(s.Events, ev)
		return s, nil

	case DeleteEvent:
		out, ok := without(s.Events, func(e core.Event) bool { return e.ID == c.ID })
		if !ok {
			return s, notFound("event", c.ID)
		}
		s.Events = out
		return s, nil

	case AddLockup:
		l := c.Lockup
		l.Title = strings.TrimSpace(l.Title)
		l.Balance = l.Amount
		if err := l.Validate(); err != nil {
			return s, err
		}
		s.Lockups = prepend(s.Lockups, l)
		return s, nil

	case DeleteLockup:
		out, ok := without(s.Lockups, func(l core.Lockup) bool { return l.ID == c.ID })
		if !ok {
			return s, notFound("lockup", c.ID)
		}
		s.Lockups = out
		return s, nil

	case SpendFromLockup:
		return spendFromLockup(s, c)

	case AddSaving:
		sv := c.Saving
		sv.Title = strings.TrimSpace(sv.Title)
		sv.CurrentAmount = decimal.Zero
		if err := sv.Validate(); err != nil {
			return s, err
		}
		s.Savings = prepend(s.Savings, sv)
		return s, nil

	case DeleteSaving:
		out, ok := without(s.Savings, func(sv core.Saving) bool { return sv.ID == c.ID })
		if !ok {
			return s, notFound("saving", c.ID)
		}
		s.Savings = out
		return s, nil

	case ContributeToSaving:
		return updateSaving(s, c.ID, func(sv core.Saving) (core.Saving, error) {
			return allocation.ContributeToSaving(sv, c.Amount)
		})

	case WithdrawFromSaving:
		return updateSaving(s, c.ID, func(sv core.Saving) (core.Saving, error) {
			return allocation.WithdrawFromSaving(sv, c.Amount)
		})

	case AddCategory:
		return addCategory(s, c)

	case DeleteCategory:
		return deleteCategory(s, c)

	case SetCategoryLimit:
		l := c.Limit
		l.Category = strings.TrimSpace(l.Category)
		if err := l.Validate(); err != nil {
			return s, err
		}
		if l.Empty() {
			s.CategoryLimits, _ = without(s.CategoryLimits, func(x core.CategoryLimit) bool { return x.Category == l.Category })
			return s, nil
		}
		s.CategoryLimits = upsertLimit(s.CategoryLimits, l)
		return s, nil

	case DeleteCategoryLimit:
		out, ok := without(s.CategoryLimits, func(x core.CategoryLimit) bool { return x.Category == c.Category })
		if !ok {
			return s, notFound("category limit", c.Category)
		}
		s.CategoryLimits = out
		return s, nil

	case SetTheme:
		if !c.Theme.Valid() {
			return s, fmt.Errorf("%w: %q", core.ErrInvalidTheme, c.Theme)
		}
		s.Theme = c.Theme
		return s, nil

	case LoadState:
		return c.State.Clone(), nil
	}
	return s, fmt.Errorf("unknown command %T", cmd)
}

func spendFromLockup(s core.AppState, c SpendFromLockup) (core.AppState, error) {
	idx := indexOf(s.Lockups, func(l core.Lockup) bool { return l.ID == c.ID })
	if idx < 0 {
		return s, notFound("lockup", c.ID)
	}
	if c.TransactionID == "" || c.At.IsZero() {
		return s, fmt.Errorf("%w: spend needs a transaction id and time", ErrIncompleteCommand)
	}
	updated, err := allocation.SpendFromLockup(s.Lockups[idx], c.Amount)
	if err != nil {
		return s, err
	}

	notes := "Spent from lockup: " + updated.Title
	if c.Emergency {
		notes += " (Emergency)"
	}
	s.Lockups = replaceAt(s.Lockups, idx, updated)
	s.Transactions = prepend(s.Transactions, core.Transaction{
		ID:       c.TransactionID,
		Kind:     core.Expense,
		Category: LockupSpendCategory,
		Amount:   c.Amount,
		Date:     c.At,
		Notes:    notes,
	})
	return s, nil
}

func updateSaving(s core.AppState, id string, fn func(core.Saving) (core.Saving, error)) (core.AppState, error) {
	idx := indexOf(s.Savings, func(sv core.Saving) bool { return sv.ID == id })
	if idx < 0 {
		return s, notFound("saving", id)
	}
	updated, err := fn(s.Savings[idx])
	if err != nil {
		return s, err
	}
	s.Savings = replaceAt(s.Savings, idx, updated)
	return s, nil
}

func addCategory(s core.AppState, c AddCategory) (core.AppState, error) {
	name := strings.TrimSpace(c.Name)
	if name == "" {
		return s, core.ErrEmptyCategory
	}
	if !c.Kind.Valid() {
		return s, core.ErrInvalidKind
	}
	list := s.Categories.CategoriesFor(c.Kind)
	for _, existing := range list {
		if strings.EqualFold(existing, name) {
			return s, fmt.Errorf("%w: %q", core.ErrDuplicateCategory, existing)
		}
	}
	grown := append(append(make([]string, 0, len(list)+1), list...), name)
	s.Categories = withCategories(s.Categories, c.Kind, grown)
	return s, nil
}

func deleteCategory(s core.AppState, c DeleteCategory) (core.AppState, error) {
	if !c.Kind.Valid() {
		return s, core.ErrInvalidKind
	}
	list := s.Categories.CategoriesFor(c.Kind)
	if indexOf(list, func(n string) bool { return n == c.Name }) < 0 {
		return s, notFound("category", c.Name)
	}
	for _, t := range s.Transactions {
		if t.Kind == c.Kind && t.Category == c.Name {
			return s, fmt.Errorf("%w: %q", core.ErrCategoryInUse, c.Name)
		}
	}
	shrunk, _ := without(list, func(n string) bool { return n == c.Name })
	s.Categories = withCategories(s.Categories, c.Kind, shrunk)
	s.CategoryLimits, _ = without(s.CategoryLimits, func(l core.CategoryLimit) bool { return l.Category == c.Name })
	return s, nil
}

func withCategories(c core.Categories, k core.Kind, list []string) core.Categories {
	switch k {
	case core.Income:
		c.Income = list
	case core.Expense:
		c.Expense = list
	}
	return c
}

func upsertLimit(limits []core.CategoryLimit, l core.CategoryLimit) []core.CategoryLimit {
	if idx := indexOf(limits, func(x core.CategoryLimit) bool { return x.Category == l.Category }); idx >= 0 {
		return replaceAt(limits, idx, l)
	}
	return append(append(make([]core.CategoryLimit, 0, len(limits)+1), limits...), l)
}

func notFound(what, id string) error {
	return fmt.Errorf("%w: %s %q", core.ErrNotFound, what, id)
}

func prepend[T any](list []T, v T) []T {
	out := make([]T, 0, len(list)+1)
	out = append(out, v)
	return append(out, list...)
}

// without returns a new slice lacking every element matching drop, and
// whether anything was dropped.
func without[T any](list []T, drop func(T) bool) ([]T, bool) {
	out := make([]T, 0, len(list))
	for _, v := range list {
		if !drop(v) {
			out = append(out, v)
		}
	}
	return out, len(out) != len(list)
}

func replaceAt[T any](list []T, idx int, v T) []T {
	out := make([]T, len(list))
	copy(out, list)
	out[idx] = v
	return out
}

func indexOf[T any](list []T, match func(T) bool) int {
	for i, v := range list {
		if match(v) {
			return i
		}
	}
	return -1
}
