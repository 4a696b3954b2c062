package core

import "github.com/shopspring/decimal"

func cloneAmount(d *decimal.Decimal) *decimal.Decimal {
	if d == nil {
		return nil
	}
	c := *d
	return &c
}

// cloneSlice copies in, keeping the nil/empty distinction.
func cloneSlice[T any](in []T) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(in))
	copy(out, in)
	return out
}

// Clone returns a copy of s that shares no slices or pointers with it.
func (s AppState) Clone() AppState {
	out := s
	if s.User != nil {
		u := *s.User
		out.User = &u
	}
	out.Transactions = cloneSlice(s.Transactions)
	out.Lockups = cloneSlice(s.Lockups)
	out.Savings = cloneSlice(s.Savings)
	out.Categories = Categories{
		Income:  cloneSlice(s.Categories.Income),
		Expense: cloneSlice(s.Categories.Expense),
	}

	out.Events = cloneSlice(s.Events)
	for i := range out.Events {
		out.Events[i].Categories = cloneSlice(out.Events[i].Categories)
		out.Events[i].Budget = cloneAmount(out.Events[i].Budget)
	}
	out.CategoryLimits = cloneSlice(s.CategoryLimits)
	for i := range out.CategoryLimits {
		out.CategoryLimits[i].Daily = cloneAmount(out.CategoryLimits[i].Daily)
		out.CategoryLimits[i].Monthly = cloneAmount(out.CategoryLimits[i].Monthly)
	}
	return out
}
