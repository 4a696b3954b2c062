package ledger

import (
	"sort"
	"strings"
	"time"

	"moneytrack/internal/core"
)

const monthLayout = "2006-01"

// Filter narrows a transaction list. Zero fields match everything.
type Filter struct {
	Query    string         // case-insensitive match on category, notes or amount
	Kind     core.Kind      // 0 means both kinds
	Month    string         // YYYY-MM
	Location *time.Location // month boundaries; nil uses each transaction's own
}

func (f Filter) matches(t core.Transaction) bool {
	if f.Kind != 0 && t.Kind != f.Kind {
		return false
	}
	if f.Month != "" && monthKey(t.Date, f.Location) != f.Month {
		return false
	}
	q := strings.ToLower(strings.TrimSpace(f.Query))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(t.Category), q) ||
		strings.Contains(strings.ToLower(t.Notes), q) ||
		strings.Contains(t.Amount.String(), q)
}

// Apply returns the matching transactions in their original order.
func (f Filter) Apply(txs []core.Transaction) []core.Transaction {
	out := make([]core.Transaction, 0, len(txs))
	for _, t := range txs {
		if f.matches(t) {
			out = append(out, t)
		}
	}
	return out
}

func monthKey(t time.Time, loc *time.Location) string {
	if loc != nil {
		t = t.In(loc)
	}
	return t.Format(monthLayout)
}

// Months lists the distinct YYYY-MM months present, newest first.
func Months(txs []core.Transaction, loc *time.Location) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, t := range txs {
		k := monthKey(t.Date, loc)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(out)))
	return out
}
