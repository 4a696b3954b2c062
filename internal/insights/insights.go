// Package insights derives advisory text for the dashboard from the snapshot.
package insights

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"moneytrack/internal/core"
)

const (
	// UpcomingWindowDays is how far ahead an event counts as upcoming.
	UpcomingWindowDays = 7
	recentExpenseCount = 10
)

var financeTips = []string{
	"Set a weekly spending limit and track your progress daily",
	"Use the 50/30/20 rule: 50% needs, 30% wants, 20% savings",
	"Cook meals at home to save on food expenses",
	"Take advantage of student discounts whenever possible",
	"Review your subscriptions monthly and cancel unused ones",
	"Use campus resources like libraries and gyms instead of paying for alternatives",
	"Plan major purchases during sale seasons",
	"Consider buying textbooks used or renting them",
	"Track small daily expenses - they add up quickly",
	"Set up automatic transfers to your savings account",
}

// FinanceTips returns a copy of the static tip list.
func FinanceTips() []string {
	return append([]string(nil), financeTips...)
}

// UpcomingEvents returns events dated from today through today+days, in
// now's calendar, ordered by date. Equal dates keep snapshot order.
func UpcomingEvents(events []core.Event, now time.Time, days int) []core.Event {
	today := core.DateOf(now)
	last := today.AddDays(days)
	var out []core.Event
	for _, e := range events {
		if e.Date.Before(today.Time) || e.Date.After(last.Time) {
			continue
		}
		out = append(out, e)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date.Time)
	})
	return out
}

// Suggestions builds the dashboard hints: one line per event in the coming
// week, then the heaviest category among the most recent expenses. With
// nothing to say it falls back to the first two finance tips.
func Suggestions(events []core.Event, txs []core.Transaction, now time.Time, currency string) []string {
	var out []string
	today := core.DateOf(now)

	for _, e := range UpcomingEvents(events, now, UpcomingWindowDays) {
		cats := strings.Join(e.Categories, ", ")
		if e.Date.Equal(today.Time) {
			out = append(out, fmt.Sprintf("Today's event: %s - Consider tracking expenses for: %s", e.Title, cats))
			continue
		}
		out = append(out, fmt.Sprintf("Upcoming event: %s on %s - Budget for: %s", e.Title, e.Date.Format("Jan 02"), cats))
	}

	if name, total, ok := topRecentCategory(txs); ok {
		out = append(out, fmt.Sprintf("Your top spending category this period: %s (%s%s)", name, currency, total.StringFixed(0)))
	}

	if len(out) == 0 {
		return FinanceTips()[:2]
	}
	return out
}

// topRecentCategory looks at the first recentExpenseCount expenses of the
// newest-first list. Ties go to the category seen first.
func topRecentCategory(txs []core.Transaction) (string, decimal.Decimal, bool) {
	totals := make(map[string]decimal.Decimal)
	var order []string
	seen := 0
	for _, t := range txs {
		if seen == recentExpenseCount {
			break
		}
		if t.Kind != core.Expense {
			continue
		}
		seen++
		if _, ok := totals[t.Category]; !ok {
			order = append(order, t.Category)
		}
		totals[t.Category] = totals[t.Category].Add(t.Amount)
	}
	if len(order) == 0 {
		return "", decimal.Zero, false
	}
	best := order[0]
	for _, name := range order[1:] {
		if totals[name].GreaterThan(totals[best]) {
			best = name
		}
	}
	return best, totals[best], true
}
