package ledger

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"moneytrack/internal/core"
)

var hundred = decimal.NewFromInt(100)

// CategoryTotals groups transactions of kind by category, largest first.
// Ties are ordered by name.
func CategoryTotals(txs []core.Transaction, kind core.Kind) []core.CategoryAmount {
	byName := make(map[string]decimal.Decimal)
	for _, t := range txs {
		if t.Kind != kind {
			continue
		}
		byName[t.Category] = byName[t.Category].Add(t.Amount)
	}
	out := make([]core.CategoryAmount, 0, len(byName))
	for name, amount := range byName {
		out = append(out, core.CategoryAmount{Name: name, Amount: amount})
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Amount.Cmp(out[j].Amount); c != 0 {
			return c > 0
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// TopCategories returns at most n entries of the expense breakdown.
func TopCategories(txs []core.Transaction, n int) []core.CategoryAmount {
	if n <= 0 {
		return nil
	}
	all := CategoryTotals(txs, core.Expense)
	if len(all) > n {
		all = all[:n]
	}
	return all
}

// MonthlyTrend reports income, expense and net for the last months calendar
// months, oldest first, ending with now's month. Months are evaluated in
// now's location.
func MonthlyTrend(txs []core.Transaction, now time.Time, months int) []core.MonthSummary {
	if months <= 0 {
		return nil
	}
	loc := now.Location()
	first := MonthWindow{}.Start(now).AddDate(0, -(months - 1), 0)

	out := make([]core.MonthSummary, months)
	for i := range out {
		m := first.AddDate(0, i, 0)
		out[i] = core.MonthSummary{
			Year:    m.Year(),
			Month:   int(m.Month()),
			Label:   m.Format("Jan"),
			Income:  decimal.Zero,
			Expense: decimal.Zero,
		}
	}
	for _, t := range txs {
		local := t.Date.In(loc)
		idx := (local.Year()-first.Year())*12 + int(local.Month()) - int(first.Month())
		if idx < 0 || idx >= months {
			continue
		}
		switch t.Kind {
		case core.Income:
			out[idx].Income = out[idx].Income.Add(t.Amount)
		case core.Expense:
			out[idx].Expense = out[idx].Expense.Add(t.Amount)
		}
	}
	for i := range out {
		out[i].Net = out[i].Income.Sub(out[i].Expense)
	}
	return out
}

// SavingsRate is the share of income not spent, in percent. Zero income
// yields zero.
func SavingsRate(txs []core.Transaction) decimal.Decimal {
	income := TotalIncome(txs)
	if !income.IsPositive() {
		return decimal.Zero
	}
	return income.Sub(TotalExpense(txs)).Div(income).Mul(hundred)
}

// AverageDailyExpense spreads total expense over a 30 day month.
func AverageDailyExpense(txs []core.Transaction) decimal.Decimal {
	return TotalExpense(txs).Div(decimal.NewFromInt(30))
}

// FrequentCategories returns up to n expense categories ordered by how many
// transactions use them. Ties keep first-seen order.
func FrequentCategories(txs []core.Transaction, n int) []string {
	if n <= 0 {
		return nil
	}
	counts := make(map[string]int)
	var order []string
	for _, t := range txs {
		if t.Kind != core.Expense {
			continue
		}
		if _, seen := counts[t.Category]; !seen {
			order = append(order, t.Category)
		}
		counts[t.Category]++
	}
	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	if len(order) > n {
		order = order[:n]
	}
	return order
}
