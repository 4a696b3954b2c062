package ledger

import (
	"time"

	"github.com/shopspring/decimal"

	"moneytrack/internal/core"
)

func sumKind(txs []core.Transaction, kind core.Kind) decimal.Decimal {
	total := decimal.Zero
	for _, t := range txs {
		if t.Kind == kind {
			total = total.Add(t.Amount)
		}
	}
	return total
}

// TotalIncome sums the amounts of all income transactions.
func TotalIncome(txs []core.Transaction) decimal.Decimal {
	return sumKind(txs, core.Income)
}

// TotalExpense sums the amounts of all expense transactions.
func TotalExpense(txs []core.Transaction) decimal.Decimal {
	return sumKind(txs, core.Expense)
}

// NetBalance is income minus expense. It may be negative.
func NetBalance(txs []core.Transaction) decimal.Decimal {
	income, expense := decimal.Zero, decimal.Zero
	for _, t := range txs {
		switch t.Kind {
		case core.Income:
			income = income.Add(t.Amount)
		case core.Expense:
			expense = expense.Add(t.Amount)
		}
	}
	return income.Sub(expense)
}

// SpendingBetween sums expenses in category whose instant lies in [from, to].
// Category matching is exact.
func SpendingBetween(txs []core.Transaction, category string, from, to time.Time) decimal.Decimal {
	total := decimal.Zero
	for _, t := range txs {
		if t.Kind != core.Expense || t.Category != category {
			continue
		}
		if t.Date.Before(from) || t.Date.After(to) {
			continue
		}
		total = total.Add(t.Amount)
	}
	return total
}

// CategorySpending sums expenses in category over the window for period
// ending at now.
func CategorySpending(txs []core.Transaction, category string, period Period, now time.Time) (decimal.Decimal, error) {
	start, err := WindowStart(period, now)
	if err != nil {
		return decimal.Zero, err
	}
	return SpendingBetween(txs, category, start, now), nil
}
