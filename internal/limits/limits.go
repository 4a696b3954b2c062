// Package limits checks expense categories against their daily and monthly
// caps. Results are advisory; nothing here rejects a transaction.
package limits

import (
	"time"

	"github.com/shopspring/decimal"

	"moneytrack/internal/core"
	"moneytrack/internal/ledger"
)

// Result is the outcome of a look-ahead check for one prospective expense.
type Result struct {
	Category        string          `json:"category"`
	Amount          decimal.Decimal `json:"amount"`
	DailyExceeded   bool            `json:"dailyExceeded"`
	MonthlyExceeded bool            `json:"monthlyExceeded"`
}

// Exceeded reports whether either cap would be breached.
func (r Result) Exceeded() bool {
	return r.DailyExceeded || r.MonthlyExceeded
}

// Status is the look-back picture of a category as it stands now.
type Status struct {
	Category         string           `json:"category"`
	HasLimit         bool             `json:"hasLimit"`
	IsOverLimit      bool             `json:"isOverLimit"`
	DailyOverLimit   bool             `json:"dailyOverLimit"`
	MonthlyOverLimit bool             `json:"monthlyOverLimit"`
	DailySpending    decimal.Decimal  `json:"dailySpending"`
	MonthlySpending  decimal.Decimal  `json:"monthlySpending"`
	DailyLimit       *decimal.Decimal `json:"dailyLimit,omitempty"`
	MonthlyLimit     *decimal.Decimal `json:"monthlyLimit,omitempty"`
}

// Find returns the limit configured for category, matched exactly.
func Find(limits []core.CategoryLimit, category string) (core.CategoryLimit, bool) {
	for _, l := range limits {
		if l.Category == category {
			return l, true
		}
	}
	return core.CategoryLimit{}, false
}

// windowSpending sums category over the registered daily and monthly
// windows. Both periods are registered by the ledger package, so a lookup
// failure only happens if a strategy is unregistered; it counts as zero.
func windowSpending(txs []core.Transaction, category string, now time.Time) (daily, monthly decimal.Decimal) {
	daily, err := ledger.CategorySpending(txs, category, ledger.Daily, now)
	if err != nil {
		daily = decimal.Zero
	}
	monthly, err = ledger.CategorySpending(txs, category, ledger.Monthly, now)
	if err != nil {
		monthly = decimal.Zero
	}
	return daily, monthly
}

// Evaluate reports whether adding prospective to category would push its
// spending strictly above a configured cap. An absent limit or cap never
// counts as exceeded.
func Evaluate(category string, prospective decimal.Decimal, limits []core.CategoryLimit, txs []core.Transaction, now time.Time) Result {
	res := Result{Category: category, Amount: prospective}
	limit, ok := Find(limits, category)
	if !ok {
		return res
	}
	daily, monthly := windowSpending(txs, category, now)
	if limit.Daily != nil {
		res.DailyExceeded = daily.Add(prospective).GreaterThan(*limit.Daily)
	}
	if limit.Monthly != nil {
		res.MonthlyExceeded = monthly.Add(prospective).GreaterThan(*limit.Monthly)
	}
	return res
}

// CategoryStatus reports whether current spending has already reached a cap.
// Reaching the cap exactly counts as over.
func CategoryStatus(category string, limits []core.CategoryLimit, txs []core.Transaction, now time.Time) Status {
	st := Status{Category: category, DailySpending: decimal.Zero, MonthlySpending: decimal.Zero}
	limit, ok := Find(limits, category)
	if !ok {
		return st
	}
	st.HasLimit = true
	st.DailyLimit, st.MonthlyLimit = limit.Daily, limit.Monthly
	st.DailySpending, st.MonthlySpending = windowSpending(txs, category, now)
	if limit.Daily != nil {
		st.DailyOverLimit = st.DailySpending.GreaterThanOrEqual(*limit.Daily)
	}
	if limit.Monthly != nil {
		st.MonthlyOverLimit = st.MonthlySpending.GreaterThanOrEqual(*limit.Monthly)
	}
	st.IsOverLimit = st.DailyOverLimit || st.MonthlyOverLimit
	return st
}

// OverLimit lists the status of every limited category that is at or over a
// cap, in limit order.
func OverLimit(limits []core.CategoryLimit, txs []core.Transaction, now time.Time) []Status {
	var out []Status
	for _, l := range limits {
		if st := CategoryStatus(l.Category, limits, txs, now); st.IsOverLimit {
			out = append(out, st)
		}
	}
	return out
}
