package ledger

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moneytrack/internal/core"
)

func TestCategoryTotals(t *testing.T) {
	now := time.Date(2025, 3, 20, 14, 0, 0, 0, loc)
	txs := append(scenario(now),
		tx(core.Expense, "Food", "1100", now),
		tx(core.Expense, "Coffee", "1120", now),
	)
	got := CategoryTotals(txs, core.Expense)
	require.Len(t, got, 3)
	assert.Equal(t, "Food", got[0].Name)
	assert.True(t, got[0].Amount.Equal(decimal.NewFromInt(1250)))
	// Books and Coffee tie at 1200 after Food; names break ties.
	assert.Equal(t, []string{"Food", "Books", "Coffee"}, []string{got[0].Name, got[1].Name, got[2].Name})

	assert.Len(t, TopCategories(txs, 2), 2)
	assert.Empty(t, TopCategories(txs, 0))
	assert.Empty(t, TopCategories(txs, -1))
}

func TestMonthlyTrend(t *testing.T) {
	now := time.Date(2025, 3, 20, 14, 0, 0, 0, loc)
	txs := []core.Transaction{
		tx(core.Income, "Salary", "1000", now),
		tx(core.Expense, "Rent", "400", now),
		tx(core.Expense, "Rent", "300", time.Date(2025, 1, 5, 0, 0, 0, 0, loc)),
		tx(core.Income, "Gift", "50", time.Date(2024, 10, 1, 0, 0, 0, 0, loc)),
		tx(core.Income, "Gift", "50", time.Date(2024, 9, 30, 0, 0, 0, 0, loc)), // outside
	}
	trend := MonthlyTrend(txs, now, 6)
	require.Len(t, trend, 6)

	assert.Equal(t, 2024, trend[0].Year)
	assert.Equal(t, 10, trend[0].Month)
	assert.Equal(t, "Oct", trend[0].Label)
	assert.True(t, trend[0].Income.Equal(decimal.NewFromInt(50)))

	assert.Equal(t, 1, trend[3].Month)
	assert.True(t, trend[3].Net.Equal(decimal.NewFromInt(-300)))

	last := trend[5]
	assert.Equal(t, 3, last.Month)
	assert.True(t, last.Net.Equal(decimal.NewFromInt(600)))

	assert.Nil(t, MonthlyTrend(txs, now, 0))
}

func TestSavingsRate(t *testing.T) {
	now := time.Now()
	assert.True(t, SavingsRate(nil).IsZero())
	assert.True(t, SavingsRate([]core.Transaction{tx(core.Expense, "Food", "10", now)}).IsZero())

	rate := SavingsRate([]core.Transaction{
		tx(core.Income, "Salary", "200", now),
		tx(core.Expense, "Food", "50", now),
	})
	assert.True(t, rate.Equal(decimal.NewFromInt(75)), "got %s", rate)
}

func TestAverageDailyExpense(t *testing.T) {
	got := AverageDailyExpense([]core.Transaction{tx(core.Expense, "Food", "300", time.Now())})
	assert.True(t, got.Equal(decimal.NewFromInt(10)))
}

func TestFrequentCategories(t *testing.T) {
	now := time.Now()
	txs := []core.Transaction{
		tx(core.Expense, "Coffee", "1", now),
		tx(core.Expense, "Food", "1", now),
		tx(core.Expense, "Food", "1", now),
		tx(core.Expense, "Books", "1", now),
		tx(core.Income, "Salary", "1", now),
		tx(core.Income, "Salary", "2", now),
		tx(core.Income, "Salary", "3", now),
	}
	assert.Equal(t, []string{"Food", "Coffee", "Books"}, FrequentCategories(txs, 6))
	assert.Equal(t, []string{"Food"}, FrequentCategories(txs, 1))
	assert.Empty(t, FrequentCategories(txs, 0))
	assert.Empty(t, FrequentCategories(txs, -3))
}

func TestFilter(t *testing.T) {
	march := time.Date(2025, 3, 20, 14, 0, 0, 0, loc)
	feb := time.Date(2025, 2, 10, 9, 0, 0, 0, loc)
	txs := []core.Transaction{
		{ID: "1", Kind: core.Expense, Category: "Coffee", Amount: core.MustAmount("80"), Date: march, Notes: "Morning brew"},
		{ID: "2", Kind: core.Income, Category: "Salary", Amount: core.MustAmount("2500"), Date: feb},
		{ID: "3", Kind: core.Expense, Category: "Books", Amount: core.MustAmount("1200"), Date: feb, Notes: "textbook"},
	}

	ids := func(in []core.Transaction) []string {
		out := []string{}
		for _, t := range in {
			out = append(out, t.ID)
		}
		return out
	}

	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{"zero filter", Filter{}, []string{"1", "2", "3"}},
		{"category search", Filter{Query: "coff"}, []string{"1"}},
		{"notes search", Filter{Query: "BREW"}, []string{"1"}},
		{"amount search", Filter{Query: "250"}, []string{"2"}},
		{"kind", Filter{Kind: core.Expense}, []string{"1", "3"}},
		{"month", Filter{Month: "2025-02", Location: loc}, []string{"2", "3"}},
		{"combined", Filter{Kind: core.Expense, Month: "2025-02", Query: "text"}, []string{"3"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(tt.filter.Apply(txs)))
		})
	}

	assert.Equal(t, []string{"2025-03", "2025-02"}, Months(txs, loc))
}
