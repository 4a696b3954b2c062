package catalog

import (
	"time"

	"github.com/shopspring/decimal"

	"moneytrack/internal/core"
)

const day = 24 * time.Hour

func amount(n int64) decimal.Decimal { return decimal.NewFromInt(n) }

func budget(n int64) *decimal.Decimal {
	d := amount(n)
	return &d
}

// Seed builds the default snapshot handed to a first-time user. Sample
// transactions and events are placed relative to now.
func Seed(now time.Time) core.AppState {
	today := core.DateOf(now)
	return core.AppState{
		User: nil,
		Transactions: []core.Transaction{
			{ID: "1", Kind: core.Income, Category: "Pocket Money", Amount: amount(5000), Date: now, Notes: "Monthly allowance"},
			{ID: "2", Kind: core.Expense, Category: "Food", Amount: amount(150), Date: now.Add(-day), Notes: "Lunch with friends"},
			{ID: "3", Kind: core.Expense, Category: "Coffee", Amount: amount(80), Date: now.Add(-2 * day), Notes: "Morning coffee"},
			{ID: "4", Kind: core.Income, Category: "Part-time Job", Amount: amount(2500), Date: now.Add(-3 * day), Notes: "Weekend tutoring"},
			{ID: "5", Kind: core.Expense, Category: "Books", Amount: amount(1200), Date: now.Add(-4 * day), Notes: "Programming textbook"},
		},
		Events: []core.Event{
			{ID: "1", Title: "College Fest", Date: today.AddDays(3), Categories: []string{"Food", "Entertainment"}, Budget: budget(1000), Notes: "Annual college festival"},
			{ID: "2", Title: "Study Group", Date: today, Categories: []string{"Coffee", "Transport"}, Budget: budget(200), Notes: "Weekly study session"},
		},
		Lockups: []core.Lockup{
			{ID: "1", Title: "Semester Fee", Amount: amount(15000), Balance: amount(15000)},
			{ID: "2", Title: "Emergency Fund", Amount: amount(5000), Balance: amount(5000)},
		},
		Savings: []core.Saving{
			{ID: "1", Title: "New Laptop", TargetAmount: amount(50000), CurrentAmount: amount(15000)},
			{ID: "2", Title: "Summer Trip", TargetAmount: amount(20000), CurrentAmount: amount(5000)},
		},
		Categories:     DefaultCategories(),
		CategoryLimits: []core.CategoryLimit{},
		Theme:          core.ThemeLight,
	}
}

// DefaultCategories returns the seed category sets.
func DefaultCategories() core.Categories {
	return core.Categories{
		Income:  DefaultIncomeCategories(),
		Expense: DefaultExpenseCategories(),
	}
}
