package core

import "github.com/shopspring/decimal"

// CategoryAmount represents an amount aggregated by category name.
type CategoryAmount struct {
	Name   string          `json:"name"`
	Glyph  string          `json:"glyph,omitempty"`
	Amount decimal.Decimal `json:"amount"`
}

// MonthSummary is the income/expense picture of one calendar month.
type MonthSummary struct {
	Year    int             `json:"year"`
	Month   int             `json:"month"` // 1-12
	Label   string          `json:"label"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Net     decimal.Decimal `json:"net"`
}
