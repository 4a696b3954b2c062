// Package catalog holds the static category data: display glyphs and the
// default category lists used for a fresh snapshot.
package catalog

import "strings"

// FallbackGlyph is shown for categories without a dedicated glyph.
const FallbackGlyph = "🧾"

var glyphs = map[string]string{
	// income
	"salary":        "💼",
	"freelance":     "💻",
	"part-time job": "💼",
	"scholarship":   "🎓",
	"pocket money":  "🧧",
	"gift":          "🎁",
	"allowance":     "💰",
	"investment":    "📈",
	"other income":  "💸",

	// expense
	"food":          "🍔",
	"rent":          "🏠",
	"shopping":      "🛍️",
	"travel":        "🚌",
	"entertainment": "🎬",
	"books":         "📚",
	"utilities":     "💡",
	"transport":     "🚗",
	"healthcare":    "🏥",
	"groceries":     "🛒",
	"clothing":      "👕",
	"coffee":        "☕",
	"dining out":    "🍽️",
	"sports":        "⚽",
	"hobbies":       "🎨",
	"subscription":  "📱",
	"phone":         "📞",
	"internet":      "🌐",
	"gym":           "💪",
	"beauty":        "💄",
	"education":     "📖",
	"supplies":      "📝",
	"laundry":       "🧺",
	"other":         "🧾",
	"miscellaneous": "🧾",
	"expense":       "💳",
}

// Glyph returns the display glyph for category, ignoring case and
// surrounding space.
func Glyph(category string) string {
	if g, ok := glyphs[strings.ToLower(strings.TrimSpace(category))]; ok {
		return g
	}
	return FallbackGlyph
}

// DefaultIncomeCategories returns a fresh copy of the seed income list.
func DefaultIncomeCategories() []string {
	return []string{"Salary", "Part-time Job", "Scholarship", "Pocket Money", "Gift", "Freelance", "Other Income"}
}

// DefaultExpenseCategories returns a fresh copy of the seed expense list.
func DefaultExpenseCategories() []string {
	return []string{
		"Food", "Rent", "Shopping", "Travel", "Entertainment", "Books", "Utilities",
		"Transport", "Groceries", "Coffee", "Dining Out", "Subscription", "Gym", "Other",
	}
}
