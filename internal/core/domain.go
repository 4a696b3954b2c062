package core

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Kind is the direction of a transaction. The zero value is invalid so a
// missing "type" field never decodes as a silent default.
type Kind uint8

const (
	Income Kind = iota + 1
	Expense
)

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

type (
	Theme string

	Transaction struct {
		ID       string          `json:"id"`
		Kind     Kind            `json:"type"`
		Category string          `json:"category"`
		Amount   decimal.Decimal `json:"amount"`
		Date     time.Time       `json:"date"`
		Notes    string          `json:"notes,omitempty"`
	}

	// CategoryLimit caps spending for one expense category. A nil cap is absent.
	CategoryLimit struct {
		Category string           `json:"category"`
		Daily    *decimal.Decimal `json:"dailyLimit,omitempty"`
		Monthly  *decimal.Decimal `json:"monthlyLimit,omitempty"`
	}

	Lockup struct {
		ID      string          `json:"id"`
		Title   string          `json:"title"`
		Amount  decimal.Decimal `json:"amount"`  // initially locked
		Balance decimal.Decimal `json:"balance"` // remaining
	}

	Saving struct {
		ID            string          `json:"id"`
		Title         string          `json:"title"`
		TargetAmount  decimal.Decimal `json:"targetAmount"`
		CurrentAmount decimal.Decimal `json:"currentAmount"`
	}

	Event struct {
		ID         string           `json:"id"`
		Title      string           `json:"title"`
		Date       Date             `json:"date"`
		Categories []string         `json:"categories"`
		Budget     *decimal.Decimal `json:"budget,omitempty"`
		Notes      string           `json:"notes,omitempty"`
	}

	User struct {
		ID     string `json:"id"`
		Name   string `json:"name"`
		Email  string `json:"email"`
		Avatar string `json:"avatar,omitempty"`
	}

	Categories struct {
		Income  []string `json:"income"`
		Expense []string `json:"expense"`
	}

	// AppState is the single live snapshot and the unit of persistence.
	AppState struct {
		User           *User           `json:"user"`
		Transactions   []Transaction   `json:"transactions"`
		Events         []Event         `json:"events"`
		Lockups        []Lockup        `json:"lockups"`
		Savings        []Saving        `json:"savings"`
		Categories     Categories      `json:"categories"`
		CategoryLimits []CategoryLimit `json:"categoryLimits"`
		Theme          Theme           `json:"theme"`
	}
)

var (
	ErrInvalidKind       = errors.New("invalid transaction type")
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrEmptyCategory     = errors.New("empty category")
	ErrEmptyTitle        = errors.New("empty title")
	ErrDuplicateCategory = errors.New("category already exists")
	ErrCategoryInUse     = errors.New("category is used by transactions")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrNotFound          = errors.New("not found")
	ErrInvalidTheme      = errors.New("invalid theme")
	ErrInvalidLimit      = errors.New("invalid limit")
	ErrInvalidDate       = errors.New("invalid date")
)

func (k Kind) String() string {
	switch k {
	case Income:
		return "income"
	case Expense:
		return "expense"
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

func (k Kind) Valid() bool {
	return k == Income || k == Expense
}

// ParseKind accepts "income" or "expense", case-insensitively.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "income":
		return Income, nil
	case "expense":
		return Expense, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidKind, s)
}

func (k Kind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, ErrInvalidKind
	}
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(b []byte) error {
	parsed, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

func (t Theme) Valid() bool {
	return t == ThemeLight || t == ThemeDark
}

func positive(d decimal.Decimal) bool {
	return d.IsPositive()
}

func (t Transaction) Validate() error {
	if !t.Kind.Valid() {
		return ErrInvalidKind
	}
	if strings.TrimSpace(t.Category) == "" {
		return ErrEmptyCategory
	}
	if !positive(t.Amount) {
		return ErrInvalidAmount
	}
	if t.Date.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// Validate rejects non-positive caps. A limit with both caps absent is valid
// here; callers treat it as a removal.
func (l CategoryLimit) Validate() error {
	if strings.TrimSpace(l.Category) == "" {
		return ErrEmptyCategory
	}
	if l.Daily != nil && !positive(*l.Daily) {
		return fmt.Errorf("%w: daily cap must be positive", ErrInvalidLimit)
	}
	if l.Monthly != nil && !positive(*l.Monthly) {
		return fmt.Errorf("%w: monthly cap must be positive", ErrInvalidLimit)
	}
	return nil
}

// Empty reports whether neither cap is set.
func (l CategoryLimit) Empty() bool {
	return l.Daily == nil && l.Monthly == nil
}

func (l Lockup) Validate() error {
	if strings.TrimSpace(l.Title) == "" {
		return ErrEmptyTitle
	}
	if !positive(l.Amount) {
		return ErrInvalidAmount
	}
	if l.Balance.IsNegative() || l.Balance.GreaterThan(l.Amount) {
		return fmt.Errorf("%w: balance out of range", ErrInvalidAmount)
	}
	return nil
}

func (s Saving) Validate() error {
	if strings.TrimSpace(s.Title) == "" {
		return ErrEmptyTitle
	}
	if !positive(s.TargetAmount) {
		return ErrInvalidAmount
	}
	if s.CurrentAmount.IsNegative() || s.CurrentAmount.GreaterThan(s.TargetAmount) {
		return fmt.Errorf("%w: current amount out of range", ErrInvalidAmount)
	}
	return nil
}

func (e Event) Validate() error {
	if strings.TrimSpace(e.Title) == "" {
		return ErrEmptyTitle
	}
	if err := e.Date.Validate(); err != nil {
		return err
	}
	if e.Budget != nil && !positive(*e.Budget) {
		return fmt.Errorf("%w: budget must be positive", ErrInvalidAmount)
	}
	return nil
}

// CategoriesFor returns the category list for the given kind.
func (c Categories) CategoriesFor(k Kind) []string {
	switch k {
	case Income:
		return c.Income
	case Expense:
		return c.Expense
	}
	return nil
}
