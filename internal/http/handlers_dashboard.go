package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"moneytrack/internal/allocation"
	"moneytrack/internal/catalog"
	"moneytrack/internal/core"
	"moneytrack/internal/insights"
	"moneytrack/internal/ledger"
	"moneytrack/internal/limits"
	"moneytrack/internal/log"
)

const (
	recentTransactionCount = 5
	frequentCategoryCount  = 6
	dashboardSuggestions   = 3
	trendMonths            = 6
)

type totalsView struct {
	Balance   decimal.Decimal `json:"balance"`
	Income    decimal.Decimal `json:"income"`
	Expense   decimal.Decimal `json:"expense"`
	Lockups   decimal.Decimal `json:"lockups"`
	Savings   decimal.Decimal `json:"savings"`
	Available decimal.Decimal `json:"available"`

	SavingsTarget   decimal.Decimal `json:"savingsTarget"`
	SavingsProgress decimal.Decimal `json:"savingsProgress"`

	Display map[string]string `json:"display"`
}

type categoryChip struct {
	Name  string `json:"name"`
	Glyph string `json:"glyph"`
}

type dashboardView struct {
	Greeting           string            `json:"greeting"`
	User               *core.User        `json:"user"`
	Totals             totalsView        `json:"totals"`
	RecentTransactions []transactionView `json:"recentTransactions"`
	FrequentCategories []categoryChip    `json:"frequentCategories"`
	Suggestions        []string          `json:"suggestions"`
	UpcomingEvents     []core.Event      `json:"upcomingEvents"`
	OverLimit          []limits.Status   `json:"overLimit"`
}

// greeting follows the local hour of now.
func greeting(now time.Time) string {
	switch h := now.Hour(); {
	case h < 12:
		return "Good morning!"
	case h < 17:
		return "Good afternoon!"
	default:
		return "Good evening!"
	}
}

func (s *Server) totals(snap core.AppState) totalsView {
	t := totalsView{
		Balance:       ledger.NetBalance(snap.Transactions),
		Income:        ledger.TotalIncome(snap.Transactions),
		Expense:       ledger.TotalExpense(snap.Transactions),
		Lockups:       allocation.TotalLockups(snap.Lockups),
		Savings:       allocation.TotalSavings(snap.Savings),
		Available:     allocation.AvailableBalance(snap.Transactions, snap.Lockups, snap.Savings),
		SavingsTarget: allocation.TotalSavingsTarget(snap.Savings),
	}
	t.SavingsProgress = allocation.Progress(t.Savings, t.SavingsTarget)
	t.Display = map[string]string{
		"balance":   s.money(t.Balance),
		"income":    s.money(t.Income),
		"expense":   s.money(t.Expense),
		"lockups":   s.money(t.Lockups),
		"savings":   s.money(t.Savings),
		"available": s.money(t.Available),
	}
	return t
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	snap := s.store.Snapshot()
	now := s.now()

	recent := snap.Transactions
	if len(recent) > recentTransactionCount {
		recent = recent[:recentTransactionCount]
	}
	var chips []categoryChip
	for _, name := range ledger.FrequentCategories(snap.Transactions, frequentCategoryCount) {
		chips = append(chips, categoryChip{Name: name, Glyph: catalog.Glyph(name)})
	}
	suggestions := insights.Suggestions(snap.Events, snap.Transactions, now, s.currency)
	if len(suggestions) > dashboardSuggestions {
		suggestions = suggestions[:dashboardSuggestions]
	}

	NewHTMXResponse().JSON(dashboardView{
		Greeting:           greeting(now),
		User:               snap.User,
		Totals:             s.totals(snap),
		RecentTransactions: s.transactionViews(recent),
		FrequentCategories: chips,
		Suggestions:        suggestions,
		UpcomingEvents:     insights.UpcomingEvents(snap.Events, now, insights.UpcomingWindowDays),
		OverLimit:          limits.OverLimit(snap.CategoryLimits, snap.Transactions, now),
	}).Write(w)
}

type categoryBreakdown struct {
	core.CategoryAmount
	Share  decimal.Decimal `json:"share"`
	Status limits.Status   `json:"status"`
}

// analyticsView is cached per store revision and calendar day.
type analyticsView struct {
	Revision            uint64                `json:"revision"`
	GeneratedAt         time.Time             `json:"generatedAt"`
	TotalIncome         decimal.Decimal       `json:"totalIncome"`
	TotalExpense        decimal.Decimal       `json:"totalExpense"`
	Net                 decimal.Decimal       `json:"net"`
	SavingsRate         decimal.Decimal       `json:"savingsRate"`
	AverageDailyExpense decimal.Decimal       `json:"averageDailyExpense"`
	ExpenseByCategory   []categoryBreakdown   `json:"expenseByCategory"`
	IncomeByCategory    []core.CategoryAmount `json:"incomeByCategory"`
	Monthly             []core.MonthSummary   `json:"monthly"`
	OverLimit           []limits.Status       `json:"overLimit"`
}

func buildAnalytics(snap core.AppState, revision uint64, now time.Time) analyticsView {
	expense := ledger.TotalExpense(snap.Transactions)
	income := ledger.TotalIncome(snap.Transactions)

	var breakdown []categoryBreakdown
	for _, c := range ledger.CategoryTotals(snap.Transactions, core.Expense) {
		c.Glyph = catalog.Glyph(c.Name)
		share := decimal.Zero
		if expense.IsPositive() {
			share = c.Amount.Div(expense).Mul(decimal.NewFromInt(100)).Round(1)
		}
		breakdown = append(breakdown, categoryBreakdown{
			CategoryAmount: c,
			Share:          share,
			Status:         limits.CategoryStatus(c.Name, snap.CategoryLimits, snap.Transactions, now),
		})
	}
	incomeByCategory := ledger.CategoryTotals(snap.Transactions, core.Income)
	for i := range incomeByCategory {
		incomeByCategory[i].Glyph = catalog.Glyph(incomeByCategory[i].Name)
	}

	return analyticsView{
		Revision:            revision,
		GeneratedAt:         now,
		TotalIncome:         income,
		TotalExpense:        expense,
		Net:                 income.Sub(expense),
		SavingsRate:         ledger.SavingsRate(snap.Transactions).Round(1),
		AverageDailyExpense: ledger.AverageDailyExpense(snap.Transactions).Round(core.AmountPlaces),
		ExpenseByCategory:   breakdown,
		IncomeByCategory:    incomeByCategory,
		Monthly:             ledger.MonthlyTrend(snap.Transactions, now, trendMonths),
		OverLimit:           limits.OverLimit(snap.CategoryLimits, snap.Transactions, now),
	}
}

// handleAnalytics serves the breakdown from cache while neither the
// snapshot nor the day has changed.
func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	snap, revision := s.store.Versioned()
	now := s.now()
	key := fmt.Sprintf("rev:%d:day:%s", revision, core.DateOf(now))

	hit := true
	view := s.analytics.GetOrCompute(key, func() analyticsView {
		hit = false
		return buildAnalytics(snap, revision, now)
	})
	log.FromContext(r.Context()).WithComponent(log.ComponentCache).DebugContext(r.Context(), "Analytics served",
		log.FieldCacheKey, key,
		"cache_hit", hit)

	NewHTMXResponse().JSON(view).Write(w)
}
