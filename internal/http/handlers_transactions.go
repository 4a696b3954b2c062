package http

import (
	"errors"
	"fmt"
	"net/http"

	"moneytrack/internal/catalog"
	"moneytrack/internal/core"
	"moneytrack/internal/ledger"
	"moneytrack/internal/limits"
	"moneytrack/internal/log"
	"moneytrack/internal/services"
	"moneytrack/internal/state"
)

type transactionView struct {
	core.Transaction
	Glyph   string `json:"glyph"`
	Display string `json:"display"`
}

func (s *Server) transactionViews(txs []core.Transaction) []transactionView {
	out := make([]transactionView, 0, len(txs))
	for _, t := range txs {
		out = append(out, transactionView{
			Transaction: t,
			Glyph:       catalog.Glyph(t.Category),
			Display:     s.money(t.Amount),
		})
	}
	return out
}

// handleListTransactions supports q, type and month filters.
func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	filter, err := ParseFilter(r.URL.Query())
	if err != nil {
		BadRequestError("Type must be income, expense or all").Write(w)
		return
	}
	snap := s.store.Snapshot()
	filter.Location = s.now().Location()
	matched := filter.Apply(snap.Transactions)

	NewHTMXResponse().JSON(map[string]any{
		"transactions": s.transactionViews(matched),
		"count":        len(matched),
		"months":       ledger.Months(snap.Transactions, filter.Location),
		"income":       ledger.TotalIncome(matched),
		"expense":      ledger.TotalExpense(matched),
	}).Write(w)
}

// limitWarning is the 409 body sent when an expense needs confirmation.
type limitWarning struct {
	Error   string        `json:"error"`
	Code    string        `json:"code"`
	Result  limits.Result `json:"result"`
	Message string        `json:"message"`
}

func limitWarningMessage(res limits.Result) string {
	msg := "This expense will exceed your set limits for " + res.Category + ":"
	if res.DailyExceeded {
		msg += " daily limit exceeded."
	}
	if res.MonthlyExceeded {
		msg += " monthly limit exceeded."
	}
	return msg + " Add it anyway?"
}

// handleCreateTransaction records an income or expense. An expense that
// would breach a category limit is held back with 409 until it is resent
// with confirm=true.
func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	p, ok := parseBody(w, r)
	if !ok {
		return
	}
	if p.Get("amount") == "" || p.Get("category") == "" {
		InputError("Missing fields", "Please fill in amount and category").Write(w)
		return
	}
	kind := core.Expense
	if t := p.Get("type"); t != "" {
		k, err := core.ParseKind(t)
		if err != nil {
			commandError(err).Write(w)
			return
		}
		kind = k
	}
	amount, err := p.Amount("amount")
	if err != nil {
		InputError("Invalid amount", "Please enter a valid positive amount").Write(w)
		return
	}
	date, err := parseTransactionDate(p.Get("date"), s.now())
	if err != nil {
		commandError(err).Write(w)
		return
	}

	tx, err := s.transactions.Record(r.Context(), core.Transaction{
		Kind:     kind,
		Category: p.Get("category"),
		Amount:   amount,
		Date:     date,
		Notes:    p.Get("notes"),
	}, p.GetBool("confirm"))
	var held *services.LimitError
	if errors.As(err, &held) {
		msg := limitWarningMessage(held.Result)
		NewHTMXResponse().
			Status(http.StatusConflict).
			TriggerLimitWarning(held.Result).
			TriggerNotification(NotificationWarning, "Spending Limit Warning", msg, 5000).
			JSON(limitWarning{Error: msg, Code: "limit_exceeded", Result: held.Result, Message: msg}).
			Write(w)
		return
	}
	if err != nil {
		s.reject(w, r, state.AddTransaction{}.Name(), err)
		return
	}
	log.FromContext(r.Context()).InfoContext(r.Context(), "Transaction recorded",
		log.NewFields().
			WithOperation(log.OpCreate).
			WithMovement(kind.String(), tx.Category, amount).
			ToSlice()...)

	NewHTMXResponse().
		Status(http.StatusCreated).
		TriggerSuccessNotification("Transaction added!",
			fmt.Sprintf("%s of %s recorded", titleCase(kind.String()), s.money(amount))).
		TriggerStateChanged("transactions").
		JSON(s.transactionViews([]core.Transaction{tx})[0]).
		Write(w)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.transactions.Delete(r.Context(), id); err != nil {
		s.reject(w, r, state.DeleteTransaction{}.Name(), err)
		return
	}
	NewHTMXResponse().
		TriggerSuccessNotification("Transaction deleted", "Transaction removed").
		TriggerStateChanged("transactions").
		JSON(map[string]string{"deleted": id}).
		Write(w)
}
