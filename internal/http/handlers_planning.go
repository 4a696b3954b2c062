package http

import (
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"

	"moneytrack/internal/allocation"
	"moneytrack/internal/catalog"
	"moneytrack/internal/core"
	"moneytrack/internal/insights"
	"moneytrack/internal/log"
	"moneytrack/internal/state"
)

const eventDateDisplay = "Jan 02, 2006"

type eventView struct {
	core.Event
	Upcoming bool     `json:"upcoming"`
	Glyphs   []string `json:"glyphs"`
}

func (s *Server) eventViews(events []core.Event) []eventView {
	upcoming := make(map[string]bool)
	for _, e := range insights.UpcomingEvents(events, s.now(), insights.UpcomingWindowDays) {
		upcoming[e.ID] = true
	}
	out := make([]eventView, 0, len(events))
	for _, e := range events {
		glyphs := make([]string, 0, len(e.Categories))
		for _, c := range e.Categories {
			glyphs = append(glyphs, catalog.Glyph(c))
		}
		out = append(out, eventView{Event: e, Upcoming: upcoming[e.ID], Glyphs: glyphs})
	}
	return out
}

func (s *Server) handleListEvents(w http.ResponseWriter, r *http.Request) {
	snap := s.store.Snapshot()
	NewHTMXResponse().JSON(map[string]any{
		"events": s.eventViews(snap.Events),
	}).Write(w)
}

func (s *Server) handleUpcomingEvents(w http.ResponseWriter, r *http.Request) {
	snap := s.store.Snapshot()
	NewHTMXResponse().JSON(map[string]any{
		"events":     s.eventViews(insights.UpcomingEvents(snap.Events, s.now(), insights.UpcomingWindowDays)),
		"windowDays": insights.UpcomingWindowDays,
	}).Write(w)
}

func (s *Server) handleCreateEvent(w http.ResponseWriter, r *http.Request) {
	p, ok := parseBody(w, r)
	if !ok {
		return
	}
	title := p.Get("title")
	if title == "" {
		InputError("Missing title", "Please enter an event title").Write(w)
		return
	}
	date := core.DateOf(s.now())
	if v := p.Get("date"); v != "" {
		d, err := core.ParseDate(v)
		if err != nil {
			commandError(err).Write(w)
			return
		}
		date = d
	}
	budget, err := p.OptionalAmount("budget")
	if err != nil {
		InputError("Invalid amount", "Please enter a valid positive amount").Write(w)
		return
	}

	ev := core.Event{
		ID:         state.NewID(),
		Title:      title,
		Date:       date,
		Categories: p.GetList("categories"),
		Budget:     budget,
		Notes:      p.Get("notes"),
	}
	if _, ok := s.dispatch(w, r, state.AddEvent{Event: ev}); !ok {
		return
	}
	NewHTMXResponse().
		Status(http.StatusCreated).
		TriggerSuccessNotification("Event added",
			fmt.Sprintf("%s scheduled for %s", title, date.Format(eventDateDisplay))).
		TriggerStateChanged("events").
		JSON(s.eventViews([]core.Event{ev})[0]).
		Write(w)
}

func (s *Server) handleDeleteEvent(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, ok := s.dispatch(w, r, state.DeleteEvent{ID: id}); !ok {
		return
	}
	NewHTMXResponse().
		TriggerSuccessNotification("Event deleted", "Event removed from calendar").
		TriggerStateChanged("events").
		JSON(map[string]string{"deleted": id}).
		Write(w)
}

type lockupView struct {
	core.Lockup
	Spent    decimal.Decimal `json:"spent"`
	Progress decimal.Decimal `json:"progress"` // percent of the lockup still held
	Display  string          `json:"display"`
}

func (s *Server) lockupView(l core.Lockup) lockupView {
	return lockupView{
		Lockup:   l,
		Spent:    l.Amount.Sub(l.Balance),
		Progress: allocation.Progress(l.Balance, l.Amount),
		Display:  s.money(l.Balance),
	}
}

func (s *Server) handleListLockups(w http.ResponseWriter, r *http.Request) {
	snap := s.store.Snapshot()
	views := make([]lockupView, 0, len(snap.Lockups))
	for _, l := range snap.Lockups {
		views = append(views, s.lockupView(l))
	}
	total := allocation.TotalLockups(snap.Lockups)
	NewHTMXResponse().JSON(map[string]any{
		"lockups": views,
		"total":   total,
		"display": s.money(total),
	}).Write(w)
}

func (s *Server) handleCreateLockup(w http.ResponseWriter, r *http.Request) {
	p, ok := parseBody(w, r)
	if !ok {
		return
	}
	title := p.Get("title")
	if title == "" || p.Get("amount") == "" {
		InputError("Missing fields", "Please enter both title and amount").Write(w)
		return
	}
	amount, err := p.Amount("amount")
	if err != nil {
		InputError("Invalid amount", "Please enter a valid positive amount").Write(w)
		return
	}
	l := core.Lockup{ID: state.NewID(), Title: title, Amount: amount}
	next, ok := s.dispatch(w, r, state.AddLockup{Lockup: l})
	if !ok {
		return
	}
	NewHTMXResponse().
		Status(http.StatusCreated).
		TriggerSuccessNotification("Lockup created", fmt.Sprintf("%s locked for %s", s.money(amount), title)).
		TriggerStateChanged("lockups").
		JSON(s.lockupView(next.Lockups[0])).
		Write(w)
}

func (s *Server) handleDeleteLockup(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, ok := s.dispatch(w, r, state.DeleteLockup{ID: id}); !ok {
		return
	}
	NewHTMXResponse().
		TriggerSuccessNotification("Lockup deleted", "Lockup removed successfully").
		TriggerStateChanged("lockups").
		JSON(map[string]string{"deleted": id}).
		Write(w)
}

// handleSpendLockup draws from a lockup and records the matching expense.
func (s *Server) handleSpendLockup(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	p, ok := parseBody(w, r)
	if !ok {
		return
	}
	if p.Get("amount") == "" {
		InputError("Missing amount", "Please enter the amount to spend").Write(w)
		return
	}
	amount, err := p.Amount("amount")
	if err != nil {
		InputError("Invalid amount", "Please enter a valid positive amount").Write(w)
		return
	}
	emergency := p.GetBool("emergency")
	updated, tx, err := s.transactions.SpendFromLockup(r.Context(), id, amount, emergency)
	if err != nil {
		s.reject(w, r, state.SpendFromLockup{}.Name(), err,
			rejection{core.ErrInsufficientFunds, "Insufficient balance", "Cannot spend more than the locked amount"},
		)
		return
	}
	log.FromContext(r.Context()).InfoContext(r.Context(), "Lockup spent",
		log.NewFields().
			WithMovement(core.Expense.String(), state.LockupSpendCategory, amount).
			ToSlice()...)

	title := "Amount spent"
	if emergency {
		title = "Emergency spending completed"
	}
	NewHTMXResponse().
		TriggerSuccessNotification(title, fmt.Sprintf("%s spent from %s", s.money(amount), updated.Title)).
		TriggerStateChanged("lockups").
		TriggerStateChanged("transactions").
		JSON(map[string]any{
			"lockup":      s.lockupView(updated),
			"transaction": s.transactionViews([]core.Transaction{tx})[0],
		}).
		Write(w)
}

type savingView struct {
	core.Saving
	Remaining decimal.Decimal `json:"remaining"`
	Progress  decimal.Decimal `json:"progress"`
	Complete  bool            `json:"complete"`
}

func savingViewOf(sv core.Saving) savingView {
	return savingView{
		Saving:    sv,
		Remaining: sv.TargetAmount.Sub(sv.CurrentAmount),
		Progress:  allocation.Progress(sv.CurrentAmount, sv.TargetAmount),
		Complete:  sv.CurrentAmount.Equal(sv.TargetAmount),
	}
}

func findSaving(savings []core.Saving, id string) core.Saving {
	for _, sv := range savings {
		if sv.ID == id {
			return sv
		}
	}
	return core.Saving{}
}

func (s *Server) handleListSavings(w http.ResponseWriter, r *http.Request) {
	snap := s.store.Snapshot()
	views := make([]savingView, 0, len(snap.Savings))
	for _, sv := range snap.Savings {
		views = append(views, savingViewOf(sv))
	}
	saved := allocation.TotalSavings(snap.Savings)
	target := allocation.TotalSavingsTarget(snap.Savings)
	NewHTMXResponse().JSON(map[string]any{
		"savings":  views,
		"total":    saved,
		"target":   target,
		"progress": allocation.Progress(saved, target),
	}).Write(w)
}

func (s *Server) handleCreateSaving(w http.ResponseWriter, r *http.Request) {
	p, ok := parseBody(w, r)
	if !ok {
		return
	}
	title := p.Get("title")
	if title == "" || p.Get("targetAmount") == "" {
		InputError("Missing fields", "Please enter both title and target amount").Write(w)
		return
	}
	target, err := p.Amount("targetAmount")
	if err != nil {
		InputError("Invalid amount", "Please enter a valid positive amount").Write(w)
		return
	}
	sv := core.Saving{ID: state.NewID(), Title: title, TargetAmount: target}
	next, ok := s.dispatch(w, r, state.AddSaving{Saving: sv})
	if !ok {
		return
	}
	NewHTMXResponse().
		Status(http.StatusCreated).
		TriggerSuccessNotification("Saving goal created", fmt.Sprintf("Target: %s for %s", s.money(target), title)).
		TriggerStateChanged("savings").
		JSON(savingViewOf(next.Savings[0])).
		Write(w)
}

func (s *Server) handleDeleteSaving(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, ok := s.dispatch(w, r, state.DeleteSaving{ID: id}); !ok {
		return
	}
	NewHTMXResponse().
		TriggerSuccessNotification("Saving goal deleted", "Saving goal removed successfully").
		TriggerStateChanged("savings").
		JSON(map[string]string{"deleted": id}).
		Write(w)
}

// handleContributeSaving adds to a goal; anything past the target is dropped.
func (s *Server) handleContributeSaving(w http.ResponseWriter, r *http.Request) {
	s.moveSaving(w, r, true)
}

// handleWithdrawSaving takes from a goal, stopping at zero.
func (s *Server) handleWithdrawSaving(w http.ResponseWriter, r *http.Request) {
	s.moveSaving(w, r, false)
}

func (s *Server) moveSaving(w http.ResponseWriter, r *http.Request, contribute bool) {
	id := r.PathValue("id")
	p, ok := parseBody(w, r)
	if !ok {
		return
	}
	amount, err := p.Amount("amount")
	if err != nil {
		InputError("Invalid amount", "Please enter a valid positive amount").Write(w)
		return
	}

	var cmd state.Command = state.WithdrawFromSaving{ID: id, Amount: amount}
	if contribute {
		cmd = state.ContributeToSaving{ID: id, Amount: amount}
	}
	before := findSaving(s.store.Snapshot().Savings, id)
	next, ok := s.dispatch(w, r, cmd)
	if !ok {
		return
	}
	after := findSaving(next.Savings, id)
	moved := after.CurrentAmount.Sub(before.CurrentAmount).Abs()

	title, msg := "Added to savings", fmt.Sprintf("%s added successfully", s.money(moved))
	if !contribute {
		title, msg = "Withdrawn from savings", fmt.Sprintf("%s withdrawn from %s", s.money(moved), after.Title)
	}
	NewHTMXResponse().
		TriggerSuccessNotification(title, msg).
		TriggerStateChanged("savings").
		JSON(map[string]any{
			"saving": savingViewOf(after),
			"moved":  moved,
		}).
		Write(w)
}
