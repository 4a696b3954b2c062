package http

import (
	"fmt"
	"net/http"
	"slices"

	"moneytrack/internal/catalog"
	"moneytrack/internal/core"
	"moneytrack/internal/limits"
	"moneytrack/internal/state"
)

type categoryEntry struct {
	Name   string         `json:"name"`
	Glyph  string         `json:"glyph"`
	Status *limits.Status `json:"status,omitempty"`
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	snap := s.store.Snapshot()
	now := s.now()

	entries := func(kind core.Kind) []categoryEntry {
		names := snap.Categories.CategoriesFor(kind)
		out := make([]categoryEntry, 0, len(names))
		for _, name := range names {
			e := categoryEntry{Name: name, Glyph: catalog.Glyph(name)}
			if kind == core.Expense {
				if st := limits.CategoryStatus(name, snap.CategoryLimits, snap.Transactions, now); st.HasLimit {
					e.Status = &st
				}
			}
			out = append(out, e)
		}
		return out
	}

	NewHTMXResponse().JSON(map[string]any{
		"income":  entries(core.Income),
		"expense": entries(core.Expense),
		"limits":  snap.CategoryLimits,
	}).Write(w)
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	p, ok := parseBody(w, r)
	if !ok {
		return
	}
	kind, err := core.ParseKind(p.Get("type"))
	if err != nil {
		commandError(err).Write(w)
		return
	}
	name := p.Get("name")
	if name == "" {
		InputError("Empty category", "Category name cannot be empty").Write(w)
		return
	}
	if _, ok := s.dispatch(w, r, state.AddCategory{Kind: kind, Name: name},
		rejection{core.ErrDuplicateCategory, "Category exists", "This category already exists"},
	); !ok {
		return
	}
	NewHTMXResponse().
		Status(http.StatusCreated).
		TriggerSuccessNotification("Category added", fmt.Sprintf("%s added to %s categories", name, kind)).
		TriggerStateChanged("categories").
		JSON(categoryEntry{Name: name, Glyph: catalog.Glyph(name)}).
		Write(w)
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	kind, err := core.ParseKind(r.PathValue("kind"))
	if err != nil {
		commandError(err).Write(w)
		return
	}
	name := r.PathValue("name")
	if _, ok := s.dispatch(w, r, state.DeleteCategory{Kind: kind, Name: name},
		rejection{core.ErrCategoryInUse, "Cannot delete", "This category is used in existing transactions"},
	); !ok {
		return
	}
	NewHTMXResponse().
		TriggerSuccessNotification("Category removed", fmt.Sprintf("%s removed from %s categories", name, kind)).
		TriggerStateChanged("categories").
		JSON(map[string]string{"deleted": name, "type": kind.String()}).
		Write(w)
}

// expenseCategoryExists limits can only be set on known expense categories.
func expenseCategoryExists(snap core.AppState, name string) bool {
	return slices.Contains(snap.Categories.Expense, name)
}

func (s *Server) handleGetLimit(w http.ResponseWriter, r *http.Request) {
	category := r.PathValue("category")
	snap := s.store.Snapshot()
	var limit *core.CategoryLimit
	if l, ok := limits.Find(snap.CategoryLimits, category); ok {
		limit = &l
	}
	NewHTMXResponse().JSON(map[string]any{
		"limit":  limit,
		"status": limits.CategoryStatus(category, snap.CategoryLimits, snap.Transactions, s.now()),
	}).Write(w)
}

// handleSetLimit upserts the caps; sending neither removes the limit.
func (s *Server) handleSetLimit(w http.ResponseWriter, r *http.Request) {
	category := r.PathValue("category")
	p, ok := parseBody(w, r)
	if !ok {
		return
	}
	if !expenseCategoryExists(s.store.Snapshot(), category) {
		NotFoundError("Category not found").Write(w)
		return
	}
	daily, err := p.OptionalAmount("dailyLimit")
	if err != nil {
		InputError("Invalid daily limit", "Please enter a valid positive number").Write(w)
		return
	}
	monthly, err := p.OptionalAmount("monthlyLimit")
	if err != nil {
		InputError("Invalid monthly limit", "Please enter a valid positive number").Write(w)
		return
	}

	limit := core.CategoryLimit{Category: category, Daily: daily, Monthly: monthly}
	if _, ok := s.dispatch(w, r, state.SetCategoryLimit{Limit: limit}); !ok {
		return
	}

	b := NewHTMXResponse().TriggerStateChanged("limits")
	if limit.Empty() {
		b.TriggerSuccessNotification("Limit removed", "Spending limits removed for "+category).
			JSON(map[string]any{"limit": nil})
	} else {
		b.TriggerSuccessNotification("Limit set", "Spending limits updated for "+category).
			JSON(map[string]any{"limit": limit})
	}
	b.Write(w)
}

func (s *Server) handleDeleteLimit(w http.ResponseWriter, r *http.Request) {
	category := r.PathValue("category")
	if _, ok := s.dispatch(w, r, state.DeleteCategoryLimit{Category: category}); !ok {
		return
	}
	NewHTMXResponse().
		TriggerSuccessNotification("Limit removed", "Spending limits removed for "+category).
		TriggerStateChanged("limits").
		JSON(map[string]any{"limit": nil}).
		Write(w)
}

// handleCheckLimit runs the look-ahead check without recording anything.
func (s *Server) handleCheckLimit(w http.ResponseWriter, r *http.Request) {
	p, ok := parseBody(w, r)
	if !ok {
		return
	}
	category := p.Get("category")
	if category == "" {
		commandError(core.ErrEmptyCategory).Write(w)
		return
	}
	amount, err := p.Amount("amount")
	if err != nil {
		InputError("Invalid amount", "Please enter a valid positive amount").Write(w)
		return
	}
	snap := s.store.Snapshot()
	now := s.now()
	res := limits.Evaluate(category, amount, snap.CategoryLimits, snap.Transactions, now)
	NewHTMXResponse().JSON(map[string]any{
		"result":   res,
		"exceeded": res.Exceeded(),
		"status":   limits.CategoryStatus(category, snap.CategoryLimits, snap.Transactions, now),
	}).Write(w)
}
