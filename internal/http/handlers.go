package http

import (
	"context"
	"net/http"
	"time"

	"moneytrack/internal/core"
	"moneytrack/internal/insights"
	"moneytrack/internal/log"
	"moneytrack/internal/state"
)

// handleHealth performs basic liveness check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	NewHTMXResponse().JSON(map[string]any{
		"status":    "ok",
		"timestamp": s.now().Format(time.RFC3339),
		"uptime":    s.now().Sub(s.startedAt).Round(time.Second).String(),
	}).Write(w)
}

// handleReady reports readiness with a storage check.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	status, code := "ready", http.StatusOK
	checks := map[string]any{
		"store_revision":  s.store.Revision(),
		"analytics_cache": s.analytics.Stats(),
	}

	if s.health == nil {
		checks["storage"] = "not_configured"
	} else {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.health.Ping(ctx); err != nil {
			log.FromContext(r.Context()).WithComponent(log.ComponentStorage).WarnContext(r.Context(), "Readiness check failed",
				log.FieldError, err.Error(),
				log.FieldErrorType, log.ErrorTypeStorage)
			checks["storage"] = "failed: " + err.Error()
			status, code = "not_ready", http.StatusServiceUnavailable
		} else {
			checks["storage"] = "ok"
		}
	}

	NewHTMXResponse().Status(code).JSON(map[string]any{
		"status":    status,
		"timestamp": s.now().Format(time.RFC3339),
		"checks":    checks,
		"security":  s.metrics.snapshot(),
	}).Write(w)
}

// handleLogin is a mock login: any well-formed email and a non-empty
// password sign in, named after the email's local part.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	p, ok := parseBody(w, r)
	if !ok {
		return
	}
	email, password := p.Get("email"), p.Get("password")
	if email == "" || password == "" {
		BadRequestError("Please enter both email and password").Write(w)
		return
	}
	email, ok = parseEmail(email)
	if !ok {
		BadRequestError("Please enter a valid email address").Write(w)
		return
	}
	s.signIn(w, r, nameFromEmail(email), email, "Welcome back!")
}

// handleRegister creates the mock account. Nothing is checked beyond the
// form itself.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	p, ok := parseBody(w, r)
	if !ok {
		return
	}
	name, email := p.Get("name"), p.Get("email")
	password, confirm := p.Get("password"), p.Get("confirmPassword")
	if name == "" || email == "" || password == "" {
		BadRequestError("Please fill in all fields").Write(w)
		return
	}
	email, ok = parseEmail(email)
	if !ok {
		BadRequestError("Please enter a valid email address").Write(w)
		return
	}
	if password != confirm {
		BadRequestError("Passwords do not match").Write(w)
		return
	}
	s.signIn(w, r, name, email, "Account created!")
}

func (s *Server) signIn(w http.ResponseWriter, r *http.Request, name, email, title string) {
	user := core.User{
		ID:     state.NewID(),
		Name:   name,
		Email:  email,
		Avatar: avatarURL(email),
	}
	if _, ok := s.dispatch(w, r, state.SetUser{User: &user}); !ok {
		return
	}
	log.FromContext(r.Context()).WithComponent(log.ComponentAuth).InfoContext(r.Context(), "User signed in",
		log.FieldEntityID, user.ID)
	NewHTMXResponse().
		TriggerSuccessNotification(title, "Signed in as "+user.Name).
		TriggerStateChanged("user").
		JSON(user).
		Write(w)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.dispatch(w, r, state.SetUser{}); !ok {
		return
	}
	NewHTMXResponse().
		Status(http.StatusNoContent).
		TriggerStateChanged("user").
		Write(w)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	snap := s.store.Snapshot()
	if snap.User == nil {
		UnauthorizedError("Please log in to continue").Write(w)
		return
	}
	NewHTMXResponse().JSON(map[string]any{
		"user":  snap.User,
		"theme": snap.Theme,
	}).Write(w)
}

func (s *Server) handleSetTheme(w http.ResponseWriter, r *http.Request) {
	p, ok := parseBody(w, r)
	if !ok {
		return
	}
	next, ok := s.dispatch(w, r, state.SetTheme{Theme: core.Theme(p.Get("theme"))})
	if !ok {
		return
	}
	NewHTMXResponse().
		TriggerStateChanged("theme").
		JSON(map[string]any{"theme": next.Theme}).
		Write(w)
}

func (s *Server) handleTips(w http.ResponseWriter, r *http.Request) {
	snap := s.store.Snapshot()
	now := s.now()
	NewHTMXResponse().JSON(map[string]any{
		"tips":        insights.FinanceTips(),
		"suggestions": insights.Suggestions(snap.Events, snap.Transactions, now, s.currency),
	}).Write(w)
}

// handleSplit is the placeholder for bill splitting and borrowing.
func (s *Server) handleSplit(w http.ResponseWriter, r *http.Request) {
	NewHTMXResponse().JSON(map[string]any{
		"feature": "split",
		"title":   "Split & Borrow",
		"status":  "coming soon",
		"message": "Manage shared expenses. This feature is coming soon.",
	}).Write(w)
}
