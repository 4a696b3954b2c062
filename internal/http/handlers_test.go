package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moneytrack/internal/core"
	"moneytrack/internal/state"
)

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}

type notification struct {
	Type    string `json:"type"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

func triggers(t *testing.T, rr *httptest.ResponseRecorder) map[string]json.RawMessage {
	t.Helper()
	out := map[string]json.RawMessage{}
	if h := rr.Header().Get("HX-Trigger"); h != "" {
		require.NoError(t, json.Unmarshal([]byte(h), &out))
	}
	return out
}

func toast(t *testing.T, rr *httptest.ResponseRecorder) notification {
	t.Helper()
	raw, ok := triggers(t, rr)["show-notification"]
	require.True(t, ok, "no notification in %q", rr.Header().Get("HX-Trigger"))
	var n notification
	require.NoError(t, json.Unmarshal(raw, &n))
	return n
}

func loggedIn(t *testing.T) (*Server, *state.Store) {
	t.Helper()
	srv, store := newTestServer(t)
	rr := do(srv, http.MethodPost, "/auth/login", "email=asha@example.edu&password=secret")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	return srv, store
}

func TestLoginLogout(t *testing.T) {
	srv, store := newTestServer(t)

	rr := do(srv, http.MethodPost, "/auth/login", "email=asha@example.edu")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "Please enter both email and password", toast(t, rr).Message)

	rr = do(srv, http.MethodPost, "/auth/login", `{"email":"asha@example.edu","password":"secret"}`)
	require.Equal(t, http.StatusOK, rr.Code)
	user := decode[core.User](t, rr)
	assert.Equal(t, "asha", user.Name)
	assert.Equal(t, "https://api.dicebear.com/7.x/avataaars/svg?seed=asha%40example.edu", user.Avatar)
	assert.NotEmpty(t, user.ID)
	require.NotNil(t, store.Snapshot().User)

	rr = do(srv, http.MethodGet, "/auth/me", "")
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = do(srv, http.MethodPost, "/auth/logout", "")
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Nil(t, store.Snapshot().User)
	assert.Equal(t, http.StatusUnauthorized, do(srv, http.MethodGet, "/api/dashboard", "").Code)
}

func TestRegister(t *testing.T) {
	srv, store := newTestServer(t)

	rr := do(srv, http.MethodPost, "/auth/register", "name=Asha&email=asha@example.edu&password=a&confirmPassword=b")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "Passwords do not match", toast(t, rr).Message)
	assert.Nil(t, store.Snapshot().User)

	rr = do(srv, http.MethodPost, "/auth/register", "name=Asha+K&email=asha@example.edu&password=a&confirmPassword=a")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Asha K", store.Snapshot().User.Name)
}

func TestLoginAcceptsDisplayNameAddress(t *testing.T) {
	srv, _ := newTestServer(t)

	rr := do(srv, http.MethodPost, "/auth/login", `{"email":"Asha K <asha+k@example.edu>","password":"secret"}`)
	require.Equal(t, http.StatusOK, rr.Code)
	user := decode[core.User](t, rr)
	assert.Equal(t, "asha+k", user.Name)
	assert.Equal(t, "asha+k@example.edu", user.Email)
	assert.Equal(t, "https://api.dicebear.com/7.x/avataaars/svg?seed=asha%2Bk%40example.edu", user.Avatar)

	rr = do(srv, http.MethodPost, "/auth/login", `{"email":"not-an-address","password":"secret"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "Please enter a valid email address", toast(t, rr).Message)
}

func TestCreateTransactionValidation(t *testing.T) {
	srv, store := loggedIn(t)
	before := len(store.Snapshot().Transactions)

	tests := []struct {
		name      string
		body      string
		wantCode  int
		wantTitle string
	}{
		{"missing category", "type=expense&amount=10", http.StatusBadRequest, "Missing fields"},
		{"missing amount", "type=expense&category=Food", http.StatusBadRequest, "Missing fields"},
		{"negative amount", "type=expense&amount=-3&category=Food", http.StatusBadRequest, "Invalid amount"},
		{"bad type", "type=transfer&amount=3&category=Food", http.StatusUnprocessableEntity, "Unprocessable Entity"},
		{"bad date", "type=expense&amount=3&category=Food&date=yesterday", http.StatusUnprocessableEntity, "Unprocessable Entity"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := do(srv, http.MethodPost, "/api/transactions", tt.body)
			assert.Equal(t, tt.wantCode, rr.Code)
			assert.Equal(t, tt.wantTitle, toast(t, rr).Title)
		})
	}
	assert.Len(t, store.Snapshot().Transactions, before)
}

func TestCreateTransactionSuccess(t *testing.T) {
	srv, store := loggedIn(t)

	rr := do(srv, http.MethodPost, "/api/transactions", `{"type":"expense","amount":"1250","category":"Food","notes":"groceries"}`)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	n := toast(t, rr)
	assert.Equal(t, "Transaction added!", n.Title)
	assert.Equal(t, "Expense of ₹1,250 recorded", n.Message)
	assert.Contains(t, triggers(t, rr), "transactions:changed")

	got := store.Snapshot().Transactions[0]
	assert.Equal(t, core.Expense, got.Kind)
	assert.Equal(t, "groceries", got.Notes)
	assert.True(t, got.Date.Equal(testNow), "bare or missing date lands at now")

	view := decode[map[string]any](t, rr)
	assert.Equal(t, "🍔", view["glyph"])
}

func TestCreateTransactionLimitWarning(t *testing.T) {
	srv, store := loggedIn(t)

	rr := do(srv, http.MethodPut, "/api/limits/Food", "dailyLimit=500")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr = do(srv, http.MethodPost, "/api/transactions", "type=expense&amount=300&category=Food&date=2025-03-20")
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	rr = do(srv, http.MethodPost, "/api/transactions", "type=expense&amount=250&category=Food")
	require.Equal(t, http.StatusConflict, rr.Code)
	assert.Contains(t, triggers(t, rr), "limit:warning")
	warning := decode[limitWarning](t, rr)
	assert.True(t, warning.Result.DailyExceeded)
	assert.False(t, warning.Result.MonthlyExceeded)
	count := len(store.Snapshot().Transactions)

	// Income is never checked.
	rr = do(srv, http.MethodPost, "/api/transactions", "type=income&amount=250&category=Food")
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = do(srv, http.MethodPost, "/api/transactions", "type=expense&amount=250&category=Food&confirm=true")
	require.Equal(t, http.StatusCreated, rr.Code)
	assert.Len(t, store.Snapshot().Transactions, count+2)

	rr = do(srv, http.MethodPost, "/api/limits/check", "category=Food&amount=1")
	require.Equal(t, http.StatusOK, rr.Code)
	check := decode[map[string]any](t, rr)
	assert.Equal(t, true, check["exceeded"])
}

func TestListAndDeleteTransactions(t *testing.T) {
	srv, _ := loggedIn(t)

	rr := do(srv, http.MethodGet, "/api/transactions?type=expense", "")
	require.Equal(t, http.StatusOK, rr.Code)
	list := decode[struct {
		Count  int      `json:"count"`
		Months []string `json:"months"`
	}](t, rr)
	assert.Equal(t, 3, list.Count)
	assert.Equal(t, []string{"2025-03"}, list.Months)

	rr = do(srv, http.MethodGet, "/api/transactions?q=coffee", "")
	assert.Equal(t, 1, decode[struct {
		Count int `json:"count"`
	}](t, rr).Count)

	assert.Equal(t, http.StatusBadRequest, do(srv, http.MethodGet, "/api/transactions?type=other", "").Code)

	assert.Equal(t, http.StatusOK, do(srv, http.MethodDelete, "/api/transactions/3", "").Code)
	rr = do(srv, http.MethodDelete, "/api/transactions/3", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestCategories(t *testing.T) {
	srv, store := loggedIn(t)

	rr := do(srv, http.MethodPost, "/api/categories", "type=expense&name=")
	assert.Equal(t, "Empty category", toast(t, rr).Title)

	rr = do(srv, http.MethodPost, "/api/categories", "type=expense&name=food")
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, "Category exists", toast(t, rr).Title)

	rr = do(srv, http.MethodPost, "/api/categories", "type=expense&name=Laundry")
	require.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, "Laundry added to expense categories", toast(t, rr).Message)

	rr = do(srv, http.MethodDelete, "/api/categories/expense/Food", "")
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, "Cannot delete", toast(t, rr).Title)
	assert.Contains(t, store.Snapshot().Categories.Expense, "Food")

	rr = do(srv, http.MethodDelete, "/api/categories/expense/Laundry", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.NotContains(t, store.Snapshot().Categories.Expense, "Laundry")

	rr = do(srv, http.MethodGet, "/api/categories", "")
	require.Equal(t, http.StatusOK, rr.Code)
}

func TestLimits(t *testing.T) {
	srv, store := loggedIn(t)

	rr := do(srv, http.MethodPut, "/api/limits/Food", "dailyLimit=abc")
	assert.Equal(t, "Invalid daily limit", toast(t, rr).Title)

	rr = do(srv, http.MethodPut, "/api/limits/Nope", "dailyLimit=10")
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = do(srv, http.MethodPut, "/api/limits/Food", `{"dailyLimit":"100","monthlyLimit":"2000"}`)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Limit set", toast(t, rr).Title)
	require.Len(t, store.Snapshot().CategoryLimits, 1)

	rr = do(srv, http.MethodGet, "/api/limits/Food", "")
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = do(srv, http.MethodPut, "/api/limits/Food", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Limit removed", toast(t, rr).Title)
	assert.Empty(t, store.Snapshot().CategoryLimits)

	assert.Equal(t, http.StatusNotFound, do(srv, http.MethodDelete, "/api/limits/Food", "").Code)
}

func TestLockupSpend(t *testing.T) {
	srv, store := loggedIn(t)

	rr := do(srv, http.MethodPost, "/api/lockups/2/spend", "amount=6000")
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Equal(t, "Insufficient balance", toast(t, rr).Title)

	rr = do(srv, http.MethodPost, "/api/lockups/2/spend", "")
	assert.Equal(t, "Missing amount", toast(t, rr).Title)

	rr = do(srv, http.MethodPost, "/api/lockups/2/spend", "amount=1000&emergency=true")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	n := toast(t, rr)
	assert.Equal(t, "Emergency spending completed", n.Title)
	assert.Equal(t, "₹1,000 spent from Emergency Fund", n.Message)

	snap := store.Snapshot()
	assert.Equal(t, "4000", snap.Lockups[1].Balance.String())
	tx := snap.Transactions[0]
	assert.Equal(t, state.LockupSpendCategory, tx.Category)
	assert.Equal(t, "Spent from lockup: Emergency Fund (Emergency)", tx.Notes)

	assert.Equal(t, http.StatusNotFound, do(srv, http.MethodPost, "/api/lockups/missing/spend", "amount=1").Code)
}

func TestLockupCreateAndDelete(t *testing.T) {
	srv, store := loggedIn(t)

	rr := do(srv, http.MethodPost, "/api/lockups", "title=Rent")
	assert.Equal(t, "Missing fields", toast(t, rr).Title)

	rr = do(srv, http.MethodPost, "/api/lockups", "title=Rent&amount=8000")
	require.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, "₹8,000 locked for Rent", toast(t, rr).Message)
	created := store.Snapshot().Lockups[0]
	assert.True(t, created.Balance.Equal(created.Amount))

	assert.Equal(t, http.StatusOK, do(srv, http.MethodDelete, "/api/lockups/"+created.ID, "").Code)
	assert.Len(t, store.Snapshot().Lockups, 2)
}

func TestSavingsClamp(t *testing.T) {
	srv, store := loggedIn(t)

	rr := do(srv, http.MethodPost, "/api/savings/2/contribute", "amount=20000")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, "₹15,000 added successfully", toast(t, rr).Message)
	assert.Equal(t, "20000", store.Snapshot().Savings[1].CurrentAmount.String())

	rr = do(srv, http.MethodPost, "/api/savings/2/withdraw", "amount=50000")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, store.Snapshot().Savings[1].CurrentAmount.IsZero())

	rr = do(srv, http.MethodPost, "/api/savings", "title=Bike&targetAmount=9000")
	require.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, "Target: ₹9,000 for Bike", toast(t, rr).Message)
	assert.True(t, store.Snapshot().Savings[0].CurrentAmount.IsZero())
}

func TestEvents(t *testing.T) {
	srv, store := loggedIn(t)

	rr := do(srv, http.MethodPost, "/api/events", "date=2025-03-22")
	assert.Equal(t, "Missing title", toast(t, rr).Title)

	rr = do(srv, http.MethodPost, "/api/events", `{"title":"Hackathon","date":"2025-03-22","categories":["Food","Transport"],"budget":"600"}`)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	assert.Equal(t, "Hackathon scheduled for Mar 22, 2025", toast(t, rr).Message)
	assert.Equal(t, []string{"Food", "Transport"}, store.Snapshot().Events[0].Categories)

	rr = do(srv, http.MethodGet, "/api/events/upcoming", "")
	require.Equal(t, http.StatusOK, rr.Code)
	upcoming := decode[struct {
		Events []struct {
			Title string `json:"title"`
		} `json:"events"`
	}](t, rr)
	var titles []string
	for _, e := range upcoming.Events {
		titles = append(titles, e.Title)
	}
	assert.Equal(t, []string{"Study Group", "Hackathon", "College Fest"}, titles)

	id := store.Snapshot().Events[0].ID
	assert.Equal(t, http.StatusOK, do(srv, http.MethodDelete, "/api/events/"+id, "").Code)
	assert.Equal(t, http.StatusNotFound, do(srv, http.MethodDelete, "/api/events/"+id, "").Code)
}

func TestDashboardTotals(t *testing.T) {
	srv, _ := loggedIn(t)

	rr := do(srv, http.MethodGet, "/api/dashboard", "")
	require.Equal(t, http.StatusOK, rr.Code)
	view := decode[struct {
		Greeting string `json:"greeting"`
		Totals   struct {
			Balance   string            `json:"balance"`
			Income    string            `json:"income"`
			Expense   string            `json:"expense"`
			Available string            `json:"available"`
			Display   map[string]string `json:"display"`
		} `json:"totals"`
		RecentTransactions []any    `json:"recentTransactions"`
		Suggestions        []string `json:"suggestions"`
	}](t, rr)

	assert.Equal(t, "Good afternoon!", view.Greeting)
	assert.Equal(t, "7500", view.Totals.Income)
	assert.Equal(t, "1430", view.Totals.Expense)
	assert.Equal(t, "6070", view.Totals.Balance)
	assert.Equal(t, "-33930", view.Totals.Available)
	assert.Equal(t, "-₹33,930", view.Totals.Display["available"])
	assert.Len(t, view.RecentTransactions, 5)
	assert.NotEmpty(t, view.Suggestions)
}

func TestAnalyticsIsCachedPerRevision(t *testing.T) {
	srv, _ := loggedIn(t)

	for i := 0; i < 2; i++ {
		require.Equal(t, http.StatusOK, do(srv, http.MethodGet, "/api/analytics", "").Code)
	}
	stats := srv.analytics.Stats()
	assert.Equal(t, uint64(1), stats.Hits)
	assert.Equal(t, uint64(1), stats.Misses)

	require.Equal(t, http.StatusCreated, do(srv, http.MethodPost, "/api/transactions", "type=expense&amount=5&category=Coffee").Code)
	rr := do(srv, http.MethodGet, "/api/analytics", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, uint64(2), srv.analytics.Stats().Misses)

	view := decode[struct {
		TotalExpense string `json:"totalExpense"`
		Monthly      []any  `json:"monthly"`
	}](t, rr)
	assert.Equal(t, "1435", view.TotalExpense)
	assert.Len(t, view.Monthly, trendMonths)
}

func TestThemeTipsAndSplit(t *testing.T) {
	srv, store := loggedIn(t)

	assert.Equal(t, http.StatusUnprocessableEntity, do(srv, http.MethodPut, "/api/profile/theme", "theme=blue").Code)
	require.Equal(t, http.StatusOK, do(srv, http.MethodPut, "/api/profile/theme", "theme=dark").Code)
	assert.Equal(t, core.ThemeDark, store.Snapshot().Theme)

	rr := do(srv, http.MethodGet, "/api/tips", "")
	require.Equal(t, http.StatusOK, rr.Code)
	tips := decode[struct {
		Tips []string `json:"tips"`
	}](t, rr)
	assert.Len(t, tips.Tips, 10)

	rr = do(srv, http.MethodGet, "/api/split", "")
	assert.Equal(t, "coming soon", decode[map[string]string](t, rr)["status"])
}

func TestScannerEndpoints(t *testing.T) {
	srv, store := loggedIn(t)
	before := store.Revision()

	rr := do(srv, http.MethodPost, "/api/scanner/result", "text=upi://pay?pa=canteen@bank")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Demo scan completed (no real payment integration)", toast(t, rr).Message)
	assert.Equal(t, before, store.Revision(), "a scan never changes the ledger")

	rr = do(srv, http.MethodPost, "/api/scanner/error", `{"name":"NotAllowedError","message":"denied"}`)
	require.Equal(t, http.StatusOK, rr.Code)
	body := decode[map[string]string](t, rr)
	assert.Equal(t, "permission_denied", body["kind"])
	assert.Equal(t, "Camera access denied. Please allow camera permissions.", body["message"])

	rr = do(srv, http.MethodGet, "/api/scanner/constraints", "")
	assert.Equal(t, "environment", decode[map[string]any](t, rr)["facingMode"])
}
