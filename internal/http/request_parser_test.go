package http

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"moneytrack/internal/core"
)

func TestRequestBodyParser_JSON(t *testing.T) {
	body := `{"id": "123", "name": " test ", "amount": 42.5, "confirm": true, "categories": ["Food", "Coffee"]}`
	req := httptest.NewRequest(http.MethodPost, "/test", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	parser := NewRequestBodyParser(req)
	if err := parser.Parse(); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if !parser.IsJSON() {
		t.Error("Expected IsJSON() to be true")
	}
	if id := parser.Get("id"); id != "123" {
		t.Errorf("Get('id') = %q, want '123'", id)
	}
	if name := parser.Get("name"); name != "test" {
		t.Errorf("Get('name') = %q, want 'test'", name)
	}
	if amount := parser.Get("amount"); amount != "42.5" {
		t.Errorf("Get('amount') = %q, want '42.5'", amount)
	}
	if !parser.GetBool("confirm") {
		t.Error("GetBool('confirm') = false, want true")
	}
	if got := parser.GetList("categories"); strings.Join(got, "|") != "Food|Coffee" {
		t.Errorf("GetList('categories') = %v", got)
	}
}

func TestRequestBodyParser_FormData(t *testing.T) {
	body := "id=456&name=form+test&value=100&confirm=on&categories=Food,Coffee&categories=Books"
	req := httptest.NewRequest(http.MethodPost, "/test", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	parser := NewRequestBodyParser(req)
	if err := parser.Parse(); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if parser.IsJSON() {
		t.Error("Expected IsJSON() to be false for form data")
	}
	if id := parser.Get("id"); id != "456" {
		t.Errorf("Get('id') = %q, want '456'", id)
	}
	if name := parser.Get("name"); name != "form test" {
		t.Errorf("Get('name') = %q, want 'form test'", name)
	}
	if !parser.GetBool("confirm") {
		t.Error("GetBool('confirm') = false, want true")
	}
	if got := parser.GetList("categories"); strings.Join(got, "|") != "Food|Coffee|Books" {
		t.Errorf("GetList('categories') = %v", got)
	}
	if !parser.Has("value") || parser.Has("missing") {
		t.Error("Has() mismatch")
	}
}

func TestRequestBodyParser_EmptyBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/test", strings.NewReader(""))

	parser := NewRequestBodyParser(req)
	if err := parser.Parse(); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if val := parser.Get("nonexistent"); val != "" {
		t.Errorf("Get('nonexistent') = %q, want empty string", val)
	}
	if parser.GetBool("nonexistent") {
		t.Error("GetBool on empty body should be false")
	}
}

func TestRequestBodyParser_MalformedJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/test", strings.NewReader(`{"amount": `))

	parser := NewRequestBodyParser(req)
	if err := parser.Parse(); err == nil {
		t.Fatal("Parse() should fail on truncated JSON")
	}
	// A second call reports the same error without re-reading.
	if err := parser.Parse(); err == nil {
		t.Fatal("Parse() should keep failing")
	}
}

func TestRequestBodyParser_Amounts(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    string
		wantErr bool
		absent  bool
	}{
		{name: "dot decimal", body: "amount=12.34", want: "12.34"},
		{name: "comma decimal", body: "amount=12,5", want: "12.5"},
		{name: "missing", body: "other=1", wantErr: true, absent: true},
		{name: "negative", body: "amount=-5", wantErr: true},
		{name: "zero", body: "amount=0", wantErr: true},
		{name: "text", body: "amount=abc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/test", strings.NewReader(tt.body))
			parser := NewRequestBodyParser(req)
			if err := parser.Parse(); err != nil {
				t.Fatalf("Parse() error = %v", err)
			}

			got, err := parser.Amount("amount")
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Amount() = %s, want error", got)
				}
			} else if err != nil || !got.Equal(decimal.RequireFromString(tt.want)) {
				t.Fatalf("Amount() = %s, %v; want %s", got, err, tt.want)
			}

			opt, err := parser.OptionalAmount("amount")
			if tt.absent {
				if opt != nil || err != nil {
					t.Errorf("OptionalAmount() = %v, %v; want nil, nil", opt, err)
				}
			}
		})
	}
}

func TestParseFilter(t *testing.T) {
	tests := []struct {
		name      string
		query     url.Values
		wantKind  core.Kind
		wantMonth string
		wantQuery string
		wantErr   bool
	}{
		{name: "empty", query: url.Values{}},
		{name: "all type and month", query: url.Values{"type": {"all"}, "month": {"all"}}},
		{name: "expense", query: url.Values{"type": {"expense"}}, wantKind: core.Expense},
		{name: "income with month", query: url.Values{"type": {"INCOME"}, "month": {"2025-03"}}, wantKind: core.Income, wantMonth: "2025-03"},
		{name: "query trimmed", query: url.Values{"q": {"  coffee "}}, wantQuery: "coffee"},
		{name: "bad type", query: url.Values{"type": {"transfer"}}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := ParseFilter(tt.query)
			if tt.wantErr {
				if err == nil {
					t.Fatal("ParseFilter() want error")
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseFilter() error = %v", err)
			}
			if f.Kind != tt.wantKind || f.Month != tt.wantMonth || f.Query != tt.wantQuery {
				t.Errorf("ParseFilter() = %+v", f)
			}
		})
	}
}
