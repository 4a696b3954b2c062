package core

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func ptr(s string) *decimal.Decimal {
	d := MustAmount(s)
	return &d
}

func TestDateValidate(t *testing.T) {
	cases := []struct {
		d  Date
		ok bool
	}{
		{NewDate(2025, 1, 1), true},
		{NewDate(2025, 12, 31), true},
		{Date{Time: time.Time{}}, false},
	}
	for i, tc := range cases {
		err := tc.d.Validate()
		if tc.ok && err != nil {
			t.Fatalf("case %d expected ok, got %v", i, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestDateJSON(t *testing.T) {
	var d Date
	if err := json.Unmarshal([]byte(`"2025-03-09"`), &d); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if d.String() != "2025-03-09" {
		t.Fatalf("got %s", d)
	}
	if err := json.Unmarshal([]byte(`"2025-03-09T18:30:00Z"`), &d); err != nil {
		t.Fatalf("unmarshal timestamp: %v", err)
	}
	if d.String() != "2025-03-09" {
		t.Fatalf("timestamp day = %s", d)
	}
	b, _ := json.Marshal(NewDate(2024, 2, 29))
	if string(b) != `"2024-02-29"` {
		t.Fatalf("marshal = %s", b)
	}
	if err := json.Unmarshal([]byte(`"not-a-date"`), &d); !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
}

func TestKindText(t *testing.T) {
	for _, k := range []Kind{Income, Expense} {
		b, err := k.MarshalText()
		if err != nil {
			t.Fatalf("marshal %v: %v", k, err)
		}
		var back Kind
		if err := back.UnmarshalText(b); err != nil || back != k {
			t.Fatalf("round trip %v -> %s -> %v (%v)", k, b, back, err)
		}
	}
	if _, err := Kind(0).MarshalText(); err == nil {
		t.Fatal("zero kind must not marshal")
	}
	if _, err := ParseKind("transfer"); !errors.Is(err, ErrInvalidKind) {
		t.Fatalf("expected ErrInvalidKind, got %v", err)
	}
	if k, err := ParseKind(" Expense "); err != nil || k != Expense {
		t.Fatalf("ParseKind case-insensitive failed: %v %v", k, err)
	}
}

func TestTransactionValidate(t *testing.T) {
	good := Transaction{
		ID:       "t1",
		Kind:     Expense,
		Category: "Food",
		Amount:   MustAmount("12.50"),
		Date:     time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC),
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := map[string]struct {
		mutate func(*Transaction)
		want   error
	}{
		"no kind":      {func(tx *Transaction) { tx.Kind = 0 }, ErrInvalidKind},
		"no category":  {func(tx *Transaction) { tx.Category = "  " }, ErrEmptyCategory},
		"zero amount":  {func(tx *Transaction) { tx.Amount = decimal.Zero }, ErrInvalidAmount},
		"negative":     {func(tx *Transaction) { tx.Amount = MustAmount("-1") }, ErrInvalidAmount},
		"zero instant": {func(tx *Transaction) { tx.Date = time.Time{} }, ErrInvalidDate},
	}
	for name, tc := range bads {
		t.Run(name, func(t *testing.T) {
			tx := good
			tc.mutate(&tx)
			if err := tx.Validate(); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestCategoryLimitValidate(t *testing.T) {
	tests := []struct {
		name  string
		limit CategoryLimit
		ok    bool
		empty bool
	}{
		{"daily only", CategoryLimit{Category: "Food", Daily: ptr("500")}, true, false},
		{"both", CategoryLimit{Category: "Food", Daily: ptr("500"), Monthly: ptr("5000")}, true, false},
		{"none", CategoryLimit{Category: "Food"}, true, true},
		{"zero cap", CategoryLimit{Category: "Food", Daily: ptr("0")}, false, false},
		{"negative cap", CategoryLimit{Category: "Food", Monthly: ptr("-3")}, false, false},
		{"no category", CategoryLimit{Daily: ptr("5")}, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.limit.Validate()
			if tt.ok != (err == nil) {
				t.Fatalf("Validate() = %v, want ok=%v", err, tt.ok)
			}
			if tt.limit.Empty() != tt.empty {
				t.Fatalf("Empty() = %v, want %v", tt.limit.Empty(), tt.empty)
			}
		})
	}
}

func TestAllocationValidate(t *testing.T) {
	if err := (Lockup{Title: "Fee", Amount: MustAmount("100"), Balance: MustAmount("100")}).Validate(); err != nil {
		t.Fatalf("lockup: %v", err)
	}
	if err := (Lockup{Title: "Fee", Amount: MustAmount("100"), Balance: MustAmount("101")}).Validate(); err == nil {
		t.Fatal("balance above amount must fail")
	}
	if err := (Lockup{Amount: MustAmount("100")}).Validate(); !errors.Is(err, ErrEmptyTitle) {
		t.Fatalf("expected ErrEmptyTitle, got %v", err)
	}
	if err := (Saving{Title: "Laptop", TargetAmount: MustAmount("10"), CurrentAmount: MustAmount("0")}).Validate(); err != nil {
		t.Fatalf("saving: %v", err)
	}
	if err := (Saving{Title: "Laptop", TargetAmount: decimal.Zero}).Validate(); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
}

func TestEventValidate(t *testing.T) {
	ev := Event{Title: "Fest", Date: NewDate(2025, 5, 1), Budget: ptr("1000")}
	if err := ev.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	ev.Date = Date{}
	if err := ev.Validate(); !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
}
