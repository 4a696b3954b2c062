package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestHTMXResponseBuilder_Basic(t *testing.T) {
	w := httptest.NewRecorder()

	NewHTMXResponse().
		Status(http.StatusOK).
		Body([]byte("test")).
		Write(w)

	if w.Code != http.StatusOK {
		t.Errorf("Status code = %d, want %d", w.Code, http.StatusOK)
	}
	if w.Body.String() != "test" {
		t.Errorf("Body = %q, want %q", w.Body.String(), "test")
	}
	if w.Header().Get("HX-Trigger") != "" {
		t.Errorf("HX-Trigger should be empty without triggers")
	}
}

func TestHTMXResponseBuilder_Triggers(t *testing.T) {
	w := httptest.NewRecorder()

	NewHTMXResponse().
		TriggerStateChanged("transactions").
		TriggerLimitWarning(map[string]any{"category": "Food", "dailyExceeded": true}).
		TriggerSuccessNotification("Transaction added!", "Expense of ₹250 recorded").
		Write(w)

	trigger := w.Header().Get("HX-Trigger")
	if trigger == "" {
		t.Fatal("HX-Trigger header not set")
	}

	expectedParts := []string{
		`"transactions:changed"`,
		`"limit:warning"`,
		`"dailyExceeded":true`,
		`"show-notification"`,
		`"type":"success"`,
		`"title":"Transaction added!"`,
	}
	for _, part := range expectedParts {
		if !strings.Contains(trigger, part) {
			t.Errorf("HX-Trigger missing %q: %s", part, trigger)
		}
	}
}

func TestHTMXResponseBuilder_NotificationDurations(t *testing.T) {
	tests := []struct {
		name     string
		build    func(*HTMXResponseBuilder) *HTMXResponseBuilder
		wantType string
		wantMs   float64
	}{
		{"success", func(b *HTMXResponseBuilder) *HTMXResponseBuilder { return b.TriggerSuccessNotification("t", "m") }, "success", 3000},
		{"error", func(b *HTMXResponseBuilder) *HTMXResponseBuilder { return b.TriggerErrorNotification("t", "m") }, "error", 5000},
		{"warning", func(b *HTMXResponseBuilder) *HTMXResponseBuilder {
			return b.TriggerNotification(NotificationWarning, "t", "m", 4000)
		}, "warning", 4000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			tt.build(NewHTMXResponse()).Write(w)

			var triggers map[string]map[string]any
			if err := json.Unmarshal([]byte(w.Header().Get("HX-Trigger")), &triggers); err != nil {
				t.Fatalf("decode HX-Trigger: %v", err)
			}
			n := triggers["show-notification"]
			if n["type"] != tt.wantType {
				t.Errorf("type = %v, want %s", n["type"], tt.wantType)
			}
			if n["duration"] != tt.wantMs {
				t.Errorf("duration = %v, want %v", n["duration"], tt.wantMs)
			}
		})
	}
}

func TestHTMXResponseBuilder_JSON(t *testing.T) {
	w := httptest.NewRecorder()

	NewHTMXResponse().
		Status(http.StatusCreated).
		JSON(map[string]int{"n": 1}).
		Write(w)

	if w.Code != http.StatusCreated {
		t.Errorf("Status code = %d, want %d", w.Code, http.StatusCreated)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
	if w.Body.String() != `{"n":1}` {
		t.Errorf("Body = %q", w.Body.String())
	}
}

func TestHTMXResponseBuilder_JSONEncodeFailure(t *testing.T) {
	w := httptest.NewRecorder()

	NewHTMXResponse().JSON(make(chan int)).Write(w)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("Status code = %d, want %d", w.Code, http.StatusInternalServerError)
	}
}

func TestHTMXResponseBuilder_CustomHeader(t *testing.T) {
	w := httptest.NewRecorder()

	NewHTMXResponse().
		Header("X-Custom", "value").
		Write(w)

	if w.Header().Get("X-Custom") != "value" {
		t.Errorf("X-Custom = %q, want %q", w.Header().Get("X-Custom"), "value")
	}
}

func TestErrorResponses(t *testing.T) {
	tests := []struct {
		name      string
		builder   *HTMXResponseBuilder
		wantCode  int
		wantTitle string
		wantError string
	}{
		{"bad request", BadRequestError("bad"), http.StatusBadRequest, "Bad Request", "bad"},
		{"unprocessable", UnprocessableEntityError("invalid"), http.StatusUnprocessableEntity, "Unprocessable Entity", "invalid"},
		{"not found", NotFoundError("missing"), http.StatusNotFound, "Not Found", "missing"},
		{"conflict", ConflictError("dup"), http.StatusConflict, "Conflict", "dup"},
		{"unauthorized", UnauthorizedError("login"), http.StatusUnauthorized, "Unauthorized", "login"},
		{"internal", InternalServerError("boom"), http.StatusInternalServerError, "Internal Server Error", "boom"},
		{"input", InputError("Missing fields", "Please fill in amount and category"), http.StatusBadRequest, "Missing fields", "Please fill in amount and category"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			tt.builder.Write(w)

			if w.Code != tt.wantCode {
				t.Errorf("Status code = %d, want %d", w.Code, tt.wantCode)
			}
			var body apiError
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if body.Error != tt.wantError {
				t.Errorf("error = %q, want %q", body.Error, tt.wantError)
			}
			if !strings.Contains(w.Header().Get("HX-Trigger"), `"title":"`+tt.wantTitle+`"`) {
				t.Errorf("HX-Trigger missing title %q: %s", tt.wantTitle, w.Header().Get("HX-Trigger"))
			}
		})
	}
}
