package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"moneytrack/internal/core"
)

// CurrentVersion is the envelope version written by Encode.
const CurrentVersion = 1

var (
	ErrCorruptSnapshot     = errors.New("corrupt snapshot")
	ErrUnsupportedVersion  = errors.New("snapshot version not supported")
	errMissingStatePayload = errors.New("envelope has no state")
)

type envelope struct {
	Version int             `json:"version"`
	State   json.RawMessage `json:"state"`
}

// migration lifts a payload from version N to N+1.
type migration func(payload json.RawMessage, defaults core.AppState) (json.RawMessage, error)

var migrations = map[int]migration{
	0: migrateLegacy,
}

// Encode wraps s in the current envelope.
func Encode(s core.AppState) ([]byte, error) {
	payload, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encode state: %w", err)
	}
	return json.Marshal(envelope{Version: CurrentVersion, State: payload})
}

// Decode reads an enveloped or legacy snapshot, runs pending migrations and
// normalizes the result. It also reports the version found on disk.
func Decode(data []byte, defaults core.AppState) (core.AppState, int, error) {
	data = bytes.TrimSpace(data)
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return core.AppState{}, 0, fmt.Errorf("%w: %v", ErrCorruptSnapshot, err)
	}

	version, payload := 0, json.RawMessage(data)
	if _, enveloped := probe["version"]; enveloped {
		var env envelope
		if err := json.Unmarshal(data, &env); err != nil {
			return core.AppState{}, 0, fmt.Errorf("%w: %v", ErrCorruptSnapshot, err)
		}
		if len(env.State) == 0 || string(env.State) == "null" {
			return core.AppState{}, env.Version, fmt.Errorf("%w: %v", ErrCorruptSnapshot, errMissingStatePayload)
		}
		version, payload = env.Version, env.State
	}
	if version < 0 || version > CurrentVersion {
		return core.AppState{}, version, fmt.Errorf("%w: %d", ErrUnsupportedVersion, version)
	}

	for v := version; v < CurrentVersion; v++ {
		step, ok := migrations[v]
		if !ok {
			return core.AppState{}, version, fmt.Errorf("%w: no migration from %d", ErrUnsupportedVersion, v)
		}
		var err error
		if payload, err = step(payload, defaults); err != nil {
			return core.AppState{}, version, fmt.Errorf("migrate from %d: %w", v, err)
		}
	}

	var s core.AppState
	if err := json.Unmarshal(payload, &s); err != nil {
		return core.AppState{}, version, fmt.Errorf("%w: %v", ErrCorruptSnapshot, err)
	}
	return normalize(s), version, nil
}

// migrateLegacy fills every field missing from an un-enveloped snapshot
// with its default. Top-level keys replace their default wholesale, except
// categories, whose income and expense lists merge one level deeper.
func migrateLegacy(payload json.RawMessage, defaults core.AppState) (json.RawMessage, error) {
	base, err := rawFields(defaults)
	if err != nil {
		return nil, err
	}
	var stored map[string]json.RawMessage
	if err := json.Unmarshal(payload, &stored); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptSnapshot, err)
	}

	for key, value := range stored {
		if key == "categories" && !isNull(value) {
			merged, err := overlay(base[key], value)
			if err != nil {
				return nil, err
			}
			value = merged
		}
		base[key] = value
	}
	return json.Marshal(base)
}

func rawFields(v any) (map[string]json.RawMessage, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}

func overlay(base, top json.RawMessage) (json.RawMessage, error) {
	var b, t map[string]json.RawMessage
	if err := json.Unmarshal(base, &b); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(top, &t); err != nil {
		return nil, fmt.Errorf("%w: categories: %v", ErrCorruptSnapshot, err)
	}
	if b == nil {
		b = map[string]json.RawMessage{}
	}
	for k, v := range t {
		b[k] = v
	}
	return json.Marshal(b)
}

func isNull(v json.RawMessage) bool {
	return string(bytes.TrimSpace(v)) == "null"
}

// normalize restores invariants a hand-edited or older record may break.
func normalize(s core.AppState) core.AppState {
	s = s.Clone()
	if s.Transactions == nil {
		s.Transactions = []core.Transaction{}
	}
	if s.Events == nil {
		s.Events = []core.Event{}
	}
	if s.Lockups == nil {
		s.Lockups = []core.Lockup{}
	}
	if s.Savings == nil {
		s.Savings = []core.Saving{}
	}
	if s.Categories.Income == nil {
		s.Categories.Income = []string{}
	}
	if s.Categories.Expense == nil {
		s.Categories.Expense = []string{}
	}
	if !s.Theme.Valid() {
		s.Theme = core.ThemeLight
	}

	for i, l := range s.Lockups {
		s.Lockups[i].Balance = clamp(l.Balance, l.Amount)
	}
	for i, sv := range s.Savings {
		s.Savings[i].CurrentAmount = clamp(sv.CurrentAmount, sv.TargetAmount)
	}

	limits := make([]core.CategoryLimit, 0, len(s.CategoryLimits))
	for _, l := range s.CategoryLimits {
		if l.Daily != nil && !l.Daily.IsPositive() {
			l.Daily = nil
		}
		if l.Monthly != nil && !l.Monthly.IsPositive() {
			l.Monthly = nil
		}
		if l.Category == "" || l.Empty() {
			continue
		}
		limits = append(limits, l)
	}
	s.CategoryLimits = limits
	return s
}

func clamp(v, upper decimal.Decimal) decimal.Decimal {
	if v.IsNegative() {
		return decimal.Zero
	}
	if v.GreaterThan(upper) {
		return upper
	}
	return v
}
