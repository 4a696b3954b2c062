// Package ledger aggregates transactions into totals and windowed sums.
//
// Every function is pure: inputs are never mutated and results depend only on
// the arguments, including the caller-supplied now.
package ledger

import (
	"fmt"
	"time"
)

// Period names a spending window that ends at now.
type Period string

const (
	Daily   Period = "daily"
	Monthly Period = "monthly"
)

// WindowStrategy computes the inclusive start of a window ending at now.
type WindowStrategy interface {
	Start(now time.Time) time.Time
}

// DayWindow starts at midnight of now's calendar day in now's location.
type DayWindow struct{}

func (DayWindow) Start(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, now.Location())
}

// MonthWindow starts at midnight on the first day of now's month.
type MonthWindow struct{}

func (MonthWindow) Start(now time.Time) time.Time {
	y, m, _ := now.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, now.Location())
}

var windowStrategies = map[Period]WindowStrategy{
	Daily:   DayWindow{},
	Monthly: MonthWindow{},
}

// GetWindowStrategy returns the strategy registered for p.
func GetWindowStrategy(p Period) (WindowStrategy, error) {
	s, ok := windowStrategies[p]
	if !ok {
		return nil, fmt.Errorf("unknown period: %s", p)
	}
	return s, nil
}

// RegisterWindowStrategy adds or replaces the strategy for p. Not safe for
// use concurrently with lookups; call it during init.
func RegisterWindowStrategy(p Period, s WindowStrategy) {
	windowStrategies[p] = s
}

// WindowStart returns the start of the window for p ending at now.
func WindowStart(p Period, now time.Time) (time.Time, error) {
	s, err := GetWindowStrategy(p)
	if err != nil {
		return time.Time{}, err
	}
	return s.Start(now), nil
}
