// Package health keeps the INR (blood clotting) log with diet guidance.
package health

import (
	"context"
	"math"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"hensgen-helper/internal/apperr"
	"hensgen-helper/internal/storage"
)

// Target range drawn on the chart.
const (
	TargetLow  = 2.0
	TargetHigh = 3.0

	// ChartSize is how many recent entries the chart shows.
	ChartSize = 12
)

const msgInvalid = "Please enter a valid INR value."

const Disclaimer = "Disclaimer: This is for informational purposes only and is not medical advice. Always consult with your doctor or pharmacist."

var DietTips = []string{
	"Aim for consistent (not zero!) intake of greens like spinach and broccoli.",
	"Be cautious with cranberry juice and grapefruit, as they can interfere.",
	"Moderate alcohol consumption is key.",
	"Many antibiotics and other medications can affect your INR. Tell your doctor you're on Warfarin.",
}

type Entry struct {
	ID    int64     `json:"id"`
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
	Notes string    `json:"notes,omitempty"`
}

// InRange reports whether the value sits inside the target range.
func (e Entry) InRange() bool {
	return e.Value >= TargetLow && e.Value <= TargetHigh
}

type Log struct {
	mu      sync.Mutex
	entries *storage.Value[[]Entry]
}

func NewLog(store storage.Store) *Log {
	return &Log{entries: storage.NewValue(store, storage.KeyINRLogs, func() []Entry { return []Entry{} })}
}

// ParseValue accepts "2.5" as well as "2,5".
func ParseValue(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(s), ",", "."), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return 0, apperr.Invalid(msgInvalid)
	}
	return v, nil
}

// Add records a reading taken at now. The log stays sorted by date ascending.
func (l *Log) Add(ctx context.Context, value float64, notes string, now time.Time) (Entry, error) {
	if math.IsNaN(value) || math.IsInf(value, 0) || value <= 0 {
		return Entry{}, apperr.Invalid(msgInvalid)
	}
	e := Entry{
		ID:    now.UnixMilli(),
		Date:  now,
		Value: value,
		Notes: strings.TrimSpace(notes),
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	_, err := l.entries.Update(ctx, func(cur []Entry) []Entry {
		cur = append(cur, e)
		sort.SliceStable(cur, func(i, j int) bool { return cur[i].Date.Before(cur[j].Date) })
		return cur
	})
	if err != nil {
		return Entry{}, err
	}
	return e, nil
}

// Entries returns all readings, oldest first.
func (l *Log) Entries(ctx context.Context) []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	cur := l.entries.Load(ctx)
	sort.SliceStable(cur, func(i, j int) bool { return cur[i].Date.Before(cur[j].Date) })
	return cur
}

// Recent returns the last n readings, oldest first.
func (l *Log) Recent(ctx context.Context, n int) []Entry {
	all := l.Entries(ctx)
	if n >= 0 && len(all) > n {
		return all[len(all)-n:]
	}
	return all
}

type Summary struct {
	Count   int
	InRange int
	Min     float64
	Max     float64
	Latest  *Entry
}

// Summarize aggregates the last n readings; n <= 0 means all of them.
func (l *Log) Summarize(ctx context.Context, n int) Summary {
	var es []Entry
	if n > 0 {
		es = l.Recent(ctx, n)
	} else {
		es = l.Entries(ctx)
	}
	var s Summary
	for i, e := range es {
		if i == 0 || e.Value < s.Min {
			s.Min = e.Value
		}
		if i == 0 || e.Value > s.Max {
			s.Max = e.Value
		}
		if e.InRange() {
			s.InRange++
		}
	}
	s.Count = len(es)
	if len(es) > 0 {
		last := es[len(es)-1]
		s.Latest = &last
	}
	return s
}
