// Package feed keeps the bounded status feed shown beside the map.
// Entries are append-only; only a trailing window is retained.
package feed

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"sleighwatch/internal/logging"
)

// DefaultWindow is the trailing-entry cap used when none is configured.
const DefaultWindow = 100

// Entry is one human-readable status line.
type Entry struct {
	ID   string
	Text string
	At   time.Time
}

// Feed is a bounded append-only status feed. Not safe for concurrent
// use; all writers run on the single UI/simulation loop.
type Feed struct {
	max     int
	entries []Entry
}

// New returns a feed retaining at most max entries. max <= 0 uses
// DefaultWindow.
func New(max int) *Feed {
	if max <= 0 {
		max = DefaultWindow
	}
	return &Feed{max: max}
}

// Addf appends a formatted entry and returns it. Safe on a nil feed so
// core components can log unconditionally.
func (f *Feed) Addf(format string, args ...interface{}) Entry {
	e := Entry{
		ID:   uuid.NewString(),
		Text: fmt.Sprintf(format, args...),
		At:   time.Now(),
	}
	if f == nil {
		return e
	}

	f.entries = append(f.entries, e)
	if len(f.entries) > f.max {
		// Discard beyond the window; the trailing view is the only
		// retention contract.
		f.entries = f.entries[len(f.entries)-f.max:]
	}
	logging.Feedf("%s", e.Text)
	return e
}

// Entries returns a copy of the retained trailing window, oldest first.
func (f *Feed) Entries() []Entry {
	if f == nil {
		return nil
	}
	out := make([]Entry, len(f.entries))
	copy(out, f.entries)
	return out
}

// Len returns the number of retained entries.
func (f *Feed) Len() int {
	if f == nil {
		return 0
	}
	return len(f.entries)
}
