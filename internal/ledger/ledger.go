// Package ledger tracks which article URLs were delivered in previous
// runs so they are not repeated. A ledger instance is owned by a single
// run at a time; callers needing concurrent runs must serialize access
// themselves.
package ledger

import (
	"sort"
	"time"

	"newsrobot/internal/domain"
)

// Ledger is an in-memory set of delivered URLs keyed by their
// normalized form. Operations never block and never fail.
type Ledger struct {
	entries map[string]time.Time
	now     func() time.Time
}

// New returns an empty ledger.
func New() *Ledger {
	return &Ledger{
		entries: map[string]time.Time{},
		now:     time.Now,
	}
}

// IsDelivered reports whether the URL was recorded in a prior run.
// Comparison is case-insensitive and whitespace-trimmed.
func (l *Ledger) IsDelivered(url string) bool {
	_, ok := l.entries[domain.NormalizeURL(url)]
	return ok
}

// Record marks a URL as delivered. Recording an already-present URL is
// a no-op that keeps the original delivery timestamp.
func (l *Ledger) Record(url string) {
	key := domain.NormalizeURL(url)
	if key == "" {
		return
	}
	if _, ok := l.entries[key]; ok {
		return
	}
	l.entries[key] = l.now()
}

// Count returns the number of tracked URLs.
func (l *Ledger) Count() int {
	return len(l.entries)
}

// FilterNew returns the candidates that should enter the pool: every
// bookmark (a bookmark is a fresh user decision each run, even if its
// URL was delivered before) plus every article whose URL is unknown.
// Input order is preserved.
func (l *Ledger) FilterNew(candidates []domain.Article) []domain.Article {
	out := make([]domain.Article, 0, len(candidates))
	for _, a := range candidates {
		if a.IsBookmark || !l.IsDelivered(a.URL) {
			out = append(out, a)
		}
	}
	return out
}

// Evict drops entries delivered longer ago than the retention window
// and returns how many were removed. A non-positive window evicts
// nothing.
func (l *Ledger) Evict(retention time.Duration) int {
	if retention <= 0 {
		return 0
	}
	cutoff := l.now().Add(-retention)
	evicted := 0
	for url, at := range l.entries {
		if at.Before(cutoff) {
			delete(l.entries, url)
			evicted++
		}
	}
	return evicted
}

// Snapshot exports the ledger contents sorted by URL for stable
// persistence.
func (l *Ledger) Snapshot() []domain.LedgerEntry {
	entries := make([]domain.LedgerEntry, 0, len(l.entries))
	for url, at := range l.entries {
		entries = append(entries, domain.LedgerEntry{URL: url, DeliveredAt: at})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].URL < entries[j].URL })
	return entries
}

// Restore replaces the ledger contents with a persisted snapshot.
// Entries with empty URLs are skipped; timestamps are kept as stored.
func (l *Ledger) Restore(entries []domain.LedgerEntry) {
	l.entries = make(map[string]time.Time, len(entries))
	for _, e := range entries {
		key := domain.NormalizeURL(e.URL)
		if key == "" {
			continue
		}
		l.entries[key] = e.DeliveredAt
	}
}
