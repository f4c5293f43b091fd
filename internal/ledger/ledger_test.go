package ledger

import (
	"testing"
	"time"

	"newsrobot/internal/domain"
)

func TestIsDeliveredNormalizesURL(t *testing.T) {
	t.Parallel()

	l := New()
	l.Record("https://Example.com/Post ")

	cases := []struct {
		url  string
		want bool
	}{
		{"https://example.com/post", true},
		{"  HTTPS://EXAMPLE.COM/POST", true},
		{"https://example.com/other", false},
	}

	for _, tc := range cases {
		if got := l.IsDelivered(tc.url); got != tc.want {
			t.Errorf("IsDelivered(%q) = %v, want %v", tc.url, got, tc.want)
		}
	}
}

func TestRecordIsIdempotent(t *testing.T) {
	t.Parallel()

	l := New()
	first := time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return first }
	l.Record("https://example.com/a")

	l.now = func() time.Time { return first.Add(48 * time.Hour) }
	l.Record("https://example.com/a")

	if l.Count() != 1 {
		t.Fatalf("expected 1 entry, got %d", l.Count())
	}
	if got := l.Snapshot()[0].DeliveredAt; !got.Equal(first) {
		t.Fatalf("re-record must keep original timestamp, got %v", got)
	}

	l.Record("")
	if l.Count() != 1 {
		t.Fatalf("empty URL must not be recorded, got %d entries", l.Count())
	}
}

func TestFilterNewExemptsBookmarks(t *testing.T) {
	t.Parallel()

	l := New()
	l.Record("https://example.com/seen")

	candidates := []domain.Article{
		{URL: "https://example.com/seen", Title: "repeat"},
		{URL: "https://example.com/seen", Title: "bookmarked repeat", IsBookmark: true},
		{URL: "https://example.com/fresh", Title: "fresh"},
	}

	got := l.FilterNew(candidates)
	if len(got) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(got))
	}
	if got[0].Title != "bookmarked repeat" || got[1].Title != "fresh" {
		t.Fatalf("order not preserved: %q, %q", got[0].Title, got[1].Title)
	}
}

func TestEvictDropsOnlyStaleEntries(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, time.August, 26, 12, 0, 0, 0, time.UTC)
	l := New()
	l.Restore([]domain.LedgerEntry{
		{URL: "https://example.com/old", DeliveredAt: now.Add(-31 * 24 * time.Hour)},
		{URL: "https://example.com/recent", DeliveredAt: now.Add(-2 * 24 * time.Hour)},
	})
	l.now = func() time.Time { return now }

	if evicted := l.Evict(30 * 24 * time.Hour); evicted != 1 {
		t.Fatalf("expected 1 eviction, got %d", evicted)
	}
	if l.IsDelivered("https://example.com/old") {
		t.Fatal("stale entry survived eviction")
	}
	if !l.IsDelivered("https://example.com/recent") {
		t.Fatal("recent entry was evicted")
	}

	if evicted := l.Evict(0); evicted != 0 {
		t.Fatalf("zero retention must evict nothing, got %d", evicted)
	}
}

func TestSnapshotRestoreRoundtrip(t *testing.T) {
	t.Parallel()

	l := New()
	l.Record("https://example.com/b")
	l.Record("https://example.com/a")

	snap := l.Snapshot()
	if len(snap) != 2 || snap[0].URL != "https://example.com/a" {
		t.Fatalf("snapshot not sorted by URL: %+v", snap)
	}

	restored := New()
	restored.Restore(snap)
	if restored.Count() != 2 {
		t.Fatalf("expected 2 entries after restore, got %d", restored.Count())
	}
	if !restored.IsDelivered("https://example.com/b") {
		t.Fatal("restored ledger lost an entry")
	}
}
