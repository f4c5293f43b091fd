package ports

import (
	"context"

	"newsrobot/internal/domain"
)

// ArticleSource pulls candidate articles from configured news sources.
type ArticleSource interface {
	FetchAll(ctx context.Context) ([]domain.Article, error)
}

// BookmarkLoader supplies user-curated override items. Bookmarks enter
// the pool with priority already set to domain.PriorityBookmark.
type BookmarkLoader interface {
	Load(ctx context.Context) ([]domain.Article, error)
}

// ContentEnricher fills missing article text by fetching the article
// page. Per-article failures are tolerated, not propagated.
type ContentEnricher interface {
	Enrich(ctx context.Context, articles []domain.Article) []domain.Article
}

// TopicMatcher decides which catalog topic, if any, an article belongs
// to. A nil result with a nil error means no match.
type TopicMatcher interface {
	MatchTopic(ctx context.Context, title, excerpt string, catalog domain.Catalog) (*domain.Match, error)
}

// Writer turns the selection result into newsletter prose.
type Writer interface {
	Write(ctx context.Context, articles []domain.Article, style domain.Style) (domain.Document, error)
}

// Publisher pushes a finished post to the content host.
type Publisher interface {
	Publish(ctx context.Context, post domain.Post) (domain.PublishResult, error)
}

// LedgerStore persists the delivered-URL ledger between runs.
type LedgerStore interface {
	Load(ctx context.Context) ([]domain.LedgerEntry, error)
	Save(ctx context.Context, entries []domain.LedgerEntry) error
}

// Scheduler controls when pipeline runs execute.
type Scheduler interface {
	Start(ctx context.Context, job func()) error
	Stop(ctx context.Context) error
}
