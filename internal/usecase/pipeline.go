package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"newsrobot/internal/domain"
	"newsrobot/internal/ledger"
	"newsrobot/internal/ports"
	"newsrobot/internal/selection"
)

// ErrRunInFlight is returned when a run is requested while another run
// is still executing. At most one run may be active at a time.
var ErrRunInFlight = errors.New("newsletter run already in flight")

// RunReport summarizes the outcome of a single newsletter run.
type RunReport struct {
	Discovered int       `json:"discovered"`
	New        int       `json:"new"`
	Bookmarks  int       `json:"bookmarks"`
	Selected   int       `json:"selected"`
	PostID     int       `json:"postId,omitempty"`
	PostURL    string    `json:"postUrl,omitempty"`
	EditURL    string    `json:"editUrl,omitempty"`
	StartedAt  time.Time `json:"startedAt"`
	Duration   string    `json:"duration"`
}

// PipelineDeps wires all driven adapters into the orchestration pipeline.
type PipelineDeps struct {
	Source    ports.ArticleSource
	Bookmarks ports.BookmarkLoader
	Enricher  ports.ContentEnricher
	Resolver  *selection.Resolver
	Engine    *selection.Engine
	Ledger    *ledger.Ledger
	Store     ports.LedgerStore
	Writer    ports.Writer
	Publisher ports.Publisher
	Style     domain.Style
	Status    string
	Category  []string
	Retention time.Duration
	Logger    *slog.Logger
}

// Pipeline implements the weekly newsletter workflow.
type Pipeline struct {
	source    ports.ArticleSource
	bookmarks ports.BookmarkLoader
	enricher  ports.ContentEnricher
	resolver  *selection.Resolver
	engine    *selection.Engine
	ledger    *ledger.Ledger
	store     ports.LedgerStore
	writer    ports.Writer
	publisher ports.Publisher
	style     domain.Style
	status    string
	category  []string
	retention time.Duration
	logger    *slog.Logger

	mu sync.Mutex
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		source:    deps.Source,
		bookmarks: deps.Bookmarks,
		enricher:  deps.Enricher,
		resolver:  deps.Resolver,
		engine:    deps.Engine,
		ledger:    deps.Ledger,
		store:     deps.Store,
		writer:    deps.Writer,
		publisher: deps.Publisher,
		style:     deps.Style,
		status:    deps.Status,
		category:  deps.Category,
		retention: deps.Retention,
		logger:    logger.With("component", "pipeline"),
	}
}

// Run executes one full newsletter cycle: gather candidates, drop
// already-delivered URLs, resolve priorities, select, write, publish,
// then record the delivered URLs. Only one run may execute at a time.
func (p *Pipeline) Run(ctx context.Context) (RunReport, error) {
	if !p.mu.TryLock() {
		return RunReport{}, ErrRunInFlight
	}
	defer p.mu.Unlock()

	started := time.Now()
	report := RunReport{StartedAt: started}

	articles, err := p.source.FetchAll(ctx)
	if err != nil {
		return report, fmt.Errorf("fetch articles: %w", err)
	}

	var bookmarks []domain.Article
	if p.bookmarks != nil {
		bookmarks, err = p.bookmarks.Load(ctx)
		if err != nil {
			return report, fmt.Errorf("load bookmarks: %w", err)
		}
	}

	pool := make([]domain.Article, 0, len(bookmarks)+len(articles))
	pool = append(pool, bookmarks...)
	pool = append(pool, articles...)
	report.Discovered = len(pool)
	report.Bookmarks = len(bookmarks)

	fresh := p.ledger.FilterNew(pool)
	report.New = len(fresh)
	p.logger.Info("candidate pool assembled",
		"discovered", report.Discovered,
		"bookmarks", report.Bookmarks,
		"new", report.New)

	if len(fresh) == 0 {
		report.Duration = time.Since(started).String()
		p.logger.Info("nothing new to deliver, skipping publish")
		return report, nil
	}

	// Enrichment runs on the fresh pool only, so pages already delivered
	// in prior runs are never refetched.
	if p.enricher != nil {
		fresh = p.enricher.Enrich(ctx, fresh)
	}

	resolved, err := p.resolver.Resolve(ctx, fresh)
	if err != nil {
		return report, fmt.Errorf("resolve priorities: %w", err)
	}

	selected, err := p.engine.Select(resolved)
	if err != nil {
		return report, fmt.Errorf("select articles: %w", err)
	}
	report.Selected = len(selected)

	if len(selected) == 0 {
		report.Duration = time.Since(started).String()
		p.logger.Info("selection returned no articles, skipping publish")
		return report, nil
	}

	doc, err := p.writer.Write(ctx, selected, p.style)
	if err != nil {
		return report, fmt.Errorf("write newsletter: %w", err)
	}

	result, err := p.publisher.Publish(ctx, domain.Post{
		Title:      doc.Title,
		Content:    doc.Body,
		Status:     p.status,
		Categories: p.category,
		Excerpt:    doc.Excerpt,
	})
	if err != nil {
		return report, fmt.Errorf("publish newsletter: %w", err)
	}
	report.PostID = result.PostID
	report.PostURL = result.PostURL
	report.EditURL = result.EditURL

	// Delivered URLs are recorded only after a successful publish, and
	// bookmarks never enter the ledger.
	for _, a := range selected {
		if a.IsBookmark {
			continue
		}
		p.ledger.Record(a.URL)
	}
	if evicted := p.ledger.Evict(p.retention); evicted > 0 {
		p.logger.Info("evicted expired ledger entries", "count", evicted)
	}
	if p.store != nil {
		if err := p.store.Save(ctx, p.ledger.Snapshot()); err != nil {
			return report, fmt.Errorf("persist ledger: %w", err)
		}
	}

	report.Duration = time.Since(started).String()
	p.logger.Info("newsletter published",
		"selected", report.Selected,
		"postId", report.PostID,
		"postUrl", report.PostURL,
		"duration", report.Duration)
	return report, nil
}

// LedgerSize reports how many delivered URLs are currently tracked.
func (p *Pipeline) LedgerSize() int {
	return p.ledger.Count()
}
