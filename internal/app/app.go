// Package app assembles configuration, adapters, and use cases into a
// runnable application.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"newsrobot/internal/api"
	"newsrobot/internal/config"
	"newsrobot/internal/infrastructure/bookmarks"
	"newsrobot/internal/infrastructure/gemini"
	"newsrobot/internal/infrastructure/matcher"
	"newsrobot/internal/infrastructure/newsletter"
	"newsrobot/internal/infrastructure/parser"
	"newsrobot/internal/infrastructure/scheduler"
	"newsrobot/internal/infrastructure/scraper"
	"newsrobot/internal/infrastructure/storage"
	"newsrobot/internal/infrastructure/wordpress"
	"newsrobot/internal/ledger"
	"newsrobot/internal/logging"
	"newsrobot/internal/ports"
	"newsrobot/internal/scanner"
	"newsrobot/internal/selection"
	"newsrobot/internal/usecase"
)

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg       config.Config
	logger    *slog.Logger
	pipeline  *usecase.Pipeline
	server    *api.Server
	scheduler *usecase.Scheduler
	closers   []func() error
}

// New builds a fully wired application instance. The Gemini adapters
// are used when an API key is configured; otherwise the keyword
// matcher and the deterministic digest writer take their place.
func New(ctx context.Context, cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	a := &Application{cfg: cfg, logger: baseLogger}

	store, err := a.buildStore(ctx)
	if err != nil {
		return nil, err
	}

	led := ledger.New()
	entries, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load ledger: %w", err)
	}
	led.Restore(entries)
	if evicted := led.Evict(cfg.Ledger.Retention()); evicted > 0 {
		baseLogger.Info("evicted expired ledger entries on startup", "count", evicted)
	}

	registry := scanner.NewRegistry()
	registry.Register(parser.NewRSSScanner(nil))
	registry.Register(parser.NewHTMLScanner(nil))
	source := parser.NewStrategySource(registry, cfg.Sites, baseLogger.With("component", "source"))

	loader := bookmarks.NewFileLoader(cfg.Bookmarks.Path, baseLogger.With("component", "bookmarks"))
	enricher := scraper.NewExtractor(nil, baseLogger.With("component", "scraper"))

	topicMatcher, writer, matcherName, writerName, err := a.buildContentAdapters(ctx)
	if err != nil {
		return nil, err
	}

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Source:    source,
		Bookmarks: loader,
		Enricher:  enricher,
		Resolver:  selection.NewResolver(topicMatcher, cfg.Catalog()),
		Engine:    selection.NewEngine(cfg.Selection.TargetSize, cfg.Selection.TopicCap),
		Ledger:    led,
		Store:     store,
		Writer:    writer,
		Publisher: wordpress.NewPublisher(cfg.WordPress),
		Style:     cfg.Style,
		Status:    cfg.WordPress.Status,
		Category:  cfg.WordPress.Categories,
		Retention: cfg.Ledger.Retention(),
		Logger:    baseLogger,
	})
	a.pipeline = pipeline

	a.server = api.New(pipeline, api.Status{
		Sites:      len(cfg.Sites),
		Topics:     len(cfg.Topics),
		TargetSize: cfg.Selection.TargetSize,
		TopicCap:   cfg.Selection.TopicCap,
		Matcher:    matcherName,
		Writer:     writerName,
	}, baseLogger)

	if cfg.Scheduler.Enabled {
		driver := scheduler.NewIntervalScheduler(cfg.Scheduler.Every())
		a.scheduler = usecase.NewScheduler(driver, pipeline, baseLogger)
	}

	return a, nil
}

func (a *Application) buildStore(ctx context.Context) (ports.LedgerStore, error) {
	if dsn := a.cfg.Ledger.DSN; dsn != "" {
		pg, err := storage.Open(ctx, dsn)
		if err != nil {
			return nil, fmt.Errorf("open ledger database: %w", err)
		}
		a.closers = append(a.closers, pg.Close)
		a.logger.Info("ledger store", "backend", "postgres")
		return pg, nil
	}
	a.logger.Info("ledger store", "backend", "file", "path", a.cfg.Ledger.Path)
	return storage.NewFileStore(a.cfg.Ledger.Path), nil
}

func (a *Application) buildContentAdapters(ctx context.Context) (ports.TopicMatcher, ports.Writer, string, string, error) {
	if a.cfg.Gemini.APIKey == "" {
		a.logger.Info("gemini key absent, using keyword matcher and digest writer")
		return matcher.NewKeywordMatcher(), newsletter.NewDigestWriter(), "keyword", "digest", nil
	}

	client, err := gemini.NewClient(ctx, a.cfg.Gemini.APIKey, a.cfg.Gemini.Model)
	if err != nil {
		return nil, nil, "", "", fmt.Errorf("create gemini client: %w", err)
	}
	a.closers = append(a.closers, client.Close)
	a.logger.Info("gemini adapters enabled", "model", a.cfg.Gemini.Model)
	return client, client, "gemini", "gemini", nil
}

// Handler exposes the HTTP API surface.
func (a *Application) Handler() http.Handler {
	return a.server
}

// Start launches the recurring scheduler when enabled.
func (a *Application) Start(ctx context.Context) error {
	if a.scheduler == nil {
		return nil
	}
	a.logger.Info("scheduler enabled", "interval", a.cfg.Scheduler.Every().String())
	return a.scheduler.Start(ctx)
}

// Stop tears down the scheduler and releases held resources.
func (a *Application) Stop(ctx context.Context) error {
	if a.scheduler != nil {
		if err := a.scheduler.Stop(ctx); err != nil {
			return err
		}
	}
	for _, closeFn := range a.closers {
		if err := closeFn(); err != nil {
			a.logger.Warn("close resource", "error", err)
		}
	}
	return nil
}
