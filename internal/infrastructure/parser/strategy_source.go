package parser

import (
	"context"
	"fmt"
	"log/slog"

	"newsrobot/internal/config"
	"newsrobot/internal/domain"
	"newsrobot/internal/ports"
	"newsrobot/internal/scanner"
)

// StrategySource implements ArticleSource via registered scanner
// strategies. A failing site is logged and skipped so one dead feed
// cannot sink the whole run.
type StrategySource struct {
	registry *scanner.Registry
	sites    []config.SiteConfig
	logger   *slog.Logger
}

var _ ports.ArticleSource = (*StrategySource)(nil)

// NewStrategySource wires the scanner registry with config-defined sites.
func NewStrategySource(reg *scanner.Registry, sites []config.SiteConfig, log *slog.Logger) *StrategySource {
	return &StrategySource{
		registry: reg,
		sites:    sites,
		logger:   log,
	}
}

// FetchAll iterates over configured sites and executes their scanners.
func (s *StrategySource) FetchAll(ctx context.Context) ([]domain.Article, error) {
	if s.registry == nil {
		return nil, fmt.Errorf("scanner registry is not configured")
	}

	var aggregated []domain.Article
	for _, site := range s.sites {
		strategy, err := s.registry.Resolve(site.Scanner)
		if err != nil {
			s.warn("site skipped", "site", site.Name, "error", err)
			continue
		}

		req := scanner.Request{
			SiteName: site.Name,
			Category: site.Category,
			Options:  site.Options,
			Pages:    toScannerPages(site.Pages),
		}

		results, err := strategy.Scan(ctx, req)
		if err != nil {
			s.warn("site fetch failed", "site", site.Name, "error", err)
			continue
		}

		for i := range results {
			if results[i].SourceName == "" {
				results[i].SourceName = site.Name
			}
		}
		s.debug("site produced articles", "site", site.Name, "count", len(results))
		aggregated = append(aggregated, results...)
	}

	s.debug("strategy source done", "total_articles", len(aggregated))
	return aggregated, nil
}

func toScannerPages(cfg []config.PageConfig) []scanner.Page {
	pages := make([]scanner.Page, 0, len(cfg))
	for _, p := range cfg {
		pages = append(pages, scanner.Page{Name: p.Name, URL: p.URL})
	}
	return pages
}

func (s *StrategySource) debug(msg string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}

func (s *StrategySource) warn(msg string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Warn(msg, args...)
	}
}
