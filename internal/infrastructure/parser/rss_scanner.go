package parser

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"newsrobot/internal/domain"
	"newsrobot/internal/scanner"
)

// RSSScanner pulls candidate articles from RSS/Atom feeds.
type RSSScanner struct {
	parser *gofeed.Parser
}

// NewRSSScanner wires a gofeed parser; a nil HTTP client keeps the
// parser default.
func NewRSSScanner(client *http.Client) *RSSScanner {
	p := gofeed.NewParser()
	if client != nil {
		p.Client = client
	}
	p.UserAgent = "NewsRobot/1.0"
	return &RSSScanner{parser: p}
}

// Name identifies the strategy inside the registry.
func (s *RSSScanner) Name() string {
	return "rss"
}

// Scan parses every configured feed page and maps its entries to
// candidate articles. A page that fails to parse fails the whole site;
// the caller decides whether to skip the site or abort.
func (s *RSSScanner) Scan(ctx context.Context, req scanner.Request) ([]domain.Article, error) {
	if len(req.Pages) == 0 {
		return nil, fmt.Errorf("no pages provided for site %s", req.SiteName)
	}

	var results []domain.Article
	for _, page := range req.Pages {
		fetchCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
		feed, err := s.parser.ParseURLWithContext(page.URL, fetchCtx)
		cancel()
		if err != nil {
			return nil, fmt.Errorf("parse feed %s: %w", page.URL, err)
		}

		sourceName := page.Name
		if sourceName == "" {
			sourceName = feed.Title
		}

		for _, item := range feed.Items {
			if strings.TrimSpace(item.Link) == "" {
				continue
			}

			var published time.Time
			if item.PublishedParsed != nil {
				published = *item.PublishedParsed
			} else if item.UpdatedParsed != nil {
				published = *item.UpdatedParsed
			}

			results = append(results, domain.Article{
				URL:         item.Link,
				Title:       strings.TrimSpace(item.Title),
				Excerpt:     strings.TrimSpace(item.Description),
				SourceName:  sourceName,
				Category:    req.Category,
				PublishedAt: published,
			})
		}
	}

	return results, nil
}
