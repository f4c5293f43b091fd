// Package scraper extracts article body text from HTML pages to fill
// excerpts that the source scanners could not provide.
package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"newsrobot/internal/domain"
	"newsrobot/internal/ports"
)

const (
	fetchTimeout     = 15 * time.Second
	enoughParagraphs = 3
	maxExcerptRunes  = 600
)

// Candidate selectors for the main article body, most specific first.
var bodySelectors = []string{
	"article p",
	".article-body p",
	".post-content p",
	".entry-content p",
	".content p",
	"main p",
}

// Extractor fetches article pages and pulls the leading paragraphs of
// the main content into the article excerpt. Articles that already
// carry an excerpt (RSS descriptions) are left alone.
type Extractor struct {
	client *http.Client
	logger *slog.Logger
}

var _ ports.ContentEnricher = (*Extractor)(nil)

// NewExtractor wires the HTTP client; a nil client gets a default with
// a fetch timeout.
func NewExtractor(client *http.Client, logger *slog.Logger) *Extractor {
	if client == nil {
		client = &http.Client{Timeout: fetchTimeout}
	}
	return &Extractor{client: client, logger: logger}
}

// Enrich fills the excerpt of every article that lacks one. A page
// that cannot be fetched or parsed leaves its article unchanged; the
// title alone is still a valid, if weaker, matching signal.
func (e *Extractor) Enrich(ctx context.Context, articles []domain.Article) []domain.Article {
	out := make([]domain.Article, len(articles))
	copy(out, articles)

	for i := range out {
		if strings.TrimSpace(out[i].Excerpt) != "" || out[i].URL == "" {
			continue
		}

		excerpt, err := e.extract(ctx, out[i].URL)
		if err != nil {
			e.warn("content extraction failed", "url", out[i].URL, "error", err)
			continue
		}
		if excerpt == "" {
			e.warn("no article body found", "url", out[i].URL)
			continue
		}
		out[i].Excerpt = excerpt
	}

	return out
}

func (e *Extractor) extract(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("User-Agent", "NewsRobot/1.0")

	resp, err := e.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %s", resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}

	return firstParagraphs(doc), nil
}

// firstParagraphs walks the selector list and returns the leading
// paragraphs of the first selector that yields real text.
func firstParagraphs(doc *goquery.Document) string {
	for _, selector := range bodySelectors {
		var paragraphs []string
		doc.Find(selector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
			text := strings.Join(strings.Fields(s.Text()), " ")
			if len(text) > 20 {
				paragraphs = append(paragraphs, text)
			}
			return len(paragraphs) < enoughParagraphs
		})
		if len(paragraphs) > 0 {
			return truncateRunes(strings.Join(paragraphs, " "), maxExcerptRunes)
		}
	}
	return ""
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return strings.TrimSpace(string(runes[:limit]))
}

func (e *Extractor) warn(msg string, args ...interface{}) {
	if e.logger != nil {
		e.logger.Warn(msg, args...)
	}
}
