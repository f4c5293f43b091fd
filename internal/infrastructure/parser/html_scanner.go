package parser

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"newsrobot/internal/domain"
	"newsrobot/internal/scanner"
)

// defaultLinkSelector finds headline anchors on common listing layouts;
// sites can override it via the "selector" option.
const defaultLinkSelector = "article h2 a, article h3 a"

// HTMLScanner extracts article links from HTML listing pages.
type HTMLScanner struct {
	client *http.Client
}

// NewHTMLScanner wires an HTTP client with a sensible default timeout.
func NewHTMLScanner(client *http.Client) *HTMLScanner {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	return &HTMLScanner{client: client}
}

// Name identifies the strategy inside the registry.
func (s *HTMLScanner) Name() string {
	return "html"
}

// Scan fetches each listing page and collects the anchors matched by
// the configured selector. Listing pages rarely expose publish dates,
// so PublishedAt stays zero and the article sorts as oldest.
func (s *HTMLScanner) Scan(ctx context.Context, req scanner.Request) ([]domain.Article, error) {
	if len(req.Pages) == 0 {
		return nil, fmt.Errorf("no pages provided for site %s", req.SiteName)
	}

	selector := req.Options["selector"]
	if selector == "" {
		selector = defaultLinkSelector
	}

	var results []domain.Article
	seen := map[string]struct{}{}

	for _, page := range req.Pages {
		doc, base, err := s.fetchDocument(ctx, page.URL)
		if err != nil {
			return nil, fmt.Errorf("page %s: %w", page.Name, err)
		}

		doc.Find(selector).Each(func(_ int, a *goquery.Selection) {
			href, ok := a.Attr("href")
			if !ok {
				return
			}
			link := resolveLink(base, href)
			if link == "" {
				return
			}
			key := domain.NormalizeURL(link)
			if _, dup := seen[key]; dup {
				return
			}
			seen[key] = struct{}{}

			results = append(results, domain.Article{
				URL:        link,
				Title:      strings.TrimSpace(a.Text()),
				SourceName: page.Name,
				Category:   req.Category,
			})
		})
	}

	return results, nil
}

func (s *HTMLScanner) fetchDocument(ctx context.Context, pageURL string) (*goquery.Document, *url.URL, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "NewsRobot/1.0")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("request document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, nil, fmt.Errorf("listing returned %s", resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("parse document: %w", err)
	}

	return doc, resp.Request.URL, nil
}

func resolveLink(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	resolved := base.ResolveReference(ref)
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return ""
	}
	return resolved.String()
}
