// Package wordpress publishes finished newsletters to a WordPress site
// through the REST v2 API using application-password authentication.
package wordpress

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"newsrobot/internal/config"
	"newsrobot/internal/domain"
	"newsrobot/internal/ports"
)

// Publisher creates posts and resolves category names to IDs.
type Publisher struct {
	siteURL     string
	apiEndpoint string
	username    string
	appPassword string
	httpClient  *http.Client
}

var _ ports.Publisher = (*Publisher)(nil)

// NewPublisher builds a client from configuration. Spaces in the
// application password are stripped; WordPress displays them grouped
// but the API wants them raw.
func NewPublisher(cfg config.WordPressConfig) *Publisher {
	return &Publisher{
		siteURL:     strings.TrimSuffix(cfg.SiteURL, "/"),
		apiEndpoint: cfg.APIEndpoint,
		username:    cfg.Username,
		appPassword: strings.ReplaceAll(cfg.AppPassword, " ", ""),
		httpClient:  &http.Client{Timeout: 30 * time.Second},
	}
}

type postPayload struct {
	Title      string `json:"title"`
	Content    string `json:"content"`
	Status     string `json:"status"`
	Categories []int  `json:"categories,omitempty"`
	Excerpt    string `json:"excerpt,omitempty"`
}

type postResponse struct {
	ID   int    `json:"id"`
	Link string `json:"link"`
}

type categoryResponse struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Publish creates the post and returns its identifiers.
func (p *Publisher) Publish(ctx context.Context, post domain.Post) (domain.PublishResult, error) {
	if p.siteURL == "" || p.username == "" || p.appPassword == "" {
		return domain.PublishResult{}, fmt.Errorf("wordpress publisher misconfigured")
	}

	categoryIDs, err := p.resolveCategories(ctx, post.Categories)
	if err != nil {
		return domain.PublishResult{}, fmt.Errorf("resolve categories: %w", err)
	}

	payload := postPayload{
		Title:      post.Title,
		Content:    post.Content,
		Status:     post.Status,
		Categories: categoryIDs,
		Excerpt:    post.Excerpt,
	}

	var created postResponse
	if err := p.do(ctx, http.MethodPost, "/posts", nil, payload, &created); err != nil {
		return domain.PublishResult{}, fmt.Errorf("create post: %w", err)
	}

	return domain.PublishResult{
		PostID:  created.ID,
		PostURL: created.Link,
		EditURL: fmt.Sprintf("%s/wp-admin/post.php?post=%d&action=edit", p.siteURL, created.ID),
	}, nil
}

// resolveCategories maps names to IDs, creating missing categories.
func (p *Publisher) resolveCategories(ctx context.Context, names []string) ([]int, error) {
	ids := make([]int, 0, len(names))
	for _, name := range names {
		id, err := p.resolveCategory(ctx, name)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (p *Publisher) resolveCategory(ctx context.Context, name string) (int, error) {
	// Category lookups are cheap; keep them on a tighter deadline than
	// the post itself.
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	query := url.Values{}
	query.Set("search", name)
	query.Set("per_page", "1")

	var found []categoryResponse
	if err := p.do(ctx, http.MethodGet, "/categories", query, nil, &found); err != nil {
		return 0, fmt.Errorf("search category %s: %w", name, err)
	}
	if len(found) > 0 && strings.EqualFold(found[0].Name, name) {
		return found[0].ID, nil
	}

	var created categoryResponse
	if err := p.do(ctx, http.MethodPost, "/categories", nil, map[string]string{"name": name}, &created); err != nil {
		return 0, fmt.Errorf("create category %s: %w", name, err)
	}
	return created.ID, nil
}

func (p *Publisher) do(ctx context.Context, method, path string, query url.Values, payload, v any) error {
	endpoint := p.siteURL + p.apiEndpoint + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal payload: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.SetBasicAuth(p.username, p.appPassword)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "NewsRobot/1.0")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("wordpress error %s: %s", resp.Status, strings.TrimSpace(string(detail)))
	}

	if v == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
