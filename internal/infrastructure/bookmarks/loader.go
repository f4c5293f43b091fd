// Package bookmarks loads the weekly user-curated override items.
package bookmarks

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"newsrobot/internal/domain"
	"newsrobot/internal/ports"
)

const placeholderTitle = "Saved link"

// FileLoader reads bookmarks from a YAML file. The file is re-read on
// every run: bookmarks change weekly and must never be cached.
type FileLoader struct {
	path   string
	logger *slog.Logger
}

var _ ports.BookmarkLoader = (*FileLoader)(nil)

// NewFileLoader points the loader at the bookmark file.
func NewFileLoader(path string, logger *slog.Logger) *FileLoader {
	return &FileLoader{path: path, logger: logger}
}

// Load maps every valid bookmark entry to an Article with maximum
// priority. A missing file yields an empty list, not an error.
func (l *FileLoader) Load(_ context.Context) ([]domain.Article, error) {
	raw, err := os.ReadFile(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			if l.logger != nil {
				l.logger.Warn("bookmark file not found", "path", l.path)
			}
			return nil, nil
		}
		return nil, fmt.Errorf("read bookmarks %s: %w", l.path, err)
	}

	var file struct {
		Bookmarks []domain.Bookmark `yaml:"bookmarks"`
	}
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse bookmarks %s: %w", l.path, err)
	}

	articles := make([]domain.Article, 0, len(file.Bookmarks))
	for _, b := range file.Bookmarks {
		if strings.TrimSpace(b.URL) == "" {
			if l.logger != nil {
				l.logger.Warn("bookmark missing url, skipped", "note", b.Note)
			}
			continue
		}

		title := strings.TrimSpace(b.Note)
		if title == "" {
			title = placeholderTitle
		}

		articles = append(articles, domain.Article{
			URL:         b.URL,
			Title:       title,
			PublishedAt: parseSubmittedDate(b.SubmittedDate),
			IsBookmark:  true,
			Priority:    domain.PriorityBookmark,
		})
	}

	return articles, nil
}

// parseSubmittedDate accepts the ISO date the bookmark file uses; an
// unparsable or empty value sorts the bookmark as oldest.
func parseSubmittedDate(value string) time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return time.Time{}
}
