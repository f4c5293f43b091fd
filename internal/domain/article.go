package domain

import (
	"errors"
	"strings"
	"time"
)

// Priority bounds for selected articles. Bookmarks always carry
// PriorityBookmark; topic-matched articles stay within [PriorityFloor,
// PriorityMax]. A zero Priority means the resolver has not run yet.
const (
	PriorityFloor    = 7
	PriorityMax      = 10
	PriorityBookmark = 11
)

// ErrInvariantViolation marks an upstream contract breach reaching the
// selection engine (unresolved priority, non-positive target size).
// It is a programming error and must not be retried.
var ErrInvariantViolation = errors.New("invariant violation")

// Article is a candidate or selected newsletter item.
type Article struct {
	URL          string
	Title        string
	Excerpt      string
	SourceName   string
	Category     string
	PublishedAt  time.Time // zero value means unknown; sorts as oldest
	IsBookmark   bool
	Priority     int
	MatchedTopic string // empty for bookmarks and unmatched articles
}

// NormalizeURL canonicalizes a URL for ledger membership checks.
func NormalizeURL(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// Topic is a named interest category with a priority weight.
type Topic struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
	Priority int      `yaml:"priority"`
}

// Catalog maps topic names to their definitions. Loaded once per run
// and treated as immutable configuration.
type Catalog map[string]Topic

// Match captures a topic matcher verdict for one article.
type Match struct {
	Topic    string
	Priority int
}

// Bookmark is a user-curated override item supplied by the bookmark file.
type Bookmark struct {
	URL           string `yaml:"url"`
	Note          string `yaml:"note"`
	SubmittedDate string `yaml:"submitted_date"`
}

// Style carries writing-style guidance. Opaque to the core; only the
// writer interprets it.
type Style struct {
	Tone       string   `yaml:"tone"`
	Audience   string   `yaml:"audience"`
	Guidelines []string `yaml:"guidelines"`
}

// Document is the formatted newsletter produced by a writer.
type Document struct {
	Title   string
	Excerpt string
	Body    string
}

// Post is the payload handed to the publisher.
type Post struct {
	Title      string
	Content    string
	Status     string
	Categories []string
	Excerpt    string
}

// PublishResult identifies the created post.
type PublishResult struct {
	PostID  int
	PostURL string
	EditURL string
}
