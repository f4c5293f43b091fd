package newsletter

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"newsrobot/internal/domain"
	"newsrobot/internal/ports"
)

// DigestWriter renders the selection as plain semantic HTML. It is the
// fallback writer when no model API key is configured; its output is
// deterministic for a given selection and date.
type DigestWriter struct {
	now func() time.Time
}

var _ ports.Writer = (*DigestWriter)(nil)

// NewDigestWriter returns a writer using the wall clock for titles.
func NewDigestWriter() *DigestWriter {
	return &DigestWriter{now: time.Now}
}

// Write formats the articles as a numbered digest. The style's tone and
// guidelines are prose instructions for a model, so the digest writer
// only honors what it can: nothing beyond clean structure.
func (w *DigestWriter) Write(_ context.Context, articles []domain.Article, _ domain.Style) (domain.Document, error) {
	if len(articles) == 0 {
		return domain.Document{}, fmt.Errorf("no articles to write")
	}

	date := w.now()

	var b strings.Builder
	b.WriteString("<h2>From NewsRobot:</h2>\n")
	fmt.Fprintf(&b, "<p>This week's reading list covers %d hand-picked and auto-selected articles.</p>\n", len(articles))
	b.WriteString("<ol>\n")
	for _, a := range articles {
		title := a.Title
		if title == "" {
			title = a.URL
		}
		b.WriteString("<li>\n")
		fmt.Fprintf(&b, "<h3>%s</h3>\n", html.EscapeString(title))
		if a.Excerpt != "" {
			fmt.Fprintf(&b, "<p>%s</p>\n", html.EscapeString(a.Excerpt))
		}
		fmt.Fprintf(&b, "<p><a href=\"%s\">%s</a></p>\n", html.EscapeString(a.URL), html.EscapeString(sourceLabel(a)))
		b.WriteString("</li>\n")
	}
	b.WriteString("</ol>\n")
	b.WriteString("<p>That's the roundup for this week.</p>\n")

	return domain.Document{
		Title:   Title(date),
		Excerpt: fmt.Sprintf("The weekly link roundup for %s: %d articles.", FormatDate(date), len(articles)),
		Body:    b.String(),
	}, nil
}

func sourceLabel(a domain.Article) string {
	if a.SourceName != "" {
		return "Read at " + a.SourceName
	}
	return "Read the article"
}
