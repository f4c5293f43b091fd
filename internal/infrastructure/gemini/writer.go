package gemini

import (
	"context"
	"fmt"
	"strings"
	"time"

	"newsrobot/internal/domain"
	"newsrobot/internal/infrastructure/newsletter"
	"newsrobot/internal/ports"
)

var _ ports.Writer = (*Client)(nil)

// Write asks the model for the newsletter body and excerpt. The title
// is built locally from the run date so it never depends on model
// output. The response must carry EXCERPT and BODY labels; anything
// else is an error.
func (c *Client) Write(ctx context.Context, articles []domain.Article, style domain.Style) (domain.Document, error) {
	if len(articles) == 0 {
		return domain.Document{}, fmt.Errorf("no articles to write")
	}

	response, err := c.generate(ctx, writePrompt(articles, style))
	if err != nil {
		return domain.Document{}, fmt.Errorf("write newsletter: %w", err)
	}

	excerpt, body, err := parseWriterResponse(response)
	if err != nil {
		return domain.Document{}, fmt.Errorf("write newsletter: %w", err)
	}

	return domain.Document{
		Title:   newsletter.Title(time.Now()),
		Excerpt: excerpt,
		Body:    body,
	}, nil
}

func writePrompt(articles []domain.Article, style domain.Style) string {
	var b strings.Builder
	b.WriteString("You write a weekly newsletter from the selected articles below.\n\n")

	if style.Tone != "" {
		fmt.Fprintf(&b, "Tone: %s\n", style.Tone)
	}
	if style.Audience != "" {
		fmt.Fprintf(&b, "Audience: %s\n", style.Audience)
	}
	for _, g := range style.Guidelines {
		fmt.Fprintf(&b, "Guideline: %s\n", g)
	}

	b.WriteString("\nARTICLES:\n")
	for i, a := range articles {
		fmt.Fprintf(&b, "%d. %s\n   URL: %s\n", i+1, a.Title, a.URL)
		if a.Excerpt != "" {
			fmt.Fprintf(&b, "   Excerpt: %s\n", a.Excerpt)
		}
		if a.SourceName != "" {
			fmt.Fprintf(&b, "   Source: %s\n", a.SourceName)
		}
	}

	b.WriteString(`
Write the newsletter as clean semantic HTML:
- start with an <h2> header that says "From NewsRobot:"
- an introduction paragraph (150-200 words, no personal pronouns)
- an <ol> with one <li> per article: <h3> title, ~150 word summary
  paragraph expanding the excerpt, and the source link as <a href="...">
- a short conclusion paragraph (no personal pronouns)
- no <h1>, no wrapper divs

Respond with exactly two labeled sections:
EXCERPT: <one paragraph of 150-200 words summarizing the issue>
BODY:
<the HTML>
`)
	return b.String()
}

// parseWriterResponse splits the labeled sections. EXCERPT is a single
// paragraph; everything after the BODY label belongs to the body.
func parseWriterResponse(response string) (excerpt, body string, err error) {
	lines := strings.Split(response, "\n")
	section := ""
	var excerptLines, bodyLines []string

	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		if rest, ok := strings.CutPrefix(line, "EXCERPT:"); ok {
			section = "excerpt"
			if rest = strings.TrimSpace(rest); rest != "" {
				excerptLines = append(excerptLines, rest)
			}
			continue
		}
		if rest, ok := strings.CutPrefix(line, "BODY:"); ok {
			section = "body"
			if rest = strings.TrimSpace(rest); rest != "" {
				bodyLines = append(bodyLines, rest)
			}
			continue
		}
		switch section {
		case "excerpt":
			if line != "" {
				excerptLines = append(excerptLines, line)
			}
		case "body":
			bodyLines = append(bodyLines, raw)
		}
	}

	excerpt = strings.TrimSpace(strings.Join(excerptLines, " "))
	body = strings.TrimSpace(strings.Join(bodyLines, "\n"))
	if excerpt == "" || body == "" {
		return "", "", fmt.Errorf("model response missing EXCERPT or BODY section")
	}
	return excerpt, body, nil
}
