package gemini

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"newsrobot/internal/domain"
	"newsrobot/internal/ports"
)

const noTopic = "none"

var _ ports.TopicMatcher = (*Client)(nil)

// MatchTopic asks the model which catalog topic the article belongs to.
// The model only names the topic; the priority always comes from the
// catalog entry, never from model output. A response naming an unknown
// topic counts as no match; a response without the expected label is an
// error, not a silent fallback.
func (c *Client) MatchTopic(ctx context.Context, title, excerpt string, catalog domain.Catalog) (*domain.Match, error) {
	if len(catalog) == 0 {
		return nil, nil
	}

	response, err := c.generate(ctx, matchPrompt(title, excerpt, catalog))
	if err != nil {
		return nil, fmt.Errorf("match topic: %w", err)
	}

	name, err := parseTopicLine(response)
	if err != nil {
		return nil, fmt.Errorf("match topic: %w", err)
	}
	if name == noTopic {
		return nil, nil
	}

	topic, ok := lookupTopic(catalog, name)
	if !ok {
		return nil, nil
	}
	return &domain.Match{Topic: topic.Name, Priority: topic.Priority}, nil
}

func matchPrompt(title, excerpt string, catalog domain.Catalog) string {
	names := make([]string, 0, len(catalog))
	for name := range catalog {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString("You classify a news article into exactly one of these topics, or none.\n\nTOPICS:\n")
	for _, name := range names {
		t := catalog[name]
		fmt.Fprintf(&b, "- %s (keywords: %s)\n", t.Name, strings.Join(t.Keywords, ", "))
	}
	fmt.Fprintf(&b, "\nARTICLE:\nTitle: %s\nExcerpt: %s\n\n", title, excerpt)
	b.WriteString("Answer with a single line, exactly:\nTOPIC: <topic name from the list, or none>\n")
	return b.String()
}

// parseTopicLine extracts the labeled answer line from the response.
func parseTopicLine(response string) (string, error) {
	for _, raw := range strings.Split(response, "\n") {
		line := strings.TrimSpace(raw)
		rest, ok := strings.CutPrefix(line, "TOPIC:")
		if !ok {
			continue
		}
		name := strings.TrimSpace(rest)
		if name == "" {
			continue
		}
		return name, nil
	}
	return "", fmt.Errorf("no TOPIC line in model response")
}

// lookupTopic tolerates case differences in the model's echo of the
// topic name.
func lookupTopic(catalog domain.Catalog, name string) (domain.Topic, bool) {
	if t, ok := catalog[name]; ok {
		return t, true
	}
	for _, t := range catalog {
		if strings.EqualFold(t.Name, name) {
			return t, true
		}
	}
	return domain.Topic{}, false
}
