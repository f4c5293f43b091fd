// Package matcher provides a deterministic keyword-based topic matcher.
// It serves as the fallback when no model API key is configured and as
// the matcher of choice in tests.
package matcher

import (
	"context"
	"regexp"
	"sort"
	"strings"
	"sync"

	"newsrobot/internal/domain"
	"newsrobot/internal/ports"
)

// KeywordMatcher matches articles against catalog keywords. Compiled
// whole-word patterns for short tokens are cached across calls; the
// matcher sits on the hot path of every candidate article.
type KeywordMatcher struct {
	mu     sync.Mutex
	wordRE map[string]*regexp.Regexp
}

var _ ports.TopicMatcher = (*KeywordMatcher)(nil)

// NewKeywordMatcher returns an empty matcher; patterns compile lazily
// on first use of each short keyword.
func NewKeywordMatcher() *KeywordMatcher {
	return &KeywordMatcher{wordRE: map[string]*regexp.Regexp{}}
}

// MatchTopic checks topics in priority order (ties broken by name so
// the result never depends on map iteration) and returns the first one
// with a keyword hit, or nil when nothing matches.
func (m *KeywordMatcher) MatchTopic(_ context.Context, title, excerpt string, catalog domain.Catalog) (*domain.Match, error) {
	text := strings.ToLower(title + " " + excerpt)
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	topics := make([]domain.Topic, 0, len(catalog))
	for _, t := range catalog {
		topics = append(topics, t)
	}
	sort.Slice(topics, func(i, j int) bool {
		if topics[i].Priority != topics[j].Priority {
			return topics[i].Priority > topics[j].Priority
		}
		return topics[i].Name < topics[j].Name
	})

	for _, topic := range topics {
		if m.containsAny(text, topic.Keywords) {
			return &domain.Match{Topic: topic.Name, Priority: topic.Priority}, nil
		}
	}
	return nil, nil
}

// containsAny distinguishes phrases and short words so that a keyword
// like "ai" does not match inside "said".
func (m *KeywordMatcher) containsAny(text string, keywords []string) bool {
	for _, k := range keywords {
		k = strings.ToLower(strings.TrimSpace(k))
		if k == "" {
			continue
		}

		// Phrases match as substrings.
		if strings.Contains(k, " ") {
			if strings.Contains(text, k) {
				return true
			}
			continue
		}

		// Short tokens need a whole-word match.
		if len(k) <= 3 {
			if m.wordPattern(k).MatchString(text) {
				return true
			}
			continue
		}

		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}

func (m *KeywordMatcher) wordPattern(token string) *regexp.Regexp {
	m.mu.Lock()
	defer m.mu.Unlock()
	if re, ok := m.wordRE[token]; ok {
		return re
	}
	re := regexp.MustCompile(`\b` + regexp.QuoteMeta(token) + `\b`)
	m.wordRE[token] = re
	return re
}
