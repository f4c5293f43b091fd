// Package selection holds the ranking core: the priority resolver and
// the selection engine. Both are deterministic and side-effect free.
package selection

import (
	"context"
	"fmt"

	"newsrobot/internal/domain"
	"newsrobot/internal/ports"
)

// Resolver assigns a priority and matched topic to every non-bookmark
// article before selection. Bookmarks pass through untouched; the
// loader already set their priority.
type Resolver struct {
	matcher ports.TopicMatcher
	catalog domain.Catalog
}

// NewResolver wires the injected topic matcher with the topic catalog.
func NewResolver(matcher ports.TopicMatcher, catalog domain.Catalog) *Resolver {
	return &Resolver{matcher: matcher, catalog: catalog}
}

// Resolve scores each article against the catalog. Unmatched articles
// are kept at the priority floor rather than dropped; they still
// compete for remaining slots. Matcher errors propagate to the caller.
func (r *Resolver) Resolve(ctx context.Context, articles []domain.Article) ([]domain.Article, error) {
	out := make([]domain.Article, 0, len(articles))
	for _, a := range articles {
		if a.IsBookmark {
			out = append(out, a)
			continue
		}

		match, err := r.matcher.MatchTopic(ctx, a.Title, a.Excerpt, r.catalog)
		if err != nil {
			return nil, fmt.Errorf("match topic for %s: %w", a.URL, err)
		}

		if match == nil {
			a.Priority = domain.PriorityFloor
			a.MatchedTopic = ""
		} else {
			a.Priority = clampPriority(match.Priority)
			a.MatchedTopic = match.Topic
		}
		out = append(out, a)
	}
	return out, nil
}

func clampPriority(p int) int {
	if p < domain.PriorityFloor {
		return domain.PriorityFloor
	}
	if p > domain.PriorityMax {
		return domain.PriorityMax
	}
	return p
}
