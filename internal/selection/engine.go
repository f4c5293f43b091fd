package selection

import (
	"fmt"
	"sort"

	"newsrobot/internal/domain"
)

// Selection defaults. TargetSize bounds the newsletter; TopicCap keeps
// a single topic from crowding out the rest.
const (
	DefaultTargetSize = 20
	DefaultTopicCap   = 10
)

// Engine picks the final ordered article list from the candidate pool.
// Given identical input it always produces identical output.
type Engine struct {
	targetSize int
	topicCap   int
}

// NewEngine builds an engine with the given target size; non-positive
// values of topicCap fall back to the default cap.
func NewEngine(targetSize, topicCap int) *Engine {
	if topicCap <= 0 {
		topicCap = DefaultTopicCap
	}
	return &Engine{targetSize: targetSize, topicCap: topicCap}
}

// Select returns at most targetSize articles: every bookmark first
// (truncated by recency/URL only when bookmarks alone exceed the
// target), then the highest-priority scored articles subject to the
// per-topic cap. Fewer than targetSize results is a valid outcome, not
// an error.
func (e *Engine) Select(pool []domain.Article) ([]domain.Article, error) {
	if e.targetSize <= 0 {
		return nil, fmt.Errorf("%w: target size %d", domain.ErrInvariantViolation, e.targetSize)
	}

	var bookmarks, others []domain.Article
	for _, a := range pool {
		if a.IsBookmark {
			if a.Priority != domain.PriorityBookmark {
				return nil, fmt.Errorf("%w: bookmark %s has priority %d", domain.ErrInvariantViolation, a.URL, a.Priority)
			}
			bookmarks = append(bookmarks, a)
			continue
		}
		if a.Priority < domain.PriorityFloor || a.Priority > domain.PriorityMax {
			return nil, fmt.Errorf("%w: article %s has unresolved priority %d", domain.ErrInvariantViolation, a.URL, a.Priority)
		}
		others = append(others, a)
	}

	// Newest first; a zero PublishedAt sorts as oldest, so it loses the
	// descending tie-break naturally. URL order makes ties total.
	sort.SliceStable(bookmarks, func(i, j int) bool {
		return lessByRecencyThenURL(bookmarks[i], bookmarks[j])
	})

	if len(bookmarks) >= e.targetSize {
		return bookmarks[:e.targetSize], nil
	}

	sort.SliceStable(others, func(i, j int) bool {
		a, b := others[i], others[j]
		if a.Priority != b.Priority {
			return a.Priority > b.Priority
		}
		return lessByRecencyThenURL(a, b)
	})

	remaining := e.targetSize - len(bookmarks)
	perTopic := map[string]int{}
	accepted := make([]domain.Article, 0, remaining)
	for _, a := range others {
		if len(accepted) == remaining {
			break
		}
		// Unmatched articles pool into one bucket under the same cap.
		if perTopic[a.MatchedTopic] == e.topicCap {
			continue
		}
		perTopic[a.MatchedTopic]++
		accepted = append(accepted, a)
	}

	return append(bookmarks, accepted...), nil
}

func lessByRecencyThenURL(a, b domain.Article) bool {
	if !a.PublishedAt.Equal(b.PublishedAt) {
		return a.PublishedAt.After(b.PublishedAt)
	}
	return a.URL < b.URL
}
