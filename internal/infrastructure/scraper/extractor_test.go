package scraper

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"newsrobot/internal/domain"
)

const articlePage = `<!DOCTYPE html>
<html><body>
<nav><p>Home</p></nav>
<article>
<h1>Quantum networking milestone</h1>
<p>Researchers demonstrated entanglement distribution across a forty kilometre fibre link.</p>
<p>The experiment held coherence long enough for repeated measurements.</p>
<p>Commercial deployments remain years away, the team cautioned.</p>
<p>Funding for the follow-up study has already been approved.</p>
</article>
</body></html>`

func TestEnrichFillsEmptyExcerptFromArticleBody(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, articlePage)
	}))
	defer srv.Close()

	e := NewExtractor(srv.Client(), nil)
	out := e.Enrich(context.Background(), []domain.Article{
		{URL: srv.URL + "/story", Title: "Quantum networking milestone"},
	})

	if len(out) != 1 {
		t.Fatalf("got %d articles, want 1", len(out))
	}
	excerpt := out[0].Excerpt
	if !strings.Contains(excerpt, "entanglement distribution") {
		t.Errorf("excerpt missing first paragraph: %q", excerpt)
	}
	if !strings.Contains(excerpt, "repeated measurements") {
		t.Errorf("excerpt missing second paragraph: %q", excerpt)
	}
	if strings.Contains(excerpt, "follow-up study") {
		t.Errorf("excerpt took more than %d paragraphs: %q", enoughParagraphs, excerpt)
	}
}

func TestEnrichKeepsExistingExcerpt(t *testing.T) {
	t.Parallel()

	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		fmt.Fprint(w, articlePage)
	}))
	defer srv.Close()

	e := NewExtractor(srv.Client(), nil)
	out := e.Enrich(context.Background(), []domain.Article{
		{URL: srv.URL + "/story", Excerpt: "Already summarized by the feed."},
	})

	if hits != 0 {
		t.Errorf("page fetched %d times for an article with an excerpt", hits)
	}
	if out[0].Excerpt != "Already summarized by the feed." {
		t.Errorf("excerpt changed: %q", out[0].Excerpt)
	}
}

func TestEnrichToleratesFetchFailure(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	}))
	defer srv.Close()

	e := NewExtractor(srv.Client(), nil)
	out := e.Enrich(context.Background(), []domain.Article{
		{URL: srv.URL + "/dead", Title: "Dead link"},
		{URL: srv.URL + "/also-dead", Title: "Another dead link"},
	})

	if len(out) != 2 {
		t.Fatalf("got %d articles, want 2", len(out))
	}
	for _, a := range out {
		if a.Excerpt != "" {
			t.Errorf("excerpt set despite fetch failure: %q", a.Excerpt)
		}
	}
}

func TestEnrichTruncatesLongBodies(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("word ", 400)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, "<article><p>%s</p></article>", long)
	}))
	defer srv.Close()

	e := NewExtractor(srv.Client(), nil)
	out := e.Enrich(context.Background(), []domain.Article{{URL: srv.URL}})

	if got := len([]rune(out[0].Excerpt)); got > maxExcerptRunes {
		t.Errorf("excerpt length = %d runes, want <= %d", got, maxExcerptRunes)
	}
	if out[0].Excerpt == "" {
		t.Error("excerpt empty")
	}
}

func TestEnrichLeavesInputUnmutated(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, articlePage)
	}))
	defer srv.Close()

	in := []domain.Article{{URL: srv.URL + "/story"}}
	e := NewExtractor(srv.Client(), nil)
	out := e.Enrich(context.Background(), in)

	if in[0].Excerpt != "" {
		t.Errorf("input slice mutated: %q", in[0].Excerpt)
	}
	if out[0].Excerpt == "" {
		t.Error("output excerpt empty")
	}
}
