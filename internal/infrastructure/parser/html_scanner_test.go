package parser

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"newsrobot/internal/scanner"
)

func TestHTMLScannerScan(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`
		<html><body>
		  <article><h2><a href="/posts/first">First headline</a></h2></article>
		  <article><h3><a href="https://other.example/second">Second headline</a></h3></article>
		  <article><h2><a href="/posts/first">Duplicate of first</a></h2></article>
		  <article><h2><a href="#fragment">Skip me</a></h2></article>
		  <aside><a href="/not-an-article">Sidebar link</a></aside>
		</body></html>`))
	}))
	defer server.Close()

	sc := NewHTMLScanner(server.Client())
	req := scanner.Request{
		SiteName: "example-blog",
		Category: "technology",
		Pages:    []scanner.Page{{Name: "Example Blog", URL: server.URL + "/news"}},
	}

	articles, err := sc.Scan(context.Background(), req)
	if err != nil {
		t.Fatalf("Scan error: %v", err)
	}

	if len(articles) != 2 {
		t.Fatalf("expected 2 articles, got %d", len(articles))
	}
	if articles[0].URL != server.URL+"/posts/first" {
		t.Fatalf("relative link not resolved: %s", articles[0].URL)
	}
	if articles[0].Title != "First headline" {
		t.Fatalf("unexpected title: %s", articles[0].Title)
	}
	if articles[1].URL != "https://other.example/second" {
		t.Fatalf("absolute link mangled: %s", articles[1].URL)
	}
	if !articles[0].PublishedAt.IsZero() {
		t.Fatal("listing pages must not invent publish dates")
	}
}

func TestHTMLScannerCustomSelector(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`
		<html><body>
		  <div class="story"><a href="/story/1">Story one</a></div>
		  <article><h2><a href="/ignored">Default markup</a></h2></article>
		</body></html>`))
	}))
	defer server.Close()

	sc := NewHTMLScanner(server.Client())
	req := scanner.Request{
		SiteName: "custom",
		Pages:    []scanner.Page{{Name: "Custom", URL: server.URL}},
		Options:  map[string]string{"selector": ".story a"},
	}

	articles, err := sc.Scan(context.Background(), req)
	if err != nil {
		t.Fatalf("Scan error: %v", err)
	}
	if len(articles) != 1 || articles[0].Title != "Story one" {
		t.Fatalf("selector option not honored: %+v", articles)
	}
}

func TestHTMLScannerHTTPError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	}))
	defer server.Close()

	sc := NewHTMLScanner(server.Client())
	req := scanner.Request{
		SiteName: "dead",
		Pages:    []scanner.Page{{Name: "Dead", URL: server.URL}},
	}

	if _, err := sc.Scan(context.Background(), req); err == nil {
		t.Fatal("expected error for non-200 response")
	}
}
