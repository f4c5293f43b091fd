package wordpress

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"newsrobot/internal/config"
	"newsrobot/internal/domain"
)

func newTestPublisher(serverURL string) *Publisher {
	return NewPublisher(config.WordPressConfig{
		SiteURL:     serverURL,
		APIEndpoint: "/wp-json/wp/v2",
		Username:    "editor",
		AppPassword: "abcd efgh ijkl mnop",
	})
}

func TestPublishCreatesPostWithExistingCategory(t *testing.T) {
	t.Parallel()

	var gotAuth string
	var gotPayload postPayload

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/wp-json/wp/v2/categories":
			if got := r.URL.Query().Get("search"); got != "WeeklySummary" {
				t.Errorf("search query = %q, want WeeklySummary", got)
			}
			json.NewEncoder(w).Encode([]categoryResponse{{ID: 7, Name: "WeeklySummary"}})
		case r.Method == http.MethodPost && r.URL.Path == "/wp-json/wp/v2/posts":
			if err := json.NewDecoder(r.Body).Decode(&gotPayload); err != nil {
				t.Errorf("decode post payload: %v", err)
			}
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(postResponse{ID: 42, Link: "https://example.com/?p=42"})
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	p := newTestPublisher(srv.URL)
	res, err := p.Publish(context.Background(), domain.Post{
		Title:      "Weekly Update: August 26th, 2026",
		Content:    "<p>body</p>",
		Status:     "private",
		Categories: []string{"WeeklySummary"},
		Excerpt:    "summary",
	})
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}

	wantAuth := "Basic " + base64.StdEncoding.EncodeToString([]byte("editor:abcdefghijklmnop"))
	if gotAuth != wantAuth {
		t.Errorf("Authorization = %q, want %q", gotAuth, wantAuth)
	}
	if gotPayload.Status != "private" {
		t.Errorf("payload status = %q, want private", gotPayload.Status)
	}
	if len(gotPayload.Categories) != 1 || gotPayload.Categories[0] != 7 {
		t.Errorf("payload categories = %v, want [7]", gotPayload.Categories)
	}
	if res.PostID != 42 {
		t.Errorf("PostID = %d, want 42", res.PostID)
	}
	if res.PostURL != "https://example.com/?p=42" {
		t.Errorf("PostURL = %q", res.PostURL)
	}
	wantEdit := srv.URL + "/wp-admin/post.php?post=42&action=edit"
	if res.EditURL != wantEdit {
		t.Errorf("EditURL = %q, want %q", res.EditURL, wantEdit)
	}
}

func TestPublishCreatesMissingCategory(t *testing.T) {
	t.Parallel()

	var createdCategory bool

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/wp-json/wp/v2/categories":
			json.NewEncoder(w).Encode([]categoryResponse{})
		case r.Method == http.MethodPost && r.URL.Path == "/wp-json/wp/v2/categories":
			var body map[string]string
			json.NewDecoder(r.Body).Decode(&body)
			if body["name"] != "WeeklySummary" {
				t.Errorf("create category name = %q", body["name"])
			}
			createdCategory = true
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(categoryResponse{ID: 11, Name: "WeeklySummary"})
		case r.Method == http.MethodPost && r.URL.Path == "/wp-json/wp/v2/posts":
			var payload postPayload
			json.NewDecoder(r.Body).Decode(&payload)
			if len(payload.Categories) != 1 || payload.Categories[0] != 11 {
				t.Errorf("payload categories = %v, want [11]", payload.Categories)
			}
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(postResponse{ID: 5, Link: "https://example.com/?p=5"})
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	p := newTestPublisher(srv.URL)
	_, err := p.Publish(context.Background(), domain.Post{
		Title:      "t",
		Content:    "c",
		Status:     "private",
		Categories: []string{"WeeklySummary"},
	})
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if !createdCategory {
		t.Error("expected category to be created")
	}
}

func TestPublishSurfacesServerError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"code":"rest_cannot_create"}`)
	}))
	defer srv.Close()

	p := newTestPublisher(srv.URL)
	_, err := p.Publish(context.Background(), domain.Post{
		Title:      "t",
		Content:    "c",
		Status:     "private",
		Categories: []string{"WeeklySummary"},
	})
	if err == nil {
		t.Fatal("expected error on 401 response")
	}
}

func TestPublishRequiresCredentials(t *testing.T) {
	t.Parallel()

	p := NewPublisher(config.WordPressConfig{SiteURL: "https://example.com"})
	_, err := p.Publish(context.Background(), domain.Post{Title: "t"})
	if err == nil {
		t.Fatal("expected error for missing credentials")
	}
}
