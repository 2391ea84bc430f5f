package content

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestClient(baseURL string) *Client {
	return &Client{
		BaseURL:    baseURL,
		Token:      "test-token",
		HTTPClient: &http.Client{Timeout: 5 * time.Second},
	}
}

func TestGetBySlug(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/documents/search" {
			t.Fatalf("unexpected path %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("type"); got != "post" {
			t.Fatalf("expected type=post, got %q", got)
		}
		if got := r.URL.Query().Get("uid"); got != "my-post" {
			t.Fatalf("expected uid=my-post, got %q", got)
		}
		if got := r.Header.Get("Authorization"); got != "Token test-token" {
			t.Fatalf("unexpected auth header %q", got)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"results": [{
				"uid": "my-post",
				"last_publication_date": "2026-04-01T10:00:00Z",
				"data": {
					"title": [{"type": "heading1", "text": "My Post"}],
					"content": [{"type": "paragraph", "text": "Hello"}]
				}
			}]
		}`))
	}))
	defer srv.Close()

	doc, err := newTestClient(srv.URL).GetBySlug(context.Background(), "my-post")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Slug != "my-post" {
		t.Fatalf("expected slug my-post, got %q", doc.Slug)
	}
	if doc.Title != "My Post" {
		t.Fatalf("expected title from rich text, got %q", doc.Title)
	}
	if len(doc.Content) != 1 || doc.Content[0].Text != "Hello" {
		t.Fatalf("unexpected content %+v", doc.Content)
	}
	if doc.PublishedAt.IsZero() {
		t.Fatalf("expected publication date to be parsed")
	}
}

func TestGetBySlug_NoResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"results": []}`))
	}))
	defer srv.Close()

	if _, err := newTestClient(srv.URL).GetBySlug(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGetBySlug_EmptySlug(t *testing.T) {
	if _, err := newTestClient("http://unused").GetBySlug(context.Background(), "  "); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for blank slug, got %v", err)
	}
}

func TestGetBySlug_NotFoundStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	if _, err := newTestClient(srv.URL).GetBySlug(context.Background(), "gone"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("orderings"); got != "last_publication_date desc" {
			t.Fatalf("expected newest-first ordering, got %q", got)
		}
		_, _ = w.Write([]byte(`{
			"results": [
				{"uid": "newer", "data": {"title": [{"type": "heading1", "text": "Newer"}], "content": []}},
				{"uid": "older", "data": {"title": [{"type": "heading1", "text": "Older"}], "content": []}}
			]
		}`))
	}))
	defer srv.Close()

	docs, err := newTestClient(srv.URL).List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(docs) != 2 || docs[0].Slug != "newer" || docs[1].Slug != "older" {
		t.Fatalf("unexpected documents %+v", docs)
	}
}

func TestList_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	if _, err := newTestClient(srv.URL).List(context.Background()); err == nil {
		t.Fatalf("expected error for 5xx response")
	}
}

func TestSearch_MissingBaseURL(t *testing.T) {
	c := &Client{HTTPClient: http.DefaultClient}

	if _, err := c.List(context.Background()); err == nil {
		t.Fatalf("expected error for unconfigured base url")
	}
}
