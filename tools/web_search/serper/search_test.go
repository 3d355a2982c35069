package serper

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mohammad-safakhou/cardwise/tools/web_search/models"
)

func TestDiscover(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search" {
			t.Errorf("path: %s", r.URL.Path)
		}
		if r.Header.Get("X-API-KEY") != "key" {
			t.Errorf("missing api key header")
		}
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["q"] != "best cashback credit cards" {
			t.Errorf("query: %v", body["q"])
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"organic": []map[string]any{
				{"title": "Best cards", "link": "https://example.com", "snippet": "Citi Double Cash 2%"},
				{"title": "Runner up", "link": "https://example.org", "snippet": "Chase Freedom"},
			},
		})
	}))
	defer srv.Close()

	s := Search{ApiKey: "key", BaseURL: srv.URL}
	results, err := s.Discover(context.Background(), "best cashback credit cards", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Title != "Best cards" || results[0].Snippet != "Citi Double Cash 2%" {
		t.Errorf("unexpected first result: %+v", results[0])
	}
}

func TestDiscover_RateLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	s := Search{ApiKey: "key", BaseURL: srv.URL}
	_, err := s.Discover(context.Background(), "q", 5)
	var se *models.StatusError
	if !errors.As(err, &se) || !se.RateLimited() {
		t.Fatalf("expected rate-limited StatusError, got %v", err)
	}
}

func TestDiscover_CapsResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		items := make([]map[string]any, 10)
		for i := range items {
			items[i] = map[string]any{"title": "t", "link": "u", "snippet": "s"}
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"organic": items})
	}))
	defer srv.Close()

	s := Search{ApiKey: "key", BaseURL: srv.URL}
	results, err := s.Discover(context.Background(), "q", 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 3 {
		t.Errorf("expected results capped at 3, got %d", len(results))
	}
}
