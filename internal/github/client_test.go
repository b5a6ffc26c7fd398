package github

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"devscout_backend/platform/logger"
)

type testConfig struct {
	apiURL string
}

func (c testConfig) GetGitHubAPIURL() string      { return c.apiURL }
func (c testConfig) GetGitHubToken() string       { return "test-token" }
func (c testConfig) GetGitHubSearchQuery() string { return "n8n in:name,description,topics" }
func (c testConfig) GetGitHubPageSize() int       { return 30 }

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return New(testConfig{apiURL: server.URL}, logger.New("development")), server
}

func TestSearchDecodesPage(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search/repositories" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("unexpected auth header %q", got)
		}
		if got := r.URL.Query().Get("page"); got != "2" {
			t.Errorf("expected page=2, got %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"total_count": 2,
			"items": [
				{
					"name": "n8n-nodes-weather",
					"full_name": "alice/n8n-nodes-weather",
					"html_url": "https://github.com/alice/n8n-nodes-weather",
					"description": "Weather node for n8n",
					"stargazers_count": 12,
					"forks_count": 3,
					"language": "TypeScript",
					"topics": ["n8n", "weather"],
					"pushed_at": "2026-08-01T10:00:00Z",
					"owner": {"login": "alice"}
				},
				{
					"name": "n8n-sync",
					"full_name": "bob/n8n-sync",
					"html_url": "https://github.com/bob/n8n-sync",
					"owner": {"login": "bob"}
				}
			]
		}`))
	})

	repos, err := client.Search(context.Background(), 2)
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	if len(repos) != 2 {
		t.Fatalf("expected 2 repos, got %d", len(repos))
	}
	if repos[0].Owner != "alice" || repos[0].Name != "n8n-nodes-weather" {
		t.Errorf("unexpected first repo: %+v", repos[0])
	}
	if repos[0].PushedAt == nil {
		t.Error("expected pushed_at to be parsed")
	}
	if repos[1].PushedAt != nil {
		t.Error("expected missing pushed_at to stay nil")
	}
}

func TestSearchExhaustionOn422(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
	})

	repos, err := client.Search(context.Background(), 40)
	if err != nil {
		t.Fatalf("expected nil error past the search cap, got %v", err)
	}
	if len(repos) != 0 {
		t.Fatalf("expected empty page, got %d repos", len(repos))
	}
}

func TestSearchMalformedPayload(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"total_count": "not-a-number"`))
	})

	_, err := client.Search(context.Background(), 1)
	var malformed *MalformedResponse
	if !errors.As(err, &malformed) {
		t.Fatalf("expected MalformedResponse, got %v", err)
	}
}

func TestFetchOwnerDetailAbsentProfile(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	detail, err := client.FetchOwnerDetail(context.Background(), "ghost")
	if err != nil {
		t.Fatalf("absent profile must not be an error, got %v", err)
	}
	if detail != nil {
		t.Fatalf("expected nil detail, got %+v", detail)
	}
}

func TestFetchOwnerDetail(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/users/alice" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"login": "alice", "name": "Alice", "email": "alice@example.com"}`))
	})

	detail, err := client.FetchOwnerDetail(context.Background(), "alice")
	if err != nil {
		t.Fatalf("FetchOwnerDetail returned error: %v", err)
	}
	if detail == nil || detail.Email != "alice@example.com" {
		t.Fatalf("unexpected detail: %+v", detail)
	}
}
