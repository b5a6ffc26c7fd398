// Package github provides the repository source adapter: paged repository
// search plus best-effort owner profile lookups against the GitHub REST API.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"devscout_backend/platform/config"
	"devscout_backend/platform/logger"
)

const defaultHTTPTimeout = 15 * time.Second

// MalformedResponse reports a payload that could not be decoded into the
// expected shape. It is distinct from transport errors so callers can tell
// "the API changed under us" apart from "the network hiccuped".
type MalformedResponse struct {
	Endpoint string
	Err      error
}

func (e *MalformedResponse) Error() string {
	return fmt.Sprintf("malformed response from %s: %v", e.Endpoint, e.Err)
}

func (e *MalformedResponse) Unwrap() error { return e.Err }

// RepoSummary is one repository from a search result page.
type RepoSummary struct {
	Owner       string
	Name        string
	FullName    string
	HTMLURL     string
	Description string
	Stars       int
	Forks       int
	Language    string
	Topics      []string
	CreatedAt   *time.Time
	UpdatedAt   *time.Time
	PushedAt    *time.Time
}

// OwnerDetail is the subset of a user profile the pipeline cares about.
type OwnerDetail struct {
	Email string
	Name  string
	Blog  string
}

// Client queries the GitHub REST API.
type Client struct {
	baseURL    string
	token      string
	query      string
	pageSize   int
	httpClient *http.Client
	log        *logger.Logger
}

// New creates a GitHub client from config.
func New(cfg config.GitHubConfig, log *logger.Logger) *Client {
	pageSize := cfg.GetGitHubPageSize()
	if pageSize < 1 {
		pageSize = 30
	}
	return &Client{
		baseURL:    cfg.GetGitHubAPIURL(),
		token:      cfg.GetGitHubToken(),
		query:      cfg.GetGitHubSearchQuery(),
		pageSize:   pageSize,
		httpClient: &http.Client{Timeout: defaultHTTPTimeout},
		log:        log,
	}
}

type searchItem struct {
	Name        string     `json:"name"`
	FullName    string     `json:"full_name"`
	HTMLURL     string     `json:"html_url"`
	Description string     `json:"description"`
	Stars       int        `json:"stargazers_count"`
	Forks       int        `json:"forks_count"`
	Language    string     `json:"language"`
	Topics      []string   `json:"topics"`
	CreatedAt   *time.Time `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at"`
	PushedAt    *time.Time `json:"pushed_at"`
	Owner       struct {
		Login string `json:"login"`
	} `json:"owner"`
}

type searchResponse struct {
	TotalCount int          `json:"total_count"`
	Items      []searchItem `json:"items"`
}

// Search returns one page of repositories for the configured query, in the
// API's ranking order. An empty slice means the result set is exhausted and
// the caller must stop paginating.
func (c *Client) Search(ctx context.Context, page int) ([]RepoSummary, error) {
	params := url.Values{}
	params.Set("q", c.query)
	params.Set("sort", "updated")
	params.Set("order", "desc")
	params.Set("page", strconv.Itoa(page))
	params.Set("per_page", strconv.Itoa(c.pageSize))

	endpoint := c.baseURL + "/search/repositories"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error("github search request failed", "page", page, "error", err)
		return nil, err
	}
	defer resp.Body.Close()

	// GitHub caps search at 1000 results and answers 422 past the end.
	if resp.StatusCode == http.StatusUnprocessableEntity {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		c.log.Error("github search request error", "page", page, "status", resp.StatusCode)
		return nil, fmt.Errorf("github search status %d", resp.StatusCode)
	}

	var payload searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, &MalformedResponse{Endpoint: "search/repositories", Err: err}
	}

	repos := make([]RepoSummary, 0, len(payload.Items))
	for _, item := range payload.Items {
		repos = append(repos, RepoSummary{
			Owner:       item.Owner.Login,
			Name:        item.Name,
			FullName:    item.FullName,
			HTMLURL:     item.HTMLURL,
			Description: item.Description,
			Stars:       item.Stars,
			Forks:       item.Forks,
			Language:    item.Language,
			Topics:      item.Topics,
			CreatedAt:   item.CreatedAt,
			UpdatedAt:   item.UpdatedAt,
			PushedAt:    item.PushedAt,
		})
	}

	return repos, nil
}

type userResponse struct {
	Login string `json:"login"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Blog  string `json:"blog"`
}

// FetchOwnerDetail fetches a user profile. A missing or forbidden profile
// yields (nil, nil): the pipeline treats that as "no email", not a failure.
func (c *Client) FetchOwnerDetail(ctx context.Context, username string) (*OwnerDetail, error) {
	endpoint := c.baseURL + "/users/" + url.PathEscape(username)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error("github user request failed", "username", username, "error", err)
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusForbidden {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		c.log.Error("github user request error", "username", username, "status", resp.StatusCode)
		return nil, fmt.Errorf("github user status %d", resp.StatusCode)
	}

	var payload userResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, &MalformedResponse{Endpoint: "users", Err: err}
	}

	return &OwnerDetail{
		Email: payload.Email,
		Name:  payload.Name,
		Blog:  payload.Blog,
	}, nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}
