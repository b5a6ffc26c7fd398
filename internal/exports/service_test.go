package exports

import (
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"devscout_backend/internal/leads/domain"
)

func TestRenderCSV(t *testing.T) {
	score := 0.91
	rec := domain.RecommendApprove
	leads := []*domain.Lead{
		{
			ID:               uuid.New(),
			GithubUsername:   "alice",
			RepoName:         "n8n-nodes-weather",
			RepoURL:          "https://github.com/alice/n8n-nodes-weather",
			Email:            "alice@example.com",
			Stars:            12,
			Language:         "TypeScript",
			Topics:           []string{"n8n", "weather"},
			Status:           domain.StatusContacted,
			AIScore:          &score,
			AIRecommendation: &rec,
			EmailApproved:    true,
			EmailSent:        true,
			CreatedAt:        time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC),
		},
		{
			ID:             uuid.New(),
			GithubUsername: "bob",
			RepoName:       "n8n-sync",
			Status:         domain.StatusNew,
			CreatedAt:      time.Date(2026, 8, 2, 10, 0, 0, 0, time.UTC),
		},
	}

	payload, err := renderCSV(leads)
	if err != nil {
		t.Fatalf("renderCSV: %v", err)
	}

	records, err := csv.NewReader(strings.NewReader(string(payload))).ReadAll()
	if err != nil {
		t.Fatalf("reading back CSV: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("got %d rows, want header plus 2 leads", len(records))
	}

	alice := records[1]
	if alice[0] != "alice" || alice[6] != "n8n;weather" || alice[8] != "0.91" {
		t.Errorf("unexpected first record: %v", alice)
	}

	// unscored lead leaves the verdict columns empty
	bob := records[2]
	if bob[8] != "" || bob[9] != "" {
		t.Errorf("unscored lead has verdict columns: %v", bob)
	}
}

func TestRenderCSVEmpty(t *testing.T) {
	payload, err := renderCSV(nil)
	if err != nil {
		t.Fatalf("renderCSV: %v", err)
	}
	records, err := csv.NewReader(strings.NewReader(string(payload))).ReadAll()
	if err != nil {
		t.Fatalf("reading back CSV: %v", err)
	}
	if len(records) != 1 {
		t.Errorf("empty book should still write the header, got %d rows", len(records))
	}
}
