package domain

import (
	"testing"
	"time"
)

type eligibilityConfig struct {
	keywords []string
	maxStale int
}

func (c eligibilityConfig) GetLeadKeywords() []string { return c.keywords }
func (c eligibilityConfig) GetMaxStaleDays() int      { return c.maxStale }

func testEligibility() *Eligibility {
	return NewEligibility(eligibilityConfig{
		keywords: []string{"n8n", "n8n-nodes"},
		maxStale: 90,
	})
}

func TestIsValidCandidate(t *testing.T) {
	e := testEligibility()

	tests := []struct {
		name        string
		repoName    string
		description string
		topics      []string
		want        bool
	}{
		{"keyword in name", "n8n-nodes-weather", "", nil, true},
		{"keyword in name uppercase", "N8N-sync", "", nil, true},
		{"keyword in description", "workflow-tools", "Custom nodes for n8n automation", nil, true},
		{"keyword in topics", "automation-helper", "misc tooling", []string{"N8N", "workflow"}, true},
		{"no keyword anywhere", "zapier-clone", "generic automation", []string{"workflow"}, false},
		{"empty repo", "", "", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.IsValidCandidate(tt.repoName, tt.description, tt.topics)
			if got != tt.want {
				t.Errorf("IsValidCandidate(%q, %q, %v) = %v, want %v",
					tt.repoName, tt.description, tt.topics, got, tt.want)
			}
		})
	}
}

func TestIsActive(t *testing.T) {
	e := testEligibility()
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

	within := now.AddDate(0, 0, -30)
	boundary := now.AddDate(0, 0, -90)
	past := now.AddDate(0, 0, -91)

	tests := []struct {
		name     string
		pushedAt *time.Time
		want     bool
	}{
		{"recent push", &within, true},
		{"exactly on the boundary", &boundary, true},
		{"one day past the boundary", &past, false},
		{"no recorded push", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := e.IsActive(tt.pushedAt, now); got != tt.want {
				t.Errorf("IsActive(%v) = %v, want %v", tt.pushedAt, got, tt.want)
			}
		})
	}
}
