package agent

import (
	"errors"
	"strings"
	"testing"

	"devscout_backend/internal/leads/domain"
)

func TestParseVerdict(t *testing.T) {
	tests := []struct {
		name    string
		output  string
		want    float64
		wantRec domain.Recommendation
	}{
		{
			name:    "plain json",
			output:  `{"score": 0.85, "recommendation": "approve", "analysis": "Active integration."}`,
			want:    0.85,
			wantRec: domain.RecommendApprove,
		},
		{
			name:    "fenced json",
			output:  "```json\n{\"score\": 0.2, \"recommendation\": \"reject\", \"analysis\": \"Fork.\"}\n```",
			want:    0.2,
			wantRec: domain.RecommendReject,
		},
		{
			name:    "surrounding whitespace",
			output:  "\n  {\"score\": 0.5, \"recommendation\": \"review\", \"analysis\": \"\"}  \n",
			want:    0.5,
			wantRec: domain.RecommendReview,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verdict, err := parseVerdict(tt.output)
			if err != nil {
				t.Fatalf("parseVerdict: %v", err)
			}
			if verdict.Score != tt.want {
				t.Errorf("score = %v, want %v", verdict.Score, tt.want)
			}
			if verdict.Recommendation != tt.wantRec {
				t.Errorf("recommendation = %v, want %v", verdict.Recommendation, tt.wantRec)
			}
		})
	}
}

func TestParseVerdictMalformed(t *testing.T) {
	tests := []struct {
		name   string
		output string
	}{
		{"prose instead of json", "This repository looks promising overall."},
		{"missing score", `{"recommendation": "approve", "analysis": "ok"}`},
		{"unknown recommendation", `{"score": 0.9, "recommendation": "maybe", "analysis": "ok"}`},
		{"empty output", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseVerdict(tt.output)
			var malformed *MalformedVerdict
			if !errors.As(err, &malformed) {
				t.Fatalf("expected MalformedVerdict, got %v", err)
			}
			if malformed.Output != tt.output {
				t.Errorf("raw output not preserved: %q", malformed.Output)
			}
		})
	}
}

func TestBuildLeadPrompt(t *testing.T) {
	lead := &domain.Lead{
		GithubUsername: "alice",
		RepoName:       "n8n-nodes-weather",
		RepoURL:        "https://github.com/alice/n8n-nodes-weather",
		Description:    "Weather node",
		Stars:          12,
		Language:       "TypeScript",
		Email:          "alice@example.com",
	}

	prompt := buildLeadPrompt(lead)
	for _, want := range []string{"alice/n8n-nodes-weather", "Weather node", "TypeScript", "public email"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, prompt)
		}
	}
}
