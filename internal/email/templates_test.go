package email

import (
	"strings"
	"testing"
)

func TestRenderOutreachTemplate(t *testing.T) {
	content, err := renderEmailTemplate("outreach.html", outreachEmailData{
		baseEmailData: baseEmailData{
			Title:   "Loved your work on n8n-nodes-weather",
			Heading: "Hi Alice,",
		},
		OwnerName: "Alice",
		RepoName:  "n8n-nodes-weather",
		RepoURL:   "https://github.com/alice/n8n-nodes-weather",
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, want := range []string{"Hi Alice,", "n8n-nodes-weather", "https://github.com/alice/n8n-nodes-weather"} {
		if !strings.Contains(content, want) {
			t.Errorf("rendered email missing %q", want)
		}
	}
}

func TestRenderApprovalRequestTemplate(t *testing.T) {
	content, err := renderEmailTemplate("approval_request.html", approvalRequestEmailData{
		baseEmailData: baseEmailData{
			Title:    "Lead review",
			Heading:  "A lead is waiting for your review",
			CTALabel: "Approve outreach",
			CTAURL:   "https://app.example.com/public/leads/approve?token=abc",
		},
		LeadKey:        "alice/n8n-nodes-weather",
		ScoreFormatted: "0.91",
		Analysis:       "Active repo with steady commits.",
		RejectURL:      "https://app.example.com/public/leads/reject?token=abc",
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, want := range []string{"alice/n8n-nodes-weather", "0.91", "token=abc", "Approve outreach"} {
		if !strings.Contains(content, want) {
			t.Errorf("rendered email missing %q", want)
		}
	}
}
