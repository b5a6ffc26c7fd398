// Package domain holds the lead entity and the pure rules around it:
// candidate eligibility and the outreach approval state machine.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// LeadStatus tracks where a lead sits in the funnel.
type LeadStatus string

const (
	StatusNew       LeadStatus = "new"
	StatusContacted LeadStatus = "contacted"
	StatusResponded LeadStatus = "responded"
	StatusConverted LeadStatus = "converted"
)

// ValidStatus reports whether s is one of the known funnel statuses.
func ValidStatus(s LeadStatus) bool {
	switch s {
	case StatusNew, StatusContacted, StatusResponded, StatusConverted:
		return true
	}
	return false
}

// Recommendation is the qualification verdict for a lead.
type Recommendation string

const (
	RecommendApprove Recommendation = "approve"
	RecommendReject  Recommendation = "reject"
	RecommendReview  Recommendation = "review"
)

// ValidRecommendation reports whether r is one of the known verdicts.
func ValidRecommendation(r Recommendation) bool {
	switch r {
	case RecommendApprove, RecommendReject, RecommendReview:
		return true
	}
	return false
}

// Lead is one GitHub repository owner we may want to contact, keyed by the
// (github_username, repo_name) pair.
type Lead struct {
	ID             uuid.UUID  `json:"id"`
	GithubUsername string     `json:"github_username"`
	RepoName       string     `json:"repo_name"`
	RepoURL        string     `json:"repo_url"`
	Description    string     `json:"description"`
	Email          string     `json:"email"`
	OwnerName      string     `json:"owner_name"`
	Blog           string     `json:"blog"`
	Stars          int        `json:"stars"`
	Forks          int        `json:"forks"`
	Language       string     `json:"language"`
	Topics         []string   `json:"topics"`
	LastActivityAt *time.Time `json:"last_activity_at"`

	Status LeadStatus `json:"status"`

	AIScore          *float64        `json:"ai_score"`
	AIRecommendation *Recommendation `json:"ai_recommendation"`
	AIAnalysis       *string         `json:"ai_analysis"`

	EmailSent            bool       `json:"email_sent"`
	EmailSentAt          *time.Time `json:"email_sent_at"`
	EmailPendingApproval bool       `json:"email_pending_approval"`
	EmailApproved        bool       `json:"email_approved"`
	DMScript             *string    `json:"dm_script"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Key returns the natural identifier used in logs and error messages.
func (l *Lead) Key() string {
	return l.GithubUsername + "/" + l.RepoName
}

// HasEmail reports whether the lead can be reached over email at all.
// Leads without one fall back to the generated DM script.
func (l *Lead) HasEmail() bool {
	return l.Email != ""
}

// IsQualified reports whether the qualification engine has scored this lead.
func (l *Lead) IsQualified() bool {
	return l.AIScore != nil
}
