package events

import "github.com/google/uuid"

// LeadCreated fires when the acquisition pipeline inserts a new lead.
type LeadCreated struct {
	BaseEvent
	LeadID         uuid.UUID
	GithubUsername string
	RepoName       string
}

func (LeadCreated) EventName() string { return "lead.created" }

// NewLeadCreated builds a LeadCreated event with the current timestamp.
func NewLeadCreated(leadID uuid.UUID, githubUsername, repoName string) LeadCreated {
	return LeadCreated{
		BaseEvent:      NewBaseEvent(),
		LeadID:         leadID,
		GithubUsername: githubUsername,
		RepoName:       repoName,
	}
}

// LeadQualified fires after the qualification engine persists a verdict.
type LeadQualified struct {
	BaseEvent
	LeadID         uuid.UUID
	Score          float64
	Recommendation string
}

func (LeadQualified) EventName() string { return "lead.qualified" }

// NewLeadQualified builds a LeadQualified event with the current timestamp.
func NewLeadQualified(leadID uuid.UUID, score float64, recommendation string) LeadQualified {
	return LeadQualified{
		BaseEvent:      NewBaseEvent(),
		LeadID:         leadID,
		Score:          score,
		Recommendation: recommendation,
	}
}

// LeadPendingApproval fires when a lead is queued for the human email gate.
type LeadPendingApproval struct {
	BaseEvent
	LeadID uuid.UUID
}

func (LeadPendingApproval) EventName() string { return "lead.pending_approval" }

// NewLeadPendingApproval builds a LeadPendingApproval event.
func NewLeadPendingApproval(leadID uuid.UUID) LeadPendingApproval {
	return LeadPendingApproval{BaseEvent: NewBaseEvent(), LeadID: leadID}
}

// LeadContacted fires after a successful outreach send.
type LeadContacted struct {
	BaseEvent
	LeadID uuid.UUID
	DryRun bool
}

func (LeadContacted) EventName() string { return "lead.contacted" }

// NewLeadContacted builds a LeadContacted event.
func NewLeadContacted(leadID uuid.UUID, dryRun bool) LeadContacted {
	return LeadContacted{BaseEvent: NewBaseEvent(), LeadID: leadID, DryRun: dryRun}
}

// LeadResponded fires when the inbox watcher matches a reply.
type LeadResponded struct {
	BaseEvent
	LeadID uuid.UUID
}

func (LeadResponded) EventName() string { return "lead.responded" }

// NewLeadResponded builds a LeadResponded event.
func NewLeadResponded(leadID uuid.UUID) LeadResponded {
	return LeadResponded{BaseEvent: NewBaseEvent(), LeadID: leadID}
}
