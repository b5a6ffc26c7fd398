package outreach

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"devscout_backend/internal/leads/domain"
	"devscout_backend/platform/logger"
	"devscout_backend/platform/pacing"
)

type fakeStore struct {
	leads    map[uuid.UUID]*domain.Lead
	sendable []*domain.Lead
}

func newFakeStore(leads ...*domain.Lead) *fakeStore {
	s := &fakeStore{leads: map[uuid.UUID]*domain.Lead{}}
	for _, lead := range leads {
		s.leads[lead.ID] = lead
		s.sendable = append(s.sendable, lead)
	}
	return s
}

func (s *fakeStore) GetByID(_ context.Context, id uuid.UUID) (*domain.Lead, error) {
	lead, ok := s.leads[id]
	if !ok {
		return nil, errors.New("lead not found")
	}
	return lead, nil
}

func (s *fakeStore) UpdateApproval(_ context.Context, id uuid.UUID, pending, approved bool) error {
	lead := s.leads[id]
	lead.EmailPendingApproval = pending
	lead.EmailApproved = approved
	return nil
}

func (s *fakeStore) MarkSent(_ context.Context, id uuid.UUID, sentAt time.Time) error {
	lead := s.leads[id]
	lead.EmailSent = true
	lead.EmailSentAt = &sentAt
	lead.Status = domain.StatusContacted
	return nil
}

func (s *fakeStore) ListSendable(_ context.Context, limit int) ([]*domain.Lead, error) {
	if limit < len(s.sendable) {
		return s.sendable[:limit], nil
	}
	return s.sendable, nil
}

type fakeSender struct {
	outreach  []string
	approvals []string
	fail      map[string]error
}

func (s *fakeSender) SendOutreachEmail(_ context.Context, toEmail, _, _, _ string) error {
	if err := s.fail[toEmail]; err != nil {
		return err
	}
	s.outreach = append(s.outreach, toEmail)
	return nil
}

func (s *fakeSender) SendApprovalRequestEmail(_ context.Context, toEmail, _ string, _ float64, _, _, _ string) error {
	s.approvals = append(s.approvals, toEmail)
	return nil
}

func sendableLead(email string) *domain.Lead {
	return &domain.Lead{
		ID:             uuid.New(),
		GithubUsername: "alice",
		RepoName:       "n8n-nodes-weather",
		Email:          email,
		Status:         domain.StatusNew,
		EmailApproved:  true,
	}
}

func newTestService(store Store, sender *fakeSender) *Service {
	cfg := outreachConfig{secret: "test-secret", ttl: time.Hour}
	return New(store, sender, NewTokenSigner(cfg), pacing.Nop{}, nil, cfg, logger.New("development"))
}

func TestSendBatchDelivers(t *testing.T) {
	lead := sendableLead("alice@example.com")
	store := newFakeStore(lead)
	sender := &fakeSender{}

	result, err := newTestService(store, sender).SendBatch(context.Background(), 10, false)
	if err != nil {
		t.Fatalf("SendBatch: %v", err)
	}

	if result.SentCount != 1 || result.SkippedCount != 0 {
		t.Errorf("sent=%d skipped=%d, want 1/0", result.SentCount, result.SkippedCount)
	}
	if len(sender.outreach) != 1 || sender.outreach[0] != "alice@example.com" {
		t.Errorf("sender calls = %v", sender.outreach)
	}
	if !lead.EmailSent || lead.Status != domain.StatusContacted {
		t.Errorf("lead not marked sent: sent=%v status=%v", lead.EmailSent, lead.Status)
	}
}

func TestSendBatchDryRunMutatesNothing(t *testing.T) {
	lead := sendableLead("alice@example.com")
	store := newFakeStore(lead)
	sender := &fakeSender{}

	result, err := newTestService(store, sender).SendBatch(context.Background(), 10, true)
	if err != nil {
		t.Fatalf("SendBatch: %v", err)
	}

	if !result.DryRun || result.SentCount != 1 {
		t.Errorf("dry run result = %+v, want sent=1", result)
	}
	if len(sender.outreach) != 0 {
		t.Errorf("dry run hit the transport: %v", sender.outreach)
	}
	if lead.EmailSent || lead.Status != domain.StatusNew {
		t.Errorf("dry run mutated the lead: sent=%v status=%v", lead.EmailSent, lead.Status)
	}
}

func TestSendRefusesUnapprovedLead(t *testing.T) {
	lead := sendableLead("alice@example.com")
	lead.EmailApproved = false
	store := newFakeStore(lead)
	sender := &fakeSender{}

	result, err := newTestService(store, sender).SendLead(context.Background(), lead.ID, false)
	if err != nil {
		t.Fatalf("SendLead: %v", err)
	}

	if result.SentCount != 0 || result.SkippedCount != 1 {
		t.Errorf("sent=%d skipped=%d, want 0/1", result.SentCount, result.SkippedCount)
	}
	if len(sender.outreach) != 0 {
		t.Error("unapproved lead reached the transport")
	}
}

func TestSendSkipsLeadWithoutEmail(t *testing.T) {
	lead := sendableLead("")
	store := newFakeStore(lead)
	sender := &fakeSender{}

	result, err := newTestService(store, sender).SendBatch(context.Background(), 10, false)
	if err != nil {
		t.Fatalf("SendBatch: %v", err)
	}
	if result.SkippedCount != 1 || result.SentCount != 0 {
		t.Errorf("sent=%d skipped=%d, want 0/1", result.SentCount, result.SkippedCount)
	}
}

func TestSendBatchIsolatesTransportFailures(t *testing.T) {
	good := sendableLead("good@example.com")
	bad := sendableLead("bad@example.com")
	bad.GithubUsername = "bob"
	store := newFakeStore(bad, good)
	sender := &fakeSender{fail: map[string]error{"bad@example.com": errors.New("mailbox full")}}

	result, err := newTestService(store, sender).SendBatch(context.Background(), 10, false)
	if err != nil {
		t.Fatalf("SendBatch: %v", err)
	}

	if result.SentCount != 1 {
		t.Errorf("SentCount = %d, want 1", result.SentCount)
	}
	if len(result.Errors) != 1 {
		t.Fatalf("Errors = %v, want exactly one", result.Errors)
	}
	want := "error processing bob/n8n-nodes-weather: mailbox full"
	if result.Errors[0] != want {
		t.Errorf("error = %q, want %q", result.Errors[0], want)
	}
	if bad.EmailSent {
		t.Error("failed send still marked the lead as sent")
	}
}

func TestApprovalFlowThroughTokens(t *testing.T) {
	lead := sendableLead("alice@example.com")
	lead.EmailApproved = false
	score := 0.9
	lead.AIScore = &score
	store := newFakeStore(lead)
	sender := &fakeSender{}
	svc := newTestService(store, sender)

	if err := svc.RequestApproval(context.Background(), lead.ID); err != nil {
		t.Fatalf("RequestApproval: %v", err)
	}
	if !lead.EmailPendingApproval {
		t.Error("lead not queued for review")
	}
	if len(sender.approvals) != 1 || sender.approvals[0] != "ops@example.com" {
		t.Errorf("operator email calls = %v", sender.approvals)
	}

	token, err := svc.signer.Sign(lead.ID, ActionApprove)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	action, err := svc.HandleToken(context.Background(), token)
	if err != nil {
		t.Fatalf("HandleToken: %v", err)
	}
	if action != ActionApprove {
		t.Errorf("action = %q, want approve", action)
	}
	if !lead.EmailApproved || lead.EmailPendingApproval {
		t.Errorf("approval flags wrong: approved=%v pending=%v",
			lead.EmailApproved, lead.EmailPendingApproval)
	}

	// rejecting an approved lead revokes the approval before the send
	rejectToken, err := svc.signer.Sign(lead.ID, ActionReject)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if _, err := svc.HandleToken(context.Background(), rejectToken); err != nil {
		t.Fatalf("HandleToken reject: %v", err)
	}
	if lead.EmailApproved || lead.EmailPendingApproval {
		t.Errorf("reject left flags set: approved=%v pending=%v",
			lead.EmailApproved, lead.EmailPendingApproval)
	}
	if ok, _ := lead.CanSend(); ok {
		t.Error("rejected lead must not pass the send gate")
	}
}
