package inbox

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"devscout_backend/internal/leads/domain"
	"devscout_backend/platform/logger"
)

type fakeMailbox struct {
	messages []Message
	err      error
}

func (m *fakeMailbox) FetchUnseen(_ context.Context) ([]Message, error) {
	return m.messages, m.err
}

type fakeStore struct {
	contacted []*domain.Lead
	updated   map[uuid.UUID]domain.LeadStatus
}

func (s *fakeStore) ListContacted(_ context.Context) ([]*domain.Lead, error) {
	return s.contacted, nil
}

func (s *fakeStore) UpdateStatus(_ context.Context, id uuid.UUID, status domain.LeadStatus) error {
	if s.updated == nil {
		s.updated = map[uuid.UUID]domain.LeadStatus{}
	}
	s.updated[id] = status
	return nil
}

func contactedLead(username, email string) *domain.Lead {
	return &domain.Lead{
		ID:             uuid.New(),
		GithubUsername: username,
		RepoName:       "n8n-tools",
		Email:          email,
		Status:         domain.StatusContacted,
	}
}

func TestPollMatchesReplies(t *testing.T) {
	alice := contactedLead("alice", "alice@example.com")
	bob := contactedLead("bob", "bob@example.com")
	store := &fakeStore{contacted: []*domain.Lead{alice, bob}}
	mailbox := &fakeMailbox{messages: []Message{
		{UID: 1, From: "Alice@Example.com", Subject: "Re: Loved your work"},
		{UID: 2, From: "stranger@example.com", Subject: "Newsletter"},
	}}

	result, err := NewWatcher(mailbox, store, nil, logger.New("development")).Poll(context.Background())
	if err != nil {
		t.Fatalf("Poll: %v", err)
	}

	if result.MessagesSeen != 2 {
		t.Errorf("MessagesSeen = %d, want 2", result.MessagesSeen)
	}
	if result.LeadsMatched != 1 {
		t.Errorf("LeadsMatched = %d, want 1", result.LeadsMatched)
	}
	if got := store.updated[alice.ID]; got != domain.StatusResponded {
		t.Errorf("alice status = %v, want responded", got)
	}
	if _, touched := store.updated[bob.ID]; touched {
		t.Error("bob was transitioned without a reply")
	}
}

func TestPollDuplicateSender(t *testing.T) {
	alice := contactedLead("alice", "alice@example.com")
	store := &fakeStore{contacted: []*domain.Lead{alice}}
	mailbox := &fakeMailbox{messages: []Message{
		{UID: 1, From: "alice@example.com"},
		{UID: 2, From: "alice@example.com"},
	}}

	result, err := NewWatcher(mailbox, store, nil, logger.New("development")).Poll(context.Background())
	if err != nil {
		t.Fatalf("Poll: %v", err)
	}
	if result.LeadsMatched != 1 {
		t.Errorf("LeadsMatched = %d, want 1 (single transition per sender)", result.LeadsMatched)
	}
}

func TestPollEmptyInbox(t *testing.T) {
	store := &fakeStore{}
	result, err := NewWatcher(&fakeMailbox{}, store, nil, logger.New("development")).Poll(context.Background())
	if err != nil {
		t.Fatalf("Poll: %v", err)
	}
	if result.MessagesSeen != 0 || result.LeadsMatched != 0 {
		t.Errorf("unexpected result %+v", result)
	}
}

func TestPollMailboxFailure(t *testing.T) {
	mailbox := &fakeMailbox{err: errors.New("connection reset")}
	if _, err := NewWatcher(mailbox, &fakeStore{}, nil, logger.New("development")).Poll(context.Background()); err == nil {
		t.Error("expected mailbox failure to surface")
	}
}
