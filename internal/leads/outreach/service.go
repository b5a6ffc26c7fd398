// Package outreach owns the gate in front of first-contact emails: the
// operator review flow, the send preconditions, and the paced send batch.
package outreach

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"devscout_backend/internal/email"
	"devscout_backend/internal/events"
	"devscout_backend/internal/leads/domain"
	"devscout_backend/platform/config"
	"devscout_backend/platform/logger"
	"devscout_backend/platform/pacing"
)

// Store is the persistence surface the gate needs.
type Store interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Lead, error)
	UpdateApproval(ctx context.Context, id uuid.UUID, pending, approved bool) error
	MarkSent(ctx context.Context, id uuid.UUID, sentAt time.Time) error
	ListSendable(ctx context.Context, limit int) ([]*domain.Lead, error)
}

// SendResult summarizes one send batch.
type SendResult struct {
	DryRun       bool     `json:"dry_run"`
	SentCount    int      `json:"sent_count"`
	SkippedCount int      `json:"skipped_count"`
	Errors       []string `json:"errors"`
}

// Service enforces the outreach gate.
type Service struct {
	store    Store
	sender   email.Sender
	signer   *TokenSigner
	pacer    pacing.Pacer
	bus      events.Bus
	log      *logger.Logger
	baseURL  string
	operator string
	now      func() time.Time
}

// New creates the outreach service.
func New(store Store, sender email.Sender, signer *TokenSigner, pacer pacing.Pacer,
	bus events.Bus, cfg config.OutreachConfig, log *logger.Logger) *Service {
	return &Service{
		store:    store,
		sender:   sender,
		signer:   signer,
		pacer:    pacer,
		bus:      bus,
		log:      log,
		baseURL:  cfg.GetAppBaseURL(),
		operator: cfg.GetOperatorEmail(),
		now:      time.Now,
	}
}

// RequestApproval queues a lead for operator review and emails the operator
// a pair of signed action links.
func (s *Service) RequestApproval(ctx context.Context, leadID uuid.UUID) error {
	lead, err := s.store.GetByID(ctx, leadID)
	if err != nil {
		return err
	}
	if err := lead.MarkPendingApproval(); err != nil {
		return err
	}
	if err := s.store.UpdateApproval(ctx, lead.ID, lead.EmailPendingApproval, lead.EmailApproved); err != nil {
		return err
	}

	if s.operator != "" {
		approveURL, rejectURL, err := s.actionURLs(lead.ID)
		if err != nil {
			return err
		}
		var score float64
		if lead.AIScore != nil {
			score = *lead.AIScore
		}
		var analysis string
		if lead.AIAnalysis != nil {
			analysis = *lead.AIAnalysis
		}
		if err := s.sender.SendApprovalRequestEmail(ctx, s.operator, lead.Key(), score, analysis, approveURL, rejectURL); err != nil {
			s.log.Error("approval request email failed", "lead", lead.Key(), "error", err)
		}
	}

	if s.bus != nil {
		s.bus.Publish(ctx, events.NewLeadPendingApproval(lead.ID))
	}
	return nil
}

func (s *Service) actionURLs(leadID uuid.UUID) (string, string, error) {
	approveToken, err := s.signer.Sign(leadID, ActionApprove)
	if err != nil {
		return "", "", err
	}
	rejectToken, err := s.signer.Sign(leadID, ActionReject)
	if err != nil {
		return "", "", err
	}
	return s.baseURL + "/public/leads/approve?token=" + approveToken,
		s.baseURL + "/public/leads/reject?token=" + rejectToken, nil
}

// Approve clears the gate for a lead. Approving twice is harmless.
func (s *Service) Approve(ctx context.Context, leadID uuid.UUID) error {
	lead, err := s.store.GetByID(ctx, leadID)
	if err != nil {
		return err
	}
	lead.Approve()
	return s.store.UpdateApproval(ctx, lead.ID, lead.EmailPendingApproval, lead.EmailApproved)
}

// Reject closes the email track without approving. An approved lead can
// still be rejected as long as nothing was sent.
func (s *Service) Reject(ctx context.Context, leadID uuid.UUID) error {
	lead, err := s.store.GetByID(ctx, leadID)
	if err != nil {
		return err
	}
	lead.RejectApproval()
	return s.store.UpdateApproval(ctx, lead.ID, lead.EmailPendingApproval, lead.EmailApproved)
}

// HandleToken resolves a signed approval link and applies the action.
func (s *Service) HandleToken(ctx context.Context, tokenString string) (string, error) {
	leadID, action, err := s.signer.Verify(tokenString)
	if err != nil {
		return "", err
	}
	switch action {
	case ActionApprove:
		return action, s.Approve(ctx, leadID)
	case ActionReject:
		return action, s.Reject(ctx, leadID)
	}
	return "", fmt.Errorf("unknown approval action %q", action)
}

// SendBatch sends the first-contact email to up to limit gated leads. In a
// dry run nothing is delivered and nothing is persisted; the counters show
// what a live run would have done.
func (s *Service) SendBatch(ctx context.Context, limit int, dryRun bool) (*SendResult, error) {
	leads, err := s.store.ListSendable(ctx, limit)
	if err != nil {
		return nil, err
	}

	result := &SendResult{DryRun: dryRun, Errors: []string{}}
	log := s.log.WithContext(ctx)

	for i, lead := range leads {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		if err := s.sendOne(ctx, lead, dryRun, result, log); err != nil {
			return result, err
		}

		if i < len(leads)-1 {
			if err := s.pacer.Wait(ctx); err != nil {
				return result, err
			}
		}
	}

	log.Info("outreach batch finished",
		"dry_run", dryRun,
		"sent", result.SentCount,
		"skipped", result.SkippedCount,
		"errors", len(result.Errors),
	)
	return result, nil
}

// SendLead sends to a single lead, subject to the same gate.
func (s *Service) SendLead(ctx context.Context, leadID uuid.UUID, dryRun bool) (*SendResult, error) {
	lead, err := s.store.GetByID(ctx, leadID)
	if err != nil {
		return nil, err
	}
	result := &SendResult{DryRun: dryRun, Errors: []string{}}
	if err := s.sendOne(ctx, lead, dryRun, result, s.log.WithContext(ctx)); err != nil {
		return result, err
	}
	return result, nil
}

func (s *Service) sendOne(ctx context.Context, lead *domain.Lead, dryRun bool, result *SendResult, log *logger.Logger) error {
	if ok, reason := lead.CanSend(); !ok {
		result.SkippedCount++
		log.SendEvent(lead.Key(), dryRun, false, reason)
		return nil
	}
	if !lead.HasEmail() {
		result.SkippedCount++
		log.SendEvent(lead.Key(), dryRun, false, "no email on record")
		return nil
	}

	if dryRun {
		result.SentCount++
		log.SendEvent(lead.Key(), true, true, "")
		return nil
	}

	ownerName := lead.OwnerName
	if ownerName == "" {
		ownerName = lead.GithubUsername
	}
	if err := s.sender.SendOutreachEmail(ctx, lead.Email, ownerName, lead.RepoName, lead.RepoURL); err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("error processing %s: %v", lead.Key(), err))
		log.PipelineItemError("outreach", lead.Key(), err)
		return nil
	}

	if err := s.store.MarkSent(ctx, lead.ID, s.now()); err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("error processing %s: %v", lead.Key(), err))
		log.PipelineItemError("outreach", lead.Key(), err)
		return nil
	}

	result.SentCount++
	log.SendEvent(lead.Key(), false, true, "")
	if s.bus != nil {
		s.bus.Publish(ctx, events.NewLeadContacted(lead.ID, false))
	}
	return nil
}
