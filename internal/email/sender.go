// Package email delivers outreach and operator notifications over SMTP.
package email

import (
	"context"
	"fmt"

	"devscout_backend/platform/config"
)

// Sender delivers the application's emails.
type Sender interface {
	// SendOutreachEmail delivers the first-contact email to a lead.
	SendOutreachEmail(ctx context.Context, toEmail, ownerName, repoName, repoURL string) error
	// SendApprovalRequestEmail asks the operator to review a qualified lead.
	// The URLs carry signed tokens, so the links work without a login.
	SendApprovalRequestEmail(ctx context.Context, toEmail, leadKey string, score float64, analysis, approveURL, rejectURL string) error
}

// NoopSender drops all email. Used when SMTP is not configured.
type NoopSender struct{}

func (NoopSender) SendOutreachEmail(ctx context.Context, toEmail, ownerName, repoName, repoURL string) error {
	return nil
}

func (NoopSender) SendApprovalRequestEmail(ctx context.Context, toEmail, leadKey string, score float64, analysis, approveURL, rejectURL string) error {
	return nil
}

// NewSender picks an implementation from config.
func NewSender(cfg config.EmailConfig) (Sender, error) {
	if !cfg.GetEmailEnabled() {
		return NoopSender{}, nil
	}
	if cfg.GetEmailFromAddress() == "" {
		return nil, fmt.Errorf("email enabled without a from address")
	}
	return NewSMTPSender(
		cfg.GetSMTPHost(),
		cfg.GetSMTPPort(),
		cfg.GetSMTPUsername(),
		cfg.GetSMTPPassword(),
		cfg.GetEmailFromAddress(),
		cfg.GetEmailFromName(),
	), nil
}
