package inbox

import (
	"context"
	"fmt"

	imap "github.com/BrianLeishman/go-imap"

	"devscout_backend/platform/config"
	"devscout_backend/platform/logger"
)

// IMAPMailbox reads the outreach inbox over IMAP. Each poll opens a fresh
// connection; the intervals are long enough that keeping one alive buys
// nothing.
type IMAPMailbox struct {
	host     string
	port     int
	username string
	password string
	log      *logger.Logger
}

// NewIMAPMailbox builds the mailbox from config. Returns nil when IMAP is
// not configured.
func NewIMAPMailbox(cfg config.IMAPConfig, log *logger.Logger) *IMAPMailbox {
	if !cfg.IsInboxEnabled() {
		return nil
	}
	return &IMAPMailbox{
		host:     cfg.GetIMAPHost(),
		port:     cfg.GetIMAPPort(),
		username: cfg.GetIMAPUsername(),
		password: cfg.GetIMAPPassword(),
		log:      log,
	}
}

// FetchUnseen downloads unseen messages from INBOX and marks them seen.
func (m *IMAPMailbox) FetchUnseen(ctx context.Context) ([]Message, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dialer, err := imap.New(m.username, m.password, m.host, m.port)
	if err != nil {
		return nil, fmt.Errorf("imap connect: %w", err)
	}
	defer func() {
		if closeErr := dialer.Close(); closeErr != nil {
			m.log.Warn("imap close failed", "error", closeErr)
		}
	}()

	if err := dialer.SelectFolder("INBOX"); err != nil {
		return nil, fmt.Errorf("imap select: %w", err)
	}

	uids, err := dialer.GetUIDs("UNSEEN")
	if err != nil {
		return nil, fmt.Errorf("imap search: %w", err)
	}
	if len(uids) == 0 {
		return nil, nil
	}

	emails, err := dialer.GetEmails(uids...)
	if err != nil {
		return nil, fmt.Errorf("imap fetch: %w", err)
	}

	messages := make([]Message, 0, len(emails))
	for uid, email := range emails {
		if email == nil {
			continue
		}
		for address := range email.From {
			messages = append(messages, Message{
				UID:     uid,
				From:    address,
				Subject: email.Subject,
			})
			break
		}
		if err := dialer.MarkSeen(uid); err != nil {
			m.log.Warn("imap mark seen failed", "uid", uid, "error", err)
		}
	}

	return messages, nil
}
