// Package inbox polls the outreach mailbox and moves leads that wrote back
// from contacted to responded.
package inbox

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"devscout_backend/internal/events"
	"devscout_backend/internal/leads/domain"
	"devscout_backend/platform/logger"
)

// Message is one unseen inbound email, reduced to what reply matching needs.
type Message struct {
	UID     int
	From    string
	Subject string
}

// Mailbox fetches unseen messages. Implementations mark fetched messages as
// seen so a reply is only processed once.
type Mailbox interface {
	FetchUnseen(ctx context.Context) ([]Message, error)
}

// Store is the persistence surface the watcher needs.
type Store interface {
	ListContacted(ctx context.Context) ([]*domain.Lead, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.LeadStatus) error
}

// Result summarizes one poll.
type Result struct {
	MessagesSeen int `json:"messages_seen"`
	LeadsMatched int `json:"leads_matched"`
}

// Watcher matches inbound replies against contacted leads.
type Watcher struct {
	mailbox Mailbox
	store   Store
	bus     events.Bus
	log     *logger.Logger
}

// NewWatcher creates the reply watcher.
func NewWatcher(mailbox Mailbox, store Store, bus events.Bus, log *logger.Logger) *Watcher {
	return &Watcher{mailbox: mailbox, store: store, bus: bus, log: log}
}

// Poll fetches unseen mail once and transitions matching leads to responded.
// A sender that matches several contacted leads moves all of them; we cannot
// tell which outreach the reply answers.
func (w *Watcher) Poll(ctx context.Context) (*Result, error) {
	messages, err := w.mailbox.FetchUnseen(ctx)
	if err != nil {
		return nil, err
	}

	result := &Result{MessagesSeen: len(messages)}
	if len(messages) == 0 {
		return result, nil
	}

	contacted, err := w.store.ListContacted(ctx)
	if err != nil {
		return result, err
	}

	byEmail := make(map[string][]*domain.Lead, len(contacted))
	for _, lead := range contacted {
		key := strings.ToLower(lead.Email)
		byEmail[key] = append(byEmail[key], lead)
	}

	log := w.log.WithContext(ctx)
	for _, msg := range messages {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		leads, ok := byEmail[strings.ToLower(msg.From)]
		if !ok {
			continue
		}

		for _, lead := range leads {
			if err := w.store.UpdateStatus(ctx, lead.ID, domain.StatusResponded); err != nil {
				log.PipelineItemError("inbox", lead.Key(), err)
				continue
			}
			result.LeadsMatched++
			log.Info("lead responded", "lead", lead.Key(), "subject", msg.Subject)
			if w.bus != nil {
				w.bus.Publish(ctx, events.NewLeadResponded(lead.ID))
			}
		}
		// drop the entry so repeated messages from the same sender in one
		// poll don't double-transition
		delete(byEmail, strings.ToLower(msg.From))
	}

	return result, nil
}
