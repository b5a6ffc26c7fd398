package domain

import (
	"strings"
	"time"

	"devscout_backend/platform/config"
)

// Eligibility decides which repositories from a search page qualify as
// lead candidates. The rules are pure so they can be tested without any
// network or clock fakery beyond passing a "now".
type Eligibility struct {
	keywords     []string
	maxStaleDays int
}

// NewEligibility builds the filter from config.
func NewEligibility(cfg config.EligibilityConfig) *Eligibility {
	keywords := make([]string, 0, len(cfg.GetLeadKeywords()))
	for _, kw := range cfg.GetLeadKeywords() {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw != "" {
			keywords = append(keywords, kw)
		}
	}
	return &Eligibility{
		keywords:     keywords,
		maxStaleDays: cfg.GetMaxStaleDays(),
	}
}

// IsValidCandidate reports whether the repository is on-topic: at least one
// configured keyword must appear in the repo name, its description, or one
// of its topics. Matching is case-insensitive.
func (e *Eligibility) IsValidCandidate(name, description string, topics []string) bool {
	name = strings.ToLower(name)
	description = strings.ToLower(description)

	for _, kw := range e.keywords {
		if strings.Contains(name, kw) || strings.Contains(description, kw) {
			return true
		}
		for _, topic := range topics {
			if strings.Contains(strings.ToLower(topic), kw) {
				return true
			}
		}
	}
	return false
}

// IsActive reports whether the repository saw a push within the staleness
// window, measured back from now. The boundary day counts as active. A repo
// with no recorded push is treated as stale.
func (e *Eligibility) IsActive(pushedAt *time.Time, now time.Time) bool {
	if pushedAt == nil {
		return false
	}
	cutoff := now.AddDate(0, 0, -e.maxStaleDays)
	return !pushedAt.Before(cutoff)
}
