// Package transport defines the HTTP request shapes for the leads module.
package transport

// AcquireRequest triggers an acquisition run. Zero values fall back to the
// configured defaults.
type AcquireRequest struct {
	StartPage int `json:"start_page" validate:"omitempty,min=1"`
	PageCount int `json:"page_count" validate:"omitempty,min=1,max=10"`
}

// QualifyRequest triggers a scoring batch.
type QualifyRequest struct {
	Limit int `json:"limit" validate:"omitempty,min=1,max=200"`
}

// SendRequest triggers an outreach batch.
type SendRequest struct {
	DryRun bool `json:"dry_run"`
	Limit  int  `json:"limit" validate:"omitempty,min=1,max=100"`
}

// UpdateStatusRequest moves a lead to a new funnel status.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=new contacted responded converted"`
}
