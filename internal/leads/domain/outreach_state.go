package domain

import "devscout_backend/platform/apperr"

// ApprovalState is derived from the two approval flags on a lead. A rejected
// lead is one whose review finished without approval; it stays rejected.
type ApprovalState string

const (
	ApprovalUnreviewed ApprovalState = "unreviewed"
	ApprovalPending    ApprovalState = "pending"
	ApprovalApproved   ApprovalState = "approved"
	ApprovalRejected   ApprovalState = "rejected"
)

// Approval reports the lead's current position in the review flow.
func (l *Lead) Approval() ApprovalState {
	switch {
	case l.EmailApproved:
		return ApprovalApproved
	case l.EmailPendingApproval:
		return ApprovalPending
	case l.EmailSent:
		// sent without a live approval flag only happens after rejection
		// cleanup or a historical import; treat as settled either way
		return ApprovalRejected
	default:
		return ApprovalUnreviewed
	}
}

// MarkPendingApproval queues the lead for operator review. Already reviewed
// leads are left alone.
func (l *Lead) MarkPendingApproval() error {
	if l.EmailApproved {
		return apperr.Conflict("lead is already approved")
	}
	l.EmailPendingApproval = true
	return nil
}

// Approve clears the outreach gate. Approving an already approved lead is a
// no-op so duplicate clicks on an approval link stay harmless.
func (l *Lead) Approve() {
	l.EmailApproved = true
	l.EmailPendingApproval = false
}

// RejectApproval closes the email track without approving. It works from any
// state, so an approved lead can still be pulled back before the send goes
// out. Both flags are cleared and the system offers no reset path.
func (l *Lead) RejectApproval() {
	l.EmailApproved = false
	l.EmailPendingApproval = false
}

// CanSend reports whether the outreach gate lets an email go out right now,
// and if not, why. All three conditions must hold: the lead was approved,
// nothing has been sent yet, and the lead is still untouched in the funnel.
func (l *Lead) CanSend() (bool, string) {
	if !l.EmailApproved {
		return false, "not approved"
	}
	if l.EmailSent {
		return false, "already sent"
	}
	if l.Status != StatusNew {
		return false, "lead already in progress"
	}
	return true, ""
}
