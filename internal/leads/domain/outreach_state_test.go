package domain

import "testing"

func TestApprovalFlow(t *testing.T) {
	lead := &Lead{Status: StatusNew}

	if got := lead.Approval(); got != ApprovalUnreviewed {
		t.Fatalf("fresh lead approval = %v, want %v", got, ApprovalUnreviewed)
	}

	if err := lead.MarkPendingApproval(); err != nil {
		t.Fatalf("MarkPendingApproval: %v", err)
	}
	if got := lead.Approval(); got != ApprovalPending {
		t.Fatalf("after queueing, approval = %v, want %v", got, ApprovalPending)
	}

	lead.Approve()
	if got := lead.Approval(); got != ApprovalApproved {
		t.Fatalf("after approve, approval = %v, want %v", got, ApprovalApproved)
	}
	if lead.EmailPendingApproval {
		t.Error("approve must clear the pending flag")
	}

	// duplicate approval is a no-op
	lead.Approve()
	if got := lead.Approval(); got != ApprovalApproved {
		t.Fatalf("double approve changed state to %v", got)
	}

	if err := lead.MarkPendingApproval(); err == nil {
		t.Error("expected re-queueing an approved lead to fail")
	}
}

func TestRejectClosesReview(t *testing.T) {
	lead := &Lead{Status: StatusNew}
	if err := lead.MarkPendingApproval(); err != nil {
		t.Fatalf("MarkPendingApproval: %v", err)
	}
	lead.RejectApproval()
	if lead.EmailPendingApproval || lead.EmailApproved {
		t.Errorf("rejected lead kept flags: pending=%v approved=%v",
			lead.EmailPendingApproval, lead.EmailApproved)
	}
}

func TestRejectRevokesApproval(t *testing.T) {
	lead := &Lead{Status: StatusNew}
	if err := lead.MarkPendingApproval(); err != nil {
		t.Fatalf("MarkPendingApproval: %v", err)
	}
	lead.Approve()

	// an approved lead can still be rejected before anything is sent
	lead.RejectApproval()
	if lead.EmailApproved || lead.EmailPendingApproval {
		t.Errorf("reject left flags set: approved=%v pending=%v",
			lead.EmailApproved, lead.EmailPendingApproval)
	}
	if ok, reason := lead.CanSend(); ok || reason != "not approved" {
		t.Errorf("rejected lead still sendable: ok=%v reason=%q", ok, reason)
	}
}

func TestCanSend(t *testing.T) {
	tests := []struct {
		name   string
		lead   Lead
		want   bool
		reason string
	}{
		{
			name: "approved fresh lead",
			lead: Lead{Status: StatusNew, EmailApproved: true},
			want: true,
		},
		{
			name:   "not approved",
			lead:   Lead{Status: StatusNew},
			want:   false,
			reason: "not approved",
		},
		{
			name:   "already sent",
			lead:   Lead{Status: StatusNew, EmailApproved: true, EmailSent: true},
			want:   false,
			reason: "already sent",
		},
		{
			name:   "already contacted",
			lead:   Lead{Status: StatusContacted, EmailApproved: true},
			want:   false,
			reason: "lead already in progress",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, reason := tt.lead.CanSend()
			if ok != tt.want {
				t.Errorf("CanSend() = %v, want %v", ok, tt.want)
			}
			if reason != tt.reason {
				t.Errorf("reason = %q, want %q", reason, tt.reason)
			}
		})
	}
}
