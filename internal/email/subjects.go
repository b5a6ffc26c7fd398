package email

const (
	subjectOutreachFmt        = "Loved your work on %s"
	subjectApprovalRequestFmt = "Review lead: %s"
)
