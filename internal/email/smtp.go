package email

import (
	"context"
	"fmt"
	"net"
	"time"

	gomail "github.com/wneessen/go-mail"
)

// SMTPSender implements the Sender interface using a direct SMTP connection via go-mail.
type SMTPSender struct {
	host      string
	port      int
	username  string
	password  string
	fromName  string
	fromEmail string
}

// NewSMTPSender creates a new SMTPSender with the given SMTP credentials.
func NewSMTPSender(host string, port int, username, password, fromEmail, fromName string) *SMTPSender {
	return &SMTPSender{
		host:      host,
		port:      port,
		username:  username,
		password:  password,
		fromName:  fromName,
		fromEmail: fromEmail,
	}
}

func (s *SMTPSender) send(ctx context.Context, toEmail, subject, htmlContent string) error {
	msg := gomail.NewMsg()
	if err := msg.FromFormat(s.fromName, s.fromEmail); err != nil {
		return fmt.Errorf("smtp from: %w", err)
	}
	if err := msg.To(toEmail); err != nil {
		return fmt.Errorf("smtp to: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextHTML, htmlContent)

	client, err := gomail.NewClient(s.host,
		gomail.WithPort(s.port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(s.username),
		gomail.WithPassword(s.password),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
		gomail.WithTimeout(15*time.Second),
		gomail.WithDialContextFunc(func(dctx context.Context, _ string, addr string) (net.Conn, error) {
			return (&net.Dialer{}).DialContext(dctx, "tcp4", addr)
		}),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}

	return nil
}

func (s *SMTPSender) SendOutreachEmail(ctx context.Context, toEmail, ownerName, repoName, repoURL string) error {
	subject := fmt.Sprintf(subjectOutreachFmt, repoName)
	content, err := renderEmailTemplate("outreach.html", outreachEmailData{
		baseEmailData: baseEmailData{
			Title:   subject,
			Heading: fmt.Sprintf("Hi %s,", ownerName),
		},
		OwnerName: ownerName,
		RepoName:  repoName,
		RepoURL:   repoURL,
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subject, content)
}

func (s *SMTPSender) SendApprovalRequestEmail(ctx context.Context, toEmail, leadKey string, score float64, analysis, approveURL, rejectURL string) error {
	subject := fmt.Sprintf(subjectApprovalRequestFmt, leadKey)
	content, err := renderEmailTemplate("approval_request.html", approvalRequestEmailData{
		baseEmailData: baseEmailData{
			Title:    "Lead review",
			Heading:  "A lead is waiting for your review",
			CTALabel: "Approve outreach",
			CTAURL:   approveURL,
		},
		LeadKey:        leadKey,
		ScoreFormatted: fmt.Sprintf("%.2f", score),
		Analysis:       analysis,
		RejectURL:      rejectURL,
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subject, content)
}
