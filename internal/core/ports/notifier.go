package ports

import "context"

// SendEmailParams carries one outbound transactional email.
type SendEmailParams struct {
	To       string
	Subject  string
	BodyHTML string
	Tag      string
}

// EmailSender delivers a single email. Implementations are the delivery edge
// (Postmark in production, a log-only sender in development).
type EmailSender interface {
	SendEmail(ctx context.Context, params SendEmailParams) error
}

// Notifier is the auth core's view of outbound notifications. Calls are
// best-effort: a delivery failure is logged and never surfaces to the request
// that triggered it.
type Notifier interface {
	SendPasswordReset(ctx context.Context, to, fullName, resetToken string) error
}
