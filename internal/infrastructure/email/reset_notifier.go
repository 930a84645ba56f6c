package email

import (
	"context"
	"fmt"
	"html"
	"net/url"
	"strings"

	"github.com/viptransport/booking-api/internal/core/ports"
)

const resetTag = "password-reset"

// Enqueuer accepts outbound mail for asynchronous delivery.
type Enqueuer interface {
	Enqueue(params ports.SendEmailParams)
}

// ResetNotifier implements ports.Notifier. It renders the reset email and
// hands it to the mail dispatcher; the caller's success path never waits on
// delivery.
type ResetNotifier struct {
	queue       Enqueuer
	frontendURL string
}

func NewResetNotifier(queue Enqueuer, frontendURL string) *ResetNotifier {
	return &ResetNotifier{
		queue:       queue,
		frontendURL: strings.TrimRight(frontendURL, "/"),
	}
}

func (n *ResetNotifier) SendPasswordReset(_ context.Context, to, fullName, resetToken string) error {
	link := fmt.Sprintf("%s/reset-password?token=%s", n.frontendURL, url.QueryEscape(resetToken))

	n.queue.Enqueue(ports.SendEmailParams{
		To:      to,
		Subject: "Reset your password",
		BodyHTML: fmt.Sprintf(
			`<p>Hi %s,</p>
<p>We received a request to reset your password. The link below is valid for one hour and can be used once:</p>
<p><a href="%s">Reset password</a></p>
<p>If you did not request this, you can safely ignore this email.</p>`,
			html.EscapeString(fullName), link,
		),
		Tag: resetTag,
	})
	return nil
}
