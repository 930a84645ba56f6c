package email

import (
	"context"
	"strings"
	"testing"

	"github.com/viptransport/booking-api/internal/core/ports"
)

type captureQueue struct {
	sent []ports.SendEmailParams
}

func (q *captureQueue) Enqueue(params ports.SendEmailParams) {
	q.sent = append(q.sent, params)
}

func TestResetNotifierEnqueuesMail(t *testing.T) {
	q := &captureQueue{}
	n := NewResetNotifier(q, "https://app.example.com/")

	err := n.SendPasswordReset(context.Background(), "alice@example.com", "Alice Jones", "tok-123")
	if err != nil {
		t.Fatalf("SendPasswordReset: %v", err)
	}
	if len(q.sent) != 1 {
		t.Fatalf("enqueued %d emails, want 1", len(q.sent))
	}

	msg := q.sent[0]
	if msg.To != "alice@example.com" {
		t.Errorf("To = %q, want alice@example.com", msg.To)
	}
	if msg.Tag != resetTag {
		t.Errorf("Tag = %q, want %q", msg.Tag, resetTag)
	}
	// Trailing slash on the frontend URL must not double up in the link.
	if !strings.Contains(msg.BodyHTML, "https://app.example.com/reset-password?token=tok-123") {
		t.Errorf("body does not carry the reset link: %q", msg.BodyHTML)
	}
	if !strings.Contains(msg.BodyHTML, "Alice Jones") {
		t.Errorf("body does not greet the recipient: %q", msg.BodyHTML)
	}
}

func TestResetNotifierEscapesTokenAndName(t *testing.T) {
	q := &captureQueue{}
	n := NewResetNotifier(q, "http://localhost:3000")

	err := n.SendPasswordReset(context.Background(), "bob@example.com", `Bob <script>`, "a+b/c=")
	if err != nil {
		t.Fatalf("SendPasswordReset: %v", err)
	}

	body := q.sent[0].BodyHTML
	if strings.Contains(body, "<script>") {
		t.Errorf("recipient name not HTML-escaped: %q", body)
	}
	if !strings.Contains(body, "token=a%2Bb%2Fc%3D") {
		t.Errorf("token not query-escaped in link: %q", body)
	}
}
