package email

import (
	"context"
	"errors"
	"fmt"

	"github.com/mrz1836/postmark"

	"github.com/viptransport/booking-api/internal/core/ports"
)

var ErrInvalidConfig = errors.New("email: invalid configuration")

// Config captures the settings for the Postmark-backed sender.
type Config struct {
	ServerToken  string
	AccountToken string
	SenderEmail  string
}

// PostmarkSender delivers transactional email through Postmark.
type PostmarkSender struct {
	client *postmark.Client
	sender string
}

func NewPostmarkSender(cfg Config) (*PostmarkSender, error) {
	if cfg.ServerToken == "" || cfg.AccountToken == "" {
		return nil, fmt.Errorf("%w: postmark tokens are required", ErrInvalidConfig)
	}
	if cfg.SenderEmail == "" {
		return nil, fmt.Errorf("%w: sender email is required", ErrInvalidConfig)
	}

	return &PostmarkSender{
		client: postmark.NewClient(cfg.ServerToken, cfg.AccountToken),
		sender: cfg.SenderEmail,
	}, nil
}

func (s *PostmarkSender) SendEmail(ctx context.Context, params ports.SendEmailParams) error {
	resp, err := s.client.SendEmail(ctx, postmark.Email{
		From:     s.sender,
		To:       params.To,
		Subject:  params.Subject,
		Tag:      params.Tag,
		HTMLBody: params.BodyHTML,
	})
	if err != nil {
		return fmt.Errorf("postmark send: %w", err)
	}
	if resp.ErrorCode > 0 {
		return fmt.Errorf("postmark send: %d - %s", resp.ErrorCode, resp.Message)
	}
	return nil
}
