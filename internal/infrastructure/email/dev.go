package email

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/viptransport/booking-api/internal/core/ports"
)

// DevSender logs outbound email instead of delivering it. Used when no
// Postmark credentials are configured, so local runs exercise the full flow
// without a mail provider.
type DevSender struct {
	log zerolog.Logger
}

func NewDevSender(log zerolog.Logger) *DevSender {
	return &DevSender{log: log}
}

func (s *DevSender) SendEmail(_ context.Context, params ports.SendEmailParams) error {
	s.log.Info().
		Str("to", params.To).
		Str("subject", params.Subject).
		Str("tag", params.Tag).
		Msg("dev mail sender: email not delivered")
	s.log.Debug().Str("body", params.BodyHTML).Msg("dev mail sender: body")
	return nil
}
