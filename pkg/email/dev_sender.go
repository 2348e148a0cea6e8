package email

import (
	"context"
	"log/slog"
)

// devSender implements EmailSender for local development. It logs the email
// instead of delivering it, so flows that dispatch mail can run without
// Postmark credentials.
type devSender struct {
	log *slog.Logger
}

// NewDevSender creates a development email sender that writes emails to the
// given logger. A nil logger falls back to slog.Default().
func NewDevSender(log *slog.Logger) EmailSender {
	if log == nil {
		log = slog.Default()
	}
	return &devSender{log: log}
}

func (s *devSender) SendEmail(ctx context.Context, params SendEmailParams) error {
	if err := params.Validate(); err != nil {
		return err
	}

	s.log.InfoContext(ctx, "email (dev sender, not delivered)",
		slog.String("to", params.SendTo),
		slog.String("subject", params.Subject),
		slog.String("tag", params.Tag),
		slog.Int("body_bytes", len(params.BodyHTML)),
	)
	return nil
}
