package mailer

import (
	"context"
	"log/slog"
)

type devSender struct {
	logger *slog.Logger
}

// NewDevSender returns a Sender that logs outgoing mail instead of delivering
// it. Used in local development so the portal never needs real Postmark
// credentials outside production.
func NewDevSender(logger *slog.Logger) Sender {
	return &devSender{logger: logger}
}

func (s *devSender) Send(_ context.Context, params SendParams) error {
	if err := params.Validate(); err != nil {
		return err
	}
	s.logger.Info("dev mailer: email not sent",
		"to", params.To,
		"subject", params.Subject,
		"tag", params.Tag,
		"body_length", len(params.BodyHTML))
	return nil
}
