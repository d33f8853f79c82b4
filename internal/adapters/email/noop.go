package email

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// NoopSender logs emails instead of sending them. Used in development
// when no Resend API key is configured.
type NoopSender struct{}

// NewNoopSender creates a new NoopSender.
func NewNoopSender() *NoopSender {
	return &NoopSender{}
}

// Send logs the email and reports success without sending anything.
func (s *NoopSender) Send(ctx context.Context, req SendRequest) (SendResult, error) {
	slog.Info("noop_email_send", "to", req.To, "subject", req.Subject)
	return SendResult{
		MessageID: fmt.Sprintf("noop-%d", time.Now().UnixNano()),
		SentAt:    time.Now(),
	}, nil
}
