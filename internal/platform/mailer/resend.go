package mailer

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/resend/resend-go/v2"
)

// Resend sends transactional email through the Resend API. Implements the
// notification service's Mailer port.
type Resend struct {
	client   *resend.Client
	from     string
	logger   *slog.Logger
	failures atomic.Int64
}

func NewResend(apiKey, from string, logger *slog.Logger) *Resend {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resend{
		client: resend.NewClient(apiKey),
		from:   from,
		logger: logger,
	}
}

func (m *Resend) Send(ctx context.Context, to []string, subject, html string) error {
	if len(to) == 0 {
		return nil
	}
	_, err := m.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    m.from,
		To:      to,
		Subject: subject,
		Html:    html,
	})
	if err != nil {
		m.failures.Add(1)
		m.logger.Warn("email send failed",
			"event", "mailer_send_failed",
			"module", "internal/platform/mailer",
			"layer", "platform",
			"recipient_count", len(to),
			"failure_total", m.failures.Load(),
			"error", err.Error(),
		)
		return fmt.Errorf("send email: %w", err)
	}
	return nil
}

// FailureCount is the number of failed sends since startup.
func (m *Resend) FailureCount() int64 {
	return m.failures.Load()
}
