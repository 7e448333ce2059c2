// Package emailclient provides the outbound email gateway used by the
// outbox dispatch job. The default implementation writes structured log
// records instead of talking to a mail server, which is sufficient for
// local development and test environments; ports.EmailClient keeps the
// transport swappable for a real gateway.
package emailclient

import (
	"context"
	"log/slog"

	"posadmin/internal/core/ports"
)

// LogEmailClient implements ports.EmailClient by logging each message.
type LogEmailClient struct {
	logger *slog.Logger
}

// NewLogEmailClient creates an email client that records sends in the log.
func NewLogEmailClient(logger *slog.Logger) *LogEmailClient {
	return &LogEmailClient{
		logger: logger.With("component", "email_client"),
	}
}

// Send records the outgoing message. Never fails.
func (c *LogEmailClient) Send(ctx context.Context, message ports.EmailMessage) error {
	c.logger.InfoContext(ctx, "Email sent",
		"message_id", message.ID.String(),
		"order_number", message.OrderNumber,
		"recipient", message.Recipient,
		"subject", message.Subject,
	)
	return nil
}
