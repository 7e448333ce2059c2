package ports

import "context"

// EmailClient is the transport used by the outbox dispatch job to hand a
// message to the email delivery service. Template rendering and SMTP
// mechanics live behind this interface; the core only decides what to send
// and when.
type EmailClient interface {
	// Send delivers a single outbox message. A returned error leaves the
	// message pending for a later dispatch attempt.
	Send(ctx context.Context, message EmailMessage) error
}
