package ports

import (
	"context"
	"time"

	"posadmin/internal/core/domain/model/kernel"
)

// EmailMessage is an outbox entry for a supplier purchase-order email.
// Rows are written in the same transaction as the order they belong to and
// delivered asynchronously by a background job, so a crash between gate
// approval and transport never loses or duplicates a dispatch decision.
type EmailMessage struct {
	ID          kernel.UUID
	OrderID     kernel.UUID
	OrderNumber string
	Recipient   string
	Subject     string
	Body        string
	EnqueuedAt  time.Time
	DeliveredAt *time.Time
}

// MailOutboxRepository defines the persistence contract for the email outbox.
type MailOutboxRepository interface {
	// Enqueue stores an email message for asynchronous delivery.
	// Must be called inside the transaction that records the dispatch
	// decision on the order.
	Enqueue(ctx context.Context, message EmailMessage) error

	// GetPending retrieves undelivered messages in enqueue order, up to the
	// given limit.
	GetPending(ctx context.Context, limit int) ([]EmailMessage, error)

	// MarkDelivered stamps a message as delivered at the given time.
	MarkDelivered(ctx context.Context, id kernel.UUID, at time.Time) error
}
