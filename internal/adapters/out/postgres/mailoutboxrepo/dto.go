// Package mailoutboxrepo provides persistence for the supplier email outbox.
// Outbox rows are written in the same transaction as the purchase order they
// belong to and delivered asynchronously by a background job.
package mailoutboxrepo

import (
	"time"

	"posadmin/internal/core/domain/model/kernel"
	"posadmin/internal/core/ports"

	"github.com/google/uuid"
)

// EmailMessageDTO represents the database structure for outbox entries.
type EmailMessageDTO struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID     uuid.UUID `gorm:"type:uuid;index"`
	OrderNumber string
	Recipient   string
	Subject     string
	Body        string
	EnqueuedAt  time.Time  `gorm:"index"`
	DeliveredAt *time.Time `gorm:"index"`
}

// TableName specifies the database table name for outbox entries.
func (EmailMessageDTO) TableName() string {
	return "purchase_order_email_outbox"
}

func fromDomain(message ports.EmailMessage) EmailMessageDTO {
	return EmailMessageDTO{
		ID:          message.ID.Bytes(),
		OrderID:     message.OrderID.Bytes(),
		OrderNumber: message.OrderNumber,
		Recipient:   message.Recipient,
		Subject:     message.Subject,
		Body:        message.Body,
		EnqueuedAt:  message.EnqueuedAt,
		DeliveredAt: message.DeliveredAt,
	}
}

func toDomain(dto EmailMessageDTO) (ports.EmailMessage, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return ports.EmailMessage{}, err
	}

	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return ports.EmailMessage{}, err
	}

	return ports.EmailMessage{
		ID:          id,
		OrderID:     orderID,
		OrderNumber: dto.OrderNumber,
		Recipient:   dto.Recipient,
		Subject:     dto.Subject,
		Body:        dto.Body,
		EnqueuedAt:  dto.EnqueuedAt,
		DeliveredAt: dto.DeliveredAt,
	}, nil
}
