package mailoutboxrepo

import (
	"context"
	"time"

	"posadmin/internal/core/domain/model/kernel"
	"posadmin/internal/core/ports"
	"posadmin/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormMailOutboxRepository implements MailOutboxRepository using GORM.
// The outbox is a plain table, not an aggregate: no tracker is involved.
type GormMailOutboxRepository struct {
	db *gorm.DB
}

// NewGormMailOutboxRepository creates a new GORM mail outbox repository.
func NewGormMailOutboxRepository(db *gorm.DB) *GormMailOutboxRepository {
	return &GormMailOutboxRepository{db: db}
}

// Enqueue stores an email message for asynchronous delivery.
func (r *GormMailOutboxRepository) Enqueue(ctx context.Context, message ports.EmailMessage) error {
	if err := message.ID.Validate(); err != nil {
		return err
	}

	dto := fromDomain(message)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return errs.NewPersistenceFailedError("enqueue order email", err)
	}

	return nil
}

// GetPending retrieves undelivered messages in enqueue order, up to limit.
func (r *GormMailOutboxRepository) GetPending(ctx context.Context, limit int) ([]ports.EmailMessage, error) {
	var dtos []EmailMessageDTO
	err := r.db.WithContext(ctx).
		Where("delivered_at IS NULL").
		Order("enqueued_at").
		Limit(limit).
		Find(&dtos).Error
	if err != nil {
		return nil, errs.NewPersistenceFailedError("get pending order emails", err)
	}

	messages := make([]ports.EmailMessage, 0, len(dtos))
	for _, dto := range dtos {
		message, convErr := toDomain(dto)
		if convErr != nil {
			return nil, convErr
		}
		messages = append(messages, message)
	}

	return messages, nil
}

// MarkDelivered stamps a message as delivered at the given time.
func (r *GormMailOutboxRepository) MarkDelivered(ctx context.Context, id kernel.UUID, at time.Time) error {
	if err := id.Validate(); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Model(&EmailMessageDTO{}).
		Where("id = ?", id.Bytes()).
		Update("delivered_at", at)
	if result.Error != nil {
		return errs.NewPersistenceFailedError("mark order email delivered", result.Error)
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("order email", id.String())
	}

	return nil
}
