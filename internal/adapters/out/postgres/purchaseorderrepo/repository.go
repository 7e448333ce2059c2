package purchaseorderrepo

import (
	"context"
	"errors"

	"posadmin/internal/core/domain/model/kernel"
	"posadmin/internal/core/domain/model/purchaseorder"
	"posadmin/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormPurchaseOrderRepository implements PurchaseOrderRepository using GORM.
type GormPurchaseOrderRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormPurchaseOrderRepository creates a new GORM purchase-order repository.
func NewGormPurchaseOrderRepository(db *gorm.DB, tracker aggregateTracker) *GormPurchaseOrderRepository {
	return &GormPurchaseOrderRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new purchase order to the database together with its line
// items and pending status-change events.
func (r *GormPurchaseOrderRepository) Add(ctx context.Context, aggregate *purchaseorder.PurchaseOrder) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return errs.NewPersistenceFailedError("add purchase order", err)
	}

	if err := r.insertEvents(ctx, aggregate); err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update saves an existing purchase order to the database.
// The header columns a transition may touch are written explicitly, line
// items are replaced wholesale, and pending events are appended to the
// event log. Everything rides the caller's transaction.
func (r *GormPurchaseOrderRepository) Update(ctx context.Context, aggregate *purchaseorder.PurchaseOrder) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)

	result := r.db.WithContext(ctx).Model(&PurchaseOrderDTO{}).
		Where("id = ?", dto.ID).
		Updates(map[string]any{
			"status":        dto.Status,
			"notes":         dto.Notes,
			"approved_by":   dto.ApprovedBy,
			"approved_at":   dto.ApprovedAt,
			"received_date": dto.ReceivedDate,
			"email_sent_at": dto.EmailSentAt,
		})
	if result.Error != nil {
		return errs.NewPersistenceFailedError("update purchase order", result.Error)
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("purchase order", aggregate.ID().String())
	}

	if err := r.replaceLines(ctx, dto); err != nil {
		return err
	}

	if err := r.insertEvents(ctx, aggregate); err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves a purchase order by ID with its line items.
func (r *GormPurchaseOrderRepository) Get(
	ctx context.Context,
	id kernel.UUID,
) (*purchaseorder.PurchaseOrder, error) {
	return r.get(ctx, id, false)
}

// GetForUpdate retrieves a purchase order by ID and locks its header row for
// the duration of the current transaction. Concurrent transitions on the
// same order serialize here.
func (r *GormPurchaseOrderRepository) GetForUpdate(
	ctx context.Context,
	id kernel.UUID,
) (*purchaseorder.PurchaseOrder, error) {
	return r.get(ctx, id, true)
}

func (r *GormPurchaseOrderRepository) get(
	ctx context.Context,
	id kernel.UUID,
	forUpdate bool,
) (*purchaseorder.PurchaseOrder, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	query := r.db.WithContext(ctx)
	if forUpdate {
		query = query.Clauses(clause.Locking{Strength: "UPDATE", Table: clause.Table{Name: "purchase_orders"}})
	}

	var dto PurchaseOrderDTO
	if err := query.Preload("Lines").First(&dto, "purchase_orders.id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("purchase order", id.String())
		}
		return nil, errs.NewPersistenceFailedError("get purchase order", err)
	}

	return toDomain(dto)
}

// replaceLines rewrites the order's line rows to match the aggregate.
// A delete-and-insert keeps receipt updates simple: the line set is small
// and the caller already holds the order's row lock.
func (r *GormPurchaseOrderRepository) replaceLines(ctx context.Context, dto PurchaseOrderDTO) error {
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", dto.ID).
		Delete(&LineItemDTO{}).Error; err != nil {
		return errs.NewPersistenceFailedError("replace purchase order lines", err)
	}

	if len(dto.Lines) == 0 {
		return nil
	}

	if err := r.db.WithContext(ctx).Create(&dto.Lines).Error; err != nil {
		return errs.NewPersistenceFailedError("replace purchase order lines", err)
	}

	return nil
}

// insertEvents appends the aggregate's pending status-change events to the
// event log and clears them so a retried persistence call cannot double-write.
func (r *GormPurchaseOrderRepository) insertEvents(
	ctx context.Context,
	aggregate *purchaseorder.PurchaseOrder,
) error {
	events := eventsFromDomain(aggregate)
	if len(events) == 0 {
		return nil
	}

	if err := r.db.WithContext(ctx).Create(&events).Error; err != nil {
		return errs.NewPersistenceFailedError("append purchase order events", err)
	}

	aggregate.ClearPendingEvents()
	return nil
}
