// Package purchaseorderrepo provides data transfer objects and mapping functions
// for purchase-order persistence. This package implements the repository pattern
// for the purchase-order domain aggregate, handling the conversion between
// domain entities and database representations.
package purchaseorderrepo

import (
	"sort"
	"time"

	"posadmin/internal/core/domain/model/kernel"
	"posadmin/internal/core/domain/model/purchaseorder"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PurchaseOrderDTO represents the database structure for persisting
// purchase-order aggregates. Maps the aggregate header to a relational table
// with indexing for status filtering and supplier lookups.
type PurchaseOrderDTO struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderNumber  string          `gorm:"uniqueIndex;not null"`
	SupplierID   uuid.UUID       `gorm:"type:uuid;index"`
	Status       int             `gorm:"index"`
	TaxAmount    decimal.Decimal `gorm:"type:numeric(12,2)"`
	Notes        string
	CreatedBy    string
	OrderDate    time.Time
	ApprovedBy   *string
	ApprovedAt   *time.Time
	ReceivedDate *time.Time
	EmailSentAt  *time.Time

	Lines []LineItemDTO `gorm:"foreignKey:OrderID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the database table name for purchase-order entities.
// Overrides GORM's default naming convention to use "purchase_orders".
func (PurchaseOrderDTO) TableName() string {
	return "purchase_orders"
}

// LineItemDTO represents one product line of a purchase order.
// Position preserves the stable display order of lines within the order.
type LineItemDTO struct {
	OrderID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	ProductID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Position         int
	ProductName      string
	Quantity         int
	UnitPrice        decimal.Decimal `gorm:"type:numeric(12,2)"`
	ReceivedQuantity *int
}

// TableName specifies the database table name for purchase-order lines.
func (LineItemDTO) TableName() string {
	return "purchase_order_lines"
}

// OrderEventDTO represents one recorded status change of a purchase order.
// Rows are written in the same transaction as the order and consumed by the
// notification subsystem, which polls independently.
type OrderEventDTO struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID     uuid.UUID `gorm:"type:uuid;index"`
	OrderNumber string
	FromStatus  int
	ToStatus    int
	Actor       string
	OccurredAt  time.Time `gorm:"index"`
}

// TableName specifies the database table name for purchase-order events.
func (OrderEventDTO) TableName() string {
	return "purchase_order_events"
}

// fromDomain converts a purchase-order domain aggregate to its database
// representation, line items included.
func fromDomain(aggregate *purchaseorder.PurchaseOrder) PurchaseOrderDTO {
	items := aggregate.LineItems()
	lines := make([]LineItemDTO, 0, len(items))
	for position, item := range items {
		lines = append(lines, LineItemDTO{
			OrderID:          aggregate.ID().Bytes(),
			ProductID:        item.ProductID().Bytes(),
			Position:         position,
			ProductName:      item.ProductName(),
			Quantity:         item.Quantity(),
			UnitPrice:        item.UnitPrice().Amount(),
			ReceivedQuantity: item.ReceivedQuantity(),
		})
	}

	return PurchaseOrderDTO{
		ID:           aggregate.ID().Bytes(),
		OrderNumber:  aggregate.OrderNumber(),
		SupplierID:   aggregate.SupplierID().Bytes(),
		Status:       int(aggregate.Status()),
		TaxAmount:    aggregate.TaxAmount().Amount(),
		Notes:        aggregate.Notes(),
		CreatedBy:    aggregate.CreatedBy(),
		OrderDate:    aggregate.OrderDate(),
		ApprovedBy:   aggregate.ApprovedBy(),
		ApprovedAt:   aggregate.ApprovedAt(),
		ReceivedDate: aggregate.ReceivedDate(),
		EmailSentAt:  aggregate.EmailSentAt(),
		Lines:        lines,
	}
}

// eventsFromDomain converts the aggregate's pending status-change events to
// their database representation.
func eventsFromDomain(aggregate *purchaseorder.PurchaseOrder) []OrderEventDTO {
	pending := aggregate.PendingEvents()
	events := make([]OrderEventDTO, 0, len(pending))
	for _, event := range pending {
		events = append(events, OrderEventDTO{
			ID:          uuid.New(),
			OrderID:     event.OrderID.Bytes(),
			OrderNumber: event.OrderNumber,
			FromStatus:  int(event.From),
			ToStatus:    int(event.To),
			Actor:       event.Actor,
			OccurredAt:  event.OccurredAt,
		})
	}
	return events
}

// toDomain converts a database DTO to a purchase-order domain aggregate.
// Reconstructs the complete aggregate including line items and receipts
// using RestorePurchaseOrder.
func toDomain(dto PurchaseOrderDTO) (*purchaseorder.PurchaseOrder, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	supplierID, err := kernel.UUIDFromBytes(dto.SupplierID[:])
	if err != nil {
		return nil, err
	}

	taxAmount, err := kernel.NewMoney(dto.TaxAmount)
	if err != nil {
		return nil, err
	}

	sort.Slice(dto.Lines, func(i, j int) bool {
		return dto.Lines[i].Position < dto.Lines[j].Position
	})

	items := make([]purchaseorder.LineItem, 0, len(dto.Lines))
	for _, line := range dto.Lines {
		productID, lineErr := kernel.UUIDFromBytes(line.ProductID[:])
		if lineErr != nil {
			return nil, lineErr
		}

		unitPrice, lineErr := kernel.NewMoney(line.UnitPrice)
		if lineErr != nil {
			return nil, lineErr
		}

		item, lineErr := purchaseorder.RestoreLineItem(
			productID, line.ProductName, line.Quantity, unitPrice, line.ReceivedQuantity)
		if lineErr != nil {
			return nil, lineErr
		}
		items = append(items, item)
	}

	return purchaseorder.RestorePurchaseOrder(purchaseorder.Snapshot{
		ID:           id,
		OrderNumber:  dto.OrderNumber,
		SupplierID:   supplierID,
		Status:       purchaseorder.Status(dto.Status),
		Items:        items,
		TaxAmount:    taxAmount,
		Notes:        dto.Notes,
		CreatedBy:    dto.CreatedBy,
		OrderDate:    dto.OrderDate,
		ApprovedBy:   dto.ApprovedBy,
		ApprovedAt:   dto.ApprovedAt,
		ReceivedDate: dto.ReceivedDate,
		EmailSentAt:  dto.EmailSentAt,
	})
}
