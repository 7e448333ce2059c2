// Package ports defines repository interfaces for the purchase-order domain.
// These interfaces establish contracts between the domain layer and infrastructure,
// enabling dependency inversion and testability.
package ports

import (
	"context"

	"posadmin/internal/core/domain/model/kernel"
	"posadmin/internal/core/domain/model/purchaseorder"
)

// PurchaseOrderRepository defines the persistence contract for purchase-order
// aggregates. Provides methods for storing, retrieving, and locking orders
// with their complete state including line items.
type PurchaseOrderRepository interface {
	// Add persists a new purchase-order aggregate to storage together with
	// its line items and any pending domain events.
	// The order must be valid and not already exist in the repository.
	Add(ctx context.Context, aggregate *purchaseorder.PurchaseOrder) error

	// Update persists changes to an existing purchase-order aggregate.
	// Line items are replaced wholesale and pending domain events are
	// appended to the event log in the same transaction.
	Update(ctx context.Context, aggregate *purchaseorder.PurchaseOrder) error

	// Get retrieves a purchase-order aggregate by its unique identifier.
	// Returns the complete order with all line items.
	Get(ctx context.Context, id kernel.UUID) (*purchaseorder.PurchaseOrder, error)

	// GetForUpdate retrieves a purchase-order aggregate and acquires a
	// per-order row lock for the duration of the current transaction.
	// Concurrent transitions on the same order serialize on this lock;
	// transitions on different orders proceed in parallel.
	//
	// Must be called inside an active transaction.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*purchaseorder.PurchaseOrder, error)
}
