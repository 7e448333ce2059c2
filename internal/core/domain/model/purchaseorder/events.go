package purchaseorder

import (
	"time"

	"posadmin/internal/core/domain/model/kernel"
)

// StatusChanged is the domain event emitted for every successful status
// transition. It is persisted in the same transaction as the order write
// and consumed by the notification subsystem, which polls independently.
type StatusChanged struct {
	OrderID     kernel.UUID
	OrderNumber string
	From        Status
	To          Status
	Actor       string
	OccurredAt  time.Time
}

// PendingEvents returns the domain events accumulated by transitions since
// the aggregate was constructed or last cleared.
func (o *PurchaseOrder) PendingEvents() []StatusChanged {
	return append([]StatusChanged(nil), o.pendingEvents...)
}

// ClearPendingEvents discards the accumulated events. Repositories call it
// after persisting the events alongside the order.
func (o *PurchaseOrder) ClearPendingEvents() {
	o.pendingEvents = nil
}
