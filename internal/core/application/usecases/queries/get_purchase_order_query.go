package queries

import (
	"errors"
	"time"

	"posadmin/internal/core/domain/model/kernel"
	"posadmin/internal/core/domain/model/purchaseorder"
	"posadmin/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var (
	ErrGetPurchaseOrderQueryIsNotConstructed = errors.New(
		"GetPurchaseOrderQuery must be created via NewGetPurchaseOrderQuery constructor",
	)
)

// GetPurchaseOrderQuery retrieves one purchase order with its line items,
// totals and status history.
//
// Example:
//
//	query, err := NewGetPurchaseOrderQuery(orderID)
//	if err != nil {
//	    return err
//	}
//
//	handler := NewGetPurchaseOrderQueryHandler(db)
//	order, err := handler.Handle(ctx, query)
//	if errors.Is(err, errs.ErrObjectNotFound) {
//	    // Unknown order ID
//	}
type GetPurchaseOrderQuery struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetPurchaseOrderQuery creates a query for a single order's detail view.
func NewGetPurchaseOrderQuery(orderID kernel.UUID) (GetPurchaseOrderQuery, error) {
	orderQuery := GetPurchaseOrderQuery{guard: guard.NewConstructorGuard()}

	if err := orderQuery.setOrderID(orderID); err != nil {
		return GetPurchaseOrderQuery{}, err
	}

	return orderQuery, nil
}

// Validate ensures the query was created through the constructor.
// Returns ErrGetPurchaseOrderQueryIsNotConstructed if validation fails.
func (q GetPurchaseOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetPurchaseOrderQueryIsNotConstructed)
}

// OrderID returns the target order's unique identifier.
func (q GetPurchaseOrderQuery) OrderID() kernel.UUID {
	return q.orderID
}

func (q *GetPurchaseOrderQuery) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	q.orderID = orderID
	return nil
}

// LineItemResponse is one product line in the order detail view.
// LineTotal reflects the valuation basis of the order's current status.
type LineItemResponse struct {
	ProductID        kernel.UUID
	ProductName      string
	Quantity         int
	UnitPrice        kernel.Money
	ReceivedQuantity *int
	LineTotal        kernel.Money
}

// StatusChangeResponse is one entry of an order's status history.
type StatusChangeResponse struct {
	From       purchaseorder.Status
	To         purchaseorder.Status
	Actor      string
	OccurredAt time.Time
}

// GetPurchaseOrderQueryResponse is the full detail view of one order.
//
// TaxRatePercent is a display-only derivation from the stored absolute tax
// amount and the current subtotal; the stored amount is the authoritative
// value and is never recomputed from the rate.
type GetPurchaseOrderQueryResponse struct {
	ID             kernel.UUID
	OrderNumber    string
	SupplierID     kernel.UUID
	Status         purchaseorder.Status
	Notes          string
	CreatedBy      string
	OrderDate      time.Time
	ApprovedBy     *string
	ApprovedAt     *time.Time
	ReceivedDate   *time.Time
	EmailSentAt    *time.Time
	LineItems      []LineItemResponse
	Subtotal       kernel.Money
	TaxAmount      kernel.Money
	TaxRatePercent decimal.Decimal
	Total          kernel.Money
	History        []StatusChangeResponse
}
