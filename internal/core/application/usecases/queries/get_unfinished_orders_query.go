package queries

import (
	"errors"
	"time"

	"posadmin/internal/core/domain/model/kernel"
	"posadmin/internal/core/domain/model/purchaseorder"
	"posadmin/internal/pkg/guard"
)

var (
	ErrGetUnfinishedOrdersQueryIsNotConstructed = errors.New(
		"GetUnfinishedOrdersQuery must be created via NewGetUnfinishedOrdersQuery constructor",
	)
)

// GetUnfinishedOrdersQuery retrieves all orders still moving through the
// lifecycle, i.e. not yet Received or Cancelled. Backs the admin console
// overview and the batch-selection preview.
//
// Example:
//
//	query := NewGetUnfinishedOrdersQuery()
//	handler := NewGetUnfinishedOrdersQueryHandler(db)
//
//	orders, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return fmt.Errorf("failed to get open orders: %w", err)
//	}
//
//	fmt.Printf("Found %d open purchase orders\n", len(orders))
type GetUnfinishedOrdersQuery struct {
	guard guard.ConstructorGuard
}

// NewGetUnfinishedOrdersQuery creates a query to retrieve open orders.
// This is a parameterless query that fetches every non-terminal order.
func NewGetUnfinishedOrdersQuery() GetUnfinishedOrdersQuery {
	return GetUnfinishedOrdersQuery{guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
// Returns ErrGetUnfinishedOrdersQueryIsNotConstructed if validation fails.
func (q GetUnfinishedOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetUnfinishedOrdersQueryIsNotConstructed)
}

// GetUnfinishedOrdersQueryResponse is one open order in the overview list.
// The monetary columns are computed in SQL under the same valuation basis
// the aggregate uses, so list and detail views always agree.
type GetUnfinishedOrdersQueryResponse struct {
	ID                  kernel.UUID
	OrderNumber         string
	SupplierID          kernel.UUID
	Status              purchaseorder.Status
	CreatedBy           string
	OrderDate           time.Time
	Subtotal            kernel.Money
	TaxAmount           kernel.Money
	Total               kernel.Money
	LineCount           int
	ReconciledLineCount int
	EmailSentAt         *time.Time
}
