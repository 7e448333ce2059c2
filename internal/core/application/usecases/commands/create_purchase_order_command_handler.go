package commands

import (
	"context"

	"posadmin/internal/core/domain/model/purchaseorder"
)

// CreatePurchaseOrderCommandHandler handles the business logic for purchase
// order creation. Builds the line items and the aggregate, which fixes the
// tax amount from the supplied rate and the creation-time subtotal, and
// persists the new order in PendingApproval status.
//
// Example:
//
//	handler := NewCreatePurchaseOrderCommandHandler(uowFactory)
//	cmd, _ := NewCreatePurchaseOrderCommand(orderID, "PO-2025-0042", supplierID,
//	    "casey", orderDate, "", items, decimal.NewFromInt(10))
//
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("order creation failed: %w", err)
//	}
//	// Order is now awaiting approval
type CreatePurchaseOrderCommandHandler struct {
	uowFactory OrderUoWFactory
}

// NewCreatePurchaseOrderCommandHandler creates a handler for order creation
// operations. Requires an OrderUoWFactory for transactional persistence.
func NewCreatePurchaseOrderCommandHandler(uowFactory OrderUoWFactory) CreatePurchaseOrderCommandHandler {
	return CreatePurchaseOrderCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the order creation command.
// Domain validation failures (bad quantities, notes length, tax-rate range)
// surface before the transaction begins; persistence failures roll back.
func (h CreatePurchaseOrderCommandHandler) Handle(ctx context.Context, cmd CreatePurchaseOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	items := make([]purchaseorder.LineItem, 0, len(cmd.LineItems()))
	for _, input := range cmd.LineItems() {
		item, err := purchaseorder.NewLineItem(
			input.ProductID, input.ProductName, input.Quantity, input.UnitPrice)
		if err != nil {
			return err
		}
		items = append(items, item)
	}

	order, err := purchaseorder.NewPurchaseOrder(
		cmd.OrderID(),
		cmd.OrderNumber(),
		cmd.SupplierID(),
		cmd.CreatedBy(),
		cmd.OrderDate(),
		cmd.Notes(),
		items,
		cmd.TaxRate(),
	)
	if err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.PurchaseOrderRepository().Add(ctx, order); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	return nil
}
