package commands

import (
	"errors"
	"time"

	"posadmin/internal/core/domain/model/kernel"
	"posadmin/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var (
	ErrCreatePurchaseOrderCommandIsNotConstructed = errors.New(
		"CreatePurchaseOrderCommand must be created via NewCreatePurchaseOrderCommand constructor",
	)
	ErrOrderNumberIsRequired = errors.New("order number is required")
	ErrCreatedByIsRequired   = errors.New("created by is required")
	ErrLineItemsAreRequired  = errors.New("at least one line item is required")
)

// LineItemInput carries one requested product line for order creation.
// The unit price arrives from the catalog as a default at creation time and
// is snapshotted onto the order; the catalog is never re-queried afterward.
type LineItemInput struct {
	ProductID   kernel.UUID
	ProductName string
	Quantity    int
	UnitPrice   kernel.Money
}

// CreatePurchaseOrderCommand represents a request to create a new purchase
// order in PendingApproval status. Encapsulates the order header, its line
// items and the tax rate to apply to the creation-time subtotal.
//
// Example:
//
//	orderID := kernel.NewUUID()
//	cmd, err := NewCreatePurchaseOrderCommand(
//	    orderID, "PO-2025-0042", supplierID, "casey",
//	    orderDate, "restock", items, decimal.NewFromInt(10))
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
//
//	handler := NewCreatePurchaseOrderCommandHandler(uowFactory)
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("failed to create order: %w", err)
//	}
type CreatePurchaseOrderCommand struct { //nolint:recvcheck //using for validation
	orderID     kernel.UUID
	orderNumber string
	supplierID  kernel.UUID
	createdBy   string
	orderDate   time.Time
	notes       string
	lineItems   []LineItemInput
	taxRate     decimal.Decimal

	guard guard.ConstructorGuard
}

// NewCreatePurchaseOrderCommand creates a command to register a new purchase
// order. Validates identifiers and requiredness here; deeper rules (notes
// length, quantity bounds, tax-rate range) are enforced by the aggregate.
func NewCreatePurchaseOrderCommand(
	orderID kernel.UUID,
	orderNumber string,
	supplierID kernel.UUID,
	createdBy string,
	orderDate time.Time,
	notes string,
	lineItems []LineItemInput,
	taxRate decimal.Decimal,
) (CreatePurchaseOrderCommand, error) {
	orderCommand := CreatePurchaseOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		orderCommand.setOrderID(orderID),
		orderCommand.setOrderNumber(orderNumber),
		orderCommand.setSupplierID(supplierID),
		orderCommand.setCreatedBy(createdBy),
		orderCommand.setLineItems(lineItems),
	); err != nil {
		return CreatePurchaseOrderCommand{}, err
	}

	orderCommand.orderDate = orderDate
	orderCommand.notes = notes
	orderCommand.taxRate = taxRate

	return orderCommand, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrCreatePurchaseOrderCommandIsNotConstructed if validation fails.
func (c CreatePurchaseOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreatePurchaseOrderCommandIsNotConstructed)
}

// OrderID returns the unique identifier for the order.
func (c CreatePurchaseOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// OrderNumber returns the human-readable unique order number.
func (c CreatePurchaseOrderCommand) OrderNumber() string {
	return c.orderNumber
}

// SupplierID returns the supplier the goods are ordered from.
func (c CreatePurchaseOrderCommand) SupplierID() kernel.UUID {
	return c.supplierID
}

// CreatedBy returns the name of the creating actor.
func (c CreatePurchaseOrderCommand) CreatedBy() string {
	return c.createdBy
}

// OrderDate returns the business date of the order.
func (c CreatePurchaseOrderCommand) OrderDate() time.Time {
	return c.orderDate
}

// Notes returns the free-form notes for the order.
func (c CreatePurchaseOrderCommand) Notes() string {
	return c.notes
}

// LineItems returns the requested product lines.
func (c CreatePurchaseOrderCommand) LineItems() []LineItemInput {
	return c.lineItems
}

// TaxRate returns the tax percentage to apply to the creation-time subtotal.
func (c CreatePurchaseOrderCommand) TaxRate() decimal.Decimal {
	return c.taxRate
}

func (c *CreatePurchaseOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *CreatePurchaseOrderCommand) setOrderNumber(orderNumber string) error {
	if orderNumber == "" {
		return ErrOrderNumberIsRequired
	}

	c.orderNumber = orderNumber
	return nil
}

func (c *CreatePurchaseOrderCommand) setSupplierID(supplierID kernel.UUID) error {
	if err := supplierID.Validate(); err != nil {
		return err
	}

	c.supplierID = supplierID
	return nil
}

func (c *CreatePurchaseOrderCommand) setCreatedBy(createdBy string) error {
	if createdBy == "" {
		return ErrCreatedByIsRequired
	}

	c.createdBy = createdBy
	return nil
}

func (c *CreatePurchaseOrderCommand) setLineItems(lineItems []LineItemInput) error {
	if len(lineItems) == 0 {
		return ErrLineItemsAreRequired
	}

	c.lineItems = append([]LineItemInput(nil), lineItems...)
	return nil
}
