package purchaseorder

import (
	"fmt"

	"posadmin/internal/core/domain/model/kernel"
	"posadmin/internal/pkg/errs"
)

// LineItem represents one product entry on a purchase order: what was
// ordered, at what unit price, and - once reconciliation begins - how much
// was actually received.
//
// LineItem invariants:
//   - quantity is a positive integer
//   - unitPrice is fixed at order creation/edit time and never re-derived
//     from the catalog once set
//   - receivedQuantity is nil until a reconciliation edit is submitted;
//     once set it is never nil again, and zero is a legitimate recorded
//     value (a fully short-shipped line) distinct from "not yet recorded"
type LineItem struct {
	productID        kernel.UUID
	productName      string
	quantity         int
	unitPrice        kernel.Money
	receivedQuantity *int
}

// NewLineItem creates a line item for a newly ordered product.
// The product name is snapshotted at creation time so later catalog edits
// do not rewrite order history.
//
// Parameters:
//   - productID: Catalog identifier of the ordered product
//   - productName: Display-name snapshot taken at order time
//   - quantity: Ordered amount (must be > 0)
//   - unitPrice: Price per unit (Money, already validated non-negative)
//
// Returns:
//   - LineItem: The created line item with no received quantity recorded
//   - error: Validation error if any parameter is invalid
func NewLineItem(productID kernel.UUID, productName string, quantity int, unitPrice kernel.Money) (LineItem, error) {
	if err := productID.Validate(); err != nil {
		return LineItem{}, err
	}
	if productName == "" {
		return LineItem{}, errs.NewValueIsRequiredError("product name")
	}
	if quantity <= 0 {
		return LineItem{}, errs.NewValueIsInvalidErrorWithCause(
			"quantity is invalid",
			fmt.Errorf("%d is not greater than 0", quantity),
		)
	}

	return LineItem{
		productID:   productID,
		productName: productName,
		quantity:    quantity,
		unitPrice:   unitPrice,
	}, nil
}

// RestoreLineItem reconstructs a line item from persistence, including a
// previously recorded received quantity.
func RestoreLineItem(
	productID kernel.UUID,
	productName string,
	quantity int,
	unitPrice kernel.Money,
	receivedQuantity *int,
) (LineItem, error) {
	item, err := NewLineItem(productID, productName, quantity, unitPrice)
	if err != nil {
		return LineItem{}, err
	}

	if receivedQuantity != nil {
		if err = item.recordReceipt(*receivedQuantity); err != nil {
			return LineItem{}, err
		}
	}

	return item, nil
}

// ProductID returns the catalog identifier of the ordered product.
func (li LineItem) ProductID() kernel.UUID {
	return li.productID
}

// ProductName returns the product name snapshot taken at order time.
func (li LineItem) ProductName() string {
	return li.productName
}

// Quantity returns the ordered amount.
func (li LineItem) Quantity() int {
	return li.quantity
}

// UnitPrice returns the fixed price per unit.
func (li LineItem) UnitPrice() kernel.Money {
	return li.unitPrice
}

// ReceivedQuantity returns the recorded received amount, or nil if receipt
// has not been recorded yet. A returned pointer to 0 means a fully
// short-shipped line, which is a recorded value.
func (li LineItem) ReceivedQuantity() *int {
	if li.receivedQuantity == nil {
		return nil
	}
	received := *li.receivedQuantity
	return &received
}

// IsReconciled reports whether a received quantity has been recorded for
// this line, including a recorded zero.
func (li LineItem) IsReconciled() bool {
	return li.receivedQuantity != nil
}

// LineTotal computes the line's monetary contribution under the order's
// current status, applying the dual-basis rule: once the order values
// receipts and this line has a recorded received quantity, that quantity
// is the basis - even when it is zero. Otherwise the ordered quantity is.
func (li LineItem) LineTotal(orderStatus Status) kernel.Money {
	basis := li.quantity
	if orderStatus.UsesReceivedBasis() && li.receivedQuantity != nil {
		basis = *li.receivedQuantity
	}
	return li.unitPrice.MulInt(basis)
}

// recordReceipt sets the received quantity for this line.
// The value must lie in [0, quantity]; violations are rejected with an
// out-of-range error before any state change.
func (li *LineItem) recordReceipt(received int) error {
	if received < 0 || received > li.quantity {
		return errs.NewValueIsOutOfRangeError(
			fmt.Sprintf("received quantity for product %s", li.productID),
			received, 0, li.quantity,
		)
	}
	li.receivedQuantity = &received
	return nil
}
