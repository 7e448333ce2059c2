package purchaseorder

import (
	"errors"
	"fmt"
	"time"

	"posadmin/internal/core/domain/model/kernel"
	"posadmin/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// NotesMaxLength is the maximum length of the free-form notes field.
const NotesMaxLength = 500

var (
	// ErrPurchaseOrderIsNotConstructed is returned when a PurchaseOrder instance
	// was not created through NewPurchaseOrder or RestorePurchaseOrder.
	ErrPurchaseOrderIsNotConstructed = errors.New(
		"PurchaseOrder must be created via NewPurchaseOrder or RestorePurchaseOrder")

	// ErrEmailAlreadySent is the sentinel wrapped by EmailAlreadySentError.
	// It is a distinct, actionable error kind: callers can offer a forced
	// resend instead of surfacing a bare failure.
	ErrEmailAlreadySent = errors.New("order email was already sent")

	// ErrEmailNotSendable indicates the order is not in a status that permits
	// supplier email dispatch. Only Approved orders are finalized purchase
	// requests suitable for supplier communication.
	ErrEmailNotSendable = errors.New("order email can only be sent for approved orders")

	// ErrLineItemsNotReconciled indicates Confirm was attempted while at least
	// one line item has no recorded received quantity. It is a kind of
	// invalid transition: the order's data does not yet permit the edge.
	ErrLineItemsNotReconciled = fmt.Errorf(
		"%w: every line item needs a recorded received quantity before confirmation",
		ErrInvalidTransition)
)

// EmailAlreadySentError reports that the supplier email for an order was
// already dispatched. SentAt carries the original dispatch time.
type EmailAlreadySentError struct {
	OrderNumber string
	SentAt      time.Time
}

func (e *EmailAlreadySentError) Error() string {
	return fmt.Sprintf("email for order %s was already sent at %s",
		e.OrderNumber, e.SentAt.Format(time.RFC3339))
}

func (e *EmailAlreadySentError) Unwrap() error {
	return ErrEmailAlreadySent
}

// Totals is the monetary summary of a purchase order.
// The total is always derived from line items plus the stored tax amount;
// it is never an independently editable field.
type Totals struct {
	Subtotal  kernel.Money
	TaxAmount kernel.Money
	Total     kernel.Money
}

// PurchaseOrder is the aggregate root for the purchase-order lifecycle:
// the workflow by which a store orders goods from a supplier, has the order
// approved, records what was actually received, and finalizes or cancels it.
//
// PurchaseOrder follows these invariants:
//   - orderNumber and supplierID are immutable after creation
//   - status only moves along the edges of the lifecycle state machine
//   - taxAmount is an absolute currency value fixed at creation time,
//     never a raw percentage
//   - once Received or Cancelled the order is permanently immutable
//   - can only be created through NewPurchaseOrder or RestorePurchaseOrder
type PurchaseOrder struct {
	id          kernel.UUID
	orderNumber string
	supplierID  kernel.UUID
	status      Status
	lineItems   []LineItem
	taxAmount   kernel.Money
	notes       string
	createdBy   string
	orderDate   time.Time

	approvedBy   *string
	approvedAt   *time.Time
	receivedDate *time.Time
	emailSentAt  *time.Time

	pendingEvents []StatusChanged
	isConstructed bool
}

// NewPurchaseOrder creates a purchase order in PendingApproval status with
// one or more line items. The tax amount is computed once here, from the
// user-supplied percentage rate applied to the subtotal at creation time,
// and stored as an absolute currency value; it is never re-derived later.
//
// Parameters:
//   - id: Unique identifier for the order
//   - orderNumber: Human-readable unique order number, immutable
//   - supplierID: Supplier the goods are ordered from, immutable
//   - createdBy: Name of the creating actor
//   - orderDate: Business date of the order
//   - notes: Free-form notes, at most NotesMaxLength characters
//   - items: At least one line item
//   - taxRate: Tax percentage in [0, 100] applied to the creation-time subtotal
//
// Returns:
//   - *PurchaseOrder: The created order if all validations pass
//   - error: Validation error if any parameter is invalid
func NewPurchaseOrder(
	id kernel.UUID,
	orderNumber string,
	supplierID kernel.UUID,
	createdBy string,
	orderDate time.Time,
	notes string,
	items []LineItem,
	taxRate decimal.Decimal,
) (*PurchaseOrder, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if orderNumber == "" {
		return nil, errs.NewValueIsRequiredError("order number")
	}
	if err := supplierID.Validate(); err != nil {
		return nil, err
	}
	if createdBy == "" {
		return nil, errs.NewValueIsRequiredError("created by")
	}
	if len(notes) > NotesMaxLength {
		return nil, errs.NewValueIsOutOfRangeError("notes length", len(notes), 0, NotesMaxLength)
	}
	if len(items) == 0 {
		return nil, errs.NewValueIsRequiredError("line items")
	}
	if taxRate.IsNegative() || taxRate.GreaterThan(decimal.NewFromInt(100)) {
		return nil, errs.NewValueIsOutOfRangeError("tax rate", taxRate.String(), 0, 100)
	}

	order := &PurchaseOrder{
		id:            id,
		orderNumber:   orderNumber,
		supplierID:    supplierID,
		status:        PendingApproval,
		lineItems:     append([]LineItem(nil), items...),
		notes:         notes,
		createdBy:     createdBy,
		orderDate:     orderDate,
		isConstructed: true,
	}
	order.taxAmount = order.subtotal().MulRatePercent(taxRate)

	return order, nil
}

// Snapshot carries the persisted state of a purchase order for rehydration.
type Snapshot struct {
	ID           kernel.UUID
	OrderNumber  string
	SupplierID   kernel.UUID
	Status       Status
	Items        []LineItem
	TaxAmount    kernel.Money
	Notes        string
	CreatedBy    string
	OrderDate    time.Time
	ApprovedBy   *string
	ApprovedAt   *time.Time
	ReceivedDate *time.Time
	EmailSentAt  *time.Time
}

// RestorePurchaseOrder reconstructs a purchase order from persistence.
// The snapshot's status must be valid; the stored tax amount is taken as
// authoritative and is not recomputed.
func RestorePurchaseOrder(snapshot Snapshot) (*PurchaseOrder, error) {
	if err := snapshot.ID.Validate(); err != nil {
		return nil, err
	}
	if snapshot.OrderNumber == "" {
		return nil, errs.NewValueIsRequiredError("order number")
	}
	if err := snapshot.SupplierID.Validate(); err != nil {
		return nil, err
	}
	if err := snapshot.Status.Validate(); err != nil {
		return nil, err
	}
	if len(snapshot.Items) == 0 {
		return nil, errs.NewValueIsRequiredError("line items")
	}

	return &PurchaseOrder{
		id:            snapshot.ID,
		orderNumber:   snapshot.OrderNumber,
		supplierID:    snapshot.SupplierID,
		status:        snapshot.Status,
		lineItems:     append([]LineItem(nil), snapshot.Items...),
		taxAmount:     snapshot.TaxAmount,
		notes:         snapshot.Notes,
		createdBy:     snapshot.CreatedBy,
		orderDate:     snapshot.OrderDate,
		approvedBy:    snapshot.ApprovedBy,
		approvedAt:    snapshot.ApprovedAt,
		receivedDate:  snapshot.ReceivedDate,
		emailSentAt:   snapshot.EmailSentAt,
		isConstructed: true,
	}, nil
}

// Validate ensures the PurchaseOrder instance was properly constructed.
// This prevents bypassing validation by directly instantiating the struct.
func (o *PurchaseOrder) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrPurchaseOrderIsNotConstructed
	}
	return nil
}

// IsEqual compares two orders by their unique identifiers.
func (o *PurchaseOrder) IsEqual(other *PurchaseOrder) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order's unique identifier.
func (o *PurchaseOrder) ID() kernel.UUID {
	return o.id
}

// OrderNumber returns the human-readable unique order number.
func (o *PurchaseOrder) OrderNumber() string {
	return o.orderNumber
}

// SupplierID returns the supplier the goods are ordered from.
func (o *PurchaseOrder) SupplierID() kernel.UUID {
	return o.supplierID
}

// Status returns the current lifecycle status of the order.
func (o *PurchaseOrder) Status() Status {
	return o.status
}

// LineItems returns a copy of the order's line items in their stable
// display order.
func (o *PurchaseOrder) LineItems() []LineItem {
	return append([]LineItem(nil), o.lineItems...)
}

// TaxAmount returns the absolute tax amount stored at creation time.
func (o *PurchaseOrder) TaxAmount() kernel.Money {
	return o.taxAmount
}

// Notes returns the free-form notes recorded at creation time.
func (o *PurchaseOrder) Notes() string {
	return o.notes
}

// CreatedBy returns the name of the creating actor.
func (o *PurchaseOrder) CreatedBy() string {
	return o.createdBy
}

// OrderDate returns the business date of the order.
func (o *PurchaseOrder) OrderDate() time.Time {
	return o.orderDate
}

// ApprovedBy returns the approving actor's name, or nil before approval.
func (o *PurchaseOrder) ApprovedBy() *string {
	return o.approvedBy
}

// ApprovedAt returns the approval timestamp, or nil before approval.
func (o *PurchaseOrder) ApprovedAt() *time.Time {
	return o.approvedAt
}

// ReceivedDate returns the receipt confirmation timestamp, or nil before
// confirmation.
func (o *PurchaseOrder) ReceivedDate() *time.Time {
	return o.receivedDate
}

// EmailSentAt returns the supplier email dispatch timestamp, or nil if no
// email was sent.
func (o *PurchaseOrder) EmailSentAt() *time.Time {
	return o.emailSentAt
}

// AllLinesReconciled reports whether every line item carries a recorded
// received quantity. An order reconciled with all-zero receipts counts:
// zero is a recorded value, distinct from "not yet recorded".
func (o *PurchaseOrder) AllLinesReconciled() bool {
	for _, item := range o.lineItems {
		if !item.IsReconciled() {
			return false
		}
	}
	return true
}

// Totals aggregates the line items into a subtotal under the current
// status, adds the stored tax amount, and returns the order total rounded
// to the smallest currency unit.
func (o *PurchaseOrder) Totals() Totals {
	subtotal := o.subtotal()
	return Totals{
		Subtotal:  subtotal,
		TaxAmount: o.taxAmount,
		Total:     subtotal.Add(o.taxAmount).Round(),
	}
}

func (o *PurchaseOrder) subtotal() kernel.Money {
	subtotal := kernel.ZeroMoney()
	for _, item := range o.lineItems {
		subtotal = subtotal.Add(item.LineTotal(o.status))
	}
	return subtotal
}

// Approve moves the order from PendingApproval to Approved and stamps the
// approving actor and time.
func (o *PurchaseOrder) Approve(actor string, at time.Time) error {
	if actor == "" {
		return errs.NewValueIsRequiredError("actor")
	}

	newStatus, err := o.status.Apply(TransitionApprove)
	if err != nil {
		return err
	}

	o.approvedBy = &actor
	approvedAt := at
	o.approvedAt = &approvedAt
	o.changeStatus(newStatus, actor, at)
	return nil
}

// SubmitReconciliation records received quantities for the supplied line
// items and moves the order from Approved to AwaitingConfirmation.
//
// Every supplied quantity must satisfy 0 <= received <= ordered; violating
// entries are rejected with an out-of-range error before any write. Entries
// for unknown products are rejected as not found.
func (o *PurchaseOrder) SubmitReconciliation(actor string, receipts map[kernel.UUID]int, at time.Time) error {
	if actor == "" {
		return errs.NewValueIsRequiredError("actor")
	}

	newStatus, err := o.status.Apply(TransitionSubmitReconciliation)
	if err != nil {
		return err
	}
	if len(receipts) == 0 {
		return errs.NewValueIsRequiredError("received quantities")
	}
	if err = o.applyReceipts(receipts); err != nil {
		return err
	}

	o.changeStatus(newStatus, actor, at)
	return nil
}

// Revert undoes a reconciliation submission, moving the order from
// AwaitingConfirmation back to Approved. Recorded received quantities are
// kept: once set they are never unset again.
func (o *PurchaseOrder) Revert(actor string, at time.Time) error {
	if actor == "" {
		return errs.NewValueIsRequiredError("actor")
	}

	newStatus, err := o.status.Apply(TransitionRevert)
	if err != nil {
		return err
	}

	o.changeStatus(newStatus, actor, at)
	return nil
}

// Confirm finalizes receipt, moving the order from AwaitingConfirmation to
// Received and stamping the received date. Optional final receipt edits may
// be supplied; they are validated and applied before the all-reconciled
// check. Confirmation requires every line item to carry a recorded received
// quantity - all-zero receipts qualify.
func (o *PurchaseOrder) Confirm(actor string, receipts map[kernel.UUID]int, at time.Time) error {
	if actor == "" {
		return errs.NewValueIsRequiredError("actor")
	}

	newStatus, err := o.status.Apply(TransitionConfirm)
	if err != nil {
		return err
	}
	if len(receipts) > 0 {
		if err = o.applyReceipts(receipts); err != nil {
			return err
		}
	}
	if !o.AllLinesReconciled() {
		return ErrLineItemsNotReconciled
	}

	receivedDate := at
	o.receivedDate = &receivedDate
	o.changeStatus(newStatus, actor, at)
	return nil
}

// Cancel cancels a non-terminal order. Cancelled is terminal: a second
// cancel fails with an invalid-transition error and causes no side effects.
func (o *PurchaseOrder) Cancel(actor string, at time.Time) error {
	if actor == "" {
		return errs.NewValueIsRequiredError("actor")
	}

	newStatus, err := o.status.Apply(TransitionCancel)
	if err != nil {
		return err
	}

	o.changeStatus(newStatus, actor, at)
	return nil
}

// ApplyTransition dispatches a named transition to the corresponding
// aggregate operation. Receipts are only consulted for SubmitReconciliation
// and Confirm.
func (o *PurchaseOrder) ApplyTransition(
	transition Transition,
	actor string,
	receipts map[kernel.UUID]int,
	at time.Time,
) error {
	switch transition {
	case TransitionApprove:
		return o.Approve(actor, at)
	case TransitionSubmitReconciliation:
		return o.SubmitReconciliation(actor, receipts, at)
	case TransitionConfirm:
		return o.Confirm(actor, receipts, at)
	case TransitionRevert:
		return o.Revert(actor, at)
	case TransitionCancel:
		return o.Cancel(actor, at)
	default:
		return NewInvalidTransitionError(o.status, transition)
	}
}

// CanSendEmail checks whether the supplier email may be dispatched for this
// order. Sending is only permitted for Approved orders; a prior dispatch
// blocks re-sending unless forceResend is set.
func (o *PurchaseOrder) CanSendEmail(forceResend bool) error {
	if o.status != Approved {
		return fmt.Errorf("%w: order %s is %s", ErrEmailNotSendable, o.orderNumber, o.status)
	}
	if o.emailSentAt != nil && !forceResend {
		return &EmailAlreadySentError{OrderNumber: o.orderNumber, SentAt: *o.emailSentAt}
	}
	return nil
}

// RecordEmailSent performs the gate check and stamps the dispatch time.
// The check and the stamp are one operation on the aggregate so callers
// holding the per-order lock get an atomic check-and-set.
func (o *PurchaseOrder) RecordEmailSent(at time.Time, forceResend bool) error {
	if err := o.CanSendEmail(forceResend); err != nil {
		return err
	}
	sentAt := at
	o.emailSentAt = &sentAt
	return nil
}

// applyReceipts validates every supplied quantity against its line item and
// only then writes them, so a single violating entry leaves the order
// untouched.
func (o *PurchaseOrder) applyReceipts(receipts map[kernel.UUID]int) error {
	indexByProduct := make(map[kernel.UUID]int, len(o.lineItems))
	for i, item := range o.lineItems {
		indexByProduct[item.ProductID()] = i
	}

	for productID, received := range receipts {
		idx, ok := indexByProduct[productID]
		if !ok {
			return errs.NewObjectNotFoundError("line item product", productID.String())
		}
		item := o.lineItems[idx]
		if received < 0 || received > item.Quantity() {
			return errs.NewValueIsOutOfRangeError(
				fmt.Sprintf("received quantity for product %s", productID),
				received, 0, item.Quantity(),
			)
		}
	}

	for productID, received := range receipts {
		if err := o.lineItems[indexByProduct[productID]].recordReceipt(received); err != nil {
			return err
		}
	}
	return nil
}

func (o *PurchaseOrder) changeStatus(newStatus Status, actor string, at time.Time) {
	from := o.status
	o.status = newStatus
	o.pendingEvents = append(o.pendingEvents, StatusChanged{
		OrderID:     o.id,
		OrderNumber: o.orderNumber,
		From:        from,
		To:          newStatus,
		Actor:       actor,
		OccurredAt:  at,
	})
}
