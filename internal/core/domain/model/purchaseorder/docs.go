// Package purchaseorder provides domain entities and business logic for the
// purchase-order lifecycle in the point-of-sale admin system. It implements
// the PurchaseOrder aggregate root with lifecycle management, receipt
// reconciliation, and state transitions.
//
// The package includes:
//   - PurchaseOrder: The aggregate root managing order identity, line items,
//     monetary totals, and the lifecycle workflow
//   - LineItem: A value object holding ordered and received quantities with
//     dual-basis valuation
//   - Status: A state machine that enforces valid status transitions
//   - Transition: Named state-machine edges with role requirements
//   - StatusChanged: The domain event emitted on every transition
//
// Key business rules:
//   - Orders are created in PendingApproval with at least one line item
//   - Status follows the workflow PendingApproval -> Approved ->
//     AwaitingConfirmation -> Received, with Cancel available from any
//     non-terminal status; Received and Cancelled are terminal
//   - Before reconciliation an order is valued on ordered quantities; once
//     received quantities are recorded it is valued on those, even if zero
//   - The tax amount is fixed as an absolute value at creation time
//   - Supplier email dispatch is gated on Approved status and guarded
//     against accidental re-sends
//
// The package follows Domain-Driven Design principles, providing rich domain
// behavior, encapsulation, and validation to ensure business rules are enforced.
package purchaseorder
