// Package services provides domain services that implement business rules
// spanning more than one domain concept in the purchase-order engine. It
// hosts logic that doesn't naturally belong to a single aggregate root.
//
// The package includes:
//   - TransitionAuthorizer: A domain service deciding whether an actor role
//     may apply a lifecycle transition to a purchase order in its current state
//
// Domain services keep authorization as a single source of truth: any
// client-side eligibility preview is non-authoritative and is re-validated
// here before a transition is applied.
package services
