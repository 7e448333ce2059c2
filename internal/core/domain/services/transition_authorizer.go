package services

import (
	"posadmin/internal/core/domain/model/kernel"
	"posadmin/internal/core/domain/model/purchaseorder"
	"posadmin/internal/pkg/errs"
)

// TransitionAuthorizer is a domain service that decides whether a given actor
// role may apply a given lifecycle transition to a given purchase order.
//
// Authorization is two-layered and checked in order:
//   - Role gate: Approve, Confirm and Revert are reserved for managers
//     (Admin or Owner); SubmitReconciliation and Cancel are open to any
//     authenticated editor. A failing role yields a permission error.
//   - Status gate: the order's current status must permit the edge; for
//     Confirm every line item must additionally carry a recorded received
//     quantity. A failing status yields an invalid-transition error.
//
// The role is always passed explicitly by the caller. The authorizer never
// reads actor identity from any ambient source: the identity provider is an
// external trusted collaborator and its output travels as a plain parameter.
//
// Example usage:
//
//	authorizer := services.NewTransitionAuthorizer()
//	if err := authorizer.Authorize(role, purchaseorder.TransitionApprove, order); err != nil {
//	    // Permission or status violation; the error says which
//	    return err
//	}
type TransitionAuthorizer struct{}

// NewTransitionAuthorizer creates a new TransitionAuthorizer instance.
//
// Returns:
//   - TransitionAuthorizer: A new instance ready for authorization checks
func NewTransitionAuthorizer() TransitionAuthorizer {
	return TransitionAuthorizer{}
}

// Authorize checks whether the actor role may apply the transition to the
// order in its current state.
//
// Parameters:
//   - role: The actor's role as supplied by the identity provider
//   - transition: The lifecycle transition being attempted
//   - order: The target order (must be valid)
//
// Returns:
//   - error: nil when the transition is permitted; a permission error for a
//     role violation, an invalid-transition error for a status violation,
//     or a validation error for malformed inputs
func (a TransitionAuthorizer) Authorize(
	role kernel.Role,
	transition purchaseorder.Transition,
	order *purchaseorder.PurchaseOrder,
) error {
	if err := order.Validate(); err != nil {
		return err
	}
	if err := role.Validate(); err != nil {
		return err
	}
	if err := transition.Validate(); err != nil {
		return err
	}

	if transition.RequiresManager() && !role.IsManager() {
		return errs.NewPermissionDeniedError(role.String(), transition.String())
	}

	if _, err := order.Status().Apply(transition); err != nil {
		return err
	}

	if transition == purchaseorder.TransitionConfirm && !order.AllLinesReconciled() {
		return purchaseorder.ErrLineItemsNotReconciled
	}

	return nil
}
