package purchaseorder

import (
	"errors"
	"fmt"

	"posadmin/internal/pkg/errs"
)

// ErrInvalidTransition is the sentinel wrapped by every InvalidTransitionError.
// Callers classify transition failures with errors.Is rather than matching
// message text.
var ErrInvalidTransition = errors.New("transition is not allowed from the current status")

// Transition names an edge of the purchase-order state machine.
// Transitions are applied to orders one at a time (or to a batch of orders
// independently) and are gated by the actor's role.
type Transition int

const (
	// TransitionUnknown represents an invalid or undefined transition.
	TransitionUnknown Transition = iota

	// TransitionApprove moves PendingApproval -> Approved. Managers only.
	TransitionApprove

	// TransitionSubmitReconciliation records received quantities and moves
	// Approved -> AwaitingConfirmation. Any authenticated editor.
	TransitionSubmitReconciliation

	// TransitionConfirm finalizes receipt and moves
	// AwaitingConfirmation -> Received. Managers only, and every line item
	// must already carry a recorded received quantity.
	TransitionConfirm

	// TransitionRevert undoes a reconciliation submission and moves
	// AwaitingConfirmation -> Approved. Managers only.
	TransitionRevert

	// TransitionCancel cancels a non-terminal order. Any authenticated editor.
	TransitionCancel
)

// getTransitionStrings returns a map of Transition values to their names.
func getTransitionStrings() map[Transition]string {
	return map[Transition]string{
		TransitionUnknown:              "Unknown",
		TransitionApprove:              "Approve",
		TransitionSubmitReconciliation: "SubmitReconciliation",
		TransitionConfirm:              "Confirm",
		TransitionRevert:               "Revert",
		TransitionCancel:               "Cancel",
	}
}

// ParseTransition converts a transition slug as it appears in API routes
// ("approve", "reconcile", "confirm", "revert", "cancel") into a Transition.
func ParseTransition(s string) (Transition, error) {
	switch s {
	case "approve":
		return TransitionApprove, nil
	case "reconcile":
		return TransitionSubmitReconciliation, nil
	case "confirm":
		return TransitionConfirm, nil
	case "revert":
		return TransitionRevert, nil
	case "cancel":
		return TransitionCancel, nil
	default:
		return TransitionUnknown, errs.NewValueIsInvalidErrorWithCause(
			"transition",
			fmt.Errorf("%q is not a valid transition", s),
		)
	}
}

// Validate checks if the Transition value is a defined edge.
func (t Transition) Validate() error {
	if t <= TransitionUnknown || t > TransitionCancel {
		return errs.NewValueIsInvalidErrorWithCause(
			"transition",
			fmt.Errorf("%d is not a valid transition", t),
		)
	}
	return nil
}

// RequiresManager reports whether the transition is restricted to
// Admin/Owner roles. SubmitReconciliation and Cancel are open to any
// authenticated editor.
func (t Transition) RequiresManager() bool {
	switch t {
	case TransitionApprove, TransitionConfirm, TransitionRevert:
		return true
	default:
		return false
	}
}

// String returns the transition name. It implements fmt.Stringer and is
// safe to call on any value, including invalid ones.
func (t Transition) String() string {
	if str, ok := getTransitionStrings()[t]; ok {
		return str
	}
	return "Unknown"
}

// InvalidTransitionError reports that an order's current status does not
// permit a transition. The status and the attempted transition are kept as
// structured fields so batch callers can surface a reason naming the
// order's current status without re-querying.
type InvalidTransitionError struct {
	Status     Status
	Transition Transition
}

// NewInvalidTransitionError creates an InvalidTransitionError for the given
// status and transition.
func NewInvalidTransitionError(status Status, transition Transition) *InvalidTransitionError {
	return &InvalidTransitionError{Status: status, Transition: transition}
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot %s an order in status %s", e.Transition, e.Status)
}

func (e *InvalidTransitionError) Unwrap() error {
	return ErrInvalidTransition
}
