package purchaseorder

import (
	"fmt"

	"posadmin/internal/pkg/errs"
)

// Status represents the lifecycle state of a purchase order.
// It implements a state machine with defined transitions to ensure
// orders follow the correct procurement workflow.
//
// State transitions:
//
//	PendingApproval --Approve--> Approved
//	Approved --SubmitReconciliation--> AwaitingConfirmation
//	AwaitingConfirmation --Revert--> Approved
//	AwaitingConfirmation --Confirm--> Received
//	{PendingApproval, Approved, AwaitingConfirmation} --Cancel--> Cancelled
//
// Received and Cancelled are terminal states with no outgoing transitions.
//
// Status is a value object that validates state transitions
// and provides string representations for persistence and display.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// PendingApproval is the initial status when an order is first created.
	// Orders in this status are waiting for a manager's approval.
	PendingApproval

	// Approved indicates a manager approved the order. It is now a finalized
	// purchase request suitable for supplier communication, and reconciliation
	// of received goods may begin.
	Approved

	// AwaitingConfirmation indicates received quantities were submitted and
	// the order is waiting for a manager to confirm (or revert) the receipt.
	AwaitingConfirmation

	// Received indicates the receipt was confirmed. Terminal.
	Received

	// Cancelled indicates the order was cancelled before receipt. Terminal.
	Cancelled
)

// getStatusStrings returns a map of Status values to their string representations.
// All statuses are included for string conversion.
func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:              "Unknown",
		PendingApproval:      "PendingApproval",
		Approved:             "Approved",
		AwaitingConfirmation: "AwaitingConfirmation",
		Received:             "Received",
		Cancelled:            "Cancelled",
	}
}

// getValidStatusStrings returns a map of only valid Status values.
// Only valid statuses are included to support validation.
func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // Unknown is intentionally excluded as it's invalid
	return map[Status]string{
		PendingApproval:      "PendingApproval",
		Approved:             "Approved",
		AwaitingConfirmation: "AwaitingConfirmation",
		Received:             "Received",
		Cancelled:            "Cancelled",
	}
}

// Validate checks if the Status value is valid.
// Unknown (0) and any other values are invalid.
// This method is used to ensure Status values from external sources
// (e.g., database, API) are valid before use.
func (s Status) Validate() error {
	if _, ok := getValidStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the human-readable name of the status.
// It implements the fmt.Stringer interface and is safe to call on any
// Status value, including invalid ones.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// IsTerminal reports whether the status permits no further transitions.
// Received and Cancelled orders are permanently immutable.
func (s Status) IsTerminal() bool {
	return s == Received || s == Cancelled
}

// UsesReceivedBasis reports whether line items with a recorded received
// quantity are valued on that quantity rather than the ordered quantity.
// Before receipt reconciliation the order is valued on what was ordered;
// once it has been approved, on what was actually received, even if zero.
func (s Status) UsesReceivedBasis() bool {
	return s == Approved || s == AwaitingConfirmation || s == Received
}

// Apply transitions the status along the edge named by the transition.
//
// Returns:
//   - (newStatus, nil) on a valid transition
//   - (0, *InvalidTransitionError) if the edge is not permitted from the current status
func (s Status) Apply(t Transition) (Status, error) {
	switch t {
	case TransitionApprove:
		if s != PendingApproval {
			return 0, NewInvalidTransitionError(s, t)
		}
		return Approved, nil
	case TransitionSubmitReconciliation:
		if s != Approved {
			return 0, NewInvalidTransitionError(s, t)
		}
		return AwaitingConfirmation, nil
	case TransitionRevert:
		if s != AwaitingConfirmation {
			return 0, NewInvalidTransitionError(s, t)
		}
		return Approved, nil
	case TransitionConfirm:
		if s != AwaitingConfirmation {
			return 0, NewInvalidTransitionError(s, t)
		}
		return Received, nil
	case TransitionCancel:
		if s.IsTerminal() || s == Unknown {
			return 0, NewInvalidTransitionError(s, t)
		}
		return Cancelled, nil
	default:
		return 0, NewInvalidTransitionError(s, t)
	}
}
