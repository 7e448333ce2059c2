package commands

import (
	"errors"

	"posadmin/internal/core/domain/model/kernel"
	"posadmin/internal/core/domain/model/purchaseorder"
	"posadmin/internal/pkg/guard"
)

var (
	ErrApplyTransitionCommandIsNotConstructed = errors.New(
		"ApplyTransitionCommand must be created via NewApplyTransitionCommand constructor",
	)
	ErrActorIsRequired = errors.New("actor is required")
)

// ApplyTransitionCommand represents a request to apply one lifecycle
// transition to one purchase order. Carries the actor identity and role
// explicitly; authorization never reads them from ambient state.
//
// Example:
//
//	cmd, err := NewApplyTransitionCommand(
//	    orderID, purchaseorder.TransitionApprove, "morgan", kernel.RoleAdmin, nil)
//	if err != nil {
//	    return err
//	}
//
//	handler := NewApplyTransitionCommandHandler(uowFactory)
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    // Permission, status or persistence failure; nothing was written
//	    return err
//	}
type ApplyTransitionCommand struct { //nolint:recvcheck //using for validation
	orderID    kernel.UUID
	transition purchaseorder.Transition
	actor      string
	role       kernel.Role
	receipts   map[kernel.UUID]int

	guard guard.ConstructorGuard
}

// NewApplyTransitionCommand creates a command to apply a transition to an
// order. The receipts map is only consulted for SubmitReconciliation and
// Confirm and may be nil otherwise.
func NewApplyTransitionCommand(
	orderID kernel.UUID,
	transition purchaseorder.Transition,
	actor string,
	role kernel.Role,
	receipts map[kernel.UUID]int,
) (ApplyTransitionCommand, error) {
	transitionCommand := ApplyTransitionCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		transitionCommand.setOrderID(orderID),
		transitionCommand.setTransition(transition),
		transitionCommand.setActor(actor),
		transitionCommand.setRole(role),
	); err != nil {
		return ApplyTransitionCommand{}, err
	}

	if len(receipts) > 0 {
		transitionCommand.receipts = make(map[kernel.UUID]int, len(receipts))
		for productID, received := range receipts {
			transitionCommand.receipts[productID] = received
		}
	}

	return transitionCommand, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrApplyTransitionCommandIsNotConstructed if validation fails.
func (c ApplyTransitionCommand) Validate() error {
	return c.guard.Validate(ErrApplyTransitionCommandIsNotConstructed)
}

// OrderID returns the target order's unique identifier.
func (c ApplyTransitionCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Transition returns the lifecycle transition to apply.
func (c ApplyTransitionCommand) Transition() purchaseorder.Transition {
	return c.transition
}

// Actor returns the name of the acting user.
func (c ApplyTransitionCommand) Actor() string {
	return c.actor
}

// Role returns the actor's role as supplied by the identity provider.
func (c ApplyTransitionCommand) Role() kernel.Role {
	return c.role
}

// Receipts returns the received quantities keyed by product, or nil when the
// transition carries none.
func (c ApplyTransitionCommand) Receipts() map[kernel.UUID]int {
	return c.receipts
}

func (c *ApplyTransitionCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *ApplyTransitionCommand) setTransition(transition purchaseorder.Transition) error {
	if err := transition.Validate(); err != nil {
		return err
	}

	c.transition = transition
	return nil
}

func (c *ApplyTransitionCommand) setActor(actor string) error {
	if actor == "" {
		return ErrActorIsRequired
	}

	c.actor = actor
	return nil
}

func (c *ApplyTransitionCommand) setRole(role kernel.Role) error {
	if err := role.Validate(); err != nil {
		return err
	}

	c.role = role
	return nil
}
