package commands

import (
	"errors"

	"posadmin/internal/core/domain/model/kernel"
	"posadmin/internal/core/domain/model/purchaseorder"
	"posadmin/internal/pkg/errs"
	"posadmin/internal/pkg/guard"
)

var (
	ErrBatchTransitionCommandIsNotConstructed = errors.New(
		"BatchTransitionCommand must be created via NewBatchTransitionCommand constructor",
	)
	ErrOrderIDsAreRequired = errors.New("at least one order id is required")
)

// BatchTransitionCommand represents a request to apply one lifecycle
// transition to a set of purchase orders with per-order outcomes.
//
// Example:
//
//	cmd, err := NewBatchTransitionCommand(
//	    orderIDs, purchaseorder.TransitionApprove, "morgan", kernel.RoleAdmin)
//	if err != nil {
//	    return err
//	}
//
//	handler := NewBatchTransitionCommandHandler(uowFactory)
//	result, err := handler.Handle(ctx, cmd)
//	if err != nil {
//	    return err
//	}
//	for _, failure := range result.Failed {
//	    log.Printf("order %s skipped: %s", failure.OrderID, failure.Reason)
//	}
type BatchTransitionCommand struct { //nolint:recvcheck //using for validation
	orderIDs   []kernel.UUID
	transition purchaseorder.Transition
	actor      string
	role       kernel.Role

	guard guard.ConstructorGuard
}

// NewBatchTransitionCommand creates a command to apply a transition across a
// batch of orders. Duplicate IDs are collapsed, preserving first occurrence
// order, so no order is transitioned twice in one batch.
// SubmitReconciliation is not batchable and is rejected here.
func NewBatchTransitionCommand(
	orderIDs []kernel.UUID,
	transition purchaseorder.Transition,
	actor string,
	role kernel.Role,
) (BatchTransitionCommand, error) {
	batchCommand := BatchTransitionCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		batchCommand.setOrderIDs(orderIDs),
		batchCommand.setTransition(transition),
		batchCommand.setActor(actor),
		batchCommand.setRole(role),
	); err != nil {
		return BatchTransitionCommand{}, err
	}

	return batchCommand, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrBatchTransitionCommandIsNotConstructed if validation fails.
func (c BatchTransitionCommand) Validate() error {
	return c.guard.Validate(ErrBatchTransitionCommandIsNotConstructed)
}

// OrderIDs returns the deduplicated target order identifiers.
func (c BatchTransitionCommand) OrderIDs() []kernel.UUID {
	return append([]kernel.UUID(nil), c.orderIDs...)
}

// Transition returns the lifecycle transition to apply to every member.
func (c BatchTransitionCommand) Transition() purchaseorder.Transition {
	return c.transition
}

// Actor returns the name of the acting user.
func (c BatchTransitionCommand) Actor() string {
	return c.actor
}

// Role returns the actor's role as supplied by the identity provider.
func (c BatchTransitionCommand) Role() kernel.Role {
	return c.role
}

func (c *BatchTransitionCommand) setOrderIDs(orderIDs []kernel.UUID) error {
	if len(orderIDs) == 0 {
		return ErrOrderIDsAreRequired
	}

	seen := make(map[kernel.UUID]struct{}, len(orderIDs))
	deduplicated := make([]kernel.UUID, 0, len(orderIDs))
	for _, id := range orderIDs {
		if err := id.Validate(); err != nil {
			return err
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		deduplicated = append(deduplicated, id)
	}

	c.orderIDs = deduplicated
	return nil
}

func (c *BatchTransitionCommand) setTransition(transition purchaseorder.Transition) error {
	if err := transition.Validate(); err != nil {
		return err
	}

	// Reconciliation needs per-order received quantities, which a batch
	// request cannot carry; it is submitted one order at a time.
	if transition == purchaseorder.TransitionSubmitReconciliation {
		return errs.NewValueIsInvalidErrorWithCause(
			"transition",
			errors.New("reconciliation requires per-order receipts and cannot run as a batch"),
		)
	}

	c.transition = transition
	return nil
}

func (c *BatchTransitionCommand) setActor(actor string) error {
	if actor == "" {
		return ErrActorIsRequired
	}

	c.actor = actor
	return nil
}

func (c *BatchTransitionCommand) setRole(role kernel.Role) error {
	if err := role.Validate(); err != nil {
		return err
	}

	c.role = role
	return nil
}
