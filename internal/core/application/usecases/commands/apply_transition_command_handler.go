package commands

import (
	"context"
	"time"

	"posadmin/internal/core/domain/services"
)

// ApplyTransitionCommandHandler is the lifecycle state machine entry point.
// Loads the target order under a per-order row lock, authorizes the actor,
// applies the transition on the aggregate and persists order, line items and
// the emitted status-change event in one transaction.
//
// Concurrent transitions on the same order serialize on the row lock: the
// second caller re-reads the new status and fails cleanly with an
// invalid-transition error instead of double-applying.
//
// Example:
//
//	handler := NewApplyTransitionCommandHandler(uowFactory)
//	cmd, _ := NewApplyTransitionCommand(
//	    orderID, purchaseorder.TransitionApprove, "morgan", kernel.RoleAdmin, nil)
//	err := handler.Handle(ctx, cmd)
//	switch {
//	case errors.Is(err, errs.ErrPermissionDenied):
//	    // 403: role may not apply this transition
//	case errors.Is(err, purchaseorder.ErrInvalidTransition):
//	    // 409: current status does not permit the edge
//	case err != nil:
//	    // persistence failure, retryable
//	}
type ApplyTransitionCommandHandler struct {
	uowFactory OrderUoWFactory
	authorizer services.TransitionAuthorizer
}

// NewApplyTransitionCommandHandler creates a handler for single-order
// transition operations.
func NewApplyTransitionCommandHandler(uowFactory OrderUoWFactory) ApplyTransitionCommandHandler {
	return ApplyTransitionCommandHandler{
		uowFactory: uowFactory,
		authorizer: services.NewTransitionAuthorizer(),
	}
}

// Handle processes the transition command.
// Authorization and domain failures roll back with no partial write;
// persistence failures surface to the caller for retry, never swallowed.
func (h ApplyTransitionCommandHandler) Handle(ctx context.Context, cmd ApplyTransitionCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.PurchaseOrderRepository()

	order, err := orderRepo.GetForUpdate(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	if err = h.authorizer.Authorize(cmd.Role(), cmd.Transition(), order); err != nil {
		return err
	}

	if err = order.ApplyTransition(cmd.Transition(), cmd.Actor(), cmd.Receipts(), time.Now().UTC()); err != nil {
		return err
	}

	if err = orderRepo.Update(ctx, order); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	return nil
}
