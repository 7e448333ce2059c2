package commands

import (
	"context"
	"sync"
	"time"

	"posadmin/internal/core/domain/model/kernel"
	"posadmin/internal/core/domain/services"
	"posadmin/internal/pkg/errs"
)

// BatchFailure reports one order that was not transitioned, with a
// human-readable reason naming the order's current status so a caller can
// explain "why" without re-querying.
type BatchFailure struct {
	OrderID kernel.UUID
	Reason  string
}

// BatchTransitionResult is the per-order tally of a batch transition.
// Succeeded and Failed together cover every member of the batch, in the
// order the IDs were submitted.
type BatchTransitionResult struct {
	Succeeded []kernel.UUID
	Failed    []BatchFailure
}

// BatchTransitionCommandHandler applies one transition to a set of orders
// with partial-success semantics.
//
// The batch runs in two phases:
//   - Optimistic partition: every order is read without a lock and checked
//     against the authorizer; ineligible members are reported immediately
//     with a reason and never touched again.
//   - Independent application: each eligible order is transitioned in its
//     own transaction under its own row lock, with the eligibility check
//     repeated on the locked state. A failure on one member never rolls
//     back or aborts the others.
//
// The role gate is batch-wide: when the actor's role may not apply the
// transition at all, the whole request fails with a permission error before
// any order is read.
type BatchTransitionCommandHandler struct {
	uowFactory OrderUoWFactory
	authorizer services.TransitionAuthorizer
}

// NewBatchTransitionCommandHandler creates a handler for batch transition
// operations. Each batch member gets its own unit of work from the factory.
func NewBatchTransitionCommandHandler(uowFactory OrderUoWFactory) BatchTransitionCommandHandler {
	return BatchTransitionCommandHandler{
		uowFactory: uowFactory,
		authorizer: services.NewTransitionAuthorizer(),
	}
}

// Handle processes the batch transition command and returns the per-order
// tally. A non-nil error is only returned for request-level failures
// (malformed command, forbidden role, partition-phase storage failure);
// member-level failures land in the result instead.
func (h BatchTransitionCommandHandler) Handle(
	ctx context.Context,
	cmd BatchTransitionCommand,
) (BatchTransitionResult, error) {
	if err := cmd.Validate(); err != nil {
		return BatchTransitionResult{}, err
	}

	if cmd.Transition().RequiresManager() && !cmd.Role().IsManager() {
		return BatchTransitionResult{}, errs.NewPermissionDeniedError(
			cmd.Role().String(), cmd.Transition().String())
	}

	orderIDs := cmd.OrderIDs()
	outcomes := make([]*BatchFailure, len(orderIDs))

	eligible, err := h.partition(ctx, cmd, orderIDs, outcomes)
	if err != nil {
		return BatchTransitionResult{}, err
	}

	h.applyToEligible(ctx, cmd, orderIDs, eligible, outcomes)

	result := BatchTransitionResult{}
	for i, id := range orderIDs {
		if outcomes[i] != nil {
			result.Failed = append(result.Failed, *outcomes[i])
			continue
		}
		result.Succeeded = append(result.Succeeded, id)
	}

	return result, nil
}

// partition reads every order without locking and records ineligible members
// into outcomes. Returns the positions of eligible members. The eligibility
// computed here is a preview: it is re-validated per order on locked state
// during application.
func (h BatchTransitionCommandHandler) partition(
	ctx context.Context,
	cmd BatchTransitionCommand,
	orderIDs []kernel.UUID,
	outcomes []*BatchFailure,
) ([]int, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.PurchaseOrderRepository()

	var eligible []int
	for i, id := range orderIDs {
		order, err := orderRepo.Get(ctx, id)
		if err != nil {
			outcomes[i] = &BatchFailure{OrderID: id, Reason: err.Error()}
			continue
		}

		if err = h.authorizer.Authorize(cmd.Role(), cmd.Transition(), order); err != nil {
			outcomes[i] = &BatchFailure{OrderID: id, Reason: err.Error()}
			continue
		}

		eligible = append(eligible, i)
	}

	return eligible, nil
}

// applyToEligible transitions each eligible order in its own transaction,
// concurrently. Each member's failure is recorded in outcomes and isolated
// from the rest of the batch.
func (h BatchTransitionCommandHandler) applyToEligible(
	ctx context.Context,
	cmd BatchTransitionCommand,
	orderIDs []kernel.UUID,
	eligible []int,
	outcomes []*BatchFailure,
) {
	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)

	for _, position := range eligible {
		wg.Add(1)
		go func(position int) {
			defer wg.Done()

			orderID := orderIDs[position]
			if err := h.applyOne(ctx, cmd, orderID); err != nil {
				mu.Lock()
				outcomes[position] = &BatchFailure{OrderID: orderID, Reason: err.Error()}
				mu.Unlock()
			}
		}(position)
	}

	wg.Wait()
}

// applyOne transitions a single batch member in its own unit of work,
// re-checking eligibility on the locked row.
func (h BatchTransitionCommandHandler) applyOne(
	ctx context.Context,
	cmd BatchTransitionCommand,
	orderID kernel.UUID,
) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.PurchaseOrderRepository()

	order, err := orderRepo.GetForUpdate(ctx, orderID)
	if err != nil {
		return err
	}

	if err = h.authorizer.Authorize(cmd.Role(), cmd.Transition(), order); err != nil {
		return err
	}

	if err = order.ApplyTransition(cmd.Transition(), cmd.Actor(), nil, time.Now().UTC()); err != nil {
		return err
	}

	if err = orderRepo.Update(ctx, order); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
