package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"posadmin/internal/core/domain/model/kernel"
	"posadmin/internal/core/domain/model/purchaseorder"
	"posadmin/internal/core/ports"
)

// SendOrderEmailCommandHandler guards supplier email dispatch.
// The gate check, the sent-at stamp on the order and the outbox row are all
// written in one transaction under the per-order row lock, so two operators
// clicking "send" at once cannot both pass the gate: the second waits on the
// lock, re-reads the stamped order and fails with an already-sent error.
//
// The outbox row is delivered asynchronously by a background job; this
// handler never talks to the email transport.
type SendOrderEmailCommandHandler struct {
	uowFactory UoWFactory
}

// NewSendOrderEmailCommandHandler creates a handler for supplier email
// dispatch. Requires a UoWFactory spanning the order and the mail outbox.
func NewSendOrderEmailCommandHandler(uowFactory UoWFactory) SendOrderEmailCommandHandler {
	return SendOrderEmailCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the email dispatch command.
// ErrEmailNotSendable surfaces for non-approved orders and a structured
// already-sent error for repeated dispatch without the force flag.
func (h SendOrderEmailCommandHandler) Handle(ctx context.Context, cmd SendOrderEmailCommand) error {
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

	now := time.Now().UTC()
	if err = order.RecordEmailSent(now, cmd.ForceResend()); err != nil {
		return err
	}

	message := buildOrderEmail(order, cmd.Recipient(), now)
	if err = uow.MailOutboxRepository().Enqueue(ctx, message); err != nil {
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

// buildOrderEmail renders the plain-text supplier message for an order.
// Line items are listed with ordered quantities; the totals block reflects
// the order's current valuation basis.
func buildOrderEmail(order *purchaseorder.PurchaseOrder, recipient string, enqueuedAt time.Time) ports.EmailMessage {
	var body strings.Builder
	fmt.Fprintf(&body, "Purchase order %s\n", order.OrderNumber())
	fmt.Fprintf(&body, "Order date: %s\n\n", order.OrderDate().Format("2006-01-02"))

	for _, item := range order.LineItems() {
		fmt.Fprintf(&body, "%s x%d @ %s\n", item.ProductName(), item.Quantity(), item.UnitPrice())
	}

	totals := order.Totals()
	fmt.Fprintf(&body, "\nSubtotal: %s\nTax: %s\nTotal: %s\n",
		totals.Subtotal, totals.TaxAmount, totals.Total)

	if notes := order.Notes(); notes != "" {
		fmt.Fprintf(&body, "\nNotes: %s\n", notes)
	}

	return ports.EmailMessage{
		ID:          kernel.NewUUID(),
		OrderID:     order.ID(),
		OrderNumber: order.OrderNumber(),
		Recipient:   recipient,
		Subject:     fmt.Sprintf("Purchase order %s", order.OrderNumber()),
		Body:        body.String(),
		EnqueuedAt:  enqueuedAt,
	}
}
