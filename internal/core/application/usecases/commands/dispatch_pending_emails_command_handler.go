package commands

import (
	"context"
	"errors"
	"time"

	"posadmin/internal/core/ports"
)

// DispatchPendingEmailsCommandHandler drains the email outbox.
// Messages are sent one at a time and stamped delivered immediately after a
// successful send, so a crash mid-run resends at most the in-flight message.
// Send failures leave the message pending for the next run.
type DispatchPendingEmailsCommandHandler struct {
	uowFactory UoWFactory
	client     ports.EmailClient
}

// NewDispatchPendingEmailsCommandHandler creates a handler for outbox
// dispatch. Requires a UoWFactory for outbox access and an email client for
// the actual delivery.
func NewDispatchPendingEmailsCommandHandler(
	uowFactory UoWFactory,
	client ports.EmailClient,
) DispatchPendingEmailsCommandHandler {
	return DispatchPendingEmailsCommandHandler{
		uowFactory: uowFactory,
		client:     client,
	}
}

// Handle dispatches up to the command's limit of pending messages.
// Returns how many messages were delivered. Individual send failures do not
// abort the run; they are joined into the returned error after the remaining
// messages have been attempted.
func (h DispatchPendingEmailsCommandHandler) Handle(
	ctx context.Context,
	cmd DispatchPendingEmailsCommand,
) (int, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	outbox := h.uowFactory.Create().MailOutboxRepository()

	pending, err := outbox.GetPending(ctx, cmd.Limit())
	if err != nil {
		return 0, err
	}

	delivered := 0
	var sendErrs []error

	for _, message := range pending {
		if err = h.client.Send(ctx, message); err != nil {
			sendErrs = append(sendErrs, err)
			continue
		}

		if err = outbox.MarkDelivered(ctx, message.ID, time.Now().UTC()); err != nil {
			sendErrs = append(sendErrs, err)
			continue
		}

		delivered++
	}

	return delivered, errors.Join(sendErrs...)
}
