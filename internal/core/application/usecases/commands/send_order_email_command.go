package commands

import (
	"errors"

	"posadmin/internal/core/domain/model/kernel"
	"posadmin/internal/pkg/guard"
)

var (
	ErrSendOrderEmailCommandIsNotConstructed = errors.New(
		"SendOrderEmailCommand must be created via NewSendOrderEmailCommand constructor",
	)
	ErrRecipientIsRequired = errors.New("recipient is required")
)

// SendOrderEmailCommand represents a request to dispatch the supplier email
// for an approved purchase order. ForceResend bypasses the already-sent
// gate; without it a repeated dispatch fails with a structured already-sent
// error the caller can act on.
//
// Example:
//
//	cmd, err := NewSendOrderEmailCommand(orderID, "orders@supplier.example", "casey", false)
//	if err != nil {
//	    return err
//	}
//
//	handler := NewSendOrderEmailCommandHandler(uowFactory)
//	err = handler.Handle(ctx, cmd)
//	if errors.Is(err, purchaseorder.ErrEmailAlreadySent) {
//	    // Offer the user a forced resend
//	}
type SendOrderEmailCommand struct { //nolint:recvcheck //using for validation
	orderID     kernel.UUID
	recipient   string
	actor       string
	forceResend bool

	guard guard.ConstructorGuard
}

// NewSendOrderEmailCommand creates a command to dispatch a supplier email.
func NewSendOrderEmailCommand(
	orderID kernel.UUID,
	recipient string,
	actor string,
	forceResend bool,
) (SendOrderEmailCommand, error) {
	emailCommand := SendOrderEmailCommand{
		guard:       guard.NewConstructorGuard(),
		forceResend: forceResend,
	}

	if err := errors.Join(
		emailCommand.setOrderID(orderID),
		emailCommand.setRecipient(recipient),
		emailCommand.setActor(actor),
	); err != nil {
		return SendOrderEmailCommand{}, err
	}

	return emailCommand, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrSendOrderEmailCommandIsNotConstructed if validation fails.
func (c SendOrderEmailCommand) Validate() error {
	return c.guard.Validate(ErrSendOrderEmailCommandIsNotConstructed)
}

// OrderID returns the target order's unique identifier.
func (c SendOrderEmailCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Recipient returns the supplier email address.
func (c SendOrderEmailCommand) Recipient() string {
	return c.recipient
}

// Actor returns the name of the acting user.
func (c SendOrderEmailCommand) Actor() string {
	return c.actor
}

// ForceResend reports whether the already-sent gate is bypassed.
func (c SendOrderEmailCommand) ForceResend() bool {
	return c.forceResend
}

func (c *SendOrderEmailCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *SendOrderEmailCommand) setRecipient(recipient string) error {
	if recipient == "" {
		return ErrRecipientIsRequired
	}

	c.recipient = recipient
	return nil
}

func (c *SendOrderEmailCommand) setActor(actor string) error {
	if actor == "" {
		return ErrActorIsRequired
	}

	c.actor = actor
	return nil
}
