package commands

import (
	"errors"

	"posadmin/internal/pkg/errs"
	"posadmin/internal/pkg/guard"
)

var (
	ErrDispatchPendingEmailsCommandIsNotConstructed = errors.New(
		"DispatchPendingEmailsCommand must be created via NewDispatchPendingEmailsCommand constructor",
	)
)

// DispatchPendingEmailsMaxBatch caps how many outbox messages one dispatch
// run may claim.
const DispatchPendingEmailsMaxBatch = 100

// DispatchPendingEmailsCommand drains a slice of the email outbox: undelivered
// messages are sent through the mail gateway and stamped as delivered.
// Issued by the background dispatch job on a schedule.
//
// Example:
//
//	cmd, err := NewDispatchPendingEmailsCommand(50)
//	if err != nil {
//	    return err
//	}
//
//	delivered, err := handler.Handle(ctx, cmd)
type DispatchPendingEmailsCommand struct { //nolint:recvcheck //using for validation
	limit int

	guard guard.ConstructorGuard
}

// NewDispatchPendingEmailsCommand creates a command to dispatch up to limit
// pending messages. The limit keeps one run bounded so a backlog cannot stall
// the scheduler.
func NewDispatchPendingEmailsCommand(limit int) (DispatchPendingEmailsCommand, error) {
	command := DispatchPendingEmailsCommand{guard: guard.NewConstructorGuard()}

	if err := command.setLimit(limit); err != nil {
		return DispatchPendingEmailsCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrDispatchPendingEmailsCommandIsNotConstructed if validation fails.
func (c DispatchPendingEmailsCommand) Validate() error {
	return c.guard.Validate(ErrDispatchPendingEmailsCommandIsNotConstructed)
}

// Limit returns the maximum number of messages to dispatch in one run.
func (c DispatchPendingEmailsCommand) Limit() int {
	return c.limit
}

func (c *DispatchPendingEmailsCommand) setLimit(limit int) error {
	if limit < 1 || limit > DispatchPendingEmailsMaxBatch {
		return errs.NewValueIsOutOfRangeError("limit", limit, 1, DispatchPendingEmailsMaxBatch)
	}

	c.limit = limit
	return nil
}
