package jobs

import (
	"context"
	"log/slog"

	"posadmin/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// emailDispatchBatch is how many outbox messages one dispatch run may claim.
const emailDispatchBatch = 50

// EmailDispatchJob drains the purchase-order email outbox on a schedule.
// Runs every ten seconds so a supplier message leaves the system shortly
// after an operator triggers it, without coupling the HTTP request to the
// mail transport.
type EmailDispatchJob struct {
	handler commands.DispatchPendingEmailsCommandHandler
	cron    *cron.Cron
	logger  *slog.Logger
}

// NewEmailDispatchJob creates the outbox dispatch job.
// Uses DispatchPendingEmailsCommandHandler to deliver pending messages.
func NewEmailDispatchJob(
	handler commands.DispatchPendingEmailsCommandHandler,
	logger *slog.Logger,
) *EmailDispatchJob {
	return &EmailDispatchJob{
		handler: handler,
		cron:    cron.New(cron.WithSeconds()),
		logger:  logger.With("component", "email_dispatch_job"),
	}
}

// Start begins the dispatch job, running every ten seconds.
func (j *EmailDispatchJob) Start() error {
	_, err := j.cron.AddFunc("*/10 * * * * *", func() {
		ctx := context.Background()

		cmd, cmdErr := commands.NewDispatchPendingEmailsCommand(emailDispatchBatch)
		if cmdErr != nil {
			j.logger.ErrorContext(ctx, "Email dispatch job misconfigured", "error", cmdErr)
			return
		}

		delivered, handleErr := j.handler.Handle(ctx, cmd)
		if handleErr != nil {
			// Undelivered messages stay in the outbox for the next run
			j.logger.ErrorContext(ctx, "Email dispatch run had failures",
				"delivered", delivered, "error", handleErr)
			return
		}

		if delivered > 0 {
			j.logger.InfoContext(ctx, "Dispatched outbox emails", "delivered", delivered)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Email dispatch job started (running every ten seconds)")
	return nil
}

// Stop stops the email dispatch job.
func (j *EmailDispatchJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Email dispatch job stopped")
}
