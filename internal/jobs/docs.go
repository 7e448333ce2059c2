// Package jobs provides scheduled background tasks for the purchase-order
// admin service.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// to handle periodic operations required by the ordering workflow.
//
// # Available Jobs
//
// 1. EmailDispatchJob - Runs every ten seconds to deliver pending supplier
// emails from the outbox
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	// Create job manager with required handlers
//	jobManager := jobs.NewJobManager(dispatchEmailsHandler, logger)
//
//	// Start all jobs
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	// Stop all jobs when shutting down
//	defer jobManager.StopAll()
//
// # Error Handling
//
// Messages whose delivery fails stay in the outbox and are retried on the
// next run. Failed job starts will stop any already running jobs.
package jobs
