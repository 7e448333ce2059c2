// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS architecture.
// All commands follow a consistent pattern: validation, transaction management, and persistence.
package commands

import (
	"context"

	"posadmin/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
// These abstractions ensure data consistency across aggregate boundaries.
type (
	// TxManager handles database transaction lifecycle.
	// Ensures atomic operations across multiple repository calls.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// PurchaseOrderRepoFactory provides access to the purchase-order
	// repository within a transaction.
	PurchaseOrderRepoFactory interface {
		PurchaseOrderRepository() ports.PurchaseOrderRepository
	}

	// MailOutboxRepoFactory provides access to the email outbox repository
	// within a transaction.
	MailOutboxRepoFactory interface {
		MailOutboxRepository() ports.MailOutboxRepository
	}

	// OrderUoW manages transactions for order-only operations.
	// Used when commands only modify purchase-order aggregates.
	OrderUoW interface {
		TxManager
		PurchaseOrderRepoFactory
	}

	// OrderUoWFactory creates new order unit of work instances.
	// Batch commands call Create once per member so each order commits or
	// rolls back on its own.
	OrderUoWFactory interface {
		Create() OrderUoW
	}

	// UoW manages transactions spanning the purchase order and its email
	// outbox. Used by commands that must record a dispatch decision and the
	// message to deliver atomically.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   orderRepo := uow.PurchaseOrderRepository()
	//   outboxRepo := uow.MailOutboxRepository()
	//   // ... perform operations
	//
	//   err = uow.Commit(ctx)
	UoW interface {
		TxManager
		PurchaseOrderRepoFactory
		MailOutboxRepoFactory
	}

	// UoWFactory creates new unit of work instances for order-plus-outbox
	// operations.
	UoWFactory interface {
		Create() UoW
	}
)
