package cmd

import (
	"log/slog"

	"posadmin/internal/adapters/out/emailclient"
	"posadmin/internal/adapters/out/postgres"
	"posadmin/internal/core/application/usecases/commands"
	"posadmin/internal/core/application/usecases/queries"
	"posadmin/internal/core/ports"

	"gorm.io/gorm"
)

type CompositionRoot struct {
	gormDB      *gorm.DB
	uowFactory  postgres.GormUnitOfWorkFactory
	emailClient ports.EmailClient
	logger      *slog.Logger
}

func NewCompositionRoot(_ Config, gormDB *gorm.DB, logger *slog.Logger) CompositionRoot {
	return CompositionRoot{
		gormDB:      gormDB,
		uowFactory:  *postgres.NewGormUnitOfWorkFactory(gormDB),
		emailClient: emailclient.NewLogEmailClient(logger),
		logger:      logger,
	}
}

func (c *CompositionRoot) CreateCreatePurchaseOrderCommandHandler() commands.CreatePurchaseOrderCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCreatePurchaseOrderCommandHandler(f)
}

func (c *CompositionRoot) CreateApplyTransitionCommandHandler() commands.ApplyTransitionCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewApplyTransitionCommandHandler(f)
}

func (c *CompositionRoot) CreateBatchTransitionCommandHandler() commands.BatchTransitionCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewBatchTransitionCommandHandler(f)
}

func (c *CompositionRoot) CreateSendOrderEmailCommandHandler() commands.SendOrderEmailCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewSendOrderEmailCommandHandler(f)
}

func (c *CompositionRoot) CreateDispatchPendingEmailsCommandHandler() commands.DispatchPendingEmailsCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewDispatchPendingEmailsCommandHandler(f, c.emailClient)
}

func (c *CompositionRoot) CreateGetUnfinishedOrdersQueryHandler() queries.GetUnfinishedOrdersQueryHandler {
	return queries.NewGetUnfinishedOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetPurchaseOrderQueryHandler() queries.GetPurchaseOrderQueryHandler {
	return queries.NewGetPurchaseOrderQueryHandler(c.gormDB)
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
