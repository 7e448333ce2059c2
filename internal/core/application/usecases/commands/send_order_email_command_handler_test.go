package commands_test

import (
	"context"
	"testing"
	"time"

	"posadmin/internal/core/application/usecases/commands"
	"posadmin/internal/core/domain/model/kernel"
	"posadmin/internal/core/domain/model/purchaseorder"
	"posadmin/internal/core/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockMailOutboxRepository struct{ mock.Mock }

func (m *MockMailOutboxRepository) Enqueue(ctx context.Context, message ports.EmailMessage) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}

func (m *MockMailOutboxRepository) GetPending(ctx context.Context, limit int) ([]ports.EmailMessage, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ports.EmailMessage), args.Error(1)
}

func (m *MockMailOutboxRepository) MarkDelivered(ctx context.Context, id kernel.UUID, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) PurchaseOrderRepository() ports.PurchaseOrderRepository {
	args := m.Called()
	return args.Get(0).(ports.PurchaseOrderRepository)
}

func (m *MockUoW) MailOutboxRepository() ports.MailOutboxRepository {
	args := m.Called()
	return args.Get(0).(ports.MailOutboxRepository)
}

type MockUoWFactory struct{ mock.Mock }

func (m *MockUoWFactory) Create() commands.UoW {
	args := m.Called()
	return args.Get(0).(commands.UoW)
}

func approvedOrder(t *testing.T) *purchaseorder.PurchaseOrder {
	t.Helper()

	order, _ := pendingOrder(t)
	require.NoError(t, order.Approve("morgan", time.Now().UTC()))
	return order
}

func TestSendOrderEmailCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	order := approvedOrder(t)
	cmd, err := commands.NewSendOrderEmailCommand(order.ID(), "orders@supplier.example", "casey", false)
	require.NoError(t, err)

	orderRepo := new(MockPurchaseOrderRepository)
	outboxRepo := new(MockMailOutboxRepository)
	uow := new(MockUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("PurchaseOrderRepository").Return(orderRepo).Once(),
		orderRepo.On("GetForUpdate", ctx, order.ID()).Return(order, nil).Once(),
		uow.On("MailOutboxRepository").Return(outboxRepo).Once(),
		outboxRepo.On("Enqueue", ctx, mock.AnythingOfType("ports.EmailMessage")).Return(nil).Once(),
		orderRepo.On("Update", ctx, mock.AnythingOfType("*purchaseorder.PurchaseOrder")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewSendOrderEmailCommandHandler(factory)
	err = handler.Handle(ctx, cmd)

	require.NoError(t, err)
	require.NotNil(t, order.EmailSentAt())

	// The outbox row carries the order's number, recipient and totals.
	message := outboxRepo.Calls[0].Arguments[1].(ports.EmailMessage)
	assert.Equal(t, order.ID(), message.OrderID)
	assert.Equal(t, "PO-2025-0042", message.OrderNumber)
	assert.Equal(t, "orders@supplier.example", message.Recipient)
	assert.Contains(t, message.Subject, "PO-2025-0042")
	assert.Contains(t, message.Body, "Espresso Beans 1kg")
	assert.Contains(t, message.Body, "Total: 50.00")
	assert.Nil(t, message.DeliveredAt)

	orderRepo.AssertExpectations(t)
	outboxRepo.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestSendOrderEmailCommandHandler_Handle_NotSendable(t *testing.T) {
	ctx := t.Context()
	order, _ := pendingOrder(t)
	cmd, err := commands.NewSendOrderEmailCommand(order.ID(), "orders@supplier.example", "casey", false)
	require.NoError(t, err)

	orderRepo := new(MockPurchaseOrderRepository)
	uow := new(MockUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("PurchaseOrderRepository").Return(orderRepo).Once(),
		orderRepo.On("GetForUpdate", ctx, order.ID()).Return(order, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewSendOrderEmailCommandHandler(factory)
	err = handler.Handle(ctx, cmd)

	require.Error(t, err)
	require.ErrorIs(t, err, purchaseorder.ErrEmailNotSendable)
	assert.Nil(t, order.EmailSentAt())
	uow.AssertNotCalled(t, "MailOutboxRepository")
}

func TestSendOrderEmailCommandHandler_Handle_AlreadySent(t *testing.T) {
	ctx := t.Context()
	order := approvedOrder(t)
	firstSend := time.Now().UTC().Add(-time.Hour)
	require.NoError(t, order.RecordEmailSent(firstSend, false))

	cmd, err := commands.NewSendOrderEmailCommand(order.ID(), "orders@supplier.example", "casey", false)
	require.NoError(t, err)

	orderRepo := new(MockPurchaseOrderRepository)
	uow := new(MockUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("PurchaseOrderRepository").Return(orderRepo).Once(),
		orderRepo.On("GetForUpdate", ctx, order.ID()).Return(order, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewSendOrderEmailCommandHandler(factory)
	err = handler.Handle(ctx, cmd)

	require.Error(t, err)
	require.ErrorIs(t, err, purchaseorder.ErrEmailAlreadySent)

	var alreadySent *purchaseorder.EmailAlreadySentError
	require.ErrorAs(t, err, &alreadySent)
	assert.Equal(t, firstSend, alreadySent.SentAt)
}

func TestSendOrderEmailCommandHandler_Handle_ForceResend(t *testing.T) {
	ctx := t.Context()
	order := approvedOrder(t)
	firstSend := time.Now().UTC().Add(-time.Hour)
	require.NoError(t, order.RecordEmailSent(firstSend, false))

	cmd, err := commands.NewSendOrderEmailCommand(order.ID(), "orders@supplier.example", "casey", true)
	require.NoError(t, err)

	orderRepo := new(MockPurchaseOrderRepository)
	outboxRepo := new(MockMailOutboxRepository)
	uow := new(MockUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("PurchaseOrderRepository").Return(orderRepo).Once(),
		orderRepo.On("GetForUpdate", ctx, order.ID()).Return(order, nil).Once(),
		uow.On("MailOutboxRepository").Return(outboxRepo).Once(),
		outboxRepo.On("Enqueue", ctx, mock.AnythingOfType("ports.EmailMessage")).Return(nil).Once(),
		orderRepo.On("Update", ctx, mock.AnythingOfType("*purchaseorder.PurchaseOrder")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewSendOrderEmailCommandHandler(factory)
	err = handler.Handle(ctx, cmd)

	require.NoError(t, err)
	require.NotNil(t, order.EmailSentAt())
	assert.True(t, order.EmailSentAt().After(firstSend))
}

func TestSendOrderEmailCommandHandler_Handle_ValidationError(t *testing.T) {
	ctx := t.Context()
	cmd := commands.SendOrderEmailCommand{} // not constructed properly

	factory := new(MockUoWFactory)
	handler := commands.NewSendOrderEmailCommandHandler(factory)
	err := handler.Handle(ctx, cmd)

	require.Error(t, err)
	require.ErrorIs(t, err, commands.ErrSendOrderEmailCommandIsNotConstructed)
	factory.AssertNotCalled(t, "Create")
}
