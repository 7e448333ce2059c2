package purchaseorderrepo_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"posadmin/internal/adapters/out/postgres/purchaseorderrepo"
	"posadmin/internal/core/domain/model/kernel"
	"posadmin/internal/core/domain/model/purchaseorder"
	"posadmin/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// MockAggregateTracker is a mock implementation of aggregateTracker interface.
type MockAggregateTracker struct {
	mock.Mock
}

func (m *MockAggregateTracker) TrackAggregate(id kernel.UUID, aggregate any) {
	m.Called(id, aggregate)
}

// PurchaseOrderRepositoryIntegrationTestSuite provides integration tests for
// PurchaseOrderRepository using PostgreSQL containers to verify database
// persistence behavior.
type PurchaseOrderRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *purchaseorderrepo.GormPurchaseOrderRepository
	tracker    *MockAggregateTracker
}

func (suite *PurchaseOrderRepositoryIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	// Start PostgreSQL container
	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	// Get connection string and connect to database
	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(postgresdriver.Open(connStr), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	// Auto-migrate the schema
	suite.Require().NoError(db.AutoMigrate(
		&purchaseorderrepo.PurchaseOrderDTO{},
		&purchaseorderrepo.LineItemDTO{},
		&purchaseorderrepo.OrderEventDTO{},
	))
}

func (suite *PurchaseOrderRepositoryIntegrationTestSuite) SetupTest() {
	// Clean the database before each test
	suite.Require().NoError(suite.db.Exec(
		"TRUNCATE TABLE purchase_orders, purchase_order_lines, purchase_order_events").Error)

	// Create fresh repository and tracker for each test
	suite.tracker = new(MockAggregateTracker)
	suite.repository = purchaseorderrepo.NewGormPurchaseOrderRepository(suite.db, suite.tracker)
}

func (suite *PurchaseOrderRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *PurchaseOrderRepositoryIntegrationTestSuite) TestAdd_ValidOrder_Success() {
	ctx := context.Background()

	testOrder := suite.createTestOrder("PO-2025-0001")

	suite.tracker.On("TrackAggregate", testOrder.ID(), testOrder).Once()

	err := suite.repository.Add(ctx, testOrder)
	suite.Require().NoError(err)

	suite.assertOrderCount(1)
	suite.assertLineCount(2)

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *PurchaseOrderRepositoryIntegrationTestSuite) TestAdd_DuplicateOrderNumber_ReturnsError() {
	ctx := context.Background()

	first := suite.createTestOrder("PO-2025-0002")
	suite.tracker.On("TrackAggregate", first.ID(), first).Once()
	suite.Require().NoError(suite.repository.Add(ctx, first))

	// Same order number, different ID
	duplicate := suite.createTestOrder("PO-2025-0002")

	err := suite.repository.Add(ctx, duplicate)
	suite.Require().Error(err)
	suite.Require().ErrorIs(err, errs.ErrPersistenceFailed)

	suite.assertOrderCount(1)
	suite.tracker.AssertExpectations(suite.T())
}

func (suite *PurchaseOrderRepositoryIntegrationTestSuite) TestGet_ExistingOrder_ReturnsOrder() {
	ctx := context.Background()

	originalOrder := suite.createTestOrder("PO-2025-0003")
	suite.tracker.On("TrackAggregate", originalOrder.ID(), originalOrder).Once()
	suite.Require().NoError(suite.repository.Add(ctx, originalOrder))

	retrievedOrder, err := suite.repository.Get(ctx, originalOrder.ID())
	suite.Require().NoError(err)

	suite.Equal(originalOrder.ID(), retrievedOrder.ID())
	suite.Equal("PO-2025-0003", retrievedOrder.OrderNumber())
	suite.Equal(originalOrder.SupplierID(), retrievedOrder.SupplierID())
	suite.Equal(purchaseorder.PendingApproval, retrievedOrder.Status())
	suite.Equal("alice", retrievedOrder.CreatedBy())
	suite.Nil(retrievedOrder.ApprovedBy())
	suite.Nil(retrievedOrder.EmailSentAt())
	suite.Empty(retrievedOrder.PendingEvents())

	// Line order and valuation survive the roundtrip
	lines := retrievedOrder.LineItems()
	suite.Require().Len(lines, 2)
	suite.Equal("Espresso Beans 1kg", lines[0].ProductName())
	suite.Equal(10, lines[0].Quantity())
	suite.Equal("Paper Filters", lines[1].ProductName())
	suite.True(originalOrder.Totals().Total.IsEqual(retrievedOrder.Totals().Total))

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *PurchaseOrderRepositoryIntegrationTestSuite) TestGet_NonExistentOrder_ReturnsNotFoundError() {
	ctx := context.Background()

	retrievedOrder, err := suite.repository.Get(ctx, kernel.NewUUID())

	suite.Nil(retrievedOrder)
	suite.Require().Error(err)

	var notFoundErr *errs.ObjectNotFoundError
	suite.Require().ErrorAs(err, &notFoundErr)

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *PurchaseOrderRepositoryIntegrationTestSuite) TestUpdate_LifecycleTransition_PersistsStateAndEvents() {
	ctx := context.Background()

	testOrder := suite.createTestOrder("PO-2025-0004")
	suite.tracker.On("TrackAggregate", testOrder.ID(), testOrder).Times(3)
	suite.Require().NoError(suite.repository.Add(ctx, testOrder))

	// Approve and persist
	suite.Require().NoError(testOrder.Approve("boris", time.Now().UTC()))
	suite.Require().NoError(suite.repository.Update(ctx, testOrder))

	// Reconcile partial receipts and persist
	receipts := map[kernel.UUID]int{
		testOrder.LineItems()[0].ProductID(): 8,
		testOrder.LineItems()[1].ProductID(): 0,
	}
	suite.Require().NoError(testOrder.SubmitReconciliation("carol", receipts, time.Now().UTC()))
	suite.Require().NoError(suite.repository.Update(ctx, testOrder))

	retrievedOrder, err := suite.repository.Get(ctx, testOrder.ID())
	suite.Require().NoError(err)

	suite.Equal(purchaseorder.AwaitingConfirmation, retrievedOrder.Status())
	suite.Require().NotNil(retrievedOrder.ApprovedBy())
	suite.Equal("boris", *retrievedOrder.ApprovedBy())
	suite.NotNil(retrievedOrder.ApprovedAt())

	lines := retrievedOrder.LineItems()
	suite.Require().NotNil(lines[0].ReceivedQuantity())
	suite.Equal(8, *lines[0].ReceivedQuantity())
	suite.Require().NotNil(lines[1].ReceivedQuantity())
	suite.Equal(0, *lines[1].ReceivedQuantity())
	suite.True(retrievedOrder.AllLinesReconciled())

	// Received-quantity basis: 8*5.00 + 0*2.50 = 40.00, tax from creation stays
	suite.Equal("40.00", retrievedOrder.Totals().Subtotal.String())

	// One event row per recorded transition
	suite.assertEventCount(testOrder.ID(), 2)

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *PurchaseOrderRepositoryIntegrationTestSuite) TestUpdate_ClearsPendingEventsAfterInsert() {
	ctx := context.Background()

	testOrder := suite.createTestOrder("PO-2025-0005")
	suite.tracker.On("TrackAggregate", testOrder.ID(), testOrder).Times(2)
	suite.Require().NoError(suite.repository.Add(ctx, testOrder))

	suite.Require().NoError(testOrder.Approve("boris", time.Now().UTC()))
	suite.Require().NoError(suite.repository.Update(ctx, testOrder))
	suite.Empty(testOrder.PendingEvents())

	// A second update without new transitions must not duplicate event rows
	suite.Require().NoError(suite.repository.Update(ctx, testOrder))
	suite.assertEventCount(testOrder.ID(), 1)

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *PurchaseOrderRepositoryIntegrationTestSuite) TestUpdate_NonExistentOrder_ReturnsNotFoundError() {
	ctx := context.Background()

	nonExistentOrder := suite.createTestOrder("PO-2025-0006")

	err := suite.repository.Update(ctx, nonExistentOrder)
	suite.Require().Error(err)

	var notFoundErr *errs.ObjectNotFoundError
	suite.Require().ErrorAs(err, &notFoundErr)

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *PurchaseOrderRepositoryIntegrationTestSuite) TestUpdate_EmailStamp_SurvivesRoundtrip() {
	ctx := context.Background()

	testOrder := suite.createTestOrder("PO-2025-0007")
	suite.tracker.On("TrackAggregate", testOrder.ID(), testOrder).Times(3)
	suite.Require().NoError(suite.repository.Add(ctx, testOrder))

	suite.Require().NoError(testOrder.Approve("boris", time.Now().UTC()))
	suite.Require().NoError(suite.repository.Update(ctx, testOrder))

	sentAt := time.Now().UTC().Truncate(time.Microsecond)
	suite.Require().NoError(testOrder.RecordEmailSent(sentAt, false))
	suite.Require().NoError(suite.repository.Update(ctx, testOrder))

	retrievedOrder, err := suite.repository.Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Require().NotNil(retrievedOrder.EmailSentAt())
	suite.True(sentAt.Equal(*retrievedOrder.EmailSentAt()))

	// The restored aggregate must refuse a second send
	err = retrievedOrder.RecordEmailSent(time.Now().UTC(), false)
	suite.Require().ErrorIs(err, purchaseorder.ErrEmailAlreadySent)

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *PurchaseOrderRepositoryIntegrationTestSuite) TestGetForUpdate_ExistingOrder_ReturnsOrder() {
	ctx := context.Background()

	testOrder := suite.createTestOrder("PO-2025-0008")
	suite.tracker.On("TrackAggregate", testOrder.ID(), testOrder).Once()
	suite.Require().NoError(suite.repository.Add(ctx, testOrder))

	// Row lock requires a transaction
	tx := suite.db.Begin()
	suite.Require().NoError(tx.Error)
	defer tx.Rollback()

	txRepository := purchaseorderrepo.NewGormPurchaseOrderRepository(tx, suite.tracker)
	lockedOrder, err := txRepository.GetForUpdate(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Equal(testOrder.ID(), lockedOrder.ID())
	suite.Len(lockedOrder.LineItems(), 2)

	suite.tracker.AssertExpectations(suite.T())
}

// TestPurchaseOrderRepository_ErrorScenarios verifies error handling for various failure cases.
func (suite *PurchaseOrderRepositoryIntegrationTestSuite) TestPurchaseOrderRepository_ErrorScenarios() {
	testCases := []struct {
		name      string
		operation func() error
		expected  string
	}{
		{
			name: "get with invalid UUID",
			operation: func() error {
				invalidID := kernel.UUID{}
				_, err := suite.repository.Get(context.Background(), invalidID)
				return err
			},
			expected: "required",
		},
		{
			name: "get non-existent order",
			operation: func() error {
				_, err := suite.repository.Get(context.Background(), kernel.NewUUID())
				return err
			},
			expected: "not found",
		},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			err := tc.operation()
			suite.Require().Error(err)
			suite.Contains(strings.ToLower(err.Error()), strings.ToLower(tc.expected))
			suite.tracker.AssertExpectations(suite.T())
		})
	}
}

// TestPurchaseOrderRepository_Concurrency verifies repository behavior under concurrent access.
func (suite *PurchaseOrderRepositoryIntegrationTestSuite) TestPurchaseOrderRepository_Concurrency() {
	ctx := context.Background()

	initialOrder := suite.createTestOrder("PO-2025-0009")
	suite.tracker.On("TrackAggregate", initialOrder.ID(), initialOrder).Once()
	suite.Require().NoError(suite.repository.Add(ctx, initialOrder))

	results := make(chan *purchaseorder.PurchaseOrder, 3)
	errors := make(chan error, 3)

	for range 3 {
		go func() {
			retrievedOrder, readErr := suite.repository.Get(ctx, initialOrder.ID())
			if readErr != nil {
				errors <- readErr
			} else {
				results <- retrievedOrder
			}
		}()
	}

	for range 3 {
		select {
		case result := <-results:
			suite.Equal(initialOrder.ID(), result.ID())
		case readErr := <-errors:
			suite.Failf("Unexpected error in concurrent read", "%v", readErr)
		}
	}

	suite.tracker.AssertExpectations(suite.T())
}

// createTestOrder creates a pending purchase order with two lines and 10% tax.
func (suite *PurchaseOrderRepositoryIntegrationTestSuite) createTestOrder(orderNumber string) *purchaseorder.PurchaseOrder {
	beansPrice, err := kernel.NewMoneyFromString("5.00")
	suite.Require().NoError(err)
	beans, err := purchaseorder.NewLineItem(kernel.NewUUID(), "Espresso Beans 1kg", 10, beansPrice)
	suite.Require().NoError(err)

	filtersPrice, err := kernel.NewMoneyFromString("2.50")
	suite.Require().NoError(err)
	filters, err := purchaseorder.NewLineItem(kernel.NewUUID(), "Paper Filters", 4, filtersPrice)
	suite.Require().NoError(err)

	testOrder, err := purchaseorder.NewPurchaseOrder(
		kernel.NewUUID(),
		orderNumber,
		kernel.NewUUID(),
		"alice",
		time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		"weekly restock",
		[]purchaseorder.LineItem{beans, filters},
		decimal.NewFromInt(10),
	)
	suite.Require().NoError(err)
	return testOrder
}

// assertOrderCount verifies the number of order headers in the database.
func (suite *PurchaseOrderRepositoryIntegrationTestSuite) assertOrderCount(expected int) {
	var count int64
	err := suite.db.Model(&purchaseorderrepo.PurchaseOrderDTO{}).Count(&count).Error
	suite.Require().NoError(err)
	suite.Equal(int64(expected), count)
}

// assertLineCount verifies the number of line rows in the database.
func (suite *PurchaseOrderRepositoryIntegrationTestSuite) assertLineCount(expected int) {
	var count int64
	err := suite.db.Model(&purchaseorderrepo.LineItemDTO{}).Count(&count).Error
	suite.Require().NoError(err)
	suite.Equal(int64(expected), count)
}

// assertEventCount verifies the number of event rows recorded for an order.
func (suite *PurchaseOrderRepositoryIntegrationTestSuite) assertEventCount(orderID kernel.UUID, expected int) {
	var count int64
	err := suite.db.Model(&purchaseorderrepo.OrderEventDTO{}).
		Where("order_id = ?", orderID.Bytes()).
		Count(&count).Error
	suite.Require().NoError(err)
	suite.Equal(int64(expected), count)
}

func TestPurchaseOrderRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(PurchaseOrderRepositoryIntegrationTestSuite))
}
