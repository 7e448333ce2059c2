package purchaseorder_test

import (
	"testing"

	"posadmin/internal/core/domain/model/kernel"
	"posadmin/internal/core/domain/model/purchaseorder"
	"posadmin/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustMoney(t *testing.T, s string) kernel.Money {
	t.Helper()
	m, err := kernel.NewMoneyFromString(s)
	require.NoError(t, err)
	return m
}

func TestNewLineItem(t *testing.T) {
	productID := kernel.NewUUID()

	t.Run("should create valid line item", func(t *testing.T) {
		item, err := purchaseorder.NewLineItem(productID, "Espresso Beans 1kg", 10, mustMoney(t, "5.00"))

		require.NoError(t, err)
		assert.True(t, item.ProductID().IsEqual(productID))
		assert.Equal(t, "Espresso Beans 1kg", item.ProductName())
		assert.Equal(t, 10, item.Quantity())
		assert.Equal(t, "5.00", item.UnitPrice().String())
		assert.Nil(t, item.ReceivedQuantity())
		assert.False(t, item.IsReconciled())
	})

	t.Run("should fail with invalid product ID", func(t *testing.T) {
		var invalidID kernel.UUID

		_, err := purchaseorder.NewLineItem(invalidID, "Espresso Beans 1kg", 10, mustMoney(t, "5.00"))

		require.Error(t, err)
	})

	t.Run("should fail with empty product name", func(t *testing.T) {
		_, err := purchaseorder.NewLineItem(productID, "", 10, mustMoney(t, "5.00"))

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("should fail with zero or negative quantity", func(t *testing.T) {
		_, err := purchaseorder.NewLineItem(productID, "Espresso Beans 1kg", 0, mustMoney(t, "5.00"))
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)

		_, err = purchaseorder.NewLineItem(productID, "Espresso Beans 1kg", -3, mustMoney(t, "5.00"))
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestRestoreLineItem(t *testing.T) {
	productID := kernel.NewUUID()

	t.Run("should restore line item with recorded receipt", func(t *testing.T) {
		received := 8
		item, err := purchaseorder.RestoreLineItem(productID, "Espresso Beans 1kg", 10, mustMoney(t, "5.00"), &received)

		require.NoError(t, err)
		require.NotNil(t, item.ReceivedQuantity())
		assert.Equal(t, 8, *item.ReceivedQuantity())
		assert.True(t, item.IsReconciled())
	})

	t.Run("should restore a recorded zero receipt as reconciled", func(t *testing.T) {
		received := 0
		item, err := purchaseorder.RestoreLineItem(productID, "Espresso Beans 1kg", 10, mustMoney(t, "5.00"), &received)

		require.NoError(t, err)
		assert.True(t, item.IsReconciled())
	})

	t.Run("should reject receipt outside the ordered quantity", func(t *testing.T) {
		received := 11
		_, err := purchaseorder.RestoreLineItem(productID, "Espresso Beans 1kg", 10, mustMoney(t, "5.00"), &received)

		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})
}

func TestLineItem_LineTotal(t *testing.T) {
	productID := kernel.NewUUID()

	t.Run("should value ordered quantity before reconciliation", func(t *testing.T) {
		item, _ := purchaseorder.NewLineItem(productID, "Espresso Beans 1kg", 10, mustMoney(t, "5.00"))

		assert.Equal(t, "50.00", item.LineTotal(purchaseorder.PendingApproval).String())
		assert.Equal(t, "50.00", item.LineTotal(purchaseorder.Approved).String())
	})

	t.Run("should value received quantity once recorded", func(t *testing.T) {
		received := 8
		item, _ := purchaseorder.RestoreLineItem(productID, "Espresso Beans 1kg", 10, mustMoney(t, "5.00"), &received)

		assert.Equal(t, "40.00", item.LineTotal(purchaseorder.Approved).String())
		assert.Equal(t, "40.00", item.LineTotal(purchaseorder.AwaitingConfirmation).String())
		assert.Equal(t, "40.00", item.LineTotal(purchaseorder.Received).String())
	})

	t.Run("should value a recorded zero receipt as zero", func(t *testing.T) {
		received := 0
		item, _ := purchaseorder.RestoreLineItem(productID, "Espresso Beans 1kg", 10, mustMoney(t, "5.00"), &received)

		assert.True(t, item.LineTotal(purchaseorder.Received).IsZero())
	})

	t.Run("should ignore recorded receipt while pending approval", func(t *testing.T) {
		// A receipt can survive a cancelled-and-recreated flow in restored
		// data; valuation before approval still uses the ordered quantity.
		received := 8
		item, _ := purchaseorder.RestoreLineItem(productID, "Espresso Beans 1kg", 10, mustMoney(t, "5.00"), &received)

		assert.Equal(t, "50.00", item.LineTotal(purchaseorder.PendingApproval).String())
	})
}
