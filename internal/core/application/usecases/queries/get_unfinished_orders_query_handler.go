package queries

import (
	"context"
	"database/sql"
	"time"

	"posadmin/internal/core/domain/model/kernel"
	"posadmin/internal/core/domain/model/purchaseorder"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GetUnfinishedOrdersQueryHandler retrieves open purchase orders from the
// database. Subtotals are computed in SQL with the dual-basis rule: lines of
// orders that value receipts use the recorded received quantity when one
// exists, all other lines use the ordered quantity.
//
// Example:
//
//	handler := NewGetUnfinishedOrdersQueryHandler(db)
//	query := NewGetUnfinishedOrdersQuery()
//
//	openOrders, err := handler.Handle(ctx, query)
//	if err != nil {
//	    log.Printf("Failed to get open orders: %v", err)
//	    return err
//	}
type GetUnfinishedOrdersQueryHandler struct {
	db *gorm.DB
}

// NewGetUnfinishedOrdersQueryHandler creates a handler for open order queries.
// Requires a GORM database connection for query execution.
func NewGetUnfinishedOrdersQueryHandler(db *gorm.DB) GetUnfinishedOrdersQueryHandler {
	return GetUnfinishedOrdersQueryHandler{db: db}
}

// Handle executes the query to retrieve all non-terminal orders.
// Results are sorted by order date, newest first, then by order number.
func (h GetUnfinishedOrdersQueryHandler) Handle(
	ctx context.Context,
	query GetUnfinishedOrdersQuery,
) ([]GetUnfinishedOrdersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	orders := make([]GetUnfinishedOrdersQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			o.id,
			o.order_number,
			o.supplier_id,
			o.status,
			o.created_by,
			o.order_date,
			o.tax_amount,
			o.email_sent_at,
			COUNT(l.product_id) AS line_count,
			COUNT(l.received_quantity) AS reconciled_line_count,
			COALESCE(SUM(
				CASE
					WHEN o.status IN (?, ?) AND l.received_quantity IS NOT NULL
						THEN l.received_quantity * l.unit_price
					ELSE l.quantity * l.unit_price
				END
			), 0) AS subtotal
		FROM purchase_orders o
		LEFT JOIN purchase_order_lines l ON l.order_id = o.id
		WHERE o.status NOT IN (?, ?)
		GROUP BY o.id, o.order_number, o.supplier_id, o.status, o.created_by,
			o.order_date, o.tax_amount, o.email_sent_at
		ORDER BY o.order_date DESC, o.order_number
	`,
		purchaseorder.Approved, purchaseorder.AwaitingConfirmation,
		purchaseorder.Received, purchaseorder.Cancelled,
	).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id          uuid.UUID
			supplierID  uuid.UUID
			status      int
			orderDate   time.Time
			taxAmount   decimal.Decimal
			subtotal    decimal.Decimal
			emailSentAt sql.NullTime
			resp        GetUnfinishedOrdersQueryResponse
		)

		err = rows.Scan(
			&id,
			&resp.OrderNumber,
			&supplierID,
			&status,
			&resp.CreatedBy,
			&orderDate,
			&taxAmount,
			&emailSentAt,
			&resp.LineCount,
			&resp.ReconciledLineCount,
			&subtotal,
		)
		if err != nil {
			return nil, err
		}

		if resp.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
			return nil, err
		}
		if resp.SupplierID, err = kernel.UUIDFromBytes(supplierID[:]); err != nil {
			return nil, err
		}
		if resp.Subtotal, err = kernel.NewMoney(subtotal); err != nil {
			return nil, err
		}
		if resp.TaxAmount, err = kernel.NewMoney(taxAmount); err != nil {
			return nil, err
		}

		resp.Status = purchaseorder.Status(status)
		resp.OrderDate = orderDate
		resp.Total = resp.Subtotal.Add(resp.TaxAmount).Round()
		if emailSentAt.Valid {
			sentAt := emailSentAt.Time
			resp.EmailSentAt = &sentAt
		}

		orders = append(orders, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}
