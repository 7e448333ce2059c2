package queries

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"posadmin/internal/core/domain/model/kernel"
	"posadmin/internal/core/domain/model/purchaseorder"
	"posadmin/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GetPurchaseOrderQueryHandler retrieves one order's detail view: header,
// line items valued under the current status, monetary totals, and the
// status history recorded by past transitions.
type GetPurchaseOrderQueryHandler struct {
	db *gorm.DB
}

// NewGetPurchaseOrderQueryHandler creates a handler for order detail queries.
// Requires a GORM database connection for query execution.
func NewGetPurchaseOrderQueryHandler(db *gorm.DB) GetPurchaseOrderQueryHandler {
	return GetPurchaseOrderQueryHandler{db: db}
}

// Handle executes the detail query.
// Returns an object-not-found error for unknown order IDs.
func (h GetPurchaseOrderQueryHandler) Handle(
	ctx context.Context,
	query GetPurchaseOrderQuery,
) (GetPurchaseOrderQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetPurchaseOrderQueryResponse{}, err
	}

	resp, err := h.loadHeader(ctx, query.OrderID())
	if err != nil {
		return GetPurchaseOrderQueryResponse{}, err
	}

	if resp.LineItems, resp.Subtotal, err = h.loadLines(ctx, query.OrderID(), resp.Status); err != nil {
		return GetPurchaseOrderQueryResponse{}, err
	}

	if resp.History, err = h.loadHistory(ctx, query.OrderID()); err != nil {
		return GetPurchaseOrderQueryResponse{}, err
	}

	resp.Total = resp.Subtotal.Add(resp.TaxAmount).Round()
	// Display-only rate derivation; the stored amount stays authoritative.
	if !resp.Subtotal.IsZero() {
		resp.TaxRatePercent = resp.TaxAmount.Amount().
			Div(resp.Subtotal.Amount()).
			Mul(decimal.NewFromInt(100)).
			Round(2)
	}

	return resp, nil
}

func (h GetPurchaseOrderQueryHandler) loadHeader(
	ctx context.Context,
	orderID kernel.UUID,
) (GetPurchaseOrderQueryResponse, error) {
	row := h.db.WithContext(ctx).Raw(`
		SELECT
			id, order_number, supplier_id, status, tax_amount, notes,
			created_by, order_date, approved_by, approved_at,
			received_date, email_sent_at
		FROM purchase_orders
		WHERE id = ?
	`, orderID.String()).Row()

	var (
		id           uuid.UUID
		supplierID   uuid.UUID
		status       int
		taxAmount    decimal.Decimal
		approvedBy   sql.NullString
		approvedAt   sql.NullTime
		receivedDate sql.NullTime
		emailSentAt  sql.NullTime
		resp         GetPurchaseOrderQueryResponse
	)

	err := row.Scan(
		&id,
		&resp.OrderNumber,
		&supplierID,
		&status,
		&taxAmount,
		&resp.Notes,
		&resp.CreatedBy,
		&resp.OrderDate,
		&approvedBy,
		&approvedAt,
		&receivedDate,
		&emailSentAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return GetPurchaseOrderQueryResponse{}, errs.NewObjectNotFoundError("purchase order", orderID.String())
	}
	if err != nil {
		return GetPurchaseOrderQueryResponse{}, err
	}

	if resp.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
		return GetPurchaseOrderQueryResponse{}, err
	}
	if resp.SupplierID, err = kernel.UUIDFromBytes(supplierID[:]); err != nil {
		return GetPurchaseOrderQueryResponse{}, err
	}
	if resp.TaxAmount, err = kernel.NewMoney(taxAmount); err != nil {
		return GetPurchaseOrderQueryResponse{}, err
	}

	resp.Status = purchaseorder.Status(status)
	if approvedBy.Valid {
		by := approvedBy.String
		resp.ApprovedBy = &by
	}
	resp.ApprovedAt = nullableTime(approvedAt)
	resp.ReceivedDate = nullableTime(receivedDate)
	resp.EmailSentAt = nullableTime(emailSentAt)

	return resp, nil
}

func (h GetPurchaseOrderQueryHandler) loadLines(
	ctx context.Context,
	orderID kernel.UUID,
	status purchaseorder.Status,
) ([]LineItemResponse, kernel.Money, error) {
	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT product_id, product_name, quantity, unit_price, received_quantity
		FROM purchase_order_lines
		WHERE order_id = ?
		ORDER BY position
	`, orderID.String()).Rows()
	if err != nil {
		return nil, kernel.Money{}, err
	}
	defer rows.Close()

	lines := make([]LineItemResponse, 0)
	subtotal := kernel.ZeroMoney()

	for rows.Next() {
		var (
			productID uuid.UUID
			unitPrice decimal.Decimal
			received  sql.NullInt64
			line      LineItemResponse
		)

		if err = rows.Scan(&productID, &line.ProductName, &line.Quantity, &unitPrice, &received); err != nil {
			return nil, kernel.Money{}, err
		}

		if line.ProductID, err = kernel.UUIDFromBytes(productID[:]); err != nil {
			return nil, kernel.Money{}, err
		}
		if line.UnitPrice, err = kernel.NewMoney(unitPrice); err != nil {
			return nil, kernel.Money{}, err
		}

		basis := line.Quantity
		if received.Valid {
			receivedQuantity := int(received.Int64)
			line.ReceivedQuantity = &receivedQuantity
			if status.UsesReceivedBasis() {
				basis = receivedQuantity
			}
		}
		line.LineTotal = line.UnitPrice.MulInt(basis)
		subtotal = subtotal.Add(line.LineTotal)

		lines = append(lines, line)
	}

	if err = rows.Err(); err != nil {
		return nil, kernel.Money{}, err
	}

	return lines, subtotal, nil
}

func (h GetPurchaseOrderQueryHandler) loadHistory(
	ctx context.Context,
	orderID kernel.UUID,
) ([]StatusChangeResponse, error) {
	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT from_status, to_status, actor, occurred_at
		FROM purchase_order_events
		WHERE order_id = ?
		ORDER BY occurred_at, id
	`, orderID.String()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	history := make([]StatusChangeResponse, 0)
	for rows.Next() {
		var (
			fromStatus int
			toStatus   int
			entry      StatusChangeResponse
		)

		if err = rows.Scan(&fromStatus, &toStatus, &entry.Actor, &entry.OccurredAt); err != nil {
			return nil, err
		}

		entry.From = purchaseorder.Status(fromStatus)
		entry.To = purchaseorder.Status(toStatus)
		history = append(history, entry)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return history, nil
}

func nullableTime(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	value := t.Time
	return &value
}
