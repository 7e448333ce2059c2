package http

import (
	"errors"
	"net/http"
	"time"

	"posadmin/internal/core/application/usecases/commands"
	"posadmin/internal/core/application/usecases/queries"
	"posadmin/internal/core/domain/model/kernel"
	"posadmin/internal/core/domain/model/purchaseorder"
	"posadmin/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// Server handles the purchase-order admin API. It coordinates between HTTP
// handlers and application use cases and owns the mapping from domain errors
// to HTTP status codes.
type Server struct {
	// Command handlers
	createOrderHandler     commands.CreatePurchaseOrderCommandHandler
	applyTransitionHandler commands.ApplyTransitionCommandHandler
	batchTransitionHandler commands.BatchTransitionCommandHandler
	sendOrderEmailHandler  commands.SendOrderEmailCommandHandler

	// Query handlers
	getUnfinishedOrdersHandler queries.GetUnfinishedOrdersQueryHandler
	getPurchaseOrderHandler    queries.GetPurchaseOrderQueryHandler
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(
	createOrderHandler commands.CreatePurchaseOrderCommandHandler,
	applyTransitionHandler commands.ApplyTransitionCommandHandler,
	batchTransitionHandler commands.BatchTransitionCommandHandler,
	sendOrderEmailHandler commands.SendOrderEmailCommandHandler,
	getUnfinishedOrdersHandler queries.GetUnfinishedOrdersQueryHandler,
	getPurchaseOrderHandler queries.GetPurchaseOrderQueryHandler,
) *Server {
	return &Server{
		createOrderHandler:         createOrderHandler,
		applyTransitionHandler:     applyTransitionHandler,
		batchTransitionHandler:     batchTransitionHandler,
		sendOrderEmailHandler:      sendOrderEmailHandler,
		getUnfinishedOrdersHandler: getUnfinishedOrdersHandler,
		getPurchaseOrderHandler:    getPurchaseOrderHandler,
	}
}

// RegisterRoutes attaches every purchase-order route under /api/v1.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api/v1")

	api.POST("/purchase-orders", s.CreatePurchaseOrder)
	api.GET("/purchase-orders", s.GetUnfinishedOrders)
	api.GET("/purchase-orders/:id", s.GetPurchaseOrder)
	api.POST("/purchase-orders/:id/email", s.SendOrderEmail)
	api.POST("/purchase-orders/:id/:transition", s.ApplyTransition)
	api.POST("/purchase-orders/batch/:transition", s.BatchTransition)
}

// Error is the JSON error body returned by every failing route.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// LineItemRequest is one requested product line in an order creation request.
type LineItemRequest struct {
	ProductID   string          `json:"productId"`
	ProductName string          `json:"productName"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
}

// CreatePurchaseOrderRequest is the body of POST /purchase-orders.
type CreatePurchaseOrderRequest struct {
	OrderNumber    string            `json:"orderNumber"`
	SupplierID     string            `json:"supplierId"`
	OrderDate      time.Time         `json:"orderDate"`
	Notes          string            `json:"notes"`
	TaxRatePercent decimal.Decimal   `json:"taxRatePercent"`
	Lines          []LineItemRequest `json:"lines"`
}

// ReceiptRequest is one counted line in a reconcile or confirm request.
type ReceiptRequest struct {
	ProductID        string `json:"productId"`
	ReceivedQuantity int    `json:"receivedQuantity"`
}

// TransitionRequest is the optional body of a single-order transition.
// Receipts are only consulted for reconcile and confirm.
type TransitionRequest struct {
	Receipts []ReceiptRequest `json:"receipts"`
}

// BatchTransitionRequest is the body of POST /purchase-orders/batch/:transition.
type BatchTransitionRequest struct {
	OrderIDs []string `json:"orderIds"`
}

// BatchFailureResponse reports one order that could not be transitioned.
type BatchFailureResponse struct {
	OrderID string `json:"orderId"`
	Reason  string `json:"reason"`
}

// BatchTransitionResponse tallies a batch transition per order.
type BatchTransitionResponse struct {
	Succeeded []string               `json:"succeeded"`
	Failed    []BatchFailureResponse `json:"failed"`
}

// SendOrderEmailRequest is the body of POST /purchase-orders/:id/email.
type SendOrderEmailRequest struct {
	Recipient string `json:"recipient"`
}

// PurchaseOrderSummary is one row of the unfinished-orders list.
type PurchaseOrderSummary struct {
	ID                  string     `json:"id"`
	OrderNumber         string     `json:"orderNumber"`
	SupplierID          string     `json:"supplierId"`
	Status              string     `json:"status"`
	CreatedBy           string     `json:"createdBy"`
	OrderDate           time.Time  `json:"orderDate"`
	Subtotal            string     `json:"subtotal"`
	TaxAmount           string     `json:"taxAmount"`
	Total               string     `json:"total"`
	LineCount           int        `json:"lineCount"`
	ReconciledLineCount int        `json:"reconciledLineCount"`
	EmailSentAt         *time.Time `json:"emailSentAt,omitempty"`
}

// LineItemView is one line of the order detail view.
type LineItemView struct {
	ProductID        string `json:"productId"`
	ProductName      string `json:"productName"`
	Quantity         int    `json:"quantity"`
	UnitPrice        string `json:"unitPrice"`
	ReceivedQuantity *int   `json:"receivedQuantity,omitempty"`
	LineTotal        string `json:"lineTotal"`
}

// StatusChangeView is one entry of the order's status history.
type StatusChangeView struct {
	From       string    `json:"from"`
	To         string    `json:"to"`
	Actor      string    `json:"actor"`
	OccurredAt time.Time `json:"occurredAt"`
}

// PurchaseOrderDetail is the full detail view of one order.
type PurchaseOrderDetail struct {
	ID             string             `json:"id"`
	OrderNumber    string             `json:"orderNumber"`
	SupplierID     string             `json:"supplierId"`
	Status         string             `json:"status"`
	Notes          string             `json:"notes,omitempty"`
	CreatedBy      string             `json:"createdBy"`
	OrderDate      time.Time          `json:"orderDate"`
	ApprovedBy     *string            `json:"approvedBy,omitempty"`
	ApprovedAt     *time.Time         `json:"approvedAt,omitempty"`
	ReceivedDate   *time.Time         `json:"receivedDate,omitempty"`
	EmailSentAt    *time.Time         `json:"emailSentAt,omitempty"`
	Lines          []LineItemView     `json:"lines"`
	Subtotal       string             `json:"subtotal"`
	TaxAmount      string             `json:"taxAmount"`
	TaxRatePercent string             `json:"taxRatePercent"`
	Total          string             `json:"total"`
	History        []StatusChangeView `json:"history"`
}

// CreatePurchaseOrder handles POST /api/v1/purchase-orders.
func (s *Server) CreatePurchaseOrder(ctx echo.Context) error {
	actor, _, err := actorFromHeaders(ctx)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	var request CreatePurchaseOrderRequest
	if err := ctx.Bind(&request); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	supplierID, err := kernel.UUIDFromString(request.SupplierID)
	if err != nil {
		return badRequest(ctx, "Invalid supplier ID: "+err.Error())
	}

	lineItems, err := lineItemsFromRequest(request.Lines)
	if err != nil {
		return badRequest(ctx, "Invalid order lines: "+err.Error())
	}

	orderID := kernel.NewUUID()
	cmd, err := commands.NewCreatePurchaseOrderCommand(
		orderID,
		request.OrderNumber,
		supplierID,
		actor,
		request.OrderDate,
		request.Notes,
		lineItems,
		request.TaxRatePercent,
	)
	if err != nil {
		return badRequest(ctx, "Invalid order data: "+err.Error())
	}

	if handleErr := s.createOrderHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return domainError(ctx, handleErr)
	}

	return ctx.JSON(http.StatusCreated, map[string]string{"id": orderID.String()})
}

// ApplyTransition handles POST /api/v1/purchase-orders/:id/:transition.
func (s *Server) ApplyTransition(ctx echo.Context) error {
	actor, role, err := actorFromHeaders(ctx)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid order ID: "+err.Error())
	}

	transition, err := purchaseorder.ParseTransition(ctx.Param("transition"))
	if err != nil {
		return badRequest(ctx, "Unknown transition: "+ctx.Param("transition"))
	}

	// The body is optional; approve, revert and cancel take none.
	var request TransitionRequest
	if ctx.Request().ContentLength > 0 {
		if err := ctx.Bind(&request); err != nil {
			return badRequest(ctx, "Invalid request body")
		}
	}

	receipts, err := receiptsFromRequest(request.Receipts)
	if err != nil {
		return badRequest(ctx, "Invalid receipts: "+err.Error())
	}

	cmd, err := commands.NewApplyTransitionCommand(orderID, transition, actor, role, receipts)
	if err != nil {
		return badRequest(ctx, "Invalid transition data: "+err.Error())
	}

	if handleErr := s.applyTransitionHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return domainError(ctx, handleErr)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// BatchTransition handles POST /api/v1/purchase-orders/batch/:transition.
// Partial success is a 200 with the per-order tally; only batch-wide
// failures (bad input, role denial, listing errors) produce an error status.
func (s *Server) BatchTransition(ctx echo.Context) error {
	actor, role, err := actorFromHeaders(ctx)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	transition, err := purchaseorder.ParseTransition(ctx.Param("transition"))
	if err != nil {
		return badRequest(ctx, "Unknown transition: "+ctx.Param("transition"))
	}

	var request BatchTransitionRequest
	if err := ctx.Bind(&request); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	orderIDs := make([]kernel.UUID, 0, len(request.OrderIDs))
	for _, raw := range request.OrderIDs {
		orderID, err := kernel.UUIDFromString(raw)
		if err != nil {
			return badRequest(ctx, "Invalid order ID: "+raw)
		}
		orderIDs = append(orderIDs, orderID)
	}

	cmd, err := commands.NewBatchTransitionCommand(orderIDs, transition, actor, role)
	if err != nil {
		return badRequest(ctx, "Invalid batch data: "+err.Error())
	}

	result, err := s.batchTransitionHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return domainError(ctx, err)
	}

	response := BatchTransitionResponse{
		Succeeded: make([]string, len(result.Succeeded)),
		Failed:    make([]BatchFailureResponse, len(result.Failed)),
	}
	for i, id := range result.Succeeded {
		response.Succeeded[i] = id.String()
	}
	for i, failure := range result.Failed {
		response.Failed[i] = BatchFailureResponse{
			OrderID: failure.OrderID.String(),
			Reason:  failure.Reason,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// SendOrderEmail handles POST /api/v1/purchase-orders/:id/email.
// Pass ?force=true to resend an already-dispatched order.
func (s *Server) SendOrderEmail(ctx echo.Context) error {
	actor, _, err := actorFromHeaders(ctx)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid order ID: "+err.Error())
	}

	var request SendOrderEmailRequest
	if err := ctx.Bind(&request); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	force := ctx.QueryParam("force") == "true"

	cmd, err := commands.NewSendOrderEmailCommand(orderID, request.Recipient, actor, force)
	if err != nil {
		return badRequest(ctx, "Invalid email data: "+err.Error())
	}

	if handleErr := s.sendOrderEmailHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return domainError(ctx, handleErr)
	}

	return ctx.NoContent(http.StatusAccepted)
}

// GetUnfinishedOrders handles GET /api/v1/purchase-orders.
func (s *Server) GetUnfinishedOrders(ctx echo.Context) error {
	query := queries.NewGetUnfinishedOrdersQuery()

	orders, err := s.getUnfinishedOrdersHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return domainError(ctx, err)
	}

	response := make([]PurchaseOrderSummary, len(orders))
	for i, order := range orders {
		response[i] = PurchaseOrderSummary{
			ID:                  order.ID.String(),
			OrderNumber:         order.OrderNumber,
			SupplierID:          order.SupplierID.String(),
			Status:              order.Status.String(),
			CreatedBy:           order.CreatedBy,
			OrderDate:           order.OrderDate,
			Subtotal:            order.Subtotal.String(),
			TaxAmount:           order.TaxAmount.String(),
			Total:               order.Total.String(),
			LineCount:           order.LineCount,
			ReconciledLineCount: order.ReconciledLineCount,
			EmailSentAt:         order.EmailSentAt,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// GetPurchaseOrder handles GET /api/v1/purchase-orders/:id.
func (s *Server) GetPurchaseOrder(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid order ID: "+err.Error())
	}

	query, err := queries.NewGetPurchaseOrderQuery(orderID)
	if err != nil {
		return badRequest(ctx, "Invalid query: "+err.Error())
	}

	order, err := s.getPurchaseOrderHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return domainError(ctx, err)
	}

	lines := make([]LineItemView, len(order.LineItems))
	for i, line := range order.LineItems {
		lines[i] = LineItemView{
			ProductID:        line.ProductID.String(),
			ProductName:      line.ProductName,
			Quantity:         line.Quantity,
			UnitPrice:        line.UnitPrice.String(),
			ReceivedQuantity: line.ReceivedQuantity,
			LineTotal:        line.LineTotal.String(),
		}
	}

	history := make([]StatusChangeView, len(order.History))
	for i, change := range order.History {
		history[i] = StatusChangeView{
			From:       change.From.String(),
			To:         change.To.String(),
			Actor:      change.Actor,
			OccurredAt: change.OccurredAt,
		}
	}

	return ctx.JSON(http.StatusOK, PurchaseOrderDetail{
		ID:             order.ID.String(),
		OrderNumber:    order.OrderNumber,
		SupplierID:     order.SupplierID.String(),
		Status:         order.Status.String(),
		Notes:          order.Notes,
		CreatedBy:      order.CreatedBy,
		OrderDate:      order.OrderDate,
		ApprovedBy:     order.ApprovedBy,
		ApprovedAt:     order.ApprovedAt,
		ReceivedDate:   order.ReceivedDate,
		EmailSentAt:    order.EmailSentAt,
		Lines:          lines,
		Subtotal:       order.Subtotal.String(),
		TaxAmount:      order.TaxAmount.String(),
		TaxRatePercent: order.TaxRatePercent.StringFixed(2),
		Total:          order.Total.String(),
		History:        history,
	})
}

// actorFromHeaders reads the acting user and their role from the X-Actor and
// X-Actor-Role headers set by the console's identity proxy.
func actorFromHeaders(ctx echo.Context) (string, kernel.Role, error) {
	actor := ctx.Request().Header.Get("X-Actor")
	if actor == "" {
		return "", "", errors.New("X-Actor header is required")
	}

	role, err := kernel.ParseRole(ctx.Request().Header.Get("X-Actor-Role"))
	if err != nil {
		return "", "", errors.New("X-Actor-Role header is missing or unknown")
	}

	return actor, role, nil
}

func lineItemsFromRequest(lines []LineItemRequest) ([]commands.LineItemInput, error) {
	lineItems := make([]commands.LineItemInput, 0, len(lines))
	for _, line := range lines {
		productID, err := kernel.UUIDFromString(line.ProductID)
		if err != nil {
			return nil, err
		}

		unitPrice, err := kernel.NewMoney(line.UnitPrice)
		if err != nil {
			return nil, err
		}

		lineItems = append(lineItems, commands.LineItemInput{
			ProductID:   productID,
			ProductName: line.ProductName,
			Quantity:    line.Quantity,
			UnitPrice:   unitPrice,
		})
	}
	return lineItems, nil
}

func receiptsFromRequest(receipts []ReceiptRequest) (map[kernel.UUID]int, error) {
	if len(receipts) == 0 {
		return nil, nil
	}

	result := make(map[kernel.UUID]int, len(receipts))
	for _, receipt := range receipts {
		productID, err := kernel.UUIDFromString(receipt.ProductID)
		if err != nil {
			return nil, err
		}
		result[productID] = receipt.ReceivedQuantity
	}
	return result, nil
}

func badRequest(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusBadRequest, Error{
		Code:    http.StatusBadRequest,
		Message: message,
	})
}

// domainError maps a use-case error to its HTTP status. Validation failures
// that slipped past request parsing surface as 422 so the console can tell
// malformed requests apart from rule violations.
func domainError(ctx echo.Context, err error) error {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		status = http.StatusNotFound
	case errors.Is(err, errs.ErrPermissionDenied):
		status = http.StatusForbidden
	case errors.Is(err, purchaseorder.ErrInvalidTransition),
		errors.Is(err, purchaseorder.ErrEmailAlreadySent),
		errors.Is(err, purchaseorder.ErrEmailNotSendable):
		status = http.StatusConflict
	case errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, errs.ErrPersistenceFailed):
		status = http.StatusInternalServerError
	}

	return ctx.JSON(status, Error{
		Code:    status,
		Message: err.Error(),
	})
}
