package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/efreitasn/minibroker/internal/domain"
	"github.com/efreitasn/minibroker/internal/service"
)

// OrderHandler handles HTTP requests for order endpoints.
type OrderHandler struct {
	orderSvc *service.OrderService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(orderSvc *service.OrderService) *OrderHandler {
	return &OrderHandler{orderSvc: orderSvc}
}

// submitOrderRequest is the JSON request body for POST /accounts/{account_id}/orders.
type submitOrderRequest struct {
	Kind     string  `json:"kind"`
	Symbol   string  `json:"symbol"`
	Quantity int64   `json:"quantity"`
	Price    float64 `json:"price"`
}

// submitOrderResponse is the JSON response for order submission. A 200
// response with filled_quantity 0 means the order was unsatisfiable and
// nothing happened — partial and zero fills are outcomes, not errors.
type submitOrderResponse struct {
	AccountID         string  `json:"account_id"`
	Kind              string  `json:"kind"`
	Symbol            string  `json:"symbol"`
	RequestedQuantity int64   `json:"requested_quantity"`
	FilledQuantity    int64   `json:"filled_quantity"`
	Price             float64 `json:"price"`
	CashBalance       float64 `json:"cash_balance"`
}

// Submit handles POST /accounts/{account_id}/orders.
func (h *OrderHandler) Submit(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "account_id")

	var req submitOrderRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	result, err := h.orderSvc.Submit(service.SubmitOrderRequest{
		AccountID: accountID,
		Kind:      domain.OrderKind(req.Kind),
		Symbol:    req.Symbol,
		Quantity:  req.Quantity,
		Price:     req.Price,
	})
	if err != nil {
		mapAccountError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, submitOrderResponse{
		AccountID:         result.AccountID,
		Kind:              req.Kind,
		Symbol:            req.Symbol,
		RequestedQuantity: result.Requested,
		FilledQuantity:    result.Filled,
		Price:             req.Price,
		CashBalance:       domain.CentsToDollars(result.CashCents),
	})
}
