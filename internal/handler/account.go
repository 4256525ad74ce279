package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/efreitasn/minibroker/internal/domain"
	"github.com/efreitasn/minibroker/internal/ledger"
	"github.com/efreitasn/minibroker/internal/service"
)

// AccountHandler handles HTTP requests for account endpoints.
type AccountHandler struct {
	accountSvc  *service.AccountService
	txPageLimit int
}

// NewAccountHandler creates a new AccountHandler. txPageLimit is the
// page size used for transaction listings when the request doesn't
// specify one.
func NewAccountHandler(accountSvc *service.AccountService, txPageLimit int) *AccountHandler {
	return &AccountHandler{
		accountSvc:  accountSvc,
		txPageLimit: txPageLimit,
	}
}

// openAccountRequest is the JSON request body for POST /accounts.
type openAccountRequest struct {
	InitialCash float64 `json:"initial_cash"`
}

// openAccountResponse is the JSON response for POST /accounts.
type openAccountResponse struct {
	AccountID   string  `json:"account_id"`
	CashBalance float64 `json:"cash_balance"`
	CreatedAt   string  `json:"created_at"`
}

// balanceResponse is the JSON response for the balance endpoint.
type balanceResponse struct {
	AccountID   string  `json:"account_id"`
	CashBalance float64 `json:"cash_balance"`
}

// positionResponse is a single portfolio entry in the positions response.
type positionResponse struct {
	Symbol       string  `json:"symbol"`
	Quantity     int64   `json:"quantity"`
	AveragePrice float64 `json:"average_price"` // dollars, weighted-average cost basis
	TotalCost    float64 `json:"total_cost"`    // dollars
}

// positionsResponse is the JSON response for the positions endpoint.
type positionsResponse struct {
	AccountID string             `json:"account_id"`
	Positions []positionResponse `json:"positions"`
}

// transactionResponse is a single executed order in the transactions response.
type transactionResponse struct {
	Kind     string  `json:"kind"`
	Symbol   string  `json:"symbol"`
	Quantity int64   `json:"quantity"`
	Price    float64 `json:"price"` // dollars, executed price per share
}

// transactionsResponse is the JSON response for the transactions endpoint.
type transactionsResponse struct {
	AccountID    string                `json:"account_id"`
	Transactions []transactionResponse `json:"transactions"`
	Page         int                   `json:"page"`
	Limit        int                   `json:"limit"`
	Total        int                   `json:"total"`
}

// Open handles POST /accounts.
func (h *AccountHandler) Open(w http.ResponseWriter, r *http.Request) {
	var req openAccountRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	rec, err := h.accountSvc.Open(service.OpenAccountRequest{InitialCash: req.InitialCash})
	if err != nil {
		mapAccountError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, openAccountResponse{
		AccountID:   rec.AccountID,
		CashBalance: req.InitialCash,
		CreatedAt:   rec.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
	})
}

// GetBalance handles GET /accounts/{account_id}/balance.
func (h *AccountHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "account_id")

	cents, err := h.accountSvc.Balance(accountID)
	if err != nil {
		mapAccountError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, balanceResponse{
		AccountID:   accountID,
		CashBalance: domain.CentsToDollars(cents),
	})
}

// GetPositions handles GET /accounts/{account_id}/positions.
func (h *AccountHandler) GetPositions(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "account_id")

	positions, err := h.accountSvc.Positions(accountID)
	if err != nil {
		mapAccountError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, positionsResponse{
		AccountID: accountID,
		Positions: buildPositionResponses(positions),
	})
}

// GetTransactions handles GET /accounts/{account_id}/transactions.
// Supports optional page and limit query parameters (1-based).
func (h *AccountHandler) GetTransactions(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "account_id")

	page, ok := parsePositiveIntParam(w, r, "page", 1)
	if !ok {
		return
	}
	limit, ok := parsePositiveIntParam(w, r, "limit", h.txPageLimit)
	if !ok {
		return
	}

	txs, total, err := h.accountSvc.Transactions(accountID, page, limit)
	if err != nil {
		mapAccountError(w, err)
		return
	}

	result := make([]transactionResponse, len(txs))
	for i, tx := range txs {
		result[i] = transactionResponse{
			Kind:     string(tx.Kind),
			Symbol:   tx.Position.Symbol,
			Quantity: tx.Position.Quantity,
			Price:    domain.CentsToDollars(tx.Position.Price),
		}
	}

	WriteJSON(w, http.StatusOK, transactionsResponse{
		AccountID:    accountID,
		Transactions: result,
		Page:         page,
		Limit:        limit,
		Total:        total,
	})
}

// buildPositionResponses converts ledger positions to response entries.
func buildPositionResponses(positions []ledger.Position) []positionResponse {
	result := make([]positionResponse, len(positions))
	for i, p := range positions {
		result[i] = positionResponse{
			Symbol:       p.Symbol,
			Quantity:     p.Quantity,
			AveragePrice: p.AverageCostCents() / 100.0,
			TotalCost:    domain.CentsToDollars(p.CostCents),
		}
	}
	return result
}

// parsePositiveIntParam parses an optional positive integer query
// parameter, writing a 400 response and returning ok=false when the
// value is present but not a positive integer.
func parsePositiveIntParam(w http.ResponseWriter, r *http.Request, name string, defaultVal int) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return defaultVal, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 {
		WriteError(w, http.StatusBadRequest, "validation_error", name+" must be a positive integer")
		return 0, false
	}
	return v, true
}

// mapAccountError maps domain errors to HTTP responses for account endpoints.
func mapAccountError(w http.ResponseWriter, err error) {
	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		WriteError(w, http.StatusBadRequest, "validation_error", validationErr.Message)
		return
	}

	switch {
	case errors.Is(err, domain.ErrAccountNotFound):
		WriteError(w, http.StatusNotFound, "account_not_found", err.Error())
	case errors.Is(err, domain.ErrAccountExists):
		WriteError(w, http.StatusConflict, "account_already_exists", err.Error())
	default:
		WriteError(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
	}
}
