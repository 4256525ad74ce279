package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/efreitasn/minibroker/internal/service"
	"github.com/efreitasn/minibroker/internal/store"
)

// testEnv bundles all dependencies for handler integration tests.
type testEnv struct {
	router     http.Handler
	accountSvc *service.AccountService
	orderSvc   *service.OrderService
}

func newTestEnv() *testEnv {
	st := store.NewAccountStore()
	accountSvc := service.NewAccountService(st)
	orderSvc := service.NewOrderService(st)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	router := NewRouter(accountSvc, orderSvc, 50, logger)

	return &testEnv{
		router:     router,
		accountSvc: accountSvc,
		orderSvc:   orderSvc,
	}
}

// doJSON sends a JSON request and returns the recorder.
func (env *testEnv) doJSON(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	env.router.ServeHTTP(rr, req)
	return rr
}

// doRaw sends a raw request with optional content-type override.
func (env *testEnv) doRaw(t *testing.T, method, path, contentType, rawBody string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(rawBody))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rr := httptest.NewRecorder()
	env.router.ServeHTTP(rr, req)
	return rr
}

// decodeJSON decodes the response body into v.
func decodeJSON(t *testing.T, rr *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(rr.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v (body: %s)", err, rr.Body.String())
	}
}

// openAccount is a helper that opens an account via the API and returns
// its ID.
func (env *testEnv) openAccount(t *testing.T, cash float64) string {
	t.Helper()
	rr := env.doJSON(t, "POST", "/accounts", map[string]any{"initial_cash": cash})
	if rr.Code != http.StatusCreated {
		t.Fatalf("open account: status %d, body %s", rr.Code, rr.Body.String())
	}
	var resp struct {
		AccountID string `json:"account_id"`
	}
	decodeJSON(t, rr, &resp)
	return resp.AccountID
}

// submitOrder is a helper that submits an order via the API and returns
// the decoded response.
func (env *testEnv) submitOrder(t *testing.T, accountID, kind, symbol string, qty int64, price float64) map[string]any {
	t.Helper()
	rr := env.doJSON(t, "POST", "/accounts/"+accountID+"/orders", map[string]any{
		"kind":     kind,
		"symbol":   symbol,
		"quantity": qty,
		"price":    price,
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("submit order: status %d, body %s", rr.Code, rr.Body.String())
	}
	var resp map[string]any
	decodeJSON(t, rr, &resp)
	return resp
}

func TestHealthz(t *testing.T) {
	env := newTestEnv()

	rr := env.doJSON(t, "GET", "/healthz", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	env := newTestEnv()

	rr := env.doJSON(t, "GET", "/metrics", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "minibroker_") {
		t.Error("expected minibroker metrics in /metrics output")
	}
}

func TestOpenAccount(t *testing.T) {
	env := newTestEnv()

	rr := env.doJSON(t, "POST", "/accounts", map[string]any{"initial_cash": 10000.00})
	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}

	var resp struct {
		AccountID   string  `json:"account_id"`
		CashBalance float64 `json:"cash_balance"`
	}
	decodeJSON(t, rr, &resp)
	if resp.AccountID == "" {
		t.Error("expected account_id in response")
	}
	if resp.CashBalance != 10000.00 {
		t.Errorf("cash_balance = %v, want 10000", resp.CashBalance)
	}
}

func TestOpenAccount_Validation(t *testing.T) {
	env := newTestEnv()

	rr := env.doJSON(t, "POST", "/accounts", map[string]any{"initial_cash": -5.00})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}

	var resp struct {
		Error string `json:"error"`
	}
	decodeJSON(t, rr, &resp)
	if resp.Error != "validation_error" {
		t.Errorf("error = %q, want validation_error", resp.Error)
	}
}

func TestOpenAccount_RejectsNonJSONContentType(t *testing.T) {
	env := newTestEnv()

	rr := env.doRaw(t, "POST", "/accounts", "text/plain", `{"initial_cash": 100}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
}

func TestSubmitOrder_BuyAndPartialFill(t *testing.T) {
	env := newTestEnv()
	id := env.openAccount(t, 10000.00)

	// 101 shares at $100 only affords 100.
	resp := env.submitOrder(t, id, "buy", "AAPL", 101, 100.00)
	if got := resp["filled_quantity"].(float64); got != 100 {
		t.Errorf("filled_quantity = %v, want 100", got)
	}
	if got := resp["requested_quantity"].(float64); got != 101 {
		t.Errorf("requested_quantity = %v, want 101", got)
	}
	if got := resp["cash_balance"].(float64); got != 0 {
		t.Errorf("cash_balance = %v, want 0", got)
	}
}

func TestSubmitOrder_ZeroFillIsOK(t *testing.T) {
	env := newTestEnv()
	id := env.openAccount(t, 10000.00)

	resp := env.submitOrder(t, id, "sell", "AAPL", 10, 100.00)
	if got := resp["filled_quantity"].(float64); got != 0 {
		t.Errorf("filled_quantity = %v, want 0", got)
	}
	if got := resp["cash_balance"].(float64); got != 10000.00 {
		t.Errorf("cash_balance = %v, want 10000", got)
	}
}

func TestSubmitOrder_Validation(t *testing.T) {
	env := newTestEnv()
	id := env.openAccount(t, 10000.00)

	tests := []struct {
		name string
		body map[string]any
	}{
		{"unknown kind", map[string]any{"kind": "short", "symbol": "AAPL", "quantity": 1, "price": 1.00}},
		{"bad symbol", map[string]any{"kind": "buy", "symbol": "aapl", "quantity": 1, "price": 1.00}},
		{"zero quantity", map[string]any{"kind": "buy", "symbol": "AAPL", "quantity": 0, "price": 1.00}},
		{"zero price", map[string]any{"kind": "buy", "symbol": "AAPL", "quantity": 1, "price": 0.00}},
		{"unknown field", map[string]any{"kind": "buy", "symbol": "AAPL", "quantity": 1, "price": 1.00, "side": "bid"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := env.doJSON(t, "POST", "/accounts/"+id+"/orders", tt.body)
			if rr.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400 (body %s)", rr.Code, rr.Body.String())
			}
		})
	}
}

func TestSubmitOrder_AccountNotFound(t *testing.T) {
	env := newTestEnv()

	rr := env.doJSON(t, "POST", "/accounts/nope/orders", map[string]any{
		"kind": "buy", "symbol": "AAPL", "quantity": 1, "price": 1.00,
	})
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rr.Code)
	}
}

func TestGetPositions_CostBasisFlow(t *testing.T) {
	env := newTestEnv()
	id := env.openAccount(t, 10000.00)

	env.submitOrder(t, id, "buy", "AAPL", 10, 10.00)
	env.submitOrder(t, id, "buy", "AAPL", 10, 40.00)
	env.submitOrder(t, id, "sell", "AAPL", 5, 60.00)

	rr := env.doJSON(t, "GET", "/accounts/"+id+"/positions", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}

	var resp struct {
		Positions []struct {
			Symbol       string  `json:"symbol"`
			Quantity     int64   `json:"quantity"`
			AveragePrice float64 `json:"average_price"`
		} `json:"positions"`
	}
	decodeJSON(t, rr, &resp)
	if len(resp.Positions) != 1 {
		t.Fatalf("expected 1 position, got %d", len(resp.Positions))
	}
	p := resp.Positions[0]
	if p.Symbol != "AAPL" || p.Quantity != 15 || p.AveragePrice != 30.00 {
		t.Errorf("position = %+v, want AAPL 15 @ $30", p)
	}
}

func TestGetBalance(t *testing.T) {
	env := newTestEnv()
	id := env.openAccount(t, 500.50)

	rr := env.doJSON(t, "GET", "/accounts/"+id+"/balance", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}

	var resp struct {
		CashBalance float64 `json:"cash_balance"`
	}
	decodeJSON(t, rr, &resp)
	if resp.CashBalance != 500.50 {
		t.Errorf("cash_balance = %v, want 500.50", resp.CashBalance)
	}
}

func TestGetBalance_NotFound(t *testing.T) {
	env := newTestEnv()

	rr := env.doJSON(t, "GET", "/accounts/nope/balance", nil)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rr.Code)
	}
}

func TestGetTransactions_PaginationAndOrder(t *testing.T) {
	env := newTestEnv()
	id := env.openAccount(t, 100000.00)

	env.submitOrder(t, id, "buy", "AAPL", 10, 10.00)
	env.submitOrder(t, id, "buy", "MSFT", 5, 20.00)
	env.submitOrder(t, id, "sell", "AAPL", 4, 30.00)

	rr := env.doJSON(t, "GET", "/accounts/"+id+"/transactions?page=1&limit=2", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}

	var resp struct {
		Transactions []struct {
			Kind     string  `json:"kind"`
			Symbol   string  `json:"symbol"`
			Quantity int64   `json:"quantity"`
			Price    float64 `json:"price"`
		} `json:"transactions"`
		Total int `json:"total"`
	}
	decodeJSON(t, rr, &resp)
	if resp.Total != 3 {
		t.Errorf("total = %d, want 3", resp.Total)
	}
	if len(resp.Transactions) != 2 {
		t.Fatalf("expected 2 transactions on page 1, got %d", len(resp.Transactions))
	}
	// Log is in processing order.
	if resp.Transactions[0].Symbol != "AAPL" || resp.Transactions[0].Kind != "buy" {
		t.Errorf("first transaction = %+v, want buy AAPL", resp.Transactions[0])
	}
	if resp.Transactions[1].Symbol != "MSFT" {
		t.Errorf("second transaction = %+v, want buy MSFT", resp.Transactions[1])
	}
}

func TestGetTransactions_BadPageParam(t *testing.T) {
	env := newTestEnv()
	id := env.openAccount(t, 100.00)

	rr := env.doJSON(t, "GET", "/accounts/"+id+"/transactions?page=zero", nil)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
}
