package service

import (
	"fmt"
	"regexp"

	"github.com/efreitasn/minibroker/internal/domain"
	"github.com/efreitasn/minibroker/internal/metrics"
	"github.com/efreitasn/minibroker/internal/store"
)

var orderSymbolRegex = regexp.MustCompile(`^[A-Z]{1,10}$`)

// SubmitOrderRequest represents the input for order submission. Price
// is the caller-supplied per-share price in dollars; there is no market
// data feed, so every order carries its own price.
type SubmitOrderRequest struct {
	AccountID string
	Kind      domain.OrderKind
	Symbol    string
	Quantity  int64
	Price     float64
}

// SubmitOrderResult describes the outcome of a processed order. Filled
// may be anything from zero to the requested quantity; a zero fill is a
// successful no-op, not an error. Executed is the order as logged
// (requested price, executed quantity) and is zero-valued when nothing
// filled.
type SubmitOrderResult struct {
	AccountID string
	Requested int64
	Filled    int64
	Executed  domain.Order
	CashCents int64 // balance after processing
}

// OrderService validates and submits orders against account ledgers.
type OrderService struct {
	store *store.AccountStore
}

// NewOrderService creates a new OrderService.
func NewOrderService(store *store.AccountStore) *OrderService {
	return &OrderService{store: store}
}

// Submit validates the request and runs the order through the account's
// ledger under the account lock. Unsatisfiable orders are clamped by
// the ledger, never rejected; validation failures (bad kind, symbol,
// non-positive quantity or price) are rejected before the ledger is
// touched.
func (s *OrderService) Submit(req SubmitOrderRequest) (*SubmitOrderResult, error) {
	if req.Kind != domain.OrderKindBuy && req.Kind != domain.OrderKindSell {
		return nil, &domain.ValidationError{
			Message: fmt.Sprintf("Unknown order kind: %s. Must be one of: buy, sell", req.Kind),
		}
	}
	if !orderSymbolRegex.MatchString(req.Symbol) {
		return nil, &domain.ValidationError{
			Message: "symbol must match ^[A-Z]{1,10}$",
		}
	}
	if req.Quantity <= 0 {
		return nil, &domain.ValidationError{
			Message: "quantity must be a positive integer",
		}
	}
	if req.Price <= 0 {
		return nil, &domain.ValidationError{
			Message: "price must be greater than 0",
		}
	}
	priceCents, err := domain.DollarsToCents(req.Price)
	if err != nil {
		return nil, &domain.ValidationError{
			Message: "price must have at most 2 decimal places",
		}
	}

	rec, err := s.store.Get(req.AccountID)
	if err != nil {
		return nil, err
	}

	order := domain.Order{
		Kind: req.Kind,
		Position: domain.SecurityPosition{
			Symbol:   req.Symbol,
			Quantity: req.Quantity,
			Price:    priceCents,
		},
	}

	rec.Mu.Lock()
	filled := rec.Ledger.SubmitOrder(order)
	cash := rec.Ledger.CashBalanceCents()
	rec.Mu.Unlock()

	metrics.OrdersTotal.WithLabelValues(string(req.Kind), metrics.FillOutcome(req.Quantity, filled)).Inc()
	if filled > 0 {
		metrics.SharesFilledTotal.WithLabelValues(string(req.Kind)).Add(float64(filled))
	}

	result := &SubmitOrderResult{
		AccountID: req.AccountID,
		Requested: req.Quantity,
		Filled:    filled,
		CashCents: cash,
	}
	if filled > 0 {
		result.Executed = domain.Order{
			Kind: req.Kind,
			Position: domain.SecurityPosition{
				Symbol:   req.Symbol,
				Quantity: filled,
				Price:    priceCents,
			},
		}
	}
	return result, nil
}
