package ledger

import (
	"github.com/google/btree"

	"github.com/efreitasn/minibroker/internal/domain"
)

// Account is a single brokerage account: a cash balance, a cost-basis-
// aware portfolio, per-security FIFO lot queues, and an append-only log
// of executed transactions. All four structures move in lockstep — the
// only mutation path is SubmitOrder.
//
// An Account is not safe for concurrent use. It is designed for a
// single owner; callers that share an account across goroutines must
// serialize every call through one lock (see store.AccountRecord).
type Account struct {
	cashCents    int64
	portfolio    *btree.BTreeG[Position]
	lots         map[string]*lotQueue // symbol → FIFO buy lots
	transactions []domain.Order
}

// New creates an account holding the given opening cash balance, with
// an empty portfolio and transaction log. A negative opening balance is
// treated as zero; the service layer rejects it before it gets here.
func New(initialCashCents int64) *Account {
	if initialCashCents < 0 {
		initialCashCents = 0
	}
	const degree = 32
	return &Account{
		cashCents: initialCashCents,
		portfolio: btree.NewG[Position](degree, positionLess),
		lots:      make(map[string]*lotQueue),
	}
}

// SubmitOrder processes a buy or sell order and returns the quantity
// actually transacted. Orders are filled up to what the account can
// afford (buys) or holds (sells); an unsatisfiable order fills zero.
// A zero fill is a complete no-op: no state change, no log entry.
//
// Partial fills are policy, not failure, so there is no error return.
// A non-positive quantity or price, an empty symbol, or an unknown
// order kind violates the input contract and is defensively treated as
// a zero fill.
func (a *Account) SubmitOrder(order domain.Order) int64 {
	req := order.Position
	if req.Symbol == "" || req.Quantity <= 0 || req.Price <= 0 {
		return 0
	}

	var executed int64
	switch order.Kind {
	case domain.OrderKindBuy:
		// Clamp to what the cash balance affords. Integer division
		// gives an exact floor, so the balance can never go negative.
		executed = a.cashCents / req.Price
		if req.Quantity < executed {
			executed = req.Quantity
		}
	case domain.OrderKindSell:
		// Clamp to the held quantity; selling an unheld security
		// fills zero.
		held, ok := a.portfolio.Get(Position{Symbol: req.Symbol})
		if !ok {
			return 0
		}
		executed = held.Quantity
		if req.Quantity < executed {
			executed = req.Quantity
		}
	default:
		return 0
	}
	if executed == 0 {
		return 0
	}

	completed := domain.Order{
		Kind: order.Kind,
		Position: domain.SecurityPosition{
			Symbol:   req.Symbol,
			Quantity: executed,
			Price:    req.Price,
		},
	}
	if order.Kind == domain.OrderKindBuy {
		a.handleBuy(completed)
	} else {
		a.handleSell(completed)
	}
	return executed
}

// handleBuy applies an executed buy order: fold the purchase into the
// position's cost aggregate, push a lot onto the security's queue,
// debit cash, and log the transaction. Validation has already
// guaranteed the order cannot overdraw the balance.
func (a *Account) handleBuy(order domain.Order) {
	p := order.Position

	pos, ok := a.portfolio.Get(Position{Symbol: p.Symbol})
	if !ok {
		pos = Position{Symbol: p.Symbol}
	}
	pos.Quantity += p.Quantity
	pos.CostCents += order.NotionalCents()
	a.portfolio.ReplaceOrInsert(pos)

	queue, ok := a.lots[p.Symbol]
	if !ok {
		queue = &lotQueue{}
		a.lots[p.Symbol] = queue
	}
	queue.push(Lot{Quantity: p.Quantity, PriceCents: p.Price})

	a.cashCents -= order.NotionalCents()
	a.transactions = append(a.transactions, order)
}

// handleSell applies an executed sell order: consume buy lots FIFO to
// find the acquisition value of the shares leaving the account, shrink
// the position's cost aggregate by exactly that value, credit cash at
// the sell price, and log the transaction. Validation has already
// clamped the quantity to the held amount.
//
// Removing the consumed value from the aggregate leaves the position's
// average cost equal to the average of the unconsumed lots, and selling
// out entirely simply removes the entry — there is no division to
// special-case. The emptied lot queue is kept for the next buy.
func (a *Account) handleSell(order domain.Order) {
	p := order.Position

	valueRemoved, _ := consumeLots(a.lots[p.Symbol], p.Quantity)

	pos, _ := a.portfolio.Get(Position{Symbol: p.Symbol})
	pos.Quantity -= p.Quantity
	pos.CostCents -= valueRemoved
	if pos.Quantity == 0 {
		a.portfolio.Delete(pos)
	} else {
		a.portfolio.ReplaceOrInsert(pos)
	}

	a.cashCents += order.NotionalCents()
	a.transactions = append(a.transactions, order)
}

// CashBalanceCents returns the current cash balance.
func (a *Account) CashBalanceCents() int64 {
	return a.cashCents
}

// Positions returns a snapshot of the portfolio, ordered by symbol.
func (a *Account) Positions() []Position {
	positions := make([]Position, 0, a.portfolio.Len())
	a.portfolio.Ascend(func(p Position) bool {
		positions = append(positions, p)
		return true
	})
	return positions
}

// Transactions returns a copy of the executed-order log in processing
// order.
func (a *Account) Transactions() []domain.Order {
	result := make([]domain.Order, len(a.transactions))
	copy(result, a.transactions)
	return result
}
