package domain

// OrderKind indicates whether an order buys or sells a security.
type OrderKind string

const (
	OrderKindBuy  OrderKind = "buy"
	OrderKindSell OrderKind = "sell"
)

// SecurityPosition describes a quantity of a single security at a price.
// The meaning of Price depends on context: in an order or transaction it
// is the per-share execution price; in a portfolio snapshot it is the
// weighted-average cost basis.
type SecurityPosition struct {
	Symbol   string
	Quantity int64
	Price    int64 // cents per share
}

// Order represents a buy or sell instruction for a security. Orders in
// the transaction log are executed orders: their quantity is what was
// actually transacted, which may be less than what was requested.
type Order struct {
	Kind     OrderKind
	Position SecurityPosition
}

// NotionalCents returns the total cash value of the order in cents
// (price × quantity).
func (o Order) NotionalCents() int64 {
	return o.Position.Price * o.Position.Quantity
}
