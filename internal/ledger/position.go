package ledger

// Position is a portfolio entry for a single security. Cost basis is
// held as an aggregate (total cents paid for the currently held shares)
// rather than a per-share average, so the weighted average is always
// derived from exact integer sums and never accumulates rounding drift.
type Position struct {
	Symbol    string
	Quantity  int64
	CostCents int64 // total acquisition cost of the held shares
}

// AverageCostCents returns the weighted-average per-share cost basis in
// cents. The result is fractional when the total cost does not divide
// evenly by the quantity.
func (p Position) AverageCostCents() float64 {
	if p.Quantity == 0 {
		return 0
	}
	return float64(p.CostCents) / float64(p.Quantity)
}

// positionLess orders portfolio entries by symbol. Snapshots therefore
// come out in deterministic lexicographic order.
func positionLess(a, b Position) bool {
	return a.Symbol < b.Symbol
}
