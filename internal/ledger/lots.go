package ledger

// Lot is an unconsumed purchase batch. Lots are held per security in
// submission order and consumed oldest-first when a sell reduces the
// holding. The symbol is implied by the queue the lot lives in.
type Lot struct {
	Quantity   int64
	PriceCents int64
}

// lotQueue is a FIFO deque of buy lots for one security. Lots are value
// records: partial consumption updates the front element's quantity in
// place rather than mutating through a pointer.
type lotQueue struct {
	lots []Lot
}

// push appends a lot to the tail of the queue.
func (q *lotQueue) push(l Lot) {
	q.lots = append(q.lots, l)
}

// totalQuantity returns the sum of quantities across all lots.
func (q *lotQueue) totalQuantity() int64 {
	var total int64
	for _, l := range q.lots {
		total += l.Quantity
	}
	return total
}

// totalValueCents returns the sum of quantity × price across all lots.
func (q *lotQueue) totalValueCents() int64 {
	var total int64
	for _, l := range q.lots {
		total += l.Quantity * l.PriceCents
	}
	return total
}

// consumeLots removes up to quantity shares from the front of the queue,
// oldest lots first. A fully consumed lot is popped; a partially
// consumed lot has its quantity decremented and stays at the front.
// Returns the acquisition value (quantity × price, in cents) and the
// quantity actually removed. The removed quantity is less than the
// requested quantity only when the queue holds fewer shares than asked
// for, which callers rule out by clamping sells to the held quantity.
func consumeLots(q *lotQueue, quantity int64) (valueCents, removed int64) {
	for removed < quantity && len(q.lots) > 0 {
		lot := &q.lots[0]
		take := quantity - removed
		if take >= lot.Quantity {
			take = lot.Quantity
			q.lots = q.lots[1:]
		} else {
			lot.Quantity -= take
		}
		valueCents += take * lot.PriceCents
		removed += take
	}
	return valueCents, removed
}
