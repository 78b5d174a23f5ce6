package engine

// Level is one (price, visible volume) pair in a snapshot view.
type Level struct {
	Price  int64
	Volume int64
}

// BestBid returns the highest non-empty bid price, or 0 when the bid
// side is empty.
func (e *Engine) BestBid() int64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.book.bestBid < 0 {
		return 0
	}
	return e.book.bestBid
}

// BestAsk returns the lowest non-empty ask price, or the sentinel
// "no asks" value when the ask side is empty.
func (e *Engine) BestAsk() int64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.book.bestAsk
}

// BestBidVolume returns the visible volume resting at the best bid, or
// zero when the bid side is empty.
func (e *Engine) BestBidVolume() int64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.book.bestBid < 0 {
		return 0
	}
	return e.book.bidLevels[e.book.bestBid].totalVisibleVolume
}

// BestAskVolume returns the visible volume resting at the best ask, or
// zero when the ask side is empty.
func (e *Engine) BestAskVolume() int64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.book.bestAsk == maxInt64Price {
		return 0
	}
	return e.book.askLevels[e.book.bestAsk].totalVisibleVolume
}

// BidsSnapshot returns up to depth non-empty bid levels in descending
// price order, walking the bitmap rather than the full price array so
// the scan cost is O(populated levels) rather than O(MaxPriceLevels).
func (e *Engine) BidsSnapshot(depth int) []Level {
	e.mu.RLock()
	defer e.mu.RUnlock()

	out := make([]Level, 0, depth)
	if e.book.bestBid < 0 {
		return out
	}

	for idx := int(e.book.bestBid); idx >= 0 && len(out) < depth; idx = e.book.bidBitmap.nextBelow(idx) {
		level := &e.book.bidLevels[idx]
		out = append(out, Level{Price: int64(idx), Volume: level.totalVisibleVolume})
	}
	return out
}

// AsksSnapshot returns up to depth non-empty ask levels in ascending
// price order.
func (e *Engine) AsksSnapshot(depth int) []Level {
	e.mu.RLock()
	defer e.mu.RUnlock()

	out := make([]Level, 0, depth)
	if e.book.bestAsk == maxInt64Price {
		return out
	}

	for idx := int(e.book.bestAsk); idx >= 0 && len(out) < depth; idx = e.book.askBitmap.nextAbove(idx) {
		level := &e.book.askLevels[idx]
		out = append(out, Level{Price: int64(idx), Volume: level.totalVisibleVolume})
	}
	return out
}

// ActiveOrderCount returns the number of currently-active resting
// orders.
func (e *Engine) ActiveOrderCount() uint64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.activeOrderCount
}

// BidLevelCount returns the number of non-empty bid price levels.
func (e *Engine) BidLevelCount() uint32 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.book.bidLevelCount
}

// AskLevelCount returns the number of non-empty ask price levels.
func (e *Engine) AskLevelCount() uint32 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.book.askLevelCount
}

// TradesExecuted returns the running count of trades executed.
func (e *Engine) TradesExecuted() uint64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.em.tradesExecuted
}

// MessagesDropped returns the running count of output events dropped
// because the ring was full.
func (e *Engine) MessagesDropped() uint64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.em.messagesDropped
}

// MessagesProcessed returns the running count of commands processed.
func (e *Engine) MessagesProcessed() uint64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.messagesProcessed
}
