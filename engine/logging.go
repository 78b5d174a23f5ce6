package engine

import "go.uber.org/zap"

// checkCrossedBook is a never-should-happen diagnostic: a genuinely
// crossed book (best bid > best ask) after an add indicates a bug in
// state maintenance, not a runtime error. A locked book (best bid ==
// best ask) is excluded — that's an accepted outcome of AON resting,
// not a violation. The operation is never rolled back either way — by
// the time this runs, the add has already committed.
func (e *Engine) checkCrossedBook(triggeringOrderID uint64) {
	if e.book.bestBid >= 0 && e.book.bestAsk != maxInt64Price && e.book.bestBid > e.book.bestAsk {
		e.logger.Error("crossed book detected after add",
			zap.Uint64("order_id", triggeringOrderID),
			zap.Int64("best_bid", e.book.bestBid),
			zap.Int64("best_ask", e.book.bestAsk),
		)
	}
}
