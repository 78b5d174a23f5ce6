package engine

// addOrderInternal rests a plain limit order (or the GTC/AON residual
// of a partially-matched one) at price, appending to that level's FIFO
// and updating the book's best-price tracking if the level was empty.
func (e *Engine) addOrderInternal(ts uint64, orderID uint64, isBuy bool, price, qty int64, userID uint32, isAON bool) {
	levels := e.book.levelsFor(isBuy)
	level := &levels[price]
	wasEmpty := level.empty()

	idx := e.arena.allocate()
	order := e.arena.get(idx)
	order.OrderID = orderID
	order.UserID = userID
	order.Price = price
	order.VisibleQuantity = qty
	order.HiddenQuantity = 0
	order.PeakSize = 0
	order.Flags = 0
	order.setBuy(isBuy)
	order.setAON(isAON)
	order.Next = NullIndex
	order.Prev = NullIndex

	fifoPushBack(e.arena, level, idx)
	level.addVolume(order)

	if wasEmpty {
		if isBuy {
			e.book.bidLevelCount++
		} else {
			e.book.askLevelCount++
		}
		e.book.updateBestAfterAdd(isBuy, price)
	}

	e.dir.ensureCapacity(orderID)
	loc := e.dir.get(orderID)
	loc.price = price
	loc.poolIdx = idx
	loc.flags = 0
	loc.setBuy(isBuy)
	loc.setActive(true)
	e.activeOrderCount++

	e.em.emitAccepted(ts, orderID, sideOf(isBuy), price, qty)
	e.checkCrossedBook(orderID)
}

// addIcebergInternal rests an iceberg order with visible = min(visible,
// total) exposed and the remainder hidden in reserve.
func (e *Engine) addIcebergInternal(ts uint64, orderID uint64, isBuy bool, price, totalQty, visibleQty int64, userID uint32) {
	levels := e.book.levelsFor(isBuy)
	level := &levels[price]
	wasEmpty := level.empty()

	displayQty := min64(visibleQty, totalQty)
	hiddenQty := totalQty - displayQty

	idx := e.arena.allocate()
	order := e.arena.get(idx)
	order.OrderID = orderID
	order.UserID = userID
	order.Price = price
	order.VisibleQuantity = displayQty
	order.HiddenQuantity = hiddenQty
	order.PeakSize = visibleQty
	order.Flags = 0
	order.setBuy(isBuy)
	order.setAON(false)
	order.Next = NullIndex
	order.Prev = NullIndex

	fifoPushBack(e.arena, level, idx)
	level.addVolume(order)

	if wasEmpty {
		if isBuy {
			e.book.bidLevelCount++
		} else {
			e.book.askLevelCount++
		}
		e.book.updateBestAfterAdd(isBuy, price)
	}

	e.dir.ensureCapacity(orderID)
	loc := e.dir.get(orderID)
	loc.price = price
	loc.poolIdx = idx
	loc.flags = 0
	loc.setBuy(isBuy)
	loc.setActive(true)
	e.activeOrderCount++

	e.em.emitAccepted(ts, orderID, sideOf(isBuy), price, displayQty)
	e.checkCrossedBook(orderID)
}

// addAONInternal rests an all-or-none order, via the same path
// addOrderInternal takes but with the AON flag set.
func (e *Engine) addAONInternal(ts uint64, orderID uint64, isBuy bool, price, qty int64, userID uint32) {
	e.addOrderInternal(ts, orderID, isBuy, price, qty, userID, true)
}

// cancelInternal removes a resting order and emits its cancellation. A
// silent no-op for an unknown or already-inactive order id.
func (e *Engine) cancelInternal(ts uint64, orderID uint64) {
	loc := e.dir.get(orderID)
	if loc == nil || !loc.isActive() {
		return
	}
	if !e.book.validPrice(loc.price) {
		return
	}

	levels := e.book.levelsFor(loc.isBuy())
	level := &levels[loc.price]
	order := e.arena.get(loc.poolIdx)
	cancelledQty := order.total()

	level.removeVolume(order)
	fifoRemove(e.arena, level, loc.poolIdx)
	e.arena.free(loc.poolIdx)

	if level.empty() {
		if loc.isBuy() {
			e.book.bidLevelCount--
		} else {
			e.book.askLevelCount--
		}
		e.book.updateBestAfterRemove(loc.isBuy(), loc.price)
	}

	loc.setActive(false)
	e.activeOrderCount--

	e.em.emitCancelled(ts, orderID, cancelledQty)
}

// modifyInternal changes an order's price and/or quantity: a same-price
// downsize keeps the order's FIFO position; any other change cancels
// the order and re-adds it, losing priority.
func (e *Engine) modifyInternal(ts uint64, orderID uint64, newPrice, newQty int64) {
	loc := e.dir.get(orderID)
	if loc == nil || !loc.isActive() {
		return
	}
	if !e.book.validPrice(loc.price) || !e.book.validPrice(newPrice) {
		return
	}

	levels := e.book.levelsFor(loc.isBuy())
	level := &levels[loc.price]
	order := e.arena.get(loc.poolIdx)

	if newPrice == loc.price && newQty <= order.VisibleQuantity {
		delta := newQty - order.VisibleQuantity
		level.adjustVolume(delta, 0, order.isAON())
		order.VisibleQuantity = newQty
		return
	}

	isBuy := loc.isBuy()
	userID := order.UserID
	e.cancelInternal(ts, orderID)
	e.addOrderInternal(ts, orderID, isBuy, newPrice, newQty, userID, false)
}

// calculateAvailableQuantity walks opposite levels from best toward
// limit price, computing how much of incomingQty the book could fill
// under the same visibility rules matching itself uses: whole levels
// with no AON orders are counted in O(1); mixed levels are walked,
// counting an AON order's total only when the remaining probe quantity
// can take it whole. Like the sweep, the walk goes no further than a
// level that still holds an AON order too large to take whole.
func (e *Engine) calculateAvailableQuantity(isBuy bool, price, incomingQty int64) int64 {
	levels := e.book.levelsFor(!isBuy)
	best := e.book.bestAsk
	if !isBuy {
		best = e.book.bestBid
	}

	if isBuy && best == maxInt64Price {
		return 0
	}
	if !isBuy && best < 0 {
		return 0
	}

	available := int64(0)
	remaining := incomingQty

	step := int64(1)
	if !isBuy {
		step = -1
	}

	for p := best; remaining > 0; p += step {
		if isBuy && p > price {
			break
		}
		if !isBuy && p < price {
			break
		}
		if !e.book.validPrice(p) {
			continue
		}

		level := &levels[p]
		if level.empty() {
			continue
		}

		if level.totalAONVolume == 0 {
			fillable := min64(remaining, level.totalVolume)
			available += fillable
			remaining -= fillable
			continue
		}

		curr := level.head
		aonSkipped := false
		for curr != NullIndex && remaining > 0 {
			order := e.arena.get(curr)
			orderTotal := order.total()
			if order.isAON() {
				if remaining >= orderTotal {
					available += orderTotal
					remaining -= orderTotal
				} else {
					aonSkipped = true
				}
			} else {
				fillable := min64(remaining, orderTotal)
				available += fillable
				remaining -= fillable
			}
			curr = order.Next
		}
		if aonSkipped {
			break
		}
	}

	return available
}

// matchInternal is the matching state machine: TIF pre-checks, the main
// sweep loop walking opposite levels in price-time priority, and
// residual handling for whatever quantity the sweep leaves unfilled.
func (e *Engine) matchInternal(ts uint64, orderID uint64, isBuy bool, price, qty int64, tif TimeInForce) {
	if tif == FOK {
		available := e.calculateAvailableQuantity(isBuy, price, qty)
		if available < qty {
			return
		}
	}

	if tif == AON {
		available := e.calculateAvailableQuantity(isBuy, price, qty)
		if available < qty {
			e.addAONInternal(ts, orderID, isBuy, price, qty, 0)
			return
		}
	}

	levels := e.book.levelsFor(!isBuy)
	remaining := qty

	oppositeEmpty := func() bool {
		if isBuy {
			return e.book.bestAsk == maxInt64Price
		}
		return e.book.bestBid < 0
	}

	bestPrice := func() int64 {
		if isBuy {
			return e.book.bestAsk
		}
		return e.book.bestBid
	}

	for remaining > 0 && !oppositeEmpty() {
		best := bestPrice()
		if isBuy && best > price {
			break
		}
		if !isBuy && best < price {
			break
		}
		if !e.book.validPrice(best) {
			break
		}

		level := &levels[best]
		if level.empty() {
			e.book.updateBestAfterRemove(!isBuy, best)
			continue
		}

		currentBest := best
		curr := level.head
		progressed := false

		for curr != NullIndex && remaining > 0 {
			restingOrder := e.arena.get(curr)
			nextIdx := restingOrder.Next

			if restingOrder.isAON() {
				aonTotal := restingOrder.total()
				if remaining < aonTotal {
					curr = nextIdx
					continue
				}
			}

			progressed = true

			tradeQty := min64(remaining, restingOrder.VisibleQuantity)

			buyID, sellID := orderID, restingOrder.OrderID
			if !isBuy {
				buyID, sellID = restingOrder.OrderID, orderID
			}
			e.em.emitTrade(ts, buyID, sellID, currentBest, tradeQty)

			remaining -= tradeQty
			level.adjustVolume(-tradeQty, 0, restingOrder.isAON())
			restingOrder.VisibleQuantity -= tradeQty

			if restingOrder.VisibleQuantity == 0 {
				if restingOrder.HiddenQuantity > 0 {
					e.replenishIceberg(level, curr, restingOrder)
				} else {
					fifoRemove(e.arena, level, curr)
					if loc := e.dir.get(restingOrder.OrderID); loc != nil {
						loc.setActive(false)
						e.activeOrderCount--
					}
					e.arena.free(curr)
				}
			}

			curr = nextIdx
		}

		if level.empty() {
			if isBuy {
				e.book.askLevelCount--
			} else {
				e.book.bidLevelCount--
			}
			e.book.updateBestAfterRemove(!isBuy, currentBest)
		} else if !progressed {
			// Every resting order at the best price is an AON too large
			// for what's left of the taker's quantity. Price-time
			// priority forbids reaching past it to a worse price, so
			// the sweep stops here; any residual is handled by tif.
			break
		}
	}

	if remaining > 0 {
		switch tif {
		case GTC:
			e.addOrderInternal(ts, orderID, isBuy, price, remaining, 0, false)
		case AON:
			e.addAONInternal(ts, orderID, isBuy, price, remaining, 0)
		case IOC, FOK:
			// Unfilled portion never rested; no cancellation emitted.
		}
	}
}

// replenishIceberg re-appends a fully-exhausted iceberg order at the
// tail of its level — losing time priority within the level — exposing
// the next peak-sized slice from its hidden reserve. The arena slot and
// directory entry are unaffected; only its FIFO position changes.
func (e *Engine) replenishIceberg(level *PriceLevel, idx uint32, order *Order) {
	level.removeVolume(order)
	fifoRemove(e.arena, level, idx)

	replenish := order.PeakSize
	if replenish <= 0 || replenish > order.HiddenQuantity {
		replenish = order.HiddenQuantity
	}
	order.VisibleQuantity = replenish
	order.HiddenQuantity -= replenish

	fifoPushBack(e.arena, level, idx)
	level.addVolume(order)
}

func sideOf(isBuy bool) Side {
	if isBuy {
		return Buy
	}
	return Sell
}

func min64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}
