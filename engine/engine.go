package engine

import (
	"sync"

	"go.uber.org/zap"
)

// Engine is one single-instrument matching core: an arena, a two-sided
// book with its bitmap index, an order-id directory, and a batched event
// emitter over an SPSC ring. All mutating commands run on one designated
// matching thread; Engine itself only adds the reader-writer lock needed
// to let a separate snapshot/stat reader observe the book safely. The
// *NoLock entry points skip that lock entirely for single-threaded
// benchmark/replay use.
type Engine struct {
	mu sync.RWMutex

	arena *arena
	dir   *directory
	book  *book
	em    *emitter
	ring  *RingBuffer[OutputEvent]

	logger *zap.Logger

	messagesProcessed uint64
	activeOrderCount  uint64
}

// New constructs an Engine from cfg, allocating all bulk memory up
// front: the level tables, the bitmaps, the order arena, and the output
// ring. A nil logger defaults to zap.NewNop() — the diagnostic channel
// is a side channel, never a requirement for correctness.
func New(cfg Config, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	cfg = cfg.withDefaults()

	ring := NewRingBuffer[OutputEvent](cfg.RingCapacity)
	e := &Engine{
		arena:  newArena(cfg.OrderPoolCapacity),
		dir:    newDirectory(),
		book:   newBook(cfg.MaxPriceLevels),
		em:     newEmitter(ring),
		ring:   ring,
		logger: logger,
	}
	e.em.emitAccepts = !cfg.BenchmarkMode
	e.em.emitCancels = !cfg.BenchmarkMode
	return e
}

// OutputRing exposes the ring buffer events are drained from. There is
// exactly one consumer; draining is the consumer's responsibility.
func (e *Engine) OutputRing() *RingBuffer[OutputEvent] { return e.ring }

// SetEmitAccepts toggles Accepted event emission (benchmark mode).
func (e *Engine) SetEmitAccepts(enable bool) { e.em.emitAccepts = enable }

// SetEmitCancels toggles Cancelled event emission (benchmark mode).
func (e *Engine) SetEmitCancels(enable bool) { e.em.emitCancels = enable }

// FlushOutput pushes any partially-filled batch into the ring. Callers
// that don't drain the ring on a fixed cadence should call this after a
// burst of commands to avoid latency on the last few events.
func (e *Engine) FlushOutput() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.em.flush()
}

// FlushOutputNoLock is FlushOutput without taking the book lock, for
// single-threaded benchmark/replay callers.
func (e *Engine) FlushOutputNoLock() { e.em.flush() }

// AddOrder accepts a plain limit order. If it crosses the opposite
// best, it is matched aggressively with TIF=GTC; otherwise it rests.
func (e *Engine) AddOrder(ts, orderID uint64, isBuy bool, price, qty int64, userID uint32) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.addOrderEntry(ts, orderID, isBuy, price, qty, userID)
}

// AddOrderNoLock is AddOrder without taking the book lock.
func (e *Engine) AddOrderNoLock(ts, orderID uint64, isBuy bool, price, qty int64, userID uint32) {
	e.addOrderEntry(ts, orderID, isBuy, price, qty, userID)
}

func (e *Engine) addOrderEntry(ts, orderID uint64, isBuy bool, price, qty int64, userID uint32) {
	e.messagesProcessed++
	if !e.book.validPrice(price) || qty <= 0 {
		return
	}
	aggressive := isBuy && e.book.bestAsk != maxInt64Price && price >= e.book.bestAsk ||
		!isBuy && e.book.bestBid >= 0 && price <= e.book.bestBid
	if aggressive {
		e.matchInternal(ts, orderID, isBuy, price, qty, GTC)
	} else {
		e.addOrderInternal(ts, orderID, isBuy, price, qty, userID, false)
	}
}

// AddIceberg rests an iceberg order: visible = min(visibleQty, totalQty)
// is exposed, the remainder sits hidden and replenishes after each time
// the visible portion is exhausted. It always rests — it is never
// matched aggressively on entry, even if it would cross the opposite
// best.
func (e *Engine) AddIceberg(ts, orderID uint64, isBuy bool, price, totalQty, visibleQty int64, userID uint32) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.addIcebergEntry(ts, orderID, isBuy, price, totalQty, visibleQty, userID)
}

// AddIcebergNoLock is AddIceberg without taking the book lock.
func (e *Engine) AddIcebergNoLock(ts, orderID uint64, isBuy bool, price, totalQty, visibleQty int64, userID uint32) {
	e.addIcebergEntry(ts, orderID, isBuy, price, totalQty, visibleQty, userID)
}

func (e *Engine) addIcebergEntry(ts, orderID uint64, isBuy bool, price, totalQty, visibleQty int64, userID uint32) {
	e.messagesProcessed++
	if !e.book.validPrice(price) || totalQty <= 0 {
		return
	}
	e.addIcebergInternal(ts, orderID, isBuy, price, totalQty, visibleQty, userID)
}

// AddAON rests an all-or-none order: it is only ever filled by a single
// incoming order whose remaining quantity is at least its own total.
func (e *Engine) AddAON(ts, orderID uint64, isBuy bool, price, qty int64, userID uint32) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.addAONEntry(ts, orderID, isBuy, price, qty, userID)
}

// AddAONNoLock is AddAON without taking the book lock.
func (e *Engine) AddAONNoLock(ts, orderID uint64, isBuy bool, price, qty int64, userID uint32) {
	e.addAONEntry(ts, orderID, isBuy, price, qty, userID)
}

func (e *Engine) addAONEntry(ts, orderID uint64, isBuy bool, price, qty int64, userID uint32) {
	e.messagesProcessed++
	if !e.book.validPrice(price) || qty <= 0 {
		return
	}
	e.addAONInternal(ts, orderID, isBuy, price, qty, userID)
}

// Cancel removes a resting order and emits a Cancelled event. It is a
// silent no-op if the order id is unknown or already inactive.
func (e *Engine) Cancel(ts, orderID uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.messagesProcessed++
	e.cancelInternal(ts, orderID)
}

// CancelNoLock is Cancel without taking the book lock.
func (e *Engine) CancelNoLock(ts, orderID uint64) {
	e.messagesProcessed++
	e.cancelInternal(ts, orderID)
}

// Modify changes an order's price and/or quantity. A same-price downsize
// keeps FIFO priority in place; any other change is cancel-then-re-add,
// which loses priority.
func (e *Engine) Modify(ts, orderID uint64, newPrice, newQty int64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.messagesProcessed++
	e.modifyInternal(ts, orderID, newPrice, newQty)
}

// ModifyNoLock is Modify without taking the book lock.
func (e *Engine) ModifyNoLock(ts, orderID uint64, newPrice, newQty int64) {
	e.messagesProcessed++
	e.modifyInternal(ts, orderID, newPrice, newQty)
}

// Execute runs the matcher against the book with the given time in
// force. Unlike AddOrder, it goes through the matcher even when the
// order doesn't cross. Any unfilled residual is handled by tif: GTC
// rests it as a plain limit, AON rests it as an AON order, and IOC and
// FOK discard it without a Cancelled event.
func (e *Engine) Execute(ts, orderID uint64, isBuy bool, price, qty int64, tif TimeInForce) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.messagesProcessed++
	if !e.book.validPrice(price) || qty <= 0 {
		return
	}
	e.matchInternal(ts, orderID, isBuy, price, qty, tif)
}

// ExecuteNoLock is Execute without taking the book lock.
func (e *Engine) ExecuteNoLock(ts, orderID uint64, isBuy bool, price, qty int64, tif TimeInForce) {
	e.messagesProcessed++
	if !e.book.validPrice(price) || qty <= 0 {
		return
	}
	e.matchInternal(ts, orderID, isBuy, price, qty, tif)
}

// Reset clears all book state, recycles the arena, and zeroes the
// bitmaps, without releasing any of the bulk allocations made at
// construction.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.resetInternal()
}

// ResetNoLock is Reset without taking the book lock.
func (e *Engine) ResetNoLock() { e.resetInternal() }

func (e *Engine) resetInternal() {
	e.book.reset()
	e.arena.reset()
	e.dir.resetActive()
	e.activeOrderCount = 0
}
