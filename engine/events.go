package engine

// EventType discriminates the three outbound event kinds the matching
// engine emits. Trade emission is never suppressed; Accepted/Cancelled
// can be toggled off to cut output overhead under load.
type EventType uint8

const (
	EventTrade EventType = iota
	EventAccepted
	EventCancelled
)

// OutputEvent is one record in the output stream: a trade, an
// acceptance, or a cancellation. Only the fields relevant to Type are
// meaningful; the rest are zero.
type OutputEvent struct {
	Type      EventType
	Timestamp uint64

	// Trade fields.
	BuyOrderID  uint64
	SellOrderID uint64
	Price       int64
	Quantity    int64

	// Accepted fields (Price/Quantity shared with Trade above).
	OrderID uint64
	Side    Side

	// Cancelled fields.
	CancelledQuantity int64
}

const batchSize = 64

// emitter batches outbound events into a fixed-size local buffer and
// flushes blocks into the SPSC ring, amortising the cost of the ring's
// atomic publish. The two toggles suppress non-trade events for
// benchmark mode; trades are never suppressed.
type emitter struct {
	ring  *RingBuffer[OutputEvent]
	batch [batchSize]OutputEvent
	count int

	emitAccepts bool
	emitCancels bool

	tradesExecuted  uint64
	messagesDropped uint64
}

func newEmitter(ring *RingBuffer[OutputEvent]) *emitter {
	return &emitter{
		ring:        ring,
		emitAccepts: true,
		emitCancels: true,
	}
}

func (e *emitter) push(ev OutputEvent) {
	e.batch[e.count] = ev
	e.count++
	if e.count >= batchSize {
		e.flush()
	}
}

// flush pushes the current batch into the ring. A short write (ring
// full) counts the shortfall in messagesDropped; events are dropped from
// the tail of the batch, never reordered.
func (e *emitter) flush() {
	if e.count == 0 {
		return
	}
	pushed := e.ring.PushBatch(e.batch[:e.count])
	if pushed < e.count {
		e.messagesDropped += uint64(e.count - pushed)
	}
	e.count = 0
}

func (e *emitter) emitTrade(ts uint64, buyID, sellID uint64, price, qty int64) {
	e.tradesExecuted++
	e.push(OutputEvent{
		Type:        EventTrade,
		Timestamp:   ts,
		BuyOrderID:  buyID,
		SellOrderID: sellID,
		Price:       price,
		Quantity:    qty,
	})
}

func (e *emitter) emitAccepted(ts uint64, orderID uint64, side Side, price, qty int64) {
	if !e.emitAccepts {
		return
	}
	e.push(OutputEvent{
		Type:      EventAccepted,
		Timestamp: ts,
		OrderID:   orderID,
		Side:      side,
		Price:     price,
		Quantity:  qty,
	})
}

func (e *emitter) emitCancelled(ts uint64, orderID uint64, cancelledQty int64) {
	if !e.emitCancels {
		return
	}
	e.push(OutputEvent{
		Type:              EventCancelled,
		Timestamp:         ts,
		OrderID:           orderID,
		CancelledQuantity: cancelledQty,
	})
}
