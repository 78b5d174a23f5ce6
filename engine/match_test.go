package engine

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	cfg := DefaultConfig()
	cfg.MaxPriceLevels = 256
	cfg.OrderPoolCapacity = 64
	cfg.RingCapacity = 64
	return New(cfg, zap.NewNop())
}

func drainAll(e *Engine) []OutputEvent {
	e.FlushOutputNoLock()
	var all []OutputEvent
	buf := make([]OutputEvent, 16)
	for {
		n := e.OutputRing().Drain(buf)
		if n == 0 {
			break
		}
		all = append(all, buf[:n]...)
	}
	return all
}

// Add then cancel restores the empty-book sentinels and emits exactly
// one Accepted, then one Cancelled.
func TestAddThenCancelRestoresEmptyBook(t *testing.T) {
	e := newTestEngine(t)

	e.AddOrderNoLock(1, 1, true, 100, 10, 1)
	require.EqualValues(t, 100, e.BestBid())
	require.EqualValues(t, maxInt64Price, e.book.bestAsk)

	events := drainAll(e)
	require.Len(t, events, 1)
	require.Equal(t, EventAccepted, events[0].Type)

	e.CancelNoLock(2, 1)
	require.EqualValues(t, 0, e.BestBid())

	events = drainAll(e)
	require.Len(t, events, 1)
	require.Equal(t, EventCancelled, events[0].Type)
	require.EqualValues(t, 10, events[0].CancelledQuantity)
}

// A taker sweeps two ask levels in price-time priority.
func TestAggressiveAddSweepsTwoLevels(t *testing.T) {
	e := newTestEngine(t)

	e.AddOrderNoLock(1, 2, false, 100, 5, 1)
	e.AddOrderNoLock(2, 3, false, 101, 10, 1)
	drainAll(e)

	e.AddOrderNoLock(3, 4, true, 101, 8, 1)
	events := drainAll(e)

	var trades []OutputEvent
	for _, ev := range events {
		if ev.Type == EventTrade {
			trades = append(trades, ev)
		}
	}
	require.Len(t, trades, 2)
	require.EqualValues(t, 4, trades[0].BuyOrderID)
	require.EqualValues(t, 2, trades[0].SellOrderID)
	require.EqualValues(t, 100, trades[0].Price)
	require.EqualValues(t, 5, trades[0].Quantity)

	require.EqualValues(t, 3, trades[1].SellOrderID)
	require.EqualValues(t, 101, trades[1].Price)
	require.EqualValues(t, 3, trades[1].Quantity)

	require.EqualValues(t, 101, e.BestAsk())
	require.EqualValues(t, 7, e.BestAskVolume())
}

// An iceberg refills twice before the taker's quantity is exhausted;
// total traded volume equals the taker's quantity.
func TestIcebergRefillsTwiceAgainstLargerTaker(t *testing.T) {
	e := newTestEngine(t)

	e.AddIcebergNoLock(1, 5, false, 100, 100, 20, 1)
	drainAll(e)

	e.AddOrderNoLock(2, 6, true, 100, 50, 1)
	events := drainAll(e)

	var totalQty int64
	var tradeCount int
	for _, ev := range events {
		if ev.Type == EventTrade {
			tradeCount++
			totalQty += ev.Quantity
		}
	}
	require.Equal(t, 3, tradeCount)
	require.EqualValues(t, 50, totalQty)

	loc := e.dir.get(5)
	require.True(t, loc.isActive())
	order := e.arena.get(loc.poolIdx)
	require.EqualValues(t, 10, order.VisibleQuantity)
	require.EqualValues(t, 40, order.HiddenQuantity)
}

// An AON maker that can't be filled whole creates a locked (not
// crossed) book, then is filled entirely by a later, larger taker.
func TestAONMakerLocksBookUntilLargerTakerArrives(t *testing.T) {
	e := newTestEngine(t)

	e.AddAONNoLock(1, 7, false, 100, 50, 1)
	drainAll(e)

	e.AddOrderNoLock(2, 8, true, 100, 30, 1)
	events := drainAll(e)
	for _, ev := range events {
		require.NotEqual(t, EventTrade, ev.Type, "AON maker should not be partially filled")
	}
	require.EqualValues(t, 100, e.BestBid())
	require.EqualValues(t, 100, e.BestAsk())

	e.AddOrderNoLock(3, 9, true, 100, 50, 1)
	events = drainAll(e)

	var trades []OutputEvent
	for _, ev := range events {
		if ev.Type == EventTrade {
			trades = append(trades, ev)
		}
	}
	require.Len(t, trades, 1)
	require.EqualValues(t, 9, trades[0].BuyOrderID)
	require.EqualValues(t, 7, trades[0].SellOrderID)
	require.EqualValues(t, 50, trades[0].Quantity)

	loc := e.dir.get(7)
	require.False(t, loc.isActive())
}

// FOK against insufficient liquidity produces zero trades and leaves
// the book unchanged.
func TestFOKWithInsufficientLiquidityLeavesBookUnchanged(t *testing.T) {
	e := newTestEngine(t)

	e.AddOrderNoLock(1, 10, false, 100, 40, 1)
	drainAll(e)

	before := e.book.askLevels[100].totalVolume
	e.ExecuteNoLock(2, 11, true, 100, 100, FOK)
	events := drainAll(e)

	for _, ev := range events {
		require.NotEqual(t, EventTrade, ev.Type)
	}
	require.Equal(t, before, e.book.askLevels[100].totalVolume)
	require.False(t, e.dir.get(11).isActive())
}

// A same-price downsize preserves FIFO priority; any other change
// loses it.
func TestModifySamePriceDownsizeKeepsPriority(t *testing.T) {
	e := newTestEngine(t)

	e.AddOrderNoLock(1, 10, true, 100, 5, 1)
	e.AddOrderNoLock(2, 11, true, 100, 5, 1)
	drainAll(e)

	e.ModifyNoLock(3, 10, 100, 3)
	level := &e.book.bidLevels[100]
	loc10 := e.dir.get(10)
	require.Equal(t, loc10.poolIdx, level.head, "downsize at the same price should keep FIFO position")
	require.EqualValues(t, 3, e.arena.get(loc10.poolIdx).VisibleQuantity)

	e.ModifyNoLock(4, 10, 101, 3)
	require.EqualValues(t, 1, level.count, "id=11 should be the only order left resting at 100")
	loc11 := e.dir.get(11)
	require.Equal(t, loc11.poolIdx, level.head)

	loc10After := e.dir.get(10)
	require.EqualValues(t, 101, loc10After.price)
	require.EqualValues(t, 1, e.book.bidLevels[101].count)
}

// FOK on insufficient liquidity leaves the active order count
// untouched — the reject path never allocates an order.
func TestFOKRejectProducesNoStateChange(t *testing.T) {
	e := newTestEngine(t)
	e.AddOrderNoLock(1, 20, false, 100, 10, 1)
	drainAll(e)

	activeBefore := e.ActiveOrderCount()
	e.ExecuteNoLock(2, 21, true, 100, 1000, FOK)
	require.Equal(t, activeBefore, e.ActiveOrderCount())
}

// An AON taker that cannot fill fully rests as AON with one Accepted
// event.
func TestAONTakerRestsWhenUnfillable(t *testing.T) {
	e := newTestEngine(t)
	e.AddOrderNoLock(1, 30, false, 100, 5, 1)
	drainAll(e)

	e.ExecuteNoLock(2, 31, true, 100, 20, AON)
	events := drainAll(e)
	require.Len(t, events, 1)
	require.Equal(t, EventAccepted, events[0].Type)

	loc := e.dir.get(31)
	require.True(t, loc.isActive())
	require.True(t, e.arena.get(loc.poolIdx).isAON())
}

// Total quantity consumed across all of an iceberg's refills equals
// the quantity it was entered with.
func TestIcebergTotalConsumedAcrossRefillsMatchesEntry(t *testing.T) {
	e := newTestEngine(t)
	e.AddIcebergNoLock(1, 40, false, 100, 47, 20, 1)
	drainAll(e)

	e.AddOrderNoLock(2, 41, true, 100, 47, 1)
	events := drainAll(e)

	var consumed int64
	for _, ev := range events {
		if ev.Type == EventTrade {
			consumed += ev.Quantity
		}
	}
	require.EqualValues(t, 47, consumed)
	require.False(t, e.dir.get(40).isActive())
}

// Trade price always equals the maker's resting price.
func TestTradePriceIsMakerPrice(t *testing.T) {
	e := newTestEngine(t)
	e.AddOrderNoLock(1, 50, false, 95, 10, 1)
	drainAll(e)

	e.AddOrderNoLock(2, 51, true, 105, 10, 1)
	events := drainAll(e)

	var found bool
	for _, ev := range events {
		if ev.Type == EventTrade {
			found = true
			require.EqualValues(t, 95, ev.Price, "trade price must be the maker's resting price, not the taker's limit")
		}
	}
	require.True(t, found)
}

// A genuinely crossed book never occurs from normal adds — aggressive
// orders always match down to the point where the book can no longer
// cross.
func TestNoCrossedBookAfterAggressiveAdd(t *testing.T) {
	e := newTestEngine(t)
	e.AddOrderNoLock(1, 60, false, 100, 10, 1)
	drainAll(e)

	e.AddOrderNoLock(2, 61, true, 105, 3, 1)
	drainAll(e)

	if e.book.bestBid >= 0 && e.book.bestAsk != maxInt64Price {
		require.LessOrEqual(t, e.book.bestBid, e.book.bestAsk)
	}
}

func TestResetClearsBookAndArena(t *testing.T) {
	e := newTestEngine(t)
	e.AddOrderNoLock(1, 70, true, 100, 10, 1)
	e.AddOrderNoLock(2, 71, false, 101, 10, 1)
	drainAll(e)

	e.ResetNoLock()
	require.EqualValues(t, 0, e.ActiveOrderCount())
	require.EqualValues(t, -1, e.book.bestBid)
	require.EqualValues(t, maxInt64Price, e.book.bestAsk)
	require.EqualValues(t, 0, e.arena.usedCount())
}
