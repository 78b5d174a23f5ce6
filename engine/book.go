package engine

import "math"

// Side is which side of the book an order rests on.
type Side uint8

const (
	Buy Side = iota
	Sell
)

// TimeInForce is the policy for handling an aggressive order's unfilled
// residual.
type TimeInForce uint8

const (
	GTC TimeInForce = iota
	IOC
	FOK
	AON
)

// maxInt64Price is the sentinel "no asks" best-ask value, mirroring the
// original's INT64_MAX.
const maxInt64Price = int64(math.MaxInt64)

// book holds one side-pair of price levels plus the bitmap index and
// best-price cache used to find them. Both sides share the same
// MAX_PRICE_LEVELS provisioning.
type book struct {
	bidLevels []PriceLevel
	askLevels []PriceLevel

	bidBitmap bitmap
	askBitmap bitmap

	bestBid     int64 // -1 when the bid side is empty
	bestAsk     int64 // maxInt64Price when the ask side is empty
	bestBidWord int
	bestAskWord int

	bidLevelCount uint32
	askLevelCount uint32

	maxPriceLevels int
}

func newBook(maxPriceLevels int) *book {
	b := &book{
		bidLevels:      make([]PriceLevel, maxPriceLevels),
		askLevels:      make([]PriceLevel, maxPriceLevels),
		bidBitmap:      newBitmap(maxPriceLevels),
		askBitmap:      newBitmap(maxPriceLevels),
		bestBid:        -1,
		bestAsk:        maxInt64Price,
		bestBidWord:    -1,
		bestAskWord:    0,
		maxPriceLevels: maxPriceLevels,
	}
	for i := range b.bidLevels {
		b.bidLevels[i].reset()
		b.askLevels[i].reset()
	}
	return b
}

func (b *book) validPrice(price int64) bool {
	return price >= 0 && price < int64(b.maxPriceLevels)
}

func (b *book) levelsFor(isBuy bool) []PriceLevel {
	if isBuy {
		return b.bidLevels
	}
	return b.askLevels
}

func (b *book) updateBestAfterAdd(isBuy bool, price int64) {
	idx := int(price)
	if isBuy {
		b.bidBitmap.set(idx)
		if b.bestBid < 0 || price > b.bestBid {
			b.bestBid = price
			b.bestBidWord = idx / 64
		}
	} else {
		b.askBitmap.set(idx)
		if b.bestAsk == maxInt64Price || price < b.bestAsk {
			b.bestAsk = price
			b.bestAskWord = idx / 64
		}
	}
}

// updateBestAfterRemove recomputes best price on side isBuy after the
// level at removedPrice lost its last order. Only called once the level
// has gone empty — a partial removal leaves the bitmap bit, and thus
// the best price, untouched.
func (b *book) updateBestAfterRemove(isBuy bool, removedPrice int64) {
	idx := int(removedPrice)
	if isBuy {
		if b.bidLevels[idx].empty() {
			b.bidBitmap.clear(idx)
		}
		if removedPrice == b.bestBid {
			newBest := b.bidBitmap.findHighest(b.bestBidWord)
			if newBest >= 0 {
				b.bestBid = int64(newBest)
				b.bestBidWord = newBest / 64
			} else {
				b.bestBid = -1
				b.bestBidWord = -1
			}
		}
	} else {
		if b.askLevels[idx].empty() {
			b.askBitmap.clear(idx)
		}
		if removedPrice == b.bestAsk {
			newBest := b.askBitmap.findLowest(b.bestAskWord)
			if newBest >= 0 {
				b.bestAsk = int64(newBest)
				b.bestAskWord = newBest / 64
			} else {
				b.bestAsk = maxInt64Price
				b.bestAskWord = 0
			}
		}
	}
}

func (b *book) reset() {
	for i := range b.bidLevels {
		b.bidLevels[i].reset()
		b.askLevels[i].reset()
	}
	b.bidBitmap.clearAll()
	b.askBitmap.clearAll()
	b.bestBid = -1
	b.bestAsk = maxInt64Price
	b.bestBidWord = -1
	b.bestAskWord = 0
	b.bidLevelCount = 0
	b.askLevelCount = 0
}
