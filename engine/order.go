package engine

// NullIndex is the sentinel arena index meaning "no such slot".
const NullIndex = ^uint32(0) // u32::MAX

// Order flag bits, packed into a single byte so no atomic access is
// needed — the book is single-writer.
const (
	flagBuy uint8 = 1 << 0
	flagAON uint8 = 1 << 1
)

// Order is one resting (or about-to-rest) order record. Indices into the
// arena are stable for the record's lifetime; FIFO links are intrusive,
// so a level's queue costs nothing beyond the order records themselves.
type Order struct {
	OrderID         uint64
	Price           int64
	VisibleQuantity int64
	HiddenQuantity  int64
	PeakSize        int64
	Next            uint32
	Prev            uint32
	UserID          uint32
	Flags           uint8
}

func (o *Order) isBuy() bool   { return o.Flags&flagBuy != 0 }
func (o *Order) isAON() bool   { return o.Flags&flagAON != 0 }
func (o *Order) setBuy(v bool) {
	if v {
		o.Flags |= flagBuy
	} else {
		o.Flags &^= flagBuy
	}
}
func (o *Order) setAON(v bool) {
	if v {
		o.Flags |= flagAON
	} else {
		o.Flags &^= flagAON
	}
}

// total is the full remaining size of the order: visible plus the
// iceberg reserve (zero for non-icebergs).
func (o *Order) total() int64 { return o.VisibleQuantity + o.HiddenQuantity }

// isIceberg reports whether this order carries a replenishing reserve.
func (o *Order) isIceberg() bool { return o.PeakSize > 0 }
