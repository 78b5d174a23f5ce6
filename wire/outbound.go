package wire

import (
	"encoding/binary"

	"github.com/Cimurghe/TitanLOB/engine"
)

// OutMsgType discriminates outbound event frames.
type OutMsgType uint8

const (
	OutTrade          OutMsgType = 'T'
	OutOrderAccepted  OutMsgType = 'A'
	OutOrderCancelled OutMsgType = 'C'
)

const (
	outHeaderSize     = headerSize
	tradeBodySize     = outHeaderSize + 32
	acceptedBodySize  = outHeaderSize + 25
	cancelledBodySize = outHeaderSize + 16
)

// EncodeEvent appends the wire encoding of ev to dst and returns the
// extended slice. Events whose Type doesn't map to an outbound frame
// (there are none today, but EventType may grow) encode to nothing and
// dst is returned unchanged.
func EncodeEvent(dst []byte, ev engine.OutputEvent) []byte {
	switch ev.Type {
	case engine.EventTrade:
		dst = appendHeader(dst, byte(OutTrade), tradeBodySize, ev.Timestamp)
		dst = appendUint64(dst, ev.BuyOrderID)
		dst = appendUint64(dst, ev.SellOrderID)
		dst = appendInt64(dst, ev.Price)
		dst = appendInt64(dst, ev.Quantity)

	case engine.EventAccepted:
		dst = appendHeader(dst, byte(OutOrderAccepted), acceptedBodySize, ev.Timestamp)
		dst = appendUint64(dst, ev.OrderID)
		dst = append(dst, sideByte(ev.Side))
		dst = appendInt64(dst, ev.Price)
		dst = appendInt64(dst, ev.Quantity)

	case engine.EventCancelled:
		dst = appendHeader(dst, byte(OutOrderCancelled), cancelledBodySize, ev.Timestamp)
		dst = appendUint64(dst, ev.OrderID)
		dst = appendInt64(dst, ev.CancelledQuantity)
	}
	return dst
}

func sideByte(s engine.Side) byte {
	if s == engine.Buy {
		return byte(SideBuy)
	}
	return byte(SideSell)
}

func appendHeader(dst []byte, msgType byte, length uint16, ts uint64) []byte {
	var hdr [headerSize]byte
	hdr[0] = msgType
	binary.LittleEndian.PutUint16(hdr[1:3], length)
	binary.LittleEndian.PutUint64(hdr[3:11], ts)
	return append(dst, hdr[:]...)
}

func appendUint64(dst []byte, v uint64) []byte {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	return append(dst, b[:]...)
}

func appendInt64(dst []byte, v int64) []byte {
	return appendUint64(dst, uint64(v))
}
