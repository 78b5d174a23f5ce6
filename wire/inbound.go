// Package wire implements the binary command and event protocol a
// gateway process uses to talk to an engine.Engine over a byte stream —
// one fixed 11-byte header (type, length, timestamp) followed by a
// type-specific fixed-size body, little-endian throughout, matching a
// #pragma pack(1) C struct byte-for-byte so either side of the wire can
// be written in C++ or Go interchangeably.
package wire

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// MsgType discriminates inbound command frames.
type MsgType uint8

const (
	MsgAddOrder    MsgType = 'A'
	MsgAddIceberg  MsgType = 'I'
	MsgAddAON      MsgType = 'N'
	MsgCancelOrder MsgType = 'X'
	MsgModifyOrder MsgType = 'M'
	MsgExecute     MsgType = 'E'
	MsgHeartbeat   MsgType = 'H'
	MsgReset       MsgType = 'R'
)

// WireSide is the on-wire encoding of a buy/sell flag: the ASCII bytes
// 'B' and 'S', matching the original protocol's Side enum rather than a
// dense 0/1 so a byte-level packet dump stays human-readable.
type WireSide uint8

const (
	SideBuy  WireSide = 'B'
	SideSell WireSide = 'S'
)

// IsBuy reports whether s is the buy side.
func (s WireSide) IsBuy() bool { return s == SideBuy }

// WireTIF is the on-wire encoding of a time-in-force policy.
type WireTIF uint8

const (
	TIFGTC WireTIF = 0
	TIFIOC WireTIF = 1
	TIFFOK WireTIF = 2
	TIFAON WireTIF = 3
)

const headerSize = 11

// maxFrame is the largest frame length a header may declare. The
// transport is expected to enforce this on the wire; DecodeCommand
// enforces it too so the codec rejects an oversized frame on its own
// when driven directly, without a transport in front of it.
const maxFrame = 1024

// Header is the common 11-byte prefix of every inbound frame: a
// one-byte type tag, a little-endian uint16 total frame length
// (including the header), and a little-endian uint64 timestamp.
type Header struct {
	Type      MsgType
	Length    uint16
	Timestamp uint64
}

func decodeHeader(b []byte) (Header, error) {
	if len(b) < headerSize {
		return Header{}, fmt.Errorf("wire: short frame: need %d header bytes, got %d", headerSize, len(b))
	}
	return Header{
		Type:      MsgType(b[0]),
		Length:    binary.LittleEndian.Uint16(b[1:3]),
		Timestamp: binary.LittleEndian.Uint64(b[3:11]),
	}, nil
}

// ErrUnknownType is returned by DecodeCommand when the frame's type byte
// doesn't match any known MsgType.
var ErrUnknownType = errors.New("wire: unknown message type")

// AddOrderCmd is the decoded body of an ADD_ORDER frame.
type AddOrderCmd struct {
	Timestamp uint64
	OrderID   uint64
	UserID    uint64
	Side      WireSide
	Price     int64
	Quantity  int64
}

// AddIcebergCmd is the decoded body of an ADD_ICEBERG frame.
type AddIcebergCmd struct {
	Timestamp       uint64
	OrderID         uint64
	UserID          uint64
	Side            WireSide
	Price           int64
	TotalQuantity   int64
	VisibleQuantity int64
}

// AddAONCmd is the decoded body of an ADD_AON frame.
type AddAONCmd struct {
	Timestamp uint64
	OrderID   uint64
	UserID    uint64
	Side      WireSide
	Price     int64
	Quantity  int64
}

// CancelCmd is the decoded body of a CANCEL_ORDER frame.
type CancelCmd struct {
	Timestamp uint64
	OrderID   uint64
}

// ModifyCmd is the decoded body of a MODIFY_ORDER frame.
type ModifyCmd struct {
	Timestamp   uint64
	OrderID     uint64
	NewPrice    int64
	NewQuantity int64
}

// ExecuteCmd is the decoded body of an EXECUTE frame.
type ExecuteCmd struct {
	Timestamp   uint64
	OrderID     uint64
	UserID      uint64
	Side        WireSide
	Price       int64
	Quantity    int64
	TimeInForce WireTIF
}

// HeartbeatCmd is the decoded body of a HEARTBEAT frame.
type HeartbeatCmd struct {
	Timestamp uint64
}

// ResetCmd is the decoded body of a RESET frame.
type ResetCmd struct {
	Timestamp uint64
}

// DecodeCommand reads one complete frame from the front of b and returns
// the decoded command value (one of the *Cmd types above) along with the
// number of bytes consumed. Callers own framing: b must already contain
// at least one full frame, as determined by peeking the header's Length
// field if needed.
func DecodeCommand(b []byte) (cmd any, consumed int, err error) {
	hdr, err := decodeHeader(b)
	if err != nil {
		return nil, 0, err
	}
	if hdr.Length < headerSize {
		return nil, 0, fmt.Errorf("wire: frame length %d is shorter than the %d-byte header", hdr.Length, headerSize)
	}
	if hdr.Length > maxFrame {
		return nil, 0, fmt.Errorf("wire: frame length %d exceeds maxFrame %d", hdr.Length, maxFrame)
	}
	if len(b) < int(hdr.Length) {
		return nil, 0, fmt.Errorf("wire: short frame: header declares %d bytes, got %d", hdr.Length, len(b))
	}
	body := b[headerSize:hdr.Length]

	switch MsgType(b[0]) {
	case MsgAddOrder:
		if len(body) < 33 {
			return nil, 0, fmt.Errorf("wire: ADD_ORDER body too short: %d", len(body))
		}
		return AddOrderCmd{
			Timestamp: hdr.Timestamp,
			OrderID:   binary.LittleEndian.Uint64(body[0:8]),
			UserID:    binary.LittleEndian.Uint64(body[8:16]),
			Side:      WireSide(body[16]),
			Price:     int64(binary.LittleEndian.Uint64(body[17:25])),
			Quantity:  int64(binary.LittleEndian.Uint64(body[25:33])),
		}, int(hdr.Length), nil

	case MsgAddIceberg:
		if len(body) < 41 {
			return nil, 0, fmt.Errorf("wire: ADD_ICEBERG body too short: %d", len(body))
		}
		return AddIcebergCmd{
			Timestamp:       hdr.Timestamp,
			OrderID:         binary.LittleEndian.Uint64(body[0:8]),
			UserID:          binary.LittleEndian.Uint64(body[8:16]),
			Side:            WireSide(body[16]),
			Price:           int64(binary.LittleEndian.Uint64(body[17:25])),
			TotalQuantity:   int64(binary.LittleEndian.Uint64(body[25:33])),
			VisibleQuantity: int64(binary.LittleEndian.Uint64(body[33:41])),
		}, int(hdr.Length), nil

	case MsgAddAON:
		if len(body) < 33 {
			return nil, 0, fmt.Errorf("wire: ADD_AON body too short: %d", len(body))
		}
		return AddAONCmd{
			Timestamp: hdr.Timestamp,
			OrderID:   binary.LittleEndian.Uint64(body[0:8]),
			UserID:    binary.LittleEndian.Uint64(body[8:16]),
			Side:      WireSide(body[16]),
			Price:     int64(binary.LittleEndian.Uint64(body[17:25])),
			Quantity:  int64(binary.LittleEndian.Uint64(body[25:33])),
		}, int(hdr.Length), nil

	case MsgCancelOrder:
		if len(body) < 8 {
			return nil, 0, fmt.Errorf("wire: CANCEL_ORDER body too short: %d", len(body))
		}
		return CancelCmd{
			Timestamp: hdr.Timestamp,
			OrderID:   binary.LittleEndian.Uint64(body[0:8]),
		}, int(hdr.Length), nil

	case MsgModifyOrder:
		if len(body) < 24 {
			return nil, 0, fmt.Errorf("wire: MODIFY_ORDER body too short: %d", len(body))
		}
		return ModifyCmd{
			Timestamp:   hdr.Timestamp,
			OrderID:     binary.LittleEndian.Uint64(body[0:8]),
			NewPrice:    int64(binary.LittleEndian.Uint64(body[8:16])),
			NewQuantity: int64(binary.LittleEndian.Uint64(body[16:24])),
		}, int(hdr.Length), nil

	case MsgExecute:
		if len(body) < 34 {
			return nil, 0, fmt.Errorf("wire: EXECUTE body too short: %d", len(body))
		}
		return ExecuteCmd{
			Timestamp:   hdr.Timestamp,
			OrderID:     binary.LittleEndian.Uint64(body[0:8]),
			UserID:      binary.LittleEndian.Uint64(body[8:16]),
			Side:        WireSide(body[16]),
			Price:       int64(binary.LittleEndian.Uint64(body[17:25])),
			Quantity:    int64(binary.LittleEndian.Uint64(body[25:33])),
			TimeInForce: WireTIF(body[33]),
		}, int(hdr.Length), nil

	case MsgHeartbeat:
		return HeartbeatCmd{Timestamp: hdr.Timestamp}, int(hdr.Length), nil

	case MsgReset:
		return ResetCmd{Timestamp: hdr.Timestamp}, int(hdr.Length), nil

	default:
		return nil, 0, fmt.Errorf("%w: %q", ErrUnknownType, rune(b[0]))
	}
}
