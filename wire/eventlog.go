package wire

import (
	"encoding/binary"
	"fmt"
)

const (
	eventLogMagic   uint64 = 0x574F4C46504545
	eventLogVersion uint32 = 1

	eventLogHeaderSize = 56
)

// EventLogHeader is the 56-byte header an external event-log file
// begins with: a magic number, a format version, the size of the
// largest event record the producer can emit, and the timestamp the
// log starts at, followed by reserved padding for future fields. A
// reader validates this before trusting anything that follows it.
type EventLogHeader struct {
	Magic          uint64
	Version        uint32
	MsgSize        uint32
	TimestampStart uint64
	Reserved       [4]uint64
}

// NewEventLogHeader builds the canonical header for a fresh log
// starting at timestampStart. MsgSize is the largest frame EncodeEvent
// can produce — there's no single fixed record size the way there is
// in a tagged-union encoding, so the header commits to an upper bound
// instead.
func NewEventLogHeader(timestampStart uint64) EventLogHeader {
	return EventLogHeader{
		Magic:          eventLogMagic,
		Version:        eventLogVersion,
		MsgSize:        uint32(tradeBodySize),
		TimestampStart: timestampStart,
	}
}

// Valid reports whether h's magic, version, and message size match
// what this core produces.
func (h EventLogHeader) Valid() bool {
	return h.Magic == eventLogMagic && h.Version == eventLogVersion && h.MsgSize == uint32(tradeBodySize)
}

// MarshalBinary encodes h into its 56-byte little-endian wire form.
func (h EventLogHeader) MarshalBinary() ([]byte, error) {
	buf := make([]byte, eventLogHeaderSize)
	binary.LittleEndian.PutUint64(buf[0:8], h.Magic)
	binary.LittleEndian.PutUint32(buf[8:12], h.Version)
	binary.LittleEndian.PutUint32(buf[12:16], h.MsgSize)
	binary.LittleEndian.PutUint64(buf[16:24], h.TimestampStart)
	for i, r := range h.Reserved {
		binary.LittleEndian.PutUint64(buf[24+i*8:32+i*8], r)
	}
	return buf, nil
}

// UnmarshalBinary decodes a 56-byte header from b. It does not call
// Valid — callers that care about magic/version/size agreement check
// that separately.
func (h *EventLogHeader) UnmarshalBinary(b []byte) error {
	if len(b) < eventLogHeaderSize {
		return fmt.Errorf("wire: event log header short: need %d bytes, got %d", eventLogHeaderSize, len(b))
	}
	h.Magic = binary.LittleEndian.Uint64(b[0:8])
	h.Version = binary.LittleEndian.Uint32(b[8:12])
	h.MsgSize = binary.LittleEndian.Uint32(b[12:16])
	h.TimestampStart = binary.LittleEndian.Uint64(b[16:24])
	for i := range h.Reserved {
		h.Reserved[i] = binary.LittleEndian.Uint64(b[24+i*8 : 32+i*8])
	}
	return nil
}
