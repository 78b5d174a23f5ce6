package engine

import "sync/atomic"

// cacheLineSize is the padding unit used to keep the producer's and
// consumer's cursors on separate cache lines, avoiding false sharing.
const cacheLineSize = 64

// RingBuffer is a lock-free ring buffer supporting exactly one producer
// and one consumer. Capacity must be a power of two. The producer owns
// head (release on publish); the consumer owns tail (release on
// consume). Each PushBatch and Drain call loads the opposite cursor
// afresh with an atomic load; no cached copy of it is kept between calls.
type RingBuffer[T any] struct {
	buffer []T
	mask   uint64

	_pad1 [cacheLineSize - 8]byte
	head  uint64
	_pad2 [cacheLineSize - 8]byte
	tail  uint64
	_pad3 [cacheLineSize - 8]byte
}

// NewRingBuffer allocates a ring of the given capacity, which must be a
// power of two.
func NewRingBuffer[T any](capacity int) *RingBuffer[T] {
	if capacity <= 0 || capacity&(capacity-1) != 0 {
		panic("engine: ring buffer capacity must be a power of two")
	}
	return &RingBuffer[T]{
		buffer: make([]T, capacity),
		mask:   uint64(capacity - 1),
	}
}

// PushBatch writes as many of batch's elements as fit into the free
// region, at most one wrap. It never blocks; the number of elements
// actually written is returned so the caller can count the shortfall
// rather than reorder or block.
func (r *RingBuffer[T]) PushBatch(batch []T) int {
	if len(batch) == 0 {
		return 0
	}

	head := atomic.LoadUint64(&r.head)
	tail := atomic.LoadUint64(&r.tail)

	capacity := r.mask + 1
	used := head - tail
	available := capacity - used

	toWrite := uint64(len(batch))
	if toWrite > available {
		toWrite = available
	}
	if toWrite == 0 {
		return 0
	}

	writeIdx := head & r.mask
	firstChunk := capacity - writeIdx
	if toWrite <= firstChunk {
		copy(r.buffer[writeIdx:writeIdx+toWrite], batch[:toWrite])
	} else {
		copy(r.buffer[writeIdx:], batch[:firstChunk])
		copy(r.buffer[:toWrite-firstChunk], batch[firstChunk:toWrite])
	}

	atomic.StoreUint64(&r.head, head+toWrite)
	return int(toWrite)
}

// Drain reads up to len(out) elements into out, returning the number
// actually read. It never blocks; zero means the ring was empty.
func (r *RingBuffer[T]) Drain(out []T) int {
	if len(out) == 0 {
		return 0
	}

	tail := atomic.LoadUint64(&r.tail)
	head := atomic.LoadUint64(&r.head)

	available := head - tail
	if available == 0 {
		return 0
	}

	toRead := uint64(len(out))
	if toRead > available {
		toRead = available
	}

	capacity := r.mask + 1
	readIdx := tail & r.mask
	firstChunk := capacity - readIdx
	if toRead <= firstChunk {
		copy(out[:toRead], r.buffer[readIdx:readIdx+toRead])
	} else {
		copy(out[:firstChunk], r.buffer[readIdx:])
		copy(out[firstChunk:toRead], r.buffer[:toRead-firstChunk])
	}

	atomic.StoreUint64(&r.tail, tail+toRead)
	return int(toRead)
}

// Len reports the number of elements currently buffered. It is a
// best-effort snapshot — useful for metrics, not for synchronisation.
func (r *RingBuffer[T]) Len() int {
	head := atomic.LoadUint64(&r.head)
	tail := atomic.LoadUint64(&r.tail)
	return int(head - tail)
}

// Capacity returns the usable capacity (always the power-of-two size
// passed to NewRingBuffer).
func (r *RingBuffer[T]) Capacity() int { return int(r.mask + 1) }
