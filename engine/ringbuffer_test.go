package engine

import (
	"sync"
	"testing"
)

func TestNewRingBufferInitialization(t *testing.T) {
	rb := NewRingBuffer[int](8)
	if rb.Capacity() != 8 {
		t.Fatalf("expected capacity 8, got %d", rb.Capacity())
	}
	if rb.Len() != 0 {
		t.Fatalf("expected a fresh ring to be empty, got length %d", rb.Len())
	}
}

func TestNewRingBufferRejectsNonPowerOfTwo(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected a panic for a non-power-of-two capacity")
		}
	}()
	NewRingBuffer[int](10)
}

func TestPushBatchAndDrain(t *testing.T) {
	rb := NewRingBuffer[int](8)
	values := []int{1, 2, 3, 4, 5}

	n := rb.PushBatch(values)
	if n != len(values) {
		t.Fatalf("expected to push %d elements, got %d", len(values), n)
	}

	out := make([]int, len(values))
	n = rb.Drain(out)
	if n != len(values) {
		t.Fatalf("expected to drain %d elements, got %d", len(values), n)
	}
	for i, v := range values {
		if out[i] != v {
			t.Errorf("expected %d at index %d, got %d", v, i, out[i])
		}
	}
}

func TestPushBatchShortWriteWhenFull(t *testing.T) {
	rb := NewRingBuffer[int](4)

	n := rb.PushBatch([]int{1, 2, 3, 4, 5, 6})
	if n != 4 {
		t.Fatalf("expected a short write of 4 on an over-full batch, got %d", n)
	}
	if rb.Len() != 4 {
		t.Errorf("expected the ring to be full at capacity 4, got length %d", rb.Len())
	}
}

func TestRingBufferWrapAround(t *testing.T) {
	rb := NewRingBuffer[int](4)

	rb.PushBatch([]int{1, 2, 3, 4})
	out := make([]int, 2)
	rb.Drain(out)

	n := rb.PushBatch([]int{5, 6})
	if n != 2 {
		t.Fatalf("expected to push 2 wrapped elements, got %d", n)
	}

	remaining := make([]int, 4)
	n = rb.Drain(remaining)
	if n != 4 {
		t.Fatalf("expected to drain the remaining 4 elements, got %d", n)
	}
	expected := []int{3, 4, 5, 6}
	for i, v := range expected {
		if remaining[i] != v {
			t.Errorf("expected %d at index %d after wrap, got %d", v, i, remaining[i])
		}
	}
}

func TestDrainOnEmptyReturnsZero(t *testing.T) {
	rb := NewRingBuffer[int](4)
	out := make([]int, 2)
	if n := rb.Drain(out); n != 0 {
		t.Errorf("expected 0 from draining an empty ring, got %d", n)
	}
}

func TestConcurrentProducerConsumer(t *testing.T) {
	rb := NewRingBuffer[int](1024)
	const total = 100_000
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		batch := make([]int, 1)
		for i := 0; i < total; i++ {
			batch[0] = i
			for rb.PushBatch(batch) == 0 {
				// ring full; spin until the consumer frees a slot
			}
		}
	}()

	wg.Add(1)
	var readCount int
	go func() {
		defer wg.Done()
		out := make([]int, 256)
		for readCount < total {
			readCount += rb.Drain(out)
		}
	}()

	wg.Wait()
	if readCount != total {
		t.Errorf("expected to read %d elements, got %d", total, readCount)
	}
}
