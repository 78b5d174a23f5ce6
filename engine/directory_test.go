package engine

import "testing"

func TestDirectoryGetBeyondCapacityIsNil(t *testing.T) {
	d := &directory{entries: make([]orderLocation, 4)}
	if loc := d.get(100); loc != nil {
		t.Fatalf("expected nil for an order id beyond capacity, got %+v", loc)
	}
}

func TestDirectoryEnsureCapacityGrows(t *testing.T) {
	d := &directory{entries: make([]orderLocation, 4)}

	d.ensureCapacity(10)
	if len(d.entries) <= 10 {
		t.Fatalf("expected capacity to grow past order id 10, got %d", len(d.entries))
	}
	if d.maxSeen != 10 {
		t.Errorf("expected maxSeen 10, got %d", d.maxSeen)
	}
}

func TestDirectoryEnsureCapacityDoublesWhenLarger(t *testing.T) {
	d := &directory{entries: make([]orderLocation, 8)}

	d.ensureCapacity(10)
	if len(d.entries) != 16 {
		t.Errorf("expected doubling to 16 for an id well within 2x capacity, got %d", len(d.entries))
	}
}

func TestDirectoryFlags(t *testing.T) {
	d := &directory{entries: make([]orderLocation, 4)}
	loc := d.get(1)
	loc.setBuy(true)
	loc.setActive(true)

	if !loc.isBuy() || !loc.isActive() {
		t.Fatalf("expected both flags set")
	}

	loc.setBuy(false)
	if loc.isBuy() {
		t.Errorf("expected isBuy false after clearing")
	}
	if !loc.isActive() {
		t.Errorf("expected setBuy to leave the active flag untouched")
	}
}

func TestDirectoryResetActiveClearsObservedRange(t *testing.T) {
	d := newDirectory()
	d.ensureCapacity(5)
	d.get(5).setActive(true)
	d.get(2).setActive(true)

	d.resetActive()

	if d.get(5).isActive() || d.get(2).isActive() {
		t.Errorf("expected resetActive to clear every observed entry")
	}
}
