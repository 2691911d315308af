package bindings

import (
	"runtime"
	"testing"
	"weak"
)

func rentN(t *testing.T, p *BufferPool, n int) []*PinnedBuffer {
	t.Helper()
	bufs := make([]*PinnedBuffer, n)
	for i := range bufs {
		buf, err := p.Rent([]byte{byte(i), 1, 2, 3})
		if err != nil {
			t.Fatalf("Rent %d: %v", i, err)
		}
		bufs[i] = buf
	}
	return bufs
}

func TestPoolRejectsEmptyPayload(t *testing.T) {
	p := NewBufferPool(4)
	if _, err := p.Rent(nil); err != ErrNilPayload {
		t.Fatalf("Rent(nil): got %v, want ErrNilPayload", err)
	}
	if _, err := p.Rent([]byte{}); err != ErrNilPayload {
		t.Fatalf("Rent(empty): got %v, want ErrNilPayload", err)
	}
}

func TestPoolSizeWithinCapacity(t *testing.T) {
	const capacity = 8
	p := NewBufferPool(capacity)

	for _, n := range []int{1, 3, capacity} {
		p.Clear()
		for _, buf := range rentN(t, p, n) {
			p.Return(buf)
		}
		if got := p.Size(); got != n {
			t.Fatalf("after %d rent/return cycles: size = %d, want %d", n, got, n)
		}
	}
}

func TestPoolDoesNotGrowPastCapacity(t *testing.T) {
	const capacity = 4
	p := NewBufferPool(capacity)

	for _, buf := range rentN(t, p, capacity+3) {
		p.Return(buf)
	}
	if got := p.Size(); got > capacity {
		t.Fatalf("size = %d, want <= %d", got, capacity)
	}
}

func TestPoolDoubleReturnIsNoOp(t *testing.T) {
	p := NewBufferPool(4)
	buf, err := p.Rent([]byte("payload"))
	if err != nil {
		t.Fatalf("Rent: %v", err)
	}

	p.Return(buf)
	p.Return(buf)

	if got := p.Size(); got != 1 {
		t.Fatalf("size after double return = %d, want 1", got)
	}
}

func TestPoolAddrStableWhileRented(t *testing.T) {
	p := NewBufferPool(4)
	payload := []byte("stable")
	buf, err := p.Rent(payload)
	if err != nil {
		t.Fatalf("Rent: %v", err)
	}
	defer p.Return(buf)

	addr := buf.Addr()
	if addr == 0 {
		t.Fatal("Addr = 0 while rented")
	}
	runtime.GC()
	if buf.Addr() != addr {
		t.Fatalf("Addr moved across GC: %#x != %#x", buf.Addr(), addr)
	}
	if buf.Len() != len(payload) {
		t.Fatalf("Len = %d, want %d", buf.Len(), len(payload))
	}
}

func TestPoolReleasesPayloadReference(t *testing.T) {
	p := NewBufferPool(4)

	payload := make([]byte, 1<<16)
	wp := weak.Make(&payload[0])

	buf, err := p.Rent(payload)
	if err != nil {
		t.Fatalf("Rent: %v", err)
	}
	payload = nil

	// While rented the pool is the rooting reference.
	runtime.GC()
	if wp.Value() == nil {
		t.Fatal("payload collected while still rented")
	}

	p.Return(buf)
	runtime.GC()
	runtime.GC()
	if wp.Value() != nil {
		t.Fatal("payload still reachable after Return; pool retains the buffer reference")
	}
}

func TestPoolReleasedBufferReportsZero(t *testing.T) {
	p := NewBufferPool(4)
	buf, err := p.Rent([]byte("x"))
	if err != nil {
		t.Fatalf("Rent: %v", err)
	}
	p.Return(buf)

	if buf.Addr() != 0 {
		t.Fatal("Addr != 0 after Return")
	}
	if buf.Len() != 0 {
		t.Fatal("Len != 0 after Return")
	}
}

func TestSharedPoolRoundTrip(t *testing.T) {
	p := Pool()
	buf, err := p.Rent([]byte("shared"))
	if err != nil {
		t.Fatalf("Rent: %v", err)
	}
	if buf.Addr() == 0 || buf.Len() != 6 {
		t.Fatalf("Addr/Len = %#x/%d", buf.Addr(), buf.Len())
	}
	p.Return(buf)
}

func TestPoolClear(t *testing.T) {
	p := NewBufferPool(4)
	for _, buf := range rentN(t, p, 3) {
		p.Return(buf)
	}
	p.Clear()
	if got := p.Size(); got != 0 {
		t.Fatalf("size after Clear = %d, want 0", got)
	}
}
