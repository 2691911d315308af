package bindings

import (
	"runtime"
	"sync"
)

// DefaultPoolCapacity bounds the number of idle pinned buffers kept for
// reuse. Returns beyond the cap release immediately instead of growing the
// pool, which bounds native-visible memory under bursty load.
const DefaultPoolCapacity = 64

// PinnedBuffer exposes a Go byte slice to the engine as a stable raw
// address. The buffer is owned by the pool while idle and by the renter
// while rented. After Return, the pinned payload reference is cleared so the
// previously pinned object becomes collectable; that clearing is the pool's
// core correctness property, independent of any allocation savings.
type PinnedBuffer struct {
	pin      runtime.Pinner
	payload  []byte
	released bool
}

// Addr returns the pinned address of the payload's first byte. Only valid
// while the buffer is rented.
func (b *PinnedBuffer) Addr() uintptr {
	if b == nil || b.released || len(b.payload) == 0 {
		return 0
	}
	return addrOf(b.payload)
}

// Len returns the payload length in bytes.
func (b *PinnedBuffer) Len() int {
	if b == nil || b.released {
		return 0
	}
	return len(b.payload)
}

// BufferPool is a bounded, thread-safe pool of pinned-memory buffers used
// when marshaling payloads to the engine. The zero value is not usable; use
// NewBufferPool.
type BufferPool struct {
	mu       sync.Mutex
	idle     []*PinnedBuffer
	capacity int
}

// NewBufferPool creates a pool with the given idle capacity. Non-positive
// capacities fall back to DefaultPoolCapacity.
func NewBufferPool(capacity int) *BufferPool {
	if capacity <= 0 {
		capacity = DefaultPoolCapacity
	}
	return &BufferPool{capacity: capacity}
}

// Rent pins payload and returns a buffer whose Addr is stable until Return.
// A nil or empty payload is rejected: there is no address to pin.
func (p *BufferPool) Rent(payload []byte) (*PinnedBuffer, error) {
	if len(payload) == 0 {
		return nil, ErrNilPayload
	}

	p.mu.Lock()
	var buf *PinnedBuffer
	if n := len(p.idle); n > 0 {
		buf = p.idle[n-1]
		p.idle[n-1] = nil
		p.idle = p.idle[:n-1]
	}
	p.mu.Unlock()

	if buf == nil {
		buf = &PinnedBuffer{}
	}
	buf.payload = payload
	buf.released = false
	buf.pin.Pin(&payload[0])
	return buf, nil
}

// Return unpins buf and makes it available for reuse. Calling Return twice
// on the same buffer is a safe no-op: cleanup paths commonly run both in a
// defer and through an outer disposer. When the pool is already at capacity
// the buffer is dropped instead of retained.
func (p *BufferPool) Return(buf *PinnedBuffer) {
	if buf == nil || buf.released {
		return
	}
	buf.pin.Unpin()
	buf.payload = nil
	buf.released = true

	p.mu.Lock()
	if len(p.idle) < p.capacity {
		p.idle = append(p.idle, buf)
	}
	p.mu.Unlock()
}

// Size reports the number of idle buffers currently held.
func (p *BufferPool) Size() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.idle)
}

// Clear drops every idle buffer.
func (p *BufferPool) Clear() {
	p.mu.Lock()
	p.idle = nil
	p.mu.Unlock()
}

// sharedPool serves all boundary marshaling in this package.
var sharedPool = NewBufferPool(DefaultPoolCapacity)

// Pool exposes the process-wide buffer pool.
func Pool() *BufferPool {
	return sharedPool
}
