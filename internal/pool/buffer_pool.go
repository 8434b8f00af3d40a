package pool

import (
	"sync"
)

// BufferPool implements a pool of byte slices for sample buffers
type BufferPool struct {
	pool sync.Pool
	size int
	// maxRetained caps the capacity of buffers put back into the pool
	maxRetained int
}

// NewBufferPool creates a new buffer pool with buffers of the specified initial capacity.
// Buffers that grew beyond maxRetained are dropped on Put instead of being pooled;
// a maxRetained of 0 disables the cap.
func NewBufferPool(size, maxRetained int) *BufferPool {
	return &BufferPool{
		pool: sync.Pool{
			New: func() interface{} {
				buffer := make([]byte, 0, size)
				return &buffer
			},
		},
		size:        size,
		maxRetained: maxRetained,
	}
}

// Get retrieves a buffer of exactly n bytes, reusing pooled capacity when it suffices
func (bp *BufferPool) Get(n int) *[]byte {
	buffer := bp.pool.Get().(*[]byte)
	if cap(*buffer) < n {
		*buffer = make([]byte, n)
	} else {
		*buffer = (*buffer)[:n]
	}
	return buffer
}

// Put returns a buffer to the pool for reuse
func (bp *BufferPool) Put(buffer *[]byte) {
	if buffer == nil {
		return
	}
	if bp.maxRetained > 0 && cap(*buffer) > bp.maxRetained {
		return
	}
	// Reset buffer length but keep capacity
	*buffer = (*buffer)[:0]
	bp.pool.Put(buffer)
}
