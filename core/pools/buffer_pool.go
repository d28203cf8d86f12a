package pools

import "sync"

// BufferPool is a multi-tiered byte slice pool for different size classes
type BufferPool struct {
	pools []*sync.Pool
	sizes []int
}

// Size tiers chosen around the wire codec's needs: line reads, typical
// request heads, and the 8 KiB head cap.
var defaultSizes = []int{
	512,
	2048,
	8192,
}

// NewBufferPool creates a buffer pool with the standard size tiers
func NewBufferPool() *BufferPool {
	return NewBufferPoolWithSizes(defaultSizes)
}

// NewBufferPoolWithSizes creates a buffer pool with custom size tiers
func NewBufferPoolWithSizes(sizes []int) *BufferPool {
	bp := &BufferPool{
		pools: make([]*sync.Pool, len(sizes)),
		sizes: sizes,
	}

	for i, size := range sizes {
		sz := size
		bp.pools[i] = &sync.Pool{
			New: func() any {
				buf := make([]byte, 0, sz)
				return &buf
			},
		}
	}

	return bp
}

// Get returns an empty byte slice with capacity of at least size
func (bp *BufferPool) Get(size int) []byte {
	for i, poolSize := range bp.sizes {
		if size <= poolSize {
			bufPtr := bp.pools[i].Get().(*[]byte)
			return (*bufPtr)[:0]
		}
	}
	return make([]byte, 0, size)
}

// Put returns a byte slice to its tier. Slices whose capacity matches
// no tier are dropped for the GC to collect.
func (bp *BufferPool) Put(buf []byte) {
	capacity := cap(buf)
	for i, poolSize := range bp.sizes {
		if capacity == poolSize {
			buf = buf[:0]
			bp.pools[i].Put(&buf)
			return
		}
	}
}

var defaultPool = NewBufferPool()

// Get acquires a buffer from the package-level pool.
func Get(size int) []byte { return defaultPool.Get(size) }

// Put releases a buffer back to the package-level pool.
func Put(buf []byte) { defaultPool.Put(buf) }
