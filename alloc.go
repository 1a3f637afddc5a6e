// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package pipe

import (
	"fmt"
	"sync"
)

// Allocator provides ring storage. Alloc is called on the first Open of
// an idle pipe and Free when the last handle closes, both under the pipe
// lock. Alloc must return exactly n bytes; Free receives that same slice.
type Allocator interface {
	Alloc(n int) ([]byte, error)
	Free(b []byte)
}

// HeapAllocator allocates ring storage from the Go heap.
type HeapAllocator struct{}

// Alloc returns a zeroed n-byte slice.
func (HeapAllocator) Alloc(n int) ([]byte, error) {
	return make([]byte, n), nil
}

// Free leaves b to the garbage collector.
func (HeapAllocator) Free([]byte) {}

// Budget is an Allocator that caps the total storage held at once by
// every pipe sharing it. Alloc beyond the limit fails with ErrOutOfMemory.
type Budget struct {
	mu    sync.Mutex
	limit int
	inUse int
}

// NewBudget returns a Budget allowing at most limit bytes outstanding.
func NewBudget(limit int) *Budget {
	return &Budget{limit: limit}
}

// Alloc reserves n bytes from the budget.
func (b *Budget) Alloc(n int) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.inUse+n > b.limit {
		return nil, fmt.Errorf("%w: %d bytes requested, %d of %d in use", ErrOutOfMemory, n, b.inUse, b.limit)
	}
	b.inUse += n
	return make([]byte, n), nil
}

// Free returns len(buf) bytes to the budget.
func (b *Budget) Free(buf []byte) {
	b.mu.Lock()
	b.inUse -= len(buf)
	b.mu.Unlock()
}

// InUse returns the bytes currently reserved.
func (b *Budget) InUse() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.inUse
}

// Limit returns the configured cap.
func (b *Budget) Limit() int { return b.limit }
