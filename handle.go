// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package pipe

import (
	"context"
	"io"
)

var _ io.ReadWriteCloser = (*Handle)(nil)

// Handle is one opener's view of a Pipe.
// Handles share the pipe's ring; closing the last one frees it.
// A Handle may be used from several goroutines at once.
type Handle struct {
	p      *Pipe
	mode   Mode
	serial Serial
	done   chan struct{} // closed by Close

	// guarded by p.mu
	blocking bool
	closed   bool
}

// Pipe returns the pipe the handle was opened on.
func (h *Handle) Pipe() *Pipe { return h.p }

// Mode returns the access mode given to Open.
func (h *Handle) Mode() Mode { return h.mode }

// Serial returns the identifier assigned by Open.
func (h *Handle) Serial() Serial { return h.serial }

// Blocking reports whether Read and Write wait for progress.
func (h *Handle) Blocking() bool {
	h.p.mu.Lock()
	defer h.p.mu.Unlock()
	return h.blocking
}

// SetBlocking switches the handle between blocking and non-blocking mode.
// Operations already waiting are not affected.
func (h *Handle) SetBlocking(blocking bool) error {
	h.p.mu.Lock()
	defer h.p.mu.Unlock()
	if h.closed {
		return ErrClosed
	}
	h.blocking = blocking
	return nil
}

// Close releases the handle. Operations blocked on it return ErrClosed.
// Closing twice returns ErrClosed.
func (h *Handle) Close() error {
	return h.p.release(h)
}

// Read implements io.Reader. See ReadContext.
func (h *Handle) Read(b []byte) (int, error) {
	return h.ReadContext(context.Background(), b)
}

// ReadContext reads up to len(b) buffered bytes.
//
// When the pipe is empty a non-blocking handle fails with ErrWouldBlock
// and a blocking handle waits until a writer deposits data, the handle is
// closed, or ctx is done (ErrInterrupted). A blocking read never returns
// zero bytes without an error. Fewer than len(b) bytes is not an error.
func (h *Handle) ReadContext(ctx context.Context, b []byte) (int, error) {
	if !h.mode.canRead() {
		return 0, ErrBadMode
	}
	if len(b) == 0 {
		return 0, nil
	}
	return h.read(ctx, b, nil)
}

// Write implements io.Writer. Unlike most io.Writers it may return
// n < len(b) with a nil error; see WriteContext.
func (h *Handle) Write(b []byte) (int, error) {
	return h.WriteContext(context.Background(), b)
}

// WriteContext copies as much of b as currently fits.
//
// When the ring is full a non-blocking handle fails with ErrWouldBlock
// and a blocking handle waits for a reader to free space, for Close, or
// for ctx (ErrInterrupted). A short count is success.
func (h *Handle) WriteContext(ctx context.Context, b []byte) (int, error) {
	if !h.mode.canWrite() {
		return 0, ErrBadMode
	}
	if len(b) == 0 {
		return 0, nil
	}
	return h.write(ctx, b, nil)
}

// read runs the read state machine. block overrides the handle's mode
// when non-nil.
func (h *Handle) read(ctx context.Context, b []byte, block *bool) (int, error) {
	p := h.p
	p.mu.Lock()
	for {
		if h.closed {
			p.mu.Unlock()
			return 0, ErrClosed
		}
		if p.rb.used() > 0 {
			break
		}
		if !h.waits(block) {
			p.mu.Unlock()
			return 0, ErrWouldBlock
		}
		if err := p.inq.wait(ctx, &p.mu, h.done); err != nil {
			p.mu.Unlock()
			return 0, interrupted(err)
		}
	}

	n := p.rb.get(b)
	p.nread += uint64(n)
	p.lastRead = p.clock.Now()
	p.outq.broadcast()
	p.mu.Unlock()
	return n, nil
}

// write runs the write state machine. block overrides the handle's mode
// when non-nil.
func (h *Handle) write(ctx context.Context, b []byte, block *bool) (int, error) {
	p := h.p
	p.mu.Lock()
	for {
		if h.closed {
			p.mu.Unlock()
			return 0, ErrClosed
		}
		if p.rb.free() > 0 {
			break
		}
		if !h.waits(block) {
			p.mu.Unlock()
			return 0, ErrWouldBlock
		}
		if err := p.outq.wait(ctx, &p.mu, h.done); err != nil {
			p.mu.Unlock()
			return 0, interrupted(err)
		}
	}

	n := p.rb.put(b)
	p.nwritten += uint64(n)
	p.lastWrite = p.clock.Now()
	p.inq.broadcast()
	nt := p.collect(n)
	p.mu.Unlock()
	p.deliver(nt)
	return n, nil
}

func (h *Handle) waits(block *bool) bool {
	if block != nil {
		return *block
	}
	return h.blocking
}
