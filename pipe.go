// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package pipe

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"code.hybscloud.com/atomix"
	"github.com/benbjohnson/clock"
)

// Pipe is a bounded in-memory byte channel with named-pipe semantics.
//
// Storage is allocated by the first Open and released when the last
// handle closes, so an idle Pipe holds no buffer. A single mutex guards
// the cursors, the reader and writer counts, the subscriber set and the
// statistics; blocking operations wait with the mutex released.
type Pipe struct {
	name     string
	serial   Serial
	capacity int
	alloc    Allocator
	clock    clock.Clock
	log      *slog.Logger

	mu       sync.Mutex
	rb       ring
	nreaders int
	nwriters int
	inq      waitCond // data became available
	outq     waitCond // space became free
	handles  map[*Handle]struct{}
	subs     map[SubscriptionID]*subscription

	seq       uint64
	nread     uint64
	nwritten  uint64
	dropped   atomix.Uint64 // updated outside p.mu by deliveries
	lastRead  time.Time
	lastWrite time.Time
}

// New creates an idle Pipe. It fails with ErrInvalidArgument when the
// capacity is below 2 or the allocator is nil.
func New(opts ...Option) (*Pipe, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.capacity < 2 {
		return nil, fmt.Errorf("%w: capacity %d < 2", ErrInvalidArgument, o.capacity)
	}
	if o.alloc == nil || o.clock == nil {
		return nil, fmt.Errorf("%w: nil allocator or clock", ErrInvalidArgument)
	}
	p := &Pipe{
		name:     o.name,
		serial:   nextPipeSerial(),
		capacity: o.capacity,
		alloc:    o.alloc,
		clock:    o.clock,
		inq:      newWaitCond(),
		outq:     newWaitCond(),
		handles:  make(map[*Handle]struct{}),
		subs:     make(map[SubscriptionID]*subscription),
	}
	if p.name == "" {
		p.name = fmt.Sprintf("pipe%d", p.serial)
	}
	logger := o.logger
	if logger == nil {
		logger = slog.Default().With("subsystem", "pipe")
	}
	p.log = logger.With("pipe", p.name)
	return p, nil
}

// Name returns the pipe name.
func (p *Pipe) Name() string { return p.name }

// Serial returns the identifier assigned by New.
func (p *Pipe) Serial() Serial { return p.serial }

// Capacity returns the configured ring size C. At most C-1 bytes are
// buffered at once.
func (p *Pipe) Capacity() int { return p.capacity }

// Open returns a new handle on the pipe, allocating the ring if this is
// the first open. On allocation failure the error matches ErrOutOfMemory
// and the reader and writer counts are unchanged.
func (p *Pipe) Open(mode Mode, blocking bool) (*Handle, error) {
	if !mode.valid() {
		return nil, fmt.Errorf("%w: mode %d", ErrInvalidArgument, mode)
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.rb.buf == nil {
		buf, err := p.alloc.Alloc(p.capacity)
		if err == nil && len(buf) != p.capacity {
			p.alloc.Free(buf)
			err = fmt.Errorf("allocator returned %d bytes, want %d", len(buf), p.capacity)
		}
		if err != nil {
			if !errors.Is(err, ErrOutOfMemory) {
				err = fmt.Errorf("%w: %w", ErrOutOfMemory, err)
			}
			p.log.Warn("ring allocation failed", "size", p.capacity, "err", err)
			return nil, err
		}
		p.rb.attach(buf)
		p.log.Debug("ring allocated", "size", p.capacity)
	}

	if mode.canRead() {
		p.nreaders++
	}
	if mode.canWrite() {
		p.nwriters++
	}
	h := &Handle{
		p:        p,
		mode:     mode,
		serial:   nextHandleSerial(),
		blocking: blocking,
		done:     make(chan struct{}),
	}
	p.handles[h] = struct{}{}
	return h, nil
}

// release undoes Open for h. The ring is freed when no opener remains.
func (p *Pipe) release(h *Handle) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if h.closed {
		return ErrClosed
	}
	h.closed = true
	close(h.done)
	delete(p.handles, h)
	for _, s := range p.subs {
		if s.owner == h {
			p.dropSub(s)
		}
	}

	if h.mode.canRead() {
		p.nreaders--
	}
	if h.mode.canWrite() {
		p.nwriters--
	}
	if p.nreaders+p.nwriters == 0 {
		p.alloc.Free(p.rb.detach())
		p.log.Debug("ring released", "size", p.capacity)
	}
	return nil
}

// Openers returns the current reader and writer counts.
func (p *Pipe) Openers() (readers, writers int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.nreaders, p.nwriters
}

// openHandles returns a snapshot of the handles not yet closed.
func (p *Pipe) openHandles() []*Handle {
	p.mu.Lock()
	defer p.mu.Unlock()
	hs := make([]*Handle, 0, len(p.handles))
	for h := range p.handles {
		hs = append(hs, h)
	}
	return hs
}
