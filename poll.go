// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package pipe

import (
	"context"
	"fmt"
)

// Readiness is the result of Poll.
//
// Readable and Writable report whether a read or write would make
// progress at the time of the poll, masked by the requested interest.
// The value also carries a registration on both wait conditions: Wait
// returns at the next data or space change after the poll.
type Readiness struct {
	Readable bool
	Writable bool

	dataReady  <-chan struct{}
	spaceReady <-chan struct{}
	done       <-chan struct{}
}

// Ready reports whether either condition holds.
func (r Readiness) Ready() bool { return r.Readable || r.Writable }

// Wait blocks until the pipe state changes after the poll that produced
// r, the handle is closed (ErrClosed), or ctx is done (ErrInterrupted).
// A return does not guarantee readiness; poll again.
func (r Readiness) Wait(ctx context.Context) error {
	select {
	case <-r.dataReady:
	case <-r.spaceReady:
	case <-r.done:
		return ErrClosed
	case <-ctx.Done():
		return interrupted(context.Cause(ctx))
	}
	return nil
}

// Poll reports whether the handle could read or write without waiting.
// It never changes the pipe's contents.
func (h *Handle) Poll(interest Interest) (Readiness, error) {
	if !interest.valid() {
		return Readiness{}, fmt.Errorf("%w: interest %d", ErrInvalidArgument, interest)
	}
	p := h.p
	p.mu.Lock()
	defer p.mu.Unlock()
	if h.closed {
		return Readiness{}, ErrClosed
	}
	return Readiness{
		Readable:   interest&PollIn != 0 && p.rb.used() > 0,
		Writable:   interest&PollOut != 0 && p.rb.free() > 0,
		dataReady:  p.inq.changed(),
		spaceReady: p.outq.changed(),
		done:       h.done,
	}, nil
}

// WaitReady polls until at least one requested condition holds.
func (h *Handle) WaitReady(ctx context.Context, interest Interest) (Readiness, error) {
	for {
		r, err := h.Poll(interest)
		if err != nil || r.Ready() {
			return r, err
		}
		if err := r.Wait(ctx); err != nil {
			return r, err
		}
	}
}
