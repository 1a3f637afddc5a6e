// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package pipe

import (
	"context"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/lfq"
)

var _ inlineTarget = (*Mailbox)(nil)

// eventQueue is the subset of the lfq queue contract Mailbox relies on.
type eventQueue interface {
	Enqueue(elem *Event) error
	Dequeue() (Event, error)
}

// Mailbox is a bounded event queue usable as a Target.
//
// Deliver never blocks: a full mailbox drops the event and counts it.
// Many pipes may deliver into one Mailbox concurrently, but Recv and
// Wait must be called from a single goroutine at a time.
type Mailbox struct {
	q       eventQueue
	wake    chan struct{}
	dropped atomix.Uint64
}

// NewMailbox returns a Mailbox holding up to capacity events.
// Capacity is rounded up to a power of two, minimum 2.
func NewMailbox(capacity int) *Mailbox {
	if capacity < 2 {
		capacity = 2
	}
	return &Mailbox{
		q:    lfq.BuildMPSC[Event](lfq.New(capacity).SingleConsumer().Compact()),
		wake: make(chan struct{}, 1),
	}
}

// Deliver enqueues ev without blocking.
func (m *Mailbox) Deliver(ev Event) bool {
	if err := m.q.Enqueue(&ev); err != nil {
		m.dropped.Add(1)
		return false
	}
	select {
	case m.wake <- struct{}{}:
	default:
	}
	return true
}

func (*Mailbox) inline() {}

// Recv returns the oldest event, or ErrWouldBlock when empty.
func (m *Mailbox) Recv() (Event, error) {
	return m.q.Dequeue()
}

// Wait returns the oldest event, blocking until one arrives or ctx is
// done (ErrInterrupted).
func (m *Mailbox) Wait(ctx context.Context) (Event, error) {
	for {
		ev, err := m.q.Dequeue()
		if err == nil || !IsWouldBlock(err) {
			return ev, err
		}
		select {
		case <-m.wake:
		case <-ctx.Done():
			return Event{}, interrupted(context.Cause(ctx))
		}
	}
}

// Dropped returns the number of events refused because the mailbox was
// full.
func (m *Mailbox) Dropped() uint64 {
	return m.dropped.Load()
}
