// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package pipe

import "code.hybscloud.com/atomix"

// laneDepth is the number of events queued for a subscriber whose target
// may block. Further events are dropped until it catches up.
const laneDepth = 64

// Event is the out-of-band "readable" signal delivered to subscribers
// after a write deposits data.
type Event struct {
	Pipe  string // name of the pipe written to
	Seq   uint64 // per-pipe write sequence, starting at 1
	Bytes int    // bytes deposited by the write
}

// Target receives notification events. Deliver reports false when the
// event was dropped.
//
// Deliver is never called with the pipe lock held, so it may call back
// into the pipe. A Target returned by ChanTarget or a *Mailbox is
// delivered to by the writer itself; any other Target is fed by a
// goroutine owned by its subscription, in Seq order, so a slow Deliver
// delays only its own events.
type Target interface {
	Deliver(ev Event) bool
}

// inlineTarget marks targets whose Deliver never blocks and never enters
// a pipe; the writer delivers to them directly after unlocking.
type inlineTarget interface {
	Target
	inline()
}

// TargetFunc adapts a function to Target.
type TargetFunc func(ev Event) bool

// Deliver calls f(ev).
func (f TargetFunc) Deliver(ev Event) bool { return f(ev) }

type chanTarget chan<- Event

// ChanTarget returns a Target that sends on ch without blocking, in the
// manner of os/signal.Notify: when ch has no room the event is dropped.
// Concurrent writers may send out of Seq order.
// The caller must not close ch until Unsubscribe has returned and writes
// that started before it have completed.
func ChanTarget(ch chan<- Event) Target { return chanTarget(ch) }

func (c chanTarget) Deliver(ev Event) bool {
	select {
	case c <- ev:
		return true
	default:
		return false
	}
}

func (chanTarget) inline() {}

type subscription struct {
	id      SubscriptionID
	owner   *Handle
	target  Target
	lane    chan Event // nil for inline targets; sent to and closed under p.mu
	removed atomix.Uint32
}

// Subscribe registers t for an event after every write that deposits at
// least one byte. The subscription ends with Unsubscribe or when h is
// closed.
func (h *Handle) Subscribe(t Target) (SubscriptionID, error) {
	if t == nil {
		return 0, ErrInvalidArgument
	}
	p := h.p
	p.mu.Lock()
	defer p.mu.Unlock()
	if h.closed {
		return 0, ErrClosed
	}
	s := &subscription{id: nextSubscriptionID(), owner: h, target: t}
	if _, ok := t.(inlineTarget); !ok {
		s.lane = make(chan Event, laneDepth)
		go p.pump(s)
	}
	p.subs[s.id] = s
	return s.id, nil
}

// Unsubscribe removes a subscription. No delivery to its target starts
// after Unsubscribe returns; one already running may still finish. It
// reports whether id was subscribed.
func (p *Pipe) Unsubscribe(id SubscriptionID) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	s, ok := p.subs[id]
	if !ok {
		return false
	}
	p.dropSub(s)
	return true
}

// Unsubscribe removes a subscription made through h. It reports false
// for ids that are unknown or belong to another handle.
func (h *Handle) Unsubscribe(id SubscriptionID) bool {
	p := h.p
	p.mu.Lock()
	defer p.mu.Unlock()
	s, ok := p.subs[id]
	if !ok || s.owner != h {
		return false
	}
	p.dropSub(s)
	return true
}

// dropSub ends s. Requires p.mu.
func (p *Pipe) dropSub(s *subscription) {
	delete(p.subs, s.id)
	s.removed.Store(1)
	if s.lane != nil {
		close(s.lane)
	}
}

// notice is one write's event and the inline targets still owed it.
type notice struct {
	ev     Event
	inline []*subscription
}

// collect stamps the next sequence number for an n-byte write, queues
// the event on every lane and snapshots the inline subscribers.
// Requires p.mu.
func (p *Pipe) collect(n int) notice {
	if n == 0 {
		return notice{}
	}
	p.seq++
	if len(p.subs) == 0 {
		return notice{}
	}
	nt := notice{ev: Event{Pipe: p.name, Seq: p.seq, Bytes: n}}
	for _, s := range p.subs {
		if s.lane == nil {
			nt.inline = append(nt.inline, s)
			continue
		}
		select {
		case s.lane <- nt.ev:
		default:
			p.drop(s, nt.ev)
		}
	}
	return nt
}

// deliver hands nt to the inline subscribers. Called without p.mu.
func (p *Pipe) deliver(nt notice) {
	for _, s := range nt.inline {
		if s.removed.Load() != 0 {
			continue
		}
		if !s.target.Deliver(nt.ev) {
			p.drop(s, nt.ev)
		}
	}
}

// pump feeds a lane to its target until the subscription ends.
func (p *Pipe) pump(s *subscription) {
	for ev := range s.lane {
		if s.removed.Load() != 0 {
			continue
		}
		if !s.target.Deliver(ev) {
			p.drop(s, ev)
		}
	}
}

func (p *Pipe) drop(s *subscription, ev Event) {
	p.dropped.Add(1)
	p.log.Debug("notification dropped", "subscription", s.id, "seq", ev.Seq)
}
