// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package pipe

import (
	"context"
	"sync"
)

// waitCond is a condition variable whose waits can be abandoned.
// Each broadcast closes the current generation channel and installs a
// new one, so a waiter that captured the old channel under the lock
// cannot miss a wakeup issued after it unlocks.
// All methods require the owning Pipe lock.
type waitCond struct {
	ch chan struct{}
}

func newWaitCond() waitCond {
	return waitCond{ch: make(chan struct{})}
}

// broadcast wakes every current waiter.
func (c *waitCond) broadcast() {
	close(c.ch)
	c.ch = make(chan struct{})
}

// changed returns the channel closed by the next broadcast.
func (c *waitCond) changed() <-chan struct{} {
	return c.ch
}

// wait releases mu, sleeps until broadcast, abort or ctx is done, and
// reacquires mu. The caller re-checks its predicate after every return.
func (c *waitCond) wait(ctx context.Context, mu *sync.Mutex, abort <-chan struct{}) error {
	ch := c.ch
	mu.Unlock()
	var err error
	select {
	case <-ch:
	case <-abort:
	case <-ctx.Done():
		err = context.Cause(ctx)
	}
	mu.Lock()
	return err
}
