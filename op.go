// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package pipe

import (
	"context"
	"fmt"

	"code.hybscloud.com/kont"
)

// pipeOperation is the structural interface for pipe effects.
// DispatchPipe is non-blocking: it returns ErrWouldBlock when the handle
// cannot make progress now. ExecPipe waits on the pipe's conditions.
type pipeOperation interface {
	DispatchPipe(h *Handle) (kont.Resumed, error)
	ExecPipe(ctx context.Context, h *Handle) (kont.Resumed, error)
}

// nonBlocking and blocking are pre-allocated overrides for the handle's
// own blocking flag, avoiding a per-dispatch heap escape.
var (
	nonBlocking = false
	blocking    = true
)

// Read is the effect operation for reading up to Max bytes.
// Perform(Read{Max: n}) resumes with the bytes read, never empty.
// Unlike Handle.Read with an empty buffer, which returns (0, nil),
// Max <= 0 fails with ErrInvalidArgument: the operation could only
// resume with nothing, and a protocol looping on it would never advance.
type Read struct {
	kont.Phantom[[]byte]
	Max int
}

// DispatchPipe handles Read without waiting.
func (r Read) DispatchPipe(h *Handle) (kont.Resumed, error) {
	return r.do(context.Background(), h, &nonBlocking)
}

// ExecPipe handles Read, waiting for data.
func (r Read) ExecPipe(ctx context.Context, h *Handle) (kont.Resumed, error) {
	return r.do(ctx, h, &blocking)
}

func (r Read) do(ctx context.Context, h *Handle, block *bool) (kont.Resumed, error) {
	if r.Max <= 0 {
		return nil, fmt.Errorf("%w: read max %d", ErrInvalidArgument, r.Max)
	}
	if !h.mode.canRead() {
		return nil, ErrBadMode
	}
	buf := make([]byte, r.Max)
	n, err := h.read(ctx, buf, block)
	if err != nil {
		return nil, err
	}
	return buf[:n], nil
}

// Write is the effect operation for writing Data.
// Perform(Write{Data: b}) resumes with the count accepted, which may be
// less than len(b).
type Write struct {
	kont.Phantom[int]
	Data []byte
}

// DispatchPipe handles Write without waiting.
func (w Write) DispatchPipe(h *Handle) (kont.Resumed, error) {
	return w.do(context.Background(), h, &nonBlocking)
}

// ExecPipe handles Write, waiting for space.
func (w Write) ExecPipe(ctx context.Context, h *Handle) (kont.Resumed, error) {
	return w.do(ctx, h, &blocking)
}

func (w Write) do(ctx context.Context, h *Handle, block *bool) (kont.Resumed, error) {
	if !h.mode.canWrite() {
		return nil, ErrBadMode
	}
	if len(w.Data) == 0 {
		return 0, nil
	}
	n, err := h.write(ctx, w.Data, block)
	if err != nil {
		return nil, err
	}
	return n, nil
}

// Poll is the effect operation for a readiness check.
// Perform(Poll{Interest: i}) resumes with a Readiness in which at least
// one requested condition holds.
type Poll struct {
	kont.Phantom[Readiness]
	Interest Interest
}

// DispatchPipe handles Poll without waiting: ErrWouldBlock when nothing
// requested is ready.
func (q Poll) DispatchPipe(h *Handle) (kont.Resumed, error) {
	r, err := h.Poll(q.Interest)
	if err != nil {
		return nil, err
	}
	if !r.Ready() {
		return nil, ErrWouldBlock
	}
	return r, nil
}

// ExecPipe handles Poll, waiting until something requested is ready.
func (q Poll) ExecPipe(ctx context.Context, h *Handle) (kont.Resumed, error) {
	r, err := h.WaitReady(ctx, q.Interest)
	if err != nil {
		return nil, err
	}
	return r, nil
}
