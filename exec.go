// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package pipe

import (
	"context"

	"code.hybscloud.com/kont"
)

// pipeHandler implements kont.Handler for pipe effects.
// Each operation takes the blocking path, so a failed operation is a
// real error and short-circuits the protocol as Left.
// Value type: passed to evalFrames on the stack, avoiding heap allocation.
type pipeHandler[R any] struct {
	ctx context.Context
	h   *Handle
}

// Dispatch implements kont.Handler via structural interface assertion.
func (ph pipeHandler[R]) Dispatch(op kont.Operation) (kont.Resumed, bool) {
	pop, ok := op.(pipeOperation)
	if !ok {
		panic("pipe: unhandled effect in pipeHandler")
	}
	v, err := pop.ExecPipe(ph.ctx, ph.h)
	if err != nil {
		return kont.Left[error, R](err), false
	}
	return v, true
}

// Exec runs a Cont-world pipe protocol on h, waiting on the pipe's
// conditions whenever an operation cannot make progress. The first
// failing operation ends the protocol and its error is returned.
func Exec[R any](ctx context.Context, h *Handle, protocol kont.Eff[R]) (R, error) {
	wrapped := kont.Map[kont.Resumed, R, kont.Either[error, R]](protocol, func(r R) kont.Either[error, R] {
		return kont.Right[error, R](r)
	})
	return unwrap(kont.Handle(wrapped, pipeHandler[R]{ctx: ctx, h: h}))
}

// ExecExpr runs an Expr-world pipe protocol on h. See Exec.
func ExecExpr[R any](ctx context.Context, h *Handle, protocol kont.Expr[R]) (R, error) {
	wrapped := kont.ExprMap(protocol, func(r R) kont.Either[error, R] {
		return kont.Right[error, R](r)
	})
	return unwrap(kont.HandleExpr(wrapped, pipeHandler[R]{ctx: ctx, h: h}))
}

func unwrap[R any](e kont.Either[error, R]) (R, error) {
	if err, ok := e.GetLeft(); ok {
		var zero R
		return zero, err
	}
	r, _ := e.GetRight()
	return r, nil
}
