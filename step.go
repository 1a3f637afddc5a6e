// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package pipe

import (
	"code.hybscloud.com/kont"
)

// Step evaluates a pipe protocol until the first effect suspension.
// Returns (result, nil) on completion, or (zero, suspension) if pending.
func Step[R any](protocol kont.Expr[R]) (R, *kont.Suspension[R]) {
	return kont.StepExpr(protocol)
}

// Advance dispatches the suspended pipe operation on h without waiting.
//
// On success (nil error), the suspension is consumed and the protocol
// advances to the next effect or completion.
// On ErrWouldBlock, the suspension is unconsumed and may be retried once
// Poll reports the handle ready. Any other error also leaves the
// suspension unconsumed; the caller decides whether to Discard it.
func Advance[R any](h *Handle, susp *kont.Suspension[R]) (R, *kont.Suspension[R], error) {
	pop, ok := susp.Op().(pipeOperation)
	if !ok {
		panic("pipe: unhandled effect in Advance")
	}
	v, err := pop.DispatchPipe(h)
	if err != nil {
		var zero R
		return zero, susp, err
	}
	result, next := susp.Resume(v)
	return result, next, nil
}
