// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package pipe

import (
	"code.hybscloud.com/kont"
)

// Loop runs a Cont-world pipe protocol that repeats Read, Write or Poll
// effects until a byte goal is met. The state is what remains of the
// goal: the unwritten tail for WriteAllThen, the bytes gathered so far
// for ReadFullBind. step returns Left(state) after a short transfer and
// Right(result) once the goal is reached.
func Loop[S, A any](initial S, step func(S) kont.Eff[kont.Either[S, A]]) kont.Eff[A] {
	return kont.Bind(step(initial), func(e kont.Either[S, A]) kont.Eff[A] {
		if next, ok := e.GetLeft(); ok {
			return Loop(next, step)
		}
		done, _ := e.GetRight()
		return kont.Pure(done)
	})
}

// ExprLoop runs an Expr-world pipe protocol that repeats transfers until
// a byte goal is met, for use with Step, Advance and Run. Rounds that
// finish without touching the pipe are taken in place; a round that
// suspends on a pipe effect has the remaining rounds chained behind it,
// so each Advance moves the loop by at most one transfer.
func ExprLoop[S, A any](initial S, step func(S) kont.Expr[kont.Either[S, A]]) kont.Expr[A] {
	for {
		m := step(initial)
		if _, pure := m.Frame.(kont.ReturnFrame); !pure {
			return exprLoopResume(m, step)
		}
		next, ok := m.Value.GetLeft()
		if !ok {
			done, _ := m.Value.GetRight()
			return kont.ExprReturn(done)
		}
		initial = next
	}
}

func exprLoopResume[S, A any](m kont.Expr[kont.Either[S, A]], step func(S) kont.Expr[kont.Either[S, A]]) kont.Expr[A] {
	bf := kont.AcquireBindFrame()
	bf.F = func(v kont.Erased) kont.Expr[kont.Erased] {
		e := v.(kont.Either[S, A])
		if next, ok := e.GetLeft(); ok {
			rest := ExprLoop(next, step)
			return kont.Expr[kont.Erased]{Value: kont.Erased(rest.Value), Frame: rest.Frame}
		}
		done, _ := e.GetRight()
		return kont.Expr[kont.Erased]{Value: kont.Erased(done), Frame: kont.ReturnFrame{}}
	}
	bf.Next = kont.ReturnFrame{}
	var zero A
	return kont.Expr[A]{Value: zero, Frame: kont.ChainFrames(m.Frame, bf)}
}
