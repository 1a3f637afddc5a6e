// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package pipe

import (
	"code.hybscloud.com/kont"
)

// identityResume is the resume function of every pipe effect frame.
func identityResume(v kont.Erased) kont.Erased { return v }

// bindUnwind applies the continuation stored in data to the value the
// effect resumed with.
func bindUnwind[T, B any](data, _, _ kont.Erased, current kont.Erased) (kont.Erased, kont.Frame) {
	f := data.(func(T) kont.Expr[B])
	next := f(current.(T))
	return kont.Erased(next.Value), next.Frame
}

// exprBind suspends on op and continues with f(result).
func exprBind[T, B any](op kont.Erased, f func(T) kont.Expr[B]) kont.Expr[B] {
	bf := kont.AcquireUnwindFrame()
	bf.Data1 = f
	bf.Unwind = bindUnwind[T, B]
	ef := kont.AcquireEffectFrame()
	ef.Operation = op
	ef.Resume = identityResume
	ef.Next = bf
	return kont.ExprSuspend[B](ef)
}

// ExprReadBind reads up to max bytes and passes them to f.
// Fuses ExprPerform(Read{Max: max}) + ExprBind.
func ExprReadBind[B any](max int, f func([]byte) kont.Expr[B]) kont.Expr[B] {
	return exprBind[[]byte](Read{Max: max}, f)
}

// ExprWriteBind writes data once and passes the accepted count to f.
// Fuses ExprPerform(Write{Data: data}) + ExprBind.
func ExprWriteBind[B any](data []byte, f func(int) kont.Expr[B]) kont.Expr[B] {
	return exprBind[int](Write{Data: data}, f)
}

// ExprPollBind waits for any of interest and passes the readiness to f.
// Fuses ExprPerform(Poll{Interest: interest}) + ExprBind.
func ExprPollBind[B any](interest Interest, f func(Readiness) kont.Expr[B]) kont.Expr[B] {
	return exprBind[Readiness](Poll{Interest: interest}, f)
}

// ExprReadFullBind reads exactly n bytes and passes them to f.
func ExprReadFullBind[B any](n int, f func([]byte) kont.Expr[B]) kont.Expr[B] {
	return exprReadFull(make([]byte, 0, n), n, f)
}

func exprReadFull[B any](acc []byte, n int, f func([]byte) kont.Expr[B]) kont.Expr[B] {
	if len(acc) >= n {
		return f(acc)
	}
	return ExprReadBind(n-len(acc), func(b []byte) kont.Expr[B] {
		return exprReadFull(append(acc, b...), n, f)
	})
}

// ExprWriteAllThen writes all of data and then continues with next.
func ExprWriteAllThen[B any](data []byte, next kont.Expr[B]) kont.Expr[B] {
	if len(data) == 0 {
		return next
	}
	return ExprWriteBind(data, func(n int) kont.Expr[B] {
		return ExprWriteAllThen(data[n:], next)
	})
}
