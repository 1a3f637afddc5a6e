// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package pipe

import (
	"code.hybscloud.com/iox"
	"code.hybscloud.com/kont"
)

// Run drives protocol a on ha and protocol b on hb to completion,
// interleaving both on the calling goroutine. When neither side can make
// progress it waits with adaptive backoff (iox.Backoff). Does not spawn
// goroutines.
//
// The first error other than ErrWouldBlock aborts both protocols and is
// returned. A pair that can never progress (two readers on an empty
// pipe) spins forever, as with any non-blocking event loop.
func Run[A, B any](ha *Handle, a kont.Expr[A], hb *Handle, b kont.Expr[B]) (A, B, error) {
	resultA, suspA := Step[A](a)
	resultB, suspB := Step[B](b)
	var bo iox.Backoff

	for suspA != nil || suspB != nil {
		progress := false
		if suspA != nil {
			var err error
			resultA, suspA, err = Advance(ha, suspA)
			if err == nil {
				progress = true
			} else if !IsWouldBlock(err) {
				return abort[A, B](suspA, suspB, err)
			}
		}
		if suspB != nil {
			var err error
			resultB, suspB, err = Advance(hb, suspB)
			if err == nil {
				progress = true
			} else if !IsWouldBlock(err) {
				return abort[A, B](suspA, suspB, err)
			}
		}
		if !progress {
			bo.Wait()
		} else {
			bo.Reset()
		}
	}
	return resultA, resultB, nil
}

func abort[A, B any](suspA *kont.Suspension[A], suspB *kont.Suspension[B], err error) (A, B, error) {
	if suspA != nil {
		suspA.Discard()
	}
	if suspB != nil {
		suspB.Discard()
	}
	var zeroA A
	var zeroB B
	return zeroA, zeroB, err
}
