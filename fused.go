// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package pipe

import (
	"code.hybscloud.com/kont"
)

// ReadBind reads up to max bytes and passes them to f.
// Fuses Perform(Read{Max: max}) + Bind.
func ReadBind[B any](max int, f func([]byte) kont.Eff[B]) kont.Eff[B] {
	return kont.Bind(kont.Perform(Read{Max: max}), f)
}

// ReadFullBind reads exactly n bytes, across as many short reads as it
// takes, and passes them to f.
func ReadFullBind[B any](n int, f func([]byte) kont.Eff[B]) kont.Eff[B] {
	full := Loop(make([]byte, 0, n), func(acc []byte) kont.Eff[kont.Either[[]byte, []byte]] {
		if len(acc) >= n {
			return kont.Pure(kont.Right[[]byte, []byte](acc))
		}
		return ReadBind(n-len(acc), func(b []byte) kont.Eff[kont.Either[[]byte, []byte]] {
			return kont.Pure(kont.Left[[]byte, []byte](append(acc, b...)))
		})
	})
	return kont.Bind(full, f)
}

// WriteBind writes data once and passes the accepted count to f.
// Fuses Perform(Write{Data: data}) + Bind.
func WriteBind[B any](data []byte, f func(int) kont.Eff[B]) kont.Eff[B] {
	return kont.Bind(kont.Perform(Write{Data: data}), f)
}

// WriteAllThen writes all of data, across as many short writes as it
// takes, and then continues with next.
func WriteAllThen[B any](data []byte, next kont.Eff[B]) kont.Eff[B] {
	all := Loop(data, func(rest []byte) kont.Eff[kont.Either[[]byte, struct{}]] {
		if len(rest) == 0 {
			return kont.Pure(kont.Right[[]byte, struct{}](struct{}{}))
		}
		return WriteBind(rest, func(n int) kont.Eff[kont.Either[[]byte, struct{}]] {
			return kont.Pure(kont.Left[[]byte, struct{}](rest[n:]))
		})
	})
	return kont.Then(all, next)
}

// PollBind waits for any of interest and passes the readiness to f.
// Fuses Perform(Poll{Interest: interest}) + Bind.
func PollBind[B any](interest Interest, f func(Readiness) kont.Eff[B]) kont.Eff[B] {
	return kont.Bind(kont.Perform(Poll{Interest: interest}), f)
}
