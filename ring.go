// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package pipe

// ring is the byte storage behind a Pipe.
// Cursors are offsets into buf. One slot is never filled, so rp == wp
// always means empty and the usable capacity is len(buf)-1.
// ring has no locking of its own; the owning Pipe serializes access.
type ring struct {
	buf []byte
	rp  int
	wp  int
}

// size returns the physical capacity C, zero when storage is absent.
func (r *ring) size() int { return len(r.buf) }

// used returns the occupied byte count, (wp - rp) mod C.
func (r *ring) used() int {
	if r.wp >= r.rp {
		return r.wp - r.rp
	}
	return len(r.buf) - r.rp + r.wp
}

// free returns the writable byte count, (rp - wp - 1) mod C.
func (r *ring) free() int {
	if len(r.buf) == 0 {
		return 0
	}
	if r.rp == r.wp {
		return len(r.buf) - 1
	}
	return (r.rp+len(r.buf)-r.wp)%len(r.buf) - 1
}

// writeSpan returns the contiguous run at wp the caller may fill,
// capped at min(n, free()) and at the physical end of buf.
func (r *ring) writeSpan(n int) []byte {
	n = min(n, r.free())
	if end := len(r.buf) - r.wp; n > end {
		n = end
	}
	return r.buf[r.wp : r.wp+n]
}

// readSpan returns the contiguous run at rp the caller may consume,
// capped at min(n, used()) and at the physical end of buf.
func (r *ring) readSpan(n int) []byte {
	n = min(n, r.used())
	if end := len(r.buf) - r.rp; n > end {
		n = end
	}
	return r.buf[r.rp : r.rp+n]
}

func (r *ring) advanceWrite(n int) {
	r.wp += n
	if r.wp == len(r.buf) {
		r.wp = 0
	}
}

func (r *ring) advanceRead(n int) {
	r.rp += n
	if r.rp == len(r.buf) {
		r.rp = 0
	}
}

// put copies as much of p as fits, wrapping at most once.
func (r *ring) put(p []byte) int {
	n := 0
	for n < len(p) {
		span := r.writeSpan(len(p) - n)
		if len(span) == 0 {
			break
		}
		copy(span, p[n:])
		r.advanceWrite(len(span))
		n += len(span)
	}
	return n
}

// get fills p with as many buffered bytes as are available, wrapping at
// most once.
func (r *ring) get(p []byte) int {
	n := 0
	for n < len(p) {
		span := r.readSpan(len(p) - n)
		if len(span) == 0 {
			break
		}
		copy(p[n:], span)
		r.advanceRead(len(span))
		n += len(span)
	}
	return n
}

// attach installs fresh storage and resets both cursors.
func (r *ring) attach(buf []byte) {
	r.buf = buf
	r.rp, r.wp = 0, 0
}

// detach drops the storage and returns it to the caller.
func (r *ring) detach() []byte {
	buf := r.buf
	r.buf = nil
	r.rp, r.wp = 0, 0
	return buf
}
