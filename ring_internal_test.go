// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package pipe

import (
	"bytes"
	"testing"
	"testing/quick"
)

func newRing(c int) *ring {
	r := &ring{}
	r.attach(make([]byte, c))
	return r
}

func TestRingEmptyFull(t *testing.T) {
	r := newRing(8)
	if r.used() != 0 || r.free() != 7 {
		t.Fatalf("fresh ring used=%d free=%d, want 0/7", r.used(), r.free())
	}
	if n := r.put([]byte("ABCDEFGHIJ")); n != 7 {
		t.Fatalf("put got %d, want 7", n)
	}
	if r.used() != 7 || r.free() != 0 {
		t.Fatalf("full ring used=%d free=%d, want 7/0", r.used(), r.free())
	}
	if r.rp == r.wp {
		t.Fatal("full ring has equal cursors")
	}
	if n := r.put([]byte("X")); n != 0 {
		t.Fatalf("put on full ring got %d, want 0", n)
	}
}

func TestRingWrapAround(t *testing.T) {
	r := newRing(8)
	r.put([]byte("ABCDEFG"))
	buf := make([]byte, 3)
	if n := r.get(buf); n != 3 || string(buf) != "ABC" {
		t.Fatalf("get got %q (%d), want ABC", buf[:n], n)
	}
	// wp is 7; three bytes must split across the end of storage.
	if n := r.put([]byte("HIJ")); n != 3 {
		t.Fatalf("wrapping put got %d, want 3", n)
	}
	if r.wp != 2 {
		t.Fatalf("wp got %d, want 2", r.wp)
	}
	out := make([]byte, 16)
	n := r.get(out)
	if string(out[:n]) != "DEFGHIJ" {
		t.Fatalf("wrapping get got %q, want DEFGHIJ", out[:n])
	}
	if r.used() != 0 || r.rp != r.wp {
		t.Fatalf("drained ring used=%d rp=%d wp=%d", r.used(), r.rp, r.wp)
	}
}

func TestRingCursorAtEnd(t *testing.T) {
	r := newRing(4)
	r.put([]byte("abc"))
	r.get(make([]byte, 3))
	if r.rp != 3 || r.wp != 3 {
		t.Fatalf("cursors rp=%d wp=%d, want 3/3", r.rp, r.wp)
	}
	if n := r.put([]byte("d")); n != 1 || r.wp != 0 {
		t.Fatalf("put at end got n=%d wp=%d, want 1/0", n, r.wp)
	}
	b := make([]byte, 1)
	if n := r.get(b); n != 1 || b[0] != 'd' || r.rp != 0 {
		t.Fatalf("get at end got n=%d b=%q rp=%d", n, b, r.rp)
	}
}

func TestRingDetach(t *testing.T) {
	r := newRing(8)
	r.put([]byte("abc"))
	buf := r.detach()
	if len(buf) != 8 {
		t.Fatalf("detach returned %d bytes, want 8", len(buf))
	}
	if r.size() != 0 || r.used() != 0 || r.free() != 0 {
		t.Fatalf("detached ring size=%d used=%d free=%d", r.size(), r.used(), r.free())
	}
	r.attach(buf)
	if r.used() != 0 || r.free() != 7 {
		t.Fatalf("reattached ring used=%d free=%d, want 0/7", r.used(), r.free())
	}
}

// TestPropertyRingModel checks the ring against a plain slice queue for
// arbitrary interleavings of short puts and gets.
func TestPropertyRingModel(t *testing.T) {
	const c = 8
	property := func(ops []uint8) bool {
		r := newRing(c)
		var model []byte
		var next byte
		for _, op := range ops {
			k := int(op>>1)%c + 1
			if op&1 == 0 {
				p := make([]byte, k)
				for i := range p {
					p[i] = next
					next++
				}
				n := r.put(p)
				if n != min(k, c-1-len(model)) {
					return false
				}
				model = append(model, p[:n]...)
				next -= byte(k - n)
			} else {
				b := make([]byte, k)
				n := r.get(b)
				if n != min(k, len(model)) || !bytes.Equal(b[:n], model[:n]) {
					return false
				}
				model = model[n:]
			}
			if r.used() != len(model) || r.used()+r.free() != c-1 {
				return false
			}
		}
		return true
	}
	if err := quick.Check(property, nil); err != nil {
		t.Fatal(err)
	}
}
