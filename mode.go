// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package pipe

// Mode is the access mode requested by Open.
type Mode uint8

const (
	ModeRead      Mode = 1 << iota // counts as a reader
	ModeWrite                      // counts as a writer
	ModeReadWrite = ModeRead | ModeWrite
)

func (m Mode) valid() bool { return m != 0 && m&^ModeReadWrite == 0 }

func (m Mode) canRead() bool { return m&ModeRead != 0 }

func (m Mode) canWrite() bool { return m&ModeWrite != 0 }

func (m Mode) String() string {
	switch m {
	case ModeRead:
		return "r"
	case ModeWrite:
		return "w"
	case ModeReadWrite:
		return "rw"
	}
	return "invalid"
}

// Interest selects which readiness conditions Poll reports.
type Interest uint8

const (
	PollIn  Interest = 1 << iota // data available to read
	PollOut                      // space available to write
	PollAll = PollIn | PollOut
)

func (i Interest) valid() bool { return i != 0 && i&^PollAll == 0 }
