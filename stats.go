// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package pipe

import "time"

// Stats is a point-in-time snapshot of a Pipe.
type Stats struct {
	Name        string
	Capacity    int
	Allocated   bool // ring storage currently held
	Used        int
	Free        int
	ReadPos     int
	WritePos    int
	Readers     int
	Writers     int
	Subscribers int

	BytesRead     uint64
	BytesWritten  uint64
	DroppedEvents uint64
	LastRead      time.Time // zero until the first read
	LastWrite     time.Time // zero until the first write
}

// Stats returns a consistent snapshot taken under the pipe lock.
func (p *Pipe) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return Stats{
		Name:          p.name,
		Capacity:      p.capacity,
		Allocated:     p.rb.buf != nil,
		Used:          p.rb.used(),
		Free:          p.rb.free(),
		ReadPos:       p.rb.rp,
		WritePos:      p.rb.wp,
		Readers:       p.nreaders,
		Writers:       p.nwriters,
		Subscribers:   len(p.subs),
		BytesRead:     p.nread,
		BytesWritten:  p.nwritten,
		DroppedEvents: p.dropped.Load(),
		LastRead:      p.lastRead,
		LastWrite:     p.lastWrite,
	}
}
