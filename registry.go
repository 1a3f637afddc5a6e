// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package pipe

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"go.uber.org/multierr"
)

// DeviceNamePrefix names registry pipes: scullpipe0, scullpipe1, ...
const DeviceNamePrefix = "scullpipe"

// Registry owns a fixed set of pipes addressed by index or name.
type Registry struct {
	cfg    Config
	pipes  []*Pipe
	byName map[string]*Pipe
	budget *Budget
}

// NewRegistry creates cfg.Devices idle pipes of cfg.BufferSize bytes.
// opts apply to every pipe; name, capacity and, when cfg.MemoryLimit is
// set, the allocator are fixed by the registry.
func NewRegistry(cfg Config, opts ...Option) (*Registry, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	r := &Registry{
		cfg:    cfg,
		pipes:  make([]*Pipe, 0, cfg.Devices),
		byName: make(map[string]*Pipe, cfg.Devices),
	}
	if cfg.MemoryLimit > 0 {
		r.budget = NewBudget(cfg.MemoryLimit)
	}
	for i := range cfg.Devices {
		name := fmt.Sprintf("%s%d", DeviceNamePrefix, i)
		popts := append([]Option{}, opts...)
		popts = append(popts, WithName(name), WithCapacity(cfg.BufferSize))
		if r.budget != nil {
			popts = append(popts, WithAllocator(r.budget))
		}
		p, err := New(popts...)
		if err != nil {
			return nil, fmt.Errorf("device %d: %w", i, err)
		}
		r.pipes = append(r.pipes, p)
		r.byName[name] = p
	}
	return r, nil
}

// Config returns the configuration the registry was built with.
func (r *Registry) Config() Config { return r.cfg }

// Len returns the number of devices.
func (r *Registry) Len() int { return len(r.pipes) }

// Device returns pipe i, or ErrNoDevice.
func (r *Registry) Device(i int) (*Pipe, error) {
	if i < 0 || i >= len(r.pipes) {
		return nil, fmt.Errorf("%w: index %d of %d", ErrNoDevice, i, len(r.pipes))
	}
	return r.pipes[i], nil
}

// Lookup returns the pipe with the given name, or ErrNoDevice.
func (r *Registry) Lookup(name string) (*Pipe, error) {
	p, ok := r.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNoDevice, name)
	}
	return p, nil
}

// Budget returns the shared allocator, nil without a memory limit.
func (r *Registry) Budget() *Budget { return r.budget }

// Stats returns a snapshot of every device in index order.
func (r *Registry) Stats() []Stats {
	out := make([]Stats, len(r.pipes))
	for i, p := range r.pipes {
		out[i] = p.Stats()
	}
	return out
}

// Dump writes a human-readable report of every device.
func (r *Registry) Dump(w io.Writer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "Default buffersize is %d\n", r.cfg.BufferSize)
	if r.budget != nil {
		fmt.Fprintf(bw, "Memory %d of %d bytes in use\n", r.budget.InUse(), r.budget.Limit())
	}
	for i, s := range r.Stats() {
		state := "idle"
		if s.Allocated {
			state = "allocated"
		}
		fmt.Fprintf(bw, "\nDevice %d: %s\n", i, s.Name)
		fmt.Fprintf(bw, "   Buffer: %d bytes (%s)\n", s.Capacity, state)
		fmt.Fprintf(bw, "   rp %d   wp %d   used %d   free %d\n", s.ReadPos, s.WritePos, s.Used, s.Free)
		fmt.Fprintf(bw, "   readers %d   writers %d   subscribers %d\n", s.Readers, s.Writers, s.Subscribers)
		fmt.Fprintf(bw, "   read %d   written %d   dropped %d\n", s.BytesRead, s.BytesWritten, s.DroppedEvents)
	}
	return bw.Flush()
}

// Close closes every handle still open on any device, waking blocked
// callers with ErrClosed. Devices opened again while Close runs are
// reported as ErrBusy, one error per device.
func (r *Registry) Close() error {
	var err error
	for _, p := range r.pipes {
		for _, h := range p.openHandles() {
			// ErrClosed means a concurrent Close won; nothing to do.
			if cerr := h.Close(); cerr != nil && !errors.Is(cerr, ErrClosed) {
				err = multierr.Append(err, fmt.Errorf("%s: %w", p.name, cerr))
			}
		}
		if rd, wr := p.Openers(); rd+wr > 0 {
			err = multierr.Append(err, fmt.Errorf("%s: %w: %d readers, %d writers", p.name, ErrBusy, rd, wr))
		}
	}
	return err
}
