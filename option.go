// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package pipe

import (
	"log/slog"

	"github.com/benbjohnson/clock"
)

// DefaultBufferSize is the ring capacity used when none is configured.
const DefaultBufferSize = 4000

// Option customizes a Pipe created by New.
type Option func(*options)

type options struct {
	capacity int
	name     string
	alloc    Allocator
	clock    clock.Clock
	logger   *slog.Logger
}

func defaultOptions() options {
	return options{
		capacity: DefaultBufferSize,
		alloc:    HeapAllocator{},
		clock:    clock.New(),
	}
}

// WithCapacity sets the ring capacity C in bytes. At most C-1 bytes are
// ever buffered. C must be at least 2.
func WithCapacity(c int) Option {
	return func(o *options) { o.capacity = c }
}

// WithName sets the name reported in events, stats and logs.
func WithName(name string) Option {
	return func(o *options) { o.name = name }
}

// WithAllocator sets the source of ring storage.
func WithAllocator(a Allocator) Option {
	return func(o *options) { o.alloc = a }
}

// WithClock sets the clock used for stats timestamps.
func WithClock(c clock.Clock) Option {
	return func(o *options) { o.clock = c }
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}
