// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package pipe

import (
	"fmt"
	"strconv"
)

// Environment variables read by Config.ApplyEnv.
const (
	EnvDevices     = "PIPE_DEVICES"
	EnvBufferSize  = "PIPE_BUFFER"
	EnvMemoryLimit = "PIPE_MEMORY_LIMIT"
)

// DefaultDevices is the number of pipes a Registry creates by default.
const DefaultDevices = 4

// Config describes a Registry.
type Config struct {
	// Devices is the number of pipes, addressed 0..Devices-1.
	Devices int
	// BufferSize is each pipe's ring capacity in bytes.
	BufferSize int
	// MemoryLimit caps the ring storage held by all pipes together.
	// Zero means unlimited.
	MemoryLimit int
}

// DefaultConfig returns four pipes of DefaultBufferSize bytes with no
// memory limit.
func DefaultConfig() Config {
	return Config{
		Devices:    DefaultDevices,
		BufferSize: DefaultBufferSize,
	}
}

// ApplyEnv overrides fields from the environment. lookup has the
// signature of os.LookupEnv. Unset variables leave fields unchanged;
// malformed values are errors.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	for _, v := range []struct {
		key string
		dst *int
	}{
		{EnvDevices, &c.Devices},
		{EnvBufferSize, &c.BufferSize},
		{EnvMemoryLimit, &c.MemoryLimit},
	} {
		s, ok := lookup(v.key)
		if !ok || s == "" {
			continue
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("%w: %s=%q", ErrInvalidArgument, v.key, s)
		}
		*v.dst = n
	}
	return nil
}

// Validate reports the first invalid field.
func (c Config) Validate() error {
	switch {
	case c.Devices < 1:
		return fmt.Errorf("%w: devices %d < 1", ErrInvalidArgument, c.Devices)
	case c.BufferSize < 2:
		return fmt.Errorf("%w: buffer size %d < 2", ErrInvalidArgument, c.BufferSize)
	case c.MemoryLimit < 0:
		return fmt.Errorf("%w: negative memory limit", ErrInvalidArgument)
	}
	return nil
}
