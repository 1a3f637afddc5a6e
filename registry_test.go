// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package pipe_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"code.hybscloud.com/pipe"
	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryDevices(t *testing.T) {
	reg, err := pipe.NewRegistry(pipe.DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, pipe.DefaultDevices, reg.Len())
	assert.Nil(t, reg.Budget())

	for i := range reg.Len() {
		p, err := reg.Device(i)
		require.NoError(t, err)
		assert.Equal(t, pipe.DefaultBufferSize, p.Capacity())

		byName, err := reg.Lookup(p.Name())
		require.NoError(t, err)
		assert.Same(t, p, byName)
	}
	first, _ := reg.Device(0)
	assert.Equal(t, "scullpipe0", first.Name())

	_, err = reg.Device(pipe.DefaultDevices)
	assert.ErrorIs(t, err, pipe.ErrNoDevice)
	_, err = reg.Device(-1)
	assert.ErrorIs(t, err, pipe.ErrNoDevice)
	_, err = reg.Lookup("nope")
	assert.ErrorIs(t, err, pipe.ErrNoDevice)
}

func TestRegistryInvalidConfig(t *testing.T) {
	for _, cfg := range []pipe.Config{
		{Devices: 0, BufferSize: 8},
		{Devices: 1, BufferSize: 1},
		{Devices: 1, BufferSize: 8, MemoryLimit: -1},
	} {
		_, err := pipe.NewRegistry(cfg)
		assert.ErrorIs(t, err, pipe.ErrInvalidArgument, "config %+v", cfg)
	}
}

func TestRegistryMemoryLimit(t *testing.T) {
	reg, err := pipe.NewRegistry(pipe.Config{Devices: 3, BufferSize: 100, MemoryLimit: 250})
	require.NoError(t, err)
	require.NotNil(t, reg.Budget())

	var hs []*pipe.Handle
	for i := range 2 {
		p, _ := reg.Device(i)
		h, err := p.Open(pipe.ModeRead, false)
		require.NoError(t, err)
		hs = append(hs, h)
	}
	assert.Equal(t, 200, reg.Budget().InUse())

	third, _ := reg.Device(2)
	_, err = third.Open(pipe.ModeWrite, false)
	assert.ErrorIs(t, err, pipe.ErrOutOfMemory)

	require.NoError(t, hs[0].Close())
	h, err := third.Open(pipe.ModeWrite, false)
	require.NoError(t, err)
	require.NoError(t, h.Close())
	require.NoError(t, reg.Close())
	assert.Zero(t, reg.Budget().InUse())
}

func TestRegistryCloseWakesWaiters(t *testing.T) {
	reg, err := pipe.NewRegistry(pipe.Config{Devices: 2, BufferSize: 8})
	require.NoError(t, err)
	p, _ := reg.Device(1)
	r, err := p.Open(pipe.ModeRead, true)
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		_, err := r.ReadContext(context.Background(), make([]byte, 1))
		done <- err
	}()
	time.Sleep(10 * time.Millisecond)
	require.NoError(t, reg.Close())

	select {
	case err := <-done:
		assert.ErrorIs(t, err, pipe.ErrClosed)
	case <-time.After(5 * time.Second):
		t.Fatal("Registry.Close did not wake reader")
	}
	for _, s := range reg.Stats() {
		assert.False(t, s.Allocated, s.Name)
		assert.Zero(t, s.Readers+s.Writers, s.Name)
	}
}

func TestRegistryDump(t *testing.T) {
	reg, err := pipe.NewRegistry(pipe.Config{Devices: 2, BufferSize: 16, MemoryLimit: 64})
	require.NoError(t, err)
	p, _ := reg.Lookup("scullpipe1")
	h, err := p.Open(pipe.ModeReadWrite, false)
	require.NoError(t, err)
	_, err = h.Write([]byte("hello"))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, reg.Dump(&buf))
	out := buf.String()
	assert.Contains(t, out, "Default buffersize is 16\n")
	assert.Contains(t, out, "Memory 16 of 64 bytes in use\n")
	assert.Contains(t, out, "Device 0: scullpipe0\n   Buffer: 16 bytes (idle)\n")
	assert.Contains(t, out, "Device 1: scullpipe1\n   Buffer: 16 bytes (allocated)\n")
	assert.Contains(t, out, "rp 0   wp 5   used 5   free 10\n")
	assert.Contains(t, out, "readers 1   writers 1   subscribers 0\n")
	require.NoError(t, reg.Close())
}

func TestRegistryLogger(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	reg, err := pipe.NewRegistry(pipe.Config{Devices: 1, BufferSize: 8, MemoryLimit: 4}, pipe.WithLogger(logger))
	require.NoError(t, err)
	p, _ := reg.Device(0)
	_, err = p.Open(pipe.ModeRead, false)
	require.ErrorIs(t, err, pipe.ErrOutOfMemory)
	assert.Contains(t, logs.String(), "ring allocation failed")
	assert.Contains(t, logs.String(), "pipe=scullpipe0")
}

func TestStatsTimestamps(t *testing.T) {
	mock := clock.NewMock()
	start := mock.Now()
	p, err := pipe.New(pipe.WithCapacity(8), pipe.WithClock(mock))
	require.NoError(t, err)
	h, err := p.Open(pipe.ModeReadWrite, false)
	require.NoError(t, err)

	s := p.Stats()
	assert.True(t, s.LastWrite.IsZero())
	assert.True(t, s.LastRead.IsZero())

	mock.Add(time.Minute)
	_, err = h.Write([]byte("abc"))
	require.NoError(t, err)
	mock.Add(time.Second)
	_, err = h.Read(make([]byte, 2))
	require.NoError(t, err)

	s = p.Stats()
	assert.Equal(t, start.Add(time.Minute), s.LastWrite)
	assert.Equal(t, start.Add(time.Minute+time.Second), s.LastRead)
	assert.Equal(t, uint64(3), s.BytesWritten)
	assert.Equal(t, uint64(2), s.BytesRead)
	assert.Equal(t, 1, s.Used)
	assert.Equal(t, 6, s.Free)
	assert.Equal(t, 2, s.ReadPos)
	assert.Equal(t, 3, s.WritePos)
	assert.True(t, s.Allocated)
}
