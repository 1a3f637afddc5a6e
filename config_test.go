// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package pipe_test

import (
	"os"
	"testing"

	"code.hybscloud.com/pipe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lookupMap(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := pipe.DefaultConfig()
	assert.Equal(t, 4, cfg.Devices)
	assert.Equal(t, 4000, cfg.BufferSize)
	assert.Zero(t, cfg.MemoryLimit)
	assert.NoError(t, cfg.Validate())
}

func TestConfigApplyEnv(t *testing.T) {
	cfg := pipe.DefaultConfig()
	err := cfg.ApplyEnv(lookupMap(map[string]string{
		pipe.EnvDevices:     "2",
		pipe.EnvBufferSize:  "128",
		pipe.EnvMemoryLimit: "",
	}))
	require.NoError(t, err)
	assert.Equal(t, pipe.Config{Devices: 2, BufferSize: 128}, cfg)
}

func TestConfigApplyEnvMalformed(t *testing.T) {
	cfg := pipe.DefaultConfig()
	err := cfg.ApplyEnv(lookupMap(map[string]string{pipe.EnvBufferSize: "big"}))
	assert.ErrorIs(t, err, pipe.ErrInvalidArgument)
	assert.Contains(t, err.Error(), pipe.EnvBufferSize)
}

func TestConfigFromProcessEnv(t *testing.T) {
	t.Setenv(pipe.EnvMemoryLimit, "8000")
	cfg := pipe.DefaultConfig()
	require.NoError(t, cfg.ApplyEnv(os.LookupEnv))
	assert.Equal(t, 8000, cfg.MemoryLimit)
}
