/*
 Licensed under the Apache License, Version 2.0 (the "License");
 you may not use this file except in compliance with the License.
 You may obtain a copy of the License at

     https://www.apache.org/licenses/LICENSE-2.0

 Unless required by applicable law or agreed to in writing, software
 distributed under the License is distributed on an "AS IS" BASIS,
 WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 See the License for the specific language governing permissions and
 limitations under the License.
*/

package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadWithoutFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFile)
	cfg := NewConfig(path)
	require.NoError(t, cfg.Load())

	assert.Equal(t, NewConfig(path), cfg)
	assert.Equal(t, DefaultReceiveTimeout, cfg.Acquire.ReceiveTimeout)
	assert.Equal(t, filepath.Join(filepath.Dir(path), StoreFile), cfg.Store.Path)
}

func TestPersistAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", ConfigFile)
	cfg := NewConfig(path)
	cfg.LogLevel = "debug"
	cfg.Acquire.ReceiveTimeout = 500 * time.Millisecond
	cfg.Acquire.Format = "npy"
	cfg.Api.Port = 9000
	require.NoError(t, cfg.Persist(false))

	err := cfg.Persist(false)
	var exists ErrConfigFileExists
	require.True(t, errors.As(err, &exists))
	assert.Equal(t, path, exists.Path)
	require.NoError(t, cfg.Persist(true))

	loaded := NewConfig(path)
	require.NoError(t, loaded.Load())
	assert.Equal(t, "debug", loaded.LogLevel)
	assert.Equal(t, 500*time.Millisecond, loaded.Acquire.ReceiveTimeout)
	assert.Equal(t, "npy", loaded.Acquire.Format)
	assert.Equal(t, 9000, loaded.Api.Port)
	assert.Equal(t, DefaultMemOffset, int(loaded.Mem.Offset))
}

func TestLoadPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFile)
	require.NoError(t, os.WriteFile(path, []byte("acquire:\n  format: npy\n"), 0644))

	cfg := NewConfig(path)
	require.NoError(t, cfg.Load())
	assert.Equal(t, "npy", cfg.Acquire.Format)
	assert.Equal(t, DefaultReceiveTimeout, cfg.Acquire.ReceiveTimeout)
	assert.Equal(t, DefaultApiPort, cfg.Api.Port)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("GODAQ_ACQUIRE_RECEIVETIMEOUT", "250ms")
	t.Setenv("GODAQ_LOGLEVEL", "warning")

	cfg := NewConfig(filepath.Join(t.TempDir(), ConfigFile))
	require.NoError(t, cfg.Load())
	assert.Equal(t, 250*time.Millisecond, cfg.Acquire.ReceiveTimeout)
	assert.Equal(t, "warning", cfg.LogLevel)
}

func TestLoadBrokenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFile)
	require.NoError(t, os.WriteFile(path, []byte("acquire: [unterminated\n"), 0644))

	err := NewConfig(path).Load()
	var loadErr ErrConfigLoad
	assert.True(t, errors.As(err, &loadErr))
}
