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
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"sigs.k8s.io/yaml"

	"uni-lj.si/cora-z7/go-daq/pkg/log"
)

type AcquireConfig struct {
	ReceiveTimeout time.Duration `json:"receiveTimeout,omitempty" mapstructure:"receiveTimeout"`
	ReadBufferSize int           `json:"readBufferSize,omitempty" mapstructure:"readBufferSize"`
	OutputDir      string        `json:"outputDir,omitempty" mapstructure:"outputDir"`
	Format         string        `json:"format,omitempty" mapstructure:"format"`
	Store          bool          `json:"store" mapstructure:"store"`
}

type StreamConfig struct {
	ReadTimeout time.Duration `json:"readTimeout,omitempty" mapstructure:"readTimeout"`
	ChunkSize   int           `json:"chunkSize,omitempty" mapstructure:"chunkSize"`
	Address     string        `json:"address,omitempty" mapstructure:"address"`
	Port        int           `json:"port,omitempty" mapstructure:"port"`
}

type MemConfig struct {
	Device string `json:"device,omitempty" mapstructure:"device"`
	Offset int64  `json:"offset,omitempty" mapstructure:"offset"`
	Size   int    `json:"size,omitempty" mapstructure:"size"`
}

type StoreConfig struct {
	Path string `json:"path,omitempty" mapstructure:"path"`
}

type ApiConfig struct {
	Address string `json:"address,omitempty" mapstructure:"address"`
	Port    int    `json:"port,omitempty" mapstructure:"port"`
}

type Config struct {
	LogLevel string          `json:"logLevel,omitempty" mapstructure:"logLevel"`
	LogFile  *log.FileConfig `json:"logFile,omitempty" mapstructure:"logFile"`
	Acquire  *AcquireConfig  `json:"acquire,omitempty" mapstructure:"acquire"`
	Stream   *StreamConfig   `json:"stream,omitempty" mapstructure:"stream"`
	Mem      *MemConfig      `json:"mem,omitempty" mapstructure:"mem"`
	Store    *StoreConfig    `json:"store,omitempty" mapstructure:"store"`
	Api      *ApiConfig      `json:"api,omitempty" mapstructure:"api"`
	filepath string
}

// Path returns the config file location
func (c *Config) Path() string {
	return c.filepath
}

func (c *Config) Persist(overwrite bool) error {
	if _, err := os.Stat(c.filepath); err == nil && !overwrite {
		return ErrConfigFileExists{Path: c.filepath}
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	dir := filepath.Dir(c.filepath)
	err = os.MkdirAll(dir, 0755)
	if err != nil {
		return err
	}

	return os.WriteFile(c.filepath, data, 0644)
}

// Load merges the config file (if it exists) and GODAQ_* environment
// variables on top of the current values.
func (c *Config) Load() error {
	defaults, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.ReadConfig(bytes.NewReader(defaults)); err != nil {
		return err
	}

	v.SetConfigFile(c.filepath)
	if err := v.MergeInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.Is(err, fs.ErrNotExist) && !errors.As(err, &notFound) {
			return ErrConfigLoad{Path: c.filepath, Err: err}
		}
		log.Debug("Config file not found, using defaults: %s", c.filepath)
	}

	return v.Unmarshal(c)
}

func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = ""
	}
	return filepath.Join(home, ConfigDir)
}

func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), ConfigFile)
}

func NewDefaultConfig() *Config {
	return NewConfig(DefaultConfigPath())
}

// NewConfig returns the default config bound to the given file
func NewConfig(path string) *Config {
	return &Config{
		LogLevel: DefaultLogLevel,
		LogFile:  &log.FileConfig{},
		Acquire: &AcquireConfig{
			ReceiveTimeout: DefaultReceiveTimeout,
			ReadBufferSize: DefaultReadBufferSize,
			OutputDir:      ".",
			Format:         DefaultOutputFormat,
			Store:          false,
		},
		Stream: &StreamConfig{
			ReadTimeout: DefaultStreamReadTimeout,
			ChunkSize:   DefaultStreamChunkSize,
			Port:        DefaultStreamPort,
		},
		Mem: &MemConfig{
			Device: DefaultMemDevice,
			Offset: DefaultMemOffset,
			Size:   DefaultMemSize,
		},
		Store: &StoreConfig{
			Path: filepath.Join(filepath.Dir(path), StoreFile),
		},
		Api: &ApiConfig{
			Address: DefaultApiAddress,
			Port:    DefaultApiPort,
		},
		filepath: path,
	}
}
