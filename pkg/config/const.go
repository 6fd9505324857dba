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
	"time"
)

const (
	ConfigDir                = ".go-daq"
	ConfigFile               = "config.yaml"
	StoreFile                = "runs.db"
	EnvPrefix                = "GODAQ"
	DefaultLogLevel          = "info"
	DefaultReceiveTimeout    = 3 * time.Second
	DefaultReadBufferSize    = 0x8000000 // 128MiB
	DefaultOutputFormat      = "csv"
	DefaultStreamReadTimeout = 3 * time.Second
	DefaultStreamChunkSize   = 256
	DefaultStreamPort        = 44444
	DefaultMemDevice         = "/dev/mem"
	DefaultMemOffset         = 0x46000000
	DefaultMemSize           = 1024 * 128
	DefaultApiAddress        = "127.0.0.1"
	DefaultApiPort           = 8010
)
