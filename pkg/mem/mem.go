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

package mem

import (
	"os"

	"golang.org/x/sys/unix"

	"uni-lj.si/cora-z7/go-daq/pkg/config"
	"uni-lj.si/cora-z7/go-daq/pkg/log"
)

// Window is a read-only mapping of a physical memory region
type Window struct {
	data   []byte
	offset int64
}

// Open maps size bytes of device starting at offset. The offset must be page aligned.
func Open(device string, offset int64, size int) (*Window, error) {
	if size <= 0 || offset < 0 || offset%int64(unix.Getpagesize()) != 0 {
		return nil, ErrMemWindow{Offset: offset, Size: size}
	}
	f, err := os.OpenFile(device, os.O_RDONLY, 0)
	if err != nil {
		return nil, err
	}
	// the mapping stays valid after the descriptor is closed
	defer f.Close()

	log.Debug("Mapping %s: offset: 0x%x size: %d", device, offset, size)
	data, err := unix.Mmap(int(f.Fd()), offset, size, unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, ErrMmap{Device: device, Err: err}
	}
	return &Window{data: data, offset: offset}, nil
}

func (w *Window) Size() int {
	return len(w.data)
}

func (w *Window) Offset() int64 {
	return w.offset
}

// Read copies the first n bytes of the window
func (w *Window) Read(n int) ([]byte, error) {
	if n < 0 || n > len(w.data) {
		return nil, ErrMemWindow{Offset: w.offset, Size: len(w.data), Read: n}
	}
	out := make([]byte, n)
	copy(out, w.data[:n])
	return out, nil
}

func (w *Window) Close() error {
	if w.data == nil {
		return nil
	}
	err := unix.Munmap(w.data)
	w.data = nil
	return err
}

// Dump reads the first n bytes of the configured window
func Dump(cfg *config.MemConfig, n int) ([]byte, error) {
	w, err := Open(cfg.Device, cfg.Offset, cfg.Size)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := w.Close(); err != nil {
			log.Warning("Error while unmapping %s: %s", cfg.Device, err)
		}
	}()
	return w.Read(n)
}
