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
	"fmt"
)

// ErrMemWindow returned for a window or a read outside of the mapped region
type ErrMemWindow struct {
	Offset int64
	Size   int
	Read   int
}

func (e ErrMemWindow) Error() string {
	if e.Read != 0 {
		return fmt.Sprintf("Read of %d bytes out of memory window: offset: 0x%x size: %d", e.Read, e.Offset, e.Size)
	}
	return fmt.Sprintf("Wrong memory window: offset: 0x%x size: %d", e.Offset, e.Size)
}

// ErrMmap returned when the device can not be mapped
type ErrMmap struct {
	Device string
	Err    error
}

func (e ErrMmap) Error() string {
	return fmt.Sprintf("mmap of %s failed: %s", e.Device, e.Err)
}

func (e ErrMmap) Unwrap() error {
	return e.Err
}
