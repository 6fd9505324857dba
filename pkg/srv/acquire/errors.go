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

package acquire

import (
	"fmt"
)

// ErrWrongState returned when a session is run twice
type ErrWrongState struct {
	State
}

func (e ErrWrongState) Error() string {
	return fmt.Sprintf("Session can not be run in state: %s", e.State)
}

// ErrUnknownFormat returned when an artifact format is neither csv nor npy
type ErrUnknownFormat struct {
	Format string
}

func (e ErrUnknownFormat) Error() string {
	return fmt.Sprintf("Unknown output format %q. Must be one of: csv, npy", e.Format)
}
