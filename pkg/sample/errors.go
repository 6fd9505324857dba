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

package sample

import (
	"fmt"
)

// ErrInvalidConfiguration returned when a sample rate code is outside of 0-3
type ErrInvalidConfiguration struct {
	Code int
	What string
}

func (e ErrInvalidConfiguration) Error() string {
	if e.What != "" {
		return fmt.Sprintf("Sample rate is not a number: %q. Must be one of [0-3]", e.What)
	}
	return fmt.Sprintf("Sample rate out of bounds: %d. Must be one of [0-3]", e.Code)
}
