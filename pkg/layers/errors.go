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

package layers

import (
	"fmt"
)

// ErrDatagramTooShort returned when a datagram does not even carry the type byte and the counter
type ErrDatagramTooShort struct {
	Length int
}

func (e ErrDatagramTooShort) Error() string {
	return fmt.Sprintf("Datagram too short: %d bytes, need at least %d", e.Length, DataHeaderSize)
}

// ErrDatagramTooLong returned when a datagram is larger than the device ever sends
type ErrDatagramTooLong struct {
	Length int
}

func (e ErrDatagramTooLong) Error() string {
	return fmt.Sprintf("Datagram too long: %d bytes, max %d", e.Length, DataMaxSize)
}

// ErrCommandMalformed returned when a control message has an unknown type or a wrong length
type ErrCommandMalformed struct {
	Type   CommandType
	Length int
}

func (e ErrCommandMalformed) Error() string {
	return fmt.Sprintf("Malformed %s command (0x%02x): %d bytes", e.Type, uint8(e.Type), e.Length)
}
