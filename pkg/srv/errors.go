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

package srv

import (
	"fmt"
)

// ErrReceive returned when reading from the device fails for a reason other than a timeout
type ErrReceive struct {
	Err error
}

func (e ErrReceive) Error() string {
	return fmt.Sprintf("Error occurred when reading from socket: %s", e.Err)
}

func (e ErrReceive) Unwrap() error {
	return e.Err
}

// ErrSend returned when a command could not be sent to the device in full
type ErrSend struct {
	What string
	Sent int
	Err  error
}

func (e ErrSend) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("Error occurred when sending %s: %s", e.What, e.Err)
	}
	return fmt.Sprintf("Didn't send full %s packet: %d bytes", e.What, e.Sent)
}

func (e ErrSend) Unwrap() error {
	return e.Err
}
