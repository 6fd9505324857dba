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

// State of an acquisition session. Sessions only move forward:
// Idle -> Started -> Receiving -> Stopped. Started goes to Stopped directly
// when no datagram arrives before the first timeout.
type State int

const (
	StateIdle State = iota
	StateStarted
	StateReceiving
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateStarted:
		return "started"
	case StateReceiving:
		return "receiving"
	case StateStopped:
		return "stopped"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// StopReason tells why the receive loop ended
type StopReason int

const (
	StopTimeout StopReason = iota
	StopCancelled
	StopReadError
	// StopClosed is a stream closed by the peer
	StopClosed
)

func (r StopReason) String() string {
	switch r {
	case StopTimeout:
		return "timeout"
	case StopCancelled:
		return "cancelled"
	case StopReadError:
		return "read error"
	case StopClosed:
		return "closed"
	}
	return fmt.Sprintf("StopReason(%d)", int(r))
}

// Stats counts what happened to the datagrams of one session
type Stats struct {
	Datagrams int `json:"datagrams"`
	InOrder   int `json:"inOrder"`
	Gaps      int `json:"gaps"`
	Lost      int `json:"lost"`
	Malformed int `json:"malformed"`
}

func (s Stats) String() string {
	return fmt.Sprintf("datagrams: %d in order: %d gaps: %d lost: %d malformed: %d",
		s.Datagrams, s.InOrder, s.Gaps, s.Lost, s.Malformed)
}
