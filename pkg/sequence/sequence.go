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

package sequence

import (
	"fmt"
)

// Counter is the 16-bit datagram sequence counter sent by the device.
// All arithmetic on it wraps at 65536.
type Counter uint16

// Advance returns the counter that follows c
func Advance(c Counter) Counter {
	return c + 1
}

// Distance returns (a - b) mod 65536, i.e. how many steps forward b must go to reach a
func Distance(a, b Counter) uint16 {
	return uint16(a - b)
}

type Kind int

const (
	InOrder Kind = iota
	Gap
)

func (k Kind) String() string {
	switch k {
	case InOrder:
		return "in-order"
	case Gap:
		return "gap"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Verdict is the classification of one received counter.
// Missing is the number of lost datagrams and is only set for Gap.
type Verdict struct {
	Kind
	Missing uint16
}

func (v Verdict) String() string {
	if v.Kind == Gap {
		return fmt.Sprintf("gap(%d)", v.Missing)
	}
	return v.Kind.String()
}

// Tracker keeps the counter expected next.
//
// On mismatch it resynchronizes to the received counter, so one Gap verdict
// covers any number of consecutive losses. A duplicated or replayed counter
// cannot be told apart from a forward gap of (received - expected) mod 65536
// datagrams and is reported as such.
type Tracker struct {
	expected Counter
}

func NewTracker() *Tracker {
	return &Tracker{}
}

// Expected returns the counter the tracker waits for
func (t *Tracker) Expected() Counter {
	return t.expected
}

// Classify compares received with the expected counter and advances the tracker
func (t *Tracker) Classify(received Counter) Verdict {
	if received == t.expected {
		t.expected = Advance(t.expected)
		return Verdict{Kind: InOrder}
	}
	missing := Distance(received, t.expected)
	t.expected = Advance(received)
	return Verdict{Kind: Gap, Missing: missing}
}

// Reset returns the tracker to the start of session state
func (t *Tracker) Reset() {
	t.expected = 0
}
