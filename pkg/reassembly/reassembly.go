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

package reassembly

import (
	"bytes"
	"fmt"

	"uni-lj.si/cora-z7/go-daq/pkg/log"
	"uni-lj.si/cora-z7/go-daq/pkg/sequence"
)

const (
	// BlockSize is the maximum payload of one data datagram. A lost datagram
	// is always replaced by a zero block of this size, even if the real one was shorter.
	BlockSize = 256
)

var zeroBlock = make([]byte, BlockSize)

type RecordKind int

const (
	PayloadRecord RecordKind = iota
	GapRecord
)

// Record is one reassembly unit: either real payload bytes or a gap of Missing lost datagrams.
type Record struct {
	Kind    RecordKind
	Payload []byte
	Missing uint16
}

func Payload(data []byte) Record {
	return Record{Kind: PayloadRecord, Payload: data}
}

func Gap(missing uint16) Record {
	return Record{Kind: GapRecord, Missing: missing}
}

// Len returns the number of bytes the record contributes to the assembled buffer
func (r Record) Len() int {
	if r.Kind == GapRecord {
		return int(r.Missing) * BlockSize
	}
	return len(r.Payload)
}

func (r Record) String() string {
	if r.Kind == GapRecord {
		return fmt.Sprintf("gap(%d)", r.Missing)
	}
	return fmt.Sprintf("payload(%d)", len(r.Payload))
}

// GapInfo tells where a zero fill starts in the assembled buffer and how many datagrams it replaces
type GapInfo struct {
	Offset  int    `json:"offset"`
	Missing uint16 `json:"missing"`
}

// Reassembler builds one continuous buffer out of datagram payloads and tracker verdicts.
// It is owned by a single receive loop and is not safe for concurrent use.
type Reassembler struct {
	records []Record
	buf     bytes.Buffer
	gaps    []GapInfo
	lost    int
}

func NewReassembler() *Reassembler {
	return &Reassembler{}
}

// Push appends one datagram payload. For a Gap verdict the lost datagrams are
// zero-filled first, then the payload of the datagram that revealed the gap is appended.
func (r *Reassembler) Push(payload []byte, verdict sequence.Verdict) {
	if verdict.Kind == sequence.Gap && verdict.Missing > 0 {
		r.fill(verdict.Missing)
	}
	data := make([]byte, len(payload))
	copy(data, payload)
	r.records = append(r.records, Payload(data))
	r.buf.Write(data)
}

func (r *Reassembler) fill(missing uint16) {
	log.Debug("Zero fill: offset: %d missing: %d", r.buf.Len(), missing)
	r.gaps = append(r.gaps, GapInfo{Offset: r.buf.Len(), Missing: missing})
	r.records = append(r.records, Gap(missing))
	r.buf.Grow(int(missing) * BlockSize)
	for i := uint16(0); i < missing; i++ {
		r.buf.Write(zeroBlock)
	}
	r.lost += int(missing)
}

// Bytes returns the assembled buffer. The caller must not modify it.
func (r *Reassembler) Bytes() []byte {
	return r.buf.Bytes()
}

// Len returns the current length of the assembled buffer
func (r *Reassembler) Len() int {
	return r.buf.Len()
}

// Records returns the reassembly units in arrival order
func (r *Reassembler) Records() []Record {
	return r.records
}

// Gaps returns every zero fill in buffer order
func (r *Reassembler) Gaps() []GapInfo {
	return r.gaps
}

// Lost returns the total number of datagrams replaced by zero blocks
func (r *Reassembler) Lost() int {
	return r.lost
}

// Assemble rebuilds a buffer from a record sequence
func Assemble(records []Record) []byte {
	size := 0
	for _, rec := range records {
		size += rec.Len()
	}
	out := make([]byte, 0, size)
	for _, rec := range records {
		if rec.Kind == GapRecord {
			out = append(out, make([]byte, rec.Len())...)
			continue
		}
		out = append(out, rec.Payload...)
	}
	return out
}
