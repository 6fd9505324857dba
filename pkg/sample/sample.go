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

const (
	// GroupSize is the number of raw bytes that carry two samples
	GroupSize = 4
	// SamplesPerGroup is the number of samples packed in one group
	SamplesPerGroup = 2
	// MaxValue is the largest 12-bit sample value
	MaxValue = 0x0fff
)

// Sample is one acquired value together with its time offset from the first sample.
type Sample struct {
	Time  float64 `json:"time"`
	Value uint16  `json:"value"`
}

// Count returns the number of samples Decode produces for a buffer of n bytes
func Count(n int) int {
	return n / GroupSize * SamplesPerGroup
}

// Decode unpacks 12-bit samples from buf. Every 4-byte group [b0 b1 b2 b3]
// yields two samples, b3 is reserved. A trailing incomplete group is dropped.
func Decode(buf []byte) []uint16 {
	values := make([]uint16, 0, Count(len(buf)))
	for i := 0; i+GroupSize <= len(buf); i += GroupSize {
		b0, b1, b2 := uint16(buf[i]), uint16(buf[i+1]), uint16(buf[i+2])
		values = append(values,
			b2<<4|(b1&0xf0)>>4,
			(b1&0x0f)<<8|b0,
		)
	}
	return values
}

// Timebase attaches time offsets to decoded values: the i-th value is taken at i/rate seconds.
func Timebase(values []uint16, rate RateCode) []Sample {
	period := rate.Period()
	samples := make([]Sample, len(values))
	for i, v := range values {
		samples[i] = Sample{Time: float64(i) * period, Value: v}
	}
	return samples
}

// DecodeSamples decodes buf and attaches the timebase of the given rate
func DecodeSamples(buf []byte, rate RateCode) []Sample {
	return Timebase(Decode(buf), rate)
}

// Split returns times and values as two parallel slices
func Split(samples []Sample) ([]float64, []uint16) {
	times := make([]float64, len(samples))
	values := make([]uint16, len(samples))
	for i, s := range samples {
		times[i] = s.Time
		values[i] = s.Value
	}
	return times, values
}
