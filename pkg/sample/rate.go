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
	"strconv"
)

// RateCode selects the device sample rate. It is the second byte of the start command.
type RateCode uint8

const (
	Rate200k RateCode = iota
	Rate500k
	Rate1M
	Rate2M
)

const HelpRates = "Sample rate codes: 0 - 200 kHz, 1 - 500 kHz, 2 - 1 MHz, 3 - 2 MHz."

var rateTable = map[RateCode]float64{
	Rate200k: 2e5,
	Rate500k: 5e5,
	Rate1M:   1e6,
	Rate2M:   2e6,
}

// Valid reports whether the code is known to the device
func (c RateCode) Valid() bool {
	_, ok := rateTable[c]
	return ok
}

// Validate returns ErrInvalidConfiguration for unknown codes
func (c RateCode) Validate() error {
	if !c.Valid() {
		return ErrInvalidConfiguration{Code: int(c)}
	}
	return nil
}

// SampleRate returns the real sample rate in Hz, or 0 for an unknown code
func (c RateCode) SampleRate() float64 {
	return rateTable[c]
}

// Period returns the time between two consecutive samples in seconds
func (c RateCode) Period() float64 {
	rate := c.SampleRate()
	if rate == 0 {
		return 0
	}
	return 1.0 / rate
}

func (c RateCode) String() string {
	return strconv.Itoa(int(c))
}

// ParseRateCode parses a decimal rate code and checks it against the rate table
func ParseRateCode(s string) (RateCode, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, ErrInvalidConfiguration{Code: -1, What: s}
	}
	if n < 0 || n > 255 || !RateCode(n).Valid() {
		return 0, ErrInvalidConfiguration{Code: n}
	}
	return RateCode(n), nil
}
