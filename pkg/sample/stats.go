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

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary holds basic statistics of a decoded run. It is zero for an empty run.
type Summary struct {
	Count  int     `json:"count"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"stddev"`
	Zeros  int     `json:"zeros"`
}

// Summarize computes the run statistics. Zero-filled gaps are included,
// Zeros counts them together with genuine zero samples.
func Summarize(values []uint16) Summary {
	if len(values) == 0 {
		return Summary{}
	}
	x := make([]float64, len(values))
	zeros := 0
	for i, v := range values {
		x[i] = float64(v)
		if v == 0 {
			zeros++
		}
	}
	mean, std := stat.MeanStdDev(x, nil)
	if len(x) == 1 {
		// sample standard deviation is undefined for one value
		std = 0
	}
	return Summary{
		Count:  len(values),
		Min:    floats.Min(x),
		Max:    floats.Max(x),
		Mean:   mean,
		StdDev: std,
		Zeros:  zeros,
	}
}

func (s Summary) String() string {
	return fmt.Sprintf("count: %d min: %.0f max: %.0f mean: %.2f stddev: %.2f zeros: %d",
		s.Count, s.Min, s.Max, s.Mean, s.StdDev, s.Zeros)
}
