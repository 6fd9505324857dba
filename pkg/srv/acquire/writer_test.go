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
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"uni-lj.si/cora-z7/go-daq/pkg/sample"
)

var testSamples = []sample.Sample{
	{Time: 0, Value: 2737},
	{Time: 5e-6, Value: 564},
	{Time: 1e-5, Value: 0},
}

func TestCSVWriter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewCSVWriter(&buf).WriteSamples(testSamples))
	assert.Equal(t, "time,value\n0,2737\n5e-06,564\n1e-05,0\n", buf.String())
}

func TestNpyWriter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewNpyWriter(&buf).WriteSamples(testSamples))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("\x93NUMPY")))
	assert.Contains(t, buf.String(), "(3, 2)")

	buf.Reset()
	require.NoError(t, NewNpyWriter(&buf).WriteSamples(nil))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("\x93NUMPY")))
}

func TestPersistFilename(t *testing.T) {
	started := time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC)
	assert.Equal(t, "out/samples_20250304_050607.csv", PersistFilename("out", "", FormatCSV, started))
	assert.Equal(t, "out/run1_samples_20250304_050607.npy", PersistFilename("out", "run1", FormatNpy, started))
}

func TestPersist(t *testing.T) {
	dir := t.TempDir()
	result := &Result{Samples: testSamples, Started: time.Now()}

	filename, err := Persist(result, dir, "test", FormatCSV)
	require.NoError(t, err)
	assert.Equal(t, dir, filepath.Dir(filename))
	data, err := os.ReadFile(filename)
	require.NoError(t, err)
	assert.Contains(t, string(data), "5e-06,564")

	filename, err = Persist(result, dir, "", FormatNone)
	require.NoError(t, err)
	assert.Empty(t, filename)

	_, err = Persist(result, dir, "", "xml")
	var formatErr ErrUnknownFormat
	assert.True(t, errors.As(err, &formatErr))
}
