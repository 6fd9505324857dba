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

package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"uni-lj.si/cora-z7/go-daq/pkg/reassembly"
	"uni-lj.si/cora-z7/go-daq/pkg/sample"
	"uni-lj.si/cora-z7/go-daq/pkg/srv/acquire"
)

func newTestState(t *testing.T) *State {
	t.Helper()
	s, err := NewState(context.Background(), filepath.Join(t.TempDir(), "db", "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func testResult() *acquire.Result {
	buffer := []byte{0xB1, 0x34, 0xAB, 0x00, 0x00, 0x00, 0x00, 0x00}
	values := sample.Decode(buffer)
	started := time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC)
	return &acquire.Result{
		RateCode: sample.Rate200k,
		Buffer:   buffer,
		Samples:  sample.Timebase(values, sample.Rate200k),
		Gaps:     []reassembly.GapInfo{{Offset: 4, Missing: 1}},
		Stats:    acquire.Stats{Datagrams: 2, InOrder: 1, Gaps: 1, Lost: 1},
		Summary:  sample.Summarize(values),
		Reason:   acquire.StopTimeout,
		Started:  started,
		First:    started,
		Last:     started.Add(time.Millisecond),
	}
}

func TestNewRun(t *testing.T) {
	run := NewRun("192.168.1.10:1234", testResult())
	assert.Len(t, run.ID, 26)
	assert.Equal(t, 200000.0, run.SampleRate)
	assert.Equal(t, time.Millisecond, run.Duration)
	assert.Equal(t, 4, run.Samples)
	assert.Equal(t, 8, run.BufferSize)
	assert.Equal(t, acquire.StopTimeout.String(), run.Reason)
}

func TestPutGetRun(t *testing.T) {
	s := newTestState(t)
	result := testResult()
	run := NewRun("192.168.1.10:1234", result)
	require.NoError(t, s.PutRun(run, result.Buffer))

	got, err := s.GetRun(run.ID)
	require.NoError(t, err)
	assert.Equal(t, run.ID, got.ID)
	assert.Equal(t, run.Device, got.Device)
	assert.Equal(t, run.RateCode, got.RateCode)
	assert.Equal(t, run.Stats, got.Stats)
	assert.Equal(t, run.Gaps, got.Gaps)
	assert.True(t, run.Started.Equal(got.Started))

	buffer, err := s.GetBuffer(run.ID)
	require.NoError(t, err)
	assert.Equal(t, result.Buffer, buffer)

	samples, err := s.GetSamples(run.ID)
	require.NoError(t, err)
	assert.Equal(t, result.Samples, samples)
}

func TestRunNotFound(t *testing.T) {
	s := newTestState(t)
	_, err := s.GetRun("missing")
	assert.Equal(t, ErrRunNotFound{ID: "missing"}, err)
	_, err = s.GetBuffer("missing")
	assert.Equal(t, ErrRunNotFound{ID: "missing"}, err)
	_, err = s.GetSamples("missing")
	assert.Equal(t, ErrRunNotFound{ID: "missing"}, err)
	assert.Equal(t, ErrRunNotFound{ID: "missing"}, s.DeleteRun("missing"))
}

func TestGetAllRuns(t *testing.T) {
	s := newTestState(t)
	runs, err := s.GetAllRuns()
	require.NoError(t, err)
	assert.Empty(t, runs)

	result := testResult()
	first := NewRun("a", result)
	second := NewRun("b", result)
	second.ID = first.ID + "Z"
	require.NoError(t, s.PutRun(second, result.Buffer))
	require.NoError(t, s.PutRun(first, result.Buffer))

	runs, err = s.GetAllRuns()
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, first.ID, runs[0].ID)
	assert.Equal(t, second.ID, runs[1].ID)

	require.NoError(t, s.DeleteRun(first.ID))
	runs, err = s.GetAllRuns()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "b", runs[0].Device)
}
