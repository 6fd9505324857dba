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
	"context"
	"errors"
	"net"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"uni-lj.si/cora-z7/go-daq/pkg/config"
	"uni-lj.si/cora-z7/go-daq/pkg/layers"
	"uni-lj.si/cora-z7/go-daq/pkg/reassembly"
	"uni-lj.si/cora-z7/go-daq/pkg/sample"
	"uni-lj.si/cora-z7/go-daq/pkg/srv"
)

// fakeConn serves queued datagrams, then behaves like a socket waiting for its read deadline
type fakeConn struct {
	mu        sync.Mutex
	incoming  [][]byte
	written   [][]byte
	deadline  time.Time
	readErr   error
	writeErrs map[int]error
	closeErr  error
	closed    bool
}

func (c *fakeConn) Read(b []byte) (int, error) {
	for {
		c.mu.Lock()
		if len(c.incoming) > 0 {
			data := c.incoming[0]
			c.incoming = c.incoming[1:]
			c.mu.Unlock()
			return copy(b, data), nil
		}
		if c.readErr != nil {
			c.mu.Unlock()
			return 0, c.readErr
		}
		if !c.deadline.IsZero() && !time.Now().Before(c.deadline) {
			c.mu.Unlock()
			return 0, os.ErrDeadlineExceeded
		}
		c.mu.Unlock()
		time.Sleep(time.Millisecond)
	}
}

func (c *fakeConn) Write(b []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err, ok := c.writeErrs[len(c.written)]; ok {
		c.written = append(c.written, nil)
		return 0, err
	}
	data := make([]byte, len(b))
	copy(data, b)
	c.written = append(c.written, data)
	return len(b), nil
}

func (c *fakeConn) SetReadDeadline(t time.Time) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deadline = t
	return nil
}

func (c *fakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return c.closeErr
}

func (c *fakeConn) push(t *testing.T, counter uint16, payload []byte) {
	data, err := layers.DataToBytes(0, counter, payload)
	require.NoError(t, err)
	c.incoming = append(c.incoming, data)
}

func testConfig(timeout time.Duration) *config.AcquireConfig {
	return &config.AcquireConfig{ReceiveTimeout: timeout}
}

var (
	payload0 = []byte{0x11, 0x22, 0x33, 0x44}
	payload1 = []byte{0x55, 0x66, 0x77, 0x88}
	payload3 = []byte{0x99, 0xaa, 0xbb, 0xcc}
)

func expectedBuffer() []byte {
	var buf bytes.Buffer
	buf.Write(payload0)
	buf.Write(payload1)
	buf.Write(make([]byte, reassembly.BlockSize))
	buf.Write(payload3)
	return buf.Bytes()
}

func assertSingleZeroSpan(t *testing.T, samples []sample.Sample, length int) {
	spans := 0
	run := 0
	for i, s := range samples {
		if s.Value == 0 {
			run++
		}
		if run > 0 && (s.Value != 0 || i == len(samples)-1) {
			spans++
			assert.Equal(t, length, run)
			run = 0
		}
	}
	assert.Equal(t, 1, spans)
}

func TestSessionReassemblesGaps(t *testing.T) {
	conn := &fakeConn{}
	conn.push(t, 0, payload0)
	conn.push(t, 1, payload1)
	conn.incoming = append(conn.incoming, []byte{0x00, 0x02})
	conn.push(t, 3, payload3)

	s, err := NewSession(testConfig(20*time.Millisecond), sample.Rate1M, conn)
	require.NoError(t, err)
	assert.Equal(t, StateIdle, s.State())

	result, err := s.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StateStopped, s.State())

	require.Len(t, conn.written, 2)
	assert.Equal(t, []byte{0x00, 0x02}, conn.written[0])
	assert.Equal(t, []byte{0x01}, conn.written[1])
	assert.True(t, conn.closed)

	assert.Equal(t, StopTimeout, result.Reason)
	assert.Equal(t, expectedBuffer(), result.Buffer)
	assert.Equal(t, []reassembly.GapInfo{{Offset: 8, Missing: 1}}, result.Gaps)
	assert.Equal(t, Stats{Datagrams: 3, InOrder: 2, Gaps: 1, Lost: 1, Malformed: 1}, result.Stats)

	require.Len(t, result.Samples, sample.Count(len(expectedBuffer())))
	assertSingleZeroSpan(t, result.Samples, 128)
	for i, s := range result.Samples {
		assert.InDelta(t, float64(i)*1e-6, s.Time, 1e-12)
	}
	assert.Equal(t, uint16(0x332), result.Samples[0].Value)
	assert.False(t, result.First.IsZero())
	assert.GreaterOrEqual(t, result.Duration(), time.Duration(0))
	assert.Equal(t, len(result.Samples), result.Summary.Count)
}

func TestSessionWithoutDatagrams(t *testing.T) {
	conn := &fakeConn{}
	s, err := NewSession(testConfig(10*time.Millisecond), sample.Rate200k, conn)
	require.NoError(t, err)

	result, err := s.Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, result.Samples)
	assert.Empty(t, result.Buffer)
	assert.Equal(t, Stats{}, result.Stats)
	assert.Equal(t, time.Duration(0), result.Duration())
	assert.Equal(t, StopTimeout, result.Reason)
	require.Len(t, conn.written, 2)
	assert.Equal(t, []byte{0x01}, conn.written[1])
}

func TestSessionRejectsInvalidRate(t *testing.T) {
	conn := &fakeConn{}
	_, err := NewSession(testConfig(time.Second), sample.RateCode(4), conn)
	var cfgErr sample.ErrInvalidConfiguration
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, 4, cfgErr.Code)
	assert.Empty(t, conn.written)
	assert.False(t, conn.closed)

	_, err = Acquire(context.Background(), testConfig(time.Second), sample.RateCode(9), "not an address")
	assert.True(t, errors.As(err, &cfgErr))
}

func TestSessionCancel(t *testing.T) {
	conn := &fakeConn{}
	conn.push(t, 0, payload0)
	s, err := NewSession(testConfig(time.Minute), sample.Rate2M, conn)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(50*time.Millisecond, cancel)

	begin := time.Now()
	result, err := s.Run(ctx)
	require.NoError(t, err)
	assert.Less(t, time.Since(begin), 5*time.Second)
	assert.Equal(t, StopCancelled, result.Reason)
	assert.Equal(t, payload0, result.Buffer)
	require.Len(t, conn.written, 2)
	assert.Equal(t, []byte{0x01}, conn.written[1])
	assert.True(t, conn.closed)
}

func TestSessionCancelledBeforeRun(t *testing.T) {
	conn := &fakeConn{}
	s, err := NewSession(testConfig(time.Minute), sample.Rate2M, conn)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	result, err := s.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, StopCancelled, result.Reason)
	assert.Len(t, conn.written, 2)
}

func TestSessionReadError(t *testing.T) {
	conn := &fakeConn{readErr: errors.New("connection refused")}
	conn.push(t, 0, payload0)
	s, err := NewSession(testConfig(time.Second), sample.Rate1M, conn)
	require.NoError(t, err)

	result, err := s.Run(context.Background())
	var recvErr srv.ErrReceive
	require.True(t, errors.As(err, &recvErr))
	require.NotNil(t, result)
	assert.Equal(t, StopReadError, result.Reason)
	assert.Equal(t, payload0, result.Buffer)
	assert.Len(t, conn.written, 2)
}

func TestSessionStartFailure(t *testing.T) {
	conn := &fakeConn{writeErrs: map[int]error{0: errors.New("network unreachable")}}
	s, err := NewSession(testConfig(time.Second), sample.Rate1M, conn)
	require.NoError(t, err)

	_, err = s.Run(context.Background())
	var sendErr srv.ErrSend
	require.True(t, errors.As(err, &sendErr))
	assert.Equal(t, "start", sendErr.What)
	assert.True(t, conn.closed)
	assert.Equal(t, StateStopped, s.State())
}

func TestSessionStopAndCloseFailuresAreNotFatal(t *testing.T) {
	conn := &fakeConn{
		writeErrs: map[int]error{1: errors.New("broken pipe")},
		closeErr:  errors.New("already closed"),
	}
	conn.push(t, 0, payload0)
	s, err := NewSession(testConfig(10*time.Millisecond), sample.Rate1M, conn)
	require.NoError(t, err)

	result, err := s.Run(context.Background())
	require.NoError(t, err)
	assert.Error(t, result.Close.StopErr)
	assert.Error(t, result.Close.CloseErr)
	assert.Equal(t, payload0, result.Buffer)
}

func TestSessionRunsOnce(t *testing.T) {
	conn := &fakeConn{}
	s, err := NewSession(testConfig(time.Millisecond), sample.Rate1M, conn)
	require.NoError(t, err)
	_, err = s.Run(context.Background())
	require.NoError(t, err)

	_, err = s.Run(context.Background())
	var stateErr ErrWrongState
	assert.True(t, errors.As(err, &stateErr))
}

// device imitates the data server on the board: it waits for a start
// command and answers the sender with datagrams.
type device struct {
	conn *net.UDPConn
}

func newDevice(t *testing.T) *device {
	conn, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return &device{conn: conn}
}

func (d *device) read(t *testing.T) ([]byte, *net.UDPAddr) {
	buffer := make([]byte, 64)
	require.NoError(t, d.conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	n, addr, err := d.conn.ReadFromUDP(buffer)
	require.NoError(t, err)
	return buffer[:n], addr
}

func (d *device) send(t *testing.T, addr *net.UDPAddr, counter uint16, payload []byte) {
	data, err := layers.DataToBytes(0, counter, payload)
	require.NoError(t, err)
	_, err = d.conn.WriteToUDP(data, addr)
	require.NoError(t, err)
}

func TestAcquireLoopback(t *testing.T) {
	dev := newDevice(t)

	type outcome struct {
		result *Result
		err    error
	}
	done := make(chan outcome, 1)
	go func() {
		result, err := Acquire(context.Background(), testConfig(300*time.Millisecond), sample.Rate500k, dev.conn.LocalAddr().String())
		done <- outcome{result, err}
	}()

	cmd, client := dev.read(t)
	assert.Equal(t, []byte{0x00, 0x01}, cmd)
	dev.send(t, client, 0, payload0)
	dev.send(t, client, 1, payload1)
	dev.send(t, client, 3, payload3)

	cmd, _ = dev.read(t)
	assert.Equal(t, []byte{0x01}, cmd)

	out := <-done
	require.NoError(t, out.err)
	assert.Equal(t, expectedBuffer(), out.result.Buffer)
	assert.Equal(t, 1, out.result.Lost)
	assert.Equal(t, StopTimeout, out.result.Reason)
	assertSingleZeroSpan(t, out.result.Samples, 128)
}
