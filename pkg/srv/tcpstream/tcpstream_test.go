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

package tcpstream

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"uni-lj.si/cora-z7/go-daq/pkg/config"
	"uni-lj.si/cora-z7/go-daq/pkg/sample"
	"uni-lj.si/cora-z7/go-daq/pkg/srv/acquire"
)

func testConfig() *config.StreamConfig {
	return &config.StreamConfig{
		ReadTimeout: 200 * time.Millisecond,
		ChunkSize:   3,
	}
}

// serve accepts one connection, writes chunks and then either closes or keeps the connection open until stop is closed
func serve(t *testing.T, chunks [][]byte, closeAfter bool, stop <-chan struct{}) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		for _, chunk := range chunks {
			if _, err := conn.Write(chunk); err != nil {
				return
			}
		}
		if closeAfter {
			return
		}
		<-stop
	}()
	return ln.Addr().String()
}

func TestReceiveUntilClosed(t *testing.T) {
	chunks := [][]byte{{0x34, 0x12}, {0xab, 0x00, 0x00}, {0x00, 0x00, 0x00, 0xff}}
	addr := serve(t, chunks, true, nil)

	result, err := Receive(context.Background(), testConfig(), sample.Rate200k, addr)
	require.NoError(t, err)
	assert.Equal(t, acquire.StopClosed, result.Reason)
	assert.Len(t, result.Buffer, 9)
	require.Len(t, result.Samples, 4)
	_, values := sample.Split(result.Samples)
	assert.Equal(t, []uint16{2737, 564, 0, 0}, values)
	assert.Equal(t, 5e-6, result.Samples[1].Time)
	assert.Equal(t, 4, result.Summary.Count)
}

func TestReceiveUntilTimeout(t *testing.T) {
	stop := make(chan struct{})
	defer close(stop)
	addr := serve(t, [][]byte{{0x34, 0x12, 0xab, 0x00}}, false, stop)

	result, err := Receive(context.Background(), testConfig(), sample.Rate1M, addr)
	require.NoError(t, err)
	assert.Equal(t, acquire.StopTimeout, result.Reason)
	assert.Equal(t, []byte{0x34, 0x12, 0xab, 0x00}, result.Buffer)
	require.Len(t, result.Samples, 2)
	assert.Equal(t, uint16(2737), result.Samples[0].Value)
}

func TestReceiveCancel(t *testing.T) {
	stop := make(chan struct{})
	defer close(stop)
	addr := serve(t, nil, false, stop)

	cfg := testConfig()
	cfg.ReadTimeout = 10 * time.Second
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(100 * time.Millisecond)
		cancel()
	}()

	begin := time.Now()
	result, err := Receive(ctx, cfg, sample.Rate2M, addr)
	require.NoError(t, err)
	assert.Equal(t, acquire.StopCancelled, result.Reason)
	assert.Empty(t, result.Samples)
	assert.Less(t, time.Since(begin), 5*time.Second)
}

func TestReceiveInvalidRate(t *testing.T) {
	_, err := Receive(context.Background(), testConfig(), sample.RateCode(4), "127.0.0.1:1")
	assert.Equal(t, sample.ErrInvalidConfiguration{Code: 4}, err)
}
