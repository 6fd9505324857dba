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
	"bytes"
	"context"
	"errors"
	"io"
	"net"
	"sync"
	"time"

	"uni-lj.si/cora-z7/go-daq/pkg/config"
	"uni-lj.si/cora-z7/go-daq/pkg/log"
	"uni-lj.si/cora-z7/go-daq/pkg/sample"
	"uni-lj.si/cora-z7/go-daq/pkg/srv"
	"uni-lj.si/cora-z7/go-daq/pkg/srv/acquire"
)

// Reader accumulates a raw sample stream. The stream carries no framing
// and no sequence counters, bytes are appended in arrival order.
type Reader struct {
	cfg      *config.StreamConfig
	rateCode sample.RateCode
	conn     net.Conn
	buffer   bytes.Buffer
	result   *acquire.Result
	mu       sync.Mutex
}

func NewReader(cfg *config.StreamConfig, rateCode sample.RateCode, conn net.Conn) (*Reader, error) {
	if err := rateCode.Validate(); err != nil {
		return nil, err
	}
	return &Reader{
		cfg:      cfg,
		rateCode: rateCode,
		conn:     conn,
		result:   &acquire.Result{RateCode: rateCode},
	}, nil
}

// Receive connects to address (host:port) and reads the stream until it goes quiet
func Receive(ctx context.Context, cfg *config.StreamConfig, rateCode sample.RateCode, address string) (*acquire.Result, error) {
	if err := rateCode.Validate(); err != nil {
		return nil, err
	}
	dialer := &net.Dialer{Timeout: cfg.ReadTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", address)
	if err != nil {
		return nil, err
	}
	log.Info("Connected to %s from %s", conn.RemoteAddr(), conn.LocalAddr())
	r, err := NewReader(cfg, rateCode, conn)
	if err != nil {
		conn.Close()
		return nil, err
	}
	return r.Run(ctx)
}

// Run reads until the read timeout elapses, the peer closes the stream or
// ctx is cancelled. All three are a normal end. The connection is closed on return.
func (r *Reader) Run(ctx context.Context) (*acquire.Result, error) {
	r.result.Started = time.Now()
	done := make(chan struct{})
	go r.watch(ctx, done)
	readErr := r.receive(ctx)
	close(done)

	r.result.Close = acquire.CloseResult{CloseErr: r.conn.Close()}
	r.result.Close.Log()
	r.finish()
	if readErr != nil {
		return r.result, readErr
	}
	return r.result, nil
}

func (r *Reader) watch(ctx context.Context, done <-chan struct{}) {
	select {
	case <-ctx.Done():
		r.mu.Lock()
		defer r.mu.Unlock()
		log.Info("Stream read cancelled. Exiting gracefully")
		if err := r.conn.SetReadDeadline(time.Unix(1, 0)); err != nil {
			log.Debug("Error while interrupting read: %s", err)
		}
	case <-done:
	}
}

func (r *Reader) armDeadline(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.conn.SetReadDeadline(time.Now().Add(r.cfg.ReadTimeout))
}

func (r *Reader) receive(ctx context.Context) error {
	chunkSize := r.cfg.ChunkSize
	if chunkSize <= 0 {
		chunkSize = config.DefaultStreamChunkSize
	}
	chunk := make([]byte, chunkSize)
	for {
		if err := r.armDeadline(ctx); err != nil {
			if ctx.Err() != nil {
				r.result.Reason = acquire.StopCancelled
				return nil
			}
			r.result.Reason = acquire.StopReadError
			return srv.ErrReceive{Err: err}
		}
		n, err := r.conn.Read(chunk)
		if n > 0 {
			now := time.Now()
			if r.result.First.IsZero() {
				r.result.First = now
			}
			r.result.Last = now
			r.buffer.Write(chunk[:n])
		}
		if err == nil {
			continue
		}
		switch {
		case ctx.Err() != nil:
			r.result.Reason = acquire.StopCancelled
			return nil
		case errors.Is(err, io.EOF):
			log.Info("Stream closed by peer")
			r.result.Reason = acquire.StopClosed
			return nil
		case srv.IsTimeout(err):
			log.Info("Request timed out")
			r.result.Reason = acquire.StopTimeout
			return nil
		}
		log.Error("Error occurred when reading from socket: %s", err)
		r.result.Reason = acquire.StopReadError
		return srv.ErrReceive{Err: err}
	}
}

func (r *Reader) finish() {
	values := sample.Decode(r.buffer.Bytes())
	r.result.Buffer = r.buffer.Bytes()
	r.result.Samples = sample.Timebase(values, r.rateCode)
	r.result.Summary = sample.Summarize(values)
	if rest := r.buffer.Len() % sample.GroupSize; rest != 0 {
		log.Warning("Dropping %d trailing bytes of an incomplete sample group", rest)
	}
	log.Info("Stream read stopped (%s): %d bytes", r.result.Reason, r.buffer.Len())
	if len(values) > 0 {
		log.Info("Samples: %s", r.result.Summary)
	}
}
