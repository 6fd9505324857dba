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
	"context"
	"net"
	"sync"
	"time"

	"uni-lj.si/cora-z7/go-daq/pkg/config"
	"uni-lj.si/cora-z7/go-daq/pkg/layers"
	"uni-lj.si/cora-z7/go-daq/pkg/log"
	"uni-lj.si/cora-z7/go-daq/pkg/reassembly"
	"uni-lj.si/cora-z7/go-daq/pkg/sample"
	"uni-lj.si/cora-z7/go-daq/pkg/sequence"
	"uni-lj.si/cora-z7/go-daq/pkg/srv"
)

// Conn is the part of a connected UDP socket a session needs. *net.UDPConn implements it.
type Conn interface {
	Read(b []byte) (int, error)
	Write(b []byte) (int, error)
	SetReadDeadline(t time.Time) error
	Close() error
}

// CloseResult captures the outcome of the best-effort stop command and socket close.
// Neither failure is fatal for the session.
type CloseResult struct {
	StopErr  error
	CloseErr error
}

func (c CloseResult) Log() {
	if c.StopErr != nil {
		log.Warning("Error occurred when disconnecting: %s", c.StopErr)
	}
	if c.CloseErr != nil {
		log.Warning("Socket didn't close properly: %s", c.CloseErr)
	}
}

// Result is what a stopped session yields
type Result struct {
	RateCode sample.RateCode
	Samples  []sample.Sample
	Buffer   []byte
	Gaps     []reassembly.GapInfo
	Stats
	Summary sample.Summary
	Reason  StopReason
	Close   CloseResult
	// Started is when the start command was sent, First and Last are the
	// arrival times of the first and last datagram.
	Started time.Time
	First   time.Time
	Last    time.Time
}

// Duration returns the time between the first and the last datagram
func (r *Result) Duration() time.Duration {
	if r.First.IsZero() {
		return 0
	}
	return r.Last.Sub(r.First)
}

// Session drives one acquisition: start command, receive loop, stop command, decoding.
// A session is single use.
type Session struct {
	cfg      *config.AcquireConfig
	rateCode sample.RateCode
	conn     Conn
	state    State
	tracker  *sequence.Tracker
	asm      *reassembly.Reassembler
	stats    Stats
	result   *Result
	// mu orders deadline updates between the receive loop and the cancellation watcher
	mu sync.Mutex
}

// NewSession checks the rate code before anything touches the network
func NewSession(cfg *config.AcquireConfig, rateCode sample.RateCode, conn Conn) (*Session, error) {
	if err := rateCode.Validate(); err != nil {
		return nil, err
	}
	return &Session{
		cfg:      cfg,
		rateCode: rateCode,
		conn:     conn,
		state:    StateIdle,
		tracker:  sequence.NewTracker(),
		asm:      reassembly.NewReassembler(),
		result:   &Result{RateCode: rateCode},
	}, nil
}

// Acquire connects to the device at address (host:port) and runs one session
func Acquire(ctx context.Context, cfg *config.AcquireConfig, rateCode sample.RateCode, address string) (*Result, error) {
	if err := rateCode.Validate(); err != nil {
		return nil, err
	}
	raddr, err := net.ResolveUDPAddr("udp", address)
	if err != nil {
		return nil, err
	}
	conn, err := net.DialUDP("udp", nil, raddr)
	if err != nil {
		return nil, err
	}
	log.Info("Connected to %s from %s", raddr, conn.LocalAddr())
	s, err := NewSession(cfg, rateCode, conn)
	if err != nil {
		conn.Close()
		return nil, err
	}
	return s.Run(ctx)
}

func (s *Session) State() State {
	return s.state
}

// Run sends the start command, receives until the receive timeout elapses or
// ctx is cancelled, sends the stop command and decodes the assembled buffer.
// A receive timeout or cancellation is a normal end and yields a nil error.
// On a read error the partial result is returned together with the error.
func (s *Session) Run(ctx context.Context) (*Result, error) {
	if s.state != StateIdle {
		return nil, ErrWrongState{State: s.state}
	}

	if ok, err := srv.SetReadBuffer(s.conn, s.cfg.ReadBufferSize); !ok {
		log.Warning("Unable to set the receive buffer to %d bytes: %v. Might experience packet loss.",
			s.cfg.ReadBufferSize, err)
	}

	if err := s.start(); err != nil {
		s.state = StateStopped
		if closeErr := s.conn.Close(); closeErr != nil {
			log.Warning("Socket didn't close properly: %s", closeErr)
		}
		return nil, err
	}

	done := make(chan struct{})
	go s.watch(ctx, done)
	readErr := s.receive(ctx)
	close(done)

	s.result.Close = s.shutdown()
	s.result.Close.Log()
	s.finish()
	if readErr != nil {
		return s.result, readErr
	}
	return s.result, nil
}

func (s *Session) start() error {
	data, err := layers.StartToBytes(uint8(s.rateCode))
	if err != nil {
		return err
	}
	log.Info("Starting acquisition: rate code: %s sample rate: %g Hz", s.rateCode, s.rateCode.SampleRate())
	n, err := s.conn.Write(data)
	if err != nil {
		return srv.ErrSend{What: "start", Err: err}
	}
	if n != len(data) {
		return srv.ErrSend{What: "start", Sent: n}
	}
	s.state = StateStarted
	s.result.Started = time.Now()
	return nil
}

// watch forces a pending read to return once ctx is cancelled
func (s *Session) watch(ctx context.Context, done <-chan struct{}) {
	select {
	case <-ctx.Done():
		s.mu.Lock()
		defer s.mu.Unlock()
		log.Info("Acquisition cancelled. Exiting gracefully")
		if err := s.conn.SetReadDeadline(time.Unix(1, 0)); err != nil {
			log.Debug("Error while interrupting read: %s", err)
		}
	case <-done:
	}
}

func (s *Session) armDeadline(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.conn.SetReadDeadline(time.Now().Add(s.cfg.ReceiveTimeout))
}

func (s *Session) receive(ctx context.Context) error {
	buffer := make([]byte, 65536)
	for {
		if err := s.armDeadline(ctx); err != nil {
			if ctx.Err() != nil {
				s.result.Reason = StopCancelled
				return nil
			}
			s.result.Reason = StopReadError
			return srv.ErrReceive{Err: err}
		}
		length, err := s.conn.Read(buffer)
		if err != nil {
			if ctx.Err() != nil {
				s.result.Reason = StopCancelled
				return nil
			}
			if srv.IsTimeout(err) {
				log.Info("Request timed out")
				s.result.Reason = StopTimeout
				return nil
			}
			log.Error("Error occurred when reading from socket: %s", err)
			s.result.Reason = StopReadError
			return srv.ErrReceive{Err: err}
		}
		s.handle(srv.NewInPacket(buffer, length, nil))
	}
}

// handle feeds one datagram to the tracker and the reassembler.
// Malformed datagrams are counted and skipped, the tracker does not see them.
func (s *Session) handle(packet srv.InPacket) {
	if s.state == StateStarted {
		s.state = StateReceiving
		s.result.First = packet.Timestamp
	}
	s.result.Last = packet.Timestamp

	d, err := layers.DecodeData(packet.Data)
	if err != nil {
		log.Warning("Drop datagram: %s", err)
		s.stats.Malformed++
		return
	}

	expected := s.tracker.Expected()
	verdict := s.tracker.Classify(sequence.Counter(d.Counter))
	s.stats.Datagrams++
	if verdict.Kind == sequence.Gap {
		log.Debug("Expected %d, got %d: %s", expected, d.Counter, verdict)
		s.stats.Gaps++
		s.stats.Lost += int(verdict.Missing)
	} else {
		s.stats.InOrder++
	}
	s.asm.Push(d.LayerPayload(), verdict)
}

// shutdown sends the stop command and closes the socket. Failures are captured, not returned.
func (s *Session) shutdown() CloseResult {
	var result CloseResult
	data, err := layers.StopToBytes()
	if err == nil {
		var n int
		n, err = s.conn.Write(data)
		if err == nil && n != len(data) {
			err = srv.ErrSend{What: "stop", Sent: n}
		} else if err != nil {
			err = srv.ErrSend{What: "stop", Err: err}
		}
	}
	result.StopErr = err
	result.CloseErr = s.conn.Close()
	s.state = StateStopped
	return result
}

func (s *Session) finish() {
	buf := s.asm.Bytes()
	values := sample.Decode(buf)

	s.result.Buffer = buf
	s.result.Gaps = s.asm.Gaps()
	s.result.Samples = sample.Timebase(values, s.rateCode)
	s.result.Stats = s.stats
	s.result.Summary = sample.Summarize(values)

	for _, gap := range s.result.Gaps {
		log.Info("At %d lost %d", gap.Offset, gap.Missing)
	}
	log.Info("Acquisition stopped (%s): %s", s.result.Reason, s.stats)
	if len(values) > 0 {
		log.Info("Samples: %s", s.result.Summary)
	}
}
