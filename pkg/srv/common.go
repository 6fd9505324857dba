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

package srv

import (
	"errors"
	"net"
	"os"
	"time"

	"github.com/google/gopacket"
)

// InPacket is one datagram read from the wire together with its capture metadata
type InPacket struct {
	Data []byte
	gopacket.CaptureInfo
}

// NewInPacket copies the first length bytes of buffer, the read buffer is reused by the caller
func NewInPacket(buffer []byte, length int, addr net.Addr) InPacket {
	packet := InPacket{
		Data: make([]byte, length),
		CaptureInfo: gopacket.CaptureInfo{
			Timestamp:     time.Now(),
			Length:        length,
			CaptureLength: length,
		},
	}
	if addr != nil {
		packet.AncillaryData = []interface{}{addr}
	}
	copy(packet.Data, buffer[:length])
	return packet
}

// IsTimeout reports whether a read error was caused by an expired deadline
func IsTimeout(err error) bool {
	if errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// SetReadBuffer tries to resize the kernel receive buffer of conn.
// It returns false if conn does not support it or the kernel refused the size.
func SetReadBuffer(conn interface{}, size int) (bool, error) {
	if size <= 0 {
		return true, nil
	}
	rb, ok := conn.(interface{ SetReadBuffer(int) error })
	if !ok {
		return false, nil
	}
	if err := rb.SetReadBuffer(size); err != nil {
		return false, err
	}
	return true, nil
}
