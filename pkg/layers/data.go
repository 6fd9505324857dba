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

package layers

import (
	"encoding/binary"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
)

const (
	// DataLayerNum identifies the data datagram layer
	DataLayerNum = 2100
	// DataHeaderSize is the packet type byte plus the 16-bit sequence counter
	DataHeaderSize = 3
	// DataMaxPayloadSize is the largest chunk of packed samples in one datagram
	DataMaxPayloadSize = 256
	// DataMaxSize is the largest datagram the device sends
	DataMaxSize = DataHeaderSize + DataMaxPayloadSize
)

// DataLayer is one datagram of the device data stream
//
//	byte 0     packet type
//	bytes 1-2  sequence counter, little endian
//	bytes 3..  up to 256 bytes of packed samples
type DataLayer struct {
	layers.BaseLayer
	Type    uint8
	Counter uint16
}

var DataLayerType = gopacket.RegisterLayerType(DataLayerNum,
	gopacket.LayerTypeMetadata{Name: "DataLayerType", Decoder: gopacket.DecodeFunc(decodeDataLayer)})

func (d *DataLayer) LayerType() gopacket.LayerType {
	return DataLayerType
}

func (d *DataLayer) CanDecode() gopacket.LayerClass {
	return DataLayerType
}

func (d *DataLayer) NextLayerType() gopacket.LayerType {
	return gopacket.LayerTypeZero
}

// DecodeFromBytes attempts to decode the byte slice as a data datagram.
// The payload is not copied.
func (d *DataLayer) DecodeFromBytes(data []byte, df gopacket.DecodeFeedback) error {
	if len(data) < DataHeaderSize {
		df.SetTruncated()
		return ErrDatagramTooShort{Length: len(data)}
	}
	if len(data) > DataMaxSize {
		return ErrDatagramTooLong{Length: len(data)}
	}
	d.BaseLayer = layers.BaseLayer{
		Contents: data[:DataHeaderSize],
		Payload:  data[DataHeaderSize:],
	}
	d.Type = data[0]
	d.Counter = binary.LittleEndian.Uint16(data[1:3])
	return nil
}

// SerializeTo writes the header in front of the payload already in the buffer
func (d *DataLayer) SerializeTo(b gopacket.SerializeBuffer, opts gopacket.SerializeOptions) error {
	if len(b.Bytes()) > DataMaxPayloadSize {
		return ErrDatagramTooLong{Length: len(b.Bytes()) + DataHeaderSize}
	}
	bytes, err := b.PrependBytes(DataHeaderSize)
	if err != nil {
		return err
	}
	bytes[0] = d.Type
	binary.LittleEndian.PutUint16(bytes[1:3], d.Counter)
	return nil
}

func decodeDataLayer(data []byte, p gopacket.PacketBuilder) error {
	d := &DataLayer{}
	err := d.DecodeFromBytes(data, p)
	if err != nil {
		return err
	}
	p.AddLayer(d)
	return nil
}

// DecodeData decodes one datagram without going through gopacket.Packet
func DecodeData(data []byte) (*DataLayer, error) {
	d := &DataLayer{}
	if err := d.DecodeFromBytes(data, gopacket.NilDecodeFeedback); err != nil {
		return nil, err
	}
	return d, nil
}

// DataToBytes builds a datagram as the device would send it
func DataToBytes(packetType uint8, counter uint16, payload []byte) ([]byte, error) {
	d := &DataLayer{Type: packetType, Counter: counter}
	buf := gopacket.NewSerializeBuffer()
	err := gopacket.SerializeLayers(buf, gopacket.SerializeOptions{}, d, gopacket.Payload(payload))
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
