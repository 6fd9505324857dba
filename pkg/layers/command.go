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
	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
)

const (
	// CommandLayerNum identifies the control command layer
	CommandLayerNum = 2101
)

type CommandType uint8

const (
	CommandStart CommandType = 0x00
	CommandStop  CommandType = 0x01
)

func (t CommandType) String() string {
	switch t {
	case CommandStart:
		return "start"
	case CommandStop:
		return "stop"
	}
	return "unknown"
}

// CommandLayer is a control message sent from the host to the device.
// Start carries the sample rate code as its only argument, stop has none.
type CommandLayer struct {
	layers.BaseLayer
	Type     CommandType
	RateCode uint8
}

var CommandLayerType = gopacket.RegisterLayerType(CommandLayerNum,
	gopacket.LayerTypeMetadata{Name: "CommandLayerType", Decoder: gopacket.DecodeFunc(decodeCommandLayer)})

func (c *CommandLayer) LayerType() gopacket.LayerType {
	return CommandLayerType
}

// Len returns the size of the serialized command
func (c *CommandLayer) Len() int {
	if c.Type == CommandStart {
		return 2
	}
	return 1
}

func (c *CommandLayer) SerializeTo(b gopacket.SerializeBuffer, opts gopacket.SerializeOptions) error {
	bytes, err := b.PrependBytes(c.Len())
	if err != nil {
		return err
	}
	bytes[0] = uint8(c.Type)
	if c.Type == CommandStart {
		bytes[1] = c.RateCode
	}
	return nil
}

func (c *CommandLayer) DecodeFromBytes(data []byte, df gopacket.DecodeFeedback) error {
	if len(data) < 1 {
		df.SetTruncated()
		return ErrCommandMalformed{Length: len(data)}
	}
	c.Type = CommandType(data[0])
	switch c.Type {
	case CommandStart:
		if len(data) != 2 {
			return ErrCommandMalformed{Type: c.Type, Length: len(data)}
		}
		c.RateCode = data[1]
	case CommandStop:
		if len(data) != 1 {
			return ErrCommandMalformed{Type: c.Type, Length: len(data)}
		}
	default:
		return ErrCommandMalformed{Type: c.Type, Length: len(data)}
	}
	c.BaseLayer = layers.BaseLayer{
		Contents: data,
		Payload:  []byte{},
	}
	return nil
}

func decodeCommandLayer(data []byte, p gopacket.PacketBuilder) error {
	c := &CommandLayer{}
	err := c.DecodeFromBytes(data, p)
	if err != nil {
		return err
	}
	p.AddLayer(c)
	return nil
}

// StartToBytes builds the start command for the given rate code
func StartToBytes(rateCode uint8) ([]byte, error) {
	return commandToBytes(&CommandLayer{Type: CommandStart, RateCode: rateCode})
}

// StopToBytes builds the stop command
func StopToBytes() ([]byte, error) {
	return commandToBytes(&CommandLayer{Type: CommandStop})
}

func commandToBytes(c *CommandLayer) ([]byte, error) {
	buf := gopacket.NewSerializeBuffer()
	err := gopacket.SerializeLayers(buf, gopacket.SerializeOptions{}, c)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
