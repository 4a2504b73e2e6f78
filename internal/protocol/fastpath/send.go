package fastpath

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// InputEventPDU carries one or more client input events (MS-RDPBCGR
// 2.2.8.1.2) down the fast-path channel. The engine only ever sends a
// single event per PDU; numEvents/eventData are unexported and read by
// this package's tests.
type InputEventPDU struct {
	action    uint8
	numEvents uint8
	flags     uint8
	eventData []byte
}

// NewInputEventPDU wraps a single serialized input event for transmission.
func NewInputEventPDU(eventData []byte) *InputEventPDU {
	return &InputEventPDU{
		numEvents: 1,
		eventData: eventData,
	}
}

// SerializeLength encodes value using the fast-path variable length format:
// short form when it fits in 7 bits, long form (2 bytes, high bit set on
// the first byte) otherwise.
func (p *InputEventPDU) SerializeLength(value int, buf *bytes.Buffer) error {
	if value <= 0x7f {
		buf.WriteByte(byte(value + 1))
		return nil
	}

	if value > 0x7ffd {
		return fmt.Errorf("fastpath: pdu too large: %d", value)
	}

	var b [2]byte
	binary.BigEndian.PutUint16(b[:], uint16(0x8000|(value+2)))
	buf.Write(b[:])

	return nil
}

// Serialize encodes the PDU header, length and event data.
func (p *InputEventPDU) Serialize() []byte {
	header := p.action&0x3 | (p.numEvents&0xf)<<2 | (p.flags&0x3)<<6

	buf := new(bytes.Buffer)
	buf.WriteByte(header)
	_ = p.SerializeLength(1+len(p.eventData), buf)
	buf.Write(p.eventData)

	return buf.Bytes()
}

// Send writes an InputEventPDU to the connection.
func (p *Protocol) Send(pdu *InputEventPDU) error {
	_, err := p.conn.Write(pdu.Serialize())
	return err
}
