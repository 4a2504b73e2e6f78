package session

import (
	"bytes"
	"encoding/binary"
)

// Fast-path input event codes (MS-RDPBCGR 2.2.8.1.2.2, eventHeader low
// 3 bits).
const (
	fastPathEventCodeScancode = 0x0
	fastPathEventCodeMouse    = 0x1
	fastPathEventCodeUnicode  = 0x4
)

// Keyboard event flags packed into eventHeader's 5-bit eventFlags field
// (MS-RDPBCGR 2.2.8.1.2.2.1).
const (
	kbdFlagRelease = 0x01
	kbdFlagExtended = 0x02
)

func fastPathEventHeader(eventCode, eventFlags uint8) uint8 {
	return eventFlags<<3 | eventCode&0x7
}

// MouseButton identifies which button a MouseButton event reports.
type MouseButton uint8

const (
	MouseButtonLeft MouseButton = iota
	MouseButtonRight
	MouseButtonMiddle
)

// MouseMove sends a pointer move event. With fast-path input negotiated
// this is exactly 7 bytes on the wire: PDU header, length, eventHeader,
// then x and y as little-endian uint16 (spec edge case: fast-path input
// framing).
func (c *Client) MouseMove(x, y uint16) error {
	return c.sendMouseEvent(0, x, y)
}

// MouseButtonEvent reports a button press or release at (x, y).
func (c *Client) MouseButtonEvent(x, y uint16, button MouseButton, pressed bool) error {
	flags := uint8(button) << 1
	if pressed {
		flags |= 0x01
	}

	return c.sendMouseEvent(flags, x, y)
}

func (c *Client) sendMouseEvent(eventFlags uint8, x, y uint16) error {
	body := new(bytes.Buffer)
	body.WriteByte(fastPathEventHeader(fastPathEventCodeMouse, eventFlags))
	_ = binary.Write(body, binary.LittleEndian, x)
	_ = binary.Write(body, binary.LittleEndian, y)

	return c.SendInputEvent(body.Bytes())
}

// MouseWheel reports a wheel scroll at (x, y). deltaUnits is a signed
// multiple of 120, matching WHEEL_DELTA on the wire (positive = away from
// the user).
func (c *Client) MouseWheel(x, y uint16, deltaUnits int16) error {
	const eventFlagWheel = 0x10

	body := new(bytes.Buffer)
	body.WriteByte(fastPathEventHeader(fastPathEventCodeMouse, eventFlagWheel))
	_ = binary.Write(body, binary.LittleEndian, deltaUnits)
	_ = binary.Write(body, binary.LittleEndian, x)
	_ = binary.Write(body, binary.LittleEndian, y)

	return c.SendInputEvent(body.Bytes())
}

// KeyScancode sends a raw hardware scancode press or release
// (MS-RDPBCGR 2.2.8.1.2.2.2).
func (c *Client) KeyScancode(code uint16, pressed, extended bool) error {
	var flags uint8
	if !pressed {
		flags |= kbdFlagRelease
	}
	if extended {
		flags |= kbdFlagExtended
	}

	body := new(bytes.Buffer)
	body.WriteByte(fastPathEventHeader(fastPathEventCodeScancode, flags))
	_ = binary.Write(body, binary.LittleEndian, code)

	return c.SendInputEvent(body.Bytes())
}

// KeyUnicode sends a Unicode codepoint press or release
// (MS-RDPBCGR 2.2.8.1.2.2.3), for input that has no meaningful scancode.
func (c *Client) KeyUnicode(codepoint uint16, pressed bool) error {
	var flags uint8
	if !pressed {
		flags |= kbdFlagRelease
	}

	body := new(bytes.Buffer)
	body.WriteByte(fastPathEventHeader(fastPathEventCodeUnicode, flags))
	_ = binary.Write(body, binary.LittleEndian, codepoint)

	return c.SendInputEvent(body.Bytes())
}
