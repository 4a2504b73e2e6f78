package pdu

import (
	"bytes"
	"encoding/binary"
	"io"
)

// ControlCapabilitySet represents the Control Capability Set
// (MS-RDPBCGR 2.2.7.2.2). This engine never contests control of the
// session, so every field beyond the interest flags is left at zero.
type ControlCapabilitySet struct{}

// NewControlCapabilitySet creates a Control Capability Set with client defaults.
func NewControlCapabilitySet() CapabilitySet {
	return CapabilitySet{
		CapabilitySetType:    CapabilitySetTypeControl,
		ControlCapabilitySet: &ControlCapabilitySet{},
	}
}

// Serialize encodes the capability set to wire format.
func (s *ControlCapabilitySet) Serialize() []byte {
	buf := new(bytes.Buffer)

	_ = binary.Write(buf, binary.LittleEndian, uint16(0)) // controlFlags
	_ = binary.Write(buf, binary.LittleEndian, uint16(0)) // remoteDetachFlag
	_ = binary.Write(buf, binary.LittleEndian, uint16(2)) // controlInterest
	_ = binary.Write(buf, binary.LittleEndian, uint16(2)) // detachInterest

	return buf.Bytes()
}

// Deserialize decodes the capability set from wire format.
func (s *ControlCapabilitySet) Deserialize(wire io.Reader) error {
	padding := make([]byte, 8)
	return binary.Read(wire, binary.LittleEndian, &padding)
}

// WindowActivationCapabilitySet represents the Window Activation Capability
// Set (MS-RDPBCGR 2.2.7.2.3).
type WindowActivationCapabilitySet struct{}

// NewWindowActivationCapabilitySet creates a Window Activation Capability Set.
func NewWindowActivationCapabilitySet() CapabilitySet {
	return CapabilitySet{
		CapabilitySetType:             CapabilitySetTypeActivation,
		WindowActivationCapabilitySet: &WindowActivationCapabilitySet{},
	}
}

// Serialize encodes the capability set to wire format.
func (s *WindowActivationCapabilitySet) Serialize() []byte {
	buf := new(bytes.Buffer)

	_ = binary.Write(buf, binary.LittleEndian, uint16(0)) // helpKeyFlag
	_ = binary.Write(buf, binary.LittleEndian, uint16(0)) // helpKeyIndexFlag
	_ = binary.Write(buf, binary.LittleEndian, uint16(0)) // helpExtendedKeyFlag
	_ = binary.Write(buf, binary.LittleEndian, uint16(0)) // windowManagerKeyFlag

	return buf.Bytes()
}

// Deserialize decodes the capability set from wire format.
func (s *WindowActivationCapabilitySet) Deserialize(wire io.Reader) error {
	padding := make([]byte, 8)
	return binary.Read(wire, binary.LittleEndian, &padding)
}

// ShareCapabilitySet represents the Share Capability Set (MS-RDPBCGR 2.2.7.2.4).
type ShareCapabilitySet struct{}

// NewShareCapabilitySet creates a Share Capability Set.
func NewShareCapabilitySet() CapabilitySet {
	return CapabilitySet{
		CapabilitySetType:  CapabilitySetTypeShare,
		ShareCapabilitySet: &ShareCapabilitySet{},
	}
}

// Serialize encodes the capability set to wire format.
func (s *ShareCapabilitySet) Serialize() []byte {
	buf := new(bytes.Buffer)

	_ = binary.Write(buf, binary.LittleEndian, uint16(0)) // nodeID, server-assigned
	_ = binary.Write(buf, binary.LittleEndian, uint16(0)) // pad2octets

	return buf.Bytes()
}

// Deserialize decodes the capability set from wire format.
func (s *ShareCapabilitySet) Deserialize(wire io.Reader) error {
	padding := make([]byte, 4)
	return binary.Read(wire, binary.LittleEndian, &padding)
}

// FontCapabilitySet represents the Font Capability Set (MS-RDPBCGR 2.2.7.2.5).
type FontCapabilitySet struct {
	fontSupportFlags uint16
}

// NewFontCapabilitySet creates a Font Capability Set advertising FontSupported.
func NewFontCapabilitySet() CapabilitySet {
	return CapabilitySet{
		CapabilitySetType: CapabilitySetTypeFont,
		FontCapabilitySet: &FontCapabilitySet{fontSupportFlags: 0x0001}, // FONTSUPPORT_FONTLIST
	}
}

// Serialize encodes the capability set to wire format.
func (s *FontCapabilitySet) Serialize() []byte {
	buf := new(bytes.Buffer)

	_ = binary.Write(buf, binary.LittleEndian, s.fontSupportFlags)
	_ = binary.Write(buf, binary.LittleEndian, uint16(0)) // pad2octets

	return buf.Bytes()
}

// Deserialize decodes the capability set from wire format.
func (s *FontCapabilitySet) Deserialize(wire io.Reader) error {
	if err := binary.Read(wire, binary.LittleEndian, &s.fontSupportFlags); err != nil {
		return err
	}

	var padding uint16
	return binary.Read(wire, binary.LittleEndian, &padding)
}

// LargePointerCapabilitySet represents the Large Pointer Capability Set
// (MS-RDPBCGR 2.2.7.2.7). Advertising it unlocks the 384x384 pointer update
// on servers that gate it behind capability negotiation.
type LargePointerCapabilitySet struct {
	LargePointerSupportFlags uint16
}

// NewLargePointerCapabilitySet creates a Large Pointer Capability Set
// advertising support for 384x384 pointers.
func NewLargePointerCapabilitySet() CapabilitySet {
	return CapabilitySet{
		CapabilitySetType:         CapabilitySetTypeLargePointer,
		LargePointerCapabilitySet: &LargePointerCapabilitySet{LargePointerSupportFlags: 0x0003}, // LARGE_POINTER_FLAG_96x96 | LARGE_POINTER_FLAG_384x384
	}
}

// Serialize encodes the capability set to wire format.
func (s *LargePointerCapabilitySet) Serialize() []byte {
	buf := new(bytes.Buffer)
	_ = binary.Write(buf, binary.LittleEndian, s.LargePointerSupportFlags)
	return buf.Bytes()
}

// Deserialize decodes the capability set from wire format.
func (s *LargePointerCapabilitySet) Deserialize(wire io.Reader) error {
	return binary.Read(wire, binary.LittleEndian, &s.LargePointerSupportFlags)
}
