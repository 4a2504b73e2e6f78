package pdu

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

// CapabilitySetType identifies the kind of capability set carried in a
// Demand Active / Confirm Active PDU (MS-RDPBCGR 2.2.7.1).
type CapabilitySetType uint16

const (
	CapabilitySetTypeGeneral              CapabilitySetType = 0x0001
	CapabilitySetTypeBitmap               CapabilitySetType = 0x0002
	CapabilitySetTypeOrder                CapabilitySetType = 0x0003
	CapabilitySetTypeBitmapCache          CapabilitySetType = 0x0004
	CapabilitySetTypeControl              CapabilitySetType = 0x0005
	CapabilitySetTypeActivation           CapabilitySetType = 0x0007
	CapabilitySetTypePointer              CapabilitySetType = 0x0008
	CapabilitySetTypeShare                CapabilitySetType = 0x0009
	CapabilitySetTypeInput                CapabilitySetType = 0x000D
	CapabilitySetTypeFont                 CapabilitySetType = 0x000E
	CapabilitySetTypeBrush                CapabilitySetType = 0x000F
	CapabilitySetTypeGlyphCache           CapabilitySetType = 0x0010
	CapabilitySetTypeOffscreenBitmapCache CapabilitySetType = 0x0011
	CapabilitySetTypeSound                CapabilitySetType = 0x000C
	CapabilitySetTypeVirtualChannel       CapabilitySetType = 0x0014
	CapabilitySetTypeLargePointer         CapabilitySetType = 0x001C
)

// CapabilitySet is a tagged union over the capability sets this engine
// negotiates. Exactly one of the pointer fields matching CapabilitySetType
// is populated for a given instance (MS-RDPBCGR 2.2.7.1.1 - 2.2.7.2.7).
type CapabilitySet struct {
	CapabilitySetType CapabilitySetType

	GeneralCapabilitySet               *GeneralCapabilitySet
	BitmapCapabilitySet                *BitmapCapabilitySet
	OrderCapabilitySet                 *OrderCapabilitySet
	BitmapCacheCapabilitySetRev1       *BitmapCacheCapabilitySetRev1
	ControlCapabilitySet               *ControlCapabilitySet
	WindowActivationCapabilitySet      *WindowActivationCapabilitySet
	PointerCapabilitySet               *PointerCapabilitySet
	ShareCapabilitySet                 *ShareCapabilitySet
	InputCapabilitySet                 *InputCapabilitySet
	FontCapabilitySet                  *FontCapabilitySet
	BrushCapabilitySet                 *BrushCapabilitySet
	GlyphCacheCapabilitySet            *GlyphCacheCapabilitySet
	OffscreenBitmapCacheCapabilitySet  *OffscreenBitmapCacheCapabilitySet
	SoundCapabilitySet                 *SoundCapabilitySet
	VirtualChannelCapabilitySet        *VirtualChannelCapabilitySet
	LargePointerCapabilitySet          *LargePointerCapabilitySet

	// unknown carries the raw body of a capability set type this engine
	// does not negotiate, so DeserializeQuick can skip past it losslessly.
	unknown []byte
}

type serializable interface {
	Serialize() []byte
}

func (s *CapabilitySet) body() serializable {
	switch {
	case s.GeneralCapabilitySet != nil:
		return s.GeneralCapabilitySet
	case s.BitmapCapabilitySet != nil:
		return s.BitmapCapabilitySet
	case s.OrderCapabilitySet != nil:
		return s.OrderCapabilitySet
	case s.BitmapCacheCapabilitySetRev1 != nil:
		return s.BitmapCacheCapabilitySetRev1
	case s.ControlCapabilitySet != nil:
		return s.ControlCapabilitySet
	case s.WindowActivationCapabilitySet != nil:
		return s.WindowActivationCapabilitySet
	case s.PointerCapabilitySet != nil:
		return s.PointerCapabilitySet
	case s.ShareCapabilitySet != nil:
		return s.ShareCapabilitySet
	case s.InputCapabilitySet != nil:
		return s.InputCapabilitySet
	case s.FontCapabilitySet != nil:
		return s.FontCapabilitySet
	case s.BrushCapabilitySet != nil:
		return s.BrushCapabilitySet
	case s.GlyphCacheCapabilitySet != nil:
		return s.GlyphCacheCapabilitySet
	case s.OffscreenBitmapCacheCapabilitySet != nil:
		return s.OffscreenBitmapCacheCapabilitySet
	case s.SoundCapabilitySet != nil:
		return s.SoundCapabilitySet
	case s.VirtualChannelCapabilitySet != nil:
		return s.VirtualChannelCapabilitySet
	case s.LargePointerCapabilitySet != nil:
		return s.LargePointerCapabilitySet
	default:
		return nil
	}
}

// Serialize encodes the capability set as {type u16 LE}{length u16 LE}{body},
// where length includes the 4-byte header (MS-RDPBCGR 2.2.7.1).
func (s *CapabilitySet) Serialize() []byte {
	var body []byte
	if b := s.body(); b != nil {
		body = b.Serialize()
	} else {
		body = s.unknown
	}

	buf := new(bytes.Buffer)
	_ = binary.Write(buf, binary.LittleEndian, uint16(s.CapabilitySetType))
	_ = binary.Write(buf, binary.LittleEndian, uint16(4+len(body))) // #nosec G115
	buf.Write(body)

	return buf.Bytes()
}

// Deserialize decodes a single capability set from wire format, dispatching
// on the type field. Unrecognized types are retained verbatim in unknown so
// re-serialization is lossless.
func (s *CapabilitySet) Deserialize(wire io.Reader) error {
	var (
		capType CapabilitySetType
		length  uint16
	)

	if err := binary.Read(wire, binary.LittleEndian, &capType); err != nil {
		return err
	}
	if err := binary.Read(wire, binary.LittleEndian, &length); err != nil {
		return err
	}

	if length < 4 {
		return fmt.Errorf("pdu: capability set %#x has invalid length %d", capType, length)
	}

	body := make([]byte, length-4)
	if _, err := io.ReadFull(wire, body); err != nil {
		return err
	}

	s.CapabilitySetType = capType
	r := bytes.NewReader(body)

	switch capType {
	case CapabilitySetTypeGeneral:
		s.GeneralCapabilitySet = &GeneralCapabilitySet{}
		return s.GeneralCapabilitySet.Deserialize(r)
	case CapabilitySetTypeBitmap:
		s.BitmapCapabilitySet = &BitmapCapabilitySet{}
		return s.BitmapCapabilitySet.Deserialize(r)
	case CapabilitySetTypeOrder:
		s.OrderCapabilitySet = &OrderCapabilitySet{}
		return s.OrderCapabilitySet.Deserialize(r)
	case CapabilitySetTypeBitmapCache:
		s.BitmapCacheCapabilitySetRev1 = &BitmapCacheCapabilitySetRev1{}
		return s.BitmapCacheCapabilitySetRev1.Deserialize(r)
	case CapabilitySetTypeControl:
		s.ControlCapabilitySet = &ControlCapabilitySet{}
		return s.ControlCapabilitySet.Deserialize(r)
	case CapabilitySetTypeActivation:
		s.WindowActivationCapabilitySet = &WindowActivationCapabilitySet{}
		return s.WindowActivationCapabilitySet.Deserialize(r)
	case CapabilitySetTypePointer:
		s.PointerCapabilitySet = &PointerCapabilitySet{lengthCapability: length - 4}
		return s.PointerCapabilitySet.Deserialize(r)
	case CapabilitySetTypeShare:
		s.ShareCapabilitySet = &ShareCapabilitySet{}
		return s.ShareCapabilitySet.Deserialize(r)
	case CapabilitySetTypeInput:
		s.InputCapabilitySet = &InputCapabilitySet{}
		return s.InputCapabilitySet.Deserialize(r)
	case CapabilitySetTypeFont:
		s.FontCapabilitySet = &FontCapabilitySet{}
		return s.FontCapabilitySet.Deserialize(r)
	case CapabilitySetTypeBrush:
		s.BrushCapabilitySet = &BrushCapabilitySet{}
		return s.BrushCapabilitySet.Deserialize(r)
	case CapabilitySetTypeGlyphCache:
		s.GlyphCacheCapabilitySet = &GlyphCacheCapabilitySet{}
		return s.GlyphCacheCapabilitySet.Deserialize(r)
	case CapabilitySetTypeOffscreenBitmapCache:
		s.OffscreenBitmapCacheCapabilitySet = &OffscreenBitmapCacheCapabilitySet{}
		return s.OffscreenBitmapCacheCapabilitySet.Deserialize(r)
	case CapabilitySetTypeSound:
		s.SoundCapabilitySet = &SoundCapabilitySet{}
		return s.SoundCapabilitySet.Deserialize(r)
	case CapabilitySetTypeVirtualChannel:
		s.VirtualChannelCapabilitySet = &VirtualChannelCapabilitySet{}
		return s.VirtualChannelCapabilitySet.Deserialize(r)
	case CapabilitySetTypeLargePointer:
		s.LargePointerCapabilitySet = &LargePointerCapabilitySet{}
		return s.LargePointerCapabilitySet.Deserialize(r)
	default:
		s.unknown = body
		return nil
	}
}

// DeserializeQuick decodes only the type and length fields, retaining the
// body verbatim. It is used when a caller only needs to inspect the
// capability set type without paying for a full field-by-field decode.
func (s *CapabilitySet) DeserializeQuick(wire io.Reader) error {
	var (
		capType CapabilitySetType
		length  uint16
	)

	if err := binary.Read(wire, binary.LittleEndian, &capType); err != nil {
		return err
	}
	if err := binary.Read(wire, binary.LittleEndian, &length); err != nil {
		return err
	}

	if length < 4 {
		return fmt.Errorf("pdu: capability set %#x has invalid length %d", capType, length)
	}

	body := make([]byte, length-4)
	if _, err := io.ReadFull(wire, body); err != nil {
		return err
	}

	s.CapabilitySetType = capType
	s.unknown = body

	return nil
}

// ServerDemandActive represents the TS_DEMAND_ACTIVE_PDU sent by the server
// to open capability negotiation (MS-RDPBCGR 2.2.1.13.1).
type ServerDemandActive struct {
	ShareID          uint32
	SourceDescriptor []byte
	CapabilitySets   []CapabilitySet
	SessionID        uint32
}

// Serialize encodes the Server Demand Active PDU to wire format, wrapped in
// a Share Control Header. Only used by tests that need to fabricate a
// server response; a real server sends this PDU, this engine only receives it.
func (pdu *ServerDemandActive) Serialize() []byte {
	capBuf := new(bytes.Buffer)
	for i := range pdu.CapabilitySets {
		capBuf.Write(pdu.CapabilitySets[i].Serialize())
	}

	body := new(bytes.Buffer)
	_ = binary.Write(body, binary.LittleEndian, pdu.ShareID)
	_ = binary.Write(body, binary.LittleEndian, uint16(len(pdu.SourceDescriptor))) // #nosec G115
	_ = binary.Write(body, binary.LittleEndian, uint16(4+capBuf.Len()))            // #nosec G115: lengthCombinedCapabilities
	body.Write(pdu.SourceDescriptor)
	_ = binary.Write(body, binary.LittleEndian, uint16(len(pdu.CapabilitySets))) // #nosec G115
	_ = binary.Write(body, binary.LittleEndian, uint16(0))                      // pad2octets
	body.Write(capBuf.Bytes())
	_ = binary.Write(body, binary.LittleEndian, pdu.SessionID)

	header := newShareControlHeader(TypeDemandActive, 0)
	header.TotalLength = uint16(6 + body.Len()) // #nosec G115

	out := new(bytes.Buffer)
	out.Write(header.Serialize())
	out.Write(body.Bytes())

	return out.Bytes()
}

// Deserialize decodes a Server Demand Active PDU from wire format, including
// its Share Control Header.
func (pdu *ServerDemandActive) Deserialize(wire io.Reader) error {
	var (
		header                     ShareControlHeader
		lengthSourceDescriptor     uint16
		lengthCombinedCapabilities uint16
		numberCapabilities         uint16
		pad2octets                 uint16
	)

	if err := header.Deserialize(wire); err != nil {
		return err
	}

	if err := binary.Read(wire, binary.LittleEndian, &pdu.ShareID); err != nil {
		return err
	}
	if err := binary.Read(wire, binary.LittleEndian, &lengthSourceDescriptor); err != nil {
		return err
	}
	if err := binary.Read(wire, binary.LittleEndian, &lengthCombinedCapabilities); err != nil {
		return err
	}

	pdu.SourceDescriptor = make([]byte, lengthSourceDescriptor)
	if _, err := io.ReadFull(wire, pdu.SourceDescriptor); err != nil {
		return err
	}

	if err := binary.Read(wire, binary.LittleEndian, &numberCapabilities); err != nil {
		return err
	}
	if err := binary.Read(wire, binary.LittleEndian, &pad2octets); err != nil {
		return err
	}

	pdu.CapabilitySets = make([]CapabilitySet, numberCapabilities)
	for i := range pdu.CapabilitySets {
		if err := pdu.CapabilitySets[i].Deserialize(wire); err != nil {
			return err
		}
	}

	return binary.Read(wire, binary.LittleEndian, &pdu.SessionID)
}

// ClientConfirmActive represents the TS_CONFIRM_ACTIVE_PDU sent by the
// client in response to a Demand Active PDU (MS-RDPBCGR 2.2.1.13.2).
type ClientConfirmActive struct {
	ShareID          uint32
	OriginatorID     uint16
	SourceDescriptor []byte
	CapabilitySets   []CapabilitySet
}

// NewClientConfirmActive builds the client's capability response with the
// minimum capability set this engine needs for programmatic automation:
// output (General/Bitmap/Order/BitmapCache), input (Input/Pointer), the
// Control/Activation/Share triad most servers require to accept the PDU
// at all, plus Font/Brush/GlyphCache/Offscreen/VirtualChannel/Sound, and,
// when largePointer is true, Large Pointer so 384x384 cursors are offered.
func NewClientConfirmActive(shareID uint32, userID uint16, desktopWidth, desktopHeight uint16, largePointer bool) *ClientConfirmActive {
	sets := []CapabilitySet{
		NewGeneralCapabilitySet(),
		NewBitmapCapabilitySet(desktopWidth, desktopHeight),
		NewOrderCapabilitySet(),
		NewBitmapCacheCapabilitySetRev1(),
		{CapabilitySetType: CapabilitySetTypeControl, ControlCapabilitySet: &ControlCapabilitySet{}},
		{CapabilitySetType: CapabilitySetTypeActivation, WindowActivationCapabilitySet: &WindowActivationCapabilitySet{}},
		{CapabilitySetType: CapabilitySetTypeShare, ShareCapabilitySet: &ShareCapabilitySet{}},
		NewPointerCapabilitySet(),
		NewInputCapabilitySet(),
		NewFontCapabilitySet(),
		NewBrushCapabilitySet(),
		NewGlyphCacheCapabilitySet(),
		NewOffscreenBitmapCacheCapabilitySet(),
		NewVirtualChannelCapabilitySet(),
		NewSoundCapabilitySet(),
	}

	if largePointer {
		sets = append(sets, NewLargePointerCapabilitySet())
	}

	return &ClientConfirmActive{
		ShareID:          shareID,
		OriginatorID:     userID,
		SourceDescriptor: []byte("rdpauto\x00"),
		CapabilitySets:   sets,
	}
}

// Serialize encodes the Client Confirm Active PDU to wire format, wrapped in
// a Share Control Header (MS-RDPBCGR 2.2.1.13.2).
func (pdu *ClientConfirmActive) Serialize() []byte {
	capBuf := new(bytes.Buffer)
	for i := range pdu.CapabilitySets {
		capBuf.Write(pdu.CapabilitySets[i].Serialize())
	}

	body := new(bytes.Buffer)
	_ = binary.Write(body, binary.LittleEndian, pdu.ShareID)
	_ = binary.Write(body, binary.LittleEndian, pdu.OriginatorID)
	_ = binary.Write(body, binary.LittleEndian, uint16(len(pdu.SourceDescriptor))) // #nosec G115
	_ = binary.Write(body, binary.LittleEndian, uint16(4+capBuf.Len()))            // #nosec G115: lengthCombinedCapabilities
	body.Write(pdu.SourceDescriptor)
	_ = binary.Write(body, binary.LittleEndian, uint16(len(pdu.CapabilitySets))) // #nosec G115
	_ = binary.Write(body, binary.LittleEndian, uint16(0))                      // pad2octets
	body.Write(capBuf.Bytes())

	header := newShareControlHeader(TypeConfirmActive, pdu.OriginatorID)
	header.TotalLength = uint16(6 + body.Len()) // #nosec G115

	out := new(bytes.Buffer)
	out.Write(header.Serialize())
	out.Write(body.Bytes())

	return out.Bytes()
}

// Deserialize decodes a Client Confirm Active PDU from wire format,
// including its Share Control Header.
func (pdu *ClientConfirmActive) Deserialize(wire io.Reader) error {
	var header ShareControlHeader
	if err := header.Deserialize(wire); err != nil {
		return err
	}

	var (
		lengthSourceDescriptor     uint16
		lengthCombinedCapabilities uint16
		numberCapabilities         uint16
		pad2octets                 uint16
	)

	if err := binary.Read(wire, binary.LittleEndian, &pdu.ShareID); err != nil {
		return err
	}
	if err := binary.Read(wire, binary.LittleEndian, &pdu.OriginatorID); err != nil {
		return err
	}
	if err := binary.Read(wire, binary.LittleEndian, &lengthSourceDescriptor); err != nil {
		return err
	}
	if err := binary.Read(wire, binary.LittleEndian, &lengthCombinedCapabilities); err != nil {
		return err
	}

	pdu.SourceDescriptor = make([]byte, lengthSourceDescriptor)
	if _, err := io.ReadFull(wire, pdu.SourceDescriptor); err != nil {
		return err
	}

	if err := binary.Read(wire, binary.LittleEndian, &numberCapabilities); err != nil {
		return err
	}
	if err := binary.Read(wire, binary.LittleEndian, &pad2octets); err != nil {
		return err
	}

	pdu.CapabilitySets = make([]CapabilitySet, numberCapabilities)
	for i := range pdu.CapabilitySets {
		if err := pdu.CapabilitySets[i].Deserialize(wire); err != nil {
			return err
		}
	}

	return nil
}
