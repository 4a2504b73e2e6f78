package fastpath

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// UpdatePDUAction is the two-bit action code in a fast-path server header.
type UpdatePDUAction uint8

const (
	UpdatePDUActionFastPath UpdatePDUAction = 0x0
	UpdatePDUActionX224     UpdatePDUAction = 0x3
)

// UpdatePDUFlag marks server-applied checksum/encryption on a fast-path PDU.
// The engine never negotiates standard RDP security, so either flag being
// set means the server sent something this client cannot decode.
type UpdatePDUFlag uint8

const (
	UpdatePDUFlagSecureChecksum UpdatePDUFlag = 0x1
	UpdatePDUFlagEncrypted      UpdatePDUFlag = 0x2
)

// ErrUnexpectedX224 is returned when a fast-path header carries the X224
// action code, meaning the peer switched back to the slow path.
var ErrUnexpectedX224 = errors.New("fastpath: unexpected x224 action")

const maxUpdatePDUSize = 0x4000

// UpdatePDU is one server-to-client fast-path output PDU
// (MS-RDPBCGR 2.2.9.1.2.1) before its Update payload is parsed.
type UpdatePDU struct {
	Action UpdatePDUAction
	Flags  UpdatePDUFlag
	Data   []byte
}

func readVariableLength(wire io.Reader) (int, error) {
	var b0 uint8
	if err := binary.Read(wire, binary.LittleEndian, &b0); err != nil {
		return 0, err
	}

	if b0&0x80 == 0 {
		return int(b0), nil
	}

	var b1 uint8
	if err := binary.Read(wire, binary.LittleEndian, &b1); err != nil {
		return 0, err
	}

	return int(b0&0x7f)<<8 | int(b1), nil
}

// Deserialize reads a fast-path header, length and data from wire.
func (p *UpdatePDU) Deserialize(wire io.Reader) error {
	var header uint8
	if err := binary.Read(wire, binary.LittleEndian, &header); err != nil {
		return err
	}

	action := UpdatePDUAction(header & 0x3)
	if action == UpdatePDUActionX224 {
		p.Action = action
		return ErrUnexpectedX224
	}

	flags := UpdatePDUFlag((header >> 6) & 0x3)

	length, err := readVariableLength(wire)
	if err != nil {
		return err
	}

	if length > maxUpdatePDUSize {
		return fmt.Errorf("fastpath: too big packet: %d", length)
	}

	if flags&UpdatePDUFlagEncrypted != 0 {
		return errors.New("fastpath: fast-path encryption is not supported")
	}

	if flags&UpdatePDUFlagSecureChecksum != 0 {
		return errors.New("fastpath: fast-path checksum validation is not supported")
	}

	p.Action = action
	p.Flags = flags

	if cap(p.Data) >= length {
		p.Data = p.Data[:length]
	} else {
		p.Data = make([]byte, length)
	}

	_, err = io.ReadFull(wire, p.Data)
	return err
}

// Receive reads the next fast-path update PDU from the connection, reusing
// the protocol's scratch buffer to avoid an allocation per frame.
func (p *Protocol) Receive() (*UpdatePDU, error) {
	pdu := &UpdatePDU{Data: p.updatePDUData}

	if err := pdu.Deserialize(p.conn); err != nil {
		return nil, err
	}

	return pdu, nil
}

// UpdateCode identifies the kind of update carried in a fast-path Update
// (MS-RDPBCGR 2.2.9.1.2.1.1).
type UpdateCode uint8

const (
	UpdateCodeOrders      UpdateCode = 0x0
	UpdateCodeBitmap      UpdateCode = 0x1
	UpdateCodePalette     UpdateCode = 0x2
	UpdateCodeSynchronize UpdateCode = 0x3
	UpdateCodeSurfCMDs    UpdateCode = 0x4
	UpdateCodePTRNull     UpdateCode = 0x5
	UpdateCodePTRDefault  UpdateCode = 0x6
	UpdateCodePTRPosition UpdateCode = 0x8
	UpdateCodeColor       UpdateCode = 0x9
	UpdateCodeCached      UpdateCode = 0xa
	UpdateCodePointer     UpdateCode = 0xb
	UpdateCodeLargePointer UpdateCode = 0xc
)

// Fragment marks whether an Update is a single, first, middle or last piece
// of a larger update split across multiple fast-path PDUs.
type Fragment uint8

const (
	FragmentSingle Fragment = 0x0
	FragmentLast   Fragment = 0x1
	FragmentFirst  Fragment = 0x2
	FragmentNext   Fragment = 0x3
)

// Compression marks whether the Update body was MPPC-compressed.
type Compression uint8

const (
	CompressionUsed Compression = 0x2
)

// Update is a single fast-path update (bitmap, pointer, palette, ...)
// decoded from the Data of an UpdatePDU.
type Update struct {
	UpdateCode       UpdateCode
	fragmentation    Fragment
	compression      Compression
	compressionFlags uint8
	size             uint16
	Data             []byte
}

// Fragmentation reports whether this Update is a whole update, or a
// first/middle/last piece of one split across multiple fast-path PDUs
// (MS-RDPBCGR 2.2.9.1.2.1.1).
func (u *Update) Fragmentation() Fragment { return u.fragmentation }

// Deserialize reads the update header and body from wire.
func (u *Update) Deserialize(wire io.Reader) error {
	var header uint8
	if err := binary.Read(wire, binary.LittleEndian, &header); err != nil {
		return err
	}

	u.UpdateCode = UpdateCode(header & 0xf)
	u.fragmentation = Fragment((header >> 4) & 0x3)
	u.compression = Compression((header >> 6) & 0x3)

	if u.compression == CompressionUsed {
		if err := binary.Read(wire, binary.LittleEndian, &u.compressionFlags); err != nil {
			return err
		}
	}

	if err := binary.Read(wire, binary.LittleEndian, &u.size); err != nil {
		return err
	}

	u.Data = make([]byte, u.size)
	_, err := io.ReadFull(wire, u.Data)

	return err
}
