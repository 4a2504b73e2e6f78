package fastpath

import (
	"encoding/binary"
	"io"
)

// Surface command types (MS-RDPBCGR 2.2.9.1.2.1.1, TS_SURFCMD codecs).
const (
	CmdTypeSurfaceBits       uint16 = 0x0001
	CmdTypeFrameMarker       uint16 = 0x0004
	CmdTypeStreamSurfaceBits uint16 = 0x0006
)

// Frame marker actions (MS-RDPBCGR 2.2.9.1.2.1.1.1).
const (
	FrameStart uint16 = 0x0000
	FrameEnd   uint16 = 0x0001
)

const surfaceBitsHeaderSize = 16

// SurfaceCommand is a single command inside a TS_UPDATE_SURFCMDS update,
// with its type-specific body left unparsed until the caller needs it.
type SurfaceCommand struct {
	CmdType uint16
	Data    []byte
}

// FrameMarkerCommand delimits a run of surface commands belonging to one
// server-rendered frame (MS-RDPBCGR 2.2.9.1.2.1.1.1).
type FrameMarkerCommand struct {
	FrameAction uint16
	FrameID     uint32
}

// SetSurfaceBitsCommand carries an encoded rectangle of pixel data
// (MS-RDPBCGR 2.2.9.1.2.1.1.2 TS_SURFCMD_SET_SURF_BITS).
type SetSurfaceBitsCommand struct {
	DestLeft, DestTop, DestRight, DestBottom uint16
	BPP                                      uint8
	Flags                                    uint8
	Reserved                                 uint8
	CodecID                                  uint8
	Width, Height                            uint16
	BitmapData                               []byte
}

// ParseSurfaceCommands walks a TS_UPDATE_SURFCMDS payload, splitting it into
// individual commands. It never errors on truncated input: a command that
// does not fully fit in the remaining bytes is dropped and parsing stops,
// since the caller has no way to recover mid-stream framing on a fast-path
// connection.
func ParseSurfaceCommands(data []byte) ([]SurfaceCommand, error) {
	commands := []SurfaceCommand{}

	offset := 0
	for offset+2 <= len(data) {
		cmdType := binary.LittleEndian.Uint16(data[offset : offset+2])
		offset += 2

		switch cmdType {
		case CmdTypeFrameMarker:
			const frameMarkerSize = 6
			if offset+frameMarkerSize > len(data) {
				return commands, nil
			}

			commands = append(commands, SurfaceCommand{CmdType: cmdType, Data: data[offset : offset+frameMarkerSize]})
			offset += frameMarkerSize

		case CmdTypeSurfaceBits, CmdTypeStreamSurfaceBits:
			if offset+surfaceBitsHeaderSize > len(data) {
				return commands, nil
			}

			if offset+surfaceBitsHeaderSize+4 > len(data) {
				return commands, nil
			}

			length := int(binary.LittleEndian.Uint32(data[offset+surfaceBitsHeaderSize : offset+surfaceBitsHeaderSize+4]))
			total := surfaceBitsHeaderSize + 4 + length

			if offset+total > len(data) {
				return commands, nil
			}

			commands = append(commands, SurfaceCommand{CmdType: cmdType, Data: data[offset : offset+total]})
			offset += total

		default:
			commands = append(commands, SurfaceCommand{CmdType: cmdType, Data: data[offset:]})
			offset = len(data)
		}
	}

	return commands, nil
}

// ParseFrameMarker decodes a frame marker command body.
func ParseFrameMarker(data []byte) (*FrameMarkerCommand, error) {
	if len(data) < 6 {
		return nil, io.ErrUnexpectedEOF
	}

	return &FrameMarkerCommand{
		FrameAction: binary.LittleEndian.Uint16(data[0:2]),
		FrameID:     binary.LittleEndian.Uint32(data[2:6]),
	}, nil
}

// ParseSetSurfaceBits decodes a set-surface-bits (or stream-surface-bits)
// command body.
func ParseSetSurfaceBits(data []byte) (*SetSurfaceBitsCommand, error) {
	if len(data) < surfaceBitsHeaderSize {
		return nil, io.ErrUnexpectedEOF
	}

	cmd := &SetSurfaceBitsCommand{
		DestLeft:   binary.LittleEndian.Uint16(data[0:2]),
		DestTop:    binary.LittleEndian.Uint16(data[2:4]),
		DestRight:  binary.LittleEndian.Uint16(data[4:6]),
		DestBottom: binary.LittleEndian.Uint16(data[6:8]),
		BPP:        data[8],
		Flags:      data[9],
		Reserved:   data[10],
		CodecID:    data[11],
		Width:      binary.LittleEndian.Uint16(data[12:14]),
		Height:     binary.LittleEndian.Uint16(data[14:16]),
	}

	if len(data) < surfaceBitsHeaderSize+4 {
		return nil, io.ErrUnexpectedEOF
	}

	length := int(binary.LittleEndian.Uint32(data[surfaceBitsHeaderSize : surfaceBitsHeaderSize+4]))
	start := surfaceBitsHeaderSize + 4

	if len(data) < start+length {
		return nil, io.ErrUnexpectedEOF
	}

	cmd.BitmapData = data[start : start+length]

	return cmd, nil
}
