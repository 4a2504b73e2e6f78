package fastpath

import (
	"bytes"
	"encoding/binary"
	"io"
)

// PaletteEntry is one RGB triple in a palette update
// (MS-RDPBCGR 2.2.9.1.1.3.1.2.1).
type PaletteEntry struct {
	Red, Green, Blue uint8
}

// Deserialize reads one palette entry from wire.
func (e *PaletteEntry) Deserialize(wire io.Reader) error {
	if err := binary.Read(wire, binary.LittleEndian, &e.Red); err != nil {
		return err
	}

	if err := binary.Read(wire, binary.LittleEndian, &e.Green); err != nil {
		return err
	}

	return binary.Read(wire, binary.LittleEndian, &e.Blue)
}

// paletteUpdateData is a TS_UPDATE_PALETTE_DATA (MS-RDPBCGR 2.2.9.1.1.3.1.1).
type paletteUpdateData struct {
	PaletteEntries []PaletteEntry
}

func (d *paletteUpdateData) Deserialize(wire io.Reader) error {
	var updateType, padding, numberColors uint16

	if err := binary.Read(wire, binary.LittleEndian, &updateType); err != nil {
		return err
	}

	if err := binary.Read(wire, binary.LittleEndian, &padding); err != nil {
		return err
	}

	if err := binary.Read(wire, binary.LittleEndian, &numberColors); err != nil {
		return err
	}

	d.PaletteEntries = make([]PaletteEntry, numberColors)
	for i := range d.PaletteEntries {
		if err := d.PaletteEntries[i].Deserialize(wire); err != nil {
			return err
		}
	}

	return nil
}

// CompressedDataHeader precedes RLE-compressed bitmap data when the
// BITMAP_COMPRESSION flag is set without NO_BITMAP_COMPRESSION_HDR
// (MS-RDPBCGR 2.2.9.1.1.3.1.2.3).
type CompressedDataHeader struct {
	CbCompFirstRowSize uint16
	CbCompMainBodySize uint16
	CbScanWidth        uint16
	CbUncompressedSize uint16
}

func (h *CompressedDataHeader) Deserialize(wire io.Reader) error {
	if err := binary.Read(wire, binary.LittleEndian, &h.CbCompFirstRowSize); err != nil {
		return err
	}

	if err := binary.Read(wire, binary.LittleEndian, &h.CbCompMainBodySize); err != nil {
		return err
	}

	if err := binary.Read(wire, binary.LittleEndian, &h.CbScanWidth); err != nil {
		return err
	}

	return binary.Read(wire, binary.LittleEndian, &h.CbUncompressedSize)
}

// BitmapDataFlag marks compression on a single bitmap update rectangle.
type BitmapDataFlag uint16

const (
	BitmapDataFlagCompression BitmapDataFlag = 0x0001
	BitmapDataFlagNoHDR       BitmapDataFlag = 0x0400
)

// BitmapData is one rectangle of a TS_UPDATE_BITMAP_DATA
// (MS-RDPBCGR 2.2.9.1.1.3.1.2).
type BitmapData struct {
	DestLeft, DestTop, DestRight, DestBottom uint16
	Width, Height                            uint16
	BitsPerPixel                             uint16
	Flags                                    BitmapDataFlag
	BitmapLength                             uint16
	BitmapDataStream                         []byte
}

func (d *BitmapData) Deserialize(wire io.Reader) error {
	fields := []*uint16{&d.DestLeft, &d.DestTop, &d.DestRight, &d.DestBottom, &d.Width, &d.Height, &d.BitsPerPixel}
	for _, f := range fields {
		if err := binary.Read(wire, binary.LittleEndian, f); err != nil {
			return err
		}
	}

	if err := binary.Read(wire, binary.LittleEndian, &d.Flags); err != nil {
		return err
	}

	if err := binary.Read(wire, binary.LittleEndian, &d.BitmapLength); err != nil {
		return err
	}

	d.BitmapDataStream = make([]byte, d.BitmapLength)
	_, err := io.ReadFull(wire, d.BitmapDataStream)

	return err
}

// bitmapUpdateData is a TS_UPDATE_BITMAP_DATA (MS-RDPBCGR 2.2.9.1.1.3.1).
type bitmapUpdateData struct {
	Rectangles []BitmapData
}

func (d *bitmapUpdateData) Deserialize(wire io.Reader) error {
	var updateType, numberRectangles uint16

	if err := binary.Read(wire, binary.LittleEndian, &updateType); err != nil {
		return err
	}

	if err := binary.Read(wire, binary.LittleEndian, &numberRectangles); err != nil {
		return err
	}

	d.Rectangles = make([]BitmapData, numberRectangles)
	for i := range d.Rectangles {
		if err := d.Rectangles[i].Deserialize(wire); err != nil {
			return err
		}
	}

	return nil
}

// pointerPositionUpdateData is a TS_POINTER_POSITION_UPDATE
// (MS-RDPBCGR 2.2.9.1.1.4.2).
type pointerPositionUpdateData struct {
	xPos, yPos uint16
}

func (d *pointerPositionUpdateData) Deserialize(wire io.Reader) error {
	if err := binary.Read(wire, binary.LittleEndian, &d.xPos); err != nil {
		return err
	}

	return binary.Read(wire, binary.LittleEndian, &d.yPos)
}

// colorPointerUpdateData is a TS_COLORPOINTERATTRIBUTE
// (MS-RDPBCGR 2.2.9.1.1.4.4), also used to decode the color half of a
// TS_POINTERATTRIBUTE (large pointer) update.
type colorPointerUpdateData struct {
	cacheIndex    uint16
	xPos, yPos    uint16
	width, height uint16
	lengthAndMask uint16
	lengthXorMask uint16
	xorMaskData   []byte
	andMaskData   []byte
}

func (d *colorPointerUpdateData) Deserialize(wire io.Reader) error {
	fields := []*uint16{&d.cacheIndex, &d.xPos, &d.yPos, &d.width, &d.height, &d.lengthAndMask, &d.lengthXorMask}
	for _, f := range fields {
		if err := binary.Read(wire, binary.LittleEndian, f); err != nil {
			return err
		}
	}

	d.xorMaskData = make([]byte, d.lengthXorMask)
	if _, err := io.ReadFull(wire, d.xorMaskData); err != nil {
		return err
	}

	d.andMaskData = make([]byte, d.lengthAndMask)
	if _, err := io.ReadFull(wire, d.andMaskData); err != nil {
		return err
	}

	var padding uint8
	return binary.Read(wire, binary.LittleEndian, &padding)
}

// ParseBitmapUpdate decodes the rectangles of a TS_UPDATE_BITMAP_DATA
// update (fastpath.UpdateCodeBitmap).
func ParseBitmapUpdate(data []byte) ([]BitmapData, error) {
	d := &bitmapUpdateData{}
	if err := d.Deserialize(bytes.NewReader(data)); err != nil {
		return nil, err
	}

	return d.Rectangles, nil
}

// ParsePaletteUpdate decodes a TS_UPDATE_PALETTE_DATA update
// (fastpath.UpdateCodePalette).
func ParsePaletteUpdate(data []byte) ([]PaletteEntry, error) {
	d := &paletteUpdateData{}
	if err := d.Deserialize(bytes.NewReader(data)); err != nil {
		return nil, err
	}

	return d.PaletteEntries, nil
}

// PointerPositionUpdate is the decoded body of a TS_POINTER_POSITION_UPDATE
// (fastpath.UpdateCodePTRPosition).
type PointerPositionUpdate struct {
	X, Y uint16
}

// ParsePointerPositionUpdate decodes a pointer position update.
func ParsePointerPositionUpdate(data []byte) (*PointerPositionUpdate, error) {
	d := &pointerPositionUpdateData{}
	if err := d.Deserialize(bytes.NewReader(data)); err != nil {
		return nil, err
	}

	return &PointerPositionUpdate{X: d.xPos, Y: d.yPos}, nil
}

// ColorPointerUpdate is the decoded body of a TS_COLORPOINTERATTRIBUTE
// update (fastpath.UpdateCodeColor and, for its color half, UpdateCodeLargePointer).
type ColorPointerUpdate struct {
	CacheIndex    uint16
	X, Y          uint16
	Width, Height uint16
	XorMaskData   []byte
	AndMaskData   []byte
}

// ParseColorPointerUpdate decodes a color pointer (or cached-pointer image)
// update.
func ParseColorPointerUpdate(data []byte) (*ColorPointerUpdate, error) {
	d := &colorPointerUpdateData{}
	if err := d.Deserialize(bytes.NewReader(data)); err != nil {
		return nil, err
	}

	return &ColorPointerUpdate{
		CacheIndex: d.cacheIndex,
		X:          d.xPos,
		Y:          d.yPos,
		Width:      d.width,
		Height:     d.height,
		XorMaskData: d.xorMaskData,
		AndMaskData: d.andMaskData,
	}, nil
}

// CachedPointerUpdate is the decoded body of a TS_CACHEDPOINTERATTRIBUTE
// update (fastpath.UpdateCodeCached): a reference to a previously cached
// pointer image.
type CachedPointerUpdate struct {
	CacheIndex uint16
}

// ParseCachedPointerUpdate decodes a cached pointer reference update.
func ParseCachedPointerUpdate(data []byte) (*CachedPointerUpdate, error) {
	if len(data) < 2 {
		return nil, io.ErrUnexpectedEOF
	}

	return &CachedPointerUpdate{CacheIndex: binary.LittleEndian.Uint16(data)}, nil
}
