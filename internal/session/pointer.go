package session

import (
	"github.com/rcarmo/rdpauto/internal/codec"
	"github.com/rcarmo/rdpauto/internal/pointer"
	"github.com/rcarmo/rdpauto/internal/protocol/fastpath"
)

// applyPointerUpdate dispatches one fast-path pointer update to the
// pointer cache (MS-RDPBCGR 2.2.9.1.1.4).
func (c *Client) applyPointerUpdate(code fastpath.UpdateCode, data []byte) error {
	switch code {
	case fastpath.UpdateCodePTRNull:
		c.pointer.SystemNull()
		return nil

	case fastpath.UpdateCodePTRDefault:
		c.pointer.SystemDefault()
		return nil

	case fastpath.UpdateCodePTRPosition:
		pos, err := fastpath.ParsePointerPositionUpdate(data)
		if err != nil {
			return err
		}

		c.pointer.Position(int(pos.X), int(pos.Y))

		return nil

	case fastpath.UpdateCodeColor, fastpath.UpdateCodeLargePointer:
		upd, err := fastpath.ParseColorPointerUpdate(data)
		if err != nil {
			return err
		}

		return c.pointer.New(int(upd.CacheIndex), decodeColorPointer(upd))

	case fastpath.UpdateCodeCached:
		ref, err := fastpath.ParseCachedPointerUpdate(data)
		if err != nil {
			return err
		}

		return c.pointer.Cached(int(ref.CacheIndex))
	}

	return nil
}

// decodeColorPointer converts a TS_COLORPOINTERATTRIBUTE's XOR/AND masks
// into a straight RGBA cursor image, treating the AND mask as an all-opaque
// override wherever it is unset (MS-RDPBCGR 2.2.9.1.1.4.4).
func decodeColorPointer(upd *fastpath.ColorPointerUpdate) pointer.Entry {
	width, height := int(upd.Width), int(upd.Height)

	xorRGBA := codec.ProcessBitmap(upd.XorMaskData, width, height, 24, false, width*3)
	if xorRGBA == nil {
		xorRGBA = make([]byte, width*height*4)
	}

	andRowBytes := (width + 7) / 8
	for y := 0; y < height; y++ {
		flippedY := height - 1 - y
		rowStart := flippedY * andRowBytes

		for x := 0; x < width; x++ {
			byteIdx := rowStart + x/8
			if byteIdx >= len(upd.AndMaskData) {
				continue
			}

			bit := upd.AndMaskData[byteIdx] & (0x80 >> uint(x%8))
			if bit != 0 {
				pixel := (y*width + x) * 4
				if pixel+3 < len(xorRGBA) {
					xorRGBA[pixel+3] = 0
				}
			}
		}
	}

	return pointer.Entry{
		Width:    width,
		Height:   height,
		HotspotX: int(upd.X),
		HotspotY: int(upd.Y),
		RGBA:     xorRGBA,
	}
}
