package session

import (
	"time"

	"github.com/rcarmo/rdpauto/internal/codec"
	"github.com/rcarmo/rdpauto/internal/protocol/fastpath"
)

// applyBitmapUpdate decodes and paints every rectangle of a fast-path
// bitmap update into the screen buffer (MS-RDPBCGR 2.2.9.1.1.3.1.2).
func (c *Client) applyBitmapUpdate(data []byte) error {
	rects, err := fastpath.ParseBitmapUpdate(data)
	if err != nil {
		return err
	}

	for _, rect := range rects {
		width := int(rect.Width)
		height := int(rect.Height)
		bpp := int(rect.BitsPerPixel)

		compressed := rect.Flags&fastpath.BitmapDataFlagCompression != 0
		rowDelta := width * (bpp / 8)

		rgba := codec.ProcessBitmap(rect.BitmapDataStream, width, height, bpp, compressed, rowDelta)
		if rgba == nil {
			continue
		}

		c.screen.ApplyRect(int(rect.DestLeft), int(rect.DestTop), width, height, rgbaToRGB(rgba))
	}

	c.screen.BumpVersion(time.Now())

	return nil
}

// rgbaToRGB drops the alpha channel produced by codec.ProcessBitmap, since
// the screen buffer stores a plain RGB image.
func rgbaToRGB(rgba []byte) []byte {
	rgb := make([]byte, 0, len(rgba)/4*3)

	for i := 0; i+3 < len(rgba); i += 4 {
		rgb = append(rgb, rgba[i], rgba[i+1], rgba[i+2])
	}

	return rgb
}
