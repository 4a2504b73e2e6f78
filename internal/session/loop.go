package session

import (
	"bytes"
	"fmt"

	"github.com/rcarmo/rdpauto/internal/protocol/fastpath"
)

// Run drains fast-path output PDUs from the server until ctx-less error or
// EOF, feeding decoded bitmap and pointer updates into the Screen and
// Pointer buffers. Callers typically run this in its own goroutine after
// Connect returns, and stop it by calling Close from another goroutine.
func (c *Client) Run() error {
	var (
		reassembling bool
		fragCode     fastpath.UpdateCode
		fragBuf      bytes.Buffer
	)

	for {
		pdu, err := c.fastPath.Receive()
		if err != nil {
			return fmt.Errorf("receive fast-path pdu: %w", err)
		}

		wire := bytes.NewReader(pdu.Data)

		for wire.Len() > 0 {
			var update fastpath.Update
			if err := update.Deserialize(wire); err != nil {
				return fmt.Errorf("decode fast-path update: %w", err)
			}

			switch update.Fragmentation() {
			case fastpath.FragmentSingle:
				if err := c.dispatchUpdate(update.UpdateCode, update.Data); err != nil {
					return fmt.Errorf("dispatch update: %w", err)
				}

			case fastpath.FragmentFirst:
				reassembling = true
				fragCode = update.UpdateCode
				fragBuf.Reset()
				fragBuf.Write(update.Data)

			case fastpath.FragmentNext:
				if reassembling {
					fragBuf.Write(update.Data)
				}

			case fastpath.FragmentLast:
				if reassembling {
					fragBuf.Write(update.Data)
					reassembling = false

					if err := c.dispatchUpdate(fragCode, fragBuf.Bytes()); err != nil {
						return fmt.Errorf("dispatch reassembled update: %w", err)
					}
				}
			}
		}
	}
}

// dispatchUpdate routes one fully-reassembled Update body to the screen or
// pointer state it updates.
func (c *Client) dispatchUpdate(code fastpath.UpdateCode, data []byte) error {
	switch code {
	case fastpath.UpdateCodeBitmap:
		return c.applyBitmapUpdate(data)

	case fastpath.UpdateCodePTRNull, fastpath.UpdateCodePTRDefault, fastpath.UpdateCodePTRPosition,
		fastpath.UpdateCodeColor, fastpath.UpdateCodeLargePointer, fastpath.UpdateCodeCached:
		return c.applyPointerUpdate(code, data)

	case fastpath.UpdateCodePalette, fastpath.UpdateCodeSynchronize, fastpath.UpdateCodeOrders,
		fastpath.UpdateCodeSurfCMDs:
		// Palette, drawing orders and surface commands fall outside this
		// engine's screen/pointer/input automation scope.
		return nil
	}

	return nil
}
