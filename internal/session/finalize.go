package session

import (
	"fmt"

	"github.com/rcarmo/rdpauto/internal/protocol/pdu"
)

// connectionFinalization runs the Connection Finalization sequence
// (MS-RDPBCGR 1.3.1.1, steps 12-16): the client announces synchronization,
// requests control, declares it has no persistent bitmap cache, and sends
// its font list, then drains the server's matching Synchronize, Control
// Granted, and Font Map PDUs.
func (c *Client) connectionFinalization() error {
	global := c.channelIDMap["global"]

	send := []*pdu.Data{
		pdu.NewSynchronize(c.shareID, c.userID),
		pdu.NewControl(c.shareID, c.userID, pdu.ControlActionCooperate),
		pdu.NewControl(c.shareID, c.userID, pdu.ControlActionRequestControl),
		pdu.NewPersistentKeyList(c.shareID, c.userID),
		pdu.NewFontList(c.shareID, c.userID),
	}

	for _, out := range send {
		if err := c.mcsLayer.Send(c.userID, global, out.Serialize()); err != nil {
			return fmt.Errorf("send: %w", err)
		}
	}

	// The server answers with its own Synchronize, a Control PDU granting
	// control, and a Font Map, though not necessarily in that order and
	// not necessarily all in this session's scope. Drain until we've seen
	// the Font Map, which always closes the sequence.
	for {
		_, wire, err := c.mcsLayer.Receive()
		if err != nil {
			return fmt.Errorf("receive: %w", err)
		}

		var in pdu.Data
		if err := in.Deserialize(wire); err != nil {
			return fmt.Errorf("deserialize: %w", err)
		}

		if in.ShareDataHeader.PDUType2.IsFontmap() {
			return nil
		}
	}
}
