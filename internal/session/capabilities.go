package session

import "github.com/rcarmo/rdpauto/internal/protocol/pdu"

// capabilitiesExchange receives the server's Demand Active PDU and answers
// with the client's Confirm Active PDU (MS-RDPBCGR 1.3.1.1, steps 10-11).
func (c *Client) capabilitiesExchange() error {
	_, wire, err := c.mcsLayer.Receive()
	if err != nil {
		return err
	}

	var resp pdu.ServerDemandActive
	if err = resp.Deserialize(wire); err != nil {
		return err
	}

	c.shareID = resp.ShareID
	c.serverCapabilitySets = resp.CapabilitySets

	for _, capSet := range resp.CapabilitySets {
		if capSet.CapabilitySetType == pdu.CapabilitySetTypePointer && capSet.PointerCapabilitySet != nil {
			c.pointer.SetCapacity(int(capSet.PointerCapabilitySet.PointerCacheSize))
		}
	}

	req := pdu.NewClientConfirmActive(resp.ShareID, c.userID, c.desktopWidth, c.desktopHeight, c.largePointerSupported())

	return c.mcsLayer.Send(c.userID, c.channelIDMap["global"], req.Serialize())
}

// largePointerSupported reports whether the server advertised the Large
// Pointer capability, so the client only claims it back when it can
// actually be used.
func (c *Client) largePointerSupported() bool {
	for _, capSet := range c.serverCapabilitySets {
		if capSet.CapabilitySetType == pdu.CapabilitySetTypeLargePointer {
			return true
		}
	}
	return false
}
