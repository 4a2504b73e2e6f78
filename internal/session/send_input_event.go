package session

import "github.com/rcarmo/rdpauto/internal/protocol/fastpath"

func (c *Client) SendInputEvent(data []byte) error {
	return c.fastPath.Send(fastpath.NewInputEventPDU(data))
}
