package session

// Close tears down the connection. It is safe to call multiple times and
// from a different goroutine than the one running the receive loop, so
// that a caller can cancel an in-flight Connect or Run.
func (c *Client) Close() error {
	return c.conn.Close()
}
