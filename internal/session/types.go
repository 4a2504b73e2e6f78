// Package session drives one RDP connection end to end: negotiation,
// TLS/NLA, capability exchange, and a fast-path receive loop that feeds a
// screen buffer and pointer cache for programmatic automation rather than
// interactive viewing.
package session

import (
	"bufio"
)

// ProtocolCode represents the first byte of an RDP message used to determine
// whether the message uses FastPath or X.224 framing.
type ProtocolCode uint8

// IsFastpath returns true if the protocol code indicates a FastPath message.
func (a ProtocolCode) IsFastpath() bool {
	return a&0x3 == 0
}

// IsX224 returns true if the protocol code indicates an X.224 message.
func (a ProtocolCode) IsX224() bool {
	return a == 3
}

func receiveProtocol(bufReader *bufio.Reader) (ProtocolCode, error) {
	action, err := bufReader.ReadByte()
	if err != nil {
		return 0, err
	}

	err = bufReader.UnreadByte()
	if err != nil {
		return 0, err
	}

	return ProtocolCode(action), nil
}
