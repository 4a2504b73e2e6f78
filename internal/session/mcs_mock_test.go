package session

import (
	"bytes"
	"io"
)

// mockMCSLayer is a minimal, in-memory MCSLayer for exercising the
// finalization and capabilities-exchange steps without a real transport.
type mockMCSLayer struct {
	sent    [][]byte
	toRecv  [][]byte
	recvIdx int
	sendErr error
	recvErr error
}

func (m *mockMCSLayer) Send(userID, channelID uint16, data []byte) error {
	if m.sendErr != nil {
		return m.sendErr
	}

	m.sent = append(m.sent, data)

	return nil
}

func (m *mockMCSLayer) Receive() (uint16, io.Reader, error) {
	if m.recvErr != nil {
		return 0, nil, m.recvErr
	}

	if m.recvIdx >= len(m.toRecv) {
		return 0, nil, io.EOF
	}

	data := m.toRecv[m.recvIdx]
	m.recvIdx++

	return 0, bytes.NewReader(data), nil
}

func (m *mockMCSLayer) Connect(userData []byte) (io.Reader, error) { return nil, nil }
func (m *mockMCSLayer) ErectDomain() error                         { return nil }
func (m *mockMCSLayer) AttachUser() (uint16, error)                { return 0, nil }
func (m *mockMCSLayer) JoinChannels(userID uint16, channelIDMap map[string]uint16) error {
	return nil
}
