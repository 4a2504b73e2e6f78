package pdu

import (
	"bytes"
	"encoding/binary"

	"github.com/rcarmo/rdpauto/internal/codec"
)

// InfoFlag are the client feature flags carried in TS_INFO_PACKET
// (MS-RDPBCGR 2.2.1.11.1.1).
type InfoFlag uint32

const (
	InfoFlagMouse                InfoFlag = 0x00000001
	InfoFlagDisableCtrlAltDel    InfoFlag = 0x00000002
	InfoFlagAutologon            InfoFlag = 0x00000008
	InfoFlagUnicode              InfoFlag = 0x00000010
	InfoFlagMaximizeShell        InfoFlag = 0x00000020
	InfoFlagLogonNotify          InfoFlag = 0x00000040
	InfoFlagCompression          InfoFlag = 0x00000080
	InfoFlagEnableWindowsKey     InfoFlag = 0x00000100
	InfoFlagLogonErrors          InfoFlag = 0x00000400
	InfoFlagMouseHasWheel        InfoFlag = 0x00020000
	InfoFlagPasswordIsScPin      InfoFlag = 0x00040000
	InfoFlagNoAudioPlayback      InfoFlag = 0x00080000
	InfoFlagUsingSavedCreds      InfoFlag = 0x00100000
)

// PerfFlag are the TS_EXTENDED_INFO_PACKET performance flags
// (MS-RDPBCGR 2.2.1.11.1.1.1). The engine drives capture programmatically,
// so it disables everything a human-facing viewer would otherwise
// negotiate for a nicer desktop experience.
type PerfFlag uint32

const (
	PerfDisableWallpaper    PerfFlag = 0x00000001
	PerfDisableFullWindowDrag PerfFlag = 0x00000002
	PerfDisableMenuAnimations PerfFlag = 0x00000004
	PerfDisableTheming      PerfFlag = 0x00000008
	PerfDisableCursorShadow PerfFlag = 0x00000020
	PerfDisableCursorBlink  PerfFlag = 0x00000040
)

// InfoPacket is TS_INFO_PACKET, the client's logon and desktop settings
// sent during the secure settings exchange.
type InfoPacket struct {
	Flags    InfoFlag
	Domain   string
	Username string
	Password string
}

// ClientInfo is the TS_INFO_PACKET wrapped in an optional non-TLS security
// header (MS-RDPBCGR 2.2.1.11).
type ClientInfo struct {
	InfoPacket InfoPacket
}

// NewClientInfo builds the client info PDU with the flags this engine
// always advertises: Unicode credentials, mouse and wheel present, and
// autologon so headless automation never blocks on an interactive prompt.
func NewClientInfo(domain, username, password string) *ClientInfo {
	return &ClientInfo{
		InfoPacket: InfoPacket{
			Flags: InfoFlagMouse | InfoFlagMouseHasWheel | InfoFlagUnicode |
				InfoFlagDisableCtrlAltDel | InfoFlagAutologon | InfoFlagLogonNotify |
				InfoFlagLogonErrors | InfoFlagNoAudioPlayback,
			Domain:   domain,
			Username: username,
			Password: password,
		},
	}
}

func utf16z(s string) []byte {
	return append(codec.Encode(s), 0x00, 0x00)
}

// Serialize encodes the client info PDU. useEnhancedSecurity must be true
// when the connection is protected by TLS or CredSSP, in which case the
// TS_SECURITY_HEADER is omitted (MS-RDPBCGR 2.2.1.11.1.1).
func (c *ClientInfo) Serialize(useEnhancedSecurity bool) []byte {
	domain := utf16z(c.InfoPacket.Domain)
	username := utf16z(c.InfoPacket.Username)
	password := utf16z(c.InfoPacket.Password)

	body := new(bytes.Buffer)
	_ = binary.Write(body, binary.LittleEndian, uint32(0)) // codePage
	_ = binary.Write(body, binary.LittleEndian, uint32(c.InfoPacket.Flags))
	_ = binary.Write(body, binary.LittleEndian, uint16(len(domain)-2))
	_ = binary.Write(body, binary.LittleEndian, uint16(len(username)-2))
	_ = binary.Write(body, binary.LittleEndian, uint16(len(password)-2))
	_ = binary.Write(body, binary.LittleEndian, uint16(0)) // cbAlternateShell
	_ = binary.Write(body, binary.LittleEndian, uint16(0)) // cbWorkingDir
	body.Write(domain)
	body.Write(username)
	body.Write(password)
	body.Write([]byte{0x00, 0x00}) // alternateShell
	body.Write([]byte{0x00, 0x00}) // workingDir

	// TS_EXTENDED_INFO_PACKET
	_ = binary.Write(body, binary.LittleEndian, uint16(2)) // clientAddressFamily, AF_INET
	_ = binary.Write(body, binary.LittleEndian, uint16(2)) // cbClientAddress ("\0\0")
	body.Write([]byte{0x00, 0x00})
	_ = binary.Write(body, binary.LittleEndian, uint16(2)) // cbClientDir
	body.Write([]byte{0x00, 0x00})
	body.Write(make([]byte, 172)) // clientTimeZone, best-effort UTC
	_ = binary.Write(body, binary.LittleEndian, uint32(0)) // clientSessionId
	_ = binary.Write(body, binary.LittleEndian, uint32(PerfDisableWallpaper|PerfDisableFullWindowDrag|
		PerfDisableMenuAnimations|PerfDisableTheming|PerfDisableCursorShadow|PerfDisableCursorBlink))
	_ = binary.Write(body, binary.LittleEndian, uint16(0)) // cbAutoReconnectCookie

	if useEnhancedSecurity {
		return body.Bytes()
	}

	return codec.WrapSecurityFlag(0x0040, body.Bytes()) // SEC_INFO_PKT
}
