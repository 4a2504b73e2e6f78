package session

import (
	"bufio"
	"fmt"
	"net"
	"time"

	"github.com/rcarmo/rdpauto/internal/config"
	"github.com/rcarmo/rdpauto/internal/pointer"
	"github.com/rcarmo/rdpauto/internal/protocol/fastpath"
	"github.com/rcarmo/rdpauto/internal/protocol/mcs"
	"github.com/rcarmo/rdpauto/internal/protocol/pdu"
	"github.com/rcarmo/rdpauto/internal/protocol/tpkt"
	"github.com/rcarmo/rdpauto/internal/protocol/x224"
	"github.com/rcarmo/rdpauto/internal/screen"
)

// Client drives one RDP connection: negotiation, TLS/NLA, capability
// exchange, and the fast-path receive loop that feeds a ScreenBuffer and
// pointer cache instead of painting a window.
type Client struct {
	conn       net.Conn
	buffReader *bufio.Reader
	tpktLayer  *tpkt.Protocol
	x224Layer  *x224.Protocol
	mcsLayer   MCSLayer
	fastPath   *fastpath.Protocol

	domain   string
	username string
	password string

	desktopWidth, desktopHeight uint16
	colorDepth                  int

	serverCapabilitySets []pdu.CapabilitySet

	screen  *screen.Buffer
	pointer *pointer.Cache

	selectedProtocol       pdu.NegotiationProtocol
	serverNegotiationFlags pdu.NegotiationResponseFlag
	channels               []string
	channelIDMap           map[string]uint16
	skipChannelJoin        bool
	shareID                uint32
	userID                 uint16

	// TLS configuration
	skipTLSValidation bool
	tlsServerName     string

	// NLA configuration
	useNLA bool
}

const (
	tcpConnectionTimeout = 5 * time.Second
	readBufferSize       = 64 * 1024
)

// NewClient dials cfg.Address() and prepares the protocol stack. Connect
// must be called afterwards to run the handshake.
func NewClient(cfg *config.ConnectionConfig) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := Client{
		domain:   cfg.Domain,
		username: cfg.Username,
		password: cfg.Password,

		desktopWidth:  cfg.DesktopWidth,
		desktopHeight: cfg.DesktopHeight,
		colorDepth:    cfg.ColorDepth,

		selectedProtocol: pdu.NegotiationProtocolSSL,
	}

	if cfg.FastPathInput {
		c.useNLA = true
		c.selectedProtocol = pdu.NegotiationProtocolHybrid
	}

	c.screen = screen.NewBuffer(int(cfg.DesktopWidth), int(cfg.DesktopHeight))
	c.pointer = pointer.NewCache()

	var err error

	c.conn, err = net.DialTimeout("tcp", cfg.Address(), tcpConnectionTimeout)
	if err != nil {
		return nil, fmt.Errorf("tcp connect: %w", err)
	}

	c.buffReader = bufio.NewReaderSize(c.conn, readBufferSize)

	c.tpktLayer = tpkt.New(&c)
	c.x224Layer = x224.New(c.tpktLayer)
	c.mcsLayer = mcs.New(c.x224Layer)
	c.fastPath = fastpath.New(&c)

	return &c, nil
}

// SetTLSConfig allows setting TLS configuration for the RDP client
func (c *Client) SetTLSConfig(skipValidation bool, serverName string) {
	c.skipTLSValidation = skipValidation
	c.tlsServerName = serverName
}

// SetUseNLA enables or disables Network Level Authentication
func (c *Client) SetUseNLA(useNLA bool) {
	c.useNLA = useNLA
	if useNLA {
		c.selectedProtocol = pdu.NegotiationProtocolHybrid
	} else {
		c.selectedProtocol = pdu.NegotiationProtocolSSL
	}
}

// Screen returns the buffer the receive loop paints bitmap updates into.
func (c *Client) Screen() *screen.Buffer { return c.screen }

// Pointer returns the cache the receive loop populates from pointer updates.
func (c *Client) Pointer() *pointer.Cache { return c.pointer }

// ServerCapabilityInfo summarizes the server's Demand Active capability
// sets for logging at connect time.
type ServerCapabilityInfo struct {
	ColorDepth   int
	DesktopSize  string
	GeneralFlags uint16
	OrderFlags   uint32
	LargePointer bool
}

// GetServerCapabilities returns a summary of the server's capabilities.
func (c *Client) GetServerCapabilities() *ServerCapabilityInfo {
	info := &ServerCapabilityInfo{}

	for _, capSet := range c.serverCapabilitySets {
		switch capSet.CapabilitySetType {
		case pdu.CapabilitySetTypeBitmap:
			if capSet.BitmapCapabilitySet != nil {
				info.ColorDepth = int(capSet.BitmapCapabilitySet.PreferredBitsPerPixel)
				info.DesktopSize = fmt.Sprintf("%dx%d",
					capSet.BitmapCapabilitySet.DesktopWidth,
					capSet.BitmapCapabilitySet.DesktopHeight)
			}
		case pdu.CapabilitySetTypeGeneral:
			if capSet.GeneralCapabilitySet != nil {
				info.GeneralFlags = capSet.GeneralCapabilitySet.ExtraFlags
			}
		case pdu.CapabilitySetTypeOrder:
			if capSet.OrderCapabilitySet != nil {
				info.OrderFlags = uint32(capSet.OrderCapabilitySet.OrderFlags)
			}
		case pdu.CapabilitySetTypeLargePointer:
			info.LargePointer = true
		}
	}

	return info
}
