package session

import "github.com/rcarmo/rdpauto/internal/rdperr"

// ErrUnsupportedRequestedProtocol indicates that the server selected a
// protocol that this client does not support.
var ErrUnsupportedRequestedProtocol = rdperr.Protocol("unsupported requested protocol")
