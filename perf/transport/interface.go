package transport

import (
	"net"

	"github.com/sultanavtajev/simpleperf/perf/common"
)

// --------------------------------------------------------------------------
// Listener Connector
// --------------------------------------------------------------------------

// IListenerConnector defines the interface for transport-specific server
// socket operations
type IListenerConnector interface {
	// Listen creates a listener on the endpoint from the config
	Listen(config common.ServerConfig) (net.Listener, error)

	// UpgradeConnection applies socket tuning to an accepted connection
	UpgradeConnection(conn net.Conn, conf common.TransportConf) error

	// GetName returns the name of the transport type (e.g., "tcp", "unix")
	GetName() string
}

// --------------------------------------------------------------------------
// Dialer Connector
// --------------------------------------------------------------------------

// IDialerConnector defines the interface for transport-specific client
// socket operations
type IDialerConnector interface {
	// Connect establishes a single connection to the endpoint
	Connect(endpoint string) (net.Conn, error)

	// UpgradeConnection applies socket tuning to an established connection
	UpgradeConnection(conn net.Conn, conf common.TransportConf) error

	// GetName returns the name of the transport type (e.g., "tcp", "unix")
	GetName() string
}
