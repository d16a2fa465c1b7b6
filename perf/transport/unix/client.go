package unix

import (
	"net"

	"github.com/sultanavtajev/simpleperf/perf/common"
	"github.com/sultanavtajev/simpleperf/perf/transport"
)

// clientConnector implements the IDialerConnector interface for Unix sockets
type clientConnector struct{}

// --------------------------------------------------------------------------
// Interface Methods (docu see transport.IDialerConnector)
// --------------------------------------------------------------------------

func (c *clientConnector) GetName() string {
	return "unix"
}

func (c *clientConnector) Connect(endpoint string) (net.Conn, error) {
	return net.Dial("unix", endpoint)
}

func (c *clientConnector) UpgradeConnection(conn net.Conn, conf common.TransportConf) error {
	return upgradeUnixConn(conn, conf)
}

// --------------------------------------------------------------------------
// Dialer Connector Factory Method
// --------------------------------------------------------------------------

// NewUnixDialerConnector creates a new Unix dialer connector
func NewUnixDialerConnector() transport.IDialerConnector {
	return &clientConnector{}
}
