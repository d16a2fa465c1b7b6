package tcp

import (
	"net"

	"github.com/sultanavtajev/simpleperf/perf/common"
	"github.com/sultanavtajev/simpleperf/perf/transport"
)

// clientConnector implements the IDialerConnector interface for TCP sockets
type clientConnector struct{}

// --------------------------------------------------------------------------
// Interface Methods (docu see transport.IDialerConnector)
// --------------------------------------------------------------------------

func (c *clientConnector) GetName() string {
	return "tcp"
}

func (c *clientConnector) Connect(endpoint string) (net.Conn, error) {
	return net.Dial("tcp", endpoint)
}

func (c *clientConnector) UpgradeConnection(conn net.Conn, conf common.TransportConf) error {
	return upgradeTCPConn(conn, conf)
}

// --------------------------------------------------------------------------
// Dialer Connector Factory Method
// --------------------------------------------------------------------------

// NewTCPDialerConnector creates a new TCP dialer connector
func NewTCPDialerConnector() transport.IDialerConnector {
	return &clientConnector{}
}
