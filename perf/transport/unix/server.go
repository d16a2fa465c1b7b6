package unix

import (
	"fmt"
	"net"
	"os"

	"github.com/sultanavtajev/simpleperf/perf/common"
	"github.com/sultanavtajev/simpleperf/perf/transport"
)

// serverConnector implements the IListenerConnector interface for Unix sockets
type serverConnector struct{}

// --------------------------------------------------------------------------
// Interface Methods (docu see transport.IListenerConnector)
// --------------------------------------------------------------------------

func (c *serverConnector) GetName() string {
	return "unix"
}

func (c *serverConnector) Listen(config common.ServerConfig) (net.Listener, error) {
	socketPath := config.Endpoint()

	// Remove existing socket file if it exists
	if err := os.RemoveAll(socketPath); err != nil {
		return nil, fmt.Errorf("failed to remove existing socket: %v", err)
	}

	// Create Unix socket listener
	listener, err := net.Listen("unix", socketPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create Unix socket: %v", err)
	}

	return listener, nil
}

func (c *serverConnector) UpgradeConnection(conn net.Conn, conf common.TransportConf) error {
	return upgradeUnixConn(conn, conf)
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

// upgradeUnixConn applies the socket buffer settings (the TCP options do
// not apply to unix sockets)
func upgradeUnixConn(conn net.Conn, conf common.TransportConf) error {
	unixConn, ok := conn.(*net.UnixConn)
	if !ok {
		return nil
	}

	if conf.WriteBufferSize > 0 {
		if err := unixConn.SetWriteBuffer(conf.WriteBufferSize); err != nil {
			return err
		}
	}

	if conf.ReadBufferSize > 0 {
		if err := unixConn.SetReadBuffer(conf.ReadBufferSize); err != nil {
			return err
		}
	}

	return nil
}

// --------------------------------------------------------------------------
// Listener Connector Factory Method
// --------------------------------------------------------------------------

// NewUnixListenerConnector creates a new Unix listener connector
func NewUnixListenerConnector() transport.IListenerConnector {
	return &serverConnector{}
}
