package transport_test

import (
	"io"
	"net"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/sultanavtajev/simpleperf/perf/common"
	"github.com/sultanavtajev/simpleperf/perf/transport"
	"github.com/sultanavtajev/simpleperf/perf/transport/tcp"
	"github.com/sultanavtajev/simpleperf/perf/transport/unix"
)

// roundTrip listens, dials, upgrades both ends and moves a few bytes
func roundTrip(t *testing.T, listener transport.IListenerConnector, dialer transport.IDialerConnector, config common.ServerConfig) {
	t.Helper()

	l, err := listener.Listen(config)
	if err != nil {
		t.Fatalf("listen failed: %v", err)
	}
	defer l.Close()

	acceptCh := make(chan net.Conn, 1)
	go func() {
		conn, err := l.Accept()
		if err != nil {
			t.Errorf("accept failed: %v", err)
			close(acceptCh)
			return
		}
		acceptCh <- conn
	}()

	clientConn, err := dialer.Connect(l.Addr().String())
	if err != nil {
		t.Fatalf("connect failed: %v", err)
	}
	defer clientConn.Close()

	serverConn := <-acceptCh
	if serverConn == nil {
		t.Fatal("no accepted connection")
	}
	defer serverConn.Close()

	conf := common.TransportConf{
		SocketConf: common.SocketConf{WriteBufferSize: 64 * 1024, ReadBufferSize: 64 * 1024},
		TCPConf:    common.TCPConf{TCPNoDelay: true, TCPLingerSec: -1},
	}
	if err := listener.UpgradeConnection(serverConn, conf); err != nil {
		t.Errorf("server upgrade failed: %v", err)
	}
	if err := dialer.UpgradeConnection(clientConn, conf); err != nil {
		t.Errorf("client upgrade failed: %v", err)
	}

	payload := []byte("opaque filler")
	if _, err := clientConn.Write(payload); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	buf := make([]byte, len(payload))
	if _, err := io.ReadFull(serverConn, buf); err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if string(buf) != string(payload) {
		t.Errorf("payload mismatch: %q", buf)
	}
}

// TestTCPConnectors tests the TCP listener/dialer pair
func TestTCPConnectors(t *testing.T) {
	listener := tcp.NewTCPListenerConnector()
	dialer := tcp.NewTCPDialerConnector()

	if listener.GetName() != "tcp" || dialer.GetName() != "tcp" {
		t.Errorf("unexpected connector names: %s / %s", listener.GetName(), dialer.GetName())
	}

	config := common.ServerConfig{
		BindAddress: "127.0.0.1",
		Port:        0,
		Transport:   "tcp",
	}
	roundTrip(t, listener, dialer, config)
}

// TestUnixConnectors tests the Unix socket listener/dialer pair
func TestUnixConnectors(t *testing.T) {
	listener := unix.NewUnixListenerConnector()
	dialer := unix.NewUnixDialerConnector()

	if listener.GetName() != "unix" || dialer.GetName() != "unix" {
		t.Errorf("unexpected connector names: %s / %s", listener.GetName(), dialer.GetName())
	}

	config := common.ServerConfig{
		Transport:  "unix",
		SocketPath: filepath.Join(t.TempDir(), "perf.sock"),
	}
	roundTrip(t, listener, dialer, config)
}

// TestBindFailure tests that an occupied port surfaces as an error
func TestBindFailure(t *testing.T) {
	occupied, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}
	defer occupied.Close()

	_, portStr, err := net.SplitHostPort(occupied.Addr().String())
	if err != nil {
		t.Fatalf("failed to parse address: %v", err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		t.Fatalf("failed to parse port: %v", err)
	}

	config := common.ServerConfig{
		BindAddress: "127.0.0.1",
		Port:        port,
		Transport:   "tcp",
	}

	if _, err := tcp.NewTCPListenerConnector().Listen(config); err == nil {
		t.Error("listen on an occupied port should have failed")
	}
}
