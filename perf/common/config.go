package common

import (
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"
)

// --------------------------------------------------------------------------
// Socket configuration structs
// --------------------------------------------------------------------------

// SocketConf holds socket buffer settings shared by all transports.
type SocketConf struct {
	// WriteBufferSize is the socket write buffer size in bytes (0 = OS default)
	WriteBufferSize int
	// ReadBufferSize is the socket read buffer size in bytes (0 = OS default)
	ReadBufferSize int
}

// TCPConf holds TCP-specific socket settings (ignored for unix sockets).
type TCPConf struct {
	// TCPNoDelay disables Nagle's algorithm when true
	TCPNoDelay bool
	// TCPKeepAliveSec is the keep-alive period in seconds (0 = disabled)
	TCPKeepAliveSec int
	// TCPLingerSec is the linger time in seconds (negative = OS default)
	TCPLingerSec int
}

// TransportConf bundles all transport tuning options.
type TransportConf struct {
	SocketConf
	TCPConf
}

// --------------------------------------------------------------------------
// Server configuration struct
// --------------------------------------------------------------------------

// ServerConfig holds all configuration parameters for the server. Syntax
// validation (IP/port/unit formats) happens in the CLI layer; the core
// consumes these values as already validated.
type ServerConfig struct {
	// Network settings
	BindAddress string
	Port        int

	// Transport selects the listener implementation ("tcp" or "unix")
	Transport string
	// SocketPath is the unix socket path (unix transport only)
	SocketPath string

	// ChunkSize is the read buffer size in bytes for the receive loop
	ChunkSize int

	// Unit for summary output
	Unit Unit

	// MetricsEndpoint is the optional address for the Prometheus /metrics
	// endpoint (empty = disabled)
	MetricsEndpoint string

	// Transport tuning
	TransportConf

	// Logging configuration
	LogLevel string
}

// Endpoint returns the listen address for the configured transport.
func (c *ServerConfig) Endpoint() string {
	if c.Transport == "unix" {
		return c.SocketPath
	}
	return net.JoinHostPort(c.BindAddress, strconv.Itoa(c.Port))
}

// String returns a formatted string representation of the configuration
func (c *ServerConfig) String() string {
	var sb strings.Builder

	addSection, addField := configFormatters(&sb)

	addSection("Server")
	addField("Transport", c.Transport)
	addField("Endpoint", c.Endpoint())
	addField("Chunk Size", FormatBytes(int64(c.ChunkSize), UnitKB))
	addField("Unit", c.Unit.String())
	if c.MetricsEndpoint != "" {
		addField("Metrics Endpoint", c.MetricsEndpoint)
	}

	addSocketSection(addSection, addField, c.Transport, c.TransportConf)

	addSection("Logging")
	addField("Log Level", c.LogLevel)

	return sb.String()
}

// --------------------------------------------------------------------------
// Client configuration struct
// --------------------------------------------------------------------------

// ClientConfig holds all configuration parameters for the client.
type ClientConfig struct {
	// Network settings
	ServerAddress string
	Port          int

	// Transport selects the dialer implementation ("tcp" or "unix")
	Transport string
	// SocketPath is the unix socket path (unix transport only)
	SocketPath string

	// Parallel is the number of parallel connections (>= 1)
	Parallel int

	// Duration is the target transfer duration. Ignored when ByteBudget is
	// set - exactly one of the two stop conditions is active.
	Duration time.Duration

	// ByteBudget is the total number of bytes to send across all
	// connections (0 = transfer for Duration instead)
	ByteBudget int64

	// Interval is the period for live rate reports (0 = disabled)
	Interval time.Duration

	// ChunkSize is the write chunk size in bytes for the send loop
	ChunkSize int

	// Unit for summary output
	Unit Unit

	// Transport tuning
	TransportConf

	// Logging configuration
	LogLevel string
}

// Endpoint returns the dial address for the configured transport.
func (c *ClientConfig) Endpoint() string {
	if c.Transport == "unix" {
		return c.SocketPath
	}
	return net.JoinHostPort(c.ServerAddress, strconv.Itoa(c.Port))
}

// String returns a formatted string representation of the client configuration
func (c *ClientConfig) String() string {
	var sb strings.Builder

	addSection, addField := configFormatters(&sb)

	addSection("Client")
	addField("Transport", c.Transport)
	addField("Endpoint", c.Endpoint())
	addField("Parallel Connections", strconv.Itoa(c.Parallel))
	if c.ByteBudget > 0 {
		addField("Byte Budget", FormatBytes(c.ByteBudget, c.Unit))
	} else {
		addField("Duration", c.Duration.String())
	}
	if c.Interval > 0 {
		addField("Report Interval", c.Interval.String())
	}
	addField("Chunk Size", FormatBytes(int64(c.ChunkSize), UnitKB))
	addField("Unit", c.Unit.String())

	addSocketSection(addSection, addField, c.Transport, c.TransportConf)

	addSection("Logging")
	addField("Log Level", c.LogLevel)

	return sb.String()
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

// configFormatters creates helper functions for consistent formatting
func configFormatters(sb *strings.Builder) (func(string), func(string, string)) {
	addSection := func(title string) {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%s\n", strings.ToUpper(title)))
	}

	addField := func(name, value string) {
		sb.WriteString(fmt.Sprintf("  %-22s: %s\n", name, value))
	}

	return addSection, addField
}

// addSocketSection appends the socket tuning section if any option is set
func addSocketSection(addSection func(string), addField func(string, string), transport string, conf TransportConf) {
	if conf.WriteBufferSize == 0 && conf.ReadBufferSize == 0 && !conf.TCPNoDelay && conf.TCPKeepAliveSec == 0 {
		return
	}

	addSection("Socket")
	if conf.WriteBufferSize > 0 {
		addField("Write Buffer", FormatBytes(int64(conf.WriteBufferSize), UnitKB))
	}
	if conf.ReadBufferSize > 0 {
		addField("Read Buffer", FormatBytes(int64(conf.ReadBufferSize), UnitKB))
	}
	if transport == "tcp" {
		addField("TCP NoDelay", strconv.FormatBool(conf.TCPNoDelay))
		if conf.TCPKeepAliveSec > 0 {
			addField("TCP KeepAlive (s)", strconv.Itoa(conf.TCPKeepAliveSec))
		}
	}
}
