package util

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/sultanavtajev/simpleperf/perf/common"
	"github.com/sultanavtajev/simpleperf/perf/transport"
	"github.com/sultanavtajev/simpleperf/perf/transport/tcp"
	"github.com/sultanavtajev/simpleperf/perf/transport/unix"
)

const (
	// Wrap is the number of characters to Wrap the help text at
	Wrap int = 50
)

// WrapString wraps a string at Wrap characters
func WrapString(text string) string {
	var wrappedLines []string
	var currentLine strings.Builder
	lineWidth := 0

	for _, word := range strings.Fields(text) {
		wordWidth := len(word)

		// Check if we need to wrap
		if lineWidth > 0 && lineWidth+1+wordWidth > Wrap {
			wrappedLines = append(wrappedLines, currentLine.String())
			currentLine.Reset()
			lineWidth = 0
		}

		// Add space before word (if not first word on line)
		if lineWidth > 0 {
			currentLine.WriteString(" ")
			lineWidth++
		}

		// Add the word
		currentLine.WriteString(word)
		lineWidth += wordWidth
	}

	// Add any remaining text
	if currentLine.Len() > 0 {
		wrappedLines = append(wrappedLines, currentLine.String())
	}

	return strings.Join(wrappedLines, "\n")
}

// SetupTransportFlags adds the socket tuning flags shared by server and
// client commands
func SetupTransportFlags(cmd *cobra.Command) {
	key := "unix-socket"
	cmd.PersistentFlags().String(key, "/tmp/simpleperf.sock", WrapString("Socket path for the unix transport"))

	key = "transport-write-buffer"
	cmd.PersistentFlags().Int(key, 0, WrapString("Socket write buffer size in KB (0 = OS default)"))

	key = "transport-read-buffer"
	cmd.PersistentFlags().Int(key, 0, WrapString("Socket read buffer size in KB (0 = OS default)"))

	key = "transport-tcp-nodelay"
	cmd.PersistentFlags().Bool(key, true, WrapString("Whether to enable TCP_NODELAY (tcp transport only)"))

	key = "transport-tcp-keepalive"
	cmd.PersistentFlags().Int(key, 0, WrapString("TCP keepalive interval in seconds (0 = disabled, tcp transport only)"))

	key = "transport-tcp-linger"
	cmd.PersistentFlags().Int(key, -1, WrapString("TCP linger time in seconds (-1 = OS default, tcp transport only)"))
}

// InitConfig initializes configuration from environment variables
func InitConfig() {
	// load env files
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	// initialize viper
	viper.SetEnvPrefix("simpleperf")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match
}

// BindCommandFlags binds a command's flags to viper
func BindCommandFlags(cmd *cobra.Command) error {
	return viper.BindPFlags(cmd.Flags())
}

// GetUnit reads the output unit from viper
func GetUnit() (common.Unit, error) {
	return common.ParseUnit(viper.GetString("format"))
}

// GetTransportConf reads the socket tuning options from viper
func GetTransportConf() common.TransportConf {
	return common.TransportConf{
		SocketConf: common.SocketConf{
			WriteBufferSize: viper.GetInt("transport-write-buffer") * 1024,
			ReadBufferSize:  viper.GetInt("transport-read-buffer") * 1024,
		},
		TCPConf: common.TCPConf{
			TCPNoDelay:      viper.GetBool("transport-tcp-nodelay"),
			TCPKeepAliveSec: viper.GetInt("transport-tcp-keepalive"),
			TCPLingerSec:    viper.GetInt("transport-tcp-linger"),
		},
	}
}

// GetListenerConnector creates a listener connector based on configuration
func GetListenerConnector() (transport.IListenerConnector, error) {
	switch viper.GetString("transport") {
	case "tcp":
		return tcp.NewTCPListenerConnector(), nil
	case "unix":
		return unix.NewUnixListenerConnector(), nil
	default:
		return nil, fmt.Errorf("invalid transport %s", viper.GetString("transport"))
	}
}

// GetDialerConnector creates a dialer connector based on configuration
func GetDialerConnector() (transport.IDialerConnector, error) {
	switch viper.GetString("transport") {
	case "tcp":
		return tcp.NewTCPDialerConnector(), nil
	case "unix":
		return unix.NewUnixDialerConnector(), nil
	default:
		return nil, fmt.Errorf("invalid transport %s", viper.GetString("transport"))
	}
}
