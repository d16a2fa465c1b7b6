package client

import (
	"fmt"
	"net"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	cmdUtil "github.com/sultanavtajev/simpleperf/cmd/util"
	"github.com/sultanavtajev/simpleperf/perf/client"
	"github.com/sultanavtajev/simpleperf/perf/common"
)

var (
	clientCmdConfig = &common.ClientConfig{}
	ClientCmd       = &cobra.Command{
		Use:     "client",
		Short:   "Run a simpleperf measurement against a server",
		Long:    `Connect to a simpleperf server and send filler bytes over one or more parallel connections, bounded by a duration or a total byte budget, then print the aggregate transfer rate. Configuration can be set via command line flags or environment variables (format: SIMPLEPERF_<flag>, e.g. SIMPLEPERF_PARALLEL=4).`,
		PreRunE: processConfig,
		RunE:    run,
	}
)

func init() {
	// initialize viper
	cobra.OnInitialize(cmdUtil.InitConfig)

	// add flags
	key := "server-ip"
	ClientCmd.PersistentFlags().String(key, "127.0.0.1", cmdUtil.WrapString("IP address of the server"))

	key = "port"
	ClientCmd.PersistentFlags().Int(key, 8088, cmdUtil.WrapString("Port number of the server"))

	key = "time"
	ClientCmd.PersistentFlags().Int(key, 25, cmdUtil.WrapString("Total duration in seconds for which data should be sent"))

	key = "interval"
	ClientCmd.PersistentFlags().Int(key, 0, cmdUtil.WrapString("Print statistics every given number of seconds (0 = disabled)"))

	key = "parallel"
	ClientCmd.PersistentFlags().Int(key, 1, cmdUtil.WrapString("Number of parallel connections to create"))

	key = "num"
	ClientCmd.PersistentFlags().String(key, "", cmdUtil.WrapString("Total number of bytes to transfer (e.g. 1000000B, 500KB, 10MB) - overrides the duration"))

	key = "chunk-size"
	ClientCmd.PersistentFlags().Int(key, 64, cmdUtil.WrapString("Write chunk size in KB for the send loop"))

	// add transport tuning flags
	cmdUtil.SetupTransportFlags(ClientCmd)
}

// processConfig reads the configuration from the command line flags and environment variables and converts them to the client configuration
func processConfig(cmd *cobra.Command, _ []string) error {
	// bind the flags to viper
	if err := cmdUtil.BindCommandFlags(cmd); err != nil {
		return err
	}

	// validate the server address
	serverIP := viper.GetString("server-ip")
	if net.ParseIP(serverIP) == nil {
		return fmt.Errorf("invalid server address: %s", serverIP)
	}

	// validate the port
	port := viper.GetInt("port")
	if port < 1 || port > 65535 {
		return fmt.Errorf("invalid port: %d (expected 1-65535)", port)
	}

	// validate the parallel connection count
	parallel := viper.GetInt("parallel")
	if parallel < 1 {
		return fmt.Errorf("invalid parallel connection count: %d (expected >= 1)", parallel)
	}

	// parse the output unit
	unit, err := cmdUtil.GetUnit()
	if err != nil {
		return err
	}

	// parse the optional byte budget (overrides the duration)
	var budget int64
	if num := viper.GetString("num"); num != "" {
		if budget, err = common.ParseByteSize(num); err != nil {
			return err
		}
		if budget <= 0 {
			return fmt.Errorf("invalid byte budget: %s", num)
		}
	}

	clientCmdConfig.ServerAddress = serverIP
	clientCmdConfig.Port = port
	clientCmdConfig.Transport = viper.GetString("transport")
	clientCmdConfig.SocketPath = viper.GetString("unix-socket")
	clientCmdConfig.Parallel = parallel
	clientCmdConfig.Duration = time.Duration(viper.GetInt("time")) * time.Second
	clientCmdConfig.ByteBudget = budget
	clientCmdConfig.Interval = time.Duration(viper.GetInt("interval")) * time.Second
	clientCmdConfig.ChunkSize = viper.GetInt("chunk-size") * 1024
	clientCmdConfig.Unit = unit
	clientCmdConfig.TransportConf = cmdUtil.GetTransportConf()
	clientCmdConfig.LogLevel = viper.GetString("log-level")

	if clientCmdConfig.ChunkSize <= 0 {
		return fmt.Errorf("invalid chunk size: %d", viper.GetInt("chunk-size"))
	}
	if budget == 0 && clientCmdConfig.Duration <= 0 {
		return fmt.Errorf("invalid duration: %d (expected > 0)", viper.GetInt("time"))
	}

	return nil
}

func run(_ *cobra.Command, _ []string) error {
	common.InitLoggers(clientCmdConfig.LogLevel)

	fmt.Println(clientCmdConfig.String())

	connector, err := cmdUtil.GetDialerConnector()
	if err != nil {
		return err
	}

	reporter := common.NewReporter(os.Stdout, clientCmdConfig.Unit)
	dispatcher := client.NewDispatcher(*clientCmdConfig, connector, reporter)

	// The summary has already been reported; a non-nil error marks the
	// session as (partially) failed and yields a non-zero exit code
	_, err = dispatcher.Run()
	return err
}
