package serve

import (
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	cmdUtil "github.com/sultanavtajev/simpleperf/cmd/util"
	"github.com/sultanavtajev/simpleperf/perf/common"
	"github.com/sultanavtajev/simpleperf/perf/server"
)

var (
	serveCmdConfig = &common.ServerConfig{}
	ServeCmd       = &cobra.Command{
		Use:     "serve",
		Short:   "Start the simpleperf server",
		Long:    `Start the simpleperf server. It accepts any number of concurrent client connections, measures the bytes each peer sends and prints one summary line per finished transfer. Configuration can be set via command line flags or environment variables (format: SIMPLEPERF_<flag>, e.g. SIMPLEPERF_PORT=8088).`,
		PreRunE: processConfig,
		RunE:    run,
	}
)

func init() {
	// initialize viper
	cobra.OnInitialize(cmdUtil.InitConfig)

	// add flags
	key := "bind"
	ServeCmd.PersistentFlags().String(key, "127.0.0.1", cmdUtil.WrapString("IP address to bind the server to"))

	key = "port"
	ServeCmd.PersistentFlags().Int(key, 8088, cmdUtil.WrapString("Port number on which the server should listen"))

	key = "chunk-size"
	ServeCmd.PersistentFlags().Int(key, 64, cmdUtil.WrapString("Read buffer size in KB for the receive loop"))

	key = "metrics-endpoint"
	ServeCmd.PersistentFlags().String(key, "", cmdUtil.WrapString("Optional address for the Prometheus /metrics endpoint (e.g. localhost:9090, empty = disabled)"))

	// add transport tuning flags
	cmdUtil.SetupTransportFlags(ServeCmd)
}

// processConfig reads the configuration from the command line flags and environment variables and converts them to the server configuration
func processConfig(cmd *cobra.Command, _ []string) error {
	// bind the flags to viper
	if err := cmdUtil.BindCommandFlags(cmd); err != nil {
		return err
	}

	// validate the bind address
	bind := viper.GetString("bind")
	if net.ParseIP(bind) == nil {
		return fmt.Errorf("invalid bind address: %s", bind)
	}

	// validate the port
	port := viper.GetInt("port")
	if port < 1 || port > 65535 {
		return fmt.Errorf("invalid port: %d (expected 1-65535)", port)
	}

	// parse the output unit
	unit, err := cmdUtil.GetUnit()
	if err != nil {
		return err
	}

	serveCmdConfig.BindAddress = bind
	serveCmdConfig.Port = port
	serveCmdConfig.Transport = viper.GetString("transport")
	serveCmdConfig.SocketPath = viper.GetString("unix-socket")
	serveCmdConfig.ChunkSize = viper.GetInt("chunk-size") * 1024
	serveCmdConfig.Unit = unit
	serveCmdConfig.MetricsEndpoint = viper.GetString("metrics-endpoint")
	serveCmdConfig.TransportConf = cmdUtil.GetTransportConf()
	serveCmdConfig.LogLevel = viper.GetString("log-level")

	if serveCmdConfig.ChunkSize <= 0 {
		return fmt.Errorf("invalid chunk size: %d", viper.GetInt("chunk-size"))
	}

	return nil
}

func run(_ *cobra.Command, _ []string) error {
	common.InitLoggers(serveCmdConfig.LogLevel)

	fmt.Println(serveCmdConfig.String())

	connector, err := cmdUtil.GetListenerConnector()
	if err != nil {
		return err
	}

	reporter := common.NewReporter(os.Stdout, serveCmdConfig.Unit)
	srv := server.NewPerfServer(*serveCmdConfig, connector, reporter)

	if err := srv.Listen(); err != nil {
		return err
	}

	// Stop accepting on SIGINT/SIGTERM, let in-flight sessions finish
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		server.Logger.Infof("shutting down")
		srv.Shutdown()
	}()

	return srv.Serve()
}
