package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/sultanavtajev/simpleperf/cmd/client"
	"github.com/sultanavtajev/simpleperf/cmd/serve"
	"github.com/sultanavtajev/simpleperf/cmd/util"
)

const (
	Version = "1.0.0"
)

var (

	// RootCmd represents the base command when called without any subcommands
	RootCmd = &cobra.Command{
		Use:   "simpleperf",
		Short: "TCP throughput measurement tool",
		Long: fmt.Sprintf(`simpleperf (v%s)

A point-to-point throughput measurement tool: start a server that receives
and measures, then run a client that pumps bytes over one or more parallel
connections and reports the transfer rate over time.`, Version),
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of simpleperf",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("simpleperf v%s\n", Version)
		},
	}
)

func init() {
	// Add Commands
	RootCmd.AddCommand(serve.ServeCmd)
	RootCmd.AddCommand(client.ClientCmd)
	RootCmd.AddCommand(versionCmd)

	// Add Flags
	key := "format"
	RootCmd.PersistentFlags().String(key, "MB", util.WrapString("unit for the summary of results (B, KB, MB)"))
	key = "transport"
	RootCmd.PersistentFlags().String(key, "tcp", util.WrapString("transport to measure over (tcp, unix)"))
	key = "log-level"
	RootCmd.PersistentFlags().String(key, "info", util.WrapString("log level (debug, info, warn, error)"))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
