// Wedged - data-center switch agent
//
// Wedged consumes a declarative switch configuration, reconciles it
// against the running switch state, and publishes the applied state.
// Reconciliation is pure: a config either applies in full or is rejected
// with a structured error, and an unchanged config is a no-op.
//
// Usage:
//
//	wedged apply -c config.json [--prev-config prev.json] \
//	    --local-mac 02:00:00:00:00:01 --ports 1-32 [--appldb localhost:6379]
//	wedged version
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wedge-network/wedged/pkg/util"
)

var (
	flagLogLevel string
	flagJSONLogs bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "wedged",
		Short:         "Data-center switch agent",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if flagJSONLogs {
				util.SetJSONFormat()
			}
			return util.SetLogLevel(flagLogLevel)
		},
	}

	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&flagJSONLogs, "json-logs", false, "emit logs as JSON")

	rootCmd.AddCommand(newApplyCmd())
	rootCmd.AddCommand(newVersionCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
