package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var cfgFile string

// rootCmd is the base command when called without subcommands.
var rootCmd = &cobra.Command{
	Use:   "dcn-syslog",
	Short: "DCN syslog classification and reporting",
	Long: `dcn-syslog classifies monthly DCN syslog dumps by device category
(TFN, TWM, UNKNOWN) and severity, and writes per-category CSV tables,
trend and pie charts into timestamped output folders.

Settings come from flags, DCN_* environment variables and an optional
YAML config file, in that order of precedence.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (yaml)")
}
