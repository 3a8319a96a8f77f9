package commands

import (
	"github.com/spf13/cobra"
)

// Version is overridden at build time via -ldflags.
var Version = "dev"

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "cachefs",
	Short: "cachefs runs the distributed lock server, extent service, and filesystem client",
	Long: `cachefs implements a cache-coherent distributed lock service and a
keyed extent (blob) store, plus the filesystem-client block/directory layer
built on top of them.

Use "cachefs [command] --help" for more information about a command.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $XDG_CONFIG_HOME/cachefs/config.yaml)")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(lockServerCmd)
	rootCmd.AddCommand(extentCmd)
	rootCmd.AddCommand(clientCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// GetConfigFile returns the --config flag value, or "" if unset.
func GetConfigFile() string {
	return cfgFile
}
