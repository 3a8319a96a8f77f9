package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marmos91/cachefs/pkg/config"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default configuration file",
	RunE:  runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite an existing config file")
}

func runInit(cmd *cobra.Command, args []string) error {
	var (
		path string
		err  error
	)
	if configured := GetConfigFile(); configured != "" {
		path = configured
		err = config.InitConfigToPath(path, initForce)
	} else {
		path, err = config.InitConfig(initForce)
	}
	if err != nil {
		return err
	}
	fmt.Printf("Configuration file written to: %s\n", path)
	return nil
}
