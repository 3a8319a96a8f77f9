// Command cachefs runs the distributed lock server, the extent service,
// or a filesystem-client smoke check, depending on the subcommand
// invoked.
package main

import (
	"fmt"
	"os"

	"github.com/marmos91/cachefs/cmd/cachefs/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
