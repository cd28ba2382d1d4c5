package main

import (
	"os"

	"github.com/kankavli/greenarea/cmd"
	"github.com/kankavli/greenarea/internal/iocache"
)

func main() {
	err := run()
	if err != nil {
		os.Exit(1)
	}
}

// run executes the root command and closes the stores before returning,
// since os.Exit skips deferred calls.
func run() error {
	defer iocache.CloseStores()
	if err := cmd.Execute(); err != nil {
		_, _ = os.Stderr.WriteString("Error: " + err.Error() + "\n")
		return err
	}
	return nil
}
