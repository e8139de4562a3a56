package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	version = "0.1.0"
	commit  = "dev"
	date    = "unknown"
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "loom",
		Short: "Loom - declarative UI template compiler",
		Long: `Loom compiles parsed UI templates into normalized template descriptors:
a static skeleton shared across re-renders plus dense, path-addressed
dynamic slots that a reactive runtime can instantiate, diff and patch
at minimal cost.`,
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	}

	rootCmd.AddCommand(newCompileCommand())
	rootCmd.AddCommand(newWatchCommand())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
