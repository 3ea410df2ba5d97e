// Package cmd implements the rankcore command-line interface: a small
// cobra command tree, one file per subcommand, flags registered in
// init().
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "rankcore",
	Short: "A ranked-retrieval search core: build a toy index, then query it",
}

// Execute runs the command tree; main.go's sole job is to call this.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
