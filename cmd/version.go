package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	Version = "dev"
	Commit  = "none"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the rankcore version",
	RunE: func(cmd *cobra.Command, _ []string) error {
		fmt.Fprintf(cmd.OutOrStdout(), "rankcore %s (%s)\n", Version, Commit)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
