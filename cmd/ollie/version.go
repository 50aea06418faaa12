package main

import (
	"fmt"
	"strings"

	"github.com/jmwilson/ollie"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of ollie",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "ollie version %s\n", strings.TrimSpace(ollie.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
