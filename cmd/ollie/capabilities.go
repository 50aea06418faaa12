package main

import (
	"fmt"
	"os"

	"github.com/jmwilson/ollie/internal/cli"
	"github.com/jmwilson/ollie/internal/presentation/tui"
	"github.com/jmwilson/ollie/pkg/backend"
	"github.com/jmwilson/ollie/pkg/domain"
	"github.com/spf13/cobra"
)

var capabilitiesCmd = &cobra.Command{
	Use:   "capabilities",
	Short: "Show which operations each dialect supports",
	Long: `Prints the capability matrix: for every operation, whether a dialect maps it onto a
fixed command sequence (direct), reads live state back first (computed), or rejects it
(unsupported). Output is rendered when stdout is a terminal and plain markdown otherwise.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		names, _ := cmd.Flags().GetBool("intents")

		md := cli.CapabilitiesMarkdown(backend.Matrix())
		if names {
			ops := make([]string, 0, len(domain.Operations()))
			for _, op := range domain.Operations() {
				ops = append(ops, string(op))
			}
			md = cli.OperationsMarkdown(ops)
		}

		out, err := tui.RendererFor(os.Stdout)(md)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(capabilitiesCmd)
	capabilitiesCmd.Flags().Bool("intents", false, "List the intent names instead of the matrix")
}
