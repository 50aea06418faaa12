package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jmwilson/ollie"
	"github.com/jmwilson/ollie/internal/cli"
	"github.com/jmwilson/ollie/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var sendCmd = &cobra.Command{
	Use:   "send <intent> [slot=value...]",
	Short: "Apply a single intent to the instrument",
	Long: `Opens the instrument, applies one intent and prints its outcome.
Numeric values become number slots; everything else is a spoken enum value.`,
	Example: `  ollie send setTimebaseScale scale=10 units=microseconds
  ollie send measure type="duty cycle" source="channel one"
  ollie --dialect rigol send increaseTimebase`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in, err := ollie.ParseArgs(args)
		if err != nil {
			return err
		}
		cfg, logger, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		timeout, _ := cmd.Flags().GetDuration("timeout")

		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()

		inst, err := cli.OpenInstrument(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer inst.Close()
		go inst.Run(ctx)

		outcome, dispatchErr := inst.Submit(ctx, in)
		out, err := tui.RendererFor(os.Stdout)(ollie.Report(in, outcome, dispatchErr))
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		return dispatchErr
	},
}

func init() {
	rootCmd.AddCommand(sendCmd)
	sendCmd.Flags().Duration("timeout", 10*time.Second, "Give up if the instrument has not answered in time")
}
