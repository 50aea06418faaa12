package main

import (
	"errors"
	"os"
	"strings"

	"github.com/jmwilson/ollie"
	"github.com/jmwilson/ollie/internal/cli"
	"github.com/jmwilson/ollie/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var consoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Type intents at the instrument interactively",
	Long: `Opens the instrument and reads one intent per line from stdin:

  > setTimebaseScale scale=10 units=microseconds
  > increaseTimebase
  > exit

Use --headless to pipe a script of intents without prompts or rendering.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		headless, _ := cmd.Flags().GetBool("headless")

		sc := cli.OnSignal(cmd.Context(), logger)
		defer sc.Finish("console closed")

		inst, err := cli.OpenInstrument(sc, cfg, logger)
		if err != nil {
			return err
		}
		defer inst.Close()
		go inst.Run(sc)

		console := ollie.NewConsole()
		console.Input = os.Stdin
		console.Output = os.Stdout
		console.Headless = headless
		if !headless {
			tui.PrintBanner(os.Stdout, strings.TrimSpace(ollie.Version))
			console.Renderer = tui.RendererFor(os.Stdout)
		}

		if err := console.Run(sc, inst); err != nil && !errors.Is(err, sc.Err()) {
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(consoleCmd)
	consoleCmd.Flags().Bool("headless", false, "No prompts, banner or markdown rendering")
}
