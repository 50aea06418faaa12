package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/jmwilson/ollie/internal/cli"
	"github.com/jmwilson/ollie/internal/config"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "ollie",
	Short: "Ollie relays spoken commands to bench oscilloscopes",
	Long: `Ollie turns voice-assistant intents into SCPI commands for Keysight and Rigol
oscilloscopes. Intents arrive over MQTT (Hermes), Redis, HTTP or MCP, or are typed
on the command line.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", "", "Path to the YAML configuration file")
	rootCmd.PersistentFlags().String("dialect", "", "Override device.dialect (keysight, keysight-legacy, rigol)")
	rootCmd.PersistentFlags().String("device", "", "Override device.path, or device.address for tcp devices")
	rootCmd.PersistentFlags().String("log-level", "", "Override log.level (debug, info, warn, error)")
}

// loadConfig reads the configuration, applies flag overrides and builds the logger.
func loadConfig(cmd *cobra.Command) (config.Config, *slog.Logger, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, nil, err
	}

	if v, _ := cmd.Flags().GetString("dialect"); v != "" {
		cfg.Device.Dialect = v
	}
	if v, _ := cmd.Flags().GetString("device"); v != "" {
		if cfg.DeviceKind() == config.KindTCP {
			cfg.Device.Address = v
		} else {
			cfg.Device.Path = v
		}
	}
	if v, _ := cmd.Flags().GetString("log-level"); v != "" {
		cfg.Log.Level = v
	}
	if err := cfg.Validate(); err != nil {
		return cfg, nil, err
	}

	logger, err := cli.NewLogger(cfg.Log)
	if err != nil {
		return cfg, nil, err
	}
	slog.SetDefault(logger)
	return cfg, logger, nil
}
