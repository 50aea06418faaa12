package main

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/jmwilson/ollie/internal/cli"
	"github.com/jmwilson/ollie/pkg/adapters/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Opens the instrument and exposes it as an MCP Server.
This allows AI agents (like Claude Desktop) to drive the oscilloscope with the same
intents a voice assistant sends.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		transport, _ := cmd.Flags().GetString("transport")
		addr, _ := cmd.Flags().GetString("listen")
		if transport != "stdio" && transport != "sse" {
			return fmt.Errorf("unknown transport: %s. Supported: stdio, sse", transport)
		}

		// Logs go to stderr so they don't corrupt JSON-RPC on stdout.
		log.SetOutput(os.Stderr)
		cfg, logger, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		sc := cli.OnSignal(cmd.Context(), logger)
		defer sc.Finish("MCP server stopped")

		inst, err := cli.OpenInstrument(sc, cfg, logger)
		if err != nil {
			return err
		}
		defer inst.Close()
		go inst.Run(sc)

		srv := mcp.NewServer(inst, inst, cfg.Dialect(), logger)

		switch transport {
		case "sse":
			logger.Info("Starting ollie MCP Server (SSE)", "address", addr)
			if err := srv.ServeSSE(sc, addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		default:
			logger.Info("Starting ollie MCP Server (Stdio)...")
			return srv.ServeStdio()
		}
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)

	mcpCmd.Flags().String("transport", "stdio", "Transport protocol to use: 'stdio' or 'sse'")
	mcpCmd.Flags().String("listen", ":8081", "Address to listen on (only for SSE)")
}
