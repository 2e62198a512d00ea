package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aretw0/mosaic/internal/presentation/tui"
	"github.com/aretw0/mosaic/pkg/adapters/mcp"
	"github.com/aretw0/mosaic/pkg/observability"
	"github.com/aretw0/mosaic/pkg/session"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Exposes workspaces to AI agents as MCP tools: inspect a workspace, split and
close panes, swap tools, move focus and cache pane state.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.

With the redis store, agents share workspaces with the HTTP server.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		transport, _ := cmd.Flags().GetString("transport")
		port, _ := cmd.Flags().GetInt("port")

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		// Stdout carries JSON-RPC; logs must stay on stderr.
		log.SetOutput(os.Stderr)
		logger, err := newLogger(cfg, os.Stderr)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		back, err := openStore(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer back.Close()

		engine := newEngine(cfg, logger, observability.LogHooks(logger))
		manager := session.NewManager(back.store, engine, append(back.options, session.WithLogger(logger))...)
		srv := mcp.NewServer(manager,
			mcp.WithCatalog(tui.Tools(nil, nil)),
			mcp.WithLogger(logger),
		)

		switch transport {
		case "stdio":
			logger.Info("Starting Mosaic MCP Server (Stdio)")
			return srv.ServeStdio()
		case "sse":
			logger.Info("Starting Mosaic MCP Server (SSE)", "port", port)
			if err := srv.ServeSSE(ctx, port); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			logger.Info("MCP Server stopped gracefully")
			return nil
		default:
			return fmt.Errorf("unknown transport: %s. Supported: stdio, sse", transport)
		}
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)

	mcpCmd.Flags().String("transport", "stdio", "Transport protocol to use: 'stdio' or 'sse'")
	mcpCmd.Flags().Int("port", 8080, "Port to listen on (only for SSE)")
}
