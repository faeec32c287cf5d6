package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ed-dc/ClawTaint/internal/gate"
	"github.com/ed-dc/ClawTaint/internal/logging"
	"github.com/ed-dc/ClawTaint/internal/mcp"
)

var mcpVerbose bool

func init() {
	rootCmd.AddCommand(mcpCmd)
	mcpCmd.Flags().BoolVarP(&mcpVerbose, "verbose", "v", false, "Debug logging to stderr")
}

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the gate as an MCP server on stdio",
	Long: "Exposes the gate over the Model Context Protocol so an agent host can\n" +
		"route resource access and shell commands through it. Sessions live for\n" +
		"the life of the server process. The config file is watched and reloaded\n" +
		"on change.",
	RunE: runMCP,
}

func runMCP(cmd *cobra.Command, args []string) error {
	// stdout carries the MCP transport, so all logging goes to stderr.
	logging.Configure(mcpVerbose, os.Stderr)
	log := logging.Named("mcp")

	g, err := gate.New(configPath)
	if err != nil {
		return err
	}
	defer g.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reloader, err := gate.NewReloader(g)
	if err != nil {
		log.WithError(err).Warn("config watch unavailable, continuing without hot reload")
	} else if reloader != nil {
		go func() {
			if err := reloader.Run(ctx); err != nil {
				log.WithError(err).Warn("config watcher stopped")
			}
		}()
	}

	log.WithField("config_hash", g.ConfigHash()).Info("gate ready, serving MCP on stdio")
	return mcp.New(g).Run(ctx)
}
