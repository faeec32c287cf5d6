// Package mcp exposes the gate over the Model Context Protocol for agent
// runtimes that integrate via MCP tools instead of hooks.
package mcp

import (
	"context"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sirupsen/logrus"

	"github.com/ed-dc/ClawTaint/internal/gate"
	"github.com/ed-dc/ClawTaint/internal/identity"
	"github.com/ed-dc/ClawTaint/internal/logging"
)

const serverVersion = "0.1.0"

// Server wraps the MCP SDK server around one gate instance.
type Server struct {
	mcpServer *mcpsdk.Server
	gate      *gate.Gate
	// defaultSession is used when a tool call carries no session ID, so
	// a single-agent stdio session accumulates taint naturally.
	defaultSession string
	log            *logrus.Entry
}

// New creates an MCP server around the given gate.
func New(g *gate.Gate) *Server {
	s := &Server{
		gate:           g,
		defaultSession: identity.NewSessionID(),
		log:            logging.Named("mcp"),
	}

	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    "clawtaint",
			Version: serverVersion,
		},
		nil,
	)

	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport. Blocks until ctx is
// cancelled.
func (s *Server) Run(ctx context.Context) error {
	s.log.Info("serving on stdio")
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

// registerTools adds all clawtaint tools to the MCP server.
func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "clawtaint_gate",
		Description: "Run one agent action through the trust gate: classify its resource, update the session trust level, and decide whether an attached shell command is allowed.",
	}, s.handleGate)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "clawtaint_check",
		Description: "Check whether a shell command would be allowed at a given restriction tier, without touching any session state (dry-run).",
	}, s.handleCheck)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "clawtaint_status",
		Description: "Report a session's current trust level, restriction tier, and taint event count.",
	}, s.handleStatus)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "clawtaint_reset",
		Description: "Reset a session to its initial trust level and clear its taint history.",
	}, s.handleReset)
}
