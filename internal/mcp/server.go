// Package mcp exposes a running display to MCP clients over stdio. Tool
// handlers run on SDK goroutines and hop to the display goroutine with
// SyncExec for every toolkit call.
package mcp

import (
	"context"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Mailaender/eclipse.platform.swt/internal/display"
)

const (
	ServerName    = "swt-display"
	ServerVersion = "0.1.0"
)

// Server is the MCP server for display introspection.
type Server struct {
	mcpServer *mcpsdk.Server
	display   *display.Display
}

// NewServer creates an MCP server bound to a live display.
func NewServer(d *display.Display) (*Server, error) {
	if d == nil {
		return nil, display.ErrNilArgument
	}
	s := &Server{display: d}
	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)
	s.registerTools()
	return s, nil
}

// Run serves on stdio transport, blocking until the client disconnects or
// the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_widgets",
		Description: "List every widget registered with the display, with its native handle and disposal state.",
	}, s.handleListWidgets)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "get_system_colors",
		Description: "Return the display's resolved system colors as hex values keyed by color name.",
	}, s.handleGetSystemColors)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "post_event",
		Description: "Inject a simulated input event (key or button press/release, or pointer motion) into the display's event stream. Reports whether the platform accepted the injection.",
	}, s.handlePostEvent)
}
