package mcp

import (
	"context"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/framewm/internal/ipc"
	"github.com/1broseidon/framewm/internal/wm"
)

const (
	ServerName    = "framewm"
	ServerVersion = "0.1.0"
)

// WMClient is the control socket client the tools call. *ipc.Client
// implements it.
type WMClient interface {
	GetStatus() (*ipc.StatusData, error)
	ListWindows() ([]wm.WindowInfo, error)
	ListWorkspaces() ([]wm.WorkspaceInfo, error)
	AddWorkspace(name string) (*wm.WorkspaceInfo, error)
	RemoveWorkspace() (*ipc.ResultData, error)
	SwitchWorkspace(index int) (*ipc.ResultData, error)
	Run(name string) (*ipc.ResultData, error)
	Activate(window uint32) (*ipc.ResultData, error)
	Reconfigure() error
	Reload() error
}

var _ WMClient = (*ipc.Client)(nil)

// Server is the MCP server exposing window manager control.
type Server struct {
	mcpServer *mcpsdk.Server
	client    WMClient
}

// NewServer creates an MCP server that drives the window manager through
// client.
func NewServer(client WMClient) *Server {
	s := &Server{client: client}
	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)
	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "get_status",
		Description: "Report the current workspace, window and icon counts, the focused window and the active style.",
	}, s.handleGetStatus)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_windows",
		Description: "List managed windows with their workspace, frame geometry and state (focused, iconic, shaded, stuck, maximized). Optionally filter by workspace or iconic state.",
	}, s.handleListWindows)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_workspaces",
		Description: "List workspaces in order with their window counts and which one is current.",
	}, s.handleListWorkspaces)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "switch_workspace",
		Description: "Make a workspace current. Accepts a workspace name or zero-based index.",
	}, s.handleSwitchWorkspace)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "add_workspace",
		Description: "Append a new workspace.",
	}, s.handleAddWorkspace)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "remove_workspace",
		Description: "Remove the last workspace. Its windows move to the workspace before it.",
	}, s.handleRemoveWorkspace)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "activate_window",
		Description: "Raise and focus a window, switching to its workspace or deiconifying it first. Accepts a window id (decimal or 0x hex) or a title substring.",
	}, s.handleActivateWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "run_command",
		Description: "Run a window manager command. Window commands (iconify, close, maximize, shade, stick, raise, lower) act on the focused window.",
	}, s.handleRunCommand)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "reconfigure",
		Description: "Re-apply the current style and policies to every window.",
	}, s.handleReconfigure)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "reload_config",
		Description: "Read the configuration file again and apply it, including key bindings.",
	}, s.handleReloadConfig)
}
