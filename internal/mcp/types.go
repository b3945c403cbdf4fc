package mcp

import "github.com/1broseidon/framewm/internal/wm"

// EmptyInput is the input for tools that take no arguments.
type EmptyInput struct{}

// StatusOutput is the output for the get_status tool.
type StatusOutput struct {
	Workspace     int    `json:"workspace"`
	WorkspaceName string `json:"workspace_name"`
	Workspaces    int    `json:"workspaces"`
	Windows       int    `json:"windows"`
	Icons         int    `json:"icons"`
	Focused       uint32 `json:"focused,omitempty"`
	FocusedTitle  string `json:"focused_title,omitempty"`
	Style         string `json:"style"`
	UptimeSeconds int64  `json:"uptime_seconds"`
}

// ListWindowsInput is the input for the list_windows tool.
type ListWindowsInput struct {
	Workspace string `json:"workspace,omitempty" jsonschema:"Only list windows on this workspace, by name or index"`
	Iconic    *bool  `json:"iconic,omitempty" jsonschema:"When set, only list iconified (true) or visible (false) windows"`
}

// ListWindowsOutput is the output for the list_windows tool.
type ListWindowsOutput struct {
	Windows []wm.WindowInfo `json:"windows"`
}

// ListWorkspacesOutput is the output for the list_workspaces tool.
type ListWorkspacesOutput struct {
	Workspaces []wm.WorkspaceInfo `json:"workspaces"`
}

// SwitchWorkspaceInput is the input for the switch_workspace tool.
type SwitchWorkspaceInput struct {
	Workspace string `json:"workspace" jsonschema:"Workspace name or zero-based index"`
}

// AddWorkspaceInput is the input for the add_workspace tool.
type AddWorkspaceInput struct {
	Name string `json:"name,omitempty" jsonschema:"Name of the new workspace (default: Workspace N)"`
}

// ActivateWindowInput is the input for the activate_window tool.
type ActivateWindowInput struct {
	Window string `json:"window" jsonschema:"Window id (decimal or 0x hex) or a case-insensitive title substring"`
}

// RunCommandInput is the input for the run_command tool.
type RunCommandInput struct {
	Command string `json:"command" jsonschema:"One of workspace_next, workspace_prev, iconify, close, maximize, shade, stick, raise, lower"`
}

// ResultOutput reports whether a state change took effect.
type ResultOutput struct {
	Outcome string `json:"outcome"`
	Reason  string `json:"reason,omitempty"`
}
