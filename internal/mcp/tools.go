package mcp

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/framewm/internal/ipc"
	"github.com/1broseidon/framewm/internal/wm"
)

var runnableCommands = []string{
	wm.CmdWorkspaceNext, wm.CmdWorkspacePrev, wm.CmdIconify, wm.CmdClose,
	wm.CmdMaximize, wm.CmdShade, wm.CmdStick, wm.CmdRaise, wm.CmdLower,
}

func resultOutput(r *ipc.ResultData) ResultOutput {
	return ResultOutput{Outcome: r.Outcome, Reason: r.Reason}
}

func (s *Server) handleGetStatus(_ context.Context, _ *mcpsdk.CallToolRequest, _ EmptyInput) (*mcpsdk.CallToolResult, StatusOutput, error) {
	st, err := s.client.GetStatus()
	if err != nil {
		return nil, StatusOutput{}, err
	}
	return nil, StatusOutput(*st), nil
}

func (s *Server) handleListWindows(_ context.Context, _ *mcpsdk.CallToolRequest, args ListWindowsInput) (*mcpsdk.CallToolResult, ListWindowsOutput, error) {
	wins, err := s.client.ListWindows()
	if err != nil {
		return nil, ListWindowsOutput{}, err
	}

	if args.Workspace != "" {
		idx, err := s.resolveWorkspace(args.Workspace)
		if err != nil {
			return nil, ListWindowsOutput{}, err
		}
		wins = slices.DeleteFunc(wins, func(w wm.WindowInfo) bool { return w.Workspace != idx })
	}
	if args.Iconic != nil {
		want := *args.Iconic
		wins = slices.DeleteFunc(wins, func(w wm.WindowInfo) bool { return w.Iconic != want })
	}
	if wins == nil {
		wins = []wm.WindowInfo{}
	}
	return nil, ListWindowsOutput{Windows: wins}, nil
}

func (s *Server) handleListWorkspaces(_ context.Context, _ *mcpsdk.CallToolRequest, _ EmptyInput) (*mcpsdk.CallToolResult, ListWorkspacesOutput, error) {
	spaces, err := s.client.ListWorkspaces()
	if err != nil {
		return nil, ListWorkspacesOutput{}, err
	}
	return nil, ListWorkspacesOutput{Workspaces: spaces}, nil
}

func (s *Server) handleSwitchWorkspace(_ context.Context, _ *mcpsdk.CallToolRequest, args SwitchWorkspaceInput) (*mcpsdk.CallToolResult, ResultOutput, error) {
	idx, err := s.resolveWorkspace(args.Workspace)
	if err != nil {
		return nil, ResultOutput{}, err
	}
	res, err := s.client.SwitchWorkspace(idx)
	if err != nil {
		return nil, ResultOutput{}, err
	}
	return nil, resultOutput(res), nil
}

func (s *Server) handleAddWorkspace(_ context.Context, _ *mcpsdk.CallToolRequest, args AddWorkspaceInput) (*mcpsdk.CallToolResult, wm.WorkspaceInfo, error) {
	info, err := s.client.AddWorkspace(strings.TrimSpace(args.Name))
	if err != nil {
		return nil, wm.WorkspaceInfo{}, err
	}
	return nil, *info, nil
}

func (s *Server) handleRemoveWorkspace(_ context.Context, _ *mcpsdk.CallToolRequest, _ EmptyInput) (*mcpsdk.CallToolResult, ResultOutput, error) {
	res, err := s.client.RemoveWorkspace()
	if err != nil {
		return nil, ResultOutput{}, err
	}
	return nil, resultOutput(res), nil
}

func (s *Server) handleActivateWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args ActivateWindowInput) (*mcpsdk.CallToolResult, ResultOutput, error) {
	id, err := s.resolveWindow(args.Window)
	if err != nil {
		return nil, ResultOutput{}, err
	}
	res, err := s.client.Activate(id)
	if err != nil {
		return nil, ResultOutput{}, err
	}
	return nil, resultOutput(res), nil
}

func (s *Server) handleRunCommand(_ context.Context, _ *mcpsdk.CallToolRequest, args RunCommandInput) (*mcpsdk.CallToolResult, ResultOutput, error) {
	name := strings.TrimSpace(args.Command)
	if !slices.Contains(runnableCommands, name) {
		return nil, ResultOutput{}, fmt.Errorf("unknown command %q (available: %s)", name, strings.Join(runnableCommands, ", "))
	}
	res, err := s.client.Run(name)
	if err != nil {
		return nil, ResultOutput{}, err
	}
	return nil, resultOutput(res), nil
}

func (s *Server) handleReconfigure(_ context.Context, _ *mcpsdk.CallToolRequest, _ EmptyInput) (*mcpsdk.CallToolResult, ResultOutput, error) {
	if err := s.client.Reconfigure(); err != nil {
		return nil, ResultOutput{}, err
	}
	return nil, ResultOutput{Outcome: wm.Applied.String()}, nil
}

func (s *Server) handleReloadConfig(_ context.Context, _ *mcpsdk.CallToolRequest, _ EmptyInput) (*mcpsdk.CallToolResult, ResultOutput, error) {
	if err := s.client.Reload(); err != nil {
		return nil, ResultOutput{}, err
	}
	return nil, ResultOutput{Outcome: wm.Applied.String()}, nil
}

// resolveWorkspace maps a workspace name or index to its index. Names
// match case-insensitively; a name that is also a number wins over the
// index.
func (s *Server) resolveWorkspace(ref string) (int, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return 0, fmt.Errorf("workspace is required")
	}
	spaces, err := s.client.ListWorkspaces()
	if err != nil {
		return 0, err
	}
	for _, ws := range spaces {
		if strings.EqualFold(ws.Name, ref) {
			return ws.Index, nil
		}
	}
	if n, err := strconv.Atoi(ref); err == nil && n >= 0 && n < len(spaces) {
		return n, nil
	}
	names := make([]string, len(spaces))
	for i, ws := range spaces {
		names[i] = ws.Name
	}
	return 0, fmt.Errorf("unknown workspace %q (available: %s)", ref, strings.Join(names, ", "))
}

// resolveWindow maps a window id or title substring to a client id. A
// title must match exactly one window.
func (s *Server) resolveWindow(ref string) (uint32, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return 0, fmt.Errorf("window is required")
	}
	wins, err := s.client.ListWindows()
	if err != nil {
		return 0, err
	}
	if n, err := strconv.ParseUint(ref, 0, 32); err == nil {
		for _, w := range wins {
			if w.ID == uint32(n) {
				return w.ID, nil
			}
		}
	}
	var matches []wm.WindowInfo
	needle := strings.ToLower(ref)
	for _, w := range wins {
		if strings.Contains(strings.ToLower(w.Title), needle) {
			matches = append(matches, w)
		}
	}
	switch len(matches) {
	case 1:
		return matches[0].ID, nil
	case 0:
		return 0, fmt.Errorf("no window matches %q", ref)
	default:
		titles := make([]string, len(matches))
		for i, w := range matches {
			titles[i] = fmt.Sprintf("0x%x %s", w.ID, w.Title)
		}
		return 0, fmt.Errorf("%q matches %d windows: %s", ref, len(matches), strings.Join(titles, "; "))
	}
}
