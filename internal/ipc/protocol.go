package ipc

import (
	"encoding/json"
	"fmt"

	"github.com/1broseidon/framewm/internal/wm"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandGetStatus       CommandType = "GET_STATUS"
	CommandListWindows     CommandType = "LIST_WINDOWS"
	CommandListWorkspaces  CommandType = "LIST_WORKSPACES"
	CommandAddWorkspace    CommandType = "ADD_WORKSPACE"
	CommandRemoveWorkspace CommandType = "REMOVE_WORKSPACE"
	CommandSwitchWorkspace CommandType = "SWITCH_WORKSPACE"
	CommandRun             CommandType = "RUN"
	CommandActivateWindow  CommandType = "ACTIVATE_WINDOW"
	CommandReconfigure     CommandType = "RECONFIGURE"
	CommandReload          CommandType = "RELOAD"
)

// Request represents an IPC request from client to server
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents an IPC response from server to client
type Response struct {
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// StatusData represents the data returned by GET_STATUS
type StatusData struct {
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

type WindowsData struct {
	Windows []wm.WindowInfo `json:"windows"`
}

type WorkspacesData struct {
	Workspaces []wm.WorkspaceInfo `json:"workspaces"`
}

// ResultData reports the outcome of a state-changing command.
type ResultData struct {
	Outcome string `json:"outcome"`
	Reason  string `json:"reason,omitempty"`
}

func resultData(r wm.Result) ResultData {
	d := ResultData{Outcome: r.Outcome.String()}
	if r.Reason != nil {
		d.Reason = r.Reason.Error()
	}
	return d
}

func replyResult(r wm.Result, err error) *Response {
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return reply(resultData(r), nil)
}

type AddWorkspacePayload struct {
	Name string `json:"name,omitempty"`
}

type SwitchWorkspacePayload struct {
	Index int `json:"index"`
}

// RunPayload names a window manager command such as "close" or
// "workspace_next".
type RunPayload struct {
	Name string `json:"name"`
}

// ActivatePayload names a client window by its X id.
type ActivatePayload struct {
	Window uint32 `json:"window"`
}

// NewOKResponse creates a successful response with optional data
func NewOKResponse(data interface{}) (*Response, error) {
	var dataBytes json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		dataBytes = bytes
	}

	return &Response{
		Status: "OK",
		Data:   dataBytes,
	}, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{
		Status: "ERROR",
		Error:  errMsg,
	}
}

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return &req, nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}
