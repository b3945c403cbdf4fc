package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/1broseidon/framewm/internal/runtimepath"
	"github.com/1broseidon/framewm/internal/wm"
)

// Client handles IPC communication with the window manager
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient creates a client for the default socket.
func NewClient() *Client {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		// Keep constructor non-failing; sendRequest surfaces connection errors.
		socketPath = ""
	}
	return NewClientAt(socketPath)
}

// NewClientAt creates a client for the socket at path.
func NewClientAt(path string) *Client {
	return &Client{
		socketPath: path,
		timeout:    5 * time.Second,
	}
}

// sendRequest sends a request and waits for a response
func (c *Client) sendRequest(req *Request) (*Response, error) {
	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to window manager: %w (is framewm running?)", err)
	}
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(c.timeout))

	reqData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	reqData = append(reqData, '\n')
	if _, err := conn.Write(reqData); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	reader := bufio.NewReader(conn)
	respData, err := reader.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var resp Response
	if err := json.Unmarshal(respData, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if resp.Status == "ERROR" {
		return nil, fmt.Errorf("window manager error: %s", resp.Error)
	}

	return &resp, nil
}

// call sends command with an optional payload and decodes the response
// data into out when out is non-nil.
func (c *Client) call(command CommandType, payload any, out any) error {
	req := &Request{Command: command}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal %s payload: %w", command, err)
		}
		req.Payload = data
	}

	resp, err := c.sendRequest(req)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Data, out); err != nil {
		return fmt.Errorf("failed to parse %s data: %w", command, err)
	}
	return nil
}

// GetStatus retrieves window manager status
func (c *Client) GetStatus() (*StatusData, error) {
	var status StatusData
	if err := c.call(CommandGetStatus, nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// ListWindows returns every managed window.
func (c *Client) ListWindows() ([]wm.WindowInfo, error) {
	var data WindowsData
	if err := c.call(CommandListWindows, nil, &data); err != nil {
		return nil, err
	}
	return data.Windows, nil
}

// ListWorkspaces returns the workspaces in order.
func (c *Client) ListWorkspaces() ([]wm.WorkspaceInfo, error) {
	var data WorkspacesData
	if err := c.call(CommandListWorkspaces, nil, &data); err != nil {
		return nil, err
	}
	return data.Workspaces, nil
}

// AddWorkspace appends a workspace. An empty name gets a default.
func (c *Client) AddWorkspace(name string) (*wm.WorkspaceInfo, error) {
	var info wm.WorkspaceInfo
	if err := c.call(CommandAddWorkspace, AddWorkspacePayload{Name: name}, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// RemoveWorkspace removes the last workspace.
func (c *Client) RemoveWorkspace() (*ResultData, error) {
	var res ResultData
	if err := c.call(CommandRemoveWorkspace, nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// SwitchWorkspace makes workspace index current.
func (c *Client) SwitchWorkspace(index int) (*ResultData, error) {
	var res ResultData
	if err := c.call(CommandSwitchWorkspace, SwitchWorkspacePayload{Index: index}, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Run executes a named window manager command.
func (c *Client) Run(name string) (*ResultData, error) {
	var res ResultData
	if err := c.call(CommandRun, RunPayload{Name: name}, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Activate raises and focuses a window, switching workspace or
// deiconifying as needed.
func (c *Client) Activate(window uint32) (*ResultData, error) {
	var res ResultData
	if err := c.call(CommandActivateWindow, ActivatePayload{Window: window}, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Reconfigure re-applies the current configuration.
func (c *Client) Reconfigure() error {
	return c.call(CommandReconfigure, nil, nil)
}

// Reload sends a RELOAD command to the window manager
func (c *Client) Reload() error {
	return c.call(CommandReload, nil, nil)
}

// Ping checks if the window manager is responding
func (c *Client) Ping() error {
	_, err := c.GetStatus()
	return err
}
