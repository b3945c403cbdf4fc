package ipc

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"time"
)

// requestTimeout bounds how long one request may wait for the event loop.
const requestTimeout = 5 * time.Second

// Server handles IPC requests from clients
type Server struct {
	socketPath string
	ctl        Controller
	log        *slog.Logger
	startTime  time.Time
}

// NewServer creates a server for socketPath that drives ctl.
func NewServer(socketPath string, ctl Controller, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		socketPath: socketPath,
		ctl:        ctl,
		log:        logger.With("component", "ipc"),
		startTime:  time.Now(),
	}
}

func (s *Server) String() string { return "ipc server" }

// Serve listens on the socket until ctx is cancelled. It satisfies
// suture.Service.
func (s *Server) Serve(ctx context.Context) error {
	// Remove a stale socket left by a previous run.
	os.Remove(s.socketPath)

	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create IPC socket: %w", err)
	}
	defer os.Remove(s.socketPath)

	if err := os.Chmod(s.socketPath, 0600); err != nil {
		listener.Close()
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	s.log.Info("IPC server listening", "socket", s.socketPath)

	stop := context.AfterFunc(ctx, func() { listener.Close() })
	defer stop()

	for {
		conn, err := listener.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if errors.Is(err, net.ErrClosed) {
				return fmt.Errorf("IPC listener closed: %w", err)
			}
			s.log.Warn("IPC accept error", "err", err)
			continue
		}
		go s.handleConnection(ctx, conn)
	}
}

// handleConnection handles a single IPC connection
func (s *Server) handleConnection(ctx context.Context, conn net.Conn) {
	defer conn.Close()

	reader := bufio.NewReader(conn)

	// Read the request (expect JSON on a single line)
	data, err := reader.ReadBytes('\n')
	if err != nil && err != io.EOF {
		s.log.Debug("IPC read error", "err", err)
		return
	}

	req, err := ParseRequest(data)
	if err != nil {
		s.writeResponse(conn, NewErrorResponse(fmt.Sprintf("Invalid request: %v", err)))
		return
	}

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	s.writeResponse(conn, s.handleCommand(ctx, req))
}

func (s *Server) writeResponse(conn net.Conn, resp *Response) {
	respData, err := resp.Marshal()
	if err != nil {
		s.log.Error("failed to marshal response", "err", err)
		return
	}
	respData = append(respData, '\n')
	if _, err := conn.Write(respData); err != nil {
		s.log.Debug("failed to send response", "err", err)
	}
}

// handleCommand processes an IPC command and returns a response
func (s *Server) handleCommand(ctx context.Context, req *Request) *Response {
	s.log.Debug("IPC request", "command", req.Command)
	switch req.Command {
	case CommandGetStatus:
		return s.handleGetStatus(ctx)
	case CommandListWindows:
		wins, err := s.ctl.Windows(ctx)
		return reply(WindowsData{Windows: wins}, err)
	case CommandListWorkspaces:
		spaces, err := s.ctl.Workspaces(ctx)
		return reply(WorkspacesData{Workspaces: spaces}, err)
	case CommandAddWorkspace:
		var p AddWorkspacePayload
		if err := decodePayload(req.Payload, &p); err != nil {
			return NewErrorResponse(err.Error())
		}
		return reply(s.ctl.AddWorkspace(ctx, p.Name))
	case CommandRemoveWorkspace:
		return replyResult(s.ctl.RemoveWorkspace(ctx))
	case CommandSwitchWorkspace:
		var p SwitchWorkspacePayload
		if err := decodePayload(req.Payload, &p); err != nil {
			return NewErrorResponse(err.Error())
		}
		return replyResult(s.ctl.SwitchWorkspace(ctx, p.Index))
	case CommandRun:
		var p RunPayload
		if err := decodePayload(req.Payload, &p); err != nil {
			return NewErrorResponse(err.Error())
		}
		if p.Name == "" {
			return NewErrorResponse("name is required")
		}
		return replyResult(s.ctl.Run(ctx, p.Name))
	case CommandActivateWindow:
		var p ActivatePayload
		if err := decodePayload(req.Payload, &p); err != nil {
			return NewErrorResponse(err.Error())
		}
		if p.Window == 0 {
			return NewErrorResponse("window is required")
		}
		return replyResult(s.ctl.Activate(ctx, p.Window))
	case CommandReconfigure:
		return reply(nil, s.ctl.Reconfigure(ctx))
	case CommandReload:
		s.log.Info("IPC: received RELOAD command")
		return reply(nil, s.ctl.Reload(ctx))
	default:
		return NewErrorResponse(fmt.Sprintf("Unknown command: %s", req.Command))
	}
}

func (s *Server) handleGetStatus(ctx context.Context) *Response {
	status, err := s.ctl.Status(ctx)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	status.UptimeSeconds = int64(time.Since(s.startTime).Seconds())
	return reply(status, nil)
}

func decodePayload(payload json.RawMessage, out any) error {
	if len(payload) == 0 {
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("invalid payload: %w", err)
	}
	return nil
}

func reply(data any, err error) *Response {
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	resp, err := NewOKResponse(data)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return resp
}
