package ipc

import (
	"context"
	"fmt"
	"sync"

	"github.com/1broseidon/framewm/internal/config"
	"github.com/1broseidon/framewm/internal/platform"
	"github.com/1broseidon/framewm/internal/wm"
)

// Controller is what the server drives. Implementations serialize every
// call with X event handling.
type Controller interface {
	Status(ctx context.Context) (StatusData, error)
	Windows(ctx context.Context) ([]wm.WindowInfo, error)
	Workspaces(ctx context.Context) ([]wm.WorkspaceInfo, error)
	AddWorkspace(ctx context.Context, name string) (wm.WorkspaceInfo, error)
	RemoveWorkspace(ctx context.Context) (wm.Result, error)
	SwitchWorkspace(ctx context.Context, index int) (wm.Result, error)
	Run(ctx context.Context, name string) (wm.Result, error)
	Activate(ctx context.Context, window uint32) (wm.Result, error)
	Reconfigure(ctx context.Context) error
	Reload(ctx context.Context) error
}

// Runner executes f on the event loop and waits for it.
type Runner interface {
	Do(ctx context.Context, f func()) error
}

// ManagerController implements Controller on a live manager.
type ManagerController struct {
	m    *wm.Manager
	loop Runner
	load func() (*config.Config, error)

	// OnReload runs on the loop after a reloaded config was applied.
	OnReload func(*config.Config)

	mu  sync.Mutex
	cfg *config.Config
}

var _ Controller = (*ManagerController)(nil)

// NewManagerController wraps m. load reads the configuration for RELOAD.
func NewManagerController(m *wm.Manager, loop Runner, cfg *config.Config, load func() (*config.Config, error)) *ManagerController {
	return &ManagerController{m: m, loop: loop, cfg: cfg, load: load}
}

// Config returns the configuration currently applied.
func (c *ManagerController) Config() *config.Config {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cfg
}

func (c *ManagerController) Status(ctx context.Context) (StatusData, error) {
	style := c.Config().Style
	var st StatusData
	err := c.loop.Do(ctx, func() {
		s := c.m.Screen()
		ws := s.CurrentWorkspace()
		st = StatusData{
			Workspace:     s.CurrentIndex(),
			WorkspaceName: ws.Name(),
			Workspaces:    len(s.Workspaces()),
			Windows:       len(s.Windows()) - len(s.Icons()),
			Icons:         len(s.Icons()),
			Style:         style,
		}
		if f := c.m.Focused(); f != nil {
			st.Focused = uint32(f.ID())
			st.FocusedTitle = f.Title()
		}
	})
	return st, err
}

func (c *ManagerController) Windows(ctx context.Context) ([]wm.WindowInfo, error) {
	var out []wm.WindowInfo
	err := c.loop.Do(ctx, func() { out = c.m.Windows() })
	return out, err
}

func (c *ManagerController) Workspaces(ctx context.Context) ([]wm.WorkspaceInfo, error) {
	var out []wm.WorkspaceInfo
	err := c.loop.Do(ctx, func() { out = c.m.Workspaces() })
	return out, err
}

func (c *ManagerController) AddWorkspace(ctx context.Context, name string) (wm.WorkspaceInfo, error) {
	var info wm.WorkspaceInfo
	err := c.loop.Do(ctx, func() {
		s := c.m.Screen()
		n := len(s.Workspaces())
		if name == "" {
			name = fmt.Sprintf("Workspace %d", n+1)
		}
		ws := s.AddWorkspace(name)
		info = wm.WorkspaceInfo{Index: ws.ID(), Name: ws.Name()}
	})
	return info, err
}

func (c *ManagerController) RemoveWorkspace(ctx context.Context) (wm.Result, error) {
	var res wm.Result
	err := c.loop.Do(ctx, func() { res = c.m.Screen().RemoveLastWorkspace() })
	return res, err
}

func (c *ManagerController) SwitchWorkspace(ctx context.Context, index int) (wm.Result, error) {
	var res wm.Result
	err := c.loop.Do(ctx, func() { res = c.m.Screen().ChangeWorkspace(index) })
	return res, err
}

func (c *ManagerController) Run(ctx context.Context, name string) (wm.Result, error) {
	var (
		res    wm.Result
		runErr error
	)
	if err := c.loop.Do(ctx, func() { res, runErr = c.m.Command(name) }); err != nil {
		return wm.Result{}, err
	}
	return res, runErr
}

func (c *ManagerController) Activate(ctx context.Context, window uint32) (wm.Result, error) {
	var res wm.Result
	err := c.loop.Do(ctx, func() { res = c.m.Activate(platform.WindowID(window)) })
	return res, err
}

// Reconfigure re-applies the current configuration.
func (c *ManagerController) Reconfigure(ctx context.Context) error {
	return c.apply(ctx, c.Config(), false)
}

// Reload reads the configuration again and applies it.
func (c *ManagerController) Reload(ctx context.Context) error {
	cfg, err := c.load()
	if err != nil {
		return fmt.Errorf("failed to reload config: %w", err)
	}
	return c.apply(ctx, cfg, true)
}

func (c *ManagerController) apply(ctx context.Context, cfg *config.Config, reloaded bool) error {
	var applyErr error
	err := c.loop.Do(ctx, func() {
		if applyErr = c.m.ApplyConfig(cfg); applyErr != nil {
			return
		}
		if reloaded && c.OnReload != nil {
			c.OnReload(cfg)
		}
	})
	if err != nil {
		return err
	}
	if applyErr != nil {
		return applyErr
	}
	c.mu.Lock()
	c.cfg = cfg
	c.mu.Unlock()
	return nil
}
