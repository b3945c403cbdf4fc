package ipc

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/1broseidon/framewm/internal/geom"
	"github.com/1broseidon/framewm/internal/wm"
)

type fakeController struct {
	mu         sync.Mutex
	workspaces []wm.WorkspaceInfo
	current    int
	ran        []string
	reloads    int
	reloadErr  error
	activated  []uint32
}

func (f *fakeController) Status(context.Context) (StatusData, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return StatusData{
		Workspace:     f.current,
		WorkspaceName: f.workspaces[f.current].Name,
		Workspaces:    len(f.workspaces),
		Windows:       1,
		Style:         "default",
	}, nil
}

func (f *fakeController) Windows(context.Context) ([]wm.WindowInfo, error) {
	return []wm.WindowInfo{{ID: 0x400001, Title: "xterm", Frame: geom.NewRect(0, 0, 100, 80), Maximized: "none"}}, nil
}

func (f *fakeController) Workspaces(context.Context) ([]wm.WorkspaceInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.workspaces, nil
}

func (f *fakeController) AddWorkspace(_ context.Context, name string) (wm.WorkspaceInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	info := wm.WorkspaceInfo{Index: len(f.workspaces), Name: name}
	f.workspaces = append(f.workspaces, info)
	return info, nil
}

func (f *fakeController) RemoveWorkspace(context.Context) (wm.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.workspaces) == 1 {
		return wm.Result{Outcome: wm.Ignored, Reason: wm.ErrLastWorkspace}, nil
	}
	f.workspaces = f.workspaces[:len(f.workspaces)-1]
	return wm.Result{Outcome: wm.Applied}, nil
}

func (f *fakeController) SwitchWorkspace(_ context.Context, i int) (wm.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if i < 0 || i >= len(f.workspaces) {
		return wm.Result{Outcome: wm.Ignored, Reason: wm.ErrNoSuchWorkspace}, nil
	}
	f.current = i
	return wm.Result{Outcome: wm.Applied}, nil
}

func (f *fakeController) Run(_ context.Context, name string) (wm.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if name == "explode" {
		return wm.Result{}, errors.New(`unknown command "explode"`)
	}
	f.ran = append(f.ran, name)
	return wm.Result{Outcome: wm.Applied}, nil
}

func (f *fakeController) Activate(_ context.Context, window uint32) (wm.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if window != 0x400001 {
		return wm.Result{Outcome: wm.Ignored, Reason: wm.ErrNoWindow}, nil
	}
	f.activated = append(f.activated, window)
	return wm.Result{Outcome: wm.Applied}, nil
}

func (f *fakeController) Reconfigure(context.Context) error { return nil }

func (f *fakeController) Reload(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reloads++
	return f.reloadErr
}

func (f *fakeController) snapshot() (workspaces int, ran []string, reloads int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.workspaces), append([]string(nil), f.ran...), f.reloads
}

func startServer(t *testing.T, ctl Controller) *Client {
	t.Helper()
	path := filepath.Join(t.TempDir(), "wm.sock")
	srv := NewServer(path, ctl, nil)

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ctx) }()
	t.Cleanup(func() {
		cancel()
		select {
		case <-errc:
		case <-time.After(time.Second):
			t.Error("server did not stop")
		}
	})

	client := NewClientAt(path)
	deadline := time.Now().Add(2 * time.Second)
	for client.Ping() != nil {
		if time.Now().After(deadline) {
			t.Fatal("server never came up")
		}
		time.Sleep(10 * time.Millisecond)
	}
	return client
}

func newFake() *fakeController {
	return &fakeController{workspaces: []wm.WorkspaceInfo{{Index: 0, Name: "one"}, {Index: 1, Name: "two"}}}
}

func TestServer_Status(t *testing.T) {
	client := startServer(t, newFake())

	st, err := client.GetStatus()
	if err != nil {
		t.Fatalf("GetStatus: %v", err)
	}
	if st.WorkspaceName != "one" || st.Workspaces != 2 || st.Style != "default" {
		t.Fatalf("unexpected status %+v", st)
	}
}

func TestServer_ListWindows(t *testing.T) {
	client := startServer(t, newFake())

	wins, err := client.ListWindows()
	if err != nil {
		t.Fatalf("ListWindows: %v", err)
	}
	if len(wins) != 1 || wins[0].Title != "xterm" || wins[0].Frame.Width != 100 {
		t.Fatalf("unexpected windows %+v", wins)
	}
}

func TestServer_Workspaces(t *testing.T) {
	fake := newFake()
	client := startServer(t, fake)

	info, err := client.AddWorkspace("three")
	if err != nil {
		t.Fatalf("AddWorkspace: %v", err)
	}
	if info.Index != 2 || info.Name != "three" {
		t.Fatalf("AddWorkspace = %+v", info)
	}

	res, err := client.SwitchWorkspace(2)
	if err != nil {
		t.Fatalf("SwitchWorkspace: %v", err)
	}
	if res.Outcome != "applied" {
		t.Fatalf("SwitchWorkspace outcome = %+v", res)
	}

	res, err = client.SwitchWorkspace(9)
	if err != nil {
		t.Fatalf("SwitchWorkspace: %v", err)
	}
	if res.Outcome != "ignored" || res.Reason != wm.ErrNoSuchWorkspace.Error() {
		t.Fatalf("SwitchWorkspace(9) = %+v", res)
	}

	spaces, err := client.ListWorkspaces()
	if err != nil {
		t.Fatalf("ListWorkspaces: %v", err)
	}
	if len(spaces) != 3 {
		t.Fatalf("ListWorkspaces = %+v", spaces)
	}

	if _, err := client.RemoveWorkspace(); err != nil {
		t.Fatalf("RemoveWorkspace: %v", err)
	}
	if n, _, _ := fake.snapshot(); n != 2 {
		t.Fatalf("workspaces after remove = %d", n)
	}
}

func TestServer_Run(t *testing.T) {
	fake := newFake()
	client := startServer(t, fake)

	if _, err := client.Run("shade"); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if _, ran, _ := fake.snapshot(); len(ran) != 1 || ran[0] != "shade" {
		t.Fatalf("ran = %v", ran)
	}

	_, err := client.Run("explode")
	if err == nil || !strings.Contains(err.Error(), "unknown command") {
		t.Fatalf("Run(explode) error = %v", err)
	}

	if _, err := client.Run(""); err == nil {
		t.Fatal("Run with empty name should fail")
	}
}

func TestServer_ReloadError(t *testing.T) {
	fake := newFake()
	fake.reloadErr = errors.New("bad yaml")
	client := startServer(t, fake)

	err := client.Reload()
	if err == nil || !strings.Contains(err.Error(), "bad yaml") {
		t.Fatalf("Reload error = %v", err)
	}
	if _, _, reloads := fake.snapshot(); reloads != 1 {
		t.Fatalf("reloads = %d", reloads)
	}
}

func TestServer_UnknownCommand(t *testing.T) {
	client := startServer(t, newFake())

	err := client.call("FLY", nil, nil)
	if err == nil || !strings.Contains(err.Error(), "Unknown command") {
		t.Fatalf("unknown command error = %v", err)
	}
}

func TestServer_Activate(t *testing.T) {
	fake := newFake()
	client := startServer(t, fake)

	res, err := client.Activate(0x400001)
	if err != nil {
		t.Fatalf("Activate: %v", err)
	}
	if res.Outcome != "applied" {
		t.Fatalf("Activate = %+v", res)
	}

	res, err = client.Activate(0x500000)
	if err != nil {
		t.Fatalf("Activate: %v", err)
	}
	if res.Outcome != "ignored" || res.Reason != wm.ErrNoWindow.Error() {
		t.Fatalf("Activate(unknown) = %+v", res)
	}

	if _, err := client.Activate(0); err == nil {
		t.Fatal("Activate(0) should fail")
	}
}
