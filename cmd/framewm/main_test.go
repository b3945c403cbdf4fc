package main

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/1broseidon/framewm/internal/config"
	"github.com/1broseidon/framewm/internal/geom"
	"github.com/1broseidon/framewm/internal/wm"
)

func TestDispatchUsage(t *testing.T) {
	if got := dispatch("fly", nil); got != exitUsage {
		t.Fatalf("dispatch(fly) = %d, want %d", got, exitUsage)
	}
	if got := dispatch("help", nil); got != 0 {
		t.Fatalf("dispatch(help) = %d, want 0", got)
	}
	if got := dispatch("run", []string{"extra"}); got != exitUsage {
		t.Fatalf("run with an argument = %d, want %d", got, exitUsage)
	}
	if got := dispatch("workspace", nil); got != exitUsage {
		t.Fatalf("workspace without subcommand = %d, want %d", got, exitUsage)
	}
	if got := dispatch("command", nil); got != exitUsage {
		t.Fatalf("command without name = %d, want %d", got, exitUsage)
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"warn":    slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
	}
	for in, want := range tests {
		if got := parseLevel(in); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNewLoggerNonTerminalIsJSON(t *testing.T) {
	var buf bytes.Buffer
	newLogger(&buf, slog.LevelInfo).Info("hello", "k", "v")
	if !strings.HasPrefix(buf.String(), "{") || !strings.Contains(buf.String(), `"k":"v"`) {
		t.Fatalf("expected JSON output, got %q", buf.String())
	}
}

func TestFindWorkspace(t *testing.T) {
	spaces := []wm.WorkspaceInfo{{Index: 0, Name: "web"}, {Index: 1, Name: "0"}, {Index: 2, Name: "mail"}}
	tests := []struct {
		ref     string
		want    int
		wantErr bool
	}{
		{"MAIL", 2, false},
		{"0", 1, false},
		{"2", 2, false},
		{"5", 0, true},
		{"chat", 0, true},
	}
	for _, tt := range tests {
		got, err := findWorkspace(spaces, tt.ref)
		if (err != nil) != tt.wantErr {
			t.Fatalf("findWorkspace(%q) error = %v", tt.ref, err)
		}
		if !tt.wantErr && got != tt.want {
			t.Fatalf("findWorkspace(%q) = %d, want %d", tt.ref, got, tt.want)
		}
	}
}

func TestWriteWindows(t *testing.T) {
	var buf bytes.Buffer
	writeWindows(&buf, []wm.WindowInfo{
		{ID: 0x400001, Title: "xterm", Workspace: 1, Frame: geom.NewRect(10, 20, 300, 200), Focused: true, Maximized: "none"},
		{ID: 0x400002, Title: "gimp", Iconic: true, Maximized: "full"},
	})
	out := buf.String()
	for _, want := range []string{"0x400001", "300x200+10+20", "xterm", "im"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestFormatSource(t *testing.T) {
	tests := []struct {
		src  config.Source
		want string
	}{
		{config.Source{Kind: config.SourceFile, File: "/c.yaml", Line: 3, Column: 5}, "file:/c.yaml:3:5"},
		{config.Source{Kind: config.SourceFile, File: "/c.yaml"}, "file:/c.yaml"},
		{config.Source{Kind: config.SourceBuiltin, Name: "dark"}, "builtin:dark"},
		{config.Source{Kind: config.SourceDefault}, "default"},
	}
	for _, tt := range tests {
		if got := formatSource(tt.src); got != tt.want {
			t.Errorf("formatSource(%+v) = %q, want %q", tt.src, got, tt.want)
		}
	}
}
