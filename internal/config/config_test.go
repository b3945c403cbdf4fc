package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, dir, name, data string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestDefaultConfig_ValidAndHasBuiltinStyles(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
	for _, name := range []string{"default", "flat", "dark"} {
		if _, ok := cfg.Styles[name]; !ok {
			t.Fatalf("expected builtin style %q", name)
		}
	}
	if _, err := cfg.ActiveStyle(); err != nil {
		t.Fatalf("active style: %v", err)
	}
}

func TestLoadFromPath_MissingFileUsesDefaults(t *testing.T) {
	res, err := LoadFromPath(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.Style != DefaultBuiltinStyle {
		t.Fatalf("expected style %q, got %q", DefaultBuiltinStyle, res.Config.Style)
	}
	if len(res.Files) != 0 {
		t.Fatalf("expected no files loaded, got %v", res.Files)
	}
}

func TestLoadFromPath_EmptyFileUsesDefaults(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "config.yaml", "# empty\n")

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.Placement.Policy != PlacementRowSmart {
		t.Fatalf("expected default policy row-smart, got %q", res.Config.Placement.Policy)
	}
	if len(res.Config.Workspaces) != 4 {
		t.Fatalf("expected 4 default workspaces, got %d", len(res.Config.Workspaces))
	}
}

func TestLoadFromPath_PlacementAndFocus(t *testing.T) {
	data := strings.Join([]string{
		"placement:",
		"  policy: best-fit",
		"  margin: 4",
		"focus:",
		"  model: sloppy",
		"  auto_raise: true",
		"",
	}, "\n")
	path := writeConfig(t, t.TempDir(), "config.yaml", data)

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	cfg := res.Config
	if cfg.Placement.Policy != PlacementBestFit || cfg.Placement.Margin != 4 {
		t.Fatalf("unexpected placement %#v", cfg.Placement)
	}
	if cfg.Placement.RowDirection != LeftToRight {
		t.Fatalf("expected row direction default to survive, got %q", cfg.Placement.RowDirection)
	}
	if cfg.Focus.Model != FocusSloppy || !cfg.Focus.AutoRaise {
		t.Fatalf("unexpected focus %#v", cfg.Focus)
	}
	if cfg.Focus.AutoRaiseDelayMS != 400 {
		t.Fatalf("expected default auto raise delay, got %d", cfg.Focus.AutoRaiseDelayMS)
	}
}

func TestLoadFromPath_DisplayExplain(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "config.yaml", "display: \":1\"\n")

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	val, src, err := Explain(res, "display")
	if err != nil {
		t.Fatalf("explain display: %v", err)
	}
	if val != ":1" {
		t.Fatalf("expected explain display :1, got %#v", val)
	}
	if src.Kind != SourceFile || src.Line != 1 {
		t.Fatalf("expected display source file line 1, got %#v", src)
	}

	_, src, err = Explain(res, "focus.model")
	if err != nil {
		t.Fatalf("explain focus.model: %v", err)
	}
	if src.Kind != SourceDefault {
		t.Fatalf("expected default source, got %#v", src)
	}
}

func TestLoadFromPath_StrictUnknownKeyErrors(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "config.yaml", "unknown_key: 1\n")

	_, err := LoadFromPath(path)
	if err == nil {
		t.Fatalf("expected error for unknown key")
	}
	if !strings.Contains(err.Error(), "unknown_key") && !strings.Contains(err.Error(), "field") {
		t.Fatalf("expected unknown field error, got %v", err)
	}
	if !strings.Contains(err.Error(), path) {
		t.Fatalf("expected error to include file path, got %v", err)
	}
}

func TestLoadFromPath_IncludeDirectoryOrderAndMainOverrides(t *testing.T) {
	dir := t.TempDir()
	configD := filepath.Join(dir, "config.d")
	if err := os.MkdirAll(configD, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	writeConfig(t, configD, "10-base.yaml", "edge_snap_threshold: 5\nopaque_move: false\n")
	writeConfig(t, configD, "20-override.yaml", "edge_snap_threshold: 6\n")

	main := strings.Join([]string{
		"include:",
		"  - config.d",
		"edge_snap_threshold: 7",
		"",
	}, "\n")
	path := writeConfig(t, dir, "config.yaml", main)

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.EdgeSnapThreshold != 7 {
		t.Fatalf("expected edge_snap_threshold 7, got %d", res.Config.EdgeSnapThreshold)
	}
	if res.Config.OpaqueMove {
		t.Fatalf("expected opaque_move from include to survive")
	}
	if len(res.Files) != 3 {
		t.Fatalf("expected 3 files, got %v", res.Files)
	}
}

func TestLoadFromPath_IncludeMissingPathHasContext(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "config.yaml", "include:\n  - missing.yaml\n")

	_, err := LoadFromPath(path)
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), "include") || !strings.Contains(err.Error(), "missing.yaml") {
		t.Fatalf("expected include error, got %v", err)
	}
	if !strings.Contains(err.Error(), path+":") {
		t.Fatalf("expected error to include file:line:col prefix, got %v", err)
	}
}

func TestLoadFromPath_IncludeCycleDetection(t *testing.T) {
	dir := t.TempDir()
	a := writeConfig(t, dir, "a.yaml", "include: b.yaml\n")
	writeConfig(t, dir, "b.yaml", "include: a.yaml\n")

	_, err := LoadFromPath(a)
	if err == nil {
		t.Fatalf("expected cycle error")
	}
	if !strings.Contains(err.Error(), "include cycle") {
		t.Fatalf("expected cycle error, got %v", err)
	}
}

func TestLoadFromPath_StyleInheritsBuiltinAndExplainSource(t *testing.T) {
	data := `
style: mine
styles:
  mine:
    inherits: "builtin:flat"
    border_width: 3
    title_focus:
      color: "#112233"
`
	path := writeConfig(t, t.TempDir(), "config.yaml", strings.TrimSpace(data)+"\n")

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	style, err := res.Config.ActiveStyle()
	if err != nil {
		t.Fatalf("active style: %v", err)
	}
	flat := BuiltinStyles()["flat"]
	if style.BorderWidth != 3 {
		t.Fatalf("expected border width 3, got %d", style.BorderWidth)
	}
	if style.HandleWidth != flat.HandleWidth {
		t.Fatalf("expected inherited handle width %d, got %d", flat.HandleWidth, style.HandleWidth)
	}
	if style.TitleFocus.Color != "#112233" || style.TitleFocus.Kind != flat.TitleFocus.Kind {
		t.Fatalf("unexpected title texture %#v", style.TitleFocus)
	}
	if res.StyleBases["mine"] != "flat" {
		t.Fatalf("expected base flat, got %q", res.StyleBases["mine"])
	}

	val, src, err := Explain(res, "styles.mine.handle_width")
	if err != nil {
		t.Fatalf("explain: %v", err)
	}
	if val != flat.HandleWidth {
		t.Fatalf("expected explain value %d, got %#v", flat.HandleWidth, val)
	}
	if src.Kind != SourceBuiltin || src.Name != "flat" {
		t.Fatalf("expected builtin source flat, got %#v", src)
	}
}

func TestLoadFromPath_InheritsRequiresBuiltinPrefix(t *testing.T) {
	data := "styles:\n  mine:\n    inherits: flat\n"
	path := writeConfig(t, t.TempDir(), "config.yaml", data)

	_, err := LoadFromPath(path)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if verr.Path != "styles.mine.inherits" {
		t.Fatalf("unexpected path %q", verr.Path)
	}
}

func TestLoadFromPath_InvalidPolicyHasSourceContext(t *testing.T) {
	data := "placement:\n  policy: spiral\n"
	path := writeConfig(t, t.TempDir(), "config.yaml", data)

	_, err := LoadFromPath(path)
	if err == nil {
		t.Fatalf("expected validation error")
	}
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	if verr.Source.Line != 2 {
		t.Fatalf("expected line 2, got %#v", verr.Source)
	}
	if !strings.HasPrefix(err.Error(), verr.Source.File+":2:") {
		t.Fatalf("expected file:line prefix, got %v", err)
	}
}

func TestValidate_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		path   string
	}{
		{"no workspaces", func(c *Config) { c.Workspaces = nil }, "workspaces"},
		{"blank workspace", func(c *Config) { c.Workspaces = []string{"a", " "} }, "workspaces"},
		{"bad row direction", func(c *Config) { c.Placement.RowDirection = "up" }, "placement.row_direction"},
		{"negative margin", func(c *Config) { c.Placement.Margin = -1 }, "placement.margin"},
		{"bad focus", func(c *Config) { c.Focus.Model = "eyes" }, "focus.model"},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }, "log_level"},
		{"missing style", func(c *Config) { c.Style = "nope" }, "style"},
		{"bad color", func(c *Config) {
			s := c.Styles["default"]
			s.BorderColor = "black"
			c.Styles["default"] = s
		}, "styles.default"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if verr.Path != tt.path {
				t.Fatalf("expected path %q, got %q", tt.path, verr.Path)
			}
		})
	}
}

func TestLoadFromPath_BindingsMerge(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "keys.yaml", "bindings:\n  close: Mod1-F4\n")
	path := writeConfig(t, dir, "config.yaml", "include: keys.yaml\nbindings:\n  shade: Mod1-F5\n")

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	b := res.Config.Bindings
	if b.Close != "Mod1-F4" || b.Shade != "Mod1-F5" {
		t.Fatalf("unexpected bindings %#v", b)
	}
	if b.Maximize != DefaultConfig().Bindings.Maximize {
		t.Fatalf("expected default maximize binding, got %q", b.Maximize)
	}
}

func TestLoadFromPath_SharedIncludeLoadsOnce(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "common.yaml", "edge_snap_threshold: 3\nopaque_move: false\n")
	writeConfig(t, dir, "a.yaml", "include: common.yaml\n")
	b := writeConfig(t, dir, "b.yaml", "include: common.yaml\nedge_snap_threshold: 9\n")
	path := writeConfig(t, dir, "config.yaml", "include:\n  - a.yaml\n  - b.yaml\n")

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(res.Files) != 4 {
		t.Fatalf("expected 4 files, got %v", res.Files)
	}
	if got := filepath.Base(res.Files[0]); got != "common.yaml" {
		t.Fatalf("expected common.yaml first, got %v", res.Files)
	}
	if res.Config.EdgeSnapThreshold != 9 || res.Config.OpaqueMove {
		t.Fatalf("unexpected merge result %+v", res.Config)
	}
	src := res.Sources["edge_snap_threshold"]
	if want := canonicalPath(b); src.File != want || src.Line != 2 {
		t.Fatalf("expected source %s:2, got %+v", want, src)
	}
}
