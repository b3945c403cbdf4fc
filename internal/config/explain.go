package config

import (
	"fmt"
	"strings"
)

// Explain returns the effective value at the given YAML-like path and its source.
//
// Supported paths include:
//
//	display
//	log_level
//	workspaces
//	placement.policy
//	focus.model
//	edge_snap_threshold
//	style
//	styles.<name>.border_width
//	styles.<name>.title_focus.color
//	bindings.close
//	mouse.move_modifier
func Explain(res *LoadResult, path string) (any, Source, error) {
	if res == nil || res.Config == nil {
		return nil, Source{}, fmt.Errorf("no config loaded")
	}
	if path == "" {
		return nil, Source{}, fmt.Errorf("path is empty")
	}

	value, err := lookupValue(res.Config, path)
	if err != nil {
		return nil, Source{}, err
	}

	if src, ok := res.Sources[path]; ok {
		return value, src, nil
	}

	if strings.HasPrefix(path, "styles.") {
		base := ""
		if name := styleNameFromPath(path); name != "" {
			base = res.StyleBases[name]
		}
		return value, Source{Kind: SourceBuiltin, Name: base}, nil
	}

	return value, Source{Kind: SourceDefault, Name: "defaults"}, nil
}

func styleNameFromPath(path string) string {
	parts := strings.Split(path, ".")
	if len(parts) < 2 || parts[0] != "styles" {
		return ""
	}
	return parts[1]
}

func lookupValue(cfg *Config, path string) (any, error) {
	parts := strings.Split(path, ".")
	unknown := fmt.Errorf("unknown path: %s", path)

	leaf := func(v any) (any, error) {
		if len(parts) != 1 {
			return nil, unknown
		}
		return v, nil
	}

	switch parts[0] {
	case "display":
		return leaf(cfg.Display)
	case "log_level":
		return leaf(cfg.LogLevel)
	case "workspaces":
		return leaf(cfg.Workspaces)
	case "edge_snap_threshold":
		return leaf(cfg.EdgeSnapThreshold)
	case "opaque_move":
		return leaf(cfg.OpaqueMove)
	case "reconcile_interval":
		return leaf(cfg.ReconcileInterval)
	case "style":
		return leaf(cfg.Style)
	case "placement":
		if len(parts) == 1 {
			return cfg.Placement, nil
		}
		if len(parts) != 2 {
			return nil, unknown
		}
		switch parts[1] {
		case "policy":
			return cfg.Placement.Policy, nil
		case "row_direction":
			return cfg.Placement.RowDirection, nil
		case "column_direction":
			return cfg.Placement.ColumnDirection, nil
		case "margin":
			return cfg.Placement.Margin, nil
		case "avoid_docks":
			return cfg.Placement.AvoidDocks, nil
		}
		return nil, unknown
	case "focus":
		if len(parts) == 1 {
			return cfg.Focus, nil
		}
		if len(parts) != 2 {
			return nil, unknown
		}
		switch parts[1] {
		case "model":
			return cfg.Focus.Model, nil
		case "auto_raise":
			return cfg.Focus.AutoRaise, nil
		case "auto_raise_delay_ms":
			return cfg.Focus.AutoRaiseDelayMS, nil
		case "focus_new":
			return cfg.Focus.FocusNew, nil
		case "focus_last":
			return cfg.Focus.FocusLast, nil
		}
		return nil, unknown
	case "bindings":
		if len(parts) == 1 {
			return cfg.Bindings, nil
		}
		if len(parts) != 2 {
			return nil, unknown
		}
		if v, ok := bindingByKey(cfg.Bindings, parts[1]); ok {
			return v, nil
		}
		return nil, unknown
	case "mouse":
		if len(parts) == 1 {
			return cfg.Mouse, nil
		}
		if len(parts) == 2 && parts[1] == "move_modifier" {
			return cfg.Mouse.MoveModifier, nil
		}
		return nil, unknown
	case "styles":
		if len(parts) == 1 {
			return sortedKeys(cfg.Styles), nil
		}
		style, ok := cfg.Styles[parts[1]]
		if !ok {
			return nil, fmt.Errorf("unknown style %q", parts[1])
		}
		if len(parts) == 2 {
			return style, nil
		}
		return lookupStyleValue(style, parts[2:], unknown)
	}
	return nil, unknown
}

// BindingNames lists the bindings keys in the order they are grabbed.
var BindingNames = []string{
	"workspace_next", "workspace_prev", "iconify", "close", "maximize",
	"shade", "stick", "raise", "lower", "reconfigure",
}

// Sequence returns the key sequence bound to the named command.
func (b Bindings) Sequence(name string) (string, bool) { return bindingByKey(b, name) }

func bindingByKey(b Bindings, key string) (string, bool) {
	switch key {
	case "workspace_next":
		return b.WorkspaceNext, true
	case "workspace_prev":
		return b.WorkspacePrev, true
	case "iconify":
		return b.Iconify, true
	case "close":
		return b.Close, true
	case "maximize":
		return b.Maximize, true
	case "shade":
		return b.Shade, true
	case "stick":
		return b.Stick, true
	case "raise":
		return b.Raise, true
	case "lower":
		return b.Lower, true
	case "reconfigure":
		return b.Reconfigure, true
	}
	return "", false
}

func lookupStyleValue(s Style, parts []string, unknown error) (any, error) {
	if len(parts) == 1 {
		switch parts[0] {
		case "bevel_width":
			return s.BevelWidth, nil
		case "border_width":
			return s.BorderWidth, nil
		case "handle_width":
			return s.HandleWidth, nil
		case "frame_width":
			return s.FrameWidth, nil
		case "font_ascent":
			return s.FontAscent, nil
		case "font_descent":
			return s.FontDescent, nil
		case "font_ink_height":
			return s.FontInkHeight, nil
		case "border_color":
			return s.BorderColor, nil
		}
	}

	textures := map[string]Texture{
		"title_focus":    s.TitleFocus,
		"title_unfocus":  s.TitleUnfocus,
		"label_focus":    s.LabelFocus,
		"label_unfocus":  s.LabelUnfocus,
		"handle_focus":   s.HandleFocus,
		"handle_unfocus": s.HandleUnfocus,
		"grip_focus":     s.GripFocus,
		"grip_unfocus":   s.GripUnfocus,
		"button_focus":   s.ButtonFocus,
		"button_unfocus": s.ButtonUnfocus,
		"button_pressed": s.ButtonPressed,
	}
	t, ok := textures[parts[0]]
	if !ok {
		return nil, unknown
	}
	if len(parts) == 1 {
		return t, nil
	}
	if len(parts) != 2 {
		return nil, unknown
	}
	switch parts[1] {
	case "kind":
		return t.Kind, nil
	case "bevel":
		return t.Bevel, nil
	case "color":
		return t.Color, nil
	case "color_to":
		return t.ColorTo, nil
	}
	return nil, unknown
}
