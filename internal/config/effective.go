package config

import (
	"fmt"
	"sort"
	"strings"
)

type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.Kind == SourceFile && e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error { return e.Err }

// BuildEffectiveConfig overlays raw onto the defaults. The second return
// value maps every style name to the builtin it was derived from.
func BuildEffectiveConfig(raw RawConfig) (*Config, map[string]string, error) {
	cfg := DefaultConfig()

	if raw.Display != nil {
		cfg.Display = *raw.Display
	}
	if raw.LogLevel != nil {
		cfg.LogLevel = *raw.LogLevel
	}
	if raw.Workspaces != nil {
		cfg.Workspaces = append([]string(nil), raw.Workspaces...)
	}

	if p := raw.Placement; p != nil {
		if p.Policy != nil {
			cfg.Placement.Policy = *p.Policy
		}
		if p.RowDirection != nil {
			cfg.Placement.RowDirection = *p.RowDirection
		}
		if p.ColumnDirection != nil {
			cfg.Placement.ColumnDirection = *p.ColumnDirection
		}
		cfg.Placement.Margin = derefInt(p.Margin, cfg.Placement.Margin)
		cfg.Placement.AvoidDocks = derefBool(p.AvoidDocks, cfg.Placement.AvoidDocks)
	}

	if f := raw.Focus; f != nil {
		if f.Model != nil {
			cfg.Focus.Model = *f.Model
		}
		cfg.Focus.AutoRaise = derefBool(f.AutoRaise, cfg.Focus.AutoRaise)
		cfg.Focus.AutoRaiseDelayMS = derefInt(f.AutoRaiseDelayMS, cfg.Focus.AutoRaiseDelayMS)
		cfg.Focus.FocusNew = derefBool(f.FocusNew, cfg.Focus.FocusNew)
		cfg.Focus.FocusLast = derefBool(f.FocusLast, cfg.Focus.FocusLast)
	}

	cfg.EdgeSnapThreshold = derefInt(raw.EdgeSnapThreshold, cfg.EdgeSnapThreshold)
	cfg.OpaqueMove = derefBool(raw.OpaqueMove, cfg.OpaqueMove)
	cfg.ReconcileInterval = derefInt(raw.ReconcileInterval, cfg.ReconcileInterval)

	if b := raw.Bindings; b != nil {
		cfg.Bindings.WorkspaceNext = derefString(b.WorkspaceNext, cfg.Bindings.WorkspaceNext)
		cfg.Bindings.WorkspacePrev = derefString(b.WorkspacePrev, cfg.Bindings.WorkspacePrev)
		cfg.Bindings.Iconify = derefString(b.Iconify, cfg.Bindings.Iconify)
		cfg.Bindings.Close = derefString(b.Close, cfg.Bindings.Close)
		cfg.Bindings.Maximize = derefString(b.Maximize, cfg.Bindings.Maximize)
		cfg.Bindings.Shade = derefString(b.Shade, cfg.Bindings.Shade)
		cfg.Bindings.Stick = derefString(b.Stick, cfg.Bindings.Stick)
		cfg.Bindings.Raise = derefString(b.Raise, cfg.Bindings.Raise)
		cfg.Bindings.Lower = derefString(b.Lower, cfg.Bindings.Lower)
		cfg.Bindings.Reconfigure = derefString(b.Reconfigure, cfg.Bindings.Reconfigure)
	}
	if raw.Mouse != nil {
		cfg.Mouse.MoveModifier = derefString(raw.Mouse.MoveModifier, cfg.Mouse.MoveModifier)
	}

	styleBases, err := applyStyles(cfg, raw)
	if err != nil {
		return nil, nil, err
	}

	if raw.Style != nil {
		cfg.Style = *raw.Style
	}
	if cfg.Style == "" {
		cfg.Style = DefaultBuiltinStyle
	}
	if _, err := cfg.GetStyle(cfg.Style); err != nil {
		return nil, nil, &ValidationError{Path: "style", Err: err}
	}

	return cfg, styleBases, nil
}

func applyStyles(cfg *Config, raw RawConfig) (map[string]string, error) {
	builtin := BuiltinStyles()

	cfg.Styles = make(map[string]Style, len(builtin))
	for name, style := range builtin {
		cfg.Styles[name] = style
	}

	bases := make(map[string]string)
	for name := range cfg.Styles {
		bases[name] = name
	}

	for _, name := range sortedKeys(raw.Styles) {
		patch := raw.Styles[name]
		baseName, base, err := selectStyleBase(name, patch, builtin)
		if err != nil {
			return nil, err
		}
		merged := mergeStylePatch(base, patch)
		if err := validateStyle(&merged); err != nil {
			return nil, &ValidationError{Path: "styles." + name, Err: err}
		}
		cfg.Styles[name] = merged
		bases[name] = baseName
	}
	return bases, nil
}

func selectStyleBase(name string, patch RawStyle, builtin map[string]Style) (string, Style, error) {
	ref := ""
	if patch.Inherits != nil {
		ref = strings.TrimSpace(*patch.Inherits)
	}

	baseName := DefaultBuiltinStyle
	if _, ok := builtin[name]; ok {
		baseName = name
	}

	if ref != "" {
		const prefix = "builtin:"
		if !strings.HasPrefix(ref, prefix) {
			return "", Style{}, &ValidationError{
				Path: "styles." + name + ".inherits",
				Err:  fmt.Errorf("inherits must be %q-prefixed (builtin-only), got %q", prefix, ref),
			}
		}
		baseName = strings.TrimSpace(strings.TrimPrefix(ref, prefix))
	}

	base, ok := builtin[baseName]
	if !ok {
		return "", Style{}, &ValidationError{
			Path: "styles." + name + ".inherits",
			Err:  fmt.Errorf("unknown builtin style %q", baseName),
		}
	}
	return baseName, base, nil
}

func mergeStylePatch(base Style, patch RawStyle) Style {
	out := base
	out.BevelWidth = derefInt(patch.BevelWidth, out.BevelWidth)
	out.BorderWidth = derefInt(patch.BorderWidth, out.BorderWidth)
	out.HandleWidth = derefInt(patch.HandleWidth, out.HandleWidth)
	out.FrameWidth = derefInt(patch.FrameWidth, out.FrameWidth)
	out.FontAscent = derefInt(patch.FontAscent, out.FontAscent)
	out.FontDescent = derefInt(patch.FontDescent, out.FontDescent)
	out.FontInkHeight = derefInt(patch.FontInkHeight, out.FontInkHeight)
	out.BorderColor = derefString(patch.BorderColor, out.BorderColor)

	out.TitleFocus = applyTexture(out.TitleFocus, patch.TitleFocus)
	out.TitleUnfocus = applyTexture(out.TitleUnfocus, patch.TitleUnfocus)
	out.LabelFocus = applyTexture(out.LabelFocus, patch.LabelFocus)
	out.LabelUnfocus = applyTexture(out.LabelUnfocus, patch.LabelUnfocus)
	out.HandleFocus = applyTexture(out.HandleFocus, patch.HandleFocus)
	out.HandleUnfocus = applyTexture(out.HandleUnfocus, patch.HandleUnfocus)
	out.GripFocus = applyTexture(out.GripFocus, patch.GripFocus)
	out.GripUnfocus = applyTexture(out.GripUnfocus, patch.GripUnfocus)
	out.ButtonFocus = applyTexture(out.ButtonFocus, patch.ButtonFocus)
	out.ButtonUnfocus = applyTexture(out.ButtonUnfocus, patch.ButtonUnfocus)
	out.ButtonPressed = applyTexture(out.ButtonPressed, patch.ButtonPressed)
	return out
}

func applyTexture(base Texture, patch *RawTexture) Texture {
	if patch == nil {
		return base
	}
	out := base
	if patch.Kind != nil {
		out.Kind = *patch.Kind
	}
	if patch.Bevel != nil {
		out.Bevel = *patch.Bevel
	}
	out.Color = derefString(patch.Color, out.Color)
	out.ColorTo = derefString(patch.ColorTo, out.ColorTo)
	return out
}

func derefInt(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}

func derefBool(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}

func derefString(p *string, def string) string {
	if p == nil {
		return def
	}
	return *p
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
