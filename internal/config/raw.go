package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// IncludeList supports either:
//
//	include: "/path/to/file.yaml"
//
// or:
//
//	include:
//	  - "/path/to/file.yaml"
//	  - "/path/to/dir"
type IncludeList []string

func (l *IncludeList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case 0:
		*l = nil
		return nil
	case yaml.ScalarNode:
		if value.Tag != "!!str" {
			return fmt.Errorf("include must be a string or list of strings")
		}
		*l = []string{value.Value}
		return nil
	case yaml.SequenceNode:
		out := make([]string, 0, len(value.Content))
		for _, item := range value.Content {
			if item.Kind != yaml.ScalarNode || item.Tag != "!!str" {
				return fmt.Errorf("include entries must be strings")
			}
			out = append(out, item.Value)
		}
		*l = out
		return nil
	default:
		return fmt.Errorf("include must be a string or list of strings")
	}
}

type RawTexture struct {
	Kind    *TextureKind `yaml:"kind"`
	Bevel   *BevelKind   `yaml:"bevel"`
	Color   *string      `yaml:"color"`
	ColorTo *string      `yaml:"color_to"`
}

type RawStyle struct {
	Inherits      *string     `yaml:"inherits"`
	BevelWidth    *int        `yaml:"bevel_width"`
	BorderWidth   *int        `yaml:"border_width"`
	HandleWidth   *int        `yaml:"handle_width"`
	FrameWidth    *int        `yaml:"frame_width"`
	FontAscent    *int        `yaml:"font_ascent"`
	FontDescent   *int        `yaml:"font_descent"`
	FontInkHeight *int        `yaml:"font_ink_height"`
	BorderColor   *string     `yaml:"border_color"`
	TitleFocus    *RawTexture `yaml:"title_focus"`
	TitleUnfocus  *RawTexture `yaml:"title_unfocus"`
	LabelFocus    *RawTexture `yaml:"label_focus"`
	LabelUnfocus  *RawTexture `yaml:"label_unfocus"`
	HandleFocus   *RawTexture `yaml:"handle_focus"`
	HandleUnfocus *RawTexture `yaml:"handle_unfocus"`
	GripFocus     *RawTexture `yaml:"grip_focus"`
	GripUnfocus   *RawTexture `yaml:"grip_unfocus"`
	ButtonFocus   *RawTexture `yaml:"button_focus"`
	ButtonUnfocus *RawTexture `yaml:"button_unfocus"`
	ButtonPressed *RawTexture `yaml:"button_pressed"`
}

type RawPlacement struct {
	Policy          *PlacementPolicy `yaml:"policy"`
	RowDirection    *RowDirection    `yaml:"row_direction"`
	ColumnDirection *ColumnDirection `yaml:"column_direction"`
	Margin          *int             `yaml:"margin"`
	AvoidDocks      *bool            `yaml:"avoid_docks"`
}

type RawFocus struct {
	Model            *FocusModel `yaml:"model"`
	AutoRaise        *bool       `yaml:"auto_raise"`
	AutoRaiseDelayMS *int        `yaml:"auto_raise_delay_ms"`
	FocusNew         *bool       `yaml:"focus_new"`
	FocusLast        *bool       `yaml:"focus_last"`
}

type RawBindings struct {
	WorkspaceNext *string `yaml:"workspace_next"`
	WorkspacePrev *string `yaml:"workspace_prev"`
	Iconify       *string `yaml:"iconify"`
	Close         *string `yaml:"close"`
	Maximize      *string `yaml:"maximize"`
	Shade         *string `yaml:"shade"`
	Stick         *string `yaml:"stick"`
	Raise         *string `yaml:"raise"`
	Lower         *string `yaml:"lower"`
	Reconfigure   *string `yaml:"reconfigure"`
}

type RawMouse struct {
	MoveModifier *string `yaml:"move_modifier"`
}

type RawConfig struct {
	Include           IncludeList         `yaml:"include"`
	Display           *string             `yaml:"display"`
	LogLevel          *string             `yaml:"log_level"`
	Workspaces        []string            `yaml:"workspaces"`
	Placement         *RawPlacement       `yaml:"placement"`
	Focus             *RawFocus           `yaml:"focus"`
	EdgeSnapThreshold *int                `yaml:"edge_snap_threshold"`
	OpaqueMove        *bool               `yaml:"opaque_move"`
	ReconcileInterval *int                `yaml:"reconcile_interval"`
	Style             *string             `yaml:"style"`
	Styles            map[string]RawStyle `yaml:"styles"`
	Bindings          *RawBindings        `yaml:"bindings"`
	Mouse             *RawMouse           `yaml:"mouse"`
}

// merge overlays every field set in overlay onto c. Later files win.
func (c RawConfig) merge(overlay RawConfig) RawConfig {
	out := c

	if overlay.Display != nil {
		out.Display = overlay.Display
	}
	if overlay.LogLevel != nil {
		out.LogLevel = overlay.LogLevel
	}
	if overlay.Workspaces != nil {
		out.Workspaces = append([]string(nil), overlay.Workspaces...)
	}
	if overlay.Placement != nil {
		if out.Placement == nil {
			out.Placement = &RawPlacement{}
		}
		merged := mergeRawPlacement(*out.Placement, *overlay.Placement)
		out.Placement = &merged
	}
	if overlay.Focus != nil {
		if out.Focus == nil {
			out.Focus = &RawFocus{}
		}
		merged := mergeRawFocus(*out.Focus, *overlay.Focus)
		out.Focus = &merged
	}
	if overlay.EdgeSnapThreshold != nil {
		out.EdgeSnapThreshold = overlay.EdgeSnapThreshold
	}
	if overlay.OpaqueMove != nil {
		out.OpaqueMove = overlay.OpaqueMove
	}
	if overlay.ReconcileInterval != nil {
		out.ReconcileInterval = overlay.ReconcileInterval
	}
	if overlay.Style != nil {
		out.Style = overlay.Style
	}
	if overlay.Styles != nil {
		styles := make(map[string]RawStyle, len(out.Styles)+len(overlay.Styles))
		for name, s := range out.Styles {
			styles[name] = s
		}
		for name, s := range overlay.Styles {
			if base, ok := styles[name]; ok {
				styles[name] = mergeRawStyle(base, s)
				continue
			}
			styles[name] = s
		}
		out.Styles = styles
	}
	if overlay.Bindings != nil {
		if out.Bindings == nil {
			out.Bindings = &RawBindings{}
		}
		merged := mergeRawBindings(*out.Bindings, *overlay.Bindings)
		out.Bindings = &merged
	}
	if overlay.Mouse != nil {
		if out.Mouse == nil {
			out.Mouse = &RawMouse{}
		}
		if overlay.Mouse.MoveModifier != nil {
			out.Mouse.MoveModifier = overlay.Mouse.MoveModifier
		}
	}
	return out
}

func mergeRawPlacement(base, overlay RawPlacement) RawPlacement {
	out := base
	if overlay.Policy != nil {
		out.Policy = overlay.Policy
	}
	if overlay.RowDirection != nil {
		out.RowDirection = overlay.RowDirection
	}
	if overlay.ColumnDirection != nil {
		out.ColumnDirection = overlay.ColumnDirection
	}
	if overlay.Margin != nil {
		out.Margin = overlay.Margin
	}
	if overlay.AvoidDocks != nil {
		out.AvoidDocks = overlay.AvoidDocks
	}
	return out
}

func mergeRawFocus(base, overlay RawFocus) RawFocus {
	out := base
	if overlay.Model != nil {
		out.Model = overlay.Model
	}
	if overlay.AutoRaise != nil {
		out.AutoRaise = overlay.AutoRaise
	}
	if overlay.AutoRaiseDelayMS != nil {
		out.AutoRaiseDelayMS = overlay.AutoRaiseDelayMS
	}
	if overlay.FocusNew != nil {
		out.FocusNew = overlay.FocusNew
	}
	if overlay.FocusLast != nil {
		out.FocusLast = overlay.FocusLast
	}
	return out
}

func mergeRawBindings(base, overlay RawBindings) RawBindings {
	out := base
	pick := func(dst **string, src *string) {
		if src != nil {
			*dst = src
		}
	}
	pick(&out.WorkspaceNext, overlay.WorkspaceNext)
	pick(&out.WorkspacePrev, overlay.WorkspacePrev)
	pick(&out.Iconify, overlay.Iconify)
	pick(&out.Close, overlay.Close)
	pick(&out.Maximize, overlay.Maximize)
	pick(&out.Shade, overlay.Shade)
	pick(&out.Stick, overlay.Stick)
	pick(&out.Raise, overlay.Raise)
	pick(&out.Lower, overlay.Lower)
	pick(&out.Reconfigure, overlay.Reconfigure)
	return out
}

func mergeRawTexture(base, overlay RawTexture) RawTexture {
	out := base
	if overlay.Kind != nil {
		out.Kind = overlay.Kind
	}
	if overlay.Bevel != nil {
		out.Bevel = overlay.Bevel
	}
	if overlay.Color != nil {
		out.Color = overlay.Color
	}
	if overlay.ColorTo != nil {
		out.ColorTo = overlay.ColorTo
	}
	return out
}

func mergeRawTexturePtr(base, overlay *RawTexture) *RawTexture {
	if overlay == nil {
		return base
	}
	if base == nil {
		cp := *overlay
		return &cp
	}
	merged := mergeRawTexture(*base, *overlay)
	return &merged
}

func mergeRawStyle(base, overlay RawStyle) RawStyle {
	out := base
	ints := []struct {
		dst **int
		src *int
	}{
		{&out.BevelWidth, overlay.BevelWidth},
		{&out.BorderWidth, overlay.BorderWidth},
		{&out.HandleWidth, overlay.HandleWidth},
		{&out.FrameWidth, overlay.FrameWidth},
		{&out.FontAscent, overlay.FontAscent},
		{&out.FontDescent, overlay.FontDescent},
		{&out.FontInkHeight, overlay.FontInkHeight},
	}
	for _, f := range ints {
		if f.src != nil {
			*f.dst = f.src
		}
	}
	if overlay.Inherits != nil {
		out.Inherits = overlay.Inherits
	}
	if overlay.BorderColor != nil {
		out.BorderColor = overlay.BorderColor
	}
	out.TitleFocus = mergeRawTexturePtr(out.TitleFocus, overlay.TitleFocus)
	out.TitleUnfocus = mergeRawTexturePtr(out.TitleUnfocus, overlay.TitleUnfocus)
	out.LabelFocus = mergeRawTexturePtr(out.LabelFocus, overlay.LabelFocus)
	out.LabelUnfocus = mergeRawTexturePtr(out.LabelUnfocus, overlay.LabelUnfocus)
	out.HandleFocus = mergeRawTexturePtr(out.HandleFocus, overlay.HandleFocus)
	out.HandleUnfocus = mergeRawTexturePtr(out.HandleUnfocus, overlay.HandleUnfocus)
	out.GripFocus = mergeRawTexturePtr(out.GripFocus, overlay.GripFocus)
	out.GripUnfocus = mergeRawTexturePtr(out.GripUnfocus, overlay.GripUnfocus)
	out.ButtonFocus = mergeRawTexturePtr(out.ButtonFocus, overlay.ButtonFocus)
	out.ButtonUnfocus = mergeRawTexturePtr(out.ButtonUnfocus, overlay.ButtonUnfocus)
	out.ButtonPressed = mergeRawTexturePtr(out.ButtonPressed, overlay.ButtonPressed)
	return out
}
