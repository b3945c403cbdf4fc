package config

import (
	"fmt"
	"regexp"
	"strings"
)

// PlacementPolicy selects how new windows are positioned.
type PlacementPolicy string

const (
	PlacementRowSmart    PlacementPolicy = "row-smart"
	PlacementColumnSmart PlacementPolicy = "column-smart"
	PlacementBestFit     PlacementPolicy = "best-fit"
	PlacementCascade     PlacementPolicy = "cascade"
)

// RowDirection is the horizontal scan order of smart placement.
type RowDirection string

const (
	LeftToRight RowDirection = "left-to-right"
	RightToLeft RowDirection = "right-to-left"
)

// ColumnDirection is the vertical scan order of smart placement.
type ColumnDirection string

const (
	TopToBottom ColumnDirection = "top-to-bottom"
	BottomToTop ColumnDirection = "bottom-to-top"
)

// FocusModel selects click-to-focus or focus-follows-mouse.
type FocusModel string

const (
	FocusClick  FocusModel = "click"
	FocusSloppy FocusModel = "sloppy"
)

// TextureKind describes how a decoration surface is filled.
type TextureKind string

const (
	TextureFlat           TextureKind = "flat"
	TextureSolid          TextureKind = "solid"
	TextureGradient       TextureKind = "gradient"
	TextureParentRelative TextureKind = "parentrelative"
)

// BevelKind describes the relief drawn around a surface.
type BevelKind string

const (
	BevelNone   BevelKind = "none"
	BevelRaised BevelKind = "raised"
	BevelSunken BevelKind = "sunken"
)

// Texture is a decoration fill. Colors are #rrggbb strings.
type Texture struct {
	Kind    TextureKind `yaml:"kind"`
	Bevel   BevelKind   `yaml:"bevel"`
	Color   string      `yaml:"color"`
	ColorTo string      `yaml:"color_to,omitempty"`
}

// Style holds the decoration metrics and textures used by every frame.
type Style struct {
	BevelWidth    int    `yaml:"bevel_width"`
	BorderWidth   int    `yaml:"border_width"`
	HandleWidth   int    `yaml:"handle_width"`
	FrameWidth    int    `yaml:"frame_width"`
	FontAscent    int    `yaml:"font_ascent"`
	FontDescent   int    `yaml:"font_descent"`
	FontInkHeight int    `yaml:"font_ink_height"`
	BorderColor   string `yaml:"border_color"`

	TitleFocus    Texture `yaml:"title_focus"`
	TitleUnfocus  Texture `yaml:"title_unfocus"`
	LabelFocus    Texture `yaml:"label_focus"`
	LabelUnfocus  Texture `yaml:"label_unfocus"`
	HandleFocus   Texture `yaml:"handle_focus"`
	HandleUnfocus Texture `yaml:"handle_unfocus"`
	GripFocus     Texture `yaml:"grip_focus"`
	GripUnfocus   Texture `yaml:"grip_unfocus"`
	ButtonFocus   Texture `yaml:"button_focus"`
	ButtonUnfocus Texture `yaml:"button_unfocus"`
	ButtonPressed Texture `yaml:"button_pressed"`
}

// Placement configures automatic window placement.
type Placement struct {
	Policy          PlacementPolicy `yaml:"policy"`
	RowDirection    RowDirection    `yaml:"row_direction"`
	ColumnDirection ColumnDirection `yaml:"column_direction"`
	Margin          int             `yaml:"margin"`
	// AvoidDocks makes row-smart placement skip dock regions the way
	// column-smart placement always does.
	AvoidDocks bool `yaml:"avoid_docks"`
}

// Focus configures the focus policy.
type Focus struct {
	Model            FocusModel `yaml:"model"`
	AutoRaise        bool       `yaml:"auto_raise"`
	AutoRaiseDelayMS int        `yaml:"auto_raise_delay_ms"`
	FocusNew         bool       `yaml:"focus_new"`
	FocusLast        bool       `yaml:"focus_last"`
}

// Bindings maps window manager commands to key sequences in xgbutil
// keybind syntax (e.g. "Mod4-Right"). Empty sequences are not grabbed.
type Bindings struct {
	WorkspaceNext string `yaml:"workspace_next"`
	WorkspacePrev string `yaml:"workspace_prev"`
	Iconify       string `yaml:"iconify"`
	Close         string `yaml:"close"`
	Maximize      string `yaml:"maximize"`
	Shade         string `yaml:"shade"`
	Stick         string `yaml:"stick"`
	Raise         string `yaml:"raise"`
	Lower         string `yaml:"lower"`
	Reconfigure   string `yaml:"reconfigure"`
}

// Mouse configures pointer gestures on client windows.
type Mouse struct {
	MoveModifier string `yaml:"move_modifier"`
}

type Config struct {
	Display           string           `yaml:"display,omitempty"`
	LogLevel          string           `yaml:"log_level"`
	Workspaces        []string         `yaml:"workspaces"`
	Placement         Placement        `yaml:"placement"`
	Focus             Focus            `yaml:"focus"`
	EdgeSnapThreshold int              `yaml:"edge_snap_threshold"`
	OpaqueMove        bool             `yaml:"opaque_move"`
	ReconcileInterval int              `yaml:"reconcile_interval"`
	Style             string           `yaml:"style"`
	Styles            map[string]Style `yaml:"styles"`
	Bindings          Bindings         `yaml:"bindings"`
	Mouse             Mouse            `yaml:"mouse"`
}

func DefaultConfig() *Config {
	return &Config{
		LogLevel:   "info",
		Workspaces: []string{"one", "two", "three", "four"},
		Placement: Placement{
			Policy:          PlacementRowSmart,
			RowDirection:    LeftToRight,
			ColumnDirection: TopToBottom,
			Margin:          0,
		},
		Focus: Focus{
			Model:            FocusClick,
			AutoRaise:        false,
			AutoRaiseDelayMS: 400,
			FocusNew:         true,
			FocusLast:        true,
		},
		EdgeSnapThreshold: 8,
		OpaqueMove:        true,
		ReconcileInterval: 10,
		Style:             DefaultBuiltinStyle,
		Styles:            BuiltinStyles(),
		Bindings: Bindings{
			WorkspaceNext: "Mod4-Right",
			WorkspacePrev: "Mod4-Left",
			Iconify:       "Mod4-m",
			Close:         "Mod4-q",
			Maximize:      "Mod4-Up",
			Shade:         "Mod4-s",
			Stick:         "Mod4-Shift-s",
			Raise:         "Mod4-Prior",
			Lower:         "Mod4-Next",
			Reconfigure:   "Mod4-Shift-r",
		},
		Mouse: Mouse{MoveModifier: "Mod1"},
	}
}

// ActiveStyle returns the style selected by the "style" key.
func (c *Config) ActiveStyle() (*Style, error) {
	return c.GetStyle(c.Style)
}

func (c *Config) GetStyle(name string) (*Style, error) {
	style, ok := c.Styles[name]
	if !ok {
		return nil, fmt.Errorf("style %q not found", name)
	}
	return &style, nil
}

var colorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

func (c *Config) Validate() error {
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warning", "warn", "error":
	default:
		return &ValidationError{Path: "log_level", Err: fmt.Errorf("log_level must be one of: debug, info, warning, error")}
	}
	if len(c.Workspaces) == 0 {
		return &ValidationError{Path: "workspaces", Err: fmt.Errorf("at least one workspace is required")}
	}
	for i, name := range c.Workspaces {
		if strings.TrimSpace(name) == "" {
			return &ValidationError{Path: "workspaces", Err: fmt.Errorf("workspace %d has an empty name", i)}
		}
	}
	switch c.Placement.Policy {
	case PlacementRowSmart, PlacementColumnSmart, PlacementBestFit, PlacementCascade:
	default:
		return &ValidationError{Path: "placement.policy", Err: fmt.Errorf("policy must be one of: row-smart, column-smart, best-fit, cascade")}
	}
	switch c.Placement.RowDirection {
	case LeftToRight, RightToLeft:
	default:
		return &ValidationError{Path: "placement.row_direction", Err: fmt.Errorf("row_direction must be left-to-right or right-to-left")}
	}
	switch c.Placement.ColumnDirection {
	case TopToBottom, BottomToTop:
	default:
		return &ValidationError{Path: "placement.column_direction", Err: fmt.Errorf("column_direction must be top-to-bottom or bottom-to-top")}
	}
	if c.Placement.Margin < 0 {
		return &ValidationError{Path: "placement.margin", Err: fmt.Errorf("margin must be >= 0")}
	}
	switch c.Focus.Model {
	case FocusClick, FocusSloppy:
	default:
		return &ValidationError{Path: "focus.model", Err: fmt.Errorf("model must be click or sloppy")}
	}
	if c.Focus.AutoRaiseDelayMS < 0 {
		return &ValidationError{Path: "focus.auto_raise_delay_ms", Err: fmt.Errorf("auto_raise_delay_ms must be >= 0")}
	}
	if c.EdgeSnapThreshold < 0 {
		return &ValidationError{Path: "edge_snap_threshold", Err: fmt.Errorf("edge_snap_threshold must be >= 0")}
	}
	if c.ReconcileInterval < 0 {
		return &ValidationError{Path: "reconcile_interval", Err: fmt.Errorf("reconcile_interval must be >= 0")}
	}
	if len(c.Styles) == 0 {
		return &ValidationError{Path: "styles", Err: fmt.Errorf("styles must not be empty")}
	}
	if c.Style == "" {
		return &ValidationError{Path: "style", Err: fmt.Errorf("style is required")}
	}
	if _, ok := c.Styles[c.Style]; !ok {
		return &ValidationError{Path: "style", Err: fmt.Errorf("style %q not found in styles", c.Style)}
	}
	for _, name := range sortedKeys(c.Styles) {
		style := c.Styles[name]
		if err := validateStyle(&style); err != nil {
			return &ValidationError{Path: "styles." + name, Err: err}
		}
	}
	return nil
}

func validateStyle(s *Style) error {
	if s.BevelWidth < 0 || s.BorderWidth < 0 || s.HandleWidth < 0 || s.FrameWidth < 0 {
		return fmt.Errorf("widths must be >= 0")
	}
	if s.FontAscent+s.FontDescent <= 0 && s.FontInkHeight <= 0 {
		return fmt.Errorf("font metrics must describe a positive height")
	}
	if !colorPattern.MatchString(s.BorderColor) {
		return fmt.Errorf("border_color %q is not a #rrggbb color", s.BorderColor)
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
	for _, name := range sortedKeys(textures) {
		if err := validateTexture(textures[name]); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}

func validateTexture(t Texture) error {
	switch t.Kind {
	case TextureFlat, TextureSolid, TextureGradient, TextureParentRelative:
	default:
		return fmt.Errorf("kind must be one of: flat, solid, gradient, parentrelative")
	}
	switch t.Bevel {
	case "", BevelNone, BevelRaised, BevelSunken:
	default:
		return fmt.Errorf("bevel must be one of: none, raised, sunken")
	}
	if t.Kind == TextureParentRelative {
		return nil
	}
	if !colorPattern.MatchString(t.Color) {
		return fmt.Errorf("color %q is not a #rrggbb color", t.Color)
	}
	if t.Kind == TextureGradient && !colorPattern.MatchString(t.ColorTo) {
		return fmt.Errorf("color_to %q is not a #rrggbb color", t.ColorTo)
	}
	return nil
}
