package wm

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/1broseidon/framewm/internal/config"
	"github.com/1broseidon/framewm/internal/platform"
)

// TexturePair holds the focused and unfocused variant of one element.
type TexturePair struct {
	Focus   platform.Texture
	Unfocus platform.Texture
}

func (p TexturePair) pick(focused bool) platform.Texture {
	if focused {
		return p.Focus
	}
	return p.Unfocus
}

// Style is the resolved decoration style shared by every frame.
type Style struct {
	BevelWidth    int
	BorderWidth   int
	HandleWidth   int
	FrameWidth    int
	FontAscent    int
	FontDescent   int
	FontInkHeight int
	BorderColor   uint32

	Title         TexturePair
	Label         TexturePair
	Handle        TexturePair
	Grip          TexturePair
	Button        TexturePair
	ButtonPressed platform.Texture
}

// StyleFromConfig resolves color strings and texture names.
func StyleFromConfig(cs *config.Style) (Style, error) {
	border, err := parseColor(cs.BorderColor)
	if err != nil {
		return Style{}, fmt.Errorf("border_color: %w", err)
	}
	s := Style{
		BevelWidth:    cs.BevelWidth,
		BorderWidth:   cs.BorderWidth,
		HandleWidth:   cs.HandleWidth,
		FrameWidth:    cs.FrameWidth,
		FontAscent:    cs.FontAscent,
		FontDescent:   cs.FontDescent,
		FontInkHeight: cs.FontInkHeight,
		BorderColor:   border,
	}

	pairs := []struct {
		name       string
		dst        *TexturePair
		focus, unf config.Texture
	}{
		{"title", &s.Title, cs.TitleFocus, cs.TitleUnfocus},
		{"label", &s.Label, cs.LabelFocus, cs.LabelUnfocus},
		{"handle", &s.Handle, cs.HandleFocus, cs.HandleUnfocus},
		{"grip", &s.Grip, cs.GripFocus, cs.GripUnfocus},
		{"button", &s.Button, cs.ButtonFocus, cs.ButtonUnfocus},
	}
	for _, p := range pairs {
		if p.dst.Focus, err = textureFromConfig(p.focus); err != nil {
			return Style{}, fmt.Errorf("%s_focus: %w", p.name, err)
		}
		if p.dst.Unfocus, err = textureFromConfig(p.unf); err != nil {
			return Style{}, fmt.Errorf("%s_unfocus: %w", p.name, err)
		}
	}
	if s.ButtonPressed, err = textureFromConfig(cs.ButtonPressed); err != nil {
		return Style{}, fmt.Errorf("button_pressed: %w", err)
	}
	return s, nil
}

// TitleHeight is the height of the titlebar: the taller of the font's
// line height and its ink height, plus the bevel on both sides and a
// pixel of padding above and below.
func (s Style) TitleHeight() int {
	return max(s.FontAscent+s.FontDescent, s.FontInkHeight) + 2*s.BevelWidth + 2
}

// LabelHeight is the height of the label inside the titlebar.
func (s Style) LabelHeight() int {
	return max(s.TitleHeight()-2*s.BevelWidth, 1)
}

// ButtonSize is the edge length of the square titlebar buttons.
func (s Style) ButtonSize() int {
	return max(s.LabelHeight()-2, 1)
}

func textureFromConfig(t config.Texture) (platform.Texture, error) {
	var out platform.Texture
	switch t.Kind {
	case config.TextureFlat:
		out.Kind = platform.TextureFlat
	case config.TextureSolid:
		out.Kind = platform.TextureSolid
	case config.TextureGradient:
		out.Kind = platform.TextureGradient
	case config.TextureParentRelative:
		out.Kind = platform.TextureParentRelative
		return out, nil
	default:
		return out, fmt.Errorf("unknown texture kind %q", t.Kind)
	}
	switch t.Bevel {
	case "", config.BevelNone:
		out.Bevel = platform.BevelNone
	case config.BevelRaised:
		out.Bevel = platform.BevelRaised
	case config.BevelSunken:
		out.Bevel = platform.BevelSunken
	default:
		return out, fmt.Errorf("unknown bevel %q", t.Bevel)
	}
	var err error
	if out.Color, err = parseColor(t.Color); err != nil {
		return out, err
	}
	out.ColorTo = out.Color
	if t.ColorTo != "" {
		if out.ColorTo, err = parseColor(t.ColorTo); err != nil {
			return out, err
		}
	}
	return out, nil
}

func parseColor(s string) (uint32, error) {
	hex, ok := strings.CutPrefix(s, "#")
	if !ok || len(hex) != 6 {
		return 0, fmt.Errorf("invalid color %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return uint32(v), nil
}
