package config

const DefaultBuiltinStyle = "default"

func tex(kind TextureKind, bevel BevelKind, color, colorTo string) Texture {
	return Texture{Kind: kind, Bevel: bevel, Color: color, ColorTo: colorTo}
}

// BuiltinStyles returns the built-in style library.
//
// These are always available; user styles can inherit from them with
// "inherits: builtin:<name>".
func BuiltinStyles() map[string]Style {
	return map[string]Style{
		"default": {
			BevelWidth:    1,
			BorderWidth:   1,
			HandleWidth:   6,
			FrameWidth:    0,
			FontAscent:    11,
			FontDescent:   3,
			FontInkHeight: 13,
			BorderColor:   "#000000",
			TitleFocus:    tex(TextureGradient, BevelRaised, "#7d8ea3", "#4b5a6d"),
			TitleUnfocus:  tex(TextureGradient, BevelRaised, "#c0c0c0", "#a0a0a0"),
			LabelFocus:    tex(TextureParentRelative, BevelNone, "", ""),
			LabelUnfocus:  tex(TextureParentRelative, BevelNone, "", ""),
			HandleFocus:   tex(TextureFlat, BevelRaised, "#4b5a6d", ""),
			HandleUnfocus: tex(TextureFlat, BevelRaised, "#a0a0a0", ""),
			GripFocus:     tex(TextureFlat, BevelRaised, "#7d8ea3", ""),
			GripUnfocus:   tex(TextureFlat, BevelRaised, "#c0c0c0", ""),
			ButtonFocus:   tex(TextureFlat, BevelRaised, "#7d8ea3", ""),
			ButtonUnfocus: tex(TextureFlat, BevelRaised, "#c0c0c0", ""),
			ButtonPressed: tex(TextureFlat, BevelSunken, "#4b5a6d", ""),
		},
		"flat": {
			BevelWidth:    0,
			BorderWidth:   1,
			HandleWidth:   4,
			FrameWidth:    0,
			FontAscent:    11,
			FontDescent:   3,
			FontInkHeight: 13,
			BorderColor:   "#202020",
			TitleFocus:    tex(TextureSolid, BevelNone, "#3465a4", ""),
			TitleUnfocus:  tex(TextureSolid, BevelNone, "#888a85", ""),
			LabelFocus:    tex(TextureParentRelative, BevelNone, "", ""),
			LabelUnfocus:  tex(TextureParentRelative, BevelNone, "", ""),
			HandleFocus:   tex(TextureSolid, BevelNone, "#3465a4", ""),
			HandleUnfocus: tex(TextureSolid, BevelNone, "#888a85", ""),
			GripFocus:     tex(TextureSolid, BevelNone, "#204a87", ""),
			GripUnfocus:   tex(TextureSolid, BevelNone, "#555753", ""),
			ButtonFocus:   tex(TextureSolid, BevelNone, "#204a87", ""),
			ButtonUnfocus: tex(TextureSolid, BevelNone, "#555753", ""),
			ButtonPressed: tex(TextureSolid, BevelNone, "#2e3436", ""),
		},
		"dark": {
			BevelWidth:    2,
			BorderWidth:   1,
			HandleWidth:   8,
			FrameWidth:    1,
			FontAscent:    12,
			FontDescent:   4,
			FontInkHeight: 14,
			BorderColor:   "#101010",
			TitleFocus:    tex(TextureGradient, BevelRaised, "#404040", "#202020"),
			TitleUnfocus:  tex(TextureGradient, BevelSunken, "#303030", "#181818"),
			LabelFocus:    tex(TextureFlat, BevelSunken, "#282828", ""),
			LabelUnfocus:  tex(TextureParentRelative, BevelNone, "", ""),
			HandleFocus:   tex(TextureFlat, BevelRaised, "#303030", ""),
			HandleUnfocus: tex(TextureFlat, BevelRaised, "#202020", ""),
			GripFocus:     tex(TextureFlat, BevelRaised, "#505050", ""),
			GripUnfocus:   tex(TextureFlat, BevelRaised, "#303030", ""),
			ButtonFocus:   tex(TextureFlat, BevelRaised, "#505050", ""),
			ButtonUnfocus: tex(TextureFlat, BevelRaised, "#303030", ""),
			ButtonPressed: tex(TextureFlat, BevelSunken, "#101010", ""),
		},
	}
}
