package platform

import (
	"fmt"

	"github.com/1broseidon/framewm/internal/geom"
)

// WindowAttributes is the subset of the server's window attributes the
// manager needs before adopting a window.
type WindowAttributes struct {
	OverrideRedirect bool
	Viewable         bool
	Geometry         geom.Rect
	BorderWidth      int
}

// WMState mirrors the ICCCM WM_STATE values.
type WMState int

const (
	StateWithdrawn WMState = 0
	StateNormal    WMState = 1
	StateIconic    WMState = 3
)

func (s WMState) String() string {
	switch s {
	case StateWithdrawn:
		return "withdrawn"
	case StateNormal:
		return "normal"
	case StateIconic:
		return "iconic"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Gravity is an ICCCM window gravity.
type Gravity int

const (
	GravityForget Gravity = iota
	GravityNorthWest
	GravityNorth
	GravityNorthEast
	GravityWest
	GravityCenter
	GravityEast
	GravitySouthWest
	GravitySouth
	GravitySouthEast
	GravityStatic
)

var gravityNames = [...]string{
	"forget", "northwest", "north", "northeast", "west", "center",
	"east", "southwest", "south", "southeast", "static",
}

func (g Gravity) String() string {
	if g >= 0 && int(g) < len(gravityNames) {
		return gravityNames[g]
	}
	return fmt.Sprintf("gravity(%d)", int(g))
}

// NormalHints is a decoded WM_NORMAL_HINTS property. Fields the client
// did not set carry the documented defaults after Normalize.
type NormalHints struct {
	UserPosition    bool
	ProgramPosition bool

	MinWidth, MinHeight   int
	MaxWidth, MaxHeight   int
	WidthInc, HeightInc   int
	BaseWidth, BaseHeight int

	// Aspect ratios as numerator/denominator. Zero denominators mean unset.
	MinAspectNum, MinAspectDen int
	MaxAspectNum, MaxAspectDen int

	Gravity Gravity
}

// DefaultNormalHints returns the hints assumed for a client that sets none.
func DefaultNormalHints(screen geom.Size) NormalHints {
	return NormalHints{
		MinWidth:  1,
		MinHeight: 1,
		MaxWidth:  screen.Width,
		MaxHeight: screen.Height,
		WidthInc:  1,
		HeightInc: 1,
		Gravity:   GravityNorthWest,
	}
}

// Normalize fills unset or nonsensical values with the defaults.
func (h NormalHints) Normalize(screen geom.Size) NormalHints {
	if h.MinWidth < 1 {
		h.MinWidth = 1
	}
	if h.MinHeight < 1 {
		h.MinHeight = 1
	}
	if h.MaxWidth <= 0 {
		h.MaxWidth = screen.Width
	}
	if h.MaxHeight <= 0 {
		h.MaxHeight = screen.Height
	}
	if h.MaxWidth < h.MinWidth {
		h.MaxWidth = h.MinWidth
	}
	if h.MaxHeight < h.MinHeight {
		h.MaxHeight = h.MinHeight
	}
	if h.WidthInc < 1 {
		h.WidthInc = 1
	}
	if h.HeightInc < 1 {
		h.HeightInc = 1
	}
	if h.BaseWidth < 0 {
		h.BaseWidth = 0
	}
	if h.BaseHeight < 0 {
		h.BaseHeight = 0
	}
	if h.Gravity < GravityForget || h.Gravity > GravityStatic {
		h.Gravity = GravityNorthWest
	}
	return h
}

// FixedSize reports whether the client cannot be resized.
func (h NormalHints) FixedSize() bool {
	return h.MinWidth == h.MaxWidth && h.MinHeight == h.MaxHeight
}

// WMHints is a decoded WM_HINTS property.
type WMHints struct {
	// Input is false only when the client explicitly declines keyboard input.
	Input        bool
	InitialState WMState
	Group        WindowID
	Urgent       bool
}

// DefaultWMHints is used when WM_HINTS is absent.
func DefaultWMHints() WMHints {
	return WMHints{Input: true, InitialState: StateNormal}
}

// Protocols lists the WM_PROTOCOLS a client supports.
type Protocols struct {
	Delete    bool
	TakeFocus bool
	Ping      bool
}

// Motif hint flag and bit values from _MOTIF_WM_HINTS.
const (
	MotifFlagFunctions   = 1 << 0
	MotifFlagDecorations = 1 << 1

	MotifFuncAll      = 1 << 0
	MotifFuncResize   = 1 << 1
	MotifFuncMove     = 1 << 2
	MotifFuncIconify  = 1 << 3
	MotifFuncMaximize = 1 << 4
	MotifFuncClose    = 1 << 5

	MotifDecorAll      = 1 << 0
	MotifDecorBorder   = 1 << 1
	MotifDecorHandle   = 1 << 2
	MotifDecorTitle    = 1 << 3
	MotifDecorMenu     = 1 << 4
	MotifDecorIconify  = 1 << 5
	MotifDecorMaximize = 1 << 6
)

// MotifHints is a decoded _MOTIF_WM_HINTS property.
type MotifHints struct {
	Flags       uint
	Functions   uint
	Decorations uint
}

// Decoration presets used by the private hints and persisted attributes.
type Decoration int

const (
	DecorNone Decoration = iota
	DecorNormal
	DecorTiny
	DecorTool
)

// Attribute flags shared by PrivateHints and PersistedAttributes.
const (
	AttribShaded     = 1 << 0
	AttribMaxHoriz   = 1 << 1
	AttribMaxVert    = 1 << 2
	AttribStuck      = 1 << 3
	AttribWorkspace  = 1 << 4
	AttribStack      = 1 << 5
	AttribDecoration = 1 << 6
)

// Stack values carried by the private hints.
const (
	StackTop    = 0
	StackNormal = 1
	StackBottom = 2
)

// PrivateHints is the manager's own hints property. Flags says which of
// the other fields are meaningful; Attrib carries the boolean values.
type PrivateHints struct {
	Flags      uint
	Attrib     uint
	Workspace  int
	Stack      int
	Decoration Decoration
}

// Attributes returns the hints as an attribute record with no saved
// geometry.
func (h PrivateHints) Attributes() PersistedAttributes {
	return PersistedAttributes{
		Flags:      h.Flags,
		Attrib:     h.Attrib,
		Workspace:  h.Workspace,
		Stack:      h.Stack,
		Decoration: h.Decoration,
	}
}

// PersistedAttributes is written on every state change so a restarted
// manager can restore the window.
type PersistedAttributes struct {
	Flags      uint
	Attrib     uint
	Workspace  int
	Stack      int
	Premax     geom.Rect
	Decoration Decoration
}

// PersistedAttributesLen is the number of 32-bit elements in the encoded record.
const PersistedAttributesLen = 9

// Encode serializes the record in property order.
func (a PersistedAttributes) Encode() []uint {
	return []uint{
		a.Flags,
		a.Attrib,
		uint(uint32(int32(a.Workspace))),
		uint(uint32(int32(a.Stack))),
		uint(uint32(int32(a.Premax.X))),
		uint(uint32(int32(a.Premax.Y))),
		uint(a.Premax.Width),
		uint(a.Premax.Height),
		uint(a.Decoration),
	}
}

// DecodeAttributes parses a record produced by Encode. Records with the
// wrong number of elements are rejected.
func DecodeAttributes(v []uint) (PersistedAttributes, error) {
	if len(v) != PersistedAttributesLen {
		return PersistedAttributes{}, fmt.Errorf("attributes: want %d elements, got %d", PersistedAttributesLen, len(v))
	}
	signed := func(u uint) int { return int(int32(uint32(u))) }
	return PersistedAttributes{
		Flags:      v[0],
		Attrib:     v[1],
		Workspace:  signed(v[2]),
		Stack:      signed(v[3]),
		Premax:     geom.NewRect(signed(v[4]), signed(v[5]), int(v[6]), int(v[7])),
		Decoration: Decoration(v[8]),
	}, nil
}

// TextureKind and BevelKind describe a texture to the renderer.
type TextureKind int

const (
	TextureFlat TextureKind = iota
	TextureSolid
	TextureGradient
	TextureParentRelative
)

type BevelKind int

const (
	BevelNone BevelKind = iota
	BevelRaised
	BevelSunken
)

// Texture is an opaque paint description. Colors are 0xRRGGBB.
type Texture struct {
	Kind    TextureKind
	Bevel   BevelKind
	Color   uint32
	ColorTo uint32
}
