package wm

import (
	"fmt"
	"log/slog"

	"github.com/1broseidon/framewm/internal/geom"
	"github.com/1broseidon/framewm/internal/menu"
	"github.com/1broseidon/framewm/internal/platform"
)

// MaximizeMode says which axes of a window are maximized.
type MaximizeMode int

const (
	MaximizeNone MaximizeMode = iota
	MaximizeFull
	MaximizeVertical
	MaximizeHorizontal
)

func (m MaximizeMode) String() string {
	switch m {
	case MaximizeNone:
		return "none"
	case MaximizeFull:
		return "full"
	case MaximizeVertical:
		return "vertical"
	case MaximizeHorizontal:
		return "horizontal"
	default:
		return "unknown"
	}
}

// MaximizeModeForButton maps the pointer button that clicked the maximize
// button to a mode: 1 both axes, 2 vertical, 3 horizontal.
func MaximizeModeForButton(button int) MaximizeMode {
	switch button {
	case 1:
		return MaximizeFull
	case 2:
		return MaximizeVertical
	case 3:
		return MaximizeHorizontal
	default:
		return MaximizeNone
	}
}

type surfacePair struct {
	focus   platform.Surface
	unfocus platform.Surface
}

// decorationKinds lists the decoration children in creation order.
var decorationKinds = []platform.ChildKind{
	platform.ChildTitle,
	platform.ChildLabel,
	platform.ChildIconifyButton,
	platform.ChildMaximizeButton,
	platform.ChildCloseButton,
	platform.ChildHandle,
	platform.ChildLeftGrip,
	platform.ChildRightGrip,
}

// Window is a managed client and the frame around it.
type Window struct {
	screen *Screen
	log    *slog.Logger

	id         platform.WindowID
	frame      platform.WindowID
	children   map[platform.ChildKind]platform.WindowID
	childRects map[platform.ChildKind]geom.Rect
	surfaces   map[platform.ChildKind]surfacePair
	pressed    platform.ChildKind
	pressedSrf platform.Surface

	// clientRect is in root coordinates. frameRect is the unshaded frame.
	clientRect   geom.Rect
	clientBorder int
	frameRect    geom.Rect

	normal    platform.NormalHints
	hints     platform.WMHints
	protocols platform.Protocols
	private   *platform.PrivateHints
	preset    *platform.Decoration
	title     string
	iconTitle string

	decor Decorations
	funcs Functions
	state platform.WMState

	workspace  int
	number     int
	parent     *Window
	transients []*Window

	modal     bool
	shaped    bool
	focused   bool
	visible   bool
	iconic    bool
	shaded    bool
	stuck     bool
	maximized MaximizeMode
	premax    geom.Rect
	moving    bool
	resizing  bool
	destroyed bool

	// ignoreUnmap counts unmap notifies caused by the manager itself.
	ignoreUnmap  int
	clientMapped bool

	autoRaise Timer
	gesture   gesture
	menu      *menu.Menu
	lastClick uint32
}

func (w *Window) ID() platform.WindowID    { return w.id }
func (w *Window) Frame() platform.WindowID { return w.frame }
func (w *Window) Title() string            { return w.title }
func (w *Window) IconTitle() string        { return w.iconTitle }
func (w *Window) Workspace() int           { return w.workspace }
func (w *Window) Number() int              { return w.number }
func (w *Window) Iconic() bool             { return w.iconic }
func (w *Window) Visible() bool            { return w.visible }
func (w *Window) Shaded() bool             { return w.shaded }
func (w *Window) Stuck() bool              { return w.stuck }
func (w *Window) Focused() bool            { return w.focused }
func (w *Window) Modal() bool              { return w.modal }
func (w *Window) Maximized() MaximizeMode  { return w.maximized }
func (w *Window) PremaxRect() geom.Rect    { return w.premax }
func (w *Window) ClientRect() geom.Rect    { return w.clientRect }
func (w *Window) Decorations() Decorations { return w.decor }
func (w *Window) Functions() Functions     { return w.funcs }
func (w *Window) State() platform.WMState  { return w.state }
func (w *Window) Moving() bool             { return w.moving }
func (w *Window) Resizing() bool           { return w.resizing }
func (w *Window) TransientFor() *Window    { return w.parent }

// NormalHints returns the client's normalized size hints.
func (w *Window) NormalHints() platform.NormalHints { return w.normal }

// Transients returns the window's transient children.
func (w *Window) Transients() []*Window {
	return append([]*Window(nil), w.transients...)
}

// FrameRect is the frame's on-screen rectangle. A shaded frame is only
// as tall as its titlebar.
func (w *Window) FrameRect() geom.Rect {
	if w.shaded {
		return w.frameRect.Resize(geom.NewSize(w.frameRect.Width, w.screen.style.TitleHeight()))
	}
	return w.frameRect
}

// Child returns the decoration sub-window of the given kind.
func (w *Window) Child(kind platform.ChildKind) (platform.WindowID, bool) {
	id, ok := w.children[kind]
	return id, ok
}

func (w *Window) String() string {
	return fmt.Sprintf("0x%x", uint32(w.id))
}

func (w *Window) insets() geom.Insets {
	return w.screen.style.Insets(w.decor)
}

func (w *Window) backend() platform.Backend { return w.screen.backend }

// ids lists every X window the manager routes to w.
func (w *Window) ids() []platform.WindowID {
	out := []platform.WindowID{w.id}
	if w.frame != platform.None {
		out = append(out, w.frame)
	}
	if plate, ok := w.children[platform.ChildPlate]; ok {
		out = append(out, plate)
	}
	for _, kind := range decorationKinds {
		if id, ok := w.children[kind]; ok {
			out = append(out, id)
		}
	}
	return out
}

// manage adopts a client window following the creation protocol. Nothing
// but the server grab is left behind when it fails.
func (s *Screen) manage(id platform.WindowID, startup bool) (*Window, error) {
	b := s.backend
	b.GrabServer()
	defer b.UngrabServer()

	attrs, err := b.Attributes(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStale, err)
	}
	if attrs.OverrideRedirect {
		return nil, ErrOverrideRedirect
	}

	w := &Window{
		screen:       s,
		log:          s.log.With("window", fmt.Sprintf("0x%x", uint32(id))),
		id:           id,
		clientRect:   attrs.Geometry,
		clientBorder: attrs.BorderWidth,
		children:     make(map[platform.ChildKind]platform.WindowID),
		childRects:   make(map[platform.ChildKind]geom.Rect),
		surfaces:     make(map[platform.ChildKind]surfacePair),
		pressed:      -1,
		decor:        fullDecorations(),
		funcs:        fullFunctions(),
		state:        platform.StateWithdrawn,
		workspace:    s.current,
		number:       -1,
	}

	w.readProtocols()
	w.readWMHints()
	w.readNormalHints()
	w.readDecorationHints()
	if w.hints.InitialState == platform.StateWithdrawn {
		return nil, ErrWithdrawn
	}
	w.title = b.Name(id)
	w.iconTitle = b.IconName(id)

	w.readTransient()
	w.adjustDecorations()

	in := w.insets()
	fsize := in.Grow(w.clientRect.Size())
	origin := applyGravity(w.clientRect.Origin(), w.normal.Gravity, w.clientRect.Size(), w.clientBorder, fsize, in)
	w.setFrameRect(geom.RectFrom(origin, fsize))

	trusted := startup || w.parent != nil || w.normal.UserPosition || w.normal.ProgramPosition
	place := !(trusted && mostlyVisible(w.frameRect, b.ScreenRect()))

	if !b.Validate(id) {
		return nil, ErrStale
	}
	if err := w.createFrame(attrs.Viewable); err != nil {
		return nil, err
	}
	w.grabButtons()

	if w.private != nil && w.parent == nil {
		if w.private.Flags&platform.AttribWorkspace != 0 && s.validWorkspace(w.private.Workspace) {
			w.workspace = w.private.Workspace
		}
		if w.private.Flags&platform.AttribStuck != 0 && w.private.Attrib&platform.AttribStuck != 0 {
			w.stuck = true
		}
	}
	s.workspaces[w.workspace].AddWindow(w, place)

	w.restoreAttributes()

	w.focused = false
	w.applyShape()
	w.sendConfigureNotify()
	w.log.Debug("managed", "title", w.title, "frame", w.FrameRect().String(), "placed", place)
	return w, nil
}

func mostlyVisible(r, screen geom.Rect) bool {
	return r.Intersection(screen).Area()*2 >= r.Area()
}

// setFrameRect commits frame geometry and derives the client rectangle.
func (w *Window) setFrameRect(r geom.Rect) {
	in := w.insets()
	w.frameRect = r
	w.clientRect = geom.RectFrom(
		geom.Point{X: r.X + in.Left, Y: r.Y + in.Top},
		in.Shrink(r.Size()),
	)
}

func (w *Window) createFrame(viewable bool) error {
	b := w.backend()
	frame, err := b.CreateFrame(w.FrameRect(), w.screen.style.BorderColor)
	if err != nil {
		return fmt.Errorf("create frame: %w", err)
	}
	w.frame = frame

	w.layout()
	plate, err := b.CreateChild(frame, platform.ChildPlate, w.childRects[platform.ChildPlate])
	if err != nil {
		_ = b.DestroyWindow(frame)
		return fmt.Errorf("create plate: %w", err)
	}
	w.children[platform.ChildPlate] = plate
	w.syncDecorations()

	if err := b.SetBorderWidth(w.id, 0); err != nil {
		w.log.Debug("set border width", "err", err)
	}
	if err := b.ChangeSaveSet(w.id, true); err != nil {
		w.log.Debug("save set", "err", err)
	}
	if viewable {
		w.ignoreUnmap++
	}
	if err := b.Reparent(w.id, plate, geom.Point{}); err != nil {
		_ = b.DestroyWindow(frame)
		return fmt.Errorf("reparent: %w", err)
	}
	w.clientMapped = viewable
	if err := b.SelectClientInput(w.id); err != nil {
		w.log.Debug("select input", "err", err)
	}

	r := w.screen.router
	r.Register(w.id, w)
	r.Register(w.frame, w)
	r.Register(plate, w)
	w.decorate()
	return nil
}

func (w *Window) grabButtons() {
	b := w.backend()
	mod := w.screen.opts.MoveModifier
	for _, button := range []int{1, 2, 3} {
		if err := b.GrabButton(w.children[platform.ChildPlate], button, mod, false); err != nil {
			w.log.Debug("grab button", "button", button, "err", err)
		}
	}
	if w.screen.clickToFocus() {
		if err := b.GrabButton(w.children[platform.ChildPlate], 1, 0, true); err != nil {
			w.log.Debug("grab click-to-focus", "err", err)
		}
	}
}

// wantChild reports whether the current decorations need a child.
func (w *Window) wantChild(kind platform.ChildKind) bool {
	d := w.decor
	switch kind {
	case platform.ChildPlate:
		return true
	case platform.ChildTitle, platform.ChildLabel:
		return d.Titlebar
	case platform.ChildIconifyButton:
		return d.Titlebar && d.Iconify
	case platform.ChildMaximizeButton:
		return d.Titlebar && d.Maximize
	case platform.ChildCloseButton:
		return d.Titlebar && d.Close
	case platform.ChildHandle, platform.ChildLeftGrip, platform.ChildRightGrip:
		return d.Handle
	}
	return false
}

func (w *Window) childParent(kind platform.ChildKind) platform.WindowID {
	switch kind {
	case platform.ChildLabel, platform.ChildIconifyButton, platform.ChildMaximizeButton, platform.ChildCloseButton:
		return w.children[platform.ChildTitle]
	case platform.ChildLeftGrip, platform.ChildRightGrip:
		return w.children[platform.ChildHandle]
	default:
		return w.frame
	}
}

// syncDecorations creates the children the decorations need and destroys
// the ones they no longer need. layout must have run first.
func (w *Window) syncDecorations() {
	b := w.backend()
	// Destroy children before parents are reconsidered so nested children
	// go first.
	for i := len(decorationKinds) - 1; i >= 0; i-- {
		kind := decorationKinds[i]
		if id, ok := w.children[kind]; ok && !w.wantChild(kind) {
			w.releaseSurfaces(kind)
			w.screen.router.Unregister(id)
			_ = b.DestroyWindow(id)
			delete(w.children, kind)
		}
	}
	for _, kind := range decorationKinds {
		if _, ok := w.children[kind]; ok || !w.wantChild(kind) {
			continue
		}
		id, err := b.CreateChild(w.childParent(kind), kind, w.childRects[kind])
		if err != nil {
			w.log.Debug("create decoration", "kind", kind.String(), "err", err)
			continue
		}
		w.children[kind] = id
		w.screen.router.Register(id, w)
	}
}

// layout computes every child rectangle relative to its parent.
func (w *Window) layout() {
	st := w.screen.style
	in := w.insets()
	fw, fh := w.frameRect.Width, w.frameRect.Height
	rects := w.childRects
	clear(rects)

	rects[platform.ChildPlate] = geom.NewRect(in.Left, in.Top, w.clientRect.Width, w.clientRect.Height)

	if w.decor.Titlebar {
		th := st.TitleHeight()
		bevel := st.BevelWidth
		bsize := st.ButtonSize()
		rects[platform.ChildTitle] = geom.NewRect(0, 0, fw, th)

		x := bevel
		if w.decor.Iconify {
			rects[platform.ChildIconifyButton] = geom.NewRect(x, bevel+1, bsize, bsize)
			x += bsize + bevel
		}
		right := fw - bevel
		if w.decor.Close {
			right -= bsize
			rects[platform.ChildCloseButton] = geom.NewRect(right, bevel+1, bsize, bsize)
			right -= bevel
		}
		if w.decor.Maximize {
			right -= bsize
			rects[platform.ChildMaximizeButton] = geom.NewRect(right, bevel+1, bsize, bsize)
			right -= bevel
		}
		rects[platform.ChildLabel] = geom.NewRect(x, bevel, max(right-x, 1), st.LabelHeight())
	}

	if w.decor.Handle {
		hw := max(st.HandleWidth, 1)
		rects[platform.ChildHandle] = geom.NewRect(0, fh-hw, fw, hw)
		grip := min(2*st.ButtonSize(), max(fw/3, 1))
		rects[platform.ChildLeftGrip] = geom.NewRect(0, 0, grip, hw)
		rects[platform.ChildRightGrip] = geom.NewRect(fw-grip, 0, grip, hw)
	}
}

// applyLayout moves every existing child to its computed rectangle.
func (w *Window) applyLayout() {
	b := w.backend()
	if plate, ok := w.children[platform.ChildPlate]; ok {
		_ = b.MoveResize(plate, w.childRects[platform.ChildPlate])
		_ = b.MoveResize(w.id, geom.RectFrom(geom.Point{}, w.clientRect.Size()))
	}
	for _, kind := range decorationKinds {
		if id, ok := w.children[kind]; ok {
			_ = b.MoveResize(id, w.childRects[kind])
		}
	}
}

func (w *Window) texturesFor(kind platform.ChildKind) TexturePair {
	st := w.screen.style
	switch kind {
	case platform.ChildTitle:
		return st.Title
	case platform.ChildLabel:
		return st.Label
	case platform.ChildHandle:
		return st.Handle
	case platform.ChildLeftGrip, platform.ChildRightGrip:
		return st.Grip
	default:
		return st.Button
	}
}

// decorate renders both focus variants of every decoration and paints
// the ones matching the current focus.
func (w *Window) decorate() {
	_ = w.backend().SetBackgroundColor(w.frame, w.screen.style.BorderColor)
	for _, kind := range decorationKinds {
		if _, ok := w.children[kind]; !ok {
			continue
		}
		w.releaseSurfaces(kind)
		pair := w.texturesFor(kind)
		size := w.childRects[kind].Size()
		w.surfaces[kind] = surfacePair{
			focus:   w.render(size, pair.Focus),
			unfocus: w.render(size, pair.Unfocus),
		}
	}
	w.paintDecorations()
}

// render returns 0 when the renderer fails; paint falls back to a flat color.
func (w *Window) render(size geom.Size, t platform.Texture) platform.Surface {
	if t.Kind == platform.TextureParentRelative {
		return platform.ParentRelative
	}
	s, err := w.backend().Render(size, t)
	if err != nil {
		w.log.Debug("render failed, using flat color", "err", err)
		return 0
	}
	return s
}

func (w *Window) paint(kind platform.ChildKind, s platform.Surface, t platform.Texture) {
	id, ok := w.children[kind]
	if !ok {
		return
	}
	b := w.backend()
	if s == 0 {
		_ = b.SetBackgroundColor(id, t.Color)
	} else {
		_ = b.SetBackground(id, s)
	}
	_ = b.Clear(id)
}

func (w *Window) paintDecorations() {
	for _, kind := range decorationKinds {
		w.paintChild(kind)
	}
}

func (w *Window) paintChild(kind platform.ChildKind) {
	if _, ok := w.children[kind]; !ok {
		return
	}
	if kind == w.pressed && w.pressedSrf != 0 {
		w.paint(kind, w.pressedSrf, w.screen.style.ButtonPressed)
		return
	}
	sp := w.surfaces[kind]
	surface := sp.unfocus
	if w.focused {
		surface = sp.focus
	}
	w.paint(kind, surface, w.texturesFor(kind).pick(w.focused))
}

func (w *Window) releaseSurfaces(kind platform.ChildKind) {
	sp, ok := w.surfaces[kind]
	if !ok {
		return
	}
	for _, s := range []platform.Surface{sp.focus, sp.unfocus} {
		if s != 0 && s != platform.ParentRelative {
			w.backend().Release(s)
		}
	}
	delete(w.surfaces, kind)
}

func (w *Window) releasePressed() {
	if w.pressedSrf != 0 && w.pressedSrf != platform.ParentRelative {
		w.backend().Release(w.pressedSrf)
	}
	w.pressedSrf = 0
	w.pressed = -1
}

func (w *Window) applyShape() {
	in := w.insets()
	shaped, err := w.backend().ShapeFrame(w.frame, w.id, geom.Point{X: in.Left, Y: in.Top})
	if err != nil {
		w.log.Debug("shape", "err", err)
		return
	}
	w.shaped = shaped
}

func (w *Window) sendConfigureNotify() {
	if err := w.backend().SendConfigureNotify(w.id, w.clientRect, w.clientBorder); err != nil {
		w.log.Debug("configure notify", "err", err)
	}
}

// Configure moves and resizes the frame. It is the single entry point for
// geometry changes; a call with the current geometry does nothing.
func (w *Window) Configure(r geom.Rect) Result {
	r = geom.NewRect(r.X, r.Y, r.Width, r.Height)
	if r == w.frameRect {
		return ignored(ErrUnchanged)
	}
	b := w.backend()
	resize := r.Size() != w.frameRect.Size()
	w.setFrameRect(r)

	if resize {
		if w.shaped {
			w.applyShape()
		}
		_ = b.MoveResize(w.frame, w.FrameRect())
		w.layout()
		w.applyLayout()
		w.decorate()
	} else {
		_ = b.Move(w.frame, r.Origin())
	}

	if !w.moving {
		w.sendConfigureNotify()
		w.screen.notify(func(o Observer) { o.WindowConfigured(w) })
	}
	return applied()
}

// Reconfigure recomputes the frame from the client size after a style or
// decoration change.
func (w *Window) Reconfigure() Result {
	if w.destroyed || !w.backend().Validate(w.id) {
		return ignored(ErrStale)
	}
	in := w.insets()
	w.setFrameRect(geom.RectFrom(w.frameRect.Origin(), in.Grow(w.clientRect.Size())))
	if w.maximized != MaximizeNone {
		w.setFrameRect(w.maximizedRect(w.maximized))
	}
	w.layout()
	w.syncDecorations()
	_ = w.backend().MoveResize(w.frame, w.FrameRect())
	w.applyLayout()
	w.decorate()
	if w.shaped {
		w.applyShape()
	}
	w.sendConfigureNotify()
	w.relabelMenu()
	return applied()
}

// moveFrame repositions the frame without notifying the client.
func (w *Window) moveFrame(p geom.Point) {
	w.setFrameRect(w.frameRect.MoveTo(p))
	if w.frame != platform.None {
		_ = w.backend().Move(w.frame, p)
	}
}
