package wm

import (
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1broseidon/framewm/internal/config"
	"github.com/1broseidon/framewm/internal/geom"
	"github.com/1broseidon/framewm/internal/platform"
)

func frames(ws []*Window) []platform.WindowID {
	out := make([]platform.WindowID, 0, len(ws))
	for _, w := range ws {
		out = append(out, w.Frame())
	}
	return out
}

func sloppy(o *Options) {
	o.Focus.Model = config.FocusSloppy
}

func TestFocusTransfer_OnClose(t *testing.T) {
	h := newHarness(t)
	w1 := h.open(geom.NewRect(0, 0, 100, 100))
	w2 := h.open(geom.NewRect(0, 0, 100, 100))
	w3 := h.open(geom.NewRect(0, 0, 100, 100))
	require.Same(t, w3, h.m.Focused())

	h.f.clients[w3.ID()].gone = true
	h.m.DestroyNotify(platform.DestroyNotifyEvent{Window: w3.ID()})

	assert.Same(t, w2, h.m.Focused())
	assert.Equal(t, w2.ID(), h.f.focus)
	assert.True(t, w2.Focused())
	assert.False(t, w1.Focused())
	ws := h.m.Screen().CurrentWorkspace()
	assert.Equal(t, []*Window{w1, w2}, ws.Windows())
	assert.Equal(t, 1, w2.Number())
	checkWorkspaces(t, h.m.Screen())
}

func TestFocusTransfer_ToParent(t *testing.T) {
	h := newHarness(t)
	parent := h.open(geom.NewRect(0, 0, 300, 300))
	other := h.open(geom.NewRect(0, 0, 100, 100))
	dialog := h.open(geom.NewRect(50, 50, 100, 100), transientFor(parent))
	require.Same(t, dialog, h.m.Focused())
	require.Same(t, other, h.m.Screen().CurrentWorkspace().Stacking()[2])

	h.m.DestroyNotify(platform.DestroyNotifyEvent{Window: dialog.ID()})
	assert.Same(t, parent, h.m.Focused())
	assert.Empty(t, parent.Transients())
}

func TestFocusTransfer_SloppyFocusesNothing(t *testing.T) {
	h := newHarness(t, sloppy)
	h.open(geom.NewRect(0, 0, 100, 100))
	w2 := h.open(geom.NewRect(0, 0, 100, 100))

	h.m.DestroyNotify(platform.DestroyNotifyEvent{Window: w2.ID()})
	assert.Nil(t, h.m.Focused())
	assert.Equal(t, fakeRoot, h.f.focus)
}

func TestStacking_TransientsStayAbove(t *testing.T) {
	h := newHarness(t)
	ws := h.m.Screen().CurrentWorkspace()
	a := h.open(geom.NewRect(0, 0, 300, 300))
	b := h.open(geom.NewRect(0, 0, 300, 300))
	ta := h.open(geom.NewRect(20, 20, 100, 100), transientFor(a))

	assert.Equal(t, []*Window{ta, a, b}, ws.Stacking(), "raising a transient raises its parent")

	restacks := len(h.f.restacks)
	ws.RaiseWindow(b)
	assert.Equal(t, []*Window{b, ta, a}, ws.Stacking())
	assert.Len(t, h.f.restacks, restacks+1, "one restack per raise")
	assert.Equal(t, frames(ws.Stacking()), h.f.restacks[len(h.f.restacks)-1])

	ws.RaiseWindow(a)
	assert.Equal(t, []*Window{ta, a, b}, ws.Stacking())
	assert.Equal(t, frames(ws.Stacking()), h.f.restacks[len(h.f.restacks)-1])

	ws.LowerWindow(a)
	assert.Equal(t, []*Window{b, ta, a}, ws.Stacking())
	assert.Equal(t, frames(ws.Stacking()), h.f.restacks[len(h.f.restacks)-1])
	checkWorkspaces(t, h.m.Screen())
}

func TestStacking_NestedTransients(t *testing.T) {
	h := newHarness(t)
	ws := h.m.Screen().CurrentWorkspace()
	root := h.open(geom.NewRect(0, 0, 300, 300))
	child := h.open(geom.NewRect(10, 10, 200, 200), transientFor(root))
	grandchild := h.open(geom.NewRect(20, 20, 100, 100), transientFor(child))
	other := h.open(geom.NewRect(0, 0, 100, 100))
	require.Same(t, other, ws.Stacking()[0])

	ws.RaiseWindow(root)
	stack := ws.Stacking()
	assert.Less(t, slices.Index(stack, grandchild), slices.Index(stack, child))
	assert.Less(t, slices.Index(stack, child), slices.Index(stack, root))
	assert.Same(t, other, stack[3])
}

func TestTransients_AreASet(t *testing.T) {
	h := newHarness(t)
	parent := h.open(geom.NewRect(0, 0, 300, 300))
	t1 := h.open(geom.NewRect(10, 10, 100, 100), transientFor(parent))
	t2 := h.open(geom.NewRect(20, 20, 100, 100), transientFor(parent))

	assert.ElementsMatch(t, []*Window{t1, t2}, parent.Transients())
	assert.False(t, t1.Decorations().Maximize, "transients cannot maximize")
}

func TestIconify_CascadesThroughGroup(t *testing.T) {
	h := newHarness(t)
	scr := h.m.Screen()
	ws := scr.CurrentWorkspace()
	parent := h.open(geom.NewRect(0, 0, 300, 300))
	dialog := h.open(geom.NewRect(50, 50, 100, 100), transientFor(parent))
	bystander := h.open(geom.NewRect(0, 0, 100, 100))

	require.True(t, dialog.Iconify().OK())
	assert.True(t, dialog.Iconic())
	assert.True(t, parent.Iconic(), "iconifying a transient iconifies its parent")
	assert.False(t, bystander.Iconic())
	assert.ElementsMatch(t, []*Window{parent, dialog}, scr.Icons())
	assert.Equal(t, []*Window{bystander}, ws.Windows())
	assert.Equal(t, platform.StateIconic, h.f.clients[parent.ID()].state)
	assert.False(t, h.f.mapped[parent.Frame()])
	checkWorkspaces(t, scr)

	assert.ErrorIs(t, parent.Iconify().Reason, ErrAlreadyIconic)

	require.True(t, parent.Deiconify(true, true).OK())
	assert.False(t, parent.Iconic())
	assert.False(t, dialog.Iconic(), "transients follow their parent back")
	assert.Empty(t, scr.Icons())
	assert.True(t, dialog.Visible())
	stack := ws.Stacking()
	assert.Less(t, slices.Index(stack, dialog), slices.Index(stack, parent))
	assert.Equal(t, platform.StateNormal, h.f.clients[dialog.ID()].state)
	checkWorkspaces(t, scr)
}

func TestDeiconify_TransientLeavesParentIconic(t *testing.T) {
	h := newHarness(t)
	scr := h.m.Screen()
	parent := h.open(geom.NewRect(0, 0, 300, 300))
	dialog := h.open(geom.NewRect(50, 50, 100, 100), transientFor(parent))
	require.True(t, parent.Iconify().OK())
	require.True(t, dialog.Iconic())

	require.True(t, dialog.Deiconify(true, true).OK())
	assert.False(t, dialog.Iconic())
	assert.True(t, dialog.Visible())
	assert.True(t, parent.Iconic())
	assert.False(t, h.f.mapped[parent.Frame()])
	assert.Equal(t, []*Window{parent}, scr.Icons())
	assert.Equal(t, []*Window{dialog}, scr.CurrentWorkspace().Windows())
	checkWorkspaces(t, scr)
}

func TestDeiconify_FromIconMenu(t *testing.T) {
	h := newHarness(t)
	scr := h.m.Screen()
	a := h.open(geom.NewRect(0, 0, 100, 100))
	b := h.open(geom.NewRect(0, 0, 100, 100))
	a.Iconify()
	b.Iconify()

	items := scr.IconMenu().Items()
	require.Len(t, items, 2)
	scr.iconSelected(items[1])
	assert.False(t, b.Iconic())
	assert.True(t, a.Iconic())
	assert.Same(t, b, h.m.Focused())
}

func TestChangeWorkspace(t *testing.T) {
	h := newHarness(t)
	scr := h.m.Screen()
	a := h.open(geom.NewRect(0, 0, 100, 100))

	require.True(t, scr.ChangeWorkspace(1).OK())
	assert.Equal(t, 1, scr.CurrentIndex())
	assert.False(t, a.Visible())
	assert.False(t, h.f.mapped[a.Frame()])
	assert.Equal(t, 0, a.Workspace())
	assert.Nil(t, h.m.Focused())

	assert.ErrorIs(t, scr.ChangeWorkspace(1).Reason, ErrCurrentWorkspace)
	assert.ErrorIs(t, scr.ChangeWorkspace(7).Reason, ErrNoSuchWorkspace)

	require.True(t, scr.ChangeWorkspace(0).OK())
	assert.True(t, a.Visible())
	assert.True(t, h.f.mapped[a.Frame()])
	assert.Same(t, a, h.m.Focused(), "last focused window gets focus back")
	checkWorkspaces(t, scr)
}

func TestChangeWorkspace_StuckWindowsFollow(t *testing.T) {
	h := newHarness(t)
	scr := h.m.Screen()
	plain := h.open(geom.NewRect(0, 0, 100, 100))
	sticky := h.open(geom.NewRect(0, 0, 100, 100))
	sticky.Stick()

	scr.ChangeWorkspace(2)
	assert.Equal(t, 2, sticky.Workspace())
	assert.True(t, sticky.Visible())
	assert.False(t, plain.Visible())
	assert.Same(t, sticky, h.m.Focused(), "stuck window keeps focus")
	ws2, _ := scr.Workspace(2)
	assert.Equal(t, []*Window{sticky}, ws2.Windows())
	checkWorkspaces(t, scr)
}

func TestSendToWorkspace(t *testing.T) {
	h := newHarness(t)
	scr := h.m.Screen()
	parent := h.open(geom.NewRect(0, 0, 300, 300))
	dialog := h.open(geom.NewRect(50, 50, 100, 100), transientFor(parent))

	require.True(t, scr.SendToWorkspace(parent, 2).OK())
	assert.Equal(t, 2, parent.Workspace())
	assert.Equal(t, 2, dialog.Workspace(), "transients follow")
	assert.False(t, parent.Visible())
	assert.False(t, dialog.Visible())
	assert.Zero(t, scr.CurrentWorkspace().Count())

	assert.ErrorIs(t, scr.SendToWorkspace(parent, 2).Reason, ErrUnchanged)
	assert.ErrorIs(t, scr.SendToWorkspace(parent, 9).Reason, ErrNoSuchWorkspace)

	a, err := platform.DecodeAttributes(h.f.clients[parent.ID()].record)
	require.NoError(t, err)
	assert.Equal(t, 2, a.Workspace)
	checkWorkspaces(t, scr)
}

func TestRemoveLastWorkspace(t *testing.T) {
	h := newHarness(t)
	scr := h.m.Screen()
	a := h.open(geom.NewRect(0, 0, 100, 100))
	scr.SendToWorkspace(a, 2)
	scr.ChangeWorkspace(2)

	require.True(t, scr.RemoveLastWorkspace().OK())
	assert.Len(t, scr.Workspaces(), 2)
	assert.Equal(t, 1, scr.CurrentIndex())
	assert.Equal(t, 1, a.Workspace())
	assert.True(t, a.Visible())
	checkWorkspaces(t, scr)

	require.True(t, scr.RemoveLastWorkspace().OK())
	assert.ErrorIs(t, scr.RemoveLastWorkspace().Reason, ErrLastWorkspace)
	assert.Equal(t, 0, a.Workspace())
}

func TestRemoveLastWorkspace_MovesToCurrent(t *testing.T) {
	h := newHarness(t)
	scr := h.m.Screen()
	a := h.open(geom.NewRect(0, 0, 100, 100))
	icon := h.open(geom.NewRect(0, 0, 100, 100))
	require.True(t, scr.SendToWorkspace(a, 2).OK())
	require.True(t, icon.Iconify().OK())
	require.True(t, scr.SendToWorkspace(icon, 2).OK())
	require.Equal(t, 0, scr.CurrentIndex())
	require.False(t, a.Visible())

	require.True(t, scr.RemoveLastWorkspace().OK())
	assert.Equal(t, 0, scr.CurrentIndex())
	assert.Equal(t, 0, a.Workspace())
	assert.True(t, a.Visible())
	assert.Contains(t, scr.CurrentWorkspace().Windows(), a)
	assert.Equal(t, 0, icon.Workspace())
	assert.True(t, icon.Iconic())
	assert.Contains(t, scr.Icons(), icon)

	rec, err := platform.DecodeAttributes(h.f.clients[icon.ID()].record)
	require.NoError(t, err)
	assert.Equal(t, 0, rec.Workspace)
	checkWorkspaces(t, scr)
}

func TestWithdraw_LeavesIconsAlone(t *testing.T) {
	h := newHarness(t)
	w := h.open(geom.NewRect(0, 0, 100, 100))
	require.True(t, w.Iconify().OK())

	assert.ErrorIs(t, w.Withdraw().Reason, ErrUnchanged)
	assert.True(t, w.Iconic())
	assert.Contains(t, h.m.Screen().Icons(), w)
	checkWorkspaces(t, h.m.Screen())
}

func TestAddWorkspace(t *testing.T) {
	h := newHarness(t)
	scr := h.m.Screen()

	ws := scr.AddWorkspace("four")
	assert.Equal(t, 3, ws.ID())
	assert.Equal(t, "four", ws.Name())
	assert.Len(t, scr.Workspaces(), 4)
	assert.True(t, scr.ChangeWorkspace(3).OK())
}

func TestWorkspaceMenu_SelectsWindow(t *testing.T) {
	h := newHarness(t)
	scr := h.m.Screen()
	a := h.open(geom.NewRect(0, 0, 100, 100))
	h.open(geom.NewRect(0, 0, 100, 100))
	ws0 := scr.CurrentWorkspace()
	scr.ChangeWorkspace(1)

	ws0.menuSelected(ws0.Menu().Items()[0])
	assert.Equal(t, 0, scr.CurrentIndex())
	assert.Same(t, a, h.m.Focused())
	assert.Same(t, a, ws0.Stacking()[0])
}

func TestAutoRaise(t *testing.T) {
	h := newHarness(t, sloppy, func(o *Options) { o.Focus.AutoRaise = true })
	ws := h.m.Screen().CurrentWorkspace()
	a := h.open(geom.NewRect(0, 0, 100, 100))
	b := h.open(geom.NewRect(0, 0, 100, 100))
	require.Equal(t, 1, h.clock.pending(), "focus loss cancels the previous timer")
	h.clock.fire()

	h.m.Enter(platform.CrossingEvent{Window: a.Frame(), Normal: true})
	assert.Same(t, a, h.m.Focused())
	assert.True(t, a.AutoRaisePending())
	assert.Same(t, b, ws.Stacking()[0], "not raised before the delay")

	h.clock.fire()
	assert.Same(t, a, ws.Stacking()[0])
	assert.False(t, a.AutoRaisePending())
}

func TestAutoRaise_CancelledByFocusChange(t *testing.T) {
	h := newHarness(t, sloppy, func(o *Options) { o.Focus.AutoRaise = true })
	ws := h.m.Screen().CurrentWorkspace()
	a := h.open(geom.NewRect(0, 0, 100, 100))
	b := h.open(geom.NewRect(0, 0, 100, 100))
	c := h.open(geom.NewRect(0, 0, 100, 100))
	h.clock.fire()

	h.m.Enter(platform.CrossingEvent{Window: a.Frame(), Normal: true})
	h.m.Enter(platform.CrossingEvent{Window: b.Frame(), Normal: true})
	assert.False(t, a.AutoRaisePending())
	h.clock.fire()
	assert.Equal(t, []*Window{b, c, a}, ws.Stacking())
}

func TestEnter_IgnoredUnderClickToFocus(t *testing.T) {
	h := newHarness(t)
	a := h.open(geom.NewRect(0, 0, 100, 100))
	b := h.open(geom.NewRect(0, 0, 100, 100))

	h.m.Enter(platform.CrossingEvent{Window: a.Frame(), Normal: true})
	assert.Same(t, b, h.m.Focused())
}

type recorder struct {
	added, removed, raised, lowered, configured int
	focus                                       []*Window
	workspaces                                  int
}

func (r *recorder) WindowAdded(*Workspace, *Window)   { r.added++ }
func (r *recorder) WindowRemoved(*Workspace, *Window) { r.removed++ }
func (r *recorder) WindowRaised(*Window)              { r.raised++ }
func (r *recorder) WindowLowered(*Window)             { r.lowered++ }
func (r *recorder) WindowConfigured(*Window)          { r.configured++ }
func (r *recorder) FocusChanged(w *Window)            { r.focus = append(r.focus, w) }
func (r *recorder) WorkspacesChanged(*Screen)         { r.workspaces++ }

func TestObserver(t *testing.T) {
	h := newHarness(t)
	rec := &recorder{}
	h.m.Screen().AddObserver(rec)

	w := h.open(geom.NewRect(0, 0, 100, 100))
	assert.Equal(t, 1, rec.added)
	assert.Positive(t, rec.raised)

	w.Configure(w.FrameRect().Translate(5, 5))
	assert.Equal(t, 1, rec.configured)

	w.lower()
	assert.Equal(t, 1, rec.lowered)

	h.m.DestroyNotify(platform.DestroyNotifyEvent{Window: w.ID()})
	assert.Equal(t, 1, rec.removed)
}

func TestObserver_FocusAndWorkspaces(t *testing.T) {
	h := newHarness(t)
	rec := &recorder{}
	h.m.Screen().AddObserver(rec)

	w := h.open(geom.NewRect(0, 0, 100, 100))
	require.NotEmpty(t, rec.focus)
	assert.Same(t, w, rec.focus[len(rec.focus)-1])

	require.True(t, h.m.Screen().ChangeWorkspace(1).OK())
	assert.Equal(t, 1, rec.workspaces)
	assert.Nil(t, rec.focus[len(rec.focus)-1])

	h.m.Screen().AddWorkspace("four")
	assert.Equal(t, 2, rec.workspaces)
	require.True(t, h.m.Screen().RemoveLastWorkspace().OK())
	assert.Equal(t, 3, rec.workspaces)
}

// checkMembership asserts every live window sits in exactly one place:
// the icon list or its workspace's window list.
func checkMembership(t *testing.T, s *Screen, live []*Window) {
	t.Helper()
	count := map[*Window]int{}
	for _, ws := range s.Workspaces() {
		for _, w := range ws.Windows() {
			count[w]++
		}
	}
	for _, w := range s.Icons() {
		count[w]++
	}
	require.Len(t, count, len(live))
	for _, w := range live {
		require.Equal(t, 1, count[w], "window 0x%x", uint32(w.ID()))
	}
}

func TestWorkspaces_RandomOperations(t *testing.T) {
	h := newHarness(t)
	scr := h.m.Screen()
	rng := rand.New(rand.NewPCG(7, 11))

	var live []*Window
	pick := func() *Window { return live[rng.IntN(len(live))] }

	for step := range 500 {
		op := rng.IntN(10)
		if len(live) == 0 {
			op = 0
		}
		switch op {
		case 0:
			r := geom.NewRect(rng.IntN(800), rng.IntN(600), 50+rng.IntN(300), 50+rng.IntN(300))
			var setup []func(*fakeClient)
			if len(live) > 0 && rng.IntN(3) == 0 {
				if p := pick(); !p.Iconic() && p.Workspace() == scr.CurrentIndex() {
					setup = append(setup, transientFor(p))
				}
			}
			live = append(live, h.open(r, setup...))
		case 1:
			w := pick()
			h.m.DestroyNotify(platform.DestroyNotifyEvent{Window: w.ID()})
			require.Nil(t, h.m.Window(w.ID()))
			live = slices.DeleteFunc(live, func(o *Window) bool { return o == w })
		case 2, 3:
			w := pick()
			ws, ok := scr.Workspace(w.Workspace())
			if !ok || w.Iconic() {
				continue
			}
			if op == 2 {
				ws.RaiseWindow(w)
			} else {
				ws.LowerWindow(w)
			}
		case 4:
			pick().Iconify()
		case 5:
			pick().Deiconify(rng.IntN(2) == 0, rng.IntN(2) == 0)
		case 6:
			scr.SendToWorkspace(pick(), rng.IntN(len(scr.Workspaces())))
		case 7:
			scr.ChangeWorkspace(rng.IntN(len(scr.Workspaces())))
		case 8:
			if len(scr.Workspaces()) < 5 {
				scr.AddWorkspace("extra")
			}
		case 9:
			if len(scr.Workspaces()) > 2 {
				require.True(t, scr.RemoveLastWorkspace().OK(), "step %d", step)
			}
		}
		checkWorkspaces(t, scr)
		checkMembership(t, scr, live)
		require.Less(t, scr.CurrentIndex(), len(scr.Workspaces()))
		for _, w := range live {
			require.Less(t, w.Workspace(), len(scr.Workspaces()), "step %d", step)
		}
		require.Zero(t, h.f.grabDepth, "server grab leaked at step %d", step)
	}
}
