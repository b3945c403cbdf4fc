package wm

import (
	"github.com/1broseidon/framewm/internal/geom"
	"github.com/1broseidon/framewm/internal/menu"
)

const (
	actionShade = iota
	actionIconify
	actionMaximize
	actionRaise
	actionLower
	actionStick
	actionClose

	// actionSendTo is offset by the target workspace id.
	actionSendTo = 100
)

func (w *Window) menuItems() []menu.Item {
	items := []menu.Item{
		{Label: "Shade", Value: actionShade, Disabled: !w.decor.Titlebar},
		{Label: "Iconify", Value: actionIconify, Disabled: !w.funcs.Iconify},
		{Label: "Maximize", Value: actionMaximize, Disabled: !w.funcs.Maximize},
		{Label: "Raise", Value: actionRaise},
		{Label: "Lower", Value: actionLower},
		{Label: "Stick", Value: actionStick},
	}
	for _, ws := range w.screen.workspaces {
		if ws.id != w.workspace {
			items = append(items, menu.Item{Label: "Send to " + ws.name, Value: actionSendTo + ws.id})
		}
	}
	return append(items, menu.Item{Label: "Close", Value: actionClose, Disabled: !w.funcs.Close})
}

// showMenu opens the window menu at p.
func (w *Window) showMenu(p geom.Point) {
	if !w.decor.Menu {
		return
	}
	if w.menu == nil {
		w.menu = menu.New(w.backend(), menu.KindWindow, w.title, w.screen.opts.Menu, w.menuSelected)
	}
	w.menu.SetItems(w.menuItems())
	if err := w.menu.Show(p); err != nil {
		w.log.Debug("show window menu", "err", err)
		return
	}
	w.screen.router.OpenMenu(w.menu)
}

func (w *Window) relabelMenu() {
	if w.menu != nil {
		w.menu.SetTitle(w.title)
	}
}

func (w *Window) menuSelected(it menu.Item) {
	if w.destroyed {
		return
	}
	switch v := it.Value; {
	case v == actionShade:
		w.Shade()
	case v == actionIconify:
		w.Iconify()
	case v == actionMaximize:
		w.Maximize(MaximizeFull)
	case v == actionRaise:
		w.raise()
	case v == actionLower:
		w.lower()
	case v == actionStick:
		w.Stick()
	case v == actionClose:
		w.Close()
	case v >= actionSendTo:
		w.screen.SendToWorkspace(w, v-actionSendTo)
	}
}
