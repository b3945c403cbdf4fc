package platform

import (
	"testing"

	"github.com/BurntSushi/xgb/xproto"

	"github.com/1broseidon/framewm/internal/geom"
)

func TestTranslateUnmap(t *testing.T) {
	own := translateUnmap(xproto.UnmapNotifyEvent{Event: 0x400001, Window: 0x400001})
	if own.Synthetic {
		t.Fatal("unmap reported to the window itself is not synthetic")
	}
	root := translateUnmap(xproto.UnmapNotifyEvent{Event: 0x1d5, Window: 0x400001})
	if !root.Synthetic || root.Window != 0x400001 {
		t.Fatalf("withdraw notice = %+v", root)
	}
}

func TestTranslateConfigureRequest(t *testing.T) {
	ev := translateConfigureRequest(xproto.ConfigureRequestEvent{
		Window:      0x400001,
		ValueMask:   xproto.ConfigWindowX | xproto.ConfigWindowWidth,
		X:           -5,
		Y:           10,
		Width:       300,
		Height:      200,
		BorderWidth: 1,
		StackMode:   xproto.StackModeAbove,
	})
	if ev.Rect != geom.NewRect(-5, 10, 300, 200) {
		t.Fatalf("rect = %+v", ev.Rect)
	}
	if ev.Mask != xproto.ConfigWindowX|xproto.ConfigWindowWidth || ev.BorderWidth != 1 || ev.StackMode != xproto.StackModeAbove {
		t.Fatalf("event = %+v", ev)
	}
}

func TestTranslateButton(t *testing.T) {
	ev := translateButton(xproto.ButtonReleaseEvent{
		Event:  0x400010,
		Detail: 3,
		State:  xproto.ModMask1,
		RootX:  500,
		RootY:  400,
		EventX: 12,
		EventY: 8,
		Time:   1234,
	})
	want := ButtonEvent{
		Window: 0x400010,
		Button: 3,
		State:  xproto.ModMask1,
		Root:   geom.Point{X: 500, Y: 400},
		Event:  geom.Point{X: 12, Y: 8},
		Time:   1234,
	}
	if ev != want {
		t.Fatalf("button = %+v, want %+v", ev, want)
	}
}
