package hotkeys

import (
	"slices"
	"testing"

	"github.com/BurntSushi/xgb/xproto"

	"github.com/1broseidon/framewm/internal/config"
)

func TestBound_SkipsEmpty(t *testing.T) {
	b := config.Bindings{Close: "Mod4-q", Raise: "Mod4-Prior"}
	got := bound(b)
	want := []string{"close", "raise"}
	if !slices.Equal(got, want) {
		t.Fatalf("bound = %v, want %v", got, want)
	}
}

func TestBound_Defaults(t *testing.T) {
	got := bound(config.DefaultConfig().Bindings)
	if !slices.Equal(got, config.BindingNames) {
		t.Fatalf("bound = %v, want every binding", got)
	}
}

func TestIgnoreMasks(t *testing.T) {
	caps := uint16(xproto.ModMaskLock)
	num := uint16(xproto.ModMask2)
	scroll := uint16(xproto.ModMask5)

	tests := []struct {
		name        string
		num, scroll uint16
		want        []uint16
	}{
		{"caps only", 0, 0, []uint16{0, caps}},
		{"caps and num", num, 0, []uint16{0, caps, num, caps | num}},
		{"num equals caps", caps, 0, []uint16{0, caps}},
		{"all three", num, scroll, []uint16{
			0, caps, num, scroll, caps | num, caps | scroll, num | scroll, caps | num | scroll,
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ignoreMasks(caps, tt.num, tt.scroll)
			slices.Sort(got)
			want := slices.Clone(tt.want)
			slices.Sort(want)
			if !slices.Equal(got, want) {
				t.Fatalf("ignoreMasks = %v, want %v", got, want)
			}
		})
	}
}
