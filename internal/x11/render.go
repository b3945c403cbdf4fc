package x11

import (
	"fmt"
	"image"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/xgraphics"
)

// Bevel styles for Paint.
const (
	BevelNone = iota
	BevelRaised
	BevelSunken
)

// Paint describes a texture in server-independent terms. Colors are
// 0xRRGGBB.
type Paint struct {
	Color uint32
	Bevel int

	// Gradient fades vertically from Color to ColorTo.
	Gradient bool
	ColorTo  uint32
}

// Renderer keeps the xgraphics images backing rendered pixmaps so they
// can be freed.
type Renderer struct {
	conn   *Connection
	images map[xproto.Pixmap]*xgraphics.Image
}

func NewRenderer(conn *Connection) *Renderer {
	return &Renderer{conn: conn, images: make(map[xproto.Pixmap]*xgraphics.Image)}
}

// Render paints p into a new server pixmap of the given size.
func (r *Renderer) Render(width, height int, p Paint) (xproto.Pixmap, error) {
	if width <= 0 || height <= 0 {
		return 0, fmt.Errorf("render: empty size %dx%d", width, height)
	}
	img := xgraphics.New(r.conn.XUtil, image.Rect(0, 0, width, height))
	fill(img, width, height, p)
	if err := img.CreatePixmap(); err != nil {
		img.Destroy()
		return 0, fmt.Errorf("render: create pixmap: %w", err)
	}
	img.XDraw()
	r.images[img.Pixmap] = img
	return img.Pixmap, nil
}

// Release frees a pixmap returned by Render. Unknown pixmaps are ignored.
func (r *Renderer) Release(pix xproto.Pixmap) {
	img, ok := r.images[pix]
	if !ok {
		return
	}
	delete(r.images, pix)
	img.Destroy()
}

// Live is the number of pixmaps not yet released.
func (r *Renderer) Live() int { return len(r.images) }

func fill(img *xgraphics.Image, width, height int, p Paint) {
	for y := 0; y < height; y++ {
		c := p.Color
		if p.Gradient {
			c = blend(p.Color, p.ColorTo, y, height)
		}
		px := bgra(c)
		for x := 0; x < width; x++ {
			img.SetBGRA(x, y, px)
		}
	}
	if p.Bevel == BevelNone || width < 2 || height < 2 {
		return
	}
	light, dark := bgra(lighten(p.Color)), bgra(darken(p.Color))
	if p.Bevel == BevelSunken {
		light, dark = dark, light
	}
	for x := 0; x < width; x++ {
		img.SetBGRA(x, 0, light)
		img.SetBGRA(x, height-1, dark)
	}
	for y := 0; y < height; y++ {
		img.SetBGRA(0, y, light)
		img.SetBGRA(width-1, y, dark)
	}
}

func bgra(c uint32) xgraphics.BGRA {
	return xgraphics.BGRA{B: uint8(c), G: uint8(c >> 8), R: uint8(c >> 16), A: 0xff}
}

// blend returns the color at step i of n between from and to.
func blend(from, to uint32, i, n int) uint32 {
	if n <= 1 {
		return from
	}
	var out uint32
	for shift := 0; shift <= 16; shift += 8 {
		a, b := int(from>>shift)&0xff, int(to>>shift)&0xff
		out |= uint32(a+(b-a)*i/(n-1)) << shift
	}
	return out
}

func lighten(c uint32) uint32 {
	var out uint32
	for shift := 0; shift <= 16; shift += 8 {
		ch := int(c>>shift) & 0xff
		ch += ch / 2
		out |= uint32(min(ch, 0xff)) << shift
	}
	return out
}

func darken(c uint32) uint32 {
	var out uint32
	for shift := 0; shift <= 16; shift += 8 {
		ch := int(c>>shift) & 0xff
		out |= uint32(ch*3/4) << shift
	}
	return out
}
