package pixfmt

import "image/color"

// ARGB is a non-premultiplied 32-bit color with alpha in the top byte.
type ARGB uint32

const (
	Black ARGB = 0xFF000000
	White ARGB = 0xFFFFFFFF
)

func NewARGB(a, r, g, b uint8) ARGB {
	return ARGB(uint32(a)<<24 | uint32(r)<<16 | uint32(g)<<8 | uint32(b))
}

func (c ARGB) A() uint8 { return uint8(c >> 24) }
func (c ARGB) R() uint8 { return uint8(c >> 16) }
func (c ARGB) G() uint8 { return uint8(c >> 8) }
func (c ARGB) B() uint8 { return uint8(c) }

// Opaque returns c with alpha forced to 0xFF.
func (c ARGB) Opaque() ARGB { return c | 0xFF000000 }

// NRGBA returns the same channels as a color.NRGBA.
func (c ARGB) NRGBA() color.NRGBA {
	return color.NRGBA{R: c.R(), G: c.G(), B: c.B(), A: c.A()}
}

// RGBA implements color.Color, premultiplying like color.NRGBA does.
func (c ARGB) RGBA() (r, g, b, a uint32) {
	return c.NRGBA().RGBA()
}

// ARGBModel converts any color to ARGB.
var ARGBModel = color.ModelFunc(argbConvert)

func argbConvert(c color.Color) color.Color {
	if argb, ok := c.(ARGB); ok {
		return argb
	}
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return NewARGB(n.A, n.R, n.G, n.B)
}
