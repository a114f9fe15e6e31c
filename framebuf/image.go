package framebuf

import (
	"image"
	"image/color"

	"sietool/pixfmt"
)

// Image is the canonical decoded form of a framebuffer: row-major ARGB
// pixels with no premultiplication.
type Image struct {
	Width  int
	Height int
	// Pix holds Width*Height pixels; (x, y) is at Pix[y*Width+x].
	Pix []pixfmt.ARGB
}

var _ image.Image = (*Image)(nil)

func NewImage(width, height int) *Image {
	width, height = max(width, 0), max(height, 0)
	return &Image{
		Width:  width,
		Height: height,
		Pix:    make([]pixfmt.ARGB, width*height),
	}
}

// FromImage copies any image into the canonical form, rebasing its
// bounds to the origin.
func FromImage(src image.Image) *Image {
	if img, ok := src.(*Image); ok {
		return img.Clone()
	}

	b := src.Bounds()
	img := NewImage(b.Dx(), b.Dy())
	for y := range img.Height {
		row := img.Row(y)
		for x := range row {
			row[x] = pixfmt.ARGBModel.Convert(src.At(b.Min.X+x, b.Min.Y+y)).(pixfmt.ARGB)
		}
	}
	return img
}

func (p *Image) ColorModel() color.Model { return pixfmt.ARGBModel }

func (p *Image) Bounds() image.Rectangle { return image.Rect(0, 0, p.Width, p.Height) }

func (p *Image) PixOffset(x, y int) int { return y*p.Width + x }

func (p *Image) At(x, y int) color.Color {
	return p.ARGBAt(x, y)
}

// ARGBAt returns the pixel at (x, y), or transparent black outside the image.
func (p *Image) ARGBAt(x, y int) pixfmt.ARGB {
	if !(image.Point{x, y}.In(p.Bounds())) {
		return 0
	}
	return p.Pix[p.PixOffset(x, y)]
}

func (p *Image) Set(x, y int, c color.Color) {
	p.SetARGB(x, y, pixfmt.ARGBModel.Convert(c).(pixfmt.ARGB))
}

func (p *Image) SetARGB(x, y int, c pixfmt.ARGB) {
	if !(image.Point{x, y}.In(p.Bounds())) {
		return
	}
	p.Pix[p.PixOffset(x, y)] = c
}

// Row returns the pixels of row y, sharing storage with p.
func (p *Image) Row(y int) []pixfmt.ARGB {
	return p.Pix[y*p.Width : (y+1)*p.Width]
}

func (p *Image) Clone() *Image {
	img := &Image{Width: p.Width, Height: p.Height}
	img.Pix = append(make([]pixfmt.ARGB, 0, len(p.Pix)), p.Pix...)
	return img
}

// NRGBA converts p to the standard library's non-premultiplied image type.
func (p *Image) NRGBA() *image.NRGBA {
	dst := image.NewNRGBA(p.Bounds())
	for i, c := range p.Pix {
		o := i * 4
		dst.Pix[o] = c.R()
		dst.Pix[o+1] = c.G()
		dst.Pix[o+2] = c.B()
		dst.Pix[o+3] = c.A()
	}
	return dst
}
