// Package framebuf turns raw display dumps into canonical images and back,
// and applies the display quirks some phone models need.
package framebuf

import (
	"sietool/pixfmt"
)

// RawBitmap is a display dump exactly as the phone reported it. Width and
// Height describe the controller buffer; DisplayWidth and DisplayHeight the
// visible screen inside it. A zero display dimension means the phone did
// not report one.
type RawBitmap struct {
	Format        pixfmt.Format
	Width         int
	Height        int
	DisplayWidth  int
	DisplayHeight int
	Buf           []byte
}

// Validate checks the buffer length and display geometry against the
// declared format and size.
func (r RawBitmap) Validate() error {
	if !r.Format.Valid() {
		return &pixfmt.UnsupportedFormatError{Tag: r.Format.String()}
	}

	malformed := func(reason string, need int) error {
		return &pixfmt.MalformedBitmapError{
			Format: r.Format, Width: r.Width, Height: r.Height, X: -1, Y: -1,
			Need: need, Len: len(r.Buf), Reason: reason,
		}
	}

	switch {
	case r.Width < 0 || r.Height < 0:
		return malformed("negative dimensions", 0)
	case r.DisplayWidth < 0 || r.DisplayWidth > r.Width:
		return malformed("display width exceeds buffer width", 0)
	case r.DisplayHeight < 0 || r.DisplayHeight > r.Height:
		return malformed("display height exceeds buffer height", 0)
	}

	need, ok := r.Format.SizeChecked(r.Width, r.Height)
	if !ok {
		return malformed("dimensions too large", 0)
	}
	if len(r.Buf) != need {
		return malformed("buffer size mismatch", need)
	}
	return nil
}

// Display returns the visible screen size, defaulting unreported
// dimensions to the full buffer.
func (r RawBitmap) Display() (width, height int) {
	width, height = r.DisplayWidth, r.DisplayHeight
	if width == 0 {
		width = r.Width
	}
	if height == 0 {
		height = r.Height
	}
	return width, height
}
