package framebuf

import (
	"strings"

	"sietool/pixfmt"
)

// Quirks selects the corrections applied after a generic decode.
type Quirks uint8

const (
	// QuirkMask treats the alpha byte as a camera overlay mask (EL71).
	QuirkMask Quirks = 1 << iota
	// QuirkCrop cuts the visible display out of a padded buffer (C72).
	QuirkCrop

	NoQuirks Quirks = 0
)

// MaskKey is the mask byte marking overlay pixels.
const MaskKey = 0x8D

// MaskSentinel replaces every overlay pixel: opaque pure green.
const MaskSentinel pixfmt.ARGB = 0xFF00FF00

var quirkNames = []struct {
	q    Quirks
	name string
}{
	{QuirkMask, "mask"},
	{QuirkCrop, "crop"},
}

func (q Quirks) Has(o Quirks) bool { return q&o == o }

func (q Quirks) String() string {
	var names []string
	for _, qn := range quirkNames {
		if q.Has(qn.q) {
			names = append(names, qn.name)
		}
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, "|")
}

// ParseQuirk maps a quirk name as used in device profiles to its flag.
func ParseQuirk(name string) (Quirks, bool) {
	for _, qn := range quirkNames {
		if qn.name == name {
			return qn.q, true
		}
	}
	return NoQuirks, false
}

// DefaultQuirks returns the corrections a capture in format f needs when
// nothing is known about the device.
func DefaultQuirks(f pixfmt.Format) Quirks {
	q := QuirkCrop
	if f == pixfmt.Packed8888Mask {
		q |= QuirkMask
	}
	return q
}

// ApplyMask rewrites img in place, reading each pixel's alpha as a mask
// byte. Overlay pixels become MaskSentinel, the rest are made opaque.
func ApplyMask(img *Image) {
	for i, c := range img.Pix {
		if c.A() == MaskKey {
			img.Pix[i] = MaskSentinel
		} else {
			img.Pix[i] = c.Opaque()
		}
	}
}

// CropOffset returns the top-left corner of a displayWidth x displayHeight
// window centred in a width x height buffer, rounding half up.
func CropOffset(width, height, displayWidth, displayHeight int) (x0, y0 int) {
	return (width - displayWidth + 1) / 2, (height - displayHeight + 1) / 2
}

// CropDisplay returns the centred displayWidth x displayHeight window of
// img. When the sizes already match, img itself is returned.
func CropDisplay(img *Image, displayWidth, displayHeight int) *Image {
	displayWidth = min(max(displayWidth, 0), img.Width)
	displayHeight = min(max(displayHeight, 0), img.Height)
	if displayWidth == img.Width && displayHeight == img.Height {
		return img
	}

	x0, y0 := CropOffset(img.Width, img.Height, displayWidth, displayHeight)
	dst := NewImage(displayWidth, displayHeight)
	for y := range displayHeight {
		src := img.Row(y0 + y)
		copy(dst.Row(y), src[x0:])
	}
	return dst
}

// Develop decodes raw and applies the selected quirks, mask first. The
// mask quirk only applies to Packed8888Mask captures.
func Develop(raw RawBitmap, quirks Quirks, opts Options) (*Image, error) {
	img, err := DecodeWith(raw, opts)
	if err != nil {
		return nil, err
	}

	if quirks.Has(QuirkMask) && raw.Format == pixfmt.Packed8888Mask {
		ApplyMask(img)
	}
	if quirks.Has(QuirkCrop) {
		dw, dh := raw.Display()
		img = CropDisplay(img, dw, dh)
	}
	return img, nil
}
