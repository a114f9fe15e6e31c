// Package pixfmt describes the raw pixel encodings found in Siemens phone
// display controllers and converts single pixels to and from ARGB.
package pixfmt

import (
	"fmt"
	"math"
	"math/bits"
)

// Format is one of the raw framebuffer encodings a phone reports with a
// display dump.
type Format uint8

const (
	// Mono1 packs 1 bit per pixel, MSB first, rows padded to a byte.
	Mono1 Format = iota
	// Indexed332 stores one RRRGGGBB byte per pixel.
	Indexed332
	// Packed4444 stores a little-endian ARGB 4:4:4:4 word per pixel.
	Packed4444
	// Packed565 stores a little-endian RGB 5:6:5 word per pixel.
	Packed565
	// Packed888 stores B, G, R bytes per pixel.
	Packed888
	// Packed8888 stores a little-endian ARGB word (B, G, R, A bytes).
	Packed8888
	// Packed8888P is Packed8888 with alpha stored as a 0..100 percentage.
	Packed8888P
	// Packed8888Mask is Packed8888 whose alpha byte is an overlay mask.
	Packed8888Mask

	formatCount
)

var tags = [...]string{
	Mono1:          "wb",
	Indexed332:     "bgr233",
	Packed4444:     "bgra4444",
	Packed565:      "bgr565",
	Packed888:      "bgr888",
	Packed8888:     "bgra8888",
	Packed8888P:    "bgra8888p",
	Packed8888Mask: "bgra8888mask",
}

var bitsPerPixel = [...]int{
	Mono1:          1,
	Indexed332:     8,
	Packed4444:     16,
	Packed565:      16,
	Packed888:      24,
	Packed8888:     32,
	Packed8888P:    32,
	Packed8888Mask: 32,
}

// both tables must cover every format
var (
	_ [len(tags) - int(formatCount)]struct{}
	_ [int(formatCount) - len(tags)]struct{}
	_ [len(bitsPerPixel) - int(formatCount)]struct{}
	_ [int(formatCount) - len(bitsPerPixel)]struct{}
)

// Formats returns every supported format in declaration order.
func Formats() []Format {
	res := make([]Format, 0, formatCount)
	for f := range formatCount {
		res = append(res, f)
	}
	return res
}

// ParseFormat maps a firmware tag such as "bgr565" to its Format.
func ParseFormat(tag string) (Format, error) {
	for f, t := range tags {
		if t == tag {
			return Format(f), nil
		}
	}
	return 0, &UnsupportedFormatError{Tag: tag}
}

// Valid reports whether f is inside the closed set of formats.
func (f Format) Valid() bool {
	return f < formatCount
}

func (f Format) String() string {
	if !f.Valid() {
		return fmt.Sprintf("format(%d)", uint8(f))
	}
	return tags[f]
}

// BitsPerPixel returns the storage width of one pixel, or 0 for an invalid
// format.
func (f Format) BitsPerPixel() int {
	if !f.Valid() {
		return 0
	}
	return bitsPerPixel[f]
}

// BytesPerPixel returns 0 for Mono1, which is not byte aligned.
func (f Format) BytesPerPixel() int {
	return f.BitsPerPixel() / 8
}

func (f Format) HasAlpha() bool {
	switch f {
	case Packed4444, Packed8888, Packed8888P, Packed8888Mask:
		return true
	}
	return false
}

// RowBytes returns the number of bytes one row of width pixels occupies.
func (f Format) RowBytes(width int) int {
	if width <= 0 {
		return 0
	}
	if f == Mono1 {
		return (width + 7) / 8
	}
	return width * f.BytesPerPixel()
}

// Size returns the exact buffer length a width x height bitmap must have.
func (f Format) Size(width, height int) int {
	if height <= 0 {
		return 0
	}
	return f.RowBytes(width) * height
}

// MaxDimension is the largest width or height a phone can report.
const MaxDimension = math.MaxUint32

// SizeChecked is Size for untrusted geometry. It reports false when a
// dimension is out of range or when the buffer, or the decoded image at
// four bytes per pixel, would not fit in an int.
func (f Format) SizeChecked(width, height int) (int, bool) {
	if width < 0 || height < 0 || uint64(width) > MaxDimension || uint64(height) > MaxDimension {
		return 0, false
	}
	hi, pixels := bits.Mul64(uint64(width), uint64(height))
	if hi != 0 || pixels > math.MaxInt/4 {
		return 0, false
	}
	return f.Size(width, height), true
}
