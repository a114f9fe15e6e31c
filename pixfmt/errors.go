package pixfmt

import (
	"errors"
	"fmt"
)

// UnsupportedFormatError reports a format tag outside the known set, or an
// operation the format does not provide.
type UnsupportedFormatError struct {
	// Tag is the offending firmware tag or format name
	Tag string

	// Op is the operation that was refused, empty for lookups
	Op string
}

func (e *UnsupportedFormatError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("unsupported pixel format %q for %s", e.Tag, e.Op)
	}
	return fmt.Sprintf("unsupported pixel format %q", e.Tag)
}

// MalformedBitmapError reports a buffer whose length or pixel offsets do
// not agree with the declared geometry.
type MalformedBitmapError struct {
	Format Format
	Width  int
	Height int

	// X, Y locate the failing pixel; both are -1 for whole-buffer checks
	X, Y int

	// Need is the number of bytes required, Len the number available
	Need int
	Len  int

	Reason string
}

func (e *MalformedBitmapError) Error() string {
	if e.X < 0 {
		return fmt.Sprintf("malformed %s bitmap %dx%d: %s (need %d bytes, have %d)",
			e.Format, e.Width, e.Height, e.Reason, e.Need, e.Len)
	}
	return fmt.Sprintf("malformed %s bitmap %dx%d at (%d,%d): %s (need %d bytes, have %d)",
		e.Format, e.Width, e.Height, e.X, e.Y, e.Reason, e.Need, e.Len)
}

// IsUnsupportedFormat returns true if err wraps an UnsupportedFormatError.
func IsUnsupportedFormat(err error) bool {
	var e *UnsupportedFormatError
	return errors.As(err, &e)
}

// IsMalformedBitmap returns true if err wraps a MalformedBitmapError.
func IsMalformedBitmap(err error) bool {
	var e *MalformedBitmapError
	return errors.As(err, &e)
}
