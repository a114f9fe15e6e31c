// Package palette reads and writes RIFF PAL files and provides the fixed
// palettes of the indexed pixel formats.
package palette

import (
	"fmt"
	"image/color"
	"log/slog"
	"os"
	"path/filepath"

	"sietool/pixfmt"
)

// Indexed332 returns the 256 colors a bgr233 display can show, in index
// order, exactly as the codec decodes them.
func Indexed332() (color.Palette, error) {
	dec, err := pixfmt.Decoder(pixfmt.Indexed332)
	if err != nil {
		return nil, err
	}

	buf := make([]byte, 256)
	for i := range buf {
		buf[i] = byte(i)
	}

	pal := make(color.Palette, len(buf))
	for i := range buf {
		c, err := dec(buf, len(buf), 1, i, 0)
		if err != nil {
			return nil, err
		}
		pal[i] = c
	}
	return pal, nil
}

// ForFormat returns the native palette of f, or nil when f stores true
// color and has none.
func ForFormat(f pixfmt.Format) (color.Palette, error) {
	switch f {
	case pixfmt.Mono1:
		return color.Palette{pixfmt.Black, pixfmt.White}, nil
	case pixfmt.Indexed332:
		return Indexed332()
	}
	return nil, nil
}

// ReadFile loads the first palette of a RIFF PAL file.
func ReadFile(name string) (color.Palette, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("could not open palette %q: %w", name, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			slog.Error("could not close palette", "file", name, "error", closeErr)
		}
	}()

	pals, err := ReadFrom(f)
	if err != nil {
		return nil, fmt.Errorf("could not load palette %q: %w", name, err)
	}
	if len(pals) == 0 {
		return nil, fmt.Errorf("palette file %q holds no palettes", name)
	}
	return pals[0], nil
}

// WriteFile atomically replaces name with a RIFF PAL file holding pal.
func WriteFile(name string, pal color.Palette) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(name), filepath.Base(name))
	if err != nil {
		return fmt.Errorf("could not create temporary palette %q: %w", name, err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = WriteTo(tmp, []color.Palette{pal}); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("could not write palette %q: %w", name, err)
	}
	if err = tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("could not flush palette %q: %w", name, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("could not close palette %q: %w", name, err)
	}
	if err = os.Rename(tmp.Name(), name); err != nil {
		return fmt.Errorf("could not rename palette %q: %w", name, err)
	}
	return nil
}
