package convert

import (
	"image"
	"image/color"
	"log/slog"

	"golang.org/x/image/draw"
)

// remap maps every pixel of img to its nearest color in pal, spreading the
// quantization error over the neighbours when dither is set.
func remap(logger *slog.Logger, img image.Image, pal color.Palette, dither bool) *image.Paletted {
	logger.Info("applying palette", "colors", len(pal), "dither", dither)
	sr := img.Bounds()
	dr := image.Rect(0, 0, sr.Dx(), sr.Dy())
	dest := image.NewPaletted(dr, pal)

	if dither {
		draw.FloydSteinberg.Draw(dest, dr, img, sr.Min)
	} else {
		draw.Draw(dest, dr, img, sr.Min, draw.Src)
	}
	return dest
}
