package convert

import (
	"image"
	"image/color"
	"log/slog"

	"golang.org/x/image/draw"
)

// layout places a source of size src onto a width x height panel. A zero
// panel dimension keeps the source one. It returns the canvas to allocate,
// the part of the canvas the image lands on and the part of the source
// that is used.
func layout(src image.Rectangle, width, height int, crop, fill bool) (canvas, dst, used image.Rectangle) {
	sw, sh := src.Dx(), src.Dy()
	if width == 0 {
		width = sw
	}
	if height == 0 {
		height = sh
	}
	canvas = image.Rect(0, 0, width, height)
	dst, used = canvas, src

	// compare sw/sh against width/height without dividing
	wide, tall := sw*height, width*sh
	switch {
	case wide == tall || sw == 0 || sh == 0:
	case crop && wide > tall:
		keep := roundDiv(sh*width, height)
		used.Min.X += (sw - keep) / 2
		used.Max.X = used.Min.X + keep
	case crop:
		keep := roundDiv(sw*height, width)
		used.Min.Y += (sh - keep) / 2
		used.Max.Y = used.Min.Y + keep
	case wide > tall:
		h := roundDiv(width*sh, sw)
		if fill {
			dst.Min.Y = (height - h) / 2
			dst.Max.Y = dst.Min.Y + h
		} else {
			canvas.Max.Y, dst.Max.Y = h, h
		}
	default:
		w := roundDiv(height*sw, sh)
		if fill {
			dst.Min.X = (width - w) / 2
			dst.Max.X = dst.Min.X + w
		} else {
			canvas.Max.X, dst.Max.X = w, w
		}
	}
	return canvas, dst, used
}

func roundDiv(a, b int) int {
	return (2*a + b) / (2 * b)
}

// resize scales img onto the panel. Without crop the whole image is kept,
// letterboxed onto fillColor when one is given.
func resize(logger *slog.Logger, img image.Image, width, height int, crop bool, fillColor color.Color) image.Image {
	canvas, dst, used := layout(img.Bounds(), width, height, crop, fillColor != nil)
	if canvas.Size() == img.Bounds().Size() && dst == canvas && used == img.Bounds() {
		return img
	}

	logger.Info("resizing", "width", dst.Dx(), "height", dst.Dy(),
		"canvasWidth", canvas.Dx(), "canvasHeight", canvas.Dy())
	out := image.NewNRGBA(canvas)
	if fillColor != nil {
		draw.Draw(out, canvas, image.NewUniform(fillColor), image.Point{}, draw.Src)
	}
	draw.CatmullRom.Scale(out, dst, img, used, draw.Over, nil)
	return out
}
