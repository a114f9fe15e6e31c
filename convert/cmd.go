// Package convert implements the command that turns ordinary images into
// frame buffer captures for a phone display.
package convert

import (
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"sietool/capture"
	"sietool/framebuf"
	"sietool/palette"
	"sietool/pixfmt"
)

type CLICmd struct {
	Input       string      `arg:"" help:"Image to convert" type:"existingfile"`
	Output      string      `short:"o" help:"Capture file to write. Defaults to the input name with a .sie extension"`
	Type        string      `help:"Pixel format to encode" enum:"wb,bgr233,bgra4444,bgr565,bgr888,bgra8888,bgra8888p" default:"bgr565"`
	Width       int         `help:"Panel width, 0 keeps the image width" group:"resize"`
	Height      int         `help:"Panel height, 0 keeps the image height" group:"resize"`
	Crop        bool        `help:"Crop the image to the panel aspect ratio" default:"false" group:"resize"`
	Fill        string      `help:"When not cropping, letterbox onto this color (#RGB, #RGBA, #RRGGBB or #RRGGBBAA)" group:"resize"`
	Palette     string      `help:"RIFF PAL file to remap the image to before encoding" type:"existingfile" group:"palette"`
	Dither      bool        `help:"Dither to the palette, or to the native colors of wb and bgr233" default:"false" group:"palette"`
	Model       string      `help:"Phone model recorded in the capture"`
	Display     int         `short:"d" help:"Display index recorded in the capture (0-based)" default:"0"`
	Compression string      `help:"Frame buffer compression" enum:"zstd,none" default:"zstd"`
	FillColor   color.Color `kong:"-"`

	pixelFormat pixfmt.Format
	pal         color.Palette
}

func (c *CLICmd) Validate(kctx *kong.Context) error {
	var err error
	if c.pixelFormat, err = pixfmt.ParseFormat(c.Type); err != nil {
		return err
	}
	if _, err = pixfmt.Encoder(c.pixelFormat); err != nil {
		return err
	}

	switch {
	case c.Width < 0:
		return fmt.Errorf("invalid panel width: %d", c.Width)
	case c.Height < 0:
		return fmt.Errorf("invalid panel height: %d", c.Height)
	case c.Display < 0:
		return fmt.Errorf("invalid display index: %d", c.Display)
	}

	switch {
	case c.Palette != "":
		if c.pal, err = palette.ReadFile(c.Palette); err != nil {
			return err
		}
	case c.Dither:
		if c.pal, err = palette.ForFormat(c.pixelFormat); err != nil {
			return err
		}
		if c.pal == nil {
			return fmt.Errorf("%s has no native palette to dither to, pass --palette", c.pixelFormat)
		}
	}

	if !c.Crop && c.Fill != "" {
		if c.FillColor, err = parseHexToColor(c.Fill); err != nil {
			return err
		}
	}

	if c.Output == "" {
		c.Output = strings.TrimSuffix(c.Input, filepath.Ext(c.Input)) + capture.Ext
	}
	return nil
}

func (c *CLICmd) Run(opts framebuf.Options) error {
	logger := slog.Default().With("file", c.Input)

	imgFile, err := os.Open(c.Input)
	if err != nil {
		return fmt.Errorf("could not open image: %w", err)
	}
	src, imgType, err := image.Decode(imgFile)
	if closeErr := imgFile.Close(); closeErr != nil {
		logger.Error("could not close image", "error", closeErr)
	}
	if err != nil {
		return fmt.Errorf("could not decode image %q: %w", c.Input, err)
	}
	logger.Info("loaded image", "type", imgType, "width", src.Bounds().Dx(), "height", src.Bounds().Dy())

	src = resize(logger, src, c.Width, c.Height, c.Crop, c.FillColor)
	if c.pal != nil {
		src = remap(logger, src, c.pal, c.Dither)
	}

	raw, err := framebuf.EncodeWith(framebuf.FromImage(src), c.pixelFormat, opts)
	if err != nil {
		return fmt.Errorf("could not encode frame buffer: %w", err)
	}

	shot := capture.Capture{
		Model:   c.Model,
		Display: c.Display,
		Taken:   time.Now(),
		Bitmap:  raw,
	}
	if err = writeCapture(c.Output, shot, c.Compression); err != nil {
		return err
	}
	logger.Info("wrote capture", "to", c.Output, "format", raw.Format, "bytes", len(raw.Buf))
	return nil
}

func writeCapture(dest string, shot capture.Capture, compression string) (err error) {
	outFile, err := os.CreateTemp(filepath.Dir(dest), filepath.Base(dest)+".*")
	if err != nil {
		return fmt.Errorf("could not create temporary destination %q: %w", dest, err)
	}
	defer func() {
		if err != nil {
			_ = outFile.Close()
			_ = os.Remove(outFile.Name())
		}
	}()

	if err = capture.Write(outFile, shot, compression); err != nil {
		return fmt.Errorf("could not write capture %q: %w", dest, err)
	}
	if err = outFile.Sync(); err != nil {
		return fmt.Errorf("could not flush temporary destination %q: %w", dest, err)
	}
	if err = outFile.Close(); err != nil {
		return fmt.Errorf("could not close temporary destination %q: %w", dest, err)
	}
	if err = os.Rename(outFile.Name(), dest); err != nil {
		return fmt.Errorf("could not rename destination file %q: %w", dest, err)
	}
	return nil
}

func parseHexToColor(s string) (color.Color, error) {
	hex, ok := strings.CutPrefix(s, "#")
	if !ok {
		return nil, fmt.Errorf("invalid fill color %q, should start with #", s)
	}

	var digits []uint8
	for _, r := range hex {
		var d uint8
		switch {
		case r >= '0' && r <= '9':
			d = uint8(r - '0')
		case r >= 'a' && r <= 'f':
			d = uint8(r-'a') + 10
		case r >= 'A' && r <= 'F':
			d = uint8(r-'A') + 10
		default:
			return nil, fmt.Errorf("invalid hex digit %q in fill color %q", r, s)
		}
		digits = append(digits, d)
	}

	c := color.NRGBA{A: 0xFF}
	switch len(digits) {
	case 3, 4:
		c.R, c.G, c.B = digits[0]*0x11, digits[1]*0x11, digits[2]*0x11
		if len(digits) == 4 {
			c.A = digits[3] * 0x11
		}
	case 6, 8:
		c.R, c.G, c.B = digits[0]<<4|digits[1], digits[2]<<4|digits[3], digits[4]<<4|digits[5]
		if len(digits) == 8 {
			c.A = digits[6]<<4 | digits[7]
		}
	default:
		return nil, fmt.Errorf("invalid fill color %q, should be #RGB, #RGBA, #RRGGBB or #RRGGBBAA", s)
	}

	return c, nil
}
