// Package screenshot implements the command that develops captured display
// dumps into image files.
package screenshot

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/alecthomas/kong"

	"sietool/capture"
	"sietool/framebuf"
	"sietool/parallel"
	"sietool/pixfmt"
	"sietool/profile"
)

type CLICmd struct {
	Captures []string `arg:"" help:"Capture files (.sie), or bare frame buffer dumps with --raw" type:"existingfile"`
	Output   string   `short:"o" help:"Output file, or directory for generated names" default:"."`
	Format   string   `help:"Image format to write" enum:"png,bmp,tiff" default:"png"`
	Model    string   `help:"Phone model, overrides the one stored in the capture"`
	Display  int      `short:"d" help:"Display index of bare dumps (0-based)" default:"0" group:"raw"`
	Profiles string   `help:"YAML file with extra device profiles" type:"path"`
	NoQuirks bool     `help:"Skip mask and crop corrections"`

	Raw           bool   `help:"Inputs are bare frame buffer dumps" group:"raw"`
	Type          string `help:"Pixel format of bare dumps" enum:"wb,bgr233,bgra4444,bgr565,bgr888,bgra8888,bgra8888p,bgra8888mask" default:"bgr565" group:"raw"`
	Width         int    `help:"Buffer width of bare dumps" group:"raw"`
	Height        int    `help:"Buffer height of bare dumps" group:"raw"`
	DisplayWidth  int    `help:"Visible width of bare dumps, 0 for the full buffer" group:"raw"`
	DisplayHeight int    `help:"Visible height of bare dumps, 0 for the full buffer" group:"raw"`

	pixelFormat pixfmt.Format
	profiles    *profile.Set
}

func (c *CLICmd) Validate(kctx *kong.Context) error {
	if c.Raw {
		var err error
		if c.pixelFormat, err = pixfmt.ParseFormat(c.Type); err != nil {
			return err
		}
		switch {
		case c.Width <= 0 || c.Height <= 0:
			return fmt.Errorf("raw dumps need a positive --width and --height, got %dx%d", c.Width, c.Height)
		case c.DisplayWidth < 0 || c.DisplayWidth > c.Width:
			return fmt.Errorf("invalid display width: %d", c.DisplayWidth)
		case c.DisplayHeight < 0 || c.DisplayHeight > c.Height:
			return fmt.Errorf("invalid display height: %d", c.DisplayHeight)
		case c.Display < 0:
			return fmt.Errorf("invalid display index: %d", c.Display)
		}
	}

	if len(c.Captures) > 1 && !isDir(c.Output) {
		return fmt.Errorf("output %q must be a directory when developing %d captures", c.Output, len(c.Captures))
	}

	profiles, err := profile.Load(c.Profiles)
	if err != nil {
		return err
	}
	c.profiles = profiles

	return nil
}

func (c *CLICmd) Run(worker parallel.WorkerFunc, wait parallel.WaitFunc, opts framebuf.Options) error {
	if isDir(c.Output) {
		if err := os.MkdirAll(c.Output, 0o755); err != nil {
			return fmt.Errorf("unable to create destination folder %q: %w", c.Output, err)
		}
	}

	// files already run in parallel, rows need not
	if len(c.Captures) > 1 {
		opts.Workers = 1
	}

	var processedCount, errCount atomic.Uint64
	for _, name := range c.Captures {
		worker(func() {
			logger := slog.Default().With("file", name)
			if err := c.develop(logger, name, opts); err != nil {
				errCount.Add(1)
				logger.Error("could not develop capture", "error", err)
				return
			}
			processedCount.Add(1)
		})
	}

	wait(true)

	processed := processedCount.Load()
	errors := errCount.Load()
	slog.Info("stats", "processed", processed, "errors", errors,
		"total", processed+errors)

	if errors > 0 {
		return fmt.Errorf("error processing %d files", errors)
	}
	return nil
}

func (c *CLICmd) develop(logger *slog.Logger, name string, opts framebuf.Options) error {
	shot, err := c.load(name)
	if err != nil {
		return err
	}

	raw := shot.Bitmap
	model := shot.Model
	if c.Model != "" {
		model = c.Model
	}

	quirks := framebuf.NoQuirks
	if !c.NoQuirks {
		quirks = c.profiles.Resolve(model, raw.Format)
	}
	logger.Info("developing", "format", raw.Format, "width", raw.Width, "height", raw.Height,
		"model", model, "display", shot.Display, "quirks", quirks)

	img, err := framebuf.Develop(raw, quirks, opts)
	if err != nil {
		return fmt.Errorf("could not decode frame buffer: %w", err)
	}

	dest := c.destination(name, shot)
	logger.Info("saving screenshot", "to", dest, "width", img.Width, "height", img.Height)
	return save(img.NRGBA(), c.Format, dest)
}

func (c *CLICmd) load(name string) (capture.Capture, error) {
	f, err := os.Open(name)
	if err != nil {
		return capture.Capture{}, fmt.Errorf("could not open capture: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			slog.Error("could not close capture", "file", name, "error", closeErr)
		}
	}()

	if !c.Raw {
		return capture.Read(f)
	}

	info, err := f.Stat()
	if err != nil {
		return capture.Capture{}, fmt.Errorf("could not stat capture: %w", err)
	}
	return capture.FromRaw(f, capture.Capture{
		Display: c.Display,
		Taken:   info.ModTime(),
		Bitmap: framebuf.RawBitmap{
			Format:        c.pixelFormat,
			Width:         c.Width,
			Height:        c.Height,
			DisplayWidth:  c.DisplayWidth,
			DisplayHeight: c.DisplayHeight,
		},
	})
}

// destination picks the output path for the capture in src. A single
// capture gets a timestamped name, several keep their own base names.
func (c *CLICmd) destination(src string, shot capture.Capture) string {
	if !isDir(c.Output) {
		return c.Output
	}

	if len(c.Captures) > 1 {
		base := filepath.Base(src)
		base = strings.TrimSuffix(base, filepath.Ext(base))
		return filepath.Join(c.Output, fmt.Sprintf("%s.%s", base, c.Format))
	}

	taken := shot.Taken
	if taken.IsZero() {
		taken = time.Now()
	}
	return filepath.Join(c.Output, DefaultName(taken, shot.Display, c.Format))
}

// DefaultName returns the file name a screenshot of display taken at t
// gets. The main display (0) carries no suffix.
func DefaultName(t time.Time, display int, ext string) string {
	name := "Screenshot_" + t.Format("20060102_150405")
	if display > 0 {
		name += fmt.Sprintf("_d%d", display)
	}
	return name + "." + ext
}

func isDir(path string) bool {
	if strings.HasSuffix(path, "/") || strings.HasSuffix(path, string(filepath.Separator)) {
		return true
	}
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
