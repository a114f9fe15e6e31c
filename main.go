package main

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"sietool/convert"
	"sietool/framebuf"
	"sietool/palette"
	"sietool/parallel"
	"sietool/screenshot"
)

type CLI struct {
	Debug   bool `help:"Enable debug logging" default:"false"`
	Workers int  `short:"j" help:"Number of parallel workers, 0 for one per CPU" default:"0"`

	Screenshot screenshot.CLICmd `cmd:"" help:"Develop display captures into image files"`
	Encode     convert.CLICmd    `cmd:"" help:"Encode an image into a display capture"`
	Palette    palette.CLICmd    `cmd:"" help:"Write the bgr233 display palette as a RIFF PAL file"`
}

func main() {
	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Name("sietool"),
		kong.Description("Screenshot and frame buffer tool for Siemens phones."),
		kong.UsageOnError(),
	)

	level := slog.LevelInfo
	if cli.Debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	pool := parallel.Start(cli.Workers)
	defer pool.Cancel()

	err := kctx.Run(pool.Do, pool.Wait, framebuf.Options{Workers: cli.Workers})
	if err != nil {
		slog.Error("command failed", "command", kctx.Command(), "error", err)
		pool.Cancel()
		os.Exit(1)
	}
}
