package palette

import (
	"fmt"
	"log/slog"
)

type CLICmd struct {
	Output string `short:"o" help:"PAL file to write" default:"bgr233.pal" type:"path"`
}

func (c *CLICmd) Run() error {
	pal, err := Indexed332()
	if err != nil {
		return fmt.Errorf("could not build bgr233 palette: %w", err)
	}
	if err = WriteFile(c.Output, pal); err != nil {
		return err
	}
	slog.Info("wrote palette", "file", c.Output, "colors", len(pal))
	return nil
}
