// Package profile maps phone models to the display quirks their captures
// need.
package profile

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v2"

	"sietool/framebuf"
	"sietool/pixfmt"
)

//go:embed devices.yaml
var builtin []byte

// Device describes one phone model.
type Device struct {
	Quirks []string `yaml:"quirks"`
}

// Set holds device profiles keyed by upper-cased model name.
type Set struct {
	Devices map[string]Device `yaml:"devices"`
}

// Builtin returns the profiles shipped with the tool.
func Builtin() (*Set, error) {
	return parse(builtin, "builtin")
}

// Load returns the builtin profiles with the ones in path layered on top.
// An empty path or a missing file leaves the builtin set unchanged.
func Load(path string) (*Set, error) {
	set, err := Builtin()
	if err != nil {
		return nil, err
	}
	if path == "" {
		return set, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			slog.Warn("device profile file not found, using builtin profiles", "file", path)
			return set, nil
		}
		return nil, fmt.Errorf("could not read device profiles %q: %w", path, err)
	}

	user, err := parse(data, path)
	if err != nil {
		return nil, err
	}
	for model, dev := range user.Devices {
		set.Devices[model] = dev
	}
	slog.Debug("loaded device profiles", "file", path, "devices", len(user.Devices))
	return set, nil
}

func parse(data []byte, ident string) (*Set, error) {
	var raw Set
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.SetStrict(true)
	if err := dec.Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("could not parse device profiles %q: %w", ident, err)
	}

	set := &Set{Devices: make(map[string]Device, len(raw.Devices))}
	for model, dev := range raw.Devices {
		for _, q := range dev.Quirks {
			if _, ok := framebuf.ParseQuirk(q); !ok {
				return nil, fmt.Errorf("device %q in %q: unknown quirk %q", model, ident, q)
			}
		}
		set.Devices[strings.ToUpper(model)] = dev
	}
	return set, nil
}

// Lookup returns the profile of model, ignoring case.
func (s *Set) Lookup(model string) (Device, bool) {
	dev, ok := s.Devices[strings.ToUpper(strings.TrimSpace(model))]
	return dev, ok
}

// Resolve returns the quirks a capture from model in format f needs,
// falling back to framebuf.DefaultQuirks for unknown models. A masked
// format always gets the mask quirk, whatever the profile lists.
func (s *Set) Resolve(model string, f pixfmt.Format) framebuf.Quirks {
	dev, ok := s.Lookup(model)
	if !ok {
		return framebuf.DefaultQuirks(f)
	}

	q := framebuf.DefaultQuirks(f) & framebuf.QuirkMask
	for _, name := range dev.Quirks {
		flag, _ := framebuf.ParseQuirk(name)
		q |= flag
	}
	return q
}
