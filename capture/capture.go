// Package capture stores display dumps on disk so they can be developed
// into images later.
//
// A capture file is a single CBOR map holding the geometry reported by the
// phone and the frame buffer, usually zstd compressed.
package capture

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/klauspost/compress/zstd"

	"sietool/framebuf"
	"sietool/pixfmt"
)

const (
	Magic = "SIEFB1"
	Ext   = ".sie"

	CompressionNone = "none"
	CompressionZstd = "zstd"
)

// largest accepted frame buffer, well above any supported panel
const maxPayload = 64 << 20

// Capture is one display dump together with where it came from.
type Capture struct {
	Model   string
	Display int
	Taken   time.Time
	Bitmap  framebuf.RawBitmap
}

type fileHeader struct {
	Magic         string `cbor:"magic"`
	Format        string `cbor:"format"`
	Width         int    `cbor:"width"`
	Height        int    `cbor:"height"`
	DisplayWidth  int    `cbor:"displayWidth"`
	DisplayHeight int    `cbor:"displayHeight"`
	Model         string `cbor:"model,omitempty"`
	Display       int    `cbor:"display,omitempty"`
	Taken         int64  `cbor:"taken,omitempty"`
	Compression   string `cbor:"compression"`
	Payload       []byte `cbor:"payload"`
}

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error
	if encMode, err = cbor.CoreDetEncOptions().EncMode(); err != nil {
		panic(err)
	}
	decMode, err = cbor.DecOptions{
		DupMapKey: cbor.DupMapKeyEnforcedAPF,
	}.DecMode()
	if err != nil {
		panic(err)
	}
}

// Write serialises c to w, compressing the frame buffer unless compression
// is CompressionNone.
func Write(w io.Writer, c Capture, compression string) error {
	raw := c.Bitmap
	if err := raw.Validate(); err != nil {
		return err
	}

	hdr := fileHeader{
		Magic:         Magic,
		Format:        raw.Format.String(),
		Width:         raw.Width,
		Height:        raw.Height,
		DisplayWidth:  raw.DisplayWidth,
		DisplayHeight: raw.DisplayHeight,
		Model:         c.Model,
		Display:       c.Display,
		Compression:   compression,
	}
	if !c.Taken.IsZero() {
		hdr.Taken = c.Taken.Unix()
	}

	switch compression {
	case CompressionNone:
		hdr.Payload = raw.Buf
	case CompressionZstd:
		enc := zstdEncPool.Get().(*zstd.Encoder)
		hdr.Payload = enc.EncodeAll(raw.Buf, make([]byte, 0, len(raw.Buf)/4))
		zstdEncPool.Put(enc)
	default:
		return fmt.Errorf("unsupported capture compression %q", compression)
	}

	data, err := encMode.Marshal(&hdr)
	if err != nil {
		return fmt.Errorf("could not encode capture header: %w", err)
	}
	if _, err = w.Write(data); err != nil {
		return fmt.Errorf("could not write capture: %w", err)
	}
	return nil
}

// Read parses a capture written by Write. The returned bitmap has been
// validated against its declared geometry.
func Read(r io.Reader) (Capture, error) {
	var hdr fileHeader
	if err := decMode.NewDecoder(r).Decode(&hdr); err != nil {
		return Capture{}, fmt.Errorf("could not decode capture header: %w", err)
	}
	if hdr.Magic != Magic {
		return Capture{}, fmt.Errorf("not a capture file: magic %q", hdr.Magic)
	}

	if hdr.Display < 0 {
		return Capture{}, fmt.Errorf("invalid display index %d", hdr.Display)
	}

	format, err := pixfmt.ParseFormat(hdr.Format)
	if err != nil {
		return Capture{}, err
	}

	c := Capture{
		Model:   hdr.Model,
		Display: hdr.Display,
		Bitmap: framebuf.RawBitmap{
			Format:        format,
			Width:         hdr.Width,
			Height:        hdr.Height,
			DisplayWidth:  hdr.DisplayWidth,
			DisplayHeight: hdr.DisplayHeight,
		},
	}
	if hdr.Taken != 0 {
		c.Taken = time.Unix(hdr.Taken, 0)
	}

	switch hdr.Compression {
	case CompressionNone:
		c.Bitmap.Buf = hdr.Payload
	case CompressionZstd:
		if c.Bitmap.Buf, err = zstdDecoder.DecodeAll(hdr.Payload, nil); err != nil {
			return Capture{}, fmt.Errorf("could not decompress frame buffer: %w", err)
		}
	default:
		return Capture{}, fmt.Errorf("unsupported capture compression %q", hdr.Compression)
	}

	if err = c.Bitmap.Validate(); err != nil {
		return Capture{}, err
	}
	return c, nil
}

// FromRaw wraps a bare frame buffer dump, such as one saved by an older
// tool, in a capture using geometry supplied by the caller.
func FromRaw(r io.Reader, meta Capture) (Capture, error) {
	raw := meta.Bitmap
	need, _ := raw.Format.SizeChecked(raw.Width, raw.Height)

	var buf bytes.Buffer
	buf.Grow(min(need, maxPayload))
	if _, err := io.Copy(&buf, io.LimitReader(r, maxPayload)); err != nil {
		return Capture{}, fmt.Errorf("could not read frame buffer: %w", err)
	}
	raw.Buf = buf.Bytes()

	if err := raw.Validate(); err != nil {
		return Capture{}, err
	}
	meta.Bitmap = raw
	return meta, nil
}
