package framebuf

import (
	"sietool/parallel"
	"sietool/pixfmt"
)

// Options tunes the decode and encode loops. The result never depends on
// them.
type Options struct {
	// Workers is the number of goroutines rows are spread over; values
	// below one use every CPU.
	Workers int
}

// Decode converts a raw bitmap into a canonical image of the same size.
// No quirks are applied.
func Decode(raw RawBitmap) (*Image, error) {
	return DecodeWith(raw, Options{Workers: 1})
}

func DecodeWith(raw RawBitmap, opts Options) (*Image, error) {
	dec, err := pixfmt.Decoder(raw.Format)
	if err != nil {
		return nil, err
	}
	if err = raw.Validate(); err != nil {
		return nil, err
	}

	img := NewImage(raw.Width, raw.Height)
	if len(img.Pix) == 0 {
		return img, nil
	}
	err = parallel.Rows(raw.Height, opts.Workers, func(y int) error {
		row := img.Row(y)
		for x := range row {
			c, err := dec(raw.Buf, raw.Width, raw.Height, x, y)
			if err != nil {
				return err
			}
			row[x] = c
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return img, nil
}

// Encode packs img into a new raw bitmap of format f. The display size of
// the result equals the image size.
func Encode(img *Image, f pixfmt.Format) (RawBitmap, error) {
	return EncodeWith(img, f, Options{Workers: 1})
}

func EncodeWith(img *Image, f pixfmt.Format, opts Options) (RawBitmap, error) {
	enc, err := pixfmt.Encoder(f)
	if err != nil {
		return RawBitmap{}, err
	}
	if len(img.Pix) != img.Width*img.Height {
		return RawBitmap{}, &pixfmt.MalformedBitmapError{
			Format: f, Width: img.Width, Height: img.Height, X: -1, Y: -1,
			Need: img.Width * img.Height, Len: len(img.Pix),
			Reason: "pixel count mismatch",
		}
	}

	raw := RawBitmap{
		Format:        f,
		Width:         img.Width,
		Height:        img.Height,
		DisplayWidth:  img.Width,
		DisplayHeight: img.Height,
		Buf:           make([]byte, f.Size(img.Width, img.Height)),
	}

	// rows of a 1bpp bitmap never share a byte, so they can be written
	// concurrently
	err = parallel.Rows(img.Height, opts.Workers, func(y int) error {
		for x, c := range img.Row(y) {
			if err := enc(raw.Buf, raw.Width, raw.Height, x, y, c); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return RawBitmap{}, err
	}
	return raw, nil
}
