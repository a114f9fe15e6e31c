package framebuf

import (
	"image"
	"image/color"
	"testing"

	"sietool/pixfmt"
)

func makeTestImage(w, h int) *Image {
	img := NewImage(w, h)
	for y := range h {
		for x := range w {
			img.SetARGB(x, y, pixfmt.NewARGB(
				uint8((x*3)^(y*5)),
				uint8((x*17)^(y*31)),
				uint8((x*43)+(y*13)),
				uint8((x*7)^(y*11)),
			))
		}
	}
	return img
}

func opaque(img *Image) *Image {
	res := img.Clone()
	for i, c := range res.Pix {
		res.Pix[i] = c.Opaque()
	}
	return res
}

func equalImages(t *testing.T, got, want *Image) {
	t.Helper()
	if got.Width != want.Width || got.Height != want.Height {
		t.Fatalf("size = %dx%d, want %dx%d", got.Width, got.Height, want.Width, want.Height)
	}
	for i := range want.Pix {
		if got.Pix[i] != want.Pix[i] {
			t.Fatalf("pixel (%d,%d) = 0x%08X, want 0x%08X",
				i%want.Width, i/want.Width, uint32(got.Pix[i]), uint32(want.Pix[i]))
		}
	}
}

func TestPacked888RoundTrip(t *testing.T) {
	src := opaque(makeTestImage(33, 17))

	raw, err := Encode(src, pixfmt.Packed888)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if len(raw.Buf) != 33*17*3 {
		t.Fatalf("Encode() buffer = %d bytes, want %d", len(raw.Buf), 33*17*3)
	}

	dec, err := Decode(raw)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	equalImages(t, dec, src)
}

func TestLossyEncodeIsStableAfterFirstPass(t *testing.T) {
	formats := []pixfmt.Format{
		pixfmt.Packed8888,
		pixfmt.Packed8888P,
		pixfmt.Packed4444,
		pixfmt.Packed565,
	}
	for _, f := range formats {
		t.Run(f.String(), func(t *testing.T) {
			raw, err := Encode(makeTestImage(16, 9), f)
			if err != nil {
				t.Fatalf("Encode() error = %v", err)
			}
			first, err := Decode(raw)
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}

			raw2, err := Encode(first, f)
			if err != nil {
				t.Fatalf("Encode() error = %v", err)
			}
			second, err := Decode(raw2)
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}

			raw3, err := Encode(second, f)
			if err != nil {
				t.Fatalf("Encode() error = %v", err)
			}
			third, err := Decode(raw3)
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			equalImages(t, third, second)
		})
	}
}

func TestPacked8888DecodeIsLossless(t *testing.T) {
	raw := RawBitmap{
		Format: pixfmt.Packed8888,
		Width:  2,
		Height: 1,
		Buf:    []byte{0x01, 0x02, 0x03, 0x04, 0xFF, 0x80, 0x7F, 0x00},
	}
	img, err := Decode(raw)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	want := []pixfmt.ARGB{0x04030201, 0x007F80FF}
	for i, c := range want {
		if img.Pix[i] != c {
			t.Errorf("pixel %d = 0x%08X, want 0x%08X", i, uint32(img.Pix[i]), uint32(c))
		}
	}
}

func TestMono1RoundTrip(t *testing.T) {
	src := NewImage(13, 5)
	for y := range src.Height {
		for x := range src.Width {
			c := pixfmt.Black
			if (x+y)%3 == 0 {
				c = pixfmt.White
			}
			src.SetARGB(x, y, c)
		}
	}

	raw, err := Encode(src, pixfmt.Mono1)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if len(raw.Buf) != 2*5 {
		t.Fatalf("Encode() buffer = %d bytes, want 10", len(raw.Buf))
	}

	dec, err := Decode(raw)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	equalImages(t, dec, src)
}

func TestDecodeShortBuffer(t *testing.T) {
	raw := RawBitmap{
		Format: pixfmt.Packed888,
		Width:  100,
		Height: 100,
		Buf:    make([]byte, 29000),
	}
	img, err := Decode(raw)
	if !pixfmt.IsMalformedBitmap(err) {
		t.Fatalf("Decode() expected MalformedBitmapError, got %v", err)
	}
	if img != nil {
		t.Error("Decode() should not return a partial image")
	}
}

func TestDecodeHugeDimensions(t *testing.T) {
	raw := RawBitmap{Format: pixfmt.Packed8888, Width: 1 << 31, Height: 1 << 31}
	img, err := DecodeWith(raw, Options{Workers: 4})
	if !pixfmt.IsMalformedBitmap(err) {
		t.Fatalf("DecodeWith() expected MalformedBitmapError, got %v", err)
	}
	if img != nil {
		t.Error("DecodeWith() should not return an image")
	}
}

func TestDecodeUnsupportedFormat(t *testing.T) {
	raw := RawBitmap{Format: pixfmt.Format(200), Width: 1, Height: 1, Buf: []byte{0}}
	img, err := Decode(raw)
	if !pixfmt.IsUnsupportedFormat(err) {
		t.Fatalf("Decode() expected UnsupportedFormatError, got %v", err)
	}
	if img != nil {
		t.Error("Decode() should not return a partial image")
	}

	if _, err := Encode(NewImage(1, 1), pixfmt.Packed8888Mask); !pixfmt.IsUnsupportedFormat(err) {
		t.Errorf("Encode(mask) expected UnsupportedFormatError, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		raw     RawBitmap
		wantErr bool
	}{
		{
			name: "valid",
			raw:  RawBitmap{Format: pixfmt.Packed565, Width: 4, Height: 2, DisplayWidth: 3, DisplayHeight: 2, Buf: make([]byte, 16)},
		},
		{
			name:    "buffer too long",
			raw:     RawBitmap{Format: pixfmt.Packed565, Width: 4, Height: 2, Buf: make([]byte, 17)},
			wantErr: true,
		},
		{
			name:    "display wider than buffer",
			raw:     RawBitmap{Format: pixfmt.Indexed332, Width: 4, Height: 2, DisplayWidth: 5, Buf: make([]byte, 8)},
			wantErr: true,
		},
		{
			name:    "size overflows int",
			raw:     RawBitmap{Format: pixfmt.Packed8888, Width: 1 << 31, Height: 1 << 31},
			wantErr: true,
		},
		{
			name:    "width beyond 32 bits",
			raw:     RawBitmap{Format: pixfmt.Indexed332, Width: 1 << 33, Height: 0},
			wantErr: true,
		},
		{
			name: "empty",
			raw:  RawBitmap{Format: pixfmt.Packed565, Width: 0, Height: 1 << 20},
		},
		{
			name:    "negative height",
			raw:     RawBitmap{Format: pixfmt.Indexed332, Width: 4, Height: -2},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.raw.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !pixfmt.IsMalformedBitmap(err) {
				t.Errorf("Validate() error = %v, want MalformedBitmapError", err)
			}
		})
	}
}

func TestParallelDecodeMatchesSerial(t *testing.T) {
	src := makeTestImage(64, 48)
	for _, f := range []pixfmt.Format{pixfmt.Mono1, pixfmt.Indexed332, pixfmt.Packed565, pixfmt.Packed8888P} {
		t.Run(f.String(), func(t *testing.T) {
			serialRaw, err := EncodeWith(src, f, Options{Workers: 1})
			if err != nil {
				t.Fatalf("EncodeWith() error = %v", err)
			}
			parallelRaw, err := EncodeWith(src, f, Options{Workers: 8})
			if err != nil {
				t.Fatalf("EncodeWith() error = %v", err)
			}
			if string(serialRaw.Buf) != string(parallelRaw.Buf) {
				t.Fatal("parallel encode differs from serial encode")
			}

			serial, err := DecodeWith(serialRaw, Options{Workers: 1})
			if err != nil {
				t.Fatalf("DecodeWith() error = %v", err)
			}
			par, err := DecodeWith(serialRaw, Options{Workers: 8})
			if err != nil {
				t.Fatalf("DecodeWith() error = %v", err)
			}
			equalImages(t, par, serial)
		})
	}
}

func TestFromImage(t *testing.T) {
	src := image.NewNRGBA(image.Rect(10, 20, 13, 22))
	src.SetNRGBA(10, 20, color.NRGBA{R: 1, G: 2, B: 3, A: 255})
	src.SetNRGBA(12, 21, color.NRGBA{R: 200, G: 100, B: 50, A: 128})

	img := FromImage(src)
	if img.Width != 3 || img.Height != 2 {
		t.Fatalf("FromImage() size = %dx%d, want 3x2", img.Width, img.Height)
	}
	if got := img.ARGBAt(0, 0); got != pixfmt.NewARGB(255, 1, 2, 3) {
		t.Errorf("ARGBAt(0,0) = 0x%08X", uint32(got))
	}
	if got := img.ARGBAt(2, 1); got != pixfmt.NewARGB(128, 200, 100, 50) {
		t.Errorf("ARGBAt(2,1) = 0x%08X", uint32(got))
	}

	back := img.NRGBA()
	if got := back.NRGBAAt(2, 1); got != (color.NRGBA{R: 200, G: 100, B: 50, A: 128}) {
		t.Errorf("NRGBA().NRGBAAt(2,1) = %v", got)
	}
}
