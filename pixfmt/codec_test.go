package pixfmt

import (
	"encoding/binary"
	"testing"
)

func TestDecodePacked565Extremes(t *testing.T) {
	tests := []struct {
		name     string
		raw      uint16
		expected ARGB
	}{
		{name: "red", raw: 0xF800, expected: 0xFFFF0000},
		{name: "green", raw: 0x07E0, expected: 0xFF00FF00},
		{name: "blue", raw: 0x001F, expected: 0xFF0000FF},
		{name: "white", raw: 0xFFFF, expected: White},
		{name: "black", raw: 0x0000, expected: Black},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := binary.LittleEndian.AppendUint16(nil, tt.raw)
			got, err := decodePacked565(buf, 1, 1, 0, 0)
			if err != nil {
				t.Fatalf("decodePacked565() error = %v", err)
			}
			if got != tt.expected {
				t.Errorf("decodePacked565(0x%04X) = 0x%08X, want 0x%08X", tt.raw, uint32(got), uint32(tt.expected))
			}
		})
	}
}

func TestEncodePacked565(t *testing.T) {
	buf := make([]byte, 2)
	if err := encodePacked565(buf, 1, 1, 0, 0, NewARGB(0xFF, 0xFF, 0x80, 0x0F)); err != nil {
		t.Fatalf("encodePacked565() error = %v", err)
	}
	// R 11111, G 100000, B 00001
	if got := binary.LittleEndian.Uint16(buf); got != 0xFC01 {
		t.Errorf("encodePacked565() = 0x%04X, want 0xFC01", got)
	}
}

func TestDecodeIndexed332(t *testing.T) {
	tests := []struct {
		name     string
		raw      byte
		expected ARGB
	}{
		{name: "red and blue", raw: 0b11100011, expected: NewARGB(0xFF, 0xFF, 0x00, 0xFF)},
		{name: "green", raw: 0b00011100, expected: NewARGB(0xFF, 0x00, 0xFF, 0x00)},
		{name: "mid fields", raw: 0b01101001, expected: NewARGB(0xFF, 109, 72, 85)},
		{name: "zero", raw: 0, expected: Black},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decodeIndexed332([]byte{tt.raw}, 1, 1, 0, 0)
			if err != nil {
				t.Fatalf("decodeIndexed332() error = %v", err)
			}
			if got != tt.expected {
				t.Errorf("decodeIndexed332(0b%08b) = 0x%08X, want 0x%08X", tt.raw, uint32(got), uint32(tt.expected))
			}
		})
	}
}

func TestEncodeIndexed332TruncationWidths(t *testing.T) {
	buf := make([]byte, 1)
	if err := encodeIndexed332(buf, 1, 1, 0, 0, White); err != nil {
		t.Fatalf("encodeIndexed332() error = %v", err)
	}
	// r=3 (2 bits), g=7, b=7 overlapping green's low bit
	if want := byte(3<<5 | 7<<2 | 7); buf[0] != want {
		t.Errorf("encodeIndexed332(white) = 0b%08b, want 0b%08b", buf[0], want)
	}
}

func TestPacked4444(t *testing.T) {
	buf := binary.LittleEndian.AppendUint16(nil, 0xF84C)
	got, err := decodePacked4444(buf, 1, 1, 0, 0)
	if err != nil {
		t.Fatalf("decodePacked4444() error = %v", err)
	}
	if want := NewARGB(0xFF, 0x88, 0x44, 0xCC); got != want {
		t.Errorf("decodePacked4444() = 0x%08X, want 0x%08X", uint32(got), uint32(want))
	}

	out := make([]byte, 2)
	if err := encodePacked4444(out, 1, 1, 0, 0, NewARGB(0xFF, 0x8F, 0x40, 0xC1)); err != nil {
		t.Fatalf("encodePacked4444() error = %v", err)
	}
	if v := binary.LittleEndian.Uint16(out); v != 0xF84C {
		t.Errorf("encodePacked4444() = 0x%04X, want 0xF84C", v)
	}
}

func TestPacked888ByteOrder(t *testing.T) {
	got, err := decodePacked888([]byte{0x01, 0x02, 0x03}, 1, 1, 0, 0)
	if err != nil {
		t.Fatalf("decodePacked888() error = %v", err)
	}
	if want := NewARGB(0xFF, 0x03, 0x02, 0x01); got != want {
		t.Errorf("decodePacked888() = 0x%08X, want 0x%08X", uint32(got), uint32(want))
	}
}

func TestPacked8888(t *testing.T) {
	got, err := decodePacked8888([]byte{0x10, 0x20, 0x30, 0x40}, 1, 1, 0, 0)
	if err != nil {
		t.Fatalf("decodePacked8888() error = %v", err)
	}
	if want := NewARGB(0x40, 0x30, 0x20, 0x10); got != want {
		t.Errorf("decodePacked8888() = 0x%08X, want 0x%08X", uint32(got), uint32(want))
	}

	buf := make([]byte, 4)
	if err := encodePacked8888(buf, 1, 1, 0, 0, got); err != nil {
		t.Fatalf("encodePacked8888() error = %v", err)
	}
	if want := []byte{0x01, 0x02, 0x03, 0x04}; string(buf) != string(want) {
		t.Errorf("encodePacked8888() = % X, want % X", buf, want)
	}
}

func TestPercentAlpha(t *testing.T) {
	tests := []struct {
		stored byte
		alpha  uint8
	}{
		{stored: 0, alpha: 0},
		{stored: 50, alpha: 128},
		{stored: 100, alpha: 255},
		{stored: 1, alpha: 3},
		{stored: 200, alpha: 255},
	}

	for _, tt := range tests {
		buf := []byte{0xAA, 0xBB, 0xCC, tt.stored}
		got, err := decodePacked8888P(buf, 1, 1, 0, 0)
		if err != nil {
			t.Fatalf("decodePacked8888P() error = %v", err)
		}
		if got.A() != tt.alpha {
			t.Errorf("decodePacked8888P(alpha %d) A = %d, want %d", tt.stored, got.A(), tt.alpha)
		}
		if got.R() != 0xCC || got.G() != 0xBB || got.B() != 0xAA {
			t.Errorf("decodePacked8888P() RGB = 0x%08X, want channels copied", uint32(got))
		}
	}

	buf := make([]byte, 4)
	if err := encodePacked8888P(buf, 1, 1, 0, 0, NewARGB(128, 0xF0, 0x80, 0x10)); err != nil {
		t.Fatalf("encodePacked8888P() error = %v", err)
	}
	if want := []byte{0x01, 0x08, 0x0F, 50}; string(buf) != string(want) {
		t.Errorf("encodePacked8888P() = % X, want % X", buf, want)
	}
}

func TestMono1(t *testing.T) {
	// 10 px wide: 2 bytes per row
	buf := []byte{0b10000000, 0b01000000, 0b00000001, 0}
	tests := []struct {
		x, y     int
		expected ARGB
	}{
		{0, 0, White},
		{1, 0, Black},
		{9, 0, White},
		{7, 1, White},
		{8, 1, Black},
	}
	for _, tt := range tests {
		got, err := decodeMono1(buf, 10, 2, tt.x, tt.y)
		if err != nil {
			t.Fatalf("decodeMono1(%d,%d) error = %v", tt.x, tt.y, err)
		}
		if got != tt.expected {
			t.Errorf("decodeMono1(%d,%d) = 0x%08X, want 0x%08X", tt.x, tt.y, uint32(got), uint32(tt.expected))
		}
	}

	out := []byte{0xFF}
	if err := encodeMono1(out, 8, 1, 3, 0, NewARGB(0xFF, 0x7F, 0x7F, 0x7F)); err != nil {
		t.Fatalf("encodeMono1() error = %v", err)
	}
	if out[0] != 0b11101111 {
		t.Errorf("encodeMono1(dark) = 0b%08b, want bit 3 cleared", out[0])
	}
	if err := encodeMono1(out, 8, 1, 3, 0, NewARGB(0, 0x90, 0x90, 0x90)); err != nil {
		t.Fatalf("encodeMono1() error = %v", err)
	}
	if out[0] != 0xFF {
		t.Errorf("encodeMono1(light) = 0b%08b, want bit 3 set", out[0])
	}
}

func TestCodecBounds(t *testing.T) {
	for _, f := range Formats() {
		t.Run(f.String(), func(t *testing.T) {
			dec, err := Decoder(f)
			if err != nil {
				t.Fatalf("Decoder() error = %v", err)
			}
			buf := make([]byte, f.Size(4, 4))

			if _, err := dec(buf, 4, 4, 4, 0); !IsMalformedBitmap(err) {
				t.Errorf("decode x=w: expected MalformedBitmapError, got %v", err)
			}
			if _, err := dec(buf, 4, 4, 0, -1); !IsMalformedBitmap(err) {
				t.Errorf("decode y=-1: expected MalformedBitmapError, got %v", err)
			}
			if _, err := dec(buf[:len(buf)-1], 4, 4, 3, 3); !IsMalformedBitmap(err) {
				t.Errorf("decode short buffer: expected MalformedBitmapError, got %v", err)
			}

			if enc, err := Encoder(f); err == nil {
				if err := enc(buf[:len(buf)-1], 4, 4, 3, 3, White); !IsMalformedBitmap(err) {
					t.Errorf("encode short buffer: expected MalformedBitmapError, got %v", err)
				}
			}
		})
	}
}
