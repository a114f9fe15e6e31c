package pixfmt

import "encoding/binary"

// DecodeFunc reads the pixel at (x, y) of a w x h bitmap stored in buf.
type DecodeFunc func(buf []byte, w, h, x, y int) (ARGB, error)

// EncodeFunc writes c as the pixel at (x, y) of a w x h bitmap stored in buf.
type EncodeFunc func(buf []byte, w, h, x, y int, c ARGB) error

// locate returns the byte offset of pixel (x, y), or a MalformedBitmapError
// when the pixel or its bytes fall outside buf.
func locate(f Format, buf []byte, w, h, x, y int) (int, error) {
	if w <= 0 || h <= 0 || x < 0 || y < 0 || x >= w || y >= h {
		return 0, &MalformedBitmapError{
			Format: f, Width: w, Height: h, X: x, Y: y,
			Len: len(buf), Reason: "pixel outside bitmap",
		}
	}

	var off, n int
	if f == Mono1 {
		off, n = y*f.RowBytes(w)+x/8, 1
	} else {
		n = f.BytesPerPixel()
		off = y*f.RowBytes(w) + x*n
	}

	if off+n > len(buf) {
		return 0, &MalformedBitmapError{
			Format: f, Width: w, Height: h, X: x, Y: y,
			Need: off + n, Len: len(buf), Reason: "buffer too short",
		}
	}
	return off, nil
}

func decodeMono1(buf []byte, w, h, x, y int) (ARGB, error) {
	off, err := locate(Mono1, buf, w, h, x, y)
	if err != nil {
		return 0, err
	}
	if (buf[off]>>(7-x%8))&1 != 0 {
		return White, nil
	}
	return Black, nil
}

func encodeMono1(buf []byte, w, h, x, y int, c ARGB) error {
	off, err := locate(Mono1, buf, w, h, x, y)
	if err != nil {
		return err
	}
	bit := byte(1) << (7 - x%8)
	if luminance(c) >= 128 {
		buf[off] |= bit
	} else {
		buf[off] &^= bit
	}
	return nil
}

// luminance is the Rec. 601 luma of c on a 0..255 scale.
func luminance(c ARGB) float64 {
	return 0.299*float64(c.R()) + 0.587*float64(c.G()) + 0.114*float64(c.B())
}

func decodeIndexed332(buf []byte, w, h, x, y int) (ARGB, error) {
	off, err := locate(Indexed332, buf, w, h, x, y)
	if err != nil {
		return 0, err
	}
	v := buf[off]
	r := uint32(v>>5&0x7) * 0xFF / 0x7
	g := uint32(v>>2&0x7) * 0xFF / 0x7
	b := uint32(v&0x3) * 0xFF / 0x3
	return NewARGB(0xFF, uint8(r), uint8(g), uint8(b)), nil
}

// encodeIndexed332 keeps the firmware tool's truncation widths: red is cut
// to 2 bits and blue to 3, so blue's top bit lands in green's low bit.
func encodeIndexed332(buf []byte, w, h, x, y int, c ARGB) error {
	off, err := locate(Indexed332, buf, w, h, x, y)
	if err != nil {
		return err
	}
	r := c.R() >> 6
	g := c.G() >> 5
	b := c.B() >> 5
	buf[off] = r<<5 | g<<2 | b
	return nil
}

func decodePacked4444(buf []byte, w, h, x, y int) (ARGB, error) {
	off, err := locate(Packed4444, buf, w, h, x, y)
	if err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint16(buf[off:])
	return NewARGB(
		expand4(v>>12),
		expand4(v>>8),
		expand4(v>>4),
		expand4(v),
	), nil
}

func expand4(v uint16) uint8 {
	return uint8((v & 0xF) * 0xFF / 0xF)
}

func encodePacked4444(buf []byte, w, h, x, y int, c ARGB) error {
	off, err := locate(Packed4444, buf, w, h, x, y)
	if err != nil {
		return err
	}
	v := uint16(c.A()>>4)<<12 | uint16(c.R()>>4)<<8 | uint16(c.G()>>4)<<4 | uint16(c.B()>>4)
	binary.LittleEndian.PutUint16(buf[off:], v)
	return nil
}

func decodePacked565(buf []byte, w, h, x, y int) (ARGB, error) {
	off, err := locate(Packed565, buf, w, h, x, y)
	if err != nil {
		return 0, err
	}
	v := uint32(binary.LittleEndian.Uint16(buf[off:]))
	r := ((v>>11&0x1F)*527 + 23) >> 6
	g := ((v>>5&0x3F)*259 + 33) >> 6
	b := ((v&0x1F)*527 + 23) >> 6
	return NewARGB(0xFF, uint8(r), uint8(g), uint8(b)), nil
}

func encodePacked565(buf []byte, w, h, x, y int, c ARGB) error {
	off, err := locate(Packed565, buf, w, h, x, y)
	if err != nil {
		return err
	}
	v := uint16(c.R()&0xF8)<<8 | uint16(c.G()&0xFC)<<3 | uint16(c.B()>>3)
	binary.LittleEndian.PutUint16(buf[off:], v)
	return nil
}

func decodePacked888(buf []byte, w, h, x, y int) (ARGB, error) {
	off, err := locate(Packed888, buf, w, h, x, y)
	if err != nil {
		return 0, err
	}
	return NewARGB(0xFF, buf[off+2], buf[off+1], buf[off]), nil
}

func encodePacked888(buf []byte, w, h, x, y int, c ARGB) error {
	off, err := locate(Packed888, buf, w, h, x, y)
	if err != nil {
		return err
	}
	buf[off] = c.B()
	buf[off+1] = c.G()
	buf[off+2] = c.R()
	return nil
}

func decodePacked8888(buf []byte, w, h, x, y int) (ARGB, error) {
	return decode8888(Packed8888, buf, w, h, x, y)
}

func decodePacked8888Mask(buf []byte, w, h, x, y int) (ARGB, error) {
	return decode8888(Packed8888Mask, buf, w, h, x, y)
}

func decode8888(f Format, buf []byte, w, h, x, y int) (ARGB, error) {
	off, err := locate(f, buf, w, h, x, y)
	if err != nil {
		return 0, err
	}
	return ARGB(binary.LittleEndian.Uint32(buf[off:])), nil
}

// encodePacked8888 truncates every channel to its top nibble, matching
// what the firmware tools have always written.
func encodePacked8888(buf []byte, w, h, x, y int, c ARGB) error {
	off, err := locate(Packed8888, buf, w, h, x, y)
	if err != nil {
		return err
	}
	v := NewARGB(c.A()>>4, c.R()>>4, c.G()>>4, c.B()>>4)
	binary.LittleEndian.PutUint32(buf[off:], uint32(v))
	return nil
}

func decodePacked8888P(buf []byte, w, h, x, y int) (ARGB, error) {
	off, err := locate(Packed8888P, buf, w, h, x, y)
	if err != nil {
		return 0, err
	}
	v := ARGB(binary.LittleEndian.Uint32(buf[off:]))
	return NewARGB(percentToAlpha(v.A()), v.R(), v.G(), v.B()), nil
}

func encodePacked8888P(buf []byte, w, h, x, y int, c ARGB) error {
	off, err := locate(Packed8888P, buf, w, h, x, y)
	if err != nil {
		return err
	}
	v := NewARGB(alphaToPercent(c.A()), c.R()>>4, c.G()>>4, c.B()>>4)
	binary.LittleEndian.PutUint32(buf[off:], uint32(v))
	return nil
}

// percentToAlpha rounds p*255/100 half up. Stored values above 100 only
// appear in corrupt dumps; they saturate at 255 rather than keeping the low
// byte of the product as a plain shift into the alpha byte would.
func percentToAlpha(p uint8) uint8 {
	a := (uint32(p)*255 + 50) / 100
	return uint8(min(a, 0xFF))
}

// alphaToPercent rounds a*100/255 half up.
func alphaToPercent(a uint8) uint8 {
	return uint8((uint32(a)*200 + 255) / 510)
}
