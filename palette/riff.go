package palette

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"image/color"
	"io"

	"golang.org/x/image/riff"
)

/*
typedef struct tagLOGPALETTE {
  WORD         palVersion;
  WORD         palNumEntries;
  PALETTEENTRY palPalEntry[1];
} LOGPALETTE;

typedef struct tagPALETTEENTRY {
  BYTE peRed;
  BYTE peGreen;
  BYTE peBlue;
  BYTE peFlags;
} PALETTEENTRY;
*/

const palVersion = 0x0300

var (
	riffType = riff.FourCC{'R', 'I', 'F', 'F'}
	palType  = riff.FourCC{'P', 'A', 'L', ' '}
	dataType = riff.FourCC{'d', 'a', 't', 'a'}
)

// ReadFrom reads every palette stored in a RIFF PAL stream.
func ReadFrom(r io.Reader) ([]color.Palette, error) {
	formType, rd, err := riff.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("could not open RIFF stream: %w", err)
	} else if formType != palType {
		return nil, fmt.Errorf("unsupported RIFF content type: %s", string(formType[:]))
	}

	var res []color.Palette
	for {
		id, _, data, err := rd.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return res, nil
			}
			return res, fmt.Errorf("could not read chunk #%d: %w", len(res), err)
		}
		if id != dataType {
			return res, fmt.Errorf("unsupported chunk type in #%d: %s", len(res), id)
		}

		pal, err := readPalette(data, len(res))
		if err != nil {
			return res, err
		}
		res = append(res, pal)
	}
}

func readPalette(r io.Reader, chunk int) (color.Palette, error) {
	var hdr struct {
		Version uint16
		Count   uint16
	}
	if err := binary.Read(r, binary.LittleEndian, &hdr); err != nil {
		return nil, fmt.Errorf("could not read header of chunk #%d: %w", chunk, err)
	}
	if hdr.Version != palVersion {
		return nil, fmt.Errorf("unsupported palette version in chunk #%d: 0x%04X", chunk, hdr.Version)
	}

	entries := make([]byte, int(hdr.Count)*4)
	if _, err := io.ReadFull(r, entries); err != nil {
		return nil, fmt.Errorf("could not read %d colors from chunk #%d: %w", hdr.Count, chunk, err)
	}

	res := make(color.Palette, hdr.Count)
	for i := range res {
		e := entries[i*4:]
		res[i] = color.RGBA{R: e[0], G: e[1], B: e[2], A: 0xFF}
	}
	return res, nil
}

// WriteTo writes pals as a RIFF PAL stream with one data chunk per
// palette. Palettes are limited to 65535 colors.
func WriteTo(w io.Writer, pals []color.Palette) (int64, error) {
	var body bytes.Buffer
	body.Write(palType[:])
	for i, pal := range pals {
		if len(pal) > 0xFFFF {
			return 0, fmt.Errorf("palette #%d has too many colors: %d", i, len(pal))
		}
		body.Write(dataType[:])
		body.Write(binary.LittleEndian.AppendUint32(nil, uint32(4+len(pal)*4)))
		body.Write(binary.LittleEndian.AppendUint16(nil, palVersion))
		body.Write(binary.LittleEndian.AppendUint16(nil, uint16(len(pal))))
		for _, col := range pal {
			c := color.NRGBAModel.Convert(col).(color.NRGBA)
			body.Write([]byte{c.R, c.G, c.B, 0x00})
		}
	}

	hdr := append(riffType[:], binary.LittleEndian.AppendUint32(nil, uint32(body.Len()))...)
	n, err := w.Write(hdr)
	if err != nil {
		return int64(n), fmt.Errorf("could not write RIFF header: %w", err)
	}
	m, err := body.WriteTo(w)
	if err != nil {
		return int64(n) + m, fmt.Errorf("could not write palettes: %w", err)
	}
	return int64(n) + m, nil
}
