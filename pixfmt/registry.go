package pixfmt

// Codec is the decode/encode pair for one format. Encode is nil for
// capture-only formats.
type Codec struct {
	Decode DecodeFunc
	Encode EncodeFunc
}

var codecs = [...]Codec{
	Mono1:          {decodeMono1, encodeMono1},
	Indexed332:     {decodeIndexed332, encodeIndexed332},
	Packed4444:     {decodePacked4444, encodePacked4444},
	Packed565:      {decodePacked565, encodePacked565},
	Packed888:      {decodePacked888, encodePacked888},
	Packed8888:     {decodePacked8888, encodePacked8888},
	Packed8888P:    {decodePacked8888P, encodePacked8888P},
	Packed8888Mask: {Decode: decodePacked8888Mask},
}

// a format added without a codec entry fails to build here
var (
	_ [len(codecs) - int(formatCount)]struct{}
	_ [int(formatCount) - len(codecs)]struct{}
)

// Lookup returns the codec pair registered for f.
func Lookup(f Format) (Codec, error) {
	if !f.Valid() {
		return Codec{}, &UnsupportedFormatError{Tag: f.String()}
	}
	return codecs[f], nil
}

// Decoder returns the pixel decoder for f.
func Decoder(f Format) (DecodeFunc, error) {
	c, err := Lookup(f)
	if err != nil {
		return nil, err
	}
	return c.Decode, nil
}

// Encoder returns the pixel encoder for f. Capture-only formats fail with
// an UnsupportedFormatError.
func Encoder(f Format) (EncodeFunc, error) {
	c, err := Lookup(f)
	if err != nil {
		return nil, err
	}
	if c.Encode == nil {
		return nil, &UnsupportedFormatError{Tag: f.String(), Op: "encode"}
	}
	return c.Encode, nil
}
