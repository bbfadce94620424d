package optimize

import (
	"bytes"
	"fmt"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/encoding/unicode/utf32"
)

type srcEncoding int

const (
	encUnknown srcEncoding = iota
	encUTF8
	encUTF16BigEndian
	encUTF16LittleEndian
	encUTF32BigEndian
	encUTF32LittleEndian
)

func (e srcEncoding) String() string {
	switch e {
	case encUTF8:
		return "utf8"
	case encUTF16BigEndian:
		return "utf16be"
	case encUTF16LittleEndian:
		return "utf16le"
	case encUTF32BigEndian:
		return "utf32be"
	case encUTF32LittleEndian:
		return "utf32le"
	default:
		return "unknown"
	}
}

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16BE = []byte{0xFE, 0xFF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF32BE = []byte{0x00, 0x00, 0xFE, 0xFF}
	bomUTF32LE = []byte{0xFF, 0xFE, 0x00, 0x00}
)

// detectUTF looks for byte order mark. Sources without one are treated as
// ASCII compatible and processed byte for byte.
func detectUTF(buf []byte) srcEncoding {
	switch {
	case bytes.HasPrefix(buf, bomUTF8):
		return encUTF8
	case bytes.HasPrefix(buf, bomUTF32BE):
		return encUTF32BigEndian
	// UTF-32LE mark starts with UTF-16LE one
	case bytes.HasPrefix(buf, bomUTF32LE):
		return encUTF32LittleEndian
	case bytes.HasPrefix(buf, bomUTF16BE):
		return encUTF16BigEndian
	case bytes.HasPrefix(buf, bomUTF16LE):
		return encUTF16LittleEndian
	}
	return encUnknown
}

func selectEncoding(enc srcEncoding) encoding.Encoding {
	switch enc {
	case encUTF8:
		return unicode.UTF8BOM
	case encUTF16BigEndian:
		return unicode.UTF16(unicode.BigEndian, unicode.UseBOM)
	case encUTF16LittleEndian:
		return unicode.UTF16(unicode.LittleEndian, unicode.UseBOM)
	case encUTF32BigEndian:
		return utf32.UTF32(utf32.BigEndian, utf32.UseBOM)
	case encUTF32LittleEndian:
		return utf32.UTF32(utf32.LittleEndian, utf32.UseBOM)
	default:
		return nil
	}
}

// decodeSource returns text of the source without byte order mark.
func decodeSource(raw []byte) (string, srcEncoding, error) {
	enc := detectUTF(raw)
	e := selectEncoding(enc)
	if e == nil {
		return string(raw), enc, nil
	}
	out, err := e.NewDecoder().Bytes(raw)
	if err != nil {
		return "", enc, fmt.Errorf("unable to decode %s source: %w", enc, err)
	}
	// decoders replace malformed sequences, text must encode back to the
	// very same bytes or it cannot be written out
	back, err := e.NewEncoder().Bytes(out)
	if err != nil || !bytes.Equal(back, raw) {
		return "", enc, fmt.Errorf("%s source contains malformed sequences", enc)
	}
	return string(out), enc, nil
}

// encodeSource is the reverse of decodeSource, byte order mark is restored.
func encodeSource(text string, enc srcEncoding) ([]byte, error) {
	e := selectEncoding(enc)
	if e == nil {
		return []byte(text), nil
	}
	out, err := e.NewEncoder().Bytes([]byte(text))
	if err != nil {
		return nil, fmt.Errorf("unable to encode %s source: %w", enc, err)
	}
	return out, nil
}
