package parse

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// DefaultEncoding is used for caption files when none is configured.
const DefaultEncoding = "utf-8"

// LookupEncoding resolves a configured encoding name. The UTF-8 variants
// drop a leading byte order mark, which caption exports often carry.
func LookupEncoding(name string) (encoding.Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "utf-8", "utf8", "utf-8-bom", "utf-8-sig":
		return unicode.UTF8BOM, nil
	case "utf-16":
		return unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM), nil
	case "utf-16le":
		return unicode.UTF16(unicode.LittleEndian, unicode.UseBOM), nil
	case "utf-16be":
		return unicode.UTF16(unicode.BigEndian, unicode.UseBOM), nil
	case "windows-1252", "cp1252":
		return charmap.Windows1252, nil
	case "iso-8859-1", "latin1", "latin-1":
		return charmap.ISO8859_1, nil
	case "iso-8859-15", "latin9":
		return charmap.ISO8859_15, nil
	default:
		return nil, fmt.Errorf("unknown encoding %q", name)
	}
}

// decodingReader wraps r so that it yields UTF-8 text.
func decodingReader(r io.Reader, name string) (io.Reader, error) {
	enc, err := LookupEncoding(name)
	if err != nil {
		return nil, err
	}
	return transform.NewReader(r, enc.NewDecoder()), nil
}
