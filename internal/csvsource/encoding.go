package csvsource

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// decodeReader wraps r with the decoder for the named encoding. Plain UTF-8
// passes through untouched; everything else goes through x/text.
func decodeReader(r io.Reader, name string) (io.Reader, error) {
	enc, err := lookupEncoding(name)
	if err != nil {
		return nil, err
	}
	if enc == nil {
		return r, nil
	}
	return transform.NewReader(r, enc.NewDecoder()), nil
}

// lookupEncoding resolves an encoding name to an x/text encoding. A nil
// result with nil error means the input is already native UTF-8.
//
// The spellings Python's codec registry popularized ("utf-8-sig",
// "utf_8_sig", "utf16") are accepted next to the IANA names; anything not
// special-cased here is resolved through the IANA index.
func lookupEncoding(name string) (encoding.Encoding, error) {
	switch canonicalName(name) {
	case "", "utf-8", "utf8":
		return nil, nil
	case "utf-8-sig", "utf8-sig":
		// BOM-aware UTF-8: a leading BOM is consumed by the decoder.
		return unicode.UTF8BOM, nil
	case "utf-16", "utf16":
		return unicode.UTF16(unicode.LittleEndian, unicode.UseBOM), nil
	case "utf-16le", "utf16le":
		return unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM), nil
	case "utf-16be", "utf16be":
		return unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM), nil
	case "latin-1", "latin1":
		return charmap.ISO8859_1, nil
	case "cp1252":
		return charmap.Windows1252, nil
	}
	enc, err := ianaindex.IANA.Encoding(canonicalName(name))
	if err != nil {
		return nil, fmt.Errorf("unsupported encoding %q: %w", name, err)
	}
	if enc == nil {
		// Registered name without an implementation in x/text.
		return nil, fmt.Errorf("unsupported encoding %q", name)
	}
	return enc, nil
}

func canonicalName(name string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(name), "_", "-"))
}
