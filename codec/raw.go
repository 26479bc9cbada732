package codec

import (
	"unicode/utf8"

	"github.com/unkn0wn-root/packers"
)

// Bytes is an identity codec for []byte values.
type Bytes struct{}

func (Bytes) Encode(b []byte) ([]byte, error) { return b, nil }
func (Bytes) Decode(b []byte) ([]byte, error) { return b, nil }

// String converts between string and its UTF-8 bytes. Like packers.Str it
// refuses invalid UTF-8 in either direction.
type String struct{}

func (String) Encode(s string) ([]byte, error) {
	if !utf8.ValidString(s) {
		return nil, packers.ErrInvalidUTF8
	}
	return []byte(s), nil
}

func (String) Decode(b []byte) (string, error) {
	if !utf8.Valid(b) {
		return "", packers.ErrInvalidUTF8
	}
	return string(b), nil
}
