package packers

import (
	"encoding/binary"
	"io"
	"math"
	"time"
	"unicode/utf8"
)

// Ready-to-use primitive packers. All integers are big-endian.
var (
	Int8   Int8Packer
	Bool   BoolPacker
	Int16  Int16Packer
	Int32  Int32Packer
	Int64  Int64Packer
	ObjRef = Int64 // object references share the Int64 wire shape
	Float  FloatPacker
	Date   DatePacker
	Buffer BufferPacker
	Str    StrPacker
)

var (
	_ Packer[int8]      = Int8Packer{}
	_ Packer[bool]      = BoolPacker{}
	_ Packer[int16]     = Int16Packer{}
	_ Packer[int32]     = Int32Packer{}
	_ Packer[int64]     = Int64Packer{}
	_ Packer[float64]   = FloatPacker{}
	_ Packer[time.Time] = DatePacker{}
	_ Packer[[]byte]    = BufferPacker{}
	_ Packer[string]    = StrPacker{}
)

// Int8Packer encodes an int8 as a single byte.
type Int8Packer struct{}

func (Int8Packer) Pack(w io.Writer, v int8) error {
	b := [1]byte{byte(v)}
	return WriteExact(w, b[:])
}

func (Int8Packer) Unpack(r io.Reader) (int8, error) {
	var b [1]byte
	if err := readFull(r, b[:]); err != nil {
		return 0, err
	}
	return int8(b[0]), nil
}

// BoolPacker encodes true as 1 and false as 0. Any nonzero byte decodes as true.
type BoolPacker struct{}

func (BoolPacker) Pack(w io.Writer, v bool) error {
	var b int8
	if v {
		b = 1
	}
	return Int8.Pack(w, b)
}

func (BoolPacker) Unpack(r io.Reader) (bool, error) {
	b, err := Int8.Unpack(r)
	if err != nil {
		return false, err
	}
	return b != 0, nil
}

// Int16Packer encodes an int16 as 2 bytes.
type Int16Packer struct{}

func (Int16Packer) Pack(w io.Writer, v int16) error {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], uint16(v))
	return WriteExact(w, b[:])
}

func (Int16Packer) Unpack(r io.Reader) (int16, error) {
	var b [2]byte
	if err := readFull(r, b[:]); err != nil {
		return 0, err
	}
	return int16(binary.BigEndian.Uint16(b[:])), nil
}

// Int32Packer encodes an int32 as 4 bytes. It also carries every length and
// count prefix.
type Int32Packer struct{}

func (Int32Packer) Pack(w io.Writer, v int32) error {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], uint32(v))
	return WriteExact(w, b[:])
}

func (Int32Packer) Unpack(r io.Reader) (int32, error) {
	var b [4]byte
	if err := readFull(r, b[:]); err != nil {
		return 0, err
	}
	return int32(binary.BigEndian.Uint32(b[:])), nil
}

// Int64Packer encodes an int64 as 8 bytes.
type Int64Packer struct{}

func (Int64Packer) Pack(w io.Writer, v int64) error {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(v))
	return WriteExact(w, b[:])
}

func (Int64Packer) Unpack(r io.Reader) (int64, error) {
	var b [8]byte
	if err := readFull(r, b[:]); err != nil {
		return 0, err
	}
	return int64(binary.BigEndian.Uint64(b[:])), nil
}

// FloatPacker encodes the IEEE-754 bits of a float64 through Int64.
// NaN payloads survive the round trip.
type FloatPacker struct{}

func (FloatPacker) Pack(w io.Writer, v float64) error {
	return Int64.Pack(w, int64(math.Float64bits(v)))
}

func (FloatPacker) Unpack(r io.Reader) (float64, error) {
	bits, err := Int64.Unpack(r)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(uint64(bits)), nil
}

// DatePacker encodes a time as milliseconds since the Unix epoch.
// Sub-millisecond precision and the location are not carried; decoded
// times are in UTC.
type DatePacker struct{}

func (DatePacker) Pack(w io.Writer, v time.Time) error {
	return Int64.Pack(w, v.UnixMilli())
}

func (DatePacker) Unpack(r io.Reader) (time.Time, error) {
	ms, err := Int64.Unpack(r)
	if err != nil {
		return time.Time{}, err
	}
	return time.UnixMilli(ms).UTC(), nil
}

// BufferPacker encodes a byte slice as an Int32 length followed by the raw
// bytes. Max, when positive, caps the accepted length in both directions.
type BufferPacker struct {
	Max int
}

func (p BufferPacker) Pack(w io.Writer, v []byte) error {
	if err := p.checkLen(int64(len(v))); err != nil {
		return err
	}
	if err := Int32.Pack(w, int32(len(v))); err != nil {
		return err
	}
	if len(v) == 0 {
		return nil
	}
	return WriteExact(w, v)
}

// Unpack never returns nil on success; an empty buffer decodes as []byte{}.
func (p BufferPacker) Unpack(r io.Reader) ([]byte, error) {
	n, err := Int32.Unpack(r)
	if err != nil {
		return nil, err
	}
	if err := p.checkLen(int64(n)); err != nil {
		return nil, err
	}
	return ReadExact(r, int(n))
}

func (p BufferPacker) checkLen(n int64) error {
	switch {
	case n < 0:
		return lengthError(ErrNegativeLength, "buffer", n)
	case n > math.MaxInt32:
		return lengthError(ErrTooLarge, "buffer", n)
	case p.Max > 0 && n > int64(p.Max):
		return lengthError(ErrTooLarge, "buffer", n)
	}
	return nil
}

// StrPacker encodes a string as a Buffer of its UTF-8 bytes. Invalid UTF-8 is
// rejected on both sides.
type StrPacker struct {
	Max int
}

func (p StrPacker) Pack(w io.Writer, v string) error {
	if !utf8.ValidString(v) {
		return ErrInvalidUTF8
	}
	return BufferPacker{Max: p.Max}.Pack(w, []byte(v))
}

func (p StrPacker) Unpack(r io.Reader) (string, error) {
	b, err := BufferPacker{Max: p.Max}.Unpack(r)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(b) {
		return "", ErrInvalidUTF8
	}
	return string(b), nil
}
