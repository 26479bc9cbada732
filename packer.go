package packers

import (
	"bytes"
	"errors"
	"fmt"
	"io"
)

// Packer encodes values of T to a stream and decodes them back.
// Implementations read and write exactly the bytes their encoding defines.
type Packer[T any] interface {
	Pack(w io.Writer, v T) error
	Unpack(r io.Reader) (T, error)
}

// Marshal packs v into a fresh byte slice.
func Marshal[T any](p Packer[T], v T) ([]byte, error) {
	var buf bytes.Buffer
	if err := p.Pack(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal unpacks a single value that must span all of b.
func Unmarshal[T any](p Packer[T], b []byte) (T, error) {
	r := bytes.NewReader(b)
	v, err := p.Unpack(r)
	if err != nil {
		var zero T
		return zero, err
	}
	if r.Len() != 0 {
		var zero T
		return zero, fmt.Errorf("%w: %d bytes", ErrTrailingBytes, r.Len())
	}
	return v, nil
}

// Next unpacks the next value from a stream of consecutive values.
// It returns io.EOF only when the stream ended before the first byte of the
// value; a stream that ends later is still a premature end.
func Next[T any](r io.Reader, p Packer[T]) (T, error) {
	cr := &countingReader{r: r}
	v, err := p.Unpack(cr)
	if err != nil {
		var zero T
		if cr.n == 0 && errors.Is(err, ErrPrematureEOF) {
			return zero, io.EOF
		}
		return zero, err
	}
	return v, nil
}
