package packers

import (
	"errors"
	"io"
	"slices"
)

const (
	// readChunk bounds how far ahead of the received data ReadExact allocates.
	readChunk = 64 << 10
	// maxEmptyReads matches bufio: that many (0, nil) reads in a row is a broken reader.
	maxEmptyReads = 100
)

// WriteExact writes all of b to w.
func WriteExact(w io.Writer, b []byte) error {
	n, err := w.Write(b)
	if err != nil {
		return &StreamError{Op: "write", Err: err}
	}
	if n != len(b) {
		return &StreamError{Op: "write", Err: io.ErrShortWrite}
	}
	return nil
}

// ReadExact reads exactly n bytes from r. A stream that ends before n bytes
// arrive yields a *ShortReadError; nothing partial is returned.
func ReadExact(r io.Reader, n int) ([]byte, error) {
	if n < 0 {
		return nil, lengthError(ErrNegativeLength, "read", int64(n))
	}
	if n <= readChunk {
		buf := make([]byte, n)
		if err := fill(r, buf, 0, n); err != nil {
			return nil, err
		}
		return buf, nil
	}

	buf := make([]byte, 0, readChunk)
	for len(buf) < n {
		step := min(n-len(buf), readChunk)
		off := len(buf)
		buf = slices.Grow(buf, step)[:off+step]
		if err := fill(r, buf[off:], off, n); err != nil {
			return nil, err
		}
	}
	return buf, nil
}

// readFull fills p completely; used by the fixed-width packers.
func readFull(r io.Reader, p []byte) error {
	return fill(r, p, 0, len(p))
}

// fill reads len(p) bytes into p. done and want describe the enclosing read
// so a short read reports totals for the whole value.
func fill(r io.Reader, p []byte, done, want int) error {
	empty := 0
	for off := 0; off < len(p); {
		m, err := r.Read(p[off:])
		off += m
		if off == len(p) {
			return nil
		}
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return &ShortReadError{Want: want, Got: done + off}
			}
			return &StreamError{Op: "read", Err: err}
		}
		if m > 0 {
			empty = 0
			continue
		}
		if empty++; empty >= maxEmptyReads {
			return &StreamError{Op: "read", Err: io.ErrNoProgress}
		}
	}
	return nil
}

type countingReader struct {
	r io.Reader
	n int
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += n
	return n, err
}

type countingWriter struct {
	w io.Writer
	n int
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += n
	return n, err
}
