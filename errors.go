package packers

import (
	"errors"
	"fmt"
	"io"
)

var (
	// ErrPrematureEOF is matched by every decode that ran out of input inside a value.
	ErrPrematureEOF = errors.New("packers: stream ended prematurely")

	// ErrMalformed is the root of every invalid-encoding error.
	ErrMalformed = errors.New("packers: malformed encoding")

	ErrNegativeLength = fmt.Errorf("%w: negative length", ErrMalformed)
	ErrInvalidUTF8    = fmt.Errorf("%w: invalid utf-8", ErrMalformed)
	ErrTooLarge       = fmt.Errorf("%w: length exceeds limit", ErrMalformed)
	ErrTrailingBytes  = fmt.Errorf("%w: trailing bytes after value", ErrMalformed)
)

// ShortReadError reports a stream that ended after Got of Want bytes.
type ShortReadError struct {
	Want int
	Got  int
}

func (e *ShortReadError) Error() string {
	return fmt.Sprintf("%v: got %d of %d bytes", ErrPrematureEOF, e.Got, e.Want)
}

func (e *ShortReadError) Is(target error) bool {
	return target == ErrPrematureEOF || target == io.ErrUnexpectedEOF
}

// StreamError wraps a failure of the underlying reader or writer.
type StreamError struct {
	Op  string // "read" or "write"
	Err error
}

func (e *StreamError) Error() string {
	return fmt.Sprintf("packers: stream %s failed: %v", e.Op, e.Err)
}

func (e *StreamError) Unwrap() error { return e.Err }

// IsPrematureEOF reports whether err is a short read inside a value.
func IsPrematureEOF(err error) bool { return errors.Is(err, ErrPrematureEOF) }

// IsMalformed reports whether err was caused by invalid encoded data.
func IsMalformed(err error) bool { return errors.Is(err, ErrMalformed) }

// IsStream reports whether err came from the underlying reader or writer.
func IsStream(err error) bool {
	var se *StreamError
	return errors.As(err, &se)
}

func lengthError(base error, what string, n int64) error {
	return fmt.Errorf("%w: %s length %d", base, what, n)
}
