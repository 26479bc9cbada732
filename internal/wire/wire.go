package wire

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/unkn0wn-root/packers"
)

const version int8 = 1

var (
	ErrCorrupt = errors.New("packers: corrupt store entry")
	magic4     = [...]byte{'P', 'K', 'R', 'S'}
)

func hasMagic(b []byte) bool {
	return len(b) >= 4 && bytes.Equal(b[:4], magic4[:])
}

// Entry is what store.Store writes to a provider.
type Entry struct {
	Stored  time.Time // millisecond precision, UTC
	Payload []byte
}

// Entry: magic(4) | ver(Int8) | stored(Date) | payload(Buffer)
func EncodeEntry(e Entry) ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(4 + 1 + 8 + 4 + len(e.Payload))

	buf.Write(magic4[:])
	if err := packers.Int8.Pack(&buf, version); err != nil {
		return nil, err
	}
	if err := packers.Date.Pack(&buf, e.Stored); err != nil {
		return nil, err
	}
	if err := packers.Buffer.Pack(&buf, e.Payload); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DecodeEntry validates and unpacks an entry. maxPayload > 0 caps the payload
// length. Every failure wraps ErrCorrupt.
func DecodeEntry(b []byte, maxPayload int) (Entry, error) {
	if !hasMagic(b) {
		return Entry{}, ErrCorrupt
	}
	r := bytes.NewReader(b[4:])

	ver, err := packers.Int8.Unpack(r)
	if err != nil {
		return Entry{}, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	if ver != version {
		return Entry{}, fmt.Errorf("%w: version %d", ErrCorrupt, ver)
	}

	stored, err := packers.Date.Unpack(r)
	if err != nil {
		return Entry{}, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}

	payload, err := packers.BufferPacker{Max: maxPayload}.Unpack(r)
	if err != nil {
		return Entry{}, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}

	if r.Len() != 0 {
		return Entry{}, fmt.Errorf("%w: %d trailing bytes", ErrCorrupt, r.Len())
	}
	return Entry{Stored: stored, Payload: payload}, nil
}
