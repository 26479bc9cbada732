package codec

import (
	"fmt"
	"io"

	"github.com/unkn0wn-root/packers"
)

// Framed embeds a Codec's output in a packer stream. On the wire it is a
// packers.Buffer: Int32 length followed by the codec payload, so it composes
// with ListOf, MapOf and friends.
//
// Payloads the codec cannot decode are reported as packers.ErrMalformed,
// wrapping the codec's own error.
type Framed[V any] struct {
	Codec Codec[V]
	Max   int // optional payload ceiling, see packers.BufferPacker
}

var _ packers.Packer[struct{}] = Framed[struct{}]{}

func (f Framed[V]) Pack(w io.Writer, v V) error {
	b, err := f.Codec.Encode(v)
	if err != nil {
		return err
	}
	return packers.BufferPacker{Max: f.Max}.Pack(w, b)
}

func (f Framed[V]) Unpack(r io.Reader) (V, error) {
	var zero V
	b, err := packers.BufferPacker{Max: f.Max}.Unpack(r)
	if err != nil {
		return zero, err
	}
	v, err := f.Codec.Decode(b)
	if err != nil {
		return zero, fmt.Errorf("%w: %w", packers.ErrMalformed, err)
	}
	return v, nil
}
