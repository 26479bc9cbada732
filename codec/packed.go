package codec

import "github.com/unkn0wn-root/packers"

// Packed adapts a stream Packer to a Codec. Decode requires the payload to
// hold exactly one value.
type Packed[V any] struct {
	P packers.Packer[V]
}

var _ Codec[[]string] = Packed[[]string]{}

func (c Packed[V]) Encode(v V) ([]byte, error) { return packers.Marshal(c.P, v) }
func (c Packed[V]) Decode(b []byte) (V, error) { return packers.Unmarshal(c.P, b) }
