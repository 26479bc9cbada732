// Package codec holds whole-buffer codecs and the bridges between them and
// stream packers: Packed turns a Packer into a Codec, Framed embeds a Codec's
// output in a packer stream as a length-prefixed Buffer.
package codec

// Codec encodes/decodes values V to []byte.
type Codec[V any] interface {
	Encode(V) ([]byte, error)
	Decode([]byte) (V, error)
}
