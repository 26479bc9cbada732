package codec

import "google.golang.org/protobuf/proto"

// Protobuf is a Codec for generated messages. Construct with NewProtobuf.
type Protobuf[T proto.Message] struct {
	new           func() T // constructor for a concrete message (e.g., func() *mypb.User { return &mypb.User{} })
	deterministic bool
}

func NewProtobuf[T proto.Message](ctor func() T) Protobuf[T] {
	return Protobuf[T]{new: ctor}
}

// Deterministic returns a copy that marshals map fields in key order.
func (c Protobuf[T]) Deterministic() Protobuf[T] {
	c.deterministic = true
	return c
}

func (c Protobuf[T]) Encode(v T) ([]byte, error) {
	return proto.MarshalOptions{Deterministic: c.deterministic}.Marshal(v)
}

func (c Protobuf[T]) Decode(b []byte) (T, error) {
	m := c.new()
	if err := proto.Unmarshal(b, m); err != nil {
		var zero T
		return zero, err
	}
	return m, nil
}
