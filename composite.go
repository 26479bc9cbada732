package packers

import (
	"cmp"
	"io"
	"maps"
	"math"
	"slices"
)

// maxPrealloc caps capacity reserved from an untrusted count prefix.
const maxPrealloc = 1024

type limits struct {
	maxLen int
}

// Option configures a composite packer.
type Option func(*limits)

// WithMaxLen rejects decoded (and encoded) counts above n. n <= 0 disables the limit.
func WithMaxLen(n int) Option {
	return func(l *limits) { l.maxLen = n }
}

func newLimits(opts []Option) limits {
	var l limits
	for _, o := range opts {
		o(&l)
	}
	return l
}

func (l limits) check(what string, n int64) error {
	switch {
	case n < 0:
		return lengthError(ErrNegativeLength, what, n)
	case n > math.MaxInt32:
		return lengthError(ErrTooLarge, what, n)
	case l.maxLen > 0 && n > int64(l.maxLen):
		return lengthError(ErrTooLarge, what, n)
	}
	return nil
}

func (l limits) packCount(w io.Writer, what string, n int) error {
	if err := l.check(what, int64(n)); err != nil {
		return err
	}
	return Int32.Pack(w, int32(n))
}

func (l limits) unpackCount(r io.Reader, what string) (int, error) {
	n, err := Int32.Unpack(r)
	if err != nil {
		return 0, err
	}
	if err := l.check(what, int64(n)); err != nil {
		return 0, err
	}
	return int(n), nil
}

// ListPacker encodes a slice as an Int32 count followed by each element.
type ListPacker[T any] struct {
	elem Packer[T]
	lim  limits
}

// ListOf returns a packer for []T that delegates elements to elem.
func ListOf[T any](elem Packer[T], opts ...Option) ListPacker[T] {
	return ListPacker[T]{elem: elem, lim: newLimits(opts)}
}

func (p ListPacker[T]) Pack(w io.Writer, v []T) error {
	if err := p.lim.packCount(w, "list", len(v)); err != nil {
		return err
	}
	for _, e := range v {
		if err := p.elem.Pack(w, e); err != nil {
			return err
		}
	}
	return nil
}

// Unpack returns a non-nil slice, in stream order.
func (p ListPacker[T]) Unpack(r io.Reader) ([]T, error) {
	n, err := p.lim.unpackCount(r, "list")
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, min(n, maxPrealloc))
	for i := 0; i < n; i++ {
		e, err := p.elem.Unpack(r)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

// MapPacker encodes a map as an Int32 count followed by key/value pairs.
// Pairs are written in map iteration order, so the output for a given map is
// not stable across calls. Use SortedMapOf when byte-stable output matters.
// On decode a repeated key overwrites the earlier entry.
type MapPacker[K comparable, V any] struct {
	key Packer[K]
	val Packer[V]
	lim limits
}

// MapOf returns a packer for map[K]V.
func MapOf[K comparable, V any](key Packer[K], val Packer[V], opts ...Option) MapPacker[K, V] {
	return MapPacker[K, V]{key: key, val: val, lim: newLimits(opts)}
}

func (p MapPacker[K, V]) Pack(w io.Writer, m map[K]V) error {
	if err := p.lim.packCount(w, "map", len(m)); err != nil {
		return err
	}
	for k, v := range m {
		if err := p.packEntry(w, k, v); err != nil {
			return err
		}
	}
	return nil
}

func (p MapPacker[K, V]) packEntry(w io.Writer, k K, v V) error {
	if err := p.key.Pack(w, k); err != nil {
		return err
	}
	return p.val.Pack(w, v)
}

func (p MapPacker[K, V]) Unpack(r io.Reader) (map[K]V, error) {
	n, err := p.lim.unpackCount(r, "map")
	if err != nil {
		return nil, err
	}
	out := make(map[K]V, min(n, maxPrealloc))
	for i := 0; i < n; i++ {
		k, err := p.key.Unpack(r)
		if err != nil {
			return nil, err
		}
		v, err := p.val.Unpack(r)
		if err != nil {
			return nil, err
		}
		out[k] = v
	}
	return out, nil
}

// SortedMapPacker writes entries in ascending key order. The wire shape is the
// one MapPacker reads.
type SortedMapPacker[K cmp.Ordered, V any] struct {
	MapPacker[K, V]
}

// SortedMapOf returns a map packer with deterministic output.
func SortedMapOf[K cmp.Ordered, V any](key Packer[K], val Packer[V], opts ...Option) SortedMapPacker[K, V] {
	return SortedMapPacker[K, V]{MapOf(key, val, opts...)}
}

func (p SortedMapPacker[K, V]) Pack(w io.Writer, m map[K]V) error {
	if err := p.lim.packCount(w, "map", len(m)); err != nil {
		return err
	}
	for _, k := range slices.Sorted(maps.Keys(m)) {
		if err := p.packEntry(w, k, m[k]); err != nil {
			return err
		}
	}
	return nil
}

// SetPacker encodes a set as a list of its members.
// Repeated members on the wire collapse on decode.
type SetPacker[T comparable] struct {
	elem Packer[T]
	lim  limits
}

// SetOf returns a packer for map[T]struct{}.
func SetOf[T comparable](elem Packer[T], opts ...Option) SetPacker[T] {
	return SetPacker[T]{elem: elem, lim: newLimits(opts)}
}

func (p SetPacker[T]) Pack(w io.Writer, s map[T]struct{}) error {
	if err := p.lim.packCount(w, "set", len(s)); err != nil {
		return err
	}
	for e := range s {
		if err := p.elem.Pack(w, e); err != nil {
			return err
		}
	}
	return nil
}

func (p SetPacker[T]) Unpack(r io.Reader) (map[T]struct{}, error) {
	n, err := p.lim.unpackCount(r, "set")
	if err != nil {
		return nil, err
	}
	out := make(map[T]struct{}, min(n, maxPrealloc))
	for i := 0; i < n; i++ {
		e, err := p.elem.Unpack(r)
		if err != nil {
			return nil, err
		}
		out[e] = struct{}{}
	}
	return out, nil
}
