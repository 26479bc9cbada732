package packers

import (
	"bytes"
	"errors"
	"maps"
	"slices"
	"testing"
	"time"
)

var (
	_ Packer[[]int32]            = ListPacker[int32]{}
	_ Packer[map[string]int64]   = MapPacker[string, int64]{}
	_ Packer[map[string]int64]   = SortedMapPacker[string, int64]{}
	_ Packer[map[int16]struct{}] = SetPacker[int16]{}
)

func TestListRoundTripKeepsOrder(t *testing.T) {
	p := ListOf[int32](Int32)
	in := []int32{5, -1, 3, 3, 0, 42}
	b, err := Marshal[[]int32](p, in)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if len(b) != 4+4*len(in) {
		t.Fatalf("encoded %d bytes, want %d", len(b), 4+4*len(in))
	}
	got, err := Unmarshal[[]int32](p, b)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !slices.Equal(got, in) {
		t.Fatalf("got %v want %v", got, in)
	}
}

func TestListOfStrings(t *testing.T) {
	p := ListOf[string](Str)
	in := []string{"a", "", "ünï", "日本"}
	b, err := Marshal[[]string](p, in)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	want := []byte{0, 0, 0, 4,
		0, 0, 0, 1, 'a',
		0, 0, 0, 0,
		0, 0, 0, 5, 0xC3, 0xBC, 'n', 0xC3, 0xAF,
		0, 0, 0, 6, 0xE6, 0x97, 0xA5, 0xE6, 0x9C, 0xAC}
	if !bytes.Equal(b, want) {
		t.Fatalf("got %x\nwant %x", b, want)
	}
	got, err := Unmarshal[[]string](p, b)
	if err != nil || !slices.Equal(got, in) {
		t.Fatalf("got %q err %v", got, err)
	}
}

func TestMapRoundTrip(t *testing.T) {
	p := MapOf[string, float64](Str, Float)
	in := map[string]float64{"pi": 3.14159, "e": 2.71828, "": -1, "zero": 0}
	b, err := Marshal[map[string]float64](p, in)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	got, err := Unmarshal[map[string]float64](p, b)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !maps.Equal(got, in) {
		t.Fatalf("got %v want %v", got, in)
	}
}

func TestNestedComposites(t *testing.T) {
	p := MapOf[int64, []map[string]bool](ObjRef, ListOf[map[string]bool](MapOf[string, bool](Str, Bool)))
	in := map[int64][]map[string]bool{
		1: {{"a": true}, {}, {"b": false, "c": true}},
		2: {},
	}
	b, err := Marshal[map[int64][]map[string]bool](p, in)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	got, err := Unmarshal[map[int64][]map[string]bool](p, b)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if len(got) != 2 || len(got[1]) != 3 || len(got[2]) != 0 {
		t.Fatalf("shape mismatch: %v", got)
	}
	for i, m := range in[1] {
		if !maps.Equal(got[1][i], m) {
			t.Fatalf("element %d: got %v want %v", i, got[1][i], m)
		}
	}
}

func TestEmptyComposites(t *testing.T) {
	zero := []byte{0, 0, 0, 0}

	lb, _ := Marshal[[]string](ListOf[string](Str), nil)
	mb, _ := Marshal[map[string]string](MapOf[string, string](Str, Str), map[string]string{})
	sb, _ := Marshal[map[int8]struct{}](SetOf[int8](Int8), nil)
	for name, b := range map[string][]byte{"list": lb, "map": mb, "set": sb} {
		if !bytes.Equal(b, zero) {
			t.Fatalf("%s: empty encodes as %x", name, b)
		}
	}

	// decoding the prefix must not touch anything after it
	r := bytes.NewReader(append(append([]byte{}, zero...), 0xAA))
	l, err := ListOf[int64](Int64).Unpack(r)
	if err != nil || l == nil || len(l) != 0 {
		t.Fatalf("list: got %v err %v", l, err)
	}
	if r.Len() != 1 {
		t.Fatalf("list decode consumed %d extra bytes", 1-r.Len())
	}
	m, err := Unmarshal[map[string]string](MapOf[string, string](Str, Str), zero)
	if err != nil || m == nil || len(m) != 0 {
		t.Fatalf("map: got %v err %v", m, err)
	}
}

func TestMapDuplicateKeyLastWins(t *testing.T) {
	var buf bytes.Buffer
	_ = Int32.Pack(&buf, 3)
	_ = Str.Pack(&buf, "k")
	_ = Int32.Pack(&buf, 1)
	_ = Str.Pack(&buf, "other")
	_ = Int32.Pack(&buf, 7)
	_ = Str.Pack(&buf, "k")
	_ = Int32.Pack(&buf, 2)

	got, err := Unmarshal[map[string]int32](MapOf[string, int32](Str, Int32), buf.Bytes())
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if len(got) != 2 || got["k"] != 2 || got["other"] != 7 {
		t.Fatalf("got %v; want k=2 other=7", got)
	}
}

func TestSortedMapIsDeterministic(t *testing.T) {
	p := SortedMapOf[string, int16](Str, Int16)
	in := map[string]int16{"b": 2, "a": 1, "c": 3}
	first, err := Marshal[map[string]int16](p, in)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	want := []byte{0, 0, 0, 3,
		0, 0, 0, 1, 'a', 0, 1,
		0, 0, 0, 1, 'b', 0, 2,
		0, 0, 0, 1, 'c', 0, 3}
	if !bytes.Equal(first, want) {
		t.Fatalf("got %x want %x", first, want)
	}
	for i := 0; i < 20; i++ {
		b, _ := Marshal[map[string]int16](p, in)
		if !bytes.Equal(b, first) {
			t.Fatalf("output changed between calls")
		}
	}
	// same wire shape as MapOf
	got, err := Unmarshal[map[string]int16](MapOf[string, int16](Str, Int16), first)
	if err != nil || !maps.Equal(got, in) {
		t.Fatalf("MapOf decode: %v err %v", got, err)
	}
}

func TestSetRoundTrip(t *testing.T) {
	p := SetOf[string](Str)
	in := map[string]struct{}{"x": {}, "y": {}, "": {}}
	b, err := Marshal[map[string]struct{}](p, in)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	got, err := Unmarshal[map[string]struct{}](p, b)
	if err != nil || !maps.Equal(got, in) {
		t.Fatalf("got %v err %v", got, err)
	}

	// a list with repeats decodes as a set
	lb, _ := Marshal[[]string](ListOf[string](Str), []string{"a", "a", "b"})
	got, err = Unmarshal[map[string]struct{}](p, lb)
	if err != nil || len(got) != 2 {
		t.Fatalf("got %v err %v", got, err)
	}
}

func TestCompositeNegativeCount(t *testing.T) {
	neg := []byte{0x80, 0, 0, 0}
	if _, err := ListOf[int8](Int8).Unpack(&strictReader{t: t, b: neg}); !errors.Is(err, ErrNegativeLength) {
		t.Fatalf("list: got %v", err)
	}
	if _, err := MapOf[int8, int8](Int8, Int8).Unpack(&strictReader{t: t, b: neg}); !errors.Is(err, ErrNegativeLength) {
		t.Fatalf("map: got %v", err)
	}
	if _, err := SetOf[int8](Int8).Unpack(&strictReader{t: t, b: neg}); !errors.Is(err, ErrNegativeLength) {
		t.Fatalf("set: got %v", err)
	}
}

func TestCompositeMaxLen(t *testing.T) {
	p := ListOf[int8](Int8, WithMaxLen(2))
	if _, err := Marshal[[]int8](p, []int8{1, 2, 3}); !errors.Is(err, ErrTooLarge) {
		t.Fatalf("pack over limit: %v", err)
	}
	if _, err := p.Unpack(&strictReader{t: t, b: []byte{0, 0, 0, 3}}); !errors.Is(err, ErrTooLarge) {
		t.Fatalf("unpack over limit: %v", err)
	}
	if _, err := Marshal[[]int8](p, []int8{1, 2}); err != nil {
		t.Fatalf("at limit: %v", err)
	}
}

func TestHugeCountDoesNotPreallocate(t *testing.T) {
	// count says MaxInt32 but the stream holds one element
	b := []byte{0x7F, 0xFF, 0xFF, 0xFF, 9}
	_, err := ListOf[int8](Int8).Unpack(bytes.NewReader(b))
	if !IsPrematureEOF(err) {
		t.Fatalf("want premature EOF, got %v", err)
	}
}

func TestElementErrorAbortsWholeValue(t *testing.T) {
	var buf bytes.Buffer
	_ = Int32.Pack(&buf, 2)
	_ = Str.Pack(&buf, "ok")
	_ = Buffer.Pack(&buf, []byte{0xC3, 0x28}) // invalid UTF-8
	got, err := Unmarshal[[]string](ListOf[string](Str), buf.Bytes())
	if !errors.Is(err, ErrInvalidUTF8) {
		t.Fatalf("want ErrInvalidUTF8, got %v", err)
	}
	if got != nil {
		t.Fatalf("partial value returned: %v", got)
	}

	var out bytes.Buffer
	if err := ListOf[string](Str).Pack(&out, []string{"fine", "bad\xff"}); !errors.Is(err, ErrInvalidUTF8) {
		t.Fatalf("pack: want ErrInvalidUTF8, got %v", err)
	}
}

// truncations checks that every strict prefix of v's encoding fails as a
// premature end of stream.
func truncations[T any](t *testing.T, name string, p Packer[T], v T) {
	t.Helper()
	b, err := Marshal(p, v)
	if err != nil {
		t.Fatalf("%s: Marshal: %v", name, err)
	}
	for i := 0; i < len(b); i++ {
		_, err := p.Unpack(bytes.NewReader(b[:i]))
		if !IsPrematureEOF(err) {
			t.Fatalf("%s: truncated at %d/%d: want premature EOF, got %v", name, i, len(b), err)
		}
	}
}

func TestTruncationEveryPacker(t *testing.T) {
	truncations[int8](t, "int8", Int8, -5)
	truncations[bool](t, "bool", Bool, true)
	truncations[int16](t, "int16", Int16, 0x1234)
	truncations[int32](t, "int32", Int32, 0x01020304)
	truncations[int64](t, "int64", Int64, -42)
	truncations[int64](t, "objref", ObjRef, 99)
	truncations[float64](t, "float", Float, 2.5)
	truncations[time.Time](t, "date", Date, time.UnixMilli(1_700_000_000_123))
	truncations[[]byte](t, "buffer", Buffer, []byte("payload"))
	truncations[string](t, "str", Str, "héllo 🚀")
	truncations[[]int16](t, "list", ListOf[int16](Int16), []int16{1, 2, 3})
	truncations[map[string][]byte](t, "map", MapOf[string, []byte](Str, Buffer),
		map[string][]byte{"a": {1, 2}, "bb": {}})
	truncations[map[int32]string](t, "sorted map", SortedMapOf[int32, string](Int32, Str),
		map[int32]string{3: "c", 1: "a"})
	truncations[map[string]struct{}](t, "set", SetOf[string](Str), map[string]struct{}{"x": {}, "yz": {}})
}
