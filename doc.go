// Package packers implements a small binary serialization layer: typed
// encoders/decoders ("packers") that move one value at a time between memory
// and a byte stream under a fixed wire format.
//
// Wire format (big-endian, no padding, no type tags):
//
//	Int8, Bool                  1 byte
//	Int16                       2 bytes
//	Int32                       4 bytes
//	Int64, ObjRef, Float, Date  8 bytes (Date = Unix milliseconds)
//	Buffer, Str                 Int32 length n | n bytes (UTF-8 for Str)
//	ListOf, SetOf               Int32 count n  | n elements
//	MapOf                       Int32 count n  | n * (key | value)
//
// A decode either returns a complete value or an error. Errors fall in three
// classes, distinguishable with errors.Is / errors.As:
//   - *StreamError: the reader or writer itself failed.
//   - ErrPrematureEOF (*ShortReadError): the stream ended inside a value.
//   - ErrMalformed: negative or oversized length, invalid UTF-8, trailing bytes.
//
// Packers hold no mutable state and may be shared between goroutines.
// A single stream must not be.
//
// Usage:
//
//	users := packers.MapOf(packers.Str, packers.ListOf(packers.Int64))
//	if err := users.Pack(conn, m); err != nil { ... }
//	m, err := users.Unpack(conn)
package packers
