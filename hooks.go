package packers

// Hooks are lightweight callbacks for decode and stream failures seen by an
// Observed packer. Implementations MUST be cheap and non-blocking; wrap slow
// ones with hooks/async.
type Hooks interface {
	// The stream ended inside a value after consumed bytes of it were read.
	PrematureEOF(packer string, consumed int)

	// Input (or, on Pack, a value) violated the wire format:
	// negative or oversized length, invalid UTF-8, trailing bytes.
	Malformed(packer string, err error)

	// The underlying reader or writer failed. op ∈ {"pack", "unpack"}
	StreamFailure(packer, op string, err error)
}

// NopHooks is the default no-op
type NopHooks struct{}

func (NopHooks) PrematureEOF(string, int)            {}
func (NopHooks) Malformed(string, error)             {}
func (NopHooks) StreamFailure(string, string, error) {}
