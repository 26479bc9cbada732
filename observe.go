package packers

import "io"

// ObserveOptions tune an Observed packer. All fields are optional.
type ObserveOptions struct {
	Name   string // reported as "packer" in logs and hooks; "" => "packer"
	Logger Logger // nil => NopLogger
	Hooks  Hooks  // nil => NopHooks
}

// Observed wraps a Packer and reports every call to a Logger and Hooks.
// The bytes on the wire are exactly those of the wrapped packer.
type Observed[T any] struct {
	inner Packer[T]
	name  string
	log   Logger
	hooks Hooks
}

var _ Packer[int32] = Observed[int32]{}

// Observe wraps inner. Errors are passed through unchanged.
func Observe[T any](inner Packer[T], opts ObserveOptions) Observed[T] {
	return Observed[T]{
		inner: inner,
		name:  coalesce(opts.Name, "packer"),
		log:   coalesce[Logger](opts.Logger, NopLogger{}),
		hooks: coalesce[Hooks](opts.Hooks, NopHooks{}),
	}
}

func (o Observed[T]) Pack(w io.Writer, v T) error {
	cw := &countingWriter{w: w}
	if err := o.inner.Pack(cw, v); err != nil {
		o.failed("pack", cw.n, err)
		return err
	}
	o.log.Debug("packed", Fields{"packer": o.name, "bytes": cw.n})
	return nil
}

func (o Observed[T]) Unpack(r io.Reader) (T, error) {
	cr := &countingReader{r: r}
	v, err := o.inner.Unpack(cr)
	if err != nil {
		o.failed("unpack", cr.n, err)
		var zero T
		return zero, err
	}
	o.log.Debug("unpacked", Fields{"packer": o.name, "bytes": cr.n})
	return v, nil
}

func (o Observed[T]) failed(op string, n int, err error) {
	f := Fields{"packer": o.name, "op": op, "bytes": n, "err": err}
	switch {
	case IsPrematureEOF(err):
		f["class"] = "premature_eof"
		o.hooks.PrematureEOF(o.name, n)
		o.log.Warn(op+" failed", f)
	case IsMalformed(err):
		f["class"] = "malformed"
		o.hooks.Malformed(o.name, err)
		o.log.Warn(op+" failed", f)
	case IsStream(err):
		f["class"] = "stream"
		o.hooks.StreamFailure(o.name, op, err)
		o.log.Error(op+" failed", f)
	default:
		// element packers outside this package (e.g. codec.Framed) may fail on their own terms
		f["class"] = "other"
		o.log.Error(op+" failed", f)
	}
}

// coalesce returns def when v is the zero value of T.
func coalesce[T comparable](v, def T) T {
	var zero T
	if v == zero {
		return def
	}
	return v
}
