package sloghooks

import (
	"log/slog"
	"sync/atomic"

	"github.com/unkn0wn-root/packers"
)

type Options struct {
	// Sampling to avoid floods; 0/1 = log all.
	PrematureEOFEvery uint64
	MalformedEvery    uint64
	// Stream failures are always logged.
}

type Hooks struct {
	l    *slog.Logger
	opts Options

	eofCtr       atomic.Uint64
	malformedCtr atomic.Uint64
}

var _ packers.Hooks = (*Hooks)(nil)

func New(l *slog.Logger, opts Options) *Hooks {
	return &Hooks{l: l, opts: opts}
}

func sample(n uint64, ctr *atomic.Uint64) bool {
	if n == 0 || n == 1 {
		return true
	}
	return ctr.Add(1)%n == 0
}

func (h *Hooks) PrematureEOF(packer string, consumed int) {
	if h.l == nil || !sample(h.opts.PrematureEOFEvery, &h.eofCtr) {
		return
	}
	h.l.Info("packers.premature_eof",
		"packer", packer,
		"consumed", consumed)
}

func (h *Hooks) Malformed(packer string, err error) {
	if h.l == nil || !sample(h.opts.MalformedEvery, &h.malformedCtr) {
		return
	}
	h.l.Warn("packers.malformed",
		"packer", packer,
		"err", err)
}

func (h *Hooks) StreamFailure(packer, op string, err error) {
	if h.l == nil {
		return
	}
	h.l.Error("packers.stream_failure",
		"packer", packer,
		"op", op,
		"err", err)
}
