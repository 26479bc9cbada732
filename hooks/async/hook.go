// usage:
//
//	raw := sloghooks.New(slog.Default(), sloghooks.Options{
//	    PrematureEOFEvery: 10, // sample logs: ~every 10th truncated value
//	    MalformedEvery:    1,  // log every malformed input
//	})
//
//	hooks := asynchook.New(raw, 1, 1000) // 1 worker; queue 1000 events
//	defer hooks.Close()
//
//	p := packers.Observe(packers.ListOf(packers.Str), packers.ObserveOptions{
//	    Name:  "names",
//	    Hooks: hooks, // or `raw` if you don't want async
//	})
package asynchook

import (
	"sync"

	"github.com/unkn0wn-root/packers"
)

// Hooks forwards events to inner on background workers. When the queue is
// full events are dropped; Dropped reports how many.
type Hooks struct {
	inner packers.Hooks
	q     chan func()
	wg    sync.WaitGroup
	once  sync.Once

	mu      sync.Mutex
	dropped uint64
}

var _ packers.Hooks = (*Hooks)(nil)

func New(inner packers.Hooks, workers, qlen int) *Hooks {
	if workers <= 0 {
		workers = 1
	}
	if qlen <= 0 {
		qlen = 1024
	}

	q := make(chan func(), qlen)
	h := &Hooks{inner: inner, q: q}
	h.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer h.wg.Done()
			for f := range q {
				f()
			}
		}()
	}
	return h
}

// Close drains queued events and stops the workers. Events sent after Close
// are dropped.
func (h *Hooks) Close() {
	h.once.Do(func() {
		h.mu.Lock()
		close(h.q)
		h.q = nil
		h.mu.Unlock()
		h.wg.Wait()
	})
}

func (h *Hooks) Dropped() uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.dropped
}

func (h *Hooks) try(f func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.q == nil {
		h.dropped++
		return
	}
	select {
	case h.q <- f:
	default: // drop
		h.dropped++
	}
}

func (h *Hooks) PrematureEOF(p string, n int) { h.try(func() { h.inner.PrematureEOF(p, n) }) }
func (h *Hooks) Malformed(p string, err error) {
	h.try(func() { h.inner.Malformed(p, err) })
}
func (h *Hooks) StreamFailure(p, op string, err error) {
	h.try(func() { h.inner.StreamFailure(p, op, err) })
}
