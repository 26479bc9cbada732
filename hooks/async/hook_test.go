package asynchook

import (
	"bytes"
	"errors"
	"sync"
	"testing"

	"github.com/unkn0wn-root/packers"
)

type countHooks struct {
	mu     sync.Mutex
	eof    int
	bad    int
	stream int
	block  chan struct{}
}

func (c *countHooks) wait() {
	if c.block != nil {
		<-c.block
	}
}

func (c *countHooks) PrematureEOF(string, int) {
	c.wait()
	c.mu.Lock()
	c.eof++
	c.mu.Unlock()
}

func (c *countHooks) Malformed(string, error) {
	c.wait()
	c.mu.Lock()
	c.bad++
	c.mu.Unlock()
}

func (c *countHooks) StreamFailure(string, string, error) {
	c.wait()
	c.mu.Lock()
	c.stream++
	c.mu.Unlock()
}

func TestEventsDeliveredBeforeClose(t *testing.T) {
	inner := &countHooks{}
	h := New(inner, 2, 64)

	p := packers.Observe[string](packers.Str, packers.ObserveOptions{Hooks: h})
	for i := 0; i < 5; i++ {
		_, _ = p.Unpack(bytes.NewReader([]byte{0, 0}))                   // premature
		_, _ = p.Unpack(bytes.NewReader([]byte{0xFF, 0xFF, 0xFF, 0xFF})) // negative length
	}
	h.StreamFailure("x", "pack", errors.New("boom"))
	h.Close()

	if inner.eof != 5 || inner.bad != 5 || inner.stream != 1 {
		t.Fatalf("got eof=%d bad=%d stream=%d", inner.eof, inner.bad, inner.stream)
	}
	if h.Dropped() != 0 {
		t.Fatalf("dropped %d", h.Dropped())
	}
}

func TestFullQueueDrops(t *testing.T) {
	inner := &countHooks{block: make(chan struct{})}
	h := New(inner, 1, 1)

	// worker blocks on the first event; the queue holds one more; the rest drop
	for i := 0; i < 10; i++ {
		h.PrematureEOF("p", i)
	}
	if h.Dropped() == 0 {
		t.Fatalf("expected drops with a blocked worker")
	}
	close(inner.block)
	h.Close()

	delivered := uint64(inner.eof)
	if delivered+h.Dropped() != 10 {
		t.Fatalf("delivered %d + dropped %d != 10", delivered, h.Dropped())
	}
}

func TestSendAfterCloseIsDropped(t *testing.T) {
	h := New(packers.NopHooks{}, 1, 4)
	h.Close()
	h.Malformed("p", errors.New("x"))
	h.Close() // idempotent
	if h.Dropped() != 1 {
		t.Fatalf("dropped=%d want 1", h.Dropped())
	}
}
