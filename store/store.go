// Package store persists packed values in a provider.Provider.
//
// Each value is packed with the configured Packer and wrapped in an envelope
// (magic, version, store time, length-prefixed payload) before it reaches the
// provider. Entries that fail envelope validation or no longer unpack with the
// configured Packer are deleted on read and reported as a miss.
//
// Keys:
//
//	pk:<ns>:r:<key>      - keys up to 200 bytes
//	pk:<ns>:h:<digest>   - longer keys, hashed
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/unkn0wn-root/packers"
	"github.com/unkn0wn-root/packers/internal/util"
	"github.com/unkn0wn-root/packers/internal/wire"
	pr "github.com/unkn0wn-root/packers/provider"
)

const defaultTTL = 10 * time.Minute

type SetCostFunc func(key string, raw []byte) int64

// Item is a stored value together with the time it was written.
type Item[V any] struct {
	Value  V
	Stored time.Time
}

type Store[V any] interface {
	Enabled() bool
	Close(context.Context) error

	Get(ctx context.Context, key string) (v V, ok bool, err error)
	GetItem(ctx context.Context, key string) (it Item[V], ok bool, err error)
	Set(ctx context.Context, key string, value V, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}

// Options tune a Store. Namespace, Provider and Packer are required.
type Options[V any] struct {
	Namespace string
	Provider  pr.Provider
	Packer    packers.Packer[V]

	Logger         packers.Logger   // if nil, NopLogger is used
	DefaultTTL     time.Duration    // 0 => 10m
	MaxPayload     int              // bytes; 0 => unlimited. Larger stored entries read as a miss and are kept
	ComputeSetCost SetCostFunc      // default len(raw)
	Disabled       bool             // default false (enabled)
	Now            func() time.Time // default time.Now
}

type store[V any] struct {
	ns         string
	provider   pr.Provider
	packer     packers.Packer[V]
	log        packers.Logger
	enabled    bool
	defaultTTL time.Duration
	maxPayload int
	cost       SetCostFunc
	now        func() time.Time
}

func New[V any](opts Options[V]) (Store[V], error) {
	return newStore(opts)
}

func newStore[V any](opts Options[V]) (*store[V], error) {
	if opts.Provider == nil {
		return nil, errors.New("store: provider is required")
	}
	if opts.Packer == nil {
		return nil, errors.New("store: packer is required")
	}
	if opts.Namespace == "" {
		return nil, errors.New("store: namespace is required")
	}
	if strings.Contains(opts.Namespace, ":") {
		return nil, fmt.Errorf("store: namespace %q must not contain ':'", opts.Namespace)
	}

	s := &store[V]{
		ns:         opts.Namespace,
		provider:   opts.Provider,
		packer:     opts.Packer,
		enabled:    !opts.Disabled,
		maxPayload: opts.MaxPayload,
	}

	// defaults
	s.log = opts.Logger
	if s.log == nil {
		s.log = packers.NopLogger{}
	}
	s.defaultTTL = opts.DefaultTTL
	if s.defaultTTL <= 0 {
		s.defaultTTL = defaultTTL
	}

	if opts.ComputeSetCost != nil {
		s.cost = opts.ComputeSetCost
	} else {
		s.cost = func(_ string, raw []byte) int64 { return int64(len(raw)) }
	}
	if opts.Now != nil {
		s.now = opts.Now
	} else {
		s.now = time.Now
	}
	return s, nil
}

func (s *store[V]) Enabled() bool { return s.enabled }

func (s *store[V]) Close(ctx context.Context) error {
	return s.provider.Close(ctx)
}

func (s *store[V]) Get(ctx context.Context, key string) (V, bool, error) {
	it, ok, err := s.GetItem(ctx, key)
	return it.Value, ok, err
}

func (s *store[V]) GetItem(ctx context.Context, key string) (Item[V], bool, error) {
	if !s.enabled {
		return Item[V]{}, false, nil
	}
	k := util.Key(s.ns, key)
	raw, ok, err := s.provider.Get(ctx, k)
	if err != nil || !ok {
		return Item[V]{}, false, err
	}

	e, err := wire.DecodeEntry(raw, s.maxPayload)
	if errors.Is(err, packers.ErrTooLarge) {
		// valid for a store with a higher ceiling; not ours to drop
		s.log.Debug("entry over payload limit", packers.Fields{"key": k, "max": s.maxPayload, "err": err})
		return Item[V]{}, false, nil
	}
	if err != nil {
		s.heal(ctx, k, "corrupt", err)
		return Item[V]{}, false, nil
	}
	v, err := packers.Unmarshal(s.packer, e.Payload)
	if err != nil {
		s.heal(ctx, k, "value_unpack", err)
		return Item[V]{}, false, nil
	}
	return Item[V]{Value: v, Stored: e.Stored}, true, nil
}

// heal drops an unreadable entry so the next Set can replace it.
func (s *store[V]) heal(ctx context.Context, k, reason string, cause error) {
	delErr := s.provider.Del(ctx, k)
	f := packers.Fields{"key": k, "reason": reason, "err": cause}
	if delErr != nil {
		f["del_err"] = delErr
		s.log.Warn("self-heal delete failed", f)
		return
	}
	s.log.Debug("self-healed entry", f)
}

func (s *store[V]) Set(ctx context.Context, key string, value V, ttl time.Duration) error {
	if !s.enabled {
		return nil
	}
	if ttl == 0 {
		ttl = s.defaultTTL
	}
	payload, err := packers.Marshal(s.packer, value)
	if err != nil {
		return fmt.Errorf("store: pack %q: %w", key, err)
	}
	if s.maxPayload > 0 && len(payload) > s.maxPayload {
		return fmt.Errorf("store: pack %q: %w: payload %d > %d", key, packers.ErrTooLarge, len(payload), s.maxPayload)
	}
	raw, err := wire.EncodeEntry(wire.Entry{Stored: s.now(), Payload: payload})
	if err != nil {
		return err
	}

	k := util.Key(s.ns, key)
	ok, err := s.provider.Set(ctx, k, raw, s.cost(k, raw), ttl)
	if err != nil {
		return err
	}
	if !ok {
		s.log.Debug("Set rejected by provider (pressure)", packers.Fields{"key": key, "bytes": len(raw)})
	}
	return nil
}

func (s *store[V]) Del(ctx context.Context, key string) error {
	if !s.enabled {
		return nil
	}
	return s.provider.Del(ctx, util.Key(s.ns, key))
}
