package redis

import (
	"context"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"

	pr "github.com/unkn0wn-root/packers/provider"
)

var ErrNilClient = errors.New("redis provider: nil client")

// Redis stores packed entries in a Redis (or cluster/sentinel) deployment.
type Redis struct {
	rdb         goredis.UniversalClient
	closeClient bool
	opTimeout   time.Duration
}

var _ pr.Provider = (*Redis)(nil)

type Config struct {
	Client      goredis.UniversalClient
	CloseClient bool          // set true only if this provider exclusively owns the client
	OpTimeout   time.Duration // per-command deadline on top of ctx; 0 = ctx only
}

func New(cfg Config) (*Redis, error) {
	if cfg.Client == nil {
		return nil, ErrNilClient
	}
	return &Redis{rdb: cfg.Client, closeClient: cfg.CloseClient, opTimeout: cfg.OpTimeout}, nil
}

func (p *Redis) opCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if p.opTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, p.opTimeout)
}

func (p *Redis) Get(ctx context.Context, key string) ([]byte, bool, error) {
	ctx, cancel := p.opCtx(ctx)
	defer cancel()

	b, err := p.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, false, nil // miss
	}
	if err != nil {
		return nil, false, err // transport/server error
	}
	return b, true, nil
}

func (p *Redis) Set(ctx context.Context, key string, value []byte, _ int64, ttl time.Duration) (bool, error) {
	ctx, cancel := p.opCtx(ctx)
	defer cancel()

	if ttl < 0 {
		ttl = 0 // "no expiry" per provider contract
	}
	if err := p.rdb.Set(ctx, key, value, ttl).Err(); err != nil {
		return false, err
	}
	return true, nil
}

func (p *Redis) Del(ctx context.Context, key string) error {
	ctx, cancel := p.opCtx(ctx)
	defer cancel()
	return p.rdb.Del(ctx, key).Err()
}

// Close releases the underlying redis client only when this provider owns it.
// Safe to call multiple times; repeated calls become no-ops.
func (p *Redis) Close(context.Context) error {
	if p.closeClient {
		if err := p.rdb.Close(); err != nil && !errors.Is(err, goredis.ErrClosed) {
			return err
		}
	}
	return nil
}
