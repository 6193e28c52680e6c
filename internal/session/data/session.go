// Package data persists in-progress criteria in redis. Sessions carry
// a TTL so an abandoned dialog expires on its own, and a per-user
// SetNX lock serializes the read-modify-write of every dialog step.
package data

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ViacheslavGolubkov/hotelscout/internal/criteria"
	"github.com/ViacheslavGolubkov/hotelscout/internal/session/biz"
)

const (
	criteriaKeyPrefix = "session:criteria:"
	lockKeyPrefix     = "session:lock:"

	lockRetryInterval = 50 * time.Millisecond
)

// Config tunes session expiry and locking.
type Config struct {
	TTL         time.Duration `mapstructure:"ttl"`          // session expiry
	LockTTL     time.Duration `mapstructure:"lock_ttl"`     // stale-lock guard
	LockTimeout time.Duration `mapstructure:"lock_timeout"` // max wait to acquire
}

// DefaultConfig returns the session store defaults.
func DefaultConfig() *Config {
	return &Config{
		TTL:         30 * time.Minute,
		LockTTL:     10 * time.Second,
		LockTimeout: 5 * time.Second,
	}
}

// CriteriaRepo implements biz.CriteriaRepo on redis.
type CriteriaRepo struct {
	client *redis.Client
	cfg    *Config
}

func NewCriteriaRepo(client *redis.Client, cfg *Config) biz.CriteriaRepo {
	defaults := DefaultConfig()
	if cfg == nil {
		cfg = defaults
	}
	if cfg.TTL <= 0 {
		cfg.TTL = defaults.TTL
	}
	if cfg.LockTTL <= 0 {
		cfg.LockTTL = defaults.LockTTL
	}
	if cfg.LockTimeout <= 0 {
		cfg.LockTimeout = defaults.LockTimeout
	}
	return &CriteriaRepo{client: client, cfg: cfg}
}

func (r *CriteriaRepo) Load(ctx context.Context, userID int64) (*criteria.Criteria, error) {
	raw, err := r.client.Get(ctx, criteriaKey(userID)).Result()
	if err == redis.Nil {
		return nil, biz.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load criteria: %w", err)
	}

	var crit criteria.Criteria
	if err := json.Unmarshal([]byte(raw), &crit); err != nil {
		return nil, fmt.Errorf("decode criteria: %w", err)
	}
	return &crit, nil
}

func (r *CriteriaRepo) Save(ctx context.Context, crit *criteria.Criteria) error {
	raw, err := json.Marshal(crit)
	if err != nil {
		return fmt.Errorf("encode criteria: %w", err)
	}
	if err := r.client.Set(ctx, criteriaKey(crit.UserID), raw, r.cfg.TTL).Err(); err != nil {
		return fmt.Errorf("save criteria: %w", err)
	}
	return nil
}

func (r *CriteriaRepo) Delete(ctx context.Context, userID int64) error {
	if err := r.client.Del(ctx, criteriaKey(userID)).Err(); err != nil {
		return fmt.Errorf("delete criteria: %w", err)
	}
	return nil
}

// WithLock runs fn while holding the user's session lock. The lock
// carries its own TTL so a crashed holder cannot wedge the session.
func (r *CriteriaRepo) WithLock(ctx context.Context, userID int64, fn func(ctx context.Context) error) error {
	key := lockKey(userID)
	deadline := time.Now().Add(r.cfg.LockTimeout)

	for {
		ok, err := r.client.SetNX(ctx, key, "1", r.cfg.LockTTL).Result()
		if err != nil {
			return fmt.Errorf("acquire session lock: %w", err)
		}
		if ok {
			break
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("session lock for user %d: timed out", userID)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(lockRetryInterval):
		}
	}
	defer r.client.Del(ctx, key)

	return fn(ctx)
}

func criteriaKey(userID int64) string {
	return fmt.Sprintf("%s%d", criteriaKeyPrefix, userID)
}

func lockKey(userID int64) string {
	return fmt.Sprintf("%s%d", lockKeyPrefix, userID)
}
