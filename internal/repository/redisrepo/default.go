package redisrepo

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

type defaultRepo struct {
	rdb *redis.Client
}

func newDefaultRepo(rdb *redis.Client) Default {
	return &defaultRepo{
		rdb: rdb,
	}
}

func (r *defaultRepo) Get(ctx context.Context, key string) *redis.StringCmd {
	return r.rdb.Get(ctx, key)
}

// Version reads the generation counter guarding a cached key. A missing counter is generation 0.
func (r *defaultRepo) Version(ctx context.Context, versionKey string) (int64, error) {
	version, err := r.rdb.Get(ctx, versionKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return version, err
}

// Invalidate drops the cached value and moves its generation forward, so fills
// computed against the previous generation are rejected by SetJSONIfVersion.
func (r *defaultRepo) Invalidate(ctx context.Context, key string, versionKey string) error {
	_, err := r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, versionKey)
		pipe.Del(ctx, key)
		return nil
	})
	return err
}

// SetJSONIfVersion stores value only while versionKey still holds version.
func (r *defaultRepo) SetJSONIfVersion(ctx context.Context, key string, value interface{}, ttl time.Duration, versionKey string, version int64) (bool, error) {
	valueJSON, err := json.Marshal(value)
	if err != nil {
		return false, err
	}

	stored := false
	err = r.rdb.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, versionKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != version {
			return nil
		}

		if _, err := tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, valueJSON, ttl)
			return nil
		}); err != nil {
			return err
		}

		stored = true
		return nil
	}, versionKey)
	if errors.Is(err, redis.TxFailedErr) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	return stored, nil
}

func GetMany[T any](r Default, ctx context.Context, key string) ([]*T, error) {
	value, err := r.Get(ctx, key).Result()
	if err != nil {
		return nil, err
	}

	if value == "null" {
		return nil, nil
	}

	var result []*T
	if err := json.Unmarshal([]byte(value), &result); err != nil {
		return nil, err
	}

	return result, nil
}
