package redisrepo

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

type Default interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Version(ctx context.Context, versionKey string) (int64, error)
	Invalidate(ctx context.Context, key string, versionKey string) error
	SetJSONIfVersion(ctx context.Context, key string, value interface{}, ttl time.Duration, versionKey string, version int64) (bool, error)
}

type RedisRepository struct {
	Default
}

func New(rdb *redis.Client) *RedisRepository {
	return &RedisRepository{
		Default: newDefaultRepo(rdb),
	}
}
