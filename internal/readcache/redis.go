package readcache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	redisValuePrefix   = "readcache:v:"
	redisTagSetPrefix  = "readcache:tag:"
	redisVersionPrefix = "readcache:tagv:"
)

// Redis is a Backend shared by every process instance.
type Redis struct {
	client redis.UniversalClient
}

func NewRedis(client redis.UniversalClient) *Redis {
	return &Redis{client: client}
}

func (r *Redis) Versions(ctx context.Context, tags []string) ([]int64, error) {
	out := make([]int64, len(tags))
	if len(tags) == 0 {
		return out, nil
	}
	keys := make([]string, len(tags))
	for i, tag := range tags {
		keys[i] = redisVersionPrefix + tag
	}
	vals, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}
	for i, v := range vals {
		s, ok := v.(string)
		if !ok {
			continue
		}
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("tag version %s: %w", tags[i], err)
		}
		out[i] = n
	}
	return out, nil
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool, error) {
	b, err := r.client.Get(ctx, redisValuePrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}

func (r *Redis) Set(ctx context.Context, key string, tags []string, value []byte, ttl time.Duration) error {
	pipe := r.client.Pipeline()
	pipe.Set(ctx, redisValuePrefix+key, value, ttl)
	for _, tag := range tags {
		pipe.SAdd(ctx, redisTagSetPrefix+tag, key)
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (r *Redis) Bump(ctx context.Context, tags ...string) error {
	var stale []string
	for _, tag := range tags {
		members, err := r.client.SMembers(ctx, redisTagSetPrefix+tag).Result()
		if err != nil {
			return err
		}
		for _, key := range members {
			stale = append(stale, redisValuePrefix+key)
		}
	}

	pipe := r.client.TxPipeline()
	for _, tag := range tags {
		pipe.Incr(ctx, redisVersionPrefix+tag)
		pipe.Del(ctx, redisTagSetPrefix+tag)
	}
	if len(stale) > 0 {
		pipe.Del(ctx, stale...)
	}
	_, err := pipe.Exec(ctx)
	return err
}
