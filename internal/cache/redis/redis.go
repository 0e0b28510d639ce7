package redis

import (
	"context"
	"time"

	rdb "github.com/redis/go-redis/v9"

	"github.com/dropDatabas3/coldquote/internal/cache"
)

type Redis struct {
	c      *rdb.Client
	prefix string
}

// New crea un cache sobre Redis. prefix se antepone a todas las keys.
func New(addr string, db int, prefix string) cache.Cache {
	return &Redis{
		c:      rdb.NewClient(&rdb.Options{Addr: addr, DB: db}),
		prefix: prefix,
	}
}

func (r *Redis) Get(k string) ([]byte, bool) {
	b, err := r.c.Get(context.Background(), r.prefix+k).Bytes()
	if err != nil {
		return nil, false
	}
	return b, true
}

func (r *Redis) Set(k string, v []byte, ttl time.Duration) {
	_ = r.c.Set(context.Background(), r.prefix+k, v, ttl).Err()
}

func (r *Redis) Delete(k string) {
	_ = r.c.Del(context.Background(), r.prefix+k).Err()
}

func (r *Redis) Incr(k string, ttl time.Duration) int64 {
	ctx := context.Background()
	n, err := r.c.Incr(ctx, r.prefix+k).Result()
	if err != nil {
		return 0
	}
	// el TTL se fija una sola vez, cuando INCR creó la key
	if n == 1 && ttl > 0 {
		_ = r.c.Expire(ctx, r.prefix+k, ttl).Err()
	}
	return n
}
