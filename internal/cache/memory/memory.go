package memory

import (
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/dropDatabas3/coldquote/internal/cache"
)

type Mem struct{ c *gocache.Cache }

// New crea un cache en memoria con el TTL por defecto dado.
func New(defaultTTL time.Duration) cache.Cache {
	if defaultTTL <= 0 {
		defaultTTL = gocache.NoExpiration
	}
	return &Mem{c: gocache.New(defaultTTL, time.Minute)}
}

func (m *Mem) Get(k string) ([]byte, bool) {
	v, ok := m.c.Get(k)
	if !ok {
		return nil, false
	}
	b, _ := v.([]byte)
	return b, true
}

func (m *Mem) Set(k string, v []byte, ttl time.Duration) {
	if ttl <= 0 {
		ttl = gocache.NoExpiration
	}
	m.c.Set(k, v, ttl)
}

func (m *Mem) Delete(k string) { m.c.Delete(k) }

func (m *Mem) Incr(k string, ttl time.Duration) int64 {
	if ttl <= 0 {
		ttl = gocache.NoExpiration
	}
	// Add solo escribe si la key no existe; el incremento es atómico adentro
	// de go-cache
	_ = m.c.Add(k, int64(0), ttl)
	n, err := m.c.IncrementInt64(k, 1)
	if err != nil {
		m.c.Set(k, int64(1), ttl)
		return 1
	}
	return n
}
