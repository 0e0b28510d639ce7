// Package rate implementa un fixed-window limiter sobre el cache del
// proceso. Se aplica al endpoint de login.
package rate

import (
	"fmt"
	"strings"
	"time"

	"github.com/dropDatabas3/coldquote/internal/cache"
)

// Result describe el estado de la ventana tras contar el hit.
type Result struct {
	Allowed    bool
	Remaining  int64
	RetryAfter time.Duration
}

// Limiter decide si una key puede seguir pegando.
type Limiter interface {
	Allow(key string) Result
}

// WindowLimiter: fixed window sencillo (contador por key + ventana truncada).
type WindowLimiter struct {
	Cache  cache.Cache
	Prefix string
	Max    int64
	Window time.Duration
}

// New crea un limiter con max hits por ventana.
func New(c cache.Cache, prefix string, max int, window time.Duration) *WindowLimiter {
	if prefix == "" {
		prefix = "rl:"
	}
	return &WindowLimiter{Cache: c, Prefix: prefix, Max: int64(max), Window: window}
}

func (l *WindowLimiter) Allow(key string) Result {
	now := time.Now().UTC()
	winStart := now.Truncate(l.Window)
	k := fmt.Sprintf("%s%s:%d", l.Prefix, strings.ReplaceAll(key, " ", "_"), winStart.Unix())
	ttl := l.Window - now.Sub(winStart)

	// el conteo va por el incremento atómico del cache: dos hits simultáneos
	// cuentan como dos
	hits := l.Cache.Incr(k, ttl)

	remaining := l.Max - hits
	if remaining < 0 {
		remaining = 0
	}
	res := Result{Allowed: hits <= l.Max, Remaining: remaining}
	if !res.Allowed {
		res.RetryAfter = ttl
	}
	return res
}
