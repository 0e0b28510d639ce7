// Package cache provee un cache chico multi-backend: memoria (dev/test)
// o Redis (producción). Lo usan el rate limiter de login y la tabla de
// coeficientes del fast quote.
package cache

import "time"

// Cache es la interfaz mínima que consumen los callers.
type Cache interface {
	// Get retorna el valor y si existe.
	Get(key string) ([]byte, bool)

	// Set guarda el valor con TTL. ttl 0 = sin expiración.
	Set(key string, value []byte, ttl time.Duration)

	// Delete elimina la key (no-op si no existe).
	Delete(key string)

	// Incr incrementa atómicamente el contador de la key y retorna el valor
	// nuevo. La primera llamada crea el contador en 1 con el TTL dado.
	Incr(key string, ttl time.Duration) int64
}
