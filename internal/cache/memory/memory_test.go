package memory

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSetGetDelete(t *testing.T) {
	c := New(time.Minute)

	_, ok := c.Get("nada")
	assert.False(t, ok)

	c.Set("k", []byte("v"), time.Minute)
	b, ok := c.Get("k")
	assert.True(t, ok)
	assert.Equal(t, []byte("v"), b)

	c.Delete("k")
	_, ok = c.Get("k")
	assert.False(t, ok)
}

func TestZeroTTLNeverExpires(t *testing.T) {
	c := New(0)
	c.Set("k", []byte("v"), 0)

	b, ok := c.Get("k")
	assert.True(t, ok)
	assert.Equal(t, []byte("v"), b)
}

func TestIncr(t *testing.T) {
	c := New(time.Minute)

	assert.Equal(t, int64(1), c.Incr("hits", time.Minute))
	assert.Equal(t, int64(2), c.Incr("hits", time.Minute))
	assert.Equal(t, int64(1), c.Incr("otros", time.Minute))
}

func TestIncrConcurrent(t *testing.T) {
	c := New(time.Minute)

	const goroutines, perG = 8, 25
	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perG; j++ {
				c.Incr("hits", time.Minute)
			}
		}()
	}
	wg.Wait()

	// ningún incremento se pierde entre goroutines
	assert.Equal(t, int64(goroutines*perG+1), c.Incr("hits", time.Minute))
}

func TestExpiry(t *testing.T) {
	c := New(time.Minute)
	c.Set("k", []byte("v"), 10*time.Millisecond)

	time.Sleep(30 * time.Millisecond)
	_, ok := c.Get("k")
	assert.False(t, ok)
}
