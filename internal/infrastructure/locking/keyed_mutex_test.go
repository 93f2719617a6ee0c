package locking

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyedMutex_LockUnlock(t *testing.T) {
	km := NewKeyedMutex()
	key := uuid.New()

	require.True(t, km.Lock(context.Background(), key))
	km.Unlock(key)
	require.True(t, km.Lock(context.Background(), key))
	km.Unlock(key)
}

func TestKeyedMutex_BoundedWait(t *testing.T) {
	km := NewKeyedMutex()
	key := uuid.New()

	require.True(t, km.Lock(context.Background(), key))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	assert.False(t, km.Lock(ctx, key))

	km.Unlock(key)
	require.True(t, km.Lock(context.Background(), key))
	km.Unlock(key)
}

func TestKeyedMutex_IndependentKeys(t *testing.T) {
	km := NewKeyedMutex()
	a, b := uuid.New(), uuid.New()

	require.True(t, km.Lock(context.Background(), a))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	assert.True(t, km.Lock(ctx, b))

	km.Unlock(a)
	km.Unlock(b)
}

func TestKeyedMutex_MutualExclusion(t *testing.T) {
	km := NewKeyedMutex()
	key := uuid.New()

	var wg sync.WaitGroup
	counter := 0
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			require.True(t, km.Lock(context.Background(), key))
			counter++
			km.Unlock(key)
		}()
	}
	wg.Wait()

	assert.Equal(t, 32, counter)
}
