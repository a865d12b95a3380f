package lock

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKeyedMutexSerializesSameKey(t *testing.T) {
	km := NewKeyedMutex()

	const workers = 50
	counter := 0

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			km.Lock("user:1")
			defer km.Unlock("user:1")
			counter++
		}()
	}
	wg.Wait()

	require.Equal(t, workers, counter)
}

func TestKeyedMutexIndependentKeys(t *testing.T) {
	km := NewKeyedMutex()

	km.Lock("a")
	done := make(chan struct{})
	go func() {
		// Must not block on a different key.
		km.Lock("b")
		km.Unlock("b")
		close(done)
	}()
	<-done
	km.Unlock("a")
}

func TestKeyedMutexDropsIdleEntries(t *testing.T) {
	km := NewKeyedMutex()

	km.Lock("conversation:42")
	km.Unlock("conversation:42")

	km.mu.Lock()
	defer km.mu.Unlock()
	require.Empty(t, km.entries)
}

func TestKeyedMutexUnlockUnknownKeyPanics(t *testing.T) {
	km := NewKeyedMutex()
	require.Panics(t, func() { km.Unlock("nope") })
}
