package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestKeyLock_SerializesSameKey(t *testing.T) {
	locks := newKeyLock()

	var (
		mu      sync.Mutex
		inside  int
		maxSeen int
	)
	wg := new(sync.WaitGroup)
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := locks.Lock(context.Background(), "001-0001")
			if err != nil {
				t.Error(err)
				return
			}
			defer unlock()

			mu.Lock()
			inside++
			if inside > maxSeen {
				maxSeen = inside
			}
			mu.Unlock()

			time.Sleep(time.Millisecond)

			mu.Lock()
			inside--
			mu.Unlock()
		}()
	}
	wg.Wait()

	require.Equal(t, 1, maxSeen)
	require.Empty(t, locks.entries)
}

func TestKeyLock_DifferentKeysDoNotBlock(t *testing.T) {
	locks := newKeyLock()

	unlockA, err := locks.Lock(context.Background(), "A")
	require.NoError(t, err)
	defer unlockA()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	unlockB, err := locks.Lock(ctx, "B")
	require.NoError(t, err)
	unlockB()
}

func TestKeyLock_ContextCancelled(t *testing.T) {
	locks := newKeyLock()

	unlock, err := locks.Lock(context.Background(), "A")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = locks.Lock(ctx, "A")
	require.ErrorIs(t, err, context.DeadlineExceeded)

	unlock()
	require.Empty(t, locks.entries)
}
