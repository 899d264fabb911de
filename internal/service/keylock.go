package service

import (
	"context"
	"sync"
)

// keyLock сериализует операции по ключу (номеру счета). Записи для ключа живут, пока есть
// хотя бы один владелец или ожидающий.
type keyLock struct {
	mu      sync.Mutex
	entries map[string]*keyLockEntry
}

type keyLockEntry struct {
	sem  chan struct{}
	refs int
}

func newKeyLock() *keyLock {
	return &keyLock{entries: make(map[string]*keyLockEntry)}
}

// Lock захватывает блокировку ключа или возвращает ошибку контекста. unlock нужно вызвать ровно один раз.
func (k *keyLock) Lock(ctx context.Context, key string) (func(), error) {
	k.mu.Lock()
	entry, ok := k.entries[key]
	if !ok {
		entry = &keyLockEntry{sem: make(chan struct{}, 1)}
		k.entries[key] = entry
	}
	entry.refs++
	k.mu.Unlock()

	select {
	case entry.sem <- struct{}{}:
		return func() {
			<-entry.sem
			k.release(key, entry)
		}, nil
	case <-ctx.Done():
		k.release(key, entry)
		return nil, ctx.Err() //nolint:wrapcheck
	}
}

func (k *keyLock) release(key string, entry *keyLockEntry) {
	k.mu.Lock()
	defer k.mu.Unlock()
	entry.refs--
	if entry.refs == 0 {
		delete(k.entries, key)
	}
}
