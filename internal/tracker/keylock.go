package tracker

import (
	"sync"

	"github.com/gofrs/uuid/v5"
)

// KeyedMutex serializes work per budget id. Entries are reference-counted
// and removed once the last holder unlocks, so the map does not grow with
// the number of budgets ever touched.
type KeyedMutex struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*lockEntry
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{locks: make(map[uuid.UUID]*lockEntry)}
}

// Lock blocks until the key's mutex is held and returns the unlock func.
func (k *KeyedMutex) Lock(key uuid.UUID) func() {
	k.mu.Lock()
	entry, ok := k.locks[key]
	if !ok {
		entry = &lockEntry{}
		k.locks[key] = entry
	}
	entry.refs++
	k.mu.Unlock()

	entry.mu.Lock()

	return func() {
		entry.mu.Unlock()

		k.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}
