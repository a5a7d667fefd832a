// Package sync provides concurrency primitives shared across contexts.
package sync

import (
	"hash/fnv"
	"sync"
)

// shardCount balances memory against collision odds. Must be a power of
// two so the modulo stays cheap.
const shardCount = 64

// KeyedMutex serializes work per string key while letting distinct keys
// proceed in parallel. Keys map onto a fixed set of shards, so unrelated
// keys occasionally share a lock; callers must tolerate that.
//
// The zero value is ready to use.
type KeyedMutex struct {
	shards [shardCount]sync.Mutex
}

// Lock acquires the lock for key's shard.
func (m *KeyedMutex) Lock(key string) {
	m.shards[m.index(key)].Lock()
}

// Unlock releases the lock for key's shard.
func (m *KeyedMutex) Unlock(key string) {
	m.shards[m.index(key)].Unlock()
}

// Do runs fn while holding key's lock.
func (m *KeyedMutex) Do(key string, fn func()) {
	m.Lock(key)
	defer m.Unlock(key)
	fn()
}

func (m *KeyedMutex) index(key string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return h.Sum32() % shardCount
}
