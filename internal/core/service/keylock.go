package service

import (
	"hash/fnv"
	"sync"
)

const defaultLockStripes = 64

// keyedMutex serialises work per key using a fixed set of striped mutexes.
// Keys are mapped to stripes with FNV-1a, so two keys may share a stripe but a
// given key always maps to the same one.
type keyedMutex struct {
	stripes []sync.Mutex
}

func newKeyedMutex(n int) *keyedMutex {
	if n <= 0 {
		n = defaultLockStripes
	}
	return &keyedMutex{stripes: make([]sync.Mutex, n)}
}

// Lock acquires the stripe for key and returns its unlock function.
func (k *keyedMutex) Lock(key string) func() {
	m := &k.stripes[k.stripeIndex(key)]
	m.Lock()
	return m.Unlock
}

func (k *keyedMutex) stripeIndex(key string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % uint32(len(k.stripes)))
}
