package matcher

import (
	"sync"

	"github.com/RideMatch1/qubic-church-sub003/internal/derive"
	"github.com/RideMatch1/qubic-church-sub003/internal/seed"
)

// memoResetThreshold bounds the derivation cache: past this many entries the
// whole map is dropped rather than evicted piecemeal, since every entry is
// equally cheap to recompute.
const memoResetThreshold = 1 << 20

// memoCache remembers (seed, scheme) -> private key. Derivation is pure, so
// caching by value is always safe; only successful derivations are stored.
type memoCache struct {
	mu   sync.RWMutex
	keys map[string][32]byte
}

func (c *memoCache) get(key string) ([32]byte, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	k, ok := c.keys[key]
	return k, ok
}

func (c *memoCache) put(key string, k [32]byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.keys == nil || len(c.keys) >= memoResetThreshold {
		c.keys = make(map[string][32]byte)
	}
	c.keys[key] = k
}

func (m *Matcher) derivePrivateKey(sd seed.Seed, sc derive.Scheme) ([32]byte, error) {
	cacheKey := sc.CacheKey() + "|" + sd.CacheKey()
	if k, ok := m.memo.get(cacheKey); ok {
		return k, nil
	}
	k, err := derive.PrivateKey(sd, sc)
	if err != nil {
		return [32]byte{}, err
	}
	m.memo.put(cacheKey, k)
	return k, nil
}
