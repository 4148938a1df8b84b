package cache

import "sync"

// GuardedShard wraps an LruShard with a mutex, exposing the same Store
// surface under exclusive access. Each operation acquires the mutex for its
// full duration and releases it on every exit path via defer.
//
// There is deliberately no RWMutex split and no condition variable: Get
// does not mutate the list (no promotion-on-read), but it still needs the
// exclusive lock because the underlying map is not safe for concurrent
// read/write with the writers below it. Scaling across independent key
// ranges is the striped package's job, one layer up.
type GuardedShard struct {
	mu    sync.Mutex
	shard *LruShard
}

// NewGuardedShard constructs a mutex-guarded shard with the given byte
// capacity. Panics if maxSize is not positive.
func NewGuardedShard(maxSize int, metrics Metrics) *GuardedShard {
	return &GuardedShard{shard: NewLruShard(maxSize, metrics)}
}

// Put inserts or replaces key->value under the shard lock.
func (g *GuardedShard) Put(key, value string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.shard.Put(key, value)
}

// PutIfAbsent inserts key->value under the shard lock, only if absent.
func (g *GuardedShard) PutIfAbsent(key, value string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.shard.PutIfAbsent(key, value)
}

// Set replaces key's value under the shard lock, only if present.
func (g *GuardedShard) Set(key, value string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.shard.Set(key, value)
}

// Delete removes key under the shard lock.
func (g *GuardedShard) Delete(key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.shard.Delete(key)
}

// Get looks up key under the shard lock.
func (g *GuardedShard) Get(key string) (string, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.shard.Get(key)
}

// Len returns the number of resident entries under the shard lock.
func (g *GuardedShard) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.shard.Len()
}

// Size returns the current resident byte size under the shard lock.
func (g *GuardedShard) Size() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.shard.Size()
}
