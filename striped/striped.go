package striped

import (
	"fmt"

	"github.com/nrondon/shardkv/cache"
	"github.com/nrondon/shardkv/internal/util"
)

// MinShardCapacity is the reference floor for per-shard byte capacity: a
// stripe count that would push any shard below this is rejected at
// construction rather than silently producing a cache that refuses every
// write larger than a few bytes.
const MinShardCapacity = 2 * 1024 * 1024 // 2 MiB

// CapacityError is returned by Build/BuildWithFloor when the requested
// stripe count would give each shard fewer bytes than the floor.
type CapacityError struct {
	PerShard int
	Floor    int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("stripe too small: %d bytes", e.PerShard)
}

// Options configures metrics wiring for a StripedCache's shards. The zero
// value is safe: Metrics defaults to cache.NoopMetrics.
type Options struct {
	Metrics cache.Metrics
}

// StripedCache is a fixed array of cache.GuardedShards indexed by a hash of
// the key. It implements cache.Store.
type StripedCache struct {
	shards  []*cache.GuardedShard
	reqs    []util.PaddedAtomicUint64 // per-shard request counters, lock-free
	options Options
}

var _ cache.Store = (*StripedCache)(nil)

// Build constructs a StripedCache with stripeCount shards sharing
// aggregateMaxSize bytes, split evenly (floor division). stripeCount<=0
// selects an automatic count via util.ReasonableShardCount. Fails with a
// *CapacityError if the resulting per-shard capacity is below
// MinShardCapacity.
func Build(stripeCount, aggregateMaxSize int, opt Options) (*StripedCache, error) {
	return BuildWithFloor(stripeCount, aggregateMaxSize, MinShardCapacity, opt)
}

// BuildWithFloor is Build with an explicit per-shard capacity floor,
// for callers that know their workload tolerates smaller shards (or need a
// larger one than the 2 MiB reference value).
func BuildWithFloor(stripeCount, aggregateMaxSize, floor int, opt Options) (*StripedCache, error) {
	if stripeCount <= 0 {
		stripeCount = util.ReasonableShardCount()
	}
	if opt.Metrics == nil {
		opt.Metrics = cache.NoopMetrics{}
	}

	perShard := aggregateMaxSize / stripeCount
	if perShard < floor {
		return nil, &CapacityError{PerShard: perShard, Floor: floor}
	}

	shards := make([]*cache.GuardedShard, stripeCount)
	for i := range shards {
		shards[i] = cache.NewGuardedShard(perShard, opt.Metrics)
	}
	return &StripedCache{
		shards:  shards,
		reqs:    make([]util.PaddedAtomicUint64, stripeCount),
		options: opt,
	}, nil
}

// StripeCount returns the immutable number of shards N.
func (c *StripedCache) StripeCount() int { return len(c.shards) }

// Len returns the total number of resident entries across all shards.
func (c *StripedCache) Len() int {
	total := 0
	for _, s := range c.shards {
		total += s.Len()
	}
	return total
}

// Put routes to shard hash(key) mod N and inserts or replaces key->value.
func (c *StripedCache) Put(key, value string) bool {
	return c.shardFor(key).Put(key, value)
}

// PutIfAbsent routes to shard hash(key) mod N and inserts only if absent.
func (c *StripedCache) PutIfAbsent(key, value string) bool {
	return c.shardFor(key).PutIfAbsent(key, value)
}

// Set routes to shard hash(key) mod N and replaces only if present.
func (c *StripedCache) Set(key, value string) bool {
	return c.shardFor(key).Set(key, value)
}

// Delete routes to shard hash(key) mod N and removes key.
func (c *StripedCache) Delete(key string) bool {
	return c.shardFor(key).Delete(key)
}

// Get routes to shard hash(key) mod N and looks up key.
func (c *StripedCache) Get(key string) (string, bool) {
	return c.shardFor(key).Get(key)
}

// shardFor computes the routing shard for key and bumps that shard's
// lock-free request counter — a separate cache line per shard avoids false
// sharing between hot counters on adjacent shards under concurrent load.
func (c *StripedCache) shardFor(key string) *cache.GuardedShard {
	idx := util.ShardIndex(util.Hash(key), len(c.shards))
	c.reqs[idx].Add(1)
	return c.shards[idx]
}

// Requests returns the number of operations routed to shard idx so far.
// Intended for diagnostics/tests, not a public stability guarantee.
func (c *StripedCache) Requests(idx int) uint64 {
	return c.reqs[idx].Load()
}
