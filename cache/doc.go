// Package cache implements the core storage surface of shardkv: a
// single-threaded, bounded-byte-capacity LRU ([LruShard]) and a
// mutex-guarded wrapper around it ([GuardedShard]) that is safe for
// concurrent use.
//
// Design
//
//   - Storage: each shard keeps a map[string]*entry for O(1) lookup and an
//     intrusive MRU<->LRU doubly linked list for eviction ordering. Entries
//     are plain Go pointers managed by the GC, so there's no manual
//     splice/unlink bookkeeping to get wrong.
//
//   - Capacity is byte-based (len(key)+len(value)), not entry-count based:
//     a Put/Set/PutIfAbsent that would make a single entry exceed max_size
//     fails atomically without touching existing state.
//
//   - Recency: only a successful Put/PutIfAbsent/Set moves an entry to MRU.
//     Get is a pure lookup and never reorders — this is a frozen, tested
//     property (see shard_test.go), not an incidental omission.
//
//   - GuardedShard adds a single sync.Mutex around LruShard; there is no
//     condition variable and no RWMutex split: every operation, Get
//     included, takes the exclusive lock, even though Get leaves the map
//     and the list unchanged. Scaling under concurrency is the job of the
//     striped package, one layer up.
//
// Metrics: an optional Metrics sink (Hit/Miss/Evict/Size) can be attached at
// construction; NoopMetrics is used when none is given. See metrics/prom for
// a Prometheus-backed adapter.
package cache
