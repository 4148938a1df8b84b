// Package striped scales cache.LruShard under concurrent access by
// partitioning keys across independent cache.GuardedShards.
//
// A key k is routed to shard hash(k) mod N and resides only there;
// operations on keys that land in different shards never block each other
// because each GuardedShard owns an independent mutex. StripedCache itself
// holds no lock of its own — it only computes an index and delegates.
//
// Construction fails loudly (returns a *CapacityError) when splitting the
// aggregate byte budget across stripes would leave any one shard below a
// configurable floor (2 MiB by default) — a degenerate per-shard capacity
// that would make every Put fail outright is rejected at Build time rather
// than discovered one write at a time.
package striped
