package util

import "sync/atomic"

// CacheLineSize is a reasonable default for most modern CPUs. The standard
// library's internal cache-line constant is unexported; 64 works well in
// practice.
const CacheLineSize = 64

// PaddedAtomicUint64 is an atomic uint64 padded to exactly one cache line.
// Use for counters many goroutines update independently and concurrently —
// e.g. per-shard request counters in striped.StripedCache — to avoid false
// sharing between adjacent shards' counters.
type PaddedAtomicUint64 struct {
	atomic.Uint64
	_ [CacheLineSize - 8]byte
}
