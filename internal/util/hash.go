// Package util contains internal helpers used by the striped package: key
// hashing, shard-index selection, power-of-two rounding, and
// cache-line-padded counters.
package util

import "github.com/cespare/xxhash/v2"

// Hash returns a 64-bit, in-process-deterministic hash of key. It is the
// sole input to shard routing in the striped package; it need not be stable
// across process runs or portable, only deterministic within one.
//
// Every StripedCache dispatch hashes a key on the hot path, so this uses
// xxhash rather than a hand-rolled FNV-1a: xxhash is materially faster for
// the string keys this cache is built around.
func Hash(key string) uint64 {
	return xxhash.Sum64String(key)
}
