package util

import "runtime"

// ReasonableShardCount picks a practical default stripe count based on CPU
// parallelism when a caller passes stripeCount<=0 to striped.Build: the
// classic nextPow2(2*GOMAXPROCS), clamped to [1..256]. This sharply reduces
// lock contention across stripes without bloating per-stripe overhead for
// the (common) case of a small aggregate capacity.
func ReasonableShardCount() int {
	p := runtime.GOMAXPROCS(0)
	if p < 1 {
		p = 1
	}
	n := int(NextPow2(uint64(p * 2)))
	if n < 1 {
		n = 1
	}
	if n > 256 {
		n = 256
	}
	return n
}

// ShardIndex maps a 64-bit hash to a shard index in [0, shards). Uses the
// fast mask path when shards is a power of two, falling back to modulo
// otherwise, since striped.Build does not require a power-of-two stripe
// count.
func ShardIndex(hash uint64, shards int) int {
	if shards <= 1 {
		return 0
	}
	if IsPowerOfTwo(uint64(shards)) {
		return int(hash & uint64(shards-1))
	}
	return int(hash % uint64(shards))
}
