package cache

// LruShard is a bounded-byte-capacity LRU cache backing a single keyspace
// shard. It is NOT thread-safe: callers must either confine a shard to one
// goroutine or wrap it (see GuardedShard).
//
// A successful Put, PutIfAbsent, or Set makes its entry most-recently-used;
// Get never reorders the list. Oversize writes fail without mutating any
// state, including the entry being replaced.
type LruShard struct {
	maxSize int
	size    int

	m    map[string]*entry
	head *entry // MRU
	tail *entry // LRU

	metrics Metrics
}

// NewLruShard constructs a shard with the given byte capacity. Panics if
// maxSize is not positive. A nil metrics sink defaults to NoopMetrics.
func NewLruShard(maxSize int, metrics Metrics) *LruShard {
	if maxSize <= 0 {
		panic("maxSize must be > 0")
	}
	if metrics == nil {
		metrics = NoopMetrics{}
	}
	return &LruShard{
		maxSize: maxSize,
		m:       make(map[string]*entry),
		metrics: metrics,
	}
}

// MaxSize returns the shard's immutable byte capacity.
func (s *LruShard) MaxSize() int { return s.maxSize }

// Size returns current_size: the sum of len(key)+len(value) across all
// resident entries.
func (s *LruShard) Size() int { return s.size }

// Len returns the number of resident entries.
func (s *LruShard) Len() int { return len(s.m) }

// Put inserts or replaces key->value.
func (s *LruShard) Put(key, value string) bool {
	return s.write(key, value, writeAny)
}

// PutIfAbsent inserts key->value only if key is absent.
func (s *LruShard) PutIfAbsent(key, value string) bool {
	return s.write(key, value, writeIfAbsent)
}

// Set replaces the value for an existing key.
func (s *LruShard) Set(key, value string) bool {
	return s.write(key, value, writeIfPresent)
}

// Delete removes key, returning false if it was absent.
func (s *LruShard) Delete(key string) bool {
	e, ok := s.m[key]
	if !ok {
		return false
	}
	s.unlink(e)
	delete(s.m, key)
	s.size -= e.size()
	s.metrics.Size(len(s.m), s.size)
	return true
}

// Get looks up key without affecting recency.
func (s *LruShard) Get(key string) (string, bool) {
	e, ok := s.m[key]
	if !ok {
		s.metrics.Miss()
		return "", false
	}
	s.metrics.Hit()
	return e.value, true
}

type writeMode int

const (
	writeAny writeMode = iota
	writeIfAbsent
	writeIfPresent
)

// write implements Put/PutIfAbsent/Set. The oversize check and the
// presence/absence precondition are both evaluated before any state is
// touched, so a failed call leaves the shard exactly as it was.
func (s *LruShard) write(key, value string, mode writeMode) bool {
	newSize := pairSize(key, value)
	if newSize > s.maxSize {
		return false
	}

	existing, exists := s.m[key]
	switch mode {
	case writeIfAbsent:
		if exists {
			return false
		}
	case writeIfPresent:
		if !exists {
			return false
		}
	}

	// Detach the entry being replaced first and account for its size right
	// away, rather than threading a "replaced size" exception through the
	// eviction loop below: once detached, the replaced entry simply isn't in
	// the list the loop walks, so it can never be picked as its own victim.
	if exists {
		s.unlink(existing)
		delete(s.m, key)
		s.size -= existing.size()
	}

	for s.size+newSize > s.maxSize {
		victim := s.tail
		if victim == nil {
			// Unreachable: newSize <= maxSize was checked above, so the
			// loop always terminates before the list empties.
			break
		}
		s.evict(victim)
	}

	e := &entry{key: key, value: value}
	s.m[key] = e
	s.pushFront(e)
	s.size += newSize
	s.metrics.Size(len(s.m), s.size)
	return true
}

// evict removes a victim from the LRU end, updating bookkeeping and
// metrics. Replacement never calls this for the entry it is replacing
// (detached above); only genuine capacity pressure evicts.
func (s *LruShard) evict(victim *entry) {
	s.unlink(victim)
	delete(s.m, victim.key)
	s.size -= victim.size()
	s.metrics.Evict()
}

// pushFront inserts e at the MRU end in O(1). e must not already be linked.
func (s *LruShard) pushFront(e *entry) {
	e.prev = nil
	e.next = s.head
	if s.head != nil {
		s.head.prev = e
	}
	s.head = e
	if s.tail == nil {
		s.tail = e
	}
}

// unlink detaches e from the list in O(1). e may be the head, the tail,
// both (singleton list), or an interior node.
func (s *LruShard) unlink(e *entry) {
	if e.prev != nil {
		e.prev.next = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	}
	if s.head == e {
		s.head = e.next
	}
	if s.tail == e {
		s.tail = e.prev
	}
	e.prev, e.next = nil, nil
}
