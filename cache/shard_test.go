package cache

import "testing"

// Basic Put/PutIfAbsent/Set/Get/Delete semantics.
func TestLruShard_BasicOps(t *testing.T) {
	t.Parallel()

	s := NewLruShard(1024, nil)

	if !s.PutIfAbsent("a", "1") {
		t.Fatal("PutIfAbsent a=1 must be true")
	}
	if s.PutIfAbsent("a", "2") {
		t.Fatal("PutIfAbsent duplicate must be false")
	}
	if v, ok := s.Get("a"); !ok || v != "1" {
		t.Fatalf("Get a want 1, got %q ok=%v", v, ok)
	}

	if !s.Set("a", "11") {
		t.Fatal("Set existing a must be true")
	}
	if s.Set("zzz", "x") {
		t.Fatal("Set on absent key must be false")
	}
	if v, ok := s.Get("a"); !ok || v != "11" {
		t.Fatalf("Get a want 11, got %q ok=%v", v, ok)
	}

	if !s.Delete("a") {
		t.Fatal("Delete a must be true")
	}
	if s.Delete("a") {
		t.Fatal("Delete absent key must be false")
	}
	if _, ok := s.Get("a"); ok {
		t.Fatal("a must be absent after Delete")
	}
}

// Get never promotes, unlike a classic promote-on-read LRU.
func TestLruShard_GetDoesNotPromote(t *testing.T) {
	t.Parallel()

	// capacity for exactly two 1-byte-key/1-byte-value pairs (pairSize=2 each)
	s := NewLruShard(4, nil)

	s.Put("a", "1") // order: a (MRU)
	s.Put("b", "2") // order: b, a (b MRU, a LRU)

	if _, ok := s.Get("a"); !ok {
		t.Fatal("expect hit for a")
	}
	// a was just Get, not Put/Set — recency must be unchanged: a is still LRU.
	s.Put("c", "3") // overflow -> evict LRU, which must still be "a"

	if _, ok := s.Get("a"); ok {
		t.Fatal("a must have been evicted: Get must not promote")
	}
	if _, ok := s.Get("b"); !ok {
		t.Fatal("b must survive: it was never touched after becoming MRU")
	}
	if v, ok := s.Get("c"); !ok || v != "3" {
		t.Fatal("c must be present")
	}
}

// A successful Put/PutIfAbsent/Set moves the entry to MRU.
func TestLruShard_WriteMakesMRU(t *testing.T) {
	t.Parallel()

	s := NewLruShard(6, nil)

	s.Put("a", "1") // a
	s.Put("b", "2") // b, a
	s.Put("c", "3") // c, b, a (size = 2+2+2 = 6, exactly at capacity)

	// Re-Put "a": must become MRU, making "b" the new LRU.
	s.Put("a", "1")

	// Force one eviction: insert a new pair that doesn't fit without evicting.
	s.Put("d", "4") // must evict LRU = b, not a

	if _, ok := s.Get("b"); ok {
		t.Fatal("b must have been evicted (was LRU after a was re-Put to MRU)")
	}
	if _, ok := s.Get("a"); !ok {
		t.Fatal("a must survive: it was promoted to MRU by the re-Put")
	}
}

// Replacing an existing key moves it to MRU even though its value doesn't
// change size.
func TestLruShard_ReplaceExistingPromotesToMRU(t *testing.T) {
	t.Parallel()

	s := NewLruShard(6, nil)
	s.Put("a", "1") // a
	s.Put("b", "2") // b, a
	s.Put("c", "3") // c, b, a

	s.Set("a", "9") // a replaced in place -> must become MRU: c, b moved behind a? order: a, c, b

	s.Put("d", "4") // evicts current LRU; must be "b", not "a"

	if _, ok := s.Get("b"); ok {
		t.Fatal("b must be LRU victim")
	}
	if v, ok := s.Get("a"); !ok || v != "9" {
		t.Fatal("a must survive with its replaced value, promoted to MRU by Set")
	}
}

// An oversize write fails and leaves all existing state, including the entry
// it would have replaced, completely untouched.
func TestLruShard_OversizeWriteIsNoop(t *testing.T) {
	t.Parallel()

	s := NewLruShard(4, nil)
	s.Put("a", "1")

	if s.Put("a", "toolongvalue") {
		t.Fatal("oversize replace must fail")
	}
	if v, ok := s.Get("a"); !ok || v != "1" {
		t.Fatalf("a must be unchanged after failed oversize replace, got %q ok=%v", v, ok)
	}
	if s.Size() != 2 {
		t.Fatalf("size must be unchanged, got %d", s.Size())
	}

	if s.PutIfAbsent("zzz", "toolongvalue") {
		t.Fatal("oversize PutIfAbsent must fail")
	}
	if _, ok := s.Get("zzz"); ok {
		t.Fatal("zzz must not have been inserted")
	}
}

// Eviction proceeds from the LRU end until the new pair fits, in insertion
// order among untouched entries.
func TestLruShard_EvictsInLRUOrder(t *testing.T) {
	t.Parallel()

	s := NewLruShard(6, nil)
	s.Put("a", "1") // a
	s.Put("b", "2") // b, a
	s.Put("c", "3") // c, b, a  (size 6, full)

	// A 4-byte pair on top of the 6 resident bytes overflows 6: must evict
	// a (LRU) first, and since that alone isn't enough (4+4 > 6), b next.
	s.Put("zzzz", "")

	if s.Len() != 2 {
		t.Fatalf("expected c and the new entry to remain, Len()=%d", s.Len())
	}
	if _, ok := s.Get("a"); ok {
		t.Fatal("a (LRU) must have been evicted first")
	}
	if _, ok := s.Get("b"); ok {
		t.Fatal("b must have been evicted second")
	}
	if _, ok := s.Get("c"); !ok {
		t.Fatal("c must survive: only enough was evicted to fit the new entry")
	}
	if _, ok := s.Get("zzzz"); !ok {
		t.Fatal("zzzz must be present")
	}
}

func TestLruShard_MetricsRecordHitsMissesEvicts(t *testing.T) {
	t.Parallel()

	m := &countingMetrics{}
	s := NewLruShard(2, m)

	s.Put("a", "1")
	s.Get("a")
	s.Get("zzz")
	s.Put("b", "2") // forces eviction of a

	if m.hits != 1 {
		t.Fatalf("want 1 hit, got %d", m.hits)
	}
	if m.misses != 1 {
		t.Fatalf("want 1 miss, got %d", m.misses)
	}
	if m.evicts != 1 {
		t.Fatalf("want 1 evict, got %d", m.evicts)
	}
}

type countingMetrics struct {
	hits, misses, evicts int
}

func (m *countingMetrics) Hit()   { m.hits++ }
func (m *countingMetrics) Miss()  { m.misses++ }
func (m *countingMetrics) Evict() { m.evicts++ }
func (m *countingMetrics) Size(int, int) {}
