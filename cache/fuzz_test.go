package cache

import (
	"strings"
	"testing"
)

// Fuzz basic Put/Get/Delete semantics under arbitrary string inputs. Guards
// against panics and ensures core invariants hold regardless of key/value
// content.
func FuzzLruShard_PutGetDelete(f *testing.F) {
	f.Add("", "")
	f.Add("a", "1")
	f.Add("b", "2")
	f.Add("αβγ", "δ")
	f.Add("emoji🙂", "🙂🙂")
	f.Add("long", strings.Repeat("x", 1024))

	f.Fuzz(func(t *testing.T, k, v string) {
		// Cap lengths to keep memory bounded during fuzzing.
		const limit = 1 << 12 // 4096
		if len(k) > limit {
			k = k[:limit]
		}
		if len(v) > limit {
			v = v[:limit]
		}

		s := NewLruShard(1<<16, nil)

		if !s.Put(k, v) {
			t.Fatalf("Put must succeed: pair size %d is within capacity", len(k)+len(v))
		}
		got, ok := s.Get(k)
		if !ok || got != v {
			t.Fatalf("after Put/Get: want %q, got %q ok=%v", v, got, ok)
		}

		// PutIfAbsent on an existing key must not overwrite and must return
		// false.
		if s.PutIfAbsent(k, "other") {
			t.Fatalf("PutIfAbsent on existing key returned true")
		}
		if got2, ok := s.Get(k); !ok || got2 != v {
			t.Fatalf("after duplicate PutIfAbsent: want %q, got %q ok=%v", v, got2, ok)
		}

		if !s.Delete(k) {
			t.Fatalf("Delete must return true")
		}
		if _, ok := s.Get(k); ok {
			t.Fatalf("key must be absent after Delete")
		}

		// After removal, PutIfAbsent should succeed again.
		if !s.PutIfAbsent(k, v) {
			t.Fatalf("PutIfAbsent after Delete must return true")
		}
	})
}
