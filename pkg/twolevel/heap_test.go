package twolevel

import (
	"math/rand"
	"testing"
)

func TestTwoLevelHeapGetMax(t *testing.T) {
	h := NewTwoLevelHeapWithLimit[string, int, string](2)

	h.Insert("k1", 3, "three")
	h.Insert("k1", 1, "one")

	if k2, v, ok := h.GetMax("k1"); !ok || k2 != 3 || v != "three" {
		t.Fatalf("GetMax (inline) = (%d,%q,%v), want (3,three,true)", k2, v, ok)
	}

	// Force migration to external heap.
	h.Insert("k1", 7, "seven")
	h.Insert("k1", 5, "five")

	if k2, v, ok := h.GetMax("k1"); !ok || k2 != 7 || v != "seven" {
		t.Fatalf("GetMax (external) = (%d,%q,%v), want (7,seven,true)", k2, v, ok)
	}

	h.Remove("k1", 7)
	if k2, _, ok := h.GetMax("k1"); !ok || k2 != 5 {
		t.Fatalf("GetMax after removing max = %d, want 5", k2)
	}
}

func TestTwoLevelHeapAgainstReference(t *testing.T) {
	rng := rand.New(rand.NewSource(271828))
	h := NewTwoLevelHeap[int, int, int]()
	ref := make(map[int]map[int]int)

	refMax := func(k1 int) (int, bool) {
		best, ok := 0, false
		for k2 := range ref[k1] {
			if !ok || k2 > best {
				best, ok = k2, true
			}
		}
		return best, ok
	}

	for i := 0; i < 1000; i++ {
		k1 := rng.Intn(8)
		k2 := rng.Intn(100)
		v := rng.Intn(1000)
		h.Insert(k1, k2, v)
		if ref[k1] == nil {
			ref[k1] = make(map[int]int)
		}
		ref[k1][k2] = v

		wantMax, wantOK := refMax(k1)
		gotMax, _, gotOK := h.GetMax(k1)
		if gotOK != wantOK || (gotOK && gotMax != wantMax) {
			t.Fatalf("step %d: GetMax(%d) = (%d,%v), want (%d,%v)", i, k1, gotMax, gotOK, wantMax, wantOK)
		}
	}

	for i := 0; i < 500; i++ {
		k1 := rng.Intn(8)
		k2 := rng.Intn(100)
		h.Remove(k1, k2)
		delete(ref[k1], k2)

		wantMax, wantOK := refMax(k1)
		gotMax, _, gotOK := h.GetMax(k1)
		if gotOK != wantOK || (gotOK && gotMax != wantMax) {
			t.Fatalf("remove step %d: GetMax(%d) = (%d,%v), want (%d,%v)", i, k1, gotMax, gotOK, wantMax, wantOK)
		}
	}
}
