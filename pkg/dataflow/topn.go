package dataflow

import (
	"cmp"

	"github.com/gokanren/ratsat/pkg/twolevel"
)

// maxWinners bounds the N supported by TopN: pkg/satlogic only uses N=1
// (NewMax, for the canonical representative and the next-literal
// pick), so a small fixed array keeps
// Winners comparable (usable as a map key / relation value) without the
// complexity of a variable-length comparable type.
const maxWinners = 4

// Winners is the "winners tuple" of spec §4.4: the current top-N values
// for a key, most-preferred first.
type Winners[V comparable] struct {
	Vals [maxWinners]V
	Len  int
}

// Slice returns the populated prefix of Vals.
func (w Winners[V]) Slice() []V {
	return w.Vals[:w.Len]
}

// TopNPair is the output tuple of TopN.
type TopNPair[K comparable, V comparable] struct {
	Key K
	Win Winners[V]
}

// TopN maintains, per key, the top-N distinct values by Ord and an
// external twolevel.TwoLevelHeap of the losers (spec §4.4, §4.3). N=1 is
// the "max" operator.
type TopN[K comparable, V cmp.Ordered] struct {
	src Operator[Pair[K, V]]
	n   int

	mult    map[K]map[V]int64
	winners map[K]Winners[V]
	losers  *twolevel.TwoLevelHeap[K, V, struct{}]
}

// NewTopN wraps src, keeping the top n values per key.
func NewTopN[K comparable, V cmp.Ordered](src Operator[Pair[K, V]], n int) *TopN[K, V] {
	if n < 1 || n > maxWinners {
		panic("dataflow: TopN n out of supported range")
	}
	return &TopN[K, V]{
		src:     src,
		n:       n,
		mult:    make(map[K]map[V]int64),
		winners: make(map[K]Winners[V]),
		losers:  twolevel.NewTwoLevelHeap[K, V, struct{}](),
	}
}

// NewMax is TopN with N=1.
func NewMax[K comparable, V cmp.Ordered](src Operator[Pair[K, V]]) *TopN[K, V] {
	return NewTopN(src, 1)
}

func (t *TopN[K, V]) ForEach(commit int64, yield func(p TopNPair[K, V], mult int64)) {
	t.src.ForEach(commit, func(p Pair[K, V], n int64) {
		t.apply(p.First, p.Second, n, yield)
	})
}

func (t *TopN[K, V]) apply(k K, v V, n int64, yield func(TopNPair[K, V], int64)) {
	byVal := t.mult[k]
	if byVal == nil {
		byVal = make(map[V]int64)
		t.mult[k] = byVal
	}
	old := byVal[v]
	next := old + n
	if next == 0 {
		delete(byVal, v)
		if len(byVal) == 0 {
			delete(t.mult, k)
		}
	} else {
		byVal[v] = next
	}

	wasPresent := old > 0
	nowPresent := next > 0
	if wasPresent == nowPresent {
		return
	}

	w := t.winners[k]

	if nowPresent {
		if w.Len < t.n {
			insertDesc(&w, v)
			t.emitChange(k, w, yield)
			t.winners[k] = w
			return
		}
		min := w.Vals[w.Len-1]
		if v > min {
			w.Vals[w.Len-1] = v
			resortDesc(&w)
			t.losers.Insert(k, min, struct{}{})
			t.emitChange(k, w, yield)
			t.winners[k] = w
			return
		}
		t.losers.Insert(k, v, struct{}{})
		return
	}

	// v became absent: it was either a winner or a loser.
	idx := -1
	for i := 0; i < w.Len; i++ {
		if w.Vals[i] == v {
			idx = i
			break
		}
	}
	if idx == -1 {
		t.losers.Remove(k, v)
		return
	}

	if promoted, _, ok := t.losers.GetMax(k); ok {
		t.losers.Remove(k, promoted)
		w.Vals[idx] = promoted
		resortDesc(&w)
	} else {
		copy(w.Vals[idx:], w.Vals[idx+1:w.Len])
		w.Len--
	}
	t.emitChange(k, w, yield)
	t.winners[k] = w
}

func (t *TopN[K, V]) emitChange(k K, next Winners[V], yield func(TopNPair[K, V], int64)) {
	if old, ok := t.winners[k]; ok && old.Len > 0 {
		yield(TopNPair[K, V]{Key: k, Win: old}, -1)
	}
	if next.Len > 0 {
		yield(TopNPair[K, V]{Key: k, Win: next}, 1)
	}
}

// insertDesc inserts v into w's populated prefix, keeping it sorted
// descending, and increments Len. Caller guarantees w.Len < len(w.Vals).
func insertDesc[V cmp.Ordered](w *Winners[V], v V) {
	i := w.Len
	for i > 0 && w.Vals[i-1] < v {
		w.Vals[i] = w.Vals[i-1]
		i--
	}
	w.Vals[i] = v
	w.Len++
}

// resortDesc re-sorts w's populated prefix descending; Len is small
// (<= maxWinners) so a plain insertion sort is plenty.
func resortDesc[V cmp.Ordered](w *Winners[V]) {
	for i := 1; i < w.Len; i++ {
		v := w.Vals[i]
		j := i
		for j > 0 && w.Vals[j-1] < v {
			w.Vals[j] = w.Vals[j-1]
			j--
		}
		w.Vals[j] = v
	}
}
