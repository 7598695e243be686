package dataflow

import "testing"

func TestMapDoublesValues(t *testing.T) {
	ctx := NewContext()
	in := NewInput[int](ctx)
	m := NewMap[int, int](in, func(v int) int { return v * 2 })

	in.Send(3, 1)
	in.Send(5, 2)
	c := ctx.Commit()

	got := map[int]int64{}
	DumpToMap[int](m, c, got)
	want := map[int]int64{6: 1, 10: 2}
	if !mapsEqual(got, want) {
		t.Fatalf("Map = %v, want %v", got, want)
	}
}

func TestFilterKeepsOnlyMatching(t *testing.T) {
	ctx := NewContext()
	in := NewInput[int](ctx)
	f := NewFilter[int](in, func(v int) bool { return v%2 == 0 })

	for _, v := range []int{1, 2, 3, 4, 5, 6} {
		in.Send(v, 1)
	}
	c := ctx.Commit()

	got := map[int]int64{}
	DumpToMap[int](f, c, got)
	want := map[int]int64{2: 1, 4: 1, 6: 1}
	if !mapsEqual(got, want) {
		t.Fatalf("Filter = %v, want %v", got, want)
	}
}

func TestFlatMapDuplicatesMultiplicityPerProduced(t *testing.T) {
	ctx := NewContext()
	in := NewInput[int](ctx)
	fm := NewFlatMap[int, int](in, func(v int) []int { return []int{v, v + 100} })

	in.Send(1, 3)
	c := ctx.Commit()

	got := map[int]int64{}
	DumpToMap[int](fm, c, got)
	want := map[int]int64{1: 3, 101: 3}
	if !mapsEqual(got, want) {
		t.Fatalf("FlatMap = %v, want %v", got, want)
	}
}

func TestConcatForwardsBothSources(t *testing.T) {
	ctx := NewContext()
	a := NewInput[int](ctx)
	b := NewInput[int](ctx)
	c := NewConcat[int](a, b)

	a.Send(1, 1)
	b.Send(1, 1)
	b.Send(2, 1)
	commit := ctx.Commit()

	got := map[int]int64{}
	DumpToMap[int](c, commit, got)
	want := map[int]int64{1: 2, 2: 1}
	if !mapsEqual(got, want) {
		t.Fatalf("Concat = %v, want %v", got, want)
	}
}

func mapsEqual[V comparable](a, b map[V]int64) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if b[k] != v {
			return false
		}
	}
	return true
}
