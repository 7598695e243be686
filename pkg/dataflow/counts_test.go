package dataflow

import "testing"

func TestCountsEmitsRetractThenAssertOnChange(t *testing.T) {
	ctx := NewContext()
	in := NewInput[string](ctx)
	c := NewCounts[string](in)

	in.Send("a", 1)
	commit1 := ctx.Commit()
	var first []CountPair[string]
	c.ForEach(commit1, func(p CountPair[string], mult int64) {
		if mult != 1 {
			t.Fatalf("first-ever occurrence should only assert, got mult=%d for %v", mult, p)
		}
		first = append(first, p)
	})
	if len(first) != 1 || first[0] != (CountPair[string]{Value: "a", Count: 1}) {
		t.Fatalf("first pull = %v, want [{a 1}]", first)
	}

	in.Send("a", 1)
	commit2 := ctx.Commit()
	type ev struct {
		p CountPair[string]
		m int64
	}
	var second []ev
	c.ForEach(commit2, func(p CountPair[string], mult int64) {
		second = append(second, ev{p, mult})
	})
	want := []ev{
		{CountPair[string]{Value: "a", Count: 1}, -1},
		{CountPair[string]{Value: "a", Count: 2}, 1},
	}
	if len(second) != len(want) {
		t.Fatalf("second pull = %v, want %v", second, want)
	}
	for i := range want {
		if second[i] != want[i] {
			t.Fatalf("second pull[%d] = %v, want %v", i, second[i], want[i])
		}
	}
}

func TestCountsDropsToZeroOnlyRetracts(t *testing.T) {
	ctx := NewContext()
	in := NewInput[int](ctx)
	c := NewCounts[int](in)

	in.Send(5, 3)
	c.ForEach(ctx.Commit(), func(CountPair[int], int64) {})
	dst := map[CountPair[int]]int64{}
	in.Send(5, -3)
	commit2 := ctx.Commit()
	DumpToMap[CountPair[int]](c, commit2, dst)
	want := map[CountPair[int]]int64{{Value: 5, Count: 3}: -1}
	if !mapsEqual(dst, want) {
		t.Fatalf("Counts on drop-to-zero = %v, want %v", dst, want)
	}
}
