package dataflow

import "testing"

func TestAntijoinEmitsLeftWithoutMatchingRight(t *testing.T) {
	ctx := NewContext()
	left := NewInput[Pair[string, int]](ctx)
	right := NewInput[string](ctx)
	aj := NewAntijoin[string, int](left, right)

	left.Send(Pair[string, int]{First: "a", Second: 1}, 1)
	left.Send(Pair[string, int]{First: "b", Second: 2}, 1)
	right.Send("b", 1)
	c := ctx.Commit()

	got := map[Pair[string, int]]int64{}
	DumpToMap[Pair[string, int]](aj, c, got)
	want := map[Pair[string, int]]int64{
		{First: "a", Second: 1}: 1,
	}
	if !mapsEqual(got, want) {
		t.Fatalf("Antijoin = %v, want %v", got, want)
	}
}

func TestAntijoinRetractsWhenRightKeyAppearsThenReemitsWhenRemoved(t *testing.T) {
	ctx := NewContext()
	left := NewInput[Pair[string, int]](ctx)
	right := NewInput[string](ctx)
	aj := NewAntijoin[string, int](left, right)

	left.Send(Pair[string, int]{First: "a", Second: 1}, 1)
	c1 := ctx.Commit()
	got := map[Pair[string, int]]int64{}
	DumpToMap[Pair[string, int]](aj, c1, got)
	if got[Pair[string, int]{First: "a", Second: 1}] != 1 {
		t.Fatalf("after first commit = %v, want a present", got)
	}

	right.Send("a", 1)
	c2 := ctx.Commit()
	DumpToMap[Pair[string, int]](aj, c2, got)
	if _, ok := got[Pair[string, int]{First: "a", Second: 1}]; ok {
		t.Fatalf("after right key arrives, a should be retracted: %v", got)
	}

	right.Send("a", -1)
	c3 := ctx.Commit()
	DumpToMap[Pair[string, int]](aj, c3, got)
	if got[Pair[string, int]{First: "a", Second: 1}] != 1 {
		t.Fatalf("after right key removed, a should reappear: %v", got)
	}
}
