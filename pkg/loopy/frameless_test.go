package loopy

import (
	"testing"

	"github.com/gokanren/ratsat/pkg/dataflow"
)

func TestFramelessInputIgnoresRepeatSends(t *testing.T) {
	ctx := dataflow.NewContext()
	f := NewFramelessInput[int](ctx)

	f.Send(1)
	f.Send(1)
	f.Send(2)
	c := ctx.Commit()

	got := map[int]int64{}
	dataflow.DumpToMap[int](f, c, got)
	want := map[int]int64{1: 1, 2: 1}
	if !mapsEqual(got, want) {
		t.Fatalf("FramelessInput = %v, want %v", got, want)
	}
}

// TestFrameLawRoundTrip is spec §8's frame law: for any body f,
// push_frame(); f(); pop_frame(); commit() leaves every tracked input's
// visible rows exactly as they were before the push, plus any rows
// inserted both before and during f.
func TestFrameLawRoundTrip(t *testing.T) {
	ctx := dataflow.NewContext()
	f := NewFramelessInput[int](ctx)
	eng := NewEngine(ctx)

	f.Send(1)
	ctx.Commit()

	before := map[int]int64{}
	dataflow.DumpToMap[int](f, ctx.CurrentCommit(), before)

	eng.WithFrame(f, func() {
		f.Send(2)
		f.Send(3)
	})

	after := map[int]int64{}
	dataflow.DumpToMap[int](f, ctx.CurrentCommit(), after)

	if len(after) != 0 {
		t.Fatalf("after pop_frame+commit, new rows should net to nothing visible beyond baseline, got delta %v", after)
	}

	// A value sent again after the frame closed is independent: it is a
	// fresh first-occurrence.
	f.Send(2)
	final := map[int]int64{}
	c := ctx.Commit()
	dataflow.DumpToMap[int](f, c, final)
	if final[2] != 1 {
		t.Fatalf("re-sending 2 after its frame popped should be accepted again, got %v", final)
	}
	_ = before
}

func TestPopFrameWithNoOpenFramePanics(t *testing.T) {
	ctx := dataflow.NewContext()
	f := NewFramelessInput[int](ctx)

	defer func() {
		if recover() == nil {
			t.Fatal("PopFrame with no open frame should panic")
		}
	}()
	f.PopFrame()
}
