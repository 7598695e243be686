package queue

import "testing"

func TestSwapSendDrainFIFO(t *testing.T) {
	q := NewSwap[int]()
	q.Send(1)
	q.Send(2)
	q.Send(3)

	got := q.Drain()
	want := []int{1, 2, 3}
	if len(got) != len(want) {
		t.Fatalf("Drain() len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Drain()[%d] = %d, want %d", i, got[i], want[i])
		}
	}

	if q.Len() != 0 {
		t.Errorf("Len() after Drain() = %d, want 0", q.Len())
	}
}

func TestSwapDrainThenSendIsolated(t *testing.T) {
	q := NewSwap[string]()
	q.Send("a")
	first := q.Drain()

	// Sends after Drain must not retroactively appear in the already-drained slice.
	q.Send("b")

	if len(first) != 1 || first[0] != "a" {
		t.Fatalf("first drain = %v, want [a]", first)
	}

	second := q.Drain()
	if len(second) != 1 || second[0] != "b" {
		t.Fatalf("second drain = %v, want [b]", second)
	}
}

func TestSwapDrainEmpty(t *testing.T) {
	q := NewSwap[int]()
	if got := q.Drain(); got != nil {
		t.Errorf("Drain() on empty queue = %v, want nil", got)
	}
}
