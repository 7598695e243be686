package queue

import "testing"

func TestFanOutBroadcastsToAllSubscribers(t *testing.T) {
	f := NewFanOut[int]()
	a := f.Subscribe()
	b := f.Subscribe()

	f.Send(42, nil)

	if got := a.Drain(); len(got) != 1 || got[0] != 42 {
		t.Errorf("subscriber a got %v, want [42]", got)
	}
	if got := b.Drain(); len(got) != 1 || got[0] != 42 {
		t.Errorf("subscriber b got %v, want [42]", got)
	}
}

func TestFanOutLateSubscriberMissesEarlierSends(t *testing.T) {
	f := NewFanOut[int]()
	a := f.Subscribe()

	f.Send(1, nil)

	b := f.Subscribe()
	f.Send(2, nil)

	if got := a.Drain(); len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Errorf("subscriber a got %v, want [1 2]", got)
	}
	if got := b.Drain(); len(got) != 1 || got[0] != 2 {
		t.Errorf("subscriber b got %v, want [2]", got)
	}
}

func TestFanOutNoSubscribersDiscards(t *testing.T) {
	f := NewFanOut[int]()
	// Must not panic with zero subscribers.
	f.Send(7, nil)
	if f.SubscriberCount() != 0 {
		t.Errorf("SubscriberCount() = %d, want 0", f.SubscriberCount())
	}
}

func TestFanOutCloneUsedForAllButLast(t *testing.T) {
	f := NewFanOut[*int]()
	a := f.Subscribe()
	b := f.Subscribe()

	cloned := 0
	clone := func(p *int) *int {
		cloned++
		v := *p
		return &v
	}

	orig := 9
	f.Send(&orig, clone)

	if cloned != 1 {
		t.Errorf("clone called %d times, want 1 (n-1 subscribers)", cloned)
	}

	gotA := a.Drain()
	gotB := b.Drain()
	if gotA[0] == &orig {
		t.Error("first subscriber should have received a clone, not the original pointer")
	}
	if gotB[0] != &orig {
		t.Error("last subscriber should have received the original pointer")
	}
}
