package queue

// FanOut is a broadcast over Swap queues: one Send enqueues a copy of x to
// every currently-subscribed consumer, with the last subscriber receiving
// the original value directly (no copy needed on the final hand-off).
// Subscribers that join after a Send do not see values sent before they
// subscribed. Sending with zero subscribers discards the value.
//
// FanOut is the building block behind Save nodes (spec §4.4): a Save node
// memoises its source for one commit and fans the result out so that
// multiple independent readers each see the full stream.
type FanOut[T any] struct {
	subscribers []*Swap[T]
}

// NewFanOut creates a fan-out queue with no subscribers.
func NewFanOut[T any]() *FanOut[T] {
	return &FanOut[T]{}
}

// Subscribe returns a fresh consumer that will receive every value sent
// after this call.
func (f *FanOut[T]) Subscribe() *Swap[T] {
	q := NewSwap[T]()
	f.subscribers = append(f.subscribers, q)
	return q
}

// Send broadcasts x to every subscriber. Every subscriber but the last
// receives a value produced by clone (if non-nil); the last receives x
// itself, avoiding one clone on the final hand-off. If clone is nil, x is
// sent as-is to all subscribers (appropriate when T is already a value
// type that is safe to share, e.g. a small struct with no aliasing).
func (f *FanOut[T]) Send(x T, clone func(T) T) {
	n := len(f.subscribers)
	if n == 0 {
		return
	}
	for i := 0; i < n-1; i++ {
		if clone != nil {
			f.subscribers[i].Send(clone(x))
		} else {
			f.subscribers[i].Send(x)
		}
	}
	f.subscribers[n-1].Send(x)
}

// SubscriberCount reports how many consumers are currently subscribed.
func (f *FanOut[T]) SubscriberCount() int {
	return len(f.subscribers)
}
