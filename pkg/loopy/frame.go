// Package loopy adds a fixpoint driver on top of pkg/dataflow: feedback
// edges that feed output relations back into inputs, interrupt edges that
// abort the fixpoint when a watched relation is non-empty, and tracked
// inputs that remember first-occurrences per stack frame so a search can
// push and pop speculative facts (spec §4.5).
package loopy

// frameTracker records, per open frame, the keys whose first-occurrence
// was accepted while that frame was on top. It is the shared bookkeeping
// behind both tracked-input variants.
type frameTracker[K any] struct {
	frames [][]K
}

// pushFrame opens a new frame.
func (f *frameTracker[K]) pushFrame() {
	f.frames = append(f.frames, nil)
}

// record notes that k's first-occurrence happened in the current top
// frame. A no-op if no frame is open (the value is permanent for the
// session).
func (f *frameTracker[K]) record(k K) {
	if len(f.frames) == 0 {
		return
	}
	top := len(f.frames) - 1
	f.frames[top] = append(f.frames[top], k)
}

// popFrame closes the top frame, returning the keys recorded in it in
// insertion order. Popping with no open frame is a fatal caller error
// (spec §4.5).
func (f *frameTracker[K]) popFrame() []K {
	if len(f.frames) == 0 {
		panic("loopy: pop_frame called with no open frame")
	}
	top := len(f.frames) - 1
	keys := f.frames[top]
	f.frames = f.frames[:top]
	return keys
}

// depth reports how many frames are currently open.
func (f *frameTracker[K]) depth() int {
	return len(f.frames)
}
