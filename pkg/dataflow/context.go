package dataflow

// Advancer is implemented by operators that must do work exactly once per
// commit regardless of whether a reader pulls them that commit — today
// only Save, which memoises its source and broadcasts it (spec §4.4).
type Advancer interface {
	Advance(commit int64)
}

// Context is the creation context that owns the monotonically increasing
// commit id shared by a whole operator graph (spec §3). Operators refuse
// to emit changes whose id exceeds the current commit; Context.Commit is
// the only way to advance it.
type Context struct {
	commit    int64
	advancers []Advancer
}

// NewContext creates a context with commit id 0.
func NewContext() *Context {
	return &Context{}
}

// CurrentCommit returns the most recently committed id.
func (c *Context) CurrentCommit() int64 {
	return c.commit
}

// NextCommit returns the id that a Send right now would be tagged with
// (i.e. the id that becomes visible after the next Commit call).
func (c *Context) NextCommit() int64 {
	return c.commit + 1
}

// Register adds a, e.g. a Save node, to the set advanced on every Commit.
// Registration order is preserved and advancers run in that order.
func (c *Context) Register(a Advancer) {
	c.advancers = append(c.advancers, a)
}

// Commit advances the commit id by one and runs every registered
// Advancer against the new id, then returns it. Input queues do not need
// to be told about commits explicitly: anything that eventually pulls an
// Input transitively observes the new commit id on its next ForEach call.
func (c *Context) Commit() int64 {
	c.commit++
	for _, a := range c.advancers {
		a.Advance(c.commit)
	}
	return c.commit
}
