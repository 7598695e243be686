package loopy

import "github.com/gokanren/ratsat/pkg/dataflow"

// Framed is implemented by the tracked-input variants, letting Engine's
// WithFrame drive push/body/pop/commit generically.
type Framed interface {
	PushFrame()
	PopFrame()
}

// Engine drives the spec §4.5 fixpoint loop over a dataflow.Context and
// a set of registered feedback/interrupt edges.
type Engine struct {
	ctx   *dataflow.Context
	edges []Edge
}

// NewEngine creates an engine over ctx with no edges registered.
func NewEngine(ctx *dataflow.Context) *Engine {
	return &Engine{ctx: ctx}
}

// Register adds an edge, to be polled in registration order on every
// fixpoint iteration. Order matters: it both decides feedback priority
// (spec §4.5 fairness) and interrupt precedence.
func (e *Engine) Register(edge Edge) {
	e.edges = append(e.edges, edge)
}

// Commit runs the fixpoint:
//
//	loop:
//	  engine.commit()
//	  any_changed = false
//	  for edge in edges, in registration order:
//	    case edge.feed():
//	      Unchanged:   continue
//	      Changed:     any_changed = true; restart outer loop
//	      Interrupt(id): return Some(id)
//	  if not any_changed: return None
//
// (spec §4.5). It returns the interrupt id and ok=true if one fired, or
// ok=false once the graph reaches quiescence.
func (e *Engine) Commit() (id int, ok bool) {
	for {
		commit := e.ctx.Commit()
		anyChanged := false
		for _, edge := range e.edges {
			res := edge.Poll(commit)
			if res.Interrupted {
				return res.InterruptID, true
			}
			if res.Changed {
				anyChanged = true
				break
			}
		}
		if !anyChanged {
			return 0, false
		}
	}
}

// WithFrame runs push_frame/body/pop_frame/commit (spec §4.5's
// with_frame), returning the interrupt id raised by the trailing commit,
// if any.
func (e *Engine) WithFrame(f Framed, body func()) (id int, ok bool) {
	f.PushFrame()
	body()
	f.PopFrame()
	return e.Commit()
}
