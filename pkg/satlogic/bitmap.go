package satlogic

import (
	"github.com/RoaringBitmap/roaring/v2"

	"github.com/gokanren/ratsat/internal/cnf"
)

// litBit maps a Literal onto the dense, non-negative uint32 space a
// roaring.Bitmap requires, using the same order-preserving bias as
// packPriority.
func litBit(l cnf.Literal) uint32 {
	return uint32(int64(l) + litBias)
}

// rebuildWitnessSets recomputes the compressed witness bitmaps from the
// snapshots dumped this Commit. usedLiterals mirrors liveLits (spec
// §4.6 item 4: every literal appearing in some live, post-substitution,
// non-tautological rule), used to filter discovery output down to
// literals the implication closure still has support for. assignedAtoms
// is the dense set of atoms with a current assignment, read by
// IsAtomAssigned and AssignedAtomCount.
func (g *Graph) rebuildWitnessSets() {
	g.usedLiterals.Clear()
	g.assignedAtoms.Clear()
	for l := range g.liveLits {
		g.usedLiterals.Add(litBit(l))
	}
	for l := range g.assignedOut {
		g.assignedAtoms.Add(uint32(l.Atom()))
	}
}

// IsAtomAssigned reports whether atom has either literal currently
// assigned.
func (g *Graph) IsAtomAssigned(atom cnf.Atom) bool {
	return g.assignedAtoms.Contains(uint32(atom))
}

// AssignedAtomCount returns the number of distinct atoms with a current
// assignment.
func (g *Graph) AssignedAtomCount() int {
	return int(g.assignedAtoms.GetCardinality())
}

// UsedLiteralCount returns the number of distinct literals appearing in
// some live rule this commit.
func (g *Graph) UsedLiteralCount() int {
	return int(g.usedLiterals.GetCardinality())
}

// isUsed reports whether l appears in some live rule, per the
// usedLiterals witness set.
func (g *Graph) isUsed(l cnf.Literal) bool {
	return g.usedLiterals.Contains(litBit(l))
}

func newWitnessSets() (usedLiterals, assignedAtoms *roaring.Bitmap) {
	return roaring.New(), roaring.New()
}
