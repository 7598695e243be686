package satlogic

import "github.com/gokanren/ratsat/internal/cnf"

// litBias shifts a Literal's signed int32 range into [0, 2^32) so it can
// be packed into the low bits of an ordered priority key alongside a
// count in the high bits.
const litBias = int64(1) << 31

// packPriority combines an occurrence count and a literal into a single
// ordered int64 so dataflow.Max can rank by count first, Ord-on-literal
// as the tiebreak, without a custom comparator (spec §4.6's next-literal
// heuristic).
func packPriority(count int64, lit cnf.Literal) int64 {
	return count<<32 + int64(lit) + litBias
}

// unpackLiteral recovers the literal packed by packPriority.
func unpackLiteral(priority int64) cnf.Literal {
	shifted := priority & 0xFFFFFFFF
	return cnf.Literal(int32(shifted - litBias))
}
