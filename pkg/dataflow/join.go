package dataflow

// Join cross-multiplies multiplicities per key (spec §4.4). A left change
// (k,v1,n) emits (k,(v1,v2),n*m) for every (v2,m) currently on the right
// before being accumulated into the left map; a right change is
// processed symmetrically against the (now up to date) left map. Reading
// left before right on every pull is what makes the incremental product
// exact: newLeft x oldRight, then newRight x currentLeft covers exactly
// the cross terms introduced this pull.
type Join[K comparable, V1 comparable, V2 comparable] struct {
	left  Operator[Pair[K, V1]]
	right Operator[Pair[K, V2]]

	leftMap  map[K]map[V1]int64
	rightMap map[K]map[V2]int64
}

// NewJoin wraps left and right.
func NewJoin[K comparable, V1 comparable, V2 comparable](left Operator[Pair[K, V1]], right Operator[Pair[K, V2]]) *Join[K, V1, V2] {
	return &Join[K, V1, V2]{
		left:     left,
		right:    right,
		leftMap:  make(map[K]map[V1]int64),
		rightMap: make(map[K]map[V2]int64),
	}
}

func (j *Join[K, V1, V2]) ForEach(commit int64, yield func(p Pair[K, Pair[V1, V2]], mult int64)) {
	j.left.ForEach(commit, func(p Pair[K, V1], n int64) {
		k, v1 := p.First, p.Second
		for v2, m := range j.rightMap[k] {
			yield(Pair[K, Pair[V1, V2]]{First: k, Second: Pair[V1, V2]{First: v1, Second: v2}}, n*m)
		}
		byVal := j.leftMap[k]
		if byVal == nil {
			byVal = make(map[V1]int64)
			j.leftMap[k] = byVal
		}
		next := byVal[v1] + n
		if next == 0 {
			delete(byVal, v1)
			if len(byVal) == 0 {
				delete(j.leftMap, k)
			}
		} else {
			byVal[v1] = next
		}
	})

	j.right.ForEach(commit, func(p Pair[K, V2], m int64) {
		k, v2 := p.First, p.Second
		for v1, n := range j.leftMap[k] {
			yield(Pair[K, Pair[V1, V2]]{First: k, Second: Pair[V1, V2]{First: v1, Second: v2}}, n*m)
		}
		byVal := j.rightMap[k]
		if byVal == nil {
			byVal = make(map[V2]int64)
			j.rightMap[k] = byVal
		}
		next := byVal[v2] + m
		if next == 0 {
			delete(byVal, v2)
			if len(byVal) == 0 {
				delete(j.rightMap, k)
			}
		} else {
			byVal[v2] = next
		}
	})
}
