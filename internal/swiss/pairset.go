package swiss

// pairSet is a set of pair IDs. IDs index the n*(n-1)/2 unordered pairs of
// a field of at most MaxCompetitors.
type pairSet [2]uint64

// pairID returns the ID of the unordered pair {a, b} in a field of n.
func pairID(n, a, b int) int {
	if a > b {
		a, b = b, a
	}
	return a*n - a*(a+1)/2 + (b - a - 1)
}

func (s pairSet) with(id int) pairSet {
	s[id/64] |= 1 << (id % 64)
	return s
}

func (s pairSet) has(id int) bool {
	return s[id/64]&(1<<(id%64)) != 0
}

func (s pairSet) union(o pairSet) pairSet {
	return pairSet{s[0] | o[0], s[1] | o[1]}
}

func (s pairSet) intersects(o pairSet) bool {
	return s[0]&o[0] != 0 || s[1]&o[1] != 0
}
