package model

// NoOverlap asserts that the present intervals of seq do not overlap
// in time, honoring an optional square transition matrix indexed by
// type (spec.md §4.5). The transition between any two pairs of
// intervals, not only consecutive ones, must be respected; transitions
// are non-negative.
func (m *Model) NoOverlap(seq *SequenceVar, transitions [][]int64) *Constraint {
	rec := &PropertyRecord{Func: "noOverlap", Args: []Argument{argOfNode(seq.n)}, Transitions: transitions}
	return newConstraint(m, rec)
}

// NoOverlapArray is NoOverlap over a plain interval list: an auxiliary,
// untyped sequence is created internally to carry the constraint.
func (m *Model) NoOverlapArray(intervals []*IntervalVar, transitions [][]int64) *Constraint {
	seq := m.NewSequenceVar(intervals, nil)
	return m.NoOverlap(seq, transitions)
}
