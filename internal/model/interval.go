package model

// Start returns an integer expression equal to the interval's start
// (absent if the interval is absent).
func (v *IntervalVar) Start() IntExpr {
	return wrapInt(newNode(v.mdl(), &PropertyRecord{Func: "startOf", Args: []Argument{argOfNode(v.n)}}))
}

// End returns an integer expression equal to the interval's end.
func (v *IntervalVar) End() IntExpr {
	return wrapInt(newNode(v.mdl(), &PropertyRecord{Func: "endOf", Args: []Argument{argOfNode(v.n)}}))
}

// Length returns an integer expression equal to the interval's length.
func (v *IntervalVar) Length() IntExpr {
	return wrapInt(newNode(v.mdl(), &PropertyRecord{Func: "lengthOf", Args: []Argument{argOfNode(v.n)}}))
}

func (v *IntervalVar) orExpr(fn string, dflt int64) IntExpr {
	rec := &PropertyRecord{Func: fn, Args: []Argument{argOfNode(v.n), IntArg(dflt)}}
	return wrapInt(newNode(v.mdl(), rec))
}

// StartOr returns a non-absent guarded variant of Start.
func (v *IntervalVar) StartOr(dflt int64) IntExpr { return v.orExpr("startOrOf", dflt) }

// EndOr returns a non-absent guarded variant of End.
func (v *IntervalVar) EndOr(dflt int64) IntExpr { return v.orExpr("endOrOf", dflt) }

// LengthOr returns a non-absent guarded variant of Length.
func (v *IntervalVar) LengthOr(dflt int64) IntExpr { return v.orExpr("lengthOrOf", dflt) }

// Presence returns a boolean expression equal to this interval's
// presence status.
func (v *IntervalVar) Presence() BoolExpr {
	return wrapBool(newNode(v.mdl(), &PropertyRecord{Func: "presenceOf", Args: []Argument{argOfNode(v.n)}}))
}

func (v *IntervalVar) precedence(fn string, other *IntervalVar, delay int64) BoolExpr {
	rec := &PropertyRecord{Func: fn, Args: []Argument{argOfNode(v.n), argOfNode(other.n), IntArg(delay)}}
	return wrapBool(newNode(v.mdl(), rec))
}

// EndBeforeStart asserts this interval's end precedes other's start
// by at least delay (default 0).
func (v *IntervalVar) EndBeforeStart(other *IntervalVar, delay int64) BoolExpr {
	return v.precedence("endBeforeStart", other, delay)
}

// StartBeforeEnd asserts this interval's start precedes other's end.
func (v *IntervalVar) StartBeforeEnd(other *IntervalVar, delay int64) BoolExpr {
	return v.precedence("startBeforeEnd", other, delay)
}

// StartBeforeStart asserts this interval's start precedes other's start.
func (v *IntervalVar) StartBeforeStart(other *IntervalVar, delay int64) BoolExpr {
	return v.precedence("startBeforeStart", other, delay)
}

// EndBeforeEnd asserts this interval's end precedes other's end.
func (v *IntervalVar) EndBeforeEnd(other *IntervalVar, delay int64) BoolExpr {
	return v.precedence("endBeforeEnd", other, delay)
}

// EndAtStart asserts this interval's end equals other's start plus delay.
func (v *IntervalVar) EndAtStart(other *IntervalVar, delay int64) BoolExpr {
	return v.precedence("endAtStart", other, delay)
}

// StartAtEnd asserts this interval's start equals other's end plus delay.
func (v *IntervalVar) StartAtEnd(other *IntervalVar, delay int64) BoolExpr {
	return v.precedence("startAtEnd", other, delay)
}

// StartAtStart asserts this interval's start equals other's start plus delay.
func (v *IntervalVar) StartAtStart(other *IntervalVar, delay int64) BoolExpr {
	return v.precedence("startAtStart", other, delay)
}

// EndAtEnd asserts this interval's end equals other's end plus delay.
func (v *IntervalVar) EndAtEnd(other *IntervalVar, delay int64) BoolExpr {
	return v.precedence("endAtEnd", other, delay)
}

// Alternative asserts that this interval, when present, coincides
// with exactly one of the given optional intervals.
func (v *IntervalVar) Alternative(options []*IntervalVar) BoolExpr {
	args := make([]Argument, 1+len(options))
	args[0] = argOfNode(v.n)
	for i, o := range options {
		args[i+1] = argOfNode(o.n)
	}
	return wrapBool(newNode(v.mdl(), &PropertyRecord{Func: "alternative", Args: args}))
}

// Span asserts that this interval spans exactly the present members
// of intervals: its start is the minimum start and its end the
// maximum end among them.
func (v *IntervalVar) Span(intervals []*IntervalVar) BoolExpr {
	args := make([]Argument, 1+len(intervals))
	args[0] = argOfNode(v.n)
	for i, o := range intervals {
		args[i+1] = argOfNode(o.n)
	}
	return wrapBool(newNode(v.mdl(), &PropertyRecord{Func: "span", Args: args}))
}

// Position returns a 0-based integer expression for this interval's
// position within seq (absent if this interval is absent). Unavailable
// when intervals may have length zero or when seq uses transitions
// (spec.md §4.5); this constraint is the caller's responsibility since
// it depends on solver-side semantics, not client-side structure.
func (v *IntervalVar) Position(seq *SequenceVar) IntExpr {
	rec := &PropertyRecord{Func: "position", Args: []Argument{argOfNode(v.n), argOfNode(seq.n)}}
	return wrapInt(newNode(v.mdl(), rec))
}
