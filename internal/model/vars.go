package model

// presenceFromString and presenceToString translate between the wire
// encoding (absent string = present, elided) and the Presence enum.
func presenceFromString(s string) Presence {
	switch s {
	case "optional":
		return OptionalStatus
	case "absent":
		return AbsentStatus
	default:
		return PresentStatus
	}
}

func presenceToString(p Presence) string {
	switch p {
	case OptionalStatus:
		return "optional"
	case AbsentStatus:
		return "absent"
	default:
		return ""
	}
}

// BoolVar is a boolean decision variable. It inherits the full
// integer-expression arithmetic surface (spec.md §4.2: false=0,
// true=1, absent propagating) via boolExprImpl.
type BoolVar struct {
	boolExprImpl
	rec *PropertyRecord
}

// NewBoolVar declares a new boolean variable.
func (m *Model) NewBoolVar(name string) *BoolVar {
	rec := &PropertyRecord{Func: "boolVar", Name: name}
	n := declareNode(m, rec)
	v := &BoolVar{boolExprImpl: boolExprImpl{intExprImpl{exprImpl{n}}}, rec: rec}
	m.boolVars = append(m.boolVars, v)
	return v
}

// Optional reports this variable's tri-state presence status.
func (v *BoolVar) Optional() Presence { return presenceFromString(v.rec.Presence) }

// SetOptional sets the presence status. Setting AbsentStatus is a
// constraint: the solver must not assign the variable in the solution.
func (v *BoolVar) SetOptional(p Presence) { v.rec.Presence = presenceToString(p) }

// Name returns the variable's name, if any.
func (v *BoolVar) Name() string { return v.rec.Name }

// SetName sets the variable's name.
func (v *BoolVar) SetName(s string) { v.rec.Name = s }

// FixTo pins the variable to a single boolean value.
func (v *BoolVar) FixTo(value bool) {
	b := int64(0)
	if value {
		b = 1
	}
	v.rec.Min, v.rec.Max = i64p(b), i64p(b)
}

// FixedTo reports whether the variable's domain has been pinned to a
// single value, and if so, which one. This is a convenience accessor
// alongside the tri-state Optional/SetOptional pair (see DESIGN.md);
// the wire form always uses the tri-state presence encoding.
func (v *BoolVar) FixedTo() (value bool, ok bool) {
	if v.rec.Min == nil || v.rec.Max == nil || *v.rec.Min != *v.rec.Max {
		return false, false
	}
	return *v.rec.Min != 0, true
}

// IntVar is an integer decision variable.
type IntVar struct {
	intExprImpl
	rec *PropertyRecord
}

// NewIntVar declares a new integer variable with the given inclusive
// bounds, clamped to the fixed protocol domain (spec.md §3.2).
func (m *Model) NewIntVar(lb, ub int64, name string) *IntVar {
	if lb < IntVarMin {
		lb = IntVarMin
	}
	if ub > IntVarMax {
		ub = IntVarMax
	}
	rec := &PropertyRecord{Func: "intVar", Min: i64p(lb), Max: i64p(ub), Name: name}
	n := declareNode(m, rec)
	v := &IntVar{intExprImpl: intExprImpl{exprImpl{n}}, rec: rec}
	m.intVars = append(m.intVars, v)
	return v
}

func (v *IntVar) Optional() Presence     { return presenceFromString(v.rec.Presence) }
func (v *IntVar) SetOptional(p Presence) { v.rec.Presence = presenceToString(p) }
func (v *IntVar) Name() string           { return v.rec.Name }
func (v *IntVar) SetName(s string)       { v.rec.Name = s }
func (v *IntVar) SetMin(lb int64)        { v.rec.Min = i64p(lb) }
func (v *IntVar) SetMax(ub int64)        { v.rec.Max = i64p(ub) }

// Min returns the variable's lower bound, and false if the variable is
// absent (spec.md §4.2: an absent variable's range getters report the
// null/absent sentinel rather than a stale bound).
func (v *IntVar) Min() (int64, bool) {
	if v.Optional() == AbsentStatus {
		return 0, false
	}
	return *v.rec.Min, true
}

// Max returns the variable's upper bound, and false if the variable is
// absent.
func (v *IntVar) Max() (int64, bool) {
	if v.Optional() == AbsentStatus {
		return 0, false
	}
	return *v.rec.Max, true
}

// IntervalVar is an interval decision variable: a possibly-absent
// [start, end) span with a derived length (spec.md §4.2).
type IntervalVar struct {
	n   *node
	rec *PropertyRecord
}

// NewIntervalVar declares a new interval variable.
func (m *Model) NewIntervalVar(name string) *IntervalVar {
	rec := &PropertyRecord{
		Func:      "intervalVar",
		StartMin:  i64p(IntervalMin),
		StartMax:  i64p(IntervalMax),
		EndMin:    i64p(IntervalMin),
		EndMax:    i64p(IntervalMax),
		LengthMin: i64p(0),
		LengthMax: i64p(LengthMax),
		Name:      name,
	}
	n := declareNode(m, rec)
	v := &IntervalVar{n: n, rec: rec}
	m.intervalVars = append(m.intervalVars, v)
	return v
}

func (v *IntervalVar) mdl() *Model { return v.n.model }

func (v *IntervalVar) Optional() Presence     { return presenceFromString(v.rec.Presence) }
func (v *IntervalVar) SetOptional(p Presence) { v.rec.Presence = presenceToString(p) }
func (v *IntervalVar) Name() string           { return v.rec.Name }
func (v *IntervalVar) SetName(s string)       { v.rec.Name = s }

func (v *IntervalVar) SetStartMin(x int64)  { v.rec.StartMin = i64p(x) }
func (v *IntervalVar) SetStartMax(x int64)  { v.rec.StartMax = i64p(x) }
func (v *IntervalVar) SetEndMin(x int64)    { v.rec.EndMin = i64p(x) }
func (v *IntervalVar) SetEndMax(x int64)    { v.rec.EndMax = i64p(x) }
func (v *IntervalVar) SetLengthMin(x int64) { v.rec.LengthMin = i64p(x) }
func (v *IntervalVar) SetLengthMax(x int64) { v.rec.LengthMax = i64p(x) }

// StartMin returns the interval's earliest possible start, and false
// if the interval is absent.
func (v *IntervalVar) StartMin() (int64, bool) { return v.bound(v.rec.StartMin) }

// StartMax returns the interval's latest possible start, and false if
// the interval is absent.
func (v *IntervalVar) StartMax() (int64, bool) { return v.bound(v.rec.StartMax) }

// EndMin returns the interval's earliest possible end, and false if
// the interval is absent.
func (v *IntervalVar) EndMin() (int64, bool) { return v.bound(v.rec.EndMin) }

// EndMax returns the interval's latest possible end, and false if the
// interval is absent.
func (v *IntervalVar) EndMax() (int64, bool) { return v.bound(v.rec.EndMax) }

// LengthMin returns the interval's shortest possible length, and false
// if the interval is absent.
func (v *IntervalVar) LengthMin() (int64, bool) { return v.bound(v.rec.LengthMin) }

// LengthMax returns the interval's longest possible length, and false
// if the interval is absent.
func (v *IntervalVar) LengthMax() (int64, bool) { return v.bound(v.rec.LengthMax) }

// bound reads one of the interval's own bound pointers, reporting
// absence instead of dereferencing it when the interval is absent
// (spec.md §4.2).
func (v *IntervalVar) bound(p *int64) (int64, bool) {
	if v.Optional() == AbsentStatus {
		return 0, false
	}
	return *p, true
}

// exprNode lets an *IntervalVar be passed directly wherever an
// Argument-producing node is needed (alternative/span/noOverlap
// arguments reference the interval itself, not one of its endpoints).
func (v *IntervalVar) exprNode() *node { return v.n }

// SequenceVar orders a list of interval variables, optionally tagged
// with a symmetry-class type per interval (spec.md §4.5).
type SequenceVar struct {
	n         *node
	rec       *PropertyRecord
	intervals []*IntervalVar
}

// NewSequenceVar declares a sequence over the given intervals, with
// an optional parallel types slice (nil if untyped).
func (m *Model) NewSequenceVar(intervals []*IntervalVar, types []int64) *SequenceVar {
	rec := &PropertyRecord{Func: "sequenceVar", Args: make([]Argument, len(intervals)), Types: types}
	for i, iv := range intervals {
		rec.Args[i] = argOfNode(iv.n)
	}
	n := declareNode(m, rec)
	v := &SequenceVar{n: n, rec: rec, intervals: append([]*IntervalVar(nil), intervals...)}
	m.sequenceVars = append(m.sequenceVars, v)
	return v
}

func (v *SequenceVar) exprNode() *node        { return v.n }
func (v *SequenceVar) Intervals() []*IntervalVar {
	out := make([]*IntervalVar, len(v.intervals))
	copy(out, v.intervals)
	return out
}

// IntStepFunction is a sorted (x, y) step function (spec.md §4.4).
type IntStepFunction struct {
	n    *node
	rec  *PropertyRecord
}

// NewIntStepFunction declares a step function from points already in
// ascending x order.
func (m *Model) NewIntStepFunction(points []StepPoint) *IntStepFunction {
	rec := &PropertyRecord{Func: "stepFunction", Points: append([]StepPoint(nil), points...)}
	n := declareNode(m, rec)
	f := &IntStepFunction{n: n, rec: rec}
	m.stepFunctions = append(m.stepFunctions, f)
	return f
}

func (f *IntStepFunction) exprNode() *node    { return f.n }
func (f *IntStepFunction) Points() []StepPoint {
	out := make([]StepPoint, len(f.rec.Points))
	copy(out, f.rec.Points)
	return out
}
