package model

// Eval returns the step function's value at arg, absent-propagating.
func (f *IntStepFunction) Eval(arg IntExpr) IntExpr {
	rec := &PropertyRecord{Func: "stepFunctionEval", Args: []Argument{argOfNode(f.n), argOf(arg)}}
	return wrapInt(newNode(f.n.model, rec))
}

// Integral returns the sum of the step function's values over
// [iv.start, iv.end); the function must be non-negative.
func (f *IntStepFunction) Integral(iv *IntervalVar) IntExpr {
	rec := &PropertyRecord{Func: "stepFunctionIntegral", Args: []Argument{argOfNode(f.n), argOfNode(iv.n)}}
	return wrapInt(newNode(f.n.model, rec))
}

// ForbidExtent pins iv's whole extent away from zero-valued segments
// of the step function.
func (f *IntStepFunction) ForbidExtent(iv *IntervalVar) *Constraint {
	rec := &PropertyRecord{Func: "forbidExtent", Args: []Argument{argOfNode(iv.n), argOfNode(f.n)}}
	return newConstraint(f.n.model, rec)
}

// ForbidStart pins iv's start away from zero-valued segments.
func (f *IntStepFunction) ForbidStart(iv *IntervalVar) *Constraint {
	rec := &PropertyRecord{Func: "forbidStart", Args: []Argument{argOfNode(iv.n), argOfNode(f.n)}}
	return newConstraint(f.n.model, rec)
}

// ForbidEnd pins iv's end away from zero-valued segments.
func (f *IntStepFunction) ForbidEnd(iv *IntervalVar) *Constraint {
	rec := &PropertyRecord{Func: "forbidEnd", Args: []Argument{argOfNode(iv.n), argOfNode(f.n)}}
	return newConstraint(f.n.model, rec)
}
