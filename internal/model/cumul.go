package model

// CumulExpr represents a piecewise cumulative-usage function over
// time (spec.md §4.3): pulses and steps contributed by intervals,
// composed by negation, sum, and bounded by capacity constraints.
//
// Pulse-based and step-based cumulative expressions may not be mixed
// within the same Sum; that restriction is enforced solver-side, not
// structurally on the client (spec.md §4.3 "Limitation").
type CumulExpr interface {
	exprNode() *node
	Neg() CumulExpr
	Plus(CumulExpr) CumulExpr
	Minus(CumulExpr) CumulExpr
	Le(cap FloatExpr) BoolExpr
	Ge(cap int64) BoolExpr
}

type cumulImpl struct{ n *node }

func wrapCumul(n *node) CumulExpr { return &cumulImpl{n} }

func (c *cumulImpl) exprNode() *node { return c.n }
func (c *cumulImpl) mdl() *Model     { return c.n.model }

func (c *cumulImpl) Neg() CumulExpr {
	return wrapCumul(newNode(c.mdl(), &PropertyRecord{Func: "cumulNeg", Args: []Argument{argOfNode(c.n)}}))
}

func (c *cumulImpl) Plus(o CumulExpr) CumulExpr {
	rec := &PropertyRecord{Func: "cumulPlus", Args: []Argument{argOfNode(c.n), argOf(o)}}
	return wrapCumul(newNode(c.mdl(), rec))
}

func (c *cumulImpl) Minus(o CumulExpr) CumulExpr {
	rec := &PropertyRecord{Func: "cumulMinus", Args: []Argument{argOfNode(c.n), argOf(o)}}
	return wrapCumul(newNode(c.mdl(), rec))
}

// Le bounds this cumulative function above by cap, which may be a
// variable integer expression.
func (c *cumulImpl) Le(cap FloatExpr) BoolExpr {
	rec := &PropertyRecord{Func: "cumulLe", Args: []Argument{argOfNode(c.n), argOf(cap)}}
	return wrapBool(newNode(c.mdl(), rec))
}

// Ge bounds this cumulative function below by a constant reservoir
// level (spec.md §4.3: "ge accepts only a constant").
func (c *cumulImpl) Ge(cap int64) BoolExpr {
	rec := &PropertyRecord{Func: "cumulGe", Args: []Argument{argOfNode(c.n), IntArg(cap)}}
	return wrapBool(newNode(c.mdl(), rec))
}

// Pulse adds height (non-negative) to the cumulative function during
// [v.start, v.end).
func (v *IntervalVar) Pulse(height int64) CumulExpr {
	rec := &PropertyRecord{Func: "pulse", Args: []Argument{argOfNode(v.n), IntArg(height)}}
	return wrapCumul(newNode(v.mdl(), rec))
}

// StepAtStart adds height (possibly negative) permanently from v's start.
func (v *IntervalVar) StepAtStart(height int64) CumulExpr {
	rec := &PropertyRecord{Func: "stepAtStart", Args: []Argument{argOfNode(v.n), IntArg(height)}}
	return wrapCumul(newNode(v.mdl(), rec))
}

// StepAtEnd adds height (possibly negative) permanently from v's end.
func (v *IntervalVar) StepAtEnd(height int64) CumulExpr {
	rec := &PropertyRecord{Func: "stepAtEnd", Args: []Argument{argOfNode(v.n), IntArg(height)}}
	return wrapCumul(newNode(v.mdl(), rec))
}

// StepAt adds height (possibly negative) permanently from time t.
func StepAt(m *Model, t int64, height int64) CumulExpr {
	rec := &PropertyRecord{Func: "stepAt", Args: []Argument{IntArg(t), IntArg(height)}}
	return wrapCumul(newNode(m, rec))
}

// CumulSum builds the n-ary sum of cumulative expressions.
func CumulSum(m *Model, args ...CumulExpr) CumulExpr {
	rec := &PropertyRecord{Func: "cumulSum", Args: make([]Argument, len(args))}
	for i, a := range args {
		rec.Args[i] = argOf(a)
	}
	return wrapCumul(newNode(m, rec))
}
