package model

// argSlot is the single argument slot every node owns (spec.md §4.1):
// inline until its second use, then promoted to a stable reference.
type argSlot struct {
	record   *PropertyRecord
	declared bool
	refID    int
	uses     int
}

// arg returns this slot's current Argument form, promoting it from
// inline to reference on the second call. Declaration nodes are
// constructed already `declared`, so they always return ArgRef. Used
// directly only by refID (on always-declared nodes, where the
// promotion branch can never run); general argument resolution goes
// through resolver.rewrite instead, which decides inline-vs-ref from
// a graph-wide use count rather than call order.
func (s *argSlot) arg(m *Model) Argument {
	if s.declared {
		return Argument{Kind: ArgRef, Ref: s.refID}
	}
	s.uses++
	if s.uses == 1 {
		return Argument{Kind: ArgInline, Record: s.record}
	}
	s.refID = m.refs.Append(s.record)
	s.declared = true
	return Argument{Kind: ArgRef, Ref: s.refID}
}

// node is the shared base of every modeling node: a model owner and
// one argument slot over a property record. A constant leaf (built by
// IntConst/FloatConst/BoolConst) carries prim instead of a record: it
// has no place in the reference table and always resolves to the same
// raw primitive Argument, however many times it is used.
type node struct {
	model *Model
	slot  argSlot
	prim  *Argument
}

func newNode(m *Model, rec *PropertyRecord) *node {
	return &node{model: m, slot: argSlot{record: rec}}
}

func newConstNode(m *Model, a Argument) *node {
	return &node{model: m, prim: &a}
}

// IntConst wraps a raw integer as an IntExpr, for use as an operand
// wherever the capability interfaces require one. It never occupies a
// reference-table slot: it always serializes as the bare integer
// (spec.md §3.1 "Primitive" argument kind).
func IntConst(m *Model, v int64) IntExpr { return wrapInt(newConstNode(m, IntArg(v))) }

// FloatConst wraps a raw float as a FloatExpr.
func FloatConst(m *Model, v float64) FloatExpr { return wrapFloat(newConstNode(m, FloatArg(v))) }

// BoolConst wraps a raw boolean as a BoolExpr.
func BoolConst(m *Model, v bool) BoolExpr { return wrapBool(newConstNode(m, BoolArg(v))) }

// declareNode builds a node whose record is inserted into the
// reference table immediately (spec.md §3.2: "a declaration node is
// inserted into the reference table at creation").
func declareNode(m *Model, rec *PropertyRecord) *node {
	id := m.refs.Append(rec)
	return &node{model: m, slot: argSlot{record: rec, declared: true, refID: id}}
}

// refID reports the node's reference id. Only valid on declaration
// nodes (variables, sequences, step functions), which are always
// `declared` from construction, so calling this never has the
// promotion side effect that calling arg() directly on a non-declared
// node would have. Used by callers (e.g. Solution lookups) that must
// cite a variable by id regardless of how many times it has otherwise
// been used as an argument.
func (n *node) refID() int {
	return n.slot.arg(n.model).Ref
}

// nodeHolder is satisfied by every wrapper type that owns a node:
// the Expr family, variables, arrays, constraints, and objectives.
type nodeHolder interface {
	exprNode() *node
}

// argOfNode builds the lazily-resolved Argument form of a node
// reference. Construction-time record building always goes through
// this (or argOf), never through node.arg() directly: the actual
// inline/reference decision only happens during Model.Resolve, once
// the whole graph's usage counts are final (spec.md §3.2: "the wire
// representation equals the model regardless of construction order").
func argOfNode(n *node) Argument { return Argument{Kind: ArgNode, Node: n} }

// argOf is argOfNode for anything satisfying nodeHolder.
func argOf(x nodeHolder) Argument { return argOfNode(x.exprNode()) }

// resolver finalizes a model's lazy node references in two passes, so
// that every use of a shared node agrees on the same inline-or-ref
// decision regardless of which use is visited first (spec.md §3.2:
// "the wire representation equals the model regardless of construction
// order"). A single depth-first resolve-as-you-go pass cannot
// guarantee this: the first use discovered would freeze as inline
// before a later use revealed the node is actually shared, leaving the
// same subgraph duplicated once inline and once promoted. Counting
// every use first, then rewriting with the final counts, avoids that.
type resolver struct {
	counts map[*node]int  // uses of each not-yet-declared node, graph-wide
	walked map[*node]bool // each node's own Args/Exprs are counted once
}

func newResolver() *resolver {
	return &resolver{counts: map[*node]int{}, walked: map[*node]bool{}}
}

// count registers one use of a's node, if any, and walks its children
// exactly once regardless of how many times the node itself is used.
func (r *resolver) count(a Argument) {
	if a.Kind != ArgNode {
		return
	}
	n := a.Node
	if n.prim != nil {
		return
	}
	if !n.slot.declared {
		r.counts[n]++
	}
	if r.walked[n] {
		return
	}
	r.walked[n] = true
	for _, arg := range n.slot.record.Args {
		r.count(arg)
	}
	for _, arg := range n.slot.record.Exprs {
		r.count(arg)
	}
}

// rewrite converts a into its final inline/ref/primitive wire form
// using the counts already finalized by count, recursing into a
// record's own arguments the first time that record is rewritten.
func (r *resolver) rewrite(m *Model, a Argument) Argument {
	if a.Kind != ArgNode {
		return a
	}
	n := a.Node
	if n.prim != nil {
		return *n.prim
	}
	if !n.slot.declared && r.counts[n] >= 2 {
		n.slot.refID = m.refs.Append(n.slot.record)
		n.slot.declared = true
	}
	result := Argument{Kind: ArgInline, Record: n.slot.record}
	if n.slot.declared {
		result = Argument{Kind: ArgRef, Ref: n.slot.refID}
	}
	rec := n.slot.record
	if !rec.resolved {
		rec.resolved = true
		for i := range rec.Args {
			rec.Args[i] = r.rewrite(m, rec.Args[i])
		}
		for i := range rec.Exprs {
			rec.Exprs[i] = r.rewrite(m, rec.Exprs[i])
		}
	}
	return result
}

// FloatExpr is the capability trait shared by every node that
// produces a float value (spec.md §3.1, §4.3): float/int expressions,
// and by extension boolean expressions and every variable kind.
type FloatExpr interface {
	exprNode() *node

	Neg() FloatExpr
	Plus(FloatExpr) FloatExpr
	Minus(FloatExpr) FloatExpr
	Times(FloatExpr) FloatExpr
	Div(FloatExpr) FloatExpr
	Abs() FloatExpr
	Min2(FloatExpr) FloatExpr
	Max2(FloatExpr) FloatExpr
	Eq(FloatExpr) BoolExpr
	Ne(FloatExpr) BoolExpr
	Lt(FloatExpr) BoolExpr
	Le(FloatExpr) BoolExpr
	Gt(FloatExpr) BoolExpr
	Ge(FloatExpr) BoolExpr
	InRange(lb, ub float64) BoolExpr
	Identity(FloatExpr) BoolExpr
	Guard(def float64) FloatExpr
	Presence() BoolExpr
}

// IntExpr narrows FloatExpr to nodes that produce an integer value.
type IntExpr interface {
	FloatExpr
	intExprNode() *node
}

// BoolExpr narrows IntExpr with false=0/true=1 semantics (spec.md
// §4.2: "boolean variables inherit all integer-expression arithmetic")
// plus the boolean-algebra surface.
type BoolExpr interface {
	IntExpr
	Not() BoolExpr
	And(BoolExpr) BoolExpr
	Or(BoolExpr) BoolExpr
	Implies(BoolExpr) BoolExpr
}

// exprImpl implements FloatExpr over a plain node.
type exprImpl struct{ n *node }

func wrapFloat(n *node) FloatExpr { return &exprImpl{n} }

func (e *exprImpl) exprNode() *node { return e.n }

func (e *exprImpl) mdl() *Model { return e.n.model }

func unaryRecord(fn string, a FloatExpr) *PropertyRecord {
	return &PropertyRecord{Func: fn, Args: []Argument{argOf(a)}}
}

func binaryRecord(fn string, a, b FloatExpr) *PropertyRecord {
	return &PropertyRecord{Func: fn, Args: []Argument{argOf(a), argOf(b)}}
}

func (e *exprImpl) Neg() FloatExpr  { return wrapFloat(newNode(e.mdl(), unaryRecord("neg", e))) }
func (e *exprImpl) Abs() FloatExpr  { return wrapFloat(newNode(e.mdl(), unaryRecord("abs", e))) }
func (e *exprImpl) Guard(def float64) FloatExpr {
	rec := unaryRecord("guard", e)
	rec.Args = append(rec.Args, FloatArg(def))
	return wrapFloat(newNode(e.mdl(), rec))
}
func (e *exprImpl) Presence() BoolExpr {
	return wrapBool(newNode(e.mdl(), unaryRecord("presenceOf", e)))
}

func (e *exprImpl) Plus(o FloatExpr) FloatExpr {
	return wrapFloat(newNode(e.mdl(), binaryRecord("plus", e, o)))
}
func (e *exprImpl) Minus(o FloatExpr) FloatExpr {
	return wrapFloat(newNode(e.mdl(), binaryRecord("minus", e, o)))
}
func (e *exprImpl) Times(o FloatExpr) FloatExpr {
	return wrapFloat(newNode(e.mdl(), binaryRecord("times", e, o)))
}
func (e *exprImpl) Div(o FloatExpr) FloatExpr {
	return wrapFloat(newNode(e.mdl(), binaryRecord("div", e, o)))
}
func (e *exprImpl) Min2(o FloatExpr) FloatExpr {
	return wrapFloat(newNode(e.mdl(), binaryRecord("min2", e, o)))
}
func (e *exprImpl) Max2(o FloatExpr) FloatExpr {
	return wrapFloat(newNode(e.mdl(), binaryRecord("max2", e, o)))
}

func (e *exprImpl) Eq(o FloatExpr) BoolExpr {
	return wrapBool(newNode(e.mdl(), binaryRecord("eq", e, o)))
}
func (e *exprImpl) Ne(o FloatExpr) BoolExpr {
	return wrapBool(newNode(e.mdl(), binaryRecord("ne", e, o)))
}
func (e *exprImpl) Lt(o FloatExpr) BoolExpr {
	return wrapBool(newNode(e.mdl(), binaryRecord("lt", e, o)))
}
func (e *exprImpl) Le(o FloatExpr) BoolExpr {
	return wrapBool(newNode(e.mdl(), binaryRecord("le", e, o)))
}
func (e *exprImpl) Gt(o FloatExpr) BoolExpr {
	return wrapBool(newNode(e.mdl(), binaryRecord("gt", e, o)))
}
func (e *exprImpl) Ge(o FloatExpr) BoolExpr {
	return wrapBool(newNode(e.mdl(), binaryRecord("ge", e, o)))
}
func (e *exprImpl) InRange(lb, ub float64) BoolExpr {
	rec := unaryRecord("inRange", e)
	rec.Args = append(rec.Args, FloatArg(lb), FloatArg(ub))
	return wrapBool(newNode(e.mdl(), rec))
}
func (e *exprImpl) Identity(o FloatExpr) BoolExpr {
	return wrapBool(newNode(e.mdl(), binaryRecord("identity", e, o)))
}

// intExprImpl implements IntExpr, embedding exprImpl for the shared
// float-capability surface.
type intExprImpl struct{ exprImpl }

func wrapInt(n *node) IntExpr { return &intExprImpl{exprImpl{n}} }

func (e *intExprImpl) intExprNode() *node { return e.n }

// boolExprImpl implements BoolExpr, embedding intExprImpl.
type boolExprImpl struct{ intExprImpl }

func wrapBool(n *node) BoolExpr { return &boolExprImpl{intExprImpl{exprImpl{n}}} }

func (e *boolExprImpl) Not() BoolExpr {
	return wrapBool(newNode(e.mdl(), unaryRecord("not", e)))
}
func (e *boolExprImpl) And(o BoolExpr) BoolExpr {
	return wrapBool(newNode(e.mdl(), binaryRecord("and", e, o)))
}
func (e *boolExprImpl) Or(o BoolExpr) BoolExpr {
	return wrapBool(newNode(e.mdl(), binaryRecord("or", e, o)))
}
func (e *boolExprImpl) Implies(o BoolExpr) BoolExpr {
	return wrapBool(newNode(e.mdl(), binaryRecord("implies", e, o)))
}

// nAryRecord builds the record of an n-ary min/max/sum node with absent-skip semantics
// (spec.md §4.3: "the result is absent only when all inputs are
// absent"), distinguishing it from the binary min2/max2 infection
// semantics.
func nAryRecord(fn string, m *Model, args []FloatExpr) *PropertyRecord {
	rec := &PropertyRecord{Func: fn, Args: make([]Argument, len(args))}
	for i, a := range args {
		rec.Args[i] = argOf(a)
	}
	return rec
}

// Sum builds the n-ary sum of the given float expressions.
func Sum(m *Model, args ...FloatExpr) FloatExpr {
	return wrapFloat(newNode(m, nAryRecord("sum", m, args)))
}

// Min builds the n-ary min of the given float expressions.
func Min(m *Model, args ...FloatExpr) FloatExpr {
	return wrapFloat(newNode(m, nAryRecord("min", m, args)))
}

// Max builds the n-ary max of the given float expressions.
func Max(m *Model, args ...FloatExpr) FloatExpr {
	return wrapFloat(newNode(m, nAryRecord("max", m, args)))
}
