package model

// Model is the container that owns every node built against it: an
// ordered root-statement list, the reference table, per-kind variable
// inventories, an optional objective, and an optional name (spec.md
// §3.1 "Model container", §4.7).
type Model struct {
	name string
	refs RefTable

	statements []Argument

	boolVars      []*BoolVar
	intVars       []*IntVar
	intervalVars  []*IntervalVar
	sequenceVars  []*SequenceVar
	stepFunctions []*IntStepFunction

	objective        *PropertyRecord
	primaryObjective IntExpr
}

// NewModel constructs an empty model, optionally named.
func NewModel(name string) *Model {
	return &Model{name: name}
}

// Name returns the model's name, if any.
func (m *Model) Name() string { return m.name }

// SetName sets the model's name.
func (m *Model) SetName(name string) { m.name = name }

// RefTable exposes the model's reference table for the serializer,
// resolving every pending argument first.
func (m *Model) RefTable() *RefTable {
	m.Resolve()
	return &m.refs
}

// Statements returns the root-statement list as sent on the wire,
// resolving every pending argument first.
func (m *Model) Statements() []Argument {
	m.Resolve()
	out := make([]Argument, len(m.statements))
	copy(out, m.statements)
	return out
}

// Objective returns the current objective record, or nil, resolving
// its arguments first.
func (m *Model) Objective() *PropertyRecord {
	m.Resolve()
	return m.objective
}

// Resolve converts every lazily-held node reference reachable from the
// root statements, the objective, and the reference table into its
// final inline or reference Argument form, applying promotion on
// second use (spec.md §4.1). It runs in two passes — count every use
// graph-wide, then rewrite using those final counts — so that a node
// used more than once is promoted for ALL of its uses, not just the
// ones discovered after the second (see resolver in node.go). Safe to
// call repeatedly or before the model is fully built: already-resolved
// records and already-declared nodes are left untouched on repeat
// calls.
func (m *Model) Resolve() {
	r := newResolver()
	for _, a := range m.statements {
		r.count(a)
	}
	if m.objective != nil {
		for _, a := range m.objective.Exprs {
			r.count(a)
		}
	}
	// Sweep the reference table directly too, so declared nodes not
	// reachable from any statement (e.g. a SequenceVar whose own
	// argument list is never otherwise traversed) still have their
	// children counted and, below, rewritten.
	for i := 0; i < m.refs.Len(); i++ {
		rec := m.refs.At(i)
		for _, a := range rec.Args {
			r.count(a)
		}
		for _, a := range rec.Exprs {
			r.count(a)
		}
	}

	for i, a := range m.statements {
		m.statements[i] = r.rewrite(m, a)
	}
	if m.objective != nil {
		for i := range m.objective.Exprs {
			m.objective.Exprs[i] = r.rewrite(m, m.objective.Exprs[i])
		}
	}
	for i := 0; i < m.refs.Len(); i++ {
		rec := m.refs.At(i)
		for j := range rec.Args {
			rec.Args[j] = r.rewrite(m, rec.Args[j])
		}
		for j := range rec.Exprs {
			rec.Exprs[j] = r.rewrite(m, rec.Exprs[j])
		}
	}
}

// PrimaryObjective returns the handle to the first (or, for
// lexicographic objectives, the leading) optimized expression.
func (m *Model) PrimaryObjective() IntExpr { return m.primaryObjective }

// addStatement appends a root-statement reference. Called once by
// Constraint/Directive factories at creation (spec.md §3.2:
// "Constraint nodes are automatically inserted into the model's
// root-statement list"). The reference is resolved to its final
// inline/ref wire form later, by Resolve.
func (m *Model) addStatement(a Argument) {
	m.statements = append(m.statements, a)
}

// Enforce adds each boolean expression directly as a root statement
// (spec.md §4.7): the statement list is itself an Argument per entry,
// so enforcing x needs no wrapper node of its own. Enforcement means
// the expression must be true or absent in the solution, never false.
// Constraint values returned by the noOverlap/forbid* family are
// already attached at creation (spec.md §3.2) and are not
// BoolExpr, so they are never passed here — calling Enforce on one
// would be a no-op by construction, not by a runtime check.
func (m *Model) Enforce(exprs ...BoolExpr) {
	for _, x := range exprs {
		m.addStatement(argOf(x))
	}
}

// GetBoolVars returns a defensive copy of the boolean-variable
// inventory (spec.md §4.7).
func (m *Model) GetBoolVars() []*BoolVar {
	out := make([]*BoolVar, len(m.boolVars))
	copy(out, m.boolVars)
	return out
}

// GetIntVars returns a defensive copy of the integer-variable
// inventory.
func (m *Model) GetIntVars() []*IntVar {
	out := make([]*IntVar, len(m.intVars))
	copy(out, m.intVars)
	return out
}

// GetIntervalVars returns a defensive copy of the interval-variable
// inventory.
func (m *Model) GetIntervalVars() []*IntervalVar {
	out := make([]*IntervalVar, len(m.intervalVars))
	copy(out, m.intervalVars)
	return out
}

// GetSequenceVars returns a defensive copy of the sequence-variable
// inventory.
func (m *Model) GetSequenceVars() []*SequenceVar {
	out := make([]*SequenceVar, len(m.sequenceVars))
	copy(out, m.sequenceVars)
	return out
}
