package model

import "fmt"

// FromParts reconstructs a Model from its serialized constituents: the
// append-only reference table, the root-statement list, and the
// optional objective record (spec.md §4.7: fromJSON is the inverse of
// toJSON). Every ref id is preserved exactly — the record originally at
// index i is restored at index i — so code that cites a variable by id
// (Solution and ModelDomains lookups) keeps working against the
// reconstructed model. The primary-objective handle is rebuilt from the
// objective's leading expression, not merely the record, so
// PrimaryObjective() returns a live IntExpr the same way it would on a
// freshly built model.
func FromParts(name string, refs []*PropertyRecord, statements []Argument, objective *PropertyRecord) (*Model, error) {
	m := &Model{name: name}
	m.refs.Reset(len(refs))

	declared := make([]*node, len(refs))
	intervalsByRef := make(map[int]*IntervalVar, len(refs))

	for i, rec := range refs {
		if rec == nil {
			return nil, fmt.Errorf("model: reconstruct: ref %d is nil", i)
		}
		m.refs.Replace(i, rec)
		n := &node{model: m, slot: argSlot{record: rec, declared: true, refID: i}}
		declared[i] = n

		switch rec.Func {
		case "boolVar":
			m.boolVars = append(m.boolVars, &BoolVar{boolExprImpl: boolExprImpl{intExprImpl{exprImpl{n}}}, rec: rec})
		case "intVar":
			m.intVars = append(m.intVars, &IntVar{intExprImpl: intExprImpl{exprImpl{n}}, rec: rec})
		case "intervalVar":
			iv := &IntervalVar{n: n, rec: rec}
			m.intervalVars = append(m.intervalVars, iv)
			intervalsByRef[i] = iv
		case "sequenceVar":
			intervals := make([]*IntervalVar, 0, len(rec.Args))
			for _, a := range rec.Args {
				if a.Kind == ArgRef {
					if iv, ok := intervalsByRef[a.Ref]; ok {
						intervals = append(intervals, iv)
					}
				}
			}
			m.sequenceVars = append(m.sequenceVars, &SequenceVar{n: n, rec: rec, intervals: intervals})
		case "stepFunction":
			m.stepFunctions = append(m.stepFunctions, &IntStepFunction{n: n, rec: rec})
		}
	}

	m.statements = append([]Argument(nil), statements...)

	if objective != nil {
		m.objective = objective
		if len(objective.Exprs) > 0 {
			m.primaryObjective = wrapInt(resolvedNode(m, declared, objective.Exprs[0]))
		}
	}

	return m, nil
}

// resolvedNode bridges an already-resolved wire Argument (ArgRef,
// ArgInline, or a primitive) back to a live *node, reusing the declared
// node for a ref rather than building a duplicate one. Used only to
// restore the expression handles FromParts exposes as IntExpr/FloatExpr
// — every Arg/Exprs entry already embedded in a reconstructed record
// stays exactly as decoded and is never re-wrapped.
func resolvedNode(m *Model, declared []*node, a Argument) *node {
	switch a.Kind {
	case ArgRef:
		if a.Ref >= 0 && a.Ref < len(declared) && declared[a.Ref] != nil {
			return declared[a.Ref]
		}
		return &node{model: m, slot: argSlot{record: &PropertyRecord{}, declared: true, refID: a.Ref}}
	case ArgInline:
		return &node{model: m, slot: argSlot{record: a.Record}}
	default:
		return newConstNode(m, a)
	}
}
