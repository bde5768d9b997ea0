package model

import "testing"

// buildRoundTripModel exercises enough of the graph (shared
// subexpressions, every variable kind, a sequence, a step function, and
// a lexicographic objective) that FromParts has something of everything
// to reconstruct.
func buildRoundTripModel() *Model {
	m := NewModel("roundtrip")

	b := m.NewBoolVar("b")
	a := m.NewIntVar(0, 10, "a")
	iv1 := m.NewIntervalVar("iv1")
	iv2 := m.NewIntervalVar("iv2")
	iv1.SetOptional(OptionalStatus)

	seq := m.NewSequenceVar([]*IntervalVar{iv1, iv2}, nil)
	_ = seq

	fn := m.NewIntStepFunction([]StepPoint{{X: 0, Y: 1}, {X: 5, Y: 3}})
	_ = fn

	sum := a.Plus(IntConst(m, 1))
	m.Enforce(sum.Ge(IntConst(m, 0)))
	m.Enforce(sum.Le(IntConst(m, 20)))
	m.Enforce(b)

	m.MinimizeConsecutively([]IntExpr{a, iv2.End()})

	return m
}

func TestFromPartsRoundTripsStatementsRefsAndObjective(t *testing.T) {
	orig := buildRoundTripModel()

	name := orig.Name()
	refs := orig.RefTable().Records()
	statements := orig.Statements()
	objective := orig.Objective()

	rebuilt, err := FromParts(name, refs, statements, objective)
	if err != nil {
		t.Fatalf("FromParts: %v", err)
	}

	if rebuilt.Name() != name {
		t.Fatalf("got name %q, want %q", rebuilt.Name(), name)
	}

	gotRefs := rebuilt.RefTable().Records()
	if len(gotRefs) != len(refs) {
		t.Fatalf("got %d refs, want %d", len(gotRefs), len(refs))
	}
	for i := range refs {
		if gotRefs[i] != refs[i] {
			t.Fatalf("ref %d: reconstructed table does not preserve the original record pointer/id", i)
		}
	}

	gotStmts := rebuilt.Statements()
	if len(gotStmts) != len(statements) {
		t.Fatalf("got %d statements, want %d", len(gotStmts), len(statements))
	}
	for i := range statements {
		if gotStmts[i].Kind != statements[i].Kind {
			t.Fatalf("statement %d: kind changed across round-trip: %v vs %v", i, gotStmts[i].Kind, statements[i].Kind)
		}
	}

	gotObjective := rebuilt.Objective()
	if gotObjective == nil || objective == nil {
		t.Fatalf("objective presence changed across round-trip: got %v, want %v", gotObjective, objective)
	}
	if gotObjective.Func != objective.Func {
		t.Fatalf("got objective func %q, want %q", gotObjective.Func, objective.Func)
	}

	if rebuilt.PrimaryObjective() == nil {
		t.Fatalf("PrimaryObjective() is nil after reconstruction")
	}

	// The rebuilt inventories must match the original in length and
	// declaration order, by ref id.
	if len(rebuilt.GetBoolVars()) != len(orig.GetBoolVars()) {
		t.Fatalf("bool var inventory size mismatch after round-trip")
	}
	if len(rebuilt.GetIntVars()) != len(orig.GetIntVars()) {
		t.Fatalf("int var inventory size mismatch after round-trip")
	}
	if len(rebuilt.GetIntervalVars()) != len(orig.GetIntervalVars()) {
		t.Fatalf("interval var inventory size mismatch after round-trip")
	}
	if len(rebuilt.GetSequenceVars()) != len(orig.GetSequenceVars()) {
		t.Fatalf("sequence var inventory size mismatch after round-trip")
	}
	rebuiltSeq := rebuilt.GetSequenceVars()[0]
	if len(rebuiltSeq.Intervals()) != 2 {
		t.Fatalf("got %d intervals on reconstructed sequence var, want 2", len(rebuiltSeq.Intervals()))
	}

	rebuiltIv1 := rebuilt.GetIntervalVars()[0]
	if rebuiltIv1.Optional() != OptionalStatus {
		t.Fatalf("interval var optional status lost across round-trip: got %v", rebuiltIv1.Optional())
	}
}

func TestFromPartsRejectsNilRef(t *testing.T) {
	_, err := FromParts("", []*PropertyRecord{nil}, nil, nil)
	if err == nil {
		t.Fatalf("expected an error reconstructing a nil ref entry")
	}
}
