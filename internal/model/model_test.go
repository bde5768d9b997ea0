package model

import "testing"

func TestPromotionSingleUseStaysInline(t *testing.T) {
	m := NewModel("")
	a := m.NewIntVar(0, 10, "a")
	sum := a.Plus(IntConst(m, 1)) // used exactly once, as the enforced statement
	m.Enforce(sum.Ge(IntConst(m, 5)))

	stmts := m.Statements()
	if len(stmts) != 1 {
		t.Fatalf("got %d statements, want 1", len(stmts))
	}
	if stmts[0].Kind != ArgInline {
		t.Fatalf("single-use expression should stay inline, got Kind=%v", stmts[0].Kind)
	}
	ge := stmts[0].Record
	if ge.Func != "ge" {
		t.Fatalf("got func %q, want ge", ge.Func)
	}
	// sum is used once inside the ge record's args and should itself be inline.
	if ge.Args[0].Kind != ArgInline || ge.Args[0].Record.Func != "plus" {
		t.Fatalf("sum operand should be an inline plus record, got %+v", ge.Args[0])
	}
}

func TestPromotionOnSecondUse(t *testing.T) {
	m := NewModel("")
	a := m.NewIntVar(0, 10, "a")
	b := m.NewIntVar(0, 10, "b")
	sum := a.Plus(b) // shared subexpression, used three times below

	m.Enforce(sum.Ge(IntConst(m, 1)))
	m.Enforce(sum.Le(IntConst(m, 9)))
	m.Enforce(sum.Ne(IntConst(m, 5)))

	stmts := m.Statements()
	if len(stmts) != 3 {
		t.Fatalf("got %d statements, want 3", len(stmts))
	}

	var refID = -1
	for i, s := range stmts {
		if s.Kind != ArgInline {
			t.Fatalf("statement %d should be inline (ge/le/ne), got Kind=%v", i, s.Kind)
		}
		operand := s.Record.Args[0]
		if operand.Kind != ArgRef {
			t.Fatalf("statement %d: sum operand should be promoted to ArgRef, got %+v", i, operand)
		}
		if refID == -1 {
			refID = operand.Ref
		} else if operand.Ref != refID {
			t.Fatalf("statement %d: sum operand ref id %d differs from first use %d", i, operand.Ref, refID)
		}
	}

	refs := m.RefTable()
	if refs.At(refID).Func != "plus" {
		t.Fatalf("ref table entry %d should be the shared plus record, got func %q", refID, refs.At(refID).Func)
	}

	// Exactly one ref-table entry for the shared node: no other record
	// in the table duplicates it.
	count := 0
	for _, rec := range refs.Records() {
		if rec.Func == "plus" {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("got %d plus records in the reference table, want exactly 1", count)
	}
}

func TestResolveIsIdempotent(t *testing.T) {
	m := NewModel("")
	a := m.NewIntVar(0, 10, "a")
	b := m.NewIntVar(0, 10, "b")
	sum := a.Plus(b)
	m.Enforce(sum.Ge(IntConst(m, 0)))
	m.Enforce(sum.Le(IntConst(m, 20)))

	first := m.Statements()
	m.Resolve()
	m.Resolve()
	second := m.Statements()

	if len(first) != len(second) {
		t.Fatalf("statement count changed across repeated Resolve calls: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Kind != second[i].Kind {
			t.Fatalf("statement %d kind changed across repeated Resolve calls: %v vs %v", i, first[i].Kind, second[i].Kind)
		}
	}
}

func TestVarInventoryRefIDMatchesDeclarationOrder(t *testing.T) {
	m := NewModel("")
	b0 := m.NewBoolVar("b0")
	i0 := m.NewIntVar(0, 1, "i0")
	b1 := m.NewBoolVar("b1")
	i1 := m.NewIntVar(0, 1, "i1")

	refs := m.RefTable()

	if id := b0.n.refID(); refs.At(id) != b0.rec {
		t.Fatalf("b0's ref id %d does not address its own record", id)
	}
	if id := b1.n.refID(); refs.At(id) != b1.rec {
		t.Fatalf("b1's ref id %d does not address its own record", id)
	}
	if id := i0.n.refID(); refs.At(id) != i0.rec {
		t.Fatalf("i0's ref id %d does not address its own record", id)
	}
	if id := i1.n.refID(); refs.At(id) != i1.rec {
		t.Fatalf("i1's ref id %d does not address its own record", id)
	}

	gotBool := m.GetBoolVars()
	if len(gotBool) != 2 || gotBool[0] != b0 || gotBool[1] != b1 {
		t.Fatalf("GetBoolVars did not return vars in declaration order")
	}
	gotInt := m.GetIntVars()
	if len(gotInt) != 2 || gotInt[0] != i0 || gotInt[1] != i1 {
		t.Fatalf("GetIntVars did not return vars in declaration order")
	}
}

func TestArrayIdentitySharesOneReference(t *testing.T) {
	m := NewModel("")
	a := m.NewIntVar(0, 10, "a")
	b := m.NewIntVar(0, 10, "b")
	arr := m.IntExprArray([]IntExpr{a, b})

	// Using the same *Array handle twice must dedupe to one ref-table
	// entry; a second, structurally identical array stays distinct.
	other := m.IntExprArray([]IntExpr{a, b})

	rec1 := &PropertyRecord{Func: "arrayUser1", Args: []Argument{argOf(arr)}}
	rec2 := &PropertyRecord{Func: "arrayUser2", Args: []Argument{argOf(arr)}}
	rec3 := &PropertyRecord{Func: "arrayUser3", Args: []Argument{argOf(other)}}
	rec4 := &PropertyRecord{Func: "arrayUser4", Args: []Argument{argOf(other)}}

	m.Enforce(wrapBool(newNode(m, rec1)))
	m.Enforce(wrapBool(newNode(m, rec2)))
	m.Enforce(wrapBool(newNode(m, rec3)))
	m.Enforce(wrapBool(newNode(m, rec4)))

	stmts := m.Statements()
	firstArr := stmts[0].Record.Args[0]
	secondArr := stmts[1].Record.Args[0]
	thirdArr := stmts[2].Record.Args[0]
	fourthArr := stmts[3].Record.Args[0]

	if firstArr.Kind != ArgRef || secondArr.Kind != ArgRef {
		t.Fatalf("shared array handle should promote to ArgRef on second use, got %+v / %+v", firstArr, secondArr)
	}
	if firstArr.Ref != secondArr.Ref {
		t.Fatalf("shared array handle produced different ref ids: %d vs %d", firstArr.Ref, secondArr.Ref)
	}
	if thirdArr.Kind != ArgRef || fourthArr.Kind != ArgRef || thirdArr.Ref != fourthArr.Ref {
		t.Fatalf("other's two uses should also dedupe to one shared ref, got %+v / %+v", thirdArr, fourthArr)
	}
	if thirdArr.Ref == firstArr.Ref {
		t.Fatalf("structurally identical but distinct array handles must not share a ref id")
	}
}

func TestEnforceAddsExpressionDirectlyNoWrapper(t *testing.T) {
	m := NewModel("")
	b := m.NewBoolVar("b")
	m.Enforce(b)

	stmts := m.Statements()
	if len(stmts) != 1 {
		t.Fatalf("got %d statements, want 1", len(stmts))
	}
	if stmts[0].Kind != ArgRef {
		t.Fatalf("enforcing a declared var should reference its own record, got Kind=%v", stmts[0].Kind)
	}
	if stmts[0].Ref != b.n.refID() {
		t.Fatalf("enforce statement ref id %d does not match the var's own ref id %d", stmts[0].Ref, b.n.refID())
	}
}

func TestConstPrimitivesNeverOccupyRefTable(t *testing.T) {
	m := NewModel("")
	a := m.NewIntVar(0, 10, "a")
	c := IntConst(m, 42)

	before := m.RefTable().Len()
	eq := a.Eq(c)
	m.Enforce(eq)
	m.Enforce(eq) // second use of the comparison itself, promoting eq, not c

	stmts := m.Statements()
	if stmts[0].Kind != ArgRef || stmts[1].Kind != ArgRef || stmts[0].Ref != stmts[1].Ref {
		t.Fatalf("repeated eq expression should promote to one shared ref, got %+v / %+v", stmts[0], stmts[1])
	}
	eqRec := m.RefTable().At(stmts[0].Ref)
	rhs := eqRec.Args[1]
	if rhs.Kind != ArgInt || rhs.Int != 42 {
		t.Fatalf("constant operand should resolve to a raw int primitive, got %+v", rhs)
	}
	if got := m.RefTable().Len(); got != before+1 {
		t.Fatalf("const should never grow the reference table on its own; table grew by %d", got-before)
	}
}

func TestPresenceNeverAbsentByConstruction(t *testing.T) {
	m := NewModel("")
	v := m.NewIntVar(0, 10, "v")
	v.SetOptional(OptionalStatus)

	p := v.Presence()
	m.Enforce(p)

	stmts := m.Statements()
	if stmts[0].Record == nil || stmts[0].Record.Func != "presenceOf" {
		t.Fatalf("Presence() should build a presenceOf node, got %+v", stmts[0])
	}
}

func TestAbsentVarRangeGettersReportAbsence(t *testing.T) {
	m := NewModel("")
	v := m.NewIntVar(0, 10, "v")
	v.SetOptional(AbsentStatus)

	if _, ok := v.Min(); ok {
		t.Fatalf("Min() should report absence once the variable is marked absent")
	}
	if _, ok := v.Max(); ok {
		t.Fatalf("Max() should report absence once the variable is marked absent")
	}

	iv := m.NewIntervalVar("iv")
	iv.SetOptional(AbsentStatus)

	for name, get := range map[string]func() (int64, bool){
		"StartMin":  iv.StartMin,
		"StartMax":  iv.StartMax,
		"EndMin":    iv.EndMin,
		"EndMax":    iv.EndMax,
		"LengthMin": iv.LengthMin,
		"LengthMax": iv.LengthMax,
	} {
		if _, ok := get(); ok {
			t.Fatalf("%s() should report absence once the interval is marked absent", name)
		}
	}
}

func TestPresentVarRangeGettersReturnBounds(t *testing.T) {
	m := NewModel("")
	v := m.NewIntVar(2, 8, "v")

	lb, ok := v.Min()
	if !ok || lb != 2 {
		t.Fatalf("got Min() = (%v, %v), want (2, true)", lb, ok)
	}
	ub, ok := v.Max()
	if !ok || ub != 8 {
		t.Fatalf("got Max() = (%v, %v), want (8, true)", ub, ok)
	}
}

func TestBoolVarFixedTo(t *testing.T) {
	v := NewModel("").NewBoolVar("v")
	if _, ok := v.FixedTo(); ok {
		t.Fatalf("freshly declared var should not report fixed")
	}
	v.FixTo(true)
	val, ok := v.FixedTo()
	if !ok || !val {
		t.Fatalf("got FixedTo() = (%v, %v), want (true, true)", val, ok)
	}
}
