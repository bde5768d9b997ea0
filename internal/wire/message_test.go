package wire

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"optalcp/internal/model"
	"optalcp/internal/params"
)

func TestBuildRequestIncludesResolvedModel(t *testing.T) {
	m := model.NewModel("demo")
	a := m.NewIntVar(0, 10, "a")
	b := m.NewIntVar(0, 10, "b")
	sum := a.Plus(b)
	m.Enforce(sum.Ge(model.IntConst(m, 0)))
	m.Enforce(sum.Le(model.IntConst(m, 9)))
	m.Maximize(a)

	lvl := 2
	p := &params.Parameters{LogLevel: &lvl}

	req := BuildRequest(RequestSolve, m, p, nil, false)
	if req.Msg != RequestSolve {
		t.Fatalf("got Msg %q, want solve", req.Msg)
	}
	if req.Name != "demo" {
		t.Fatalf("got Name %q, want demo", req.Name)
	}
	if len(req.Model) != 2 {
		t.Fatalf("got %d statements, want 2", len(req.Model))
	}
	if req.Objective == nil || req.Objective.Func != "maximize" {
		t.Fatalf("got Objective %+v, want a maximize record", req.Objective)
	}

	data, err := req.Marshal()
	if err != nil {
		t.Fatalf("Marshal returned error: %v", err)
	}
	var probe map[string]interface{}
	if err := json.Unmarshal(data, &probe); err != nil {
		t.Fatalf("marshaled request did not round-trip through json.Unmarshal: %v", err)
	}
	if probe["msg"] != "solve" {
		t.Fatalf("wire payload missing msg=solve, got %+v", probe["msg"])
	}
	if _, ok := probe["refs"]; !ok {
		t.Fatalf("wire payload missing refs key")
	}
}

func TestBuildRequestOmitsNilParametersAndWarmStart(t *testing.T) {
	m := model.NewModel("")
	v := m.NewBoolVar("v")
	m.Enforce(v)

	req := BuildRequest(RequestPropagate, m, nil, nil, true)
	data, err := req.Marshal()
	if err != nil {
		t.Fatalf("Marshal returned error: %v", err)
	}
	var probe map[string]interface{}
	if err := json.Unmarshal(data, &probe); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if _, ok := probe["parameters"]; ok {
		t.Fatalf("nil Parameters should be omitted, got %+v", probe["parameters"])
	}
	if _, ok := probe["warmStart"]; ok {
		t.Fatalf("nil WarmStart should be omitted, got %+v", probe["warmStart"])
	}
	if probe["batchResults"] != true {
		t.Fatalf("got batchResults %+v, want true", probe["batchResults"])
	}
}

func TestParseEnvelopeReadsDiscriminator(t *testing.T) {
	line := []byte(`{"msg":"solution","data":{"solveTime":120,"verifiedOK":true,"objective":3.5}}`)
	env, err := ParseEnvelope(line)
	if err != nil {
		t.Fatalf("ParseEnvelope returned error: %v", err)
	}
	if env.Msg != EventSolution {
		t.Fatalf("got Msg %q, want solution", env.Msg)
	}

	var evt SolutionEvent
	if err := json.Unmarshal(env.Raw, &evt); err != nil {
		t.Fatalf("decoding SolutionEvent from envelope raw bytes failed: %v", err)
	}
	if !evt.Data.VerifiedOK || evt.Data.SolveTime != 120 {
		t.Fatalf("got %+v, want VerifiedOK=true SolveTime=120", evt.Data)
	}
	if evt.Data.Objective == nil || *evt.Data.Objective != 3.5 {
		t.Fatalf("got Objective %v, want 3.5", evt.Data.Objective)
	}
}

func TestSolutionEventToSolutionNilWhenNoValues(t *testing.T) {
	evt := SolutionEvent{Data: SolutionData{SolveTime: 5, VerifiedOK: true}}
	if sol := evt.ToSolution(); sol != nil {
		t.Fatalf("expected nil Solution when no values reported, got %+v", sol)
	}
}

func TestSolutionValueUnmarshalDistinguishesShapes(t *testing.T) {
	line := []byte(`[{"id":0,"value":7},{"id":1,"value":null},{"id":2,"value":{"start":1,"end":4}}]`)
	var values []SolutionValue
	if err := json.Unmarshal(line, &values); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if values[0].Value == nil || *values[0].Value != 7 {
		t.Fatalf("got values[0] = %+v, want Value=7", values[0])
	}
	if !values[1].Absent {
		t.Fatalf("got values[1] = %+v, want Absent=true", values[1])
	}
	if values[2].Interval == nil || values[2].Interval.Start != 1 || values[2].Interval.End != 4 {
		t.Fatalf("got values[2] = %+v, want Interval={1 4}", values[2])
	}
}

func TestSolutionEventToSolutionBuildsSnapshot(t *testing.T) {
	intVal := int64(7)
	evt := SolutionEvent{Data: SolutionData{
		SolveTime: 10,
		Values: []SolutionValue{
			{ID: 0, Value: &intVal},
			{ID: 1, Absent: true},
			{ID: 2, Interval: &model.IntervalValue{Start: 1, End: 4}},
		},
	}}
	sol := evt.ToSolution()
	if sol == nil {
		t.Fatalf("expected non-nil Solution")
	}
	if v, ok := sol.Values[0]; !ok || v != 7 {
		t.Fatalf("got Values[0] = (%v, %v), want (7, true)", v, ok)
	}
	if !sol.Absent[1] {
		t.Fatalf("expected ref id 1 marked absent")
	}
	iv, ok := sol.Intervals[2]
	if !ok || iv.Start != 1 || iv.End != 4 {
		t.Fatalf("got Intervals[2] = (%+v, %v), want ({1 4}, true)", iv, ok)
	}
}

func TestDomainsEventToModelDomains(t *testing.T) {
	minV := int64(2)
	evt := DomainsEvent{Data: DomainsData{
		Domains: []DomainEntry{{ID: 3, Domain: model.DomainRecord{Min: &minV}}},
	}}
	domains := evt.ToModelDomains()
	rec, ok := domains.Domains[3]
	if !ok || rec.Min == nil || *rec.Min != 2 {
		t.Fatalf("got Domains[3] = (%+v, %v), want min=2", rec, ok)
	}
}

func TestDomainsEventSentinelOutcomes(t *testing.T) {
	evt := DomainsEvent{Data: DomainsData{Error: true}}
	if d := evt.ToModelDomains(); !d.Infeasible {
		t.Fatalf("got Infeasible=%v, want true", d.Infeasible)
	}
	evt2 := DomainsEvent{Data: DomainsData{LimitHit: true}}
	if d := evt2.ToModelDomains(); !d.LimitReached {
		t.Fatalf("got LimitReached=%v, want true", d.LimitReached)
	}
}

func TestHandshakeMarshalsWireFieldNames(t *testing.T) {
	h := NewHandshake("optalcp-go", "0.1.0", true)
	data, err := h.Marshal()
	if err != nil {
		t.Fatalf("Marshal returned error: %v", err)
	}
	var probe map[string]interface{}
	if err := json.Unmarshal(data, &probe); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if probe["msg"] != "handshake" || probe["client"] != "optalcp-go" || probe["version"] != "0.1.0" {
		t.Fatalf("got %+v, want msg=handshake client=optalcp-go version=0.1.0", probe)
	}
}

func TestHandshakeResponseIsError(t *testing.T) {
	ok := HandshakeResponse{Msg: EventHandshake}
	if ok.IsError() {
		t.Fatalf("handshake ack should not report IsError")
	}
	bad := HandshakeResponse{Msg: EventError, Data: "bad client version"}
	if !bad.IsError() {
		t.Fatalf("error response should report IsError")
	}
}

func TestNewExternalSolutionSkipsAbsentAndMissing(t *testing.T) {
	sol := model.NewSolution()
	sol.Values[0] = 5
	sol.Absent[1] = true
	obj := 9.0
	sol.Objective = &obj

	ext := NewExternalSolution(sol, []int{0, 1, 2})
	if len(ext.Data.Values) != 1 || ext.Data.Values[0].ID != 0 || ext.Data.Values[0].Value != 5 {
		t.Fatalf("got Values %+v, want exactly one entry for ref id 0 with value 5", ext.Data.Values)
	}
	if ext.Data.Objective == nil || *ext.Data.Objective != 9.0 {
		t.Fatalf("got Objective %v, want 9.0", ext.Data.Objective)
	}
}

func TestSummaryDataCapturesUnknownFieldsAsStats(t *testing.T) {
	line := []byte(`{"nbFails":42,"nbBranches":7,"objective":1.0}`)
	var d SummaryData
	if err := json.Unmarshal(line, &d); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if d.Objective == nil || *d.Objective != 1.0 {
		t.Fatalf("got Objective %v, want 1.0", d.Objective)
	}
	if d.Stats["nbFails"] != float64(42) || d.Stats["nbBranches"] != float64(7) {
		t.Fatalf("got Stats %+v, want nbFails=42 nbBranches=7", d.Stats)
	}
}

func TestFromJSONRoundTripsBuildRequestOutput(t *testing.T) {
	m := model.NewModel("roundtrip")
	a := m.NewIntVar(0, 10, "a")
	b := m.NewIntVar(0, 10, "b")
	iv := m.NewIntervalVar("iv")
	iv.SetLengthMin(3)
	iv.SetLengthMax(3)
	sum := a.Plus(b)
	m.Enforce(sum.Ge(model.IntConst(m, 0)))
	m.Enforce(sum.Le(model.IntConst(m, 9)))
	m.Enforce(iv.Presence())
	m.Maximize(a)

	lvl := 3
	lns := true
	p := &params.Parameters{LogLevel: &lvl, LnsUseWarmStartOnly: &lns}
	ws := &WarmStart{Values: []WarmStartValue{{ID: 0, Value: 4}}}

	req := BuildRequest(RequestSolve, m, p, ws, false)
	data, err := req.Marshal()
	require.NoError(t, err)

	parsed, err := FromJSON(data)
	require.NoError(t, err)
	require.NotNil(t, parsed.Model)

	assert.Equal(t, m.Name(), parsed.Model.Name())

	ignoreUnexported := cmpopts.IgnoreUnexported(model.PropertyRecord{})

	if diff := cmp.Diff(m.RefTable().Records(), parsed.Model.RefTable().Records(), ignoreUnexported); diff != "" {
		t.Fatalf("reference table did not round-trip (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(m.Statements(), parsed.Model.Statements(), ignoreUnexported); diff != "" {
		t.Fatalf("root statements did not round-trip (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(m.Objective(), parsed.Model.Objective(), ignoreUnexported); diff != "" {
		t.Fatalf("objective record did not round-trip (-want +got):\n%s", diff)
	}
	require.NotNil(t, parsed.Model.PrimaryObjective(), "primary objective handle must be reconstructed")

	if diff := cmp.Diff(p, parsed.Parameters); diff != "" {
		t.Fatalf("parameters did not round-trip (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(ws, parsed.WarmStart); diff != "" {
		t.Fatalf("warm start did not round-trip (-want +got):\n%s", diff)
	}
}

func TestTextEventDecodesPrefixAndData(t *testing.T) {
	line := []byte(`{"msg":"warning","prefix":"[solver]","data":"slow propagation"}`)
	var evt TextEvent
	if err := json.Unmarshal(line, &evt); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if evt.Msg != EventWarning || evt.Prefix != "[solver]" || evt.Data != "slow propagation" {
		t.Fatalf("got %+v, want msg=warning prefix=[solver] data=\"slow propagation\"", evt)
	}
}
