package solver

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"optalcp/internal/model"
	"optalcp/internal/params"
)

// fakeTransport is an in-memory Transport double: Send is driven by a
// test-supplied callback so a test can script the solver's replies
// without spawning a process or dialing a socket.
type fakeTransport struct {
	cb        TransportCallbacks
	onSend    func(n int, line []byte)
	sendCount int
	closed    bool
}

func (f *fakeTransport) Start(ctx context.Context) error { return nil }

func (f *fakeTransport) Send(line []byte) error {
	n := f.sendCount
	f.sendCount++
	if f.onSend != nil {
		f.onSend(n, line)
	}
	return nil
}

func (f *fakeTransport) Close() error {
	f.closed = true
	return nil
}

func withFakeTransport(t *testing.T, build func() *fakeTransport) *fakeTransport {
	t.Helper()
	fake := build()
	prev := newTransportForEndpoint
	newTransportForEndpoint = func(endpoint string, cb TransportCallbacks) Transport {
		fake.cb = cb
		return fake
	}
	t.Cleanup(func() { newTransportForEndpoint = prev })
	return fake
}

func solverPathParams(path string) *params.Parameters {
	return &params.Parameters{SolverPath: &path}
}

func simpleModel() *model.Model {
	m := model.NewModel("m")
	v := m.NewIntVar(0, 10, "v")
	m.Enforce(v.Ge(model.IntConst(m, 0)))
	return m
}

func TestSolveDispatchesSolutionAndSummary(t *testing.T) {
	fake := withFakeTransport(t, func() *fakeTransport { return &fakeTransport{} })
	fake.onSend = func(n int, line []byte) {
		switch n {
		case 0: // handshake
			fake.cb.OnMessage([]byte(`{"msg":"handshake"}`))
		case 1: // solve request
			fake.cb.OnMessage([]byte(`{"msg":"solution","data":{"solveTime":5,"verifiedOK":true,"objective":3,"values":[{"id":0,"value":7}]}}`))
			fake.cb.OnMessage([]byte(`{"msg":"summary","data":{"objective":3,"nbFails":2}}`))
			fake.cb.OnClose(nil)
		}
	}

	s := New("optalcp-go", "0.1.0")
	result, err := s.Solve(context.Background(), simpleModel(), solverPathParams("fake"), nil)
	if err != nil {
		t.Fatalf("Solve returned error: %v", err)
	}
	if result.Solution == nil {
		t.Fatalf("expected a non-nil Solution")
	}
	if v, ok := result.Solution.Values[0]; !ok || v != 7 {
		t.Fatalf("got Values[0] = (%v, %v), want (7, true)", v, ok)
	}
	if result.SolutionTime != 5 || !result.SolutionValid {
		t.Fatalf("got SolutionTime=%d SolutionValid=%v, want 5 true", result.SolutionTime, result.SolutionValid)
	}
	if result.Summary == nil || result.Summary.Stats["nbFails"] != float64(2) {
		t.Fatalf("got Summary %+v, want Stats[nbFails]=2", result.Summary)
	}
	if len(result.ObjectiveHistory) != 1 || *result.ObjectiveHistory[0].Objective != 3 {
		t.Fatalf("got ObjectiveHistory %+v, want one entry with objective 3", result.ObjectiveHistory)
	}
}

func TestSolveRejectsHandshakeError(t *testing.T) {
	fake := withFakeTransport(t, func() *fakeTransport { return &fakeTransport{} })
	fake.onSend = func(n int, line []byte) {
		if n == 0 {
			fake.cb.OnMessage([]byte(`{"msg":"error","data":"unsupported client version"}`))
		}
	}

	s := New("optalcp-go", "0.1.0")
	_, err := s.Solve(context.Background(), simpleModel(), solverPathParams("fake"), nil)
	if err == nil || !strings.Contains(err.Error(), "unsupported client version") {
		t.Fatalf("got err %v, want it to mention the rejection text", err)
	}
	if !fake.closed {
		t.Fatalf("expected transport to be closed after a rejected handshake")
	}
}

func TestSolveFailsFastWhenAlreadyActive(t *testing.T) {
	s := New("optalcp-go", "0.1.0")
	s.mu.Lock()
	s.active = true
	s.mu.Unlock()

	_, err := s.Solve(context.Background(), simpleModel(), nil, nil)
	if err != ErrSolveInProgress {
		t.Fatalf("got err %v, want ErrSolveInProgress", err)
	}
}

func TestSetCallbackRejectedDuringActiveSolve(t *testing.T) {
	s := New("optalcp-go", "0.1.0")
	s.mu.Lock()
	s.active = true
	s.mu.Unlock()

	if err := s.SetOnLog(func(string) {}); err != ErrCallbacksImmutable {
		t.Fatalf("got err %v, want ErrCallbacksImmutable", err)
	}
}

func TestStopIsNoopWithoutActiveSolve(t *testing.T) {
	s := New("optalcp-go", "0.1.0")
	if err := s.Stop("unused"); err != nil {
		t.Fatalf("Stop with no active solve returned error: %v", err)
	}
}

func TestBatchResultsTrueOnlyWithoutIncrementalCallbacks(t *testing.T) {
	var sentRequest map[string]interface{}
	fake := withFakeTransport(t, func() *fakeTransport { return &fakeTransport{} })
	fake.onSend = func(n int, line []byte) {
		switch n {
		case 0:
			fake.cb.OnMessage([]byte(`{"msg":"handshake"}`))
		case 1:
			_ = json.Unmarshal(line, &sentRequest)
			fake.cb.OnMessage([]byte(`{"msg":"summary","data":{}}`))
			fake.cb.OnClose(nil)
		}
	}

	s := New("optalcp-go", "0.1.0")
	if _, err := s.Solve(context.Background(), simpleModel(), solverPathParams("fake"), nil); err != nil {
		t.Fatalf("Solve returned error: %v", err)
	}
	if sentRequest["batchResults"] != true {
		t.Fatalf("got batchResults %v, want true when no incremental callbacks are registered", sentRequest["batchResults"])
	}
}

func TestDiscoverExplicitEndpointPassesThroughURL(t *testing.T) {
	url := "ws://localhost:9999"
	got, err := Discover(&url)
	if err != nil {
		t.Fatalf("Discover returned error: %v", err)
	}
	if got != url {
		t.Fatalf("got %q, want %q unchanged", got, url)
	}
}

func TestSplitCommandSeparatesArgs(t *testing.T) {
	cmd, args := splitCommand("optalcp-solver --quiet --seed 1")
	if cmd != "optalcp-solver" {
		t.Fatalf("got command %q, want optalcp-solver", cmd)
	}
	want := []string{"--quiet", "--seed", "1"}
	if len(args) != len(want) {
		t.Fatalf("got args %v, want %v", args, want)
	}
	for i := range want {
		if args[i] != want[i] {
			t.Fatalf("got args %v, want %v", args, want)
		}
	}
}
