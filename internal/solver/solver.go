package solver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"sync"

	"github.com/google/uuid"

	"optalcp/internal/logging"
	"optalcp/internal/model"
	"optalcp/internal/params"
	"optalcp/internal/wire"
)

const envModelDump = "OPTALCP_MODEL"

// ErrSolveInProgress is returned by Solve when the Solver instance
// already has a solve running (spec.md §4.10.7: "attempts to start a
// second solve fail fast").
var ErrSolveInProgress = errors.New("solver: a solve is already in progress")

// ErrCallbacksImmutable is returned by the On* setters while a solve is
// active (spec.md §4.10.7: "setters throw during an active solve").
var ErrCallbacksImmutable = errors.New("solver: callbacks cannot be changed during an active solve")

// SolutionInfo carries the metadata accompanying a solution snapshot
// delivered through OnSolution (spec.md §4.10.4's "solve time and
// validity").
type SolutionInfo struct {
	SolveTime  int64
	Objective  *float64
	VerifiedOK bool
}

// Callbacks are the Solver's user hooks. All are optional. None may be
// changed while a solve is active (spec.md §4.10.7).
type Callbacks struct {
	OnSolution       func(sol *model.Solution, info SolutionInfo)
	OnObjectiveBound func(bound float64, solveTime int64)
	OnSummary        func(data *wire.SummaryData)
	OnLog            func(text string)
	OnWarning        func(text string)
	OnError          func(err error)
	OnDomains        func(domains *model.ModelDomains)
	OnTextModel      func(text string)
}

// Result is the outcome of a completed solve (spec.md §4.10.6).
type Result struct {
	Summary               *wire.SummaryData
	ObjectiveHistory      []wire.ObjectiveHistoryEntry
	ObjectiveBoundHistory []wire.LowerBoundData
	Solution              *model.Solution
	SolutionTime          int64
	BoundTime             int64
	SolutionValid         bool
}

// Solver encapsulates one exchange with the external solver (spec.md
// §4.10's opening sentence) and is reusable across solves, one at a
// time, per spec.md §4.10.7.
type Solver struct {
	clientName    string
	clientVersion string
	instanceID    uuid.UUID

	mu        sync.Mutex
	active    bool
	callbacks Callbacks
	current   *session
}

// New returns a Solver that will identify itself on the wire with the
// given client name and semantic version (spec.md §4.10.2).
func New(clientName, clientVersion string) *Solver {
	return &Solver{clientName: clientName, clientVersion: clientVersion, instanceID: uuid.New()}
}

func (s *Solver) snapshotCallbacks() Callbacks {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.callbacks
}

func (s *Solver) setCallback(set func(*Callbacks)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active {
		return ErrCallbacksImmutable
	}
	set(&s.callbacks)
	return nil
}

func (s *Solver) SetOnSolution(fn func(*model.Solution, SolutionInfo)) error {
	return s.setCallback(func(c *Callbacks) { c.OnSolution = fn })
}

func (s *Solver) SetOnObjectiveBound(fn func(bound float64, solveTime int64)) error {
	return s.setCallback(func(c *Callbacks) { c.OnObjectiveBound = fn })
}

func (s *Solver) SetOnSummary(fn func(*wire.SummaryData)) error {
	return s.setCallback(func(c *Callbacks) { c.OnSummary = fn })
}

func (s *Solver) SetOnLog(fn func(string)) error {
	return s.setCallback(func(c *Callbacks) { c.OnLog = fn })
}

func (s *Solver) SetOnWarning(fn func(string)) error {
	return s.setCallback(func(c *Callbacks) { c.OnWarning = fn })
}

func (s *Solver) SetOnError(fn func(error)) error {
	return s.setCallback(func(c *Callbacks) { c.OnError = fn })
}

// session is the per-solve state a Solve call owns: the accumulated
// error list, incremental history, the latest solution snapshot, and
// the transport handle, all confined to the goroutine driving the
// solve except for the small synchronized surface Stop/SendSolution
// need to reach it from elsewhere (spec.md §5: "confined to the single
// owning task... the transport object is closed exactly once").
type session struct {
	transport Transport
	kind      wire.RequestKind

	ready chan struct{} // closed once the handshake completes

	mu            sync.Mutex
	closed        bool
	closeExpected bool

	events chan []byte
	done   chan error

	errs       []string
	objHist    []wire.ObjectiveHistoryEntry
	boundHist  []wire.LowerBoundData
	solution   *model.Solution
	solTime    int64
	boundTime  int64
	solValid   bool
	summary    *wire.SummaryData
	domainsOut *model.ModelDomains
	textOut    string
}

// Solve resolves m, sends it to the discovered solver endpoint, and
// blocks until the session reaches its terminal state (spec.md
// §4.10.3, §4.10.6). p and warmStart may be nil.
func (s *Solver) Solve(ctx context.Context, m *model.Model, p *params.Parameters, warmStart *wire.WarmStart) (*Result, error) {
	return s.run(ctx, wire.RequestSolve, m, p, warmStart)
}

func (s *Solver) run(ctx context.Context, kind wire.RequestKind, m *model.Model, p *params.Parameters, warmStart *wire.WarmStart) (*Result, error) {
	s.mu.Lock()
	if s.active {
		s.mu.Unlock()
		return nil, ErrSolveInProgress
	}
	s.active = true
	callbacks := s.callbacks
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.active = false
		s.current = nil
		s.mu.Unlock()
	}()

	log := logging.Get(logging.CategorySession).WithInstance(s.instanceID.String())

	var solverPath *string
	if p != nil {
		solverPath = p.SolverPath
	}
	endpoint, err := Discover(solverPath)
	if err != nil {
		return nil, err
	}
	log.Info("resolved solver endpoint: %s", endpoint)

	sess := &session{
		kind:   kind,
		ready:  make(chan struct{}),
		events: make(chan []byte, 64),
		done:   make(chan error, 1),
	}
	s.mu.Lock()
	s.current = sess
	s.mu.Unlock()

	cb := TransportCallbacks{
		OnMessage: func(line []byte) { sess.events <- line },
		OnWarning: func(text string) {
			log.Info("[stderr] %s", text)
			invokeWarning(callbacks.OnWarning, text)
		},
		OnError: func(err error) { invokeError(callbacks.OnError, err) },
		OnClose: func(err error) { sess.done <- err },
	}

	sess.transport = newTransportForEndpoint(endpoint, cb)

	if err := sess.transport.Start(ctx); err != nil {
		return nil, fmt.Errorf("solver: starting transport: %w", err)
	}

	if err := s.handshake(sess); err != nil {
		_ = sess.transport.Close()
		return nil, err
	}
	close(sess.ready)
	stopInterruptHandler := s.installInterruptHandler()
	defer stopInterruptHandler()

	batchResults := callbacks.OnSolution == nil && callbacks.OnObjectiveBound == nil
	req := wire.BuildRequest(kind, m, p, warmStart, batchResults)
	dumpModelAsync(s.instanceID, req)

	line, err := req.Marshal()
	if err != nil {
		_ = sess.transport.Close()
		return nil, fmt.Errorf("solver: marshal request: %w", err)
	}
	if err := sess.transport.Send(line); err != nil {
		_ = sess.transport.Close()
		return nil, fmt.Errorf("solver: sending request: %w", err)
	}

	return s.dispatch(ctx, sess, callbacks)
}

func (s *Solver) handshake(sess *session) error {
	hs := wire.NewHandshake(s.clientName, s.clientVersion, false)
	line, err := hs.Marshal()
	if err != nil {
		return fmt.Errorf("solver: marshal handshake: %w", err)
	}
	if err := sess.transport.Send(line); err != nil {
		return fmt.Errorf("solver: sending handshake: %w", err)
	}

	select {
	case raw := <-sess.events:
		var resp wire.HandshakeResponse
		if err := json.Unmarshal(raw, &resp); err != nil {
			return fmt.Errorf("solver: decoding handshake response: %w", err)
		}
		if resp.IsError() {
			return fmt.Errorf("solver: handshake rejected: %s", resp.Data)
		}
		if resp.Msg != wire.EventHandshake {
			return fmt.Errorf("solver: protocol violation: expected handshake response, got %q", resp.Msg)
		}
		return nil
	case err := <-sess.done:
		if err != nil {
			return fmt.Errorf("solver: transport closed before handshake: %w", err)
		}
		return errors.New("solver: transport closed before handshake")
	}
}

// dispatch processes incoming events until the transport reports done,
// per the table in spec.md §4.10.4, then assembles the Result.
func (s *Solver) dispatch(ctx context.Context, sess *session, callbacks Callbacks) (*Result, error) {
	log := logging.Get(logging.CategorySolve).WithInstance(s.instanceID.String())
	for {
		// Drain whatever is already queued before honoring a close
		// signal: OnMessage and OnClose can race (a transport delivers
		// its last line, then reports closed, from different
		// goroutines), and events queued ahead of the close must still
		// be dispatched in the order they arrived on the wire (spec.md
		// §5's ordering guarantee).
		select {
		case raw := <-sess.events:
			s.handleEvent(sess, raw, callbacks, log)
			continue
		default:
		}

		select {
		case raw := <-sess.events:
			s.handleEvent(sess, raw, callbacks, log)
		case transportErr := <-sess.done:
			return s.finish(sess, transportErr)
		case <-ctx.Done():
			_ = sess.transport.Close()
			return s.finish(sess, ctx.Err())
		}
	}
}

func (s *Solver) handleEvent(sess *session, raw []byte, callbacks Callbacks, log *logging.Logger) {
	defer recoverInto(sess, callbacks.OnError)
	env, err := wire.ParseEnvelope(raw)
	if err != nil {
		sess.errs = append(sess.errs, err.Error())
		invokeError(callbacks.OnError, err)
		return
	}

	switch env.Msg {
	case wire.EventError:
		var evt wire.TextEvent
		_ = json.Unmarshal(env.Raw, &evt)
		sess.errs = append(sess.errs, evt.Data)
		sess.closeExpected = true
		log.Error("%s%s", prefixSpace(evt.Prefix), evt.Data)
		invokeError(callbacks.OnError, errors.New(evt.Data))

	case wire.EventLog:
		var evt wire.TextEvent
		_ = json.Unmarshal(env.Raw, &evt)
		log.Info("%s%s", prefixSpace(evt.Prefix), evt.Data)
		if callbacks.OnLog != nil {
			callbacks.OnLog(evt.Data)
		}

	case wire.EventWarning:
		var evt wire.TextEvent
		_ = json.Unmarshal(env.Raw, &evt)
		log.Warn("%s%s", prefixSpace(evt.Prefix), evt.Data)
		invokeWarning(callbacks.OnWarning, evt.Data)

	case wire.EventSolution:
		var evt wire.SolutionEvent
		if err := json.Unmarshal(env.Raw, &evt); err != nil {
			sess.errs = append(sess.errs, err.Error())
			return
		}
		sess.solTime = evt.Data.SolveTime
		sess.solValid = evt.Data.VerifiedOK
		sess.objHist = append(sess.objHist, wire.ObjectiveHistoryEntry{
			SolveTime: evt.Data.SolveTime, Objective: evt.Data.Objective,
		})
		sol := evt.ToSolution()
		if sol != nil {
			sess.solution = sol
		}
		if callbacks.OnSolution != nil && sol != nil {
			invokeOnSolution(sess, callbacks.OnSolution, callbacks.OnError, sol, SolutionInfo{
				SolveTime: evt.Data.SolveTime, Objective: evt.Data.Objective, VerifiedOK: evt.Data.VerifiedOK,
			})
		}

	case wire.EventLowerBound:
		var evt wire.LowerBoundEvent
		if err := json.Unmarshal(env.Raw, &evt); err != nil {
			sess.errs = append(sess.errs, err.Error())
			return
		}
		sess.boundTime = evt.Data.SolveTime
		sess.boundHist = append(sess.boundHist, evt.Data)
		if callbacks.OnObjectiveBound != nil {
			invokeOnBound(sess, callbacks.OnObjectiveBound, callbacks.OnError, evt.Data.Value, evt.Data.SolveTime)
		}

	case wire.EventDomains:
		sess.closeExpected = true
		var evt wire.DomainsEvent
		if err := json.Unmarshal(env.Raw, &evt); err != nil {
			sess.errs = append(sess.errs, err.Error())
			return
		}
		sess.domainsOut = evt.ToModelDomains()
		if callbacks.OnDomains != nil {
			callbacks.OnDomains(sess.domainsOut)
		}

	case wire.EventTextModel:
		sess.closeExpected = true
		var evt wire.TextModelEvent
		_ = json.Unmarshal(env.Raw, &evt)
		sess.textOut = evt.Data
		if callbacks.OnTextModel != nil {
			callbacks.OnTextModel(evt.Data)
		}

	case wire.EventSummary:
		sess.closeExpected = true
		var evt wire.SummaryEvent
		if err := json.Unmarshal(env.Raw, &evt); err != nil {
			sess.errs = append(sess.errs, err.Error())
			return
		}
		data := evt.Data
		sess.summary = &data
		if len(data.ObjectiveHistory) > 0 {
			sess.objHist = data.ObjectiveHistory
		}
		if len(data.ObjectiveBoundHistory) > 0 {
			sess.boundHist = data.ObjectiveBoundHistory
		}
		if len(data.SolutionValues) > 0 {
			sol := model.NewSolution()
			sol.Objective = data.Objective
			for _, v := range data.SolutionValues {
				switch {
				case v.Absent:
					sol.Absent[v.ID] = true
				case v.Interval != nil:
					sol.Intervals[v.ID] = *v.Interval
				case v.Value != nil:
					sol.Values[v.ID] = *v.Value
				}
			}
			sess.solution = sol
		}
		if callbacks.OnSummary != nil {
			callbacks.OnSummary(&data)
		}

	default:
		msg := fmt.Sprintf("solver: unrecognized message %q", env.Msg)
		sess.errs = append(sess.errs, msg)
		invokeError(callbacks.OnError, errors.New(msg))
	}
}

// installInterruptHandler installs the Windows-only SIGINT handler
// spec.md §4.10.5 describes: on POSIX, SIGINT reaches the child
// directly through process-group propagation and no client-side
// handler is needed. The returned function removes the handler.
func (s *Solver) installInterruptHandler() func() {
	if runtime.GOOS != "windows" {
		return func() {}
	}
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt)
	done := make(chan struct{})
	go func() {
		select {
		case <-sig:
			_ = s.Stop("Interrupted")
		case <-done:
		}
	}()
	return func() {
		signal.Stop(sig)
		close(done)
	}
}

// newTransportForEndpoint picks the transport variant for a resolved
// endpoint. It is a package variable rather than a plain function so
// tests can substitute an in-memory Transport without spawning a real
// process or dialing a real socket.
var newTransportForEndpoint = func(endpoint string, cb TransportCallbacks) Transport {
	if isURL(endpoint) {
		return NewWebSocketTransport(endpoint, cb)
	}
	command, args := splitCommand(endpoint)
	return NewProcessTransport(command, args, cb)
}

// splitCommand splits a solver endpoint into a command and its
// arguments, mirroring the teacher's NewStdioTransport so an
// OPTALCP_SOLVER value carrying flags (e.g. "solver --quiet") still
// spawns correctly.
func splitCommand(endpoint string) (string, []string) {
	parts := strings.Fields(endpoint)
	if len(parts) == 0 {
		return endpoint, nil
	}
	return parts[0], parts[1:]
}

func prefixSpace(prefix string) string {
	if prefix == "" {
		return ""
	}
	return prefix + " "
}

// invoke* wrap each user callback with a panic recovery, translating a
// callback panic into a session error rather than letting it escape
// the dispatch loop (spec.md §4.10.7: "an exception inside a callback
// is captured and turned into a session error"). handleEvent defers the
// same recovery for the callbacks it calls directly.
func invokeOnSolution(sess *session, fn func(*model.Solution, SolutionInfo), onErr func(error), sol *model.Solution, info SolutionInfo) {
	defer recoverInto(sess, onErr)
	fn(sol, info)
}

func invokeOnBound(sess *session, fn func(float64, int64), onErr func(error), bound float64, t int64) {
	defer recoverInto(sess, onErr)
	fn(bound, t)
}

func invokeWarning(fn func(string), text string) {
	if fn == nil {
		return
	}
	defer func() { recover() }() //nolint:errcheck // best-effort per spec.md §4.10.7
	fn(text)
}

func invokeError(fn func(error), err error) {
	if fn == nil {
		return
	}
	// Invoking onError is itself best-effort: any panic it causes is
	// swallowed to avoid infinite feedback (spec.md §4.10.7).
	defer func() { recover() }() //nolint:errcheck
	fn(err)
}

func recoverInto(sess *session, onErr func(error)) {
	if r := recover(); r != nil {
		err := fmt.Errorf("solver: callback panic: %v", r)
		sess.errs = append(sess.errs, err.Error())
		invokeError(onErr, err)
	}
}

func (s *Solver) finish(sess *session, transportErr error) (*Result, error) {
	sess.mu.Lock()
	sess.closed = true
	sess.mu.Unlock()

	if transportErr != nil {
		sess.errs = append(sess.errs, transportErr.Error())
	}
	if len(sess.errs) > 0 {
		return nil, errors.New(strings.Join(sess.errs, "; "))
	}
	return &Result{
		Summary:               sess.summary,
		ObjectiveHistory:      sess.objHist,
		ObjectiveBoundHistory: sess.boundHist,
		Solution:              sess.solution,
		SolutionTime:          sess.solTime,
		BoundTime:             sess.boundTime,
		SolutionValid:         sess.solValid,
	}, nil
}

// Stop enqueues a stop command for the currently active solve, if any
// (spec.md §4.10.5). It is a no-op if no solve is active, if close is
// already expected, or once the transport is gone.
func (s *Solver) Stop(reason string) error {
	s.mu.Lock()
	sess := s.current
	s.mu.Unlock()
	if sess == nil {
		return nil
	}
	<-sess.ready

	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.closed || sess.closeExpected {
		return nil
	}
	cmd := wire.NewStopCommand(reason)
	line, err := cmd.Marshal()
	if err != nil {
		return err
	}
	sess.closeExpected = true
	return sess.transport.Send(line)
}

// SendSolution enqueues sol as an externally-supplied solution for ids
// for the currently active solve, if any (spec.md §4.10.5).
func (s *Solver) SendSolution(sol *model.Solution, ids []int) error {
	s.mu.Lock()
	sess := s.current
	s.mu.Unlock()
	if sess == nil {
		return nil
	}
	<-sess.ready

	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.closed {
		return nil
	}
	ext := wire.NewExternalSolution(sol, ids)
	line, err := ext.Marshal()
	if err != nil {
		return err
	}
	return sess.transport.Send(line)
}

// dumpModelAsync writes req's serialized form to
// <OPTALCP_MODEL>.<instanceID>.json without blocking the caller, when
// the environment variable is set (spec.md §4.8, SPEC_FULL.md §4.12).
func dumpModelAsync(instanceID uuid.UUID, req *wire.Request) {
	base := os.Getenv(envModelDump)
	if base == "" {
		return
	}
	path := fmt.Sprintf("%s.%s.json", base, instanceID)
	go func() {
		data, err := json.MarshalIndent(req, "", "  ")
		log := logging.Get(logging.CategorySession).WithInstance(instanceID.String())
		if err != nil {
			log.Warn("OPTALCP_MODEL dump: marshal failed: %v", err)
			return
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			log.Warn("OPTALCP_MODEL dump: write %s failed: %v", path, err)
		}
	}()
}
