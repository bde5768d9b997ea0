// Package wire implements the JSON request/response envelope exchanged
// with the external solver process: assembling a Model plus Parameters
// plus an optional warm start into the single-line payload spec.md
// §6.1 describes, and decoding the server's §6.2 event stream back
// into the model package's types (Solution, ModelDomains) plus the
// raw message discriminator.
package wire

import (
	"encoding/json"
	"fmt"

	"optalcp/internal/model"
	"optalcp/internal/params"
)

// RequestKind is the client->server "msg" discriminator (spec.md §6.1).
type RequestKind string

const (
	RequestSolve     RequestKind = "solve"
	RequestPropagate RequestKind = "propagate"
	RequestToText    RequestKind = "toText"
	RequestToJS      RequestKind = "toJS"
	RequestHandshake RequestKind = "handshake"
	RequestStop      RequestKind = "stop"
	RequestSolution  RequestKind = "solution"
)

// WarmStartValue is one variable assignment, used both in a warm start
// and in an externally supplied solution (spec.md §4.8, §6.1).
type WarmStartValue struct {
	ID    int   `json:"id"`
	Value int64 `json:"value"`
}

// WarmStart seeds the solver with a starting solution (spec.md §4.8).
type WarmStart struct {
	Objective *float64         `json:"objective,omitempty"`
	Values    []WarmStartValue `json:"values"`
}

// Request is the full client->server payload for solve/propagate/
// toText/toJS (spec.md §6.1). Model, Refs, and Objective are populated
// from a resolved model.Model; the caller assembles a Request rather
// than model.Model implementing json.Marshaler itself, keeping the
// wire envelope (msg/parameters/warmStart/batchResults) out of the
// model package, which knows nothing about the transport.
type Request struct {
	Msg          RequestKind             `json:"msg"`
	Model        []model.Argument        `json:"model"`
	Refs         []*model.PropertyRecord `json:"refs"`
	Name         string                  `json:"name,omitempty"`
	Objective    *model.PropertyRecord   `json:"objective,omitempty"`
	Parameters   *params.Parameters      `json:"parameters,omitempty"`
	WarmStart    *WarmStart              `json:"warmStart,omitempty"`
	BatchResults bool                    `json:"batchResults,omitempty"`
}

// BuildRequest resolves m and assembles the wire request for the given
// kind. p may be nil (omitted from the payload). batchResults is the
// caller's computed value (spec.md §4.10.3: true only when neither an
// incremental-solution nor objective-bound callback was registered).
func BuildRequest(kind RequestKind, m *model.Model, p *params.Parameters, warmStart *WarmStart, batchResults bool) *Request {
	m.Resolve()
	return &Request{
		Msg:          kind,
		Model:        m.Statements(),
		Refs:         m.RefTable().Records(),
		Name:         m.Name(),
		Objective:    m.Objective(),
		Parameters:   p,
		WarmStart:    warmStart,
		BatchResults: batchResults,
	}
}

// Marshal serializes req to its single wire line (no trailing newline;
// the transport is responsible for line framing per spec.md §4.10.1).
func (req *Request) Marshal() ([]byte, error) {
	data, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("wire: marshal request: %w", err)
	}
	return data, nil
}

// Handshake is the first client->server message (spec.md §4.10.2,
// §6.1).
type Handshake struct {
	Msg     RequestKind `json:"msg"`
	Client  string      `json:"client"`
	Version string      `json:"version"`
	Colors  bool        `json:"colors"`
}

// NewHandshake builds the fixed handshake message this client sends.
func NewHandshake(client, version string, colors bool) *Handshake {
	return &Handshake{Msg: RequestHandshake, Client: client, Version: version, Colors: colors}
}

// Marshal serializes the handshake to its wire line.
func (h *Handshake) Marshal() ([]byte, error) {
	data, err := json.Marshal(h)
	if err != nil {
		return nil, fmt.Errorf("wire: marshal handshake: %w", err)
	}
	return data, nil
}

// HandshakeResponse is the server's reply to the client's handshake
// (spec.md §4.10.2): either a handshake acknowledgement (discarded
// once validated) or an error, whose text is raised.
type HandshakeResponse struct {
	Msg    EventKind `json:"msg"`
	Prefix string    `json:"prefix,omitempty"`
	Data   string    `json:"data,omitempty"`
}

// IsError reports whether the server rejected the handshake.
func (r *HandshakeResponse) IsError() bool { return r.Msg == EventError }

// StopCommand is the payload for the `stop` command (spec.md §4.10.5,
// §6.1).
type StopCommand struct {
	Msg    RequestKind `json:"msg"`
	Reason string      `json:"reason,omitempty"`
}

// NewStopCommand builds a stop command with the given reason.
func NewStopCommand(reason string) *StopCommand {
	return &StopCommand{Msg: RequestStop, Reason: reason}
}

func (c *StopCommand) Marshal() ([]byte, error) { return json.Marshal(c) }

// ExternalSolutionData is the payload wrapped by an ExternalSolution's
// "data" field (spec.md §6.1: "{objective, values[]}").
type ExternalSolutionData struct {
	Objective *float64         `json:"objective,omitempty"`
	Values    []WarmStartValue `json:"values"`
}

// ExternalSolution is the payload for the `sendSolution` command
// (spec.md §4.10.5, §6.1).
type ExternalSolution struct {
	Msg  RequestKind          `json:"msg"`
	Data ExternalSolutionData `json:"data"`
}

// NewExternalSolution builds a sendSolution command from a resolved
// model.Solution snapshot plus the set of integer variables it covers.
func NewExternalSolution(sol *model.Solution, ids []int) *ExternalSolution {
	values := make([]WarmStartValue, 0, len(ids))
	for _, id := range ids {
		if sol.Absent[id] {
			continue
		}
		if v, ok := sol.Values[id]; ok {
			values = append(values, WarmStartValue{ID: id, Value: v})
		}
	}
	return &ExternalSolution{Msg: RequestSolution, Data: ExternalSolutionData{Objective: sol.Objective, Values: values}}
}

func (e *ExternalSolution) Marshal() ([]byte, error) { return json.Marshal(e) }

// EventKind is the server->client "msg" discriminator (spec.md §4.10.4,
// §6.2).
type EventKind string

const (
	EventHandshake  EventKind = "handshake"
	EventError      EventKind = "error"
	EventLog        EventKind = "log"
	EventWarning    EventKind = "warning"
	EventSolution   EventKind = "solution"
	EventLowerBound EventKind = "lowerBound"
	EventDomains    EventKind = "domains"
	EventTextModel  EventKind = "textModel"
	EventSummary    EventKind = "summary"
)

// Envelope is the minimal shape every incoming line shares: enough to
// read the discriminator and defer the rest of the decode (spec.md
// §4.10.4). The typed Event* structs below decode Raw for a known Msg.
type Envelope struct {
	Msg EventKind       `json:"msg"`
	Raw json.RawMessage `json:"-"`
}

// ParseEnvelope reads only the "msg" discriminator from line, keeping
// the raw bytes for a subsequent typed decode.
func ParseEnvelope(line []byte) (*Envelope, error) {
	var probe struct {
		Msg EventKind `json:"msg"`
	}
	if err := json.Unmarshal(line, &probe); err != nil {
		return nil, fmt.Errorf("wire: parse envelope: %w", err)
	}
	return &Envelope{Msg: probe.Msg, Raw: append(json.RawMessage(nil), line...)}, nil
}

// TextEvent is the shape shared by `error`, `log`, and `warning`
// messages: a top-level prefix plus a string data payload (spec.md
// §6.2).
type TextEvent struct {
	Msg    EventKind `json:"msg"`
	Prefix string    `json:"prefix,omitempty"`
	Data   string    `json:"data"`
}

// SolutionValue is one variable's reported value in a `solution`
// event's values array. Decoding inspects the raw "value" to tell an
// absent variable (null), a scalar int/bool variable, or an interval
// variable's {start, end} pair apart, since the wire shape does not
// tag which kind a given id refers to (spec.md §6.2).
type SolutionValue struct {
	ID       int
	Value    *int64
	Interval *model.IntervalValue
	Absent   bool
}

func (v *SolutionValue) UnmarshalJSON(data []byte) error {
	var probe struct {
		ID    int             `json:"id"`
		Value json.RawMessage `json:"value"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return fmt.Errorf("wire: decode solution value: %w", err)
	}
	v.ID = probe.ID
	if len(probe.Value) == 0 || string(probe.Value) == "null" {
		v.Absent = true
		return nil
	}
	var num float64
	if err := json.Unmarshal(probe.Value, &num); err == nil {
		iv := int64(num)
		v.Value = &iv
		return nil
	}
	var interval model.IntervalValue
	if err := json.Unmarshal(probe.Value, &interval); err == nil {
		v.Interval = &interval
		return nil
	}
	return fmt.Errorf("wire: unrecognized solution value shape for id %d", probe.ID)
}

func (v SolutionValue) MarshalJSON() ([]byte, error) {
	out := struct {
		ID    int         `json:"id"`
		Value interface{} `json:"value"`
	}{ID: v.ID}
	switch {
	case v.Absent:
		out.Value = nil
	case v.Interval != nil:
		out.Value = v.Interval
	case v.Value != nil:
		out.Value = *v.Value
	}
	return json.Marshal(out)
}

// SolutionData is the payload of a server `solution` event (spec.md
// §6.2, §4.10.4: "record solve time and validity; append an
// objective-history entry; build a Solution snapshot if values are
// present").
type SolutionData struct {
	SolveTime  int64           `json:"solveTime"`
	Objective  *float64        `json:"objective,omitempty"`
	VerifiedOK bool            `json:"verifiedOK"`
	Values     []SolutionValue `json:"values,omitempty"`
}

// SolutionEvent is the full `solution` message.
type SolutionEvent struct {
	Msg  EventKind    `json:"msg"`
	Data SolutionData `json:"data"`
}

// ToSolution builds a model.Solution from the event's values, or nil
// if none were present (spec.md §4.10.4's conditional snapshot).
func (e *SolutionEvent) ToSolution() *model.Solution {
	if e.Data.Values == nil {
		return nil
	}
	sol := model.NewSolution()
	sol.Objective = e.Data.Objective
	for _, v := range e.Data.Values {
		switch {
		case v.Absent:
			sol.Absent[v.ID] = true
		case v.Interval != nil:
			sol.Intervals[v.ID] = *v.Interval
		case v.Value != nil:
			sol.Values[v.ID] = *v.Value
		}
	}
	return sol
}

// LowerBoundData is the payload of a server `lowerBound` event.
type LowerBoundData struct {
	SolveTime int64   `json:"solveTime"`
	Value     float64 `json:"value"`
}

// LowerBoundEvent is the full `lowerBound` message.
type LowerBoundEvent struct {
	Msg  EventKind      `json:"msg"`
	Data LowerBoundData `json:"data"`
}

// DomainEntry is one variable's propagated domain, as reported inside
// a `domains` event (spec.md §6.2: "domains":[{"id":…,"domain":{…}}]).
type DomainEntry struct {
	ID     int                `json:"id"`
	Domain model.DomainRecord `json:"domain"`
}

// DomainsData is the payload of a server `domains` event (propagate
// requests only).
type DomainsData struct {
	Domains        []DomainEntry `json:"domains,omitempty"`
	Error          bool          `json:"error,omitempty"`
	LimitHit       bool          `json:"limitHit,omitempty"`
	Duration       float64       `json:"duration,omitempty"`
	MemoryUsed     int64         `json:"memoryUsed,omitempty"`
	NbIntVars      int           `json:"nbIntVars,omitempty"`
	NbIntervalVars int           `json:"nbIntervalVars,omitempty"`
	NbConstraints  int           `json:"nbConstraints,omitempty"`
}

// DomainsEvent is the full `domains` message.
type DomainsEvent struct {
	Msg  EventKind   `json:"msg"`
	Data DomainsData `json:"data"`
}

// ToModelDomains converts the event into a model.ModelDomains, or the
// infeasible/limit sentinel outcomes (spec.md §4.10.8).
func (e *DomainsEvent) ToModelDomains() *model.ModelDomains {
	out := model.NewModelDomains()
	out.Infeasible = e.Data.Error
	out.LimitReached = e.Data.LimitHit
	for _, entry := range e.Data.Domains {
		out.Domains[entry.ID] = entry.Domain
	}
	return out
}

// TextModelEvent is the full `textModel` message (toText/toJS).
type TextModelEvent struct {
	Msg  EventKind `json:"msg"`
	Data string    `json:"data"`
}

// ObjectiveHistoryEntry is one recorded point in an objective history,
// either streamed incrementally via `solution` events or replayed
// embedded in a batched `summary` (spec.md §4.10.4, §4.10.6).
type ObjectiveHistoryEntry struct {
	SolveTime int64    `json:"solveTime"`
	Objective *float64 `json:"objective,omitempty"`
}

// SummaryData is the payload of a server `summary` event. Objective,
// ObjectiveHistory, ObjectiveBoundHistory, and SolutionValues are only
// populated when the request set batchResults (spec.md §4.10.4:
// "absorb embedded histories and the final solution"); any other
// solver-reported statistics fields land in Stats rather than being
// dropped.
type SummaryData struct {
	Objective             *float64                `json:"objective,omitempty"`
	ObjectiveHistory      []ObjectiveHistoryEntry `json:"objectiveHistory,omitempty"`
	ObjectiveBoundHistory []LowerBoundData        `json:"objectiveBoundHistory,omitempty"`
	SolutionValues        []SolutionValue         `json:"solutionValues,omitempty"`
	Stats                 map[string]interface{}  `json:"-"`
}

var summaryKnownFields = []string{"objective", "objectiveHistory", "objectiveBoundHistory", "solutionValues"}

func (d *SummaryData) UnmarshalJSON(data []byte) error {
	type alias SummaryData
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return fmt.Errorf("wire: decode summary data: %w", err)
	}
	*d = SummaryData(a)

	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return fmt.Errorf("wire: decode summary stats: %w", err)
	}
	for _, k := range summaryKnownFields {
		delete(all, k)
	}
	if len(all) == 0 {
		return nil
	}
	d.Stats = make(map[string]interface{}, len(all))
	for k, raw := range all {
		var v interface{}
		if err := json.Unmarshal(raw, &v); err == nil {
			d.Stats[k] = v
		}
	}
	return nil
}

// SummaryEvent is the full `summary` message, always the final event
// of a solve (spec.md §4.10.4, §4.10.6).
type SummaryEvent struct {
	Msg  EventKind   `json:"msg"`
	Data SummaryData `json:"data"`
}
