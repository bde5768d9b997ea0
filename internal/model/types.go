// Package model implements the shared, deduplicated expression/model
// graph used to build a constraint-programming model in memory: decision
// variables, integer/boolean/float/cumulative expressions, step
// functions, constraints, and an objective. See SPEC_FULL.md §3.
package model

import (
	"encoding/json"
	"errors"
)

var errUnresolvedArgument = errors.New("model: unresolved argument; call Model.Resolve before serializing")

// Presence is the tri-valued status a variable (or, transitively, any
// expression built from it) can have in a solution.
type Presence uint8

const (
	// PresentStatus is the default: the variable must appear in the
	// solution.
	PresentStatus Presence = iota
	// OptionalStatus lets the solver decide whether the variable is
	// present or absent.
	OptionalStatus
	// AbsentStatus forces the variable out of the solution.
	AbsentStatus
)

func (p Presence) String() string {
	switch p {
	case OptionalStatus:
		return "optional"
	case AbsentStatus:
		return "absent"
	default:
		return "present"
	}
}

// MarshalJSON encodes Presence as its wire string, matching the
// variable-declaration "presence" field convention (spec.md §3.2).
func (p Presence) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

// UnmarshalJSON decodes Presence from its wire string, used by
// DomainRecord when a propagate response reports a variable's status.
func (p *Presence) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*p = presenceFromString(s)
	return nil
}

// Numeric domain bounds, fixed by the protocol (spec.md §3.2).
const (
	IntVarMax    int64 = 1<<30 - 1
	IntVarMin    int64 = -IntVarMax
	IntervalMax  int64 = 715_827_882
	IntervalMin  int64 = -IntervalMax
	LengthMax    int64 = IntervalMax - IntervalMin
)

// ArgKind tags the union carried by every node (spec.md §3.1).
type ArgKind uint8

const (
	ArgInline ArgKind = iota
	ArgRef
	ArgInt
	ArgBool
	ArgFloat
	// ArgNode is an internal-only kind: a not-yet-resolved reference to
	// a node, held by a record's Args until Model.Resolve converts it
	// to ArgInline or ArgRef (see node.go). It never reaches the wire.
	ArgNode
)

// Argument is the tagged wire-form of one operand of a node: an inline
// property record, a reference id, or a primitive. Arrays are themselves
// dedupable nodes (function tag "array"/"matrix"), so an array argument
// is just an Argument of kind ArgInline/ArgRef pointing at an array node
// — there is no separate "array" ArgKind.
type Argument struct {
	Kind   ArgKind
	Ref    int
	Int    int64
	Bool   bool
	Float  float64
	Record *PropertyRecord // valid when Kind == ArgInline
	Node   *node           // valid when Kind == ArgNode (unresolved)
}

// IntArg builds a primitive integer argument.
func IntArg(v int64) Argument { return Argument{Kind: ArgInt, Int: v} }

// BoolArg builds a primitive boolean argument.
func BoolArg(v bool) Argument { return Argument{Kind: ArgBool, Bool: v} }

// FloatArg builds a primitive float argument.
func FloatArg(v float64) Argument { return Argument{Kind: ArgFloat, Float: v} }

// StepPoint is one breakpoint (x, y) of an IntStepFunction.
type StepPoint struct {
	X int64 `json:"x"`
	Y int64 `json:"y"`
}

// PropertyRecord is the node payload shared by the in-memory graph and
// the wire reference table: a function tag, an argument list, and
// kind-specific fields that are only populated for declarations.
type PropertyRecord struct {
	Func string     `json:"function"`
	Args []Argument `json:"args,omitempty"`

	// Integer/float/interval variable fields.
	Min       *int64 `json:"min,omitempty"`
	Max       *int64 `json:"max,omitempty"`
	StartMin  *int64 `json:"startMin,omitempty"`
	StartMax  *int64 `json:"startMax,omitempty"`
	EndMin    *int64 `json:"endMin,omitempty"`
	EndMax    *int64 `json:"endMax,omitempty"`
	LengthMin *int64 `json:"lengthMin,omitempty"`
	LengthMax *int64 `json:"lengthMax,omitempty"`
	Presence  string `json:"presence,omitempty"` // elided when present
	Name      string `json:"name,omitempty"`

	// Step function fields.
	Points []StepPoint `json:"points,omitempty"`

	// Sequence variable fields.
	Types []int64 `json:"types,omitempty"`

	// noOverlap transition matrix (square, rows == len(types domain)).
	Transitions [][]int64 `json:"transitions,omitempty"`

	// Height and Time are carried through JSON when present. The pulse and
	// step builders in cumul.go do not set them: they pass the height and
	// time as ordinary Args entries.
	Height *int64 `json:"height,omitempty"`
	Time   *int64 `json:"time,omitempty"`

	// Objective fields.
	Minimize bool       `json:"minimize,omitempty"`
	Exprs    []Argument `json:"exprs,omitempty"` // lexicographic objective terms

	// resolved marks that every lazy (ArgNode) entry in Args/Exprs has
	// already been converted to its final inline/ref form by
	// Model.Resolve. Unexported, so encoding/json skips it regardless.
	resolved bool
}

func i64p(v int64) *int64 { return &v }

// MarshalJSON encodes an Argument per spec.md §3.1/§4.8: primitives as
// raw JSON scalars, references as {"id": N}, and inline arguments as the
// embedded property record object.
func (a Argument) MarshalJSON() ([]byte, error) {
	switch a.Kind {
	case ArgInt:
		return json.Marshal(a.Int)
	case ArgBool:
		return json.Marshal(a.Bool)
	case ArgFloat:
		return json.Marshal(a.Float)
	case ArgRef:
		return json.Marshal(struct {
			ID int `json:"id"`
		}{a.Ref})
	case ArgNode:
		return nil, errUnresolvedArgument
	default: // ArgInline
		return json.Marshal(a.Record)
	}
}

// UnmarshalJSON decodes an Argument written by MarshalJSON. A JSON number
// with no fractional part decodes as ArgInt, so an ArgFloat holding an
// integral value comes back as ArgInt.
func (a *Argument) UnmarshalJSON(data []byte) error {
	var probe interface{}
	if err := json.Unmarshal(data, &probe); err != nil {
		return err
	}
	switch v := probe.(type) {
	case bool:
		*a = Argument{Kind: ArgBool, Bool: v}
		return nil
	case float64:
		if v == float64(int64(v)) {
			*a = Argument{Kind: ArgInt, Int: int64(v)}
		} else {
			*a = Argument{Kind: ArgFloat, Float: v}
		}
		return nil
	case map[string]interface{}:
		if id, ok := v["id"]; ok && len(v) == 1 {
			*a = Argument{Kind: ArgRef, Ref: int(id.(float64))}
			return nil
		}
		var rec PropertyRecord
		if err := json.Unmarshal(data, &rec); err != nil {
			return err
		}
		*a = Argument{Kind: ArgInline, Record: &rec}
		return nil
	default:
		*a = Argument{}
		return nil
	}
}
