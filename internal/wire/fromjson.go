package wire

import (
	"encoding/json"
	"fmt"

	"optalcp/internal/model"
	"optalcp/internal/params"
)

// ParsedRequest is what FromJSON reconstructs from a previously
// marshaled Request: a live model plus whatever parameters and warm
// start accompanied it (spec.md §4.7: "fromJSON(s) ... returns {model,
// parameters?, warmStart?}").
type ParsedRequest struct {
	Model      *model.Model
	Parameters *params.Parameters
	WarmStart  *WarmStart
}

// FromJSON is the inverse of BuildRequest followed by Marshal: it
// decodes a single wire line and rebuilds a model.Model with every
// reference id preserved and the primary-objective handle restored, the
// same model.FromParts guarantees (spec.md §4.7, §8.1 "fromJSON(toJSON(M))
// == M").
func FromJSON(data []byte) (*ParsedRequest, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("wire: fromJSON: %w", err)
	}
	m, err := model.FromParts(req.Name, req.Refs, req.Model, req.Objective)
	if err != nil {
		return nil, fmt.Errorf("wire: fromJSON: %w", err)
	}
	return &ParsedRequest{Model: m, Parameters: req.Parameters, WarmStart: req.WarmStart}, nil
}
