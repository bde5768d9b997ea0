package solver

import (
	"context"
	"errors"

	"optalcp/internal/model"
	"optalcp/internal/params"
	"optalcp/internal/wire"
)

// Propagate reuses the session machinery with request kind "propagate"
// and returns the resulting ModelDomains snapshot, or the sentinel
// infeasible/limit outcomes it carries (spec.md §4.10.8).
func (s *Solver) Propagate(ctx context.Context, m *model.Model, p *params.Parameters) (*model.ModelDomains, error) {
	var out *model.ModelDomains
	prevOnDomains := s.snapshotCallbacks().OnDomains
	if err := s.setCallback(func(c *Callbacks) {
		c.OnDomains = func(d *model.ModelDomains) { out = d }
	}); err != nil {
		return nil, err
	}
	defer s.setCallback(func(c *Callbacks) { c.OnDomains = prevOnDomains })

	if _, err := s.run(ctx, wire.RequestPropagate, m, p, nil); err != nil {
		return nil, err
	}
	if out == nil {
		return nil, errors.New("solver: propagate completed without a domains response")
	}
	return out, nil
}

// ToText reuses the session machinery with request kind "toText" and
// returns the solver's textual rendering of m (spec.md §4.10.8).
func (s *Solver) ToText(ctx context.Context, m *model.Model, p *params.Parameters) (string, error) {
	return s.exportText(ctx, wire.RequestToText, m, p)
}

// ToJS reuses the session machinery with request kind "toJS" and
// returns the solver's JavaScript-source rendering of m (spec.md
// §4.10.8).
func (s *Solver) ToJS(ctx context.Context, m *model.Model, p *params.Parameters) (string, error) {
	return s.exportText(ctx, wire.RequestToJS, m, p)
}

func (s *Solver) exportText(ctx context.Context, kind wire.RequestKind, m *model.Model, p *params.Parameters) (string, error) {
	var out string
	var got bool
	prevOnTextModel := s.snapshotCallbacks().OnTextModel
	if err := s.setCallback(func(c *Callbacks) {
		c.OnTextModel = func(text string) { out, got = text, true }
	}); err != nil {
		return "", err
	}
	defer s.setCallback(func(c *Callbacks) { c.OnTextModel = prevOnTextModel })

	if _, err := s.run(ctx, kind, m, p, nil); err != nil {
		return "", err
	}
	if !got {
		return "", errors.New("solver: export completed without a textModel response")
	}
	return out, nil
}
