// Package params implements the optalcp parameter model: a flat set of
// optional solver settings plus per-worker overrides, a closed CLI
// catalog, and the merge/clone semantics the solver session and the
// --config overlay both depend on (spec.md §4.9).
package params

// Parameters is a flat structure of optional primitive fields plus an
// optional per-worker override list. A nil field means "let the solver
// pick its own default" — the zero value is never sent on the wire in
// its place.
type Parameters struct {
	// Global-only fields: never worker-scoped (spec.md §4.9).
	LogLevel  *int    `json:"logLevel,omitempty"`
	LogPeriod *Number `json:"logPeriod,omitempty"`
	// PrintLog is intentionally not a pointer: it is the one field
	// CopyParameters preserves by reference rather than deep-cloning
	// (spec.md §4.9's allow-list), since it may carry a live writer.
	PrintLog interface{} `json:"-"`

	TimeLimit *Number            `json:"timeLimit,omitempty"` // seconds; may be +Infinity
	Workers   []WorkerParameters `json:"workers,omitempty"`

	// SolverPath is the highest-priority solver discovery source
	// (spec.md §6.5 lookup step 1). It is never sent to the spawned
	// solver process, so it is excluded from the wire payload the same
	// way PrintLog is, for a different reason: it names the process to
	// spawn, not a setting that process should receive.
	SolverPath *string `json:"-"`

	// Worker-scopable fields: present at top level as the default for
	// every worker, and overridable per worker in Workers.
	SearchType                  *string `json:"searchType,omitempty"`
	RandomSeed                  *int    `json:"randomSeed,omitempty"`
	NoOverlapPropagationLevel   *int    `json:"noOverlapPropagationLevel,omitempty"`
	CumulPropagationLevel       *int    `json:"cumulPropagationLevel,omitempty"`
	RelativeOptimalityTolerance *Number `json:"relativeOptimalityTolerance,omitempty"`
	AbsoluteOptimalityTolerance *Number `json:"absoluteOptimalityTolerance,omitempty"`
	LnsUseWarmStartOnly         *bool   `json:"lnsUseWarmStartOnly,omitempty"`
}

// WorkerParameters is the subset of Parameters that may vary per
// worker thread (spec.md §4.9: "same field set, minus a few
// globally-scoped fields").
type WorkerParameters struct {
	SearchType                  *string `json:"searchType,omitempty"`
	RandomSeed                  *int    `json:"randomSeed,omitempty"`
	NoOverlapPropagationLevel   *int    `json:"noOverlapPropagationLevel,omitempty"`
	CumulPropagationLevel       *int    `json:"cumulPropagationLevel,omitempty"`
	RelativeOptimalityTolerance *Number `json:"relativeOptimalityTolerance,omitempty"`
	AbsoluteOptimalityTolerance *Number `json:"absoluteOptimalityTolerance,omitempty"`
	LnsUseWarmStartOnly         *bool   `json:"lnsUseWarmStartOnly,omitempty"`
}

func intPtr(v int) *int       { return &v }
func numPtr(v Number) *Number { return &v }
func strPtr(v string) *string { return &v }

func clonedIntPtr(p *int) *int {
	if p == nil {
		return nil
	}
	return intPtr(*p)
}

func clonedNumPtr(p *Number) *Number {
	if p == nil {
		return nil
	}
	return numPtr(*p)
}

func clonedStrPtr(p *string) *string {
	if p == nil {
		return nil
	}
	return strPtr(*p)
}

func boolPtr(v bool) *bool { return &v }

func clonedBoolPtr(p *bool) *bool {
	if p == nil {
		return nil
	}
	return boolPtr(*p)
}

func cloneWorker(w WorkerParameters) WorkerParameters {
	return WorkerParameters{
		SearchType:                  clonedStrPtr(w.SearchType),
		RandomSeed:                  clonedIntPtr(w.RandomSeed),
		NoOverlapPropagationLevel:   clonedIntPtr(w.NoOverlapPropagationLevel),
		CumulPropagationLevel:       clonedIntPtr(w.CumulPropagationLevel),
		RelativeOptimalityTolerance: clonedNumPtr(w.RelativeOptimalityTolerance),
		AbsoluteOptimalityTolerance: clonedNumPtr(w.AbsoluteOptimalityTolerance),
		LnsUseWarmStartOnly:         clonedBoolPtr(w.LnsUseWarmStartOnly),
	}
}

// CopyParameters deep-clones p, except PrintLog which is carried by
// reference per spec.md §4.9's allow-list (it may hold a live,
// non-cloneable writer handle).
func CopyParameters(p Parameters) Parameters {
	out := Parameters{
		LogLevel:                    clonedIntPtr(p.LogLevel),
		LogPeriod:                   clonedNumPtr(p.LogPeriod),
		PrintLog:                    p.PrintLog,
		TimeLimit:                   clonedNumPtr(p.TimeLimit),
		SolverPath:                  clonedStrPtr(p.SolverPath),
		SearchType:                  clonedStrPtr(p.SearchType),
		RandomSeed:                  clonedIntPtr(p.RandomSeed),
		NoOverlapPropagationLevel:   clonedIntPtr(p.NoOverlapPropagationLevel),
		CumulPropagationLevel:       clonedIntPtr(p.CumulPropagationLevel),
		RelativeOptimalityTolerance: clonedNumPtr(p.RelativeOptimalityTolerance),
		AbsoluteOptimalityTolerance: clonedNumPtr(p.AbsoluteOptimalityTolerance),
		LnsUseWarmStartOnly:         clonedBoolPtr(p.LnsUseWarmStartOnly),
	}
	if p.Workers != nil {
		out.Workers = make([]WorkerParameters, len(p.Workers))
		for i, w := range p.Workers {
			out.Workers[i] = cloneWorker(w)
		}
	}
	return out
}

func mergeIntPtr(base, override *int) *int {
	if override != nil {
		return clonedIntPtr(override)
	}
	return clonedIntPtr(base)
}

func mergeNumPtr(base, override *Number) *Number {
	if override != nil {
		return clonedNumPtr(override)
	}
	return clonedNumPtr(base)
}

func mergeStrPtr(base, override *string) *string {
	if override != nil {
		return clonedStrPtr(override)
	}
	return clonedStrPtr(base)
}

func mergeBoolPtr(base, override *bool) *bool {
	if override != nil {
		return clonedBoolPtr(override)
	}
	return clonedBoolPtr(base)
}

func mergeWorker(base, override WorkerParameters) WorkerParameters {
	return WorkerParameters{
		SearchType:                  mergeStrPtr(base.SearchType, override.SearchType),
		RandomSeed:                  mergeIntPtr(base.RandomSeed, override.RandomSeed),
		NoOverlapPropagationLevel:   mergeIntPtr(base.NoOverlapPropagationLevel, override.NoOverlapPropagationLevel),
		CumulPropagationLevel:       mergeIntPtr(base.CumulPropagationLevel, override.CumulPropagationLevel),
		RelativeOptimalityTolerance: mergeNumPtr(base.RelativeOptimalityTolerance, override.RelativeOptimalityTolerance),
		AbsoluteOptimalityTolerance: mergeNumPtr(base.AbsoluteOptimalityTolerance, override.AbsoluteOptimalityTolerance),
		LnsUseWarmStartOnly:         mergeBoolPtr(base.LnsUseWarmStartOnly, override.LnsUseWarmStartOnly),
	}
}

// MergeParameters deep-merges overrides onto base: any field overrides
// sets wins, any field it leaves nil falls back to base's value. The
// Workers slice is merged element-wise by index (spec.md §8.6: "a
// worker override for worker 2 does not affect worker 0's or worker
// 1's settings inherited from base") — a worker index present in only
// one of the two slices is copied from whichever side has it.
func MergeParameters(base, overrides Parameters) Parameters {
	out := Parameters{
		LogLevel:                    mergeIntPtr(base.LogLevel, overrides.LogLevel),
		LogPeriod:                   mergeNumPtr(base.LogPeriod, overrides.LogPeriod),
		PrintLog:                    base.PrintLog,
		TimeLimit:                   mergeNumPtr(base.TimeLimit, overrides.TimeLimit),
		SolverPath:                  mergeStrPtr(base.SolverPath, overrides.SolverPath),
		SearchType:                  mergeStrPtr(base.SearchType, overrides.SearchType),
		RandomSeed:                  mergeIntPtr(base.RandomSeed, overrides.RandomSeed),
		NoOverlapPropagationLevel:   mergeIntPtr(base.NoOverlapPropagationLevel, overrides.NoOverlapPropagationLevel),
		CumulPropagationLevel:       mergeIntPtr(base.CumulPropagationLevel, overrides.CumulPropagationLevel),
		RelativeOptimalityTolerance: mergeNumPtr(base.RelativeOptimalityTolerance, overrides.RelativeOptimalityTolerance),
		AbsoluteOptimalityTolerance: mergeNumPtr(base.AbsoluteOptimalityTolerance, overrides.AbsoluteOptimalityTolerance),
		LnsUseWarmStartOnly:         mergeBoolPtr(base.LnsUseWarmStartOnly, overrides.LnsUseWarmStartOnly),
	}
	if overrides.PrintLog != nil {
		out.PrintLog = overrides.PrintLog
	}

	n := len(base.Workers)
	if len(overrides.Workers) > n {
		n = len(overrides.Workers)
	}
	if n == 0 {
		return out
	}
	out.Workers = make([]WorkerParameters, n)
	for i := 0; i < n; i++ {
		var b, o WorkerParameters
		if i < len(base.Workers) {
			b = base.Workers[i]
		}
		if i < len(overrides.Workers) {
			o = overrides.Workers[i]
		}
		out.Workers[i] = mergeWorker(b, o)
	}
	return out
}
