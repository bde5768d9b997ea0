package params

import (
	"fmt"
	"strconv"
	"strings"
)

// valueKind tags the parser a descriptor uses to interpret a raw CLI
// token (spec.md §4.9).
type valueKind int

const (
	kindInt valueKind = iota
	kindFloat
	kindBool
	kindEnum
	kindString
)

// descriptor is one catalog entry: a name, how to parse its value, and
// where to store it. workerSetter is nil for global-only options
// (spec.md §4.9: "only options whose descriptor provides a per-worker
// setter may be worker-scoped").
type descriptor struct {
	name         string
	kind         valueKind
	enumValues   []string // valid tokens when kind == kindEnum, compared case-insensitively
	globalSetter func(p *Parameters, raw string) error
	workerSetter func(w *WorkerParameters, raw string) error
}

// catalog is the closed set of recognized parameter names.
var catalog = buildCatalog()

func buildCatalog() map[string]*descriptor {
	c := map[string]*descriptor{}
	add := func(d *descriptor) { c[strings.ToLower(d.name)] = d }

	add(&descriptor{
		name: "logLevel", kind: kindInt,
		globalSetter: func(p *Parameters, raw string) error {
			v, err := parseInt(raw)
			if err != nil {
				return err
			}
			p.LogLevel = &v
			return nil
		},
	})
	add(&descriptor{
		name: "logPeriod", kind: kindFloat,
		globalSetter: func(p *Parameters, raw string) error {
			v, err := parseFloat(raw)
			if err != nil {
				return err
			}
			p.LogPeriod = &v
			return nil
		},
	})
	add(&descriptor{
		name: "timeLimit", kind: kindFloat,
		globalSetter: func(p *Parameters, raw string) error {
			v, err := parseFloat(raw)
			if err != nil {
				return err
			}
			p.TimeLimit = &v
			return nil
		},
	})
	add(&descriptor{
		name: "solverPath", kind: kindString,
		globalSetter: func(p *Parameters, raw string) error {
			p.SolverPath = &raw
			return nil
		},
	})
	add(&descriptor{
		name: "workers", kind: kindInt,
		globalSetter: func(p *Parameters, raw string) error {
			v, err := parseInt(raw)
			if err != nil {
				return err
			}
			if len(p.Workers) < v {
				grown := make([]WorkerParameters, v)
				copy(grown, p.Workers)
				p.Workers = grown
			}
			return nil
		},
	})
	add(&descriptor{
		name: "searchType", kind: kindEnum, enumValues: []string{"DFS", "FDS", "LNS"},
		globalSetter: func(p *Parameters, raw string) error {
			v, err := parseEnum(raw, []string{"DFS", "FDS", "LNS"})
			if err != nil {
				return err
			}
			p.SearchType = &v
			return nil
		},
		workerSetter: func(w *WorkerParameters, raw string) error {
			v, err := parseEnum(raw, []string{"DFS", "FDS", "LNS"})
			if err != nil {
				return err
			}
			w.SearchType = &v
			return nil
		},
	})
	add(&descriptor{
		name: "randomSeed", kind: kindInt,
		globalSetter: func(p *Parameters, raw string) error {
			v, err := parseInt(raw)
			if err != nil {
				return err
			}
			p.RandomSeed = &v
			return nil
		},
		workerSetter: func(w *WorkerParameters, raw string) error {
			v, err := parseInt(raw)
			if err != nil {
				return err
			}
			w.RandomSeed = &v
			return nil
		},
	})
	add(&descriptor{
		name: "noOverlapPropagationLevel", kind: kindInt,
		globalSetter: func(p *Parameters, raw string) error {
			v, err := parseInt(raw)
			if err != nil {
				return err
			}
			p.NoOverlapPropagationLevel = &v
			return nil
		},
		workerSetter: func(w *WorkerParameters, raw string) error {
			v, err := parseInt(raw)
			if err != nil {
				return err
			}
			w.NoOverlapPropagationLevel = &v
			return nil
		},
	})
	add(&descriptor{
		name: "cumulPropagationLevel", kind: kindInt,
		globalSetter: func(p *Parameters, raw string) error {
			v, err := parseInt(raw)
			if err != nil {
				return err
			}
			p.CumulPropagationLevel = &v
			return nil
		},
		workerSetter: func(w *WorkerParameters, raw string) error {
			v, err := parseInt(raw)
			if err != nil {
				return err
			}
			w.CumulPropagationLevel = &v
			return nil
		},
	})
	add(&descriptor{
		name: "relativeOptimalityTolerance", kind: kindFloat,
		globalSetter: func(p *Parameters, raw string) error {
			v, err := parseFloat(raw)
			if err != nil {
				return err
			}
			p.RelativeOptimalityTolerance = &v
			return nil
		},
		workerSetter: func(w *WorkerParameters, raw string) error {
			v, err := parseFloat(raw)
			if err != nil {
				return err
			}
			w.RelativeOptimalityTolerance = &v
			return nil
		},
	})
	add(&descriptor{
		name: "absoluteOptimalityTolerance", kind: kindFloat,
		globalSetter: func(p *Parameters, raw string) error {
			v, err := parseFloat(raw)
			if err != nil {
				return err
			}
			p.AbsoluteOptimalityTolerance = &v
			return nil
		},
		workerSetter: func(w *WorkerParameters, raw string) error {
			v, err := parseFloat(raw)
			if err != nil {
				return err
			}
			w.AbsoluteOptimalityTolerance = &v
			return nil
		},
	})
	add(&descriptor{
		name: "lnsUseWarmStartOnly", kind: kindBool,
		globalSetter: func(p *Parameters, raw string) error {
			v, err := parseBool(raw)
			if err != nil {
				return err
			}
			p.LnsUseWarmStartOnly = &v
			return nil
		},
		workerSetter: func(w *WorkerParameters, raw string) error {
			v, err := parseBool(raw)
			if err != nil {
				return err
			}
			w.LnsUseWarmStartOnly = &v
			return nil
		},
	})
	return c
}

// Catalog returns the sorted list of recognized option names, for
// --help output.
func Catalog() []string {
	names := make([]string, 0, len(catalog))
	for _, d := range catalog {
		names = append(names, d.name)
	}
	for i := 1; i < len(names); i++ {
		for j := i; j > 0 && names[j] < names[j-1]; j-- {
			names[j], names[j-1] = names[j-1], names[j]
		}
	}
	return names
}

func parseInt(raw string) (int, error) {
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("params: invalid integer %q: %w", raw, err)
	}
	return v, nil
}

// parseFloat accepts "Infinity"/"-Infinity" (case-insensitive) as the
// CLI/JSON sentinel values, per spec.md §6.3 ("doubles including
// Infinity") and §4.8 (the matching wire stringification).
func parseFloat(raw string) (Number, error) {
	switch strings.ToLower(raw) {
	case "infinity", "+infinity":
		return posInf, nil
	case "-infinity":
		return negInf, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("params: invalid number %q: %w", raw, err)
	}
	return Number(v), nil
}

// parseBool accepts the case-insensitive token set spec.md §4.9 names.
func parseBool(raw string) (bool, error) {
	switch strings.ToLower(raw) {
	case "true", "t", "1", "yes", "y":
		return true, nil
	case "false", "f", "0", "no", "n":
		return false, nil
	}
	return false, fmt.Errorf("params: invalid boolean %q", raw)
}

func parseEnum(raw string, allowed []string) (string, error) {
	for _, v := range allowed {
		if strings.EqualFold(raw, v) {
			return v, nil
		}
	}
	return "", fmt.Errorf("params: %q is not one of %v", raw, allowed)
}
