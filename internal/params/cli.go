package params

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// workerPrefix matches "workerN", "workerN-M", or "workersN-M" (the
// plural form is accepted as an alias for the range form only, per
// spec.md §4.9).
var workerPrefix = regexp.MustCompile(`^workers?(\d+)(?:-(\d+))?$`)

// ParseResult is the outcome of parsing one CLI invocation's option
// tokens against the catalog.
type ParseResult struct {
	Parameters Parameters
	Help       bool // --help/-h was given
	Version    bool // --optalcpVersion was given
	Unknown    []string
}

// ParseOptions controls ParseCLI's tolerance of unrecognized tokens.
type ParseOptions struct {
	AllowUnknown bool
}

// ParseCLI parses args (already split on whitespace, as from
// os.Args[1:] after any cobra-owned flags are stripped) into a
// Parameters value plus help/version/unknown signaling (spec.md §4.9,
// §6.3). Recognized forms: "--opt value", "--opt=value",
// "--workerN.opt value"/"--workerN.opt=value",
// "--workerN-M.opt"/"--workersN-M.opt", "--help"/"-h",
// "--optalcpVersion".
func ParseCLI(args []string, opts ParseOptions) (*ParseResult, error) {
	res := &ParseResult{}
	i := 0
	for i < len(args) {
		tok := args[i]
		i++

		if tok == "--help" || tok == "-h" {
			res.Help = true
			continue
		}
		if tok == "--optalcpVersion" {
			res.Version = true
			continue
		}
		if !strings.HasPrefix(tok, "--") {
			if opts.AllowUnknown {
				res.Unknown = append(res.Unknown, tok)
				continue
			}
			return nil, fmt.Errorf("params: unexpected token %q", tok)
		}

		name := tok[2:]
		var rawValue string
		hasValue := false
		if eq := strings.IndexByte(name, '='); eq >= 0 {
			rawValue = name[eq+1:]
			name = name[:eq]
			hasValue = true
		}

		optName := name
		lo, hi, scoped := -1, -1, false
		if dot := strings.IndexByte(name, '.'); dot >= 0 {
			prefix := name[:dot]
			if m := workerPrefix.FindStringSubmatch(strings.ToLower(prefix)); m != nil && (m[2] != "" || !strings.HasPrefix(strings.ToLower(prefix), "workers")) {
				scoped = true
				lo, _ = strconv.Atoi(m[1])
				hi = lo
				if m[2] != "" {
					hi, _ = strconv.Atoi(m[2])
				}
				optName = name[dot+1:]
			}
		}

		d, ok := catalog[strings.ToLower(optName)]
		if !ok {
			if opts.AllowUnknown {
				res.Unknown = append(res.Unknown, tok)
				if !hasValue && i < len(args) && !strings.HasPrefix(args[i], "--") {
					i++ // also swallow the token's value, best effort
				}
				continue
			}
			return nil, fmt.Errorf("params: unrecognized option %q", optName)
		}

		if scoped && d.workerSetter == nil {
			return nil, fmt.Errorf("params: %q cannot be worker-scoped", optName)
		}

		if !hasValue {
			if i >= len(args) {
				return nil, fmt.Errorf("params: option %q requires a value", optName)
			}
			rawValue = args[i]
			i++
		}

		if scoped {
			if lo < 0 || hi < lo {
				return nil, fmt.Errorf("params: invalid worker range in %q", name)
			}
			if len(res.Parameters.Workers) <= hi {
				grown := make([]WorkerParameters, hi+1)
				copy(grown, res.Parameters.Workers)
				res.Parameters.Workers = grown
			}
			for w := lo; w <= hi; w++ {
				if err := d.workerSetter(&res.Parameters.Workers[w], rawValue); err != nil {
					return nil, err
				}
			}
			continue
		}

		if err := d.globalSetter(&res.Parameters, rawValue); err != nil {
			return nil, err
		}
	}
	return res, nil
}
