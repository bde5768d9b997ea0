package main

import (
	"strings"

	"optalcp/internal/params"
)

// splitCatalogArgs separates the recognized parameter-catalog long
// options (spec.md §6.3: "--optName <value>" or "--optName=value",
// including worker-prefixed forms like "--worker2.searchType") from
// everything else in args, which is left for cobra to parse as its
// own persistent flags and subcommand. This is necessary because
// pflag has no notion of the catalog's dotted worker-range prefixes,
// so those options must be pulled out and handed to
// params.ParseCLI (internal/params/cli.go) before cobra ever sees
// the remaining tokens.
func splitCatalogArgs(args []string) (catalogArgs, rest []string) {
	names := catalogNameSet()

	i := 0
	for i < len(args) {
		tok := args[i]
		if !strings.HasPrefix(tok, "--") || tok == "--help" || tok == "--optalcpVersion" {
			rest = append(rest, tok)
			i++
			continue
		}

		name := tok[2:]
		hasValue := false
		if eq := strings.IndexByte(name, '='); eq >= 0 {
			name = name[:eq]
			hasValue = true
		}
		optName := name
		if dot := strings.IndexByte(name, '.'); dot >= 0 {
			optName = name[dot+1:]
		}

		if !names[strings.ToLower(optName)] {
			rest = append(rest, tok)
			i++
			continue
		}

		catalogArgs = append(catalogArgs, tok)
		i++
		if !hasValue && i < len(args) && !strings.HasPrefix(args[i], "--") {
			catalogArgs = append(catalogArgs, args[i])
			i++
		}
	}
	return catalogArgs, rest
}

func catalogNameSet() map[string]bool {
	set := make(map[string]bool)
	for _, n := range params.Catalog() {
		set[strings.ToLower(n)] = true
	}
	return set
}
