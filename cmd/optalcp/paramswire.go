package main

import "optalcp/internal/params"

// resolvedParams layers the catalog options collected on the command
// line (cliParams) over the defaults carried in the loaded config file,
// with the CLI always winning (spec.md §6.6: "CLI flags always win
// over config overlay").
func resolvedParams() params.Parameters {
	base := params.Parameters{}
	if cfg.Solver.Path != "" {
		path := cfg.Solver.Path
		base.SolverPath = &path
	}
	return params.MergeParameters(base, cliParams)
}
