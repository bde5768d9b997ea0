package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"optalcp/internal/solver"
)

var propagateCmd = &cobra.Command{
	Use:   "propagate",
	Short: "Propagate the built-in demo job-shop model and print the resulting domains",
	Long: `propagate sends the demo model to the solver with a "propagate"
request instead of "solve": the solver narrows every variable's domain
once, without searching, and reports the result (spec.md §4.10.8).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		m := buildDemoModel(demoJobs, demoMachines)
		p := resolvedParams()

		s := solver.New(cfg.Name, cfg.Version)
		_ = s.SetOnLog(func(text string) { logger.Sugar().Info(text) })
		_ = s.SetOnWarning(func(text string) { logger.Sugar().Warn(text) })
		_ = s.SetOnError(func(err error) { logger.Sugar().Error(err) })

		domains, err := s.Propagate(ctx, m, &p)
		if err != nil {
			return fmt.Errorf("propagate: %w", err)
		}

		if domains.Infeasible {
			fmt.Println("model is infeasible after propagation")
			return nil
		}
		if domains.LimitReached {
			fmt.Println("propagation stopped early: a limit was reached")
		}

		for _, v := range m.GetIntVars() {
			if rec, ok := domains.ForInt(v); ok {
				fmt.Printf("%s: [%v, %v]\n", v.Name(), derefInt(rec.Min), derefInt(rec.Max))
			}
		}
		for _, v := range m.GetIntervalVars() {
			if rec, ok := domains.ForInterval(v); ok {
				fmt.Printf("%s: start=[%v,%v] end=[%v,%v] length=[%v,%v]\n",
					v.Name(), derefInt(rec.StartMin), derefInt(rec.StartMax),
					derefInt(rec.EndMin), derefInt(rec.EndMax),
					derefInt(rec.LengthMin), derefInt(rec.LengthMax))
			}
		}
		return nil
	},
}

func derefInt(p *int64) interface{} {
	if p == nil {
		return "?"
	}
	return *p
}
