package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"optalcp/internal/model"
	"optalcp/internal/solver"
)

var (
	demoJobs     int
	demoMachines int
)

var solveCmd = &cobra.Command{
	Use:   "solve",
	Short: "Solve the built-in demo job-shop model against an optalcp solver",
	Long: `solve builds a small job-shop scheduling model (chains of tasks per
job, shared machines, makespan minimization) and hands it to an
optalcp solver process or endpoint, printing solutions and the final
summary as they arrive.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		m := buildDemoModel(demoJobs, demoMachines)
		p := resolvedParams()

		s := solver.New(cfg.Name, cfg.Version)
		_ = s.SetOnLog(func(text string) { logger.Sugar().Info(text) })
		_ = s.SetOnWarning(func(text string) { logger.Sugar().Warn(text) })
		_ = s.SetOnError(func(err error) { logger.Sugar().Error(err) })
		_ = s.SetOnSolution(func(sol *model.Solution, info solver.SolutionInfo) {
			fmt.Printf("solution at t=%dms objective=%v verified=%v\n", info.SolveTime, objectiveString(info.Objective), info.VerifiedOK)
		})
		_ = s.SetOnObjectiveBound(func(bound float64, solveTime int64) {
			fmt.Printf("bound at t=%dms: %v\n", solveTime, bound)
		})

		result, err := s.Solve(ctx, m, &p, nil)
		if err != nil {
			return fmt.Errorf("solve: %w", err)
		}

		if result.Solution != nil {
			fmt.Printf("final objective: %v (solved at t=%dms, verified=%v)\n",
				objectiveString(result.Solution.Objective), result.SolutionTime, result.SolutionValid)
		} else {
			fmt.Println("no solution found")
		}
		if result.Summary != nil {
			for k, v := range result.Summary.Stats {
				fmt.Printf("  %s: %v\n", k, v)
			}
		}
		return nil
	},
}

func init() {
	solveCmd.Flags().IntVar(&demoJobs, "jobs", 3, "Number of jobs in the demo model")
	solveCmd.Flags().IntVar(&demoMachines, "machines", 3, "Number of machines in the demo model")
}

func objectiveString(obj *float64) string {
	if obj == nil {
		return "n/a"
	}
	return fmt.Sprintf("%v", *obj)
}
