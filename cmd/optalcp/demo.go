package main

import (
	"fmt"

	"optalcp/internal/model"
)

// buildDemoModel returns a small job-shop scheduling model: a handful
// of jobs, each a chain of tasks that must run in order, sharing a
// fixed number of machines that can process only one task at a time.
// It exists so `solve`/`propagate` have something to exercise without
// a model-authoring surface of their own — this client is a library
// embedded into a caller's own model-building code, not a model file
// format (spec.md §2 lists no such format).
func buildDemoModel(numJobs, numMachines int) *model.Model {
	if numJobs < 1 {
		numJobs = 1
	}
	if numMachines < 1 {
		numMachines = 1
	}

	m := model.NewModel("jobshop-demo")

	machineTasks := make([][]*model.IntervalVar, numMachines)
	var ends []model.IntExpr
	horizon := int64(3 + (numJobs+numMachines)%4) * int64(numMachines) * int64(numJobs+1)

	for j := 0; j < numJobs; j++ {
		var prev *model.IntervalVar
		for t := 0; t < numMachines; t++ {
			task := m.NewIntervalVar(fmt.Sprintf("job%d_task%d", j, t))
			length := int64(3 + (j+t)%4)
			task.SetLengthMin(length)
			task.SetLengthMax(length)

			machine := (j + t) % numMachines
			machineTasks[machine] = append(machineTasks[machine], task)

			if prev != nil {
				m.Enforce(prev.EndBeforeStart(task, 0))
			}
			prev = task
		}
		ends = append(ends, prev.End())
	}

	for _, tasks := range machineTasks {
		if len(tasks) > 1 {
			m.NoOverlapArray(tasks, nil)
		}
	}

	makespan := m.NewIntVar(0, horizon, "makespan")
	for _, e := range ends {
		m.Enforce(makespan.Ge(e))
	}
	m.Minimize(makespan)

	return m
}
