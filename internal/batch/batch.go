// Package batch analyses many independent structures concurrently.
package batch

import (
	"context"
	"errors"
	"sync"

	"github.com/san-kum/trussim/internal/config"
	"github.com/san-kum/trussim/internal/metrics"
	"github.com/san-kum/trussim/internal/solver"
	"github.com/san-kum/trussim/internal/truss"
)

var ErrNoStructure = errors.New("batch: job has no structure")

// Job is one structure to analyse. The structure is cloned before solving.
// A job with Err set is reported as is, without solving.
type Job struct {
	Name      string
	Structure *truss.Structure
	Err       error
}

// Outcome of one Job. Err is set when the job was never solved.
type Outcome struct {
	Name      string
	Structure *truss.Structure
	Result    solver.Result
	Summary   metrics.Summary
	Err       error
}

// Runner dispatches jobs to a fixed number of workers.
type Runner struct {
	workers int
}

func NewRunner(workers int) *Runner {
	if workers < 1 {
		workers = 1
	}
	return &Runner{workers: workers}
}

// Run analyses jobs and returns outcomes in input order. Cancelling ctx stops
// dispatch; undispatched jobs report ctx.Err(). The returned error is ctx.Err()
// if dispatch was cut short.
func (r *Runner) Run(ctx context.Context, jobs []Job) ([]Outcome, error) {
	out := make([]Outcome, len(jobs))
	for i, j := range jobs {
		out[i].Name = j.Name
	}

	idx := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < r.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range idx {
				out[i] = analyse(jobs[i])
			}
		}()
	}

	var stopped error
	dispatched := 0
dispatch:
	for i := range jobs {
		if err := ctx.Err(); err != nil {
			stopped = err
			break
		}
		select {
		case <-ctx.Done():
			stopped = ctx.Err()
			break dispatch
		case idx <- i:
			dispatched++
		}
	}
	close(idx)
	wg.Wait()

	for i := dispatched; i < len(jobs); i++ {
		out[i].Err = stopped
	}
	return out, stopped
}

func analyse(j Job) Outcome {
	switch {
	case j.Err != nil:
		return Outcome{Name: j.Name, Err: j.Err}
	case j.Structure == nil:
		return Outcome{Name: j.Name, Err: ErrNoStructure}
	}
	s := j.Structure.Clone()
	res := solver.ComputeEquilibrium(s)
	return Outcome{
		Name:      j.Name,
		Structure: s,
		Result:    res,
		Summary:   metrics.Summarize(s, res),
	}
}

// FromScenario builds a job from a scenario document. A scenario that does
// not build yields a job carrying the error.
func FromScenario(sc *config.Scenario) Job {
	s, err := sc.Structure()
	return Job{Name: sc.Name, Structure: s, Err: err}
}

// FromScenarios builds one job per scenario document, in order.
func FromScenarios(scs []*config.Scenario) []Job {
	jobs := make([]Job, len(scs))
	for i, sc := range scs {
		jobs[i] = FromScenario(sc)
	}
	return jobs
}
