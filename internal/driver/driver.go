// Package driver runs one job through the compile, link, execute protocol of
// both toolchains and stops as soon as a verdict is reached.
package driver

import (
	"context"
	"fmt"

	"dct/internal/classify"
	"dct/internal/domain"
	"dct/internal/toolchain"
	"dct/internal/ui"
)

// State is a step of the per-job state machine
type State string

const (
	StateStart        State = "START"
	StateRefCompiled  State = "REF_COMPILED"
	StateRefLinked    State = "REF_LINKED"
	StateRefExecuted  State = "REF_EXECUTED"
	StateCandCompiled State = "CAND_COMPILED"
	StateCandLinked   State = "CAND_LINKED"
	StateCandExecuted State = "CAND_EXECUTED"
	StateDecided      State = "DECIDED"
)

// CommandRunner executes one external command in a workspace
type CommandRunner interface {
	Run(ctx context.Context, argv []string, dir, logName string) (*domain.ExecutionResult, error)
}

// Driver orchestrates a single job
type Driver struct {
	runner     CommandRunner
	toolchain  *toolchain.Toolchain
	classifier *classify.Classifier
	logger     *ui.Logger
}

// NewDriver creates a new Driver
func NewDriver(runner CommandRunner, tc *toolchain.Toolchain, classifier *classify.Classifier, logger *ui.Logger) *Driver {
	return &Driver{
		runner:     runner,
		toolchain:  tc,
		classifier: classifier,
		logger:     logger,
	}
}

// jobRun carries the mutable state of one job; it never outlives Run
type jobRun struct {
	d       *Driver
	job     domain.Job
	state   State
	ev      classify.Evidence
	results map[domain.Stage]*domain.ExecutionResult
}

// Run drives job to a verdict. The returned error is harness-fatal and never
// describes the behaviour of the toolchains under test.
func (d *Driver) Run(ctx context.Context, job domain.Job) (domain.Verdict, error) {
	r := &jobRun{
		d:       d,
		job:     job,
		state:   StateStart,
		results: make(map[domain.Stage]*domain.ExecutionResult),
	}
	d.logger.Debugf(2, "running %s in %s", job.Input.Path, job.Workspace)

	verdict, err := r.run(ctx)
	if err != nil {
		return domain.Verdict{}, fmt.Errorf("%s: %w", job.Name, err)
	}

	verdict.Job = job.Name
	verdict.Input = job.Input.Path
	verdict.Dir = job.Workspace
	verdict.Results = r.results
	return verdict, nil
}

func (r *jobRun) run(ctx context.Context) (domain.Verdict, error) {
	var err error

	// Reference stages: failures are recorded and the candidate is still compiled
	if r.ev.RefCompile, err = r.step(ctx, domain.StageRefCompile, StateRefCompiled); err != nil {
		return domain.Verdict{}, err
	}
	if r.ev.RefCompile.Succeeded() {
		if r.ev.RefLink, err = r.step(ctx, domain.StageRefLink, StateRefLinked); err != nil {
			return domain.Verdict{}, err
		}
	}
	if r.ev.RefLink.Succeeded() {
		if r.ev.RefExecute, err = r.step(ctx, domain.StageRefExecute, StateRefExecuted); err != nil {
			return domain.Verdict{}, err
		}
	}

	if r.ev.CandCompile, err = r.step(ctx, domain.StageCandCompile, StateCandCompiled); err != nil {
		return domain.Verdict{}, err
	}
	if v, ok := r.d.classifier.AfterCompile(r.ev); ok {
		return r.decide(v), nil
	}

	if r.ev.CandLink, err = r.step(ctx, domain.StageCandLink, StateCandLinked); err != nil {
		return domain.Verdict{}, err
	}
	if v, ok := r.d.classifier.AfterLink(r.ev); ok {
		return r.decide(v), nil
	}

	if r.ev.CandExecute, err = r.step(ctx, domain.StageCandExecute, StateCandExecuted); err != nil {
		return domain.Verdict{}, err
	}
	return r.decide(r.d.classifier.Classify(r.ev)), nil
}

// step runs one stage and moves the state machine to next
func (r *jobRun) step(ctx context.Context, stage domain.Stage, next State) (*domain.ExecutionResult, error) {
	argv := r.d.toolchain.Argv(stage, r.job.Workspace)
	result, err := r.d.runner.Run(ctx, argv, r.job.Workspace, stage.LogName())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", stage, err)
	}
	r.results[stage] = result
	r.transition(next)
	return result, nil
}

func (r *jobRun) decide(v domain.Verdict) domain.Verdict {
	r.transition(StateDecided)
	return v
}

func (r *jobRun) transition(next State) {
	if next == r.state {
		return
	}
	r.d.logger.Debugf(3, "%s: %s -> %s", r.job.Name, r.state, next)
	r.state = next
}
