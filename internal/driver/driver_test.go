package driver

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dct/internal/classify"
	"dct/internal/config"
	"dct/internal/domain"
	"dct/internal/toolchain"
)

// fakeRunner answers each stage from a table keyed by log name
type fakeRunner struct {
	results map[domain.Stage]*domain.ExecutionResult
	failOn  domain.Stage
	calls   []domain.Stage
}

func (f *fakeRunner) Run(ctx context.Context, argv []string, dir, logName string) (*domain.ExecutionResult, error) {
	for _, stage := range domain.Stages {
		if stage.LogName() != logName {
			continue
		}
		f.calls = append(f.calls, stage)
		if stage == f.failOn {
			return nil, domain.ErrEnvironment
		}
		if r, ok := f.results[stage]; ok {
			return r, nil
		}
		return &domain.ExecutionResult{Argv: argv}, nil
	}
	return nil, errors.New("unexpected log name " + logName)
}

func newDriver(runner CommandRunner) *Driver {
	cfg := config.New()
	return NewDriver(runner, toolchain.New(cfg, "/bin/wrapper"), classify.NewClassifier(cfg), nil)
}

func exit(status int) *domain.ExecutionResult {
	return &domain.ExecutionResult{ExitStatus: status}
}

var job = domain.Job{Name: "basic-ret", Workspace: "/out/basic-ret", Input: domain.InputFile{Path: "basic/ret.c"}}

func TestDriver_Run(t *testing.T) {
	tests := []struct {
		name    string
		results map[domain.Stage]*domain.ExecutionResult
		calls   []domain.Stage
		status  domain.Status
		reason  domain.Reason
	}{
		{
			name: "both reject skips candidate link",
			results: map[domain.Stage]*domain.ExecutionResult{
				domain.StageRefCompile:  exit(1),
				domain.StageCandCompile: exit(1),
			},
			calls:  []domain.Stage{domain.StageRefCompile, domain.StageCandCompile},
			status: domain.StatusPass,
			reason: domain.ReasonBothReject,
		},
		{
			name: "reference link failure still compiles candidate",
			results: map[domain.Stage]*domain.ExecutionResult{
				domain.StageRefLink:     exit(1),
				domain.StageCandCompile: exit(0),
			},
			calls:  []domain.Stage{domain.StageRefCompile, domain.StageRefLink, domain.StageCandCompile},
			status: domain.StatusFail,
			reason: domain.ReasonWronglyAccepts,
		},
		{
			name: "wrongly rejects",
			results: map[domain.Stage]*domain.ExecutionResult{
				domain.StageRefExecute:  exit(42),
				domain.StageCandCompile: exit(1),
			},
			calls:  []domain.Stage{domain.StageRefCompile, domain.StageRefLink, domain.StageRefExecute, domain.StageCandCompile},
			status: domain.StatusFail,
			reason: domain.ReasonWronglyRejects,
		},
		{
			name: "unlinkable stops before execution",
			results: map[domain.Stage]*domain.ExecutionResult{
				domain.StageCandLink: exit(1),
			},
			calls:  []domain.Stage{domain.StageRefCompile, domain.StageRefLink, domain.StageRefExecute, domain.StageCandCompile, domain.StageCandLink},
			status: domain.StatusFail,
			reason: domain.ReasonUnlinkable,
		},
		{
			name: "reference execute failure is compared, not fatal",
			results: map[domain.Stage]*domain.ExecutionResult{
				domain.StageRefExecute:  exit(139),
				domain.StageCandExecute: exit(139),
			},
			calls:  domain.Stages,
			status: domain.StatusPass,
			reason: domain.ReasonResultsMatch,
		},
		{
			name: "results differ",
			results: map[domain.Stage]*domain.ExecutionResult{
				domain.StageRefExecute:  exit(42),
				domain.StageCandExecute: exit(0),
			},
			calls:  domain.Stages,
			status: domain.StatusFail,
			reason: domain.ReasonResultsDiffer,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := &fakeRunner{results: tt.results}
			v, err := newDriver(runner).Run(context.Background(), job)
			require.NoError(t, err)

			assert.Equal(t, tt.calls, runner.calls)
			assert.Equal(t, tt.status, v.Status)
			assert.Equal(t, tt.reason, v.Reason)
			assert.Equal(t, job.Name, v.Job)
			assert.Equal(t, job.Input.Path, v.Input)
			assert.Len(t, v.Results, len(tt.calls))
		})
	}
}

func TestDriver_EnvironmentErrorIsFatal(t *testing.T) {
	runner := &fakeRunner{failOn: domain.StageCandCompile}
	_, err := newDriver(runner).Run(context.Background(), job)
	assert.ErrorIs(t, err, domain.ErrEnvironment)
	assert.Contains(t, err.Error(), string(domain.StageCandCompile))
}
