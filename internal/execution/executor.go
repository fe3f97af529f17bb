package execution

import (
	"context"
	"time"

	"dct/internal/domain"
)

// Executor runs every job of a campaign and returns the verdicts in job order
type Executor interface {
	Execute(ctx context.Context, jobs []domain.Job) ([]domain.Verdict, time.Duration, error)
}

// JobDriver produces the verdict of a single job
type JobDriver interface {
	Run(ctx context.Context, job domain.Job) (domain.Verdict, error)
}
