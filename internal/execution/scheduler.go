package execution

import "dct/internal/domain"

// Scheduler distributes jobs across shards
type Scheduler interface {
	Schedule(jobs []domain.Job, shardCount int) [][]domain.Job
}

// RoundRobinScheduler distributes jobs evenly across shards
type RoundRobinScheduler struct{}

// NewRoundRobinScheduler creates a new RoundRobinScheduler
func NewRoundRobinScheduler() *RoundRobinScheduler {
	return &RoundRobinScheduler{}
}

// Schedule distributes jobs evenly across shards using round-robin.
// Given the same sorted job list every host computes the same split.
func (s *RoundRobinScheduler) Schedule(jobs []domain.Job, shardCount int) [][]domain.Job {
	if shardCount <= 0 {
		shardCount = 1
	}

	distribution := make([][]domain.Job, shardCount)
	for i := range distribution {
		distribution[i] = make([]domain.Job, 0)
	}

	for i, job := range jobs {
		shard := i % shardCount
		distribution[shard] = append(distribution[shard], job)
	}

	return distribution
}
