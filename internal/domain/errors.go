package domain

import "errors"

// Harness-fatal error classes. Test-case outcomes are never reported as errors.
var (
	// ErrInput reports a missing, unreadable or misnamed input path
	ErrInput = errors.New("input error")
	// ErrScopeViolation reports an input located inside the output root
	ErrScopeViolation = errors.New("scope violation")
	// ErrEnvironment reports a toolchain that cannot be found or spawned
	ErrEnvironment = errors.New("environment error")
	// ErrWorkspaceCollision reports two inputs mapping to the same workspace name
	ErrWorkspaceCollision = errors.New("workspace collision")
	// ErrTestsFailed is returned by the run command when at least one job failed
	ErrTestsFailed = errors.New("one or more test-cases failed")
)
