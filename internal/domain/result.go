package domain

import "time"

// Stage identifies one step of the compile, link, execute protocol
type Stage string

const (
	StageRefCompile  Stage = "ref-compile"
	StageRefLink     Stage = "ref-link"
	StageRefExecute  Stage = "ref-execute"
	StageCandCompile Stage = "cand-compile"
	StageCandLink    Stage = "cand-link"
	StageCandExecute Stage = "cand-execute"
)

// Stages lists every stage in protocol order
var Stages = []Stage{
	StageRefCompile,
	StageRefLink,
	StageRefExecute,
	StageCandCompile,
	StageCandLink,
	StageCandExecute,
}

// LogName returns the name of the log artifact written for the stage
func (s Stage) LogName() string {
	return string(s) + ".txt"
}

// ExecutionResult is the outcome of one external command
type ExecutionResult struct {
	Argv       []string      `json:"argv"`
	ExitStatus int           `json:"exit_status"`
	Output     string        `json:"-"` // Merged stdout and stderr
	Stdout     string        `json:"-"` // Stdout alone
	TimedOut   bool          `json:"timed_out,omitempty"`
	LogPath    string        `json:"log_path,omitempty"`
	Duration   time.Duration `json:"duration"`
}

// Succeeded reports whether the command exited with status 0
func (r *ExecutionResult) Succeeded() bool {
	return r != nil && !r.TimedOut && r.ExitStatus == 0
}

// CampaignMeta contains metadata about a campaign run
type CampaignMeta struct {
	RunID           string  `json:"run_id"`
	TotalJobs       int     `json:"total_jobs"`
	PassedJobs      int     `json:"passed_jobs"`
	FailedJobs      int     `json:"failed_jobs"`
	SkippedJobs     int     `json:"skipped_jobs"`
	Duration        string  `json:"duration"`
	DurationSeconds float64 `json:"duration_seconds"`
	Workers         int     `json:"workers"`
	Timestamp       string  `json:"timestamp"`
}

// CampaignReport is the persisted outcome of a campaign
type CampaignReport struct {
	Meta     CampaignMeta `json:"meta"`
	Verdicts []Verdict    `json:"verdicts"`
}

// Failures returns the failed verdicts in report order
func (r *CampaignReport) Failures() []Verdict {
	var failed []Verdict
	for _, v := range r.Verdicts {
		if !v.Passed() {
			failed = append(failed, v)
		}
	}
	return failed
}
