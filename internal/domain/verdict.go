package domain

// Status is the terminal outcome of a job
type Status string

const (
	StatusPass Status = "PASS"
	StatusFail Status = "FAIL"
)

// Reason explains a verdict
type Reason string

const (
	ReasonBothReject     Reason = "both reject invalid program"
	ReasonWronglyAccepts Reason = "candidate wrongly accepts invalid program"
	ReasonWronglyRejects Reason = "candidate wrongly rejects valid program"
	ReasonUnlinkable     Reason = "candidate produced unlinkable output"
	ReasonResultsDiffer  Reason = "execution results differ"
	ReasonResultsMatch   Reason = "execution results match"
)

// Verdict is the terminal per-job outcome
type Verdict struct {
	Job     string                     `json:"job"`
	Input   string                     `json:"input"`
	Dir     string                     `json:"workspace"`
	Status  Status                     `json:"status"`
	Reason  Reason                     `json:"reason"`
	Results map[Stage]*ExecutionResult `json:"results,omitempty"`
}

// Passed reports whether the verdict is PASS
func (v Verdict) Passed() bool {
	return v.Status == StatusPass
}

// Pass builds a PASS verdict
func Pass(reason Reason) Verdict {
	return Verdict{Status: StatusPass, Reason: reason}
}

// Fail builds a FAIL verdict
func Fail(reason Reason) Verdict {
	return Verdict{Status: StatusFail, Reason: reason}
}
