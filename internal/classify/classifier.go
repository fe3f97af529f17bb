// Package classify decides the verdict of a job from the captured results of
// its stages. Every function is pure so the decision table can be tested exhaustively.
package classify

import (
	"dct/internal/config"
	"dct/internal/domain"
)

// Evidence holds the results captured for one job. A nil entry means the
// stage was not attempted.
type Evidence struct {
	RefCompile  *domain.ExecutionResult
	RefLink     *domain.ExecutionResult
	RefExecute  *domain.ExecutionResult
	CandCompile *domain.ExecutionResult
	CandLink    *domain.ExecutionResult
	CandExecute *domain.ExecutionResult
}

// Classifier applies the decision table
type Classifier struct {
	compare string
}

// NewClassifier creates a new Classifier using the configured compare mode
func NewClassifier(cfg *config.Config) *Classifier {
	return &Classifier{compare: cfg.Compare}
}

// ReferenceAccepts reports whether the reference toolchain produced an
// executable, i.e. both its compile and link stages succeeded
func ReferenceAccepts(ev Evidence) bool {
	return ev.RefCompile.Succeeded() && ev.RefLink.Succeeded()
}

// AfterCompile applies the rules that only need the compile statuses.
// It reports false when the candidate must still be linked and executed.
func (c *Classifier) AfterCompile(ev Evidence) (domain.Verdict, bool) {
	refOK := ReferenceAccepts(ev)
	candOK := ev.CandCompile.Succeeded()

	switch {
	case !refOK && !candOK:
		return domain.Pass(domain.ReasonBothReject), true
	case !refOK && candOK:
		return domain.Fail(domain.ReasonWronglyAccepts), true
	case refOK && !candOK:
		return domain.Fail(domain.ReasonWronglyRejects), true
	}
	return domain.Verdict{}, false
}

// AfterLink applies the link rule once both toolchains accepted the program
func (c *Classifier) AfterLink(ev Evidence) (domain.Verdict, bool) {
	if v, ok := c.AfterCompile(ev); ok {
		return v, true
	}
	if !ev.CandLink.Succeeded() {
		return domain.Fail(domain.ReasonUnlinkable), true
	}
	return domain.Verdict{}, false
}

// Classify applies the full decision table. The evidence must contain
// execute results whenever both toolchains linked successfully.
func (c *Classifier) Classify(ev Evidence) domain.Verdict {
	if v, ok := c.AfterLink(ev); ok {
		return v
	}
	if !c.SameExecution(ev.RefExecute, ev.CandExecute) {
		return domain.Fail(domain.ReasonResultsDiffer)
	}
	return domain.Pass(domain.ReasonResultsMatch)
}

// SameExecution compares two execution results byte for byte. In stdout mode
// the tuple (timed out, exit status, stdout) is compared; in combined mode the
// merged output replaces stdout.
func (c *Classifier) SameExecution(ref, cand *domain.ExecutionResult) bool {
	if ref == nil || cand == nil {
		return ref == cand
	}
	if ref.TimedOut != cand.TimedOut || ref.ExitStatus != cand.ExitStatus {
		return false
	}
	if c.compare == config.CompareCombined {
		return ref.Output == cand.Output
	}
	return ref.Stdout == cand.Stdout
}
