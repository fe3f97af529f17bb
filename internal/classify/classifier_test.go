package classify

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"dct/internal/config"
	"dct/internal/domain"
)

func res(status int, stdout string) *domain.ExecutionResult {
	return &domain.ExecutionResult{ExitStatus: status, Stdout: stdout, Output: stdout}
}

func ok() *domain.ExecutionResult   { return res(0, "") }
func fail() *domain.ExecutionResult { return res(1, "error: expected ';'\n") }

func newClassifier(compare string) *Classifier {
	cfg := config.New()
	cfg.Compare = compare
	return NewClassifier(cfg)
}

func TestClassifier_DecisionTable(t *testing.T) {
	c := newClassifier(config.CompareStdout)

	tests := []struct {
		name   string
		ev     Evidence
		status domain.Status
		reason domain.Reason
	}{
		{
			name:   "both reject",
			ev:     Evidence{RefCompile: fail(), CandCompile: fail()},
			status: domain.StatusPass,
			reason: domain.ReasonBothReject,
		},
		{
			name:   "candidate wrongly accepts",
			ev:     Evidence{RefCompile: fail(), CandCompile: ok()},
			status: domain.StatusFail,
			reason: domain.ReasonWronglyAccepts,
		},
		{
			name:   "reference link failure counts as rejection",
			ev:     Evidence{RefCompile: ok(), RefLink: fail(), CandCompile: fail()},
			status: domain.StatusPass,
			reason: domain.ReasonBothReject,
		},
		{
			name:   "candidate wrongly rejects",
			ev:     Evidence{RefCompile: ok(), RefLink: ok(), RefExecute: res(42, ""), CandCompile: fail()},
			status: domain.StatusFail,
			reason: domain.ReasonWronglyRejects,
		},
		{
			name:   "candidate compile timeout is a rejection",
			ev:     Evidence{RefCompile: ok(), RefLink: ok(), RefExecute: res(42, ""), CandCompile: &domain.ExecutionResult{ExitStatus: -1, TimedOut: true}},
			status: domain.StatusFail,
			reason: domain.ReasonWronglyRejects,
		},
		{
			name:   "unlinkable output",
			ev:     Evidence{RefCompile: ok(), RefLink: ok(), RefExecute: res(42, ""), CandCompile: ok(), CandLink: fail()},
			status: domain.StatusFail,
			reason: domain.ReasonUnlinkable,
		},
		{
			name:   "matching exit status",
			ev:     Evidence{RefCompile: ok(), RefLink: ok(), RefExecute: res(42, ""), CandCompile: ok(), CandLink: ok(), CandExecute: res(42, "")},
			status: domain.StatusPass,
			reason: domain.ReasonResultsMatch,
		},
		{
			name:   "different exit status",
			ev:     Evidence{RefCompile: ok(), RefLink: ok(), RefExecute: res(42, ""), CandCompile: ok(), CandLink: ok(), CandExecute: res(0, "")},
			status: domain.StatusFail,
			reason: domain.ReasonResultsDiffer,
		},
		{
			name:   "different stdout",
			ev:     Evidence{RefCompile: ok(), RefLink: ok(), RefExecute: res(0, "7\n"), CandCompile: ok(), CandLink: ok(), CandExecute: res(0, "8\n")},
			status: domain.StatusFail,
			reason: domain.ReasonResultsDiffer,
		},
		{
			name:   "trailing whitespace differs",
			ev:     Evidence{RefCompile: ok(), RefLink: ok(), RefExecute: res(0, "7\n"), CandCompile: ok(), CandLink: ok(), CandExecute: res(0, "7\n ")},
			status: domain.StatusFail,
			reason: domain.ReasonResultsDiffer,
		},
		{
			name:   "candidate hangs",
			ev:     Evidence{RefCompile: ok(), RefLink: ok(), RefExecute: res(0, ""), CandCompile: ok(), CandLink: ok(), CandExecute: &domain.ExecutionResult{ExitStatus: -1, TimedOut: true}},
			status: domain.StatusFail,
			reason: domain.ReasonResultsDiffer,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := c.Classify(tt.ev)
			assert.Equal(t, tt.status, v.Status)
			assert.Equal(t, tt.reason, v.Reason)
		})
	}
}

func TestClassifier_ShortCircuit(t *testing.T) {
	c := newClassifier(config.CompareStdout)

	_, decided := c.AfterCompile(Evidence{RefCompile: ok(), RefLink: ok(), CandCompile: ok()})
	assert.False(t, decided, "both accept: candidate must still be linked")

	_, decided = c.AfterLink(Evidence{RefCompile: ok(), RefLink: ok(), CandCompile: ok(), CandLink: ok()})
	assert.False(t, decided, "both linked: executables must still be compared")

	v, decided := c.AfterLink(Evidence{RefCompile: fail(), CandCompile: fail()})
	assert.True(t, decided)
	assert.Equal(t, domain.ReasonBothReject, v.Reason)
}

// When the reference rejects, the verdict is PASS iff the candidate also
// rejects, whatever the candidate printed or produced afterwards.
func TestClassifier_ReferenceRejects(t *testing.T) {
	c := newClassifier(config.CompareStdout)

	for _, candStatus := range []int{0, 1, 2, 127, 255} {
		for _, output := range []string{"", "garbage", "42\n"} {
			t.Run(fmt.Sprintf("status %d output %q", candStatus, output), func(t *testing.T) {
				ev := Evidence{
					RefCompile:  fail(),
					CandCompile: res(candStatus, output),
					CandLink:    ok(),
					CandExecute: res(3, output),
				}
				v := c.Classify(ev)
				assert.Equal(t, candStatus != 0, v.Passed())
			})
		}
	}
}

// When both accept, the verdict is PASS iff the execution results are byte-equal.
func TestClassifier_BothAccept(t *testing.T) {
	outputs := []string{"", "1", "1\n", "1\r\n", "1 ", "x"}
	statuses := []int{0, 1, 42}

	for _, compare := range []string{config.CompareStdout, config.CompareCombined} {
		c := newClassifier(compare)
		for _, refOut := range outputs {
			for _, candOut := range outputs {
				for _, refStatus := range statuses {
					for _, candStatus := range statuses {
						ev := Evidence{
							RefCompile: ok(), RefLink: ok(), RefExecute: res(refStatus, refOut),
							CandCompile: ok(), CandLink: ok(), CandExecute: res(candStatus, candOut),
						}
						want := refOut == candOut && refStatus == candStatus
						v := c.Classify(ev)
						assert.Equal(t, want, v.Passed(), "compare=%s ref=(%d,%q) cand=(%d,%q)", compare, refStatus, refOut, candStatus, candOut)
					}
				}
			}
		}
	}
}

func TestClassifier_CompareModes(t *testing.T) {
	ref := &domain.ExecutionResult{Stdout: "5\n", Output: "5\nwarning\n"}
	cand := &domain.ExecutionResult{Stdout: "5\n", Output: "5\n"}

	assert.True(t, newClassifier(config.CompareStdout).SameExecution(ref, cand))
	assert.False(t, newClassifier(config.CompareCombined).SameExecution(ref, cand))
	assert.False(t, newClassifier(config.CompareStdout).SameExecution(ref, nil))
}

func TestClassifier_DifferentSignals(t *testing.T) {
	segv := &domain.ExecutionResult{ExitStatus: 128 + 11, Stdout: "partial\n"}
	fpe := &domain.ExecutionResult{ExitStatus: 128 + 8, Stdout: "partial\n"}

	ev := Evidence{
		RefCompile:  &domain.ExecutionResult{},
		RefLink:     &domain.ExecutionResult{},
		RefExecute:  segv,
		CandCompile: &domain.ExecutionResult{},
		CandLink:    &domain.ExecutionResult{},
		CandExecute: fpe,
	}
	v := newClassifier(config.CompareStdout).Classify(ev)
	assert.Equal(t, domain.StatusFail, v.Status)
	assert.Equal(t, domain.ReasonResultsDiffer, v.Reason)

	ev.CandExecute = &domain.ExecutionResult{ExitStatus: 128 + 11, Stdout: "partial\n"}
	assert.True(t, newClassifier(config.CompareStdout).Classify(ev).Passed())
}
