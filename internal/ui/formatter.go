package ui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"

	"dct/internal/config"
	"dct/internal/domain"
)

// Formatter prints verdicts, summaries and listings
type Formatter struct {
	config *config.Config
	out    io.Writer
}

// NewFormatter creates a new Formatter writing to out
func NewFormatter(cfg *config.Config, out io.Writer) *Formatter {
	return &Formatter{
		config: cfg,
		out:    out,
	}
}

// PrintVerdicts prints one line per verdict, in order
func (f *Formatter) PrintVerdicts(verdicts []domain.Verdict) {
	for _, v := range verdicts {
		f.PrintVerdict(v)
	}
}

// PrintVerdict prints the verdict line of a job. With verbose output the
// logs explaining a failure follow the line.
func (f *Formatter) PrintVerdict(v domain.Verdict) {
	if v.Passed() {
		color.New(color.FgGreen).Fprint(f.out, "PASS")
	} else {
		color.New(color.FgRed, color.Bold).Fprint(f.out, "FAIL")
	}
	fmt.Fprintf(f.out, " %s: %s\n", v.Job, v.Reason)

	verbose := f.config.Flags.Verbose
	if verbose >= 2 {
		f.dump("reference execution", v.Results[domain.StageRefExecute])
	}
	if verbose < 1 || v.Passed() {
		return
	}

	switch v.Reason {
	case domain.ReasonWronglyRejects:
		f.dump("candidate compile", v.Results[domain.StageCandCompile])
	case domain.ReasonUnlinkable:
		f.dump("candidate link", v.Results[domain.StageCandLink])
	case domain.ReasonResultsDiffer:
		if verbose < 2 {
			f.dump("reference execution", v.Results[domain.StageRefExecute])
		}
		f.dump("candidate execution", v.Results[domain.StageCandExecute])
	}
}

// dump prints a stage result in the same layout as its log file
func (f *Formatter) dump(label string, result *domain.ExecutionResult) {
	if result == nil {
		return
	}
	color.New(color.FgCyan).Fprintf(f.out, "%s:\n", label)
	if result.Output != "" {
		fmt.Fprint(f.out, result.Output)
		if !strings.HasSuffix(result.Output, "\n") {
			fmt.Fprintln(f.out)
		}
	}
	if result.TimedOut {
		fmt.Fprintf(f.out, "timed out after %s\n", f.config.Timeout)
	}
	fmt.Fprintf(f.out, "exit status: %d\n", result.ExitStatus)
}

// PrintSummary prints the campaign statistics table
func (f *Formatter) PrintSummary(report domain.CampaignReport) {
	meta := report.Meta

	fmt.Fprintln(f.out)
	cyan := color.New(color.FgCyan)
	cyan.Fprintln(f.out, "╔═══════════════════════════════════════════════════════════════╗")
	cyan.Fprintln(f.out, "║                      Campaign Statistics                      ║")
	cyan.Fprintln(f.out, "╚═══════════════════════════════════════════════════════════════╝")

	sep := "├─────────────────────────────────┼─────────────────────────────┤"
	fmt.Fprintln(f.out, "┌─────────────────────────────────┬─────────────────────────────┐")
	f.row("Test-cases", color.FgWhite, humanize.Comma(int64(meta.TotalJobs)))
	fmt.Fprintln(f.out, sep)
	f.row("Passed", color.FgGreen, humanize.Comma(int64(meta.PassedJobs)))
	fmt.Fprintln(f.out, sep)
	f.row("Failed", color.FgRed, humanize.Comma(int64(meta.FailedJobs)))
	if meta.SkippedJobs > 0 {
		fmt.Fprintln(f.out, sep)
		f.row("Not run", color.FgYellow, humanize.Comma(int64(meta.SkippedJobs)))
	}
	fmt.Fprintln(f.out, sep)
	f.row("Duration", color.FgWhite, fmt.Sprintf("%.2fs", meta.DurationSeconds))
	fmt.Fprintln(f.out, sep)
	f.row("Workers", color.FgWhite, fmt.Sprintf("%d", meta.Workers))
	fmt.Fprintln(f.out, sep)
	f.row("Run", color.FgWhite, meta.RunID)
	fmt.Fprintln(f.out, "└─────────────────────────────────┴─────────────────────────────┘")

	fmt.Fprintln(f.out)
	if meta.FailedJobs == 0 && meta.SkippedJobs == 0 {
		color.New(color.FgGreen).Fprintln(f.out, "✓ All test-cases passed!")
		return
	}
	color.New(color.FgRed).Fprintf(f.out, "✗ %d of %d test-case(s) failed\n", meta.FailedJobs, meta.TotalJobs)
}

func (f *Formatter) row(label string, attr color.Attribute, value string) {
	fmt.Fprintf(f.out, "│ %-31s │ ", label)
	color.New(attr).Fprintf(f.out, "%-27s", value)
	fmt.Fprintln(f.out, " │")
}

// PrintList prints each job's input path and workspace name as a tree
func (f *Formatter) PrintList(jobs []domain.Job) {
	color.New(color.FgGreen).Fprintf(f.out, "Found %d test-case(s):\n", len(jobs))
	for i, job := range jobs {
		branch := "├── "
		if i == len(jobs)-1 {
			branch = "└── "
		}
		fmt.Fprint(f.out, branch)
		color.New(color.FgCyan).Fprint(f.out, job.Input.Path)
		fmt.Fprintf(f.out, " → %s\n", job.Name)
	}
}

// PrintReportAge prints when a stored report was produced
func (f *Formatter) PrintReportAge(report *domain.CampaignReport) {
	ts, err := time.Parse(time.RFC3339, report.Meta.Timestamp)
	if err != nil {
		return
	}
	fmt.Fprintf(f.out, "Report %s from %s\n", report.Meta.RunID, humanize.Time(ts))
}
