package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/term"
)

// ProgressBar shows campaign progress on stderr
type ProgressBar struct {
	bar *progressbar.ProgressBar
}

// ShowProgress reports whether a progress bar should be drawn: stderr must be
// a terminal and no verbose output may interleave with it
func ShowProgress(verbose int) bool {
	return verbose == 0 && term.IsTerminal(int(os.Stderr.Fd()))
}

// NewProgressBar creates a new progress bar for count jobs
func NewProgressBar(count int) *ProgressBar {
	return newProgressBar(count, os.Stderr)
}

func newProgressBar(count int, w io.Writer) *ProgressBar {
	bar := progressbar.NewOptions(count,
		progressbar.OptionSetDescription(describe(0, 0)),
		progressbar.OptionSetWidth(50),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        color.CyanString("█"),
			SaucerHead:    color.CyanString("█"),
			SaucerPadding: "░",
			BarStart:      "│",
			BarEnd:        "│",
		}),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWriter(w),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(w, "\n")
		}),
		progressbar.OptionSetRenderBlankState(true),
	)

	return &ProgressBar{bar: bar}
}

func describe(passed, failed int) string {
	return color.CyanString("Running test-cases: ") +
		color.GreenString("[pass: %d", passed) +
		" | " +
		color.RedString("fail: %d]", failed)
}

// Update sets the bar to passed+failed completed jobs
func (p *ProgressBar) Update(passed, failed int) {
	if p == nil {
		return
	}
	p.bar.Describe(describe(passed, failed))
	_ = p.bar.Set(passed + failed)
}

// Finish completes the progress bar
func (p *ProgressBar) Finish() {
	if p == nil {
		return
	}
	_ = p.bar.Finish()
}
