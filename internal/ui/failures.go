package ui

import (
	"fmt"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"dct/internal/domain"
	"dct/internal/parser"
)

// maxLogLines caps how much of a stage log the viewer shows
const maxLogLines = 200

// FailureViewer displays failed test-cases in an interactive TUI
type FailureViewer struct {
	parser parser.Parser
}

// NewFailureViewer creates a new FailureViewer reading stage logs with p
func NewFailureViewer(p parser.Parser) *FailureViewer {
	return &FailureViewer{parser: p}
}

// View displays the failures of a report
func (fv *FailureViewer) View(report *domain.CampaignReport) error {
	failures := report.Failures()
	if len(failures) == 0 {
		color.Green("✓ No failed test-cases found!")
		return nil
	}

	app := tview.NewApplication()

	list := tview.NewList().
		ShowSecondaryText(false).
		SetHighlightFullLine(true)
	for i, v := range failures {
		list.AddItem(fmt.Sprintf("[yellow]%d.[white] %s", i+1, tview.Escape(v.Job)), "", 0, nil)
	}
	list.SetMainTextColor(tview.Styles.PrimaryTextColor).
		SetSelectedTextColor(tcell.ColorWhite).
		SetSelectedBackgroundColor(tcell.ColorDarkCyan)

	statsView := tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(false)

	detailsView := tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(true).
		SetWordWrap(true)

	detailsContainer := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(detailsView, 0, 1, false).
		AddItem(tview.NewBox(), 2, 0, false)

	rightSide := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(statsView, 3, 0, false).
		AddItem(detailsContainer, 0, 1, false)

	flex := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(list, 0, 1, true).
		AddItem(rightSide, 0, 2, false)

	headerView := tview.NewTextView().
		SetTextAlign(tview.AlignCenter).
		SetDynamicColors(true).
		SetText(fmt.Sprintf(" Failed test-cases (%d of %d) | Use ↑↓ to navigate, → to view logs, ← to go back, Ctrl+C to exit ",
			len(failures), report.Meta.TotalJobs))

	updateDetails := func() {
		index := list.GetCurrentItem()
		if index < 0 || index >= len(failures) {
			return
		}
		v := failures[index]
		statsView.SetText(fmt.Sprintf("[cyan]input:[white] [yellow]%s[white]\n[cyan]workspace:[white] %s",
			tview.Escape(v.Input), tview.Escape(v.Dir)))
		detailsView.SetText(fv.formatFailureDetails(v))
		detailsView.ScrollToBeginning()
	}

	list.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyEnter, tcell.KeyRight:
			app.SetFocus(detailsView)
			return nil
		case tcell.KeyCtrlC:
			app.Stop()
			return nil
		}
		return event
	})

	detailsView.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyLeft, tcell.KeyEsc:
			app.SetFocus(list)
			return nil
		case tcell.KeyCtrlC:
			app.Stop()
			return nil
		}
		return event
	})

	list.SetChangedFunc(func(int, string, string, rune) {
		updateDetails()
	})
	updateDetails()

	mainLayout := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(headerView, 1, 0, false).
		AddItem(tview.NewBox(), 1, 0, false).
		AddItem(flex, 0, 1, true)

	if err := app.SetRoot(mainLayout, true).SetFocus(list).Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

// formatFailureDetails renders the reason and every stage log of a verdict
// using tview color tags
func (fv *FailureViewer) formatFailureDetails(v domain.Verdict) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[red]✗ %s[white]\n\n", tview.Escape(string(v.Reason)))

	for _, stage := range domain.Stages {
		result, ok := v.Results[stage]
		if !ok || result == nil || result.LogPath == "" {
			continue
		}

		size := ""
		if info, err := os.Stat(result.LogPath); err == nil {
			size = " (" + humanize.Bytes(uint64(info.Size())) + ")"
		}
		fmt.Fprintf(&b, "[cyan]%s[white]%s\n", stage, size)
		if len(result.Argv) > 0 {
			fmt.Fprintf(&b, "[gray]$ %s[white]\n", tview.Escape(strings.Join(result.Argv, " ")))
		}

		parsed, err := fv.parser.ParseLogFile(result.LogPath)
		if err != nil {
			fmt.Fprintf(&b, "[red]%s[white]\n\n", tview.Escape(err.Error()))
			continue
		}

		lines := strings.Split(parsed.Output, "\n")
		omitted := 0
		if len(lines) > maxLogLines {
			omitted = len(lines) - maxLogLines
			lines = lines[:maxLogLines]
		}
		for _, line := range lines {
			b.WriteString(tview.Escape(line) + "\n")
		}
		if omitted > 0 {
			fmt.Fprintf(&b, "[gray]... and %d more lines[white]\n", omitted)
		}
		if parsed.TimedOut {
			b.WriteString("[yellow]timed out[white]\n")
		}
		status := "[green]"
		if parsed.ExitStatus != 0 {
			status = "[red]"
		}
		fmt.Fprintf(&b, "%sexit status: %d[white]\n\n", status, parsed.ExitStatus)
	}
	return b.String()
}
