package parser

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"dct/internal/domain"
)

var (
	exitStatusLine = regexp.MustCompile(`(?m)^exit status: (-?\d+)\s*$`)
	timedOutLine   = regexp.MustCompile(`(?m)^timed out after \S+\s*$`)
)

// LogParser parses the stage logs written by the toolchain runner
type LogParser struct{}

// NewLogParser creates a new LogParser
func NewLogParser() *LogParser {
	return &LogParser{}
}

// ParseLog splits a stage log into the captured output and its exit status.
// The log layout is: output, a newline, an optional timeout line, then
// "exit status: N".
func (p *LogParser) ParseLog(content string) (*domain.ExecutionResult, error) {
	locs := exitStatusLine.FindAllStringSubmatchIndex(content, -1)
	if len(locs) == 0 {
		return nil, fmt.Errorf("no exit status line found")
	}
	last := locs[len(locs)-1]

	status, err := strconv.Atoi(content[last[2]:last[3]])
	if err != nil {
		return nil, fmt.Errorf("invalid exit status: %w", err)
	}

	body := content[:last[0]]
	result := &domain.ExecutionResult{ExitStatus: status}

	if loc := timedOutLine.FindStringIndex(body); loc != nil && strings.TrimSpace(body[loc[1]:]) == "" {
		result.TimedOut = true
		body = body[:loc[0]]
	}

	result.Output = strings.TrimSuffix(body, "\n")
	return result, nil
}

// ParseLogFile reads and parses the stage log at path
func (p *LogParser) ParseLogFile(path string) (*domain.ExecutionResult, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading log %s: %w", path, err)
	}
	result, err := p.ParseLog(string(content))
	if err != nil {
		return nil, fmt.Errorf("error parsing log %s: %w", path, err)
	}
	result.LogPath = path
	return result, nil
}
