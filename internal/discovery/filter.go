package discovery

import (
	"path/filepath"
	"strings"

	"dct/internal/domain"
)

// Filter filters input files by name pattern
type Filter struct{}

// NewFilter creates a new Filter
func NewFilter() *Filter {
	return &Filter{}
}

// FilterByName filters input files by base name using wildcard matching.
// Supports patterns like "*loop.c" or "*ptr*"; a pattern without wildcards
// matches as a substring.
func (f *Filter) FilterByName(inputs []domain.InputFile, pattern string) []domain.InputFile {
	if pattern == "" {
		return inputs
	}

	var filtered []domain.InputFile
	for _, input := range inputs {
		if matchName(filepath.Base(input.Path), pattern) {
			filtered = append(filtered, input)
		}
	}
	return filtered
}

func matchName(name, pattern string) bool {
	if matched, err := filepath.Match(pattern, name); err == nil && matched {
		return true
	}

	if !strings.ContainsAny(pattern, "*?") {
		return strings.Contains(name, pattern)
	}
	if strings.Contains(pattern, "?") {
		return false
	}

	// Fall back to ordered substring matching for patterns like "*ptr*"
	rest := name
	nonEmpty := false
	for _, part := range strings.Split(pattern, "*") {
		if part == "" {
			continue
		}
		nonEmpty = true
		idx := strings.Index(rest, part)
		if idx < 0 {
			return false
		}
		rest = rest[idx+len(part):]
	}
	return nonEmpty
}
