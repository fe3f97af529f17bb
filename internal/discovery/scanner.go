package discovery

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"dct/internal/domain"
)

// Scanner turns command-line paths into the set of source files to test
type Scanner struct {
	suffix   string
	skipDirs map[string]bool
}

// NewScanner creates a new Scanner for files ending in suffix.
// skipDirs are absolute directory paths never descended into (e.g. the output root).
func NewScanner(suffix string, skipDirs []string) *Scanner {
	skipMap := make(map[string]bool)
	for _, dir := range skipDirs {
		if abs, err := filepath.Abs(dir); err == nil {
			skipMap[abs] = true
		}
	}
	return &Scanner{suffix: suffix, skipDirs: skipMap}
}

// Scan resolves each path: a file must carry the source suffix, a directory is
// walked for every file that does. The result is sorted and free of duplicates.
func (s *Scanner) Scan(paths []string) ([]domain.InputFile, error) {
	seen := make(map[string]bool)
	var inputs []domain.InputFile

	add := func(path string) error {
		abs, err := filepath.Abs(path)
		if err != nil {
			return fmt.Errorf("%w: cannot resolve %s: %v", domain.ErrInput, path, err)
		}
		if seen[abs] {
			return nil
		}
		seen[abs] = true
		inputs = append(inputs, domain.InputFile{Path: path, AbsPath: abs})
		return nil
	}

	for _, path := range paths {
		// Collapse redundant separators and dot segments
		path = filepath.Clean(path)
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("%w: cannot read input path `%s'", domain.ErrInput, path)
		}

		switch {
		case info.Mode().IsRegular():
			if !strings.HasSuffix(path, s.suffix) {
				return nil, fmt.Errorf("%w: incorrect filename suffix (should be '%s'): %s", domain.ErrInput, s.suffix, path)
			}
			if err := add(path); err != nil {
				return nil, err
			}
		case info.IsDir():
			files, err := s.walk(path)
			if err != nil {
				return nil, err
			}
			for _, file := range files {
				if err := add(file); err != nil {
					return nil, err
				}
			}
		default:
			return nil, fmt.Errorf("%w: cannot read input path `%s'", domain.ErrInput, path)
		}
	}

	if len(inputs) == 0 {
		return nil, fmt.Errorf("%w: found no test-case in: %s", domain.ErrInput, strings.Join(paths, " "))
	}

	sort.Slice(inputs, func(i, j int) bool {
		return inputs[i].Path < inputs[j].Path
	})
	return inputs, nil
}

// walk finds all source files under root
func (s *Scanner) walk(root string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("%w: %v", domain.ErrInput, err)
		}

		if d.IsDir() {
			name := d.Name()
			// Skip hidden directories (starting with .)
			if path != root && strings.HasPrefix(name, ".") && name != "." && name != ".." {
				return filepath.SkipDir
			}
			if abs, err := filepath.Abs(path); err == nil && s.skipDirs[abs] {
				return filepath.SkipDir
			}
			return nil
		}

		if d.Type().IsRegular() && strings.HasSuffix(d.Name(), s.suffix) {
			files = append(files, path)
		}
		return nil
	})

	return files, err
}

// CheckReadable opens every input once so that unreadable files abort the
// campaign before any job runs
func CheckReadable(inputs []domain.InputFile) error {
	for _, input := range inputs {
		f, err := os.Open(input.Path)
		if err != nil {
			return fmt.Errorf("%w: unable to read file %s: %v", domain.ErrInput, input.Path, err)
		}
		f.Close()
	}
	return nil
}
