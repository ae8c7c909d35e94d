package source

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

var (
	// ErrNoFiles is returned when no monthly log file is found
	ErrNoFiles = errors.New("no valid txt files found in the format YYYYMM.txt")
	// ErrNoSelection is returned when the operator selection is empty
	ErrNoSelection = errors.New("no valid files selected")
	// ErrCanceled is returned when the operator declines to analyze all files
	ErrCanceled = errors.New("analysis canceled")
)

var monthFilePattern = regexp.MustCompile(`^(\d{6})\.txt$`)

// MonthFile is a monthly syslog dump
type MonthFile struct {
	Path     string
	MonthKey string
}

// Name returns the base file name
func (f MonthFile) Name() string {
	return filepath.Base(f.Path)
}

// MonthKeyOf returns the 6-digit month key of a file name
func MonthKeyOf(name string) (string, bool) {
	m := monthFilePattern.FindStringSubmatch(filepath.Base(name))
	if m == nil {
		return "", false
	}
	return m[1], true
}

// Discover lists the monthly files under dir matching pattern, in name order.
// Only names of the exact form YYYYMM.txt are kept.
func Discover(dir, pattern string) ([]MonthFile, error) {
	if pattern == "" {
		pattern = "*.txt"
	}

	matches, err := doublestar.Glob(os.DirFS(dir), pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to expand pattern %q: %w", pattern, err)
	}

	var files []MonthFile
	for _, m := range matches {
		key, ok := MonthKeyOf(m)
		if !ok {
			continue
		}
		files = append(files, MonthFile{
			Path:     filepath.Join(dir, filepath.FromSlash(m)),
			MonthKey: key,
		})
	}
	if len(files) == 0 {
		return nil, ErrNoFiles
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}

// ParseSelection turns a comma separated list of 1-based ordinals into
// indexes into a list of n files. Non-numeric and out-of-range entries are
// dropped. Order and repeats are kept.
func ParseSelection(input string, n int) []int {
	var idx []int
	for _, part := range strings.Split(input, ",") {
		part = strings.TrimSpace(part)
		if part == "" || !isDigits(part) {
			continue
		}
		i, err := strconv.Atoi(part)
		if err != nil || i < 1 || i > n {
			continue
		}
		idx = append(idx, i-1)
	}
	return idx
}

// Select picks files by index. A file selected twice is counted once.
func Select(files []MonthFile, idx []int) ([]MonthFile, error) {
	selected := make([]MonthFile, 0, len(idx))
	seen := make(map[int]bool, len(idx))
	for _, i := range idx {
		if i < 0 || i >= len(files) || seen[i] {
			continue
		}
		seen[i] = true
		selected = append(selected, files[i])
	}
	if len(selected) == 0 {
		return nil, ErrNoSelection
	}
	return selected, nil
}

// Latest returns the file with the numerically largest month key
func Latest(files []MonthFile) MonthFile {
	var latest MonthFile
	best := -1
	for _, f := range files {
		v, err := strconv.Atoi(f.MonthKey)
		if err != nil {
			continue
		}
		if v > best {
			best = v
			latest = f
		}
	}
	return latest
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
