package devices

import (
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

var versionPattern = regexp.MustCompile(`\d+`)

// Resolve expands a device list pattern such as deviceList_v*.csv to the
// match with the highest version number in its file name, so the newest
// version wins. Names without a number, or with equal numbers, fall back to
// lexical order. A pattern without matches is returned unchanged and later
// treated as missing.
func Resolve(pattern string) (string, error) {
	matches, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return "", fmt.Errorf("invalid device list pattern %q: %w", pattern, err)
	}
	if len(matches) == 0 {
		return pattern, nil
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return versionLess(matches[i], matches[j])
	})
	return matches[len(matches)-1], nil
}

func versionLess(a, b string) bool {
	va, vb := version(a), version(b)
	if va != "" && vb != "" && va != vb {
		if len(va) != len(vb) {
			return len(va) < len(vb)
		}
		return va < vb
	}
	return a < b
}

// version returns the last digit run of the base name without leading zeros
func version(path string) string {
	runs := versionPattern.FindAllString(filepath.Base(path), -1)
	if len(runs) == 0 {
		return ""
	}
	v := strings.TrimLeft(runs[len(runs)-1], "0")
	if v == "" {
		return "0"
	}
	return v
}
