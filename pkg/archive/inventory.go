package archive

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// ListSegments returns the absolute path of every regular file in dir whose
// base name matches the glob pattern, in ascending lexicographic order.
// Symbolic links are excluded: a segment already replaced by a link
// placeholder no longer lives on the primary volume. The listing is
// non-recursive and has no side effects.
func ListSegments(dir, pattern string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading segment directory %q: %w", dir, err)
	}

	var segments []string
	for _, entry := range entries {
		matched, err := filepath.Match(pattern, entry.Name())
		if err != nil {
			return nil, fmt.Errorf("invalid segment pattern %q: %w", pattern, err)
		}
		if !matched {
			continue
		}
		if !entry.Type().IsRegular() {
			continue
		}

		abs, err := filepath.Abs(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("resolving segment path %q: %w", entry.Name(), err)
		}
		segments = append(segments, abs)
	}

	sort.Strings(segments)
	return segments, nil
}
