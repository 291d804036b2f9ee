// ABOUTME: Resolves a manifest's include globs against a package root filesystem.
// ABOUTME: Every pattern must match at least one regular file; misses are reported together.
package manifest

import (
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// MissingIncludeError reports include patterns that matched no file. It is
// the packaging failure for a declared path that does not exist.
type MissingIncludeError struct {
	Patterns []string
}

func (e *MissingIncludeError) Error() string {
	return fmt.Sprintf("include patterns matched no files: %s", strings.Join(e.Patterns, ", "))
}

// ResolveIncludes expands every include pattern of m against fsys and
// returns the sorted, de-duplicated list of matched regular files.
// Directories matched by a pattern do not count as matches.
func ResolveIncludes(fsys fs.FS, m *Manifest) ([]string, error) {
	seen := make(map[string]bool)
	var files []string
	var missing []string

	for _, pattern := range m.Include {
		matches, err := doublestar.Glob(fsys, pattern)
		if err != nil {
			return nil, fmt.Errorf("include %q: %w", pattern, err)
		}

		matched := 0
		for _, name := range matches {
			info, err := fs.Stat(fsys, name)
			if err != nil {
				return nil, fmt.Errorf("stat %s: %w", name, err)
			}
			if !info.Mode().IsRegular() {
				continue
			}
			matched++
			if !seen[name] {
				seen[name] = true
				files = append(files, name)
			}
		}
		if matched == 0 {
			missing = append(missing, pattern)
		}
	}

	if len(missing) > 0 {
		return nil, &MissingIncludeError{Patterns: missing}
	}

	sort.Strings(files)
	return files, nil
}

// CheckFontFiles verifies that every declared font file exists in fsys.
// A font file outside the include set is a lint error; this check covers
// the filesystem side.
func CheckFontFiles(fsys fs.FS, m *Manifest) error {
	var missing []string
	for _, f := range m.Fonts {
		info, err := fs.Stat(fsys, f.File)
		if err != nil || !info.Mode().IsRegular() {
			missing = append(missing, f.File)
		}
	}
	if len(missing) > 0 {
		return &MissingIncludeError{Patterns: missing}
	}
	return nil
}
