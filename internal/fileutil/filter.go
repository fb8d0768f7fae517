package fileutil

import (
	"path/filepath"
	"strings"
)

// PathFilter decides which files are handed to the linter.
// A PathFilter is immutable after construction and safe for concurrent use.
type PathFilter struct {
	suffix       string
	excludeFiles []string
	excludeDirs  map[string]bool
}

// NewPathFilter creates a PathFilter that accepts files ending in suffix,
// rejecting filenames that end with any of excludeFiles and any path with a
// segment equal to one of excludeDirs.
func NewPathFilter(suffix string, excludeFiles, excludeDirs []string) *PathFilter {
	dirs := make(map[string]bool, len(excludeDirs))
	for _, d := range excludeDirs {
		if d != "" {
			dirs[d] = true
		}
	}

	files := make([]string, 0, len(excludeFiles))
	for _, f := range excludeFiles {
		if f != "" {
			files = append(files, f)
		}
	}

	return &PathFilter{
		suffix:       suffix,
		excludeFiles: files,
		excludeDirs:  dirs,
	}
}

// Eligible reports whether path should be linted.
func (f *PathFilter) Eligible(path string) bool {
	name := filepath.Base(path)
	if !strings.HasSuffix(name, f.suffix) {
		return false
	}

	for _, excluded := range f.excludeFiles {
		if strings.HasSuffix(name, excluded) {
			return false
		}
	}

	return !f.inExcludedDir(path)
}

// ExcludesDir reports whether a directory with the given name is pruned.
func (f *PathFilter) ExcludesDir(name string) bool {
	return f.excludeDirs[name]
}

func (f *PathFilter) inExcludedDir(path string) bool {
	if len(f.excludeDirs) == 0 {
		return false
	}
	for _, segment := range strings.Split(filepath.ToSlash(path), "/") {
		if f.excludeDirs[segment] {
			return true
		}
	}
	return false
}
