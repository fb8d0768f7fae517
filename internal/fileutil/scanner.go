package fileutil

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// ScanResult contains the results of a directory scan
type ScanResult struct {
	// Files contains the eligible file paths, joined onto the scan root
	Files []string
	// Errors contains any errors encountered during scanning
	Errors []error
}

// Walk recursively scans root and returns every file the filter accepts.
// The filter sees paths relative to root, so a root that itself lives under
// an excluded directory name is still scanned.
// Unreadable entries are recorded in ScanResult.Errors and the walk continues.
func Walk(root string, filter *PathFilter) (*ScanResult, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("failed to access directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("path is not a directory: %s", root)
	}

	result := &ScanResult{
		Files:  make([]string, 0),
		Errors: make([]error, 0),
	}

	err = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("error accessing %s: %w", path, err))
			return nil // Continue walking
		}

		if path == root {
			return nil
		}

		if d.IsDir() {
			if filter.ExcludesDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("failed to resolve path %s: %w", path, err))
			return nil
		}

		if filter.Eligible(rel) {
			result.Files = append(result.Files, path)
		}
		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to walk directory: %w", err)
	}

	// WalkDir is already lexical per directory; sorting keeps the order
	// independent of how callers joined the root
	sort.Strings(result.Files)

	return result, nil
}
