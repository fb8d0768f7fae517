// Package fileutil discovers the source files a sweep should lint.
//
// PathFilter holds the static eligibility rules: a required filename suffix,
// a list of excluded filename suffixes and a set of excluded directory names.
// Walk applies a PathFilter to every file under a root directory.
//
// # Eligibility
//
// A path is eligible when all of the following hold:
//   - its filename ends with the configured suffix (".go" by default)
//   - its filename does not end with any excluded filename
//   - no segment of the path equals an excluded directory name
//
// # Walking
//
// Walk descends every subdirectory, hidden ones included, and prunes excluded
// directories without entering them. Symlinked directories are not followed.
// Entries that cannot be read are collected in ScanResult.Errors instead of
// aborting the walk, and the returned file list is sorted.
//
//	filter := fileutil.NewPathFilter(".go", []string{"bigquery.go"}, []string{"vendor"})
//	result, err := fileutil.Walk(root, filter)
//	if err != nil {
//	    return err
//	}
//	for _, path := range result.Files {
//	    // lint path
//	}
package fileutil
