package cmd

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harrison/lintsweep/internal/history"
	"github.com/harrison/lintsweep/internal/models"
)

// chdir changes the working directory for the duration of the test.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}

func TestHistoryNoDatabase(t *testing.T) {
	chdir(t, t.TempDir())

	stdout, _, err := executeRoot(t, "history")
	require.NoError(t, err)
	assert.Contains(t, stdout, "No sweep history found.")
}

func seedHistory(t *testing.T, dbPath string) {
	t.Helper()

	store, err := history.NewStore(dbPath)
	require.NoError(t, err)
	defer store.Close()

	base := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	for i, id := range []string{"run-old", "run-new"} {
		_, err := store.RecordSweep(context.Background(), models.SweepResult{
			RunID:      id,
			Root:       "/src",
			OutputFile: "golint.log",
			Files: []models.FileResult{
				{Path: "/src/a.go", Defects: i + 1, ExitCode: 1},
				{Path: "/src/b.go"},
			},
			Defects:   i + 1,
			StartedAt: base.Add(time.Duration(i) * time.Hour),
			Duration:  time.Second,
		})
		require.NoError(t, err)
	}
}

func TestHistoryListsRuns(t *testing.T) {
	root := t.TempDir()
	chdir(t, root)
	seedHistory(t, filepath.Join(root, ".lintsweep", "history.db"))

	stdout, _, err := executeRoot(t, "history")
	require.NoError(t, err)

	assert.Contains(t, stdout, "RUN ID")
	newIdx := strings.Index(stdout, "run-new")
	oldIdx := strings.Index(stdout, "run-old")
	require.NotEqual(t, -1, newIdx)
	require.NotEqual(t, -1, oldIdx)
	assert.Less(t, newIdx, oldIdx, "newest run should be listed first")
}

func TestHistoryLimit(t *testing.T) {
	root := t.TempDir()
	chdir(t, root)
	seedHistory(t, filepath.Join(root, ".lintsweep", "history.db"))

	stdout, _, err := executeRoot(t, "history", "--limit", "1")
	require.NoError(t, err)

	assert.Contains(t, stdout, "run-new")
	assert.NotContains(t, stdout, "run-old")
}

func TestHistoryShowRun(t *testing.T) {
	root := t.TempDir()
	chdir(t, root)
	seedHistory(t, filepath.Join(root, ".lintsweep", "history.db"))

	stdout, _, err := executeRoot(t, "history", "--run", "run-new")
	require.NoError(t, err)

	assert.Contains(t, stdout, "Run run-new: 2 files")
	assert.Contains(t, stdout, "/src/a.go (2 defects, 0 suppressed) exit status 1")
	assert.Contains(t, stdout, "/src/b.go (0 defects, 0 suppressed)\n")

	stdout, _, err = executeRoot(t, "history", "--run", "missing")
	require.NoError(t, err)
	assert.Contains(t, stdout, "No files recorded for run missing")
}

func TestHistoryCustomConfig(t *testing.T) {
	root := t.TempDir()
	chdir(t, root)

	dbPath := filepath.Join(root, "elsewhere", "sweeps.db")
	seedHistory(t, dbPath)
	cfgPath := filepath.Join(root, "cfg.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("history:\n  db_path: "+dbPath+"\n"), 0644))

	stdout, _, err := executeRoot(t, "history", "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, stdout, "run-new")
}
