package report_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"digital.vasic.datacheck/pkg/report"
	"digital.vasic.datacheck/pkg/runner"
)

func TestBuildSummary(t *testing.T) {
	results := []*runner.Result{
		passedResult("a"),
		failedResult("b"),
		passedResult("c"),
	}
	errored := passedResult("d")
	errored.Status = runner.StatusError
	results = append(results, errored)

	summary := report.BuildSummary(results)

	assert.Equal(t, 4, summary.TotalJobs)
	assert.Equal(t, 2, summary.PassedJobs)
	assert.Equal(t, 1, summary.FailedJobs)
	assert.Equal(t, 1, summary.ErroredJobs)
	assert.InDelta(t, 0.5, summary.PassRate, 0.001)
	require.Len(t, summary.Jobs, 4)
	assert.Equal(t, 1, summary.Jobs[1].SchemaErrors)
	assert.Equal(t, 1, summary.Jobs[1].CheckFailures)
}

func TestBuildSummary_Empty(t *testing.T) {
	summary := report.BuildSummary(nil)
	assert.Equal(t, 0, summary.TotalJobs)
	assert.Zero(t, summary.PassRate)
}

func TestSaveSummary(t *testing.T) {
	dir := t.TempDir()

	summary := report.BuildSummary([]*runner.Result{
		passedResult("a"),
		failedResult("b"),
	})
	require.NoError(t, report.SaveSummary(summary, dir))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)

	var haveJSON, haveMD bool
	for _, e := range entries {
		switch filepath.Ext(e.Name()) {
		case ".json":
			haveJSON = true
		case ".md":
			haveMD = true
		}
	}
	assert.True(t, haveJSON)
	assert.True(t, haveMD)

	latest := filepath.Join(dir, "latest_summary.md")
	data, err := os.ReadFile(latest)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Validation Run Summary")
	assert.Contains(t, string(data), "| a | orders | PASSED")
	assert.Contains(t, string(data), "| Pass Rate | 50% |")
}

func TestAppendToHistoryAndReadBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.jsonl")

	require.NoError(
		t, report.AppendToHistory(path, passedResult("a")),
	)
	require.NoError(
		t, report.AppendToHistory(path, failedResult("b")),
	)

	entries, err := report.ReadHistory(path)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "a", entries[0].JobID)
	assert.Equal(t, runner.StatusFailed, entries[1].Status)
	assert.Equal(t, 1, entries[1].SchemaErrors)
}

func TestReadHistory_MissingFile(t *testing.T) {
	entries, err := report.ReadHistory(
		filepath.Join(t.TempDir(), "absent.jsonl"),
	)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
