package report_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"digital.vasic.datacheck/pkg/check"
	"digital.vasic.datacheck/pkg/report"
	"digital.vasic.datacheck/pkg/runner"
)

func TestHTMLReporter_GenerateReport(t *testing.T) {
	r := report.NewHTMLReporter()

	result := failedResult("job-1")
	result.Errors[0].FailureCases = []check.FailureCase{
		{Column: "qty", Index: 2, Value: -1},
	}

	data, err := r.GenerateReport(result)
	require.NoError(t, err)

	out := string(data)
	assert.Contains(t, out, "<!DOCTYPE html>")
	assert.Contains(t, out, "Validation Report: orders")
	assert.Contains(t, out, "FAILED")
	assert.Contains(t, out, "check_failure")
	assert.Contains(t, out, "<td>qty</td>")
	assert.Contains(t, out, "<code>-1</code>")
}

func TestHTMLReporter_GenerateReportEscapesValues(t *testing.T) {
	r := report.NewHTMLReporter()

	result := failedResult("job-1")
	result.Errors[0].FailureCases = []check.FailureCase{
		{Column: "name", Index: 0, Value: "<script>"},
	}

	data, err := r.GenerateReport(result)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "<script>")
	assert.Contains(t, string(data), "&lt;script&gt;")
}

func TestHTMLReporter_GenerateSummary(t *testing.T) {
	r := report.NewHTMLReporter()

	data, err := r.GenerateSummary([]*runner.Result{
		passedResult("a"),
		failedResult("b"),
	})
	require.NoError(t, err)

	out := string(data)
	assert.Contains(t, out, "Validation Run Summary")
	assert.Contains(t, out, "<td>a</td>")
	assert.Contains(t, out, "PASSED")
	assert.Contains(t, out, "50%")
}

func TestHTMLReporter_ImplementsReporter(t *testing.T) {
	var _ report.Reporter = report.NewHTMLReporter()
	var _ report.Reporter = report.NewJSONReporter(false)
}
