// Package report provides report generation for validation
// results.
package report

import (
	"io"

	"digital.vasic.datacheck/pkg/runner"
)

// Reporter defines the interface for generating validation
// reports.
type Reporter interface {
	// GenerateReport creates a report for a single job
	// result.
	GenerateReport(result *runner.Result) ([]byte, error)

	// GenerateSummary creates a summary of all job results.
	GenerateSummary(results []*runner.Result) ([]byte, error)

	// WriteReport writes a report to the specified writer.
	WriteReport(w io.Writer, result *runner.Result) error
}
