package report

import (
	"bytes"
	"fmt"
	"html"
	"io"
	"strings"
	"time"

	"digital.vasic.datacheck/pkg/runner"
	"digital.vasic.datacheck/pkg/table"
)

// HTMLReporter generates HTML reports from validation results.
type HTMLReporter struct{}

// NewHTMLReporter creates a new HTML reporter.
func NewHTMLReporter() *HTMLReporter {
	return &HTMLReporter{}
}

// GenerateReport creates an HTML report for a single job
// result.
func (r *HTMLReporter) GenerateReport(
	result *runner.Result,
) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.WriteReport(&buf, result); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteReport writes an HTML report to the specified writer.
func (r *HTMLReporter) WriteReport(
	w io.Writer,
	result *runner.Result,
) error {
	r.writeHeader(w, "Validation Report: "+result.Schema)

	fmt.Fprintf(
		w,
		"<h1>Validation Report: %s</h1>\n",
		html.EscapeString(result.Schema),
	)
	fmt.Fprintf(
		w,
		"<p><strong>Job ID:</strong> %s</p>\n",
		html.EscapeString(result.JobID),
	)
	fmt.Fprintf(
		w,
		"<p><strong>Generated:</strong> %s</p>\n",
		result.EndTime.Format(time.RFC3339),
	)

	r.writeSummaryTable(w, result)
	r.writeErrorsSection(w, result)

	r.writeFooter(w)
	return nil
}

func (r *HTMLReporter) writeSummaryTable(
	w io.Writer,
	result *runner.Result,
) {
	statusClass := "status-passed"
	if result.Status != runner.StatusPassed {
		statusClass = "status-failed"
	}

	fmt.Fprintln(w, "<h2>Summary</h2>")
	fmt.Fprintln(w, "<table>")
	fmt.Fprintln(w, "<tr><th>Metric</th><th>Value</th></tr>")
	fmt.Fprintf(
		w,
		"<tr><td>Status</td><td class=\"%s\">"+
			"<strong>%s</strong></td></tr>\n",
		statusClass,
		strings.ToUpper(string(result.Status)),
	)
	fmt.Fprintf(
		w,
		"<tr><td>Start Time</td><td>%s</td></tr>\n",
		result.StartTime.Format(time.RFC3339),
	)
	fmt.Fprintf(
		w,
		"<tr><td>End Time</td><td>%s</td></tr>\n",
		result.EndTime.Format(time.RFC3339),
	)
	fmt.Fprintf(
		w,
		"<tr><td>Duration</td><td>%v</td></tr>\n",
		result.Duration,
	)
	fmt.Fprintf(
		w,
		"<tr><td>Schema Errors</td><td>%d</td></tr>\n",
		len(result.Errors),
	)

	if result.Error != "" &&
		result.Status == runner.StatusError {
		fmt.Fprintf(
			w,
			"<tr><td>Error</td>"+
				"<td class=\"status-failed\">%s</td></tr>\n",
			html.EscapeString(result.Error),
		)
	}

	fmt.Fprintln(w, "</table>")
}

func (r *HTMLReporter) writeErrorsSection(
	w io.Writer,
	result *runner.Result,
) {
	if len(result.Errors) == 0 {
		return
	}

	fmt.Fprintln(w, "<h2>Schema Errors</h2>")

	for _, e := range result.Errors {
		fmt.Fprintf(
			w,
			"<h3>%s</h3>\n",
			html.EscapeString(e.Check),
		)
		fmt.Fprintf(
			w,
			"<p><strong>Reason:</strong> "+
				"<code>%s</code></p>\n",
			html.EscapeString(e.ReasonCode),
		)
		fmt.Fprintf(
			w,
			"<p>%s</p>\n",
			html.EscapeString(e.Message),
		)

		if len(e.FailureCases) == 0 {
			continue
		}

		fmt.Fprintln(w, "<table>")
		fmt.Fprintln(
			w,
			"<tr><th>Column</th><th>Index</th>"+
				"<th>Failure Case</th></tr>",
		)
		for _, fc := range e.FailureCases {
			col := fc.Column
			if col == "" {
				col = "-"
			}
			fmt.Fprintf(
				w,
				"<tr><td>%s</td><td>%s</td>"+
					"<td><code>%s</code></td></tr>\n",
				html.EscapeString(col),
				html.EscapeString(
					table.FormatValue(fc.Index),
				),
				html.EscapeString(
					table.FormatValue(fc.Value),
				),
			)
		}
		fmt.Fprintln(w, "</table>")
	}
}

// GenerateSummary creates an HTML summary of all job results.
func (r *HTMLReporter) GenerateSummary(
	results []*runner.Result,
) ([]byte, error) {
	var buf bytes.Buffer

	r.writeHeader(&buf, "Validation Run Summary")

	fmt.Fprintln(&buf, "<h1>Validation Run Summary</h1>")
	fmt.Fprintf(
		&buf,
		"<p><strong>Generated:</strong> %s</p>\n",
		time.Now().Format(time.RFC3339),
	)

	r.writeOverview(&buf, results)
	r.writeStats(&buf, results)
	r.writeFooter(&buf)

	return buf.Bytes(), nil
}

func (r *HTMLReporter) writeOverview(
	w io.Writer,
	results []*runner.Result,
) {
	fmt.Fprintln(w, "<h2>Overview</h2>")
	fmt.Fprintln(w, "<table>")
	fmt.Fprintln(
		w,
		"<tr><th>Job</th><th>Schema</th><th>Status</th>"+
			"<th>Duration</th><th>Errors</th></tr>",
	)

	for _, result := range results {
		cls := "status-passed"
		if result.Status != runner.StatusPassed {
			cls = "status-failed"
		}
		fmt.Fprintf(
			w,
			"<tr><td>%s</td><td>%s</td>"+
				"<td class=\"%s\">%s</td>"+
				"<td>%v</td><td>%d</td></tr>\n",
			html.EscapeString(result.JobID),
			html.EscapeString(result.Schema),
			cls,
			strings.ToUpper(string(result.Status)),
			result.Duration,
			len(result.Errors),
		)
	}

	fmt.Fprintln(w, "</table>")
}

func (r *HTMLReporter) writeStats(
	w io.Writer,
	results []*runner.Result,
) {
	passedCount := 0
	totalDuration := time.Duration(0)
	for _, res := range results {
		if res.Status == runner.StatusPassed {
			passedCount++
		}
		totalDuration += res.Duration
	}

	fmt.Fprintln(w, "<h2>Statistics</h2>")
	fmt.Fprintln(w, "<table>")
	fmt.Fprintln(w, "<tr><th>Metric</th><th>Value</th></tr>")
	fmt.Fprintf(
		w,
		"<tr><td>Total Jobs</td><td>%d</td></tr>\n",
		len(results),
	)
	fmt.Fprintf(
		w,
		"<tr><td>Passed</td><td>%d</td></tr>\n",
		passedCount,
	)
	fmt.Fprintf(
		w,
		"<tr><td>Failed</td><td>%d</td></tr>\n",
		len(results)-passedCount,
	)

	if len(results) > 0 {
		pct := float64(passedCount) /
			float64(len(results)) * 100
		fmt.Fprintf(
			w,
			"<tr><td>Pass Rate</td>"+
				"<td>%.0f%%</td></tr>\n",
			pct,
		)
	}

	fmt.Fprintf(
		w,
		"<tr><td>Total Duration</td><td>%v</td></tr>\n",
		totalDuration,
	)
	fmt.Fprintln(w, "</table>")
}

func (r *HTMLReporter) writeHeader(w io.Writer, title string) {
	fmt.Fprintf(w, `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>%s</title>
<style>
body {
  font-family: -apple-system, BlinkMacSystemFont,
    "Segoe UI", Roboto, sans-serif;
  max-width: 960px;
  margin: 0 auto;
  padding: 20px;
  color: #333;
  background: #f9f9f9;
}
h1 { color: #2c3e50; border-bottom: 2px solid #3498db; padding-bottom: 10px; }
h2 { color: #2c3e50; margin-top: 30px; }
h3 { color: #34495e; }
table {
  border-collapse: collapse;
  width: 100%%;
  margin: 10px 0;
  background: #fff;
}
th, td {
  border: 1px solid #ddd;
  padding: 8px 12px;
  text-align: left;
}
th { background: #3498db; color: #fff; }
tr:nth-child(even) { background: #f2f2f2; }
.status-passed { color: #27ae60; font-weight: bold; }
.status-failed { color: #e74c3c; font-weight: bold; }
code {
  background: #ecf0f1;
  padding: 2px 6px;
  border-radius: 3px;
  font-size: 0.9em;
}
footer {
  margin-top: 40px;
  padding-top: 10px;
  border-top: 1px solid #ddd;
  color: #7f8c8d;
  font-size: 0.9em;
}
</style>
</head>
<body>
`, html.EscapeString(title))
}

func (r *HTMLReporter) writeFooter(w io.Writer) {
	fmt.Fprintln(w, "<footer>")
	fmt.Fprintln(w, "<p>Generated by datacheck</p>")
	fmt.Fprintln(w, "</footer>")
	fmt.Fprintln(w, "</body>")
	fmt.Fprintln(w, "</html>")
}
