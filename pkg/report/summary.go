package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"digital.vasic.datacheck/pkg/runner"
	"digital.vasic.datacheck/pkg/schema"
)

// Summary represents an aggregated summary of a validation run.
type Summary struct {
	ID            string        `json:"id"`
	GeneratedAt   time.Time     `json:"generated_at"`
	Jobs          []JobSummary  `json:"jobs"`
	TotalJobs     int           `json:"total_jobs"`
	PassedJobs    int           `json:"passed_jobs"`
	FailedJobs    int           `json:"failed_jobs"`
	ErroredJobs   int           `json:"errored_jobs"`
	TotalDuration time.Duration `json:"total_duration"`
	PassRate      float64       `json:"pass_rate"`
}

// JobSummary represents a summary of a single validation job.
type JobSummary struct {
	JobID         string        `json:"job_id"`
	Schema        string        `json:"schema"`
	Status        runner.Status `json:"status"`
	Duration      time.Duration `json:"duration"`
	SchemaErrors  int           `json:"schema_errors"`
	CheckFailures int           `json:"check_failures"`
}

// BuildSummary creates a run summary from job results.
func BuildSummary(results []*runner.Result) *Summary {
	summary := &Summary{
		ID: fmt.Sprintf(
			"summary_%s",
			time.Now().Format("20060102_150405"),
		),
		GeneratedAt: time.Now(),
		Jobs:        make([]JobSummary, 0, len(results)),
	}

	for _, r := range results {
		checkFailures := 0
		for _, e := range r.Errors {
			if e.ReasonCode == schema.ReasonCheckFailure {
				checkFailures++
			}
		}

		js := JobSummary{
			JobID:         r.JobID,
			Schema:        r.Schema,
			Status:        r.Status,
			Duration:      r.Duration,
			SchemaErrors:  len(r.Errors),
			CheckFailures: checkFailures,
		}

		summary.Jobs = append(summary.Jobs, js)
		summary.TotalJobs++
		summary.TotalDuration += r.Duration

		switch r.Status {
		case runner.StatusPassed:
			summary.PassedJobs++
		case runner.StatusFailed:
			summary.FailedJobs++
		default:
			summary.ErroredJobs++
		}
	}

	if summary.TotalJobs > 0 {
		summary.PassRate = float64(summary.PassedJobs) /
			float64(summary.TotalJobs)
	}

	return summary
}

// SaveSummary saves the summary to both JSON and Markdown files
// in the given output directory, updating latest symlinks.
func SaveSummary(summary *Summary, outputDir string) error {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf(
			"failed to create output directory: %w", err,
		)
	}

	ts := summary.GeneratedAt.Format("20060102_150405")

	jsonPath := filepath.Join(
		outputDir,
		fmt.Sprintf("validation_summary_%s.json", ts),
	)
	jsonData, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf(
			"failed to marshal summary: %w", err,
		)
	}
	if err := os.WriteFile(jsonPath, jsonData, 0644); err != nil {
		return fmt.Errorf(
			"failed to write JSON summary: %w", err,
		)
	}

	mdPath := filepath.Join(
		outputDir,
		fmt.Sprintf("validation_summary_%s.md", ts),
	)
	mdContent := generateSummaryMarkdown(summary)
	if err := os.WriteFile(
		mdPath, []byte(mdContent), 0644,
	); err != nil {
		return fmt.Errorf(
			"failed to write Markdown summary: %w", err,
		)
	}

	latestJSON := filepath.Join(outputDir, "latest_summary.json")
	latestMD := filepath.Join(outputDir, "latest_summary.md")

	_ = os.Remove(latestJSON)
	_ = os.Remove(latestMD)
	_ = os.Symlink(filepath.Base(jsonPath), latestJSON)
	_ = os.Symlink(filepath.Base(mdPath), latestMD)

	return nil
}

// generateSummaryMarkdown creates markdown from a run summary.
func generateSummaryMarkdown(summary *Summary) string {
	var sb strings.Builder

	sb.WriteString("# Validation Run Summary\n\n")
	sb.WriteString(
		fmt.Sprintf("**Summary ID:** %s\n\n", summary.ID),
	)
	sb.WriteString(
		fmt.Sprintf(
			"**Generated:** %s\n\n",
			summary.GeneratedAt.Format(time.RFC3339),
		),
	)

	sb.WriteString("## Jobs\n\n")
	sb.WriteString(
		"| Job | Schema | Status | Duration | Errors |\n",
	)
	sb.WriteString(
		"|-----|--------|--------|----------|--------|\n",
	)

	for _, j := range summary.Jobs {
		status := strings.ToUpper(string(j.Status))
		sb.WriteString(
			fmt.Sprintf(
				"| %s | %s | %s | %v | %d |\n",
				j.JobID, j.Schema, status,
				j.Duration, j.SchemaErrors,
			),
		)
	}

	sb.WriteString("\n## Statistics\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(
		fmt.Sprintf(
			"| Total Jobs | %d |\n", summary.TotalJobs,
		),
	)
	sb.WriteString(
		fmt.Sprintf("| Passed | %d |\n", summary.PassedJobs),
	)
	sb.WriteString(
		fmt.Sprintf("| Failed | %d |\n", summary.FailedJobs),
	)
	sb.WriteString(
		fmt.Sprintf("| Errored | %d |\n", summary.ErroredJobs),
	)
	sb.WriteString(
		fmt.Sprintf(
			"| Pass Rate | %.0f%% |\n",
			summary.PassRate*100,
		),
	)
	sb.WriteString(
		fmt.Sprintf(
			"| Total Duration | %v |\n",
			summary.TotalDuration,
		),
	)

	return sb.String()
}
