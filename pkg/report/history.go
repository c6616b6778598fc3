package report

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"digital.vasic.datacheck/pkg/runner"
)

// HistoricalEntry represents a single validation run in the
// historical log.
type HistoricalEntry struct {
	Timestamp    time.Time     `json:"timestamp"`
	JobID        string        `json:"job_id"`
	Schema       string        `json:"schema"`
	Status       runner.Status `json:"status"`
	Duration     string        `json:"duration"`
	SchemaErrors int           `json:"schema_errors"`
}

// AppendToHistory adds an entry to the historical log stored at
// historyPath. Each entry is a single JSON line.
func AppendToHistory(
	historyPath string,
	result *runner.Result,
) error {
	entry := HistoricalEntry{
		Timestamp:    result.EndTime,
		JobID:        result.JobID,
		Schema:       result.Schema,
		Status:       result.Status,
		Duration:     result.Duration.String(),
		SchemaErrors: len(result.Errors),
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf(
			"failed to marshal history entry: %w", err,
		)
	}

	file, err := os.OpenFile(
		historyPath,
		os.O_CREATE|os.O_APPEND|os.O_WRONLY,
		0644,
	)
	if err != nil {
		return fmt.Errorf(
			"failed to open history file: %w", err,
		)
	}
	defer func() { _ = file.Close() }()

	_, err = fmt.Fprintln(file, string(data))
	return err
}

// ReadHistory reads all entries from the historical log. A
// missing file yields an empty history.
func ReadHistory(historyPath string) ([]HistoricalEntry, error) {
	data, err := os.ReadFile(historyPath)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf(
			"failed to read history file: %w", err,
		)
	}

	var entries []HistoricalEntry
	start := 0
	for i := 0; i <= len(data); i++ {
		if i == len(data) || data[i] == '\n' {
			line := data[start:i]
			start = i + 1
			if len(line) == 0 {
				continue
			}
			var entry HistoricalEntry
			if err := json.Unmarshal(line, &entry); err != nil {
				return entries, fmt.Errorf(
					"failed to parse history entry: %w", err,
				)
			}
			entries = append(entries, entry)
		}
	}
	return entries, nil
}
