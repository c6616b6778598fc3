package env

import "time"

// Environment variable names recognized by the pipeline.
const (
	// KeyMaxConcurrency bounds parallel validation jobs.
	KeyMaxConcurrency = "DATACHECK_MAX_CONCURRENCY"
	// KeyTimeout is the per-job validation timeout.
	KeyTimeout = "DATACHECK_TIMEOUT"
	// KeyMonitorAddr is the monitoring server listen address.
	KeyMonitorAddr = "DATACHECK_MONITOR_ADDR"
	// KeyLogsDir is the directory for validation and audit
	// logs.
	KeyLogsDir = "DATACHECK_LOGS_DIR"
	// KeyResultsDir is the directory for run summaries and
	// history.
	KeyResultsDir = "DATACHECK_RESULTS_DIR"
	// KeyVerbose enables debug-level logging.
	KeyVerbose = "DATACHECK_VERBOSE"
)

// Config holds pipeline settings resolved from the
// environment.
type Config struct {
	// MaxConcurrency bounds parallel validation jobs. Zero
	// means unbounded.
	MaxConcurrency int `json:"max_concurrency"`
	// Timeout is the per-job validation timeout.
	Timeout time.Duration `json:"timeout"`
	// MonitorAddr is the monitoring server listen address.
	MonitorAddr string `json:"monitor_addr"`
	// LogsDir is the directory for validation and audit logs.
	LogsDir string `json:"logs_dir"`
	// ResultsDir is the directory for run summaries and
	// history.
	ResultsDir string `json:"results_dir"`
	// Verbose enables debug-level logging.
	Verbose bool `json:"verbose"`
}

// DefaultConfig returns the pipeline defaults used when the
// environment sets nothing.
func DefaultConfig() Config {
	return Config{
		MaxConcurrency: 4,
		Timeout:        time.Minute,
		MonitorAddr:    ":8090",
		LogsDir:        "logs",
		ResultsDir:     "results",
		Verbose:        false,
	}
}

// LoadConfig resolves a Config from the loader, falling back
// to DefaultConfig for unset or malformed values.
func LoadConfig(l Loader) Config {
	def := DefaultConfig()
	return Config{
		MaxConcurrency: l.GetInt(
			KeyMaxConcurrency, def.MaxConcurrency,
		),
		Timeout: l.GetDuration(KeyTimeout, def.Timeout),
		MonitorAddr: l.GetWithDefault(
			KeyMonitorAddr, def.MonitorAddr,
		),
		LogsDir: l.GetWithDefault(KeyLogsDir, def.LogsDir),
		ResultsDir: l.GetWithDefault(
			KeyResultsDir, def.ResultsDir,
		),
		Verbose: l.GetBool(KeyVerbose, def.Verbose),
	}
}
