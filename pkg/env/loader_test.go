package env

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeEnvFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".env")
	err := os.WriteFile(path, []byte(content), 0o600)
	require.NoError(t, err)
	return path
}

func TestLoad_ParsesFile(t *testing.T) {
	path := writeEnvFile(t, `
# comment line
DATACHECK_LOGS_DIR=/var/log/datacheck
DATACHECK_MONITOR_ADDR="127.0.0.1:9000"
DATACHECK_VERBOSE='true'

MALFORMED LINE WITHOUT EQUALS
`)

	l := NewLoader()
	require.NoError(t, l.Load(path))

	assert.Equal(t, "/var/log/datacheck", l.Get("DATACHECK_LOGS_DIR"))
	assert.Equal(t, "127.0.0.1:9000", l.Get("DATACHECK_MONITOR_ADDR"))
	assert.Equal(t, "true", l.Get("DATACHECK_VERBOSE"))
	assert.Len(t, l.All(), 3)
}

func TestLoad_MissingFile(t *testing.T) {
	l := NewLoader()
	err := l.Load(filepath.Join(t.TempDir(), "absent.env"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "open env file")
}

func TestGet_OSEnvPrecedence(t *testing.T) {
	path := writeEnvFile(t, "DATACHECK_TEST_PRECEDENCE=from_file\n")

	l := NewLoader()
	require.NoError(t, l.Load(path))

	t.Setenv("DATACHECK_TEST_PRECEDENCE", "from_os")
	assert.Equal(t, "from_os", l.Get("DATACHECK_TEST_PRECEDENCE"))
}

func TestGetRequired(t *testing.T) {
	l := NewLoader()
	require.NoError(t, l.Set("DATACHECK_TEST_REQUIRED", "present"))
	defer os.Unsetenv("DATACHECK_TEST_REQUIRED")

	v, err := l.GetRequired("DATACHECK_TEST_REQUIRED")
	require.NoError(t, err)
	assert.Equal(t, "present", v)

	_, err = l.GetRequired("DATACHECK_TEST_ABSENT")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "DATACHECK_TEST_ABSENT")
}

func TestGetWithDefault(t *testing.T) {
	l := NewLoader()
	require.NoError(t, l.Set("DATACHECK_TEST_SET", "value"))
	defer os.Unsetenv("DATACHECK_TEST_SET")

	assert.Equal(t, "value", l.GetWithDefault("DATACHECK_TEST_SET", "fallback"))
	assert.Equal(t, "fallback", l.GetWithDefault("DATACHECK_TEST_UNSET", "fallback"))
}

func TestTypedGetters(t *testing.T) {
	path := writeEnvFile(t, `
INT_OK=8
INT_BAD=eight
BOOL_OK=true
BOOL_BAD=yep
DUR_OK=30s
DUR_BAD=soon
`)

	l := NewLoader()
	require.NoError(t, l.Load(path))

	assert.Equal(t, 8, l.GetInt("INT_OK", 1))
	assert.Equal(t, 1, l.GetInt("INT_BAD", 1))
	assert.Equal(t, 1, l.GetInt("INT_UNSET", 1))

	assert.True(t, l.GetBool("BOOL_OK", false))
	assert.False(t, l.GetBool("BOOL_BAD", false))
	assert.True(t, l.GetBool("BOOL_UNSET", true))

	assert.Equal(t, 30*time.Second, l.GetDuration("DUR_OK", time.Minute))
	assert.Equal(t, time.Minute, l.GetDuration("DUR_BAD", time.Minute))
	assert.Equal(t, time.Minute, l.GetDuration("DUR_UNSET", time.Minute))
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg := LoadConfig(NewLoader())
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfig_FromEnvFile(t *testing.T) {
	path := writeEnvFile(t, `
DATACHECK_MAX_CONCURRENCY=16
DATACHECK_TIMEOUT=90s
DATACHECK_MONITOR_ADDR=:9999
DATACHECK_LOGS_DIR=/tmp/dc-logs
DATACHECK_RESULTS_DIR=/tmp/dc-results
DATACHECK_VERBOSE=true
`)

	l := NewLoader()
	require.NoError(t, l.Load(path))

	cfg := LoadConfig(l)
	assert.Equal(t, 16, cfg.MaxConcurrency)
	assert.Equal(t, 90*time.Second, cfg.Timeout)
	assert.Equal(t, ":9999", cfg.MonitorAddr)
	assert.Equal(t, "/tmp/dc-logs", cfg.LogsDir)
	assert.Equal(t, "/tmp/dc-results", cfg.ResultsDir)
	assert.True(t, cfg.Verbose)
}
