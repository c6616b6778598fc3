package logging

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// splitNonEmpty splits s on newlines and drops empty lines.
func splitNonEmpty(s string) []string {
	var lines []string
	for _, line := range strings.Split(s, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func TestLogLevel_String(t *testing.T) {
	tests := []struct {
		level LogLevel
		want  string
	}{
		{LevelDebug, "DEBUG"},
		{LevelInfo, "INFO"},
		{LevelWarn, "WARN"},
		{LevelError, "ERROR"},
		{LogLevel(99), "UNKNOWN"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.level.String())
	}
}

func TestLogField_Constructors(t *testing.T) {
	assert.Equal(
		t, Field{Key: "k", Value: "v"}, StringField("k", "v"),
	)
	assert.Equal(
		t, Field{Key: "n", Value: 3}, IntField("n", 3),
	)
	assert.Equal(
		t, Field{Key: "f", Value: 1.5}, Float64Field("f", 1.5),
	)
	assert.Equal(
		t, Field{Key: "b", Value: true}, BoolField("b", true),
	)
	assert.Equal(
		t,
		Field{Key: "took", Value: int64(1500)},
		DurationField("took", 1500*time.Millisecond),
	)
}

func TestErrorField(t *testing.T) {
	f := ErrorField(errors.New("broken"))
	assert.Equal(t, "error", f.Key)
	assert.Equal(t, "broken", f.Value)

	f = ErrorField(nil)
	assert.Equal(t, "<nil>", f.Value)
}

func TestNullLogger_AllMethodsNoop(t *testing.T) {
	var logger Logger = NullLogger{}

	logger.Info("ignored")
	logger.Warn("ignored")
	logger.Error("ignored")
	logger.Debug("ignored")
	logger.LogValidation(ValidationLog{JobID: "j1"})

	child := logger.WithFields(StringField("k", "v"))
	assert.IsType(t, NullLogger{}, child)
	assert.NoError(t, logger.Close())
}
