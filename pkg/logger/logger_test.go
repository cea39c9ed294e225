package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/autovault/pkg/config"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry), buf.String())
	return entry
}

func TestNew(t *testing.T) {
	tests := []struct {
		name      string
		cfg       *config.Config
		wantLevel zerolog.Level
	}{
		{
			name:      "debug level",
			cfg:       &config.Config{Env: "development", LogLevel: "debug", LogFormat: "json"},
			wantLevel: zerolog.DebugLevel,
		},
		{
			name:      "info level",
			cfg:       &config.Config{Env: "production", LogLevel: "info", LogFormat: "json"},
			wantLevel: zerolog.InfoLevel,
		},
		{
			name:      "warn level",
			cfg:       &config.Config{Env: "staging", LogLevel: "warn", LogFormat: "json"},
			wantLevel: zerolog.WarnLevel,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewWithWriter(tt.cfg, &buf)
			require.NotNil(t, logger)
			assert.Equal(t, tt.wantLevel, logger.Level())
		})
	}
}

func TestLevelIsPerLogger(t *testing.T) {
	var quiet, loud bytes.Buffer
	q := NewWithWriter(&config.Config{Env: "development", LogLevel: "error"}, &quiet)
	l := NewWithWriter(&config.Config{Env: "development", LogLevel: "debug"}, &loud)

	q.Info("hidden")
	l.Debug("shown")

	assert.Empty(t, quiet.String())
	assert.Contains(t, loud.String(), "shown")
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input string
		want  zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"DEBUG", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"fatal", zerolog.FatalLevel},
		{"panic", zerolog.PanicLevel},
		{"off", zerolog.Disabled},
		{"invalid", zerolog.InfoLevel}, // Default
		{"", zerolog.InfoLevel},        // Default
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLogLevel(tt.input))
		})
	}
}

func TestJSONOutputCarriesServiceFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&config.Config{Env: "production", LogLevel: "info", LogFormat: "json"}, &buf)

	logger.WithFields(Fields{"pools": 3}).Info("dataset loaded")

	entry := decodeLine(t, &buf)
	assert.Equal(t, "autovault", entry["service"])
	assert.Equal(t, "production", entry["env"])
	assert.Equal(t, float64(3), entry["pools"])
	assert.Equal(t, "dataset loaded", entry["message"])
}

func TestDomainFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&config.Config{Env: "production", LogLevel: "info"}, &buf)

	logger.WithRun("6f1c9a4e").WithDataset("pool.zip", 2).Info("Loading dataset")

	entry := decodeLine(t, &buf)
	assert.Equal(t, "6f1c9a4e", entry["run_id"])
	assert.Equal(t, "pool.zip", entry["dataset"])
	assert.Equal(t, float64(2), entry["dataset_index"])
}

func TestWarnf(t *testing.T) {
	var buf bytes.Buffer
	logger := &Logger{zlog: zerolog.New(&buf)}

	logger.Warnf("IEXEC_DATASET_%d_FILENAME not set", 2)

	entry := decodeLine(t, &buf)
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "IEXEC_DATASET_2_FILENAME not set", entry["message"])
}

func TestWithError(t *testing.T) {
	var buf bytes.Buffer
	logger := &Logger{zlog: zerolog.New(&buf)}

	logger.WithError(errors.New("zip: not a valid zip file")).Error("Dataset skipped")

	entry := decodeLine(t, &buf)
	assert.Equal(t, "zip: not a valid zip file", entry["error"])
	assert.Equal(t, "error", entry["level"])
}

func TestConsoleFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&config.Config{Env: "development", LogLevel: "info", LogFormat: "console"}, &buf)
	logger.Info("test message")

	assert.True(t, strings.Contains(buf.String(), "test message"))
	assert.False(t, json.Valid(buf.Bytes()), "console output is not JSON")
}

func TestNop(t *testing.T) {
	// must not panic
	Nop().WithField("k", "v").WithRun("x").Info("discarded")
}
