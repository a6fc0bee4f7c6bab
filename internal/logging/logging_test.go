package logging

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLogFilePath(t *testing.T) {
	sessionStart := time.Date(2026, 2, 12, 21, 38, 36, 0, time.UTC)

	tests := []struct {
		name        string
		logsDir     string
		serviceName string
		want        string
	}{
		{
			name:        "basic path",
			logsDir:     "genreplogs",
			serviceName: "genrep",
			want:        filepath.Join("genreplogs", "genrep.20260212_213836.log"),
		},
		{
			name:        "relative path with dot",
			logsDir:     "./genreplogs",
			serviceName: "genrep",
			want:        filepath.Join(".", "genreplogs", "genrep.20260212_213836.log"),
		},
		{
			name:        "absolute path",
			logsDir:     filepath.Join("/var", "log", "genrep"),
			serviceName: "genrep-scan",
			want:        filepath.Join("/var", "log", "genrep", "genrep-scan.20260212_213836.log"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LogFilePath(tt.logsDir, tt.serviceName, sessionStart))
		})
	}
}

func TestNewZerolog(t *testing.T) {
	var buf bytes.Buffer
	log := NewZerolog(&buf, "WARN")

	log.Info().Msg("hidden")
	log.Warn().Str("driver", "sqlite").Msg("fallback")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "fallback")
	assert.Contains(t, out, "driver=sqlite")
}

func TestNewZerolog_UnknownLevel(t *testing.T) {
	var buf bytes.Buffer
	log := NewZerolog(&buf, "chatty")

	log.Debug().Msg("hidden")
	log.Info().Msg("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}
