package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeEntry(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry), "output: %s", buf.String())
	return entry
}

func TestDispatcherLogger_Levels(t *testing.T) {
	tests := []struct {
		name  string
		log   func(*DispatcherLogger)
		level string
	}{
		{"debug", func(l *DispatcherLogger) { l.Debug("msg", "topic", "record") }, "debug"},
		{"info", func(l *DispatcherLogger) { l.Info("msg", "topic", "record") }, "info"},
		{"error", func(l *DispatcherLogger) { l.Error("msg", "topic", "record") }, "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.log(NewDispatcherLogger(zerolog.New(&buf).Level(zerolog.DebugLevel)))

			entry := decodeEntry(t, &buf)
			assert.Equal(t, tt.level, entry["level"])
			assert.Equal(t, "msg", entry["message"])
			assert.Equal(t, "record", entry["topic"])
		})
	}
}

func TestDispatcherLogger_Fields(t *testing.T) {
	var buf bytes.Buffer
	dl := NewDispatcherLogger(zerolog.New(&buf))

	dl.Error("record failed", "path", "a.rep", "count", 42, 7, "seven", "dangling")

	entry := decodeEntry(t, &buf)
	assert.Equal(t, "a.rep", entry["path"])
	assert.Equal(t, float64(42), entry["count"])
	assert.Equal(t, "seven", entry["7"])
	assert.NotContains(t, entry, "dangling")
}

func TestDispatcherLogger_ErrorValue(t *testing.T) {
	var buf bytes.Buffer
	NewDispatcherLogger(zerolog.New(&buf)).Error("failed", "error", errors.New("boom"))
	assert.Equal(t, "boom", decodeEntry(t, &buf)["error"])
}

func TestDispatcherLogger_LevelFiltered(t *testing.T) {
	var buf bytes.Buffer
	NewDispatcherLogger(zerolog.New(&buf).Level(zerolog.InfoLevel)).Debug("hidden")
	assert.Empty(t, buf.String())
}
