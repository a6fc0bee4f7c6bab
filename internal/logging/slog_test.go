package logging

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdklog "go.opentelemetry.io/otel/sdk/log"
)

func TestSetup_FileKeepsConsoleQuiet(t *testing.T) {
	var console, file bytes.Buffer
	m := NewSlogManager()
	m.Setup(Options{Level: "info", Console: &console, File: &file})

	m.Logger().Info("hello file")
	m.Logger().Warn("careful")

	assert.Contains(t, file.String(), "hello file")
	assert.Contains(t, file.String(), "careful")
	assert.NotContains(t, console.String(), "hello file")
	assert.Contains(t, console.String(), "careful")
}

func TestSetup_NoFile_WritesToConsole(t *testing.T) {
	var console bytes.Buffer
	m := NewSlogManager()
	m.Setup(Options{Level: "info", Console: &console})
	m.Logger().Info("hello console")

	assert.Contains(t, console.String(), "hello console")
}

func TestSetup_Levels(t *testing.T) {
	tests := []struct {
		level     string
		wantDebug bool
		wantInfo  bool
	}{
		{"debug", true, true},
		{"info", false, true},
		{"error", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			var buf bytes.Buffer
			m := NewSlogManager()
			m.Setup(Options{Level: tt.level, Console: &buf})

			m.Logger().Debug("debug msg")
			m.Logger().Info("info msg")

			assert.Equal(t, tt.wantDebug, bytes.Contains(buf.Bytes(), []byte("debug msg")))
			assert.Equal(t, tt.wantInfo, bytes.Contains(buf.Bytes(), []byte("info msg")))
		})
	}
}

func TestSetup_RFC3339UTCTime(t *testing.T) {
	var buf bytes.Buffer
	m := NewSlogManager()
	m.Setup(Options{Level: "info", Console: &buf})
	m.Logger().Info("stamped")

	assert.Regexp(t, `time=\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}Z `, buf.String())
}

func TestSetup_ReplacesLogger(t *testing.T) {
	var first, second bytes.Buffer
	m := NewSlogManager()
	m.Setup(Options{Level: "info", Console: &first})
	m.Setup(Options{Level: "info", Console: &second})

	m.Logger().Info("after replace")
	assert.NotContains(t, first.String(), "after replace")
	assert.Contains(t, second.String(), "after replace")
}

func TestSetup_PhaseContext(t *testing.T) {
	var buf bytes.Buffer
	var phase Phase
	m := NewSlogManager()
	m.Setup(Options{Level: "info", Console: &buf, Context: phase.Attrs})

	m.Logger().Info("before")
	phase.Set("index")
	m.Logger().Info("during")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)
	assert.NotContains(t, string(lines[0]), "phase=")
	assert.Contains(t, string(lines[1]), "phase=index")
}

func TestSetup_WithOTelProvider(t *testing.T) {
	provider := sdklog.NewLoggerProvider()

	var buf bytes.Buffer
	m := NewSlogManager()
	m.Setup(Options{Level: "info", Console: &buf, Provider: provider})

	m.Logger().Info("otel integrated")
	assert.Contains(t, buf.String(), "otel integrated")
	assert.NoError(t, m.Flush(context.Background()))
}

func TestLogger_DefaultBeforeSetup(t *testing.T) {
	assert.Equal(t, slog.Default(), NewSlogManager().Logger())
}

func TestFlush_NilProvider(t *testing.T) {
	assert.NoError(t, NewSlogManager().Flush(context.Background()))
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"trace", slog.LevelInfo},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseLevel(tt.in), tt.in)
	}
}

func TestMultiHandler_FansOut(t *testing.T) {
	var buf1, buf2 bytes.Buffer
	multi := NewMultiHandler(
		slog.NewTextHandler(&buf1, nil),
		slog.NewTextHandler(&buf2, nil),
	)
	slog.New(multi).Info("fanned out")

	assert.Contains(t, buf1.String(), "fanned out")
	assert.Contains(t, buf2.String(), "fanned out")
}

func TestMultiHandler_FiltersNilHandlers(t *testing.T) {
	var buf bytes.Buffer
	multi := NewMultiHandler(nil, slog.NewTextHandler(&buf, nil), nil)
	require.Len(t, multi.handlers, 1)

	slog.New(multi).Info("works")
	assert.Contains(t, buf.String(), "works")
}

func TestMultiHandler_Enabled(t *testing.T) {
	infoHandler := slog.NewTextHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelInfo})
	debugHandler := slog.NewTextHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelDebug})

	infoOnly := NewMultiHandler(infoHandler)
	assert.False(t, infoOnly.Enabled(context.Background(), slog.LevelDebug))
	assert.True(t, infoOnly.Enabled(context.Background(), slog.LevelInfo))

	both := NewMultiHandler(infoHandler, debugHandler)
	assert.True(t, both.Enabled(context.Background(), slog.LevelDebug))

	assert.False(t, NewMultiHandler().Enabled(context.Background(), slog.LevelError))
}

func TestMultiHandler_WithAttrsAndGroup(t *testing.T) {
	var buf bytes.Buffer
	multi := NewMultiHandler(slog.NewTextHandler(&buf, nil))

	slog.New(multi.WithAttrs([]slog.Attr{slog.String("component", "index")})).Info("with attrs")
	slog.New(multi.WithGroup("grp")).Info("grouped", "key", "val")

	assert.Contains(t, buf.String(), "component=index")
	assert.Contains(t, buf.String(), "grp.key=val")
	assert.Equal(t, multi, multi.WithGroup(""))
}

// errorHandler is a slog.Handler that always fails.
type errorHandler struct {
	slog.Handler
}

func (h *errorHandler) Handle(context.Context, slog.Record) error {
	return errors.New("handler error")
}

func (h *errorHandler) Enabled(context.Context, slog.Level) bool {
	return true
}

func TestMultiHandler_HandleError(t *testing.T) {
	var buf bytes.Buffer
	spy := slog.NewTextHandler(&buf, nil)

	multi := NewMultiHandler(&errorHandler{}, spy)
	rec := slog.NewRecord(testTime, slog.LevelInfo, "should reach spy", 0)
	err := multi.Handle(context.Background(), rec)

	assert.EqualError(t, err, "handler error")
	assert.Contains(t, buf.String(), "should reach spy")
}

func TestContextHandler_SkipsEmptyAttrs(t *testing.T) {
	var buf bytes.Buffer
	h := NewContextHandler(slog.NewTextHandler(&buf, nil), func() []slog.Attr {
		return []slog.Attr{{}, slog.Int("worker", 3)}
	})
	slog.New(h.WithAttrs([]slog.Attr{slog.String("cmd", "scan")}).WithGroup("")).Info("ctx")

	assert.Contains(t, buf.String(), "worker=3")
	assert.Contains(t, buf.String(), "cmd=scan")
	assert.NotContains(t, buf.String(), "!BADKEY")
}

var testTime = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
