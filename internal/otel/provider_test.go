package otel

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/log"
	"go.opentelemetry.io/otel/metric/noop"

	"github.com/zhstats/genrep/internal/config"
)

func TestNew_Disabled(t *testing.T) {
	p, err := New(config.OTelConfig{}, nil)
	require.NoError(t, err)

	assert.False(t, p.Enabled())
	assert.Nil(t, p.LoggerProvider())
	assert.Equal(t, noop.Meter{}, p.Meter("genrep"))
	assert.NoError(t, p.Flush(context.Background()))
	assert.NoError(t, p.Shutdown(context.Background()))
}

func TestNew_NoExporter(t *testing.T) {
	_, err := New(config.OTelConfig{Enabled: true, ServiceName: "genrep"}, nil)
	assert.ErrorIs(t, err, ErrNoExporter)
}

func TestNew_FileExporter(t *testing.T) {
	var buf bytes.Buffer
	p, err := New(config.OTelConfig{Enabled: true, ServiceName: "genrep", BatchTimeout: time.Second}, &buf)
	require.NoError(t, err)
	require.NotNil(t, p.LoggerProvider())
	assert.NotNil(t, p.Meter("genrep"))

	var rec log.Record
	rec.SetBody(log.StringValue("exported"))
	p.LoggerProvider().Logger("test").Emit(context.Background(), rec)

	require.NoError(t, p.Flush(context.Background()))
	assert.Contains(t, buf.String(), "exported")
	assert.NoError(t, p.Shutdown(context.Background()))
}
