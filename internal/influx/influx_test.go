package influx

import (
	"compress/gzip"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"

	influxdb2_write "github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhstats/genrep/internal/config"
	"github.com/zhstats/genrep/pkg/core"
)

func testRecord() *core.Record {
	return &core.Record{
		Path:      "a.rep",
		Header:    core.Header{BeginTimestamp: 1700000000, Duration: 9000},
		MatchType: "1v1",
		MatchMode: "Online",
		Options: core.MatchOptions{
			MapName: "Tournament Desert",
			Slots: []core.Slot{
				{Index: 0, Kind: core.SlotHuman, PlayerNum: 2, Faction: 0},
				{Index: 1, Kind: core.SlotHuman, PlayerNum: 3, Faction: 1},
				{Index: 2, Kind: core.SlotHuman, PlayerNum: 4, Faction: core.FactionObserver},
			},
		},
		Outcome: core.MatchOutcome{Strategy: "quitcrc", Valid: true, WinningTeam: 2, Category: core.CategoryWin, EndFrame: 8000},
	}
}

func TestMatchPoint(t *testing.T) {
	p := MatchPoint(testRecord())
	line := influxdb2_write.PointToLineProtocol(p, 1)

	assert.True(t, strings.HasPrefix(line, "match_result,"), line)
	assert.Contains(t, line, `map=Tournament\ Desert`)
	assert.Contains(t, line, "match_type=1v1")
	assert.Contains(t, line, "category=Win")
	assert.Contains(t, line, "players=2i")
	assert.Contains(t, line, "winning_team=2i")
	assert.Contains(t, line, "valid=true")
	assert.True(t, strings.HasSuffix(line, " 1700000000000000000\n") || strings.HasSuffix(line, " 1700000000000000000"), line)
}

func TestMatchPoint_DropsEmptyTags(t *testing.T) {
	rec := testRecord()
	rec.MatchMode = ""
	line := influxdb2_write.PointToLineProtocol(MatchPoint(rec), 1)
	assert.NotContains(t, line, "match_mode=")
}

func TestConnect_Disabled(t *testing.T) {
	m := NewManager(zerolog.Nop(), config.InfluxConfig{})
	assert.Error(t, m.Connect(context.Background()))
}

func TestConnect_UnreachableWritesBackup(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()
	u, err := url.Parse(srv.URL)
	require.NoError(t, err)

	m := NewManager(zerolog.Nop(), config.InfluxConfig{
		Enabled:   true,
		Protocol:  "http",
		Host:      u.Hostname(),
		Port:      u.Port(),
		Org:       "genrep",
		Bucket:    "matches",
		BackupDir: t.TempDir(),
	})
	require.NoError(t, m.Connect(context.Background()))
	assert.False(t, m.IsValid)

	require.NoError(t, m.WriteRecord(testRecord()))
	require.NoError(t, m.Close())

	f, err := os.Open(m.BackupPath)
	require.NoError(t, err)
	defer f.Close()
	gz, err := gzip.NewReader(f)
	require.NoError(t, err)
	data, err := io.ReadAll(gz)
	require.NoError(t, err)

	assert.Contains(t, string(data), "match_result,")
	assert.Contains(t, string(data), " 1700000000\n")
}

func TestWritePoint_NoBackend(t *testing.T) {
	m := NewManager(zerolog.Nop(), config.InfluxConfig{})
	assert.Error(t, m.WriteRecord(testRecord()))
}
