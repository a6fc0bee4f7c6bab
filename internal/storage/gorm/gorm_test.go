package gormstorage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhstats/genrep/internal/database"
	"github.com/zhstats/genrep/internal/model"
	"github.com/zhstats/genrep/pkg/core"
)

func newTestBackend(t *testing.T) *Backend {
	t.Helper()
	m := database.NewManager(zerolog.Nop())
	require.NoError(t, m.Connect(database.DriverSQLite, filepath.Join(t.TempDir(), "records.db")))
	t.Cleanup(func() { m.Close() })

	return New(Dependencies{
		DB:            m.DB,
		Logger:        zerolog.Nop(),
		MatchKey:      func(path string) string { return "key:" + path },
		FlushInterval: time.Hour,
	})
}

func record(path string, winner int) *core.Record {
	return &core.Record{
		Path:      path,
		MatchType: "1v1",
		Options: core.MatchOptions{
			MapName: "Tournament Desert",
			Slots: []core.Slot{
				{Index: 0, Kind: core.SlotHuman, Name: "alpha", PlayerNum: 2, Team: 1},
				{Index: 1, Kind: core.SlotHuman, Name: "bravo", PlayerNum: 3, Team: 2},
			},
		},
		Outcome: core.MatchOutcome{
			Valid:       true,
			WinningTeam: winner,
			Category:    core.CategoryWin,
			Players: []core.PlayerStatus{
				{PlayerNum: 2, Team: 2, Placement: "1st"},
				{PlayerNum: 3, Team: 3, Status: core.StatusExited, Placement: "2nd"},
			},
		},
	}
}

func TestInit_NoDB(t *testing.T) {
	b := New(Dependencies{Logger: zerolog.Nop()})
	assert.Error(t, b.Init())
}

func TestStore_QueuesUntilFlush(t *testing.T) {
	b := newTestBackend(t)
	require.NoError(t, b.Init())
	defer b.Close()

	require.NoError(t, b.Store(record("a.rep", 2)))
	require.NoError(t, b.Store(record("b.rep", 3)))
	assert.Equal(t, 2, b.Pending())

	require.NoError(t, b.Flush())
	assert.Equal(t, 0, b.Pending())

	var matches []model.Match
	require.NoError(t, b.deps.DB.Preload("Players").Order("path").Find(&matches).Error)
	require.Len(t, matches, 2)
	assert.Equal(t, "key:a.rep", matches[0].MatchKey)
	assert.Len(t, matches[0].Players, 2)
	assert.Equal(t, 3, matches[1].WinningTeam)
}

func TestFlush_ReplacesSamePath(t *testing.T) {
	b := newTestBackend(t)
	require.NoError(t, b.Init())
	defer b.Close()

	require.NoError(t, b.Store(record("a.rep", 2)))
	require.NoError(t, b.Flush())
	require.NoError(t, b.Store(record("a.rep", 3)))
	require.NoError(t, b.Store(record("a.rep", 1)))
	require.NoError(t, b.Flush())

	var matches []model.Match
	require.NoError(t, b.deps.DB.Find(&matches).Error)
	require.Len(t, matches, 1)
	assert.Equal(t, 1, matches[0].WinningTeam)

	var players int64
	require.NoError(t, b.deps.DB.Model(&model.MatchPlayer{}).Count(&players).Error)
	assert.Equal(t, int64(2), players)
}

func TestClose_FlushesPending(t *testing.T) {
	b := newTestBackend(t)
	require.NoError(t, b.Init())
	require.NoError(t, b.Store(record("a.rep", 2)))
	require.NoError(t, b.Close())

	var n int64
	require.NoError(t, b.deps.DB.Model(&model.Match{}).Count(&n).Error)
	assert.Equal(t, int64(1), n)
}

func TestLatestPerPath(t *testing.T) {
	got := latestPerPath([]model.Match{
		{Path: "a", WinningTeam: 1},
		{Path: "b", WinningTeam: 1},
		{Path: "a", WinningTeam: 2},
	})
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[0].Path)
	assert.Equal(t, "a", got[1].Path)
	assert.Equal(t, 2, got[1].WinningTeam)
}
