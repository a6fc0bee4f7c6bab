package index

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhstats/genrep/internal/database"
	"github.com/zhstats/genrep/internal/decode"
	"github.com/zhstats/genrep/pkg/core"
)

func summary(path string, duration uint32, slots ...core.Slot) *decode.Summary {
	if len(slots) == 0 {
		slots = []core.Slot{
			{Index: 0, Kind: core.SlotHuman, Name: "bravo", Faction: 2, PlayerNum: 2},
			{Index: 1, Kind: core.SlotHuman, Name: "alpha", Faction: 0, PlayerNum: 3},
		}
	}
	return &decode.Summary{
		Path:    path,
		Header:  core.Header{BeginTimestamp: 1700000010, Duration: duration},
		Options: core.MatchOptions{MapName: "Tournament  Desert", Seed: 42, Slots: slots},
	}
}

func newIndex(t *testing.T) *Index {
	t.Helper()
	m := database.NewManager(zerolog.Nop())
	require.NoError(t, m.Connect(database.DriverSQLite, filepath.Join(t.TempDir(), "index.db")))
	t.Cleanup(func() { m.Close() })

	ix, err := New(m.DB, zerolog.Nop())
	require.NoError(t, err)
	return ix
}

func TestKey(t *testing.T) {
	key, err := Key(summary("a.rep", 100))
	require.NoError(t, err)
	assert.Equal(t, "42_tournament_desert_1700000040_385da55634a4e717d99342a2c47cd0ec", key)
}

func TestKey_IgnoresObserversAndSlotOrder(t *testing.T) {
	base, err := Key(summary("a.rep", 100))
	require.NoError(t, err)

	reordered := summary("b.rep", 100,
		core.Slot{Index: 0, Kind: core.SlotHuman, Name: "alpha", Faction: 0, PlayerNum: 2},
		core.Slot{Index: 1, Kind: core.SlotHuman, Name: "watcher", Faction: core.FactionObserver, PlayerNum: 3},
		core.Slot{Index: 2, Kind: core.SlotHuman, Name: "bravo", Faction: 2, PlayerNum: 4},
	)
	got, err := Key(reordered)
	require.NoError(t, err)
	assert.Equal(t, base, got)
}

func TestKey_RoundsHalfToEven(t *testing.T) {
	tests := []struct {
		ts   uint32
		want string
	}{
		{30, "_0_"},
		{90, "_120_"},
		{89, "_60_"},
	}
	for _, tt := range tests {
		s := summary("a.rep", 1)
		s.Header.BeginTimestamp = tt.ts
		key, err := Key(s)
		require.NoError(t, err)
		assert.Contains(t, key, tt.want)
	}
}

func TestKey_ComputersAreLabelled(t *testing.T) {
	human := core.Slot{Index: 0, Kind: core.SlotHuman, Name: "alpha", Faction: 0, PlayerNum: 2}
	easy := summary("a.rep", 1, human, core.Slot{Index: 1, Kind: core.SlotComputer, Name: "Easy AI", Difficulty: "E", Faction: 1, PlayerNum: 3})
	hard := summary("b.rep", 1, human, core.Slot{Index: 1, Kind: core.SlotComputer, Name: "Brutal AI", Difficulty: "H", Faction: 1, PlayerNum: 3})

	k1, err := Key(easy)
	require.NoError(t, err)
	k2, err := Key(hard)
	require.NoError(t, err)
	assert.NotEqual(t, k1, k2)
}

func TestKey_UnknownMap(t *testing.T) {
	s := summary("a.rep", 1)
	s.Options.MapName = "Unknown Map"
	_, err := Key(s)
	assert.ErrorIs(t, err, ErrNoMatchKey)
}

func TestIndex_Add(t *testing.T) {
	ix := newIndex(t)

	d, err := ix.Add(summary("short.rep", 100))
	require.NoError(t, err)
	assert.Equal(t, Unique, d)

	d, err = ix.Add(summary("long.rep", 200))
	require.NoError(t, err)
	assert.Equal(t, Replaced, d)

	d, err = ix.Add(summary("same.rep", 200))
	require.NoError(t, err)
	assert.Equal(t, Duplicate, d)

	paths, err := ix.Unique()
	require.NoError(t, err)
	assert.Equal(t, []string{"long.rep"}, paths)

	marks, err := ix.Marked()
	require.NoError(t, err)
	require.Len(t, marks, 2)
	assert.Equal(t, "same.rep", marks[0].Path)
	assert.Equal(t, "short.rep", marks[1].Path)
	assert.Equal(t, ReasonDuplicate, marks[1].Reason)
}

func TestIndex_ReaddSamePathIsUnique(t *testing.T) {
	ix := newIndex(t)
	_, err := ix.Add(summary("a.rep", 100))
	require.NoError(t, err)

	d, err := ix.Add(summary("a.rep", 100))
	require.NoError(t, err)
	assert.Equal(t, Unique, d)

	marks, err := ix.Marked()
	require.NoError(t, err)
	assert.Empty(t, marks)
}

func TestIndex_MarkAI(t *testing.T) {
	ix := newIndex(t)
	human := core.Slot{Index: 0, Kind: core.SlotHuman, Name: "alpha", Faction: 0, PlayerNum: 2}
	cpu := core.Slot{Index: 1, Kind: core.SlotComputer, Difficulty: "M", Faction: 1, PlayerNum: 3}

	_, err := ix.Add(summary("ai.rep", 100, human, cpu))
	require.NoError(t, err)
	_, err = ix.Add(summary("pvp.rep", 100))
	require.NoError(t, err)

	n, err := ix.MarkAI()
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	paths, err := ix.Unique()
	require.NoError(t, err)
	assert.Equal(t, []string{"pvp.rep"}, paths)

	marks, err := ix.Marked()
	require.NoError(t, err)
	require.Len(t, marks, 1)
	assert.Equal(t, ReasonAI, marks[0].Reason)
}

func TestIndex_ReloadKeepsKeys(t *testing.T) {
	m := database.NewManager(zerolog.Nop())
	require.NoError(t, m.Connect(database.DriverSQLite, filepath.Join(t.TempDir(), "index.db")))
	t.Cleanup(func() { m.Close() })

	ix, err := New(m.DB, zerolog.Nop())
	require.NoError(t, err)
	_, err = ix.Add(summary("a.rep", 100))
	require.NoError(t, err)

	reopened, err := New(m.DB, zerolog.Nop())
	require.NoError(t, err)
	d, err := reopened.Add(summary("b.rep", 50))
	require.NoError(t, err)
	assert.Equal(t, Duplicate, d)
}

func TestIndex_Delete(t *testing.T) {
	ix := newIndex(t)
	dir := t.TempDir()
	present := filepath.Join(dir, "present.rep")
	require.NoError(t, os.WriteFile(present, []byte("x"), 0644))

	require.NoError(t, ix.MarkDelete(present, ReasonUnknownFaction))
	require.NoError(t, ix.MarkDelete(filepath.Join(dir, "gone.rep"), ReasonUnknownFaction))
	require.NoError(t, ix.MarkDelete(present, ReasonUnknownFaction), "marking twice is a no-op")

	n, err := ix.Delete()
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	_, err = os.Stat(present)
	assert.ErrorIs(t, err, os.ErrNotExist)

	marks, err := ix.Marked()
	require.NoError(t, err)
	assert.Empty(t, marks)
}

func TestDecision_String(t *testing.T) {
	assert.Equal(t, "unique", Unique.String())
	assert.Equal(t, "replaced", Replaced.String())
	assert.Equal(t, "duplicate", Duplicate.String())
}
