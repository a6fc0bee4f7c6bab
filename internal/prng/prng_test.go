package prng

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhstats/genrep/pkg/core"
)

func TestNext_SeedZeroGolden(t *testing.T) {
	want := []uint32{
		1436176877, 659466229, 3894933472, 1991661106,
		2132492267, 3941127662, 1359026287, 1702175322,
	}
	g := New(0)
	for i, w := range want {
		assert.Equal(t, w, g.Next(), "draw %d", i)
	}
}

func TestValue_SeedZeroGolden(t *testing.T) {
	g := New(0)
	var got []int32
	for range 5 {
		got = append(got, g.Value(0, 1000))
	}
	assert.Equal(t, []int32{135, 422, 430, 435, 906}, got)
}

func TestValue_InRange(t *testing.T) {
	ranges := [][2]int32{{0, 1}, {0, 7}, {-5, 5}, {100, 100000}, {-2147483648, 2147483647}}
	for _, seed := range []uint32{0, 1, 7, 12345, 0xffffffff} {
		g := New(seed)
		for _, r := range ranges {
			for range 200 {
				v := g.Value(r[0], r[1])
				require.GreaterOrEqual(t, v, r[0])
				require.LessOrEqual(t, v, r[1])
			}
		}
	}
}

func TestValue_SingleValueRange(t *testing.T) {
	g := New(99)
	for _, x := range []int32{-3, 0, 1, 1000} {
		assert.Equal(t, x, g.Value(x, x))
	}
}

func TestValue_EmptyRangeReturnsHi(t *testing.T) {
	g := New(99)
	assert.Equal(t, int32(4), g.Value(5, 4))
}

func TestNew_IndependentState(t *testing.T) {
	a, b := New(5), New(5)
	a.Next()
	a.Next()
	fresh := New(5)
	assert.Equal(t, fresh.Next(), b.Next(), "draws on one generator must not affect another")
}

func slot(num, faction, color int) core.Slot {
	return core.Slot{Index: num - 2, Kind: core.SlotHuman, PlayerNum: num, Faction: faction, Color: color}
}

func TestResolve_Golden(t *testing.T) {
	tests := []struct {
		name  string
		seed  uint32
		in    [][2]int // faction, color
		wantF []int
		wantC []int
	}{
		{"mixed with observer", 12345, [][2]int{{-1, -1}, {2, 1}, {-1, -1}, {-2, -1}}, []int{6, 2, 1, -2}, []int{4, 1, 2, 7}},
		{"seed zero", 0, [][2]int{{-1, -1}, {-1, -1}}, []int{3, 10}, []int{5, 2}},
		{"explicit color reserved", 7, [][2]int{{-1, 3}, {0, -1}}, []int{9, 0}, []int{3, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var slots []core.Slot
			for i, fc := range tt.in {
				slots = append(slots, slot(i+2, fc[0], fc[1]))
			}
			got := Resolve(tt.seed, slots)
			for i := range got {
				assert.Equal(t, tt.wantF[i], got[i].Faction, "faction of player %d", i+2)
				assert.Equal(t, tt.wantC[i], got[i].Color, "color of player %d", i+2)
			}
			assert.Equal(t, core.FactionRandom, slots[0].Faction, "input must not be mutated")
		})
	}
}

func TestResolve_Flags(t *testing.T) {
	got := Resolve(1, []core.Slot{slot(2, -1, 0), slot(3, 1, -1), {Index: 2, Kind: core.SlotOpen, PlayerNum: core.NoPlayer, Faction: -1, Color: -1}})
	assert.True(t, got[0].RandomFaction)
	assert.False(t, got[0].RandomColor)
	assert.False(t, got[1].RandomFaction)
	assert.True(t, got[1].RandomColor)
	assert.Equal(t, -1, got[2].Faction, "open seats are never resolved")
}

func TestResolve_ColorsUnique(t *testing.T) {
	var slots []core.Slot
	for i := range 8 {
		slots = append(slots, slot(i+2, 0, -1))
	}
	got := Resolve(4242, slots)
	seen := map[int]bool{}
	for _, s := range got {
		require.False(t, seen[s.Color], "color %d assigned twice", s.Color)
		seen[s.Color] = true
	}
	assert.Len(t, seen, 8)
}

func TestResolve_Deterministic(t *testing.T) {
	slots := []core.Slot{slot(2, -1, -1), slot(3, -1, -1)}
	assert.Equal(t, Resolve(777, slots), Resolve(777, slots))
}
