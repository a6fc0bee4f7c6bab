package prng

import (
	"slices"

	"github.com/zhstats/genrep/pkg/core"
)

// factionWarmup is the number of throwaway draws per seed residue the engine
// makes before picking each random faction.
const factionWarmup = 7

// maxColorAttempts bounds the random color draws for a single seat.
const maxColorAttempts = core.ColorCount * 2

// Resolve returns a copy of slots with every random faction and color
// replaced by the value the engine picked for seed. Seats are processed in
// player-number order and each seat resolves faction before color.
func Resolve(seed uint32, slots []core.Slot) []core.Slot {
	out := slices.Clone(slots)
	g := New(seed)

	var taken [core.ColorCount]bool
	for _, s := range out {
		if s.Occupied() && s.Color >= 0 && s.Color < core.ColorCount {
			taken[s.Color] = true
		}
	}

	order := make([]int, 0, len(out))
	for i, s := range out {
		if s.Occupied() {
			order = append(order, i)
		}
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return out[a].PlayerNum - out[b].PlayerNum
	})

	for _, i := range order {
		s := &out[i]
		if s.Faction == core.FactionRandom {
			s.Faction = randomFaction(g, seed)
			s.RandomFaction = true
		}
		if s.Color == core.ColorRandom {
			s.Color = randomColor(g, &taken)
			s.RandomColor = true
		}
	}
	return out
}

func randomFaction(g *Generator, seed uint32) int {
	for range seed % factionWarmup {
		g.Value(0, 1)
	}
	return int(g.Value(0, 1000)) % core.FactionCount
}

func randomColor(g *Generator, taken *[core.ColorCount]bool) int {
	for range maxColorAttempts {
		c := g.Value(0, core.ColorCount-1)
		if !taken[c] {
			taken[c] = true
			return int(c)
		}
	}
	for c := range taken {
		if !taken[c] {
			taken[c] = true
			return c
		}
	}
	return core.ColorRandom
}
