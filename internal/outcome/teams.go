package outcome

import (
	"slices"
	"strconv"
	"strings"

	"github.com/zhstats/genrep/pkg/core"
)

// Teams groups the playing seats (observers excluded) by team. Seats without
// a team each get a fresh singleton team numbered after the highest team in
// use. The result is ordered by team id.
func Teams(slots []core.Slot) []core.Team {
	byID := map[int][]int{}
	var loners []int
	for _, s := range slots {
		if !s.Occupied() || s.Observer() {
			continue
		}
		if s.Team == core.NoTeam {
			loners = append(loners, s.PlayerNum)
			continue
		}
		byID[s.Team] = append(byID[s.Team], s.PlayerNum)
	}

	next := 1
	for id := range byID {
		next = max(next, id+1)
	}
	for _, num := range loners {
		byID[next] = []int{num}
		next++
	}

	out := make([]core.Team, 0, len(byID))
	for id, players := range byID {
		out = append(out, core.Team{ID: id, Players: players})
	}
	slices.SortFunc(out, func(a, b core.Team) int { return a.ID - b.ID })
	return out
}

// TeamOf returns the team id of player num, or core.NoTeam.
func TeamOf(teams []core.Team, num int) int {
	for _, t := range teams {
		if slices.Contains(t.Players, num) {
			return t.ID
		}
	}
	return core.NoTeam
}

// MatchType renders sorted team sizes joined by "v", e.g. "1v1" or "1v2v2".
func MatchType(teams []core.Team) string {
	if len(teams) == 0 {
		return "Unknown"
	}
	var sizes []int
	for _, t := range teams {
		if len(t.Players) > 0 {
			sizes = append(sizes, len(t.Players))
		}
	}
	if len(sizes) == 0 {
		return "Empty"
	}
	slices.Sort(sizes)
	parts := make([]string, len(sizes))
	for i, n := range sizes {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, "v")
}

// Renumber shifts player numbers so the first occupied seat gets offset.
func Renumber(slots []core.Slot, offset int) []core.Slot {
	out := slices.Clone(slots)
	for i := range out {
		if out[i].PlayerNum != core.NoPlayer {
			out[i].PlayerNum += offset - core.FirstPlayerNum
		}
	}
	return out
}
