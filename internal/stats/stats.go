// Package stats aggregates faction win rates over decoded matches.
package stats

import (
	"cmp"
	"errors"
	"slices"
	"strings"
	"sync"

	"github.com/zhstats/genrep/pkg/core"
)

// ProMapsSuffix marks the curated-map category derived from a match type.
const ProMapsSuffix = "_Pro_Maps"

var (
	// ErrNoWinner is returned for records that carry no usable winner.
	ErrNoWinner = errors.New("no valid winner")
	// ErrUnknownFaction is returned when a player's faction cannot be named.
	ErrUnknownFaction = errors.New("unknown faction")
)

var proMapSet = func() map[string]bool {
	m := make(map[string]bool, len(proMaps))
	for _, name := range proMaps {
		m[strings.ToLower(name)] = true
	}
	return m
}()

// IsProMap reports whether name is on the curated map list, ignoring case.
func IsProMap(name string) bool {
	return proMapSet[strings.ToLower(name)]
}

// FactionStats counts player-based results of one faction.
type FactionStats struct {
	Wins        int
	GamesPlayed int
}

// Rate is the share of games won.
func (f FactionStats) Rate() float64 {
	if f.GamesPlayed == 0 {
		return 0
	}
	return float64(f.Wins) / float64(f.GamesPlayed)
}

// Matchup is a non-mirror 1v1 pairing with Faction1 < Faction2.
type Matchup struct {
	Faction1 string
	Faction2 string
}

// MatchupStats counts results of one matchup.
type MatchupStats struct {
	Faction1Wins int
	Faction2Wins int
	Replays      int
}

// ReplayPlayer is one listed player of a replay.
type ReplayPlayer struct {
	Name      string
	Faction   string
	Placement string
}

// ReplayDetail lists the players of one replay with a winner.
type ReplayDetail struct {
	File    string
	Players []ReplayPlayer
}

// Category holds everything aggregated for one match type or derived category.
type Category struct {
	Name     string
	Factions map[string]*FactionStats
	Matchups map[Matchup]*MatchupStats
	Replays  []ReplayDetail
}

func newCategory(name string) *Category {
	c := &Category{Name: name, Factions: map[string]*FactionStats{}}
	if strings.HasPrefix(name, "1v1") {
		c.Matchups = map[Matchup]*MatchupStats{}
	}
	return c
}

// ProMaps reports whether c is a curated-map category.
func (c *Category) ProMaps() bool {
	return strings.HasSuffix(c.Name, ProMapsSuffix)
}

// Totals counts records seen by the aggregator.
type Totals struct {
	Processed int
	Errors    int
	NoWinner  int
}

// Aggregator collects per-category statistics. It is safe for concurrent use.
type Aggregator struct {
	mu         sync.Mutex
	categories map[string]*Category
	totals     Totals
}

// NewAggregator returns an empty aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{categories: map[string]*Category{}}
}

// result is what one record contributes.
type result struct {
	matchType string
	proMap    bool
	detail    ReplayDetail
	factions  map[string]*FactionStats
	matchup   *Matchup
	f1Win     int
}

func classify(rec *core.Record) (*result, error) {
	players := rec.Options.Players()
	for _, s := range players {
		if !core.KnownFaction(s.Faction) {
			return nil, ErrUnknownFaction
		}
	}
	if rec.Options.HasComputer() || rec.MatchType == "" || rec.MatchType == "Unknown" {
		return nil, ErrNoWinner
	}
	o := rec.Outcome
	if !o.Valid || o.WinningTeam == core.NoTeam {
		return nil, ErrNoWinner
	}

	r := &result{
		matchType: rec.MatchType,
		proMap:    rec.MatchType == "1v1" && IsProMap(rec.Options.MapName),
		detail:    ReplayDetail{File: rec.Path},
		factions:  map[string]*FactionStats{},
	}
	teamFaction := map[int]string{}
	for _, s := range players {
		if s.Observer() {
			continue
		}
		faction := core.FactionName(s.Faction)
		st, _ := o.Player(s.PlayerNum)
		r.detail.Players = append(r.detail.Players, ReplayPlayer{Name: s.Name, Faction: faction, Placement: st.Placement})

		fs, ok := r.factions[faction]
		if !ok {
			fs = &FactionStats{}
			r.factions[faction] = fs
		}
		fs.GamesPlayed++
		if st.Team == o.WinningTeam {
			fs.Wins++
		}
		if rec.MatchType == "1v1" {
			teamFaction[st.Team] = faction
		}
	}

	if len(teamFaction) == 2 {
		var fs []string
		for _, f := range teamFaction {
			fs = append(fs, f)
		}
		slices.Sort(fs)
		winner, ok := teamFaction[o.WinningTeam]
		if fs[0] != fs[1] && ok {
			r.matchup = &Matchup{Faction1: fs[0], Faction2: fs[1]}
			if winner == fs[0] {
				r.f1Win = 1
			}
		}
	}
	return r, nil
}

// Add aggregates rec. It returns ErrNoWinner or ErrUnknownFaction when the
// record does not contribute.
func (a *Aggregator) Add(rec *core.Record) error {
	r, err := classify(rec)

	a.mu.Lock()
	defer a.mu.Unlock()
	a.totals.Processed++
	switch {
	case errors.Is(err, ErrNoWinner):
		a.totals.NoWinner++
		return err
	case err != nil:
		a.totals.Errors++
		a.totals.NoWinner++
		return err
	}

	keys := []string{r.matchType}
	if r.proMap {
		keys = append(keys, r.matchType+ProMapsSuffix)
	}
	for _, key := range keys {
		c, ok := a.categories[key]
		if !ok {
			c = newCategory(key)
			a.categories[key] = c
		}
		if key == r.matchType {
			c.Replays = append(c.Replays, r.detail)
		}
		for faction, fs := range r.factions {
			agg, ok := c.Factions[faction]
			if !ok {
				agg = &FactionStats{}
				c.Factions[faction] = agg
			}
			agg.Wins += fs.Wins
			agg.GamesPlayed += fs.GamesPlayed
		}
		if c.Matchups != nil && r.matchup != nil {
			ms, ok := c.Matchups[*r.matchup]
			if !ok {
				ms = &MatchupStats{}
				c.Matchups[*r.matchup] = ms
			}
			ms.Faction1Wins += r.f1Win
			ms.Faction2Wins += 1 - r.f1Win
			ms.Replays++
		}
	}
	return nil
}

// AddError counts a file that failed to decode.
func (a *Aggregator) AddError() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.totals.Processed++
	a.totals.Errors++
	a.totals.NoWinner++
}

// Totals returns the record counters.
func (a *Aggregator) Totals() Totals {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.totals
}

// ValidWinners counts replays listed under primary match types.
func (a *Aggregator) ValidWinners() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	n := 0
	for _, c := range a.categories {
		if !c.ProMaps() {
			n += len(c.Replays)
		}
	}
	return n
}

// Categories returns the categories ordered by match-type prefix, then name.
func (a *Aggregator) Categories() []*Category {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]*Category, 0, len(a.categories))
	for _, c := range a.categories {
		out = append(out, c)
	}
	slices.SortFunc(out, func(x, y *Category) int {
		px, _, _ := strings.Cut(x.Name, "_")
		py, _, _ := strings.Cut(y.Name, "_")
		return cmp.Or(cmp.Compare(px, py), cmp.Compare(x.Name, y.Name))
	})
	return out
}
