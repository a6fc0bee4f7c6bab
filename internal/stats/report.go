package stats

import (
	"bufio"
	"cmp"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
)

// Summary holds the batch counters printed at the end of the report.
type Summary struct {
	Scanned        int
	Duplicates     int
	ParseErrors    int
	InvalidVersion int
	UnknownFaction int
	AIGames        int
	UniqueNonAI    int
}

func percent(r float64) string {
	return fmt.Sprintf("%6.2f%%", r*100)
}

// WriteReport renders the win-rate report of a to w.
func (a *Aggregator) WriteReport(w io.Writer, sum Summary) error {
	bw := bufio.NewWriter(w)
	for _, c := range a.Categories() {
		writeCategory(bw, c)
	}

	t := a.Totals()
	fmt.Fprintln(bw, "--- Summary ---")
	fmt.Fprintf(bw, "Total replay files scanned: %d\n", sum.Scanned)
	fmt.Fprintf(bw, "Unique matches identified (including AI): %d\n", sum.UniqueNonAI+sum.AIGames)
	fmt.Fprintf(bw, "Duplicate replays marked for deletion: %d\n", sum.Duplicates)
	fmt.Fprintf(bw, "Skipped during scan (parsing errors): %d\n", sum.ParseErrors)
	fmt.Fprintf(bw, "Skipped during scan (invalid version): %d\n", sum.InvalidVersion)
	fmt.Fprintf(bw, "Unknown faction replays marked for deletion: %d\n", sum.UnknownFaction)
	fmt.Fprintf(bw, "Unique AI replays marked for deletion: %d\n", sum.AIGames)
	fmt.Fprintf(bw, "Unique non-AI matches processed for stats: %d\n", t.Processed)
	fmt.Fprintf(bw, "Errors during unique non-AI replay processing: %d\n", t.Errors)
	fmt.Fprintf(bw, "Unique non-AI matches with valid winners (used for stats): %d\n", a.ValidWinners())
	fmt.Fprintf(bw, "Unique non-AI matches without valid winners (Not listed): %d\n", t.NoWinner)
	return bw.Flush()
}

// WriteReportFile writes the report to path, replacing any existing file.
func (a *Aggregator) WriteReportFile(path string, sum Summary) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating report: %w", err)
	}
	if err := a.WriteReport(f, sum); err != nil {
		f.Close()
		return fmt.Errorf("error writing report: %w", err)
	}
	return f.Close()
}

func writeCategory(w io.Writer, c *Category) {
	title, note, listNote := "", "", " (Non-AI)"
	if c.ProMaps() {
		title, note, listNote = " (Pro Maps)", " (Pro Maps Only)", " (Pro Maps Only, Non-AI)"
	}
	fmt.Fprintf(w, "--- Match Type: %s%s ---\n\n", c.Name, title)

	if !c.ProMaps() {
		fmt.Fprintf(w, "Replays with Winners (Unique Longest%s):\n", listNote)
		if len(c.Replays) == 0 {
			fmt.Fprintln(w, "  (No valid replays recorded for this type)")
		}
		replays := slices.Clone(c.Replays)
		slices.SortStableFunc(replays, func(a, b ReplayDetail) int { return strings.Compare(a.File, b.File) })
		for _, r := range replays {
			fmt.Fprintf(w, "  Replay: %s\n", r.File)
			if len(r.Players) == 0 {
				fmt.Fprintln(w, "    (No player data found)")
			}
			players := slices.Clone(r.Players)
			slices.SortStableFunc(players, func(a, b ReplayPlayer) int {
				return cmp.Or(strings.Compare(placementKey(a), placementKey(b)), strings.Compare(a.Name, b.Name))
			})
			for _, p := range players {
				fmt.Fprintf(w, "    %-25s %-20s %s\n", p.Name, p.Faction, p.Placement)
			}
			fmt.Fprintln(w)
		}
		fmt.Fprintln(w)
	}

	if strings.HasPrefix(c.Name, "1v1") {
		fmt.Fprintf(w, "Matchup Win Rates%s (excluding mirrors):\n", note)
		if len(c.Matchups) == 0 {
			fmt.Fprintln(w, "  (No non-mirror 1v1 matchups found)")
		}
		keys := make([]Matchup, 0, len(c.Matchups))
		for k := range c.Matchups {
			keys = append(keys, k)
		}
		slices.SortFunc(keys, func(a, b Matchup) int {
			return cmp.Or(strings.Compare(a.Faction1, b.Faction1), strings.Compare(a.Faction2, b.Faction2))
		})
		for _, k := range keys {
			ms := c.Matchups[k]
			if ms.Replays == 0 {
				continue
			}
			r1 := float64(ms.Faction1Wins) / float64(ms.Replays)
			r2 := float64(ms.Faction2Wins) / float64(ms.Replays)
			switch {
			case r1 > r2:
				fmt.Fprintf(w, "  %-20s vs %-20s: %s wins %s (%d replays)\n", k.Faction1, k.Faction2, k.Faction1, percent(r1), ms.Replays)
			case r2 > r1:
				fmt.Fprintf(w, "  %-20s vs %-20s: %s wins %s (%d replays)\n", k.Faction2, k.Faction1, k.Faction2, percent(r2), ms.Replays)
			default:
				fmt.Fprintf(w, "  %-20s vs %-20s: 50.00%% win rate (%d replays)\n", k.Faction1, k.Faction2, ms.Replays)
			}
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Overall Win Rates%s (Player-Based, Non-AI):\n", note)
	if len(c.Factions) == 0 {
		fmt.Fprintln(w, "  (No faction data available for win rate calculation)")
	}
	factions := make([]string, 0, len(c.Factions))
	for f := range c.Factions {
		factions = append(factions, f)
	}
	slices.Sort(factions)
	for _, f := range factions {
		fs := c.Factions[f]
		if fs.GamesPlayed == 0 {
			fmt.Fprintf(w, "  %-20s: No games played\n", f)
			continue
		}
		fmt.Fprintf(w, "  %-20s: %s (%d wins / %d games played)\n", f, percent(fs.Rate()), fs.Wins, fs.GamesPlayed)
	}
	fmt.Fprint(w, "\n\n")
}

// placementKey sorts unplaced players last.
func placementKey(p ReplayPlayer) string {
	if p.Placement == "" {
		return "Z"
	}
	return p.Placement
}
