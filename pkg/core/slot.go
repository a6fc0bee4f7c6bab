// pkg/core/slot.go
package core

import "fmt"

// SlotKind identifies what occupies a seat.
type SlotKind uint8

const (
	SlotOpen SlotKind = iota
	SlotClosed
	SlotHuman
	SlotComputer
)

func (k SlotKind) String() string {
	switch k {
	case SlotOpen:
		return "Open"
	case SlotClosed:
		return "Closed"
	case SlotHuman:
		return "Human"
	case SlotComputer:
		return "Computer"
	}
	return fmt.Sprintf("SlotKind(%d)", uint8(k))
}

// Sentinels used by the match options for faction and color codes.
const (
	FactionObserver = -2
	FactionRandom   = -1
	ColorRandom     = -1

	FactionCount = 12
	ColorCount   = 8

	// NoPlayer marks open/closed seats.
	NoPlayer = -1
	// NoTeam is the stored team code of a player without a team.
	NoTeam = 0
	// FirstPlayerNum is the engine's number for the first occupied seat.
	FirstPlayerNum = 2
)

var factionNames = map[int]string{
	-2: "Observer", -1: "Random",
	0: "USA", 1: "China", 2: "GLA",
	3: "USA SW", 4: "USA Laser", 5: "USA Air",
	6: "China Tank", 7: "China Inf", 8: "China Nuke",
	9: "GLA Toxin", 10: "GLA Demo", 11: "GLA Stealth",
}

var colorNames = map[int]string{
	-1: "Random", 0: "Gold", 1: "Red", 2: "Blue", 3: "Green",
	4: "Orange", 5: "Cyan", 6: "Purple", 7: "Pink",
}

// FactionName returns the display name of a faction code.
func FactionName(code int) string {
	if n, ok := factionNames[code]; ok {
		return n
	}
	return "Unknown"
}

// ColorName returns the display name of a color code.
func ColorName(code int) string {
	if n, ok := colorNames[code]; ok {
		return n
	}
	return "Unknown"
}

// KnownFaction reports whether code is an observer, random or playable faction.
func KnownFaction(code int) bool {
	return code >= FactionObserver && code < FactionCount
}

// Slot is one seat of the match configuration.
type Slot struct {
	Index      int      `json:"index"` // position in the slot list
	Kind       SlotKind `json:"kind"`
	Name       string   `json:"name"`
	IP         string   `json:"ip"` // hex, humans only
	Port       string   `json:"port"`
	Difficulty string   `json:"difficulty"` // E, M or H for computers
	Color      int      `json:"color"`
	Faction    int      `json:"faction"`
	StartPos   int      `json:"startPos"`
	Team       int      `json:"team"`      // raw team + 1, NoTeam when unset
	PlayerNum  int      `json:"playerNum"` // NoPlayer for open/closed seats

	RandomFaction bool `json:"randomFaction"`
	RandomColor   bool `json:"randomColor"`
	Disconnected  bool `json:"disconnected"`
}

// Occupied reports whether a human or computer sits in the slot.
func (s Slot) Occupied() bool {
	return s.Kind == SlotHuman || s.Kind == SlotComputer
}

// Observer reports whether the seat only spectates.
func (s Slot) Observer() bool {
	return s.Occupied() && s.Faction == FactionObserver
}

// Team groups the players sharing a normalized team id.
type Team struct {
	ID      int   `json:"id"`
	Players []int `json:"players"`
}

// MatchOptions is the parsed match-options string.
type MatchOptions struct {
	MapPath       string            `json:"mapPath"`
	MapName       string            `json:"mapName"`
	MapCRC        string            `json:"mapCrc"`
	Seed          uint32            `json:"seed"`
	StartCash     int               `json:"startCash"`
	SWRestriction bool              `json:"swRestriction"`
	Slots         []Slot            `json:"slots"`
	Raw           map[string]string `json:"raw"`
}

// Players returns the occupied slots in slot order.
func (o MatchOptions) Players() []Slot {
	var out []Slot
	for _, s := range o.Slots {
		if s.Occupied() {
			out = append(out, s)
		}
	}
	return out
}

// HasComputer reports whether any seat is taken by the AI.
func (o MatchOptions) HasComputer() bool {
	for _, s := range o.Slots {
		if s.Kind == SlotComputer {
			return true
		}
	}
	return false
}

// Host returns the first slot of the list, which belongs to the game host.
func (o MatchOptions) Host() (Slot, bool) {
	for _, s := range o.Slots {
		if s.Index == 0 {
			return s, true
		}
	}
	return Slot{}, false
}
