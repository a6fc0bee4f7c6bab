// pkg/core/record.go
package core

// Footprint summarizes where a player issued location commands.
type Footprint struct {
	PlayerNum int     `json:"playerNum"`
	Points    int     `json:"points"`
	MinX      float64 `json:"minX"`
	MinY      float64 `json:"minY"`
	MaxX      float64 `json:"maxX"`
	MaxY      float64 `json:"maxY"`
	CentroidX float64 `json:"centroidX"`
	CentroidY float64 `json:"centroidY"`
	// PathLength is the length of the line through the points in command order.
	PathLength float64 `json:"pathLength"`
}

// Record is everything decoded from one replay file.
type Record struct {
	Path       string       `json:"path"`
	Header     Header       `json:"header"`
	Options    MatchOptions `json:"options"`
	Teams      []Team       `json:"teams"`
	MatchType  string       `json:"matchType"`
	MatchMode  string       `json:"matchMode"`
	Messages   []Message    `json:"messages,omitempty"`
	Truncated  bool         `json:"truncated"`
	StreamErr  string       `json:"streamError,omitempty"`
	Outcome    MatchOutcome `json:"outcome"`
	Footprints []Footprint  `json:"footprints,omitempty"`
}

// Slot returns the slot seated by player num.
func (r *Record) Slot(num int) (Slot, bool) {
	for _, s := range r.Options.Slots {
		if s.Occupied() && s.PlayerNum == num {
			return s, true
		}
	}
	return Slot{}, false
}

// Owner returns the slot of the player who recorded the replay.
func (r *Record) Owner() (Slot, bool) {
	return r.Slot(r.Outcome.OwnerNum)
}
