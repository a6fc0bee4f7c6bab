// pkg/core/outcome.go
package core

// Status is a player's exit classification.
type Status uint8

const (
	StatusActive Status = iota
	StatusSurrendered
	StatusExited
	StatusIdleKicked
	StatusAmbiguous
)

func (s Status) String() string {
	switch s {
	case StatusSurrendered:
		return "Surrendered"
	case StatusExited:
		return "Exited"
	case StatusIdleKicked:
		return "IdleKicked"
	case StatusAmbiguous:
		return "Ambiguous"
	}
	return "Active"
}

// MarshalText renders the status name in serialized records.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Category is the coarse match-result classification.
type Category string

const (
	CategoryWin          Category = "Win"
	CategoryLoss         Category = "Loss"
	CategoryObserved     Category = "Observed"
	CategoryTeamWon      Category = "TeamWon"
	CategoryDesync       Category = "Desync"
	CategoryAIPresent    Category = "AIPresent"
	CategoryNoOpponents  Category = "NoOpponents"
	CategoryDCAtStart    Category = "DCAtStart"
	CategoryQuitNoWinner Category = "QuitNoWinner"
	CategoryInconclusive Category = "Inconclusive"
)

// HasWinner reports whether the category carries a winning team.
func (c Category) HasWinner() bool {
	return c == CategoryWin || c == CategoryLoss || c == CategoryObserved || c == CategoryTeamWon
}

// PlayerStatus is the per-player outcome record. Frames are zero when unset.
type PlayerStatus struct {
	PlayerNum      int    `json:"playerNum"`
	Team           int    `json:"team"`
	Status         Status `json:"status"`
	StatusFrame    uint32 `json:"statusFrame"`
	SurrenderFrame uint32 `json:"surrenderFrame,omitempty"`
	ExitFrame      uint32 `json:"exitFrame,omitempty"`
	AmbiguousFrame uint32 `json:"ambiguousFrame,omitempty"`
	IdleFrame      uint32 `json:"idleFrame,omitempty"`
	LastCRC        uint32 `json:"lastCrc,omitempty"`
	Placement      string `json:"placement,omitempty"`
}

// LastActivity is the latest frame at which the player was seen leaving.
func (p PlayerStatus) LastActivity() uint32 {
	return max(p.ExitFrame, p.SurrenderFrame, p.IdleFrame, p.AmbiguousFrame)
}

// TeamPlacement is the final rank of a team.
type TeamPlacement struct {
	Team int `json:"team"`
	Rank int `json:"rank"`
}

// MatchOutcome is the inferred result of a match.
type MatchOutcome struct {
	Strategy    string          `json:"strategy"`
	Players     []PlayerStatus  `json:"players"`
	Winners     []int           `json:"winners,omitempty"`
	WinningTeam int             `json:"winningTeam"` // 0 when there is no winner
	Valid       bool            `json:"valid"`
	Reason      string          `json:"reason"`
	Placement   []TeamPlacement `json:"placement,omitempty"`
	Category    Category        `json:"category"`
	EndFrame    uint32          `json:"endFrame"`

	OwnerNum        int  `json:"ownerNum"`
	OwnerOffset     int  `json:"ownerOffset"`
	OffsetConfident bool `json:"offsetConfident"`
}

// Player returns the status record of num.
func (o MatchOutcome) Player(num int) (PlayerStatus, bool) {
	for _, p := range o.Players {
		if p.PlayerNum == num {
			return p, true
		}
	}
	return PlayerStatus{}, false
}

// Rank returns the placement of a team, or 0 when unranked.
func (o MatchOutcome) Rank(team int) int {
	for _, tp := range o.Placement {
		if tp.Team == team {
			return tp.Rank
		}
	}
	return 0
}
