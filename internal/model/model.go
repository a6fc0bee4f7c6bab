package model

import (
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/zhstats/genrep/pkg/core"
)

////////////////////////
// DATABASE STRUCTURES //
////////////////////////

// DatabaseModels is a list of all the structs exported here which represent tables in the database schema
var DatabaseModels = []interface{}{
	&UniqueMatch{},
	&DeleteMark{},
	&Match{},
	&MatchPlayer{},
}

// IndexModels are the tables of the duplicate-match index.
var IndexModels = []interface{}{
	&UniqueMatch{},
	&DeleteMark{},
}

////////////////////////
// INDEX MODELS
////////////////////////

// UniqueMatch keeps the longest replay seen for a match key.
type UniqueMatch struct {
	MatchKey  string    `json:"matchKey" gorm:"primaryKey;size:255"`
	Path      string    `json:"path" gorm:"size:1024"`
	Duration  uint32    `json:"duration"` // frames
	IsAI      bool      `json:"isAI" gorm:"index:idx_unique_match_ai"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (*UniqueMatch) TableName() string {
	return "unique_matches"
}

// DeleteMark is a replay file scheduled for removal.
type DeleteMark struct {
	Path      string    `json:"path" gorm:"primaryKey;size:1024"`
	Reason    string    `json:"reason" gorm:"size:64;index:idx_delete_mark_reason"`
	MatchKey  string    `json:"matchKey" gorm:"size:255"`
	CreatedAt time.Time `json:"createdAt"`
}

func (*DeleteMark) TableName() string {
	return "delete_marks"
}

////////////////////////
// RECORD MODELS
////////////////////////

// Match is one decoded replay.
type Match struct {
	gorm.Model
	Path        string         `json:"path" gorm:"size:1024;uniqueIndex:idx_match_path"`
	MatchKey    string         `json:"matchKey" gorm:"size:255;index:idx_match_key"`
	ReplayName  string         `json:"replayName" gorm:"size:255"`
	Version     string         `json:"version" gorm:"size:64"`
	MapName     string         `json:"mapName" gorm:"size:255;index:idx_match_map"`
	MapPath     string         `json:"mapPath" gorm:"size:512"`
	Seed        uint32         `json:"seed"`
	StartCash   int            `json:"startCash"`
	BeginTime   time.Time      `json:"beginTime" gorm:"index:idx_match_begin"`
	Duration    uint32         `json:"duration"` // frames
	EndFrame    uint32         `json:"endFrame"`
	Desync      bool           `json:"desync"`
	MatchType   string         `json:"matchType" gorm:"size:32;index:idx_match_type"`
	MatchMode   string         `json:"matchMode" gorm:"size:64"`
	Strategy    string         `json:"strategy" gorm:"size:16"`
	Category    string         `json:"category" gorm:"size:32"`
	Valid       bool           `json:"valid"`
	WinningTeam int            `json:"winningTeam"`
	Reason      string         `json:"reason" gorm:"size:255"`
	OwnerNum    int            `json:"ownerNum"`
	Truncated   bool           `json:"truncated"`
	StreamErr   string         `json:"streamError" gorm:"size:512"`
	Placement   datatypes.JSON `json:"placement"`
	Footprints  datatypes.JSON `json:"footprints"`
	Players     []MatchPlayer  `json:"players" gorm:"foreignKey:MatchID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

func (*Match) TableName() string {
	return "matches"
}

// MatchPlayer is one occupied seat of a match with its outcome.
type MatchPlayer struct {
	ID             uint   `json:"id" gorm:"primarykey"`
	MatchID        uint   `json:"matchId" gorm:"index:idx_match_player_match"`
	PlayerNum      int    `json:"playerNum"`
	SlotIndex      int    `json:"slotIndex"`
	Name           string `json:"name" gorm:"size:64;index:idx_match_player_name"`
	Kind           string `json:"kind" gorm:"size:16"`
	Faction        int    `json:"faction"`
	FactionName    string `json:"factionName" gorm:"size:32"`
	RandomFaction  bool   `json:"randomFaction"`
	Color          string `json:"color" gorm:"size:16"`
	Team           int    `json:"team"`
	Status         string `json:"status" gorm:"size:16"`
	SurrenderFrame uint32 `json:"surrenderFrame"`
	ExitFrame      uint32 `json:"exitFrame"`
	Placement      string `json:"placement" gorm:"size:8"`
}

func (*MatchPlayer) TableName() string {
	return "match_players"
}

// FromRecord converts a decoded record into its row form. The key links the
// row to the duplicate index and may be empty.
func FromRecord(rec *core.Record, key string) (Match, error) {
	placement, err := json.Marshal(rec.Outcome.Placement)
	if err != nil {
		return Match{}, fmt.Errorf("marshal placement: %w", err)
	}
	footprints, err := json.Marshal(rec.Footprints)
	if err != nil {
		return Match{}, fmt.Errorf("marshal footprints: %w", err)
	}

	m := Match{
		Path:        rec.Path,
		MatchKey:    key,
		ReplayName:  rec.Header.ReplayName,
		Version:     rec.Header.Version,
		MapName:     rec.Options.MapName,
		MapPath:     rec.Options.MapPath,
		Seed:        rec.Options.Seed,
		StartCash:   rec.Options.StartCash,
		BeginTime:   time.Unix(int64(rec.Header.BeginTimestamp), 0).UTC(),
		Duration:    rec.Header.Duration,
		EndFrame:    rec.Outcome.EndFrame,
		Desync:      rec.Header.Desynced(),
		MatchType:   rec.MatchType,
		MatchMode:   rec.MatchMode,
		Strategy:    rec.Outcome.Strategy,
		Category:    string(rec.Outcome.Category),
		Valid:       rec.Outcome.Valid,
		WinningTeam: rec.Outcome.WinningTeam,
		Reason:      rec.Outcome.Reason,
		OwnerNum:    rec.Outcome.OwnerNum,
		Truncated:   rec.Truncated,
		StreamErr:   rec.StreamErr,
		Placement:   datatypes.JSON(placement),
		Footprints:  datatypes.JSON(footprints),
	}

	for _, s := range rec.Options.Players() {
		p := MatchPlayer{
			PlayerNum:     s.PlayerNum,
			SlotIndex:     s.Index,
			Name:          s.Name,
			Kind:          s.Kind.String(),
			Faction:       s.Faction,
			FactionName:   core.FactionName(s.Faction),
			RandomFaction: s.RandomFaction,
			Color:         core.ColorName(s.Color),
		}
		if st, ok := rec.Outcome.Player(s.PlayerNum); ok {
			p.Team = st.Team
			p.Status = st.Status.String()
			p.SurrenderFrame = st.SurrenderFrame
			p.ExitFrame = st.ExitFrame
			p.Placement = st.Placement
		}
		m.Players = append(m.Players, p)
	}
	return m, nil
}
