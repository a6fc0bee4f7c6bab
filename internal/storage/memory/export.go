// internal/storage/memory/export.go
package memory

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/zhstats/genrep/internal/util"
	"github.com/zhstats/genrep/pkg/core"
)

// RecordExport is the JSON document written per replay.
type RecordExport struct {
	File           string           `json:"file"`
	ReplayName     string           `json:"replayName"`
	Version        string           `json:"version"`
	MapName        string           `json:"mapName"`
	MatchType      string           `json:"matchType"`
	MatchMode      string           `json:"matchMode"`
	Seed           uint32           `json:"seed"`
	StartCash      int              `json:"startCash"`
	Begin          string           `json:"begin"`
	Duration       string           `json:"duration"`
	DurationFrames uint32           `json:"durationFrames"`
	EndFrame       uint32           `json:"endFrame"`
	Desync         bool             `json:"desync"`
	Strategy       string           `json:"strategy"`
	Category       core.Category    `json:"category"`
	Valid          bool             `json:"valid"`
	WinningTeam    int              `json:"winningTeam"`
	Reason         string           `json:"reason"`
	Truncated      bool             `json:"truncated"`
	StreamError    string           `json:"streamError,omitempty"`
	Players        []PlayerExport   `json:"players"`
	Footprints     []core.Footprint `json:"footprints,omitempty"`
}

// PlayerExport is one seat of RecordExport.
type PlayerExport struct {
	PlayerNum int    `json:"playerNum"`
	Name      string `json:"name"`
	Kind      string `json:"kind"`
	Faction   string `json:"faction"`
	Color     string `json:"color"`
	Team      int    `json:"team"`
	Status    string `json:"status"`
	Placement string `json:"placement,omitempty"`
	Owner     bool   `json:"owner,omitempty"`
}

// factionLabel appends the random marker to resolved factions.
func factionLabel(s core.Slot) string {
	name := core.FactionName(s.Faction)
	if s.RandomFaction {
		return name + " (R)"
	}
	return name
}

func buildExport(rec *core.Record) RecordExport {
	out := RecordExport{
		File:           rec.Path,
		ReplayName:     rec.Header.ReplayName,
		Version:        rec.Header.Version,
		MapName:        rec.Options.MapName,
		MatchType:      rec.MatchType,
		MatchMode:      rec.MatchMode,
		Seed:           rec.Options.Seed,
		StartCash:      rec.Options.StartCash,
		Begin:          time.Unix(int64(rec.Header.BeginTimestamp), 0).UTC().Format(time.RFC3339),
		Duration:       util.FrameDuration(rec.Header.Duration),
		DurationFrames: rec.Header.Duration,
		EndFrame:       rec.Outcome.EndFrame,
		Desync:         rec.Header.Desynced(),
		Strategy:       rec.Outcome.Strategy,
		Category:       rec.Outcome.Category,
		Valid:          rec.Outcome.Valid,
		WinningTeam:    rec.Outcome.WinningTeam,
		Reason:         rec.Outcome.Reason,
		Truncated:      rec.Truncated,
		StreamError:    rec.StreamErr,
		Players:        make([]PlayerExport, 0),
		Footprints:     rec.Footprints,
	}

	for _, s := range rec.Options.Players() {
		p := PlayerExport{
			PlayerNum: s.PlayerNum,
			Name:      s.Name,
			Kind:      s.Kind.String(),
			Faction:   factionLabel(s),
			Color:     core.ColorName(s.Color),
			Team:      s.Team,
			Status:    core.StatusActive.String(),
			Owner:     s.PlayerNum == rec.Outcome.OwnerNum,
		}
		if st, ok := rec.Outcome.Player(s.PlayerNum); ok {
			p.Team = st.Team
			p.Status = st.Status.String()
			p.Placement = st.Placement
		}
		out.Players = append(out.Players, p)
	}
	return out
}

// exportFileName derives the export name from the replay file name and the
// match start time.
func exportFileName(rec *core.Record, compress bool) string {
	base := filepath.Base(rec.Path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	stamp := time.Unix(int64(rec.Header.BeginTimestamp), 0).UTC().Format("20060102_150405")
	name := util.SanitizeFilename(strings.ReplaceAll(base, " ", "_") + "_" + stamp)
	if compress {
		return name + ".json.gz"
	}
	return name + ".json"
}

// exportJSON writes rec to the output directory, gzipped when configured.
func (b *Backend) exportJSON(rec *core.Record) error {
	outputPath := filepath.Join(b.cfg.OutputDir, exportFileName(rec, b.cfg.CompressOutput))

	if err := os.MkdirAll(b.cfg.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	defer f.Close()

	var w io.Writer = f
	var gz *gzip.Writer
	if b.cfg.CompressOutput {
		gz = gzip.NewWriter(f)
		w = gz
	}
	if err := json.NewEncoder(w).Encode(buildExport(rec)); err != nil {
		return fmt.Errorf("failed to encode %s: %w", rec.Path, err)
	}
	if gz != nil {
		if err := gz.Close(); err != nil {
			return fmt.Errorf("failed to finish gzip stream: %w", err)
		}
	}

	b.lastExportPath = outputPath
	return nil
}
