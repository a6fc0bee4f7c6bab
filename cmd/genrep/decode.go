package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/zhstats/genrep/internal/api"
	"github.com/zhstats/genrep/internal/config"
	"github.com/zhstats/genrep/internal/decode"
	"github.com/zhstats/genrep/internal/outcome"
	"github.com/zhstats/genrep/internal/storage"
	"github.com/zhstats/genrep/internal/util"
	"github.com/zhstats/genrep/pkg/core"
)

func newDecoder(keepMessages, footprints bool) *decode.Service {
	return decode.NewService(decode.Dependencies{
		Engine: outcome.New(config.GetOutcomeConfig()),
		Logger: Logger,
	}, decode.Options{KeepMessages: keepMessages, Footprints: footprints})
}

func runDecode(ctx context.Context, args []string, stdout io.Writer) error {
	fs := newFlagSet("decode")
	fs.String("strategy", "", "outcome strategy (auto, activity, quitcrc)")
	fs.String("storage", "", "record sink (memory, sqlite, postgres, websocket)")
	keepMessages := fs.Bool("messages", false, "keep the message stream on the stored record")
	footprints := fs.Bool("footprints", true, "attach per-player command footprints")
	noStore := fs.Bool("no-store", false, "print the result without storing the record")
	if err := start(fs, args, map[string]string{
		"strategy": "outcome.strategy",
		"storage":  "storage.type",
	}); err != nil {
		return err
	}
	defer shutdown()

	if fs.NArg() != 1 {
		return fmt.Errorf("%w: genrep decode [flags] <file|url>", errUsage)
	}
	target := fs.Arg(0)
	phase.Set("decode")

	decoder := newDecoder(*keepMessages, *footprints)

	var rec *core.Record
	if api.IsURL(target) {
		data, err := api.New(config.GetAPIConfig()).Download(ctx, target)
		if err != nil {
			return err
		}
		rec, err = decoder.Decode(api.FileName(target), data)
		if err != nil {
			return err
		}
	} else {
		var err error
		rec, err = decoder.DecodeFile(target)
		if err != nil {
			return err
		}
	}

	if err := writeRecord(stdout, rec); err != nil {
		return err
	}
	if *noStore {
		return nil
	}

	backend, err := initStorage(nil)
	if err != nil {
		return err
	}
	storeErr := backend.Store(rec)
	if err := backend.Close(); err != nil {
		Logger.Warn("Failed to close storage backend", "error", err)
	}
	if storeErr != nil {
		return fmt.Errorf("failed to store record: %w", storeErr)
	}
	if exp, ok := backend.(storage.Exporter); ok && exp.LastExportPath() != "" {
		fmt.Fprintf(stdout, "\nRecord written to %s\n", exp.LastExportPath())
	}
	return nil
}

// writeRecord prints the human-readable result of one replay.
func writeRecord(w io.Writer, rec *core.Record) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	winner := "None"
	if rec.Outcome.Valid && rec.Outcome.WinningTeam != core.NoTeam {
		winner = fmt.Sprintf("Team %d", rec.Outcome.WinningTeam)
	}
	start := "Unknown"
	if rec.Header.BeginTimestamp > 0 {
		start = time.Unix(int64(rec.Header.BeginTimestamp), 0).UTC().Format(time.RFC3339)
	}

	rows := [][2]string{
		{"Replay", rec.Path},
		{"Version", rec.Header.Version},
		{"Map", rec.Options.MapName},
		{"Match Type", rec.MatchType},
		{"Match Mode", rec.MatchMode},
		{"Start Time", start},
		{"Duration", util.FrameDuration(rec.Header.Duration)},
		{"End Frame", fmt.Sprint(rec.Outcome.EndFrame)},
		{"Game Seed", fmt.Sprint(rec.Options.Seed)},
		{"Start Cash", fmt.Sprint(rec.Options.StartCash)},
		{"Strategy", rec.Outcome.Strategy},
		{"Result", string(rec.Outcome.Category)},
		{"Winning Team", winner},
		{"Reason", rec.Outcome.Reason},
	}
	if owner, ok := rec.Owner(); ok {
		rows = append(rows, [2]string{"Recorded By", fmt.Sprintf("%s (player %d)", owner.Name, owner.PlayerNum)})
	}
	if rec.Truncated {
		rows = append(rows, [2]string{"Truncated", rec.StreamErr})
	}
	for _, r := range rows {
		fmt.Fprintf(tw, "%s:\t%s\n", r[0], r[1])
	}

	fmt.Fprintln(tw)
	fmt.Fprintln(tw, "Player\tFaction\tColor\tTeam\tStatus\tPlacement")
	for _, s := range rec.Options.Players() {
		st, _ := rec.Outcome.Player(s.PlayerNum)
		name := s.Name
		if s.Kind == core.SlotComputer {
			name = "AI " + s.Difficulty
		}
		team := "-"
		if st.Team != core.NoTeam {
			team = fmt.Sprint(st.Team)
		}
		placement := st.Placement
		if placement == "" {
			placement = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			strings.TrimSpace(name),
			core.FactionName(s.Faction),
			core.ColorName(s.Color),
			team,
			st.Status,
			placement)
	}
	return tw.Flush()
}
