package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/viper"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/zhstats/genrep/internal/api"
	"github.com/zhstats/genrep/internal/config"
	"github.com/zhstats/genrep/internal/database"
	"github.com/zhstats/genrep/internal/decode"
	"github.com/zhstats/genrep/internal/dispatcher"
	"github.com/zhstats/genrep/internal/index"
	"github.com/zhstats/genrep/internal/logging"
	"github.com/zhstats/genrep/internal/monitor"
	"github.com/zhstats/genrep/internal/stats"
	"github.com/zhstats/genrep/internal/worker"
)

// findReplays returns the replay files below dir sorted by path.
func findReplays(dir string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(path), api.ReplayExt) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", dir, err)
	}
	slices.Sort(paths)
	return paths, nil
}

// indexPass reads every header, records the longest replay per match and
// marks duplicates, unknown factions and AI matches for deletion. It
// returns the match keys of the indexed replays by path.
func indexPass(ctx context.Context, wm *worker.Manager, ix *index.Index, mon *monitor.Service, paths []string, sum *stats.Summary) (map[string]string, error) {
	phase.Set("index")
	progress := monitor.NewProgress("index", len(paths))
	mon.Start(progress)
	peeks, err := wm.Peek(ctx, paths, progress)
	mon.Stop()
	if err != nil {
		return nil, err
	}

	keys := make(map[string]string, len(peeks))
	for _, r := range peeks {
		switch {
		case errors.Is(r.Err, decode.ErrUnsupportedVersion):
			sum.InvalidVersion++
		case errors.Is(r.Err, decode.ErrUnknownFaction):
			sum.UnknownFaction++
			if err := ix.MarkDelete(r.Path, index.ReasonUnknownFaction); err != nil {
				return nil, err
			}
		case r.Err != nil:
			sum.ParseErrors++
			Logger.Debug("Skipping unreadable replay", "path", r.Path, "error", r.Err)
		default:
			dec, err := ix.Add(r.Summary)
			if errors.Is(err, index.ErrNoMatchKey) {
				sum.ParseErrors++
				continue
			}
			if err != nil {
				return nil, err
			}
			if dec == index.Duplicate {
				sum.Duplicates++
			}
			if key, err := index.Key(r.Summary); err == nil {
				keys[r.Path] = key
			}
		}
	}

	ai, err := ix.MarkAI()
	if err != nil {
		return nil, err
	}
	sum.AIGames = ai
	return keys, nil
}

// statsPass decodes the unique matches and feeds every sink.
func statsPass(ctx context.Context, wm *worker.Manager, d *dispatcher.Dispatcher, agg *stats.Aggregator, mon *monitor.Service, paths []string) error {
	phase.Set("stats")
	progress := monitor.NewProgress("stats", len(paths))
	mon.Start(progress)
	results, err := wm.Decode(ctx, paths, progress)
	mon.Stop()
	// buffered sinks drain before the report is written
	d.Close()
	if err != nil {
		return err
	}

	for _, r := range results {
		if r.Err != nil {
			agg.AddError()
			Logger.Debug("Replay failed to decode", "path", r.Path, "error", r.Err)
		}
	}
	return nil
}

func runScan(ctx context.Context, args []string, stdout io.Writer) error {
	flags := newFlagSet("scan")
	flags.Bool("delete", false, "delete duplicate, AI and unknown-faction replays after the scan")
	flags.String("report", "", "path of the win-rate report")
	flags.String("storage", "", "record sink (memory, sqlite, postgres, websocket)")
	flags.String("index", "", "path of the sqlite match index")
	flags.String("status-file", "", "file rewritten with the latest progress")
	noStore := flags.Bool("no-store", false, "only aggregate statistics, do not store records")
	if err := start(flags, args, map[string]string{
		"delete":      "index.deleteDuplicates",
		"report":      "report.path",
		"storage":     "storage.type",
		"index":       "index.path",
		"status-file": "monitor.statusFile",
	}); err != nil {
		return err
	}
	defer shutdown()

	if flags.NArg() > 1 {
		return fmt.Errorf("%w: genrep scan [flags] [dir]", errUsage)
	}
	dir := "."
	if flags.NArg() == 1 {
		dir = flags.Arg(0)
	}

	paths, err := findReplays(dir)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		fmt.Fprintf(stdout, "No replay files found in %s\n", dir)
		return nil
	}
	Logger.Info("Found replay files", "dir", dir, "count", len(paths))

	idxCfg := config.GetIndexConfig()
	dbm := database.NewManager(DBLogger)
	if err := dbm.Connect(idxCfg.Driver, idxCfg.Path); err != nil {
		return fmt.Errorf("opening match index: %w", err)
	}
	defer func() {
		if err := dbm.Close(); err != nil {
			Logger.Warn("Failed to close match index", "error", err)
		}
	}()
	ix, err := index.New(dbm.DB, DBLogger)
	if err != nil {
		return err
	}

	d, err := dispatcher.New(logging.NewDispatcherLogger(DBLogger))
	if err != nil {
		return fmt.Errorf("creating dispatcher: %w", err)
	}
	defer d.Close()

	wm := worker.NewManager(worker.Dependencies{
		Decoder:    newDecoder(false, true),
		Dispatcher: d,
		Logger:     Logger,
	}, viper.GetInt("workers"))
	mon := monitor.NewService(monitor.Dependencies{
		Logger:     Logger,
		Interval:   viper.GetDuration("monitor.interval"),
		StatusFile: viper.GetString("monitor.statusFile"),
	})

	// Pass 1
	sum := stats.Summary{Scanned: len(paths)}
	keys, err := indexPass(ctx, wm, ix, mon, paths, &sum)
	if err != nil {
		return err
	}
	unique, err := ix.Unique()
	if err != nil {
		return err
	}
	sum.UniqueNonAI = len(unique)
	writePassOne(stdout, sum)
	if err := OTelProvider.Flush(ctx); err != nil {
		Logger.Warn("Failed to flush telemetry", "error", err)
	}

	// Pass 2
	agg := stats.NewAggregator()
	sinks := worker.Sinks{Stats: agg}
	if !*noStore {
		backend, err := initStorage(func(path string) string { return keys[path] })
		if err != nil {
			return err
		}
		defer func() {
			if err := backend.Close(); err != nil {
				Logger.Warn("Failed to close storage backend", "error", err)
			}
		}()
		sinks.Backend = backend
	}
	influxManager, err := initInflux(ctx)
	if err != nil {
		return err
	}
	if influxManager != nil {
		defer func() {
			if err := influxManager.Close(); err != nil {
				Logger.Warn("Failed to close InfluxDB writer", "error", err)
			}
		}()
		sinks.Influx = influxManager
	}
	wm.RegisterHandlers(d, sinks)
	fmt.Fprintf(stdout, "\nProcessing %d unique matches using %d workers.\n", len(unique), wm.Limit())

	if err := statsPass(ctx, wm, d, agg, mon, unique); err != nil {
		return err
	}
	if t := agg.Totals(); t.Errors > 0 {
		fmt.Fprintf(stdout, "  Worker errors during processing: %d\n", t.Errors)
	}

	recordScanMetrics(ctx, sum, agg.Totals())

	reportPath := viper.GetString("report.path")
	if err := agg.WriteReportFile(reportPath, sum); err != nil {
		return err
	}

	phase.Set("cleanup")
	if idxCfg.DeleteDuplicates {
		deleted, err := ix.Delete()
		fmt.Fprintf(stdout, "\nDeleted %d marked replays.\n", deleted)
		if err != nil {
			Logger.Warn("Some marked replays could not be deleted", "error", err)
		}
	} else if marked, err := ix.Marked(); err == nil && len(marked) > 0 {
		fmt.Fprintf(stdout, "\n%d replays are marked for deletion. Run with --delete to remove them.\n", len(marked))
	}

	fmt.Fprintf(stdout, "\nResults written to %s\n", reportPath)
	fmt.Fprintf(stdout, "Based on %d unique non-AI matches with valid winners.\n", agg.ValidWinners())
	return nil
}

// recordScanMetrics counts replays per phase and result.
func recordScanMetrics(ctx context.Context, sum stats.Summary, totals stats.Totals) {
	counter, err := OTelProvider.Meter("github.com/zhstats/genrep/cmd/genrep").Int64Counter(
		"genrep.replays",
		metric.WithDescription("Replays handled per scan phase and result"),
	)
	if err != nil {
		Logger.Warn("Failed to create replay counter", "error", err)
		return
	}
	add := func(step, result string, n int) {
		counter.Add(ctx, int64(n), metric.WithAttributes(
			attribute.String("phase", step),
			attribute.String("result", result),
		))
	}
	add("index", "duplicate", sum.Duplicates)
	add("index", "parse_error", sum.ParseErrors)
	add("index", "invalid_version", sum.InvalidVersion)
	add("index", "unknown_faction", sum.UnknownFaction)
	add("index", "ai", sum.AIGames)
	add("index", "unique", sum.UniqueNonAI)
	add("stats", "processed", totals.Processed)
	add("stats", "error", totals.Errors)
	add("stats", "no_winner", totals.NoWinner)
}

func writePassOne(w io.Writer, sum stats.Summary) {
	fmt.Fprintf(w, "Pass 1 complete. Scanned %d files.\n", sum.Scanned)
	fmt.Fprintf(w, "  Unique matches identified (including AI): %d\n", sum.UniqueNonAI+sum.AIGames)
	fmt.Fprintf(w, "  Duplicates skipped: %d\n", sum.Duplicates)
	fmt.Fprintf(w, "  Invalid version skipped: %d\n", sum.InvalidVersion)
	fmt.Fprintf(w, "  Unknown faction replays marked for deletion: %d\n", sum.UnknownFaction)
	fmt.Fprintf(w, "  Parse errors: %d\n", sum.ParseErrors)
	fmt.Fprintf(w, "  AI games marked for deletion: %d\n", sum.AIGames)
}
