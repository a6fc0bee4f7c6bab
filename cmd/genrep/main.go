package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	sdklog "go.opentelemetry.io/otel/sdk/log"

	"github.com/zhstats/genrep/internal/config"
	"github.com/zhstats/genrep/internal/logging"
	intOtel "github.com/zhstats/genrep/internal/otel"
)

// build info, set via ldflags
var (
	Version   string = "0.0.1"
	BuildDate string = "unknown"

	ServiceName string = "genrep"
)

var (
	// SlogManager handles all slog-based logging
	SlogManager *logging.SlogManager = logging.NewSlogManager()

	// Logger is the slog logger (convenience reference)
	Logger *slog.Logger = slog.Default()

	// DBLogger is handed to the gorm and influx managers
	DBLogger zerolog.Logger = zerolog.Nop()

	// OTelProvider handles OpenTelemetry
	OTelProvider *intOtel.Provider

	LogFilePath string
	LogFile     *os.File

	SessionStartTime time.Time = time.Now()

	phase logging.Phase
)

var errUsage = errors.New("usage")

const usageText = `genrep decodes and aggregates Generals Zero Hour replays.

Usage:
  genrep decode [flags] <file|url>   decode one replay and print its result
  genrep scan [flags] [dir]          index a replay folder and write win rates
  genrep fetch [flags] <url> [dir]   download replays from a URL
  genrep version                     print the version

Run "genrep <command> --help" for the flags of a command.
`

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprint(stderr, usageText)
		return 2
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var err error
	switch cmd := strings.ToLower(args[0]); cmd {
	case "version", "--version", "-v":
		fmt.Fprintf(stdout, "%s %s (built %s)\n", ServiceName, Version, BuildDate)
		return 0
	case "help", "--help", "-h":
		fmt.Fprint(stdout, usageText)
		return 0
	case "decode":
		err = runDecode(ctx, args[1:], stdout)
	case "scan":
		err = runScan(ctx, args[1:], stdout)
	case "fetch":
		err = runFetch(ctx, args[1:], stdout)
	default:
		fmt.Fprintf(stderr, "unknown command %q\n\n%s", cmd, usageText)
		return 2
	}

	switch {
	case err == nil:
		return 0
	case errors.Is(err, pflag.ErrHelp):
		return 0
	case errors.Is(err, errUsage):
		fmt.Fprintln(stderr, err)
		return 2
	}
	Logger.Error("Command failed", "command", args[0], "error", err)
	fmt.Fprintln(stderr, "error:", err)
	return 1
}

// newFlagSet returns a flag set carrying the flags every command accepts.
func newFlagSet(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.String("config", ".", "directory holding "+config.FileName)
	fs.String("log-level", "", "log level (debug, info, warn, error)")
	fs.Int("workers", 0, "parallel decode jobs, 0 for one per CPU")
	return fs
}

// commonBindings maps shared flags to their configuration keys.
var commonBindings = map[string]string{
	"log-level": "logLevel",
	"workers":   "workers",
}

// start parses args, loads the configuration and sets up logging.
// bindings maps flag names to configuration keys; set flags override the file.
func start(fs *pflag.FlagSet, args []string, bindings map[string]string) error {
	if err := fs.Parse(args); err != nil {
		return err
	}

	dir, _ := fs.GetString("config")
	if err := config.Load(dir); err != nil {
		return err
	}
	for _, b := range []map[string]string{commonBindings, bindings} {
		for flag, key := range b {
			if f := fs.Lookup(flag); f != nil {
				if err := viper.BindPFlag(key, f); err != nil {
					return fmt.Errorf("binding flag %s: %w", flag, err)
				}
			}
		}
	}

	setupLogging(fs.Name())
	return nil
}

// setupLogging opens the session log file and routes slog, zerolog and, when
// enabled, OTel into it. Failures leave console-only logging in place.
func setupLogging(command string) {
	level := viper.GetString("logLevel")
	SlogManager.Setup(logging.Options{Level: level, Context: phase.Attrs})
	Logger = SlogManager.Logger()

	logsDir := viper.GetString("logsDir")
	if err := os.MkdirAll(logsDir, 0o755); err != nil {
		Logger.Warn("Failed to create logs directory", "error", err, "path", logsDir)
		DBLogger = logging.NewZerolog(os.Stderr, level)
		return
	}

	LogFilePath = logging.LogFilePath(logsDir, ServiceName, SessionStartTime)
	if _, err := os.Stat(LogFilePath); err == nil {
		_ = os.Rename(LogFilePath, LogFilePath+".old")
	}
	var err error
	LogFile, err = os.OpenFile(LogFilePath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0o666)
	if err != nil {
		Logger.Warn("Failed to create/open log file", "error", err, "path", LogFilePath)
		DBLogger = logging.NewZerolog(os.Stderr, level)
		return
	}

	otelCfg := config.GetOTelConfig()
	OTelProvider, err = intOtel.New(otelCfg, LogFile)
	if err != nil {
		Logger.Error("Failed to initialize OTel provider", "error", err)
	}

	var otelLogProvider *sdklog.LoggerProvider
	if OTelProvider != nil {
		otelLogProvider = OTelProvider.LoggerProvider()
	}
	SlogManager.Setup(logging.Options{
		Level:       level,
		File:        LogFile,
		Provider:    otelLogProvider,
		ServiceName: otelCfg.ServiceName,
		Context:     phase.Attrs,
	})
	Logger = SlogManager.Logger()
	DBLogger = logging.NewZerolog(LogFile, level)

	Logger.Info("Logging to file", "path", LogFilePath, "command", command, "version", Version)
	if OTelProvider.Enabled() {
		Logger.Info("OTel provider initialized", "endpoint", otelCfg.Endpoint)
	}
}

// shutdown flushes telemetry and closes the log file.
func shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := SlogManager.Flush(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "flushing logs:", err)
	}
	if err := OTelProvider.Shutdown(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "shutting down OTel:", err)
	}
	if LogFile != nil {
		_ = LogFile.Close()
		LogFile = nil
	}
}
