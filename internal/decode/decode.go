// Package decode turns replay bytes into records: it parses the file,
// resolves the engine's random picks and infers the outcome.
package decode

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/zhstats/genrep/internal/geo"
	"github.com/zhstats/genrep/internal/outcome"
	"github.com/zhstats/genrep/internal/parser"
	"github.com/zhstats/genrep/internal/prng"
	"github.com/zhstats/genrep/internal/util"
	"github.com/zhstats/genrep/pkg/core"
)

var (
	// ErrUnsupportedVersion marks a replay from another game version. Such
	// files are skipped but kept.
	ErrUnsupportedVersion = errors.New("unsupported game version")
	// ErrUnknownFaction marks a replay with a faction outside the known
	// table, usually from a mod. Such files are skipped and marked for
	// deletion.
	ErrUnknownFaction = errors.New("unknown faction")
	// ErrNoMatchData is returned when the options lack seed, map or slots.
	ErrNoMatchData = errors.New("match options incomplete")
)

// Options controls what ends up on a record.
type Options struct {
	// KeepMessages copies the decoded message stream onto the record.
	KeepMessages bool
	// Footprints attaches per-player command footprints.
	Footprints bool
}

// Dependencies holds all dependencies for the decode service
type Dependencies struct {
	Parser *parser.Parser
	Engine *outcome.Engine
	Logger *slog.Logger
}

// Service decodes replay files. It is safe for concurrent use.
type Service struct {
	deps Dependencies
	opts Options
}

// NewService creates a decode service. A nil parser, engine or logger is
// replaced by a default.
func NewService(deps Dependencies, opts Options) *Service {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Parser == nil {
		deps.Parser = parser.NewParser(deps.Logger)
	}
	if deps.Engine == nil {
		deps.Engine = outcome.New(outcome.DefaultConfig())
	}
	return &Service{deps: deps, opts: opts}
}

// Summary is the header-level view of a replay used to identify matches
// without decoding the message stream. Options are as stored in the file,
// before random picks are resolved.
type Summary struct {
	Path    string
	Header  core.Header
	Options core.MatchOptions
}

// HasComputer reports whether an AI seat is configured.
func (s *Summary) HasComputer() bool {
	return s.Options.HasComputer()
}

// Check classifies a parsed header for batch processing. It returns nil,
// ErrUnsupportedVersion, ErrNoMatchData or ErrUnknownFaction.
func Check(r *parser.Replay) error {
	if !r.Header.SupportedVersion() {
		return ErrUnsupportedVersion
	}
	kv := r.Options.Raw
	if kv[parser.KeySeed] == "" || r.Options.MapName == "" || kv[parser.KeySlots] == "" {
		return ErrNoMatchData
	}
	if len(r.SlotErrors) > 0 {
		return fmt.Errorf("%w: %w", ErrUnknownFaction, r.SlotErrors[0])
	}
	for _, s := range r.Options.Slots {
		if s.Occupied() && !core.KnownFaction(s.Faction) {
			return fmt.Errorf("%w: slot %d has faction %d", ErrUnknownFaction, s.Index, s.Faction)
		}
	}
	return nil
}

// Peek reads only the header and match options and classifies the file.
func (s *Service) Peek(path string, data []byte) (*Summary, error) {
	r, err := s.deps.Parser.ParseHeader(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := Check(r); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &Summary{Path: path, Header: r.Header, Options: r.Options}, nil
}

// PeekFile reads path and peeks at it.
func (s *Service) PeekFile(path string) (*Summary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read replay: %w", err)
	}
	return s.Peek(path, data)
}

// Decode decodes a full replay. Format and header errors are returned as is
// and no record is produced. A truncated message stream still yields a
// record with Truncated set.
func (s *Service) Decode(path string, data []byte) (*core.Record, error) {
	r, err := s.deps.Parser.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if !r.Header.SupportedVersion() {
		s.deps.Logger.Warn("decoding replay from unsupported version", "path", path, "version", r.Header.Version)
	}
	for _, slot := range r.Options.Slots {
		if slot.Occupied() && !core.KnownFaction(slot.Faction) {
			return nil, fmt.Errorf("%s: %w: slot %d has faction %d", path, ErrUnknownFaction, slot.Index, slot.Faction)
		}
	}

	slots := prng.Resolve(r.Options.Seed, r.Options.Slots)
	out := s.deps.Engine.Infer(outcome.Input{
		Header:   r.Header,
		Slots:    slots,
		Messages: r.Messages,
	})

	opts := r.Options
	opts.Slots = outcome.Renumber(slots, out.OwnerOffset)
	teams := outcome.Teams(opts.Slots)

	rec := &core.Record{
		Path:      path,
		Header:    r.Header,
		Options:   opts,
		Teams:     teams,
		MatchType: outcome.MatchType(teams),
		MatchMode: util.ModeUnknown,
		Truncated: r.Truncated(),
		Outcome:   out,
	}
	if host, ok := opts.Host(); ok && host.Kind == core.SlotHuman {
		rec.MatchMode = util.MatchMode(host.IP, host.Port)
	}
	if r.StreamErr != nil {
		rec.StreamErr = r.StreamErr.Error()
	}
	if s.opts.KeepMessages {
		rec.Messages = r.Messages
	}
	if s.opts.Footprints {
		var nums []int
		for _, p := range opts.Players() {
			if !p.Observer() {
				nums = append(nums, p.PlayerNum)
			}
		}
		rec.Footprints = geo.Footprints(r.Messages, nums)
	}

	s.deps.Logger.Debug("decoded replay",
		"path", path,
		"messages", len(r.Messages),
		"strategy", out.Strategy,
		"category", out.Category,
		"winningTeam", out.WinningTeam)
	return rec, nil
}

// DecodeFile reads path and decodes it.
func (s *Service) DecodeFile(path string) (*core.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read replay: %w", err)
	}
	return s.Decode(path, data)
}
