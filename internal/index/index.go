// Package index keeps one replay per match. Several players record the same
// match; the longest recording wins and the others are marked for deletion.
package index

import (
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"os"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/zhstats/genrep/internal/decode"
	"github.com/zhstats/genrep/internal/model"
	"github.com/zhstats/genrep/pkg/core"
)

// Deletion reasons stored on DeleteMark.
const (
	ReasonDuplicate      = "duplicate"
	ReasonUnknownFaction = "unknown_faction"
	ReasonAI             = "ai_game"
)

// unknownMap is the name written when a replay lacks a map.
const unknownMap = "Unknown Map"

// ErrNoMatchKey is returned for replays that cannot be identified.
var ErrNoMatchKey = errors.New("replay has no match key")

// Decision is the result of adding a replay to the index.
type Decision int

const (
	// Unique is the first replay of a match.
	Unique Decision = iota
	// Replaced is longer than the stored replay, which got marked.
	Replaced
	// Duplicate is not longer than the stored replay and got marked.
	Duplicate
)

func (d Decision) String() string {
	switch d {
	case Replaced:
		return "replaced"
	case Duplicate:
		return "duplicate"
	}
	return "unique"
}

var whitespace = regexp.MustCompile(`\s+`)

// Key identifies a match across recordings:
// seed, map, begin time rounded to the minute and a hash of the seated
// players with their configured factions. Observers are left out.
func Key(s *decode.Summary) (string, error) {
	if s.Options.MapName == "" || s.Options.MapName == unknownMap {
		return "", ErrNoMatchKey
	}

	var players []string
	for _, slot := range s.Options.Slots {
		switch {
		case slot.Kind == core.SlotComputer:
			players = append(players, fmt.Sprintf("AI_%s|%d", slot.Difficulty, slot.Faction))
		case slot.Kind == core.SlotHuman && !slot.Observer():
			players = append(players, fmt.Sprintf("%s|%d", slot.Name, slot.Faction))
		}
	}
	sort.Strings(players)
	sum := md5.Sum([]byte(strings.Join(players, ";")))

	ts := int64(math.RoundToEven(float64(s.Header.BeginTimestamp)/60)) * 60
	mapName := strings.ToLower(whitespace.ReplaceAllString(s.Options.MapName, "_"))
	return fmt.Sprintf("%d_%s_%d_%s", s.Options.Seed, mapName, ts, hex.EncodeToString(sum[:])), nil
}

// Index is the gorm-backed duplicate index. A bloom filter of seen keys
// saves the lookup for first sightings.
type Index struct {
	db     *gorm.DB
	logger zerolog.Logger

	mu   sync.Mutex
	seen *bloom.BloomFilter
}

// New opens the index on db, migrating its tables and loading known keys.
func New(db *gorm.DB, logger zerolog.Logger) (*Index, error) {
	if err := db.AutoMigrate(model.IndexModels...); err != nil {
		return nil, fmt.Errorf("migrate index: %w", err)
	}

	ix := &Index{
		db:     db,
		logger: logger,
		seen:   bloom.NewWithEstimates(500000, 0.001),
	}

	var keys []string
	if err := db.Model(&model.UniqueMatch{}).Pluck("match_key", &keys).Error; err != nil {
		return nil, fmt.Errorf("load index keys: %w", err)
	}
	for _, k := range keys {
		ix.seen.AddString(k)
	}
	logger.Debug().Int("keys", len(keys)).Msg("Loaded match index")
	return ix, nil
}

// Add records s and decides whether it is the match's longest replay.
func (ix *Index) Add(s *decode.Summary) (Decision, error) {
	key, err := Key(s)
	if err != nil {
		return Unique, fmt.Errorf("%s: %w", s.Path, err)
	}

	ix.mu.Lock()
	defer ix.mu.Unlock()

	entry := model.UniqueMatch{
		MatchKey: key,
		Path:     s.Path,
		Duration: s.Header.Duration,
		IsAI:     s.HasComputer(),
	}

	if !ix.seen.TestString(key) {
		if err := ix.db.Create(&entry).Error; err != nil {
			return Unique, fmt.Errorf("insert match %s: %w", key, err)
		}
		ix.seen.AddString(key)
		return Unique, nil
	}

	var stored model.UniqueMatch
	err = ix.db.Where("match_key = ?", key).First(&stored).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// bloom false positive
		if err := ix.db.Create(&entry).Error; err != nil {
			return Unique, fmt.Errorf("insert match %s: %w", key, err)
		}
		return Unique, nil
	}
	if err != nil {
		return Unique, fmt.Errorf("lookup match %s: %w", key, err)
	}

	if stored.Path == s.Path {
		return Unique, nil
	}

	if s.Header.Duration > stored.Duration {
		if err := ix.mark(stored.Path, ReasonDuplicate, key); err != nil {
			return Replaced, err
		}
		err := ix.db.Model(&model.UniqueMatch{}).Where("match_key = ?", key).
			Updates(map[string]interface{}{"path": entry.Path, "duration": entry.Duration, "is_ai": entry.IsAI}).Error
		if err != nil {
			return Replaced, fmt.Errorf("update match %s: %w", key, err)
		}
		ix.logger.Debug().Str("key", key).Str("path", s.Path).Str("replaced", stored.Path).Msg("Longer replay replaces stored one")
		return Replaced, nil
	}

	if err := ix.mark(s.Path, ReasonDuplicate, key); err != nil {
		return Duplicate, err
	}
	return Duplicate, nil
}

// MarkDelete schedules path for deletion.
func (ix *Index) MarkDelete(path, reason string) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	return ix.mark(path, reason, "")
}

func (ix *Index) mark(path, reason, key string) error {
	err := ix.db.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&model.DeleteMark{Path: path, Reason: reason, MatchKey: key}).Error
	if err != nil {
		return fmt.Errorf("mark %s for deletion: %w", path, err)
	}
	return nil
}

// MarkAI marks the stored replays of AI matches for deletion and returns
// how many there were.
func (ix *Index) MarkAI() (int, error) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	var rows []model.UniqueMatch
	if err := ix.db.Where("is_ai = ?", true).Order("path").Find(&rows).Error; err != nil {
		return 0, fmt.Errorf("list ai matches: %w", err)
	}
	for _, r := range rows {
		if err := ix.mark(r.Path, ReasonAI, r.MatchKey); err != nil {
			return 0, err
		}
	}
	return len(rows), nil
}

// Unique returns the stored paths of matches without computer players,
// sorted by path.
func (ix *Index) Unique() ([]string, error) {
	var paths []string
	err := ix.db.Model(&model.UniqueMatch{}).Where("is_ai = ?", false).Order("path").Pluck("path", &paths).Error
	if err != nil {
		return nil, fmt.Errorf("list unique matches: %w", err)
	}
	return paths, nil
}

// Marked returns the files scheduled for deletion sorted by path.
func (ix *Index) Marked() ([]model.DeleteMark, error) {
	var marks []model.DeleteMark
	if err := ix.db.Order("path").Find(&marks).Error; err != nil {
		return nil, fmt.Errorf("list marked files: %w", err)
	}
	return marks, nil
}

// Delete removes every marked file from disk and clears its mark. Files
// already gone count as deleted. Failures are joined and the remaining
// files are still attempted.
func (ix *Index) Delete() (int, error) {
	marks, err := ix.Marked()
	if err != nil {
		return 0, err
	}

	var errs []error
	deleted := 0
	for _, m := range marks {
		if err := os.Remove(m.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
			errs = append(errs, err)
			continue
		}
		if err := ix.db.Delete(&model.DeleteMark{}, "path = ?", m.Path).Error; err != nil {
			errs = append(errs, fmt.Errorf("clear mark %s: %w", m.Path, err))
			continue
		}
		deleted++
		ix.logger.Debug().Str("path", m.Path).Str("reason", m.Reason).Msg("Deleted replay")
	}
	return deleted, errors.Join(errs...)
}
