// Package gormstorage implements the storage.Backend interface on gorm.
// Records are converted to rows on Store and written in batches by a
// background writer goroutine.
package gormstorage

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/zhstats/genrep/internal/model"
	"github.com/zhstats/genrep/internal/queue"
	"github.com/zhstats/genrep/pkg/core"
)

// DefaultFlushInterval is how often queued rows are written.
const DefaultFlushInterval = 2 * time.Second

// Dependencies holds all dependencies for the GORM storage backend.
type Dependencies struct {
	DB     *gorm.DB
	Logger zerolog.Logger
	// MatchKey returns the duplicate-index key of a replay path. Optional.
	MatchKey      func(path string) string
	FlushInterval time.Duration
}

// Backend implements storage.Backend with queue-based batch writes.
type Backend struct {
	deps     Dependencies
	pending  *queue.Queue[model.Match]
	stopChan chan struct{}
	wg       sync.WaitGroup
	writeMu  sync.Mutex
}

// New creates a new GORM storage backend.
func New(deps Dependencies) *Backend {
	if deps.FlushInterval <= 0 {
		deps.FlushInterval = DefaultFlushInterval
	}
	return &Backend{
		deps:    deps,
		pending: queue.NewQueue[model.Match](),
	}
}

// Init migrates the record tables and starts the writer goroutine.
func (b *Backend) Init() error {
	if b.deps.DB == nil {
		return fmt.Errorf("gorm backend needs a database")
	}
	b.deps.Logger.Info().Msg("Migrating record schema")
	if err := b.deps.DB.AutoMigrate(&model.Match{}, &model.MatchPlayer{}); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}

	b.stopChan = make(chan struct{})
	b.wg.Add(1)
	go b.writeLoop()
	return nil
}

// Close stops the writer and writes what is still queued.
func (b *Backend) Close() error {
	if b.stopChan != nil {
		close(b.stopChan)
		b.wg.Wait()
		b.stopChan = nil
	}
	return b.Flush()
}

// Store converts rec and queues it for the next write.
func (b *Backend) Store(rec *core.Record) error {
	key := ""
	if b.deps.MatchKey != nil {
		key = b.deps.MatchKey(rec.Path)
	}
	row, err := model.FromRecord(rec, key)
	if err != nil {
		return fmt.Errorf("convert %s: %w", rec.Path, err)
	}
	b.pending.Push(row)
	return nil
}

// Pending returns the number of queued rows.
func (b *Backend) Pending() int {
	return b.pending.Len()
}

// Flush writes all queued rows in one transaction. Rows already stored
// under the same path are replaced. On failure the rows are queued again.
func (b *Backend) Flush() error {
	b.writeMu.Lock()
	defer b.writeMu.Unlock()

	if b.pending.Empty() {
		return nil
	}
	items := latestPerPath(b.pending.Drain())

	paths := make([]string, len(items))
	for i, m := range items {
		paths[i] = m.Path
	}

	start := time.Now()
	err := b.deps.DB.Transaction(func(tx *gorm.DB) error {
		var ids []uint
		if err := tx.Unscoped().Model(&model.Match{}).Where("path IN ?", paths).Pluck("id", &ids).Error; err != nil {
			return err
		}
		if len(ids) > 0 {
			if err := tx.Where("match_id IN ?", ids).Delete(&model.MatchPlayer{}).Error; err != nil {
				return err
			}
			if err := tx.Unscoped().Where("id IN ?", ids).Delete(&model.Match{}).Error; err != nil {
				return err
			}
		}
		return tx.Create(&items).Error
	})
	if err != nil {
		b.deps.Logger.Error().Err(err).Int("rows", len(items)).Msg("Error writing matches")
		b.pending.Push(items...)
		return fmt.Errorf("write matches: %w", err)
	}

	b.deps.Logger.Debug().Int("rows", len(items)).Dur("duration", time.Since(start)).Msg("Wrote matches")
	return nil
}

// latestPerPath keeps the last row pushed for each path in push order.
func latestPerPath(items []model.Match) []model.Match {
	last := make(map[string]int, len(items))
	for i, m := range items {
		last[m.Path] = i
	}
	out := make([]model.Match, 0, len(last))
	for i, m := range items {
		if last[m.Path] == i {
			out = append(out, m)
		}
	}
	return out
}

func (b *Backend) writeLoop() {
	defer b.wg.Done()
	ticker := time.NewTicker(b.deps.FlushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-b.stopChan:
			return
		case <-ticker.C:
			// errors are logged and the rows retried on the next tick
			_ = b.Flush()
		}
	}
}
