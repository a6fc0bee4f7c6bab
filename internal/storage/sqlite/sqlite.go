// Package sqlitestorage implements the storage.Backend interface using an in-memory
// SQLite database with periodic disk dumps via VACUUM INTO.
// It wraps the GORM backend; the SQLite-specific parts are the in-memory
// database and the dumps.
package sqlitestorage

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/zhstats/genrep/internal/config"
	"github.com/zhstats/genrep/internal/database"
	gormstorage "github.com/zhstats/genrep/internal/storage/gorm"
)

// Backend wraps the GORM backend for SQLite-specific behavior.
type Backend struct {
	*gormstorage.Backend
	db       *database.Manager
	cfg      config.SQLiteConfig
	log      zerolog.Logger
	stopChan chan struct{}
}

// New creates a new SQLite storage backend. matchKey may be nil.
func New(cfg config.SQLiteConfig, log zerolog.Logger, matchKey func(string) string) (*Backend, error) {
	db := database.NewManager(log)
	if err := db.Connect(database.DriverSQLite, ""); err != nil {
		return nil, fmt.Errorf("failed to create in-memory SQLite DB: %w", err)
	}
	db.SqliteFilePath = cfg.Path

	return &Backend{
		Backend: gormstorage.New(gormstorage.Dependencies{
			DB:       db.DB,
			Logger:   log,
			MatchKey: matchKey,
		}),
		db:       db,
		cfg:      cfg,
		log:      log,
		stopChan: make(chan struct{}),
	}, nil
}

// Init initializes the embedded GORM backend and starts the dump goroutine.
func (b *Backend) Init() error {
	if err := b.Backend.Init(); err != nil {
		return err
	}

	if b.cfg.Path != "" && b.cfg.DumpInterval > 0 {
		go b.dumpLoop()
	}
	return nil
}

// Close stops the dump goroutine, flushes the GORM backend and writes the
// final dump.
func (b *Backend) Close() error {
	close(b.stopChan)
	if err := b.Backend.Close(); err != nil {
		return err
	}
	if b.cfg.Path != "" {
		if err := b.db.DumpMemoryToDisk(); err != nil {
			return err
		}
	}
	return b.db.Close()
}

// dumpLoop periodically dumps the in-memory SQLite database to disk.
// VACUUM INTO takes a point-in-time snapshot.
func (b *Backend) dumpLoop() {
	ticker := time.NewTicker(b.cfg.DumpInterval)
	defer ticker.Stop()

	for {
		select {
		case <-b.stopChan:
			return
		case <-ticker.C:
			if err := b.Flush(); err != nil {
				continue
			}
			if err := b.db.DumpMemoryToDisk(); err != nil {
				b.log.Error().Err(err).Msg("Error dumping to disk")
			}
		}
	}
}
