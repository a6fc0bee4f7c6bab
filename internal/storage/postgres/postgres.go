// Package postgres implements the storage.Backend interface on PostgreSQL
// through the GORM backend.
package postgres

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/zhstats/genrep/internal/database"
	gormstorage "github.com/zhstats/genrep/internal/storage/gorm"
)

// Backend writes records to the db.* PostgreSQL database.
type Backend struct {
	*gormstorage.Backend
	db *database.Manager
}

// New connects to PostgreSQL. When the server cannot be reached the
// records go to the sqlite file at fallbackPath instead.
func New(log zerolog.Logger, fallbackPath string, matchKey func(string) string) (*Backend, error) {
	db := database.NewManager(log)
	if err := db.Connect(database.DriverPostgres, fallbackPath); err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	if db.Driver != database.DriverPostgres {
		log.Warn().Str("path", fallbackPath).Msg("Postgres unavailable, storing records in SQLite")
	}

	return &Backend{
		Backend: gormstorage.New(gormstorage.Dependencies{
			DB:       db.DB,
			Logger:   log,
			MatchKey: matchKey,
		}),
		db: db,
	}, nil
}

// Driver reports the database actually in use.
func (b *Backend) Driver() string {
	return b.db.Driver
}

// Close flushes pending rows and closes the connection.
func (b *Backend) Close() error {
	if err := b.Backend.Close(); err != nil {
		return err
	}
	return b.db.Close()
}
