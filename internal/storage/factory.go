// internal/storage/factory.go
package storage

import (
	"fmt"
	"log/slog"

	"github.com/rs/zerolog"

	"github.com/zhstats/genrep/internal/config"
	gormstorage "github.com/zhstats/genrep/internal/storage/gorm"
	"github.com/zhstats/genrep/internal/storage/memory"
	"github.com/zhstats/genrep/internal/storage/postgres"
	sqlitestorage "github.com/zhstats/genrep/internal/storage/sqlite"
	"github.com/zhstats/genrep/internal/storage/websocket"
)

// Dependencies are handed to the backend the configuration selects.
type Dependencies struct {
	Logger   *slog.Logger
	DBLogger zerolog.Logger
	// MatchKey maps a replay path to its duplicate-index key. Optional.
	MatchKey func(path string) string
	Version  string
}

// compile-time interface checks
var (
	_ Backend  = (*memory.Backend)(nil)
	_ Exporter = (*memory.Backend)(nil)
	_ Backend  = (*gormstorage.Backend)(nil)
	_ Backend  = (*sqlitestorage.Backend)(nil)
	_ Backend  = (*postgres.Backend)(nil)
	_ Backend  = (*websocket.Backend)(nil)
)

// NewBackend creates a storage backend based on configuration
func NewBackend(cfg config.StorageConfig, deps Dependencies) (Backend, error) {
	switch cfg.Type {
	case "postgres":
		return postgres.New(deps.DBLogger, cfg.SQLite.Path, deps.MatchKey)
	case "sqlite":
		return sqlitestorage.New(cfg.SQLite, deps.DBLogger, deps.MatchKey)
	case "websocket":
		if cfg.Websocket.URL == "" {
			return nil, fmt.Errorf("websocket storage needs storage.websocket.url")
		}
		return websocket.New(websocket.Config{
			URL:        cfg.Websocket.URL,
			Secret:     cfg.Websocket.Secret,
			AckTimeout: cfg.Websocket.AckTimeout,
			Source:     "genrep",
			Version:    deps.Version,
		}, deps.Logger), nil
	case "memory":
		return memory.New(cfg.Memory), nil
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}
