package main

import (
	"context"
	"fmt"

	"github.com/zhstats/genrep/internal/config"
	"github.com/zhstats/genrep/internal/influx"
	"github.com/zhstats/genrep/internal/storage"
)

// initStorage creates and initializes the configured record sink.
func initStorage(matchKey func(path string) string) (storage.Backend, error) {
	storageCfg := config.GetStorageConfig()

	backend, err := storage.NewBackend(storageCfg, storage.Dependencies{
		Logger:   Logger,
		DBLogger: DBLogger,
		MatchKey: matchKey,
		Version:  Version,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create storage backend: %w", err)
	}
	if err := backend.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize %s storage: %w", storageCfg.Type, err)
	}
	Logger.Info("Storage backend initialized", "type", storageCfg.Type)
	return backend, nil
}

// initInflux connects the match metrics writer. It returns nil when InfluxDB
// is disabled. An unreachable server falls back to the gzip backup file.
func initInflux(ctx context.Context) (*influx.Manager, error) {
	influxCfg := config.GetInfluxConfig()
	if !influxCfg.Enabled {
		return nil, nil
	}

	m := influx.NewManager(DBLogger, influxCfg)
	if err := m.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to InfluxDB: %w", err)
	}
	if m.IsValid {
		Logger.Info("InfluxDB connected", "host", influxCfg.Host, "bucket", influxCfg.Bucket)
	} else {
		Logger.Warn("InfluxDB unreachable, writing backup", "path", m.BackupPath)
	}
	return m, nil
}
