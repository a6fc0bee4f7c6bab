// internal/storage/storage.go
package storage

import "github.com/zhstats/genrep/pkg/core"

// Backend is the interface all storage implementations must satisfy
type Backend interface {
	// Lifecycle
	Init() error
	Close() error

	// Store persists one decoded replay. Storing the same path again
	// replaces the earlier record.
	Store(rec *core.Record) error
}

// Exporter is an optional interface for backends that write files.
type Exporter interface {
	LastExportPath() string
}
