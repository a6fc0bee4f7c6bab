// internal/storage/memory/memory.go
package memory

import (
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/zhstats/genrep/internal/config"
	"github.com/zhstats/genrep/pkg/core"
)

// Backend keeps records in memory and exports each one to a JSON file.
type Backend struct {
	cfg     config.MemoryConfig
	records map[string]*core.Record // keyed by replay path

	lastExportPath string
	mu             sync.RWMutex
}

// New creates a new memory backend
func New(cfg config.MemoryConfig) *Backend {
	return &Backend{
		cfg:     cfg,
		records: make(map[string]*core.Record),
	}
}

// Init creates the output directory.
func (b *Backend) Init() error {
	if b.cfg.OutputDir == "" {
		return nil
	}
	if err := os.MkdirAll(b.cfg.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	return nil
}

// Close cleans up resources
func (b *Backend) Close() error {
	return nil
}

// Store keeps rec and writes its export file when an output directory is set.
func (b *Backend) Store(rec *core.Record) error {
	if rec == nil {
		return fmt.Errorf("nil record")
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.records[rec.Path] = rec
	if b.cfg.OutputDir == "" {
		return nil
	}
	return b.exportJSON(rec)
}

// Records returns the stored records sorted by path.
func (b *Backend) Records() []*core.Record {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]*core.Record, 0, len(b.records))
	for _, r := range b.records {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// Record returns the record stored for path.
func (b *Backend) Record(path string) (*core.Record, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	r, ok := b.records[path]
	return r, ok
}

// LastExportPath returns the file written by the latest Store.
func (b *Backend) LastExportPath() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lastExportPath
}
