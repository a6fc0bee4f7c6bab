// Package worker fans replay files out over a bounded pool of goroutines.
package worker

import (
	"context"
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/zhstats/genrep/internal/decode"
	"github.com/zhstats/genrep/internal/dispatcher"
	"github.com/zhstats/genrep/internal/monitor"
	"github.com/zhstats/genrep/internal/queue"
	"github.com/zhstats/genrep/pkg/core"
)

// Result is the outcome of decoding one file. Exactly one of Record and
// Err is set.
type Result struct {
	Path   string
	Record *core.Record
	Err    error
}

// PeekResult is the outcome of reading one file's header.
type PeekResult struct {
	Path    string
	Summary *decode.Summary
	Err     error
}

// Dependencies holds all dependencies for the worker manager
type Dependencies struct {
	Decoder *decode.Service
	// Dispatcher receives every decoded record. Optional.
	Dispatcher *dispatcher.Dispatcher
	Logger     *slog.Logger
}

// Manager runs decode jobs with bounded parallelism.
type Manager struct {
	deps  Dependencies
	limit int
}

// NewManager creates a new worker manager. A limit below one uses the
// number of CPUs.
func NewManager(deps Dependencies, limit int) *Manager {
	if limit < 1 {
		limit = runtime.NumCPU()
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	return &Manager{deps: deps, limit: limit}
}

// Limit returns the number of concurrent jobs.
func (m *Manager) Limit() int {
	return m.limit
}

// run calls job for every path with at most m.limit in flight. A failing
// job never stops the batch; only ctx does.
func run[T any](ctx context.Context, m *Manager, paths []string, progress *monitor.Progress, job func(string) (T, error), wrap func(string, T, error) T) ([]T, error) {
	results := queue.New[T](len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.limit)

	for _, path := range paths {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			v, err := job(path)
			if progress != nil {
				progress.Done(err)
			}
			results.Push(path, wrap(path, v, err))
			return nil
		})
	}
	// gctx is always cancelled once Wait returns
	err := g.Wait()
	if err == nil {
		err = ctx.Err()
	}
	return results.Sorted(), err
}

// Decode decodes paths in parallel. Results are ordered by path whatever
// order the jobs finished in. Decoded records are published to the
// dispatcher as they complete.
func (m *Manager) Decode(ctx context.Context, paths []string, progress *monitor.Progress) ([]Result, error) {
	return run(ctx, m, paths, progress,
		func(path string) (Result, error) {
			rec, err := m.deps.Decoder.DecodeFile(path)
			if err != nil {
				m.deps.Logger.Debug("decode failed", "path", path, "error", err)
				return Result{}, err
			}
			if m.deps.Dispatcher != nil {
				if err := m.deps.Dispatcher.Publish(rec); err != nil {
					m.deps.Logger.Warn("publishing record", "path", path, "error", err)
				}
			}
			return Result{Record: rec}, nil
		},
		func(path string, r Result, err error) Result {
			r.Path, r.Err = path, err
			return r
		},
	)
}

// Peek reads the headers of paths in parallel, ordered by path.
func (m *Manager) Peek(ctx context.Context, paths []string, progress *monitor.Progress) ([]PeekResult, error) {
	return run(ctx, m, paths, progress,
		func(path string) (PeekResult, error) {
			sum, err := m.deps.Decoder.PeekFile(path)
			return PeekResult{Summary: sum}, err
		},
		func(path string, r PeekResult, err error) PeekResult {
			r.Path, r.Err = path, err
			return r
		},
	)
}
