package monitor

import (
	"fmt"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultInterval is how often progress is reported.
const DefaultInterval = 5 * time.Second

// Progress counts files through one batch phase. It is safe for concurrent use.
type Progress struct {
	phase   string
	total   int64
	started time.Time

	processed atomic.Int64
	failed    atomic.Int64
}

// NewProgress starts counting a phase of total files.
func NewProgress(phase string, total int) *Progress {
	return &Progress{phase: phase, total: int64(total), started: time.Now()}
}

// Done records one finished file.
func (p *Progress) Done(err error) {
	p.processed.Add(1)
	if err != nil {
		p.failed.Add(1)
	}
}

// Snapshot is a point-in-time view of a Progress.
type Snapshot struct {
	Phase     string
	Processed int64
	Failed    int64
	Total     int64
	Elapsed   time.Duration
}

// Rate returns files per second.
func (s Snapshot) Rate() float64 {
	if s.Elapsed <= 0 {
		return 0
	}
	return float64(s.Processed) / s.Elapsed.Seconds()
}

func (s Snapshot) String() string {
	return fmt.Sprintf("%s: processed %d/%d files (%.1f files/sec), %d failed",
		s.Phase, s.Processed, s.Total, s.Rate(), s.Failed)
}

// Snapshot reads the counters.
func (p *Progress) Snapshot() Snapshot {
	return Snapshot{
		Phase:     p.phase,
		Processed: p.processed.Load(),
		Failed:    p.failed.Load(),
		Total:     p.total,
		Elapsed:   time.Since(p.started),
	}
}

// Dependencies holds all dependencies for the monitor service
type Dependencies struct {
	Logger   *slog.Logger
	Interval time.Duration
	// StatusFile, when set, is rewritten with the latest snapshot on every tick.
	StatusFile string
}

// Service periodically reports the progress of a batch phase.
type Service struct {
	deps      Dependencies
	isRunning bool
	mu        sync.RWMutex
	stopChan  chan struct{}
	done      chan struct{}
}

// NewService creates a new monitor service
func NewService(deps Dependencies) *Service {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Interval <= 0 {
		deps.Interval = DefaultInterval
	}
	return &Service{deps: deps}
}

// IsRunning returns whether the monitor is running
func (s *Service) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// Start reports p until Stop is called. Starting a running monitor is a no-op.
func (s *Service) Start(p *Progress) {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return
	}
	s.isRunning = true
	s.stopChan = make(chan struct{})
	s.done = make(chan struct{})
	stop, done := s.stopChan, s.done
	s.mu.Unlock()

	go func() {
		defer close(done)
		ticker := time.NewTicker(s.deps.Interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				s.report(p.Snapshot())
				return
			case <-ticker.C:
				s.report(p.Snapshot())
			}
		}
	}()
}

// Stop reports a final snapshot and waits for the monitor to exit.
func (s *Service) Stop() {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return
	}
	s.isRunning = false
	close(s.stopChan)
	done := s.done
	s.mu.Unlock()
	<-done
}

func (s *Service) report(snap Snapshot) {
	s.deps.Logger.Info("progress",
		"phase", snap.Phase,
		"processed", snap.Processed,
		"total", snap.Total,
		"failed", snap.Failed,
		"rate", fmt.Sprintf("%.1f", snap.Rate()))

	if s.deps.StatusFile == "" {
		return
	}
	if err := os.WriteFile(s.deps.StatusFile, []byte(snap.String()+"\n"), 0o644); err != nil {
		s.deps.Logger.Error("Error writing status file", "error", err)
	}
}
