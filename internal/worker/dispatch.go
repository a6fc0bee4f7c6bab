package worker

import (
	"errors"
	"fmt"

	"github.com/zhstats/genrep/internal/dispatcher"
	"github.com/zhstats/genrep/internal/stats"
	"github.com/zhstats/genrep/internal/storage"
	"github.com/zhstats/genrep/pkg/core"
)

// RecordWriter writes a record to an external metrics store.
type RecordWriter interface {
	WriteRecord(rec *core.Record) error
}

// Sinks are the consumers of decoded records. Nil sinks are not registered.
type Sinks struct {
	Backend storage.Backend
	Stats   *stats.Aggregator
	Influx  RecordWriter
}

// RegisterHandlers registers a handler per configured sink with the dispatcher.
func (m *Manager) RegisterHandlers(d *dispatcher.Dispatcher, sinks Sinks) {
	// Aggregation is cheap and must be complete when the report is written - sync
	if sinks.Stats != nil {
		d.Register(dispatcher.TopicStats, statsHandler(sinks.Stats))
	}

	// Storage and metrics talk to external systems - buffered, never dropped
	if sinks.Backend != nil {
		d.Register(dispatcher.TopicRecord, storeHandler(sinks.Backend), dispatcher.Buffered(1000), dispatcher.Blocking(), dispatcher.Logged())
	}
	if sinks.Influx != nil {
		d.Register(dispatcher.TopicInflux, influxHandler(sinks.Influx), dispatcher.Buffered(1000), dispatcher.Blocking(), dispatcher.Logged())
	}
}

func statsHandler(agg *stats.Aggregator) dispatcher.HandlerFunc {
	return func(e dispatcher.Event) (any, error) {
		err := agg.Add(e.Record)
		if errors.Is(err, stats.ErrNoWinner) {
			return nil, nil
		}
		return nil, err
	}
}

func storeHandler(b storage.Backend) dispatcher.HandlerFunc {
	return func(e dispatcher.Event) (any, error) {
		if err := b.Store(e.Record); err != nil {
			return nil, fmt.Errorf("failed to store record: %w", err)
		}
		return nil, nil
	}
}

func influxHandler(w RecordWriter) dispatcher.HandlerFunc {
	return func(e dispatcher.Event) (any, error) {
		if err := w.WriteRecord(e.Record); err != nil {
			return nil, fmt.Errorf("failed to write match point: %w", err)
		}
		return nil, nil
	}
}
