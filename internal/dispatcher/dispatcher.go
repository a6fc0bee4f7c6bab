package dispatcher

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/zhstats/genrep/pkg/core"
)

// Topics records are published on.
const (
	TopicRecord = "record"
	TopicStats  = "stats"
	TopicInflux = "influx"
)

// Event carries one decoded record to a sink.
type Event struct {
	Topic     string
	Record    *core.Record
	Timestamp time.Time
}

// HandlerFunc processes an event and returns a result.
type HandlerFunc func(Event) (any, error)

// Logger interface for pluggable logging.
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
}

// Option configures handler registration.
type Option func(*config)

type config struct {
	bufferSize int
	blocking   bool
	logged     bool
}

// Buffered makes the handler async with a queue of the given size.
func Buffered(size int) Option {
	return func(c *config) {
		c.bufferSize = size
	}
}

// Blocking makes a buffered handler block when the queue is full instead of dropping.
func Blocking() Option {
	return func(c *config) {
		c.blocking = true
	}
}

// Logged adds debug logging to the handler.
func Logged() Option {
	return func(c *config) {
		c.logged = true
	}
}

// Dispatcher routes records to the sinks registered per topic.
type Dispatcher struct {
	handlers map[string]HandlerFunc
	order    []string
	logger   Logger

	queueSize metric.Int64ObservableGauge
	processed metric.Int64Counter
	failed    metric.Int64Counter
	dropped   metric.Int64Counter

	mu      sync.RWMutex
	buffers map[string]chan Event
	closed  bool
	wg      sync.WaitGroup
}

// New creates a new Dispatcher with the given logger.
// Uses the global OTel meter for metrics (no-op if not configured).
func New(logger Logger) (*Dispatcher, error) {
	d := &Dispatcher{
		handlers: make(map[string]HandlerFunc),
		buffers:  make(map[string]chan Event),
		logger:   logger,
	}

	m := meter()

	var err error

	d.queueSize, err = m.Int64ObservableGauge(
		"dispatcher.queue.size",
		metric.WithDescription("Current number of records waiting per topic"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating queue size gauge: %w", err)
	}

	_, err = m.RegisterCallback(
		func(ctx context.Context, o metric.Observer) error {
			d.mu.RLock()
			defer d.mu.RUnlock()
			for topic, buf := range d.buffers {
				o.ObserveInt64(d.queueSize, int64(len(buf)),
					metric.WithAttributes(attribute.String("topic", topic)))
			}
			return nil
		},
		d.queueSize,
	)
	if err != nil {
		return nil, fmt.Errorf("registering queue callback: %w", err)
	}

	d.processed, err = m.Int64Counter(
		"dispatcher.records.processed",
		metric.WithDescription("Total records handled by sinks"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating processed counter: %w", err)
	}

	d.failed, err = m.Int64Counter(
		"dispatcher.records.failed",
		metric.WithDescription("Total records a buffered sink returned an error for"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating failed counter: %w", err)
	}

	d.dropped, err = m.Int64Counter(
		"dispatcher.records.dropped",
		metric.WithDescription("Total records dropped due to full queue"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating dropped counter: %w", err)
	}

	return d, nil
}

// Register adds a handler for the given topic with optional configuration.
// Registering a topic twice replaces the handler.
func (d *Dispatcher) Register(topic string, h HandlerFunc, opts ...Option) {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}

	handler := h

	if cfg.bufferSize > 0 {
		handler = d.withBuffer(topic, cfg.bufferSize, cfg.blocking, handler)
	}

	if cfg.logged {
		handler = d.withLogging(topic, handler)
	}

	if _, ok := d.handlers[topic]; !ok {
		d.order = append(d.order, topic)
	}
	d.handlers[topic] = handler
}

// Dispatch routes an event to its registered handler.
func (d *Dispatcher) Dispatch(e Event) (any, error) {
	h, ok := d.handlers[e.Topic]
	if !ok {
		return nil, fmt.Errorf("unknown topic: %s", e.Topic)
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}
	return h(e)
}

// Publish sends rec to every registered topic in registration order.
func (d *Dispatcher) Publish(rec *core.Record) error {
	now := time.Now()
	var errs []error
	for _, topic := range d.order {
		if _, err := d.Dispatch(Event{Topic: topic, Record: rec, Timestamp: now}); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// HasHandler returns true if a handler is registered for the topic.
func (d *Dispatcher) HasHandler(topic string) bool {
	_, ok := d.handlers[topic]
	return ok
}

// Topics returns the registered topics in registration order.
func (d *Dispatcher) Topics() []string {
	return append([]string(nil), d.order...)
}

// Close stops accepting buffered events and waits until every queued event
// has been handled.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	for _, buf := range d.buffers {
		close(buf)
	}
	d.mu.Unlock()
	d.wg.Wait()
}

func (d *Dispatcher) withBuffer(topic string, size int, blocking bool, h HandlerFunc) HandlerFunc {
	buffer := make(chan Event, size)

	d.mu.Lock()
	d.buffers[topic] = buffer
	d.mu.Unlock()

	topicAttr := attribute.String("topic", topic)

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		for e := range buffer {
			if _, err := h(e); err != nil {
				d.failed.Add(context.Background(), 1, metric.WithAttributes(topicAttr))
			}
			d.processed.Add(context.Background(), 1, metric.WithAttributes(topicAttr))
		}
	}()

	return func(e Event) (any, error) {
		d.mu.RLock()
		defer d.mu.RUnlock()
		if d.closed {
			return nil, fmt.Errorf("dispatcher closed: %s", topic)
		}
		if blocking {
			buffer <- e
			return "queued", nil
		}
		select {
		case buffer <- e:
			return "queued", nil
		default:
			d.dropped.Add(context.Background(), 1, metric.WithAttributes(topicAttr))
			return nil, fmt.Errorf("queue full: %s", topic)
		}
	}
}

func (d *Dispatcher) withLogging(topic string, h HandlerFunc) HandlerFunc {
	return func(e Event) (any, error) {
		start := time.Now()
		path := ""
		if e.Record != nil {
			path = e.Record.Path
		}
		d.logger.Debug("handling record", "topic", topic, "path", path)

		result, err := h(e)

		if err != nil {
			d.logger.Error("record failed", "topic", topic, "path", path, "duration", time.Since(start), "error", err)
		} else {
			d.logger.Debug("record complete", "topic", topic, "path", path, "duration", time.Since(start))
		}

		return result, err
	}
}
