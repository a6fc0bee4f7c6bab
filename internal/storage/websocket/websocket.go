package websocket

import (
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/goccy/go-json"

	"github.com/zhstats/genrep/pkg/core"
	"github.com/zhstats/genrep/pkg/streaming"
)

// Config holds WebSocket backend configuration.
type Config struct {
	URL        string
	Secret     string
	AckTimeout time.Duration
	// Source names this sender in start_batch.
	Source  string
	Version string
}

// Backend streams decoded records over WebSocket to a collector. Every
// message waits for the collector's ack.
type Backend struct {
	conn   *connection
	cfg    Config
	stored atomic.Int64
}

// New creates a new WebSocket storage backend.
func New(cfg Config, logger *slog.Logger) *Backend {
	if cfg.AckTimeout <= 0 {
		cfg.AckTimeout = defaultAckTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Backend{
		conn: newConnection(logger),
		cfg:  cfg,
	}
}

// Init connects to the WebSocket server and opens a batch.
func (b *Backend) Init() error {
	if err := b.conn.open(b.cfg.URL, b.cfg.Secret); err != nil {
		return err
	}

	data, err := marshalEnvelope(streaming.TypeStartBatch, streaming.StartBatchPayload{
		Source:    b.cfg.Source,
		Version:   b.cfg.Version,
		StartedAt: time.Now().UTC(),
	})
	if err != nil {
		return err
	}

	b.conn.setHello(data)
	return b.conn.request(data, streaming.TypeStartBatch, b.cfg.AckTimeout)
}

// Close ends the batch and disconnects. The connection is closed even when
// end_batch is not acknowledged.
func (b *Backend) Close() error {
	err := b.sendEnvelopeAndWait(streaming.TypeEndBatch, streaming.EndBatchPayload{Records: int(b.stored.Load())})
	b.conn.setHello(nil)

	if cerr := b.conn.close(); err == nil {
		err = cerr
	}
	return err
}

// Store sends rec and waits for the ack.
func (b *Backend) Store(rec *core.Record) error {
	if err := b.sendEnvelopeAndWait(streaming.TypeRecord, rec); err != nil {
		return fmt.Errorf("stream %s: %w", rec.Path, err)
	}
	b.stored.Add(1)
	return nil
}

// Stored returns the number of acknowledged records.
func (b *Backend) Stored() int {
	return int(b.stored.Load())
}

// marshalEnvelope builds a JSON-encoded Envelope from a message type and payload.
func marshalEnvelope(msgType string, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", msgType, err)
	}
	env := streaming.Envelope{Type: msgType, Payload: raw}
	data, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("marshal %s envelope: %w", msgType, err)
	}
	return data, nil
}

// sendEnvelopeAndWait marshals the payload and waits for a server ack.
func (b *Backend) sendEnvelopeAndWait(msgType string, payload any) error {
	data, err := marshalEnvelope(msgType, payload)
	if err != nil {
		return err
	}
	return b.conn.request(data, msgType, b.cfg.AckTimeout)
}
