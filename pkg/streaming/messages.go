// Package streaming defines the messages exchanged with a record collector
// over a websocket.
package streaming

import (
	"encoding/json"
	"time"
)

// Message type constants matching the streaming protocol.
const (
	TypeStartBatch = "start_batch"
	TypeRecord     = "record"
	TypeEndBatch   = "end_batch"
	TypeAck        = "ack"
)

// Envelope wraps all messages sent over the WebSocket.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// AckMessage is the server's acknowledgement response.
type AckMessage struct {
	Type  string `json:"type"` // always "ack"
	For   string `json:"for"`  // the message type being acknowledged
	Error string `json:"error,omitempty"`
}

// StartBatchPayload opens a batch of records.
type StartBatchPayload struct {
	Source    string    `json:"source"`
	Version   string    `json:"version"`
	StartedAt time.Time `json:"startedAt"`
}

// EndBatchPayload closes a batch.
type EndBatchPayload struct {
	Records int `json:"records"`
}
