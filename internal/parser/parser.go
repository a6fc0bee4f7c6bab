package parser

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/zhstats/genrep/pkg/core"
)

// Replay is the raw decode of one file before slot resolution.
type Replay struct {
	Header   core.Header
	Options  core.MatchOptions
	Body     []byte
	Messages []core.Message
	// SlotErrors lists the slot descriptors that could not be read.
	SlotErrors []error
	// StreamErr is set when the message stream ended early.
	StreamErr error
}

// Truncated reports whether the message stream was cut short.
func (r *Replay) Truncated() bool {
	return r.StreamErr != nil
}

// Parser decodes replay files.
type Parser struct {
	logger *slog.Logger
}

// NewParser creates a new parser
func NewParser(logger *slog.Logger) *Parser {
	if logger == nil {
		logger = slog.Default()
	}
	return &Parser{logger: logger}
}

// ParseHeader decodes the header and match options without touching the
// message stream.
func (p *Parser) ParseHeader(data []byte) (*Replay, error) {
	c := NewCursor(data)
	h, err := DecodeHeader(c)
	if err != nil {
		return nil, fmt.Errorf("decode header: %w", err)
	}
	opts, slotErrs := ParseMatchOptions(h.MatchOptions, h.Disconnects)
	for _, e := range slotErrs {
		p.logger.Debug("dropped slot descriptor", "error", e)
	}
	return &Replay{Header: h, Options: opts, Body: c.Rest(), SlotErrors: slotErrs}, nil
}

// Parse decodes a full replay. Header errors are fatal; message stream
// errors are kept on the result.
func (p *Parser) Parse(data []byte) (*Replay, error) {
	r, err := p.ParseHeader(data)
	if err != nil {
		return nil, err
	}
	r.Messages, r.StreamErr = DecodeMessages(r.Body)
	if r.StreamErr != nil {
		var unknown *UnknownArgumentTypeError
		level := slog.LevelWarn
		if errors.As(r.StreamErr, &unknown) {
			level = slog.LevelInfo
		}
		p.logger.Log(context.Background(), level, "message stream truncated",
			"decoded", len(r.Messages), "error", r.StreamErr)
	}
	return r, nil
}
