package logging

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// ContextProvider returns attributes added to every record at log time.
type ContextProvider func() []slog.Attr

// ContextHandler wraps another handler and injects dynamic attributes.
type ContextHandler struct {
	inner    slog.Handler
	provider ContextProvider
}

// NewContextHandler creates a handler that adds the provider's attributes to each record.
func NewContextHandler(inner slog.Handler, provider ContextProvider) *ContextHandler {
	return &ContextHandler{inner: inner, provider: provider}
}

func (h *ContextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *ContextHandler) Handle(ctx context.Context, r slog.Record) error {
	if h.provider != nil {
		for _, a := range h.provider() {
			if a.Key != "" {
				r.AddAttrs(a)
			}
		}
	}
	return h.inner.Handle(ctx, r)
}

func (h *ContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ContextHandler{inner: h.inner.WithAttrs(attrs), provider: h.provider}
}

func (h *ContextHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	return &ContextHandler{inner: h.inner.WithGroup(name), provider: h.provider}
}

// Phase holds the name of the running batch phase. The zero value is
// ready to use and logs no attribute until Set is called.
type Phase struct {
	name atomic.Pointer[string]
}

// Set changes the phase reported in subsequent records.
func (p *Phase) Set(name string) {
	p.name.Store(&name)
}

// Attrs is a ContextProvider reporting the current phase.
func (p *Phase) Attrs() []slog.Attr {
	if n := p.name.Load(); n != nil && *n != "" {
		return []slog.Attr{slog.String("phase", *n)}
	}
	return nil
}
