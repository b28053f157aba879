// Package testlog provides a slog.Logger that routes records to testing.TB.Log,
// so log output is attributed to the test that produced it.
package testlog

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

type options struct {
	writers    []io.Writer
	handlerOpt *slog.HandlerOptions
}

type Option func(*options)

func WithSlogHandlerOptions(handlerOpt *slog.HandlerOptions) Option {
	return func(opt *options) {
		opt.handlerOpt = handlerOpt
	}
}

// WithWriters copies every formatted record to the given writers as well.
func WithWriters(writers ...io.Writer) Option {
	return func(opt *options) {
		opt.writers = writers
	}
}

// New creates a slog text logger at debug level unless overridden.
func New(tb testing.TB, opts ...Option) *slog.Logger {
	tb.Helper()

	opt := options{
		handlerOpt: &slog.HandlerOptions{Level: slog.LevelDebug},
	}
	for _, fn := range opts {
		if fn != nil {
			fn(&opt)
		}
	}

	buf := bytes.NewBuffer(nil)
	w := io.MultiWriter(append([]io.Writer{buf}, opt.writers...)...)

	return slog.New(&handler{
		tb:       tb,
		delegate: slog.NewTextHandler(w, opt.handlerOpt),
		buffer:   buf,
		mu:       &sync.Mutex{},
	})
}

type handler struct {
	tb       testing.TB
	delegate slog.Handler
	buffer   *bytes.Buffer
	// shared with derived handlers, which write through the same buffer
	mu *sync.Mutex
}

func (h *handler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.delegate.Enabled(ctx, level)
}

func (h *handler) Handle(ctx context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.delegate.Handle(ctx, r); err != nil {
		return err
	}

	content := h.buffer.String()
	h.buffer.Reset()

	h.tb.Helper()
	h.tb.Log(strings.TrimSuffix(content, "\n"))

	return nil
}

func (h *handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &handler{
		tb:       h.tb,
		delegate: h.delegate.WithAttrs(attrs),
		buffer:   h.buffer,
		mu:       h.mu,
	}
}

func (h *handler) WithGroup(name string) slog.Handler {
	return &handler{
		tb:       h.tb,
		delegate: h.delegate.WithGroup(name),
		buffer:   h.buffer,
		mu:       h.mu,
	}
}
