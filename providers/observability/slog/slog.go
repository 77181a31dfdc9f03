// Package slog reports mealscan observability signals through log/slog.
package slog

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/leofalp/mealscan/providers/observability"
)

// Observer implements observability.Provider on an *slog.Logger.
//
// A span produces one record when it ends: INFO when it succeeded, WARN when
// its status is an error. The record carries the span's duration, status,
// attributes and recorded errors. Span events are logged at DEBUG as they
// happen. Counters and histograms are aggregated in memory; see [Observer.Stats]
// and [Observer.LogSummary].
type Observer struct {
	logger *slog.Logger

	mu         sync.Mutex
	counters   map[string]*counter
	histograms map[string]*histogram
}

var _ observability.Provider = (*Observer)(nil)

// New wraps logger. A nil logger means slog.Default().
func New(logger *slog.Logger) *Observer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Observer{
		logger:     logger,
		counters:   make(map[string]*counter),
		histograms: make(map[string]*histogram),
	}
}

func (o *Observer) StartSpan(ctx context.Context, name string, attrs ...observability.Attribute) (context.Context, observability.Span) {
	s := &span{
		observer: o,
		ctx:      ctx,
		name:     name,
		start:    time.Now(),
		attrs:    append([]observability.Attribute(nil), attrs...),
	}
	o.logger.LogAttrs(ctx, slog.LevelDebug, "span started", appendAttrs([]slog.Attr{slog.String("span", name)}, attrs)...)
	return observability.ContextWithSpan(ctx, s), s
}

type span struct {
	observer *Observer
	ctx      context.Context
	name     string
	start    time.Time

	mu          sync.Mutex
	attrs       []observability.Attribute
	status      observability.StatusCode
	description string
	errs        []string
	events      int
	ended       bool
}

// End logs the span once; later calls are ignored.
func (s *span) End() {
	s.mu.Lock()
	if s.ended {
		s.mu.Unlock()
		return
	}
	s.ended = true

	level := slog.LevelInfo
	if s.status == observability.StatusError {
		level = slog.LevelWarn
	}

	record := []slog.Attr{
		slog.String("span", s.name),
		slog.Duration("duration", time.Since(s.start)),
		slog.String(observability.AttrStatus, s.status.String()),
	}
	if s.description != "" {
		record = append(record, slog.String(observability.AttrStatusDescription, s.description))
	}
	if s.events > 0 {
		record = append(record, slog.Int("events", s.events))
	}
	record = appendAttrs(record, s.attrs)
	if len(s.errs) > 0 {
		record = append(record, slog.Any("errors", s.errs))
	}
	s.mu.Unlock()

	s.observer.logger.LogAttrs(s.ctx, level, "span ended", record...)
}

// SetAttributes overwrites attributes already set under the same key.
func (s *span) SetAttributes(attrs ...observability.Attribute) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, attr := range attrs {
		replaced := false
		for i := range s.attrs {
			if s.attrs[i].Key == attr.Key {
				s.attrs[i] = attr
				replaced = true
				break
			}
		}
		if !replaced {
			s.attrs = append(s.attrs, attr)
		}
	}
}

func (s *span) SetStatus(code observability.StatusCode, description string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = code
	s.description = description
}

func (s *span) RecordError(err error) {
	if err == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errs = append(s.errs, err.Error())
}

func (s *span) AddEvent(name string, attrs ...observability.Attribute) {
	s.mu.Lock()
	s.events++
	s.mu.Unlock()

	record := appendAttrs([]slog.Attr{slog.String("span", s.name), slog.String("event", name)}, attrs)
	s.observer.logger.LogAttrs(s.ctx, slog.LevelDebug, "span event", record...)
}

func (o *Observer) Debug(ctx context.Context, msg string, attrs ...observability.Attribute) {
	o.log(ctx, slog.LevelDebug, msg, attrs)
}

func (o *Observer) Info(ctx context.Context, msg string, attrs ...observability.Attribute) {
	o.log(ctx, slog.LevelInfo, msg, attrs)
}

func (o *Observer) Warn(ctx context.Context, msg string, attrs ...observability.Attribute) {
	o.log(ctx, slog.LevelWarn, msg, attrs)
}

func (o *Observer) Error(ctx context.Context, msg string, attrs ...observability.Attribute) {
	o.log(ctx, slog.LevelError, msg, attrs)
}

func (o *Observer) log(ctx context.Context, level slog.Level, msg string, attrs []observability.Attribute) {
	if !o.logger.Enabled(ctx, level) {
		return
	}
	o.logger.LogAttrs(ctx, level, msg, appendAttrs(make([]slog.Attr, 0, len(attrs)), attrs)...)
}

func appendAttrs(dst []slog.Attr, attrs []observability.Attribute) []slog.Attr {
	for _, attr := range attrs {
		dst = append(dst, slog.Any(attr.Key, attr.Value))
	}
	return dst
}
