package slog

import (
	"context"
	"log/slog"
	"math"
	"sync"

	"github.com/leofalp/mealscan/providers/observability"
)

// Summary aggregates the values recorded on one histogram.
type Summary struct {
	Count int64
	Sum   float64
	Min   float64
	Max   float64
}

// Mean is Sum/Count, or 0 for an empty summary.
func (s Summary) Mean() float64 {
	if s.Count == 0 {
		return 0
	}
	return s.Sum / float64(s.Count)
}

// Stats is a point-in-time copy of every instrument.
type Stats struct {
	Counters   map[string]int64
	Histograms map[string]Summary
}

func (o *Observer) Counter(name string) observability.Counter {
	o.mu.Lock()
	defer o.mu.Unlock()

	c, ok := o.counters[name]
	if !ok {
		c = &counter{name: name, logger: o.logger}
		o.counters[name] = c
	}
	return c
}

func (o *Observer) Histogram(name string) observability.Histogram {
	o.mu.Lock()
	defer o.mu.Unlock()

	h, ok := o.histograms[name]
	if !ok {
		h = &histogram{name: name, logger: o.logger}
		o.histograms[name] = h
	}
	return h
}

// CounterValue returns the named counter, or 0 if it was never touched.
func (o *Observer) CounterValue(name string) int64 {
	return o.Stats().Counters[name]
}

// Stats copies the current value of every counter and histogram.
func (o *Observer) Stats() Stats {
	o.mu.Lock()
	defer o.mu.Unlock()

	stats := Stats{
		Counters:   make(map[string]int64, len(o.counters)),
		Histograms: make(map[string]Summary, len(o.histograms)),
	}
	for name, c := range o.counters {
		c.mu.Lock()
		stats.Counters[name] = c.value
		c.mu.Unlock()
	}
	for name, h := range o.histograms {
		h.mu.Lock()
		stats.Histograms[name] = h.summary
		h.mu.Unlock()
	}
	return stats
}

// LogSummary logs one INFO record describing the extractions seen so far:
// how many ran, how many fell back, how many regenerations they needed and
// the mean and worst attempt counts. Nothing is logged before the first
// extraction.
func (o *Observer) LogSummary(ctx context.Context) {
	stats := o.Stats()
	extractions := stats.Counters[observability.MetricExtractCount]
	if extractions == 0 {
		return
	}
	attempts := stats.Histograms[observability.MetricExtractAttempts]

	o.logger.LogAttrs(ctx, slog.LevelInfo, "extraction summary",
		slog.Int64("extractions", extractions),
		slog.Int64("fallbacks", stats.Counters[observability.MetricExtractFallbackCount]),
		slog.Int64("regenerations", stats.Counters[observability.MetricExtractRegenerations]),
		slog.Float64("attempts_mean", math.Round(attempts.Mean()*100)/100),
		slog.Float64("attempts_max", attempts.Max),
	)
}

type counter struct {
	name   string
	logger *slog.Logger

	mu    sync.Mutex
	value int64
}

func (c *counter) Add(ctx context.Context, value int64, attrs ...observability.Attribute) {
	c.mu.Lock()
	c.value += value
	current := c.value
	c.mu.Unlock()

	record := []slog.Attr{slog.String("metric", c.name), slog.Int64("value", current)}
	c.logger.LogAttrs(ctx, slog.LevelDebug, "counter", appendAttrs(record, attrs)...)
}

type histogram struct {
	name   string
	logger *slog.Logger

	mu      sync.Mutex
	summary Summary
}

func (h *histogram) Record(ctx context.Context, value float64, attrs ...observability.Attribute) {
	h.mu.Lock()
	s := &h.summary
	if s.Count == 0 || value < s.Min {
		s.Min = value
	}
	if s.Count == 0 || value > s.Max {
		s.Max = value
	}
	s.Count++
	s.Sum += value
	h.mu.Unlock()

	record := []slog.Attr{slog.String("metric", h.name), slog.Float64("value", value)}
	h.logger.LogAttrs(ctx, slog.LevelDebug, "histogram", appendAttrs(record, attrs)...)
}
