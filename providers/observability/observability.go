package observability

import "context"

// Provider is what the pipeline, the model provider and the meal store report
// through. Code that has none to hand uses [Resolve], which never returns nil.
type Provider interface {
	Tracer
	Metrics
	Logger
}

// Tracer opens a span around one extraction, one model call or one insert.
type Tracer interface {
	StartSpan(ctx context.Context, name string, attrs ...Attribute) (context.Context, Span)
}

// Span collects attributes, events and a status until End is called.
// Implementations must tolerate calls from several goroutines.
type Span interface {
	End()
	SetAttributes(attrs ...Attribute)
	SetStatus(code StatusCode, description string)
	RecordError(err error)
	AddEvent(name string, attrs ...Attribute)
}

type StatusCode int

const (
	StatusUnset StatusCode = iota
	StatusOK
	StatusError
)

func (c StatusCode) String() string {
	switch c {
	case StatusOK:
		return "ok"
	case StatusError:
		return "error"
	default:
		return "unset"
	}
}

// Finish marks span OK when err is nil. Otherwise it records err and sets an
// error status with description.
func Finish(span Span, err error, description string) {
	if err == nil {
		span.SetStatus(StatusOK, "")
		return
	}
	span.RecordError(err)
	span.SetStatus(StatusError, description)
}

// Metrics hands out named instruments. Asking twice for the same name yields
// the same instrument.
type Metrics interface {
	Counter(name string) Counter
	Histogram(name string) Histogram
}

// Counter only goes up: extractions run, fallbacks taken, regenerations sent.
type Counter interface {
	Add(ctx context.Context, value int64, attrs ...Attribute)
}

// Histogram records a distribution, such as attempts per extraction.
type Histogram interface {
	Record(ctx context.Context, value float64, attrs ...Attribute)
}

type Logger interface {
	Debug(ctx context.Context, msg string, attrs ...Attribute)
	Info(ctx context.Context, msg string, attrs ...Attribute)
	Warn(ctx context.Context, msg string, attrs ...Attribute)
	Error(ctx context.Context, msg string, attrs ...Attribute)
}
